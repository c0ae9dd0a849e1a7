package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	appfinance "github.com/nexoerp/backend/internal/application/finance"
	appsales "github.com/nexoerp/backend/internal/application/sales"
	"github.com/nexoerp/backend/internal/domain/finance"
	"github.com/nexoerp/backend/internal/infrastructure/config"
	"github.com/nexoerp/backend/internal/infrastructure/event"
	"github.com/nexoerp/backend/internal/infrastructure/logger"
	"github.com/nexoerp/backend/internal/infrastructure/persistence"
	"github.com/nexoerp/backend/internal/interfaces/http/handler"
	"github.com/nexoerp/backend/internal/interfaces/http/middleware"
	"github.com/nexoerp/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer logger.Sync(log)

	log.Info("starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("failed to close database", zap.Error(err))
		}
	}()

	// Repositories
	saleRepo := persistence.NewGormSaleRepository(db.DB, cfg.Folio.SalePrefix)
	entryRepo := persistence.NewGormLedgerEntryRepository(db.DB, cfg.Folio.ReceivablePrefix, cfg.Folio.PayablePrefix)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB, cfg.Folio.PaymentPrefix)

	// Application services
	saleService := appsales.NewSaleService(saleRepo)
	ledgerService := appfinance.NewLedgerService(entryRepo, log, cfg.Ledger.DefaultTermDays)
	ledgerService.SetOverdueGrace(cfg.Ledger.OverdueGraceDays)
	paymentService := appfinance.NewPaymentService(
		paymentRepo,
		entryRepo,
		finance.NewReconciliationCoordinator(),
		log,
		cfg.Ledger.ConflictRetries,
	)
	paymentService.SetTxManager(persistence.NewGormTxManager(db.DB))

	// Event bus: sale lifecycle events open and cancel ledger entries
	bus := event.NewInMemoryEventBus(log)
	bus.Subscribe(appfinance.NewSaleConfirmedHandler(entryRepo, log, cfg.Ledger.DefaultTermDays))
	bus.Subscribe(appfinance.NewSaleCancelledHandler(entryRepo, log))
	saleService.SetEventPublisher(bus)
	ledgerService.SetEventPublisher(bus)
	paymentService.SetEventPublisher(bus)

	// HTTP
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("invalid trusted proxies", zap.Error(err))
	}

	corsConfig := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}

	engine.Use(
		middleware.RequestID(),
		logger.Recovery(log),
		logger.GinMiddleware(log),
		middleware.Secure(),
		middleware.CORSWithConfig(corsConfig),
	)

	engine.GET("/health", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	r := router.NewRouter(engine)
	r.Register(
		handler.NewSaleHandler(saleService).Routes(),
		handler.NewLedgerHandler(ledgerService).Routes(),
		handler.NewPaymentHandler(paymentService).Routes(),
		handler.NewSystemHandler(cfg, db).Routes(),
	)
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("forced shutdown", zap.Error(err))
	}

	log.Info("server stopped")
}

package main

import (
	"go.uber.org/zap"

	"github.com/nexoerp/backend/internal/infrastructure/config"
	"github.com/nexoerp/backend/internal/infrastructure/logger"
	"github.com/nexoerp/backend/internal/infrastructure/persistence"
	"github.com/nexoerp/backend/internal/infrastructure/persistence/models"
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

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("failed to close database", zap.Error(err))
		}
	}()

	log.Info("running migrations", zap.String("database", cfg.Database.DBName))

	if err := db.DB.AutoMigrate(models.AllModels()...); err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}

	log.Info("migrations completed")
}

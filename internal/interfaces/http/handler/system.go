package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nexoerp/backend/internal/infrastructure/config"
	"github.com/nexoerp/backend/internal/infrastructure/persistence"
)

// SystemHandler exposes service health and metadata endpoints
type SystemHandler struct {
	BaseHandler
	cfg       *config.Config
	db        *persistence.Database
	startTime time.Time
}

// NewSystemHandler creates a new system handler
func NewSystemHandler(cfg *config.Config, db *persistence.Database) *SystemHandler {
	return &SystemHandler{
		cfg:       cfg,
		db:        db,
		startTime: time.Now(),
	}
}

// Ping handles GET /system/ping
func (h *SystemHandler) Ping(c *gin.Context) {
	h.Success(c, gin.H{"message": "pong"})
}

// Info handles GET /system/info
func (h *SystemHandler) Info(c *gin.Context) {
	dbStatus := "up"
	if err := h.db.Ping(); err != nil {
		dbStatus = "down"
	}

	info := gin.H{
		"name":     h.cfg.App.Name,
		"env":      h.cfg.App.Env,
		"uptime":   time.Since(h.startTime).Round(time.Second).String(),
		"database": dbStatus,
	}

	if sqlDB, err := h.db.DB.DB(); err == nil {
		stats := sqlDB.Stats()
		info["db_pool"] = gin.H{
			"open_connections": stats.OpenConnections,
			"in_use":           stats.InUse,
			"idle":             stats.Idle,
		}
	}

	h.Success(c, info)
}

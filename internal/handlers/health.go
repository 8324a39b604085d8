package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zfogg/curlmap/backend/internal/logger"
)

// Health reports service liveness and database reachability
// GET /health
func (h *Handlers) Health(c *gin.Context) {
	status := http.StatusOK
	body := gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
		"service":   "curlmap-backend",
		"database":  "ok",
	}

	if err := h.pingDB(c.Request.Context()); err != nil {
		logger.WarnWithFields("Health check: database unreachable", err)
		status = http.StatusServiceUnavailable
		body["status"] = "degraded"
		body["database"] = "unreachable"
	}

	c.JSON(status, body)
}

func (h *Handlers) pingDB(ctx context.Context) error {
	if h.db == nil {
		return nil
	}
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return sqlDB.PingContext(ctx)
}

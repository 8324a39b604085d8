package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zfogg/curlmap/backend/internal/logger"
	"github.com/zfogg/curlmap/backend/internal/util"
)

// GetDirectory returns every listed salon with its stylists and the
// certification catalogue. X-Cache tells whether the cache served it.
// GET /api/directory
func (h *Handlers) GetDirectory(c *gin.Context) {
	if h.directory == nil {
		util.RespondInternalError(c, "Directory is not configured", nil)
		return
	}

	agg, hit, err := h.directory.GetDirectory(c.Request.Context())
	if err != nil {
		util.RespondInternalError(c, "Failed to load directory", err)
		return
	}

	if hit {
		c.Header("X-Cache", "HIT")
	} else {
		c.Header("X-Cache", "MISS")
	}
	c.JSON(http.StatusOK, agg)
}

// ClearCache drops the cached directory and mention roster
// POST /api/cache/clear
func (h *Handlers) ClearCache(c *gin.Context) {
	ctx := c.Request.Context()

	if h.directory != nil {
		if err := h.directory.ClearCache(ctx); err != nil {
			util.RespondInternalError(c, "Failed to clear cache", err)
			return
		}
	}
	if h.mentions != nil {
		if err := h.mentions.ClearCache(ctx); err != nil {
			util.RespondInternalError(c, "Failed to clear cache", err)
			return
		}
	}

	logger.Log.Info("Cache cleared", logger.WithIP(c.ClientIP()))
	c.JSON(http.StatusOK, gin.H{"message": "Cache cleared successfully"})
}

// GetCacheStats reports directory cache keys, hits, misses and ttl
// GET /api/cache/stats
func (h *Handlers) GetCacheStats(c *gin.Context) {
	if h.directory == nil {
		util.RespondInternalError(c, "Directory is not configured", nil)
		return
	}

	stats, err := h.directory.Stats(c.Request.Context())
	if err != nil {
		logger.WarnWithFields("Failed to read cache stats", err)
		util.RespondInternalError(c, "Failed to read cache stats", err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zfogg/curlmap/backend/internal/util"
)

// GetMentionAnalytics returns how often each stylist is mentioned in topics
// GET /api/analytics/mentions
func (h *Handlers) GetMentionAnalytics(c *gin.Context) {
	stats, err := h.analytics.MentionAnalytics(c.Request.Context())
	if err != nil {
		util.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

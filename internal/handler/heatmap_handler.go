package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/streetpulse/streetpulse-backend/internal/service"
	"github.com/streetpulse/streetpulse-backend/pkg/response"
)

// HeatmapHandler serves the map read APIs.
type HeatmapHandler struct {
	feed *service.FeedService
}

func NewHeatmapHandler(feed *service.FeedService) *HeatmapHandler {
	return &HeatmapHandler{feed: feed}
}

// Zones handles GET /api/v1/heatmap
func (h *HeatmapHandler) Zones(c *gin.Context) {
	zones := h.feed.Heatmap()
	response.Success(c, gin.H{
		"data":  zones,
		"count": len(zones),
	})
}

// Pulse handles GET /api/v1/heatmap/pulse
func (h *HeatmapHandler) Pulse(c *gin.Context) {
	signals := h.feed.HeatmapPulse()
	response.Success(c, gin.H{
		"data":  signals,
		"count": len(signals),
	})
}

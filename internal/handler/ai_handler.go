package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/streetpulse/streetpulse-backend/internal/store"
	"github.com/streetpulse/streetpulse-backend/pkg/response"
)

// AIHandler serves analysis metadata reads.
type AIHandler struct {
	meta *store.AIMetaStore
}

func NewAIHandler(meta *store.AIMetaStore) *AIHandler {
	return &AIHandler{meta: meta}
}

// Get handles GET /api/v1/videos/:id/ai. A record with an error field is
// still a 200: the terminal failure is data, not a transport error.
func (h *AIHandler) Get(c *gin.Context) {
	videoID := c.Param("id")
	meta := h.meta.Get(videoID)
	if meta == nil {
		response.Success(c, gin.H{
			"status": h.meta.Status(videoID),
		})
		return
	}
	response.Success(c, gin.H{
		"status":   h.meta.Status(videoID),
		"metadata": meta,
	})
}

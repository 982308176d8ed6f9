package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/streetpulse/streetpulse-backend/internal/models"
	"github.com/streetpulse/streetpulse-backend/internal/store"
	"github.com/streetpulse/streetpulse-backend/pkg/response"
)

// EngagementHandler handles reactions and votes. Both are anonymous by
// design: no session token is required and nothing per-user is recorded.
type EngagementHandler struct {
	engagement *store.EngagementStore
}

func NewEngagementHandler(engagement *store.EngagementStore) *EngagementHandler {
	return &EngagementHandler{engagement: engagement}
}

// GetReactions handles GET /api/v1/videos/:id/reactions
func (h *EngagementHandler) GetReactions(c *gin.Context) {
	counts := h.engagement.Reactions(c.Param("id"))
	if counts == nil {
		response.NotFound(c, "Video not found or expired")
		return
	}
	response.Success(c, counts)
}

// AddReaction handles POST /api/v1/videos/:id/reactions
func (h *EngagementHandler) AddReaction(c *gin.Context) {
	var req models.ReactionRequest
	if err := c.ShouldBindJSON(&req); err != nil || !models.ValidReactionType(req.Type) {
		response.BadRequest(c, "Invalid reaction type")
		return
	}

	counts := h.engagement.AddReaction(c.Param("id"), req.Type)
	if counts == nil {
		response.NotFound(c, "Video not found or expired")
		return
	}
	response.Success(c, counts)
}

// GetVotes handles GET /api/v1/videos/:id/votes
func (h *EngagementHandler) GetVotes(c *gin.Context) {
	counts := h.engagement.Votes(c.Param("id"))
	if counts == nil {
		response.NotFound(c, "Video not found or expired")
		return
	}
	response.Success(c, counts)
}

// CastVote handles POST /api/v1/videos/:id/votes. The client tracks its own
// previous direction and sends the transition; toggling off arrives as
// direction "none".
func (h *EngagementHandler) CastVote(c *gin.Context) {
	var req models.VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid vote payload")
		return
	}
	if req.Previous == "" {
		req.Previous = models.VoteNone
	}
	if !models.ValidVoteDirection(req.Direction) || !models.ValidVoteDirection(req.Previous) {
		response.BadRequest(c, "Invalid vote direction")
		return
	}

	counts := h.engagement.CastVote(c.Param("id"), req.Direction, req.Previous)
	if counts == nil {
		response.NotFound(c, "Video not found or expired")
		return
	}
	response.Success(c, counts)
}

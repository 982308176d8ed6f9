package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/streetpulse/streetpulse-backend/internal/auth"
	"github.com/streetpulse/streetpulse-backend/internal/models"
	"github.com/streetpulse/streetpulse-backend/internal/policy"
	"github.com/streetpulse/streetpulse-backend/internal/store"
	"github.com/streetpulse/streetpulse-backend/pkg/response"
)

// CommentHandler handles proximity-gated comments.
type CommentHandler struct {
	store      *store.Store
	gatekeeper *policy.Gatekeeper
	signer     *auth.Signer
}

func NewCommentHandler(st *store.Store, gk *policy.Gatekeeper, signer *auth.Signer) *CommentHandler {
	return &CommentHandler{store: st, gatekeeper: gk, signer: signer}
}

// List handles GET /api/v1/videos/:id/comments. Output is anonymous: the
// Comment model never serializes its session id.
func (h *CommentHandler) List(c *gin.Context) {
	comments := h.store.Engagement.CommentsFor(c.Param("id"))
	response.Success(c, gin.H{
		"data":  comments,
		"count": len(comments),
	})
}

// Post handles POST /api/v1/videos/:id/comments. The gatekeeper decides;
// this handler only maps the verdict to a status code.
func (h *CommentHandler) Post(c *gin.Context) {
	var req models.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Text == "" {
		response.BadRequest(c, "Missing comment text")
		return
	}

	sessionID := sessionFromAuth(c, h.signer)
	video := h.store.Videos.Get(c.Param("id"))
	session := h.store.Sessions.Get(sessionID)

	decision := h.gatekeeper.Authorize(video, session, req.Text, time.Now())
	if !decision.Allowed {
		switch decision.Code {
		case policy.DenyNotFound:
			response.NotFound(c, decision.Reason)
		case policy.DenyRateLimited:
			response.TooManyRequests(c, decision.Reason)
		case policy.DenyInvalid:
			response.BadRequest(c, decision.Reason)
		default:
			response.Forbidden(c, decision.Reason)
		}
		return
	}

	comment := &models.Comment{
		ID:        uuid.NewString(),
		VideoID:   video.ID,
		SessionID: session.ID,
		Text:      req.Text,
		Timestamp: time.Now(),
	}
	h.store.Engagement.AddComment(comment)

	response.Created(c, comment)
}

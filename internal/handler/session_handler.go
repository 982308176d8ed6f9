package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/streetpulse/streetpulse-backend/internal/auth"
	"github.com/streetpulse/streetpulse-backend/internal/models"
	"github.com/streetpulse/streetpulse-backend/internal/store"
	"github.com/streetpulse/streetpulse-backend/pkg/response"
)

// SessionHandler handles check-in requests.
type SessionHandler struct {
	sessions *store.SessionRegistry
	zones    *store.ZoneRegistry
}

func NewSessionHandler(sessions *store.SessionRegistry, zones *store.ZoneRegistry) *SessionHandler {
	return &SessionHandler{sessions: sessions, zones: zones}
}

// CheckIn handles POST /api/v1/sessions
func (h *SessionHandler) CheckIn(c *gin.Context) {
	var req models.CheckInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid check-in payload")
		return
	}

	loc := models.GeoLocation{Lat: req.Lat, Lng: req.Lng}
	if !loc.Valid() {
		response.BadRequest(c, "Coordinates out of range")
		return
	}

	session, err := h.sessions.Create(loc, req.Alias)
	if err != nil {
		response.InternalError(c, "Could not create session")
		return
	}

	// A check-in near a zone counts toward that zone's presence.
	if zoneID, _, ok := h.zones.FindNearest(loc); ok {
		h.zones.Touch(zoneID)
	}

	response.Created(c, session)
}

// sessionFromAuth resolves the bearer token on the request to a session id.
// Returns "" if the header is absent or the token does not verify.
func sessionFromAuth(c *gin.Context, signer *auth.Signer) string {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	sessionID, err := signer.Verify(strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		return ""
	}
	return sessionID
}

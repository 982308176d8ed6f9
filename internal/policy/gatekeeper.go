// Package policy implements the comment gatekeeper: the pure ordered
// authorization checks run before a comment is accepted.
package policy

import (
	"fmt"
	"math"
	"time"

	"github.com/streetpulse/streetpulse-backend/internal/models"
	"github.com/streetpulse/streetpulse-backend/internal/spatial"
)

// DenyCode classifies a denial so the route layer can pick a status code
// without parsing the human-readable reason.
type DenyCode string

const (
	DenyNone        DenyCode = ""
	DenyNotFound    DenyCode = "not_found"    // -> 404
	DenyForbidden   DenyCode = "forbidden"    // -> 403
	DenyRateLimited DenyCode = "rate_limited" // -> 429
	DenyInvalid     DenyCode = "invalid"      // -> 400
)

// Decision is the gatekeeper verdict. Each denial carries a reason distinct
// from plain "not found".
type Decision struct {
	Allowed bool
	Code    DenyCode
	Reason  string
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(code DenyCode, reason string) Decision {
	return Decision{Code: code, Reason: reason}
}

// Thresholds is the gatekeeper tuning surface; every numeric limit lives in
// configuration, not inline.
type Thresholds struct {
	RadiusM          float64
	FreshnessWindow  time.Duration
	RateLimitWindow  time.Duration
	MaxCommentLength int
}

// LastCommentSource supplies the most recent comment timestamp for a session,
// across all videos.
type LastCommentSource interface {
	LastCommentTime(sessionID string) (time.Time, bool)
}

// Gatekeeper authorizes comment attempts. It holds no mutable state of its
// own; all inputs arrive as arguments plus the rate-limit lookup.
type Gatekeeper struct {
	thresholds Thresholds
	comments   LastCommentSource
}

func NewGatekeeper(t Thresholds, comments LastCommentSource) *Gatekeeper {
	return &Gatekeeper{thresholds: t, comments: comments}
}

// Authorize evaluates the checks in fixed order; the first failing check
// wins. Ordering matters and is covered by tests: a session that is both
// stale and out of range is denied for staleness.
func (g *Gatekeeper) Authorize(video *models.VideoUpload, session *models.CheckInSession, text string, now time.Time) Decision {
	if video == nil || video.Location == nil {
		return deny(DenyNotFound, "video not found or unlocated")
	}

	if session == nil {
		return deny(DenyForbidden, "no active session")
	}

	elapsed := now.Sub(session.Timestamp)
	if elapsed > g.thresholds.FreshnessWindow {
		mins := int(elapsed.Minutes())
		return deny(DenyForbidden, fmt.Sprintf("session expired: checked in %d minutes ago", mins))
	}

	dist := spatial.DistanceMeters(session.Location, *video.Location)
	if dist > g.thresholds.RadiusM {
		return deny(DenyForbidden, fmt.Sprintf("too far from scene: %.0fm away, limit %.0fm", dist, g.thresholds.RadiusM))
	}

	if last, ok := g.comments.LastCommentTime(session.ID); ok {
		since := now.Sub(last)
		if since < g.thresholds.RateLimitWindow {
			wait := math.Ceil((g.thresholds.RateLimitWindow - since).Seconds())
			return deny(DenyRateLimited, fmt.Sprintf("rate limited: wait %.0fs before commenting again", wait))
		}
	}

	if len([]rune(text)) > g.thresholds.MaxCommentLength {
		return deny(DenyInvalid, fmt.Sprintf("comment too long: limit %d characters", g.thresholds.MaxCommentLength))
	}

	return allow()
}

package policy

import (
	"strings"
	"testing"
	"time"

	"github.com/streetpulse/streetpulse-backend/internal/models"
)

type stubComments struct {
	last time.Time
	ok   bool
}

func (s stubComments) LastCommentTime(string) (time.Time, bool) { return s.last, s.ok }

var testThresholds = Thresholds{
	RadiusM:          100,
	FreshnessWindow:  30 * time.Minute,
	RateLimitWindow:  30 * time.Second,
	MaxCommentLength: 200,
}

var (
	sceneLoc = models.GeoLocation{Lat: 37.7749, Lng: -122.4194}
	nearLoc  = models.GeoLocation{Lat: 37.7750, Lng: -122.4195} // ~15m
	farLoc   = models.GeoLocation{Lat: 37.7849, Lng: -122.4194} // ~1.1km
)

func testVideo() *models.VideoUpload {
	loc := sceneLoc
	return &models.VideoUpload{ID: "v1", Location: &loc, Timestamp: time.Now()}
}

func freshSession(now time.Time, loc models.GeoLocation) *models.CheckInSession {
	return &models.CheckInSession{ID: "s1", Location: loc, Timestamp: now.Add(-time.Minute)}
}

func TestAuthorizeAllows(t *testing.T) {
	gk := NewGatekeeper(testThresholds, stubComments{})
	now := time.Now()

	d := gk.Authorize(testVideo(), freshSession(now, nearLoc), "saw it happen", now)
	if !d.Allowed {
		t.Fatalf("expected allow, got %q (%s)", d.Reason, d.Code)
	}
}

func TestAuthorizeVideoMissingOrUnlocated(t *testing.T) {
	gk := NewGatekeeper(testThresholds, stubComments{})
	now := time.Now()
	session := freshSession(now, nearLoc)

	d := gk.Authorize(nil, session, "x", now)
	if d.Allowed || d.Code != DenyNotFound {
		t.Errorf("nil video: got %+v, want not_found", d)
	}

	unlocated := &models.VideoUpload{ID: "v2"}
	d = gk.Authorize(unlocated, session, "x", now)
	if d.Allowed || d.Code != DenyNotFound {
		t.Errorf("unlocated video: got %+v, want not_found", d)
	}
}

func TestAuthorizeNoSession(t *testing.T) {
	gk := NewGatekeeper(testThresholds, stubComments{})
	now := time.Now()

	d := gk.Authorize(testVideo(), nil, "x", now)
	if d.Allowed || d.Code != DenyForbidden || !strings.Contains(d.Reason, "no active session") {
		t.Errorf("got %+v, want forbidden/no active session", d)
	}
}

func TestAuthorizeStaleSession(t *testing.T) {
	gk := NewGatekeeper(testThresholds, stubComments{})
	now := time.Now()

	stale := &models.CheckInSession{ID: "s1", Location: nearLoc, Timestamp: now.Add(-45 * time.Minute)}
	d := gk.Authorize(testVideo(), stale, "x", now)
	if d.Allowed || d.Code != DenyForbidden {
		t.Fatalf("got %+v, want forbidden", d)
	}
	if !strings.Contains(d.Reason, "session expired") || !strings.Contains(d.Reason, "45 minutes") {
		t.Errorf("reason %q should name staleness and elapsed minutes", d.Reason)
	}
}

// A session that is both stale and out of range must be denied for staleness:
// the checks run in fixed order and the first failure wins.
func TestAuthorizeStaleBeatsProximity(t *testing.T) {
	gk := NewGatekeeper(testThresholds, stubComments{})
	now := time.Now()

	staleAndFar := &models.CheckInSession{ID: "s1", Location: farLoc, Timestamp: now.Add(-2 * time.Hour)}
	d := gk.Authorize(testVideo(), staleAndFar, "x", now)
	if d.Allowed {
		t.Fatal("expected denial")
	}
	if !strings.Contains(d.Reason, "session expired") {
		t.Errorf("reason %q, want the staleness denial, not proximity", d.Reason)
	}
}

func TestAuthorizeTooFar(t *testing.T) {
	gk := NewGatekeeper(testThresholds, stubComments{})
	now := time.Now()

	d := gk.Authorize(testVideo(), freshSession(now, farLoc), "x", now)
	if d.Allowed || d.Code != DenyForbidden {
		t.Fatalf("got %+v, want forbidden", d)
	}
	if !strings.Contains(d.Reason, "too far") || !strings.Contains(d.Reason, "limit 100m") {
		t.Errorf("reason %q should carry distance and radius", d.Reason)
	}
}

func TestAuthorizeRateLimitBoundary(t *testing.T) {
	now := time.Now()
	window := testThresholds.RateLimitWindow

	// 1ms short of the window: denied.
	gk := NewGatekeeper(testThresholds, stubComments{last: now.Add(-window + time.Millisecond), ok: true})
	d := gk.Authorize(testVideo(), freshSession(now, nearLoc), "x", now)
	if d.Allowed || d.Code != DenyRateLimited {
		t.Errorf("1ms inside window: got %+v, want rate_limited", d)
	}
	if !strings.Contains(d.Reason, "rate limited") {
		t.Errorf("reason %q should say rate limited", d.Reason)
	}

	// Exactly the window: allowed.
	gk = NewGatekeeper(testThresholds, stubComments{last: now.Add(-window), ok: true})
	if d := gk.Authorize(testVideo(), freshSession(now, nearLoc), "x", now); !d.Allowed {
		t.Errorf("exactly at window: got %+v, want allow", d)
	}
}

func TestAuthorizeTooLong(t *testing.T) {
	gk := NewGatekeeper(testThresholds, stubComments{})
	now := time.Now()

	long := strings.Repeat("a", testThresholds.MaxCommentLength+1)
	d := gk.Authorize(testVideo(), freshSession(now, nearLoc), long, now)
	if d.Allowed || d.Code != DenyInvalid {
		t.Errorf("got %+v, want invalid", d)
	}

	exact := strings.Repeat("a", testThresholds.MaxCommentLength)
	if d := gk.Authorize(testVideo(), freshSession(now, nearLoc), exact, now); !d.Allowed {
		t.Errorf("exact-length comment should pass, got %+v", d)
	}
}

package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/streetpulse/streetpulse-backend/internal/auth"
	"github.com/streetpulse/streetpulse-backend/internal/models"
	"github.com/streetpulse/streetpulse-backend/internal/policy"
	"github.com/streetpulse/streetpulse-backend/internal/store"
)

func commentTestRouter(t *testing.T) (*gin.Engine, *store.Store, *auth.Signer) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	signer := auth.NewSigner("test-secret")
	sessions := store.NewSessionRegistry(signer)
	zones := store.NewZoneRegistry([]models.Zone{
		{ID: "mission", Location: models.GeoLocation{Lat: 37.7749, Lng: -122.4194}},
	}, 300)
	videos := store.NewVideoRegistry(sessions, zones, 6*time.Hour)
	engagement := store.NewEngagementStore(videos, time.Hour, 6*time.Hour)
	st := &store.Store{
		Sessions:   sessions,
		Zones:      zones,
		Videos:     videos,
		Engagement: engagement,
		AIMeta:     store.NewAIMetaStore(),
	}

	gk := policy.NewGatekeeper(policy.Thresholds{
		RadiusM:          100,
		FreshnessWindow:  30 * time.Minute,
		RateLimitWindow:  30 * time.Second,
		MaxCommentLength: 200,
	}, engagement)

	h := NewCommentHandler(st, gk, signer)
	r := gin.New()
	r.POST("/api/v1/videos/:id/comments", h.Post)
	r.GET("/api/v1/videos/:id/comments", h.List)
	return r, st, signer
}

func postComment(r *gin.Engine, videoID, token, text string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(map[string]string{"text": text})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/videos/"+videoID+"/comments", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func checkInAndUpload(t *testing.T, st *store.Store, loc models.GeoLocation) (*models.CheckInSession, *models.VideoUpload) {
	t.Helper()
	session, err := st.Sessions.Create(loc, "")
	if err != nil {
		t.Fatal(err)
	}
	video := &models.VideoUpload{ID: "v1", SessionID: session.ID, Timestamp: time.Now()}
	st.AddVideo(video)
	return session, video
}

func TestPostCommentSuccess(t *testing.T) {
	r, st, _ := commentTestRouter(t)
	session, video := checkInAndUpload(t, st, models.GeoLocation{Lat: 37.7750, Lng: -122.4195})

	w := postComment(r, video.ID, session.Token, "saw the whole thing")
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	comments := st.Engagement.CommentsFor(video.ID)
	if len(comments) != 1 || comments[0].Text != "saw the whole thing" {
		t.Errorf("stored comments = %+v", comments)
	}
}

func TestPostCommentUnknownVideoIs404(t *testing.T) {
	r, st, _ := commentTestRouter(t)
	session, _ := checkInAndUpload(t, st, models.GeoLocation{Lat: 37.7750, Lng: -122.4195})

	w := postComment(r, "ghost", session.Token, "hello")
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestPostCommentNoTokenIs403(t *testing.T) {
	r, st, _ := commentTestRouter(t)
	_, video := checkInAndUpload(t, st, models.GeoLocation{Lat: 37.7750, Lng: -122.4195})

	w := postComment(r, video.ID, "", "hello")
	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}
}

func TestPostCommentTooFarIs403(t *testing.T) {
	r, st, _ := commentTestRouter(t)

	// Video located at the zone; commenter checked in ~1km north.
	nearSession, video := checkInAndUpload(t, st, models.GeoLocation{Lat: 37.7750, Lng: -122.4195})
	_ = nearSession
	farSession, err := st.Sessions.Create(models.GeoLocation{Lat: 37.7849, Lng: -122.4194}, "")
	if err != nil {
		t.Fatal(err)
	}

	w := postComment(r, video.ID, farSession.Token, "hello from afar")
	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}
}

func TestPostCommentRateLimitedIs429(t *testing.T) {
	r, st, _ := commentTestRouter(t)
	session, video := checkInAndUpload(t, st, models.GeoLocation{Lat: 37.7750, Lng: -122.4195})

	if w := postComment(r, video.ID, session.Token, "first"); w.Code != http.StatusCreated {
		t.Fatalf("first comment: status %d", w.Code)
	}
	if w := postComment(r, video.ID, session.Token, "second"); w.Code != http.StatusTooManyRequests {
		t.Errorf("second comment inside the window: status = %d, want 429", w.Code)
	}
}

func TestPostCommentMissingTextIs400(t *testing.T) {
	r, st, _ := commentTestRouter(t)
	session, video := checkInAndUpload(t, st, models.GeoLocation{Lat: 37.7750, Lng: -122.4195})

	w := postComment(r, video.ID, session.Token, "")
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestListCommentsAnonymous(t *testing.T) {
	r, st, _ := commentTestRouter(t)
	session, video := checkInAndUpload(t, st, models.GeoLocation{Lat: 37.7750, Lng: -122.4195})

	if w := postComment(r, video.ID, session.Token, "visible text"); w.Code != http.StatusCreated {
		t.Fatalf("post: status %d", w.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/videos/"+video.ID+"/comments", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	body := w.Body.String()
	if !bytes.Contains([]byte(body), []byte("visible text")) {
		t.Errorf("comment text missing from response: %s", body)
	}
	// The session id is retained server-side only.
	if bytes.Contains([]byte(body), []byte(session.ID)) {
		t.Errorf("session id leaked into response: %s", body)
	}
}

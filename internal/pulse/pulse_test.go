package pulse

import (
	"fmt"
	"testing"
	"time"

	"github.com/streetpulse/streetpulse-backend/internal/models"
	"github.com/streetpulse/streetpulse-backend/internal/store"
)

type stubSigner struct{}

func (stubSigner) Sign(sessionID string, _ time.Time) (string, error) { return "t", nil }

const (
	immediateWindow = time.Minute
	recentWindow    = 5 * time.Minute
)

func fixture(t *testing.T, now time.Time) (*store.Store, *Calculator) {
	t.Helper()
	sessions := store.NewSessionRegistry(stubSigner{})
	zones := store.NewZoneRegistry([]models.Zone{
		{ID: "mission", Location: models.GeoLocation{Lat: 37.7749, Lng: -122.4194}},
		{ID: "soma", Location: models.GeoLocation{Lat: 37.7790, Lng: -122.4000}},
	}, 300)
	videos := store.NewVideoRegistry(sessions, zones, 6*time.Hour)
	eng := store.NewEngagementStore(videos, time.Hour, 6*time.Hour)

	st := &store.Store{Sessions: sessions, Zones: zones, Videos: videos, Engagement: eng, AIMeta: store.NewAIMetaStore()}
	st.SetClock(func() time.Time { return now })

	return st, NewCalculator(videos, immediateWindow, recentWindow)
}

func addUpload(st *store.Store, id string, ts time.Time) {
	loc := models.GeoLocation{Lat: 37.7749, Lng: -122.4194}
	st.Videos.Add(&models.VideoUpload{ID: id, Timestamp: ts, Location: &loc})
}

func TestZonePulseImmediateWindow(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	st, calc := fixture(t, now)
	addUpload(st, "recent", now.Add(-30*time.Second))

	signal := calc.ZonePulse("mission", now)
	if !signal.ShouldPulse {
		t.Error("upload 30s ago should pulse")
	}
	if signal.RecentCount != 1 || signal.Intensity != 1 {
		t.Errorf("signal = %+v, want count/intensity 1", signal)
	}
}

func TestZonePulseOutsideImmediateWindow(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	st, calc := fixture(t, now)
	addUpload(st, "older", now.Add(-2*time.Minute))

	signal := calc.ZonePulse("mission", now)
	if signal.ShouldPulse {
		t.Error("upload 2m ago must not pulse with a 1m immediate window")
	}
	if signal.RecentCount != 1 {
		t.Errorf("RecentCount = %d, want 1 (still inside the 5m window)", signal.RecentCount)
	}
}

func TestZonePulseIntensityCap(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	st, calc := fixture(t, now)
	for i := 0; i < 8; i++ {
		addUpload(st, fmt.Sprintf("v%d", i), now.Add(-time.Duration(i+1)*10*time.Second))
	}

	signal := calc.ZonePulse("mission", now)
	if signal.RecentCount != 8 {
		t.Errorf("RecentCount = %d, want 8", signal.RecentCount)
	}
	if signal.Intensity != 5 {
		t.Errorf("Intensity = %d, want display cap 5", signal.Intensity)
	}
}

func TestZonePulseEmptyZone(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	_, calc := fixture(t, now)
	signal := calc.ZonePulse("soma", now)
	if signal.ShouldPulse || signal.RecentCount != 0 || signal.Intensity != 0 {
		t.Errorf("empty zone signal = %+v, want all zero", signal)
	}
}

func TestAllCoversEveryZone(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	st, calc := fixture(t, now)
	signals := calc.All(st.Zones.List(), now)
	if len(signals) != 2 {
		t.Fatalf("got %d signals, want 2", len(signals))
	}
	if signals[0].ZoneID != "mission" || signals[1].ZoneID != "soma" {
		t.Errorf("signals out of order: %+v", signals)
	}
}

package store

import (
	"testing"
	"time"

	"github.com/streetpulse/streetpulse-backend/internal/models"
)

func seedZones() []models.Zone {
	return []models.Zone{
		{ID: "mission", Location: models.GeoLocation{Lat: 37.7749, Lng: -122.4194}, Intensity: 0.8, RadiusM: 200},
		{ID: "soma", Location: models.GeoLocation{Lat: 37.7790, Lng: -122.4000}, Intensity: 0.5, RadiusM: 200},
	}
}

func TestFindNearestAssignsWithinThreshold(t *testing.T) {
	r := NewZoneRegistry(seedZones(), 300)

	// ~15m from the mission zone center.
	id, dist, ok := r.FindNearest(models.GeoLocation{Lat: 37.7750, Lng: -122.4195})
	if !ok {
		t.Fatal("expected assignment within threshold")
	}
	if id != "mission" {
		t.Errorf("assigned zone = %q, want mission", id)
	}
	if dist > 300 {
		t.Errorf("distance %.1fm exceeds threshold", dist)
	}
}

func TestFindNearestDeterministic(t *testing.T) {
	r := NewZoneRegistry(seedZones(), 300)
	loc := models.GeoLocation{Lat: 37.7750, Lng: -122.4195}

	first, _, _ := r.FindNearest(loc)
	for i := 0; i < 10; i++ {
		id, _, _ := r.FindNearest(loc)
		if id != first {
			t.Fatalf("FindNearest flapped: %q then %q", first, id)
		}
	}
}

func TestFindNearestRejectsBeyondThreshold(t *testing.T) {
	r := NewZoneRegistry(seedZones(), 300)

	// Tens of kilometers away from everything.
	if id, _, ok := r.FindNearest(models.GeoLocation{Lat: 37.9000, Lng: -122.9000}); ok {
		t.Errorf("expected no assignment, got %q", id)
	}
}

func TestFindNearestTieKeepsInsertionOrder(t *testing.T) {
	center := models.GeoLocation{Lat: 37.7749, Lng: -122.4194}
	// Two zones at the identical location: exact tie.
	r := NewZoneRegistry([]models.Zone{
		{ID: "first", Location: center},
		{ID: "second", Location: center},
	}, 300)

	id, _, ok := r.FindNearest(center)
	if !ok || id != "first" {
		t.Errorf("tie should keep first-encountered zone, got %q (ok=%v)", id, ok)
	}
}

func TestFindNearestEmptyRegistry(t *testing.T) {
	r := NewZoneRegistry(nil, 300)
	if _, _, ok := r.FindNearest(models.GeoLocation{Lat: 1, Lng: 1}); ok {
		t.Error("empty registry must not assign")
	}
}

func TestTouchAndMarkActivity(t *testing.T) {
	r := NewZoneRegistry(seedZones(), 300)
	fixed := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return fixed }

	r.Touch("mission")
	z := r.Get("mission")
	if z.SessionCount != 1 {
		t.Errorf("SessionCount = %d, want 1", z.SessionCount)
	}
	if !z.LastActivity.Equal(fixed) {
		t.Errorf("LastActivity = %v, want %v", z.LastActivity, fixed)
	}

	before := z.Intensity
	r.MarkActivity("mission")
	if got := r.Get("mission").Intensity; got <= before {
		t.Errorf("MarkActivity should raise intensity: %.2f -> %.2f", before, got)
	}

	for i := 0; i < 20; i++ {
		r.MarkActivity("mission")
	}
	if got := r.Get("mission").Intensity; got > 1.0 {
		t.Errorf("intensity exceeded cap: %.2f", got)
	}
}

// Package pulse derives the map's per-zone pulse signals from the video
// registry. Pure read-only projection; the calculator holds no state beyond
// its configuration.
package pulse

import (
	"time"

	"github.com/streetpulse/streetpulse-backend/internal/models"
	"github.com/streetpulse/streetpulse-backend/internal/store"
)

// Display intensity is capped so one busy zone cannot blow out the scale.
const maxDisplayIntensity = 5

type Calculator struct {
	videos          *store.VideoRegistry
	immediateWindow time.Duration
	recentWindow    time.Duration
}

func NewCalculator(videos *store.VideoRegistry, immediateWindow, recentWindow time.Duration) *Calculator {
	return &Calculator{
		videos:          videos,
		immediateWindow: immediateWindow,
		recentWindow:    recentWindow,
	}
}

// ZonePulse computes the signal for a single zone: pulse when the newest
// upload is inside the immediate window, with intensity driven by the recent
// upload count.
func (c *Calculator) ZonePulse(zoneID string, now time.Time) models.PulseSignal {
	signal := models.PulseSignal{ZoneID: zoneID}

	if last, ok := c.videos.LastUploadInZone(zoneID); ok {
		signal.ShouldPulse = now.Sub(last) <= c.immediateWindow
	}

	signal.RecentCount = c.videos.RecentUploadCountInZone(zoneID, c.recentWindow)
	signal.Intensity = signal.RecentCount
	if signal.Intensity > maxDisplayIntensity {
		signal.Intensity = maxDisplayIntensity
	}
	return signal
}

// All computes signals for every given zone.
func (c *Calculator) All(zones []models.Zone, now time.Time) []models.PulseSignal {
	out := make([]models.PulseSignal, 0, len(zones))
	for _, z := range zones {
		out = append(out, c.ZonePulse(z.ID, now))
	}
	return out
}

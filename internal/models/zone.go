package models

import "time"

// Zone is a coarse geographic cell of aggregated activity (a heat bubble on the
// map). Intensity is the stored base value; consumers must apply recency decay
// at read time rather than treating Intensity as already decayed.
type Zone struct {
	ID           string      `json:"id"`
	Location     GeoLocation `json:"location"`
	Intensity    float64     `json:"intensity"` // base value in [0,1], pre-decay
	RadiusM      float64     `json:"radius"`
	SessionCount int         `json:"sessionCount"`
	LastActivity time.Time   `json:"lastActivity"`
	Label        string      `json:"label,omitempty"`
}

// HeatmapZone is the read-side projection of a Zone: intensity with recency
// decay applied, plus the stability class the map uses to pick an animation.
type HeatmapZone struct {
	Zone
	DisplayIntensity float64 `json:"displayIntensity"`
	Stability        string  `json:"stability"` // "active", "stable", "fading"
}

// PulseSignal tells the map whether a zone should visibly pulse and how hard.
type PulseSignal struct {
	ZoneID      string `json:"zoneId"`
	ShouldPulse bool   `json:"shouldPulse"`
	RecentCount int    `json:"recentCount"`
	Intensity   int    `json:"intensity"` // capped at 5 for display
}

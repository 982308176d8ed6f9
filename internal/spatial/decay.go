package spatial

import (
	"math"
	"time"
)

// Decay curve breakpoints, in seconds of age.
const (
	decayFullUntil   = 30.0
	decayMidUntil    = 120.0
	decayLateUntil   = 300.0
	decayFloor       = 0.1
	decayTailSeconds = 300.0
)

// RecencyDecay maps a zone's last-activity age to a display multiplier in
// [0.1, 1.0]. The curve is continuous and monotonically non-increasing:
// full strength under 30s, then three linear segments down to a 0.1 floor.
// It is purely presentational weighting; nothing else keys off it.
func RecencyDecay(lastActivity, now time.Time) float64 {
	age := now.Sub(lastActivity).Seconds()
	switch {
	case age < decayFullUntil:
		return 1.0
	case age < decayMidUntil:
		return 0.7 + 0.3*(1-(age-decayFullUntil)/(decayMidUntil-decayFullUntil))
	case age < decayLateUntil:
		return 0.3 + 0.4*(1-(age-decayMidUntil)/(decayLateUntil-decayMidUntil))
	default:
		return math.Max(decayFloor, 0.3*(1-(age-decayLateUntil)/decayTailSeconds))
	}
}

// Zone stability classes, chosen by age and base intensity.
const (
	StabilityActive = "active"
	StabilityStable = "stable"
	StabilityFading = "fading"
)

// ZoneStability classifies a zone for the map: "active" when it saw activity
// under a minute ago and its base intensity is high, "stable" under two
// minutes, "fading" otherwise.
func ZoneStability(lastActivity time.Time, intensity float64, now time.Time) string {
	age := now.Sub(lastActivity).Seconds()
	if age < 60 && intensity > 0.6 {
		return StabilityActive
	}
	if age < 120 {
		return StabilityStable
	}
	return StabilityFading
}

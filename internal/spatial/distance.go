package spatial

import (
	"github.com/golang/geo/s2"

	"github.com/streetpulse/streetpulse-backend/internal/models"
)

// DistanceMeters calculates the great-circle distance between two points in
// meters using the Haversine formula on a mean-Earth-radius sphere. Accurate
// enough for the sub-kilometer proximity checks this system performs; no
// ellipsoid correction.
func DistanceMeters(a, b models.GeoLocation) float64 {
	p1 := s2.LatLngFromDegrees(a.Lat, a.Lng)
	p2 := s2.LatLngFromDegrees(b.Lat, b.Lng)
	return p1.Distance(p2).Radians() * EarthRadiusMeters
}

// Constants
const (
	EarthRadiusMeters = 6371000.0 // Earth's mean radius in meters
	EarthRadiusKm     = 6371.0    // Earth's mean radius in kilometers
)

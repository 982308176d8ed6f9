package models

import "time"

// CheckInSession records a single check-in: where the user was and when.
// Sessions are immutable after creation; re-checking-in creates a new session
// rather than refreshing the old one, so Timestamp is a reliable freshness basis.
type CheckInSession struct {
	ID        string      `json:"id"`
	Location  GeoLocation `json:"location"`
	Timestamp time.Time   `json:"timestamp"`
	Token     string      `json:"token"`
	Alias     string      `json:"alias,omitempty"`
}

// CheckInRequest is the API request body for POST /sessions.
type CheckInRequest struct {
	Lat   float64 `json:"lat" binding:"required"`
	Lng   float64 `json:"lng" binding:"required"`
	Alias string  `json:"alias"`
}

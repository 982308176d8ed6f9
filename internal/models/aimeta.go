package models

import "time"

// AIStatus is the lifecycle flag a feed item carries for its analysis:
// none (never scheduled), pending (in flight), available, or error.
type AIStatus string

const (
	AIStatusNone      AIStatus = "none"
	AIStatusPending   AIStatus = "pending"
	AIStatusAvailable AIStatus = "available"
	AIStatusError     AIStatus = "error"
)

// Error codes recorded in AIVideoMetadata when analysis ends without content.
const (
	AIErrorAnalysisFailed   = "analysis_failed"
	AIErrorPrivacyViolation = "privacy_violation"
)

// ObjectCounts is the scene inventory the vision model returns.
type ObjectCounts struct {
	People   int `json:"people"`
	Vehicles int `json:"vehicles"`
}

// AIError is the structured terminal-failure record. Its presence means the
// record carries no semantic content; the record still exists so the pipeline
// is not retried indefinitely.
type AIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// AIVideoMetadata is the analysis side-table record, written exactly once per
// video (success or terminal failure), keyed by VideoID.
type AIVideoMetadata struct {
	VideoID       string       `json:"videoId"`
	Summary       string       `json:"summary,omitempty"`
	Tags          []string     `json:"tags,omitempty"`
	Counts        ObjectCounts `json:"counts"`
	ActivityLevel string       `json:"activityLevel,omitempty"`
	Confidence    float64      `json:"confidence"`
	AnalyzedAt    time.Time    `json:"analyzedAt"`
	ModelVersion  string       `json:"modelVersion"`
	Error         *AIError     `json:"error,omitempty"`
}

package models

import "time"

// ReactionType names one of the four lightweight reaction counters.
type ReactionType string

const (
	ReactionEyes     ReactionType = "eyes"
	ReactionRisky    ReactionType = "risky"
	ReactionResolved ReactionType = "resolved"
	ReactionUnclear  ReactionType = "unclear"
)

// ValidReactionType reports whether t is one of the known reaction counters.
func ValidReactionType(t ReactionType) bool {
	switch t {
	case ReactionEyes, ReactionRisky, ReactionResolved, ReactionUnclear:
		return true
	}
	return false
}

// ReactionCounts holds the per-video reaction tallies. Reactions are anonymous
// and unlimited per session; counters only ever increment.
type ReactionCounts struct {
	VideoID  string `json:"videoId"`
	Eyes     int    `json:"eyes"`
	Risky    int    `json:"risky"`
	Resolved int    `json:"resolved"`
	Unclear  int    `json:"unclear"`
}

// VoteDirection is a vote state as tracked by the client: up, down, or none.
type VoteDirection string

const (
	VoteUp   VoteDirection = "up"
	VoteDown VoteDirection = "down"
	VoteNone VoteDirection = "none"
)

// ValidVoteDirection reports whether d is a known direction.
func ValidVoteDirection(d VoteDirection) bool {
	return d == VoteUp || d == VoteDown || d == VoteNone
}

// VoteCounts holds the per-video vote tallies, created lazily on first vote.
type VoteCounts struct {
	VideoID   string `json:"videoId"`
	Upvotes   int    `json:"upvotes"`
	Downvotes int    `json:"downvotes"`
}

// Comment is a proximity-gated comment on a video. SessionID is retained
// server-side for rate limiting only and must never appear in read responses.
type Comment struct {
	ID        string    `json:"id"`
	VideoID   string    `json:"videoId"`
	SessionID string    `json:"-"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// ReactionRequest is the API request body for POST /videos/:id/reactions.
type ReactionRequest struct {
	Type ReactionType `json:"type" binding:"required"`
}

// VoteRequest is the API request body for POST /videos/:id/votes. The client
// tracks its own previous vote and sends it; toggling off is expressed by the
// client as Direction "none".
type VoteRequest struct {
	Direction VoteDirection `json:"direction" binding:"required"`
	Previous  VoteDirection `json:"previous"`
}

// CommentRequest is the API request body for POST /videos/:id/comments.
type CommentRequest struct {
	Text string `json:"text" binding:"required"`
}

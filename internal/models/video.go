package models

import "time"

// VideoUpload is one recorded clip. Location is resolved from the owning
// session at insertion time if absent, and ZoneID is assigned once by
// nearest-zone search; neither is ever re-resolved. Expiry is time-based
// (Timestamp against the TTLs), never a field mutation.
type VideoUpload struct {
	ID          string       `json:"id"`
	SessionID   string       `json:"sessionId"`
	Timestamp   time.Time    `json:"timestamp"`
	DurationSec float64      `json:"duration"`
	Size        int64        `json:"size"`
	Filename    string       `json:"filename"`
	URL         string       `json:"url,omitempty"`
	Location    *GeoLocation `json:"location,omitempty"`
	ZoneID      string       `json:"zoneId,omitempty"`
}

// FeedItem is one entry of the active-video feed: the video joined with its
// engagement counters and the status of its AI analysis.
type FeedItem struct {
	Video        VideoUpload    `json:"video"`
	Reactions    ReactionCounts `json:"reactions"`
	Votes        VoteCounts     `json:"votes"`
	CommentCount int            `json:"commentCount"`
	AIStatus     AIStatus       `json:"aiStatus"`
}

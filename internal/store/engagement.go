package store

import (
	"sort"
	"sync"
	"time"

	"github.com/streetpulse/streetpulse-backend/internal/models"
)

// EngagementStore holds reaction counters, votes, and comments, each keyed by
// video and independently TTL-gated against the owning video's timestamp.
// Reactions and comments gate on the short engagement TTL; votes gate on the
// longer storage TTL because votes are meant to outlive the discussion window.
type EngagementStore struct {
	mu        sync.RWMutex
	reactions map[string]*models.ReactionCounts
	votes     map[string]*models.VoteCounts
	comments  map[string][]*models.Comment // by video id, append order
	bySession map[string]time.Time         // most recent comment per session

	videos        *VideoRegistry
	engagementTTL time.Duration
	storageTTL    time.Duration
}

func NewEngagementStore(videos *VideoRegistry, engagementTTL, storageTTL time.Duration) *EngagementStore {
	return &EngagementStore{
		reactions:     make(map[string]*models.ReactionCounts),
		votes:         make(map[string]*models.VoteCounts),
		comments:      make(map[string][]*models.Comment),
		bySession:     make(map[string]time.Time),
		videos:        videos,
		engagementTTL: engagementTTL,
		storageTTL:    storageTTL,
	}
}

// InitReactions creates the zero-valued counter record for a new video.
// Called once at video insertion time.
func (s *EngagementStore) InitReactions(videoID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.reactions[videoID]; !exists {
		s.reactions[videoID] = &models.ReactionCounts{VideoID: videoID}
	}
}

// AddReaction increments the named counter by one and returns the updated
// counts, or nil if the video is absent or past the engagement TTL. There is
// no per-session dedup: reactions are anonymous, unlimited lightweight signals.
func (s *EngagementStore) AddReaction(videoID string, typ models.ReactionType) *models.ReactionCounts {
	if s.videos.Expired(s.videos.Get(videoID), s.engagementTTL) {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	counts, ok := s.reactions[videoID]
	if !ok {
		counts = &models.ReactionCounts{VideoID: videoID}
		s.reactions[videoID] = counts
	}
	switch typ {
	case models.ReactionEyes:
		counts.Eyes++
	case models.ReactionRisky:
		counts.Risky++
	case models.ReactionResolved:
		counts.Resolved++
	case models.ReactionUnclear:
		counts.Unclear++
	}
	cp := *counts
	return &cp
}

// Reactions returns the current counts, or nil under the same expiry rule as
// AddReaction.
func (s *EngagementStore) Reactions(videoID string) *models.ReactionCounts {
	if s.videos.Expired(s.videos.Get(videoID), s.engagementTTL) {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts, ok := s.reactions[videoID]
	if !ok {
		return &models.ReactionCounts{VideoID: videoID}
	}
	cp := *counts
	return &cp
}

// CastVote applies a client-tracked vote transition: the counter matching
// previous is decremented (floored at zero), the counter matching next is
// incremented. The server trusts the client-supplied previous direction and
// performs no toggle detection; a toggle-off arrives as next == "none".
// Returns nil if the video is absent or past the storage TTL: votes
// deliberately stay castable longer than reactions and comments.
func (s *EngagementStore) CastVote(videoID string, next, previous models.VoteDirection) *models.VoteCounts {
	if s.videos.Expired(s.videos.Get(videoID), s.storageTTL) {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	counts, ok := s.votes[videoID]
	if !ok {
		counts = &models.VoteCounts{VideoID: videoID}
		s.votes[videoID] = counts
	}

	switch previous {
	case models.VoteUp:
		if counts.Upvotes > 0 {
			counts.Upvotes--
		}
	case models.VoteDown:
		if counts.Downvotes > 0 {
			counts.Downvotes--
		}
	}
	switch next {
	case models.VoteUp:
		counts.Upvotes++
	case models.VoteDown:
		counts.Downvotes++
	}

	cp := *counts
	return &cp
}

// Votes returns the current tallies, or a zero record if nobody voted yet,
// or nil once the video is past the storage TTL.
func (s *EngagementStore) Votes(videoID string) *models.VoteCounts {
	if s.videos.Expired(s.videos.Get(videoID), s.storageTTL) {
		return nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if counts, ok := s.votes[videoID]; ok {
		cp := *counts
		return &cp
	}
	return &models.VoteCounts{VideoID: videoID}
}

// VotesUnchecked returns tallies without the TTL gate, for feed assembly.
func (s *EngagementStore) VotesUnchecked(videoID string) models.VoteCounts {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if counts, ok := s.votes[videoID]; ok {
		return *counts
	}
	return models.VoteCounts{VideoID: videoID}
}

// AddComment inserts unconditionally; authorization happens in the gatekeeper
// before this is reached, not here.
func (s *EngagementStore) AddComment(c *models.Comment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.comments[c.VideoID] = append(s.comments[c.VideoID], c)
	if c.Timestamp.After(s.bySession[c.SessionID]) {
		s.bySession[c.SessionID] = c.Timestamp
	}
}

// CommentsFor returns the video's comments newest-first. Once the video is
// past the engagement TTL the list reads empty even though the rows still
// physically exist.
func (s *EngagementStore) CommentsFor(videoID string) []models.Comment {
	if s.videos.Expired(s.videos.Get(videoID), s.engagementTTL) {
		return []models.Comment{}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	rows := s.comments[videoID]
	out := make([]models.Comment, len(rows))
	for i, c := range rows {
		out[i] = *c
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out
}

// CommentCount returns the number of comments on a video with the same
// engagement-TTL visibility rule as CommentsFor.
func (s *EngagementStore) CommentCount(videoID string) int {
	if s.videos.Expired(s.videos.Get(videoID), s.engagementTTL) {
		return 0
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.comments[videoID])
}

// LastCommentTime returns the most recent comment timestamp across all videos
// for a session, used by the gatekeeper's rate limit.
func (s *EngagementStore) LastCommentTime(sessionID string) (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.bySession[sessionID]
	return t, ok
}

package store

import (
	"sync"

	"github.com/streetpulse/streetpulse-backend/internal/models"
)

// AIMetaStore is the analysis side table, keyed by video id. Status is
// tracked explicitly: the orchestrator marks a video pending before its first
// stage and every terminal write replaces the mark, so reads never have to
// infer pipeline state from timestamps.
type AIMetaStore struct {
	mu      sync.RWMutex
	records map[string]*models.AIVideoMetadata
	pending map[string]struct{}
}

func NewAIMetaStore() *AIMetaStore {
	return &AIMetaStore{
		records: make(map[string]*models.AIVideoMetadata),
		pending: make(map[string]struct{}),
	}
}

// MarkPending flags the video as having analysis in flight.
func (s *AIMetaStore) MarkPending(videoID string) {
	s.mu.Lock()
	s.pending[videoID] = struct{}{}
	s.mu.Unlock()
}

// Put writes the terminal record for a video, success or structured error,
// clearing any pending mark. A second Put for the same id overwrites rather
// than duplicates.
func (s *AIMetaStore) Put(meta *models.AIVideoMetadata) {
	s.mu.Lock()
	s.records[meta.VideoID] = meta
	delete(s.pending, meta.VideoID)
	s.mu.Unlock()
}

// Get returns the record or nil.
func (s *AIMetaStore) Get(videoID string) *models.AIVideoMetadata {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.records[videoID]
	if !ok {
		return nil
	}
	cp := *m
	return &cp
}

// Status reports the analysis lifecycle flag for a video.
func (s *AIMetaStore) Status(videoID string) models.AIStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if m, ok := s.records[videoID]; ok {
		if m.Error != nil {
			return models.AIStatusError
		}
		return models.AIStatusAvailable
	}
	if _, ok := s.pending[videoID]; ok {
		return models.AIStatusPending
	}
	return models.AIStatusNone
}

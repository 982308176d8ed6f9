// Package storage is the byte-level video storage boundary. The core only
// needs opaque byte I/O and a stable reference URL; everything else about the
// backing store is an implementation detail.
package storage

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Store persists and fetches raw video bytes.
type Store interface {
	// Persist writes the bytes under the given id and returns a stable URL.
	Persist(ctx context.Context, id, contentType string, data []byte) (string, error)
	// Fetch reads back the bytes behind a URL previously returned by Persist.
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Presigner is implemented by stores that can mint time-limited URLs safe to
// hand to clients. Stores whose Persist URLs are already client-fetchable
// simply don't implement it.
type Presigner interface {
	PresignURL(ctx context.Context, url string, ttl time.Duration) (string, error)
}

// MemoryStore keeps objects in a map. Used in tests and local development.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string][]byte)}
}

func (s *MemoryStore) Persist(_ context.Context, id, _ string, data []byte) (string, error) {
	cp := make([]byte, len(data))
	copy(cp, data)
	s.mu.Lock()
	s.objects[id] = cp
	s.mu.Unlock()
	return "mem://" + id, nil
}

func (s *MemoryStore) Fetch(_ context.Context, url string) ([]byte, error) {
	key := url
	if len(key) > 6 && key[:6] == "mem://" {
		key = key[6:]
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.objects[key]
	if !ok {
		return nil, fmt.Errorf("storage: no object %q", key)
	}
	return data, nil
}

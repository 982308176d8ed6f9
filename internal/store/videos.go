package store

import (
	"sync"
	"time"

	"github.com/streetpulse/streetpulse-backend/internal/models"
)

// VideoRegistry holds uploaded video records. Insertion enriches the record
// exactly once: a missing location is copied from the owning session, and the
// zone is assigned by nearest-zone search. Neither is ever re-resolved, and a
// video's zone stays fixed even as the zone's own activity changes.
type VideoRegistry struct {
	mu         sync.RWMutex
	order      []string
	videos     map[string]*models.VideoUpload
	sessions   *SessionRegistry
	zones      *ZoneRegistry
	storageTTL time.Duration
	now        func() time.Time
}

func NewVideoRegistry(sessions *SessionRegistry, zones *ZoneRegistry, storageTTL time.Duration) *VideoRegistry {
	return &VideoRegistry{
		videos:     make(map[string]*models.VideoUpload),
		sessions:   sessions,
		zones:      zones,
		storageTTL: storageTTL,
		now:        time.Now,
	}
}

// Add stores the video. If the video has no location and its session does,
// the session's location is copied over and a zone is assigned via nearest
// search; a location already present is left untouched (no re-lookup).
func (r *VideoRegistry) Add(v *models.VideoUpload) {
	if v.Location == nil {
		if s := r.sessions.Get(v.SessionID); s != nil {
			loc := s.Location
			v.Location = &loc
		}
	}
	if v.Location != nil && v.ZoneID == "" {
		if zoneID, _, ok := r.zones.FindNearest(*v.Location); ok {
			v.ZoneID = zoneID
		}
	}

	r.mu.Lock()
	if _, exists := r.videos[v.ID]; !exists {
		r.order = append(r.order, v.ID)
	}
	r.videos[v.ID] = v
	r.mu.Unlock()
}

// Get returns the video record or nil. Expiry is not applied here; callers
// that need TTL gating use ActiveOnly or check the timestamp themselves.
func (r *VideoRegistry) Get(id string) *models.VideoUpload {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.videos[id]
}

// All returns every stored video in insertion order, expired or not.
func (r *VideoRegistry) All() []*models.VideoUpload {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*models.VideoUpload, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.videos[id])
	}
	return out
}

// ActiveOnly returns videos still inside the storage TTL.
func (r *VideoRegistry) ActiveOnly() []*models.VideoUpload {
	now := r.now()
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*models.VideoUpload, 0, len(r.order))
	for _, id := range r.order {
		v := r.videos[id]
		if now.Sub(v.Timestamp) < r.storageTTL {
			out = append(out, v)
		}
	}
	return out
}

// InZone returns the active videos assigned to the given zone.
func (r *VideoRegistry) InZone(zoneID string) []*models.VideoUpload {
	var out []*models.VideoUpload
	for _, v := range r.ActiveOnly() {
		if v.ZoneID == zoneID {
			out = append(out, v)
		}
	}
	return out
}

// LastUploadInZone returns the newest upload timestamp in the zone, or
// false if the zone has no active uploads.
func (r *VideoRegistry) LastUploadInZone(zoneID string) (time.Time, bool) {
	var latest time.Time
	found := false
	for _, v := range r.InZone(zoneID) {
		if v.Timestamp.After(latest) {
			latest = v.Timestamp
			found = true
		}
	}
	return latest, found
}

// RecentUploadCountInZone counts the zone's uploads newer than the window.
func (r *VideoRegistry) RecentUploadCountInZone(zoneID string, window time.Duration) int {
	cutoff := r.now().Add(-window)
	count := 0
	for _, v := range r.InZone(zoneID) {
		if v.Timestamp.After(cutoff) {
			count++
		}
	}
	return count
}

// Expired reports whether the video is past the given TTL. A nil video is
// treated as expired so callers can collapse absent and expired into one case.
func (r *VideoRegistry) Expired(v *models.VideoUpload, ttl time.Duration) bool {
	if v == nil {
		return true
	}
	return r.now().Sub(v.Timestamp) > ttl
}

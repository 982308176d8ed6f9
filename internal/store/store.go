// Package store holds the in-memory registries backing the API: sessions,
// zones, videos, engagement, and AI metadata. The store is volatile by
// design; losing state on restart is accepted. Each registry guards its own
// maps with a mutex so concurrent request handling preserves the counter and
// zone-assignment invariants.
package store

import (
	"time"

	"github.com/streetpulse/streetpulse-backend/internal/config"
	"github.com/streetpulse/streetpulse-backend/internal/models"
)

// Store is the single explicit aggregate constructed at process start and
// passed to every handler. Tests build isolated instances; there is no
// ambient global state.
type Store struct {
	Sessions   *SessionRegistry
	Zones      *ZoneRegistry
	Videos     *VideoRegistry
	Engagement *EngagementStore
	AIMeta     *AIMetaStore
}

// New wires the registries from configuration.
func New(cfg *config.Config, signer TokenSigner) *Store {
	seeds := make([]models.Zone, 0, len(cfg.Zone.Seeds))
	for _, s := range cfg.Zone.Seeds {
		seeds = append(seeds, models.Zone{
			ID:        s.ID,
			Location:  models.GeoLocation{Lat: s.Lat, Lng: s.Lng},
			Intensity: s.Intensity,
			RadiusM:   s.RadiusM,
			Label:     s.Label,
		})
	}

	sessions := NewSessionRegistry(signer)
	zones := NewZoneRegistry(seeds, cfg.Zone.AssignMaxDistanceM)
	videos := NewVideoRegistry(sessions, zones, cfg.StorageTTL)
	engagement := NewEngagementStore(videos, cfg.EngagementTTL, cfg.StorageTTL)

	return &Store{
		Sessions:   sessions,
		Zones:      zones,
		Videos:     videos,
		Engagement: engagement,
		AIMeta:     NewAIMetaStore(),
	}
}

// AddVideo runs the insertion flow for a new upload: registry insert with
// location/zone enrichment, zero-valued reaction counters, and a zone
// activity mark when assignment succeeded.
func (s *Store) AddVideo(v *models.VideoUpload) {
	s.Videos.Add(v)
	s.Engagement.InitReactions(v.ID)
	if v.ZoneID != "" {
		s.Zones.MarkActivity(v.ZoneID)
	}
}

// SetClock overrides the time source of every registry. Test hook.
func (s *Store) SetClock(now func() time.Time) {
	s.Sessions.now = now
	s.Zones.now = now
	s.Videos.now = now
}

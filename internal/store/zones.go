package store

import (
	"math"
	"sync"
	"time"

	"github.com/streetpulse/streetpulse-backend/internal/models"
	"github.com/streetpulse/streetpulse-backend/internal/spatial"
)

// ZoneRegistry holds the presence zones. Zones are seeded at construction;
// this design does not create or merge zones dynamically. Insertion order is
// preserved because nearest-zone ties break by first-encountered zone.
type ZoneRegistry struct {
	mu             sync.RWMutex
	order          []string
	zones          map[string]*models.Zone
	maxAssignDistM float64
	now            func() time.Time
}

func NewZoneRegistry(seeds []models.Zone, maxAssignDistM float64) *ZoneRegistry {
	r := &ZoneRegistry{
		zones:          make(map[string]*models.Zone, len(seeds)),
		maxAssignDistM: maxAssignDistM,
		now:            time.Now,
	}
	for i := range seeds {
		z := seeds[i]
		if _, dup := r.zones[z.ID]; dup {
			continue
		}
		r.order = append(r.order, z.ID)
		r.zones[z.ID] = &z
	}
	return r
}

// List returns a snapshot of all zones in insertion order.
func (r *ZoneRegistry) List() []models.Zone {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Zone, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.zones[id])
	}
	return out
}

// Get returns a copy of the zone, or nil if unknown.
func (r *ZoneRegistry) Get(id string) *models.Zone {
	r.mu.RLock()
	defer r.mu.RUnlock()
	z, ok := r.zones[id]
	if !ok {
		return nil
	}
	cp := *z
	return &cp
}

// FindNearest scans all zones and returns the id and distance of the closest
// one, provided that distance is within the assignment threshold. Exact
// distance ties keep the first zone encountered in insertion order.
func (r *ZoneRegistry) FindNearest(loc models.GeoLocation) (zoneID string, distanceM float64, ok bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	best := math.Inf(1)
	for _, id := range r.order {
		d := spatial.DistanceMeters(loc, r.zones[id].Location)
		if d < best {
			best = d
			zoneID = id
		}
	}
	if zoneID == "" || best > r.maxAssignDistM {
		return "", 0, false
	}
	return zoneID, best, true
}

// Touch records a check-in against a zone: bumps the session count and the
// last-activity timestamp. The stored intensity is left alone; display decay
// is a read-time projection over LastActivity.
func (r *ZoneRegistry) Touch(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	z, ok := r.zones[id]
	if !ok {
		return
	}
	z.SessionCount++
	z.LastActivity = r.now()
}

// MarkActivity records a video upload against a zone: refreshes last-activity
// and nudges the base intensity up, capped at 1.
func (r *ZoneRegistry) MarkActivity(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	z, ok := r.zones[id]
	if !ok {
		return
	}
	z.LastActivity = r.now()
	z.Intensity = math.Min(1.0, z.Intensity+0.05)
}

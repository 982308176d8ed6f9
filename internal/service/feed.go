package service

import (
	"context"
	"time"

	"github.com/streetpulse/streetpulse-backend/internal/models"
	"github.com/streetpulse/streetpulse-backend/internal/pulse"
	"github.com/streetpulse/streetpulse-backend/internal/spatial"
	"github.com/streetpulse/streetpulse-backend/internal/storage"
	"github.com/streetpulse/streetpulse-backend/internal/store"
)

const presignTTL = 15 * time.Minute

// FeedService assembles the read-side views: the active-video feed and the
// heatmap projections. Pure queries over the registries; nothing here blocks
// on AI analysis.
type FeedService struct {
	store   *store.Store
	storage storage.Store
	pulse   *pulse.Calculator
	now     func() time.Time
}

func NewFeedService(st *store.Store, sto storage.Store, calc *pulse.Calculator) *FeedService {
	return &FeedService{store: st, storage: sto, pulse: calc, now: time.Now}
}

// ActiveVideos returns the feed, optionally filtered to one zone. Each item
// joins the video with its counters, comment count, and AI status. When the
// backing store can presign, the item carries a time-limited playback URL in
// place of the raw storage URL.
func (s *FeedService) ActiveVideos(ctx context.Context, zoneID string) []models.FeedItem {
	var videos []*models.VideoUpload
	if zoneID != "" {
		videos = s.store.Videos.InZone(zoneID)
	} else {
		videos = s.store.Videos.ActiveOnly()
	}

	presigner, _ := s.storage.(storage.Presigner)

	items := make([]models.FeedItem, 0, len(videos))
	for _, v := range videos {
		video := *v
		if presigner != nil {
			if signed, err := presigner.PresignURL(ctx, video.URL, presignTTL); err == nil {
				video.URL = signed
			}
		}
		// Reactions go quiet with the engagement TTL even while the video
		// record itself is still inside the storage TTL; votes ride the
		// storage TTL, which ActiveOnly has already applied.
		reactions := models.ReactionCounts{VideoID: v.ID}
		if r := s.store.Engagement.Reactions(v.ID); r != nil {
			reactions = *r
		}
		items = append(items, models.FeedItem{
			Video:        video,
			Reactions:    reactions,
			Votes:        s.store.Engagement.VotesUnchecked(v.ID),
			CommentCount: s.store.Engagement.CommentCount(v.ID),
			AIStatus:     s.store.AIMeta.Status(v.ID),
		})
	}
	return items
}

// Heatmap returns every zone with recency decay applied to its intensity and
// its stability class. Decay is computed here, at read time; the stored
// intensity is never mutated by age.
func (s *FeedService) Heatmap() []models.HeatmapZone {
	now := s.now()
	zones := s.store.Zones.List()
	out := make([]models.HeatmapZone, 0, len(zones))
	for _, z := range zones {
		out = append(out, models.HeatmapZone{
			Zone:             z,
			DisplayIntensity: z.Intensity * spatial.RecencyDecay(z.LastActivity, now),
			Stability:        spatial.ZoneStability(z.LastActivity, z.Intensity, now),
		})
	}
	return out
}

// HeatmapPulse returns the per-zone pulse signals.
func (s *FeedService) HeatmapPulse() []models.PulseSignal {
	return s.pulse.All(s.store.Zones.List(), s.now())
}

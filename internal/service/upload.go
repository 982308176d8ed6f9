package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/streetpulse/streetpulse-backend/internal/analysis"
	"github.com/streetpulse/streetpulse-backend/internal/models"
	"github.com/streetpulse/streetpulse-backend/internal/storage"
	"github.com/streetpulse/streetpulse-backend/internal/store"
)

var ErrNoSession = errors.New("no such session")

// UploadService runs the upload flow: persist bytes, register the video
// (location + zone enrichment, counter init), then kick off analysis in the
// background. The upload response never waits on, and can never fail from,
// the analysis.
type UploadService struct {
	store   *store.Store
	storage storage.Store
	orch    *analysis.Orchestrator
	log     *zap.SugaredLogger
	now     func() time.Time
}

func NewUploadService(st *store.Store, sto storage.Store, orch *analysis.Orchestrator, log *zap.SugaredLogger) *UploadService {
	return &UploadService{store: st, storage: sto, orch: orch, log: log, now: time.Now}
}

// HandleUpload persists and registers one clip for the given session.
func (s *UploadService) HandleUpload(ctx context.Context, sessionID, filename, contentType string, durationSec float64, data []byte) (*models.VideoUpload, error) {
	if s.store.Sessions.Get(sessionID) == nil {
		return nil, ErrNoSession
	}

	id := uuid.NewString()
	url, err := s.storage.Persist(ctx, id, contentType, data)
	if err != nil {
		return nil, err
	}

	video := &models.VideoUpload{
		ID:          id,
		SessionID:   sessionID,
		Timestamp:   s.now(),
		DurationSec: durationSec,
		Size:        int64(len(data)),
		Filename:    filename,
		URL:         url,
	}
	s.store.AddVideo(video)

	s.log.Infow("video registered",
		"videoId", id, "sessionId", sessionID, "zoneId", video.ZoneID, "size", video.Size)

	// Fire-and-forget; the metadata write is the only observable outcome.
	s.orch.Spawn(id, url)

	return video, nil
}

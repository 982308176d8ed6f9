package analysis

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/streetpulse/streetpulse-backend/internal/models"
	"github.com/streetpulse/streetpulse-backend/internal/storage"
	"github.com/streetpulse/streetpulse-backend/internal/store"
)

// DefaultSystemPrompt is the fixed privacy-constrained instruction sent with
// every vision request. The exact model identifier is configuration.
const DefaultSystemPrompt = `You are analyzing still frames from a short street-level video. ` +
	`Describe the overall scene only. Never identify or describe specific individuals, ` +
	`never transcribe license plates, badges, name tags, or other identifying text. ` +
	`Respond with JSON: {"summary", "tags", "counts": {"people", "vehicles"}, ` +
	`"activityLevel": "low"|"moderate"|"high", "confidence": 0..1}.`

// Orchestrator sequences the pipeline per video: fetch bytes, extract frames,
// call the model, run the privacy filter, and write exactly one metadata
// record (success or structured error). Stages are strictly sequential per
// video; different videos may run concurrently with no shared state beyond
// the final keyed write.
type Orchestrator struct {
	storage      storage.Store
	extractor    *Extractor
	vision       *VisionClient
	meta         *store.AIMetaStore
	systemPrompt string
	modelVersion string
	fetchTimeout time.Duration
	log          *zap.SugaredLogger
	now          func() time.Time
}

func NewOrchestrator(st storage.Store, extractor *Extractor, vision *VisionClient, meta *store.AIMetaStore, modelVersion string, log *zap.SugaredLogger) *Orchestrator {
	return &Orchestrator{
		storage:      st,
		extractor:    extractor,
		vision:       vision,
		meta:         meta,
		systemPrompt: DefaultSystemPrompt,
		modelVersion: modelVersion,
		fetchTimeout: 30 * time.Second,
		log:          log,
		now:          time.Now,
	}
}

// Spawn runs Analyze as a detached background task. Callers never await it:
// its outcome is only ever observed through the metadata write, and neither a
// panic nor a failure can propagate back to the upload request.
func (o *Orchestrator) Spawn(videoID, url string) {
	o.meta.MarkPending(videoID)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				o.log.Errorw("analysis panicked", "videoId", videoID, "panic", r)
				o.meta.Put(o.errorRecord(videoID, models.AIErrorAnalysisFailed, fmt.Sprintf("internal error: %v", r)))
			}
		}()
		o.Analyze(context.Background(), videoID, url)
	}()
}

// Analyze runs the full pipeline synchronously and always leaves exactly one
// metadata record for the video. Re-running for the same id overwrites.
func (o *Orchestrator) Analyze(ctx context.Context, videoID, url string) {
	o.meta.MarkPending(videoID)

	frames, err := o.extractFrames(ctx, url)
	if err != nil {
		o.log.Warnw("frame extraction failed", "videoId", videoID, "error", err)
		o.meta.Put(o.errorRecord(videoID, models.AIErrorAnalysisFailed, err.Error()))
		return
	}

	result, err := o.vision.Describe(ctx, o.systemPrompt, frames)
	if err != nil {
		o.log.Warnw("vision call failed", "videoId", videoID, "error", err)
		o.meta.Put(o.errorRecord(videoID, models.AIErrorAnalysisFailed, err.Error()))
		return
	}

	if verdict := InspectAnalysis(result); !verdict.Clean {
		// Log only the redacted form; the raw output is dropped entirely.
		o.log.Warnw("privacy filter rejected analysis",
			"videoId", videoID,
			"violations", len(verdict.Violations),
			"redactedSummary", Redact(result.Summary),
		)
		msg := fmt.Sprintf("%d privacy violations detected", len(verdict.Violations))
		o.meta.Put(o.errorRecord(videoID, models.AIErrorPrivacyViolation, msg))
		return
	}

	o.meta.Put(&models.AIVideoMetadata{
		VideoID:       videoID,
		Summary:       result.Summary,
		Tags:          result.Tags,
		Counts:        result.Counts,
		ActivityLevel: result.ActivityLevel,
		Confidence:    result.Confidence,
		AnalyzedAt:    o.now(),
		ModelVersion:  o.modelVersion,
	})
	o.log.Infow("analysis stored", "videoId", videoID, "activity", result.ActivityLevel)
}

// extractFrames fetches the video bytes with a bounded timeout and samples
// the stills. A stuck fetch cannot leak the background task.
func (o *Orchestrator) extractFrames(ctx context.Context, url string) ([]Frame, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, o.fetchTimeout)
	defer cancel()

	data, err := o.storage.Fetch(fetchCtx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch video: %w", err)
	}
	return o.extractor.Extract(ctx, data)
}

func (o *Orchestrator) errorRecord(videoID, code, message string) *models.AIVideoMetadata {
	return &models.AIVideoMetadata{
		VideoID:      videoID,
		AnalyzedAt:   o.now(),
		ModelVersion: o.modelVersion,
		Error:        &models.AIError{Code: code, Message: message},
	}
}

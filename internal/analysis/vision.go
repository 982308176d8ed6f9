package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/streetpulse/streetpulse-backend/internal/models"
)

// Analysis is the fixed response schema the vision model must produce.
type Analysis struct {
	Summary       string              `json:"summary"`
	Tags          []string            `json:"tags"`
	Counts        models.ObjectCounts `json:"counts"`
	ActivityLevel string              `json:"activityLevel"`
	Confidence    float64             `json:"confidence"`
}

// ErrTerminal marks failures that must not be retried: non-transient HTTP
// status, malformed auth, or a response that does not match the schema.
var ErrTerminal = errors.New("vision: terminal failure")

func terminal(format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{ErrTerminal}, args...)...)
}

// VisionConfig carries the client knobs. MaxRetries counts retries after the
// first attempt, so a call makes at most MaxRetries+1 attempts with backoff
// delays of BackoffBase×2^n between them (1s, 2s, 4s at the defaults).
type VisionConfig struct {
	URL         string
	APIKey      string
	Model       string
	Timeout     time.Duration
	MaxRetries  int
	BackoffBase time.Duration
	RatePerSec  float64
}

// VisionClient calls the external multimodal API over HTTP with bearer-token
// auth. Calls through the shared limiter so concurrent analyses cannot stampede
// the paid endpoint.
type VisionClient struct {
	cfg     VisionConfig
	http    *http.Client
	limiter *rate.Limiter
	sleep   func(time.Duration)
	log     *zap.SugaredLogger
}

func NewVisionClient(cfg VisionConfig, log *zap.SugaredLogger) *VisionClient {
	perSec := cfg.RatePerSec
	if perSec <= 0 {
		perSec = 1
	}
	return &VisionClient{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(perSec), 1),
		sleep:   time.Sleep,
		log:     log,
	}
}

type visionRequest struct {
	Model  string        `json:"model"`
	System string        `json:"system"`
	Frames []visionFrame `json:"frames"`
}

type visionFrame struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

// wire response uses pointers so a missing required field is distinguishable
// from a zero value; partial-credit parsing is not allowed.
type visionResponse struct {
	Summary       *string              `json:"summary"`
	Tags          []string             `json:"tags"`
	Counts        *models.ObjectCounts `json:"counts"`
	ActivityLevel *string              `json:"activityLevel"`
	Confidence    *float64             `json:"confidence"`
}

// Describe sends the system instruction and frames to the model and returns
// the parsed analysis. Transient failures (timeout, network, 5xx, 429) are
// retried with exponential backoff; everything else fails immediately.
func (c *VisionClient) Describe(ctx context.Context, systemPrompt string, frames []Frame) (*Analysis, error) {
	body, err := json.Marshal(c.buildRequest(systemPrompt, frames))
	if err != nil {
		return nil, terminal("marshal request: %v", err)
	}

	var lastErr error
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := c.cfg.BackoffBase << (attempt - 1)
			c.log.Infow("retrying vision call", "attempt", attempt, "delay", delay)
			c.sleep(delay)
		}
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, terminal("rate limiter: %v", err)
		}

		analysis, err := c.attempt(ctx, body)
		if err == nil {
			return analysis, nil
		}
		if errors.Is(err, ErrTerminal) {
			return nil, err
		}
		lastErr = err
	}
	return nil, fmt.Errorf("vision: retries exhausted after %d attempts: %w", c.cfg.MaxRetries+1, lastErr)
}

func (c *VisionClient) buildRequest(systemPrompt string, frames []Frame) visionRequest {
	req := visionRequest{Model: c.cfg.Model, System: systemPrompt}
	for _, f := range frames {
		req.Frames = append(req.Frames, visionFrame{MimeType: "image/jpeg", Data: f.JPEGBase64})
	}
	return req
}

func (c *VisionClient) attempt(ctx context.Context, body []byte) (*Analysis, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.URL, bytes.NewReader(body))
	if err != nil {
		return nil, terminal("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		// timeout or network error: transient
		return nil, fmt.Errorf("vision call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		if transientStatus(resp.StatusCode) {
			return nil, fmt.Errorf("vision call: status %d", resp.StatusCode)
		}
		return nil, terminal("status %d", resp.StatusCode)
	}

	var wire visionResponse
	if err := json.NewDecoder(resp.Body).Decode(&wire); err != nil {
		return nil, terminal("parse response: %v", err)
	}
	return validate(wire)
}

func transientStatus(code int) bool {
	return code >= 500 || code == http.StatusTooManyRequests
}

// validate enforces the schema: every required field must be present.
func validate(wire visionResponse) (*Analysis, error) {
	switch {
	case wire.Summary == nil || *wire.Summary == "":
		return nil, terminal("response missing summary")
	case wire.Counts == nil:
		return nil, terminal("response missing counts")
	case wire.ActivityLevel == nil || *wire.ActivityLevel == "":
		return nil, terminal("response missing activityLevel")
	case wire.Confidence == nil:
		return nil, terminal("response missing confidence")
	}
	return &Analysis{
		Summary:       *wire.Summary,
		Tags:          wire.Tags,
		Counts:        *wire.Counts,
		ActivityLevel: *wire.ActivityLevel,
		Confidence:    *wire.Confidence,
	}, nil
}

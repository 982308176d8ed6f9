package analysis

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"
)

// Frame is one still extracted from a video, letterboxed to the target square
// and encoded as a base64 JPEG ready for the vision request.
type Frame struct {
	Index        int
	TimestampSec float64
	Width        int
	Height       int
	JPEGBase64   string
}

// Decoder abstracts the actual video decoding so tests can run without
// ffmpeg. Probe returns the clip duration in seconds; FrameAt returns the
// still nearest the given timestamp.
type Decoder interface {
	Probe(ctx context.Context, data []byte) (float64, error)
	FrameAt(ctx context.Context, data []byte, tsSec float64) (image.Image, error)
}

// Extractor samples N stills from a clip. Timestamps are spread between 10%
// and 90% of the duration to avoid black lead-in and lead-out.
type Extractor struct {
	dec    Decoder
	count  int
	maxDim int
	log    *zap.SugaredLogger
}

func NewExtractor(dec Decoder, count, maxDim int, log *zap.SugaredLogger) *Extractor {
	return &Extractor{dec: dec, count: count, maxDim: maxDim, log: log}
}

// sampleTimestamps returns the sampling offsets for a clip of the given
// duration: 10%/50%/90% for the default three frames, evenly spread in the
// same band for other counts, the midpoint for a single frame.
func sampleTimestamps(durationSec float64, count int) []float64 {
	if count == 1 {
		return []float64{durationSec * 0.5}
	}
	out := make([]float64, count)
	for i := 0; i < count; i++ {
		frac := 0.1 + 0.8*float64(i)/float64(count-1)
		out[i] = durationSec * frac
	}
	return out
}

// Extract decodes, letterboxes, and base64-encodes the sampled frames.
// Individual frame failures are tolerated; zero usable frames is an error.
func (e *Extractor) Extract(ctx context.Context, data []byte) ([]Frame, error) {
	duration, err := e.dec.Probe(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("probe video: %w", err)
	}
	if duration <= 0 {
		return nil, fmt.Errorf("probe video: non-positive duration %.3f", duration)
	}

	var frames []Frame
	for i, ts := range sampleTimestamps(duration, e.count) {
		img, err := e.dec.FrameAt(ctx, data, ts)
		if err != nil {
			e.log.Warnw("frame extraction failed", "index", i, "ts", ts, "error", err)
			continue
		}
		encoded, w, h, err := e.encodeFrame(img)
		if err != nil {
			e.log.Warnw("frame encode failed", "index", i, "error", err)
			continue
		}
		frames = append(frames, Frame{
			Index:        i,
			TimestampSec: ts,
			Width:        w,
			Height:       h,
			JPEGBase64:   encoded,
		})
	}

	if len(frames) == 0 {
		return nil, fmt.Errorf("no frames extracted from %.1fs clip", duration)
	}
	return frames, nil
}

// encodeFrame fits the image into the target square, letterboxing onto a
// black canvas so every frame sent to the model has identical dimensions.
func (e *Extractor) encodeFrame(img image.Image) (string, int, int, error) {
	fitted := imaging.Fit(img, e.maxDim, e.maxDim, imaging.Lanczos)
	canvas := imaging.New(e.maxDim, e.maxDim, color.Black)
	letterboxed := imaging.PasteCenter(canvas, fitted)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, letterboxed, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return "", 0, 0, err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), e.maxDim, e.maxDim, nil
}

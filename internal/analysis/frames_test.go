package analysis

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"math"
	"testing"

	"go.uber.org/zap"
)

// stubDecoder serves synthetic stills without touching ffmpeg.
type stubDecoder struct {
	duration  float64
	probeErr  error
	frameErr  func(ts float64) error
	requested []float64
}

func (d *stubDecoder) Probe(context.Context, []byte) (float64, error) {
	return d.duration, d.probeErr
}

func (d *stubDecoder) FrameAt(_ context.Context, _ []byte, ts float64) (image.Image, error) {
	d.requested = append(d.requested, ts)
	if d.frameErr != nil {
		if err := d.frameErr(ts); err != nil {
			return nil, err
		}
	}
	return image.NewRGBA(image.Rect(0, 0, 640, 360)), nil
}

func testLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

func TestSampleTimestamps(t *testing.T) {
	got := sampleTimestamps(10, 3)
	want := []float64{1.0, 5.0, 9.0} // 10%/50%/90%
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Errorf("timestamps[%d] = %.3f, want %.3f", i, got[i], want[i])
		}
	}

	if got := sampleTimestamps(10, 1); len(got) != 1 || got[0] != 5.0 {
		t.Errorf("single frame should sample the midpoint, got %v", got)
	}
}

func TestExtractLetterboxesToTarget(t *testing.T) {
	dec := &stubDecoder{duration: 12}
	ex := NewExtractor(dec, 3, 512, testLogger())

	frames, err := ex.Extract(context.Background(), []byte("clip"))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(frames) != 3 {
		t.Fatalf("got %d frames, want 3", len(frames))
	}
	for _, f := range frames {
		if f.Width != 512 || f.Height != 512 {
			t.Errorf("frame %d is %dx%d, want letterboxed 512x512", f.Index, f.Width, f.Height)
		}
		if _, err := base64.StdEncoding.DecodeString(f.JPEGBase64); err != nil {
			t.Errorf("frame %d is not valid base64: %v", f.Index, err)
		}
	}
	if len(dec.requested) != 3 {
		t.Errorf("decoder asked for %d stills, want 3", len(dec.requested))
	}
}

func TestExtractToleratesPartialFailure(t *testing.T) {
	dec := &stubDecoder{
		duration: 10,
		frameErr: func(ts float64) error {
			if ts < 2 { // only the first sample fails
				return errors.New("decode error")
			}
			return nil
		},
	}
	ex := NewExtractor(dec, 3, 256, testLogger())

	frames, err := ex.Extract(context.Background(), []byte("clip"))
	if err != nil {
		t.Fatalf("Extract should survive one bad frame: %v", err)
	}
	if len(frames) != 2 {
		t.Errorf("got %d frames, want 2", len(frames))
	}
}

func TestExtractZeroFramesIsError(t *testing.T) {
	dec := &stubDecoder{
		duration: 10,
		frameErr: func(float64) error { return errors.New("decode error") },
	}
	ex := NewExtractor(dec, 3, 256, testLogger())

	if _, err := ex.Extract(context.Background(), []byte("clip")); err == nil {
		t.Fatal("zero extracted frames must be an error")
	}
}

func TestExtractProbeFailure(t *testing.T) {
	dec := &stubDecoder{probeErr: fmt.Errorf("corrupt container")}
	ex := NewExtractor(dec, 3, 256, testLogger())

	if _, err := ex.Extract(context.Background(), []byte("clip")); err == nil {
		t.Fatal("probe failure must be an error")
	}
}

func TestExtractNonPositiveDuration(t *testing.T) {
	dec := &stubDecoder{duration: 0}
	ex := NewExtractor(dec, 3, 256, testLogger())

	if _, err := ex.Extract(context.Background(), []byte("clip")); err == nil {
		t.Fatal("zero duration must be an error")
	}
}

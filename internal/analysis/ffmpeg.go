package analysis

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg" // stills arrive as jpeg from ffmpeg
	_ "image/png"
	"os/exec"
	"strconv"
	"strings"
)

// FFmpegDecoder shells out to ffprobe/ffmpeg for duration and stills. The
// binaries must be on PATH; tests use a stub Decoder instead.
type FFmpegDecoder struct {
	FFprobe string
	FFmpeg  string
}

func NewFFmpegDecoder() *FFmpegDecoder {
	return &FFmpegDecoder{FFprobe: "ffprobe", FFmpeg: "ffmpeg"}
}

func (d *FFmpegDecoder) Probe(ctx context.Context, data []byte) (float64, error) {
	cmd := exec.CommandContext(ctx, d.FFprobe,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		"-i", "pipe:0",
	)
	cmd.Stdin = bytes.NewReader(data)

	out, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe: %w", err)
	}
	duration, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		return 0, fmt.Errorf("ffprobe: parse duration %q: %w", strings.TrimSpace(string(out)), err)
	}
	return duration, nil
}

func (d *FFmpegDecoder) FrameAt(ctx context.Context, data []byte, tsSec float64) (image.Image, error) {
	cmd := exec.CommandContext(ctx, d.FFmpeg,
		"-v", "error",
		"-ss", strconv.FormatFloat(tsSec, 'f', 3, 64),
		"-i", "pipe:0",
		"-frames:v", "1",
		"-f", "image2",
		"-c:v", "mjpeg",
		"pipe:1",
	)
	cmd.Stdin = bytes.NewReader(data)

	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffmpeg still at %.3fs: %w", tsSec, err)
	}
	img, _, err := image.Decode(bytes.NewReader(out))
	if err != nil {
		return nil, fmt.Errorf("decode still at %.3fs: %w", tsSec, err)
	}
	return img, nil
}

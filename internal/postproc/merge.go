package postproc

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Merge remuxes the two streams into one mp4 with the faststart flag so the
// result is progressively playable. Stream copy only, no re-encode.
func (p *implPostProcessor) Merge(ctx context.Context, videoPath, audioPath, destPath string) error {
	args := []string{
		"-y",
		"-i", videoPath,
		"-i", audioPath,
		"-c", "copy",
		"-movflags", "+faststart",
		destPath,
	}

	if _, err := p.executor.Execute(ctx, "ffmpeg", args...); err != nil {
		return fmt.Errorf("ffmpeg merge: %w", err)
	}
	return nil
}

// Duration probes the container duration in seconds via ffprobe.
func (p *implPostProcessor) Duration(ctx context.Context, path string) (float64, error) {
	out, err := p.executor.Execute(ctx, "ffprobe",
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	if err != nil {
		return 0, fmt.Errorf("ffprobe duration: %w", err)
	}

	val := strings.TrimSpace(out)
	if val == "" {
		return 0, fmt.Errorf("ffprobe returned empty duration for %s", path)
	}
	dur, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q: %w", val, err)
	}
	return dur, nil
}

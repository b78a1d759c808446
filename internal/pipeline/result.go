package pipeline

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/nguyentantai21042004/clip-flow/internal/logger"
)

// Result holds everything a run produced. All file paths live inside the
// run's scratch directory and become invalid after Cleanup.
type Result struct {
	Platform       string         `json:"platform"`
	Title          string         `json:"title,omitempty"`
	URL            string         `json:"url"`
	Duration       *float64       `json:"duration,omitempty"`
	Transcript     string         `json:"transcript,omitempty"`
	Summary        string         `json:"summary,omitempty"`
	SubtitlePath   string         `json:"subtitle_path,omitempty"`
	SubtitleFormat SubtitleFormat `json:"subtitle_format,omitempty"`
	AudioPath      string         `json:"audio_path,omitempty"`
	VideoPath      string         `json:"video_path,omitempty"`
	Warnings       []string       `json:"warnings,omitempty"`

	tempDir     string
	cleanupOnce sync.Once
	logger      logger.Logger
}

// TempDir exposes the run's scratch directory, mainly for callers that copy
// artifacts out before Cleanup.
func (r *Result) TempDir() string {
	return r.tempDir
}

// Cleanup removes the run's scratch directory and every artifact in it.
// Safe to call any number of times; only the first call does work. Removal
// failures are logged, never returned.
func (r *Result) Cleanup() {
	r.cleanupOnce.Do(func() {
		if r.tempDir == "" {
			return
		}
		if err := os.RemoveAll(r.tempDir); err != nil && r.logger != nil {
			r.logger.Warn(context.Background(), "cleanup of %s failed: %v", r.tempDir, err)
		}
	})
}

func (r *Result) warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	r.Warnings = append(r.Warnings, msg)
	if r.logger != nil {
		r.logger.Warn(context.Background(), msg)
	}
}

func (r *Result) setDuration(d float64) {
	if r.Duration == nil && d > 0 {
		r.Duration = &d
	}
}

package postproc

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// ExtractAudio re-encodes the audio track of videoPath into a compact m4a
// sitting next to the source file. AAC at a modest bitrate keeps speech
// intelligible while staying well under typical upload limits.
func (p *implPostProcessor) ExtractAudio(ctx context.Context, videoPath string) (string, error) {
	audioPath := strings.TrimSuffix(videoPath, filepath.Ext(videoPath)) + "_audio.m4a"

	args := []string{
		"-y",
		"-i", videoPath,
		"-vn",
		"-c:a", "aac",
		"-b:a", "96k",
		audioPath,
	}
	if _, err := p.executor.Execute(ctx, "ffmpeg", args...); err != nil {
		return "", fmt.Errorf("ffmpeg audio extract: %w", err)
	}
	return audioPath, nil
}

// ConvertSubtitle lets ffmpeg handle the format conversion based on the
// destination extension, e.g. .vtt to .srt.
func (p *implPostProcessor) ConvertSubtitle(ctx context.Context, srcPath, destPath string) error {
	if _, err := p.executor.Execute(ctx, "ffmpeg", "-y", "-i", srcPath, destPath); err != nil {
		return fmt.Errorf("ffmpeg subtitle convert: %w", err)
	}
	return nil
}

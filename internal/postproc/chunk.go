package postproc

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
)

// ChunkAudio splits audioPath into fixed-duration segments when the file is
// too large for a single transcription upload. numChunks = ceil(D/C); a
// count of one means the original file is used directly.
func (p *implPostProcessor) ChunkAudio(ctx context.Context, audioPath, workDir string) ([]string, error) {
	info, err := os.Stat(audioPath)
	if err != nil {
		return nil, fmt.Errorf("stat audio: %w", err)
	}
	if info.Size() <= p.maxUpload {
		return []string{audioPath}, nil
	}

	duration, err := p.Duration(ctx, audioPath)
	if err != nil {
		return nil, err
	}

	chunkSec := float64(p.pipeline.AudioChunkSeconds)
	numChunks := int(math.Ceil(duration / chunkSec))
	if numChunks <= 1 {
		return []string{audioPath}, nil
	}

	p.logger.Info(ctx, "Splitting %.0fs audio into %d chunks of %ds", duration, numChunks, p.pipeline.AudioChunkSeconds)

	chunks := make([]string, 0, numChunks)
	for i := 0; i < numChunks; i++ {
		chunkPath := filepath.Join(workDir, fmt.Sprintf("chunk_%03d.m4a", i))
		args := []string{
			"-y",
			"-ss", fmt.Sprintf("%.0f", float64(i)*chunkSec),
			"-i", audioPath,
			"-t", fmt.Sprintf("%.0f", chunkSec),
			"-c:a", "aac",
			"-b:a", "64k",
			"-vn",
			chunkPath,
		}
		if _, err := p.executor.Execute(ctx, "ffmpeg", args...); err != nil {
			return nil, fmt.Errorf("split chunk %d: %w", i, err)
		}
		chunks = append(chunks, chunkPath)
	}
	return chunks, nil
}

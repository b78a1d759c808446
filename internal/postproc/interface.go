package postproc

import "context"

// PostProcessor covers everything between download and delivery: merging
// separate streams, staged compression against the delivery ceiling, and
// audio chunking for the transcription upload limit.
type PostProcessor interface {
	// Merge remuxes separate video and audio streams into destPath without
	// re-encoding.
	Merge(ctx context.Context, videoPath, audioPath, destPath string) error

	// EnsureUnderCeiling returns a path to a variant of videoPath that fits
	// the delivery size ceiling, compressing in up to two stages when
	// needed. Intermediate outputs are written under workDir.
	EnsureUnderCeiling(ctx context.Context, videoPath, workDir string) (string, error)

	// ChunkAudio splits audioPath into fixed-duration chunks under workDir
	// when the file exceeds the transcription upload limit. When no
	// chunking is needed the original path is returned as the only chunk.
	ChunkAudio(ctx context.Context, audioPath, workDir string) ([]string, error)

	// ExtractAudio pulls the audio track out of videoPath into a compact
	// m4a file next to it and returns the new path.
	ExtractAudio(ctx context.Context, videoPath string) (string, error)

	// ConvertSubtitle rewrites a subtitle file into the container format
	// implied by destPath's extension.
	ConvertSubtitle(ctx context.Context, srcPath, destPath string) error

	// Duration probes the media duration in seconds.
	Duration(ctx context.Context, path string) (float64, error)
}

package executor

import "context"

// Executor runs external tools (curl, yt-dlp, ffmpeg, ffprobe) and returns
// their stdout. Implementations must kill the process once ctx is done.
type Executor interface {
	Execute(ctx context.Context, name string, args ...string) (string, error)
	ExecuteInDir(ctx context.Context, dir string, name string, args ...string) (string, error)
}

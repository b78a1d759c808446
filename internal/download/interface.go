package download

import "context"

// Downloader acquires media through external tools: curl for direct stream
// fetches and yt-dlp for full platform extraction. Both strategies share the
// proxy-fallback policy for block-signature failures.
type Downloader interface {
	// FetchStream downloads a single stream URL to destPath.
	FetchStream(ctx context.Context, streamURL, destPath string) error

	// Extract runs full platform extraction for pageURL into destDir and
	// returns the path of the produced video file.
	Extract(ctx context.Context, pageURL, destDir string) (string, error)

	// FetchCaptions downloads native captions for pageURL into destDir and
	// returns the subtitle file path, or "" when the platform has none.
	FetchCaptions(ctx context.Context, pageURL, destDir, lang string) (string, error)

	// Metadata returns the title and duration (seconds, 0 when unknown)
	// reported by the extractor without downloading anything.
	Metadata(ctx context.Context, pageURL string) (string, float64, error)
}

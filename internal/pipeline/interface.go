package pipeline

import (
	"context"
	"errors"
)

var (
	// ErrNoSource means resolution produced nothing fetchable for the URL.
	ErrNoSource = errors.New("no video source found")

	// ErrNoStream means the manifest parsed but yielded no usable stream.
	ErrNoStream = errors.New("no stream found in manifest")
)

// Pipeline runs one acquisition end to end: resolve, download, post-process,
// transcribe, summarize. The returned Result owns a scratch directory the
// caller must release with Cleanup once done with the artifact paths.
type Pipeline interface {
	Process(ctx context.Context, req Request, progress ProgressFunc) (*Result, error)
}

package watcher

import "context"

// Watcher monitors a directory for dropped-in request files.
type Watcher interface {
	Start(ctx context.Context) error
	Stop() error
}

// EventHandler receives the path of each newly created request file.
type EventHandler func(ctx context.Context, filePath string) error

package watcher

import (
	"fmt"

	"github.com/fsnotify/fsnotify"

	"github.com/nguyentantai21042004/clip-flow/internal/logger"
)

// New creates a Watcher over requestsDir. maxConcurrent bounds how many
// request files are processed at once; it defaults to 2.
func New(requestsDir string, handler EventHandler, log logger.Logger, maxConcurrent int) (Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	if err := fsw.Add(requestsDir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	if maxConcurrent <= 0 {
		maxConcurrent = 2
	}

	return &implWatcher{
		requestsDir: requestsDir,
		handler:     handler,
		logger:      log,
		watcher:     fsw,
		semaphore:   make(chan struct{}, maxConcurrent),
	}, nil
}

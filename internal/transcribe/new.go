package transcribe

import (
	"net/http"
	"time"

	"github.com/nguyentantai21042004/clip-flow/internal/config"
	"github.com/nguyentantai21042004/clip-flow/internal/logger"
)

type implTranscriber struct {
	cfg    config.TranscriptionConfig
	apiKey string
	client *http.Client
	logger logger.Logger
}

// New creates a Transcriber for the configured speech-to-text endpoint.
func New(cfg config.TranscriptionConfig, apiKey string, log logger.Logger) Transcriber {
	return &implTranscriber{
		cfg:    cfg,
		apiKey: apiKey,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
		logger: log,
	}
}

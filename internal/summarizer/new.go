package summarizer

import (
	"sync"

	"github.com/nguyentantai21042004/clip-flow/internal/logger"
)

type implSummarizer struct {
	apiKeys []string
	model   string
	logger  logger.Logger

	// mu guards currentKey; one Summarizer is shared by concurrent runs.
	mu         sync.Mutex
	currentKey int
}

// New creates a Summarizer that rotates through the supplied Gemini API keys
// when one is rate limited.
func New(apiKeys []string, model string, log logger.Logger) Summarizer {
	return &implSummarizer{
		apiKeys: apiKeys,
		model:   model,
		logger:  log,
	}
}

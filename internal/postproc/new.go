package postproc

import (
	"errors"

	"github.com/nguyentantai21042004/clip-flow/internal/config"
	"github.com/nguyentantai21042004/clip-flow/internal/logger"
	"github.com/nguyentantai21042004/clip-flow/pkg/executor"
)

var (
	// ErrTooLong means the content cannot fit the target size at any usable
	// bitrate; the encoder is never invoked in this case.
	ErrTooLong = errors.New("content too long for target size")

	// ErrTooLarge means the artifact still exceeds the delivery ceiling
	// after both compression stages.
	ErrTooLarge = errors.New("too large even after compression")
)

type implPostProcessor struct {
	pipeline  config.PipelineConfig
	ffmpeg    config.FFmpegConfig
	maxUpload int64
	executor  executor.Executor
	logger    logger.Logger
}

// New creates a PostProcessor. maxUploadMB is the transcription provider's
// per-request ceiling driving the chunking decision.
func New(pcfg config.PipelineConfig, fcfg config.FFmpegConfig, maxUploadMB int, exec executor.Executor, log logger.Logger) PostProcessor {
	return &implPostProcessor{
		pipeline:  pcfg,
		ffmpeg:    fcfg,
		maxUpload: int64(maxUploadMB) << 20,
		executor:  exec,
		logger:    log,
	}
}

func (p *implPostProcessor) ceilingBytes() int64 {
	return int64(p.pipeline.DeliveryMaxMB) << 20
}

package pipeline

import (
	"fmt"
	"net/http"
	"time"

	"github.com/nguyentantai21042004/clip-flow/internal/config"
	"github.com/nguyentantai21042004/clip-flow/internal/download"
	"github.com/nguyentantai21042004/clip-flow/internal/logger"
	"github.com/nguyentantai21042004/clip-flow/internal/postproc"
	"github.com/nguyentantai21042004/clip-flow/internal/resolver"
	"github.com/nguyentantai21042004/clip-flow/internal/safeurl"
	"github.com/nguyentantai21042004/clip-flow/internal/summarizer"
	"github.com/nguyentantai21042004/clip-flow/internal/transcribe"
)

type implPipeline struct {
	cfg         *config.Config
	resolver    resolver.Resolver
	downloader  download.Downloader
	post        postproc.PostProcessor
	transcriber transcribe.Transcriber
	summarizer  summarizer.Summarizer
	allow       safeurl.Checker
	client      *http.Client
	logger      logger.Logger
}

// New wires a Pipeline from its components. sum may be nil when no
// summarizer keys are configured; Summarize requests then degrade to a
// warning.
func New(
	cfg *config.Config,
	rsv resolver.Resolver,
	dl download.Downloader,
	post postproc.PostProcessor,
	tr transcribe.Transcriber,
	sum summarizer.Summarizer,
	allow safeurl.Checker,
	log logger.Logger,
) Pipeline {
	return &implPipeline{
		cfg:         cfg,
		resolver:    rsv,
		downloader:  dl,
		post:        post,
		transcriber: tr,
		summarizer:  sum,
		allow:       allow,
		client: &http.Client{
			Timeout: 30 * time.Second,
			// A manifest URL that passed the address screen can still
			// redirect somewhere that would not; re-screen every hop.
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 5 {
					return fmt.Errorf("too many redirects")
				}
				if !allow(req.URL) {
					return fmt.Errorf("redirect to disallowed address %s", req.URL.Hostname())
				}
				return nil
			},
		},
		logger: log,
	}
}

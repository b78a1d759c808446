package pipeline

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/nguyentantai21042004/clip-flow/internal/resolver"
)

// Process runs one request end to end. On error the scratch directory is
// already removed; on success the caller releases it via Result.Cleanup.
func (p *implPipeline) Process(ctx context.Context, req Request, progress ProgressFunc) (*Result, error) {
	if progress == nil {
		progress = func(string) {}
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	progress("Resolving source...")
	res := p.resolver.Resolve(ctx, req.URL)
	if res.Source == nil {
		return nil, ErrNoSource
	}

	runDir, err := p.newRunDir()
	if err != nil {
		return nil, err
	}

	result := &Result{
		URL:     req.URL,
		Title:   res.Title,
		tempDir: runDir,
		logger:  p.logger,
	}
	done := false
	defer func() {
		if !done {
			result.Cleanup()
		}
	}()

	switch src := res.Source.(type) {
	case resolver.DashSource:
		err = p.processDash(ctx, src, req, result, progress)
	case resolver.ExternalSource:
		err = p.processExternal(ctx, src, req, result, progress)
	default:
		err = fmt.Errorf("unhandled source type %T", src)
	}
	if err != nil {
		return nil, err
	}

	if req.Summarize {
		p.summarize(ctx, result, progress)
	}

	done = true
	return result, nil
}

func (p *implPipeline) newRunDir() (string, error) {
	if err := os.MkdirAll(p.cfg.Pipeline.ScratchDir, 0o755); err != nil {
		return "", fmt.Errorf("create scratch dir: %w", err)
	}
	dir := filepath.Join(p.cfg.Pipeline.ScratchDir, "run-"+uuid.NewString())
	if err := os.Mkdir(dir, 0o755); err != nil {
		return "", fmt.Errorf("create run dir: %w", err)
	}
	return dir, nil
}

func (p *implPipeline) summarize(ctx context.Context, result *Result, progress ProgressFunc) {
	if result.Transcript == "" {
		result.warn("summary skipped: no transcript available")
		return
	}
	if p.summarizer == nil {
		result.warn("summary skipped: summarizer not configured")
		return
	}
	progress("Summarizing...")
	sum, err := p.summarizer.Summarize(ctx, result.Transcript)
	if err != nil {
		result.warn("summarization failed: %v", err)
		return
	}
	result.Summary = sum
}

// transcribeInto chunks audioPath as needed and stores the joined
// transcript on result.
func (p *implPipeline) transcribeInto(ctx context.Context, audioPath string, result *Result, progress ProgressFunc) error {
	chunks, err := p.post.ChunkAudio(ctx, audioPath, result.tempDir)
	if err != nil {
		return fmt.Errorf("chunk audio: %w", err)
	}
	text, err := p.transcriber.TranscribeAll(ctx, chunks, func(i, n int) {
		if n == 1 {
			progress("Transcribing audio...")
			return
		}
		progress(fmt.Sprintf("Transcribing chunk %d/%d...", i, n))
	})
	if err != nil {
		return err
	}
	result.Transcript = text
	return nil
}

// shrinkVideo archives, compresses if needed, and records the final path.
// required controls whether a compression failure aborts or only warns.
func (p *implPipeline) shrinkVideo(ctx context.Context, videoPath string, required bool, result *Result, progress ProgressFunc) error {
	progress("Compressing video...")
	final, err := p.post.EnsureUnderCeiling(ctx, videoPath, result.tempDir)
	if err != nil {
		if required {
			return fmt.Errorf("compress video: %w", err)
		}
		result.warn("video dropped: %v", err)
		return nil
	}
	result.VideoPath = final
	return nil
}

func (p *implPipeline) allowURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return p.allow(u)
}

func platformName(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "external"
	}
	host := strings.ToLower(strings.TrimPrefix(u.Hostname(), "www."))
	switch {
	case strings.Contains(host, "youtube") || host == "youtu.be":
		return "youtube"
	case strings.Contains(host, "tiktok"):
		return "tiktok"
	case strings.Contains(host, "twitter") || host == "x.com":
		return "twitter"
	case strings.Contains(host, "instagram"):
		return "instagram"
	case strings.Contains(host, "reddit") || host == "redd.it" || host == "v.redd.it":
		return "reddit"
	case host == "":
		return "external"
	default:
		return host
	}
}

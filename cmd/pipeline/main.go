package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/nguyentantai21042004/clip-flow/internal/config"
	"github.com/nguyentantai21042004/clip-flow/internal/download"
	"github.com/nguyentantai21042004/clip-flow/internal/logger"
	"github.com/nguyentantai21042004/clip-flow/internal/pipeline"
	"github.com/nguyentantai21042004/clip-flow/internal/postproc"
	"github.com/nguyentantai21042004/clip-flow/internal/resolver"
	"github.com/nguyentantai21042004/clip-flow/internal/safeurl"
	"github.com/nguyentantai21042004/clip-flow/internal/summarizer"
	"github.com/nguyentantai21042004/clip-flow/internal/transcribe"
	"github.com/nguyentantai21042004/clip-flow/internal/watcher"
	"github.com/nguyentantai21042004/clip-flow/pkg/executor"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	urlFlag := flag.String("url", "", "process a single URL and exit")
	modeFlag := flag.String("mode", "text", "artifacts to produce: text, audio, video, all")
	formatFlag := flag.String("format", "text", "text output format: text, srt, vtt")
	summarizeFlag := flag.Bool("summarize", false, "attach a short digest of the transcript")
	outFlag := flag.String("out", ".", "output directory for one-shot artifacts")
	watchFlag := flag.Bool("watch", false, "watch the requests directory instead of processing one URL")
	flag.Parse()

	// Secrets live in the environment, not in config.yaml.
	_ = godotenv.Load()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level)
	pipe, err := buildPipeline(cfg, log)
	if err != nil {
		log.Error(ctx, "Failed to build pipeline: %v", err)
		os.Exit(1)
	}

	if *watchFlag {
		runWatch(ctx, cfg, pipe, log)
		return
	}

	if *urlFlag == "" {
		fmt.Fprintln(os.Stderr, "either -url or -watch is required")
		flag.Usage()
		os.Exit(2)
	}

	req := pipeline.Request{
		URL:            *urlFlag,
		Mode:           pipeline.Mode(*modeFlag),
		SubtitleFormat: pipeline.SubtitleFormat(*formatFlag),
		Summarize:      *summarizeFlag,
	}
	if err := runOnce(ctx, pipe, req, *outFlag, log); err != nil {
		log.Error(ctx, "Run failed: %v", err)
		os.Exit(1)
	}
}

// buildPipeline wires every component from config and environment.
func buildPipeline(cfg *config.Config, log logger.Logger) (pipeline.Pipeline, error) {
	exec := executor.New()
	allow := safeurl.New(nil)

	proxies, err := download.LoadProxyPool(cfg.Download.ProxyFile)
	if err != nil {
		return nil, fmt.Errorf("load proxy pool: %w", err)
	}

	client := &http.Client{Timeout: 30 * time.Second}
	rsv := resolver.New(client, allow, log)
	dl := download.New(cfg.Download, exec, proxies, log)
	post := postproc.New(cfg.Pipeline, cfg.FFmpeg, cfg.Transcription.MaxUploadMB, exec, log)

	apiKey := os.Getenv("TRANSCRIPTION_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	tr := transcribe.New(cfg.Transcription, apiKey, log)

	var sum summarizer.Summarizer
	if keys := geminiKeys(); len(keys) > 0 {
		sum = summarizer.New(keys, cfg.Summarizer.Model, log)
	}

	return pipeline.New(cfg, rsv, dl, post, tr, sum, allow, log), nil
}

// geminiKeys reads summarizer keys from the environment. GEMINI_API_KEYS is
// a comma-separated list for quota rotation; GEMINI_API_KEY holds a single
// key.
func geminiKeys() []string {
	raw := os.Getenv("GEMINI_API_KEYS")
	if raw == "" {
		raw = os.Getenv("GEMINI_API_KEY")
	}
	var keys []string
	for _, k := range strings.Split(raw, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// runOnce processes a single request and drops the artifacts into outDir.
func runOnce(ctx context.Context, pipe pipeline.Pipeline, req pipeline.Request, outDir string, log logger.Logger) error {
	res, err := pipe.Process(ctx, req, func(status string) {
		log.Info(ctx, "%s", status)
	})
	if err != nil {
		return err
	}
	defer res.Cleanup()

	name := "clip-" + time.Now().Format("20060102-150405")
	if err := res.Export(outDir, name); err != nil {
		return err
	}

	if res.Transcript != "" {
		fmt.Println(res.Transcript)
	}
	if res.Summary != "" {
		fmt.Println("\n--- Summary ---")
		fmt.Println(res.Summary)
	}
	for _, w := range res.Warnings {
		log.Warn(ctx, "%s", w)
	}
	return nil
}

// runWatch serves request files dropped into the requests directory until
// interrupted.
func runWatch(ctx context.Context, cfg *config.Config, pipe pipeline.Pipeline, log logger.Logger) {
	if cfg.Watch.RequestsDir == "" {
		log.Error(ctx, "watch.requests_dir is not configured")
		os.Exit(1)
	}
	outDir := cfg.Watch.OutputDir
	if outDir == "" {
		outDir = "."
	}
	for _, dir := range []string{cfg.Watch.RequestsDir, outDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Error(ctx, "Failed to create %s: %v", dir, err)
			os.Exit(1)
		}
	}

	handler := func(ctx context.Context, path string) error {
		return runRequestFile(ctx, pipe, outDir, path, log)
	}
	w, err := watcher.New(cfg.Watch.RequestsDir, handler, log, 2)
	if err != nil {
		log.Error(ctx, "Failed to create watcher: %v", err)
		os.Exit(1)
	}
	defer w.Stop()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		if err := w.Start(ctx); err != nil && err != context.Canceled {
			errChan <- err
		}
	}()

	log.Info(ctx, "Watching %s, writing results to %s", cfg.Watch.RequestsDir, outDir)
	log.Info(ctx, "Press Ctrl+C to stop")

	select {
	case <-sigChan:
		log.Info(ctx, "Shutdown signal received")
	case err := <-errChan:
		log.Error(ctx, "Watcher error: %v", err)
	}
	cancel()
}

// runRequestFile parses one dropped-in yaml request and materializes its
// artifacts under outDir using the request file's base name.
func runRequestFile(ctx context.Context, pipe pipeline.Pipeline, outDir, path string, log logger.Logger) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read request: %w", err)
	}
	var req pipeline.Request
	if err := yaml.Unmarshal(data, &req); err != nil {
		return fmt.Errorf("parse request: %w", err)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	res, err := pipe.Process(ctx, req, func(status string) {
		log.Info(ctx, "[%s] %s", name, status)
	})
	if err != nil {
		return err
	}
	defer res.Cleanup()

	return res.Export(outDir, name)
}

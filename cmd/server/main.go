package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/nguyentantai21042004/clip-flow/internal/config"
	"github.com/nguyentantai21042004/clip-flow/internal/download"
	"github.com/nguyentantai21042004/clip-flow/internal/httpapi"
	"github.com/nguyentantai21042004/clip-flow/internal/logger"
	"github.com/nguyentantai21042004/clip-flow/internal/pipeline"
	"github.com/nguyentantai21042004/clip-flow/internal/postproc"
	"github.com/nguyentantai21042004/clip-flow/internal/resolver"
	"github.com/nguyentantai21042004/clip-flow/internal/safeurl"
	"github.com/nguyentantai21042004/clip-flow/internal/summarizer"
	"github.com/nguyentantai21042004/clip-flow/internal/transcribe"
	"github.com/nguyentantai21042004/clip-flow/pkg/executor"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

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

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: httpapi.New(pipe, cfg.Watch.OutputDir, log),
	}

	errChan := make(chan error, 1)
	go func() {
		log.Info(ctx, "HTTP server listening on %s", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigChan:
		log.Info(ctx, "Shutdown signal received")
	case err := <-errChan:
		log.Error(ctx, "Server error: %v", err)
		os.Exit(1)
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "Shutdown failed: %v", err)
	}
	log.Info(ctx, "Server stopped")
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

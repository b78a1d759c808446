// Package httpapi exposes the pipeline over HTTP for other services.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/nguyentantai21042004/clip-flow/internal/logger"
	"github.com/nguyentantai21042004/clip-flow/internal/pipeline"
	"github.com/nguyentantai21042004/clip-flow/internal/postproc"
)

const maxRequestBody = 1 << 20

type handler struct {
	pipe      pipeline.Pipeline
	outputDir string
	logger    logger.Logger
}

// New builds the HTTP router. When outputDir is non-empty, artifact files
// are exported there and the response carries their paths; otherwise only
// inline fields (transcript, summary, metadata) survive the run.
func New(pipe pipeline.Pipeline, outputDir string, log logger.Logger) http.Handler {
	h := &handler{pipe: pipe, outputDir: outputDir, logger: log}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.health)
	r.Post("/extract", h.extract)
	return r
}

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) extract(w http.ResponseWriter, r *http.Request) {
	var req pipeline.Request
	body := http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()
	res, err := h.pipe.Process(ctx, req, func(status string) {
		h.logger.Info(ctx, "[%s] %s", middleware.GetReqID(ctx), status)
	})
	if err != nil {
		switch {
		case errors.Is(err, pipeline.ErrNoSource), errors.Is(err, pipeline.ErrNoStream):
			writeError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, postproc.ErrTooLarge), errors.Is(err, postproc.ErrTooLong):
			writeError(w, http.StatusUnprocessableEntity, err.Error())
		default:
			h.logger.Error(ctx, "Extract failed for %s: %v", req.URL, err)
			writeError(w, http.StatusBadGateway, "extraction failed")
		}
		return
	}
	defer res.Cleanup()

	if h.outputDir != "" {
		name := filepath.Base(res.TempDir())
		if name == "." || name == "" {
			name = "result"
		}
		if err := res.Export(h.outputDir, name); err != nil {
			h.logger.Error(ctx, "Export failed: %v", err)
			writeError(w, http.StatusInternalServerError, "failed to export artifacts")
			return
		}
	} else {
		// Without an export directory the scratch paths would dangle
		// the moment Cleanup runs.
		res.SubtitlePath, res.AudioPath, res.VideoPath = "", "", ""
	}

	writeJSON(w, http.StatusOK, res)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

package httpapi

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nguyentantai21042004/clip-flow/internal/logger"
	"github.com/nguyentantai21042004/clip-flow/internal/pipeline"
)

type fakePipeline struct {
	res *pipeline.Result
	err error
}

func (f fakePipeline) Process(ctx context.Context, req pipeline.Request, progress pipeline.ProgressFunc) (*pipeline.Result, error) {
	if f.err != nil {
		return nil, f.err
	}
	if progress != nil {
		progress("Resolving source...")
	}
	return f.res, nil
}

func newTestHandler(t *testing.T, pipe pipeline.Pipeline) http.Handler {
	t.Helper()
	return New(pipe, t.TempDir(), logger.NewWithWriter("error", io.Discard))
}

func TestHealthz(t *testing.T) {
	h := newTestHandler(t, fakePipeline{})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestExtractSuccess(t *testing.T) {
	h := newTestHandler(t, fakePipeline{res: &pipeline.Result{
		Platform:   "youtube",
		URL:        "https://www.youtube.com/watch?v=abc",
		Transcript: "hello world",
	}})

	body := strings.NewReader(`{"url": "https://www.youtube.com/watch?v=abc", "mode": "text"}`)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/extract", body))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "hello world") {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestExtractErrors(t *testing.T) {
	cases := []struct {
		name string
		pipe pipeline.Pipeline
		body string
		want int
	}{
		{"bad json", fakePipeline{}, `{ not json`, http.StatusBadRequest},
		{"missing url", fakePipeline{}, `{"mode": "text"}`, http.StatusBadRequest},
		{"bad mode", fakePipeline{}, `{"url": "https://x.com/1", "mode": "movie"}`, http.StatusBadRequest},
		{"no source", fakePipeline{err: pipeline.ErrNoSource}, `{"url": "https://x.com/1"}`, http.StatusNotFound},
		{"upstream failure", fakePipeline{err: io.ErrUnexpectedEOF}, `{"url": "https://x.com/1"}`, http.StatusBadGateway},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newTestHandler(t, tc.pipe)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/extract", strings.NewReader(tc.body)))
			if rec.Code != tc.want {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tc.want, rec.Body.String())
			}
		})
	}
}

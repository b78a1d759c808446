package download

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nguyentantai21042004/clip-flow/internal/config"
	"github.com/nguyentantai21042004/clip-flow/internal/logger"
)

// fakeExecutor records invocations and delegates behavior to handler.
type fakeExecutor struct {
	calls   [][]string
	handler func(name string, args []string) (string, error)
}

func (f *fakeExecutor) Execute(ctx context.Context, name string, args ...string) (string, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	if f.handler == nil {
		return "", nil
	}
	return f.handler(name, args)
}

func (f *fakeExecutor) ExecuteInDir(ctx context.Context, dir string, name string, args ...string) (string, error) {
	return f.Execute(ctx, name, args...)
}

func hasArg(call []string, arg string) bool {
	for _, a := range call {
		if a == arg {
			return true
		}
	}
	return false
}

func argValue(call []string, flag string) string {
	for i, a := range call {
		if a == flag && i+1 < len(call) {
			return call[i+1]
		}
	}
	return ""
}

func testCfg() config.DownloadConfig {
	return config.DownloadConfig{
		ConnectTimeoutSeconds: 15,
		MaxTimeSeconds:        600,
		ExtractTimeoutSeconds: 600,
		MaxFilesize:           "2G",
	}
}

func testLogger() logger.Logger {
	return logger.NewWithWriter("error", io.Discard)
}

func TestLoadProxyPool(t *testing.T) {
	path := filepath.Join(t.TempDir(), "proxies.txt")
	content := "# comment line\nhttp://p1:8080\n\n   \nhttp://p2:8080\n# another\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	pool, err := LoadProxyPool(path)
	if err != nil {
		t.Fatalf("LoadProxyPool() error = %v", err)
	}

	if got := pool.Next(); got != "http://p1:8080" {
		t.Errorf("first Next() = %q, want p1", got)
	}
	if got := pool.Next(); got != "http://p2:8080" {
		t.Errorf("second Next() = %q, want p2", got)
	}
	if got := pool.Next(); got != "http://p1:8080" {
		t.Errorf("third Next() = %q, want wrap-around to p1", got)
	}
}

func TestLoadProxyPoolEmptyPath(t *testing.T) {
	pool, err := LoadProxyPool("")
	if err != nil {
		t.Fatalf("LoadProxyPool(\"\") error = %v", err)
	}
	if !pool.Empty() {
		t.Error("pool should be empty for empty path")
	}
}

func TestIsBlockError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"http 403", errors.New("curl: (22) The requested URL returned error: HTTP 403"), true},
		{"access denied", errors.New("ERROR: Access Denied"), true},
		{"geo restriction", errors.New("This video is not available in your country"), true},
		{"rate limited", errors.New("HTTP Error 429: Too Many Requests"), true},
		{"bot check", errors.New("Sign in to confirm you're not a bot"), true},
		{"plain failure", errors.New("connection reset by peer"), false},
		{"not found", errors.New("HTTP 404 not found"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isBlockError(tt.err); got != tt.want {
				t.Errorf("isBlockError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestFetchStream(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "video.mp4")
	exec := &fakeExecutor{
		handler: func(name string, args []string) (string, error) {
			if err := os.WriteFile(dest, []byte("data"), 0644); err != nil {
				return "", err
			}
			return "", nil
		},
	}
	d := New(testCfg(), exec, nil, testLogger())

	if err := d.FetchStream(context.Background(), "https://v.redd.it/abc/DASH_720.mp4", dest); err != nil {
		t.Fatalf("FetchStream() error = %v", err)
	}

	if len(exec.calls) != 1 {
		t.Fatalf("calls = %d, want 1", len(exec.calls))
	}
	call := exec.calls[0]
	if call[0] != "curl" {
		t.Errorf("tool = %q, want curl", call[0])
	}
	if argValue(call, "--retry") != "2" {
		t.Errorf("missing --retry 2 in %v", call)
	}
	if argValue(call, "--connect-timeout") != "15" {
		t.Errorf("missing --connect-timeout in %v", call)
	}
	if hasArg(call, "-x") {
		t.Errorf("no proxy expected on first attempt: %v", call)
	}
}

func TestFetchStreamEmptyFile(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "video.mp4")
	exec := &fakeExecutor{
		handler: func(name string, args []string) (string, error) {
			return "", os.WriteFile(dest, nil, 0644)
		},
	}
	d := New(testCfg(), exec, nil, testLogger())

	err := d.FetchStream(context.Background(), "https://example.com/s.mp4", dest)
	if err == nil || !strings.Contains(err.Error(), "empty file") {
		t.Errorf("FetchStream() error = %v, want empty-file failure", err)
	}
}

func TestProxyFallbackRetriesOnBlock(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "video.mp4")
	pool := NewProxyPool([]string{"http://p1:8080", "http://p2:8080"})

	attempt := 0
	exec := &fakeExecutor{
		handler: func(name string, args []string) (string, error) {
			attempt++
			if attempt == 1 {
				return "", errors.New("HTTP 403 forbidden")
			}
			return "", os.WriteFile(dest, []byte("data"), 0644)
		},
	}
	d := New(testCfg(), exec, pool, testLogger())

	if err := d.FetchStream(context.Background(), "https://example.com/s.mp4", dest); err != nil {
		t.Fatalf("FetchStream() error = %v, want proxy retry to succeed", err)
	}

	if len(exec.calls) != 2 {
		t.Fatalf("calls = %d, want 2", len(exec.calls))
	}
	if got := argValue(exec.calls[1], "-x"); got != "http://p1:8080" {
		t.Errorf("retry proxy = %q, want first pool entry", got)
	}
}

func TestProxyRotationPersistsAcrossRuns(t *testing.T) {
	pool := NewProxyPool([]string{"http://p1:8080", "http://p2:8080"})
	blockErr := errors.New("Access denied")

	runOnce := func(dest string) [][]string {
		attempt := 0
		exec := &fakeExecutor{
			handler: func(name string, args []string) (string, error) {
				attempt++
				if attempt == 1 {
					return "", blockErr
				}
				return "", os.WriteFile(dest, []byte("data"), 0644)
			},
		}
		d := New(testCfg(), exec, pool, testLogger())
		if err := d.FetchStream(context.Background(), "https://example.com/s.mp4", dest); err != nil {
			t.Fatalf("FetchStream() error = %v", err)
		}
		return exec.calls
	}

	dir := t.TempDir()
	first := runOnce(filepath.Join(dir, "a.mp4"))
	second := runOnce(filepath.Join(dir, "b.mp4"))

	if got := argValue(first[1], "-x"); got != "http://p1:8080" {
		t.Errorf("first run proxy = %q, want p1", got)
	}
	if got := argValue(second[1], "-x"); got != "http://p2:8080" {
		t.Errorf("second run proxy = %q, want p2 (rotation persists)", got)
	}
}

func TestProxyFallbackSkipsNonBlockErrors(t *testing.T) {
	pool := NewProxyPool([]string{"http://p1:8080"})
	exec := &fakeExecutor{
		handler: func(name string, args []string) (string, error) {
			return "", errors.New("connection timed out")
		},
	}
	d := New(testCfg(), exec, pool, testLogger())

	err := d.FetchStream(context.Background(), "https://example.com/s.mp4", "/nonexistent/x.mp4")
	if err == nil {
		t.Fatal("FetchStream() should fail")
	}
	if len(exec.calls) != 1 {
		t.Errorf("calls = %d, want 1 (no proxy retry for non-block error)", len(exec.calls))
	}
}

func TestProxyFallbackEmptyPool(t *testing.T) {
	exec := &fakeExecutor{
		handler: func(name string, args []string) (string, error) {
			return "", errors.New("HTTP 403")
		},
	}
	d := New(testCfg(), exec, nil, testLogger())

	err := d.FetchStream(context.Background(), "https://example.com/s.mp4", "/nonexistent/x.mp4")
	if err == nil {
		t.Fatal("FetchStream() should fail")
	}
	if len(exec.calls) != 1 {
		t.Errorf("calls = %d, want 1 (no retry without proxies)", len(exec.calls))
	}
}

func TestProxyFallbackReturnsOriginalError(t *testing.T) {
	pool := NewProxyPool([]string{"http://p1:8080"})
	exec := &fakeExecutor{
		handler: func(name string, args []string) (string, error) {
			return "", errors.New("HTTP 403 original")
		},
	}
	d := New(testCfg(), exec, pool, testLogger())

	err := d.FetchStream(context.Background(), "https://example.com/s.mp4", "/nonexistent/x.mp4")
	if err == nil || !strings.Contains(err.Error(), "original") {
		t.Errorf("error = %v, want original error preserved after failed retry", err)
	}
	if len(exec.calls) != 2 {
		t.Errorf("calls = %d, want exactly one retry", len(exec.calls))
	}
}

func TestExtract(t *testing.T) {
	dir := t.TempDir()
	exec := &fakeExecutor{
		handler: func(name string, args []string) (string, error) {
			return "", os.WriteFile(filepath.Join(dir, "video.mp4"), []byte("v"), 0644)
		},
	}
	cfg := testCfg()
	cfg.CookiesFile = "cookies.txt"
	d := New(cfg, exec, nil, testLogger())

	path, err := d.Extract(context.Background(), "https://www.youtube.com/watch?v=abc", dir)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if path != filepath.Join(dir, "video.mp4") {
		t.Errorf("path = %q, want video.mp4 in dest dir", path)
	}

	call := exec.calls[0]
	if call[0] != "yt-dlp" {
		t.Errorf("tool = %q, want yt-dlp", call[0])
	}
	if argValue(call, "-f") != "b[ext=mp4]/b" {
		t.Errorf("format selector = %q", argValue(call, "-f"))
	}
	if argValue(call, "--merge-output-format") != "mp4" {
		t.Errorf("missing merge container in %v", call)
	}
	if argValue(call, "--max-filesize") != "2G" {
		t.Errorf("missing filesize clamp in %v", call)
	}
	if argValue(call, "--cookies") != "cookies.txt" {
		t.Errorf("missing cookies file in %v", call)
	}
}

func TestFetchCaptionsNone(t *testing.T) {
	dir := t.TempDir()
	exec := &fakeExecutor{} // yt-dlp succeeds but writes nothing
	d := New(testCfg(), exec, nil, testLogger())

	path, err := d.FetchCaptions(context.Background(), "https://www.youtube.com/watch?v=abc", dir, "en")
	if err != nil {
		t.Fatalf("FetchCaptions() error = %v", err)
	}
	if path != "" {
		t.Errorf("path = %q, want empty for platform without captions", path)
	}
}

func TestFetchCaptionsFound(t *testing.T) {
	dir := t.TempDir()
	exec := &fakeExecutor{
		handler: func(name string, args []string) (string, error) {
			return "", os.WriteFile(filepath.Join(dir, "captions.en.vtt"), []byte("WEBVTT"), 0644)
		},
	}
	d := New(testCfg(), exec, nil, testLogger())

	path, err := d.FetchCaptions(context.Background(), "https://www.youtube.com/watch?v=abc", dir, "en")
	if err != nil {
		t.Fatalf("FetchCaptions() error = %v", err)
	}
	if !strings.HasSuffix(path, "captions.en.vtt") {
		t.Errorf("path = %q, want the written subtitle file", path)
	}
}

func TestMetadata(t *testing.T) {
	exec := &fakeExecutor{
		handler: func(name string, args []string) (string, error) {
			return "My Clip Title\n183\n", nil
		},
	}
	d := New(testCfg(), exec, nil, testLogger())

	title, duration, err := d.Metadata(context.Background(), "https://www.youtube.com/watch?v=abc")
	if err != nil {
		t.Fatalf("Metadata() error = %v", err)
	}
	if title != "My Clip Title" {
		t.Errorf("title = %q", title)
	}
	if duration != 183 {
		t.Errorf("duration = %v, want 183", duration)
	}
}

func TestMetadataUnknownDuration(t *testing.T) {
	exec := &fakeExecutor{
		handler: func(name string, args []string) (string, error) {
			return "Title\nNA\n", nil
		},
	}
	d := New(testCfg(), exec, nil, testLogger())

	_, duration, err := d.Metadata(context.Background(), "https://example.com/v")
	if err != nil {
		t.Fatalf("Metadata() error = %v", err)
	}
	if duration != 0 {
		t.Errorf("duration = %v, want 0 for NA", duration)
	}
}

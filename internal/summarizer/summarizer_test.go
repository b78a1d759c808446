package summarizer

import (
	"context"
	"io"
	"sync"
	"testing"

	"github.com/nguyentantai21042004/clip-flow/internal/logger"
)

func newTestSummarizer(keys []string) *implSummarizer {
	return New(keys, "test-model", logger.NewWithWriter("error", io.Discard)).(*implSummarizer)
}

func TestSummarizeValidation(t *testing.T) {
	s := newTestSummarizer([]string{"k1"})
	if _, err := s.Summarize(context.Background(), "   \n"); err == nil {
		t.Error("empty transcript should be rejected")
	}

	s = newTestSummarizer(nil)
	if _, err := s.Summarize(context.Background(), "some transcript"); err == nil {
		t.Error("missing API keys should be rejected")
	}
}

func TestKeyRotationWraps(t *testing.T) {
	s := newTestSummarizer([]string{"k1", "k2", "k3"})

	want := []string{"k1", "k2", "k3", "k1"}
	for i, w := range want {
		key, idx := s.activeKey()
		if key != w {
			t.Errorf("rotation %d: key = %q, want %q", i, key, w)
		}
		if key != s.apiKeys[idx] {
			t.Errorf("rotation %d: index %d does not match key %q", i, idx, key)
		}
		s.rotateKey()
	}
}

// Concurrent runs share one Summarizer; rotation must stay in bounds under
// the race detector.
func TestKeyRotationConcurrent(t *testing.T) {
	s := newTestSummarizer([]string{"k1", "k2", "k3"})

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				key, idx := s.activeKey()
				if idx < 0 || idx >= len(s.apiKeys) || key == "" {
					t.Errorf("bad rotation state: key=%q idx=%d", key, idx)
					return
				}
				s.rotateKey()
			}
		}()
	}
	wg.Wait()
}

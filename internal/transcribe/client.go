package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// maxErrBody bounds how much of an error response body is surfaced.
const maxErrBody = 512

type transcriptionResponse struct {
	Text string `json:"text"`
}

// Transcribe uploads the audio file as multipart form data and returns the
// transcript text.
func (t *implTranscriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	t.logger.Debug(ctx, "Transcribing %s with model %s", filepath.Base(audioPath), t.cfg.Model)

	f, err := os.Open(audioPath)
	if err != nil {
		return "", fmt.Errorf("open audio: %w", err)
	}
	defer f.Close()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	part, err := mw.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return "", fmt.Errorf("build form: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", fmt.Errorf("read audio: %w", err)
	}
	_ = mw.WriteField("model", t.cfg.Model)
	_ = mw.WriteField("language", t.cfg.Language)
	_ = mw.WriteField("response_format", "json")
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("finalize form: %w", err)
	}

	url := strings.TrimSuffix(t.cfg.BaseURL, "/") + "/audio/transcriptions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+t.apiKey)

	resp, err := t.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcription request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		excerpt := string(respBody)
		if len(excerpt) > maxErrBody {
			excerpt = excerpt[:maxErrBody] + "...(truncated)"
		}
		return "", fmt.Errorf("transcription API status %d: %s", resp.StatusCode, excerpt)
	}

	var tr transcriptionResponse
	if err := json.Unmarshal(respBody, &tr); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	text := strings.TrimSpace(tr.Text)
	if text == "" {
		return "", ErrNoSpeech
	}
	return text, nil
}

// TranscribeAll runs the chunks one at a time, never concurrently, and
// concatenates the texts with a single space, preserving chunk order.
func (t *implTranscriber) TranscribeAll(ctx context.Context, chunkPaths []string, progress func(i, n int)) (string, error) {
	texts := make([]string, 0, len(chunkPaths))
	for i, path := range chunkPaths {
		if progress != nil {
			progress(i+1, len(chunkPaths))
		}
		text, err := t.Transcribe(ctx, path)
		if err != nil {
			return "", fmt.Errorf("chunk %d/%d: %w", i+1, len(chunkPaths), err)
		}
		texts = append(texts, text)
	}
	return strings.Join(texts, " "), nil
}

package download

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Extract runs yt-dlp for pageURL into destDir and returns the produced
// video file path. Format preference is a pre-muxed mp4, otherwise the best
// available, merged into an mp4 container.
func (d *implDownloader) Extract(ctx context.Context, pageURL, destDir string) (string, error) {
	var videoPath string

	err := d.withProxyFallback(func(proxy string) error {
		ctx, cancel := context.WithTimeout(ctx, time.Duration(d.cfg.ExtractTimeoutSeconds)*time.Second)
		defer cancel()

		args := []string{
			"-f", "b[ext=mp4]/b",
			"--merge-output-format", "mp4",
			"--no-playlist",
			"--no-warnings",
			"--no-progress",
			"--max-filesize", d.cfg.MaxFilesize,
			"-o", filepath.Join(destDir, "video.%(ext)s"),
		}
		if d.cfg.CookiesFile != "" {
			args = append(args, "--cookies", d.cfg.CookiesFile)
		}
		if proxy != "" {
			d.logger.Info(ctx, "Retrying extraction through proxy")
			args = append(args, "--proxy", proxy)
		}
		args = append(args, pageURL)

		if _, err := d.executor.Execute(ctx, "yt-dlp", args...); err != nil {
			return fmt.Errorf("yt-dlp extract: %w", err)
		}

		found, err := findFile(destDir, "video.")
		if err != nil {
			return fmt.Errorf("extraction produced no video file: %w", err)
		}
		videoPath = found
		return nil
	})
	if err != nil {
		return "", err
	}
	return videoPath, nil
}

// FetchCaptions asks yt-dlp for native captions only. A platform without
// captions is not an error; the caller falls back to transcription.
func (d *implDownloader) FetchCaptions(ctx context.Context, pageURL, destDir, lang string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(d.cfg.ExtractTimeoutSeconds)*time.Second)
	defer cancel()

	args := []string{
		"--skip-download",
		"--write-subs",
		"--write-auto-subs",
		"--sub-langs", lang + ".*," + lang,
		"--sub-format", "vtt/srt",
		"--no-playlist",
		"--no-warnings",
		"-o", filepath.Join(destDir, "captions.%(ext)s"),
	}
	if d.cfg.CookiesFile != "" {
		args = append(args, "--cookies", d.cfg.CookiesFile)
	}
	args = append(args, pageURL)

	if _, err := d.executor.Execute(ctx, "yt-dlp", args...); err != nil {
		return "", fmt.Errorf("yt-dlp captions: %w", err)
	}

	path, err := findFile(destDir, "captions.")
	if err != nil {
		// No subtitle file written means no captions exist.
		return "", nil
	}
	return path, nil
}

// Metadata fetches the title and duration without downloading media.
func (d *implDownloader) Metadata(ctx context.Context, pageURL string) (string, float64, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(d.cfg.ConnectTimeoutSeconds+60)*time.Second)
	defer cancel()

	args := []string{
		"--skip-download",
		"--no-playlist",
		"--no-warnings",
		"--print", "%(title)s",
		"--print", "%(duration)s",
		pageURL,
	}

	out, err := d.executor.Execute(ctx, "yt-dlp", args...)
	if err != nil {
		return "", 0, fmt.Errorf("yt-dlp metadata: %w", err)
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	title := ""
	duration := 0.0
	if len(lines) > 0 {
		title = strings.TrimSpace(lines[0])
	}
	if len(lines) > 1 {
		if dur, perr := strconv.ParseFloat(strings.TrimSpace(lines[1]), 64); perr == nil {
			duration = dur
		}
	}
	return title, duration, nil
}

// findFile returns the first regular file in dir whose name starts with
// prefix.
func findFile(dir, prefix string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasPrefix(e.Name(), prefix) {
			return filepath.Join(dir, e.Name()), nil
		}
	}
	return "", fmt.Errorf("no file with prefix %q in %s", prefix, dir)
}

package download

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"
)

// FetchStream downloads a single stream URL to destPath via curl. curl
// itself handles the two fixed-backoff retries; the surrounding context
// bounds total wall-clock time.
func (d *implDownloader) FetchStream(ctx context.Context, streamURL, destPath string) error {
	return d.withProxyFallback(func(proxy string) error {
		ctx, cancel := context.WithTimeout(ctx, time.Duration(d.cfg.MaxTimeSeconds+30)*time.Second)
		defer cancel()

		args := []string{
			"-L", "--fail", "-sS",
			"--connect-timeout", strconv.Itoa(d.cfg.ConnectTimeoutSeconds),
			"--max-time", strconv.Itoa(d.cfg.MaxTimeSeconds),
			"--retry", "2",
			"--retry-delay", "2",
			"-o", destPath,
		}
		if proxy != "" {
			d.logger.Info(ctx, "Retrying stream fetch through proxy")
			args = append(args, "-x", proxy)
		}
		args = append(args, streamURL)

		if _, err := d.executor.Execute(ctx, "curl", args...); err != nil {
			return fmt.Errorf("curl fetch: %w", err)
		}

		info, err := os.Stat(destPath)
		if err != nil {
			return fmt.Errorf("stream fetch produced no file: %w", err)
		}
		if info.Size() == 0 {
			return fmt.Errorf("stream fetch produced empty file: %s", destPath)
		}
		return nil
	})
}

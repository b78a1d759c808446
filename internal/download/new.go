package download

import (
	"github.com/nguyentantai21042004/clip-flow/internal/config"
	"github.com/nguyentantai21042004/clip-flow/internal/logger"
	"github.com/nguyentantai21042004/clip-flow/pkg/executor"
)

type implDownloader struct {
	cfg      config.DownloadConfig
	executor executor.Executor
	proxies  *ProxyPool
	logger   logger.Logger
}

// New creates a Downloader. The proxy pool may be empty, in which case
// block-signature failures propagate without a retry.
func New(cfg config.DownloadConfig, exec executor.Executor, proxies *ProxyPool, log logger.Logger) Downloader {
	if proxies == nil {
		proxies = NewProxyPool(nil)
	}
	return &implDownloader{
		cfg:      cfg,
		executor: exec,
		proxies:  proxies,
		logger:   log,
	}
}

// withProxyFallback runs op without a proxy first. On a block-signature
// failure with a non-empty pool it retries exactly once through the next
// proxy in rotation; any other outcome propagates the original error.
func (d *implDownloader) withProxyFallback(op func(proxy string) error) error {
	err := op("")
	if err == nil {
		return nil
	}
	if !isBlockError(err) || d.proxies.Empty() {
		return err
	}

	proxy := d.proxies.Next()
	if retryErr := op(proxy); retryErr == nil {
		return nil
	}
	return err
}

package download

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync"
)

// blockPatterns recognizes failure text indicating an IP block, a geographic
// restriction, or an access-denied response. Only these failures are worth a
// proxy retry; everything else propagates unchanged.
var blockPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)HTTP(?:/[\d.]+)?\s+403`),
	regexp.MustCompile(`(?i)\b403\b.*forbidden`),
	regexp.MustCompile(`(?i)access denied`),
	regexp.MustCompile(`(?i)blocked it from display`),
	regexp.MustCompile(`(?i)not available in your country`),
	regexp.MustCompile(`(?i)video unavailable.*region`),
	regexp.MustCompile(`(?i)\b429\b|too many requests`),
	regexp.MustCompile(`(?i)sign in to confirm`),
}

// isBlockError reports whether the failure looks like the remote side
// rejecting our address rather than a genuine error.
func isBlockError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, re := range blockPatterns {
		if re.MatchString(msg) {
			return true
		}
	}
	return false
}

// ProxyPool hands out proxies in round-robin order. It is an explicit object
// owned by the Downloader so independent pools stay isolated under test.
type ProxyPool struct {
	mu      sync.Mutex
	proxies []string
	next    int
}

// NewProxyPool builds a pool from the given proxy URLs.
func NewProxyPool(proxies []string) *ProxyPool {
	return &ProxyPool{proxies: proxies}
}

// LoadProxyPool reads a newline-delimited proxy list. Blank lines and lines
// starting with '#' are skipped. A missing path yields an empty pool.
func LoadProxyPool(path string) (*ProxyPool, error) {
	if path == "" {
		return NewProxyPool(nil), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read proxy list: %w", err)
	}

	var proxies []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		proxies = append(proxies, line)
	}
	return NewProxyPool(proxies), nil
}

// Next returns the next proxy in rotation, or "" when the pool is empty.
// The rotation position persists across calls.
func (p *ProxyPool) Next() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	if len(p.proxies) == 0 {
		return ""
	}
	proxy := p.proxies[p.next%len(p.proxies)]
	p.next++
	return proxy
}

// Empty reports whether the pool holds no proxies.
func (p *ProxyPool) Empty() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.proxies) == 0
}

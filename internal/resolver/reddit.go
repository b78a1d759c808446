package resolver

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const maxRedirects = 5

// resolveReddit turns any accepted reddit-family input into a fetch target.
func (r *implResolver) resolveReddit(ctx context.Context, rawURL string) Resolution {
	u, err := url.Parse(rawURL)
	if err != nil || !r.allow(u) {
		return Resolution{}
	}

	host := strings.ToLower(u.Hostname())

	// Direct media host: either already a manifest URL or a clip ID whose
	// manifest location is well-known.
	if host == "v.redd.it" {
		if strings.Contains(u.Path, "DASHPlaylist.mpd") {
			return Resolution{Source: DashSource{ManifestURL: rawURL}}
		}
		id := strings.Trim(strings.SplitN(strings.Trim(u.Path, "/"), "/", 2)[0], "/")
		if id == "" {
			return Resolution{}
		}
		return Resolution{Source: DashSource{ManifestURL: fmt.Sprintf("https://v.redd.it/%s/DASHPlaylist.mpd", id)}}
	}

	// Share links redirect to the canonical post; follow manually so every
	// hop is re-validated, then require the final host to still be reddit.
	if host == "redd.it" || strings.Contains(u.Path, "/s/") {
		finalURL, ok := r.followRedirects(ctx, rawURL)
		if !ok {
			return Resolution{}
		}
		fu, err := url.Parse(finalURL)
		if err != nil || !isRedditHost(fu.Hostname()) {
			r.logger.Warn(ctx, "Share link resolved outside reddit: %s", finalURL)
			return Resolution{}
		}
		rawURL = finalURL
	}

	return r.scrapePost(ctx, rawURL)
}

// followRedirects walks the redirect chain by hand, checking each target
// against the network containment predicate.
func (r *implResolver) followRedirects(ctx context.Context, rawURL string) (string, bool) {
	current := rawURL
	for i := 0; i < maxRedirects; i++ {
		u, err := url.Parse(current)
		if err != nil || !r.allow(u) {
			return "", false
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, current, nil)
		if err != nil {
			return "", false
		}
		req.Header.Set("User-Agent", browserUA)

		resp, err := r.client.Do(req)
		if err != nil {
			r.logger.Debug(ctx, "Redirect hop failed for %s: %v", current, err)
			return "", false
		}
		resp.Body.Close()

		if resp.StatusCode < 300 || resp.StatusCode > 399 {
			return current, true
		}

		loc := resp.Header.Get("Location")
		if loc == "" {
			return "", false
		}
		next, err := u.Parse(loc)
		if err != nil {
			return "", false
		}
		current = next.String()
	}
	return "", false
}

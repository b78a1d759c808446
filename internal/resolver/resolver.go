package resolver

import (
	"context"
	"net/url"
	"regexp"
	"strings"
)

var redditHosts = map[string]struct{}{
	"reddit.com":     {},
	"www.reddit.com": {},
	"old.reddit.com": {},
	"new.reddit.com": {},
	"redd.it":        {},
	"v.redd.it":      {},
}

// postIDRe matches a bare reddit post ID with an optional type prefix.
var postIDRe = regexp.MustCompile(`^(t3_)?[a-z0-9]{5,8}$`)

// Resolve classifies rawURL and produces a fetch target. Reddit-family
// inputs (post URLs, share links, bare IDs, direct manifest URLs) go through
// platform resolution; anything else that passes the network check is handed
// to the external extractor as-is.
func (r *implResolver) Resolve(ctx context.Context, rawURL string) Resolution {
	rawURL = strings.TrimSpace(rawURL)

	if postIDRe.MatchString(strings.ToLower(rawURL)) {
		id := strings.TrimPrefix(strings.ToLower(rawURL), "t3_")
		return r.resolveReddit(ctx, "https://old.reddit.com/comments/"+id)
	}

	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		r.logger.Debug(ctx, "Unparseable media URL: %s", rawURL)
		return Resolution{}
	}
	if !r.allow(u) {
		r.logger.Warn(ctx, "Rejected URL by network containment: %s", rawURL)
		return Resolution{}
	}

	host := strings.ToLower(u.Hostname())
	if _, ok := redditHosts[host]; ok {
		return r.resolveReddit(ctx, rawURL)
	}

	return Resolution{Source: ExternalSource{URL: rawURL}}
}

func isRedditHost(host string) bool {
	_, ok := redditHosts[strings.ToLower(host)]
	return ok
}

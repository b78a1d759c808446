package resolver

import (
	"context"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
)

const browserUA = "Mozilla/5.0 (X11; Linux x86_64; rv:109.0) Gecko/20100101 Firefox/115.0"

// maxPageSize bounds how much post HTML is read during scraping.
const maxPageSize = 4 << 20

var (
	manifestURLRe = regexp.MustCompile(`https://v\.redd\.it/[A-Za-z0-9]+/DASHPlaylist\.mpd[^"'\s\\]*`)
	embedURLRe    = regexp.MustCompile(`https://(?:www\.)?(?:youtube\.com/watch\?v=[\w-]+|youtu\.be/[\w-]+)`)
	titleRe       = regexp.MustCompile(`<title[^>]*>([^<]+)</title>`)
	ogTitleRe     = regexp.MustCompile(`property="og:title"\s+content="([^"]+)"`)
)

// jsonEscapes undoes the escape sequences reddit leaves inside embedded JSON
// so the URL regexes can match.
var jsonEscapes = strings.NewReplacer(
	`\/`, `/`,
	`\"`, `"`,
	`&amp;`, `&`,
)

// scrapePost fetches the post page from the plain-markup host and searches
// it for a manifest URL or an external video embed. This is a best-effort
// heuristic over third-party HTML; a miss is not an error.
func (r *implResolver) scrapePost(ctx context.Context, postURL string) Resolution {
	page, ok := r.fetchPage(ctx, normalizeHost(postURL))
	if !ok {
		return Resolution{}
	}

	body := jsonEscapes.Replace(page)
	res := Resolution{Title: extractTitle(body)}

	if m := manifestURLRe.FindString(body); m != "" {
		mu, err := url.Parse(m)
		if err != nil || !r.allow(mu) {
			return Resolution{Title: res.Title}
		}
		res.Source = DashSource{ManifestURL: m}
		return res
	}

	if e := embedURLRe.FindString(body); e != "" {
		eu, err := url.Parse(e)
		if err != nil || !r.allow(eu) {
			return Resolution{Title: res.Title}
		}
		res.Source = ExternalSource{URL: e}
		return res
	}

	r.logger.Debug(ctx, "No media found in post page: %s", postURL)
	return Resolution{Title: res.Title}
}

// normalizeHost rewrites the post URL onto old.reddit.com, whose markup is
// simpler and more stable to scrape.
func normalizeHost(postURL string) string {
	u, err := url.Parse(postURL)
	if err != nil {
		return postURL
	}
	if isRedditHost(u.Hostname()) && u.Hostname() != "v.redd.it" {
		u.Host = "old.reddit.com"
	}
	return u.String()
}

func (r *implResolver) fetchPage(ctx context.Context, pageURL string) (string, bool) {
	u, err := url.Parse(pageURL)
	if err != nil || !r.allow(u) {
		return "", false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", false
	}
	req.Header.Set("User-Agent", browserUA)

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Debug(ctx, "Page fetch failed for %s: %v", pageURL, err)
		return "", false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		r.logger.Debug(ctx, "Page fetch for %s returned status %d", pageURL, resp.StatusCode)
		return "", false
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxPageSize))
	if err != nil {
		return "", false
	}
	return string(data), true
}

func extractTitle(body string) string {
	if m := ogTitleRe.FindStringSubmatch(body); len(m) == 2 {
		return html.UnescapeString(strings.TrimSpace(m[1]))
	}
	if m := titleRe.FindStringSubmatch(body); len(m) == 2 {
		title := html.UnescapeString(strings.TrimSpace(m[1]))
		// reddit page titles carry a site suffix
		title = strings.TrimSuffix(title, " : reddit")
		return title
	}
	return ""
}

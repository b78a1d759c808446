package resolver

import "context"

// Resolver classifies a media URL by platform and resolves it to a concrete
// fetch target. Resolution never fails hard: a URL that cannot be resolved
// (unknown layout, blocked host, scrape miss) yields a Resolution with a nil
// Source.
type Resolver interface {
	Resolve(ctx context.Context, rawURL string) Resolution
}

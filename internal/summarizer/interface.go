package summarizer

import "context"

// Summarizer condenses a transcript into a short digest suitable for a chat
// message.
type Summarizer interface {
	Summarize(ctx context.Context, transcript string) (string, error)
}

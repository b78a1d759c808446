package transcribe

import (
	"context"
	"errors"
)

// ErrNoSpeech means the provider answered successfully but produced an
// empty transcript. Distinct from transport failures so callers can message
// it differently.
var ErrNoSpeech = errors.New("no speech detected")

// Transcriber converts audio files to text through a speech-to-text API.
type Transcriber interface {
	// Transcribe uploads one audio file and returns its transcript.
	Transcribe(ctx context.Context, audioPath string) (string, error)

	// TranscribeAll transcribes the chunks strictly in order and joins the
	// texts with single spaces. progress is invoked before each chunk with
	// (index, total); it may be nil. The first failure aborts the rest.
	TranscribeAll(ctx context.Context, chunkPaths []string, progress func(i, n int)) (string, error)
}

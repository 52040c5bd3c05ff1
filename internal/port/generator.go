package port

import "context"

// Segment is one increment of a streamed generation. A non-nil Err is
// terminal: the channel closes after it.
type Segment struct {
	Text string
	Err  error
}

// Generator produces text from a language model.
type Generator interface {
	// Generate returns the complete response for the prompt.
	Generate(ctx context.Context, prompt string) (string, error)

	// GenerateStream returns a channel of response segments. The
	// channel is closed when the response is complete or ctx is
	// cancelled. Cancelling ctx aborts the underlying request.
	GenerateStream(ctx context.Context, prompt string) (<-chan Segment, error)
}

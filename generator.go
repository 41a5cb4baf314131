package drill

import "context"

// Generator is a strategy pattern interface for text generation backends.
//
// Stream issues a streaming generation call and returns a pull-based
// fragment iterator. Generate issues a single bounded non-streaming call;
// the implementation enforces its own request timeout and reports expiry
// as ErrTimeout.
//
// Generators never retry internally. Retry and fallback decisions belong
// to callers.
type Generator interface {
	Stream(ctx context.Context, prompt string) (Stream, error)
	Generate(ctx context.Context, prompt string) (string, error)
}

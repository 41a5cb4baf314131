package drill

// StreamState indicates the current state of a Stream.
type StreamState int

const (
	StreamStateNew       StreamState = iota // Before Next() is ever called.
	StreamStateStreaming                    // Mid-stream, receiving fragments.
	StreamStateComplete                     // Next() returned io.EOF.
	StreamStateError                        // Next() returned non-EOF error.
	StreamStateClosed                       // Close() called before terminal state.
)

// Stream uses a pull-based iterator pattern. Cancellation flows through the
// context passed to Generator.Stream().
//
// Next() returns the next text fragment, or io.EOF once the backend signals
// completion. Fragments are returned strictly in production order.
//
// Text() returns the text accumulated from all fragments returned so far.
// After io.EOF it is the complete generated text; after an error it is the
// partial text received up to the failure.
type Stream interface {
	Next() (string, error)
	State() StreamState
	Text() string
	Close() error
}

package mock

import (
	"io"
	"strings"

	"drill"
)

// Interface compliance check.
var _ drill.Stream = (*Stream)(nil)

// Stream is a test double for drill.Stream.
// Set the function fields for the methods you need. NextFn panics when nil
// to catch missing setup. StateFn, TextFn, and CloseFn are nil-safe because
// test code commonly calls defer stream.Close() and these methods rarely
// need custom behavior.
type Stream struct {
	NextFn  func() (string, error)
	StateFn func() drill.StreamState
	TextFn  func() string
	CloseFn func() error
}

// Next delegates to NextFn.
func (s *Stream) Next() (string, error) {
	return s.NextFn()
}

// State delegates to StateFn. Returns StreamStateNew when StateFn is nil.
func (s *Stream) State() drill.StreamState {
	if s.StateFn == nil {
		return drill.StreamStateNew
	}
	return s.StateFn()
}

// Text delegates to TextFn. Returns an empty string when TextFn is nil.
func (s *Stream) Text() string {
	if s.TextFn == nil {
		return ""
	}
	return s.TextFn()
}

// Close delegates to CloseFn. Returns nil when CloseFn is not set.
func (s *Stream) Close() error {
	if s.CloseFn == nil {
		return nil
	}
	return s.CloseFn()
}

// FragmentStream returns a Stream that yields the given fragments in order
// and then signals completion, accumulating text as a real stream would.
func FragmentStream(fragments ...string) *Stream {
	var (
		i    int
		text strings.Builder
	)
	s := &Stream{}
	s.NextFn = func() (string, error) {
		if i >= len(fragments) {
			return "", io.EOF
		}
		frag := fragments[i]
		i++
		text.WriteString(frag)
		return frag, nil
	}
	s.StateFn = func() drill.StreamState {
		if i >= len(fragments) {
			return drill.StreamStateComplete
		}
		return drill.StreamStateStreaming
	}
	s.TextFn = text.String
	return s
}

// FailingStream returns a Stream whose Next fails with err after yielding
// the given fragments.
func FailingStream(err error, fragments ...string) *Stream {
	s := FragmentStream(fragments...)
	inner := s.NextFn
	s.NextFn = func() (string, error) {
		frag, nextErr := inner()
		if nextErr == io.EOF {
			return "", err
		}
		return frag, nextErr
	}
	s.StateFn = func() drill.StreamState { return drill.StreamStateError }
	return s
}

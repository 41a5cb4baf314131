package ollama

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"drill"
)

// stream implements [drill.Stream] by decoding newline-delimited JSON
// payloads from an HTTP response body.
type stream struct {
	body    io.ReadCloser
	scanner *bufio.Scanner
	ctx     context.Context
	state   drill.StreamState
	text    strings.Builder
	err     error // terminal error, if any
}

// Interface compliance check.
var _ drill.Stream = (*stream)(nil)

func newStream(ctx context.Context, body io.ReadCloser) *stream {
	return &stream{
		body:    body,
		scanner: bufio.NewScanner(body),
		ctx:     ctx,
		state:   drill.StreamStateNew,
	}
}

// Next returns the next text fragment from the stream.
// Returns io.EOF when the backend signals done or the stream ends naturally.
func (s *stream) Next() (string, error) {
	switch s.state {
	case drill.StreamStateComplete:
		return "", io.EOF
	case drill.StreamStateError:
		return "", s.err
	case drill.StreamStateClosed:
		return "", fmt.Errorf("ollama: %w", drill.ErrStreamClosed)
	}

	s.state = drill.StreamStateStreaming

	for s.scanner.Scan() {
		line := strings.TrimSpace(s.scanner.Text())
		if line == "" {
			continue
		}

		var payload apiResponse
		if err := json.Unmarshal([]byte(line), &payload); err != nil {
			// Skip undecodable lines and keep reading; the terminal flag
			// arrives on its own line.
			continue
		}

		if payload.Done {
			s.state = drill.StreamStateComplete
			if payload.Response != "" {
				s.text.WriteString(payload.Response)
				return payload.Response, nil
			}
			return "", io.EOF
		}

		if payload.Response != "" {
			s.text.WriteString(payload.Response)
			return payload.Response, nil
		}
	}

	if err := s.scanner.Err(); err != nil {
		s.terminate(err)
		return "", s.err
	}

	// Natural stream end without an explicit done flag counts as completion.
	s.state = drill.StreamStateComplete
	return "", io.EOF
}

// State returns the current stream state.
func (s *stream) State() drill.StreamState {
	return s.state
}

// Text returns the text accumulated from all fragments so far.
func (s *stream) Text() string {
	return s.text.String()
}

// Close closes the underlying HTTP response body.
func (s *stream) Close() error {
	if s.state != drill.StreamStateComplete && s.state != drill.StreamStateError {
		s.state = drill.StreamStateClosed
	}
	return s.body.Close()
}

func (s *stream) terminate(err error) {
	s.state = drill.StreamStateError
	if s.ctx.Err() != nil {
		s.err = fmt.Errorf("ollama: %w", s.ctx.Err())
		return
	}
	s.err = fmt.Errorf("ollama: %v: %w", err, drill.ErrBackendUnavailable)
}

package drill

import "errors"

// Sentinel errors for common failure modes.
var (
	// ErrBackendUnavailable indicates the generation service is unreachable
	// or returned a non-success response.
	ErrBackendUnavailable = errors.New("generation backend unavailable")

	// ErrTimeout indicates a bounded non-streaming call exceeded its deadline.
	// Callers treat it identically to ErrBackendUnavailable.
	ErrTimeout = errors.New("generation request timed out")

	// ErrMalformedAssessment indicates scoring output failed JSON extraction,
	// parsing, or validation.
	ErrMalformedAssessment = errors.New("malformed assessment payload")

	// ErrStreamClosed indicates an operation on a closed stream.
	ErrStreamClosed = errors.New("stream closed")
)

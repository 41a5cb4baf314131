package mock

import (
	"context"

	"drill"
)

// Interface compliance check.
var _ drill.Transcriber = (*Transcriber)(nil)

// Transcriber is a test double for drill.Transcriber. TranscribeFn is
// nil-safe and returns an empty string.
type Transcriber struct {
	TranscribeFn func(ctx context.Context, audio []byte) string
}

// Transcribe delegates to TranscribeFn.
func (t *Transcriber) Transcribe(ctx context.Context, audio []byte) string {
	if t.TranscribeFn == nil {
		return ""
	}
	return t.TranscribeFn(ctx, audio)
}

package stt_test

import (
	"context"
	"testing"

	"drill/stt"
	"github.com/stretchr/testify/assert"
)

func TestWhisper_Transcribe(t *testing.T) {
	t.Parallel()

	t.Run("unconfigured binary yields placeholder", func(t *testing.T) {
		t.Parallel()

		w := stt.New("", nil)
		text := w.Transcribe(context.Background(), []byte("audio bytes"))
		assert.Contains(t, text, "not configured")
	})

	t.Run("missing binary never fails the caller", func(t *testing.T) {
		t.Parallel()

		w := stt.New("/nonexistent/whisper", nil)
		text := w.Transcribe(context.Background(), []byte("audio bytes"))
		assert.NotEmpty(t, text)
		assert.Contains(t, text, "type your answer")
	})
}

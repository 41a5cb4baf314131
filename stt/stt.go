// Package stt provides the speech-to-text collaborator. Transcription is
// best-effort: callers always get a usable string, never an error.
package stt

import (
	"context"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"drill"
)

const (
	unconfiguredPlaceholder = "Voice input is not configured. Please type your answer instead."
	failedPlaceholder       = "Transcription failed - please type your answer."
	noSpeechPlaceholder     = "No speech detected"
)

// Interface compliance check.
var _ drill.Transcriber = (*Whisper)(nil)

// Whisper shells out to a whisper CLI binary when one is configured, and
// degrades to a fixed placeholder otherwise.
type Whisper struct {
	binary string
	logger *slog.Logger
}

// New creates a Whisper transcriber. An empty binary path disables
// transcription.
func New(binary string, logger *slog.Logger) *Whisper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Whisper{binary: binary, logger: logger}
}

// Transcribe converts audio bytes into text. It never fails: any problem
// yields a placeholder the client can show to the candidate.
func (w *Whisper) Transcribe(ctx context.Context, audio []byte) string {
	if w.binary == "" {
		return unconfiguredPlaceholder
	}

	dir, err := os.MkdirTemp("", "drill-audio-")
	if err != nil {
		w.logger.Warn("transcription temp dir failed", "error", err)
		return failedPlaceholder
	}
	defer os.RemoveAll(dir)

	audioPath := filepath.Join(dir, "answer.webm")
	if err := os.WriteFile(audioPath, audio, 0o600); err != nil {
		w.logger.Warn("transcription audio write failed", "error", err)
		return failedPlaceholder
	}

	cmd := exec.CommandContext(ctx, w.binary, audioPath,
		"--model", "base",
		"--output_format", "txt",
		"--output_dir", dir,
		"--language", "en",
		"--fp16", "False",
	)
	if out, err := cmd.CombinedOutput(); err != nil {
		w.logger.Warn("whisper failed", "error", err, "output", strings.TrimSpace(string(out)))
		return failedPlaceholder
	}

	transcript, err := os.ReadFile(filepath.Join(dir, "answer.txt"))
	if err != nil {
		w.logger.Warn("transcription output missing", "error", err)
		return failedPlaceholder
	}

	text := strings.TrimSpace(string(transcript))
	if text == "" {
		return noSpeechPlaceholder
	}
	return text
}

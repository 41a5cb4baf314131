package drill

import "context"

// Scorer produces quality assessments for candidate answers.
//
// Evaluate never fails: when the backend is unavailable or returns
// unparseable output, implementations fall back to a deterministic
// heuristic and always return a usable Assessment.
//
// FinalSummary renders prior score entries into a short prose summary of
// the whole interview; it returns a fixed placeholder on any failure.
type Scorer interface {
	Evaluate(ctx context.Context, role, question, answer string) Assessment
	FinalSummary(ctx context.Context, entries []ScoreEntry) string
}

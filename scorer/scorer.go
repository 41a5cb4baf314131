// Package scorer produces quality assessments for candidate answers,
// backed by the generation service with a deterministic heuristic fallback.
package scorer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"drill"
)

const (
	// minAnswerTokens is the brevity threshold below which the backend is
	// skipped entirely.
	minAnswerTokens = 5

	brevityFeedback     = "Your answer was quite brief. Try to provide more detailed explanations."
	summaryPlaceholder  = "Summary generation unavailable."
	tooBriefFeedback    = "Try to provide more detailed explanations in your answers."
	detailedFeedback    = "Good detailed answer! Keep up the thorough explanations."
	solidFeedback       = "Solid answer. Consider adding more specific examples."
	detailedTag         = "strength: detailed response"
	needsDetailTag      = "area to improve: add more detail"
)

var codeKeywords = regexp.MustCompile(`(?i)function|class|const|let|var|return|if|for|while|async|await`)

// Interface compliance check.
var _ drill.Scorer = (*Scorer)(nil)

// Scorer implements [drill.Scorer].
type Scorer struct {
	gen    drill.Generator
	logger *slog.Logger
}

// New creates a Scorer backed by the given generator.
func New(gen drill.Generator, logger *slog.Logger) *Scorer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scorer{gen: gen, logger: logger}
}

// Evaluate scores a candidate answer against the question it was given.
// It never fails: backend or parse failures degrade to the deterministic
// heuristic assessment.
func (s *Scorer) Evaluate(ctx context.Context, role, question, answer string) drill.Assessment {
	fallback := heuristic(answer)

	if len(strings.Fields(strings.TrimSpace(answer))) < minAnswerTokens {
		fallback.SummaryFeedback = brevityFeedback
		return fallback
	}

	raw, err := s.gen.Generate(ctx, evaluationPrompt(role, question, answer))
	if err != nil {
		s.logger.Warn("scoring backend call failed, using heuristic", "error", err)
		return fallback
	}

	assessment, err := parseAssessment(raw, fallback)
	if err != nil {
		s.logger.Warn("scoring output unusable, using heuristic", "error", err)
		return fallback
	}
	return assessment
}

// FinalSummary renders all prior assessments into one non-streaming call
// requesting a short prose summary. It never fails: any error yields a
// fixed placeholder.
func (s *Scorer) FinalSummary(ctx context.Context, entries []drill.ScoreEntry) string {
	rendered, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return summaryPlaceholder
	}

	prompt := fmt.Sprintf(`Given this list of scores and feedback from an interview:

%s

Write a concise summary (4-6 sentences) describing:
- The candidate's overall performance
- Main strengths
- Key areas to improve

Don't repeat raw numbers. Be professional and constructive.`, rendered)

	summary, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		s.logger.Warn("summary generation failed", "error", err)
		return summaryPlaceholder
	}
	return summary
}

func evaluationPrompt(role, question, answer string) string {
	return fmt.Sprintf(`Evaluate this interview answer and respond with ONLY a JSON object:

Role: %s
Question: %s
Answer: %s

JSON format (copy exactly):
{
  "overall_score": 7,
  "dimensions": {
    "technical_depth": 7,
    "communication": 7,
    "problem_solving": 7
  },
  "summary_feedback": "Brief feedback here",
  "tags": ["strength: something"]
}

Return ONLY the JSON above with your scores. No other text.`, role, question, answer)
}

// heuristic is the deterministic rule-based fallback assessment.
func heuristic(answer string) drill.Assessment {
	wordCount := len(strings.Fields(strings.TrimSpace(answer)))

	score := 5
	if wordCount > 50 {
		score++
	}
	if wordCount > 100 {
		score++
	}
	if codeKeywords.MatchString(answer) {
		score++
	}
	if wordCount > 20 {
		score++
	}
	if wordCount < 10 {
		score -= 2
	}
	score = drill.ClampScore(score)

	var feedback string
	switch {
	case wordCount < 10:
		feedback = tooBriefFeedback
	case wordCount > 50:
		feedback = detailedFeedback
	default:
		feedback = solidFeedback
	}

	tag := needsDetailTag
	if wordCount > 50 {
		tag = detailedTag
	}

	return drill.Assessment{
		OverallScore: score,
		Dimensions: drill.Dimensions{
			TechnicalDepth: score,
			Communication:  drill.ClampScore(score + 1),
			ProblemSolving: score,
		},
		SummaryFeedback: feedback,
		Tags:            []string{tag},
	}
}

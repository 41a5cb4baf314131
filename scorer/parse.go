package scorer

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"drill"
)

// rawAssessment mirrors the JSON shape the evaluation prompt asks for,
// tolerating the camelCase variants some models emit.
type rawAssessment struct {
	OverallScore    *float64 `json:"overall_score"`
	OverallScoreAlt *float64 `json:"overallScore"`
	Dimensions      struct {
		TechnicalDepth *float64 `json:"technical_depth"`
		Communication  *float64 `json:"communication"`
		ProblemSolving *float64 `json:"problem_solving"`
	} `json:"dimensions"`
	SummaryFeedback    string   `json:"summary_feedback"`
	SummaryFeedbackAlt string   `json:"summaryFeedback"`
	Tags               []string `json:"tags"`
}

// parseAssessment extracts and normalizes an Assessment from raw backend
// output. Every numeric field is clamped to [1, 10]; missing dimensions
// default to the overall score; missing text fields fall back to the
// heuristic values.
func parseAssessment(raw string, fallback drill.Assessment) (drill.Assessment, error) {
	jsonStr := stripFences(strings.TrimSpace(raw))

	obj, ok := extractObject(jsonStr)
	if !ok {
		return drill.Assessment{}, fmt.Errorf("no JSON object in output: %w", drill.ErrMalformedAssessment)
	}

	var parsed rawAssessment
	if err := json.Unmarshal([]byte(obj), &parsed); err != nil {
		return drill.Assessment{}, fmt.Errorf("%v: %w", err, drill.ErrMalformedAssessment)
	}

	overall := parsed.OverallScore
	if overall == nil {
		overall = parsed.OverallScoreAlt
	}
	if overall == nil {
		return drill.Assessment{}, fmt.Errorf("missing overall score: %w", drill.ErrMalformedAssessment)
	}
	score := drill.ClampScore(round(*overall))

	feedback := parsed.SummaryFeedback
	if feedback == "" {
		feedback = parsed.SummaryFeedbackAlt
	}
	if feedback == "" {
		feedback = fallback.SummaryFeedback
	}

	tags := parsed.Tags
	if tags == nil {
		tags = fallback.Tags
	}

	return drill.Assessment{
		OverallScore: score,
		Dimensions: drill.Dimensions{
			TechnicalDepth: dimension(parsed.Dimensions.TechnicalDepth, score),
			Communication:  dimension(parsed.Dimensions.Communication, score),
			ProblemSolving: dimension(parsed.Dimensions.ProblemSolving, score),
		},
		SummaryFeedback: feedback,
		Tags:            tags,
	}, nil
}

func dimension(v *float64, overall int) int {
	if v == nil {
		return overall
	}
	return drill.ClampScore(round(*v))
}

func round(f float64) int {
	return int(math.Round(f))
}

// stripFences removes Markdown code-fence wrapping if present.
func stripFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// extractObject returns the first top-level {...} region via brace matching,
// skipping braces inside JSON string literals.
func extractObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start == -1 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

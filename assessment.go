package drill

// Dimensions holds the fixed per-dimension scores of an assessment.
// Every value is clamped to [1, 10].
type Dimensions struct {
	TechnicalDepth int `json:"technical_depth"`
	Communication  int `json:"communication"`
	ProblemSolving int `json:"problem_solving"`
}

// Assessment is the normalized quality assessment of one candidate answer.
// Assessments are immutable once created.
type Assessment struct {
	OverallScore    int        `json:"overallScore"`
	Dimensions      Dimensions `json:"dimensions"`
	SummaryFeedback string     `json:"summaryFeedback"`
	Tags            []string   `json:"tags"`
}

// ScoreEntry records one evaluated candidate answer. The embedded Assessment
// flattens into the entry on the wire.
type ScoreEntry struct {
	QuestionID   int    `json:"questionId"`
	QuestionText string `json:"questionText"`
	UserAnswer   string `json:"userAnswer"`
	Assessment
}

// ClampScore clamps a score to the valid [1, 10] range.
func ClampScore(n int) int {
	if n < 1 {
		return 1
	}
	if n > 10 {
		return 10
	}
	return n
}

// DefaultAssessment returns the fixed assessment substituted when scoring
// fails unexpectedly.
func DefaultAssessment() Assessment {
	return Assessment{
		OverallScore: 7,
		Dimensions: Dimensions{
			TechnicalDepth: 7,
			Communication:  7,
			ProblemSolving: 7,
		},
		SummaryFeedback: "Good answer. Keep practicing!",
		Tags:            []string{},
	}
}

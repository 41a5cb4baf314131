package drill_test

import (
	"testing"

	"drill"
	"github.com/stretchr/testify/assert"
)

func TestClampScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   int
		want int
	}{
		{"below range", -3, 1},
		{"zero", 0, 1},
		{"lower bound", 1, 1},
		{"in range", 7, 7},
		{"upper bound", 10, 10},
		{"above range", 42, 10},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, drill.ClampScore(tt.in))
		})
	}
}

func TestDefaultAssessment(t *testing.T) {
	t.Parallel()

	a := drill.DefaultAssessment()
	assert.Equal(t, 7, a.OverallScore)
	assert.Equal(t, 7, a.Dimensions.TechnicalDepth)
	assert.Equal(t, 7, a.Dimensions.Communication)
	assert.Equal(t, 7, a.Dimensions.ProblemSolving)
	assert.NotEmpty(t, a.SummaryFeedback)
	assert.NotNil(t, a.Tags)
}

// Package mock provides test doubles for drill interfaces using function fields.
package mock

import (
	"context"

	"drill"
)

// Interface compliance checks.
var (
	_ drill.Generator = (*Generator)(nil)
	_ drill.Scorer    = (*Scorer)(nil)
)

// Generator is a test double for drill.Generator.
// Set the function fields for the methods you need.
type Generator struct {
	StreamFn   func(ctx context.Context, prompt string) (drill.Stream, error)
	GenerateFn func(ctx context.Context, prompt string) (string, error)
}

// Stream delegates to StreamFn.
func (g *Generator) Stream(ctx context.Context, prompt string) (drill.Stream, error) {
	return g.StreamFn(ctx, prompt)
}

// Generate delegates to GenerateFn.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	return g.GenerateFn(ctx, prompt)
}

// Scorer is a test double for drill.Scorer. EvaluateFn panics when nil to
// catch missing setup; FinalSummaryFn is nil-safe and returns an empty
// string because most tests never exercise summaries.
type Scorer struct {
	EvaluateFn     func(ctx context.Context, role, question, answer string) drill.Assessment
	FinalSummaryFn func(ctx context.Context, entries []drill.ScoreEntry) string
}

// Evaluate delegates to EvaluateFn.
func (s *Scorer) Evaluate(ctx context.Context, role, question, answer string) drill.Assessment {
	return s.EvaluateFn(ctx, role, question, answer)
}

// FinalSummary delegates to FinalSummaryFn.
func (s *Scorer) FinalSummary(ctx context.Context, entries []drill.ScoreEntry) string {
	if s.FinalSummaryFn == nil {
		return ""
	}
	return s.FinalSummaryFn(ctx, entries)
}

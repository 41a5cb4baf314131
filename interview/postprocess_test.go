package interview_test

import (
	"strings"
	"testing"

	"drill/interview"
	"github.com/stretchr/testify/assert"
)

func TestPostprocess(t *testing.T) {
	t.Parallel()

	t.Run("short single question passes through", func(t *testing.T) {
		t.Parallel()

		raw := "Good point about indexes.\n\nHow would you shard a hot table?"
		assert.Equal(t, raw, interview.Postprocess(raw))
	})

	t.Run("trims surrounding whitespace", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "What is Go?", interview.Postprocess("  What is Go?\n"))
	})

	t.Run("multiple questions truncate to feedback plus one question", func(t *testing.T) {
		t.Parallel()

		raw := "Nice answer about caching.\n\n" +
			"How do you invalidate entries?\n\n" +
			"Also, what eviction policy would you pick?"

		got := interview.Postprocess(raw)
		assert.Equal(t, "Nice answer about caching.\n\nHow do you invalidate entries?", got)
	})

	t.Run("two segments are never truncated", func(t *testing.T) {
		t.Parallel()

		raw := "Good thinking.\n\nWhat about retries?"
		assert.Equal(t, raw, interview.Postprocess(raw))
	})

	t.Run("extra segments without questions are kept", func(t *testing.T) {
		t.Parallel()

		raw := "Good.\n\nWhat about retries?\n\nTake your time with this one."
		assert.Equal(t, raw, interview.Postprocess(raw))
	})

	t.Run("long turn keeps only the first three sentences", func(t *testing.T) {
		t.Parallel()

		sentence := "This sentence pads the response well past the length budget with filler words. "
		raw := strings.TrimSpace(strings.Repeat(sentence, 6))

		got := interview.Postprocess(raw)
		assert.Equal(t, strings.TrimSpace(strings.Repeat(sentence, 3)), got)
		assert.Less(t, len(got), len(raw))
	})

	t.Run("length cap respects question marks as sentence ends", func(t *testing.T) {
		t.Parallel()

		raw := "Your answer covered the basics of container orchestration quite well overall! " +
			"I liked the point about readiness probes and rolling deployments in production. " +
			"Can you walk me through how a liveness probe failure is handled? " +
			"Also consider what happens when the scheduler cannot place a pod anywhere in a resource constrained cluster."

		got := interview.Postprocess(raw)
		assert.True(t, strings.HasSuffix(got, "liveness probe failure is handled?"), got)
	})

	t.Run("text at the cap is untouched", func(t *testing.T) {
		t.Parallel()

		raw := strings.Repeat("a", 300)
		assert.Equal(t, raw, interview.Postprocess(raw))
	})
}

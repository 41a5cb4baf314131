package interview_test

import (
	"context"
	"sync"
	"testing"

	"drill"
	"drill/interview"
	"drill/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder is a concurrency-safe Emitter that captures emitted events.
type recorder struct {
	mu     sync.Mutex
	events []drill.Event
}

func (r *recorder) Emit(e drill.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) Events() []drill.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]drill.Event, len(r.events))
	copy(out, r.events)
	return out
}

func (r *recorder) chunks() []string {
	var out []string
	for _, e := range r.Events() {
		if c, ok := e.(drill.EventChunk); ok {
			out = append(out, c.Chunk)
		}
	}
	return out
}

func (r *recorder) turnsDone() []string {
	var out []string
	for _, e := range r.Events() {
		if d, ok := e.(drill.EventTurnDone); ok {
			out = append(out, d.Question)
		}
	}
	return out
}

func (r *recorder) errors() []string {
	var out []string
	for _, e := range r.Events() {
		if ev, ok := e.(drill.EventError); ok {
			out = append(out, ev.Message)
		}
	}
	return out
}

func (r *recorder) scores() []drill.Assessment {
	var out []drill.Assessment
	for _, e := range r.Events() {
		if s, ok := e.(drill.EventScore); ok {
			out = append(out, s.Assessment)
		}
	}
	return out
}

// streamingGenerator returns a generator whose Stream calls yield the given
// fragment sets in order of invocation.
func streamingGenerator(turns ...[]string) *mock.Generator {
	call := 0
	return &mock.Generator{
		StreamFn: func(_ context.Context, _ string) (drill.Stream, error) {
			fragments := turns[call%len(turns)]
			call++
			return mock.FragmentStream(fragments...), nil
		},
	}
}

func staticScorer(a drill.Assessment) *mock.Scorer {
	return &mock.Scorer{
		EvaluateFn: func(_ context.Context, _, _, _ string) drill.Assessment {
			return a
		},
	}
}

func TestInterview_HandleInit(t *testing.T) {
	t.Parallel()

	t.Run("emits greeting, stream, and finalized first question", func(t *testing.T) {
		t.Parallel()

		rec := &recorder{}
		gen := streamingGenerator([]string{"Tell me ", "about ", "yourself."})
		iv := interview.New(gen, staticScorer(drill.DefaultAssessment()), rec, nil)

		iv.HandleInit(context.Background(), "Backend Engineer")

		events := rec.Events()
		require.NotEmpty(t, events)
		greeting, ok := events[0].(drill.EventGreeting)
		require.True(t, ok, "first event must be the greeting")
		assert.Contains(t, greeting.Message, "Backend Engineer")

		assert.Equal(t, []string{"Tell me ", "about ", "yourself."}, rec.chunks())
		require.Equal(t, []string{"Tell me about yourself."}, rec.turnsDone())

		session := iv.Snapshot()
		assert.Equal(t, "Backend Engineer", session.Role)
		assert.Equal(t, 1, session.TurnsCompleted)
		assert.Equal(t, "Tell me about yourself.", session.PendingQuestion)
		require.Len(t, session.Transcript, 2) // greeting + first question
		assert.Equal(t, drill.SpeakerInterviewer, session.Transcript[0].Speaker)
		assert.Equal(t, interview.StateAwaitingAnswer, iv.State())
	})

	t.Run("generation failure substitutes the fallback question", func(t *testing.T) {
		t.Parallel()

		rec := &recorder{}
		gen := &mock.Generator{
			StreamFn: func(_ context.Context, _ string) (drill.Stream, error) {
				return nil, drill.ErrBackendUnavailable
			},
		}
		iv := interview.New(gen, staticScorer(drill.DefaultAssessment()), rec, nil)

		iv.HandleInit(context.Background(), "Backend Engineer")

		require.Len(t, rec.turnsDone(), 1)
		assert.Contains(t, rec.turnsDone()[0], "Backend Engineer technologies")
		assert.Equal(t, rec.turnsDone(), rec.chunks(), "fallback is streamed as a single chunk")

		session := iv.Snapshot()
		assert.Equal(t, 1, session.TurnsCompleted, "fallback still counts as a completed turn")
		assert.Equal(t, interview.StateAwaitingAnswer, iv.State())
	})

	t.Run("mid-stream failure substitutes the fallback question", func(t *testing.T) {
		t.Parallel()

		rec := &recorder{}
		gen := &mock.Generator{
			StreamFn: func(_ context.Context, _ string) (drill.Stream, error) {
				return mock.FailingStream(drill.ErrBackendUnavailable, "partial "), nil
			},
		}
		iv := interview.New(gen, staticScorer(drill.DefaultAssessment()), rec, nil)

		iv.HandleInit(context.Background(), "SRE")

		require.Len(t, rec.turnsDone(), 1)
		assert.Contains(t, rec.turnsDone()[0], "SRE technologies")
	})

	t.Run("duplicate init is rejected without corrupting state", func(t *testing.T) {
		t.Parallel()

		rec := &recorder{}
		gen := streamingGenerator([]string{"First question?"})
		iv := interview.New(gen, staticScorer(drill.DefaultAssessment()), rec, nil)

		iv.HandleInit(context.Background(), "Backend Engineer")
		iv.HandleInit(context.Background(), "Frontend Engineer")

		require.Len(t, rec.errors(), 1)
		assert.Contains(t, rec.errors()[0], "already initialized")

		session := iv.Snapshot()
		assert.Equal(t, "Backend Engineer", session.Role)
		assert.Equal(t, 1, session.TurnsCompleted)
	})

	t.Run("empty role is rejected", func(t *testing.T) {
		t.Parallel()

		rec := &recorder{}
		iv := interview.New(streamingGenerator([]string{"?"}), staticScorer(drill.DefaultAssessment()), rec, nil)

		iv.HandleInit(context.Background(), "   ")

		require.Len(t, rec.errors(), 1)
		assert.Equal(t, interview.StateAwaitingInit, iv.State())
	})
}

func TestInterview_HandleAnswer(t *testing.T) {
	t.Parallel()

	t.Run("answer before init is an error event", func(t *testing.T) {
		t.Parallel()

		rec := &recorder{}
		iv := interview.New(streamingGenerator([]string{"?"}), staticScorer(drill.DefaultAssessment()), rec, nil)

		iv.HandleAnswer(context.Background(), "my answer")

		require.Len(t, rec.errors(), 1)
		assert.Contains(t, rec.errors()[0], "not initialized")
	})

	t.Run("streams next turn and scores the answered question", func(t *testing.T) {
		t.Parallel()

		rec := &recorder{}
		gen := streamingGenerator(
			[]string{"What is a goroutine?"},
			[]string{"Good. ", "How do channels work?"},
		)

		var scoredQuestion, scoredAnswer string
		sc := &mock.Scorer{
			EvaluateFn: func(_ context.Context, role, question, answer string) drill.Assessment {
				scoredQuestion = question
				scoredAnswer = answer
				return drill.DefaultAssessment()
			},
		}

		iv := interview.New(gen, sc, rec, nil)
		iv.HandleInit(context.Background(), "Backend Engineer")
		iv.HandleAnswer(context.Background(), "A lightweight thread managed by the runtime.")
		iv.Wait()

		assert.Equal(t, "What is a goroutine?", scoredQuestion)
		assert.Equal(t, "A lightweight thread managed by the runtime.", scoredAnswer)

		require.Len(t, rec.turnsDone(), 2)
		assert.Equal(t, "Good. How do channels work?", rec.turnsDone()[1])

		require.Len(t, rec.scores(), 1)
		assert.Equal(t, 7, rec.scores()[0].OverallScore)

		session := iv.Snapshot()
		require.Len(t, session.Scores, 1)
		assert.Equal(t, 1, session.Scores[0].QuestionID)
		assert.Equal(t, "What is a goroutine?", session.Scores[0].QuestionText)
		assert.Equal(t, 2, session.TurnsCompleted)
	})

	t.Run("scoring snapshot survives the next turn overwriting the pending question", func(t *testing.T) {
		t.Parallel()

		rec := &recorder{}
		gen := streamingGenerator(
			[]string{"Question one?"},
			[]string{"Question two?"},
		)

		// Gate scoring until the next turn has fully completed, so the
		// pending question has already been overwritten when the scorer runs.
		gate := make(chan struct{})
		var scoredQuestion string
		sc := &mock.Scorer{
			EvaluateFn: func(_ context.Context, _, question, _ string) drill.Assessment {
				<-gate
				scoredQuestion = question
				return drill.DefaultAssessment()
			},
		}

		iv := interview.New(gen, sc, rec, nil)
		iv.HandleInit(context.Background(), "Backend Engineer")
		iv.HandleAnswer(context.Background(), "An answer to the first question.")

		require.Equal(t, []string{"Question one?", "Question two?"}, rec.turnsDone())
		assert.Equal(t, "Question two?", iv.Snapshot().PendingQuestion)

		close(gate)
		iv.Wait()

		assert.Equal(t, "Question one?", scoredQuestion)
	})

	t.Run("generation failure still scores the answer", func(t *testing.T) {
		t.Parallel()

		rec := &recorder{}
		first := true
		gen := &mock.Generator{
			StreamFn: func(_ context.Context, _ string) (drill.Stream, error) {
				if first {
					first = false
					return mock.FragmentStream("Question one?"), nil
				}
				return nil, drill.ErrBackendUnavailable
			},
		}

		var scoredQuestion string
		sc := &mock.Scorer{
			EvaluateFn: func(_ context.Context, _, question, _ string) drill.Assessment {
				scoredQuestion = question
				return drill.DefaultAssessment()
			},
		}

		iv := interview.New(gen, sc, rec, nil)
		iv.HandleInit(context.Background(), "Backend Engineer")
		iv.HandleAnswer(context.Background(), "My answer.")
		iv.Wait()

		require.Len(t, rec.turnsDone(), 2)
		assert.Contains(t, rec.turnsDone()[1], "another question")
		assert.Equal(t, "Question one?", scoredQuestion)
		require.Len(t, rec.scores(), 1)
		assert.Equal(t, 2, iv.Snapshot().TurnsCompleted)
	})

	t.Run("scorer panic substitutes the default assessment", func(t *testing.T) {
		t.Parallel()

		rec := &recorder{}
		gen := streamingGenerator(
			[]string{"Question one?"},
			[]string{"Question two?"},
		)
		sc := &mock.Scorer{
			EvaluateFn: func(_ context.Context, _, _, _ string) drill.Assessment {
				panic("scorer bug")
			},
		}

		iv := interview.New(gen, sc, rec, nil)
		iv.HandleInit(context.Background(), "Backend Engineer")
		iv.HandleAnswer(context.Background(), "My answer.")
		iv.Wait()

		require.Len(t, rec.scores(), 1)
		assert.Equal(t, drill.DefaultAssessment(), rec.scores()[0])
	})

	t.Run("multi-question continuation is truncated", func(t *testing.T) {
		t.Parallel()

		rec := &recorder{}
		gen := streamingGenerator(
			[]string{"Question one?"},
			[]string{"Nice answer.\n\n", "What about indexes?\n\n", "And what about locks?"},
		)

		iv := interview.New(gen, staticScorer(drill.DefaultAssessment()), rec, nil)
		iv.HandleInit(context.Background(), "Backend Engineer")
		iv.HandleAnswer(context.Background(), "Another detailed answer from the candidate.")
		iv.Wait()

		require.Len(t, rec.turnsDone(), 2)
		assert.Equal(t, "Nice answer.\n\nWhat about indexes?", rec.turnsDone()[1])
	})
}

func TestInterview_Close(t *testing.T) {
	t.Parallel()

	t.Run("scoring after close is dropped", func(t *testing.T) {
		t.Parallel()

		rec := &recorder{}
		gen := streamingGenerator(
			[]string{"Question one?"},
			[]string{"Question two?"},
		)

		gate := make(chan struct{})
		sc := &mock.Scorer{
			EvaluateFn: func(_ context.Context, _, _, _ string) drill.Assessment {
				<-gate
				return drill.DefaultAssessment()
			},
		}

		iv := interview.New(gen, sc, rec, nil)
		iv.HandleInit(context.Background(), "Backend Engineer")
		iv.HandleAnswer(context.Background(), "My answer.")

		iv.Close()
		close(gate)
		iv.Wait()

		assert.Empty(t, rec.scores())
		assert.Equal(t, interview.StateClosed, iv.State())
		assert.Empty(t, iv.Snapshot().Scores)
	})
}

func TestInterview_Isolation(t *testing.T) {
	t.Parallel()

	// Two concurrent sessions with different roles never observe each
	// other's transcript or scores.
	recA, recB := &recorder{}, &recorder{}
	genA := streamingGenerator([]string{"Question about Go?"}, []string{"Another Go question?"})
	genB := streamingGenerator([]string{"Question about React?"}, []string{"Another React question?"})
	sc := staticScorer(drill.DefaultAssessment())

	ivA := interview.New(genA, sc, recA, nil)
	ivB := interview.New(genB, sc, recB, nil)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		ivA.HandleInit(context.Background(), "Backend Engineer")
		ivA.HandleAnswer(context.Background(), "Answer from candidate A.")
	}()
	go func() {
		defer wg.Done()
		ivB.HandleInit(context.Background(), "Frontend Engineer")
		ivB.HandleAnswer(context.Background(), "Answer from candidate B.")
	}()
	wg.Wait()
	ivA.Wait()
	ivB.Wait()

	sessionA, sessionB := ivA.Snapshot(), ivB.Snapshot()
	assert.NotEqual(t, sessionA.ID, sessionB.ID)
	assert.Equal(t, "Backend Engineer", sessionA.Role)
	assert.Equal(t, "Frontend Engineer", sessionB.Role)

	for _, turn := range sessionA.Transcript {
		assert.NotContains(t, turn.Text, "React")
		assert.NotContains(t, turn.Text, "candidate B")
	}
	require.Len(t, sessionA.Scores, 1)
	assert.Equal(t, "Answer from candidate A.", sessionA.Scores[0].UserAnswer)
	require.Len(t, sessionB.Scores, 1)
	assert.Equal(t, "Answer from candidate B.", sessionB.Scores[0].UserAnswer)
}

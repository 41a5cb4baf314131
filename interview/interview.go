// Package interview orchestrates one live interview session: it sequences
// greeting, question, answer, and feedback cycles over a streaming
// generation backend and launches scoring as a non-blocking side activity.
package interview

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"drill"
	"drill/prompt"
)

// State is the lifecycle state of an Interview.
type State int

const (
	StateAwaitingInit State = iota
	StateAwaitingAnswer
	StateGenerating
	StateClosed
)

const (
	greetingTemplate      = "Hi! I'm excited to interview you for the %s position. Let's have a conversation about your experience and skills."
	firstQuestionFallback = "Tell me about your experience with %s technologies."
	continuationFallback  = "Thank you for your answer. Let me ask you another question: What challenges have you faced in your role?"
)

// Emitter delivers session events to the client. Implementations must be
// safe for concurrent use: scoring emits from its own goroutine while the
// next turn may already be streaming.
type Emitter interface {
	Emit(drill.Event)
}

// Interview is the per-connection session state machine. HandleInit and
// HandleAnswer are expected to be called sequentially from a single reader
// goroutine; scoring runs concurrently and shares only the immutable
// question snapshot passed to it as arguments.
type Interview struct {
	gen     drill.Generator
	scorer  drill.Scorer
	emitter Emitter
	logger  *slog.Logger

	mu      sync.Mutex
	state   State
	session *drill.Session

	scoring sync.WaitGroup
}

// New creates an Interview bound to one connection's emitter.
func New(gen drill.Generator, scorer drill.Scorer, emitter Emitter, logger *slog.Logger) *Interview {
	if logger == nil {
		logger = slog.Default()
	}
	now := time.Now()
	return &Interview{
		gen:     gen,
		scorer:  scorer,
		emitter: emitter,
		logger:  logger,
		state:   StateAwaitingInit,
		session: &drill.Session{
			ID:        uuid.NewString(),
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}

// ID returns the session identifier.
func (iv *Interview) ID() string {
	return iv.session.ID
}

// State returns the current lifecycle state.
func (iv *Interview) State() State {
	iv.mu.Lock()
	defer iv.mu.Unlock()
	return iv.state
}

// Snapshot returns a copy of the session with cloned slices.
func (iv *Interview) Snapshot() drill.Session {
	iv.mu.Lock()
	defer iv.mu.Unlock()
	s := *iv.session
	s.Transcript = slices.Clone(s.Transcript)
	s.Scores = slices.Clone(s.Scores)
	return s
}

// HandleInit sets the session role, emits the greeting, and generates the
// opening question. A second init on an initialized session is rejected
// with an error event and leaves the session state untouched.
func (iv *Interview) HandleInit(ctx context.Context, role string) {
	role = strings.TrimSpace(role)

	iv.mu.Lock()
	if iv.state != StateAwaitingInit {
		iv.mu.Unlock()
		iv.emitter.Emit(drill.EventError{Message: "session already initialized"})
		return
	}
	if role == "" {
		iv.mu.Unlock()
		iv.emitter.Emit(drill.EventError{Message: "init requires a role"})
		return
	}

	greeting := fmt.Sprintf(greetingTemplate, role)
	iv.session.Role = role
	iv.session.Transcript = append(iv.session.Transcript, drill.Turn{Speaker: drill.SpeakerInterviewer, Text: greeting})
	iv.session.UpdatedAt = time.Now()
	iv.state = StateGenerating
	iv.mu.Unlock()

	iv.emitter.Emit(drill.EventGreeting{Message: greeting})

	warmup := prompt.Warmup(prompt.Persona(role))
	iv.generateTurn(ctx, warmup, fmt.Sprintf(firstQuestionFallback, role))
}

// HandleAnswer records a candidate answer, launches scoring against the
// question the candidate was actually answering, and generates the next
// interviewer turn. Answers arriving outside AwaitingAnswer are rejected
// with an error event.
func (iv *Interview) HandleAnswer(ctx context.Context, answer string) {
	iv.mu.Lock()
	if iv.state != StateAwaitingAnswer {
		state := iv.state
		iv.mu.Unlock()
		switch state {
		case StateAwaitingInit:
			iv.emitter.Emit(drill.EventError{Message: "session not initialized"})
		default:
			iv.emitter.Emit(drill.EventError{Message: "not ready for an answer"})
		}
		return
	}

	// Snapshot the answered question before this turn's generation
	// overwrites PendingQuestion. The scoring task receives the snapshot
	// as arguments and never reads mutable session state.
	answered := iv.session.PendingQuestion
	role := iv.session.Role
	iv.session.Transcript = append(iv.session.Transcript, drill.Turn{Speaker: drill.SpeakerCandidate, Text: answer})
	iv.session.UpdatedAt = time.Now()
	transcript := slices.Clone(iv.session.Transcript)
	iv.state = StateGenerating
	iv.mu.Unlock()

	iv.scoring.Add(1)
	go iv.score(ctx, role, answered, answer)

	turn := prompt.Turn(prompt.Persona(role), transcript)
	iv.generateTurn(ctx, turn, continuationFallback)
}

// Close discards the session. In-flight generation and scoring may run to
// completion; their results are dropped.
func (iv *Interview) Close() {
	iv.mu.Lock()
	iv.state = StateClosed
	iv.mu.Unlock()
}

// Wait blocks until in-flight scoring has finished. Used by tests and
// during shutdown.
func (iv *Interview) Wait() {
	iv.scoring.Wait()
}

// generateTurn streams one interviewer turn to the emitter and finalizes
// it. Any generation failure substitutes the fallback line, still counted
// as a completed turn.
func (iv *Interview) generateTurn(ctx context.Context, turnPrompt, fallback string) {
	text, ok := iv.streamTurn(ctx, turnPrompt)
	if !ok {
		iv.emitter.Emit(drill.EventChunk{Chunk: fallback})
		iv.finishTurn(fallback)
		return
	}
	iv.finishTurn(Postprocess(text))
}

func (iv *Interview) streamTurn(ctx context.Context, turnPrompt string) (string, bool) {
	stream, err := iv.gen.Stream(ctx, turnPrompt)
	if err != nil {
		iv.logger.Warn("generation failed, substituting fallback", "session_id", iv.session.ID, "error", err)
		return "", false
	}
	defer stream.Close()

	for {
		frag, err := stream.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			iv.logger.Warn("stream failed mid-turn, substituting fallback", "session_id", iv.session.ID, "error", err)
			return "", false
		}
		iv.emitter.Emit(drill.EventChunk{Chunk: frag})
	}

	text := strings.TrimSpace(stream.Text())
	if text == "" {
		return "", false
	}
	return text, true
}

func (iv *Interview) finishTurn(text string) {
	iv.mu.Lock()
	if iv.state == StateClosed {
		iv.mu.Unlock()
		return
	}
	iv.session.Transcript = append(iv.session.Transcript, drill.Turn{Speaker: drill.SpeakerInterviewer, Text: text})
	iv.session.PendingQuestion = text
	iv.session.TurnsCompleted++
	iv.session.UpdatedAt = time.Now()
	iv.state = StateAwaitingAnswer
	iv.mu.Unlock()

	iv.emitter.Emit(drill.EventTurnDone{Question: text})
}

func (iv *Interview) score(ctx context.Context, role, question, answer string) {
	defer iv.scoring.Done()

	assessment := iv.evaluate(ctx, role, question, answer)

	iv.mu.Lock()
	if iv.state == StateClosed {
		iv.mu.Unlock()
		return
	}
	iv.session.Scores = append(iv.session.Scores, drill.ScoreEntry{
		QuestionID:   len(iv.session.Scores) + 1,
		QuestionText: question,
		UserAnswer:   answer,
		Assessment:   assessment,
	})
	iv.session.UpdatedAt = time.Now()
	iv.mu.Unlock()

	iv.emitter.Emit(drill.EventScore{Assessment: assessment})
}

// evaluate shields the session from a misbehaving scorer. Evaluate is
// contractually infallible, but a panic here must not take down the
// connection's turn flow.
func (iv *Interview) evaluate(ctx context.Context, role, question, answer string) (a drill.Assessment) {
	defer func() {
		if r := recover(); r != nil {
			iv.logger.Error("scorer panicked, substituting default assessment", "session_id", iv.session.ID, "panic", r)
			a = drill.DefaultAssessment()
		}
	}()
	return iv.scorer.Evaluate(ctx, role, question, answer)
}

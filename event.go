package drill

// Event is a sealed interface representing an outbound session event.
// Events are purely semantic; the transport gateway decides how they are
// framed on the wire. The unexported marker method prevents external
// implementations.
type Event interface {
	event()
}

// EventGreeting carries the session opening line.
type EventGreeting struct {
	Message string
}

func (EventGreeting) event() {}

// EventChunk carries one incremental fragment of the interviewer turn
// currently being generated.
type EventChunk struct {
	Chunk string
}

func (EventChunk) event() {}

// EventTurnDone carries the finalized, post-processed interviewer turn.
type EventTurnDone struct {
	Question string
}

func (EventTurnDone) event() {}

// EventScore carries the scoring result for the most recently answered
// question. It may arrive before or after the next turn's EventTurnDone.
type EventScore struct {
	Assessment Assessment
}

func (EventScore) event() {}

// EventError reports malformed input or an internal failure. The session
// remains usable after an error event.
type EventError struct {
	Message string
}

func (EventError) event() {}

// Interface compliance checks.
var (
	_ Event = EventGreeting{}
	_ Event = EventChunk{}
	_ Event = EventTurnDone{}
	_ Event = EventScore{}
	_ Event = EventError{}
)

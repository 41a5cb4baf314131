package drill

import "time"

// Speaker identifies who produced a transcript turn.
type Speaker string

const (
	SpeakerCandidate   Speaker = "candidate"
	SpeakerInterviewer Speaker = "interviewer"
)

// Turn is one entry in a session transcript.
type Turn struct {
	Speaker Speaker `json:"speaker"`
	Text    string  `json:"text"`
}

// Session holds the state of one live interview. Exactly one Session exists
// per open connection; it is discarded when the connection closes.
//
// Transcript is append-only. PendingQuestion is the most recently completed
// interviewer turn; a candidate answer is always scored against the
// PendingQuestion captured before the next turn overwrites it.
type Session struct {
	ID              string
	Role            string
	Transcript      []Turn
	TurnsCompleted  int
	PendingQuestion string
	Scores          []ScoreEntry
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

package ws

import "drill"

// Inbound message kinds.
const (
	msgInit        = "init"
	msgUserMessage = "user_message"
)

// Outbound frame kinds.
const (
	frameGreeting = "greeting"
	frameStream   = "ai_stream"
	frameDone     = "ai_done"
	frameScore    = "score_update"
	frameError    = "error"
)

// inboundFrame is a discriminated client message.
type inboundFrame struct {
	Type    string `json:"type"`
	Role    string `json:"role,omitempty"`
	Message string `json:"message,omitempty"`
}

// outboundFrame is the wire shape of a server event.
type outboundFrame struct {
	Type     string            `json:"type"`
	Message  string            `json:"message,omitempty"`
	Chunk    string            `json:"chunk,omitempty"`
	Question string            `json:"question,omitempty"`
	Payload  *drill.Assessment `json:"payload,omitempty"`
}

// encodeEvent maps a semantic session event to its wire frame.
func encodeEvent(e drill.Event) outboundFrame {
	switch evt := e.(type) {
	case drill.EventGreeting:
		return outboundFrame{Type: frameGreeting, Message: evt.Message}
	case drill.EventChunk:
		return outboundFrame{Type: frameStream, Chunk: evt.Chunk}
	case drill.EventTurnDone:
		return outboundFrame{Type: frameDone, Question: evt.Question}
	case drill.EventScore:
		assessment := evt.Assessment
		return outboundFrame{Type: frameScore, Payload: &assessment}
	case drill.EventError:
		return outboundFrame{Type: frameError, Message: evt.Message}
	default:
		return outboundFrame{Type: frameError, Message: "internal error"}
	}
}

// Package ws is the transport gateway: it binds one interview session to
// each websocket connection and translates between wire frames and
// semantic session events.
package ws

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"drill"
	"drill/interview"
)

// Gateway accepts interview connections and owns the connection-keyed
// session table. Entries are inserted on connect and removed on close; no
// other writer touches another session's entry.
type Gateway struct {
	gen    drill.Generator
	scorer drill.Scorer
	logger *slog.Logger

	upgrader websocket.Upgrader

	mu       sync.RWMutex
	sessions map[string]*interview.Interview
}

// NewGateway creates a Gateway producing sessions backed by the given
// generator and scorer.
func NewGateway(gen drill.Generator, scorer drill.Scorer, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{
		gen:    gen,
		scorer: scorer,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The browser client is served from a different origin in
			// local development.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		sessions: make(map[string]*interview.Interview),
	}
}

// Handle upgrades the request and runs the connection's read loop until
// the client disconnects. Session state is discarded on return.
func (g *Gateway) Handle(c *gin.Context) {
	conn, err := g.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		g.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	cl := newClient(conn, g.logger)
	iv := interview.New(g.gen, g.scorer, cl, g.logger)

	g.mu.Lock()
	g.sessions[iv.ID()] = iv
	g.mu.Unlock()

	logger := g.logger.With("session_id", iv.ID())
	logger.Info("interview connection opened")

	defer func() {
		iv.Close()
		g.mu.Lock()
		delete(g.sessions, iv.ID())
		g.mu.Unlock()
		cl.shutdown()
		conn.Close()
		logger.Info("interview connection closed")
	}()

	go cl.writePump()

	ctx := c.Request.Context()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Warn("websocket read failed", "error", err)
			}
			return
		}
		g.dispatch(ctx, iv, cl, data)
	}
}

// dispatch routes one inbound frame into the session state machine.
// Malformed frames produce an error event; the connection stays open.
func (g *Gateway) dispatch(ctx context.Context, iv *interview.Interview, cl *client, data []byte) {
	var frame inboundFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		cl.Emit(drill.EventError{Message: "invalid message"})
		return
	}

	switch frame.Type {
	case msgInit:
		iv.HandleInit(ctx, frame.Role)
	case msgUserMessage:
		iv.HandleAnswer(ctx, frame.Message)
	default:
		cl.Emit(drill.EventError{Message: fmt.Sprintf("unknown message type %q", frame.Type)})
	}
}

func (g *Gateway) sessionCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.sessions)
}

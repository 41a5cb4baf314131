package ws

import (
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"

	"drill"
)

const sendBufferSize = 64

// client serializes all writes to one websocket connection through a send
// channel drained by a single write pump, so the reader goroutine and the
// scoring goroutine can both emit events safely.
type client struct {
	conn   *websocket.Conn
	send   chan outboundFrame
	done   chan struct{}
	once   sync.Once
	logger *slog.Logger
}

// Interface compliance check.
var _ interface{ Emit(drill.Event) } = (*client)(nil)

func newClient(conn *websocket.Conn, logger *slog.Logger) *client {
	return &client{
		conn:   conn,
		send:   make(chan outboundFrame, sendBufferSize),
		done:   make(chan struct{}),
		logger: logger,
	}
}

// Emit queues an event for delivery. Events emitted after the connection
// has shut down are dropped.
func (c *client) Emit(e drill.Event) {
	select {
	case c.send <- encodeEvent(e):
	case <-c.done:
	}
}

// writePump pumps frames from the send channel to the connection. It owns
// all writes; nothing else may call WriteJSON.
func (c *client) writePump() {
	for {
		select {
		case frame := <-c.send:
			if err := c.conn.WriteJSON(frame); err != nil {
				c.logger.Debug("websocket write failed", "error", err)
				c.shutdown()
				return
			}
		case <-c.done:
			return
		}
	}
}

// shutdown stops the write pump and unblocks pending emitters. Safe to call
// more than once.
func (c *client) shutdown() {
	c.once.Do(func() { close(c.done) })
}

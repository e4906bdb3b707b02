package ws

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// time allowed to write a frame to the peer
	writeWait = 10 * time.Second
	// time allowed to read the next pong from the peer
	pongWait = 60 * time.Second
	// ping period, must be less than pongWait
	pingPeriod = (pongWait * 9) / 10
	// maximum inbound frame size in bytes
	maxMessageSize = 64 * 1024
	// outbound frame buffer per connection
	sendBufferSize = 256
)

// Conn wraps a websocket connection with a buffered outbound queue. All
// writes to the socket happen on the writePump goroutine; everything else
// enqueues. A Conn is the model.Sender for its player.
type Conn struct {
	id     int64
	socket *websocket.Conn
	logger *slog.Logger

	send      chan any
	closeOnce sync.Once
}

func newConn(id int64, socket *websocket.Conn, logger *slog.Logger) *Conn {
	return &Conn{
		id:     id,
		socket: socket,
		logger: logger.With(slog.Int64("conn_id", id)),
		send:   make(chan any, sendBufferSize),
	}
}

// ID returns the server-assigned connection id
func (c *Conn) ID() int64 {
	return c.id
}

// Enqueue queues a frame for delivery without blocking. It reports false
// when the connection's buffer is full; the frame is dropped in that case.
func (c *Conn) Enqueue(frame any) bool {
	defer func() {
		// lost the race with close; the connection is going away anyway
		recover()
	}()
	select {
	case c.send <- frame:
		return true
	default:
		return false
	}
}

// close shuts the send queue down, which makes writePump finish and close
// the underlying socket. Safe to call more than once.
func (c *Conn) close() {
	c.closeOnce.Do(func() {
		close(c.send)
	})
}

// writePump serialises all socket writes for the connection and keeps the
// peer alive with periodic pings
func (c *Conn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.socket.Close()
	}()

	for {
		select {
		case frame, ok := <-c.send:
			_ = c.socket.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.socket.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.socket.WriteJSON(frame); err != nil {
				c.logger.Debug("write failed", slog.String("error", err.Error()))
				return
			}
		case <-ticker.C:
			_ = c.socket.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.socket.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

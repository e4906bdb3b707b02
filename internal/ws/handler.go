package ws

import (
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mcoot/battleshipgame-go/internal/protocol"
)

const welcomeText = "Hello, this is the websocket endpoint for the battleship game.\n" +
	"Communication occurs through the object { \"type\":string, \"method\":string|null, \"args\":object|string, \"comment\":string|undefined }.\n" +
	"Type can be \"welcome\" (only the first message from the server when you just connect), \"request\", \"event\", \"response\", \"notauthorised\" or \"error\".\n" +
	"Method is the name of the method you want to execute, it might be null if an error was thrown.\n" +
	"Args is where data will be, it can be an object or a string.\n" +
	"Comment may contain data of what to do next.\n" +
	"You can execute the \"methods\" method to get all server methods and events (`ws.send(JSON.stringify({ \"type\":\"request\", \"method\":\"methods\" }));`).\n" +
	"Right now we are waiting for you to execute the login method, example: { \"type\":\"request\", \"method\":\"login\", \"args\": { \"nickname\":\"Player\" } }\n"

// Handler upgrades HTTP requests to websocket connections and runs their
// read loops. One Handler serves every connection; per-connection state
// lives on the Conn.
type Handler struct {
	dispatcher *Dispatcher
	upgrader   websocket.Upgrader
	logger     *slog.Logger
	nextConnID atomic.Int64
}

// NewHandler creates the websocket endpoint handler
func NewHandler(dispatcher *Dispatcher, logger *slog.Logger) *Handler {
	return &Handler{
		dispatcher: dispatcher,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// the game is open to any origin; auth is nickname-only
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger: logger.With(slog.String("component", "ws")),
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	socket, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	conn := newConn(h.nextConnID.Add(1), socket, h.logger)
	h.logger.Info("client connected",
		slog.Int64("conn_id", conn.ID()),
		slog.String("remote_addr", r.RemoteAddr))

	go conn.writePump()
	conn.Enqueue(protocol.Welcome(welcomeText))
	h.readLoop(r, conn)
}

// readLoop reads frames until the connection dies, handing each one to
// the dispatcher. On exit the player (if logged in) is logged out, which
// runs the room disconnect cascade.
func (h *Handler) readLoop(r *http.Request, conn *Conn) {
	ctx := r.Context()
	defer func() {
		conn.close()
		h.dispatcher.OnDisconnect(ctx, conn)
		h.logger.Info("client disconnected", slog.Int64("conn_id", conn.ID()))
	}()

	conn.socket.SetReadLimit(maxMessageSize)
	_ = conn.socket.SetReadDeadline(time.Now().Add(pongWait))
	conn.socket.SetPongHandler(func(string) error {
		return conn.socket.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.socket.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("read failed",
					slog.Int64("conn_id", conn.ID()),
					slog.String("error", err.Error()))
			}
			return
		}
		h.dispatcher.Dispatch(ctx, conn, data)
	}
}

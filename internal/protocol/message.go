package protocol

import "encoding/json"

// MessageType is the top-level frame discriminator
type MessageType string

const (
	TypeWelcome       MessageType = "welcome"
	TypeRequest       MessageType = "request"
	TypeResponse      MessageType = "response"
	TypeEvent         MessageType = "event"
	TypeNotAuthorised MessageType = "notauthorised"
	TypeError         MessageType = "error"
)

// Request method names
const (
	MethodMethods     = "methods"
	MethodPing        = "ping"
	MethodLogin       = "login"
	MethodLogout      = "logout"
	MethodRoomList    = "room.list"
	MethodRoomCreate  = "room.create"
	MethodRoomJoin    = "room.join"
	MethodRoomLeave   = "room.leave"
	MethodChallenge   = "room.challenge"
	MethodSendMessage = "room.sendmessage"
	MethodPlaceShips  = "game.placeships"
	MethodResetShips  = "game.resetships"
	MethodShoot       = "game.shoot"
	MethodSurrender   = "game.surrender"
	MethodStatsHist   = "stats.history"
	MethodStatsBoard  = "stats.leaderboard"
)

// Server-initiated event names
const (
	EventRoomCreate      = "room.oncreate"
	EventRoomJoin        = "room.onjoin"
	EventRoomLeave       = "room.onleave"
	EventRoomKick        = "room.onkick"
	EventRoomDestroy     = "room.ondestroy"
	EventRoomStateChange = "room.onstatechange"
	EventRoomMessage     = "room.onmessage"
	EventSalvo           = "game.onsalvo"
	EventGameOver        = "game.ongameover"
)

// Inbound is a decoded client frame. Args stays raw so each handler can
// decode and validate it against its own contract.
type Inbound struct {
	Type   MessageType     `json:"type"`
	Method string          `json:"method"`
	Args   json.RawMessage `json:"args"`
}

// Outbound is a server frame ready for encoding
type Outbound struct {
	Type    MessageType `json:"type"`
	Method  string      `json:"method,omitempty"`
	Args    any         `json:"args,omitempty"`
	Comment string      `json:"comment,omitempty"`
}

// Result is the common base of every response payload
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// Welcome builds the initial server frame sent on connect
func Welcome(text string) Outbound {
	return Outbound{Type: TypeWelcome, Args: text}
}

// Response builds a response frame echoing the originating method
func Response(method string, args any, comment string) Outbound {
	return Outbound{Type: TypeResponse, Method: method, Args: args, Comment: comment}
}

// Failure builds a response frame for a rejected request
func Failure(method, message string) Outbound {
	return Outbound{Type: TypeResponse, Method: method, Args: Result{Success: false, Message: message}}
}

// Event builds a server-initiated event frame
func Event(name string, payload any) Outbound {
	return Outbound{Type: TypeEvent, Method: name, Args: payload}
}

// NotAuthorised builds the reply for requests that require login
func NotAuthorised(method string) Outbound {
	return Outbound{Type: TypeNotAuthorised, Method: method}
}

// Error builds a protocol-level error frame (malformed frame, unknown method)
func Error(method, message, comment string) Outbound {
	return Outbound{Type: TypeError, Method: method, Args: message, Comment: comment}
}

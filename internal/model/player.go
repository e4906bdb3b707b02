package model

// Sender is the outbound half of a client connection. Enqueue must not
// block; it reports whether the frame was accepted for delivery.
type Sender interface {
	Enqueue(frame any) bool
}

// Player represents one logged-in connection. IDs are assigned at login,
// monotonically increasing, and never reused.
type Player struct {
	ID       int
	Nickname string
	Color    string
	Conn     Sender
}

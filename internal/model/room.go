package model

import "time"

// ChatLogCapacity bounds a room's chat history; the oldest entry is
// evicted first
const ChatLogCapacity = 20

// RoomState represents the current phase of a room
type RoomState string

const (
	RoomStateIdle        RoomState = "idle"        // no opponent, owner waiting
	RoomStatePreparation RoomState = "preparation" // both sides placing ships
	RoomStateActive      RoomState = "active"      // game in progress
	RoomStateEnd         RoomState = "end"         // game finished, awaiting rematch or leave
)

// ChatMessage is one entry in a room's chat log
type ChatMessage struct {
	Player  *Player
	Message string
	At      time.Time
}

// Room is a hosted match: an owner, an optional opponent and any number
// of viewers. Rooms are not internally synchronized — all access goes
// through the room registry, which serializes it.
type Room struct {
	ID            int
	Owner         *Player
	OwnerBoard    *Board
	Opponent      *Player
	OpponentBoard *Board
	State         RoomState
	OwnerTurn     bool
	Viewers       []*Player
	Messages      []ChatMessage
}

// NewRoom creates an idle room owned by the given player
func NewRoom(id int, owner *Player) *Room {
	return &Room{
		ID:         id,
		Owner:      owner,
		OwnerBoard: NewBoard(owner),
		State:      RoomStateIdle,
		OwnerTurn:  true,
	}
}

// HasViewer reports whether the player is in the viewer set
func (r *Room) HasViewer(player *Player) bool {
	for _, v := range r.Viewers {
		if v == player {
			return true
		}
	}
	return false
}

// AddViewer adds the player to the viewer set if not already present
func (r *Room) AddViewer(player *Player) {
	if !r.HasViewer(player) {
		r.Viewers = append(r.Viewers, player)
	}
}

// RemoveViewer removes the player from the viewer set
func (r *Room) RemoveViewer(player *Player) {
	for i, v := range r.Viewers {
		if v == player {
			r.Viewers = append(r.Viewers[:i], r.Viewers[i+1:]...)
			return
		}
	}
}

// IsMember reports whether the player holds any role in the room
func (r *Room) IsMember(player *Player) bool {
	return r.Owner == player || r.Opponent == player || r.HasViewer(player)
}

// IsParticipant reports whether the player is the owner or the opponent
func (r *Room) IsParticipant(player *Player) bool {
	return r.Owner == player || r.Opponent == player
}

// BoardOf returns the player's own board, or nil for a non-participant
func (r *Room) BoardOf(player *Player) *Board {
	switch player {
	case r.Owner:
		return r.OwnerBoard
	case r.Opponent:
		return r.OpponentBoard
	}
	return nil
}

// TargetBoardOf returns the board the player shoots at, or nil for a
// non-participant
func (r *Room) TargetBoardOf(player *Player) *Board {
	switch player {
	case r.Owner:
		return r.OpponentBoard
	case r.Opponent:
		return r.OwnerBoard
	}
	return nil
}

// TurnOf reports whether it is the given participant's turn
func (r *Room) TurnOf(player *Player) bool {
	if r.OwnerTurn {
		return player == r.Owner
	}
	return player == r.Opponent
}

// ToggleTurn passes the turn to the other participant
func (r *Room) ToggleTurn() {
	r.OwnerTurn = !r.OwnerTurn
}

// Challenge installs the challenger as opponent with a fresh board, resets
// the owner's board and moves the room to Preparation. The first turn is
// decided by the caller. Any prior opponent must already have been dealt
// with by the registry.
func (r *Room) Challenge(challenger *Player, ownerTurn bool) {
	r.OwnerBoard.Reset()
	r.Opponent = challenger
	r.OpponentBoard = NewBoard(challenger)
	r.State = RoomStatePreparation
	r.OwnerTurn = ownerTurn
	r.RemoveViewer(challenger)
}

// Activate moves the room to the Active state
func (r *Room) Activate() {
	r.State = RoomStateActive
}

// End moves the room to the End state
func (r *Room) End() {
	r.State = RoomStateEnd
}

// Leave removes the player from whatever role they hold. An opponent
// leaving empties the opponent slot, resets the owner board and returns
// the room to Idle.
func (r *Room) Leave(player *Player) {
	if r.Opponent == player {
		r.OwnerBoard.Reset()
		r.Opponent = nil
		r.OpponentBoard = nil
		r.State = RoomStateIdle
	}
	r.RemoveViewer(player)
}

// AddMessage appends a chat message, evicting the oldest entry past
// capacity
func (r *Room) AddMessage(msg ChatMessage) {
	r.Messages = append(r.Messages, msg)
	if len(r.Messages) > ChatLogCapacity {
		r.Messages = r.Messages[1:]
	}
}

// Members returns a snapshot of everyone in the room: owner, opponent if
// present, then viewers
func (r *Room) Members() []*Player {
	members := make([]*Player, 0, 2+len(r.Viewers))
	members = append(members, r.Owner)
	if r.Opponent != nil {
		members = append(members, r.Opponent)
	}
	members = append(members, r.Viewers...)
	return members
}

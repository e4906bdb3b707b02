package protocol

import (
	"time"

	"github.com/mcoot/battleshipgame-go/internal/model"
)

// PlayerView represents a player in wire frames
type PlayerView struct {
	ID       int    `json:"id"`
	Nickname string `json:"nickname"`
	Color    string `json:"color,omitempty"`
}

// PlayerViewFromModel converts a model.Player to a PlayerView
func PlayerViewFromModel(p *model.Player) PlayerView {
	return PlayerView{
		ID:       p.ID,
		Nickname: p.Nickname,
		Color:    p.Color,
	}
}

// ShipView represents a ship in wire frames
type ShipView struct {
	X          int  `json:"x"`
	Y          int  `json:"y"`
	Size       int  `json:"size"`
	IsVertical bool `json:"isVertical"`
	IsDead     bool `json:"isDead"`
}

// ShipViewFromModel converts a model.Ship to a ShipView
func ShipViewFromModel(s *model.Ship) ShipView {
	return ShipView{
		X:          s.X,
		Y:          s.Y,
		Size:       s.Size,
		IsVertical: s.IsVertical,
		IsDead:     s.Dead,
	}
}

// BoardView is one board rendered for a specific recipient. With hide set,
// cells of live ships render as empty and only sunken ships are listed.
type BoardView struct {
	Board   [][]int    `json:"board"`
	Ships   []ShipView `json:"ships"`
	Player  PlayerView `json:"player"`
	IsReady bool       `json:"isReady"`
	Comment string     `json:"comment"`
}

const boardViewComment = "numbers in board are: 0 is empty cell, 1 is mark (you shot and missed), " +
	"2 is ship, 3 is hit (ship hit but not dead), 4 is shipwreck (sunken ship), 5+ is tagged ships"

// BoardViewFromModel renders a board, hiding live ships when hide is set
func BoardViewFromModel(b *model.Board, hide bool) BoardView {
	cells := make([][]int, model.BoardHeight)
	for y := 0; y < model.BoardHeight; y++ {
		cells[y] = make([]int, model.BoardWidth)
		for x := 0; x < model.BoardWidth; x++ {
			cell := b.Cells[y][x]
			if hide && cell == model.CellShip {
				cell = model.CellEmpty
			}
			cells[y][x] = int(cell)
		}
	}

	ships := make([]ShipView, 0, len(b.Ships))
	for _, ship := range b.Ships {
		if hide && !ship.Dead {
			continue
		}
		if ship.Tag >= 5 {
			x2, y2 := ship.Extent()
			for y := ship.Y; y <= y2; y++ {
				for x := ship.X; x <= x2; x++ {
					cells[y][x] = ship.Tag
				}
			}
		}
		ships = append(ships, ShipViewFromModel(ship))
	}

	return BoardView{
		Board:   cells,
		Ships:   ships,
		Player:  PlayerViewFromModel(b.Player),
		IsReady: b.Ready,
		Comment: boardViewComment,
	}
}

// RoomView is a room rendered from one recipient's perspective. The
// recipient sees their own board in full; the other participant's live
// ships stay hidden until the room reaches the End state, at which point
// both boards are revealed to everyone.
type RoomView struct {
	ID          int          `json:"id"`
	Owner       BoardView    `json:"owner"`
	Opponent    *BoardView   `json:"opponent"`
	State       string       `json:"state"`
	IsOwnerTurn bool         `json:"isOwnerTurn"`
	Viewers     []PlayerView `json:"viewers"`
}

// RoomViewFromModel renders a room from forPlayer's perspective
func RoomViewFromModel(r *model.Room, forPlayer *model.Player) RoomView {
	revealed := r.State == model.RoomStateEnd

	owner := BoardViewFromModel(r.OwnerBoard, r.Owner != forPlayer && !revealed)
	var opponent *BoardView
	if r.OpponentBoard != nil {
		v := BoardViewFromModel(r.OpponentBoard, r.Opponent != forPlayer && !revealed)
		opponent = &v
	}

	viewers := make([]PlayerView, len(r.Viewers))
	for i, viewer := range r.Viewers {
		viewers[i] = PlayerViewFromModel(viewer)
	}

	return RoomView{
		ID:          r.ID,
		Owner:       owner,
		Opponent:    opponent,
		State:       string(r.State),
		IsOwnerTurn: r.OwnerTurn,
		Viewers:     viewers,
	}
}

// ChatMessageView represents a chat log entry in wire frames
type ChatMessageView struct {
	Player   PlayerView `json:"player"`
	Message  string     `json:"message"`
	DateTime time.Time  `json:"datetime"`
}

// ChatMessageViewFromModel converts a model.ChatMessage
func ChatMessageViewFromModel(m model.ChatMessage) ChatMessageView {
	return ChatMessageView{
		Player:   PlayerViewFromModel(m.Player),
		Message:  m.Message,
		DateTime: m.At,
	}
}

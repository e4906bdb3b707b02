package protocol

import "github.com/mcoot/battleshipgame-go/internal/model"

// Request argument shapes. Pointer fields distinguish "absent" from the
// zero value so handlers can report missing fields precisely.

// LoginArgs are the arguments of the login method
type LoginArgs struct {
	Nickname *string `json:"nickname"`
	Color    string  `json:"color"`
}

// RoomListArgs are the arguments of room.list
type RoomListArgs struct {
	Page int `json:"page"`
}

// RoomJoinArgs are the arguments of room.join
type RoomJoinArgs struct {
	RoomID *int `json:"roomId"`
}

// ChatArgs are the arguments of room.sendmessage
type ChatArgs struct {
	Message *string `json:"message"`
}

// ShipArgs is one ship of a game.placeships request. Tag is an optional
// display value; board views paint the ship's cells with it when it is 5
// or higher, below that it is ignored.
type ShipArgs struct {
	X          int  `json:"x"`
	Y          int  `json:"y"`
	Size       int  `json:"size"`
	IsVertical bool `json:"isVertical"`
	Tag        int  `json:"tag"`
}

// ToModel converts a ShipArgs to a model.Ship
func (s ShipArgs) ToModel() *model.Ship {
	return &model.Ship{X: s.X, Y: s.Y, Size: s.Size, IsVertical: s.IsVertical, Tag: s.Tag}
}

// PlaceShipsArgs are the arguments of game.placeships
type PlaceShipsArgs struct {
	Ships *[]ShipArgs `json:"ships"`
}

// ShootArgs are the arguments of game.shoot
type ShootArgs struct {
	X *int `json:"x"`
	Y *int `json:"y"`
}

// StatsArgs are the arguments of the stats methods
type StatsArgs struct {
	Nickname string `json:"nickname"`
	Limit    int    `json:"limit"`
}

// Response payloads. Every one embeds Result.

// MethodsResult is the payload of the methods response
type MethodsResult struct {
	Methods []string `json:"methods"`
	Events  []string `json:"events"`
}

// LoginResult is the payload of the login response
type LoginResult struct {
	Result
	Player *PlayerView `json:"player,omitempty"`
}

// RoomResult is the payload of responses carrying a single room view
type RoomResult struct {
	Result
	Room *RoomView `json:"room,omitempty"`
}

// RoomListResult is the payload of the room.list response
type RoomListResult struct {
	Result
	Rooms      []RoomView `json:"rooms"`
	Page       int        `json:"page"`
	TotalPages int        `json:"totalPages"`
}

// ChatResult is the payload of the room.sendmessage response
type ChatResult struct {
	Result
	ChatMessage *ChatMessageView `json:"chatMessage,omitempty"`
}

// ShootResult is the payload of the game.shoot response
type ShootResult struct {
	Result
	X          int       `json:"x"`
	Y          int       `json:"y"`
	IsHit      bool      `json:"isHit"`
	SunkenShip *ShipView `json:"sunkenShip"`
	Room       *RoomView `json:"room,omitempty"`
}

// HistoryResult is the payload of the stats.history response
type HistoryResult struct {
	Result
	Matches []model.MatchRecord `json:"matches"`
}

// LeaderboardResult is the payload of the stats.leaderboard response
type LeaderboardResult struct {
	Result
	Standings []model.Standing `json:"standings"`
}

// Event payloads

// RoomEvent carries a perspective-rendered room view
type RoomEvent struct {
	Room RoomView `json:"room"`
}

// RoomJoinEvent announces a new viewer to the existing members
type RoomJoinEvent struct {
	Room   RoomView   `json:"room"`
	Player PlayerView `json:"player"`
}

// PlayerEvent announces a member leaving
type PlayerEvent struct {
	Player PlayerView `json:"player"`
}

// RoomIDEvent references a room by id (kick, destroy)
type RoomIDEvent struct {
	RoomID int `json:"roomId"`
}

// ChatEvent carries a chat message to room members
type ChatEvent struct {
	ChatMessage ChatMessageView `json:"chatMessage"`
}

// SalvoEvent announces a resolved shot to non-acting members
type SalvoEvent struct {
	X          int       `json:"x"`
	Y          int       `json:"y"`
	IsHit      bool      `json:"isHit"`
	SunkenShip *ShipView `json:"sunkenShip"`
	Room       RoomView  `json:"room"`
}

// GameOverEvent announces the end of a game with both boards revealed
type GameOverEvent struct {
	Winner     PlayerView `json:"winner"`
	IsOwnerWon bool       `json:"isOwnerWon"`
	Owner      BoardView  `json:"owner"`
	Opponent   *BoardView `json:"opponent"`
}

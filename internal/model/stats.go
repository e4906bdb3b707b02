package model

import "time"

// MatchRecord is a lightweight record of a finished game
type MatchRecord struct {
	RoomID      int       `json:"roomId"`
	Winner      string    `json:"winner"`
	Loser       string    `json:"loser"`
	Surrendered bool      `json:"surrendered"`
	FinishedAt  time.Time `json:"finishedAt"`
}

// Standing is one row of the win-count leaderboard
type Standing struct {
	Nickname string `json:"nickname"`
	Wins     int    `json:"wins"`
}

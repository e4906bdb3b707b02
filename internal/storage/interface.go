package storage

import (
	"context"

	"github.com/mcoot/battleshipgame-go/internal/model"
)

// Storage defines the interface for match-history persistence. Live room
// and player state never touches storage; only finished games are
// recorded.
type Storage interface {
	// SaveMatch appends a finished match record
	SaveMatch(ctx context.Context, match *model.MatchRecord) error

	// MatchesForPlayer returns the most recent matches a player took part
	// in, newest first, up to limit
	MatchesForPlayer(ctx context.Context, nickname string, limit int) ([]model.MatchRecord, error)

	// Leaderboard returns win-count standings, highest first, up to limit
	Leaderboard(ctx context.Context, limit int) ([]model.Standing, error)
}

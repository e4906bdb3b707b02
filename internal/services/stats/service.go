package stats

import (
	"context"
	"log/slog"

	"github.com/mcoot/battleshipgame-go/internal/model"
	"github.com/mcoot/battleshipgame-go/internal/storage"
)

// DefaultLimit is used when a query does not specify its own limit
const DefaultLimit = 10

// MaxLimit caps the number of records a single query may return
const MaxLimit = 100

// Service records finished matches and answers history queries
type Service struct {
	storage storage.Storage
	logger  *slog.Logger
}

// New creates a new stats service
func New(storage storage.Storage, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger.With(slog.String("component", "stats")),
	}
}

// RecordMatch persists a finished match. Failures are logged, not
// surfaced: losing a history entry must not fail the game that produced
// it.
func (s *Service) RecordMatch(ctx context.Context, match *model.MatchRecord) {
	if err := s.storage.SaveMatch(ctx, match); err != nil {
		s.logger.Error("failed to record match",
			slog.Int("room_id", match.RoomID),
			slog.String("winner", match.Winner),
			slog.Any("error", err))
	}
}

// History returns the most recent matches for a player, newest first
func (s *Service) History(ctx context.Context, nickname string, limit int) ([]model.MatchRecord, error) {
	return s.storage.MatchesForPlayer(ctx, nickname, clampLimit(limit))
}

// Leaderboard returns win-count standings, highest first
func (s *Service) Leaderboard(ctx context.Context, limit int) ([]model.Standing, error) {
	return s.storage.Leaderboard(ctx, clampLimit(limit))
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

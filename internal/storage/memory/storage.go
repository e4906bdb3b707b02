package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/mcoot/battleshipgame-go/internal/model"
	"github.com/mcoot/battleshipgame-go/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	matches []model.MatchRecord
	wins    map[string]int
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		wins: make(map[string]int),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) SaveMatch(ctx context.Context, match *model.MatchRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.matches = append(s.matches, *match)
	s.wins[match.Winner]++
	return nil
}

func (s *Storage) MatchesForPlayer(ctx context.Context, nickname string, limit int) ([]model.MatchRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []model.MatchRecord
	for i := len(s.matches) - 1; i >= 0 && len(result) < limit; i-- {
		m := s.matches[i]
		if m.Winner == nickname || m.Loser == nickname {
			result = append(result, m)
		}
	}
	return result, nil
}

func (s *Storage) Leaderboard(ctx context.Context, limit int) ([]model.Standing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	standings := make([]model.Standing, 0, len(s.wins))
	for nickname, wins := range s.wins {
		standings = append(standings, model.Standing{Nickname: nickname, Wins: wins})
	}
	sort.Slice(standings, func(i, j int) bool {
		if standings[i].Wins != standings[j].Wins {
			return standings[i].Wins > standings[j].Wins
		}
		return standings[i].Nickname < standings[j].Nickname
	})
	if len(standings) > limit {
		standings = standings[:limit]
	}
	return standings, nil
}

package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/battleshipgame-go/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.HistoryLength = 3

	s.storage = NewWithClient(client, cfg)
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *StorageSuite) match(roomID int, winner, loser string) *model.MatchRecord {
	return &model.MatchRecord{
		RoomID:     roomID,
		Winner:     winner,
		Loser:      loser,
		FinishedAt: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC).Add(time.Duration(roomID) * time.Minute),
	}
}

func (s *StorageSuite) TestSaveMatchWritesBothHistories() {
	s.Require().NoError(s.storage.SaveMatch(s.ctx, s.match(1, "alice", "bob")))

	for _, nickname := range []string{"alice", "bob"} {
		matches, err := s.storage.MatchesForPlayer(s.ctx, nickname, 10)
		s.Require().NoError(err)
		s.Require().Len(matches, 1)
		s.Equal(1, matches[0].RoomID)
		s.Equal("alice", matches[0].Winner)
		s.Equal("bob", matches[0].Loser)
	}
}

func (s *StorageSuite) TestMatchesAreNewestFirst() {
	s.Require().NoError(s.storage.SaveMatch(s.ctx, s.match(1, "alice", "bob")))
	s.Require().NoError(s.storage.SaveMatch(s.ctx, s.match(2, "bob", "alice")))

	matches, err := s.storage.MatchesForPlayer(s.ctx, "alice", 10)
	s.Require().NoError(err)

	s.Require().Len(matches, 2)
	s.Equal(2, matches[0].RoomID)
	s.Equal(1, matches[1].RoomID)
}

func (s *StorageSuite) TestHistoryIsTrimmedToConfiguredLength() {
	for i := 1; i <= 5; i++ {
		s.Require().NoError(s.storage.SaveMatch(s.ctx, s.match(i, "alice", "bob")))
	}

	matches, err := s.storage.MatchesForPlayer(s.ctx, "alice", 10)
	s.Require().NoError(err)

	// oldest entries fell off the bounded list
	s.Require().Len(matches, 3)
	s.Equal(5, matches[0].RoomID)
	s.Equal(3, matches[2].RoomID)
}

func (s *StorageSuite) TestMatchesForUnknownPlayerIsEmpty() {
	matches, err := s.storage.MatchesForPlayer(s.ctx, "nobody", 10)
	s.Require().NoError(err)
	s.Empty(matches)
}

func (s *StorageSuite) TestLeaderboardCountsWins() {
	s.Require().NoError(s.storage.SaveMatch(s.ctx, s.match(1, "alice", "bob")))
	s.Require().NoError(s.storage.SaveMatch(s.ctx, s.match(2, "alice", "carol")))
	s.Require().NoError(s.storage.SaveMatch(s.ctx, s.match(3, "bob", "alice")))

	standings, err := s.storage.Leaderboard(s.ctx, 10)
	s.Require().NoError(err)

	s.Require().Len(standings, 2)
	s.Equal(model.Standing{Nickname: "alice", Wins: 2}, standings[0])
	s.Equal(model.Standing{Nickname: "bob", Wins: 1}, standings[1])
}

func (s *StorageSuite) TestLeaderboardRespectsLimit() {
	s.Require().NoError(s.storage.SaveMatch(s.ctx, s.match(1, "alice", "bob")))
	s.Require().NoError(s.storage.SaveMatch(s.ctx, s.match(2, "bob", "carol")))

	standings, err := s.storage.Leaderboard(s.ctx, 1)
	s.Require().NoError(err)
	s.Len(standings, 1)
}

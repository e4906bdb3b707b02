package stats

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/battleshipgame-go/internal/model"
	"github.com/mcoot/battleshipgame-go/internal/storage/memory"
	"github.com/mcoot/battleshipgame-go/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.service = New(s.storage, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ServiceSuite) record(roomID int, winner, loser string) {
	s.service.RecordMatch(s.ctx, &model.MatchRecord{
		RoomID:     roomID,
		Winner:     winner,
		Loser:      loser,
		FinishedAt: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	})
}

func (s *ServiceSuite) TestRecordAndHistory() {
	s.record(1, "alice", "bob")
	s.record(2, "bob", "alice")

	matches, err := s.service.History(s.ctx, "alice", 0)
	s.Require().NoError(err)

	s.Require().Len(matches, 2)
	s.Equal(2, matches[0].RoomID)
	s.Equal(1, matches[1].RoomID)
}

func (s *ServiceSuite) TestHistoryDefaultLimit() {
	for i := 1; i <= DefaultLimit+5; i++ {
		s.record(i, "alice", "bob")
	}

	matches, err := s.service.History(s.ctx, "alice", 0)
	s.Require().NoError(err)
	s.Len(matches, DefaultLimit)
}

func (s *ServiceSuite) TestHistoryCapsOversizedLimit() {
	for i := 1; i <= MaxLimit+10; i++ {
		s.record(i, "alice", "bob")
	}

	matches, err := s.service.History(s.ctx, "alice", MaxLimit*10)
	s.Require().NoError(err)
	s.Len(matches, MaxLimit)
}

func (s *ServiceSuite) TestLeaderboard() {
	s.record(1, "alice", "bob")
	s.record(2, "alice", "carol")
	s.record(3, "bob", "alice")

	standings, err := s.service.Leaderboard(s.ctx, 0)
	s.Require().NoError(err)

	s.Require().Len(standings, 2)
	s.Equal("alice", standings[0].Nickname)
	s.Equal(2, standings[0].Wins)
}

// failingStorage always errors
type failingStorage struct{}

func (failingStorage) SaveMatch(context.Context, *model.MatchRecord) error {
	return errors.New("storage down")
}

func (failingStorage) MatchesForPlayer(context.Context, string, int) ([]model.MatchRecord, error) {
	return nil, errors.New("storage down")
}

func (failingStorage) Leaderboard(context.Context, int) ([]model.Standing, error) {
	return nil, errors.New("storage down")
}

func (s *ServiceSuite) TestRecordMatchSwallowsStorageErrors() {
	service := New(failingStorage{}, testutil.NopLogger())

	// must not panic or surface the error
	service.RecordMatch(s.ctx, &model.MatchRecord{RoomID: 1, Winner: "alice", Loser: "bob"})
}

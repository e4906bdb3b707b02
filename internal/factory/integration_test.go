package factory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/battleshipgame-go/internal/model"
	"github.com/mcoot/battleshipgame-go/internal/testutil"
)

// nullSender drops all frames; these tests assert through the services,
// not the wire
type nullSender struct{}

func (nullSender) Enqueue(any) bool { return true }

type IntegrationSuite struct {
	suite.Suite
	app *TestApp
	ctx context.Context
}

func TestIntegrationSuite(t *testing.T) {
	suite.Run(t, new(IntegrationSuite))
}

func (s *IntegrationSuite) SetupTest() {
	s.app = NewTestApp(testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *IntegrationSuite) login(connID int64, nickname string) *model.Player {
	player, _, err := s.app.PlayerService.Register(connID, nullSender{}, nickname, "")
	s.Require().NoError(err)
	s.app.RoomService.Subscribe(player)
	return player
}

func fleet() []*model.Ship {
	return []*model.Ship{
		{X: 0, Y: 0, Size: 5},
		{X: 0, Y: 1, Size: 4},
		{X: 0, Y: 2, Size: 3},
		{X: 0, Y: 3, Size: 3},
		{X: 0, Y: 4, Size: 2},
	}
}

// TestFullGame walks a complete match through the wired application:
// login, room setup, placement, the winning salvo run and the recorded
// match history.
func (s *IntegrationSuite) TestFullGame() {
	alice := s.login(1, "alice")
	bob := s.login(2, "bob")

	room, err := s.app.RoomService.CreateRoom(s.ctx, alice)
	s.Require().NoError(err)
	_, err = s.app.RoomService.JoinRoom(s.ctx, bob, room.ID)
	s.Require().NoError(err)

	s.app.MockRandom.QueueBool(true) // owner to move
	_, err = s.app.RoomService.Challenge(s.ctx, bob)
	s.Require().NoError(err)

	_, err = s.app.RoomService.PlaceShips(s.ctx, alice, fleet())
	s.Require().NoError(err)
	view, err := s.app.RoomService.PlaceShips(s.ctx, bob, fleet())
	s.Require().NoError(err)
	s.Equal("active", view.State)

	// hits keep the turn, so alice can run the whole fleet down
	for _, ship := range fleet() {
		x2, y2 := ship.Extent()
		for y := ship.Y; y <= y2; y++ {
			for x := ship.X; x <= x2; x++ {
				result, err := s.app.RoomService.Shoot(s.ctx, alice, x, y)
				s.Require().NoError(err)
				s.Require().True(result.Hit)
			}
		}
	}

	matches, err := s.app.StatsService.History(s.ctx, "alice", 0)
	s.Require().NoError(err)
	s.Require().Len(matches, 1)
	s.Equal("alice", matches[0].Winner)
	s.Equal("bob", matches[0].Loser)
	s.Equal(s.app.MockClock.Now(), matches[0].FinishedAt)

	standings, err := s.app.StatsService.Leaderboard(s.ctx, 0)
	s.Require().NoError(err)
	s.Require().Len(standings, 1)
	s.Equal(model.Standing{Nickname: "alice", Wins: 1}, standings[0])
}

// TestDisconnectCleansUp checks the logout cascade across the player and
// room services.
func (s *IntegrationSuite) TestDisconnectCleansUp() {
	alice := s.login(1, "alice")
	bob := s.login(2, "bob")

	room, err := s.app.RoomService.CreateRoom(s.ctx, alice)
	s.Require().NoError(err)
	_, err = s.app.RoomService.JoinRoom(s.ctx, bob, room.ID)
	s.Require().NoError(err)

	_, err = s.app.PlayerService.Logout(s.ctx, 1)
	s.Require().NoError(err)

	s.Equal(0, s.app.RoomService.Count())
	s.Equal(1, s.app.PlayerService.Count())

	// bob was kicked back to the lobby and can host his own room
	_, err = s.app.RoomService.CreateRoom(s.ctx, bob)
	s.NoError(err)
}

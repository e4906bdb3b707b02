package rooms

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/mcoot/battleshipgame-go/internal/dependencies/clock"
	"github.com/mcoot/battleshipgame-go/internal/dependencies/random"
	"github.com/mcoot/battleshipgame-go/internal/model"
	"github.com/mcoot/battleshipgame-go/internal/protocol"
)

// RoomsPerPage is the page size of room.list
const RoomsPerPage = 20

// MatchRecorder receives finished matches. The stats service implements
// it; recording happens outside the registry locks.
type MatchRecorder interface {
	RecordMatch(ctx context.Context, match *model.MatchRecord)
}

// Service is the concurrent room registry. It owns every live room, a
// player -> room reverse index kept in lockstep with it, and the set of
// lobby subscribers (logged-in players outside any room). All room
// mutation goes through here; per-recipient views are rendered under the
// registry lock and enqueued only after it is released. Lock order is
// always mu before subMu.
type Service struct {
	logger   *slog.Logger
	clock    clock.Clock
	random   random.Random
	recorder MatchRecorder

	mu     sync.Mutex
	rooms  map[int]*model.Room
	roomOf map[int]*model.Room // player id -> the one room they are in
	nextID int

	subMu       sync.Mutex
	subscribers map[int]*model.Player
}

// New creates a new room registry
func New(clk clock.Clock, rnd random.Random, recorder MatchRecorder, logger *slog.Logger) *Service {
	return &Service{
		logger:      logger.With(slog.String("component", "rooms")),
		clock:       clk,
		random:      rnd,
		recorder:    recorder,
		rooms:       make(map[int]*model.Room),
		roomOf:      make(map[int]*model.Room),
		subscribers: make(map[int]*model.Player),
	}
}

// outbound is one rendered frame addressed to one connection
type outbound struct {
	to    model.Sender
	frame protocol.Outbound
}

// flush hands frames to the per-connection send queues. Must be called
// without holding any service lock.
func (s *Service) flush(outs []outbound) {
	for _, o := range outs {
		if o.to == nil {
			continue
		}
		if !o.to.Enqueue(o.frame) {
			s.logger.Warn("event dropped - client buffer full",
				slog.String("event", o.frame.Method))
		}
	}
}

// eventToMembers renders one event per room member, skipping except.
// payload is invoked per recipient so room views can be
// perspective-rendered. Caller must hold mu.
func eventToMembers(room *model.Room, except *model.Player, name string, payload func(member *model.Player) any) []outbound {
	var outs []outbound
	for _, member := range room.Members() {
		if member == except {
			continue
		}
		outs = append(outs, outbound{
			to:    member.Conn,
			frame: protocol.Event(name, payload(member)),
		})
	}
	return outs
}

// Subscribe adds a player to the lobby update feed. Called on login.
func (s *Service) Subscribe(player *model.Player) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	s.subscribers[player.ID] = player
}

// CreateRoom creates a room owned by the player, unsubscribes them from
// lobby updates, and announces the room to the remaining subscribers.
func (s *Service) CreateRoom(ctx context.Context, player *model.Player) (protocol.RoomView, error) {
	s.mu.Lock()

	if s.roomOf[player.ID] != nil {
		s.mu.Unlock()
		return protocol.RoomView{}, model.ErrAlreadyInRoom
	}

	s.nextID++
	room := model.NewRoom(s.nextID, player)
	s.rooms[room.ID] = room
	s.roomOf[player.ID] = room

	view := protocol.RoomViewFromModel(room, player)

	var outs []outbound
	s.subMu.Lock()
	delete(s.subscribers, player.ID)
	for _, sub := range s.subscribers {
		outs = append(outs, outbound{
			to:    sub.Conn,
			frame: protocol.Event(protocol.EventRoomCreate, protocol.RoomEvent{Room: protocol.RoomViewFromModel(room, sub)}),
		})
	}
	s.subMu.Unlock()
	s.mu.Unlock()

	s.logger.Info("room created",
		slog.Int("room_id", room.ID),
		slog.String("owner", player.Nickname))

	s.flush(outs)
	return view, nil
}

// DestroyRoom removes a room, kicking the opponent and every viewer and
// announcing the destruction to lobby subscribers. A concurrent destroy
// of an already-removed room fails with ErrRoomNotFound.
func (s *Service) DestroyRoom(ctx context.Context, room *model.Room) error {
	s.mu.Lock()
	if s.rooms[room.ID] != room {
		s.mu.Unlock()
		return model.ErrRoomNotFound
	}
	outs := s.destroyLocked(room)
	s.mu.Unlock()

	s.flush(outs)
	return nil
}

// destroyLocked removes the room and produces the kick/destroy events.
// Caller must hold mu (and not subMu).
func (s *Service) destroyLocked(room *model.Room) []outbound {
	var outs []outbound

	var kicked []*model.Player
	if room.Opponent != nil {
		kicked = append(kicked, room.Opponent)
	}
	kicked = append(kicked, room.Viewers...)

	for _, player := range kicked {
		delete(s.roomOf, player.ID)
		outs = append(outs, outbound{
			to:    player.Conn,
			frame: protocol.Event(protocol.EventRoomKick, protocol.RoomIDEvent{RoomID: room.ID}),
		})
	}

	delete(s.rooms, room.ID)
	delete(s.roomOf, room.Owner.ID)

	s.subMu.Lock()
	for _, sub := range s.subscribers {
		outs = append(outs, outbound{
			to:    sub.Conn,
			frame: protocol.Event(protocol.EventRoomDestroy, protocol.RoomIDEvent{RoomID: room.ID}),
		})
	}
	s.subscribers[room.Owner.ID] = room.Owner
	for _, player := range kicked {
		s.subscribers[player.ID] = player
	}
	s.subMu.Unlock()

	s.logger.Info("room destroyed",
		slog.Int("room_id", room.ID),
		slog.String("owner", room.Owner.Nickname))

	return outs
}

// JoinRoom adds the player as a viewer of the given room and announces
// the join to the existing members.
func (s *Service) JoinRoom(ctx context.Context, player *model.Player, roomID int) (protocol.RoomView, error) {
	s.mu.Lock()

	if s.roomOf[player.ID] != nil {
		s.mu.Unlock()
		return protocol.RoomView{}, model.ErrAlreadyInRoom
	}
	room, ok := s.rooms[roomID]
	if !ok {
		s.mu.Unlock()
		return protocol.RoomView{}, model.ErrRoomNotFound
	}
	if room.HasViewer(player) {
		s.mu.Unlock()
		return protocol.RoomView{}, model.ErrAlreadyInThis
	}

	room.AddViewer(player)
	s.roomOf[player.ID] = room

	joiner := protocol.PlayerViewFromModel(player)
	outs := eventToMembers(room, player, protocol.EventRoomJoin, func(member *model.Player) any {
		return protocol.RoomJoinEvent{
			Room:   protocol.RoomViewFromModel(room, member),
			Player: joiner,
		}
	})
	view := protocol.RoomViewFromModel(room, player)

	s.subMu.Lock()
	delete(s.subscribers, player.ID)
	s.subMu.Unlock()
	s.mu.Unlock()

	s.logger.Info("player joined room",
		slog.Int("room_id", room.ID),
		slog.String("nickname", player.Nickname))

	s.flush(outs)
	return view, nil
}

// LeaveRoom removes the player from whatever room they are in. An owner
// leaving destroys the room; an opponent leaving returns it to Idle; a
// viewer leaving just shrinks the viewer set. Non-owners are
// re-subscribed to lobby updates.
func (s *Service) LeaveRoom(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	outs, err := s.leaveLocked(player)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	s.flush(outs)
	return nil
}

// leaveLocked implements leave for a player in any role. Caller must
// hold mu (and not subMu).
func (s *Service) leaveLocked(player *model.Player) ([]outbound, error) {
	room := s.roomOf[player.ID]
	if room == nil {
		return nil, model.ErrNotInRoom
	}
	if room.Owner == player {
		return s.destroyLocked(room), nil
	}

	wasOpponent := room.Opponent == player
	room.Leave(player)
	delete(s.roomOf, player.ID)

	var outs []outbound
	if wasOpponent {
		outs = append(outs, eventToMembers(room, player, protocol.EventRoomStateChange, func(member *model.Player) any {
			return protocol.RoomEvent{Room: protocol.RoomViewFromModel(room, member)}
		})...)
	}
	leaver := protocol.PlayerViewFromModel(player)
	outs = append(outs, eventToMembers(room, player, protocol.EventRoomLeave, func(*model.Player) any {
		return protocol.PlayerEvent{Player: leaver}
	})...)

	s.subMu.Lock()
	s.subscribers[player.ID] = player
	s.subMu.Unlock()

	return outs, nil
}

// Challenge makes the player the room's opponent and moves the room to
// Preparation with a randomly assigned first turn. Allowed from Idle and
// End; a stale opponent left over from a finished game is demoted back
// to the viewer set.
func (s *Service) Challenge(ctx context.Context, player *model.Player) (protocol.RoomView, error) {
	s.mu.Lock()

	room := s.roomOf[player.ID]
	if room == nil {
		s.mu.Unlock()
		return protocol.RoomView{}, model.ErrNotInRoom
	}
	if room.State != model.RoomStateIdle && room.State != model.RoomStateEnd {
		s.mu.Unlock()
		return protocol.RoomView{}, model.ErrChallengeActive
	}
	if room.Owner == player {
		s.mu.Unlock()
		return protocol.RoomView{}, model.ErrChallengeSelf
	}

	if room.Opponent != nil && room.Opponent != player {
		room.AddViewer(room.Opponent)
	}
	room.Challenge(player, s.random.Bool())

	outs := eventToMembers(room, player, protocol.EventRoomStateChange, func(member *model.Player) any {
		return protocol.RoomEvent{Room: protocol.RoomViewFromModel(room, member)}
	})
	view := protocol.RoomViewFromModel(room, player)
	s.mu.Unlock()

	s.logger.Info("challenge issued",
		slog.Int("room_id", room.ID),
		slog.String("challenger", player.Nickname))

	s.flush(outs)
	return view, nil
}

// PlaceShips commits a fleet to the caller's board. The room activates
// the moment both boards are ready.
func (s *Service) PlaceShips(ctx context.Context, player *model.Player, ships []*model.Ship) (protocol.RoomView, error) {
	s.mu.Lock()

	room := s.roomOf[player.ID]
	if room == nil {
		s.mu.Unlock()
		return protocol.RoomView{}, model.ErrNotInRoom
	}
	if !room.IsParticipant(player) {
		s.mu.Unlock()
		return protocol.RoomView{}, model.ErrNotPlaying
	}
	if room.State != model.RoomStatePreparation {
		s.mu.Unlock()
		return protocol.RoomView{}, model.ErrNotPreparation
	}
	board := room.BoardOf(player)
	if board == nil {
		s.mu.Unlock()
		return protocol.RoomView{}, model.ErrInternalMistake
	}

	if !model.CheckShipSizes(ships) {
		s.mu.Unlock()
		return protocol.RoomView{}, model.ErrWrongShipSizes
	}
	if !board.Place(ships) {
		s.mu.Unlock()
		return protocol.RoomView{}, model.ErrShipPlacement
	}

	if room.OwnerBoard.Ready && room.OpponentBoard != nil && room.OpponentBoard.Ready {
		room.Activate()
	}

	outs := eventToMembers(room, player, protocol.EventRoomStateChange, func(member *model.Player) any {
		return protocol.RoomEvent{Room: protocol.RoomViewFromModel(room, member)}
	})
	view := protocol.RoomViewFromModel(room, player)
	s.mu.Unlock()

	s.flush(outs)
	return view, nil
}

// ResetShips clears the caller's board during Preparation, making them
// not ready again.
func (s *Service) ResetShips(ctx context.Context, player *model.Player) (protocol.RoomView, error) {
	s.mu.Lock()

	room := s.roomOf[player.ID]
	if room == nil {
		s.mu.Unlock()
		return protocol.RoomView{}, model.ErrNotInRoom
	}
	if !room.IsParticipant(player) {
		s.mu.Unlock()
		return protocol.RoomView{}, model.ErrNotPlaying
	}
	if room.State != model.RoomStatePreparation {
		s.mu.Unlock()
		return protocol.RoomView{}, model.ErrNotPreparation
	}
	board := room.BoardOf(player)
	if board == nil {
		s.mu.Unlock()
		return protocol.RoomView{}, model.ErrInternalMistake
	}

	board.Reset()

	outs := eventToMembers(room, player, protocol.EventRoomStateChange, func(member *model.Player) any {
		return protocol.RoomEvent{Room: protocol.RoomViewFromModel(room, member)}
	})
	view := protocol.RoomViewFromModel(room, player)
	s.mu.Unlock()

	s.flush(outs)
	return view, nil
}

// ShotResult is what the dispatcher needs to answer a game.shoot request
type ShotResult struct {
	X        int
	Y        int
	Hit      bool
	Sunk     *protocol.ShipView
	Room     protocol.RoomView
	GameOver bool
}

// Shoot resolves a shot by the player at the opposing board. A miss
// passes the turn; a winning shot ends the game, reveals both boards to
// everyone, and records the match.
func (s *Service) Shoot(ctx context.Context, player *model.Player, x, y int) (ShotResult, error) {
	s.mu.Lock()

	room := s.roomOf[player.ID]
	if room == nil {
		s.mu.Unlock()
		return ShotResult{}, model.ErrNotInRoom
	}
	if !room.IsParticipant(player) {
		s.mu.Unlock()
		return ShotResult{}, model.ErrNotPlaying
	}
	if room.State != model.RoomStateActive {
		s.mu.Unlock()
		return ShotResult{}, model.ErrNotActive
	}
	if !room.TurnOf(player) {
		s.mu.Unlock()
		return ShotResult{}, model.ErrNotYourTurn
	}
	target := room.TargetBoardOf(player)
	if target == nil {
		s.mu.Unlock()
		return ShotResult{}, model.ErrInternalMistake
	}

	outcome := target.Salvo(x, y)
	if !outcome.Accepted {
		s.mu.Unlock()
		return ShotResult{}, outcome.Err
	}
	if !outcome.Hit {
		room.ToggleTurn()
	}

	var sunk *protocol.ShipView
	if outcome.Sunk != nil {
		v := protocol.ShipViewFromModel(outcome.Sunk)
		sunk = &v
	}

	outs := eventToMembers(room, player, protocol.EventSalvo, func(member *model.Player) any {
		return protocol.SalvoEvent{
			X:          x,
			Y:          y,
			IsHit:      outcome.Hit,
			SunkenShip: sunk,
			Room:       protocol.RoomViewFromModel(room, member),
		}
	})

	gameOver := target.AllShipsDead()
	var rec *model.MatchRecord
	if gameOver {
		loser := target.Player
		gameOverOuts, match := s.endGameLocked(room, player, loser, false)
		outs = append(outs, gameOverOuts...)
		rec = match
	}

	result := ShotResult{
		X:        x,
		Y:        y,
		Hit:      outcome.Hit,
		Sunk:     sunk,
		Room:     protocol.RoomViewFromModel(room, player),
		GameOver: gameOver,
	}
	s.mu.Unlock()

	s.flush(outs)
	if rec != nil && s.recorder != nil {
		s.recorder.RecordMatch(ctx, rec)
	}
	return result, nil
}

// Surrender concedes the active game to the other participant
func (s *Service) Surrender(ctx context.Context, player *model.Player) error {
	s.mu.Lock()

	room := s.roomOf[player.ID]
	if room == nil {
		s.mu.Unlock()
		return model.ErrNotInRoom
	}
	if !room.IsParticipant(player) {
		s.mu.Unlock()
		return model.ErrNotPlaying
	}
	if room.State != model.RoomStateActive {
		s.mu.Unlock()
		return model.ErrNotActive
	}

	winner := room.Owner
	if room.Owner == player {
		winner = room.Opponent
	}
	outs, rec := s.endGameLocked(room, winner, player, true)
	s.mu.Unlock()

	s.logger.Info("player surrendered",
		slog.Int("room_id", room.ID),
		slog.String("nickname", player.Nickname))

	s.flush(outs)
	if rec != nil && s.recorder != nil {
		s.recorder.RecordMatch(ctx, rec)
	}
	return nil
}

// endGameLocked moves the room to End, producing the game-over and
// state-change events for every member (including both participants) and
// the match record. Both boards go out unhidden. Caller must hold mu.
func (s *Service) endGameLocked(room *model.Room, winner, loser *model.Player, surrendered bool) ([]outbound, *model.MatchRecord) {
	ownerBoard := protocol.BoardViewFromModel(room.OwnerBoard, false)
	var opponentBoard *protocol.BoardView
	if room.OpponentBoard != nil {
		v := protocol.BoardViewFromModel(room.OpponentBoard, false)
		opponentBoard = &v
	}
	gameOver := protocol.GameOverEvent{
		Winner:     protocol.PlayerViewFromModel(winner),
		IsOwnerWon: winner == room.Owner,
		Owner:      ownerBoard,
		Opponent:   opponentBoard,
	}

	outs := eventToMembers(room, nil, protocol.EventGameOver, func(*model.Player) any {
		return gameOver
	})

	room.End()

	outs = append(outs, eventToMembers(room, nil, protocol.EventRoomStateChange, func(member *model.Player) any {
		return protocol.RoomEvent{Room: protocol.RoomViewFromModel(room, member)}
	})...)

	rec := &model.MatchRecord{
		RoomID:      room.ID,
		Winner:      winner.Nickname,
		Loser:       loser.Nickname,
		Surrendered: surrendered,
		FinishedAt:  s.clock.Now(),
	}
	return outs, rec
}

// SendMessage appends a chat message to the caller's room and fans it
// out to the other members
func (s *Service) SendMessage(ctx context.Context, player *model.Player, text string) (protocol.ChatMessageView, error) {
	s.mu.Lock()

	room := s.roomOf[player.ID]
	if room == nil {
		s.mu.Unlock()
		return protocol.ChatMessageView{}, model.ErrNotInRoom
	}

	msg := model.ChatMessage{Player: player, Message: text, At: s.clock.Now()}
	room.AddMessage(msg)

	view := protocol.ChatMessageViewFromModel(msg)
	outs := eventToMembers(room, player, protocol.EventRoomMessage, func(*model.Player) any {
		return protocol.ChatEvent{ChatMessage: view}
	})
	s.mu.Unlock()

	s.flush(outs)
	return view, nil
}

// ListRooms returns one page of rooms rendered from the caller's
// perspective, ordered by room id
func (s *Service) ListRooms(player *model.Player, page int) (views []protocol.RoomView, pageOut, totalPages int) {
	if page < 0 {
		page = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]int, 0, len(s.rooms))
	for id := range s.rooms {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	totalPages = (len(ids) + RoomsPerPage - 1) / RoomsPerPage
	start := page * RoomsPerPage
	end := start + RoomsPerPage
	if start > len(ids) {
		start = len(ids)
	}
	if end > len(ids) {
		end = len(ids)
	}

	views = make([]protocol.RoomView, 0, end-start)
	for _, id := range ids[start:end] {
		views = append(views, protocol.RoomViewFromModel(s.rooms[id], player))
	}
	return views, page, totalPages
}

// Count returns the number of live rooms
func (s *Service) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rooms)
}

// OnPlayerDisconnected runs the full disconnect cascade: destroy every
// room the player owns, leave any room they are a member of, and drop
// them from the lobby subscribers. Defensive against a player somehow
// holding multiple roles; a disconnect must never leave dangling
// references.
func (s *Service) OnPlayerDisconnected(ctx context.Context, player *model.Player) {
	s.mu.Lock()

	var outs []outbound
	for _, room := range s.rooms {
		if room.Owner == player {
			outs = append(outs, s.destroyLocked(room)...)
		}
	}
	if s.roomOf[player.ID] != nil {
		leaveOuts, err := s.leaveLocked(player)
		if err == nil {
			outs = append(outs, leaveOuts...)
		}
	}

	s.subMu.Lock()
	delete(s.subscribers, player.ID)
	s.subMu.Unlock()
	s.mu.Unlock()

	s.flush(outs)
}

package ws

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/mcoot/battleshipgame-go/internal/model"
	"github.com/mcoot/battleshipgame-go/internal/protocol"
	"github.com/mcoot/battleshipgame-go/internal/services/players"
	"github.com/mcoot/battleshipgame-go/internal/services/rooms"
	"github.com/mcoot/battleshipgame-go/internal/services/stats"
)

// methodNames is the full request surface, in the order methods reports it
var methodNames = []string{
	protocol.MethodMethods,
	protocol.MethodPing,
	protocol.MethodLogin,
	protocol.MethodLogout,
	protocol.MethodRoomList,
	protocol.MethodRoomCreate,
	protocol.MethodRoomJoin,
	protocol.MethodRoomLeave,
	protocol.MethodChallenge,
	protocol.MethodSendMessage,
	protocol.MethodPlaceShips,
	protocol.MethodResetShips,
	protocol.MethodShoot,
	protocol.MethodSurrender,
	protocol.MethodStatsHist,
	protocol.MethodStatsBoard,
}

var eventNames = []string{
	protocol.EventRoomCreate,
	protocol.EventRoomJoin,
	protocol.EventRoomLeave,
	protocol.EventRoomKick,
	protocol.EventRoomDestroy,
	protocol.EventRoomStateChange,
	protocol.EventRoomMessage,
	protocol.EventSalvo,
	protocol.EventGameOver,
}

// Dispatcher routes decoded frames to the services. It holds no state of
// its own; every request is resolved against the caller's connection id.
type Dispatcher struct {
	players *players.Service
	rooms   *rooms.Service
	stats   *stats.Service
	logger  *slog.Logger
}

// NewDispatcher creates the request dispatcher
func NewDispatcher(playerSvc *players.Service, roomSvc *rooms.Service, statSvc *stats.Service, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		players: playerSvc,
		rooms:   roomSvc,
		stats:   statSvc,
		logger:  logger.With(slog.String("component", "dispatcher")),
	}
}

// Dispatch handles one raw inbound frame. A panic in a handler is
// contained to the offending request; the connection survives.
func (d *Dispatcher) Dispatch(ctx context.Context, conn *Conn, data []byte) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("panic handling request",
				slog.Int64("conn_id", conn.ID()),
				slog.Any("panic", r))
			conn.Enqueue(protocol.Error("", "internal server error", ""))
		}
	}()

	var in protocol.Inbound
	if err := json.Unmarshal(data, &in); err != nil {
		conn.Enqueue(protocol.Error("", "unable to parse the incoming message", availableMethodsComment()))
		return
	}
	if in.Type != protocol.TypeRequest {
		conn.Enqueue(protocol.Error(in.Method, "only request frames are accepted", ""))
		return
	}

	// methods are matched case-insensitively
	in.Method = strings.ToLower(in.Method)

	switch in.Method {
	case protocol.MethodMethods:
		d.handleMethods(conn)
	case protocol.MethodPing:
		conn.Enqueue(protocol.Response(protocol.MethodPing, protocol.Result{Success: true}, "pong"))
	case protocol.MethodLogin:
		d.handleLogin(conn, in.Args)
	case protocol.MethodLogout:
		d.handleLogout(ctx, conn)
	default:
		player, ok := d.players.Lookup(conn.ID())
		if !ok {
			conn.Enqueue(protocol.NotAuthorised(in.Method))
			return
		}
		d.dispatchAuthorised(ctx, conn, player, in)
	}
}

func (d *Dispatcher) dispatchAuthorised(ctx context.Context, conn *Conn, player *model.Player, in protocol.Inbound) {
	switch in.Method {
	case protocol.MethodRoomList:
		d.handleRoomList(conn, player, in.Args)
	case protocol.MethodRoomCreate:
		d.handleRoomCreate(ctx, conn, player)
	case protocol.MethodRoomJoin:
		d.handleRoomJoin(ctx, conn, player, in.Args)
	case protocol.MethodRoomLeave:
		d.handleRoomLeave(ctx, conn, player)
	case protocol.MethodChallenge:
		d.handleChallenge(ctx, conn, player)
	case protocol.MethodSendMessage:
		d.handleSendMessage(ctx, conn, player, in.Args)
	case protocol.MethodPlaceShips:
		d.handlePlaceShips(ctx, conn, player, in.Args)
	case protocol.MethodResetShips:
		d.handleResetShips(ctx, conn, player)
	case protocol.MethodShoot:
		d.handleShoot(ctx, conn, player, in.Args)
	case protocol.MethodSurrender:
		d.handleSurrender(ctx, conn, player)
	case protocol.MethodStatsHist:
		d.handleHistory(ctx, conn, player, in.Args)
	case protocol.MethodStatsBoard:
		d.handleLeaderboard(ctx, conn, in.Args)
	default:
		conn.Enqueue(protocol.Error(in.Method, "unknown method", availableMethodsComment()))
	}
}

// OnDisconnect runs the logout cascade for a dropped connection. A
// connection that never logged in has nothing to clean up.
func (d *Dispatcher) OnDisconnect(ctx context.Context, conn *Conn) {
	_, _ = d.players.Logout(ctx, conn.ID())
}

func (d *Dispatcher) handleMethods(conn *Conn) {
	conn.Enqueue(protocol.Response(protocol.MethodMethods, protocol.MethodsResult{
		Methods: methodNames,
		Events:  eventNames,
	}, ""))
}

func (d *Dispatcher) handleLogin(conn *Conn, raw json.RawMessage) {
	var args protocol.LoginArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		conn.Enqueue(protocol.Failure(protocol.MethodLogin, "malformed arguments"))
		return
	}
	if args.Nickname == nil {
		conn.Enqueue(protocol.Failure(protocol.MethodLogin, "nickname is required"))
		return
	}

	player, alreadyLoggedIn, err := d.players.Register(conn.ID(), conn, *args.Nickname, args.Color)
	if err != nil {
		conn.Enqueue(protocol.Failure(protocol.MethodLogin, err.Error()))
		return
	}

	comment := ""
	if alreadyLoggedIn {
		comment = "already logged in"
	} else {
		d.rooms.Subscribe(player)
	}
	view := protocol.PlayerViewFromModel(player)
	conn.Enqueue(protocol.Response(protocol.MethodLogin, protocol.LoginResult{
		Result: protocol.Result{Success: true},
		Player: &view,
	}, comment))
}

func (d *Dispatcher) handleLogout(ctx context.Context, conn *Conn) {
	if _, err := d.players.Logout(ctx, conn.ID()); err != nil {
		conn.Enqueue(protocol.Failure(protocol.MethodLogout, err.Error()))
		return
	}
	conn.Enqueue(protocol.Response(protocol.MethodLogout, protocol.Result{Success: true}, ""))
}

func (d *Dispatcher) handleRoomList(conn *Conn, player *model.Player, raw json.RawMessage) {
	var args protocol.RoomListArgs
	// absent or malformed args just mean the first page
	_ = json.Unmarshal(raw, &args)

	views, page, totalPages := d.rooms.ListRooms(player, args.Page)
	conn.Enqueue(protocol.Response(protocol.MethodRoomList, protocol.RoomListResult{
		Result:     protocol.Result{Success: true},
		Rooms:      views,
		Page:       page,
		TotalPages: totalPages,
	}, ""))
}

func (d *Dispatcher) handleRoomCreate(ctx context.Context, conn *Conn, player *model.Player) {
	view, err := d.rooms.CreateRoom(ctx, player)
	if err != nil {
		conn.Enqueue(protocol.Failure(protocol.MethodRoomCreate, err.Error()))
		return
	}
	conn.Enqueue(protocol.Response(protocol.MethodRoomCreate, protocol.RoomResult{
		Result: protocol.Result{Success: true},
		Room:   &view,
	}, ""))
}

func (d *Dispatcher) handleRoomJoin(ctx context.Context, conn *Conn, player *model.Player, raw json.RawMessage) {
	var args protocol.RoomJoinArgs
	if err := json.Unmarshal(raw, &args); err != nil || args.RoomID == nil {
		conn.Enqueue(protocol.Failure(protocol.MethodRoomJoin, "roomId is required"))
		return
	}

	view, err := d.rooms.JoinRoom(ctx, player, *args.RoomID)
	if err != nil {
		conn.Enqueue(protocol.Failure(protocol.MethodRoomJoin, err.Error()))
		return
	}
	conn.Enqueue(protocol.Response(protocol.MethodRoomJoin, protocol.RoomResult{
		Result: protocol.Result{Success: true},
		Room:   &view,
	}, ""))
}

func (d *Dispatcher) handleRoomLeave(ctx context.Context, conn *Conn, player *model.Player) {
	if err := d.rooms.LeaveRoom(ctx, player); err != nil {
		conn.Enqueue(protocol.Failure(protocol.MethodRoomLeave, err.Error()))
		return
	}
	conn.Enqueue(protocol.Response(protocol.MethodRoomLeave, protocol.Result{Success: true}, ""))
}

func (d *Dispatcher) handleChallenge(ctx context.Context, conn *Conn, player *model.Player) {
	view, err := d.rooms.Challenge(ctx, player)
	if err != nil {
		conn.Enqueue(protocol.Failure(protocol.MethodChallenge, err.Error()))
		return
	}
	conn.Enqueue(protocol.Response(protocol.MethodChallenge, protocol.RoomResult{
		Result: protocol.Result{Success: true},
		Room:   &view,
	}, ""))
}

func (d *Dispatcher) handleSendMessage(ctx context.Context, conn *Conn, player *model.Player, raw json.RawMessage) {
	var args protocol.ChatArgs
	if err := json.Unmarshal(raw, &args); err != nil || args.Message == nil {
		conn.Enqueue(protocol.Failure(protocol.MethodSendMessage, "message is required"))
		return
	}

	view, err := d.rooms.SendMessage(ctx, player, *args.Message)
	if err != nil {
		conn.Enqueue(protocol.Failure(protocol.MethodSendMessage, err.Error()))
		return
	}
	conn.Enqueue(protocol.Response(protocol.MethodSendMessage, protocol.ChatResult{
		Result:      protocol.Result{Success: true},
		ChatMessage: &view,
	}, ""))
}

func (d *Dispatcher) handlePlaceShips(ctx context.Context, conn *Conn, player *model.Player, raw json.RawMessage) {
	var args protocol.PlaceShipsArgs
	if err := json.Unmarshal(raw, &args); err != nil || args.Ships == nil {
		conn.Enqueue(protocol.Failure(protocol.MethodPlaceShips, "ships are required"))
		return
	}

	ships := make([]*model.Ship, 0, len(*args.Ships))
	for _, s := range *args.Ships {
		ships = append(ships, s.ToModel())
	}

	view, err := d.rooms.PlaceShips(ctx, player, ships)
	if err != nil {
		conn.Enqueue(protocol.Failure(protocol.MethodPlaceShips, err.Error()))
		return
	}
	conn.Enqueue(protocol.Response(protocol.MethodPlaceShips, protocol.RoomResult{
		Result: protocol.Result{Success: true},
		Room:   &view,
	}, ""))
}

func (d *Dispatcher) handleResetShips(ctx context.Context, conn *Conn, player *model.Player) {
	view, err := d.rooms.ResetShips(ctx, player)
	if err != nil {
		conn.Enqueue(protocol.Failure(protocol.MethodResetShips, err.Error()))
		return
	}
	conn.Enqueue(protocol.Response(protocol.MethodResetShips, protocol.RoomResult{
		Result: protocol.Result{Success: true},
		Room:   &view,
	}, ""))
}

func (d *Dispatcher) handleShoot(ctx context.Context, conn *Conn, player *model.Player, raw json.RawMessage) {
	var args protocol.ShootArgs
	if err := json.Unmarshal(raw, &args); err != nil || args.X == nil || args.Y == nil {
		conn.Enqueue(protocol.Failure(protocol.MethodShoot, "x and y are required"))
		return
	}

	result, err := d.rooms.Shoot(ctx, player, *args.X, *args.Y)
	if err != nil {
		conn.Enqueue(protocol.Failure(protocol.MethodShoot, err.Error()))
		return
	}
	conn.Enqueue(protocol.Response(protocol.MethodShoot, protocol.ShootResult{
		Result:     protocol.Result{Success: true},
		X:          result.X,
		Y:          result.Y,
		IsHit:      result.Hit,
		SunkenShip: result.Sunk,
		Room:       &result.Room,
	}, ""))
}

func (d *Dispatcher) handleSurrender(ctx context.Context, conn *Conn, player *model.Player) {
	if err := d.rooms.Surrender(ctx, player); err != nil {
		conn.Enqueue(protocol.Failure(protocol.MethodSurrender, err.Error()))
		return
	}
	conn.Enqueue(protocol.Response(protocol.MethodSurrender, protocol.Result{Success: true}, ""))
}

func (d *Dispatcher) handleHistory(ctx context.Context, conn *Conn, player *model.Player, raw json.RawMessage) {
	var args protocol.StatsArgs
	_ = json.Unmarshal(raw, &args)
	nickname := args.Nickname
	if nickname == "" {
		nickname = player.Nickname
	}

	matches, err := d.stats.History(ctx, nickname, args.Limit)
	if err != nil {
		d.logger.Error("loading match history failed", slog.String("error", err.Error()))
		conn.Enqueue(protocol.Failure(protocol.MethodStatsHist, "unable to load match history"))
		return
	}
	conn.Enqueue(protocol.Response(protocol.MethodStatsHist, protocol.HistoryResult{
		Result:  protocol.Result{Success: true},
		Matches: matches,
	}, ""))
}

func (d *Dispatcher) handleLeaderboard(ctx context.Context, conn *Conn, raw json.RawMessage) {
	var args protocol.StatsArgs
	_ = json.Unmarshal(raw, &args)

	standings, err := d.stats.Leaderboard(ctx, args.Limit)
	if err != nil {
		d.logger.Error("loading leaderboard failed", slog.String("error", err.Error()))
		conn.Enqueue(protocol.Failure(protocol.MethodStatsBoard, "unable to load leaderboard"))
		return
	}
	conn.Enqueue(protocol.Response(protocol.MethodStatsBoard, protocol.LeaderboardResult{
		Result:    protocol.Result{Success: true},
		Standings: standings,
	}, ""))
}

func availableMethodsComment() string {
	return "available methods: " + strings.Join(methodNames, ", ")
}

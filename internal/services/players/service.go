package players

import (
	"context"
	"log/slog"
	"sync"
	"unicode"

	"github.com/mcoot/battleshipgame-go/internal/model"
)

// Nickname length bounds
const (
	NicknameMinLength = 2
	NicknameMaxLength = 32
)

// DisconnectHandler receives the cascade when a player logs out or their
// connection drops. The room registry implements it.
type DisconnectHandler interface {
	OnPlayerDisconnected(ctx context.Context, player *model.Player)
}

// Service is the registry of live, logged-in players. It maps connection
// ids to player identities and enforces nickname rules.
type Service struct {
	disconnects DisconnectHandler
	logger      *slog.Logger

	mu         sync.Mutex
	players    map[int64]*model.Player // connection id -> player
	byNickname map[string]*model.Player
	nextID     int
}

// New creates a new player registry
func New(disconnects DisconnectHandler, logger *slog.Logger) *Service {
	return &Service{
		disconnects: disconnects,
		logger:      logger.With(slog.String("component", "players")),
		players:     make(map[int64]*model.Player),
		byNickname:  make(map[string]*model.Player),
	}
}

// ValidateNickname checks the nickname rules: 2-32 characters, letters,
// digits, underscore or hyphen only
func ValidateNickname(nickname string) error {
	runes := []rune(nickname)
	if len(runes) < NicknameMinLength {
		return model.ErrNicknameTooShort
	}
	if len(runes) > NicknameMaxLength {
		return model.ErrNicknameTooLong
	}
	for _, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && r != '-' {
			return model.ErrNicknameCharset
		}
	}
	return nil
}

// Register logs a connection in under the given nickname. Player ids are
// assigned monotonically and never reused. The submitted nickname is
// validated even for an already-registered connection; a valid repeat
// login is idempotent and returns the existing identity unchanged with
// alreadyLoggedIn set.
func (s *Service) Register(connID int64, conn model.Sender, nickname, color string) (player *model.Player, alreadyLoggedIn bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ValidateNickname(nickname); err != nil {
		return nil, false, err
	}

	if existing, ok := s.players[connID]; ok {
		return existing, true, nil
	}

	if _, taken := s.byNickname[nickname]; taken {
		return nil, false, model.ErrNicknameTaken
	}

	s.nextID++
	player = &model.Player{
		ID:       s.nextID,
		Nickname: nickname,
		Color:    color,
		Conn:     conn,
	}
	s.players[connID] = player
	s.byNickname[nickname] = player

	s.logger.Info("player logged in",
		slog.Int("player_id", player.ID),
		slog.String("nickname", nickname))

	return player, false, nil
}

// Lookup returns the player registered for a connection, if any
func (s *Service) Lookup(connID int64) (*model.Player, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	player, ok := s.players[connID]
	return player, ok
}

// Logout removes the connection's identity and runs the room-registry
// disconnect cascade. It fails if the connection was never registered.
// The cascade runs outside the registry lock.
func (s *Service) Logout(ctx context.Context, connID int64) (*model.Player, error) {
	s.mu.Lock()
	player, ok := s.players[connID]
	if !ok {
		s.mu.Unlock()
		return nil, model.ErrNotLoggedIn
	}
	delete(s.players, connID)
	delete(s.byNickname, player.Nickname)
	s.mu.Unlock()

	s.logger.Info("player logged out",
		slog.Int("player_id", player.ID),
		slog.String("nickname", player.Nickname))

	if s.disconnects != nil {
		s.disconnects.OnPlayerDisconnected(ctx, player)
	}
	return player, nil
}

// Count returns the number of currently logged-in players
func (s *Service) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.players)
}

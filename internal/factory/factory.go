package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/mcoot/battleshipgame-go/internal/dependencies/clock"
	"github.com/mcoot/battleshipgame-go/internal/dependencies/random"
	"github.com/mcoot/battleshipgame-go/internal/services/players"
	"github.com/mcoot/battleshipgame-go/internal/services/rooms"
	"github.com/mcoot/battleshipgame-go/internal/services/stats"
	"github.com/mcoot/battleshipgame-go/internal/storage"
	"github.com/mcoot/battleshipgame-go/internal/storage/memory"
	redisstorage "github.com/mcoot/battleshipgame-go/internal/storage/redis"
	"github.com/mcoot/battleshipgame-go/internal/ws"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock  clock.Clock
	Random random.Random

	// Services
	PlayerService *players.Service
	RoomService   *rooms.Service
	StatsService  *stats.Service

	// Transport
	Dispatcher *ws.Dispatcher
	WSHandler  *ws.Handler
}

// Config holds configuration for the application factory
type Config struct {
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the match-history backend ("memory" or "redis")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory' or 'redis'")
	}

	return newWithDependencies(store, clock.New(), random.New(), logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, rnd random.Random, logger *slog.Logger) *App {
	statsService := stats.New(store, logger)
	roomService := rooms.New(clk, rnd, statsService, logger)
	playerService := players.New(roomService, logger)
	dispatcher := ws.NewDispatcher(playerService, roomService, statsService, logger)
	wsHandler := ws.NewHandler(dispatcher, logger)

	return &App{
		Storage:       store,
		Clock:         clk,
		Random:        rnd,
		PlayerService: playerService,
		RoomService:   roomService,
		StatsService:  statsService,
		Dispatcher:    dispatcher,
		WSHandler:     wsHandler,
	}
}

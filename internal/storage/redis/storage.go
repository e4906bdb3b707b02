package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/battleshipgame-go/internal/model"
	"github.com/mcoot/battleshipgame-go/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface.
// Per-player history lives in bounded lists; standings in a sorted set.
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) SaveMatch(ctx context.Context, match *model.MatchRecord) error {
	data, err := json.Marshal(match)
	if err != nil {
		return err
	}

	// Pipeline for atomic history + standings update
	pipe := s.client.Pipeline()
	for _, nickname := range []string{match.Winner, match.Loser} {
		key := matchesKey(nickname)
		pipe.LPush(ctx, key, data)
		pipe.LTrim(ctx, key, 0, int64(s.cfg.HistoryLength-1))
	}
	pipe.ZIncrBy(ctx, leaderboardKey(), 1, match.Winner)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) MatchesForPlayer(ctx context.Context, nickname string, limit int) ([]model.MatchRecord, error) {
	entries, err := s.client.LRange(ctx, matchesKey(nickname), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	matches := make([]model.MatchRecord, 0, len(entries))
	for _, entry := range entries {
		var m model.MatchRecord
		if err := json.Unmarshal([]byte(entry), &m); err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	return matches, nil
}

func (s *Storage) Leaderboard(ctx context.Context, limit int) ([]model.Standing, error) {
	entries, err := s.client.ZRevRangeWithScores(ctx, leaderboardKey(), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}

	standings := make([]model.Standing, 0, len(entries))
	for _, entry := range entries {
		nickname, ok := entry.Member.(string)
		if !ok {
			continue
		}
		standings = append(standings, model.Standing{
			Nickname: nickname,
			Wins:     int(entry.Score),
		})
	}
	return standings, nil
}

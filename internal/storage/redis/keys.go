package redis

import "fmt"

// Key prefix for all battleship data
const keyPrefix = "bsgame"

// matchesKey returns the Redis key for a player's match history list
func matchesKey(nickname string) string {
	return fmt.Sprintf("%s:matches:%s", keyPrefix, nickname)
}

// leaderboardKey returns the Redis key for the win-count sorted set
func leaderboardKey() string {
	return fmt.Sprintf("%s:leaderboard", keyPrefix)
}

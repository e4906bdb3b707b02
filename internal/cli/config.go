package cli

import (
	"log/slog"
	"os"
	"strconv"
)

// Config holds server configuration, read from the environment. A .env
// file in the working directory is loaded first if present.
type Config struct {
	Host        string
	Port        int
	LogLevel    slog.Level
	StorageType string
	RedisURL    string
}

// DefaultConfig returns a Config populated from the environment with
// defaults for anything unset
func DefaultConfig() *Config {
	return &Config{
		Host:        os.Getenv("BATTLESHIP_HOST"),
		Port:        getEnvInt("BATTLESHIP_PORT", 8080),
		LogLevel:    parseLogLevel(os.Getenv("BATTLESHIP_LOG_LEVEL")),
		StorageType: os.Getenv("STORAGE_TYPE"),
		RedisURL:    os.Getenv("REDIS_URL"),
	}
}

func parseLogLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func getEnvInt(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

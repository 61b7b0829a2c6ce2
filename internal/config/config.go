package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Session
	ClassicMode    bool    // disables PowerUp grants entirely
	InitialBalance float64 // starting wallet balance
	TickInterval   time.Duration

	// Gameplay tunables (YAML); empty path uses built-in defaults
	GameplayPath string

	// Fanout / metrics HTTP server
	FanoutPort int

	// History archive
	HistoryDBPath string

	// Lobby
	LobbySize int

	// Telemetry
	LogLevel string
}

func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		ClassicMode:    envStr("CLASSIC_MODE", "false") == "true",
		InitialBalance: envFloat("INITIAL_BALANCE", 1000),
		TickInterval:   time.Duration(envInt("TICK_INTERVAL_MS", 1000)) * time.Millisecond,

		GameplayPath: envStr("GAMEPLAY_PATH", ""),

		FanoutPort: envInt("FANOUT_PORT", 8790),

		HistoryDBPath: envStr("HISTORY_DB_PATH", "data/history.db"),

		LobbySize: envInt("LOBBY_SIZE", 6),

		LogLevel: envStr("LOG_LEVEL", "info"),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

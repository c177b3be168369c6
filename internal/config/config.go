package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Storage backends
const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
)

// Server is the server configuration read from the environment
type Server struct {
	Host       string        `env:"BOWLSCORE_HOST"        envDefault:""`
	Port       int           `env:"BOWLSCORE_PORT"        envDefault:"8080"`
	LogLevel   string        `env:"BOWLSCORE_LOG_LEVEL"   envDefault:"info"`
	Storage    string        `env:"BOWLSCORE_STORAGE"     envDefault:"memory"`
	RedisURL   string        `env:"BOWLSCORE_REDIS_URL"   envDefault:"redis://localhost:6379"`
	Lanes      int           `env:"BOWLSCORE_LANES"       envDefault:"12"`
	MaxPlayers int           `env:"BOWLSCORE_MAX_PLAYERS" envDefault:"6"`
	MatchTTL   time.Duration `env:"BOWLSCORE_MATCH_TTL"   envDefault:"24h"`
}

// Load parses the server configuration from the environment and validates it
func Load() (Server, error) {
	var cfg Server
	if err := env.Parse(&cfg); err != nil {
		return Server{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Server{}, err
	}
	return cfg, nil
}

// Validate checks values the environment parser cannot
func (c Server) Validate() error {
	switch c.Storage {
	case StorageMemory, StorageRedis:
	default:
		return fmt.Errorf("invalid storage backend %q: must be %q or %q", c.Storage, StorageMemory, StorageRedis)
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if c.Lanes < 1 {
		return fmt.Errorf("invalid lane count %d", c.Lanes)
	}
	if c.MaxPlayers < 1 {
		return fmt.Errorf("invalid max players %d", c.MaxPlayers)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Addr returns the listen address
func (c Server) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Level returns the slog level named by LogLevel
func (c Server) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

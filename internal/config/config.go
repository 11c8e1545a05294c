package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPAddr  string     `env:"HTTP_ADDR" envDefault:":8080"`
	DBPath    string     `env:"DB_PATH" envDefault:"data/treasurehunt.db"`
	LogLevel  slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	SPADir    string     `env:"SPA_DIR"`
	UploadDir string     `env:"UPLOAD_DIR" envDefault:"data/uploads"`

	// AdminPasswordHash is a bcrypt hash and wins over AdminPassword when
	// both are set.
	AdminPassword     string `env:"ADMIN_PASSWORD" envDefault:"christmas2024"`
	AdminPasswordHash string `env:"ADMIN_PASSWORD_HASH"`

	// RedisURL enables the leaderboard read cache when set.
	RedisURL       string        `env:"REDIS_URL"`
	LeaderboardTTL time.Duration `env:"LEADERBOARD_TTL" envDefault:"5s"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}

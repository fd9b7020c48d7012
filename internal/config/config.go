package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Storage backends selectable with STORAGE.
const (
	StorageFile   = "file"
	StorageRedis  = "redis"
	StorageSQLite = "sqlite"
	StorageMemory = "memory"
)

type Config struct {
	Environment string     `env:"ENVIRONMENT" envDefault:"development"`
	LogLevelRaw string     `env:"LOG_LEVEL" envDefault:"info"`
	LogLevel    slog.Level `env:"-"`
	LogFile     string     `env:"LOG_FILE" envDefault:"blackmoon.log"`

	// Locale is the display language. Empty means ask the player.
	Locale    string `env:"LOCALE"`
	StoryFile string `env:"STORY_FILE"`
	AssetsDir string `env:"ASSETS_DIR" envDefault:"assets"`

	Storage    string `env:"STORAGE" envDefault:"file"`
	SavePath   string `env:"SAVE_PATH" envDefault:"savegame.json"`
	SaveSlot   string `env:"SAVE_SLOT" envDefault:"default"`
	RedisURL   string `env:"REDIS_URL" envDefault:"localhost:6379"`
	SQLitePath string `env:"SQLITE_PATH" envDefault:"blackmoon.db"`

	// ArcadeSeed seeds encounter randomness; 0 picks a new seed every run.
	ArcadeSeed int64 `env:"ARCADE_SEED" envDefault:"0"`
	FPS        int   `env:"FPS" envDefault:"60"`
}

// Load reads a .env file from the working directory, if there is one,
// and then the process environment. Real environment variables win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds the config from the process environment only.
func FromEnv() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.LogLevel = parseLogLevel(cfg.LogLevelRaw)
	cfg.Storage = strings.ToLower(cfg.Storage)

	switch cfg.Storage {
	case StorageFile, StorageRedis, StorageSQLite, StorageMemory:
	default:
		return nil, fmt.Errorf("unknown STORAGE %q (want file, redis, sqlite or memory)", cfg.Storage)
	}
	if cfg.FPS <= 0 {
		return nil, fmt.Errorf("FPS must be positive, got %d", cfg.FPS)
	}
	if cfg.SaveSlot == "" {
		cfg.SaveSlot = "default"
	}
	return &cfg, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Package app wires configuration, story, storage and engine into a
// playable session for the frontends.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jwebster45206/black-moon/internal/config"
	"github.com/jwebster45206/black-moon/internal/logger"
	internalstorage "github.com/jwebster45206/black-moon/internal/storage"
	"github.com/jwebster45206/black-moon/pkg/arcade"
	"github.com/jwebster45206/black-moon/pkg/engine"
	"github.com/jwebster45206/black-moon/pkg/scenario"
	"github.com/jwebster45206/black-moon/pkg/storage"
)

// Game is a ready session plus the resources it holds.
type Game struct {
	Session *engine.Session
	Store   storage.Storage
	Logger  *slog.Logger
}

// Close releases the save backend.
func (g *Game) Close() error {
	gs := g.Session.State()
	logger.WithRunID(g.Logger, gs.RunID.String()).Info("Session closed", "scene", gs.Scene)
	if err := g.Store.Close(); err != nil {
		logger.WithError(g.Logger, err).Warn("Failed to close storage")
		return err
	}
	return nil
}

// LoadScenario returns the story named by cfg.StoryFile, or the built-in
// story when none is set.
func LoadScenario(cfg *config.Config) (*scenario.Scenario, error) {
	if cfg.StoryFile == "" {
		return scenario.Default()
	}
	return scenario.LoadFile(cfg.StoryFile)
}

// New opens storage and starts a session. runner plays encounters; nil
// plays them headless.
func New(ctx context.Context, cfg *config.Config, runner engine.EncounterRunner, log *slog.Logger) (*Game, error) {
	scen, err := LoadScenario(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load story: %w", err)
	}

	store, err := internalstorage.Open(ctx, cfg, log)
	if err != nil {
		logger.WithError(log, err).Error("Failed to open storage", "storage", cfg.Storage)
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	eng := engine.New(scen, runner, log,
		engine.WithSpawner(arcade.NewRandomSpawner(cfg.ArcadeSeed)))

	log.Info("Story loaded",
		"file", scen.FileName,
		"scenes", len(scen.SceneIDs()),
		"storage", cfg.Storage,
		"slot", cfg.SaveSlot)

	return &Game{
		Session: engine.NewSession(eng, store, cfg.SaveSlot, cfg.Locale),
		Store:   store,
		Logger:  log,
	}, nil
}

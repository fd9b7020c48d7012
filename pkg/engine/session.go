package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jwebster45206/black-moon/pkg/state"
	"github.com/jwebster45206/black-moon/pkg/storage"
)

// ErrPersistence wraps every save or load failure. It is never fatal: the
// session keeps its current state and the frontend reports the problem.
var ErrPersistence = errors.New("persistence failure")

// Session is one player's game: the current state, the locale it is shown
// in and the save slot it persists to.
type Session struct {
	engine *Engine
	store  storage.Storage
	slot   string
	locale string
	gs     *state.GameState
	logger *slog.Logger
}

// NewSession starts a new game on eng. Saves go to slot in store.
func NewSession(eng *Engine, store storage.Storage, slot, locale string) *Session {
	s := &Session{
		engine: eng,
		store:  store,
		slot:   slot,
		logger: eng.logger,
	}
	s.SetLocale(locale)
	s.Reset()
	return s
}

func (s *Session) Engine() *Engine { return s.engine }
func (s *Session) State() *state.GameState { return s.gs }
func (s *Session) Locale() string { return s.locale }
func (s *Session) Slot() string { return s.slot }

// SetLocale switches the display language, matched against the scenario's
// locales.
func (s *Session) SetLocale(locale string) {
	s.locale = s.engine.scenario.MatchLocale(locale)
}

// Text returns a localized interface string.
func (s *Session) Text(key string) string {
	return s.engine.scenario.Text(key, s.locale)
}

// Reset discards the current run and starts over at the first scene.
func (s *Session) Reset() {
	s.gs = s.engine.NewGame()
	s.logger.Info("New game", "run_id", s.gs.RunID, "scene", s.gs.Scene)
}

// Choose picks choice n, counted from 1 as shown to the player, and then
// runs the per-frame safety check.
func (s *Session) Choose(ctx context.Context, n int) error {
	err := s.engine.Step(ctx, s.gs, n-1)
	s.engine.Frame(s.gs)
	return err
}

// Frame runs the per-frame safety check on the current state.
func (s *Session) Frame() *state.Override {
	return s.engine.Frame(s.gs)
}

// Ended reports whether the run has reached an ending.
func (s *Session) Ended() bool {
	return s.gs.IsEnded()
}

// Acknowledge is called once the player has seen an ending; it starts a
// new run. It does nothing while the story is still going.
func (s *Session) Acknowledge() {
	if s.Ended() {
		s.Reset()
	}
}

// View renders the current scene in the session locale.
func (s *Session) View() (SceneView, error) {
	return s.engine.View(s.gs, s.locale)
}

// StatusLine renders the status bar for the current state.
func (s *Session) StatusLine() string {
	v := Status{Health: s.gs.Health, DaysLeft: s.gs.DaysLeft, Suspicion: s.gs.Suspicion, Allies: s.gs.WindomAllies}
	return s.engine.StatusLine(v, s.locale)
}

// Save writes the current state to the session's slot.
func (s *Session) Save(ctx context.Context) error {
	if err := s.store.SaveGameState(ctx, s.slot, s.gs); err != nil {
		s.logger.Warn("Save failed", "run_id", s.gs.RunID, "slot", s.slot, "error", err)
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	s.logger.Info("Game saved", "run_id", s.gs.RunID, "slot", s.slot, "scene", s.gs.Scene)
	return nil
}

// Load replaces the current state with the one in the session's slot.
// On any failure the current state is kept.
func (s *Session) Load(ctx context.Context) error {
	loaded, err := s.store.LoadGameState(ctx, s.slot)
	if err == nil && loaded == nil {
		err = fmt.Errorf("no saved game in slot %q", s.slot)
	}
	if err == nil {
		err = s.checkLoaded(loaded)
	}
	if err != nil {
		s.logger.Warn("Load failed", "slot", s.slot, "error", err)
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}

	s.gs = loaded
	s.logger.Info("Game loaded", "run_id", s.gs.RunID, "slot", s.slot, "scene", s.gs.Scene)
	s.engine.Frame(s.gs)
	return nil
}

// checkLoaded rejects saves that point outside the scenario, e.g. a save
// made with a different story file.
func (s *Session) checkLoaded(gs *state.GameState) error {
	scen := s.engine.scenario
	if _, err := scen.Lookup(gs.Scene); err != nil {
		return fmt.Errorf("saved scene: %w", err)
	}
	if gs.ReturnScene != "" {
		if _, err := scen.Lookup(gs.ReturnScene); err != nil {
			return fmt.Errorf("saved return scene: %w", err)
		}
	}
	return nil
}

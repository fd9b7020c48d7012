package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jwebster45206/black-moon/pkg/arcade"
	"github.com/jwebster45206/black-moon/pkg/scenario"
	"github.com/jwebster45206/black-moon/pkg/state"
)

// EncounterRunner drives an arcade encounter until it finishes. It blocks
// the caller; the narrative does not advance while an encounter runs.
// Returning early, with or without an error, cancels the encounter.
type EncounterRunner interface {
	Run(ctx context.Context, enc *arcade.Encounter) error
}

// Engine steps a game state through a scenario.
type Engine struct {
	scenario  *scenario.Scenario
	runner    EncounterRunner
	spawner   arcade.Spawner
	arcadeCfg arcade.Config
	logger    *slog.Logger
}

// Option customizes an Engine.
type Option func(*Engine)

// WithSpawner sets the randomness source for encounters.
func WithSpawner(s arcade.Spawner) Option {
	return func(e *Engine) { e.spawner = s }
}

// WithArcadeConfig overrides the encounter tuning.
func WithArcadeConfig(cfg arcade.Config) Option {
	return func(e *Engine) { e.arcadeCfg = cfg }
}

// New creates an engine for scen. A nil runner plays encounters headless
// at 60 ticks per second with no input.
func New(scen *scenario.Scenario, runner EncounterRunner, logger *slog.Logger, opts ...Option) *Engine {
	if runner == nil {
		runner = arcade.NewFixedStepRunner(60)
	}
	if logger == nil {
		logger = slog.Default()
	}
	e := &Engine{
		scenario:  scen,
		runner:    runner,
		arcadeCfg: arcade.DefaultConfig(),
		logger:    logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.spawner == nil {
		e.spawner = arcade.NewRandomSpawner(0)
	}
	return e
}

func (e *Engine) Scenario() *scenario.Scenario {
	return e.scenario
}

// NewGame returns a fresh state at the scenario's start scene.
func (e *Engine) NewGame() *state.GameState {
	return state.NewGameState(e.scenario.Start)
}

// Step resolves choice idx (zero-based) of the current scene.
//
// An index outside the scene's choices, or any index on an ending, leaves
// gs untouched. Otherwise the choice's effects are applied; if that forces
// an ending the step stops there. A choice leading to an encounter runs it
// to completion before Step returns, and the encounter decides the next
// scene.
func (e *Engine) Step(ctx context.Context, gs *state.GameState, idx int) error {
	scene, err := e.scenario.Lookup(gs.Scene)
	if err != nil {
		return fmt.Errorf("failed to step: %w", err)
	}
	if scene.IsEnding() {
		return nil
	}
	choice, ok := scene.Choice(idx)
	if !ok {
		e.logger.Debug("Ignoring out of range choice", "scene", scene.ID, "choice", idx+1, "choices", len(scene.Choices))
		return nil
	}

	if ov := gs.Apply(choice.Effects...); ov != nil {
		e.logOverride(gs, ov)
		return nil
	}

	if choice.IsEncounter() {
		return e.runEncounter(ctx, gs, choice)
	}

	e.logger.Debug("Scene transition", "run_id", gs.RunID, "from", scene.ID, "to", choice.Goto)
	gs.Scene = choice.Goto
	return nil
}

func (e *Engine) runEncounter(ctx context.Context, gs *state.GameState, choice scenario.Choice) error {
	kind, err := arcade.KindOf(choice.Goto)
	if err != nil {
		return err
	}
	if _, explicit := state.ReturnTarget(choice.Effects); !explicit {
		gs.ReturnScene = state.DefaultReturn(choice.Goto)
	}
	from := gs.Scene
	gs.Scene = choice.Goto

	e.logger.Info("Encounter started", "run_id", gs.RunID, "kind", kind, "from", from, "return_scene", gs.ReturnScene)
	enc := arcade.New(kind, gs, e.arcadeCfg, e.spawner)
	runErr := e.runner.Run(ctx, enc)
	if !enc.Done() {
		enc.Cancel()
	}
	e.logger.Info("Encounter finished",
		"run_id", gs.RunID,
		"kind", kind,
		"result", enc.Result(),
		"hits", enc.Hits(),
		"collected", enc.Collected(),
		"elapsed", enc.Elapsed(),
		"scene", gs.Scene,
		"health", gs.Health)

	if runErr != nil {
		return fmt.Errorf("%s encounter ended early: %w", kind, runErr)
	}
	return nil
}

// Frame runs the per-frame safety check, forcing an ending when health or
// time has run out. It reports the override, if any.
func (e *Engine) Frame(gs *state.GameState) *state.Override {
	ov := gs.Enforce()
	if ov != nil {
		e.logOverride(gs, ov)
	}
	return ov
}

func (e *Engine) logOverride(gs *state.GameState, ov *state.Override) {
	e.logger.Info("Ending forced", "run_id", gs.RunID, "from", ov.From, "to", ov.To, "reason", ov.Reason)
}

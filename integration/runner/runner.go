package runner

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/jwebster45206/black-moon/pkg/arcade"
	"github.com/jwebster45206/black-moon/pkg/engine"
	"github.com/jwebster45206/black-moon/pkg/scenario"
	"github.com/jwebster45206/black-moon/pkg/state"
	"github.com/jwebster45206/black-moon/pkg/storage"
)

type ErrorHandlingMode string

const ErrorHandlingExit ErrorHandlingMode = "exit"
const ErrorHandlingContinue ErrorHandlingMode = "continue"

// Runner plays test suites against the engine in-process. Every suite gets
// its own save slot in Store, removed when the suite finishes.
type Runner struct {
	Store             storage.Storage
	Logger            func(format string, args ...interface{})
	ErrorHandlingMode ErrorHandlingMode
	FPS               int
	StoryOverride     string // If set, overrides the story for all test cases
	EngineLogger      *slog.Logger
}

// NewRunner creates a new test runner saving to store
func NewRunner(store storage.Storage) *Runner {
	return &Runner{
		Store:             store,
		Logger:            func(string, ...interface{}) {},
		ErrorHandlingMode: ErrorHandlingContinue,
		FPS:               60,
		EngineLogger:      slog.New(slog.DiscardHandler),
	}
}

// LoadTestSuite loads a test suite from a YAML file
func LoadTestSuite(filename string) (TestSuite, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return TestSuite{}, fmt.Errorf("failed to read test file %s: %w", filename, err)
	}

	var suite TestSuite
	if err := yaml.Unmarshal(content, &suite); err != nil {
		return TestSuite{}, fmt.Errorf("failed to parse YAML in %s: %w", filename, err)
	}

	return suite, nil
}

// LoadTestSuiteWithExpansion loads a test suite and expands it if it's a sequence
// Returns a list of actual test suites (expanded from the sequence if needed)
func LoadTestSuiteWithExpansion(filename string, casesDir string) ([]TestJob, error) {
	suite, err := LoadTestSuite(filename)
	if err != nil {
		return nil, err
	}

	if !suite.IsSequence() {
		return []TestJob{{
			Name:     suite.Name,
			Suite:    suite,
			CaseFile: filename,
		}}, nil
	}

	var jobs []TestJob
	for _, caseFile := range suite.Cases {
		casePath := filepath.Join(casesDir, caseFile)

		// Recursively load (in case a sequence references another sequence)
		subJobs, err := LoadTestSuiteWithExpansion(casePath, casesDir)
		if err != nil {
			return nil, fmt.Errorf("failed to load case '%s' referenced by sequence '%s': %w", caseFile, suite.Name, err)
		}

		jobs = append(jobs, subJobs...)
	}

	return jobs, nil
}

// stepInput is the encounter input source whose behaviour is switched
// between steps.
type stepInput struct {
	current arcade.InputSource
}

func (s *stepInput) Next(f arcade.Frame) arcade.Input {
	return s.current.Next(f)
}

func inputFor(name string) (arcade.InputSource, error) {
	switch name {
	case "", InputIdle:
		return arcade.Idle, nil
	case InputLeft:
		return arcade.InputFunc(func(arcade.Frame) arcade.Input { return arcade.Input{Dir: -1} }), nil
	case InputRight:
		return arcade.InputFunc(func(arcade.Frame) arcade.Input { return arcade.Input{Dir: 1} }), nil
	case InputCancel:
		return arcade.InputFunc(func(arcade.Frame) arcade.Input { return arcade.Input{Cancel: true} }), nil
	}
	return nil, fmt.Errorf("unknown input %q", name)
}

// suiteRun is the live state of one suite being played.
type suiteRun struct {
	session *engine.Session
	input   *stepInput
	seed    state.Document
	slot    string
}

// RunSuite executes a complete test suite
func (r *Runner) RunSuite(ctx context.Context, suite TestSuite) (TestRunResult, error) {
	start := time.Now()
	result := TestRunResult{
		Job: TestJob{
			Name:  suite.Name,
			Suite: suite,
		},
		Results: make([]TestResult, 0, len(suite.Steps)),
	}

	run, err := r.newRun(ctx, suite)
	if err != nil {
		result.Error = err
		result.Duration = time.Since(start)
		return result, result.Error
	}
	defer func() {
		_ = r.Store.DeleteGameState(context.Background(), run.slot) // Ignore error in defer
	}()
	result.StartState = run.session.State().Document()

	for i, step := range suite.Steps {
		r.Logger("    [%d/%d] Running step: %s", i+1, len(suite.Steps), step.Name)
		stepResult := r.executeStep(ctx, run, step)
		stepResult.TestName = suite.Name
		result.Results = append(result.Results, stepResult)

		if stepResult.Error != nil {
			r.Logger("    [%d/%d] ✗ %s: %v", i+1, len(suite.Steps), step.Name, stepResult.Error)
			if result.Error == nil {
				result.Error = fmt.Errorf("step %d (%s) failed: %w", i, step.Name, stepResult.Error)
			}
			if r.ErrorHandlingMode == ErrorHandlingExit {
				break
			}
			continue
		}

		r.Logger("    [%d/%d] ✓ %s (%v)", i+1, len(suite.Steps), step.Name, stepResult.Duration)
	}

	result.RunID = run.session.State().RunID
	result.FinalState = run.session.State().Document()
	result.Duration = time.Since(start)
	return result, result.Error
}

// newRun builds an engine with reproducible encounters and a session on a
// fresh slot, then applies the suite's seed state.
func (r *Runner) newRun(ctx context.Context, suite TestSuite) (*suiteRun, error) {
	story := suite.Story
	if r.StoryOverride != "" {
		story = r.StoryOverride
	}
	scen, err := loadStory(story)
	if err != nil {
		return nil, err
	}

	fps := r.FPS
	if fps <= 0 {
		fps = 60
	}
	input := &stepInput{current: arcade.Idle}
	encounters := arcade.NewFixedStepRunner(fps)
	encounters.Input = input

	spawner := arcade.FixedSpawner{
		ObstacleLane: suite.Lanes.Obstacle,
		PickupLane:   suite.Lanes.Pickup,
		RivalLane:    suite.Lanes.Rival,
		Rival:        suite.Lanes.ShowRival,
	}
	logger := r.EngineLogger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	eng := engine.New(scen, encounters, logger, engine.WithSpawner(spawner))

	run := &suiteRun{
		input: input,
		seed:  suite.Seed,
		slot:  "integration-" + uuid.NewString(),
	}
	run.session = engine.NewSession(eng, r.Store, run.slot, suite.Locale)

	if len(suite.Seed) > 0 {
		if err := r.seed(ctx, run); err != nil {
			return nil, fmt.Errorf("failed to seed game state: %w", err)
		}
	}
	return run, nil
}

func loadStory(path string) (*scenario.Scenario, error) {
	if path == "" {
		return scenario.Default()
	}
	return scenario.LoadFile(path)
}

// seed writes the seed document through the store and loads it back, so
// the seed goes through the same path as a saved game.
func (r *Runner) seed(ctx context.Context, run *suiteRun) error {
	gs, err := state.FromDocument(run.seed)
	if err != nil {
		return err
	}
	if err := r.Store.SaveGameState(ctx, run.slot, gs); err != nil {
		return err
	}
	return run.session.Load(ctx)
}

// executeStep performs one player action and checks its expectations
func (r *Runner) executeStep(ctx context.Context, run *suiteRun, step TestStep) TestResult {
	start := time.Now()
	result := TestResult{
		StepName: step.Name,
	}

	src, err := inputFor(step.Input)
	if err != nil {
		result.Error = err
		result.Duration = time.Since(start)
		return result
	}
	run.input.current = src

	action := step.Action
	if action == "" && step.Choice > 0 {
		action = ActionChoose
	}

	var actionErr error
	switch action {
	case ActionChoose:
		actionErr = run.session.Choose(ctx, step.Choice)
	case ActionSave:
		actionErr = run.session.Save(ctx)
	case ActionLoad:
		actionErr = run.session.Load(ctx)
	case ActionAcknowledge:
		run.session.Acknowledge()
	case ActionReset:
		result.IsReset = true
		if len(run.seed) > 0 {
			actionErr = r.seed(ctx, run)
		} else {
			run.session.Reset()
		}
	default:
		result.Error = fmt.Errorf("unknown action %q", action)
		result.Duration = time.Since(start)
		return result
	}

	if err := checkActionError(step.Expectations.ErrorContains, actionErr); err != nil {
		result.Error = err
		result.Duration = time.Since(start)
		return result
	}

	result.Scene = run.session.State().Scene
	if err := r.checkExpectations(step.Expectations, run.session); err != nil {
		result.Error = fmt.Errorf("expectation failed: %w", err)
		result.Duration = time.Since(start)
		return result
	}

	result.Success = true
	result.Duration = time.Since(start)
	return result
}

func checkActionError(want string, err error) error {
	if want == "" {
		if err != nil {
			return fmt.Errorf("action failed: %w", err)
		}
		return nil
	}
	if err == nil {
		return fmt.Errorf("expected an error containing '%s', but the action succeeded", want)
	}
	if !strings.Contains(strings.ToLower(err.Error()), strings.ToLower(want)) {
		return fmt.Errorf("expected error to contain '%s', got: %v", want, err)
	}
	return nil
}

// checkExpectations validates the expectations against the session after a step
func (r *Runner) checkExpectations(exp Expectations, s *engine.Session) error {
	gs := s.State()

	if exp.Scene != nil {
		if gs.Scene != *exp.Scene {
			return fmt.Errorf("expected scene %s, got %s", *exp.Scene, gs.Scene)
		}
	}

	if exp.IsEnded != nil {
		if s.Ended() != *exp.IsEnded {
			return fmt.Errorf("expected is_ended to be %t, got %t", *exp.IsEnded, s.Ended())
		}
	}

	if len(exp.State) > 0 {
		doc := gs.Document()
		for key, expectedValue := range exp.State {
			actualValue, exists := doc[key]
			if !exists {
				return fmt.Errorf("expected state key %s to exist, but it doesn't", key)
			}
			if fmt.Sprint(actualValue) != fmt.Sprint(expectedValue) {
				return fmt.Errorf("expected %s to be %v, got %v", key, expectedValue, actualValue)
			}
		}
	}

	if len(exp.ViewContains) > 0 || len(exp.ViewNotContains) > 0 {
		v, err := s.View()
		if err != nil {
			return err
		}
		text := strings.ToLower(strings.Join(append([]string{v.Title, v.Body}, v.Choices...), "\n"))
		for _, expectedText := range exp.ViewContains {
			if !strings.Contains(text, strings.ToLower(expectedText)) {
				return fmt.Errorf("expected scene to contain '%s', but it didn't", expectedText)
			}
		}
		for _, unexpectedText := range exp.ViewNotContains {
			if strings.Contains(text, strings.ToLower(unexpectedText)) {
				return fmt.Errorf("expected scene to NOT contain '%s', but it did", unexpectedText)
			}
		}
	}

	if exp.StatusLine != "" {
		if line := s.StatusLine(); line != exp.StatusLine {
			return fmt.Errorf("expected status line %q, got %q", exp.StatusLine, line)
		}
	}

	return nil
}

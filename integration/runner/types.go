package runner

import (
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/black-moon/pkg/state"
)

// Step actions. A step with no action picks its choice.
const (
	ActionChoose = "choose"
	ActionSave   = "save"
	ActionLoad   = "load"
	// ActionReset restores the suite's seed state.
	ActionReset = "reset"
	// ActionAcknowledge dismisses an ending and starts a new run.
	ActionAcknowledge = "acknowledge"
)

// Encounter inputs a step can hold for the whole of any encounter it starts.
const (
	InputIdle   = "idle"
	InputLeft   = "left"
	InputRight  = "right"
	InputCancel = "cancel"
)

// TestSuite defines a complete playthrough test.
// Can either be a regular test with Steps, or a suite that references other Cases
type TestSuite struct {
	Name   string         `yaml:"name"`
	Story  string         `yaml:"story,omitempty"`  // story file; empty means the built-in story
	Locale string         `yaml:"locale,omitempty"` // defaults to the story's default locale
	Seed   state.Document `yaml:"seed,omitempty"`   // starting state; empty means a new game
	Lanes  SpawnLanes     `yaml:"lanes,omitempty"`  // where encounter entities appear
	Steps  []TestStep     `yaml:"steps,omitempty"`
	Cases  []string       `yaml:"cases,omitempty"` // Used for suite tests (list of case files)
}

// IsSequence returns true if this is a suite that sequences other cases
func (ts *TestSuite) IsSequence() bool {
	return len(ts.Cases) > 0
}

// SpawnLanes fixes the lane of every spawned entity so encounters are
// reproducible.
type SpawnLanes struct {
	Obstacle  int  `yaml:"obstacle"`
	Pickup    int  `yaml:"pickup"`
	Rival     int  `yaml:"rival"`
	ShowRival bool `yaml:"show_rival"`
}

// TestStep defines a single player action and its expected outcome.
type TestStep struct {
	Name         string       `yaml:"name,omitempty"`
	Action       string       `yaml:"action,omitempty"`
	Choice       int          `yaml:"choice,omitempty"`
	Input        string       `yaml:"input,omitempty"`
	Expectations Expectations `yaml:"expect"`
}

// Expectations defines what to check after a test step executes
type Expectations struct {
	Scene   *string        `yaml:"scene,omitempty"`
	IsEnded *bool          `yaml:"is_ended,omitempty"`
	State   map[string]any `yaml:"state,omitempty"` // document keys, e.g. health: 2

	// Rendered scene
	ViewContains    []string `yaml:"view_contains,omitempty"`
	ViewNotContains []string `yaml:"view_not_contains,omitempty"`
	StatusLine      string   `yaml:"status_line,omitempty"`

	// Error of the action itself
	ErrorContains string `yaml:"error_contains,omitempty"`
}

// TestResult contains the outcome of running a test step
type TestResult struct {
	TestName string
	StepName string
	Success  bool
	Error    error
	Duration time.Duration
	Scene    string
	IsReset  bool // True if this was a reset step (should not count toward pass/fail metrics)
}

// TestJob represents a test suite to be executed
type TestJob struct {
	Name     string
	Suite    TestSuite
	CaseFile string
}

// TestRunResult contains the results of running an entire test suite
type TestRunResult struct {
	Job      TestJob
	Results  []TestResult
	Error    error
	Duration time.Duration
	RunID    uuid.UUID // run id of the last state the suite played

	// Game state before the first step and after the last one
	StartState state.Document
	FinalState state.Document
}

// FinalScene is the scene the suite ended in, or "" if it never started.
func (r TestRunResult) FinalScene() string {
	scene, _ := r.FinalState[state.KeyScene].(string)
	return scene
}

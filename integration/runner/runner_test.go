package runner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/black-moon/pkg/state"
	"github.com/jwebster45206/black-moon/pkg/storage"
)

const casesDir = "../cases"

func ptr[T any](v T) *T { return &v }

func TestLoadTestSuiteWithExpansion(t *testing.T) {
	jobs, err := LoadTestSuiteWithExpansion(filepath.Join(casesDir, "all_endings.yaml"), casesDir)
	require.NoError(t, err)

	var names []string
	for _, job := range jobs {
		names = append(names, job.Name)
	}
	assert.Equal(t, []string{"Coward ending", "Virtuous ending", "Collection defeat", "Time runs out"}, names)
	assert.Equal(t, filepath.Join(casesDir, "coward_ending.yaml"), jobs[0].CaseFile)
}

func TestLoadTestSuite_Errors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("steps: [unclosed"), 0o644))
	seq := filepath.Join(dir, "seq.yaml")
	require.NoError(t, os.WriteFile(seq, []byte("name: seq\ncases: [missing.yaml]\n"), 0o644))

	_, err := LoadTestSuite(filepath.Join(dir, "nope.yaml"))
	assert.ErrorContains(t, err, "failed to read test file")

	_, err = LoadTestSuite(bad)
	assert.ErrorContains(t, err, "failed to parse YAML")

	_, err = LoadTestSuiteWithExpansion(seq, dir)
	assert.ErrorContains(t, err, "referenced by sequence 'seq'")
}

// TestCases plays every case file against in-memory storage.
func TestCases(t *testing.T) {
	files, err := filepath.Glob(filepath.Join(casesDir, "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, file := range files {
		jobs, err := LoadTestSuiteWithExpansion(file, casesDir)
		require.NoError(t, err)

		for _, job := range jobs {
			t.Run(filepath.Base(file)+"/"+job.Name, func(t *testing.T) {
				store := storage.NewMockStorage()
				r := NewRunner(store)
				r.Logger = t.Logf

				result, err := r.RunSuite(context.Background(), job.Suite)
				if err != nil {
					t.Fatalf("Expected suite to pass, got %v", err)
				}
				assert.Len(t, result.Results, len(job.Suite.Steps))

				slots, err := store.ListSlots(context.Background())
				require.NoError(t, err)
				assert.Empty(t, slots, "suite slot should be removed")
			})
		}
	}
}

func TestRunSuite_FailedExpectation(t *testing.T) {
	suite := TestSuite{
		Name: "wrong scene",
		Steps: []TestStep{
			{Name: "first", Choice: 1, Expectations: Expectations{Scene: ptr("S3")}},
			{Name: "second", Choice: 1, Expectations: Expectations{Scene: ptr("S3")}},
		},
	}

	tests := []struct {
		name      string
		mode      ErrorHandlingMode
		wantSteps int
	}{
		{name: "continue", mode: ErrorHandlingContinue, wantSteps: 2},
		{name: "exit", mode: ErrorHandlingExit, wantSteps: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRunner(storage.NewMockStorage())
			r.ErrorHandlingMode = tt.mode

			result, err := r.RunSuite(context.Background(), suite)
			require.Error(t, err)
			assert.ErrorContains(t, err, "expected scene S3, got S2")
			assert.Len(t, result.Results, tt.wantSteps)
			assert.False(t, result.Results[0].Success)
			assert.Equal(t, "S2", result.Results[0].Scene)
		})
	}
}

func TestRunSuite_BadInput(t *testing.T) {
	tests := []struct {
		name    string
		suite   TestSuite
		wantErr string
	}{
		{
			name:    "unknown action",
			suite:   TestSuite{Steps: []TestStep{{Name: "jump", Action: "jump"}}},
			wantErr: `unknown action "jump"`,
		},
		{
			name:    "unknown input",
			suite:   TestSuite{Steps: []TestStep{{Name: "dance", Choice: 1, Input: "dance"}}},
			wantErr: `unknown input "dance"`,
		},
		{
			name:    "unknown state key",
			suite:   TestSuite{Steps: []TestStep{{Name: "s", Choice: 1, Expectations: Expectations{State: map[string]any{"gold": 1}}}}},
			wantErr: "expected state key gold to exist",
		},
		{
			name:    "expected error never came",
			suite:   TestSuite{Steps: []TestStep{{Name: "s", Action: ActionSave, Expectations: Expectations{ErrorContains: "boom"}}}},
			wantErr: "but the action succeeded",
		},
		{
			name:    "bad seed",
			suite:   TestSuite{Seed: state.Document{"scene": "S4", "gold": 1}},
			wantErr: "failed to seed game state",
		},
		{
			name:    "missing story",
			suite:   TestSuite{Story: "no_such_story.yaml"},
			wantErr: "no_such_story.yaml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRunner(storage.NewMockStorage())
			_, err := r.RunSuite(context.Background(), tt.suite)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestRunSuite_SaveFailure(t *testing.T) {
	store := storage.NewMockStorage()
	store.SetSaveError(assert.AnError)
	r := NewRunner(store)

	suite := TestSuite{
		Name: "save fails",
		Steps: []TestStep{
			{Name: "save", Action: ActionSave, Expectations: Expectations{ErrorContains: "persistence failure", Scene: ptr("S1")}},
		},
	}
	_, err := r.RunSuite(context.Background(), suite)
	assert.NoError(t, err)
}

func TestRunSuite_StoryOverride(t *testing.T) {
	r := NewRunner(storage.NewMockStorage())
	r.StoryOverride = filepath.Join(t.TempDir(), "missing.yaml")

	_, err := r.RunSuite(context.Background(), TestSuite{Name: "override"})
	assert.ErrorContains(t, err, "missing.yaml")
}

func TestDocumentDiff(t *testing.T) {
	from := state.Document{"run_id": "a", "scene": "S1", "health": 3, "allies": nil, "has_disk": true}
	to := state.Document{"run_id": "b", "scene": "E_DEAD", "health": 0, "allies": true, "has_disk": true}

	want := []string{"allies: <nil> -> true", "health: 3 -> 0", "scene: S1 -> E_DEAD"}
	assert.Equal(t, want, DocumentDiff(from, to))
	assert.Empty(t, DocumentDiff(from, from))
}

func TestReport(t *testing.T) {
	r := NewRunner(storage.NewMockStorage())
	report := &Report{Backend: "memory"}

	suites := []TestSuite{
		{Name: "Backs out", Steps: []TestStep{{Name: "back out", Choice: 2, Expectations: Expectations{Scene: ptr("E_COWARD")}}}},
		{Name: "Wrong turn", Steps: []TestStep{{Name: "accept", Choice: 1, Expectations: Expectations{Scene: ptr("S9")}}}},
	}
	for _, suite := range suites {
		result, _ := r.RunSuite(context.Background(), suite)
		result.Job.CaseFile = suite.Name + ".yaml"
		report.Add(result)
	}

	require.Len(t, report.Failed(), 1)
	assert.Equal(t, "Wrong turn", report.Failed()[0].Job.Name)
	assert.Equal(t, "E_COWARD", report.Suites[0].FinalScene())

	out := report.String()
	assert.Contains(t, out, "Playthroughs against memory storage")
	assert.Contains(t, out, "PASS  Backs out")
	assert.Contains(t, out, "FAIL  Wrong turn")
	assert.Contains(t, out, "scene: S1 -> E_COWARD")
	assert.Contains(t, out, "1/1 steps")
	assert.Contains(t, out, "step 1 accept (in S2): expectation failed: expected scene S9, got S2")
	assert.Contains(t, out, "Passed: 1, failed: 1")
	assert.NotContains(t, out, "run_id")
}

func TestReport_SuiteThatNeverStarted(t *testing.T) {
	r := NewRunner(storage.NewMockStorage())
	result, err := r.RunSuite(context.Background(), TestSuite{Name: "No story", Story: "no_such_story.yaml"})
	require.Error(t, err)

	report := &Report{Backend: "sqlite"}
	report.Add(result)

	assert.Equal(t, "", result.FinalScene())
	assert.Contains(t, report.String(), "✗ ")
	assert.Contains(t, report.String(), "no_such_story.yaml")
	assert.Contains(t, report.String(), "Passed: 0, failed: 1")
}

package runner

import (
	"fmt"
	"slices"
	"strings"

	"github.com/jwebster45206/black-moon/pkg/state"
)

// Report gathers suite results from one harness run against one storage
// backend.
type Report struct {
	Backend string
	Suites  []TestRunResult
}

func (r *Report) Add(result TestRunResult) {
	r.Suites = append(r.Suites, result)
}

// Failed returns the suites that did not pass.
func (r *Report) Failed() []TestRunResult {
	var out []TestRunResult
	for _, s := range r.Suites {
		if s.Error != nil {
			out = append(out, s)
		}
	}
	return out
}

// String renders one line per suite with its final scene and state
// changes, followed by the failing steps.
func (r *Report) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Playthroughs against %s storage\n", r.Backend)

	width := 0
	for _, s := range r.Suites {
		width = max(width, len(s.Job.Name))
	}
	for _, s := range r.Suites {
		status := "PASS"
		if s.Error != nil {
			status = "FAIL"
		}
		fmt.Fprintf(&sb, "  %s  %-*s  %-8s %d/%d steps  %v\n",
			status, width, s.Job.Name, s.FinalScene(), passedSteps(s), len(s.Job.Suite.Steps), s.Duration)
		if diff := DocumentDiff(s.StartState, s.FinalState); len(diff) > 0 {
			fmt.Fprintf(&sb, "        %s\n", strings.Join(diff, ", "))
		}
	}

	failed := r.Failed()
	for _, s := range failed {
		fmt.Fprintf(&sb, "\n%s (%s):\n", s.Job.Name, s.Job.CaseFile)
		if len(s.Results) == 0 {
			fmt.Fprintf(&sb, "  ✗ %v\n", s.Error)
			continue
		}
		for i, step := range s.Results {
			if step.Error != nil {
				fmt.Fprintf(&sb, "  ✗ step %d %s (in %s): %v\n", i+1, step.StepName, step.Scene, step.Error)
			}
		}
	}

	fmt.Fprintf(&sb, "\nPassed: %d, failed: %d\n", len(r.Suites)-len(failed), len(failed))
	return sb.String()
}

func passedSteps(s TestRunResult) int {
	n := 0
	for _, step := range s.Results {
		if step.Success {
			n++
		}
	}
	return n
}

// DocumentDiff lists the keys whose values differ between two state
// documents, as "key: old -> new", sorted by key. The run id is ignored.
func DocumentDiff(from, to state.Document) []string {
	keys := make(map[string]bool, len(to))
	for k := range from {
		keys[k] = true
	}
	for k := range to {
		keys[k] = true
	}
	delete(keys, state.KeyRunID)

	var out []string
	for k := range keys {
		before, after := fmt.Sprint(from[k]), fmt.Sprint(to[k])
		if before != after {
			out = append(out, fmt.Sprintf("%s: %s -> %s", k, before, after))
		}
	}
	slices.Sort(out)
	return out
}

package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/jwebster45206/black-moon/pkg/scenario"
	"github.com/jwebster45206/black-moon/pkg/state"
)

func main() {
	files := os.Args[1:]
	failed := false

	if len(files) == 0 {
		fmt.Printf("Validating built-in story %s...\n", scenario.DefaultFile)
		if err := validateSource(scenario.DefaultFile, bytes.NewReader(scenario.DefaultSource()), os.Stdout); err != nil {
			failed = true
		}
	}
	for _, f := range files {
		fmt.Printf("Validating %s...\n", f)
		if err := validateFile(f, os.Stdout); err != nil {
			failed = true
		}
	}

	if failed {
		os.Exit(1)
	}
}

var validFilenameRegex = regexp.MustCompile(`^[a-z][a-z0-9_]*[a-z0-9]$|^[a-z]$`)

// validateFile checks the file name and contents of one story file,
// reporting every problem to w.
func validateFile(path string, w io.Writer) error {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	if ext != ".yaml" && ext != ".yml" {
		return report(w, fmt.Errorf("story file must have a .yaml or .yml extension: %s", base))
	}
	if !isValidStoryFilename(strings.TrimSuffix(base, ext)) {
		return report(w, fmt.Errorf("story filename '%s' must be lowercase snake_case (e.g., my_story.yaml)", base))
	}

	f, err := os.Open(path)
	if err != nil {
		return report(w, fmt.Errorf("failed to read file %s: %w", path, err))
	}
	defer func() {
		_ = f.Close()
	}()
	return validateSource(base, f, w)
}

func validateSource(name string, r io.Reader, w io.Writer) error {
	s, err := scenario.Load(r)
	if err != nil {
		return report(w, err)
	}

	for _, id := range unreachable(s) {
		fmt.Fprintf(w, "  warning: scene %s is never reached from %s\n", id, s.Start)
	}
	fmt.Fprintf(w, "%s is valid: %d scenes, locales %s\n", name, len(s.SceneIDs()), strings.Join(s.Locales(), ", "))
	return nil
}

// report prints each joined error on its own line.
func report(w io.Writer, err error) error {
	lines := flatten(err)
	fmt.Fprintf(w, "Validation failed with %d error(s):\n", len(lines))
	for _, line := range lines {
		fmt.Fprintf(w, "  - %s\n", line)
	}
	return err
}

func flatten(err error) []string {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []string
		for _, e := range joined.Unwrap() {
			out = append(out, flatten(e)...)
		}
		return out
	}
	return []string{err.Error()}
}

// unreachable lists story scenes that no path from the start scene visits.
// Endings only reached by the safety check or an encounter are not
// reported.
func unreachable(s *scenario.Scenario) []string {
	seen := map[string]bool{s.Start: true}
	queue := []string{s.Start}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		scene, err := s.Lookup(id)
		if err != nil {
			continue
		}
		for _, c := range scene.Choices {
			next := []string{c.Goto}
			if c.IsEncounter() {
				next = []string{state.DefaultReturn(c.Goto), state.EndingDefeated}
				if ret, ok := state.ReturnTarget(c.Effects); ok {
					next[0] = ret
				}
			}
			for _, n := range next {
				if !seen[n] {
					seen[n] = true
					queue = append(queue, n)
				}
			}
		}
	}

	var out []string
	for _, id := range s.SceneIDs() {
		if !seen[id] && !state.IsEnding(id) {
			out = append(out, id)
		}
	}
	slices.Sort(out)
	return out
}

func isValidStoryFilename(name string) bool {
	// Allow 'x.' prefix for experimental stories
	name = strings.TrimPrefix(name, "x.")
	return validFilenameRegex.MatchString(name)
}

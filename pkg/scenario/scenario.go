package scenario

import (
	"errors"
	"fmt"
	"sort"
)

// ErrUnknownScene is returned when a scene id does not name a graph node.
var ErrUnknownScene = errors.New("unknown scene")

// UnknownSceneError carries the offending id and, where one is close
// enough, the id the author probably meant.
type UnknownSceneError struct {
	ID         string
	Suggestion string
}

func (e *UnknownSceneError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("unknown scene %q (did you mean %q?)", e.ID, e.Suggestion)
	}
	return fmt.Sprintf("unknown scene %q", e.ID)
}

func (e *UnknownSceneError) Unwrap() error {
	return ErrUnknownScene
}

// Scenario is the static story graph. It is built once by Load and is
// read-only afterwards.
type Scenario struct {
	Name          Localized
	FileName      string
	Start         string
	DefaultLocale string
	ui            map[string]Localized
	scenes        map[string]Scene
}

// Lookup returns the scene with the given id.
// Encounter sentinels are not scenes and fail like any other unknown id.
func (s *Scenario) Lookup(id string) (Scene, error) {
	scene, ok := s.scenes[id]
	if !ok {
		return Scene{}, &UnknownSceneError{ID: id, Suggestion: suggest(id, s.SceneIDs())}
	}
	return scene, nil
}

// Has reports whether id names a scene in the graph.
func (s *Scenario) Has(id string) bool {
	_, ok := s.scenes[id]
	return ok
}

// SceneIDs returns every scene id in sorted order.
func (s *Scenario) SceneIDs() []string {
	ids := make([]string, 0, len(s.scenes))
	for id := range s.scenes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Locales returns the locale tokens used by the scenario title,
// default first.
func (s *Scenario) Locales() []string {
	out := []string{s.DefaultLocale}
	extra := make([]string, 0, len(s.Name))
	for loc := range s.Name {
		if loc != s.DefaultLocale {
			extra = append(extra, loc)
		}
	}
	sort.Strings(extra)
	return append(out, extra...)
}

// Text returns the interface string for key in locale. Unknown keys come
// back unchanged so a missing translation is visible but harmless.
func (s *Scenario) Text(key, locale string) string {
	l, ok := s.ui[key]
	if !ok {
		return key
	}
	return l.In(locale, s.DefaultLocale)
}

package scenario

import (
	"github.com/jwebster45206/black-moon/pkg/state"
)

// Localized holds one piece of content per locale token (e.g. "en", "sv").
type Localized map[string]string

// In returns the text for locale, falling back to fallback and then to
// any available translation.
func (l Localized) In(locale, fallback string) string {
	if s, ok := l[locale]; ok {
		return s
	}
	if s, ok := l[fallback]; ok {
		return s
	}
	for _, s := range l {
		return s
	}
	return ""
}

// Scene is an immutable node of the story graph.
// Ending scenes have no choices.
type Scene struct {
	ID      string
	Title   Localized
	Body    Localized
	Image   string // asset name, resolved by the presentation layer
	Choices []Choice
}

// Choice is a labeled edge to a destination scene, ending or encounter.
type Choice struct {
	Label   Localized
	Goto    string
	Effects []state.Effect
}

// IsEnding reports whether the scene is terminal.
func (s Scene) IsEnding() bool {
	return len(s.Choices) == 0
}

// Choice returns the choice at a zero-based index.
func (s Scene) Choice(idx int) (Choice, bool) {
	if idx < 0 || idx >= len(s.Choices) {
		return Choice{}, false
	}
	return s.Choices[idx], true
}

// IsEncounter reports whether the choice leads into an arcade encounter.
func (c Choice) IsEncounter() bool {
	return state.IsEncounter(c.Goto)
}

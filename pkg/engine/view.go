package engine

import (
	"fmt"
	"strings"

	"github.com/jwebster45206/black-moon/pkg/state"
)

// SceneView is render-ready content for the current scene in one locale.
type SceneView struct {
	ID       string
	Title    string
	Body     string
	Image    string
	Choices  []string
	Status   Status
	IsEnding bool
}

// Status is the protagonist summary shown under every scene.
type Status struct {
	Health    int
	DaysLeft  int
	Suspicion int
	Allies    bool
}

// View renders the scene gs is in. Titles, bodies and labels fall back to
// the scenario's default locale when locale has no translation.
func (e *Engine) View(gs *state.GameState, locale string) (SceneView, error) {
	scene, err := e.scenario.Lookup(gs.Scene)
	if err != nil {
		return SceneView{}, fmt.Errorf("failed to render scene: %w", err)
	}
	def := e.scenario.DefaultLocale

	v := SceneView{
		ID:       scene.ID,
		Title:    scene.Title.In(locale, def),
		Body:     scene.Body.In(locale, def),
		Image:    scene.Image,
		Choices:  make([]string, len(scene.Choices)),
		IsEnding: scene.IsEnding(),
		Status: Status{
			Health:    gs.Health,
			DaysLeft:  gs.DaysLeft,
			Suspicion: gs.Suspicion,
			Allies:    gs.WindomAllies,
		},
	}
	for i, c := range scene.Choices {
		v.Choices[i] = c.Label.In(locale, def)
	}
	return v, nil
}

// NumberedChoices returns the choice labels prefixed with their key,
// "1. ..." through "9. ...".
func (v SceneView) NumberedChoices() []string {
	out := make([]string, len(v.Choices))
	for i, c := range v.Choices {
		out[i] = fmt.Sprintf("%d. %s", i+1, c)
	}
	return out
}

// StatusLine renders the status bar in locale.
func (e *Engine) StatusLine(s Status, locale string) string {
	t := func(key string) string { return e.scenario.Text(key, locale) }
	allies := t("no")
	if s.Allies {
		allies = t("yes")
	}
	parts := []string{
		fmt.Sprintf("%s: %d", t("status_health"), s.Health),
		fmt.Sprintf("%s: %d", t("status_days"), s.DaysLeft),
		fmt.Sprintf("%s: %d", t("status_susp"), s.Suspicion),
		fmt.Sprintf("%s: %s", t("status_allies"), allies),
	}
	return strings.Join(parts, "   ")
}

package scenario

import (
	"errors"
	"fmt"

	"github.com/jwebster45206/black-moon/pkg/state"
)

// MaxChoices is the most choices a scene may offer; input is "choice 1..9".
const MaxChoices = 9

// Validate checks graph integrity: every destination resolves to a scene,
// an ending or an encounter sentinel, endings are terminal, and all
// content exists in the default locale. It runs once at load time so the
// stepper never meets an unknown destination.
func (s *Scenario) Validate() error {
	var errs []error
	ids := s.SceneIDs()

	if s.Start == "" {
		errs = append(errs, errors.New("start scene is not set"))
	} else if !s.Has(s.Start) {
		errs = append(errs, fmt.Errorf("start: %w", &UnknownSceneError{ID: s.Start, Suggestion: suggest(s.Start, ids)}))
	}
	if s.Name[s.DefaultLocale] == "" {
		errs = append(errs, fmt.Errorf("name: missing %q text", s.DefaultLocale))
	}

	for _, ending := range state.Endings() {
		scene, ok := s.scenes[ending]
		if !ok {
			errs = append(errs, fmt.Errorf("ending %s is not defined", ending))
			continue
		}
		if len(scene.Choices) > 0 {
			errs = append(errs, fmt.Errorf("ending %s must not have choices", ending))
		}
	}

	for _, encounter := range []string{state.EncounterPursuit, state.EncounterCollection} {
		if s.Has(encounter) {
			errs = append(errs, fmt.Errorf("scene id %s is reserved for an encounter", encounter))
		}
	}

	for _, id := range ids {
		errs = append(errs, s.validateScene(s.scenes[id], ids)...)
	}

	return errors.Join(errs...)
}

func (s *Scenario) validateScene(scene Scene, ids []string) []error {
	var errs []error
	loc := s.DefaultLocale

	if scene.Title[loc] == "" {
		errs = append(errs, fmt.Errorf("scene %s: missing %q title", scene.ID, loc))
	}
	if scene.Body[loc] == "" {
		errs = append(errs, fmt.Errorf("scene %s: missing %q text", scene.ID, loc))
	}
	if len(scene.Choices) == 0 && !state.IsEnding(scene.ID) {
		errs = append(errs, fmt.Errorf("scene %s: has no choices but is not an ending", scene.ID))
	}
	if len(scene.Choices) > MaxChoices {
		errs = append(errs, fmt.Errorf("scene %s: %d choices, at most %d allowed", scene.ID, len(scene.Choices), MaxChoices))
	}

	for i, c := range scene.Choices {
		where := fmt.Sprintf("scene %s option %d", scene.ID, i+1)
		if c.Label[loc] == "" {
			errs = append(errs, fmt.Errorf("%s: missing %q label", where, loc))
		}

		switch {
		case c.Goto == "":
			errs = append(errs, fmt.Errorf("%s: goto is not set", where))
		case state.IsEncounter(c.Goto):
			ret, explicit := state.ReturnTarget(c.Effects)
			if !explicit {
				ret = state.DefaultReturn(c.Goto)
			}
			if !s.Has(ret) {
				errs = append(errs, fmt.Errorf("%s: encounter return: %w", where, &UnknownSceneError{ID: ret, Suggestion: suggest(ret, ids)}))
			}
		case !s.Has(c.Goto):
			errs = append(errs, fmt.Errorf("%s: %w", where, &UnknownSceneError{ID: c.Goto, Suggestion: suggest(c.Goto, ids)}))
		}

		for _, e := range c.Effects {
			set, ok := e.(state.SetField)
			if !ok || set.Field != state.FieldReturnScene || set.Value.IsNullScene() {
				continue
			}
			if !s.Has(set.Value.SceneID()) {
				errs = append(errs, fmt.Errorf("%s: %s: %w", where, set, &UnknownSceneError{ID: set.Value.SceneID(), Suggestion: suggest(set.Value.SceneID(), ids)}))
			}
		}
	}
	return errs
}

package state

import (
	"fmt"
)

// Effect is an atomic mutation attached to a story choice.
// The set of effects is closed: SetField and IncrementField.
type Effect interface {
	Target() Field
	apply(gs *GameState)
	fmt.Stringer
}

// SetField overwrites a field unconditionally.
type SetField struct {
	Field Field
	Value Value
}

func (e SetField) Target() Field { return e.Field }
func (e SetField) apply(gs *GameState) { gs.set(e.Field, e.Value) }
func (e SetField) String() string { return fmt.Sprintf("set(%s, %s)", e.Field, e.Value) }

// IncrementField adds Delta to an integer field.
type IncrementField struct {
	Field Field
	Delta int
}

func (e IncrementField) Target() Field { return e.Field }
func (e IncrementField) apply(gs *GameState) { gs.add(e.Field, e.Delta) }
func (e IncrementField) String() string { return fmt.Sprintf("increment(%s, %+d)", e.Field, e.Delta) }

// Override describes a forced ending produced by Enforce.
type Override struct {
	From   string
	To     string
	Reason string
}

// Apply runs effects in order and then the override check.
// It is the only path through which story choices alter state.
func (gs *GameState) Apply(effects ...Effect) *Override {
	for _, e := range effects {
		e.apply(gs)
	}
	return gs.Enforce()
}

// Enforce forces a terminal scene when health or days have run out.
// Defeat wins over time expiry, and time expiry never replaces an ending
// that is already set. A forced ending clears return_scene. Returns nil
// when the scene was left alone.
func (gs *GameState) Enforce() *Override {
	from := gs.Scene
	var ov *Override
	switch {
	case gs.Health <= 0:
		if gs.Scene == EndingDefeated {
			return nil
		}
		ov = &Override{From: from, To: EndingDefeated, Reason: "health depleted"}
	case gs.DaysLeft <= 0 && !IsEnding(gs.Scene):
		ov = &Override{From: from, To: EndingTime, Reason: "out of days"}
	default:
		return nil
	}
	gs.Scene = ov.To
	gs.ReturnScene = ""
	return ov
}

// ReturnTarget looks for an explicit return_scene assignment among effects.
func ReturnTarget(effects []Effect) (string, bool) {
	found := ""
	ok := false
	for _, e := range effects {
		if s, isSet := e.(SetField); isSet && s.Field == FieldReturnScene {
			found, ok = s.Value.SceneID(), !s.Value.IsNullScene()
		}
	}
	return found, ok
}

package state

import (
	"fmt"

	"github.com/google/uuid"
)

const (
	StartingHealth = 3
	StartingDays   = 3
)

// GameState is the protagonist record for one playthrough.
// A single *GameState is threaded through the stepper, the effect engine
// and any running encounter; nothing else holds mutable game data.
type GameState struct {
	RunID          uuid.UUID
	Scene          string
	Health         int
	DaysLeft       int
	Suspicion      int
	TrustNina      TriState
	WindomAllies   bool
	DiskHidden     bool
	HasDisk        bool
	Solo           bool
	KilledHenchmen int
	ReturnScene    string // empty means no pending encounter return
}

// NewGameState returns a fresh record positioned at the given start scene.
func NewGameState(start string) *GameState {
	return &GameState{
		RunID:    uuid.New(),
		Scene:    start,
		Health:   StartingHealth,
		DaysLeft: StartingDays,
		HasDisk:  true,
	}
}

// Clone returns an independent copy.
func (gs *GameState) Clone() *GameState {
	if gs == nil {
		return nil
	}
	c := *gs
	return &c
}

// Get reads a field as a typed Value.
func (gs *GameState) Get(f Field) Value {
	switch f {
	case FieldHealth:
		return Int(gs.Health)
	case FieldDaysLeft:
		return Int(gs.DaysLeft)
	case FieldSuspicion:
		return Int(gs.Suspicion)
	case FieldKilledHenchmen:
		return Int(gs.KilledHenchmen)
	case FieldTrustNina:
		return Tri(gs.TrustNina)
	case FieldWindomAllies:
		return Bool(gs.WindomAllies)
	case FieldDiskHidden:
		return Bool(gs.DiskHidden)
	case FieldHasDisk:
		return Bool(gs.HasDisk)
	case FieldSolo:
		return Bool(gs.Solo)
	case FieldReturnScene:
		return SceneRef(gs.ReturnScene)
	}
	return Value{}
}

// intField returns a pointer to the integer behind f, or nil.
func (gs *GameState) intField(f Field) *int {
	switch f {
	case FieldHealth:
		return &gs.Health
	case FieldDaysLeft:
		return &gs.DaysLeft
	case FieldSuspicion:
		return &gs.Suspicion
	case FieldKilledHenchmen:
		return &gs.KilledHenchmen
	}
	return nil
}

func (gs *GameState) boolField(f Field) *bool {
	switch f {
	case FieldWindomAllies:
		return &gs.WindomAllies
	case FieldDiskHidden:
		return &gs.DiskHidden
	case FieldHasDisk:
		return &gs.HasDisk
	case FieldSolo:
		return &gs.Solo
	}
	return nil
}

// set overwrites f with v. Kinds are checked when stories load, so a
// mismatch here is a programming error.
func (gs *GameState) set(f Field, v Value) {
	if v.Kind() != f.Kind() {
		panic(fmt.Sprintf("state: %s value for %s field %s", v.Kind(), f.Kind(), f))
	}
	switch f.Kind() {
	case KindInt:
		*gs.intField(f) = max(v.Int(), 0)
	case KindBool:
		*gs.boolField(f) = v.Bool()
	case KindTri:
		gs.TrustNina = v.Tri()
	case KindScene:
		gs.ReturnScene = v.SceneID()
	}
}

// add increments an integer field, clamping at zero.
func (gs *GameState) add(f Field, delta int) {
	p := gs.intField(f)
	if p == nil {
		panic(fmt.Sprintf("state: increment on %s field %s", f.Kind(), f))
	}
	*p = max(*p+delta, 0)
}

// Damage removes one point of health. Used by arcade failures.
func (gs *GameState) Damage() {
	gs.add(FieldHealth, -1)
}

// IsEnded reports whether the current scene is terminal.
func (gs *GameState) IsEnded() bool {
	return IsEnding(gs.Scene)
}

// InEncounter reports whether an arcade encounter currently owns the state.
func (gs *GameState) InEncounter() bool {
	return IsEncounter(gs.Scene)
}

package state

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// TriState is a flag that may not have been decided yet.
type TriState int8

const (
	TriUnknown TriState = iota
	TriTrue
	TriFalse
)

// TriOf converts a plain bool to a decided TriState.
func TriOf(b bool) TriState {
	if b {
		return TriTrue
	}
	return TriFalse
}

func (t TriState) String() string {
	switch t {
	case TriTrue:
		return "true"
	case TriFalse:
		return "false"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes an undecided flag as null.
func (t TriState) MarshalJSON() ([]byte, error) {
	switch t {
	case TriTrue:
		return []byte("true"), nil
	case TriFalse:
		return []byte("false"), nil
	default:
		return []byte("null"), nil
	}
}

func (t *TriState) UnmarshalJSON(data []byte) error {
	var b *bool
	if err := json.Unmarshal(data, &b); err != nil {
		return fmt.Errorf("tri-state must be true, false or null: %w", err)
	}
	if b == nil {
		*t = TriUnknown
		return nil
	}
	*t = TriOf(*b)
	return nil
}

// Value is a typed scalar that can be written into a Field.
// Build one with Int, Bool, Tri or SceneRef.
type Value struct {
	kind  Kind
	num   int
	flag  bool
	tri   TriState
	scene string
}

func Int(n int) Value { return Value{kind: KindInt, num: n} }
func Bool(b bool) Value { return Value{kind: KindBool, flag: b} }
func Tri(t TriState) Value { return Value{kind: KindTri, tri: t} }
func SceneRef(id string) Value { return Value{kind: KindScene, scene: id} }
func (v Value) Kind() Kind { return v.kind }
func (v Value) Int() int { return v.num }
func (v Value) Bool() bool { return v.flag }
func (v Value) Tri() TriState { return v.tri }
func (v Value) SceneID() string { return v.scene }
func (v Value) IsNullScene() bool { return v.kind == KindScene && v.scene == "" }

func (v Value) String() string {
	switch v.kind {
	case KindInt:
		return strconv.Itoa(v.num)
	case KindBool:
		return strconv.FormatBool(v.flag)
	case KindTri:
		return v.tri.String()
	case KindScene:
		if v.scene == "" {
			return "null"
		}
		return v.scene
	default:
		return "?"
	}
}

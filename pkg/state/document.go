package state

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"
)

const (
	KeyRunID = "run_id"
	KeyScene = "scene"
)

// Document is the flat key-value form of a GameState used by every save
// backend. Values are int, bool, string or nil.
type Document map[string]any

// Document flattens the state. Undecided tri-states and an empty
// return_scene are stored as nil.
func (gs *GameState) Document() Document {
	doc := Document{
		KeyRunID: gs.RunID.String(),
		KeyScene: gs.Scene,
	}
	for _, f := range fields {
		v := gs.Get(f)
		switch v.Kind() {
		case KindInt:
			doc[string(f)] = v.Int()
		case KindBool:
			doc[string(f)] = v.Bool()
		case KindTri:
			if v.Tri() == TriUnknown {
				doc[string(f)] = nil
			} else {
				doc[string(f)] = v.Tri() == TriTrue
			}
		case KindScene:
			if v.IsNullScene() {
				doc[string(f)] = nil
			} else {
				doc[string(f)] = v.SceneID()
			}
		}
	}
	return doc
}

// FromDocument rebuilds a GameState. Keys missing from the document keep
// their fresh-game defaults; unknown keys and mistyped values are errors.
func FromDocument(doc Document) (*GameState, error) {
	if doc == nil {
		return nil, errors.New("empty document")
	}
	rawScene, ok := doc[KeyScene]
	if !ok {
		return nil, errors.New("document has no scene")
	}
	scene, ok := rawScene.(string)
	if !ok || scene == "" {
		return nil, fmt.Errorf("scene must be a non-empty string, got %T", rawScene)
	}

	gs := NewGameState(scene)
	var errs []error

	keys := make([]string, 0, len(doc))
	for k := range doc {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		raw := doc[key]
		switch key {
		case KeyScene:
			continue
		case KeyRunID:
			s, ok := raw.(string)
			if !ok {
				errs = append(errs, fmt.Errorf("%s: expected string, got %T", key, raw))
				continue
			}
			id, err := uuid.Parse(s)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", key, err))
				continue
			}
			gs.RunID = id
			continue
		}

		f, err := ParseField(key)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		v, err := decodeValue(f, raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			continue
		}
		gs.set(f, v)
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return gs, nil
}

func decodeValue(f Field, raw any) (Value, error) {
	switch f.Kind() {
	case KindInt:
		n, err := asInt(raw)
		if err != nil {
			return Value{}, err
		}
		if n < 0 {
			return Value{}, fmt.Errorf("must not be negative, got %d", n)
		}
		return Int(n), nil
	case KindBool:
		b, ok := raw.(bool)
		if !ok {
			return Value{}, fmt.Errorf("expected boolean, got %T", raw)
		}
		return Bool(b), nil
	case KindTri:
		if raw == nil {
			return Tri(TriUnknown), nil
		}
		b, ok := raw.(bool)
		if !ok {
			return Value{}, fmt.Errorf("expected boolean or null, got %T", raw)
		}
		return Tri(TriOf(b)), nil
	case KindScene:
		if raw == nil {
			return SceneRef(""), nil
		}
		s, ok := raw.(string)
		if !ok {
			return Value{}, fmt.Errorf("expected scene id or null, got %T", raw)
		}
		return SceneRef(s), nil
	}
	return Value{}, fmt.Errorf("unsupported field kind %s", f.Kind())
}

// asInt accepts the numeric types produced by encoding/json and by
// hand-built documents.
func asInt(raw any) (int, error) {
	switch n := raw.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("expected integer, got %v", n)
		}
		return int(n), nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, fmt.Errorf("expected integer: %w", err)
		}
		return int(i), nil
	default:
		return 0, fmt.Errorf("expected integer, got %T", raw)
	}
}

// MarshalJSON writes the flat document form.
func (gs *GameState) MarshalJSON() ([]byte, error) {
	return json.Marshal(gs.Document())
}

// UnmarshalJSON reads the flat document form.
func (gs *GameState) UnmarshalJSON(data []byte) error {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	loaded, err := FromDocument(doc)
	if err != nil {
		return err
	}
	*gs = *loaded
	return nil
}

package scenario

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jwebster45206/black-moon/pkg/state"
	"gopkg.in/yaml.v3"
)

// File layout of a scenario document. Effects keep the author-facing
// op/key/value shape and are converted to typed state effects on load.
type scenarioFile struct {
	Name          Localized            `yaml:"name"`
	Start         string               `yaml:"start"`
	DefaultLocale string               `yaml:"default_locale"`
	UI            map[string]Localized `yaml:"ui,omitempty"`
	Scenes        map[string]sceneFile `yaml:"scenes"`
}

type sceneFile struct {
	Title   Localized    `yaml:"title"`
	Image   string       `yaml:"image"`
	Text    Localized    `yaml:"text"`
	Options []choiceFile `yaml:"options"`
}

type choiceFile struct {
	Label   Localized    `yaml:"label"`
	Goto    string       `yaml:"goto"`
	Effects []effectFile `yaml:"effects,omitempty"`
}

type effectFile struct {
	Op    string    `yaml:"op"`    // "set" | "inc"
	Key   string    `yaml:"key"`   // state field name
	Value yaml.Node `yaml:"value"` // typed by the field
}

// LoadFile reads and validates a scenario YAML file.
func LoadFile(path string) (*Scenario, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open scenario file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	s, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", filepath.Base(path), err)
	}
	s.FileName = filepath.Base(path)
	return s, nil
}

// Load parses a scenario document and validates the whole graph.
// Every problem found is reported, joined into a single error.
func Load(r io.Reader) (*Scenario, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var raw scenarioFile
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to parse scenario: %w", err)
	}

	s := &Scenario{
		Name:          raw.Name,
		Start:         raw.Start,
		DefaultLocale: raw.DefaultLocale,
		ui:            raw.UI,
		scenes:        make(map[string]Scene, len(raw.Scenes)),
	}
	if s.DefaultLocale == "" {
		s.DefaultLocale = "en"
	}

	var errs []error
	for id, rs := range raw.Scenes {
		scene := Scene{
			ID:      id,
			Title:   rs.Title,
			Body:    rs.Text,
			Image:   rs.Image,
			Choices: make([]Choice, 0, len(rs.Options)),
		}
		for i, rc := range rs.Options {
			choice := Choice{Label: rc.Label, Goto: rc.Goto}
			for j, re := range rc.Effects {
				effect, err := buildEffect(re)
				if err != nil {
					errs = append(errs, fmt.Errorf("scene %s option %d effect %d: %w", id, i+1, j+1, err))
					continue
				}
				choice.Effects = append(choice.Effects, effect)
			}
			scene.Choices = append(scene.Choices, choice)
		}
		s.scenes[id] = scene
	}

	if err := s.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return s, nil
}

func buildEffect(ef effectFile) (state.Effect, error) {
	field, err := state.ParseField(ef.Key)
	if err != nil {
		if hint := suggest(ef.Key, fieldNames()); hint != "" {
			return nil, fmt.Errorf("%w (did you mean %q?)", err, hint)
		}
		return nil, err
	}
	if ef.Value.Kind == 0 {
		return nil, fmt.Errorf("%s %s: missing value", ef.Op, field)
	}

	switch ef.Op {
	case "set":
		v, err := decodeValue(field, &ef.Value)
		if err != nil {
			return nil, fmt.Errorf("set %s: %w", field, err)
		}
		return state.SetField{Field: field, Value: v}, nil
	case "inc", "increment":
		if field.Kind() != state.KindInt {
			return nil, fmt.Errorf("cannot increment %s field %s", field.Kind(), field)
		}
		var delta int
		if err := ef.Value.Decode(&delta); err != nil {
			return nil, fmt.Errorf("increment %s: %w", field, err)
		}
		return state.IncrementField{Field: field, Delta: delta}, nil
	default:
		return nil, fmt.Errorf("unknown effect op %q", ef.Op)
	}
}

func decodeValue(field state.Field, node *yaml.Node) (state.Value, error) {
	null := node.Kind == yaml.ScalarNode && node.Tag == "!!null"
	switch field.Kind() {
	case state.KindInt:
		var n int
		if err := node.Decode(&n); err != nil {
			return state.Value{}, err
		}
		if n < 0 {
			return state.Value{}, fmt.Errorf("value must not be negative, got %d", n)
		}
		return state.Int(n), nil
	case state.KindBool:
		var b bool
		if err := node.Decode(&b); err != nil {
			return state.Value{}, err
		}
		return state.Bool(b), nil
	case state.KindTri:
		if null {
			return state.Tri(state.TriUnknown), nil
		}
		var b bool
		if err := node.Decode(&b); err != nil {
			return state.Value{}, err
		}
		return state.Tri(state.TriOf(b)), nil
	case state.KindScene:
		if null {
			return state.SceneRef(""), nil
		}
		var id string
		if err := node.Decode(&id); err != nil {
			return state.Value{}, err
		}
		return state.SceneRef(id), nil
	}
	return state.Value{}, fmt.Errorf("unsupported field kind %s", field.Kind())
}

func fieldNames() []string {
	fs := state.Fields()
	names := make([]string, len(fs))
	for i, f := range fs {
		names[i] = string(f)
	}
	return names
}

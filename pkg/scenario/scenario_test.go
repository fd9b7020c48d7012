package scenario

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/jwebster45206/black-moon/pkg/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testEndings = `
  E_COWARD: {title: {en: Coward}, text: {en: You left.}, options: []}
  E_TIME: {title: {en: Too Late}, text: {en: Time ran out.}}
  E_DEAD: {title: {en: Dead}, text: {en: You died.}}
  E_GOOD: {title: {en: Good}, text: {en: You won.}}
  E_GREED: {title: {en: Greed}, text: {en: You sold out.}}
`

// testStory wraps scene definitions in a document that has all endings.
func testStory(scenes string) string {
	return "name: {en: Test, sv: Prov}\nstart: S1\nscenes:\n" + scenes + testEndings
}

func TestLoad_Valid(t *testing.T) {
	doc := testStory(`
  S1:
    title: {en: One, sv: Ett}
    image: scene_01.png
    text: {en: First, sv: Första}
    options:
      - label: {en: Onward, sv: Framåt}
        goto: S2
        effects:
          - {op: set, key: solo, value: true}
          - {op: inc, key: days_left, value: -1}
          - {op: set, key: trust_nina, value: null}
  S2:
    title: {en: Two}
    text: {en: Second}
    options:
      - label: {en: Run}
        goto: MINIGAME_CHASE
        effects:
          - {op: set, key: return_scene, value: S1}
      - label: {en: Win}
        goto: E_GOOD
`)
	s, err := Load(strings.NewReader(doc))
	require.NoError(t, err)

	assert.Equal(t, "S1", s.Start)
	assert.Equal(t, "en", s.DefaultLocale)
	assert.Equal(t, []string{"en", "sv"}, s.Locales())
	assert.Len(t, s.SceneIDs(), 7)

	s1, err := s.Lookup("S1")
	require.NoError(t, err)
	if s1.Image != "scene_01.png" {
		t.Errorf("Expected image scene_01.png, got %q", s1.Image)
	}
	if s1.IsEnding() {
		t.Error("Expected S1 not to be an ending")
	}
	choice, ok := s1.Choice(0)
	require.True(t, ok)
	expected := []state.Effect{
		state.SetField{Field: state.FieldSolo, Value: state.Bool(true)},
		state.IncrementField{Field: state.FieldDaysLeft, Delta: -1},
		state.SetField{Field: state.FieldTrustNina, Value: state.Tri(state.TriUnknown)},
	}
	assert.Equal(t, expected, choice.Effects)
	if _, ok := s1.Choice(1); ok {
		t.Error("Expected no choice at index 1")
	}

	s2, err := s.Lookup("S2")
	require.NoError(t, err)
	run, _ := s2.Choice(0)
	if !run.IsEncounter() {
		t.Error("Expected first S2 choice to start an encounter")
	}
	// Missing translations fall back to the default locale.
	if got := s2.Title.In("sv", s.DefaultLocale); got != "Two" {
		t.Errorf("Expected fallback title %q, got %q", "Two", got)
	}

	ending, err := s.Lookup(state.EndingVirtuous)
	require.NoError(t, err)
	if !ending.IsEnding() {
		t.Error("Expected E_GOOD to be an ending")
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name     string
		scenes   string
		contains []string
	}{
		{
			name: "unknown goto with suggestion",
			scenes: `
  S1: {title: {en: A}, text: {en: A}, options: [{label: {en: Go}, goto: S2X}]}
  S2: {title: {en: B}, text: {en: B}, options: [{label: {en: Go}, goto: E_GOOD}]}
`,
			contains: []string{`scene S1 option 1: unknown scene "S2X" (did you mean "S2"?)`},
		},
		{
			name: "unknown effect key with suggestion",
			scenes: `
  S1:
    title: {en: A}
    text: {en: A}
    options:
      - label: {en: Go}
        goto: E_GOOD
        effects: [{op: inc, key: helth, value: -1}]
`,
			contains: []string{`unknown state field "helth"`, `did you mean "health"?`},
		},
		{
			name: "unknown effect op",
			scenes: `
  S1:
    title: {en: A}
    text: {en: A}
    options:
      - {label: {en: Go}, goto: E_GOOD, effects: [{op: toggle, key: solo, value: true}]}
`,
			contains: []string{`unknown effect op "toggle"`},
		},
		{
			name: "increment on flag",
			scenes: `
  S1:
    title: {en: A}
    text: {en: A}
    options:
      - {label: {en: Go}, goto: E_GOOD, effects: [{op: inc, key: solo, value: 1}]}
`,
			contains: []string{"cannot increment"},
		},
		{
			name: "missing effect value",
			scenes: `
  S1:
    title: {en: A}
    text: {en: A}
    options:
      - {label: {en: Go}, goto: E_GOOD, effects: [{op: set, key: solo}]}
`,
			contains: []string{"set solo: missing value"},
		},
		{
			name: "negative counter",
			scenes: `
  S1:
    title: {en: A}
    text: {en: A}
    options:
      - {label: {en: Go}, goto: E_GOOD, effects: [{op: set, key: health, value: -2}]}
`,
			contains: []string{"must not be negative"},
		},
		{
			name: "dead end scene",
			scenes: `
  S1: {title: {en: A}, text: {en: A}, options: [{label: {en: Go}, goto: S2}]}
  S2: {title: {en: B}, text: {en: B}}
`,
			contains: []string{"scene S2: has no choices but is not an ending"},
		},
		{
			name: "encounter without return scene",
			scenes: `
  S1: {title: {en: A}, text: {en: A}, options: [{label: {en: Go}, goto: MINIGAME_CHASE}]}
`,
			contains: []string{`encounter return: unknown scene "S5A"`},
		},
		{
			name: "return scene does not exist",
			scenes: `
  S1:
    title: {en: A}
    text: {en: A}
    options:
      - label: {en: Go}
        goto: MINIGAME_COLLECT
        effects: [{op: set, key: return_scene, value: S9}]
`,
			contains: []string{`unknown scene "S9"`},
		},
		{
			name: "encounter id used as scene",
			scenes: `
  S1: {title: {en: A}, text: {en: A}, options: [{label: {en: Go}, goto: E_GOOD}]}
  MINIGAME_CHASE: {title: {en: B}, text: {en: B}, options: [{label: {en: Go}, goto: E_GOOD}]}
`,
			contains: []string{"reserved for an encounter"},
		},
		{
			name: "missing default locale text",
			scenes: `
  S1: {title: {sv: A}, text: {en: A}, options: [{label: {sv: Gå}, goto: E_GOOD}]}
`,
			contains: []string{`scene S1: missing "en" title`, `scene S1 option 1: missing "en" label`},
		},
		{
			name: "too many choices",
			scenes: "  S1:\n    title: {en: A}\n    text: {en: A}\n    options:\n" +
				strings.Repeat("      - {label: {en: Go}, goto: E_GOOD}\n", 10),
			contains: []string{"10 choices, at most 9 allowed"},
		},
		{
			name: "unknown document field",
			scenes: `
  S1: {titel: {en: A}, text: {en: A}, options: [{label: {en: Go}, goto: E_GOOD}]}
`,
			contains: []string{"failed to parse scenario"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(testStory(tt.scenes)))
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			for _, want := range tt.contains {
				if !strings.Contains(err.Error(), want) {
					t.Errorf("Expected error to contain %q, got: %v", want, err)
				}
			}
		})
	}
}

func TestLoad_MissingEnding(t *testing.T) {
	doc := `
name: {en: Test}
start: S1
scenes:
  S1: {title: {en: A}, text: {en: A}, options: [{label: {en: Go}, goto: E_GOOD}]}
  E_GOOD: {title: {en: Good}, text: {en: You won.}}
`
	_, err := Load(strings.NewReader(doc))
	require.Error(t, err)
	for _, id := range []string{state.EndingCoward, state.EndingTime, state.EndingDefeated, state.EndingGreedy} {
		assert.Contains(t, err.Error(), fmt.Sprintf("ending %s is not defined", id))
	}
}

func TestLoad_BadStart(t *testing.T) {
	doc := strings.Replace(testStory(`
  S1: {title: {en: A}, text: {en: A}, options: [{label: {en: Go}, goto: E_GOOD}]}
`), "start: S1", "start: s1", 1)

	_, err := Load(strings.NewReader(doc))
	require.Error(t, err)
	if !errors.Is(err, ErrUnknownScene) {
		t.Errorf("Expected ErrUnknownScene, got: %v", err)
	}
	var unknown *UnknownSceneError
	require.True(t, errors.As(err, &unknown))
	assert.Equal(t, "s1", unknown.ID)
	assert.Equal(t, "S1", unknown.Suggestion)
}

func TestLookup_Unknown(t *testing.T) {
	s, err := Default()
	require.NoError(t, err)

	tests := []struct {
		id         string
		suggestion string
	}{
		{id: "S5C", suggestion: "S5A"},
		{id: "E_GOD", suggestion: "E_GOOD"},
		{id: state.EncounterPursuit, suggestion: ""},
		{id: "nowhere", suggestion: ""},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			_, err := s.Lookup(tt.id)
			var unknown *UnknownSceneError
			if !errors.As(err, &unknown) {
				t.Fatalf("Expected UnknownSceneError, got %v", err)
			}
			if unknown.Suggestion != tt.suggestion {
				t.Errorf("Expected suggestion %q, got %q", tt.suggestion, unknown.Suggestion)
			}
		})
	}
}

func TestDefault(t *testing.T) {
	s, err := Default()
	require.NoError(t, err)

	assert.Equal(t, DefaultFile, s.FileName)
	assert.Equal(t, "S1", s.Start)
	assert.Equal(t, []string{"en", "sv"}, s.Locales())
	assert.Len(t, s.SceneIDs(), 21)

	for _, id := range s.SceneIDs() {
		scene, _ := s.Lookup(id)
		for _, loc := range s.Locales() {
			if scene.Title[loc] == "" || scene.Body[loc] == "" {
				t.Errorf("scene %s: missing %s text", id, loc)
			}
			for i, c := range scene.Choices {
				if c.Label[loc] == "" {
					t.Errorf("scene %s option %d: missing %s label", id, i+1, loc)
				}
			}
		}
		if scene.Image == "" {
			t.Errorf("scene %s: missing image", id)
		}
	}

	assert.Equal(t, "HÄLSA", s.Text("status_health", "sv"))
	assert.Equal(t, "HEALTH", s.Text("status_health", "de"))
	assert.Equal(t, "no_such_key", s.Text("no_such_key", "en"))

	again, err := Default()
	require.NoError(t, err)
	if again != s {
		t.Error("Expected Default to return the shared scenario")
	}
}

// TestDefault_Reachability walks the graph from the start scene, treating
// encounters as edges to their resume scene. E_TIME and E_DEAD are only
// reached through the override check.
func TestDefault_Reachability(t *testing.T) {
	s, err := Default()
	require.NoError(t, err)

	seen := map[string]bool{}
	encounters := map[string]bool{}
	queue := []string{s.Start}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if seen[id] {
			continue
		}
		seen[id] = true
		scene, err := s.Lookup(id)
		require.NoError(t, err)
		for _, c := range scene.Choices {
			next := c.Goto
			if c.IsEncounter() {
				encounters[c.Goto] = true
				ret, ok := state.ReturnTarget(c.Effects)
				if !ok {
					ret = state.DefaultReturn(c.Goto)
				}
				next = ret
			}
			queue = append(queue, next)
		}
	}

	for _, id := range s.SceneIDs() {
		if id == state.EndingTime || id == state.EndingDefeated {
			continue
		}
		if !seen[id] {
			t.Errorf("scene %s is unreachable from %s", id, s.Start)
		}
	}
	assert.True(t, encounters[state.EncounterPursuit], "pursuit encounter should be reachable")
	assert.True(t, encounters[state.EncounterCollection], "collection encounter should be reachable")
}

func TestMatchLocale(t *testing.T) {
	s, err := Default()
	require.NoError(t, err)

	tests := []struct {
		requested string
		expected  string
	}{
		{"sv", "sv"},
		{"sv-SE", "sv"},
		{"sv_SE.UTF-8", "sv"},
		{"en_US.UTF-8@euro", "en"},
		{"en-GB", "en"},
		{"de", "en"},
		{"", "en"},
		{"not a locale!", "en"},
	}
	for _, tt := range tests {
		t.Run(tt.requested, func(t *testing.T) {
			if got := s.MatchLocale(tt.requested); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestSuggest(t *testing.T) {
	ids := []string{"S1", "S10", "S11", "S11B", "E_GOOD", "E_GREED"}
	tests := []struct {
		id       string
		expected string
	}{
		{"S11b", "S11B"},
		{"S12", "S1"},
		{"E_GREEDY", "E_GREED"},
		{"MINIGAME", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if got := suggest(tt.id, ids); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

package main

import (
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jwebster45206/black-moon/pkg/arcade"
	"github.com/jwebster45206/black-moon/pkg/engine"
	"github.com/jwebster45206/black-moon/pkg/scenario"
	"github.com/jwebster45206/black-moon/pkg/state"
	"github.com/jwebster45206/black-moon/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUI(t *testing.T, askLocale bool) (ConsoleUI, *storage.MockStorage) {
	t.Helper()
	scen, err := scenario.Default()
	require.NoError(t, err)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	eng := engine.New(scen, nil, log, engine.WithSpawner(arcade.FixedSpawner{}))
	store := storage.NewMockStorage()
	session := engine.NewSession(eng, store, "default", "en")

	ui := NewConsoleUI(session, &terminalRunner{fps: 60, text: session.Text}, log, askLocale)
	m, _ := ui.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return m.(ConsoleUI), store
}

func press(t *testing.T, m ConsoleUI, keys ...string) ConsoleUI {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(ConsoleUI)
	}
	return m
}

func TestConsoleUI_StartAndChoose(t *testing.T) {
	m, _ := testUI(t, false)
	assert.Contains(t, m.View(), "Press any key to start")

	m = press(t, m, "x")
	assert.False(t, m.showStartScreen)
	assert.Contains(t, m.View(), "HEALTH: 3")

	m = press(t, m, "1")
	if m.session.State().Scene != "S2" {
		t.Errorf("Expected scene S2, got %s", m.session.State().Scene)
	}

	// Keys outside the scene's choices do nothing.
	m = press(t, m, "9")
	assert.Equal(t, "S2", m.session.State().Scene)
}

func TestConsoleUI_LanguageChooser(t *testing.T) {
	m, _ := testUI(t, true)
	assert.True(t, m.showLanguageModal)
	assert.Contains(t, m.View(), "Svenska")

	m = press(t, m, "down", "enter")
	assert.False(t, m.showLanguageModal)
	assert.Equal(t, "sv", m.session.Locale())
	assert.Contains(t, m.View(), "Tryck valfri tangent")
}

func TestConsoleUI_SaveLoad(t *testing.T) {
	m, store := testUI(t, false)
	m = press(t, m, "x", "1", "s")
	assert.Equal(t, "Game saved.", m.notice)

	m = press(t, m, "1")
	assert.Equal(t, "S3", m.session.State().Scene)

	m = press(t, m, "l")
	assert.Equal(t, "Game loaded.", m.notice)
	assert.Equal(t, "S2", m.session.State().Scene)

	store.SetLoadError(assert.AnError)
	m = press(t, m, "l")
	require.Error(t, m.err)
	assert.Equal(t, "Could not load a saved game.", m.err.Error())
	assert.Equal(t, "S2", m.session.State().Scene)
}

func TestConsoleUI_Copy(t *testing.T) {
	m, _ := testUI(t, false)
	var copied string
	m.clip = func(s string) error {
		copied = s
		return nil
	}

	m = press(t, m, "x", "c")
	assert.True(t, strings.HasPrefix(copied, "The Mission\n\n"))
	assert.Contains(t, copied, "1. Steal the disk")
	assert.Equal(t, "Scene copied to clipboard.", m.notice)
}

func TestConsoleUI_EndingRestarts(t *testing.T) {
	m, _ := testUI(t, false)
	m = press(t, m, "x", "2")
	require.Equal(t, state.EndingCoward, m.session.State().Scene)
	assert.Contains(t, m.View(), "GAME OVER")
	assert.Contains(t, m.View(), "Press any key to restart")

	m = press(t, m, "z")
	assert.Equal(t, "S1", m.session.State().Scene)
	assert.False(t, m.session.Ended())
}

func TestConsoleUI_EncounterChoiceUsesExec(t *testing.T) {
	m, _ := testUI(t, false)
	m = press(t, m, "x", "1", "1", "1")
	require.Equal(t, "S4", m.session.State().Scene)

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("1")})
	m = next.(ConsoleUI)
	assert.True(t, m.busy)
	assert.NotNil(t, cmd)
	// The story does not move until the encounter program reports back.
	assert.Equal(t, "S4", m.session.State().Scene)

	m = press(t, m, "2")
	assert.Equal(t, "S4", m.session.State().Scene)
}

func TestConsoleUI_QuitModal(t *testing.T) {
	m, _ := testUI(t, false)
	m = press(t, m, "x", "q")
	assert.True(t, m.showQuitModal)
	assert.Contains(t, m.View(), "Quit the game?")

	m = press(t, m, "n")
	assert.False(t, m.showQuitModal)

	m = press(t, m, "esc")
	require.True(t, m.showQuitModal)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestRenderPlayfield(t *testing.T) {
	f := arcade.Frame{
		Kind:   arcade.Pursuit,
		Width:  480,
		Height: 640,
		Player: arcade.Rect{X: 210, Y: 520, W: 60, H: 90},
		Obstacles: []arcade.Rect{
			{X: 0, Y: 0, W: 60, H: 90},
			{X: 0, Y: -90, W: 60, H: 90}, // still above the field
		},
	}
	lines := strings.Split(renderPlayfield(f, 24, 20), "\n")
	require.Len(t, lines, 20)

	// 480/24 = 20 units per column, 640/20 = 32 units per row.
	assert.Equal(t, "###", lines[0][:3])
	assert.Equal(t, "   ", lines[4][:3])
	assert.Contains(t, lines[16], "AAA")
	assert.NotContains(t, lines[15], "A")
}

func TestEncounterModel_HoldWindow(t *testing.T) {
	gs := state.NewGameState("S4")
	enc := arcade.New(arcade.Pursuit, gs, arcade.DefaultConfig(), arcade.FixedSpawner{})
	m := newEncounterModel(enc, 60, nil)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m = next.(encounterModel)
	assert.Equal(t, 1, m.dir)

	start := enc.Frame().Player.X
	m.advance(m.pressed.Add(10*time.Millisecond), m.step)
	assert.Greater(t, enc.Frame().Player.X, start)

	// No repeat within the hold window: the car stops.
	moved := enc.Frame().Player.X
	m.advance(m.pressed.Add(holdWindow+time.Millisecond), m.step)
	assert.Equal(t, 0, m.dir)
	assert.Equal(t, moved, enc.Frame().Player.X)
}

func TestEncounterModel_CancelAndQuit(t *testing.T) {
	gs := state.NewGameState("S4")
	gs.ReturnScene = "S5A"
	enc := arcade.New(arcade.Pursuit, gs, arcade.DefaultConfig(), arcade.FixedSpawner{})
	m := newEncounterModel(enc, 60, nil)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(encounterModel)
	next, cmd := m.Update(encounterTickMsg(time.Now()))
	m = next.(encounterModel)

	assert.Equal(t, arcade.Cancelled, enc.Result())
	assert.Equal(t, "S5A", gs.Scene)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Contains(t, m.View(), "pursuit_title")
}

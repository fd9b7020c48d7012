package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jwebster45206/black-moon/pkg/arcade"
	"github.com/jwebster45206/black-moon/pkg/engine"
)

// Playfield size in terminal cells.
const (
	gridCols = 24
	gridRows = 20
)

// Terminals only report key presses, so a held key shows up as a stream of
// repeats. A direction stays active this long after its last repeat.
const holdWindow = 150 * time.Millisecond

// maxFrameStep caps the time fed to one tick after a stall.
const maxFrameStep = 100 * time.Millisecond

var errEncounterAborted = errors.New("encounter window closed")

var (
	fieldStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62"))

	playerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	obstacleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	pickupStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	rivalStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
)

// terminalRunner plays encounters in the terminal. The outer program hands
// over the terminal through tea.Exec and the encounter runs as its own
// bubbletea program until it finishes.
type terminalRunner struct {
	fps  int
	text func(key string) string
	in   io.Reader
	out  io.Writer
}

var _ engine.EncounterRunner = (*terminalRunner)(nil)

func (r *terminalRunner) Run(ctx context.Context, enc *arcade.Encounter) error {
	m := newEncounterModel(enc, r.fps, r.text)
	opts := []tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}
	if r.in != nil {
		opts = append(opts, tea.WithInput(r.in))
	}
	if r.out != nil {
		opts = append(opts, tea.WithOutput(r.out))
	}

	final, err := tea.NewProgram(m, opts...).Run()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("encounter program: %w", err)
	}
	if fm, ok := final.(encounterModel); ok && fm.aborted {
		return errEncounterAborted
	}
	return nil
}

// choiceExec runs one choice with the terminal released by the outer
// program. It implements tea.ExecCommand.
type choiceExec struct {
	ctx     context.Context
	session *engine.Session
	runner  *terminalRunner
	choice  int
}

func (c *choiceExec) Run() error {
	defer func() {
		c.runner.in, c.runner.out = nil, nil
	}()
	return c.session.Choose(c.ctx, c.choice)
}

func (c *choiceExec) SetStdin(r io.Reader) { c.runner.in = r }
func (c *choiceExec) SetStdout(w io.Writer) { c.runner.out = w }
func (c *choiceExec) SetStderr(io.Writer) {}

type encounterTickMsg time.Time

type encounterModel struct {
	enc     *arcade.Encounter
	step    time.Duration
	text    func(string) string
	last    time.Time
	dir     int
	pressed time.Time
	cancel  bool
	aborted bool
}

func newEncounterModel(enc *arcade.Encounter, fps int, text func(string) string) encounterModel {
	if fps <= 0 {
		fps = 60
	}
	if text == nil {
		text = func(key string) string { return key }
	}
	return encounterModel{
		enc:  enc,
		step: time.Second / time.Duration(fps),
		text: text,
	}
}

func (m encounterModel) tick() tea.Cmd {
	return tea.Tick(m.step, func(t time.Time) tea.Msg {
		return encounterTickMsg(t)
	})
}

func (m encounterModel) Init() tea.Cmd {
	return m.tick()
}

func (m encounterModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "left", "a", "h":
			m.dir, m.pressed = -1, time.Now()
		case "right", "d", "l":
			m.dir, m.pressed = 1, time.Now()
		case "esc", "q":
			m.cancel = true
		case "ctrl+c":
			m.aborted = true
			return m, tea.Quit
		}
		return m, nil

	case encounterTickMsg:
		now := time.Time(msg)
		dt := m.step
		if !m.last.IsZero() {
			dt = min(now.Sub(m.last), maxFrameStep)
		}
		m.last = now
		m.advance(now, dt)
		if m.enc.Done() {
			return m, tea.Quit
		}
		return m, m.tick()
	}
	return m, nil
}

// advance feeds one tick of input to the encounter.
func (m *encounterModel) advance(now time.Time, dt time.Duration) {
	if m.dir != 0 && now.Sub(m.pressed) > holdWindow {
		m.dir = 0
	}
	m.enc.Tick(dt, arcade.Input{Dir: m.dir, Cancel: m.cancel})
}

func (m encounterModel) View() string {
	f := m.enc.Frame()

	var b strings.Builder
	title := m.text("pursuit_title")
	if f.Kind == arcade.Collection {
		title = m.text("collection_title")
	}
	b.WriteString(titleStyle.Render(title) + "\n")
	b.WriteString(fieldStyle.Render(renderPlayfield(f, gridCols, gridRows)) + "\n")
	b.WriteString(m.hud(f) + "\n")
	b.WriteString(promptStyle.Render(m.text("encounter_help")))
	return b.String()
}

func (m encounterModel) hud(f arcade.Frame) string {
	parts := []string{
		fmt.Sprintf("%s: %d/%d", m.text("hits"), f.HUD.Hits, f.HUD.HitLimit),
		fmt.Sprintf("%s: %d", m.text("status_health"), f.HUD.Health),
	}
	switch f.Kind {
	case arcade.Pursuit:
		parts = append(parts, fmt.Sprintf("%s: %.1fs", m.text("time_left"), f.HUD.Remaining.Seconds()))
	case arcade.Collection:
		parts = append(parts, fmt.Sprintf("%s: %d/%d", m.text("collected"), f.HUD.Collected, f.HUD.Target))
	}
	return strings.Join(parts, "   ")
}

// renderPlayfield scales the frame onto a cols x rows character grid.
func renderPlayfield(f arcade.Frame, cols, rows int) string {
	grid := make([][]rune, rows)
	for i := range grid {
		grid[i] = []rune(strings.Repeat(" ", cols))
	}
	cellW := f.Width / float64(cols)
	cellH := f.Height / float64(rows)

	paint := func(r arcade.Rect, ch rune) {
		if r.Bottom() <= 0 || r.Y >= f.Height {
			return
		}
		c0 := int(r.X / cellW)
		c1 := int((r.X + r.W - 1) / cellW)
		r0 := int(r.Y / cellH)
		r1 := int((r.Bottom() - 1) / cellH)
		for y := max(r0, 0); y <= min(r1, rows-1); y++ {
			for x := max(c0, 0); x <= min(c1, cols-1); x++ {
				grid[y][x] = ch
			}
		}
	}

	for _, o := range f.Obstacles {
		paint(o, '#')
	}
	for _, p := range f.Pickups {
		paint(p, '*')
	}
	if f.Rival.Visible {
		paint(f.Rival.Box, 'V')
	}
	paint(f.Player, 'A')

	lines := make([]string, rows)
	for i, row := range grid {
		lines[i] = colorize(string(row))
	}
	return strings.Join(lines, "\n")
}

func colorize(row string) string {
	var b strings.Builder
	for _, ch := range row {
		switch ch {
		case 'A':
			b.WriteString(playerStyle.Render("A"))
		case '#':
			b.WriteString(obstacleStyle.Render("#"))
		case '*':
			b.WriteString(pickupStyle.Render("*"))
		case 'V':
			b.WriteString(rivalStyle.Render("V"))
		default:
			b.WriteRune(ch)
		}
	}
	return b.String()
}

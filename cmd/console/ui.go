package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jwebster45206/black-moon/pkg/engine"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// persistTimeout bounds a save or load so a slow backend cannot hang the UI.
const persistTimeout = 5 * time.Second

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	session *engine.Session
	runner  *terminalRunner
	logger  *slog.Logger
	clip    func(string) error

	viewport viewport.Model
	ready    bool
	width    int
	height   int
	busy     bool
	notice   string
	err      error

	// Language selection state
	showLanguageModal bool
	locales           []string
	selectedLocale    int

	showStartScreen bool

	// Quit confirmation state
	showQuitModal bool
}

// choiceDoneMsg reports the end of a choice that ran an encounter.
type choiceDoneMsg struct {
	err error
}

var (
	scenePanelStyle = lipgloss.NewStyle().
			PaddingTop(1).
			PaddingLeft(3).
			PaddingRight(3)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	choiceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)

	modalItemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	modalSelectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("205")).
				Bold(true)
)

var separatorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("240")) // dark grey

// NewConsoleUI builds the model. askLocale shows the language chooser
// before the start screen.
func NewConsoleUI(session *engine.Session, runner *terminalRunner, logger *slog.Logger, askLocale bool) ConsoleUI {
	vp := viewport.New(60, 20)
	vp.MouseWheelEnabled = true

	m := ConsoleUI{
		session:           session,
		runner:            runner,
		logger:            logger,
		clip:              clipboard.WriteAll,
		viewport:          vp,
		showLanguageModal: askLocale,
		showStartScreen:   true,
		locales:           session.Engine().Scenario().Locales(),
	}
	for i, loc := range m.locales {
		if loc == session.Locale() {
			m.selectedLocale = i
		}
	}
	return m
}

func (m ConsoleUI) Init() tea.Cmd {
	return nil
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if size, ok := msg.(tea.WindowSizeMsg); ok {
		m.resize(size.Width, size.Height)
		return m, nil
	}

	switch {
	case m.showQuitModal:
		return m.updateQuitModal(msg)
	case m.showLanguageModal:
		return m.updateLanguageModal(msg)
	}

	switch msg := msg.(type) {
	case choiceDoneMsg:
		m.busy = false
		m.afterChoice(msg.err)
		return m, nil

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		if m.showStartScreen {
			if msg.Type == tea.KeyCtrlC {
				m.showQuitModal = true
				return m, nil
			}
			m.showStartScreen = false
			m.refresh()
			return m, nil
		}
		if m.session.Ended() {
			return m.updateEnding(msg)
		}
		return m.updateScene(msg)
	}
	return m, nil
}

func (m *ConsoleUI) resize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = max(width-6, 20)
	m.viewport.Height = max(height-6, 5)
	m.ready = true
	m.refresh()
}

func (m ConsoleUI) updateScene(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.showQuitModal = true
		return m, nil
	case tea.KeyUp, tea.KeyDown, tea.KeyPgUp, tea.KeyPgDown:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	key := msg.String()
	switch key {
	case "q":
		m.showQuitModal = true
		return m, nil
	case "s":
		m.save()
		return m, nil
	case "l":
		m.load()
		return m, nil
	case "c":
		m.copyScene()
		return m, nil
	}

	if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
		return m.choose(int(key[0] - '0'))
	}
	return m, nil
}

// choose resolves choice n. Choices that start an encounter release the
// terminal to the encounter program until it finishes.
func (m ConsoleUI) choose(n int) (tea.Model, tea.Cmd) {
	m.notice, m.err = "", nil
	if m.leadsToEncounter(n) {
		m.busy = true
		c := &choiceExec{
			ctx:     context.Background(),
			session: m.session,
			runner:  m.runner,
			choice:  n,
		}
		return m, tea.Exec(c, func(err error) tea.Msg {
			return choiceDoneMsg{err: err}
		})
	}
	err := m.session.Choose(context.Background(), n)
	m.afterChoice(err)
	return m, nil
}

func (m ConsoleUI) leadsToEncounter(n int) bool {
	scene, err := m.session.Engine().Scenario().Lookup(m.session.State().Scene)
	if err != nil {
		return false
	}
	choice, ok := scene.Choice(n - 1)
	return ok && choice.IsEncounter()
}

func (m *ConsoleUI) afterChoice(err error) {
	if err != nil {
		m.logger.Warn("Choice failed", "run_id", m.session.State().RunID, "error", err)
		m.err = err
	}
	m.refresh()
}

func (m ConsoleUI) updateEnding(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		m.showQuitModal = true
		return m, nil
	}
	m.session.Acknowledge()
	m.notice, m.err = "", nil
	m.refresh()
	return m, nil
}

func (m *ConsoleUI) save() {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := m.session.Save(ctx); err != nil {
		m.notice, m.err = "", errors.New(m.session.Text("save_failed"))
		return
	}
	m.notice, m.err = m.session.Text("saved"), nil
}

func (m *ConsoleUI) load() {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := m.session.Load(ctx); err != nil {
		m.notice, m.err = "", errors.New(m.session.Text("load_failed"))
		return
	}
	m.notice, m.err = m.session.Text("loaded"), nil
	m.refresh()
}

func (m *ConsoleUI) copyScene() {
	v, err := m.session.View()
	if err != nil {
		m.err = err
		return
	}
	text := v.Title + "\n\n" + v.Body + "\n\n" + strings.Join(v.NumberedChoices(), "\n")
	if err := m.clip(text); err != nil {
		m.logger.Warn("Clipboard write failed", "error", err)
		m.err = err
		return
	}
	m.notice, m.err = m.session.Text("copied"), nil
}

// refresh re-renders the scene into the viewport at the current width.
func (m *ConsoleUI) refresh() {
	if !m.ready {
		return
	}
	v, err := m.session.View()
	if err != nil {
		m.err = err
		return
	}
	width := max(m.viewport.Width-2, 10)

	var content strings.Builder
	content.WriteString(titleStyle.Render(v.Title) + "\n\n")
	if v.Image != "" {
		content.WriteString(promptStyle.Render("["+v.Image+"]") + "\n\n")
	}
	content.WriteString(wordwrap.String(v.Body, width) + "\n\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", width)) + "\n\n")
	for _, c := range v.NumberedChoices() {
		content.WriteString(choiceStyle.Render(wordwrap.String(c, width)) + "\n")
	}
	m.viewport.SetContent(content.String())
	m.viewport.GotoTop()
}

func (m ConsoleUI) updateLanguageModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.showQuitModal = true
	case tea.KeyUp:
		if m.selectedLocale > 0 {
			m.selectedLocale--
		}
	case tea.KeyDown:
		if m.selectedLocale < len(m.locales)-1 {
			m.selectedLocale++
		}
	case tea.KeyEnter:
		m.pickLocale(m.selectedLocale)
	default:
		s := key.String()
		if len(s) == 1 && s[0] >= '1' && int(s[0]-'1') < len(m.locales) {
			m.pickLocale(int(s[0] - '1'))
		}
	}
	return m, nil
}

func (m *ConsoleUI) pickLocale(i int) {
	m.session.SetLocale(m.locales[i])
	m.showLanguageModal = false
	m.logger.Info("Locale selected", "locale", m.session.Locale())
	m.refresh()
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.Type {
	case tea.KeyCtrlC, tea.KeyEnter:
		return m, tea.Quit
	case tea.KeyEsc:
		m.showQuitModal = false
		return m, nil
	}
	switch strings.ToLower(key.String()) {
	case "y", "j":
		return m, tea.Quit
	case "n":
		m.showQuitModal = false
	}
	return m, nil
}

func (m ConsoleUI) renderQuitModal() string {
	var content strings.Builder
	content.WriteString(modalTitleStyle.Render(m.session.Text("quit_confirm")))
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Y / N · Ctrl+C"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) renderLanguageModal() string {
	var content strings.Builder
	content.WriteString(modalTitleStyle.Render(m.session.Text("language_title")))
	content.WriteString("\n\n")

	for i, loc := range m.locales {
		label := fmt.Sprintf("%d. %s", i+1, localeName(loc))
		if i == m.selectedLocale {
			content.WriteString(modalSelectedItemStyle.Render("▶ " + label))
		} else {
			content.WriteString(modalItemStyle.Render("  " + label))
		}
		content.WriteString("\n")
	}
	content.WriteString("\n")
	content.WriteString(promptStyle.Render("↑/↓ · Enter"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) renderStartScreen() string {
	scen := m.session.Engine().Scenario()
	title := scen.Name.In(m.session.Locale(), scen.DefaultLocale)

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render(title))
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render(m.session.Text("start_prompt")))

	modal := modalStyle.Width(60).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

// renderEnding shows the ending scene as an overlay with the title in
// upper case for the session language.
func (m ConsoleUI) renderEnding(v engine.SceneView) string {
	upper := cases.Upper(language.Make(m.session.Locale()))
	width := 56

	var content strings.Builder
	content.WriteString(modalTitleStyle.Width(width).Render(upper.String(v.Title)))
	content.WriteString("\n\n")
	content.WriteString(wordwrap.String(v.Body, width))
	content.WriteString("\n\n")
	content.WriteString(statusStyle.Render(m.session.StatusLine()))
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render(m.session.Text("restart_prompt")))

	modal := modalStyle.Width(width + 4).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if !m.ready {
		return "\n  Initializing..."
	}
	switch {
	case m.showQuitModal:
		return m.renderQuitModal()
	case m.showLanguageModal:
		return m.renderLanguageModal()
	case m.showStartScreen:
		return m.renderStartScreen()
	}

	v, err := m.session.View()
	if err != nil {
		return errorStyle.Render("Error: " + err.Error())
	}
	if v.IsEnding {
		return m.renderEnding(v)
	}

	footer := promptStyle.Render(m.session.Text("help"))
	switch {
	case m.err != nil:
		footer = errorStyle.Render(m.err.Error())
	case m.notice != "":
		footer = noticeStyle.Render(m.notice)
	}

	return scenePanelStyle.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.viewport.View(),
			separatorStyle.Render(strings.Repeat("─", max(m.viewport.Width-2, 10))),
			statusStyle.Render(m.session.StatusLine()),
			footer,
		),
	)
}

// localeName renders a locale token in its own language, e.g. "Svenska".
func localeName(loc string) string {
	tag := language.Make(loc)
	name := display.Self.Name(tag)
	if name == "" {
		return loc
	}
	return cases.Title(tag).String(name)
}

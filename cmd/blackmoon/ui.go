//go:build cgo

package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/jwebster45206/black-moon/internal/config"
	"github.com/jwebster45206/black-moon/pkg/engine"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

const (
	noticeFor      = 3 * time.Second
	persistTimeout = 5 * time.Second
)

var (
	colorBG     = rl.NewColor(18, 18, 24, 255)
	colorText   = rl.NewColor(235, 235, 240, 255)
	colorDim    = rl.NewColor(140, 140, 150, 255)
	colorAccent = rl.NewColor(255, 95, 175, 255)
	colorChoice = rl.NewColor(95, 215, 175, 255)
	colorError  = rl.NewColor(255, 80, 80, 255)
	colorPanel  = rl.NewColor(35, 35, 45, 240)
)

type screen int

const (
	screenLanguage screen = iota
	screenStart
	screenScene
)

type windowUI struct {
	session   *engine.Session
	logger    *slog.Logger
	assetsDir string

	screen   screen
	locales  []string
	selected int
	quitting bool
	quit     bool

	notice      string
	noticeErr   bool
	noticeUntil time.Time

	textures map[string]rl.Texture2D
}

func newWindowUI(session *engine.Session, cfg *config.Config, logger *slog.Logger) *windowUI {
	ui := &windowUI{
		session:   session,
		logger:    logger,
		assetsDir: cfg.AssetsDir,
		screen:    screenStart,
		locales:   session.Engine().Scenario().Locales(),
		textures:  make(map[string]rl.Texture2D),
	}
	if cfg.Locale == "" {
		ui.screen = screenLanguage
	}
	return ui
}

func (ui *windowUI) Run() error {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(windowWidth, windowHeight, "Black Moon")
	rl.SetExitKey(0)
	rl.SetTargetFPS(60)
	defer rl.CloseWindow()
	defer ui.unloadTextures()

	for !ui.quit && !rl.WindowShouldClose() {
		if err := ui.update(); err != nil {
			if errors.Is(err, errWindowClosed) {
				return nil
			}
			return err
		}

		rl.BeginDrawing()
		rl.ClearBackground(colorBG)
		ui.draw()
		rl.EndDrawing()
	}
	return nil
}

func (ui *windowUI) update() error {
	if ui.quitting {
		ui.updateQuit()
		return nil
	}
	switch ui.screen {
	case screenLanguage:
		ui.updateLanguage()
	case screenStart:
		if rl.GetKeyPressed() != 0 {
			ui.screen = screenScene
		}
	case screenScene:
		return ui.updateScene()
	}
	return nil
}

func (ui *windowUI) updateQuit() {
	switch {
	case rl.IsKeyPressed(rl.KeyY), rl.IsKeyPressed(rl.KeyJ), rl.IsKeyPressed(rl.KeyEnter):
		ui.quit = true
	case rl.IsKeyPressed(rl.KeyN), rl.IsKeyPressed(rl.KeyEscape):
		ui.quitting = false
	}
}

func (ui *windowUI) updateLanguage() {
	switch {
	case rl.IsKeyPressed(rl.KeyUp):
		ui.selected = max(ui.selected-1, 0)
	case rl.IsKeyPressed(rl.KeyDown):
		ui.selected = min(ui.selected+1, len(ui.locales)-1)
	case rl.IsKeyPressed(rl.KeyEnter):
		ui.pickLocale(ui.selected)
	case rl.IsKeyPressed(rl.KeyEscape):
		ui.quitting = true
	default:
		if n, ok := digitChoice(rl.GetKeyPressed(), rl.KeyOne); ok && n <= len(ui.locales) {
			ui.pickLocale(n - 1)
		}
	}
}

func (ui *windowUI) pickLocale(i int) {
	ui.session.SetLocale(ui.locales[i])
	ui.logger.Info("Locale selected", "locale", ui.session.Locale())
	ui.screen = screenStart
}

func (ui *windowUI) updateScene() error {
	if ui.session.Ended() {
		if rl.GetKeyPressed() != 0 {
			ui.session.Acknowledge()
		}
		return nil
	}

	switch {
	case rl.IsKeyPressed(rl.KeyEscape), rl.IsKeyPressed(rl.KeyQ):
		ui.quitting = true
		return nil
	case rl.IsKeyPressed(rl.KeyS):
		ui.save()
		return nil
	case rl.IsKeyPressed(rl.KeyL):
		ui.load()
		return nil
	case rl.IsKeyPressed(rl.KeyC):
		ui.copyScene()
		return nil
	}

	n, ok := digitChoice(rl.GetKeyPressed(), rl.KeyOne)
	if !ok {
		ui.session.Frame()
		return nil
	}
	err := ui.session.Choose(context.Background(), n)
	if err != nil {
		ui.logger.Warn("Choice failed", "run_id", ui.session.State().RunID, "error", err)
		if errors.Is(err, errWindowClosed) {
			return err
		}
		ui.setNotice(err.Error(), true)
	}
	return nil
}

func (ui *windowUI) save() {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := ui.session.Save(ctx); err != nil {
		ui.setNotice(ui.session.Text("save_failed"), true)
		return
	}
	ui.setNotice(ui.session.Text("saved"), false)
}

func (ui *windowUI) load() {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := ui.session.Load(ctx); err != nil {
		ui.setNotice(ui.session.Text("load_failed"), true)
		return
	}
	ui.setNotice(ui.session.Text("loaded"), false)
}

func (ui *windowUI) copyScene() {
	v, err := ui.session.View()
	if err != nil {
		ui.setNotice(err.Error(), true)
		return
	}
	rl.SetClipboardText(v.Title + "\n\n" + v.Body + "\n\n" + strings.Join(v.NumberedChoices(), "\n"))
	ui.setNotice(ui.session.Text("copied"), false)
}

func (ui *windowUI) setNotice(msg string, isErr bool) {
	ui.notice = msg
	ui.noticeErr = isErr
	ui.noticeUntil = time.Now().Add(noticeFor)
}

func (ui *windowUI) draw() {
	switch ui.screen {
	case screenLanguage:
		ui.drawLanguage()
	case screenStart:
		ui.drawStart()
	case screenScene:
		ui.drawScene()
	}
	if ui.quitting {
		ui.drawDialog([]string{ui.session.Text("quit_confirm")}, colorText)
	}
}

func (ui *windowUI) drawLanguage() {
	w := int32(rl.GetScreenWidth())
	y := int32(rl.GetScreenHeight()) / 3
	drawCentered(ui.session.Text("language_title"), w, y, titleSize, colorAccent)
	for i, loc := range ui.locales {
		clr := colorText
		label := "  " + localeName(loc)
		if i == ui.selected {
			clr = colorAccent
			label = "> " + localeName(loc)
		}
		drawCentered(label, w, y+80+int32(i)*(choiceSize+16), choiceSize, clr)
	}
}

func (ui *windowUI) drawStart() {
	scen := ui.session.Engine().Scenario()
	w := int32(rl.GetScreenWidth())
	y := int32(rl.GetScreenHeight()) / 3
	drawCentered(scen.Name.In(ui.session.Locale(), scen.DefaultLocale), w, y, titleSize+8, colorAccent)
	drawCentered(ui.session.Text("start_prompt"), w, y+90, bodySize, colorDim)
}

func (ui *windowUI) drawScene() {
	v, err := ui.session.View()
	if err != nil {
		rl.DrawText(err.Error(), margin, margin, bodySize, colorError)
		return
	}
	w, h := int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight())
	textW := w - 2*margin
	measure := func(size int32) func(string) int32 {
		return func(s string) int32 { return rl.MeasureText(s, size) }
	}

	if v.IsEnding {
		upper := cases.Upper(language.Make(ui.session.Locale()))
		lines := []string{upper.String(v.Title), ""}
		lines = append(lines, wrapWords(v.Body, textW-2*margin, measure(bodySize))...)
		lines = append(lines, "", ui.session.StatusLine(), "", ui.session.Text("restart_prompt"))
		ui.drawDialog(lines, colorText)
		return
	}

	y := int32(margin)
	ui.drawImage(v.Image, rl.NewRectangle(float32(margin), float32(y), float32(textW), imageHeight))
	y += imageHeight + 16

	rl.DrawText(v.Title, margin, y, titleSize, colorAccent)
	y += titleSize + 12
	for _, line := range wrapWords(v.Body, textW, measure(bodySize)) {
		rl.DrawText(line, margin, y, bodySize, colorText)
		y += bodySize + lineGap
	}
	y += 16
	for _, choice := range v.NumberedChoices() {
		for _, line := range wrapWords(choice, textW, measure(choiceSize)) {
			rl.DrawText(line, margin, y, choiceSize, colorChoice)
			y += choiceSize + lineGap
		}
	}

	rl.DrawText(ui.session.StatusLine(), margin, h-margin-2*statusSize-8, statusSize, colorText)
	footer, clr := ui.session.Text("help"), colorDim
	if ui.notice != "" && time.Now().Before(ui.noticeUntil) {
		footer, clr = ui.notice, colorChoice
		if ui.noticeErr {
			clr = colorError
		}
	}
	rl.DrawText(footer, margin, h-margin-statusSize, statusSize, clr)
}

// drawImage draws the scene illustration, or a labelled placeholder when
// the file is missing.
func (ui *windowUI) drawImage(name string, dest rl.Rectangle) {
	tex := ui.texture(name)
	if tex.ID == 0 {
		rl.DrawRectangleLinesEx(dest, 2, colorDim)
		label := "[" + name + "]"
		rl.DrawText(label,
			int32(dest.X+dest.Width/2)-rl.MeasureText(label, statusSize)/2,
			int32(dest.Y+dest.Height/2)-statusSize/2,
			statusSize, colorDim)
		return
	}
	scale := min(dest.Width/float32(tex.Width), dest.Height/float32(tex.Height))
	fit := rl.NewRectangle(
		dest.X+(dest.Width-float32(tex.Width)*scale)/2,
		dest.Y,
		float32(tex.Width)*scale,
		float32(tex.Height)*scale)
	src := rl.NewRectangle(0, 0, float32(tex.Width), float32(tex.Height))
	rl.DrawTexturePro(tex, src, fit, rl.Vector2{}, 0, rl.White)
}

// texture loads an image once. Failures are remembered as an empty texture
// so a missing file is not retried every frame.
func (ui *windowUI) texture(name string) rl.Texture2D {
	if name == "" {
		return rl.Texture2D{}
	}
	if tex, ok := ui.textures[name]; ok {
		return tex
	}
	path := filepath.Join(ui.assetsDir, name)
	var tex rl.Texture2D
	if _, err := os.Stat(path); err != nil {
		ui.logger.Debug("Scene image missing", "path", path)
	} else {
		tex = rl.LoadTexture(path)
		rl.SetTextureFilter(tex, rl.FilterBilinear)
	}
	ui.textures[name] = tex
	return tex
}

func (ui *windowUI) unloadTextures() {
	for name, tex := range ui.textures {
		if tex.ID != 0 {
			rl.UnloadTexture(tex)
		}
		delete(ui.textures, name)
	}
}

// drawDialog shows lines in a centered panel over the current screen.
func (ui *windowUI) drawDialog(lines []string, clr rl.Color) {
	w, h := int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight())
	panelW := w - 4*margin
	panelH := int32(len(lines))*(bodySize+lineGap) + 2*margin
	x, y := (w-panelW)/2, (h-panelH)/2

	rl.DrawRectangle(x, y, panelW, panelH, colorPanel)
	rl.DrawRectangleLines(x, y, panelW, panelH, colorAccent)
	for i, line := range lines {
		c := clr
		if i == 0 {
			c = colorAccent
		}
		drawCentered(line, w, y+margin+int32(i)*(bodySize+lineGap), bodySize, c)
	}
}

func drawCentered(text string, screenW, y, size int32, clr rl.Color) {
	rl.DrawText(text, (screenW-rl.MeasureText(text, size))/2, y, size, clr)
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

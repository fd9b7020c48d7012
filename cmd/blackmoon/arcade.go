//go:build cgo

package main

import (
	"context"
	"errors"
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/jwebster45206/black-moon/pkg/arcade"
	"github.com/jwebster45206/black-moon/pkg/engine"
)

const hudHeight = 48

var errWindowClosed = errors.New("window closed during encounter")

var (
	colorField    = rl.NewColor(30, 30, 38, 255)
	colorRoad     = rl.NewColor(60, 60, 70, 255)
	colorPlayer   = rl.NewColor(60, 160, 255, 255)
	colorObstacle = rl.NewColor(220, 60, 60, 255)
	colorPickup   = rl.NewColor(250, 190, 40, 255)
	colorRival    = rl.NewColor(230, 80, 200, 255)
)

// windowRunner plays encounters inside the already open window. It takes
// over the frame loop until the encounter ends.
type windowRunner struct {
	text func(key string) string
}

var _ engine.EncounterRunner = (*windowRunner)(nil)

func (r *windowRunner) Run(ctx context.Context, enc *arcade.Encounter) error {
	for !enc.Done() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if rl.WindowShouldClose() {
			return errWindowClosed
		}

		enc.Tick(frameStep(rl.GetFrameTime()), sampleInput())

		rl.BeginDrawing()
		rl.ClearBackground(colorBG)
		r.draw(enc.Frame())
		rl.EndDrawing()
	}
	return nil
}

// sampleInput reads the keyboard once per frame. Steering is level
// triggered: the car moves for as long as a key is held.
func sampleInput() arcade.Input {
	var in arcade.Input
	if rl.IsKeyDown(rl.KeyLeft) || rl.IsKeyDown(rl.KeyA) {
		in.Dir--
	}
	if rl.IsKeyDown(rl.KeyRight) || rl.IsKeyDown(rl.KeyD) {
		in.Dir++
	}
	in.Cancel = rl.IsKeyPressed(rl.KeyEscape)
	return in
}

func (r *windowRunner) draw(f arcade.Frame) {
	w, h := int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight())
	x0, y0, scale := fitPlayfield(w, h, hudHeight, f.Width, f.Height)

	rect := func(box arcade.Rect, c rl.Color) {
		top := max(box.Y, 0)
		bottom := min(box.Bottom(), f.Height)
		if bottom <= top {
			return
		}
		rl.DrawRectangle(
			x0+int32(box.X*scale),
			y0+int32(top*scale),
			int32(box.W*scale),
			int32((bottom-top)*scale),
			c)
	}

	rect(arcade.Rect{W: f.Width, H: f.Height}, colorField)
	for i := 1; i < f.Lanes; i++ {
		lx := x0 + int32(f.Width*scale*float64(i)/float64(f.Lanes))
		rl.DrawLine(lx, y0, lx, y0+int32(f.Height*scale), colorRoad)
	}
	for _, o := range f.Obstacles {
		rect(o, colorObstacle)
	}
	for _, p := range f.Pickups {
		rect(p, colorPickup)
	}
	if f.Rival.Visible {
		rect(f.Rival.Box, colorRival)
	}
	rect(f.Player, colorPlayer)

	r.drawHUD(f, w)
}

func (r *windowRunner) drawHUD(f arcade.Frame, screenW int32) {
	text := r.text
	if text == nil {
		text = func(key string) string { return key }
	}

	title := text("pursuit_title")
	counter := fmt.Sprintf("%s: %.1fs", text("time_left"), f.HUD.Remaining.Seconds())
	if f.Kind == arcade.Collection {
		title = text("collection_title")
		counter = fmt.Sprintf("%s: %d/%d", text("collected"), f.HUD.Collected, f.HUD.Target)
	}

	rl.DrawText(title, margin, 12, 28, colorAccent)
	hud := fmt.Sprintf("%s: %d/%d   %s: %d   %s",
		text("hits"), f.HUD.Hits, f.HUD.HitLimit,
		text("status_health"), f.HUD.Health,
		counter)
	rl.DrawText(hud, screenW-margin-rl.MeasureText(hud, statusSize), 18, statusSize, colorText)
	help := text("encounter_help")
	rl.DrawText(help, margin, int32(rl.GetScreenHeight())-margin+8, statusSize, colorDim)
}

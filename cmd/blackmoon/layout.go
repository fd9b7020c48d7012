package main

import (
	"strings"
	"time"
)

// Window geometry.
const (
	windowWidth  = 960
	windowHeight = 720
	margin       = 32
	imageHeight  = 240
	titleSize    = 32
	bodySize     = 22
	choiceSize   = 22
	statusSize   = 18
	lineGap      = 6
)

// maxFrameStep caps the time fed to one encounter tick after a stall,
// e.g. while the window is being dragged.
const maxFrameStep = 100 * time.Millisecond

// frameStep converts raylib's frame time in seconds to a tick length.
func frameStep(seconds float32) time.Duration {
	d := time.Duration(float64(seconds) * float64(time.Second))
	return min(max(d, 0), maxFrameStep)
}

// fitPlayfield scales a field of fieldW x fieldH into the area below the
// HUD, keeping its aspect ratio and centering it horizontally.
func fitPlayfield(screenW, screenH, hud int32, fieldW, fieldH float64) (x, y int32, scale float64) {
	availW := float64(screenW - 2*margin)
	availH := float64(screenH - hud - 2*margin)
	scale = min(availW/fieldW, availH/fieldH)
	x = int32((float64(screenW) - fieldW*scale) / 2)
	y = hud + margin
	return x, y, scale
}

// wrapWords breaks text into lines no wider than maxWidth as reported by
// measure.
func wrapWords(text string, maxWidth int32, measure func(string) int32) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}
	lines := make([]string, 0, 8)
	current := words[0]
	for _, word := range words[1:] {
		candidate := current + " " + word
		if measure(candidate) <= maxWidth {
			current = candidate
			continue
		}
		lines = append(lines, current)
		current = word
	}
	return append(lines, current)
}

// digitChoice maps a pressed digit key code to choice 1..9. ok is false for
// any other key.
func digitChoice(key, keyOne int32) (int, bool) {
	n := int(key-keyOne) + 1
	if n < 1 || n > 9 {
		return 0, false
	}
	return n, true
}

package arcade

import (
	"context"
	"errors"
	"time"
)

// ErrTickLimit is returned when a headless run does not finish within its
// tick budget.
var ErrTickLimit = errors.New("encounter did not finish within tick limit")

// InputSource decides the player input for the next tick from the
// current frame.
type InputSource interface {
	Next(f Frame) Input
}

// InputFunc adapts a function to InputSource.
type InputFunc func(f Frame) Input

func (fn InputFunc) Next(f Frame) Input { return fn(f) }

// Idle never moves and never cancels.
var Idle = InputFunc(func(Frame) Input { return Input{} })

// Script plays back a fixed sequence of inputs, one per tick, then idles.
type Script struct {
	inputs []Input
	pos    int
}

func NewScript(inputs ...Input) *Script {
	return &Script{inputs: inputs}
}

func (s *Script) Next(Frame) Input {
	if s.pos >= len(s.inputs) {
		return Input{}
	}
	in := s.inputs[s.pos]
	s.pos++
	return in
}

// FixedStepRunner drives an encounter without a display, advancing it by
// Step per tick. It is used by tests and by headless builds.
type FixedStepRunner struct {
	Step     time.Duration
	Input    InputSource
	MaxTicks int // 0 means no limit
}

// NewFixedStepRunner ticks at fps frames per second with no player input.
func NewFixedStepRunner(fps int) *FixedStepRunner {
	if fps <= 0 {
		fps = 60
	}
	return &FixedStepRunner{
		Step:     time.Second / time.Duration(fps),
		Input:    Idle,
		MaxTicks: 600 * fps,
	}
}

// Run ticks e until it finishes, ctx is cancelled or the tick limit is hit.
func (r *FixedStepRunner) Run(ctx context.Context, e *Encounter) error {
	input := r.Input
	if input == nil {
		input = Idle
	}
	for n := 0; !e.Done(); n++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if r.MaxTicks > 0 && n >= r.MaxTicks {
			return ErrTickLimit
		}
		e.Tick(r.Step, input.Next(e.Frame()))
	}
	return nil
}

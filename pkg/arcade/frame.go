package arcade

import "time"

// Frame is a read-only snapshot of an encounter for rendering.
type Frame struct {
	Kind      Kind
	Width     float64
	Height    float64
	Lanes     int
	Player    Rect
	Obstacles []Rect
	Pickups   []Rect
	Rival     Rival
	HUD       HUD
	Result    Result
}

// HUD carries the counters shown over the playfield.
type HUD struct {
	Hits      int
	HitLimit  int
	Collected int
	Target    int           // Collection only
	Remaining time.Duration // Pursuit only
	Health    int
}

// Frame returns a copy of the current playfield.
func (e *Encounter) Frame() Frame {
	f := Frame{
		Kind:      e.kind,
		Width:     e.cfg.Width,
		Height:    e.cfg.Height,
		Lanes:     e.cfg.Lanes,
		Player:    e.player,
		Obstacles: append([]Rect(nil), e.obstacles...),
		Pickups:   append([]Rect(nil), e.pickups...),
		Rival:     e.rival,
		Result:    e.result,
		HUD: HUD{
			Hits:     e.hits,
			HitLimit: e.cfg.HitLimit,
			Health:   e.gs.Health,
		},
	}
	switch e.kind {
	case Pursuit:
		f.HUD.Remaining = max(e.cfg.PursuitLength-e.elapsed, 0)
	case Collection:
		f.HUD.Collected = e.collected
		f.HUD.Target = e.cfg.CollectTarget
	}
	return f
}

package arcade

import "time"

// Config holds the playfield geometry and the rules shared by both
// encounter kinds. Units are abstract playfield units; frontends scale them.
type Config struct {
	Width  float64
	Height float64
	Lanes  int

	PlayerW, PlayerY, PlayerH float64
	PlayerStep                float64 // lateral units per tick while a direction is held

	ObstacleW, ObstacleH float64
	ObstacleEvery        time.Duration
	ObstacleStep         float64 // downward units per tick

	PickupW, PickupH float64
	PickupEvery      time.Duration
	PickupStep       float64

	RivalW, RivalH, RivalY float64
	RivalChance            float64 // per tick, while hidden
	RivalVisible           time.Duration

	HitLimit      int
	PursuitLength time.Duration
	CollectTarget int
}

// DefaultConfig returns the standard Black Moon encounter tuning.
func DefaultConfig() Config {
	return Config{
		Width:  480,
		Height: 640,
		Lanes:  3,

		PlayerW:    60,
		PlayerH:    90,
		PlayerY:    520,
		PlayerStep: 8,

		ObstacleW:     60,
		ObstacleH:     90,
		ObstacleEvery: 700 * time.Millisecond,
		ObstacleStep:  6,

		PickupW:     40,
		PickupH:     40,
		PickupEvery: 900 * time.Millisecond,
		PickupStep:  6,

		RivalW:       60,
		RivalH:       90,
		RivalY:       24,
		RivalChance:  0.01,
		RivalVisible: 2 * time.Second,

		HitLimit:      3,
		PursuitLength: 18 * time.Second,
		CollectTarget: 10,
	}
}

// laneWidth is the horizontal span of one spawn lane.
func (c Config) laneWidth() float64 {
	return c.Width / float64(c.Lanes)
}

// laneX returns the left edge that centers a box of width w in lane.
func (c Config) laneX(lane int, w float64) float64 {
	lw := c.laneWidth()
	return float64(lane)*lw + (lw-w)/2
}

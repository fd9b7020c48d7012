package arcade

import (
	"fmt"
	"time"

	"github.com/jwebster45206/black-moon/pkg/state"
)

// Kind selects the rule set of an encounter.
type Kind int

const (
	// Pursuit is the lane-avoidance drive: survive until the timer runs out.
	Pursuit Kind = iota
	// Collection is the pickup race: gather enough pickups before crashing.
	Collection
)

func (k Kind) String() string {
	switch k {
	case Pursuit:
		return "pursuit"
	case Collection:
		return "collection"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Sentinel returns the scene id that starts an encounter of this kind.
func (k Kind) Sentinel() string {
	if k == Collection {
		return state.EncounterCollection
	}
	return state.EncounterPursuit
}

// KindOf maps an encounter sentinel to its kind.
func KindOf(sentinel string) (Kind, error) {
	switch sentinel {
	case state.EncounterPursuit:
		return Pursuit, nil
	case state.EncounterCollection:
		return Collection, nil
	}
	return 0, fmt.Errorf("%q is not an encounter", sentinel)
}

// Result is how an encounter ended, or Running while it has not.
// Failed is a lost pursuit (health penalty, story continues); Defeated is a
// lost collection race (routed to the defeated ending).
type Result int

const (
	Running Result = iota
	Succeeded
	Failed
	Defeated
	Cancelled
)

func (r Result) String() string {
	switch r {
	case Running:
		return "running"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	case Defeated:
		return "defeated"
	case Cancelled:
		return "cancelled"
	}
	return fmt.Sprintf("result(%d)", int(r))
}

// Input is the player intent sampled for one tick.
type Input struct {
	Dir    int // -1 left, +1 right, 0 hold position
	Cancel bool
}

// Rival is the pursuer that shows up from time to time during a pursuit.
type Rival struct {
	Visible   bool
	Box       Rect
	Remaining time.Duration
}

// Encounter is one running arcade sequence. It owns its transient entities
// and writes the outcome into the game state when it terminates.
type Encounter struct {
	kind    Kind
	cfg     Config
	spawner Spawner
	gs      *state.GameState

	elapsed       time.Duration
	obstacleClock time.Duration
	pickupClock   time.Duration
	ticks         int

	player    Rect
	obstacles []Rect
	pickups   []Rect
	rival     Rival

	hits      int
	collected int
	result    Result
}

// New prepares an encounter of the given kind against gs. The encounter
// resumes the story at gs.ReturnScene, or at the kind's default scene when
// that is unset.
func New(kind Kind, gs *state.GameState, cfg Config, spawner Spawner) *Encounter {
	return &Encounter{
		kind:    kind,
		cfg:     cfg,
		spawner: spawner,
		gs:      gs,
		player: Rect{
			X: cfg.laneX(cfg.Lanes/2, cfg.PlayerW),
			Y: cfg.PlayerY,
			W: cfg.PlayerW,
			H: cfg.PlayerH,
		},
	}
}

func (e *Encounter) Kind() Kind { return e.kind }
func (e *Encounter) Result() Result { return e.result }
func (e *Encounter) Done() bool { return e.result != Running }
func (e *Encounter) Hits() int { return e.hits }
func (e *Encounter) Collected() int { return e.collected }
func (e *Encounter) Ticks() int { return e.ticks }
func (e *Encounter) Elapsed() time.Duration { return e.elapsed }
func (e *Encounter) Config() Config { return e.cfg }

// Tick advances the simulation by one frame of real-time length dt.
// Once the encounter is done further ticks do nothing.
func (e *Encounter) Tick(dt time.Duration, in Input) Result {
	if e.Done() {
		return e.result
	}
	if in.Cancel {
		e.Cancel()
		return e.result
	}
	e.ticks++

	if in.Dir != 0 {
		step := e.cfg.PlayerStep
		if in.Dir < 0 {
			step = -step
		}
		e.player.X = clamp(e.player.X+step, 0, e.cfg.Width-e.player.W)
	}

	e.elapsed += dt
	e.spawn(dt)
	e.move()
	e.collide()
	e.discard()
	if e.kind == Pursuit {
		e.updateRival(dt)
	}
	e.checkEnd()
	return e.result
}

// Cancel ends a running encounter without any penalty.
func (e *Encounter) Cancel() {
	if e.Done() {
		return
	}
	e.finish(Cancelled, e.returnScene())
}

func (e *Encounter) spawn(dt time.Duration) {
	e.obstacleClock += dt
	for e.obstacleClock >= e.cfg.ObstacleEvery {
		e.obstacleClock -= e.cfg.ObstacleEvery
		lane := e.spawner.Lane(EntityObstacle, e.cfg.Lanes)
		e.obstacles = append(e.obstacles, Rect{
			X: e.cfg.laneX(lane, e.cfg.ObstacleW),
			Y: -e.cfg.ObstacleH,
			W: e.cfg.ObstacleW,
			H: e.cfg.ObstacleH,
		})
	}

	if e.kind != Collection {
		return
	}
	e.pickupClock += dt
	for e.pickupClock >= e.cfg.PickupEvery {
		e.pickupClock -= e.cfg.PickupEvery
		lane := e.spawner.Lane(EntityPickup, e.cfg.Lanes)
		e.pickups = append(e.pickups, Rect{
			X: e.cfg.laneX(lane, e.cfg.PickupW),
			Y: -e.cfg.PickupH,
			W: e.cfg.PickupW,
			H: e.cfg.PickupH,
		})
	}
}

func (e *Encounter) move() {
	for i := range e.obstacles {
		e.obstacles[i].Y += e.cfg.ObstacleStep
	}
	for i := range e.pickups {
		e.pickups[i].Y += e.cfg.PickupStep
	}
}

func (e *Encounter) collide() {
	kept := e.obstacles[:0]
	for _, o := range e.obstacles {
		if o.Overlaps(e.player) {
			e.hits++
			continue
		}
		kept = append(kept, o)
	}
	e.obstacles = kept

	keptPickups := e.pickups[:0]
	for _, p := range e.pickups {
		if p.Overlaps(e.player) {
			e.collected++
			continue
		}
		keptPickups = append(keptPickups, p)
	}
	e.pickups = keptPickups
}

// discard drops entities that have left the bottom of the playfield.
func (e *Encounter) discard() {
	e.obstacles = onField(e.obstacles, e.cfg.Height)
	e.pickups = onField(e.pickups, e.cfg.Height)
}

func onField(rs []Rect, height float64) []Rect {
	kept := rs[:0]
	for _, r := range rs {
		if r.Y < height {
			kept = append(kept, r)
		}
	}
	return kept
}

func (e *Encounter) updateRival(dt time.Duration) {
	if e.rival.Visible {
		e.rival.Remaining -= dt
		if e.rival.Remaining <= 0 {
			e.rival = Rival{}
		}
		return
	}
	if !e.spawner.Chance(e.cfg.RivalChance) {
		return
	}
	lane := e.spawner.Lane(EntityRival, e.cfg.Lanes)
	e.rival = Rival{
		Visible:   true,
		Remaining: e.cfg.RivalVisible,
		Box: Rect{
			X: e.cfg.laneX(lane, e.cfg.RivalW),
			Y: e.cfg.RivalY,
			W: e.cfg.RivalW,
			H: e.cfg.RivalH,
		},
	}
}

// checkEnd applies the termination rules. The hit limit is checked first,
// so a crash and a win on the same tick count as a crash.
func (e *Encounter) checkEnd() {
	switch e.kind {
	case Pursuit:
		switch {
		case e.hits >= e.cfg.HitLimit:
			e.gs.Damage()
			e.finish(Failed, e.returnScene())
		case e.elapsed >= e.cfg.PursuitLength:
			e.finish(Succeeded, e.returnScene())
		}
	case Collection:
		switch {
		case e.hits >= e.cfg.HitLimit:
			e.gs.Damage()
			e.finish(Defeated, state.EndingDefeated)
		case e.collected >= e.cfg.CollectTarget:
			e.finish(Succeeded, e.returnScene())
		}
	}
}

func (e *Encounter) returnScene() string {
	if e.gs.ReturnScene != "" {
		return e.gs.ReturnScene
	}
	return state.DefaultReturn(e.kind.Sentinel())
}

func (e *Encounter) finish(r Result, scene string) {
	e.result = r
	e.gs.Scene = scene
	e.gs.ReturnScene = ""
	e.obstacles = nil
	e.pickups = nil
	e.rival = Rival{}
}

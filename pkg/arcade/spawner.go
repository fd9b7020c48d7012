package arcade

import (
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"time"
)

// Entity names what is being spawned, so a Spawner can treat them apart.
type Entity int

const (
	EntityObstacle Entity = iota
	EntityPickup
	EntityRival
)

func (e Entity) String() string {
	switch e {
	case EntityObstacle:
		return "obstacle"
	case EntityPickup:
		return "pickup"
	case EntityRival:
		return "rival"
	}
	return fmt.Sprintf("entity(%d)", int(e))
}

// Spawner supplies the randomness of an encounter: which lane a new entity
// appears in and whether a per-tick chance fires.
type Spawner interface {
	Lane(e Entity, lanes int) int
	Chance(p float64) bool
}

// RandomSpawner draws from a seeded PCG generator.
type RandomSpawner struct {
	rng *rand.Rand
}

// NewRandomSpawner returns a spawner seeded from seed. Seed 0 seeds from
// the clock, so every run differs.
func NewRandomSpawner(seed int64) *RandomSpawner {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	// #nosec G404 -- gameplay randomness, not security sensitive.
	return &RandomSpawner{rng: rand.New(rand.NewPCG(seedWord(seed, "lane"), seedWord(seed, "chance")))}
}

func (s *RandomSpawner) Lane(_ Entity, lanes int) int {
	return s.rng.IntN(lanes)
}

func (s *RandomSpawner) Chance(p float64) bool {
	return s.rng.Float64() < p
}

func seedWord(seed int64, salt string) uint64 {
	h := fnv.New64a()
	_, _ = fmt.Fprintf(h, "%d:%s", seed, salt)
	return h.Sum64()
}

// FixedSpawner always spawns each entity kind in the same lane. It makes
// encounters fully deterministic for tests and headless runs.
type FixedSpawner struct {
	ObstacleLane int
	PickupLane   int
	RivalLane    int
	Rival        bool // whether the rival chance ever fires
}

func (s FixedSpawner) Lane(e Entity, lanes int) int {
	lane := s.ObstacleLane
	switch e {
	case EntityPickup:
		lane = s.PickupLane
	case EntityRival:
		lane = s.RivalLane
	}
	return min(max(lane, 0), lanes-1)
}

func (s FixedSpawner) Chance(float64) bool {
	return s.Rival
}

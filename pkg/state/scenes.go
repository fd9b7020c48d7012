package state

// Terminal scene ids. Ending scenes are ordinary graph nodes without choices.
const (
	EndingCoward   = "E_COWARD"
	EndingTime     = "E_TIME"
	EndingDefeated = "E_DEAD"
	EndingVirtuous = "E_GOOD"
	EndingGreedy   = "E_GREED"
)

// Encounter sentinels are valid destinations but never graph nodes.
// The stepper intercepts them and runs the matching arcade encounter.
const (
	EncounterPursuit    = "MINIGAME_CHASE"
	EncounterCollection = "MINIGAME_COLLECT"
)

var endings = []string{EndingCoward, EndingTime, EndingDefeated, EndingVirtuous, EndingGreedy}

// Endings returns the five terminal scene ids.
func Endings() []string {
	out := make([]string, len(endings))
	copy(out, endings)
	return out
}

// IsEnding reports whether id is a terminal scene.
func IsEnding(id string) bool {
	for _, e := range endings {
		if e == id {
			return true
		}
	}
	return false
}

// IsEncounter reports whether id is an arcade encounter sentinel.
func IsEncounter(id string) bool {
	return id == EncounterPursuit || id == EncounterCollection
}

// defaultReturns is where the narrative resumes after an encounter when the
// choice that started it did not name a return scene.
var defaultReturns = map[string]string{
	EncounterPursuit:    "S5A",
	EncounterCollection: "S10",
}

// DefaultReturn returns the fallback resume scene for an encounter sentinel.
func DefaultReturn(encounter string) string {
	return defaultReturns[encounter]
}

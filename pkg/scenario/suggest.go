package scenario

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// suggest returns the candidate closest to id, or "" when nothing is
// within an edit distance that still reads as a typo.
func suggest(id string, candidates []string) string {
	if id == "" {
		return ""
	}
	best := ""
	bestDist := -1
	for _, cand := range candidates {
		dist := levenshtein.ComputeDistance(strings.ToUpper(id), strings.ToUpper(cand))
		if dist > distanceLimit(len(cand)) {
			continue
		}
		if bestDist < 0 || dist < bestDist || (dist == bestDist && cand < best) {
			best, bestDist = cand, dist
		}
	}
	return best
}

func distanceLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}

package state

import (
	"math/rand/v2"

	"k8s.io/klog/v2"
)

const (
	// MinInitialFences scattered on the board at the start of a match.
	MinInitialFences = 9

	// MaxInitialFences scattered on the board at the start of a match.
	MaxInitialFences = 15
)

// NewRandomGameState creates a new match: the cat in the center, and a random number (from
// MinInitialFences to MaxInitialFences) of fences scattered on distinct random cells.
//
// Pass a seeded rng to reproduce a match.
func NewRandomGameState(rng *rand.Rand) *GameState {
	s := NewGameState()
	numFences := MinInitialFences + rng.IntN(MaxInitialFences-MinInitialFences+1)
	s.ScatterFences(rng, numFences)
	return s
}

// ScatterFences places numFences fences on distinct random empty cells.
// If there are fewer empty cells than numFences, all of them are fenced.
func (s *GameState) ScatterFences(rng *rand.Rand, numFences int) {
	candidates := s.EmptyCells()
	rng.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	if numFences > len(candidates) {
		numFences = len(candidates)
	}
	for _, pos := range candidates[:numFences] {
		s.PlaceFence(pos)
	}
	if klog.V(2).Enabled() {
		klog.Infof("Scattered %d fences: %v", numFences, PosStrings(candidates[:numFences]))
	}
}

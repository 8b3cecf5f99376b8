package searchers

import (
	"context"
	"math/rand/v2"
	"slices"

	"github.com/chewxy/math32"
	"github.com/gomlx/exceptions"
	"github.com/hexcat/trapcat/internal/ai"
	. "github.com/hexcat/trapcat/internal/state"
	"k8s.io/klog/v2"
)

// NewRandomizedSearcher adds randomness to the action taken by an existing Searcher, to make the AI less predictable
// (and beatable).
//
// Args:
//
//   - searcher: Baseline Searcher. It must return the scores of each action, otherwise no randomness is added.
//   - randomness (>=0): Amount of randomness to use: the action is sampled from the softmax of the scores divided
//     by randomness*ai.HeuristicBound, except if there is a winning action.
//     The larger the value the more it leads to randomness (exploration), and lower values
//     lead to "pick the best scoring move" (exploitation), with zero meaning no randomness.
//   - rng: source of randomness. If nil, the global math/rand/v2 source is used.
func NewRandomizedSearcher(searcher Searcher, randomness float32, rng *rand.Rand) Searcher {
	if randomness <= 0 {
		// Without randomness, simply return the original Searcher.
		return searcher
	}
	return &randomizedSearcher{searcher: searcher, randomness: randomness, rng: rng}
}

// randomizedSearcher is a meta Searcher, that introduces randomness to its choices.
type randomizedSearcher struct {
	searcher   Searcher
	randomness float32
	rng        *rand.Rand
}

// Assert randomizedSearcher is a Searcher.
var _ Searcher = &randomizedSearcher{}

func (rs *randomizedSearcher) float32() float32 {
	if rs.rng == nil {
		return rand.Float32()
	}
	return rs.rng.Float32()
}

// Search implements the Searcher interface.
func (rs *randomizedSearcher) Search(ctx context.Context, s *GameState, side Side) (
	chosenAction Action, score int, actionsScores []int, err error) {
	chosenAction, score, actionsScores, err = rs.searcher.Search(ctx, s, side)
	if err != nil {
		return
	}

	// If the searcher doesn't return scores for the different actions, or if there is only one action possible,
	// or if it is a winning move, we don't add any randomness.
	if len(actionsScores) <= 1 || isWinFor(side, score) {
		return
	}
	actions := s.Actions(side)
	if len(actionsScores) != len(actions) {
		exceptions.Panicf("randomizedSearcher: Searcher returned %d actionsScores, but state has %d actions for %s!?",
			len(actionsScores), len(actions), side)
	}

	// Calculate probability for each action, from the point of view of side.
	sign := float32(1)
	if side == SideFence {
		sign = -1
	}
	logits := make([]float32, len(actionsScores))
	for ii, actionScore := range actionsScores {
		logits[ii] = sign * float32(actionScore) / (rs.randomness * ai.HeuristicBound)
	}
	probabilities := softmax(logits)

	// Select from probabilities.
	chance := rs.float32()
	for actionIdx, value := range probabilities {
		if chance > value && actionIdx < len(probabilities)-1 {
			chance -= value
			continue
		}

		// Found the new action:
		if klog.V(2).Enabled() {
			klog.Infof("randomizedSearcher selection: action=%s, score=%d, p=%.3f",
				actions[actionIdx], actionsScores[actionIdx], value)
		}
		return actions[actionIdx], actionsScores[actionIdx], actionsScores, nil
	}
	// It should not reach here.
	exceptions.Panicf("Nothing selected!? remaining chance=%f, probabilities=%v", chance, probabilities)
	return
}

// isWinFor returns whether score is a win for side.
func isWinFor(side Side, score int) bool {
	return ai.IsWinScore(score) && IsBetter(side, score, 0)
}

func softmax(values []float32) (probs []float32) {
	probs = make([]float32, len(values))
	var sum float32

	// Subtracting maxValue from all values keeps the probabilities the same, but makes for more numerically stable
	// values.
	maxValue := slices.Max(values)
	for ii, value := range values {
		probs[ii] = math32.Exp(value - maxValue)
		sum += probs[ii]
	}
	for ii := range probs {
		probs[ii] /= sum
	}
	return
}

// Package searchers defines the interface of the search algorithms that choose the
// next action, for either side.
package searchers

import (
	"context"

	. "github.com/hexcat/trapcat/internal/state"
)

// Searcher is the interface that any of the search algorithms
// must adhere to be valid.
type Searcher interface {
	// Search returns the next action for side on the given state, along with the expected score of
	// taking that action (from the cat's point of view).
	//
	// If side has no action available it returns NoAction, and no error.
	//
	// Optionally, it can also return the score for each of the actions in s.Actions(side).
	// Some algorithms (e.g.: alpha-beta pruning) don't provide good approximations to those, so they return it nil.
	//
	// It returns ctx.Err() if the context is cancelled before the search finishes.
	Search(ctx context.Context, s *GameState, side Side) (action Action, score int, actionsScores []int, err error)
}

// IsBetter returns whether score is strictly better than bestScore for side: the cat maximizes
// and the fences minimize. Ties are never better, so searchers keep the first action found.
func IsBetter(side Side, score, bestScore int) bool {
	if side == SideCat {
		return score > bestScore
	}
	return score < bestScore
}

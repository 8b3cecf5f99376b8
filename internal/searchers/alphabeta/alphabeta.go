// Package alphabeta implements an opt-in alpha-beta pruning version of the minimax search.
//
// It chooses the same actions, with the same scores, as package minimax, but it visits far fewer
// nodes, so it can search deeper in the same time. Because pruned actions only get a bound
// of their score, it doesn't return the scores of the individual actions.
//
// See: wikipedia.org/wiki/Alpha-beta_pruning
package alphabeta

import (
	"context"
	"fmt"
	"iter"
	"math"
	"time"

	"github.com/gomlx/exceptions"
	"github.com/hexcat/trapcat/internal/ai"
	"github.com/hexcat/trapcat/internal/searchers"
	. "github.com/hexcat/trapcat/internal/state"
	"k8s.io/klog/v2"
)

// DefaultMaxDepth for search, in plies.
const DefaultMaxDepth = 3

const ctxCheckInterval = 1024

// Searcher implements the searchers.Searcher interface.
type Searcher struct {
	maxDepth int
	scorer   ai.ValueScorer
	stats    Stats
	visits   int
}

// Assert that Searcher implements searchers.Searcher.
var _ searchers.Searcher = (*Searcher)(nil)

// Stats stores running stats collected during the search: for benchmarking, monitoring and debugging purposes.
type Stats struct {
	// Nodes "played" during search: one per action applied to a cloned state.
	Nodes int

	Evals     int
	LeafEvals int
	Prunes    int
}

// New returns an Alpha-Beta Pruning based searchers.Searcher implementation.
//
// The one obligatory parameter is the scorer used for the leaves of the search.
func New(scorer ai.ValueScorer) *Searcher {
	return &Searcher{
		scorer:   scorer,
		maxDepth: DefaultMaxDepth,
	}
}

// WithMaxDepth sets the max depth of search, in plies. Values < 1 are treated as 1.
//
// The default is 3 (DefaultMaxDepth).
func (ab *Searcher) WithMaxDepth(maxDepth int) *Searcher {
	ab.maxDepth = max(maxDepth, 1)
	return ab
}

// MaxDepth returns the configured max depth.
func (ab *Searcher) MaxDepth() int {
	return ab.maxDepth
}

// Stats of the last search.
func (ab *Searcher) Stats() Stats {
	return ab.stats
}

// String returns a description of the searcher.
func (ab *Searcher) String() string {
	return fmt.Sprintf("alpha-beta(depth=%d, %s)", ab.maxDepth, ab.scorer)
}

// Search implements the searchers.Searcher interface.
//
// It returns actionsScores always nil, because pruned actions only have a bound on their score.
func (ab *Searcher) Search(ctx context.Context, s *GameState, side Side) (
	bestAction Action, bestScore int, actionsScores []int, err error) {
	start := time.Now()
	ab.stats = Stats{}
	ab.visits = 0
	actions := s.Actions(side)
	if len(actions) == 0 {
		ab.stats.Evals++
		return NoAction, ab.scorer.Score(s), nil, nil
	}

	alpha, beta := math.MinInt, math.MaxInt
	bestAction = NoAction
	bestScore = math.MinInt
	if side == SideFence {
		bestScore = math.MaxInt
	}
	for _, action := range actions {
		if err = ctx.Err(); err != nil {
			return NoAction, 0, nil, err
		}
		newS := s.Clone()
		if !newS.Act(action) {
			exceptions.Panicf("alphabeta: generated action %s rejected by the state", action)
		}
		ab.stats.Nodes++
		var score int
		score, err = ab.recursion(ctx, newS, ab.maxDepth-1, alpha, beta, side == SideFence)
		if err != nil {
			return NoAction, 0, nil, err
		}
		// Actions not strictly better than the best so far return only a bound, and are never taken.
		if searchers.IsBetter(side, score, bestScore) {
			bestScore = score
			bestAction = action
			if side == SideCat {
				alpha = bestScore
			} else {
				beta = bestScore
			}
		}
	}

	if klog.V(2).Enabled() {
		elapsedTime := time.Since(start).Seconds()
		klog.Infof("alpha-beta(%s): best action %s, score=%d", side, bestAction, bestScore)
		klog.Infof("  counts: %+v, nodes/s=%.1f", ab.stats, float64(ab.stats.Nodes)/elapsedTime)
	}
	return
}

func (ab *Searcher) evaluate(s *GameState) int {
	ab.stats.Evals++
	return ab.scorer.Score(s)
}

// recursion of the alpha-beta pruning algorithm, with depthLeft plies to go.
// alpha is the score the cat is already assured of, and beta the score the fences are assured of.
func (ab *Searcher) recursion(ctx context.Context, s *GameState, depthLeft int, alpha, beta int, maximizing bool) (int, error) {
	ab.visits++
	if ab.visits%ctxCheckInterval == 0 {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
	}
	if depthLeft <= 0 {
		ab.stats.LeafEvals++
		return ab.evaluate(s), nil
	}
	if s.IsFinished() {
		return ab.evaluate(s), nil
	}

	if maximizing {
		bestScore := math.MinInt
		for move := range s.ValidCatMovesIter() {
			newS := s.Clone()
			newS.MoveCat(move)
			ab.stats.Nodes++
			score, err := ab.recursion(ctx, newS, depthLeft-1, alpha, beta, false)
			if err != nil {
				return 0, err
			}
			bestScore = max(bestScore, score)
			alpha = max(alpha, bestScore)
			if alpha >= beta {
				ab.stats.Prunes++
				break
			}
		}
		if bestScore == math.MinInt {
			return ab.evaluate(s), nil
		}
		return bestScore, nil
	}

	bestScore := math.MaxInt
	for pos := range fenceCandidates(s) {
		newS := s.Clone()
		newS.PlaceFence(pos)
		ab.stats.Nodes++
		score, err := ab.recursion(ctx, newS, depthLeft-1, alpha, beta, true)
		if err != nil {
			return 0, err
		}
		bestScore = min(bestScore, score)
		beta = min(beta, bestScore)
		if alpha >= beta {
			ab.stats.Prunes++
			break
		}
	}
	if bestScore == math.MaxInt {
		return ab.evaluate(s), nil
	}
	return bestScore, nil
}

// fenceCandidates iterates over all empty cells, starting with those next to the cat: they are
// usually the best placements, which leads to earlier pruning.
func fenceCandidates(s *GameState) iter.Seq[Pos] {
	return func(yield func(Pos) bool) {
		catPos := s.CatPos()
		for pos := range s.ValidCatMovesIter() {
			if !yield(pos) {
				return
			}
		}
		for pos := range s.EmptyCellsIter() {
			if catPos.IsNeighbour(pos) {
				continue
			}
			if !yield(pos) {
				return
			}
		}
	}
}

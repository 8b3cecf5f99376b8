// Package minimax implements the exhaustive fixed-depth minimax search: the default searcher.
//
// The cat maximizes the score, and the fences minimize it. There is no pruning: every
// valid cat move and every empty cell (as a fence placement) is explored up to the depth limit.
// Each explored node works on its own clone of the GameState.
package minimax

import (
	"context"
	"fmt"
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

// ctxCheckInterval is the number of nodes visited between checks of the context cancellation.
const ctxCheckInterval = 1024

// FindBestMove returns the cat move with the best minimax score, searching depthLimit plies
// (including the cat's move). Ties are broken by taking the first move in the order of
// Pos.Neighbours.
//
// It returns false if the cat has no valid moves.
func FindBestMove(s *GameState, depthLimit int) (move Pos, found bool) {
	action, _, _, err := New(ai.EdgeDistance{}).WithMaxDepth(depthLimit).Search(context.Background(), s, SideCat)
	if err != nil {
		// Background context is never cancelled.
		exceptions.Panicf("minimax.FindBestMove failed: %+v", err)
	}
	if action.IsNoAction() {
		return Pos{}, false
	}
	return action.Pos, true
}

// Minimax returns the score of the state searched up to depth plies, using Evaluate to score the leaves.
// If maximizing it's the cat's turn, otherwise it's the fences' turn.
func Minimax(s *GameState, depth int, maximizing bool) int {
	m := New(ai.EdgeDistance{})
	score, _ := m.recursion(context.Background(), s, depth, maximizing)
	return score
}

// Searcher implements the searchers.Searcher interface with the exhaustive minimax algorithm.
type Searcher struct {
	maxDepth int
	scorer   ai.ValueScorer
	stats    Stats

	// visits since the start of the search, used to poll the context.
	visits int
}

// Assert that Searcher implements searchers.Searcher.
var _ searchers.Searcher = (*Searcher)(nil)

// Stats stores running stats collected during the search: for benchmarking, monitoring and debugging purposes.
type Stats struct {
	// Nodes "played" during search: one per action applied to a cloned state.
	Nodes int

	// Evals counts calls to the scorer, end-of-game states included.
	Evals int

	// LeafEvals counts evaluations because the depth limit was reached.
	LeafEvals int
}

// New returns a minimax based searchers.Searcher implementation, scoring leaves with scorer.
// See Searcher.WithMaxDepth for other configuration.
func New(scorer ai.ValueScorer) *Searcher {
	return &Searcher{
		scorer:   scorer,
		maxDepth: DefaultMaxDepth,
	}
}

// WithMaxDepth sets the max depth of search: the unit here are plies (ply singular). Each side
// playing counts as one ply, including the move being chosen. Values < 1 are treated as 1.
//
// The default is 3 (DefaultMaxDepth).
func (m *Searcher) WithMaxDepth(maxDepth int) *Searcher {
	m.maxDepth = max(maxDepth, 1)
	return m
}

// MaxDepth returns the configured max depth.
func (m *Searcher) MaxDepth() int {
	return m.maxDepth
}

// Stats of the last search.
func (m *Searcher) Stats() Stats {
	return m.stats
}

// String returns a description of the searcher.
func (m *Searcher) String() string {
	return fmt.Sprintf("minimax(depth=%d, %s)", m.maxDepth, m.scorer)
}

// Search implements searchers.Searcher.
//
// For the cat, it tries every valid move and keeps the one with the strictly greatest score.
// For the fences, it tries every empty cell and keeps the one with the strictly lowest score.
// Either way ties keep the first action, in the order of GameState.Actions.
func (m *Searcher) Search(ctx context.Context, s *GameState, side Side) (
	bestAction Action, bestScore int, actionsScores []int, err error) {
	start := time.Now()
	m.stats = Stats{}
	m.visits = 0
	actions := s.Actions(side)
	if len(actions) == 0 {
		return NoAction, m.evaluate(s), nil, nil
	}

	bestAction = NoAction
	bestScore = math.MinInt
	if side == SideFence {
		bestScore = math.MaxInt
	}
	actionsScores = make([]int, len(actions))
	for actionIdx, action := range actions {
		if err = ctx.Err(); err != nil {
			return NoAction, 0, nil, err
		}
		newS := s.Clone()
		if !newS.Act(action) {
			exceptions.Panicf("minimax: generated action %s rejected by the state", action)
		}
		m.stats.Nodes++
		var score int
		score, err = m.recursion(ctx, newS, m.maxDepth-1, side == SideFence)
		if err != nil {
			return NoAction, 0, nil, err
		}
		actionsScores[actionIdx] = score
		if searchers.IsBetter(side, score, bestScore) {
			bestScore = score
			bestAction = action
		}
	}

	if klog.V(2).Enabled() {
		elapsedTime := time.Since(start).Seconds()
		klog.Infof("minimax(%s): best action %s, score=%d", side, bestAction, bestScore)
		klog.Infof("  counts: %+v, nodes/s=%.1f", m.stats, float64(m.stats.Nodes)/elapsedTime)
	}
	return
}

// evaluate counts and scores the state.
func (m *Searcher) evaluate(s *GameState) int {
	m.stats.Evals++
	return m.scorer.Score(s)
}

// recursion of the minimax algorithm, with depthLeft plies to go.
// If maximizing, it's the cat's turn.
func (m *Searcher) recursion(ctx context.Context, s *GameState, depthLeft int, maximizing bool) (int, error) {
	m.visits++
	if m.visits%ctxCheckInterval == 0 {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
	}
	if depthLeft <= 0 {
		m.stats.LeafEvals++
		return m.evaluate(s), nil
	}
	if s.IsFinished() {
		return m.evaluate(s), nil
	}

	if maximizing {
		bestScore := math.MinInt
		for move := range s.ValidCatMovesIter() {
			newS := s.Clone()
			newS.MoveCat(move)
			m.stats.Nodes++
			score, err := m.recursion(ctx, newS, depthLeft-1, false)
			if err != nil {
				return 0, err
			}
			bestScore = max(bestScore, score)
		}
		if bestScore == math.MinInt {
			// Enclosed cat.
			return m.evaluate(s), nil
		}
		return bestScore, nil
	}

	bestScore := math.MaxInt
	for pos := range s.EmptyCellsIter() {
		newS := s.Clone()
		newS.PlaceFence(pos)
		m.stats.Nodes++
		score, err := m.recursion(ctx, newS, depthLeft-1, true)
		if err != nil {
			return 0, err
		}
		bestScore = min(bestScore, score)
	}
	if bestScore == math.MaxInt {
		// No empty cells left: nothing for the fences to play.
		return m.evaluate(s), nil
	}
	return bestScore, nil
}

// Package ai (Artificial Intelligence) defines the scores used to evaluate a board, and the
// interface that board evaluators have to implement.
//
// Scores are always from the point of view of the cat: higher is better for the cat, lower
// is better for the fences.
package ai

import (
	. "github.com/hexcat/trapcat/internal/state"
)

const (
	// CatWinScore is the score of a board where the cat reached the edge.
	CatWinScore = 10000

	// FenceWinScore is the score of a board where the cat is enclosed.
	FenceWinScore = -CatWinScore

	// HeuristicBound is the largest absolute score given to boards that are not finished. It
	// is well below the win scores, so a heuristic score is never confused with an actual win.
	HeuristicBound = 500

	// edgeDistanceWeight is the score lost per row/column of distance to the edge.
	edgeDistanceWeight = 40
)

// ValueScorer returns a score (value) for a given board.
type ValueScorer interface {
	Score(s *GameState) int
	String() string
}

// IsEndGameAndScore returns whether the match is finished, and if so its hard-coded score.
// If isEnd is false, the score should be ignored.
//
// The cat win is checked first, so it wins if both conditions hold.
func IsEndGameAndScore(s *GameState) (isEnd bool, score int) {
	if s.HasCatWon() {
		return true, CatWinScore
	}
	if s.HasFenceWon() {
		return true, FenceWinScore
	}
	return false, 0
}

// IsWinScore returns whether the score is one of the end-of-game scores.
func IsWinScore(score int) bool {
	return score == CatWinScore || score == FenceWinScore
}

// Evaluate a board: CatWinScore or FenceWinScore if the match is finished, otherwise a
// heuristic in [-HeuristicBound, HeuristicBound] that grows as the cat gets closer to an edge.
func Evaluate(s *GameState) int {
	if isEnd, score := IsEndGameAndScore(s); isEnd {
		return score
	}
	d := s.CatPos().EdgeDistance()
	return clamp(HeuristicBound-edgeDistanceWeight*d, -HeuristicBound, HeuristicBound)
}

func clamp(x, lower, upper int) int {
	return max(lower, min(x, upper))
}

// EdgeDistance is the default ValueScorer, it uses Evaluate.
type EdgeDistance struct{}

// Assert EdgeDistance is a ValueScorer.
var _ ValueScorer = EdgeDistance{}

// Score implements ValueScorer.
func (EdgeDistance) Score(s *GameState) int { return Evaluate(s) }

// String implements ValueScorer.
func (EdgeDistance) String() string { return "edge-distance" }

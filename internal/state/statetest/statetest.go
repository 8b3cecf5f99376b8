// Package statetest provides helper functions to create tests using trapcat state.
package statetest

import (
	"testing"

	. "github.com/hexcat/trapcat/internal/state"
)

// BuildState creates a GameState with the cat at catPos and fences at the given positions.
func BuildState(t testing.TB, catPos Pos, fences ...Pos) *GameState {
	t.Helper()
	var board Board
	board.Set(catPos, Cat)
	for _, pos := range fences {
		if pos == catPos {
			t.Fatalf("fence at %s would overwrite the cat", pos)
		}
		board.Set(pos, Fence)
	}
	s, err := NewGameStateFromBoard(board)
	if err != nil {
		t.Fatalf("failed to build state: %+v", err)
	}
	return s
}

// FenceAllBut returns a fence layout that surrounds catPos completely, except for the given openings.
func FenceAllBut(catPos Pos, openings ...Pos) []Pos {
	var fences []Pos
	for _, pos := range catPos.Neighbours() {
		open := false
		for _, opening := range openings {
			if pos == opening {
				open = true
				break
			}
		}
		if !open {
			fences = append(fences, pos)
		}
	}
	return fences
}

// FullBoard returns a state where every cell but the cat's is fenced.
func FullBoard(t testing.TB, catPos Pos) *GameState {
	t.Helper()
	var fences []Pos
	for pos := range Positions() {
		if pos != catPos {
			fences = append(fences, pos)
		}
	}
	return BuildState(t, catPos, fences...)
}

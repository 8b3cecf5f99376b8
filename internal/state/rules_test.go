package state_test

import (
	"testing"

	. "github.com/hexcat/trapcat/internal/state"
	. "github.com/hexcat/trapcat/internal/state/statetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasCatWon(t *testing.T) {
	for _, pos := range []Pos{{0, 5}, {10, 5}, {5, 0}, {5, 10}, {0, 0}, {10, 10}} {
		s := BuildState(t, pos)
		assert.Truef(t, s.HasCatWon(), "cat at %s is on the edge", pos)
		assert.Equal(t, SideCat, s.Winner())
		assert.True(t, s.IsFinished())
	}
	for _, pos := range []Pos{{5, 5}, {1, 1}, {9, 9}, {1, 9}} {
		s := BuildState(t, pos)
		assert.Falsef(t, s.HasCatWon(), "cat at %s is not on the edge", pos)
		assert.Equal(t, SideNone, s.Winner())
	}
}

func TestIsLegalCatStep(t *testing.T) {
	s := BuildState(t, CenterPos, Pos{4, 5})
	assert.False(t, s.IsLegalCatStep(Pos{4, 5}), "fenced cell")
	assert.True(t, s.IsLegalCatStep(Pos{4, 6}))
	assert.False(t, s.IsLegalCatStep(Pos{-1, 0}))
	assert.False(t, s.IsLegalCatStep(Pos{0, BoardSize}))
	// Not adjacent, but still legal: adjacency is handled by ValidCatMoves.
	assert.True(t, s.IsLegalCatStep(Pos{0, 0}))
}

func TestValidCatMoves(t *testing.T) {
	s := BuildState(t, CenterPos, Pos{4, 6}, Pos{6, 5})
	assert.Equal(t, []Pos{{4, 5}, {5, 4}, {5, 6}, {6, 6}}, s.ValidCatMoves())
	assert.False(t, s.HasFenceWon())
}

func TestEnclosedCat(t *testing.T) {
	s := BuildState(t, CenterPos, FenceAllBut(CenterPos)...)
	assert.Empty(t, s.ValidCatMoves())
	assert.True(t, s.HasFenceWon())
	assert.False(t, s.HasCatWon())
	assert.Equal(t, SideFence, s.Winner())
	assert.Empty(t, s.Actions(SideCat))

	// Leave one opening and the cat can move again.
	s = BuildState(t, CenterPos, FenceAllBut(CenterPos, Pos{5, 6})...)
	assert.Equal(t, []Pos{{5, 6}}, s.ValidCatMoves())
	assert.False(t, s.HasFenceWon())
}

func TestCatWinTakesPrecedence(t *testing.T) {
	// Cat on the edge, with all its neighbours fenced: both predicates hold, cat wins.
	catPos := Pos{0, 4}
	s := BuildState(t, catPos, FenceAllBut(catPos)...)
	assert.True(t, s.HasCatWon())
	assert.True(t, s.HasFenceWon())
	assert.Equal(t, SideCat, s.Winner())
}

func TestPlaceFence(t *testing.T) {
	s := NewGameState()
	pos := Pos{2, 7}
	assert.True(t, s.PlaceFence(pos))
	assert.False(t, s.PlaceFence(pos), "placing twice on the same cell")
	assert.Equal(t, 1, s.NumFences())
	assert.Equal(t, Fence, s.CellAt(pos))

	before := s.Board()
	assert.False(t, s.PlaceFence(CenterPos), "cell occupied by the cat")
	assert.False(t, s.PlaceFence(Pos{11, 0}))
	assert.False(t, s.PlaceFence(Pos{0, -1}))
	assert.Equal(t, before, s.Board())
	require.NoError(t, s.Validate())
}

func TestMoveCat(t *testing.T) {
	s := BuildState(t, CenterPos, Pos{4, 5})
	assert.True(t, s.MoveCat(Pos{4, 6}))
	assert.Equal(t, Pos{4, 6}, s.CatPos())
	assert.Equal(t, Empty, s.CellAt(CenterPos))
	assert.Equal(t, Cat, s.CellAt(Pos{4, 6}))
	require.NoError(t, s.Validate())

	// Rejected moves leave the state untouched.
	before := s.Board()
	assert.False(t, s.MoveCat(Pos{4, 5}), "fenced cell")
	assert.False(t, s.MoveCat(Pos{-1, 6}), "outside of the board")
	assert.Equal(t, before, s.Board())
	assert.Equal(t, Pos{4, 6}, s.CatPos())
}

func TestActAndIsValid(t *testing.T) {
	s := NewGameState()
	fence := Action{Side: SideFence, Pos: Pos{4, 5}}
	assert.True(t, s.IsValid(fence))
	assert.True(t, s.Act(fence))
	assert.False(t, s.IsValid(fence))
	assert.False(t, s.Act(fence))

	assert.False(t, s.IsValid(Action{Side: SideCat, Pos: Pos{4, 5}}))
	assert.False(t, s.IsValid(Action{Side: SideCat, Pos: Pos{2, 2}}), "not adjacent")
	step := Action{Side: SideCat, Pos: Pos{5, 6}}
	assert.True(t, s.IsValid(step))
	assert.True(t, s.Act(step))
	assert.Equal(t, Pos{5, 6}, s.CatPos())

	assert.False(t, s.Act(NoAction))
}

func TestActions(t *testing.T) {
	s := BuildState(t, CenterPos, Pos{0, 0}, Pos{4, 5})
	catActions := s.Actions(SideCat)
	require.Len(t, catActions, 5)
	assert.Equal(t, Action{Side: SideCat, Pos: Pos{4, 6}}, catActions[0])

	fenceActions := s.Actions(SideFence)
	require.Len(t, fenceActions, NumCells-3)
	assert.Equal(t, Action{Side: SideFence, Pos: Pos{0, 1}}, fenceActions[0])
	assert.Empty(t, s.Actions(SideNone))
}

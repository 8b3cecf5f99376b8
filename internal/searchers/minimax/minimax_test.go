package minimax_test

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/hexcat/trapcat/internal/ai"
	"github.com/hexcat/trapcat/internal/searchers/minimax"
	. "github.com/hexcat/trapcat/internal/state"
	. "github.com/hexcat/trapcat/internal/state/statetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/klog/v2"
)

func init() {
	klog.InitFlags(nil)
}

func TestOnePlyPicksClosestToEdge(t *testing.T) {
	// Empty board: all neighbours of the center are at the same distance, the first one is taken.
	s := NewGameState()
	move, found := minimax.FindBestMove(s, 1)
	require.True(t, found)
	assert.Equal(t, Pos{4, 5}, move)
	assert.Contains(t, CenterPos.Neighbours(), move)
	for _, neighbour := range CenterPos.Neighbours() {
		assert.LessOrEqual(t, move.EdgeDistance(), neighbour.EdgeDistance())
	}

	// Off-center: the cat takes the first neighbour with the smallest distance.
	s = BuildState(t, Pos{3, 3})
	move, found = minimax.FindBestMove(s, 1)
	require.True(t, found)
	assert.Equal(t, Pos{2, 3}, move)

	s = BuildState(t, Pos{3, 3}, Pos{2, 3})
	move, found = minimax.FindBestMove(s, 1)
	require.True(t, found)
	assert.Equal(t, Pos{2, 4}, move)
}

func TestTakesImmediateWin(t *testing.T) {
	for _, depth := range []int{1, 2, 3} {
		s := BuildState(t, Pos{1, 5})
		move, found := minimax.FindBestMove(s, depth)
		require.True(t, found)
		assert.Equalf(t, Pos{0, 5}, move, "depth=%d", depth)
	}
}

func TestEnclosedCatHasNoMove(t *testing.T) {
	s := BuildState(t, CenterPos, FenceAllBut(CenterPos)...)
	assert.Empty(t, s.ValidCatMoves())
	assert.True(t, s.HasFenceWon())
	_, found := minimax.FindBestMove(s, minimax.DefaultMaxDepth)
	assert.False(t, found)
}

func TestTwoExitsCannotBeBlocked(t *testing.T) {
	// From (2, 5), stepping to (1, 4) leaves two exits, (0, 4) and (0, 5): a single fence can't block both.
	s := BuildState(t, Pos{2, 5})

	move, found := minimax.FindBestMove(s, 2)
	require.True(t, found)
	assert.Equal(t, Pos{1, 4}, move)

	move, found = minimax.FindBestMove(s, 3)
	require.True(t, found)
	assert.Equal(t, Pos{1, 4}, move)

	after := s.Clone()
	require.True(t, after.MoveCat(move))
	assert.Equal(t, ai.CatWinScore, minimax.Minimax(after, 2, false))
	assert.Equal(t, 460, minimax.Minimax(after, 1, false), "depth 1 only sees the heuristic")
}

func TestMinimaxTerminalCutoff(t *testing.T) {
	won := BuildState(t, Pos{0, 4})
	assert.Equal(t, ai.CatWinScore, minimax.Minimax(won, 3, true))
	assert.Equal(t, ai.CatWinScore, minimax.Minimax(won, 3, false))

	enclosed := BuildState(t, CenterPos, FenceAllBut(CenterPos)...)
	assert.Equal(t, ai.FenceWinScore, minimax.Minimax(enclosed, 3, true))
	assert.Equal(t, ai.FenceWinScore, minimax.Minimax(FullBoard(t, CenterPos), 3, false))

	open := NewGameState()
	assert.Equal(t, ai.Evaluate(open), minimax.Minimax(open, 0, true))
}

func TestFenceSearchBlocksLastExit(t *testing.T) {
	// Cat at (1, 4) with (0, 4) fenced: (0, 5) is the only exit left, the fences must take it.
	s := BuildState(t, Pos{1, 4}, Pos{0, 4})
	searcher := minimax.New(ai.EdgeDistance{}).WithMaxDepth(2)
	action, score, actionsScores, err := searcher.Search(context.Background(), s, SideFence)
	require.NoError(t, err)
	assert.Equal(t, Action{Side: SideFence, Pos: Pos{0, 5}}, action)
	assert.Equal(t, 460, score)
	require.Len(t, actionsScores, len(s.EmptyCells()))
	assert.Equal(t, ai.CatWinScore, actionsScores[0], "fence at (0, 0) doesn't stop the cat")
}

func TestActionsScoresMatchMinimax(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 5))
	for range 5 {
		s := NewRandomGameState(rng)
		searcher := minimax.New(ai.EdgeDistance{}).WithMaxDepth(2)
		action, score, actionsScores, err := searcher.Search(context.Background(), s, SideCat)
		require.NoError(t, err)
		actions := s.Actions(SideCat)
		require.Len(t, actionsScores, len(actions))

		bestIdx := 0
		for ii, candidate := range actions {
			after := s.Clone()
			require.True(t, after.MoveCat(candidate.Pos))
			assert.Equal(t, minimax.Minimax(after, 1, false), actionsScores[ii])
			if actionsScores[ii] > actionsScores[bestIdx] {
				bestIdx = ii
			}
		}
		assert.Equal(t, actions[bestIdx], action, "first best move must be taken")
		assert.Equal(t, actionsScores[bestIdx], score)

		move, found := minimax.FindBestMove(s, 2)
		require.True(t, found)
		assert.Equal(t, action.Pos, move)
		assert.Greater(t, searcher.Stats().Nodes, 0)
	}
}

func TestSearchDoesNotChangeState(t *testing.T) {
	s := NewRandomGameState(rand.New(rand.NewPCG(11, 13)))
	before := s.Board()
	_, _ = minimax.FindBestMove(s, 3)
	assert.Equal(t, before, s.Board())
	assert.Equal(t, CenterPos, s.CatPos())
}

func TestSearchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, _, err := minimax.New(ai.EdgeDistance{}).Search(ctx, NewGameState(), SideCat)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWithMaxDepth(t *testing.T) {
	searcher := minimax.New(ai.EdgeDistance{})
	assert.Equal(t, minimax.DefaultMaxDepth, searcher.MaxDepth())
	assert.Equal(t, 1, searcher.WithMaxDepth(-3).MaxDepth())
	assert.Equal(t, "minimax(depth=1, edge-distance)", searcher.String())
}

package searchers

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/hexcat/trapcat/internal/ai"
	. "github.com/hexcat/trapcat/internal/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedSearcher returns always the first action with the configured scores.
type fixedSearcher struct {
	scores []int
}

func (f *fixedSearcher) Search(_ context.Context, s *GameState, side Side) (Action, int, []int, error) {
	actions := s.Actions(side)
	if len(actions) == 0 {
		return NoAction, 0, nil, nil
	}
	bestIdx := 0
	for ii := range f.scores {
		if IsBetter(side, f.scores[ii], f.scores[bestIdx]) {
			bestIdx = ii
		}
	}
	var score int
	if len(f.scores) > 0 {
		score = f.scores[bestIdx]
	}
	return actions[bestIdx], score, f.scores, nil
}

func TestSoftmax(t *testing.T) {
	probs := softmax([]float32{1, 1, 1, 1})
	for _, p := range probs {
		assert.InDelta(t, 0.25, p, 1e-6)
	}
	probs = softmax([]float32{1000, 0})
	assert.InDelta(t, 1.0, probs[0], 1e-6)
	assert.InDelta(t, 0.0, probs[1], 1e-6)
}

func TestIsBetter(t *testing.T) {
	assert.True(t, IsBetter(SideCat, 2, 1))
	assert.False(t, IsBetter(SideCat, 1, 1))
	assert.True(t, IsBetter(SideFence, 1, 2))
	assert.False(t, IsBetter(SideFence, 2, 2))
}

func TestRandomizedSearcher(t *testing.T) {
	s := NewGameState()
	ctx := context.Background()
	base := &fixedSearcher{scores: []int{100, 300, 100, 100, 100, 100}}

	// No randomness: the base searcher is returned as is.
	assert.Same(t, Searcher(base), NewRandomizedSearcher(base, 0, nil))

	// Little randomness: always the best.
	rs := NewRandomizedSearcher(base, 0.01, rand.New(rand.NewPCG(1, 1)))
	for range 20 {
		action, score, _, err := rs.Search(ctx, s, SideCat)
		require.NoError(t, err)
		assert.Equal(t, Pos{4, 6}, action.Pos)
		assert.Equal(t, 300, score)
	}

	// A lot of randomness: different actions are chosen.
	rs = NewRandomizedSearcher(base, 100, rand.New(rand.NewPCG(1, 1)))
	chosen := make(map[Pos]bool)
	for range 100 {
		action, _, _, err := rs.Search(ctx, s, SideCat)
		require.NoError(t, err)
		assert.Equal(t, SideCat, action.Side)
		chosen[action.Pos] = true
	}
	assert.Greater(t, len(chosen), 1)
}

func TestRandomizedSearcherKeepsWinningMoves(t *testing.T) {
	s := NewGameState()
	base := &fixedSearcher{scores: []int{100, 100, ai.CatWinScore, 100, 100, 100}}
	rs := NewRandomizedSearcher(base, 100, rand.New(rand.NewPCG(2, 2)))
	for range 20 {
		action, score, _, err := rs.Search(context.Background(), s, SideCat)
		require.NoError(t, err)
		assert.Equal(t, Pos{5, 4}, action.Pos)
		assert.Equal(t, ai.CatWinScore, score)
	}
}

func TestRandomizedSearcherKeepsFenceWinningMoves(t *testing.T) {
	s := NewGameState()
	scores := make([]int, len(s.EmptyCells()))
	for ii := range scores {
		scores[ii] = 100
	}
	scores[5] = ai.FenceWinScore
	want := s.Actions(SideFence)[5]
	rs := NewRandomizedSearcher(&fixedSearcher{scores: scores}, 100, rand.New(rand.NewPCG(4, 4)))
	for range 20 {
		action, score, _, err := rs.Search(context.Background(), s, SideFence)
		require.NoError(t, err)
		assert.Equal(t, want, action)
		assert.Equal(t, ai.FenceWinScore, score)
	}

	// A cat win is not a winning move for the fences.
	assert.False(t, isWinFor(SideFence, ai.CatWinScore))
	assert.True(t, isWinFor(SideCat, ai.CatWinScore))
	assert.False(t, isWinFor(SideCat, 500))
}

func TestRandomizedSearcherFenceSide(t *testing.T) {
	s := NewGameState()
	scores := make([]int, len(s.EmptyCells()))
	for ii := range scores {
		scores[ii] = 300
	}
	scores[7] = -200
	rs := NewRandomizedSearcher(&fixedSearcher{scores: scores}, 0.01, rand.New(rand.NewPCG(3, 3)))
	action, score, _, err := rs.Search(context.Background(), s, SideFence)
	require.NoError(t, err)
	assert.Equal(t, Action{Side: SideFence, Pos: Pos{0, 7}}, action)
	assert.Equal(t, -200, score)
}

func TestRandomizedSearcherMisalignedScores(t *testing.T) {
	rs := NewRandomizedSearcher(&fixedSearcher{scores: []int{1, 2}}, 1, nil)
	assert.Panics(t, func() {
		_, _, _, _ = rs.Search(context.Background(), NewGameState(), SideCat)
	})
}

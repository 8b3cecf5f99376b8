package players_test

import (
	"context"
	"testing"

	"github.com/hexcat/trapcat/internal/ai"
	"github.com/hexcat/trapcat/internal/players"
	_ "github.com/hexcat/trapcat/internal/players/default"
	. "github.com/hexcat/trapcat/internal/state"
	. "github.com/hexcat/trapcat/internal/state/statetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisteredModules(t *testing.T) {
	assert.Equal(t, []string{"ab", "minimax", "random"}, players.RegisteredModules())
}

func TestNew(t *testing.T) {
	player, err := players.New("")
	require.NoError(t, err)
	assert.Equal(t, "minimax(depth=3)", player.String())

	player, err = players.New("ab,max_depth=2")
	require.NoError(t, err)
	assert.Equal(t, "ab(depth=2)", player.String())

	player, err = players.New("max_depth=1,randomness=0.5,seed=3,minimax")
	require.NoError(t, err)
	assert.Equal(t, "minimax(depth=1, randomness=0.5)", player.String())

	player, err = players.New("random,seed=7")
	require.NoError(t, err)
	assert.Equal(t, "random", player.String())
}

func TestNewErrors(t *testing.T) {
	for _, config := range []string{
		// Unknown module.
		"mcts",
		// Multiple modules.
		"minimax,ab",
		// Unknown parameter.
		"minimax,max_depth=3,foo=bar",
		// Invalid value.
		"minimax,max_depth=x",
		// Invalid depth.
		"minimax,max_depth=0",
		// Invalid randomness.
		"minimax,randomness=-1",
		// Not supported.
		"ab,randomness=0.1",
		// Module with value.
		"minimax=3",
		// Not a random parameter.
		"random,max_depth=2",
	} {
		_, err := players.New(config)
		assert.Errorf(t, err, "config %q should have failed", config)
	}
}

func TestSearcherPlayers(t *testing.T) {
	ctx := context.Background()
	s := BuildState(t, Pos{1, 5})
	for _, config := range []string{"minimax", "ab", "minimax,max_depth=2,randomness=1,seed=1"} {
		player, err := players.New(config)
		require.NoError(t, err)
		action, score, err := player.Play(ctx, s, SideCat)
		require.NoError(t, err)
		assert.Equalf(t, Action{Side: SideCat, Pos: Pos{0, 5}}, action, "config %q", config)
		assert.Equalf(t, ai.CatWinScore, score, "config %q", config)
		player.Finalize()
	}

	// Enclosed cat has nothing to play.
	s = BuildState(t, CenterPos, FenceAllBut(CenterPos)...)
	player, err := players.New("minimax,max_depth=1")
	require.NoError(t, err)
	action, _, err := player.Play(ctx, s, SideCat)
	require.NoError(t, err)
	assert.True(t, action.IsNoAction())
}

func TestRandomPlayer(t *testing.T) {
	ctx := context.Background()
	s := NewGameState()
	player, err := players.New("random,seed=11")
	require.NoError(t, err)
	for range 20 {
		action, _, err := player.Play(ctx, s, SideCat)
		require.NoError(t, err)
		assert.True(t, s.IsValid(action))
		action, _, err = player.Play(ctx, s, SideFence)
		require.NoError(t, err)
		assert.True(t, s.IsValid(action))
	}

	// Same seed, same choices.
	p1, err := players.New("random,seed=5")
	require.NoError(t, err)
	p2, err := players.New("random,seed=5")
	require.NoError(t, err)
	for range 10 {
		a1, _, _ := p1.Play(ctx, s, SideFence)
		a2, _, _ := p2.Play(ctx, s, SideFence)
		assert.Equal(t, a1, a2)
	}

	cancelledCtx, cancel := context.WithCancel(ctx)
	cancel()
	_, _, err = p1.Play(cancelledCtx, s, SideCat)
	assert.ErrorIs(t, err, context.Canceled)
}

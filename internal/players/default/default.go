// Package _default registers the default players that can be included in any
// front-end for trapcat.
//
// Currently, it includes the exhaustive minimax ("minimax"), the alpha-beta pruned
// minimax ("ab") and a uniformly random player ("random").
package _default

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/hexcat/trapcat/internal/ai"
	"github.com/hexcat/trapcat/internal/parameters"
	"github.com/hexcat/trapcat/internal/players"
	"github.com/hexcat/trapcat/internal/searchers"
	"github.com/hexcat/trapcat/internal/searchers/alphabeta"
	"github.com/hexcat/trapcat/internal/searchers/minimax"
	. "github.com/hexcat/trapcat/internal/state"
	"github.com/pkg/errors"
)

func init() {
	players.RegisterModule("minimax", &Minimax{})
	players.RegisterModule("ab", &AlphaBeta{})
	players.RegisterModule("random", &Random{})
}

// searchParams are the parameters shared by the searcher based modules.
type searchParams struct {
	maxDepth   int
	randomness float32
	seed       uint64
	hasSeed    bool
}

func popSearchParams(params parameters.Params) (sp searchParams, err error) {
	sp.maxDepth, err = parameters.PopParamOr(params, "max_depth", minimax.DefaultMaxDepth)
	if err != nil {
		return
	}
	if sp.maxDepth < 1 {
		err = errors.Errorf("max_depth must be >= 1, got %d", sp.maxDepth)
		return
	}
	sp.randomness, err = parameters.PopParamOr(params, "randomness", float32(0))
	if err != nil {
		return
	}
	if sp.randomness < 0 {
		err = errors.Errorf("randomness must be >= 0, got %g", sp.randomness)
		return
	}
	_, sp.hasSeed = params["seed"]
	sp.seed, err = parameters.PopParamOr(params, "seed", uint64(0))
	return
}

func (sp searchParams) wrap(searcher searchers.Searcher) searchers.Searcher {
	var rng *rand.Rand
	if sp.hasSeed {
		rng = rand.New(rand.NewPCG(sp.seed, sp.seed))
	}
	return searchers.NewRandomizedSearcher(searcher, sp.randomness, rng)
}

func (sp searchParams) name(base string) string {
	if sp.randomness > 0 {
		return fmt.Sprintf("%s(depth=%d, randomness=%g)", base, sp.maxDepth, sp.randomness)
	}
	return fmt.Sprintf("%s(depth=%d)", base, sp.maxDepth)
}

// Minimax implements the "minimax" module: exhaustive fixed depth minimax.
//
// Parameters:
//
//   - max_depth (int): number of plies to search, default is 3.
//   - randomness (float): samples the chosen action from the softmax of the scores, see
//     searchers.NewRandomizedSearcher. Default is 0, no randomness.
//   - seed (uint64): seed for the randomness.
type Minimax struct{}

// Assert Minimax implements Module.
var _ players.Module = (*Minimax)(nil)

// NewPlayer implements players.Module.
func (m *Minimax) NewPlayer(params parameters.Params) (players.Player, error) {
	sp, err := popSearchParams(params)
	if err != nil {
		return nil, err
	}
	searcher := minimax.New(ai.EdgeDistance{}).WithMaxDepth(sp.maxDepth)
	return players.NewSearcherPlayer(sp.name("minimax"), sp.wrap(searcher)), nil
}

// AlphaBeta implements the "ab" module: minimax with alpha-beta pruning. It takes the
// same parameters as Minimax, and it chooses the same actions.
type AlphaBeta struct{}

// Assert AlphaBeta implements Module.
var _ players.Module = (*AlphaBeta)(nil)

// NewPlayer implements players.Module.
func (ab *AlphaBeta) NewPlayer(params parameters.Params) (players.Player, error) {
	sp, err := popSearchParams(params)
	if err != nil {
		return nil, err
	}
	if sp.randomness > 0 {
		// Alpha-beta doesn't return the scores of every action, which randomness requires.
		return nil, errors.New("\"ab\" doesn't support randomness, use \"minimax\" instead")
	}
	searcher := alphabeta.New(ai.EdgeDistance{}).WithMaxDepth(sp.maxDepth)
	return players.NewSearcherPlayer(sp.name("ab"), searcher), nil
}

// Random implements the "random" module: it plays uniformly random valid actions.
//
// Parameters:
//
//   - seed (uint64): seed for the random number generator. If not given, a random seed is used.
type Random struct{}

// Assert Random implements Module.
var _ players.Module = (*Random)(nil)

// NewPlayer implements players.Module.
func (r *Random) NewPlayer(params parameters.Params) (players.Player, error) {
	_, hasSeed := params["seed"]
	seed, err := parameters.PopParamOr(params, "seed", uint64(0))
	if err != nil {
		return nil, err
	}
	if !hasSeed {
		seed = rand.Uint64()
	}
	return &RandomPlayer{rng: rand.New(rand.NewPCG(seed, seed))}, nil
}

// RandomPlayer picks uniformly among the valid actions.
type RandomPlayer struct {
	rng *rand.Rand
}

// Assert RandomPlayer is a players.Player.
var _ players.Player = (*RandomPlayer)(nil)

// String implements fmt.Stringer.
func (p *RandomPlayer) String() string { return "random" }

// Play implements players.Player. The score returned is the static evaluation of the current state.
func (p *RandomPlayer) Play(ctx context.Context, s *GameState, side Side) (Action, int, error) {
	if err := ctx.Err(); err != nil {
		return NoAction, 0, err
	}
	score := ai.Evaluate(s)
	actions := s.Actions(side)
	if len(actions) == 0 {
		return NoAction, score, nil
	}
	return actions[p.rng.IntN(len(actions))], score, nil
}

// Finalize implements players.Player.
func (p *RandomPlayer) Finalize() {}

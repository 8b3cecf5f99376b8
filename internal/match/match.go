// Package match drives a full game: it owns the GameState, alternates fence placements and cat
// moves, and notifies listeners of every accepted half-turn.
//
// The rules themselves live in the state package; Match only enforces the turn order:
//
//	PlayerTurn --place fence--> FenceWon if the cat is enclosed, else CatTurn.
//	CatTurn    --move cat-->    CatWon if the cat reached the boundary, else PlayerTurn.
//
// FenceWon and CatWon are absorbing: a new Match is needed to play again.
package match

import (
	"context"
	"sync"

	"github.com/gomlx/exceptions"
	"github.com/hexcat/trapcat/internal/players"
	. "github.com/hexcat/trapcat/internal/state"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Phase of a match.
type Phase uint8

const (
	PlayerTurn Phase = iota
	CatTurn
	FenceWon
	CatWon
)

var phaseNames = []string{"PlayerTurn", "CatTurn", "FenceWon", "CatWon"}

func (p Phase) String() string {
	if int(p) < len(phaseNames) {
		return phaseNames[p]
	}
	return "InvalidPhase"
}

// IsFinished returns whether the phase is one of the absorbing ones.
func (p Phase) IsFinished() bool {
	return p == FenceWon || p == CatWon
}

// Winner returns the side that won, or SideNone if the match is not finished.
func (p Phase) Winner() Side {
	switch p {
	case FenceWon:
		return SideFence
	case CatWon:
		return SideCat
	default:
		return SideNone
	}
}

// Side returns the side to play in the phase, or SideNone if the match is finished.
func (p Phase) Side() Side {
	switch p {
	case PlayerTurn:
		return SideFence
	case CatTurn:
		return SideCat
	default:
		return SideNone
	}
}

// TurnOf returns the phase in which side plays. It is the inverse of Phase.Side.
func TurnOf(side Side) Phase {
	switch side {
	case SideFence:
		return PlayerTurn
	case SideCat:
		return CatTurn
	}
	exceptions.Panicf("no turn for side %s", side)
	return PlayerTurn
}

var (
	// ErrWrongPhase is returned when an action is attempted out of turn, or after the match finished.
	ErrWrongPhase = errors.New("action not allowed in the current phase of the match")

	// ErrIllegalMove is returned when a player chooses an action the rules don't allow.
	ErrIllegalMove = errors.New("illegal move")
)

// Snapshot is an immutable view of a match at some point in time.
type Snapshot struct {
	State      GameState
	Phase      Phase
	MoveNumber int

	// LastAction taken, NoAction if none was taken yet.
	LastAction Action
}

// Match holds the state of one game. It is safe for concurrent use: e.g. a UI goroutine can
// take snapshots while another one is running the cat search.
type Match struct {
	mu        sync.Mutex
	initial   GameState
	state     *GameState
	phase     Phase
	actions   []Action
	listeners []func(Snapshot)
}

// New creates a match starting from a copy of initial, with the fences to play.
// If initial is already terminal, the match starts finished.
func New(initial *GameState) *Match {
	m := &Match{
		initial: *initial,
		state:   initial.Clone(),
	}
	m.phase = phaseAfter(m.state, PlayerTurn)
	return m
}

// phaseAfter returns the phase of s, given the phase to use if no one has won yet.
func phaseAfter(s *GameState, next Phase) Phase {
	switch s.Winner() {
	case SideCat:
		return CatWon
	case SideFence:
		return FenceWon
	default:
		return next
	}
}

// Phase returns the current phase of the match.
func (m *Match) Phase() Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.phase
}

// Initial returns a copy of the initial state of the match.
func (m *Match) Initial() *GameState {
	return m.initial.Clone()
}

// Actions returns a copy of the list of accepted actions so far.
func (m *Match) Actions() []Action {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Action(nil), m.actions...)
}

// Record returns the MatchRecord of the match so far, which can be saved with EncodeMatch.
func (m *Match) Record() MatchRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return MatchRecord{
		Initial: m.initial.Clone(),
		Actions: append([]Action(nil), m.actions...),
		Winner:  m.phase.Winner(),
	}
}

// Snapshot returns the current view of the match.
func (m *Match) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Match) snapshotLocked() Snapshot {
	snap := Snapshot{
		State:      *m.state,
		Phase:      m.phase,
		MoveNumber: len(m.actions),
	}
	if len(m.actions) > 0 {
		snap.LastAction = m.actions[len(m.actions)-1]
	}
	return snap
}

// Subscribe registers a listener called with a new Snapshot after each accepted action.
// Listeners are called synchronously, in the goroutine that took the action, and must not
// call back into the Match actions.
func (m *Match) Subscribe(listener func(Snapshot)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, listener)
}

// apply takes action, already validated, and moves to the next phase. It must be called with the lock held,
// and it returns the listeners to notify with the new snapshot.
func (m *Match) apply(action Action) (Snapshot, []func(Snapshot)) {
	m.state.Act(action)
	m.actions = append(m.actions, action)
	m.phase = phaseAfter(m.state, TurnOf(action.Side.Opponent()))
	if klog.V(2).Enabled() {
		klog.Infof("Match move #%d: %s -> %s", len(m.actions), action, m.phase)
	}
	return m.snapshotLocked(), m.listeners
}

func notify(snap Snapshot, listeners []func(Snapshot)) {
	for _, listener := range listeners {
		listener(snap)
	}
}

// PlaceFence places a fence for the player. It returns false if the cell is rejected (out of range or not empty),
// in which case the state is unchanged and it is still the player's turn.
//
// It returns ErrWrongPhase if it is not the player's turn.
func (m *Match) PlaceFence(pos Pos) (bool, error) {
	m.mu.Lock()
	if m.phase != PlayerTurn {
		phase := m.phase
		m.mu.Unlock()
		return false, errors.Wrapf(ErrWrongPhase, "cannot place fence at %s in phase %s", pos, phase)
	}
	action := Action{Side: SideFence, Pos: pos}
	if !m.state.IsValid(action) {
		m.mu.Unlock()
		return false, nil
	}
	snap, listeners := m.apply(action)
	m.mu.Unlock()
	notify(snap, listeners)
	return true, nil
}

// PlayCat asks player for the cat's move and applies it. The search runs on a copy of the state, without
// holding the match lock.
//
// If the player has no move (NoAction), the cat is enclosed and the match moves to FenceWon.
// It returns ErrWrongPhase if it is not the cat's turn, and ErrIllegalMove if the player chose a cell that
// is not one of the valid cat moves.
func (m *Match) PlayCat(ctx context.Context, player players.Player) (Action, error) {
	return m.playAI(ctx, player, CatTurn)
}

// PlayFence asks player for the fence placement and applies it, like PlayCat.
func (m *Match) PlayFence(ctx context.Context, player players.Player) (Action, error) {
	return m.playAI(ctx, player, PlayerTurn)
}

func (m *Match) playAI(ctx context.Context, player players.Player, phase Phase) (Action, error) {
	side := phase.Side()
	m.mu.Lock()
	if m.phase != phase {
		current := m.phase
		m.mu.Unlock()
		return NoAction, errors.Wrapf(ErrWrongPhase, "%s cannot play in phase %s", side, current)
	}
	s := m.state.Clone()
	moveNumber := len(m.actions)
	m.mu.Unlock()

	action, score, err := player.Play(ctx, s, side)
	if err != nil {
		return NoAction, errors.WithMessagef(err, "%s player %s failed", side, player)
	}
	if klog.V(1).Enabled() {
		klog.Infof("%s player %s chose %s (score=%d)", side, player, action, score)
	}

	m.mu.Lock()
	if m.phase != phase || len(m.actions) != moveNumber {
		m.mu.Unlock()
		return NoAction, errors.Wrapf(ErrWrongPhase, "match changed while %s player %s was thinking", side, player)
	}
	if action.IsNoAction() {
		if side == SideFence || len(s.ValidCatMoves()) > 0 {
			m.mu.Unlock()
			return NoAction, errors.Wrapf(ErrIllegalMove, "%s player %s returned no action, but there are actions available",
				side, player)
		}
		// The cat has nowhere to go: that's a fence win.
		m.phase = FenceWon
		snap, listeners := m.snapshotLocked(), m.listeners
		m.mu.Unlock()
		notify(snap, listeners)
		return NoAction, nil
	}
	if action.Side != side || !m.state.IsValid(action) {
		m.mu.Unlock()
		return NoAction, errors.Wrapf(ErrIllegalMove, "%s player %s chose %s", side, player, action)
	}
	snap, listeners := m.apply(action)
	m.mu.Unlock()
	notify(snap, listeners)
	return action, nil
}

// Run plays the match to the end, with both sides played by AI players, and returns the winner.
func (m *Match) Run(ctx context.Context, fencePlayer, catPlayer players.Player) (Side, error) {
	for {
		if err := ctx.Err(); err != nil {
			return SideNone, err
		}
		var err error
		switch phase := m.Phase(); phase {
		case PlayerTurn:
			_, err = m.PlayFence(ctx, fencePlayer)
		case CatTurn:
			_, err = m.PlayCat(ctx, catPlayer)
		default:
			return phase.Winner(), nil
		}
		if err != nil {
			return SideNone, err
		}
	}
}

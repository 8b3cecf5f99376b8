package match

import (
	"context"
	"fmt"

	. "github.com/hexcat/trapcat/internal/state"
	"github.com/pkg/errors"
)

// recordedPlayer plays a fixed action: it is used to replay the cat moves through the same
// validation as a live match.
type recordedPlayer struct {
	action Action
}

func (p recordedPlayer) String() string { return fmt.Sprintf("recorded(%s)", p.action) }

func (p recordedPlayer) Play(_ context.Context, _ *GameState, _ Side) (Action, int, error) {
	return p.action, 0, nil
}

func (p recordedPlayer) Finalize() {}

// Replay plays the recorded match from its initial state, enforcing the turn order and the rules, and returns
// the resulting Match. The listeners are subscribed before the first action is replayed.
//
// It fails if any action is out of turn or invalid, or if the recorded winner doesn't match the replayed match.
func Replay(record MatchRecord, listeners ...func(Snapshot)) (*Match, error) {
	if record.Initial == nil {
		return nil, errors.New("match record without initial state")
	}
	m := New(record.Initial)
	for _, listener := range listeners {
		m.Subscribe(listener)
	}
	for ii, action := range record.Actions {
		var err error
		switch action.Side {
		case SideFence:
			var ok bool
			ok, err = m.PlaceFence(action.Pos)
			if err == nil && !ok {
				err = errors.Wrap(ErrIllegalMove, "fence rejected")
			}
		case SideCat:
			_, err = m.PlayCat(context.Background(), recordedPlayer{action: action})
		default:
			err = errors.Wrapf(ErrIllegalMove, "invalid side %s", action.Side)
		}
		if err != nil {
			return m, errors.WithMessagef(err, "failed to replay action #%d (%s)", ii, action)
		}
	}
	if winner := m.Phase().Winner(); winner != record.Winner {
		return m, errors.Errorf("recorded winner is %s, but the replayed match winner is %s", record.Winner, winner)
	}
	return m, nil
}

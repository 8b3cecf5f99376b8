package players

import (
	"context"

	"github.com/hexcat/trapcat/internal/searchers"
	. "github.com/hexcat/trapcat/internal/state"
	"k8s.io/klog/v2"
)

// SearcherPlayer is the standard set up for an AI: a searcher (which owns its scorer).
// It implements the Player interface.
type SearcherPlayer struct {
	Name     string
	Searcher searchers.Searcher
}

// Assert that SearcherPlayer is a Player.
var _ Player = &SearcherPlayer{}

// NewSearcherPlayer creates a Player that uses the given searcher to choose its actions.
// The name is used for logging and display.
func NewSearcherPlayer(name string, searcher searchers.Searcher) *SearcherPlayer {
	return &SearcherPlayer{Name: name, Searcher: searcher}
}

// String implements fmt.Stringer.
func (p *SearcherPlayer) String() string {
	return p.Name
}

// Play implements the Player interface: it chooses an action given a GameState.
func (p *SearcherPlayer) Play(ctx context.Context, s *GameState, side Side) (action Action, score int, err error) {
	action, score, _, err = p.Searcher.Search(ctx, s, side)
	if err != nil {
		return NoAction, 0, err
	}
	if klog.V(2).Enabled() {
		klog.Infof("AI (%s) playing %s: %s, score=%d", p.Name, side, action, score)
	}
	return
}

// Finalize is called at the end of a match.
func (p *SearcherPlayer) Finalize() {
	if klog.V(1).Enabled() {
		klog.Infof("Player (%s) finalized", p.Name)
	}
	p.Searcher = nil
}

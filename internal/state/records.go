package state

import (
	"encoding/gob"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Save versions: new fields are appended to newer versions.
const (
	RecordBoardAndActions = iota
	RecordBoardActionsAndWinner
)

// Encoder is any type of encoder -- implemented by gob.Encoder, json.Encoder
type Encoder interface {
	// Encode v or return an error.
	Encode(v any) error
}

// MatchRecord is what is saved of a match: enough to replay it.
type MatchRecord struct {
	Initial *GameState
	Actions []Action

	// Winner is SideNone for matches interrupted before the end.
	Winner Side
}

// EncodeMatch will "save" (encode) the match for future reconstruction.
func EncodeMatch(enc Encoder, record MatchRecord) error {
	if record.Initial == nil {
		return errors.New("match record without initial state")
	}
	saveFileVersion := RecordBoardActionsAndWinner
	if err := enc.Encode(saveFileVersion); err != nil {
		return errors.Wrapf(err, "failed to encode match's version")
	}
	if err := enc.Encode(record.Initial.board); err != nil {
		return errors.Wrapf(err, "failed to encode match's initial board")
	}
	if err := enc.Encode(record.Actions); err != nil {
		return errors.Wrapf(err, "failed to encode match's actions")
	}
	if err := enc.Encode(record.Winner); err != nil {
		return errors.Wrapf(err, "failed to encode match's winner")
	}
	return nil
}

// LoadMatch restores a match saved with EncodeMatch.
func LoadMatch(dec *gob.Decoder) (record MatchRecord, err error) {
	var saveFileVersion int
	if err = dec.Decode(&saveFileVersion); err != nil {
		return
	}
	klog.V(2).Infof("Loading saveFileVersion %d", saveFileVersion)
	if saveFileVersion > RecordBoardActionsAndWinner {
		err = errors.Errorf("unknown match save file version %d", saveFileVersion)
		return
	}

	var board Board
	if err = dec.Decode(&board); err != nil {
		err = errors.Wrapf(err, "failed to decode match's initial board")
		return
	}
	if record.Initial, err = NewGameStateFromBoard(board); err != nil {
		err = errors.WithMessagef(err, "invalid initial board in match")
		return
	}
	if err = dec.Decode(&record.Actions); err != nil {
		err = errors.Wrapf(err, "failed to decode match's actions")
		return
	}
	if saveFileVersion >= RecordBoardActionsAndWinner {
		if err = dec.Decode(&record.Winner); err != nil {
			err = errors.Wrapf(err, "failed to decode match's winner")
			return
		}
	}
	klog.V(2).Infof("Loaded match with %d actions, winner=%s", len(record.Actions), record.Winner)
	return
}

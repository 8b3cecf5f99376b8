// replay reads the matches saved by compare (-save_matches) and replays them, checking every action is valid and
// that the recorded winner matches the final board. Optionally it prints the boards of each match.
package main

import (
	"encoding/gob"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/hexcat/trapcat/internal/match"
	. "github.com/hexcat/trapcat/internal/state"
	"github.com/hexcat/trapcat/internal/ui/cli"
	"github.com/janpfeifer/must"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

var (
	flagInput = flag.String("input", "", "File with matches saved by compare -save_matches.")
	flagPrint = flag.Bool("print", false, "Print the board after every action of each match.")
	flagMatch = flag.Int("match", -1, "If >= 0, only replay the match with this index in the file.")
	flagColor = flag.Bool("color", true, "Use colors in the terminal.")
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()
	if *flagInput == "" {
		klog.Exit("Please set -input with the file of saved matches.")
	}

	file := must.M1(os.Open(*flagInput))
	defer func() { _ = file.Close() }()
	dec := gob.NewDecoder(file)

	var ui *cli.UI
	if *flagPrint {
		ui = cli.New(*flagColor, false)
	}
	var count, catWins, fenceWins int
	for matchIdx := 0; ; matchIdx++ {
		record, err := LoadMatch(dec)
		if errors.Is(err, io.EOF) {
			break
		}
		must.M(err)
		if *flagMatch >= 0 && matchIdx != *flagMatch {
			continue
		}

		var listeners []func(match.Snapshot)
		if ui != nil {
			fmt.Printf("\n=== Match #%d ===\n", matchIdx)
			ui.PrintBoard(record.Initial)
			listeners = append(listeners, ui.Print)
		}
		m, err := match.Replay(record, listeners...)
		if err != nil {
			klog.Exitf("Match #%d is invalid: %+v", matchIdx, err)
		}
		winner := m.Phase().Winner()
		if ui != nil {
			ui.PrintWinner(winner)
		}
		count++
		switch winner {
		case SideCat:
			catWins++
		case SideFence:
			fenceWins++
		}
	}
	fmt.Printf("%d matches replayed: cat won %d, fences won %d, %d unfinished.\n",
		count, catWins, fenceWins, count-catWins-fenceWins)
}

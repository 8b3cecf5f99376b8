// compare plays many AI vs AI matches, the cat against the fences, and reports how often each side wins.
// It is used to compare search configurations, e.g. the cat with different search depths.
package main

import (
	"context"
	"encoding/gob"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/gomlx/exceptions"
	"github.com/hexcat/trapcat/internal/match"
	"github.com/hexcat/trapcat/internal/players"
	_ "github.com/hexcat/trapcat/internal/players/default"
	"github.com/hexcat/trapcat/internal/profilers"
	"github.com/hexcat/trapcat/internal/state"
	"github.com/hexcat/trapcat/internal/ui/cli"
	"github.com/hexcat/trapcat/internal/ui/spinning"
	"github.com/janpfeifer/must"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"
)

var (
	flagCatConfig   = flag.String("cat", players.DefaultPlayerConfig, "Cat AI configuration.")
	flagFenceConfig = flag.String("fence", "random", "Fences AI configuration.")
	flagNumMatches  = flag.Int("num_matches", 100, "Number of matches to play.")
	flagParallelism = flag.Int("parallelism", 0, "If > 0 ignore GOMAXPROCS and play "+
		"these many matches simultaneously.")
	flagSeed       = flag.Uint64("seed", 1, "Seed for the initial fences of the matches: match i uses seed+i.")
	flagPrintSteps = flag.Bool("print_steps", false, "Print board at each step. "+
		"Very verbose, and you probably want to set -parallelism=1.")
	flagSaveMatches = flag.String("save_matches", "", "If set, save the finished matches to the given file.")
)

// Globals
var (
	// globalCtx used everywhere. It is cancelled when the program is about to exit either by
	// an interrupt (ctrl+C) or by reaching the end.
	globalCtx = context.Background()
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()
	if *flagNumMatches <= 0 {
		exceptions.Panicf("invalid -num_matches=%d, it must be > 0", *flagNumMatches)
	}

	// Capture Control+C
	var globalCancel func()
	globalCtx, globalCancel = context.WithCancel(context.Background())
	spinning.SafeInterrupt(globalCancel, 5*time.Second)
	defer globalCancel()

	// Profilers: HTTP profiler server and CPU profile.
	must.M(profilers.Setup(globalCtx))
	defer profilers.OnQuit()

	// Validate configurations early: each match creates its own players, since
	// randomized players are not safe for concurrent use.
	for _, config := range []string{*flagCatConfig, *flagFenceConfig} {
		must.M1(players.New(config)).Finalize()
	}

	var saver *matchSaver
	if *flagSaveMatches != "" {
		saver = must.M1(newMatchSaver(*flagSaveMatches))
		defer func() { must.M(saver.Close()) }()
	}
	must.M(runMatches(globalCtx, saver))
}

// Results of the matches played so far.
type Results struct {
	mu                 sync.Mutex
	start              time.Time
	catWins, fenceWins int
	totalMoves         int
	played, total      int
}

func (r *Results) String() string {
	var parts []string
	parts = append(parts, fmt.Sprintf("Played %d of %d: ", r.played, r.total))
	parts = append(parts, fmt.Sprintf("Cat (%s): %d wins / Fences (%s): %d wins / ",
		*flagCatConfig, r.catWins, *flagFenceConfig, r.fenceWins))
	if r.played > 0 {
		parts = append(parts, fmt.Sprintf("%.1f moves per match - ", float64(r.totalMoves)/float64(r.played)))
	}
	parts = append(parts, fmt.Sprintf("%s", time.Since(r.start).Round(time.Millisecond)))
	parts = append(parts, "\033[0K")
	return strings.Join(parts, "")
}

func runMatches(ctx context.Context, saver *matchSaver) error {
	r := &Results{
		start: time.Now(),
		total: *flagNumMatches,
	}
	var wg errgroup.Group
	wg.SetLimit(getParallelism())
	fmt.Printf("\r%s", r)

	for matchIdx := range r.total {
		wg.Go(func() error {
			m, winner, err := runMatch(ctx, matchIdx)
			if err != nil || ctx.Err() != nil {
				return err
			}
			if saver != nil {
				if err := saver.Save(m.Record()); err != nil {
					return err
				}
			}

			// Record winner.
			r.mu.Lock()
			defer r.mu.Unlock()
			if winner == state.SideCat {
				r.catWins++
			} else {
				r.fenceWins++
			}
			r.totalMoves += len(m.Actions())
			r.played++
			fmt.Printf("\r%s", r)
			return nil
		})
	}
	err := wg.Wait()
	fmt.Printf("\r%s", r)
	fmt.Println()
	if ctx.Err() != nil {
		fmt.Printf("Interrupted: %s\n", ctx.Err())
		return nil
	}
	return err
}

var (
	stepUI   = cli.New(true, false)
	muStepUI sync.Mutex
)

func runMatch(ctx context.Context, matchIdx int) (m *match.Match, winner state.Side, err error) {
	if klog.V(1).Enabled() {
		klog.Infof("Starting match %d", matchIdx)
		defer klog.Infof("Finished match %d", matchIdx)
	}
	catPlayer, err := players.New(*flagCatConfig)
	if err != nil {
		return nil, state.SideNone, err
	}
	defer catPlayer.Finalize()
	fencePlayer, err := players.New(*flagFenceConfig)
	if err != nil {
		return nil, state.SideNone, err
	}
	defer fencePlayer.Finalize()

	seed := *flagSeed + uint64(matchIdx)
	m = match.New(state.NewRandomGameState(rand.New(rand.NewPCG(seed, seed))))
	matchName := fmt.Sprintf("Match-%05d", matchIdx)
	if *flagPrintSteps {
		m.Subscribe(func(snap match.Snapshot) {
			muStepUI.Lock()
			defer muStepUI.Unlock()
			fmt.Printf("%s, move #%d: %s\n", matchName, snap.MoveNumber, snap.LastAction)
			stepUI.PrintBoard(&snap.State)
			fmt.Println()
			fmt.Println("------------------")
		})
	}
	winner, err = m.Run(ctx, fencePlayer, catPlayer)
	if err != nil {
		if ctx.Err() != nil {
			klog.V(1).Infof("%s interrupted: %s", matchName, ctx.Err())
			return m, state.SideNone, nil
		}
		return nil, state.SideNone, errors.WithMessagef(err, "%s failed", matchName)
	}
	return m, winner, nil
}

// matchSaver saves finished matches to a file, one after the other, with state.EncodeMatch.
type matchSaver struct {
	mu   sync.Mutex
	file *os.File
	enc  *gob.Encoder
}

// newMatchSaver creates the file in path. If the file already exists, it is renamed with a "~" suffix.
func newMatchSaver(path string) (*matchSaver, error) {
	if _, err := os.Stat(path); err == nil {
		backupName := path + "~"
		if err = os.Rename(path, backupName); err != nil {
			return nil, errors.Wrapf(err, "failed to rename %q to %q", path, backupName)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to create file %q to save matches", path)
	}
	return &matchSaver{file: f, enc: gob.NewEncoder(f)}, nil
}

// Save encodes record to the file. It is safe for concurrent use.
func (s *matchSaver) Save(record state.MatchRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return state.EncodeMatch(s.enc, record)
}

// Close the underlying file.
func (s *matchSaver) Close() error {
	return errors.Wrapf(s.file.Close(), "failed to close file %q with saved matches", s.file.Name())
}

// getParallelism returns the parallelism.
func getParallelism() (parallelism int) {
	parallelism = runtime.GOMAXPROCS(0)
	if *flagParallelism > 0 {
		parallelism = *flagParallelism
	}
	return
}

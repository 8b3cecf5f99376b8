// trapcat is the terminal version of the game: you place fences on an hexagonal board, one per turn,
// and after each fence the cat (an AI) moves one cell. Trap the cat before it reaches the edge of the board.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/gomlx/exceptions"
	"github.com/hexcat/trapcat/internal/match"
	"github.com/hexcat/trapcat/internal/players"
	_ "github.com/hexcat/trapcat/internal/players/default"
	"github.com/hexcat/trapcat/internal/scoreboard"
	. "github.com/hexcat/trapcat/internal/state"
	"github.com/hexcat/trapcat/internal/ui/cli"
	"github.com/hexcat/trapcat/internal/ui/spinning"
	"github.com/janpfeifer/must"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

var (
	flagAIConfig    = flag.String("config", players.DefaultPlayerConfig, "AI configuration of the cat.")
	flagWatch       = flag.Bool("watch", false, "Watch mode: an AI places the fences too.")
	flagFenceConfig = flag.String("fence_config", "random", "AI configuration for the fences, used with -watch.")
	flagSeed        = flag.Uint64("seed", 0, "Seed for the initial fences. If 0, a random seed is used.")
	flagScoreboard  = flag.String("scoreboard", "", "Path to the scoreboard file. Default is ~/"+scoreboard.DefaultPath)
	flagColor       = flag.Bool("color", true, "Use colors in the terminal.")
	flagClear       = flag.Bool("clear", false, "Clear the screen before printing the board.")

	globalCtx = context.Background()
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()

	// Capture Control+C
	var cancel func()
	globalCtx, cancel = context.WithCancel(context.Background())
	spinning.SafeInterrupt(cancel, 3*time.Second)
	defer cancel()

	catPlayer := must.M1(players.New(*flagAIConfig))
	defer catPlayer.Finalize()
	var fencePlayer players.Player
	if *flagWatch {
		fencePlayer = must.M1(players.New(*flagFenceConfig))
		defer fencePlayer.Finalize()
	}

	sb := must.M1(loadScoreboard())
	ui := cli.New(*flagColor, *flagClear)

	seed := *flagSeed
	if seed == 0 {
		seed = rand.Uint64()
	}
	klog.V(1).Infof("Initial fences seed: %d", seed)
	m := match.New(NewRandomGameState(rand.New(rand.NewPCG(seed, seed))))
	m.Subscribe(func(snap match.Snapshot) {
		klog.V(1).Infof("Move #%d: %s -> %s", snap.MoveNumber, snap.LastAction, snap.Phase)
	})

	winner, err := playMatch(globalCtx, m, ui, fencePlayer, catPlayer)
	if err != nil {
		if errors.Is(err, cli.ErrQuit) || globalCtx.Err() != nil {
			fmt.Println("\nMatch abandoned, the scoreboard was not changed.")
			return
		}
		klog.Exitf("Failed to run match: %+v", err)
	}

	ui.Print(m.Snapshot())
	if err := reportResult(ui, sb, winner, *flagWatch); err != nil {
		klog.Errorf("Failed to update scoreboard: %+v", err)
	}
}

// reportResult prints the winner and the scoreboard. Only matches where the user placed the fences
// are recorded in the scoreboard.
func reportResult(ui *cli.UI, sb *scoreboard.Scoreboard, winner Side, watch bool) error {
	if watch {
		ui.PrintWatchWinner(winner)
		ui.PrintScoreboard(sb)
		return nil
	}
	ui.PrintWinner(winner)
	if err := sb.Record(winner); err != nil {
		return err
	}
	err := sb.Save()
	ui.PrintScoreboard(sb)
	return err
}

// loadScoreboard from the -scoreboard flag, or from the default path.
func loadScoreboard() (*scoreboard.Scoreboard, error) {
	path := *flagScoreboard
	if path == "" {
		var err error
		path, err = scoreboard.DefaultFilePath()
		if err != nil {
			return nil, err
		}
	}
	return scoreboard.Load(path)
}

// playMatch loops over the turns until the match is finished. If fencePlayer is nil, the fences
// are read from the terminal.
func playMatch(ctx context.Context, m *match.Match, ui *cli.UI, fencePlayer, catPlayer players.Player) (Side, error) {
	for {
		if err := ctx.Err(); err != nil {
			return SideNone, err
		}
		snap := m.Snapshot()
		switch snap.Phase {
		case match.PlayerTurn:
			ui.Print(snap)
			if fencePlayer != nil {
				if _, err := playAI(ctx, fencePlayer, "Fences thinking", m.PlayFence); err != nil {
					return SideNone, err
				}
				continue
			}
			pos, err := ui.ReadFence(&snap.State)
			if err != nil {
				return SideNone, err
			}
			ok, err := m.PlaceFence(pos)
			if err != nil {
				return SideNone, err
			}
			if !ok {
				exceptions.Panicf("fence at %s was validated but rejected by the match", pos)
			}
		case match.CatTurn:
			if _, err := playAI(ctx, catPlayer, "Cat thinking", m.PlayCat); err != nil {
				return SideNone, err
			}
		default:
			return snap.Phase.Winner(), nil
		}
	}
}

// playAI runs play (match.PlayCat or match.PlayFence) with a spinner, and prints the chosen action.
func playAI(ctx context.Context, player players.Player, label string,
	play func(context.Context, players.Player) (Action, error)) (Action, error) {
	s := spinning.New(ctx, fmt.Sprintf("%s (%s)", label, player))
	action, err := play(ctx, player)
	elapsed := s.Done()
	if err != nil {
		return action, err
	}
	if action.IsNoAction() {
		fmt.Printf("%s: no action available (%s)\n", player, elapsed.Round(time.Millisecond))
	} else {
		fmt.Printf("%s: %s (%s)\n", player, action, elapsed.Round(time.Millisecond))
	}
	return action, nil
}

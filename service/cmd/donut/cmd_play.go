package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	engine "github.com/jason-s-yu/donut/engine"
	"github.com/jason-s-yu/donut/service/internal/config"
	"github.com/jason-s-yu/donut/service/internal/equilibrium"
	"github.com/jason-s-yu/donut/service/internal/game"
)

var (
	playPlayers string
	playLimit   int
	playSeed    uint64
	playNashDir string

	playCmd = &cobra.Command{
		Use:   "play",
		Short: "Play a game in the terminal against the computer players",
		Long: `Play a game in the terminal against the computer players.

The default line-up includes Nash, who plays a precomputed equilibrium read
from nash_<n>.json in --nash-dir (default from config: nash_strategies). No
tables ship with donut; without one, pass --players without Nash, e.g.
--players Karl,Dory,Sage.`,
		RunE: runPlayCommand,
	}
)

func init() {
	playCmd.Flags().StringVar(&playPlayers, "players", "", "comma separated AI players, e.g. Nash,Karl,Dory,Sage")
	playCmd.Flags().IntVar(&playLimit, "limit", 0, "score limit")
	playCmd.Flags().Uint64Var(&playSeed, "seed", 0, "random seed for a reproducible game")
	playCmd.Flags().StringVar(&playNashDir, "nash-dir", "", "directory holding nash_<n>.json files")
}

func runPlayCommand(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	settings := game.Settings{Roster: cfg.Game.Roster, ScoreLimit: cfg.Game.ScoreLimit}
	if playPlayers != "" {
		settings.Roster = config.SplitRoster(playPlayers)
	}
	if playLimit != 0 {
		settings.ScoreLimit = playLimit
	}
	if cmd.Flags().Changed("seed") {
		settings.Seed = &playSeed
	}
	dir := cfg.NashDir
	if playNashDir != "" {
		dir = playNashDir
	}
	return runPlay(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), settings, equilibrium.NewFileProvider(dir))
}

// runPlay runs terminal games until the input ends or the player quits.
// Choices are shown and read 1-based.
func runPlay(ctx context.Context, in io.Reader, out io.Writer, settings game.Settings, provider equilibrium.Provider) error {
	g := game.NewDonutGame(settings, provider)
	if err := g.Start(ctx); err != nil {
		if errors.Is(err, equilibrium.ErrNotFound) {
			return fmt.Errorf("%w (Nash needs nash_<n>.json; pass --nash-dir or leave Nash out of --players)", err)
		}
		return err
	}
	log.Debugf("Game %s: seed %d", g.ID, g.Seed())

	sc := bufio.NewScanner(in)
	printIntro(out, g.State())
	for {
		st := g.State()
		if st.GameOver {
			fmt.Fprintf(out, "\n%s won the game!\nPlay again? [y/N] ", st.OverallWinner)
			if !sc.Scan() || !strings.EqualFold(strings.TrimSpace(sc.Text()), "y") {
				return sc.Err()
			}
			next := settings
			next.Seed = nil
			if err := g.Reset(ctx, next); err != nil {
				return err
			}
			printIntro(out, g.State())
			continue
		}

		fmt.Fprintf(out, "\nRound %d. Your pick (1-%d, q to quit): ", st.Round+1, st.NumChoices)
		if !sc.Scan() {
			return sc.Err()
		}
		line := strings.TrimSpace(sc.Text())
		if strings.EqualFold(line, "q") {
			return nil
		}
		pick, err := strconv.Atoi(line)
		if err != nil {
			fmt.Fprintf(out, "%q is not a number.\n", line)
			continue
		}
		res, err := g.SubmitMove(pick - 1)
		if errors.Is(err, engine.ErrInvalidMove) {
			fmt.Fprintf(out, "Pick a number from 1 to %d.\n", st.NumChoices)
			continue
		}
		if err != nil {
			return err
		}
		printRound(out, g.State(), res)
	}
}

func printIntro(out io.Writer, st game.SessionState) {
	names := make([]string, 0, len(st.Players)-1)
	for _, p := range st.Players[1:] {
		names = append(names, p.ID)
	}
	fmt.Fprintf(out, "You are playing against %s. First to %d wins.\n", strings.Join(names, ", "), st.ScoreLimit)
}

func printRound(out io.Writer, st game.SessionState, res game.RoundResult) {
	fmt.Fprintf(out, "%-8s %6s %6s %6s\n", "Player", "Pick", "Points", "Score")
	for _, p := range st.Players {
		fmt.Fprintf(out, "%-8s %6d %6d %6d\n", p.ID, res.Moves[p.ID]+1, res.Points[p.ID], res.Scores[p.ID])
	}
	if res.Draw {
		fmt.Fprintln(out, "Nobody picked alone. Draw.")
		return
	}
	fmt.Fprintf(out, "%s wins round %d.\n", res.Winner, res.Round)
}

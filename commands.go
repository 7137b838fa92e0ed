package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/guessnumber/internal/config"
	"github.com/robalobadob/guessnumber/internal/console"
	"github.com/robalobadob/guessnumber/internal/daily"
	"github.com/robalobadob/guessnumber/internal/game"
	"github.com/robalobadob/guessnumber/internal/store"
)

func newPlayCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Play a round with one or more players",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runPlay(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
}

func newBestCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "best",
		Short: "Show the best score (fewest attempts)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ledger, closeLedger, err := openLedger(a.cfg)
			if err != nil {
				return err
			}
			defer closeLedger()

			rec, ok, err := ledger.Best(cmd.Context())
			if err != nil {
				return fmt.Errorf("read scores: %w", err)
			}
			console.New(cmd.InOrStdin(), cmd.OutOrStdout()).PrintBest(rec, ok)
			return nil
		},
	}
}

func newScoresCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "scores",
		Short: "List every recorded score in the order it was saved",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ledger, closeLedger, err := openLedger(a.cfg)
			if err != nil {
				return err
			}
			defer closeLedger()

			recs, err := ledger.Records(cmd.Context())
			if err != nil {
				return fmt.Errorf("read scores: %w", err)
			}
			out := cmd.OutOrStdout()
			if len(recs) == 0 {
				fmt.Fprintln(out, "No scores recorded yet.")
				return nil
			}
			for _, r := range recs {
				fmt.Fprint(out, store.FormatRecord(r))
			}
			return nil
		},
	}
}

func newHistoryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "history <player>",
		Short: "Show a player's most recent guess history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			guesses, err := store.NewFileHistory(a.cfg.DataDir).Read(cmd.Context(), name)
			if errors.Is(err, store.ErrNotFound) {
				fmt.Fprintf(cmd.OutOrStdout(), "No guess history for %s.\n", name)
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), store.FormatHistory(name, guesses))
			return nil
		},
	}
}

// openLedger opens the configured ledger backend. The returned close
// function is always safe to call.
func openLedger(cfg *config.Config) (game.ScoreLedger, func() error, error) {
	switch cfg.LedgerBackend {
	case config.BackendSQLite:
		l, err := store.OpenSQLiteLedger(cfg.DatabasePath())
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite ledger: %w", err)
		}
		return l, l.Close, nil
	default:
		return store.NewFileLedger(cfg.ScoresPath()), func() error { return nil }, nil
	}
}

// player is one entry collected before play starts.
type player struct {
	name       string
	difficulty game.Difficulty
}

// runPlay collects players, plays their sessions in turn and prints the
// best score.
func (a *app) runPlay(ctx context.Context, in io.Reader, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	con := console.New(in, out)

	ledger, closeLedger, err := openLedger(a.cfg)
	if err != nil {
		return err
	}
	defer closeLedger()

	if fl, ok := ledger.(*store.FileLedger); ok {
		created, err := fl.Init()
		switch {
		case err != nil:
			con.Printf("Error creating the score file: %v\n", err)
		case created:
			con.Printf("File '%s' successfully created.\n", fl.Path())
		}
	}

	history := store.NewFileHistory(a.cfg.DataDir)
	con.HistoryPath = history.Path

	con.Printf("Welcome to the 'Guess The Number' game!\n")
	count, err := con.AskPlayerCount(ctx)
	if err != nil {
		return err
	}
	var players []player
	for i := 1; i <= count; i++ {
		name, err := con.AskPlayerName(ctx, i)
		if err != nil {
			return err
		}
		d, err := con.AskDifficulty(ctx, name)
		if err != nil {
			return err
		}
		players = append(players, player{name: name, difficulty: d})
	}

	opts := []game.Option{
		game.WithLedger(ledger),
		game.WithHistory(history),
		game.WithObserver(con),
	}
	switch {
	case a.rnd != nil:
		opts = append(opts, game.WithRand(a.rnd))
	case a.daily:
		opts = append(opts, game.WithRand(daily.NewSource(a.cfg.DailySalt)))
	}

	for _, p := range players {
		s, err := game.New(p.name, p.difficulty.Attempts(), opts...)
		if err != nil {
			return err
		}
		if _, err := s.Play(ctx, con); err != nil {
			return fmt.Errorf("%s's turn: %w", p.name, err)
		}
	}

	best, ok, err := ledger.Best(ctx)
	if err != nil {
		log.Error().Err(err).Msg("read best score")
		con.Printf("Error reading scores: %v\n", err)
		return nil
	}
	con.PrintBest(best, ok)
	return nil
}

// guessnumber
//
// Multi-player console guess-the-number game. Each player guesses a
// secret between 1 and 100 within an attempt budget picked from a
// difficulty menu; wins go to a shared score ledger and every player's
// guesses are saved to a history file.
package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/robalobadob/guessnumber/internal/config"
	"github.com/robalobadob/guessnumber/internal/game"
)

var version = "dev"

// app carries what every subcommand needs once flags are parsed.
type app struct {
	cfg *config.Config

	// daily makes every session use today's shared secret.
	daily bool

	// rnd overrides the secret source; nil means per-session random.
	rnd game.RandSource

	envFile string
	dataDir string
	backend string
}

func main() {
	if err := newRootCmd(&app{}).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "guessnumber",
		Short: "Guess The Number - multi-player console game",
		Long: `Guess a secret number between 1 and 100 before your attempts run out.

  guessnumber                    Play a round (same as "play")
  guessnumber best               Show the best score
  guessnumber scores             List every recorded score
  guessnumber history <player>   Show a player's last guess history`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runPlay(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.envFile, "env-file", ".env", "dotenv file to load")
	pf.StringVar(&a.dataDir, "data-dir", "", "directory for score and history files (env GUESS_DATA_DIR)")
	pf.StringVar(&a.backend, "backend", "", `score ledger backend: "file" or "sqlite" (env GUESS_LEDGER_BACKEND)`)
	pf.BoolVar(&a.daily, "daily", false, "give every player today's shared secret")

	root.AddCommand(
		newPlayCmd(a),
		newBestCmd(a),
		newScoresCmd(a),
		newHistoryCmd(a),
	)
	return root
}

// setup loads configuration, applies flag overrides and configures logging.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.envFile)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("data-dir") {
		cfg.DataDir = a.dataDir
	}
	if cmd.Flags().Changed("backend") {
		cfg.LedgerBackend = a.backend
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	setupLogging(cmd.ErrOrStderr(), cfg.LogLevel)
	log.Debug().Str("dataDir", cfg.DataDir).Str("backend", cfg.LedgerBackend).Msg("config loaded")
	return nil
}

// setupLogging points the global logger at w in human-readable form.
func setupLogging(w io.Writer, level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.WarnLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger()
}

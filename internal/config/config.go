// Package config loads runtime settings for the game.
//
// Values resolve in order: CLI flag > environment > .env file > default.
package config

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Ledger backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Config holds all settings for a run.
type Config struct {
	// DataDir is where the ledger and history files live.
	DataDir string `env:"GUESS_DATA_DIR" envDefault:"."`

	// LedgerBackend selects the score ledger: "file" or "sqlite".
	LedgerBackend string `env:"GUESS_LEDGER_BACKEND" envDefault:"file"`

	// ScoresFile is the text ledger name, relative to DataDir.
	ScoresFile string `env:"GUESS_SCORES_FILE" envDefault:"scores.txt"`

	// SQLitePath is the database name for the sqlite backend, relative to DataDir.
	SQLitePath string `env:"GUESS_SQLITE_PATH" envDefault:"scores.db"`

	// DailySalt keys the daily secret. Only used in daily mode.
	DailySalt string `env:"GUESS_DAILY_SALT" envDefault:"local_dev_salt"`

	// LogLevel is a zerolog level name.
	LogLevel string `env:"LOG_LEVEL" envDefault:"warn"`
}

// Load reads an optional .env file (existing env vars win) and parses the
// environment into a Config. Callers apply their overrides and then Validate.
func Load(envFiles ...string) (*Config, error) {
	_ = godotenv.Load(envFiles...)

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}

// Validate checks settings that have a closed set of values.
func (c *Config) Validate() error {
	switch c.LedgerBackend {
	case BackendFile, BackendSQLite:
	default:
		return fmt.Errorf("unknown ledger backend %q (want %q or %q)", c.LedgerBackend, BackendFile, BackendSQLite)
	}
	if c.ScoresFile == "" || c.SQLitePath == "" {
		return errors.New("ledger file names must not be empty")
	}
	return nil
}

// ScoresPath is the full text ledger path.
func (c *Config) ScoresPath() string { return c.resolve(c.ScoresFile) }

// DatabasePath is the full sqlite database path.
func (c *Config) DatabasePath() string { return c.resolve(c.SQLitePath) }

func (c *Config) resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.DataDir, name)
}

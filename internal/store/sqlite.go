// internal/store/sqlite.go
//
// SQLite-backed score ledger.
// Responsibilities:
//   - Opening the SQLite database with safe defaults (WAL, busy timeout).
//   - Applying embedded migrations (idempotent, recorded in _migrations).
//   - Append / best / list over the scores table.
//
// Append order is the autoincrement id, which also breaks ties in Best.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/guessnumber/assets"
	"github.com/robalobadob/guessnumber/internal/game"
)

// SQLiteLedger implements game.ScoreLedger on a SQLite table.
type SQLiteLedger struct {
	db *sql.DB
	mu sync.Mutex // one writer at a time
}

// OpenSQLiteLedger opens (creating if missing) the database at path and
// applies migrations. Re-opening an existing database keeps its records.
func OpenSQLiteLedger(path string) (*SQLiteLedger, error) {
	db, err := openDB(path)
	if err != nil {
		return nil, err
	}
	if err := migrate(db, assets.Migrations()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteLedger{db: db}, nil
}

// Close releases the database handle.
func (l *SQLiteLedger) Close() error { return l.db.Close() }

// Append inserts rec.
func (l *SQLiteLedger) Append(ctx context.Context, rec game.ScoreRecord) error {
	if err := validateRecord(rec); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO scores (player_name, attempts) VALUES (?, ?)`,
		rec.PlayerName, rec.Attempts,
	)
	if err != nil {
		return fmt.Errorf("insert score: %w", err)
	}
	return nil
}

// Best returns the lowest attempts, earliest insert first on ties.
func (l *SQLiteLedger) Best(ctx context.Context) (game.ScoreRecord, bool, error) {
	var rec game.ScoreRecord
	err := l.db.QueryRowContext(ctx, `
        SELECT player_name, attempts
        FROM scores
        ORDER BY attempts ASC, id ASC
        LIMIT 1`,
	).Scan(&rec.PlayerName, &rec.Attempts)
	if errors.Is(err, sql.ErrNoRows) {
		return game.ScoreRecord{}, false, nil
	}
	if err != nil {
		return game.ScoreRecord{}, false, fmt.Errorf("best score: %w", err)
	}
	return rec, true, nil
}

// Records lists all scores in insert order.
func (l *SQLiteLedger) Records(ctx context.Context) ([]game.ScoreRecord, error) {
	rows, err := l.db.QueryContext(ctx, `SELECT player_name, attempts FROM scores ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list scores: %w", err)
	}
	defer rows.Close()

	var out []game.ScoreRecord
	for rows.Next() {
		var r game.ScoreRecord
		if err := rows.Scan(&r.PlayerName, &r.Attempts); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// openDB opens (and creates if missing) a SQLite database file.
//
//   - Ensures the parent directory exists for relative paths (e.g. ./data/scores.db).
//   - Configures busy timeout and WAL journaling mode.
func openDB(path string) (*sql.DB, error) {
	dir := filepath.Dir(path)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return db, nil
}

// migrate applies *.sql scripts from fsys in lexical order.
//
//   - Uses a _migrations table to track applied files.
//   - Skips files already recorded.
//   - Each script runs in its own transaction together with its record row.
func migrate(db *sql.DB, fsys fs.FS) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS _migrations (name TEXT PRIMARY KEY);`); err != nil {
		return fmt.Errorf("create _migrations: %w", err)
	}

	var files []string
	if err := fs.WalkDir(fsys, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(strings.ToLower(d.Name()), ".sql") {
			files = append(files, path)
		}
		return nil
	}); err != nil {
		return fmt.Errorf("walk migrations: %w", err)
	}
	sort.Strings(files)

	for _, f := range files {
		var done int
		err := db.QueryRow(`SELECT 1 FROM _migrations WHERE name=?`, f).Scan(&done)
		if err == nil {
			log.Debug().Str("migration", f).Msg("already applied")
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("query _migrations: %w", err)
		}

		sqlBytes, err := fs.ReadFile(fsys, f)
		if err != nil {
			return fmt.Errorf("read %s: %w", f, err)
		}

		tx, err := db.Begin()
		if err != nil {
			return err
		}
		if _, err := tx.Exec(string(sqlBytes)); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply %s: %w", f, err)
		}
		if _, err := tx.Exec(`INSERT INTO _migrations(name) VALUES (?)`, f); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record %s: %w", f, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit %s: %w", f, err)
		}
		log.Debug().Str("migration", f).Msg("applied")
	}
	return nil
}

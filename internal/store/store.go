// internal/store/store.go
//
// Persistence backends for the guessing game.
// Implements game.ScoreLedger and game.HistoryStore:
//   - FileLedger / FileHistory: the plain-text formats players read directly.
//   - SQLiteLedger: ledger in a SQLite table.
//   - MemoryLedger / MemoryHistory: ephemeral, for tests and dry runs.
//
// Every implementation is safe for concurrent use. Ledger appends are
// serialised so scan order always equals append order.

package store

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/robalobadob/guessnumber/internal/game"
)

var (
	ErrInvalidRecord = errors.New("invalid score record")
	ErrNotFound      = errors.New("not found")
)

var (
	_ game.ScoreLedger  = (*FileLedger)(nil)
	_ game.ScoreLedger  = (*SQLiteLedger)(nil)
	_ game.ScoreLedger  = (*MemoryLedger)(nil)
	_ game.HistoryStore = (*FileHistory)(nil)
	_ game.HistoryStore = (*MemoryHistory)(nil)
)

func validateRecord(rec game.ScoreRecord) error {
	if strings.TrimSpace(rec.PlayerName) == "" {
		return fmt.Errorf("%w: empty player name", ErrInvalidRecord)
	}
	if strings.ContainsFunc(rec.PlayerName, unicode.IsControl) {
		return fmt.Errorf("%w: control character in player name %q", ErrInvalidRecord, rec.PlayerName)
	}
	if rec.Attempts < 1 {
		return fmt.Errorf("%w: attempts must be positive, got %d", ErrInvalidRecord, rec.Attempts)
	}
	return nil
}

// bestOf returns the first record holding the minimum attempts.
func bestOf(recs []game.ScoreRecord) (game.ScoreRecord, bool) {
	var best game.ScoreRecord
	found := false
	for _, r := range recs {
		if !found || r.Attempts < best.Attempts {
			best, found = r, true
		}
	}
	return best, found
}

// internal/game/types.go
//
// Core type definitions for the guessing engine.
// Defines:
//   - Feedback: per-guess comparison result (correct/too low/too high).
//   - ScoreRecord: one (player, attempts) ledger entry.
//   - Outcome: terminal result of a session.
//   - The collaborator interfaces a Session depends on.

package game

import (
	"context"
	"errors"
)

// Secret range, inclusive on both ends.
const (
	MinGuess = 1
	MaxGuess = 100
)

var (
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrInvalidInput         = errors.New("invalid input")
	ErrSessionFinished      = errors.New("session finished")
	ErrPersistence          = errors.New("persistence failure")
)

// Feedback represents the evaluation of a single validated guess.
// Possible values:
//   - "correct":  guess equals the secret.
//   - "too_low":  the secret is higher than the guess.
//   - "too_high": the secret is lower than the guess.
type Feedback string

const (
	Correct Feedback = "correct"
	TooLow  Feedback = "too_low"
	TooHigh Feedback = "too_high"
)

// ScoreRecord is a single entry in the shared score ledger.
type ScoreRecord struct {
	PlayerName string `json:"playerName"`
	Attempts   int    `json:"attempts"`
}

// Outcome is the terminal result of Session.Play.
type Outcome struct {
	Won      bool  // True if the secret was guessed within the budget.
	Attempts int   // Validated guesses used.
	Secret   int   // Revealed secret (set for both wins and losses).
	Guesses  []int // Ordered validated guesses.

	// Persistence results; nil on success. Both wrap ErrPersistence.
	ScoreErr   error
	HistoryErr error
}

// ScoreLedger is the append-only cross-player score store.
type ScoreLedger interface {
	Append(ctx context.Context, rec ScoreRecord) error

	// Best returns the record with the fewest attempts, earliest first on ties.
	// ok is false when the ledger holds no records.
	Best(ctx context.Context) (rec ScoreRecord, ok bool, err error)

	// Records returns every record in append order.
	Records(ctx context.Context) ([]ScoreRecord, error)
}

// HistoryStore keeps the most recent guess sequence per player name.
type HistoryStore interface {
	Write(ctx context.Context, playerName string, guesses []int) error
}

// InputSource supplies one raw line per call. attempt is the 1-based
// number of the attempt being asked for.
type InputSource interface {
	ReadLine(ctx context.Context, attempt int) (string, error)
}

// RandSource draws the secret. IntN returns a value in [0, n).
type RandSource interface {
	IntN(n int) int
}

// Observer receives play events, typically to render them on a console.
// Any method may be left as a no-op.
type Observer interface {
	Started(s *Session)
	Rejected(attempt int, raw string, err error)
	Evaluated(attempt, guess int, fb Feedback)
	Finished(s *Session, out Outcome)
}

type nopObserver struct{}

func (nopObserver) Started(*Session)             {}
func (nopObserver) Rejected(int, string, error)  {}
func (nopObserver) Evaluated(int, int, Feedback) {}
func (nopObserver) Finished(*Session, Outcome)   {}

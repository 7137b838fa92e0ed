// internal/game/engine.go
//
// Core engine for a single guess-the-number session.
// Responsibilities:
//   - Create sessions with a validated attempt budget and a secret in [1,100].
//   - Validate and apply guesses (integer, in range) and report hi/lo feedback.
//   - Drive the play loop from an InputSource until won or out of attempts.
//   - Persist the outcome: score on a win, guess history always.
//
// Notes:
//   - Malformed input never consumes an attempt; only validated guesses count.
//   - Persistence failures are logged and attached to the Outcome, never fatal.
//   - The secret comes from a RandSource so tests can pin it.
package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Session holds the state of one player's game.
type Session struct {
	id          string
	playerName  string
	secret      int
	maxAttempts int
	guesses     []int
	won         bool

	ledger  ScoreLedger
	history HistoryStore
	obs     Observer
	log     zerolog.Logger
}

// Option configures a Session at construction.
type Option func(*sessionOptions)

type sessionOptions struct {
	rnd     RandSource
	ledger  ScoreLedger
	history HistoryStore
	obs     Observer
	logger  *zerolog.Logger
}

// WithRand sets the source the secret is drawn from.
func WithRand(r RandSource) Option { return func(o *sessionOptions) { o.rnd = r } }

// WithLedger sets where winning scores are appended.
func WithLedger(l ScoreLedger) Option { return func(o *sessionOptions) { o.ledger = l } }

// WithHistory sets where the guess sequence is written on completion.
func WithHistory(h HistoryStore) Option { return func(o *sessionOptions) { o.history = h } }

// WithObserver registers a play event observer.
func WithObserver(obs Observer) Option { return func(o *sessionOptions) { o.obs = obs } }

// WithLogger overrides the global zerolog logger.
func WithLogger(l zerolog.Logger) Option { return func(o *sessionOptions) { o.logger = &l } }

// New constructs a session for playerName with maxAttempts validated guesses.
// Returns ErrInvalidConfiguration for a blank name or a budget below one.
func New(playerName string, maxAttempts int, opts ...Option) (*Session, error) {
	if strings.TrimSpace(playerName) == "" {
		return nil, fmt.Errorf("%w: player name is empty", ErrInvalidConfiguration)
	}
	if maxAttempts < 1 {
		return nil, fmt.Errorf("%w: max attempts must be at least 1, got %d", ErrInvalidConfiguration, maxAttempts)
	}

	o := sessionOptions{obs: nopObserver{}}
	for _, opt := range opts {
		opt(&o)
	}
	if o.rnd == nil {
		o.rnd = newSeededRand()
	}
	base := log.Logger
	if o.logger != nil {
		base = *o.logger
	}

	id := uuid.NewString()
	return &Session{
		id:          id,
		playerName:  playerName,
		secret:      MinGuess + o.rnd.IntN(MaxGuess-MinGuess+1),
		maxAttempts: maxAttempts,
		guesses:     make([]int, 0, maxAttempts),
		ledger:      o.ledger,
		history:     o.history,
		obs:         o.obs,
		log:         base.With().Str("session", id).Str("player", playerName).Logger(),
	}, nil
}

// newSeededRand returns a PRNG seeded independently of every other session.
func newSeededRand() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

func (s *Session) ID() string         { return s.id }
func (s *Session) PlayerName() string { return s.playerName }
func (s *Session) MaxAttempts() int   { return s.maxAttempts }
func (s *Session) Secret() int        { return s.secret }

// Guesses returns a copy of the validated guesses so far.
func (s *Session) Guesses() []int {
	return append([]int(nil), s.guesses...)
}

// Finished reports whether the session reached a terminal state.
func (s *Session) Finished() bool {
	return s.won || len(s.guesses) >= s.maxAttempts
}

// SubmitGuess validates raw and, if valid, records it and compares it to the secret.
//
// Validation rules:
//   - Session must not be finished.
//   - raw must parse as a base-10 integer (surrounding space ignored).
//   - The value must lie in [MinGuess, MaxGuess].
//
// Invalid input returns ErrInvalidInput and leaves the session untouched.
func (s *Session) SubmitGuess(raw string) (Feedback, error) {
	if s.Finished() {
		return "", ErrSessionFinished
	}
	guess, err := ParseGuess(raw)
	if err != nil {
		return "", err
	}

	s.guesses = append(s.guesses, guess)
	switch {
	case guess == s.secret:
		s.won = true
		return Correct, nil
	case guess < s.secret:
		return TooLow, nil
	default:
		return TooHigh, nil
	}
}

// ParseGuess converts a raw line into a guess in range.
func ParseGuess(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidInput, raw)
	}
	if n < MinGuess || n > MaxGuess {
		return 0, fmt.Errorf("%w: %d is outside %d-%d", ErrInvalidInput, n, MinGuess, MaxGuess)
	}
	return n, nil
}

// Play reads guesses from in until the secret is found or the budget is spent,
// then persists the result.
//
// An error is returned only when input can't be read (EOF, cancelled context);
// in that case nothing is persisted. Persistence failures are reported on the
// Outcome instead.
func (s *Session) Play(ctx context.Context, in InputSource) (Outcome, error) {
	if s.Finished() {
		return Outcome{}, ErrSessionFinished
	}
	s.obs.Started(s)
	s.log.Debug().Int("maxAttempts", s.maxAttempts).Msg("session started")

	for !s.Finished() {
		if err := ctx.Err(); err != nil {
			return Outcome{}, err
		}
		attempt := len(s.guesses) + 1
		raw, err := in.ReadLine(ctx, attempt)
		if err != nil {
			return Outcome{}, fmt.Errorf("read attempt %d: %w", attempt, err)
		}
		fb, err := s.SubmitGuess(raw)
		if errors.Is(err, ErrInvalidInput) {
			s.obs.Rejected(attempt, raw, err)
			continue
		}
		if err != nil {
			return Outcome{}, err
		}
		s.obs.Evaluated(attempt, s.guesses[len(s.guesses)-1], fb)
	}

	out := Outcome{
		Won:      s.won,
		Attempts: len(s.guesses),
		Secret:   s.secret,
		Guesses:  s.Guesses(),
	}
	s.persist(ctx, &out)
	s.log.Info().Bool("won", out.Won).Int("attempts", out.Attempts).Msg("session finished")
	s.obs.Finished(s, out)
	return out, nil
}

// persist writes the score (wins only) and the history. Each write is
// isolated: a failure is logged and recorded, and the other write still runs.
func (s *Session) persist(ctx context.Context, out *Outcome) {
	if out.Won && s.ledger != nil {
		rec := ScoreRecord{PlayerName: s.playerName, Attempts: out.Attempts}
		if err := s.ledger.Append(ctx, rec); err != nil {
			out.ScoreErr = fmt.Errorf("%w: append score: %w", ErrPersistence, err)
			s.log.Error().Err(err).Msg("append score")
		}
	}
	if s.history != nil {
		if err := s.history.Write(ctx, s.playerName, out.Guesses); err != nil {
			out.HistoryErr = fmt.Errorf("%w: write history: %w", ErrPersistence, err)
			s.log.Error().Err(err).Msg("write history")
		}
	}
}

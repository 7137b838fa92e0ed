package game_test

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/guessnumber/internal/game"
)

// fixedRand pins the secret: IntN returns secret-1 so New yields secret.
type fixedRand int

func (f fixedRand) IntN(int) int { return int(f) - 1 }

// lines is an InputSource replaying canned input, then io.EOF.
type lines struct {
	in    []string
	asked []int
}

func (l *lines) ReadLine(_ context.Context, attempt int) (string, error) {
	l.asked = append(l.asked, attempt)
	if len(l.in) == 0 {
		return "", io.EOF
	}
	s := l.in[0]
	l.in = l.in[1:]
	return s, nil
}

type mockLedger struct{ mock.Mock }

func (m *mockLedger) Append(ctx context.Context, rec game.ScoreRecord) error {
	return m.Called(rec).Error(0)
}

func (m *mockLedger) Best(ctx context.Context) (game.ScoreRecord, bool, error) {
	args := m.Called()
	return args.Get(0).(game.ScoreRecord), args.Bool(1), args.Error(2)
}

func (m *mockLedger) Records(ctx context.Context) ([]game.ScoreRecord, error) {
	args := m.Called()
	return args.Get(0).([]game.ScoreRecord), args.Error(1)
}

type mockHistory struct{ mock.Mock }

func (m *mockHistory) Write(ctx context.Context, name string, guesses []int) error {
	return m.Called(name, guesses).Error(0)
}

func newSession(t *testing.T, secret, budget int, opts ...game.Option) *game.Session {
	t.Helper()
	s, err := game.New("Player1", budget, append([]game.Option{game.WithRand(fixedRand(secret))}, opts...)...)
	require.NoError(t, err)
	require.Equal(t, secret, s.Secret())
	return s
}

func TestNew_InvalidConfiguration(t *testing.T) {
	for _, budget := range []int{0, -3} {
		s, err := game.New("Sam", budget)
		require.ErrorIs(t, err, game.ErrInvalidConfiguration)
		assert.Nil(t, s)
	}

	s, err := game.New("   ", 5)
	require.ErrorIs(t, err, game.ErrInvalidConfiguration)
	assert.Nil(t, s)
}

func TestNew_DefaultSecretInRange(t *testing.T) {
	for i := 0; i < 500; i++ {
		s, err := game.New("Sam", 1)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, s.Secret(), game.MinGuess)
		assert.LessOrEqual(t, s.Secret(), game.MaxGuess)
		assert.NotEmpty(t, s.ID())
	}
}

func TestSubmitGuess_Feedback(t *testing.T) {
	s := newSession(t, 42, 5)

	fb, err := s.SubmitGuess("10")
	require.NoError(t, err)
	assert.Equal(t, game.TooLow, fb)

	fb, err = s.SubmitGuess(" 80 ")
	require.NoError(t, err)
	assert.Equal(t, game.TooHigh, fb)

	fb, err = s.SubmitGuess("42")
	require.NoError(t, err)
	assert.Equal(t, game.Correct, fb)

	assert.True(t, s.Finished())
	assert.Equal(t, []int{10, 80, 42}, s.Guesses())
}

func TestSubmitGuess_RejectsInvalidWithoutRecording(t *testing.T) {
	s := newSession(t, 42, 5)

	for _, raw := range []string{"", "abc", "4.2", "0", "101", "-5", "1e2"} {
		_, err := s.SubmitGuess(raw)
		require.ErrorIs(t, err, game.ErrInvalidInput, "input %q", raw)
	}
	assert.Empty(t, s.Guesses())

	_, err := s.SubmitGuess("1")
	require.NoError(t, err)
	_, err = s.SubmitGuess("100")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 100}, s.Guesses())
}

func TestSubmitGuess_AfterFinish(t *testing.T) {
	s := newSession(t, 42, 1)
	_, err := s.SubmitGuess("7")
	require.NoError(t, err)
	require.True(t, s.Finished())

	_, err = s.SubmitGuess("42")
	require.ErrorIs(t, err, game.ErrSessionFinished)
	assert.Equal(t, []int{7}, s.Guesses())
}

func TestPlay_WinPersistsScoreAndHistory(t *testing.T) {
	ledger := &mockLedger{}
	history := &mockHistory{}
	ledger.On("Append", game.ScoreRecord{PlayerName: "Player1", Attempts: 3}).Return(nil).Once()
	history.On("Write", "Player1", []int{10, 80, 42}).Return(nil).Once()

	s := newSession(t, 42, 5, game.WithLedger(ledger), game.WithHistory(history))
	out, err := s.Play(context.Background(), &lines{in: []string{"10", "80", "42"}})
	require.NoError(t, err)

	assert.True(t, out.Won)
	assert.Equal(t, 3, out.Attempts)
	assert.Equal(t, []int{10, 80, 42}, out.Guesses)
	assert.NoError(t, out.ScoreErr)
	assert.NoError(t, out.HistoryErr)
	ledger.AssertExpectations(t)
	history.AssertExpectations(t)
}

func TestPlay_WinOnLastAttempt(t *testing.T) {
	ledger := &mockLedger{}
	ledger.On("Append", game.ScoreRecord{PlayerName: "Player1", Attempts: 3}).Return(nil)

	s := newSession(t, 7, 3, game.WithLedger(ledger))
	out, err := s.Play(context.Background(), &lines{in: []string{"1", "2", "7"}})
	require.NoError(t, err)
	assert.True(t, out.Won)
	assert.Equal(t, 3, out.Attempts)
	ledger.AssertExpectations(t)
}

func TestPlay_WinOnFirstAttempt(t *testing.T) {
	s := newSession(t, 50, 10)
	out, err := s.Play(context.Background(), &lines{in: []string{"50", "1"}})
	require.NoError(t, err)
	assert.True(t, out.Won)
	assert.Equal(t, 1, out.Attempts)
}

func TestPlay_LossSkipsLedger(t *testing.T) {
	ledger := &mockLedger{}
	history := &mockHistory{}
	history.On("Write", "Player1", []int{1, 2}).Return(nil).Once()

	s := newSession(t, 99, 2, game.WithLedger(ledger), game.WithHistory(history))
	out, err := s.Play(context.Background(), &lines{in: []string{"1", "2", "99"}})
	require.NoError(t, err)

	assert.False(t, out.Won)
	assert.Equal(t, 99, out.Secret)
	assert.Len(t, out.Guesses, 2)
	ledger.AssertNotCalled(t, "Append", mock.Anything)
	history.AssertExpectations(t)
}

func TestPlay_InvalidInputDoesNotConsumeAttempts(t *testing.T) {
	in := &lines{in: []string{"x", "", "500", "0", "30", "y", "42"}}
	s := newSession(t, 42, 2)

	out, err := s.Play(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, out.Won)
	assert.Equal(t, []int{30, 42}, out.Guesses)
	// The attempt number only advances after a validated guess.
	assert.Equal(t, []int{1, 1, 1, 1, 1, 2, 2}, in.asked)
}

func TestPlay_GuessCountNeverExceedsBudget(t *testing.T) {
	for budget := 1; budget <= 10; budget++ {
		in := &lines{in: []string{"1", "2", "3", "4", "5", "6", "7", "8", "9", "10", "11", "12"}}
		s := newSession(t, 100, budget)
		out, err := s.Play(context.Background(), in)
		require.NoError(t, err)
		assert.False(t, out.Won)
		assert.Len(t, out.Guesses, budget)
		assert.LessOrEqual(t, len(s.Guesses()), s.MaxAttempts())
	}
}

func TestPlay_PersistenceFailuresAreIsolated(t *testing.T) {
	ledger := &mockLedger{}
	history := &mockHistory{}
	ledger.On("Append", mock.Anything).Return(errors.New("disk full"))
	history.On("Write", "Player1", []int{42}).Return(nil).Once()

	s := newSession(t, 42, 5, game.WithLedger(ledger), game.WithHistory(history))
	out, err := s.Play(context.Background(), &lines{in: []string{"42"}})
	require.NoError(t, err)

	assert.True(t, out.Won)
	assert.ErrorIs(t, out.ScoreErr, game.ErrPersistence)
	assert.ErrorContains(t, out.ScoreErr, "disk full")
	assert.NoError(t, out.HistoryErr)
	history.AssertExpectations(t)
}

func TestPlay_HistoryFailureKeepsOutcome(t *testing.T) {
	history := &mockHistory{}
	history.On("Write", mock.Anything, mock.Anything).Return(errors.New("read-only"))

	s := newSession(t, 42, 1, game.WithHistory(history))
	out, err := s.Play(context.Background(), &lines{in: []string{"3"}})
	require.NoError(t, err)
	assert.False(t, out.Won)
	assert.ErrorIs(t, out.HistoryErr, game.ErrPersistence)
}

func TestPlay_InputExhausted(t *testing.T) {
	history := &mockHistory{}
	s := newSession(t, 42, 5, game.WithHistory(history))

	_, err := s.Play(context.Background(), &lines{in: []string{"1"}})
	require.ErrorIs(t, err, io.EOF)
	history.AssertNotCalled(t, "Write", mock.Anything, mock.Anything)
}

func TestPlay_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := newSession(t, 42, 5)
	_, err := s.Play(ctx, &lines{in: []string{"42"}})
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, s.Guesses())
}

func TestPlay_AlreadyFinished(t *testing.T) {
	s := newSession(t, 42, 5)
	_, err := s.Play(context.Background(), &lines{in: []string{"42"}})
	require.NoError(t, err)

	_, err = s.Play(context.Background(), &lines{in: []string{"42"}})
	require.ErrorIs(t, err, game.ErrSessionFinished)
}

type recordingObserver struct {
	started   int
	rejected  []string
	evaluated []game.Feedback
	finished  []game.Outcome
}

func (r *recordingObserver) Started(*game.Session) { r.started++ }
func (r *recordingObserver) Rejected(_ int, raw string, _ error) {
	r.rejected = append(r.rejected, raw)
}
func (r *recordingObserver) Evaluated(_, _ int, fb game.Feedback) {
	r.evaluated = append(r.evaluated, fb)
}
func (r *recordingObserver) Finished(_ *game.Session, out game.Outcome) {
	r.finished = append(r.finished, out)
}

func TestPlay_ObserverEvents(t *testing.T) {
	obs := &recordingObserver{}
	s := newSession(t, 42, 5, game.WithObserver(obs))

	_, err := s.Play(context.Background(), &lines{in: []string{"nope", "50", "40", "42"}})
	require.NoError(t, err)

	assert.Equal(t, 1, obs.started)
	assert.Equal(t, []string{"nope"}, obs.rejected)
	assert.Equal(t, []game.Feedback{game.TooHigh, game.TooLow, game.Correct}, obs.evaluated)
	require.Len(t, obs.finished, 1)
	assert.True(t, obs.finished[0].Won)
}

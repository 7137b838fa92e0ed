// internal/console/console.go
//
// Line-based terminal front end.
// Responsibilities:
//   - game.InputSource: prompt for and read one guess line per attempt.
//   - game.Observer: print turn banners, hi/lo hints, results and history.
//   - Setup prompts: player count, names, difficulty menu, best score.
//
// Console reads from any io.Reader, so tests drive it with strings.

package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/robalobadob/guessnumber/internal/game"
)

// Console wraps a line reader and an output writer.
type Console struct {
	sc  *bufio.Scanner
	out io.Writer

	// HistoryPath, when set, names where a player's history was saved.
	HistoryPath func(playerName string) string
}

var _ game.InputSource = (*Console)(nil)
var _ game.Observer = (*Console)(nil)

// New returns a Console reading lines from r and writing to w.
func New(r io.Reader, w io.Writer) *Console {
	return &Console{sc: bufio.NewScanner(r), out: w}
}

// Printf writes formatted text to the console output.
func (c *Console) Printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

// readLine returns the next input line, or io.EOF once input is closed.
func (c *Console) readLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !c.sc.Scan() {
		if err := c.sc.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return c.sc.Text(), nil
}

// ReadLine implements game.InputSource.
func (c *Console) ReadLine(ctx context.Context, attempt int) (string, error) {
	c.Printf("Attempt %d: Enter your number: ", attempt)
	return c.readLine(ctx)
}

// ---------------------------------------------------------------------------
// game.Observer

func (c *Console) Started(s *game.Session) {
	c.Printf("\n%s's turn!\n", s.PlayerName())
	c.Printf("You need to guess a number between %d and %d.\n", game.MinGuess, game.MaxGuess)
	c.Printf("You have %d attempts.\n", s.MaxAttempts())
}

func (c *Console) Rejected(_ int, raw string, _ error) {
	if _, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil {
		c.Printf("Please enter a number between %d and %d.\n", game.MinGuess, game.MaxGuess)
		return
	}
	c.Printf("Invalid input. Please enter a valid number.\n")
}

func (c *Console) Evaluated(_, _ int, fb game.Feedback) {
	switch fb {
	case game.TooLow:
		c.Printf("The number is higher.\n")
	case game.TooHigh:
		c.Printf("The number is lower.\n")
	}
}

func (c *Console) Finished(s *game.Session, out game.Outcome) {
	name := s.PlayerName()
	if out.Won {
		c.Printf("Congratulations, %s! You guessed the number in %d attempts.\n", name, out.Attempts)
		if out.ScoreErr != nil {
			c.Printf("Error saving the score: %v\n", out.ScoreErr)
		} else {
			c.Printf("Score saved successfully!\n")
		}
	} else {
		c.Printf("Sorry, %s! You've used all your attempts. The number was: %d\n", name, out.Secret)
	}

	c.Printf("\nGuess history:\n")
	for i, g := range out.Guesses {
		c.Printf("Attempt %d: %d\n", i+1, g)
	}
	switch {
	case out.HistoryErr != nil:
		c.Printf("Error saving the history: %v\n", out.HistoryErr)
	case c.HistoryPath != nil:
		c.Printf("History saved to %s\n", c.HistoryPath(name))
	}
}

// ---------------------------------------------------------------------------
// setup prompts

// AskPlayerCount asks until a positive integer is entered.
func (c *Console) AskPlayerCount(ctx context.Context) (int, error) {
	for {
		c.Printf("How many players will participate? ")
		line, err := c.readLine(ctx)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(strings.TrimSpace(line))
		if err == nil && n > 0 {
			return n, nil
		}
		c.Printf("Please enter a positive whole number.\n")
	}
}

// AskPlayerName asks for player i's (1-based) name until it is not blank.
func (c *Console) AskPlayerName(ctx context.Context, i int) (string, error) {
	for {
		c.Printf("Enter the name of player %d: ", i)
		line, err := c.readLine(ctx)
		if err != nil {
			return "", err
		}
		if name := strings.TrimSpace(line); name != "" {
			return name, nil
		}
		c.Printf("The name cannot be empty.\n")
	}
}

// AskDifficulty shows the difficulty menu. Unknown choices fall back to
// game.DefaultDifficulty with a notice.
func (c *Console) AskDifficulty(ctx context.Context, playerName string) (game.Difficulty, error) {
	c.Printf("\n%s, select the difficulty:\n", playerName)
	for _, d := range game.Difficulties() {
		c.Printf("%d. %s (%d attempts)\n", int(d), d, d.Attempts())
	}
	c.Printf("Enter your choice: ")
	line, err := c.readLine(ctx)
	if err != nil {
		return 0, err
	}
	d, ok := game.ParseDifficulty(line)
	if !ok {
		c.Printf("Invalid option. Defaulting to %s difficulty.\n", strings.ToLower(d.String()))
	}
	return d, nil
}

// PrintBest renders the result of a ledger Best lookup.
func (c *Console) PrintBest(rec game.ScoreRecord, ok bool) {
	if !ok {
		c.Printf("\nNo scores recorded yet.\n")
		return
	}
	c.Printf("\nBest Score (Lowest Attempts):\n")
	c.Printf("%s with %d attempts.\n", rec.PlayerName, rec.Attempts)
}

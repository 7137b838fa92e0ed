package store

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/guessnumber/internal/game"
)

// DefaultScoresFile is the ledger file name used when none is configured.
const DefaultScoresFile = "scores.txt"

const ledgerSep = " - Attempts: "

// FileLedger stores score records as text lines:
//
//	<playerName> - Attempts: <attempts>
//
// The file is only ever opened for append, so existing records survive
// re-initialisation.
type FileLedger struct {
	path string
	mu   sync.Mutex // serialises appends and scans
}

// NewFileLedger returns a ledger backed by path. The file is not touched
// until Init or the first Append.
func NewFileLedger(path string) *FileLedger {
	return &FileLedger{path: path}
}

// Path returns the ledger file location.
func (l *FileLedger) Path() string { return l.path }

// Init creates the ledger file (and its directory) if it does not exist.
// created reports whether a new file was made; an existing file is left as is.
func (l *FileLedger) Init() (created bool, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if dir := filepath.Dir(l.path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return false, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	f, err := os.OpenFile(l.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("create %s: %w", l.path, err)
	}
	return true, f.Close()
}

// Append writes rec as a single line at the end of the file.
func (l *FileLedger) Append(ctx context.Context, rec game.ScoreRecord) error {
	if err := validateRecord(rec); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", l.path, err)
	}
	if _, err := f.WriteString(FormatRecord(rec)); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", l.path, err)
	}
	return f.Close()
}

// Best scans the file for the lowest attempt count. A missing file is an
// empty ledger.
func (l *FileLedger) Best(ctx context.Context) (game.ScoreRecord, bool, error) {
	recs, err := l.Records(ctx)
	if err != nil {
		return game.ScoreRecord{}, false, err
	}
	rec, ok := bestOf(recs)
	return rec, ok, nil
}

// Records returns every well-formed line in file order. Malformed lines
// are logged and skipped.
func (l *FileLedger) Records(ctx context.Context) ([]game.ScoreRecord, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.Open(l.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", l.path, err)
	}
	defer f.Close()

	var out []game.ScoreRecord
	sc := bufio.NewScanner(f)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		rec, err := ParseRecord(line)
		if err != nil {
			log.Warn().Err(err).Str("file", l.path).Int("line", lineNo).Msg("skip malformed score line")
			continue
		}
		out = append(out, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", l.path, err)
	}
	return out, nil
}

// FormatRecord renders rec as a ledger line, newline included.
func FormatRecord(rec game.ScoreRecord) string {
	return rec.PlayerName + ledgerSep + strconv.Itoa(rec.Attempts) + "\n"
}

// ParseRecord parses one ledger line (without its newline).
func ParseRecord(line string) (game.ScoreRecord, error) {
	line = strings.TrimRight(line, "\r\n")
	i := strings.LastIndex(line, ledgerSep)
	if i <= 0 {
		return game.ScoreRecord{}, fmt.Errorf("%w: %q", ErrInvalidRecord, line)
	}
	n, err := strconv.Atoi(strings.TrimSpace(line[i+len(ledgerSep):]))
	if err != nil {
		return game.ScoreRecord{}, fmt.Errorf("%w: %q", ErrInvalidRecord, line)
	}
	rec := game.ScoreRecord{PlayerName: line[:i], Attempts: n}
	if err := validateRecord(rec); err != nil {
		return game.ScoreRecord{}, err
	}
	return rec, nil
}

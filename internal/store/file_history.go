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
)

const historySuffix = "_guess_history.txt"

// nameEscaper percent-escapes path separators and the escape character
// itself, so distinct names never share a file.
var nameEscaper = strings.NewReplacer("%", "%25", "/", "%2F", `\`, "%5C")

// FileHistory writes one text file per player:
//
//	Guess history for <playerName>:
//	Attempt 1: <guess>
//	...
//
// Writes go to a temp file that is renamed over the old record, so a
// reader sees either the previous record or the new one.
type FileHistory struct {
	dir string
	mu  sync.Mutex // serialises writes
}

// NewFileHistory stores history files in dir ("" means the working directory).
func NewFileHistory(dir string) *FileHistory {
	if dir == "" {
		dir = "."
	}
	return &FileHistory{dir: dir}
}

// HistoryFileName returns the file name for playerName. Path separators are
// escaped so the file always lands in the store directory.
func HistoryFileName(playerName string) string {
	return nameEscaper.Replace(playerName) + historySuffix
}

// Path returns the full path of playerName's record.
func (h *FileHistory) Path(playerName string) string {
	return filepath.Join(h.dir, HistoryFileName(playerName))
}

// Write replaces playerName's record with guesses.
func (h *FileHistory) Write(ctx context.Context, playerName string, guesses []int) (err error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := os.MkdirAll(h.dir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", h.dir, err)
	}
	tmp, err := os.CreateTemp(h.dir, ".history-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.WriteString(FormatHistory(playerName, guesses)); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync %s: %w", tmp.Name(), err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err = os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", tmp.Name(), err)
	}
	if err = os.Rename(tmp.Name(), h.Path(playerName)); err != nil {
		return fmt.Errorf("rename %s: %w", tmp.Name(), err)
	}
	return nil
}

// Read loads playerName's record. Returns ErrNotFound when there is none.
func (h *FileHistory) Read(ctx context.Context, playerName string) ([]int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	f, err := os.Open(h.Path(playerName))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("history for %q: %w", playerName, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	if !sc.Scan() || sc.Text() != historyHeader(playerName) {
		return nil, fmt.Errorf("history for %q: missing header", playerName)
	}
	guesses := []int{}
	for n := 1; sc.Scan(); n++ {
		prefix := "Attempt " + strconv.Itoa(n) + ": "
		line := sc.Text()
		if !strings.HasPrefix(line, prefix) {
			return nil, fmt.Errorf("history for %q: malformed line %d: %q", playerName, n+1, line)
		}
		g, err := strconv.Atoi(strings.TrimPrefix(line, prefix))
		if err != nil {
			return nil, fmt.Errorf("history for %q: malformed line %d: %w", playerName, n+1, err)
		}
		guesses = append(guesses, g)
	}
	return guesses, sc.Err()
}

// FormatHistory renders the full record text for playerName.
func FormatHistory(playerName string, guesses []int) string {
	var b strings.Builder
	b.WriteString(historyHeader(playerName))
	b.WriteByte('\n')
	for i, g := range guesses {
		fmt.Fprintf(&b, "Attempt %d: %d\n", i+1, g)
	}
	return b.String()
}

func historyHeader(playerName string) string {
	return "Guess history for " + playerName + ":"
}

// internal/store/memory.go
//
// In-memory implementations of game.ScoreLedger and game.HistoryStore.
// Used for tests and for runs where durability is not wanted.
//
// Characteristics:
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process exits.

package store

import (
	"context"
	"sync"

	"github.com/robalobadob/guessnumber/internal/game"
)

// MemoryLedger is a slice-backed ledger.
type MemoryLedger struct {
	mu   sync.RWMutex       // guards recs
	recs []game.ScoreRecord // append order
}

// NewMemoryLedger constructs an empty in-memory ledger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{}
}

// Append adds rec after validating it.
func (m *MemoryLedger) Append(ctx context.Context, rec game.ScoreRecord) error {
	if err := validateRecord(rec); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recs = append(m.recs, rec)
	return nil
}

// Best scans for the lowest attempt count.
func (m *MemoryLedger) Best(ctx context.Context) (game.ScoreRecord, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rec, ok := bestOf(m.recs)
	return rec, ok, nil
}

// Records returns a copy of all records.
func (m *MemoryLedger) Records(ctx context.Context) ([]game.ScoreRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]game.ScoreRecord(nil), m.recs...), nil
}

// MemoryHistory keeps the latest guess sequence per player.
type MemoryHistory struct {
	mu      sync.RWMutex     // guards records
	records map[string][]int // keyed by exact player name
}

// NewMemoryHistory constructs an empty in-memory history store.
func NewMemoryHistory() *MemoryHistory {
	return &MemoryHistory{records: make(map[string][]int)}
}

// Write replaces the record for playerName.
func (m *MemoryHistory) Write(ctx context.Context, playerName string, guesses []int) error {
	cp := append([]int{}, guesses...)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[playerName] = cp
	return nil
}

// Read returns the record for playerName or ErrNotFound.
func (m *MemoryHistory) Read(ctx context.Context, playerName string) ([]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.records[playerName]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]int{}, g...), nil
}

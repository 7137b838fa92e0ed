package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"time"
)

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// Index returns a deterministic value in [0, n) for a date using
// HMAC(salt, YYYY-MM-DD) % n.
func Index(date time.Time, salt string, n int) int {
	if n <= 0 {
		return 0
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(DateKey(date)))
	sum := h.Sum(nil)
	// first 8 bytes as uint64 for the modulus
	v := binary.BigEndian.Uint64(sum[:8])
	return int(v % uint64(n))
}

// Source is a game.RandSource that gives every session on the same UTC day
// the same secret.
type Source struct {
	Date time.Time
	Salt string
}

// NewSource returns a Source for today.
func NewSource(salt string) Source {
	return Source{Date: time.Now(), Salt: salt}
}

// IntN implements game.RandSource.
func (s Source) IntN(n int) int {
	return Index(s.Date, s.Salt, n)
}

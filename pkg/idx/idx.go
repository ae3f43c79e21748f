// Package idx mints the ULIDs used for request IDs, activation events,
// release records and operator token IDs.
package idx

import (
	"crypto/rand"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Source produces IDs that are strictly increasing within a millisecond.
type Source struct {
	mu      sync.Mutex
	entropy io.Reader
}

// NewSource returns a Source reading randomness from r.
func NewSource(r io.Reader) *Source {
	return &Source{entropy: ulid.Monotonic(r, 0)}
}

// At returns an ID stamped with t.
func (s *Source) At(t time.Time) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), s.entropy).String()
}

var std = NewSource(rand.Reader)

// New returns an ID stamped with the current time.
func New() string { return std.At(time.Now()) }

// At returns an ID stamped with t from the shared source.
func At(t time.Time) string { return std.At(t) }

// Valid reports whether s is a canonical ULID.
func Valid(s string) bool {
	_, err := ulid.ParseStrict(s)
	return err == nil
}

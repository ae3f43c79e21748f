package idx_test

import (
	"crypto/rand"
	"testing"
	"time"

	"github.com/aussiebroadwan/licensor/pkg/idx"
	"github.com/stretchr/testify/require"
)

func TestValid(t *testing.T) {
	require.True(t, idx.Valid(idx.New()))

	for _, s := range []string{"", "not-a-ulid", "01HQ7T3Z1MZ0JQ3M6MZQ1FQ3Z"} {
		require.False(t, idx.Valid(s), s)
	}
}

func TestOrderedByTime(t *testing.T) {
	a := idx.At(time.Unix(1, 0))
	b := idx.At(time.Unix(2, 0))
	require.Less(t, a, b)
}

func TestMonotonicWithinMillisecond(t *testing.T) {
	src := idx.NewSource(rand.Reader)
	tm := time.Unix(1700000000, 0)

	prev := src.At(tm)
	for range 50 {
		next := src.At(tm)
		require.Greater(t, next, prev)
		prev = next
	}
}

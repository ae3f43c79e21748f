package versionx

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCanonical(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"1.2.3", "v1.2.3"},
		{"v1.2.3", "v1.2.3"},
		{" 1.2 ", "v1.2.0"},
		{"2", "v2.0.0"},
		{"1.0.0-beta.1", "v1.0.0-beta.1"},
		{"", ""},
		{"latest", ""},
		{"1.2.3.4", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			require.Equal(t, tt.want, Canonical(tt.in))
		})
	}
}

func TestNewer(t *testing.T) {
	require.True(t, Newer("1.1.0", "1.0.9"))
	require.True(t, Newer("1.10.0", "1.9.0"), "numeric, not lexical")
	require.True(t, Newer("1.0.0", "1.0.0-rc.1"))
	require.False(t, Newer("1.0.0", "1.0.0"))
	require.False(t, Newer("0.9.0", "1.0.0"))
	require.False(t, Newer("garbage", "1.0.0"))
	require.False(t, Newer("2.0.0", "garbage"))
}

func TestCompare(t *testing.T) {
	require.Equal(t, 1, Compare("2.0.0", "1.9.9"))
	require.Equal(t, 0, Compare("v1.2", "1.2.0"))
	require.Equal(t, -1, Compare("bogus", "0.0.1"))
}

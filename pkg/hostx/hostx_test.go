package hostx_test

import (
	"testing"

	"github.com/aussiebroadwan/licensor/pkg/hostx"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare host", "example.com", "example.com"},
		{"upper case", "Shop.Example.COM", "shop.example.com"},
		{"scheme and path", "https://a.example.com/wp-admin/?page=1", "a.example.com"},
		{"port", "a.example.com:8443", "a.example.com"},
		{"userinfo", "http://user:pw@a.example.com:80/", "a.example.com"},
		{"trailing dot", "a.example.com.", "a.example.com"},
		{"whitespace", "  a.example.com \n", "a.example.com"},
		{"ipv6 literal", "http://[::1]:8080/x", "::1"},
		{"empty", "", ""},
		{"scheme only", "https://", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, hostx.Normalize(tt.in))
		})
	}
}

func TestIsDevelopment(t *testing.T) {
	t.Parallel()

	dev := []string{
		"localhost",
		"LOCALHOST",
		"http://localhost:8080/wp",
		"foo.local",
		"shop.foo.test",
		"https://site.test/",
	}
	for _, d := range dev {
		require.True(t, hostx.IsDevelopment(d), d)
	}

	prod := []string{
		"",
		"example.com",
		"local.example.com",
		"testing.example.com",
		"localhost.example.com",
		"mylocal",
		"footest",
	}
	for _, d := range prod {
		require.False(t, hostx.IsDevelopment(d), d)
	}
}

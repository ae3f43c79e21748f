package entitlement_test

import (
	"context"
	"testing"

	"github.com/aussiebroadwan/licensor/pkg/entitlement"
	"github.com/aussiebroadwan/licensor/pkg/licensesdk"
	"github.com/stretchr/testify/require"
)

type staticEntitlement bool

func (s staticEntitlement) IsPro() bool { return bool(s) }

type fakeFeed struct {
	res   licensesdk.Result
	calls int
	slug  string
	ver   string
}

func (f *fakeFeed) CheckUpdates(_ context.Context, slug, version string) licensesdk.Result {
	f.calls++
	f.slug, f.ver = slug, version
	return f.res
}

func hostCheck() *entitlement.UpdateCheck {
	return &entitlement.UpdateCheck{
		Checked: map[string]string{"licensor-pro/plugin.php": "1.2.0"},
		Response: map[string]entitlement.UpdateOffer{
			"other/plugin.php": {Slug: "other", NewVersion: "3.0.0"},
		},
	}
}

func TestUpdateGate_InjectsNewerRelease(t *testing.T) {
	feed := &fakeFeed{res: answer(200, map[string]any{
		"new_version": "1.3.0",
		"package":     "https://cdn.example.com/pro-1.3.0.zip",
		"url":         "https://example.com/changelog",
	})}
	g := &entitlement.UpdateGate{
		Entitlement: staticEntitlement(true),
		Feed:        feed,
		Component:   "licensor-pro/plugin.php",
		Slug:        "licensor-pro",
		Version:     "1.2.0",
	}

	out := g.Filter(context.Background(), hostCheck())
	require.Equal(t, 1, feed.calls)
	require.Equal(t, "licensor-pro", feed.slug)
	require.Equal(t, "1.2.0", feed.ver)
	require.Len(t, out.Response, 2)
	require.Equal(t, entitlement.UpdateOffer{
		Slug:       "licensor-pro",
		NewVersion: "1.3.0",
		Package:    "https://cdn.example.com/pro-1.3.0.zip",
		URL:        "https://example.com/changelog",
	}, out.Response["licensor-pro/plugin.php"])
}

func TestUpdateGate_PassesThrough(t *testing.T) {
	tests := []struct {
		name      string
		pro       bool
		res       licensesdk.Result
		wantCalls int
	}{
		{"not pro", false, answer(200, map[string]any{"new_version": "9.0.0"}), 0},
		{"feed unreachable", true, unreachable(), 1},
		{"feed server error", true, licensesdk.Result{StatusCode: 500, Error: "server_error"}, 1},
		{"no release", true, answer(200, map[string]any{}), 1},
		{"same version", true, answer(200, map[string]any{"new_version": "1.2.0"}), 1},
		{"older version", true, answer(200, map[string]any{"new_version": "1.1.9"}), 1},
		{"garbage version", true, answer(200, map[string]any{"new_version": "latest"}), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			feed := &fakeFeed{res: tt.res}
			g := &entitlement.UpdateGate{
				Entitlement: staticEntitlement(tt.pro),
				Feed:        feed,
				Slug:        "licensor-pro",
				Version:     "1.2.0",
			}

			out := g.Filter(context.Background(), hostCheck())
			require.Equal(t, hostCheck(), out)
			require.Equal(t, tt.wantCalls, feed.calls)
		})
	}
}

func TestUpdateGate_NilPayload(t *testing.T) {
	g := &entitlement.UpdateGate{Entitlement: staticEntitlement(true), Feed: &fakeFeed{}}
	require.Nil(t, g.Filter(context.Background(), nil))
}

func TestUpdateGate_CreatesResponseMap(t *testing.T) {
	feed := &fakeFeed{res: answer(200, map[string]any{"new_version": "2.0.0"})}
	g := &entitlement.UpdateGate{
		Entitlement: staticEntitlement(true),
		Feed:        feed,
		Slug:        "licensor-pro",
		Version:     "1.0.0",
	}

	out := g.Filter(context.Background(), &entitlement.UpdateCheck{})
	require.Equal(t, "2.0.0", out.Response["licensor-pro"].NewVersion)
}

package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/licensor/internal/licensing/audit"
	"github.com/aussiebroadwan/licensor/internal/licensing/service"
	"github.com/stretchr/testify/require"
)

func TestReleaseService(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	clock := testNow
	svc := &service.ReleaseService{Store: s, Now: func() time.Time { return clock }}

	publish := func(version string) {
		t.Helper()
		_, err := svc.Publish(ctx, service.PublishParams{
			Slug:    "acme-pro",
			Version: version,
			Package: "https://downloads.example.com/acme-pro-" + version + ".zip",
			URL:     "https://example.com/changelog",
		})
		require.NoError(t, err)
		clock = clock.Add(time.Minute)
	}

	publish("1.9.0")
	publish("1.10.0")
	publish("1.2.0") // hotfix published last

	t.Run("offers the highest version", func(t *testing.T) {
		rel, ok, err := svc.Latest(ctx, "acme-pro", "1.9.0")
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, "1.10.0", rel.Version)
		require.Contains(t, rel.Package, "1.10.0")
	})

	t.Run("nothing newer", func(t *testing.T) {
		_, ok, err := svc.Latest(ctx, "acme-pro", "v1.10.0")
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("unknown slug", func(t *testing.T) {
		_, ok, err := svc.Latest(ctx, "other", "0.1.0")
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("unparseable current version", func(t *testing.T) {
		_, ok, err := svc.Latest(ctx, "acme-pro", "trunk")
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("duplicate version", func(t *testing.T) {
		_, err := svc.Publish(ctx, service.PublishParams{Slug: "acme-pro", Version: "1.9.0"})
		require.ErrorIs(t, err, service.ErrReleaseExists)
	})

	t.Run("invalid version", func(t *testing.T) {
		_, err := svc.Publish(ctx, service.PublishParams{Slug: "acme-pro", Version: "next"})
		require.ErrorIs(t, err, service.ErrInvalidVersion)
	})
}

func TestReleaseService_CheckRecordsAudit(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	sink := &recordingSink{}
	svc := &service.ReleaseService{Store: s, Audit: sink, Now: fixedClock}

	_, err := svc.Publish(ctx, service.PublishParams{Slug: "acme-pro", Version: "2.0.0"})
	require.NoError(t, err)

	info := service.ClientInfo{Runtime: "go1.25", ClientVersion: "1.4.0", URL: "https://shop.example.com"}

	rel, ok, err := svc.Check(ctx, "acme-pro", "1.4.0", "https://Shop.Example.com/", info)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "2.0.0", rel.Version)

	_, ok, err = svc.Check(ctx, "acme-pro", "2.0.0", "shop.example.com", info)
	require.NoError(t, err)
	require.False(t, ok)

	events := sink.Events()
	require.Len(t, events, 2)
	require.Equal(t, audit.ActionUpdateCheck, events[0].Action)
	require.Equal(t, "shop.example.com", events[0].Domain)
	require.Equal(t, "offered", events[0].Outcome)
	require.Equal(t, "go1.25", events[0].Runtime)
	require.Equal(t, "1.4.0", events[0].ClientVersion)
	require.Equal(t, "https://shop.example.com", events[0].URL)
	require.Equal(t, testNow.UTC(), events[0].At)
	require.Equal(t, "current", events[1].Outcome)

	t.Run("audit failure does not fail the check", func(t *testing.T) {
		sink.fail = true
		rel, ok, err := svc.Check(ctx, "acme-pro", "1.0.0", "shop.example.com", info)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, "2.0.0", rel.Version)
	})
}

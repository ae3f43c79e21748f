package sqlite_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/licensor/internal/licensing/domain"
	"github.com/aussiebroadwan/licensor/internal/licensing/store"
	"github.com/aussiebroadwan/licensor/internal/licensing/store/drivers/sqlite"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	s, err := sqlite.NewStore(sqlite.DSN(filepath.Join(t.TempDir(), "licensor.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func seedLicense(t *testing.T, s store.Store, key string, maxSites int) domain.License {
	t.Helper()

	l, err := s.Licenses().CreateLicense(context.Background(), domain.License{
		Key:       key,
		Plan:      "pro",
		MaxSites:  maxSites,
		Status:    domain.LicenseActive,
		CreatedAt: time.Unix(1_700_000_000, 0),
	})
	require.NoError(t, err)
	return l
}

func TestLicenses(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	l := seedLicense(t, s, "KEY-1", 2)
	require.NotZero(t, l.ID)
	require.Equal(t, "KEY-1", l.Key)
	require.Equal(t, domain.LicenseActive, l.Status)
	require.EqualValues(t, 0, l.ExpiresAt)

	t.Run("duplicate key", func(t *testing.T) {
		_, err := s.Licenses().CreateLicense(ctx, domain.License{
			Key: "KEY-1", Plan: "pro", MaxSites: 1, Status: domain.LicenseActive, CreatedAt: time.Now(),
		})
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("lookup is verbatim", func(t *testing.T) {
		got, err := s.Licenses().GetLicenseByKey(ctx, "KEY-1")
		require.NoError(t, err)
		require.Equal(t, l.ID, got.ID)

		_, err = s.Licenses().GetLicenseByKey(ctx, "key-1")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("update status and expiry", func(t *testing.T) {
		require.NoError(t, s.Licenses().UpdateLicenseStatus(ctx, l.ID, domain.LicenseRevoked, 1_700_000_100))
		require.NoError(t, s.Licenses().UpdateLicenseExpiry(ctx, l.ID, 1_800_000_000, 1_700_000_100))

		got, err := s.Licenses().GetLicenseByID(ctx, l.ID)
		require.NoError(t, err)
		require.Equal(t, domain.LicenseRevoked, got.Status)
		require.EqualValues(t, 1_800_000_000, got.ExpiresAt)
		require.Equal(t, int64(1_700_000_100), got.UpdatedAt.Unix())
	})

	t.Run("update missing license", func(t *testing.T) {
		err := s.Licenses().UpdateLicenseStatus(ctx, 9999, domain.LicenseRevoked, 1)
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestActivations(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	l := seedLicense(t, s, "KEY-A", 2)
	acts := s.Activations()

	require.NoError(t, acts.UpsertActivation(ctx, l.ID, "example.com", 100))
	require.NoError(t, acts.UpsertActivation(ctx, l.ID, "example.com", 200))

	a, err := acts.GetActivation(ctx, l.ID, "example.com")
	require.NoError(t, err)
	require.Equal(t, domain.ActivationActive, a.State)
	require.EqualValues(t, 100, a.FirstSeen)
	require.EqualValues(t, 200, a.LastSeen)

	n, err := acts.CountActiveSeats(ctx, l.ID)
	require.NoError(t, err)
	require.Equal(t, 1, n, "re-activating the same domain takes one seat")

	require.NoError(t, acts.UpsertActivation(ctx, l.ID, "other.com", 300))
	n, err = acts.CountActiveSeats(ctx, l.ID)
	require.NoError(t, err)
	require.Equal(t, 2, n)

	t.Run("deactivate frees a seat", func(t *testing.T) {
		require.NoError(t, acts.DeactivateActivation(ctx, l.ID, "other.com", 400))

		a, err := acts.GetActivation(ctx, l.ID, "other.com")
		require.NoError(t, err)
		require.Equal(t, domain.ActivationDeactivated, a.State)

		n, err := acts.CountActiveSeats(ctx, l.ID)
		require.NoError(t, err)
		require.Equal(t, 1, n)
	})

	t.Run("deactivate missing is a no-op", func(t *testing.T) {
		require.NoError(t, acts.DeactivateActivation(ctx, l.ID, "never.com", 400))
		_, err := acts.GetActivation(ctx, l.ID, "never.com")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("reactivate keeps first seen", func(t *testing.T) {
		require.NoError(t, acts.UpsertActivation(ctx, l.ID, "other.com", 500))
		a, err := acts.GetActivation(ctx, l.ID, "other.com")
		require.NoError(t, err)
		require.Equal(t, domain.ActivationActive, a.State)
		require.EqualValues(t, 300, a.FirstSeen)
		require.EqualValues(t, 500, a.LastSeen)
	})

	t.Run("touch only moves active rows", func(t *testing.T) {
		require.NoError(t, acts.TouchActivation(ctx, l.ID, "example.com", 600))
		a, err := acts.GetActivation(ctx, l.ID, "example.com")
		require.NoError(t, err)
		require.EqualValues(t, 600, a.LastSeen)
	})

	t.Run("list", func(t *testing.T) {
		list, err := acts.ListActivations(ctx, l.ID)
		require.NoError(t, err)
		require.Len(t, list, 2)
		require.Equal(t, "example.com", list[0].Domain)
		require.Equal(t, "other.com", list[1].Domain)
	})
}

func TestFindLicenseByActiveDomain(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	a := seedLicense(t, s, "KEY-OLD", 1)
	b := seedLicense(t, s, "KEY-NEW", 1)

	_, err := s.Licenses().FindLicenseByActiveDomain(ctx, "shop.example")
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.Activations().UpsertActivation(ctx, a.ID, "shop.example", 100))
	require.NoError(t, s.Activations().UpsertActivation(ctx, b.ID, "shop.example", 200))

	got, err := s.Licenses().FindLicenseByActiveDomain(ctx, "shop.example")
	require.NoError(t, err)
	require.Equal(t, b.ID, got.ID, "most recently seen activation wins")

	require.NoError(t, s.Activations().DeactivateActivation(ctx, b.ID, "shop.example", 300))
	got, err = s.Licenses().FindLicenseByActiveDomain(ctx, "shop.example")
	require.NoError(t, err)
	require.Equal(t, a.ID, got.ID)
}

func TestDeactivateIdleActivations(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	l := seedLicense(t, s, "KEY-IDLE", 5)

	require.NoError(t, s.Activations().UpsertActivation(ctx, l.ID, "stale.example", 100))
	require.NoError(t, s.Activations().UpsertActivation(ctx, l.ID, "fresh.example", 900))

	n, err := s.Activations().DeactivateIdleActivations(ctx, 500, 1000)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	seats, err := s.Activations().CountActiveSeats(ctx, l.ID)
	require.NoError(t, err)
	require.Equal(t, 1, seats)
}

func TestWithTx(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	l := seedLicense(t, s, "KEY-TX", 1)

	t.Run("rollback on error", func(t *testing.T) {
		boom := errors.New("boom")
		err := s.WithTx(ctx, func(tx store.Tx) error {
			require.NoError(t, tx.Licenses().LockLicense(ctx, l.ID))
			require.NoError(t, tx.Activations().UpsertActivation(ctx, l.ID, "rolled.back", 1))
			return boom
		})
		require.ErrorIs(t, err, boom)

		_, err = s.Activations().GetActivation(ctx, l.ID, "rolled.back")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("commit", func(t *testing.T) {
		err := s.WithTx(ctx, func(tx store.Tx) error {
			return tx.Activations().UpsertActivation(ctx, l.ID, "committed.example", 1)
		})
		require.NoError(t, err)

		_, err = s.Activations().GetActivation(ctx, l.ID, "committed.example")
		require.NoError(t, err)
	})

	t.Run("lock missing license", func(t *testing.T) {
		err := s.WithTx(ctx, func(tx store.Tx) error {
			return tx.Licenses().LockLicense(ctx, 9999)
		})
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestReleases(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	older := domain.Release{ID: "r1", Slug: "acme-pro", Version: "1.0.0", PublishedAt: time.Unix(100, 0)}
	newer := domain.Release{ID: "r2", Slug: "acme-pro", Version: "1.1.0", URL: "https://x/1.1.0", PublishedAt: time.Unix(200, 0)}

	require.NoError(t, s.Releases().PublishRelease(ctx, older))
	require.NoError(t, s.Releases().PublishRelease(ctx, newer))

	dup := newer
	dup.ID = "r3"
	require.ErrorIs(t, s.Releases().PublishRelease(ctx, dup), store.ErrAlreadyExists)

	list, err := s.Releases().ListReleases(ctx, "acme-pro")
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "1.1.0", list[0].Version)
	require.Equal(t, "https://x/1.1.0", list[0].URL)

	list, err = s.Releases().ListReleases(ctx, "unknown")
	require.NoError(t, err)
	require.Empty(t, list)
}

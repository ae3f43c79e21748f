package service_test

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/licensor/internal/licensing/audit"
	"github.com/aussiebroadwan/licensor/internal/licensing/domain"
	"github.com/aussiebroadwan/licensor/internal/licensing/store"
	"github.com/aussiebroadwan/licensor/internal/licensing/store/drivers/sqlite"
	"github.com/stretchr/testify/require"
)

var testNow = time.Unix(1_700_000_000, 0)

func fixedClock() time.Time { return testNow }

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	s, err := sqlite.NewStore(sqlite.DSN(filepath.Join(t.TempDir(), "licensor.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

type licenseOpts struct {
	maxSites  int
	status    domain.LicenseStatus
	expiresAt int64
}

func seedLicense(t *testing.T, s store.Store, key string, o licenseOpts) domain.License {
	t.Helper()

	if o.maxSites == 0 {
		o.maxSites = 1
	}
	if o.status == "" {
		o.status = domain.LicenseActive
	}
	l, err := s.Licenses().CreateLicense(context.Background(), domain.License{
		Key:       key,
		Plan:      "pro",
		MaxSites:  o.maxSites,
		Status:    o.status,
		ExpiresAt: o.expiresAt,
		CreatedAt: testNow,
	})
	require.NoError(t, err)
	return l
}

func activeSeats(t *testing.T, s store.Store, licenseID int64) int {
	t.Helper()
	n, err := s.Activations().CountActiveSeats(context.Background(), licenseID)
	require.NoError(t, err)
	return n
}

// recordingSink captures audit events and optionally fails.
type recordingSink struct {
	mu     sync.Mutex
	events []audit.Event
	fail   bool
}

func (r *recordingSink) Record(_ context.Context, e audit.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	if r.fail {
		return errors.New("sink unavailable")
	}
	return nil
}

func (r *recordingSink) Events() []audit.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]audit.Event(nil), r.events...)
}

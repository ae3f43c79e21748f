//go:build integration

package licensor_test

import (
	"context"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aussiebroadwan/licensor/internal/licensing/app"
	"github.com/aussiebroadwan/licensor/internal/licensing/domain"
	"github.com/aussiebroadwan/licensor/pkg/entitlement"
	"github.com/aussiebroadwan/licensor/pkg/jwtx"
	"github.com/aussiebroadwan/licensor/pkg/licensesdk"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

/*
 * End-to-end tests run the license authority in-process against a
 * PostgreSQL container and drive it through the SDK and entitlement
 * manager exactly as an installation would.
 */

const adminSecret = "e2e-admin-secret-0123456789"

type authority struct {
	URL   string
	Admin *licensesdk.AdminClient
}

// setupAuthority starts PostgreSQL, boots the application against it and
// serves it on a loopback listener.
func setupAuthority(t *testing.T, policy domain.SeatPolicy) *authority {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("licensor"),
		tcpostgres.WithUsername("licensor"),
		tcpostgres.WithPassword("licensor"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	cfg := app.Config{
		DatabaseDriver:       app.DriverPostgres,
		DatabaseURL:          dsn,
		SeatPolicy:           policy,
		DevBypass:            true,
		AdminSecret:          adminSecret,
		AdminIssuer:          "licensor-e2e",
		Env:                  "test",
		LogLevel:             "warn",
		LogFormat:            "text",
		ShutdownGracePeriod:  5 * time.Second,
		HousekeepingInterval: time.Hour,
	}
	a, err := app.New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	srv := httptest.NewServer(a.Handler())
	t.Cleanup(srv.Close)

	signer, err := app.NewAdminSigner(cfg)
	require.NoError(t, err)
	tok, err := signer.Sign(jwtx.NewOperatorClaims("e2e", cfg.AdminIssuer,
		[]string{jwtx.ScopeLicensesRead, jwtx.ScopeLicensesWrite}, time.Hour, time.Now()))
	require.NoError(t, err)

	return &authority{URL: srv.URL, Admin: licensesdk.NewAdminClient(srv.URL, tok)}
}

// issue creates a license through the admin API and returns its key.
func (a *authority) issue(t *testing.T, maxSites int, expiresAt int64) string {
	t.Helper()
	lic, err := a.Admin.IssueLicense(context.Background(), licensesdk.IssueLicenseRequest{
		MaxSites:  maxSites,
		ExpiresAt: expiresAt,
	})
	require.NoError(t, err)
	return lic.Key
}

// clock is a settable time source shared by a Manager under test.
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// installation is one client site: transport, cached state and manager.
type installation struct {
	Client  *licensesdk.Client
	Manager *entitlement.Manager
	Clock   *clock
}

// newInstallation builds a site for domain whose cached state lives in a
// throwaway Redis.
func (a *authority) newInstallation(t *testing.T, domain string) *installation {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	client := licensesdk.New(a.URL, licensesdk.Environment{
		Domain:        domain,
		ClientVersion: "1.0.0",
		URL:           "https://" + domain,
	})

	clk := &clock{now: time.Now()}
	m, err := entitlement.NewManager(context.Background(),
		entitlement.RedisStore{Client: rdb, Key: "licensor:" + domain},
		client,
		entitlement.WithClock(clk.Now),
	)
	require.NoError(t, err)

	return &installation{Client: client, Manager: m, Clock: clk}
}

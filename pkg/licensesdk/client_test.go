package licensesdk_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aussiebroadwan/licensor/pkg/licensesdk"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, h http.HandlerFunc) (*httptest.Server, *atomic.Int32) {
	t.Helper()
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		h(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

var shopEnv = licensesdk.Environment{
	ClientVersion: "2.4.0",
	URL:           "https://Shop.Example.com/store",
}

func TestClient_Activate(t *testing.T) {
	var got map[string]any
	srv, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/licenses/activate", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		writeJSON(w, http.StatusOK, map[string]any{"status": "valid", "expires": 1893456000})
	})

	c := licensesdk.New(srv.URL, shopEnv)
	res := c.Activate(context.Background(), "RAW-KEY")

	require.True(t, res.OK)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, licensesdk.StatusValid, res.Status())
	require.EqualValues(t, 1893456000, res.Expires())
	require.Empty(t, res.Error)

	require.Equal(t, "shop.example.com", got["domain"])
	require.Equal(t, "RAW-KEY", got["key"])
	require.Equal(t, "2.4.0", got["client_version"])
	require.Equal(t, "https://Shop.Example.com/store", got["url"])
	require.NotEmpty(t, got["runtime"])
}

func TestClient_WithHTTPClientLeavesCallerClientAlone(t *testing.T) {
	srv, hits := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "valid", "expires": 0})
	})

	shared := &http.Client{}
	c := licensesdk.New(srv.URL, shopEnv, licensesdk.WithHTTPClient(shared))

	require.Zero(t, shared.Timeout)
	require.True(t, c.Activate(context.Background(), "RAW-KEY").OK)
	require.EqualValues(t, 1, hits.Load())
	require.Zero(t, shared.Timeout)
}

func TestClient_Rejection(t *testing.T) {
	srv, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusForbidden, licensesdk.ErrorResponse{
			Error:            licensesdk.StatusSeatLimit,
			ErrorDescription: "license has no free seats for a new domain",
		})
	})

	res := licensesdk.New(srv.URL, shopEnv).Activate(context.Background(), "K")
	require.False(t, res.OK)
	require.Equal(t, http.StatusForbidden, res.StatusCode)
	require.Equal(t, licensesdk.StatusSeatLimit, res.Status())
	require.True(t, res.Authoritative())
	require.Contains(t, res.Error, "seat-limit")
}

func TestClient_TransportFailuresAreNormalized(t *testing.T) {
	ctx := context.Background()

	t.Run("server error", func(t *testing.T) {
		srv, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusInternalServerError, licensesdk.ErrorResponse{Error: "server_error"})
		})
		res := licensesdk.New(srv.URL, shopEnv).Status(ctx)
		require.False(t, res.OK)
		require.Equal(t, http.StatusInternalServerError, res.StatusCode)
		require.False(t, res.Authoritative())
	})

	t.Run("malformed body", func(t *testing.T) {
		srv, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html>bad gateway</html>"))
		})
		res := licensesdk.New(srv.URL, shopEnv).Status(ctx)
		require.False(t, res.OK)
		require.Equal(t, http.StatusOK, res.StatusCode)
		require.Contains(t, res.Error, "malformed")
		require.False(t, res.Authoritative())
	})

	t.Run("connection refused", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()

		res := licensesdk.New(srv.URL, shopEnv).Status(ctx)
		require.False(t, res.OK)
		require.Zero(t, res.StatusCode)
		require.NotEmpty(t, res.Error)
	})

	t.Run("timeout", func(t *testing.T) {
		srv, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-time.After(time.Second):
			case <-r.Context().Done():
			}
		})
		res := licensesdk.New(srv.URL, shopEnv, licensesdk.WithTimeout(50*time.Millisecond)).Status(ctx)
		require.False(t, res.OK)
		require.Zero(t, res.StatusCode)
	})
}

func TestClient_DevelopmentDomainBypass(t *testing.T) {
	srv, hits := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusForbidden, licensesdk.ErrorResponse{Error: "invalid"})
	})
	ctx := context.Background()

	for _, host := range []string{"localhost", "foo.local", "foo.test"} {
		t.Run(host, func(t *testing.T) {
			c := licensesdk.New(srv.URL, licensesdk.Environment{Domain: host})

			res := c.Activate(ctx, "anything")
			require.True(t, res.OK)
			require.Equal(t, licensesdk.StatusValid, res.Status())
			require.Zero(t, res.Expires())

			res = c.Status(ctx)
			require.Equal(t, licensesdk.StatusValid, res.Status())

			res = c.Deactivate(ctx, "anything")
			require.Equal(t, licensesdk.StatusDeactivated, res.Status())
		})
	}
	require.Zero(t, hits.Load(), "development domains never reach the network")

	t.Run("bypass disabled", func(t *testing.T) {
		c := licensesdk.New(srv.URL, licensesdk.Environment{Domain: "localhost"}, licensesdk.WithDevBypass(false))
		res := c.Activate(ctx, "anything")
		require.False(t, res.OK)
		require.EqualValues(t, 1, hits.Load())
	})
}

func TestClient_CheckUpdates(t *testing.T) {
	srv, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/updates", r.URL.Path)
		require.Equal(t, "acme-pro", r.URL.Query().Get("slug"))
		require.Equal(t, "1.0.0", r.URL.Query().Get("version"))
		require.Equal(t, "shop.example.com", r.URL.Query().Get("domain"))
		writeJSON(w, http.StatusOK, licensesdk.UpdateResponse{NewVersion: "1.1.0", Package: "https://dl/1.1.0.zip"})
	})

	res := licensesdk.New(srv.URL, shopEnv).CheckUpdates(context.Background(), "acme-pro", "1.0.0")
	require.True(t, res.OK)
	require.Equal(t, "1.1.0", res.String("new_version"))
	require.Equal(t, "https://dl/1.1.0.zip", res.String("package"))
}

func TestClient_Breaker(t *testing.T) {
	srv, hits := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	settings := licensesdk.DefaultBreakerSettings("licensor-test")
	settings.ReadyToTrip = func(c gobreaker.Counts) bool { return c.ConsecutiveFailures >= 2 }
	c := licensesdk.New(srv.URL, shopEnv, licensesdk.WithBreaker(settings))
	require.Equal(t, "closed", c.BreakerState())

	ctx := context.Background()
	for range 2 {
		res := c.Status(ctx)
		require.Equal(t, http.StatusBadGateway, res.StatusCode)
	}
	require.Equal(t, "open", c.BreakerState())

	res := c.Status(ctx)
	require.False(t, res.OK)
	require.Zero(t, res.StatusCode)
	require.Contains(t, res.Error, "circuit breaker is open")
	require.EqualValues(t, 2, hits.Load(), "open breaker fails fast")
}

func TestAdminClient(t *testing.T) {
	srv, _ := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/v1/admin/licenses":
			writeJSON(w, http.StatusCreated, licensesdk.LicenseResponse{ID: 1, Key: "NEWKEY", MaxSites: 2, Status: "active"})
		case r.Method == http.MethodGet && r.URL.Path == "/v1/admin/audit":
			require.Equal(t, "shop.example.com", r.URL.Query().Get("domain"))
			require.Equal(t, "10", r.URL.Query().Get("limit"))
			writeJSON(w, http.StatusOK, licensesdk.AuditListResponse{
				Domain: "shop.example.com",
				Events: []licensesdk.AuditEventResponse{{ID: "01J", Action: "update_check", Outcome: "offered"}},
			})
		case r.Method == http.MethodGet && r.URL.Path == "/v1/admin/licenses/missing":
			writeJSON(w, http.StatusNotFound, licensesdk.ErrorResponse{Error: "not_found", ErrorDescription: "license not found"})
		default:
			w.WriteHeader(http.StatusTeapot)
		}
	})
	ctx := context.Background()
	a := licensesdk.NewAdminClient(srv.URL+"/", "tok")

	lic, err := a.IssueLicense(ctx, licensesdk.IssueLicenseRequest{MaxSites: 2})
	require.NoError(t, err)
	require.Equal(t, "NEWKEY", lic.Key)

	_, err = a.GetLicense(ctx, "missing")
	var apiErr *licensesdk.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	require.Equal(t, "not_found", apiErr.Code)

	trail, err := a.ListAudit(ctx, "shop.example.com", 10)
	require.NoError(t, err)
	require.Len(t, trail.Events, 1)
	require.Equal(t, "update_check", trail.Events[0].Action)

	_, err = a.PublishRelease(ctx, licensesdk.PublishReleaseRequest{Slug: "x", Version: "1.0.0"})
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusTeapot, apiErr.StatusCode)
}

package slogx_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aussiebroadwan/licensor/pkg/idx"
	"github.com/aussiebroadwan/licensor/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slogx.New(slogx.Config{Service: "licensor", Env: "test", Output: &buf})

	var sawLogger bool
	h := slogx.RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawLogger = slogx.FromContext(r.Context()) != nil
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	}))

	t.Run("generates request id", func(t *testing.T) {
		buf.Reset()
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/livez", nil))

		require.True(t, sawLogger)
		require.Equal(t, http.StatusTeapot, rec.Code)
		require.NotEmpty(t, rec.Header().Get(slogx.RequestIDHeader))

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		require.Equal(t, "http_request", entry["msg"])
		require.Equal(t, float64(http.StatusTeapot), entry["status"])
		require.Equal(t, float64(len("short and stout")), entry["bytes"])
		require.Equal(t, "/livez", entry["path"])
		require.Equal(t, "licensor", entry["service"])
	})

	t.Run("echoes supplied request id", func(t *testing.T) {
		buf.Reset()
		id := idx.New()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(slogx.RequestIDHeader, id)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, id, rec.Header().Get(slogx.RequestIDHeader))
		require.Contains(t, buf.String(), `"req_id":"`+id+`"`)
		require.NotContains(t, buf.String(), "client_req_id")
	})

	t.Run("replaces a request id that is not a ulid", func(t *testing.T) {
		buf.Reset()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(slogx.RequestIDHeader, "req-123")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		got := rec.Header().Get(slogx.RequestIDHeader)
		require.NotEqual(t, "req-123", got)
		require.True(t, idx.Valid(got))

		var entry map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
		require.Equal(t, got, entry["req_id"])
		require.Equal(t, "req-123", entry["client_req_id"])
	})
}

func TestQuietPaths(t *testing.T) {
	var buf bytes.Buffer
	logger := slogx.New(slogx.Config{Service: "licensor", Level: "info", Output: &buf})
	h := slogx.RequestLogger(logger, "/livez")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Has("fail") {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
	}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/livez", nil))
	require.Empty(t, buf.String())

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/livez?fail=1", nil))
	require.Contains(t, buf.String(), `"status":503`)
}

func TestLicenseKeysAreMasked(t *testing.T) {
	var buf bytes.Buffer
	logger := slogx.New(slogx.Config{Service: "licensor", Output: &buf})

	ctx := slogx.With(slogx.WithContext(context.Background(), logger), "license_key", "ABCD-EFGH-1234")
	slogx.FromContext(ctx).Info("activation")

	require.NotContains(t, buf.String(), "ABCD-EFGH")
	require.Contains(t, buf.String(), `"license_key":"****1234"`)
}

func TestMask(t *testing.T) {
	require.Equal(t, "****", slogx.Mask("abcd"))
	require.Equal(t, "", slogx.Mask(""))
	require.Equal(t, "****6789", slogx.Mask("0123456789"))
}

func TestParseLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, slogx.ParseLevel("DEBUG"))
	require.Equal(t, slog.LevelWarn, slogx.ParseLevel("warn"))
	require.Equal(t, slog.LevelInfo, slogx.ParseLevel("chatty"))
}

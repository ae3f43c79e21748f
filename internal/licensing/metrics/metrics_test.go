package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aussiebroadwan/licensor/internal/licensing/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestNilMetricsIsSafe(t *testing.T) {
	var m *metrics.Metrics
	require.NotPanics(t, func() {
		m.Decision("activate", "valid", time.Millisecond)
		m.IdleSwept(3)
		m.AuditFailed()
		m.UpdateCheck(true)
	})
}

func TestHandlerExposesCounters(t *testing.T) {
	m := metrics.New()
	m.Decision("activate", "valid", 5*time.Millisecond)
	m.Decision("activate", "seat-limit", time.Millisecond)
	m.IdleSwept(2)
	m.UpdateCheck(false)

	n, err := testutil.GatherAndCount(m.Registry(), "licensor_decisions_total")
	require.NoError(t, err)
	require.Equal(t, 2, n)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), `licensor_decisions_total{action="activate",outcome="seat-limit"} 1`)
	require.Contains(t, string(body), `licensor_idle_activations_deactivated_total 2`)
	require.Contains(t, string(body), `licensor_update_checks_total{result="current"} 1`)
}

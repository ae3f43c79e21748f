package slogx

import (
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/aussiebroadwan/licensor/pkg/idx"
)

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-ID"

// RequestLogger assigns each request an ID, attaches a request logger to its
// context and logs the outcome. A supplied X-Request-ID is kept only when it
// is a ULID; anything else is replaced and logged as client_req_id. Requests to quiet paths, such as probes,
// are logged at debug unless they fail.
func RequestLogger(base *slog.Logger, quiet ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			logger := base
			reqID := r.Header.Get(RequestIDHeader)
			if !idx.Valid(reqID) {
				if reqID != "" {
					logger = logger.With("client_req_id", reqID)
				}
				reqID = idx.New()
			}
			w.Header().Set(RequestIDHeader, reqID)

			logger = logger.With("req_id", reqID, "method", r.Method, "path", r.URL.Path)
			r = r.WithContext(WithContext(r.Context(), logger))

			rec := &recorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			level := slog.LevelInfo
			switch {
			case rec.status >= http.StatusInternalServerError:
				level = slog.LevelError
			case slices.Contains(quiet, r.URL.Path):
				level = slog.LevelDebug
			}
			logger.Log(r.Context(), level, "http_request",
				"status", rec.status,
				"bytes", rec.written,
				"duration_ms", time.Since(start).Milliseconds(),
				"remote_addr", r.RemoteAddr,
				"user_agent", r.UserAgent(),
			)
		})
	}
}

type recorder struct {
	http.ResponseWriter

	status  int
	written int
}

func (rw *recorder) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *recorder) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.written += n
	return n, err
}

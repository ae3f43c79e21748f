package httpx

import (
	"encoding/json"
	"net/http"
)

// WriteJSON answers with v encoded as JSON. A nil v writes only the status.
// Every JSON answer from the licensor is uncacheable.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	h := w.Header()
	NoCache(w)
	h.Set("Content-Type", "application/json; charset=utf-8")
	h.Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(code)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

// NoCache marks the response as uncacheable by browsers and proxies.
func NoCache(w http.ResponseWriter) {
	h := w.Header()
	h.Set("Cache-Control", "no-store, max-age=0")
	h.Set("Pragma", "no-cache")
	h.Set("Expires", "0")
}

// Package hostx normalizes installation hostnames and recognizes the
// development domains that are exempt from licensing checks.
//
// Both the license authority and the client transport import this package so
// the bypass rule is identical on either side of the wire.
package hostx

import (
	"net"
	"strings"
)

// developmentSuffixes are host suffixes reserved for local development.
var developmentSuffixes = []string{".local", ".test"}

// Normalize reduces a raw domain or URL to a bare lower-case hostname.
// Scheme, userinfo, port, path, query, fragment and a trailing dot are all
// removed. An input that contains no host yields "".
func Normalize(raw string) string {
	h := strings.TrimSpace(raw)
	if h == "" {
		return ""
	}

	// 1. Strip the scheme, if any.
	if i := strings.Index(h, "://"); i >= 0 {
		h = h[i+3:]
	}

	// 2. Cut at the first path, query or fragment delimiter.
	if i := strings.IndexAny(h, "/?#"); i >= 0 {
		h = h[:i]
	}

	// 3. Drop userinfo.
	if i := strings.LastIndex(h, "@"); i >= 0 {
		h = h[i+1:]
	}

	// 4. Drop the port. SplitHostPort also unwraps bracketed IPv6 literals.
	if host, _, err := net.SplitHostPort(h); err == nil {
		h = host
	} else {
		h = strings.TrimSuffix(strings.TrimPrefix(h, "["), "]")
	}

	h = strings.TrimSuffix(strings.ToLower(h), ".")
	return h
}

// IsDevelopment reports whether domain is localhost or ends in .local/.test.
// The input is normalized first, so URLs are accepted.
func IsDevelopment(domain string) bool {
	h := Normalize(domain)
	if h == "" {
		return false
	}
	if h == "localhost" {
		return true
	}
	for _, suffix := range developmentSuffixes {
		if strings.HasSuffix(h, suffix) {
			return true
		}
	}
	return false
}

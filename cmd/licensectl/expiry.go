package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// parseExpiry turns an operator-supplied expiry into unix seconds. "0" and
// "never" mean no expiry.
func parseExpiry(v string, now time.Time) (int64, error) {
	v = strings.TrimSpace(v)
	switch v {
	case "", "0", "never":
		return 0, nil
	}

	if n, err := strconv.ParseInt(v, 10, 64); err == nil {
		if n < 0 {
			return 0, fmt.Errorf("expiry %q is negative", v)
		}
		return n, nil
	}
	if d, err := time.ParseDuration(v); err == nil {
		if d <= 0 {
			return 0, fmt.Errorf("expiry %q is not in the future", v)
		}
		return now.Add(d).Unix(), nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t.Unix(), nil
	}
	if t, err := time.Parse(time.DateOnly, v); err == nil {
		return t.Unix(), nil
	}
	return 0, fmt.Errorf("cannot parse expiry %q", v)
}

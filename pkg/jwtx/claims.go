package jwtx

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/aussiebroadwan/licensor/pkg/idx"
	"github.com/golang-jwt/jwt/v5"
)

// DefaultOperatorTokenTTL is used when a token is minted without a lifetime.
const DefaultOperatorTokenTTL = 1 * time.Hour

// Operator scopes understood by the admin API.
const (
	ScopeLicensesRead  = "licenses:read"
	ScopeLicensesWrite = "licenses:write"
)

// KnownScopes lists every scope the admin API checks.
var KnownScopes = []string{ScopeLicensesRead, ScopeLicensesWrite}

// Claims carried by an operator token.
type Claims struct {
	jwt.RegisteredClaims

	Scopes []string `json:"scopes,omitempty"`
}

// NewOperatorClaims builds claims for an operator token issued at now.
func NewOperatorClaims(subject, issuer string, scopes []string, ttl time.Duration, now time.Time) Claims {
	if ttl <= 0 {
		ttl = DefaultOperatorTokenTTL
	}
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        idx.At(now),
		},
		Scopes: scopes,
	}
}

// ParseScopes splits a comma-separated scope list, rejecting unknown names.
func ParseScopes(csv string) ([]string, error) {
	var out []string
	for _, s := range strings.Split(csv, ",") {
		s = strings.TrimSpace(s)
		if s == "" || slices.Contains(out, s) {
			continue
		}
		if !slices.Contains(KnownScopes, s) {
			return nil, fmt.Errorf("jwtx: unknown scope %q", s)
		}
		out = append(out, s)
	}
	return out, nil
}

// HasScope reports whether scope was granted.
func (c *Claims) HasScope(scope string) bool {
	return slices.Contains(c.Scopes, scope)
}

func (c *Claims) checkIssuer(expected string) error {
	if expected != "" && c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}

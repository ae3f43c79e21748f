package jwtx

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// minHMACKeySize is the smallest key accepted for HS256.
const minHMACKeySize = 32

// HS256 signs and verifies operator tokens with a shared HMAC key.
type HS256 struct {
	key    []byte
	issuer string
}

// NewHS256 returns an HS256 signer/verifier. Tokens it verifies must carry
// the given issuer unless issuer is empty.
func NewHS256(key []byte, issuer string) (*HS256, error) {
	if len(key) < minHMACKeySize {
		return nil, ErrWeakKey
	}
	return &HS256{key: key, issuer: issuer}, nil
}

// Sign returns the compact serialization of c.
func (h *HS256) Sign(c Claims) (string, error) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	s, err := tok.SignedString(h.key)
	if err != nil {
		return "", fmt.Errorf("jwtx: sign: %w", err)
	}
	return s, nil
}

// Verify checks the signature, issuer and validity window of token.
func (h *HS256) Verify(token string) (Claims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	var claims Claims
	_, err := parser.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return h.key, nil
	})
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenMalformed):
		return Claims{}, ErrMalformed
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return Claims{}, ErrInvalidSig
	case errors.Is(err, jwt.ErrTokenExpired):
		return Claims{}, ErrExpired
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return Claims{}, ErrNotYetValid
	default:
		return Claims{}, fmt.Errorf("jwtx: parse or verify: %w", err)
	}

	if err := claims.checkIssuer(h.issuer); err != nil {
		return Claims{}, err
	}
	return claims, nil
}

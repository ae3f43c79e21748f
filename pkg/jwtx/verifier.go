package jwtx

import "errors"

// Verifier validates a JWT and returns its claims.
type Verifier interface {
	Verify(token string) (Claims, error)
}

// Signer mints JWTs from claims.
type Signer interface {
	Sign(Claims) (string, error)
}

var (
	ErrMalformed   = errors.New("jwtx: malformed token")
	ErrInvalidSig  = errors.New("jwtx: invalid signature")
	ErrIssuer      = errors.New("jwtx: issuer mismatch")
	ErrExpired     = errors.New("jwtx: token expired")
	ErrNotYetValid = errors.New("jwtx: token not yet valid")
	ErrWeakKey     = errors.New("jwtx: signing key shorter than 32 bytes")
)

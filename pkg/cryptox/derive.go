package cryptox

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// ErrEmptySecret is returned when a key is derived from an empty secret.
var ErrEmptySecret = errors.New("cryptox: empty secret")

// DeriveKey expands an operator-supplied secret into size bytes of key
// material with HKDF-SHA256. The info label separates keys derived from the
// same secret for different purposes.
func DeriveKey(secret, info string, size int) ([]byte, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}
	if size <= 0 {
		return nil, fmt.Errorf("key size must be positive, got %d", size)
	}

	out := make([]byte, size)
	r := hkdf.New(sha256.New, []byte(secret), nil, []byte(info))
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	return out, nil
}

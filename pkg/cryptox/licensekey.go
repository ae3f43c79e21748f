package cryptox

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base32"
	"encoding/base64"
	"fmt"
	"strings"
)

// License keys are four dash-separated groups of five Crockford base32
// characters, 100 bits of entropy in all.
const (
	LicenseKeyGroups    = 4
	LicenseKeyGroupSize = 5
	LicenseKeyLength    = LicenseKeyGroups*LicenseKeyGroupSize + LicenseKeyGroups - 1
)

// Crockford's alphabet omits I, L, O and U so keys survive being read aloud.
var crockford = base32.NewEncoding("0123456789ABCDEFGHJKMNPQRSTVWXYZ").WithPadding(base32.NoPadding)

// GenerateLicenseKey returns a fresh key such as "7K3QF-0MZ2R-XW9D1-HC4TB".
func GenerateLicenseKey() (string, error) {
	var buf [13]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return "", fmt.Errorf("failed to generate license key: %w", err)
	}
	enc := crockford.EncodeToString(buf[:])

	var b strings.Builder
	b.Grow(LicenseKeyLength)
	for g := range LicenseKeyGroups {
		if g > 0 {
			b.WriteByte('-')
		}
		b.WriteString(enc[g*LicenseKeyGroupSize : (g+1)*LicenseKeyGroupSize])
	}
	return b.String(), nil
}

// FingerprintKey returns the base64url SHA-256 of a raw license key
// (43 chars). Installations persist this instead of the key itself.
func FingerprintKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

package domain

import "time"

// LicenseStatus is the operator-owned state of a license.
type LicenseStatus string

const (
	LicenseActive  LicenseStatus = "active"
	LicenseRevoked LicenseStatus = "revoked"
	LicenseExpired LicenseStatus = "expired"
)

// Valid reports whether s is a known status.
func (s LicenseStatus) Valid() bool {
	switch s {
	case LicenseActive, LicenseRevoked, LicenseExpired:
		return true
	}
	return false
}

// License is an issued key with its seat ceiling and expiry.
type License struct {
	ID       int64
	Key      string
	Plan     string
	MaxSites int
	Status   LicenseStatus

	// ExpiresAt is a unix timestamp; 0 means the license never expires.
	ExpiresAt int64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ExpiredAt reports whether the license has passed its expiry at now.
func (l License) ExpiredAt(now time.Time) bool {
	return l.ExpiresAt != 0 && now.Unix() >= l.ExpiresAt
}

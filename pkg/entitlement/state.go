// Package entitlement keeps an installation's cached license verdict and
// answers IsPro without touching the network.
package entitlement

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/licensor/pkg/licensesdk"
)

// Cached status labels. Authority labels outside this set are folded into
// one of them by foldStatus.
const (
	StatusValid       = licensesdk.StatusValid
	StatusInvalid     = licensesdk.StatusInvalid
	StatusExpired     = licensesdk.StatusExpired
	StatusDeactivated = licensesdk.StatusDeactivated
)

// ErrNoState is returned by a StateStore that has never been written.
var ErrNoState = errors.New("entitlement: no cached state")

// State is the cached verdict. The raw key is never part of it.
type State struct {
	KeyHash string `json:"key_hash,omitempty"`
	Status  string `json:"status"`

	// Unix timestamps; ExpiresAt 0 means never.
	ExpiresAt int64 `json:"expires_at"`
	LastCheck int64 `json:"last_check"`
}

// IsPro reports whether s entitles the installation at now.
func (s State) IsPro(now time.Time) bool {
	return s.Status == StatusValid && (s.ExpiresAt == 0 || now.Unix() < s.ExpiresAt)
}

// StateStore persists the cached State.
type StateStore interface {
	// Load returns ErrNoState when nothing has been saved yet.
	Load(ctx context.Context) (State, error)
	Save(ctx context.Context, s State) error
}

// foldStatus maps an authority label to a cached status. ok is false for
// labels that carry no verdict, such as validation errors.
func foldStatus(label string) (status string, ok bool) {
	switch label {
	case licensesdk.StatusValid:
		return StatusValid, true
	case licensesdk.StatusExpired:
		return StatusExpired, true
	case licensesdk.StatusDeactivated, licensesdk.StatusNotActivated:
		return StatusDeactivated, true
	case licensesdk.StatusInvalid, licensesdk.StatusNotActive, licensesdk.StatusSeatLimit:
		return StatusInvalid, true
	}
	return "", false
}

package store

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/licensor/internal/licensing/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite,
// postgres) implement it. Sub-repositories are reached through methods so a
// Tx can hand out the same repositories bound to its transaction.
type Store interface {
	Licenses() Licenses
	Activations() Activations
	Releases() Releases

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx runs fn in a transaction, committing when fn returns nil and
	// rolling back otherwise.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. Nested transactions are not supported.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

// Licenses is the key store.
type Licenses interface {
	// CreateLicense inserts l and returns it with its assigned ID.
	// Returns ErrAlreadyExists when the key is taken.
	CreateLicense(ctx context.Context, l domain.License) (domain.License, error)

	// GetLicenseByKey looks a license up by its raw key (verbatim match).
	GetLicenseByKey(ctx context.Context, key string) (domain.License, error)

	GetLicenseByID(ctx context.Context, id int64) (domain.License, error)

	// LockLicense takes a write lock on the license row for the rest of the
	// transaction. Outside a transaction it only checks existence.
	LockLicense(ctx context.Context, id int64) error

	// FindLicenseByActiveDomain returns the license holding an active
	// activation for host. If several do, the most recently seen wins.
	FindLicenseByActiveDomain(ctx context.Context, host string) (domain.License, error)

	UpdateLicenseStatus(ctx context.Context, id int64, status domain.LicenseStatus, now int64) error
	UpdateLicenseExpiry(ctx context.Context, id int64, expiresAt int64, now int64) error
}

// Activations is the activation ledger.
type Activations interface {
	// GetActivation returns the row for (licenseID, domain) in any state.
	GetActivation(ctx context.Context, licenseID int64, host string) (domain.Activation, error)

	// CountActiveSeats counts rows with state = active for licenseID.
	CountActiveSeats(ctx context.Context, licenseID int64) (int, error)

	// UpsertActivation marks (licenseID, domain) active and refreshes
	// last_seen, inserting the row with first_seen = now when absent.
	UpsertActivation(ctx context.Context, licenseID int64, host string, now int64) error

	// DeactivateActivation flips the row to deactivated. Missing rows are a no-op.
	DeactivateActivation(ctx context.Context, licenseID int64, host string, now int64) error

	// TouchActivation refreshes last_seen on an active row.
	TouchActivation(ctx context.Context, licenseID int64, host string, now int64) error

	ListActivations(ctx context.Context, licenseID int64) ([]domain.Activation, error)

	// DeactivateIdleActivations deactivates active rows last seen before
	// cutoff and returns how many were changed.
	DeactivateIdleActivations(ctx context.Context, cutoff int64, now int64) (int64, error)
}

// Releases is the update feed.
type Releases interface {
	// PublishRelease stores r. Returns ErrAlreadyExists for a duplicate
	// (slug, version).
	PublishRelease(ctx context.Context, r domain.Release) error

	// ListReleases returns every release for slug, newest first.
	ListReleases(ctx context.Context, slug string) ([]domain.Release, error)
}

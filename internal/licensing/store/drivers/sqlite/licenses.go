package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/licensor/internal/licensing/domain"
	"github.com/aussiebroadwan/licensor/internal/licensing/store"
)

type licensesRepo struct {
	db dbtx
}

const licenseColumns = `id, license_key, plan, max_sites, status, expires_at, created_at, updated_at`

func scanLicense(row interface{ Scan(...any) error }) (domain.License, error) {
	var (
		l                    domain.License
		status               string
		createdAt, updatedAt int64
	)
	if err := row.Scan(&l.ID, &l.Key, &l.Plan, &l.MaxSites, &status, &l.ExpiresAt, &createdAt, &updatedAt); err != nil {
		return domain.License{}, err
	}
	l.Status = domain.LicenseStatus(status)
	l.CreatedAt = time.Unix(createdAt, 0).UTC()
	l.UpdatedAt = time.Unix(updatedAt, 0).UTC()
	return l, nil
}

func (r *licensesRepo) CreateLicense(ctx context.Context, l domain.License) (domain.License, error) {
	const q = `
		INSERT INTO licenses (license_key, plan, max_sites, status, expires_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING ` + licenseColumns

	now := l.CreatedAt.Unix()
	created, err := scanLicense(r.db.QueryRowContext(ctx, q,
		l.Key, l.Plan, l.MaxSites, string(l.Status), l.ExpiresAt, now, now,
	))
	if err != nil {
		return domain.License{}, mapConflict(err)
	}
	return created, nil
}

func (r *licensesRepo) GetLicenseByKey(ctx context.Context, key string) (domain.License, error) {
	const q = `SELECT ` + licenseColumns + ` FROM licenses WHERE license_key = ?`
	l, err := scanLicense(r.db.QueryRowContext(ctx, q, key))
	if err != nil {
		return domain.License{}, mapNotFound(err)
	}
	return l, nil
}

func (r *licensesRepo) GetLicenseByID(ctx context.Context, id int64) (domain.License, error) {
	const q = `SELECT ` + licenseColumns + ` FROM licenses WHERE id = ?`
	l, err := scanLicense(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return domain.License{}, mapNotFound(err)
	}
	return l, nil
}

// LockLicense only checks the row exists. Transactions are opened IMMEDIATE
// (see DSN), so the database write lock is already held.
func (r *licensesRepo) LockLicense(ctx context.Context, id int64) error {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM licenses WHERE id = ?`, id).Scan(&one)
	return mapNotFound(err)
}

func (r *licensesRepo) FindLicenseByActiveDomain(ctx context.Context, host string) (domain.License, error) {
	const q = `
		SELECT l.id, l.license_key, l.plan, l.max_sites, l.status, l.expires_at, l.created_at, l.updated_at
		FROM licenses l
		JOIN activations a ON a.license_id = l.id
		WHERE a.domain = ? AND a.state = 'active'
		ORDER BY a.last_seen DESC, l.id DESC
		LIMIT 1`
	l, err := scanLicense(r.db.QueryRowContext(ctx, q, host))
	if err != nil {
		return domain.License{}, mapNotFound(err)
	}
	return l, nil
}

func (r *licensesRepo) UpdateLicenseStatus(
	ctx context.Context,
	id int64,
	status domain.LicenseStatus,
	now int64,
) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE licenses SET status = ?, updated_at = ? WHERE id = ?`,
		string(status), now, id,
	)
	return affectedOrNotFound(res, err)
}

func (r *licensesRepo) UpdateLicenseExpiry(ctx context.Context, id int64, expiresAt int64, now int64) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE licenses SET expires_at = ?, updated_at = ? WHERE id = ?`,
		expiresAt, now, id,
	)
	return affectedOrNotFound(res, err)
}

func affectedOrNotFound(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

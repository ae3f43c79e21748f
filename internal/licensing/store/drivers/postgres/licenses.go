package postgres

import (
	"context"
	"time"

	"github.com/aussiebroadwan/licensor/internal/licensing/domain"
	"github.com/aussiebroadwan/licensor/internal/licensing/store"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type licensesRepo struct {
	db querier
}

const licenseColumns = `id, license_key, plan, max_sites, status, expires_at, created_at, updated_at`

func scanLicense(row pgx.Row) (domain.License, error) {
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
		VALUES ($1, $2, $3, $4, $5, $6, $6)
		RETURNING ` + licenseColumns

	created, err := scanLicense(r.db.QueryRow(ctx, q,
		l.Key, l.Plan, l.MaxSites, string(l.Status), l.ExpiresAt, l.CreatedAt.Unix(),
	))
	if err != nil {
		return domain.License{}, mapConflict(err)
	}
	return created, nil
}

func (r *licensesRepo) GetLicenseByKey(ctx context.Context, key string) (domain.License, error) {
	const q = `SELECT ` + licenseColumns + ` FROM licenses WHERE license_key = $1`
	l, err := scanLicense(r.db.QueryRow(ctx, q, key))
	if err != nil {
		return domain.License{}, mapNotFound(err)
	}
	return l, nil
}

func (r *licensesRepo) GetLicenseByID(ctx context.Context, id int64) (domain.License, error) {
	const q = `SELECT ` + licenseColumns + ` FROM licenses WHERE id = $1`
	l, err := scanLicense(r.db.QueryRow(ctx, q, id))
	if err != nil {
		return domain.License{}, mapNotFound(err)
	}
	return l, nil
}

// LockLicense takes a row lock held until the surrounding transaction ends.
func (r *licensesRepo) LockLicense(ctx context.Context, id int64) error {
	var got int64
	err := r.db.QueryRow(ctx, `SELECT id FROM licenses WHERE id = $1 FOR UPDATE`, id).Scan(&got)
	return mapNotFound(err)
}

func (r *licensesRepo) FindLicenseByActiveDomain(ctx context.Context, host string) (domain.License, error) {
	const q = `
		SELECT l.id, l.license_key, l.plan, l.max_sites, l.status, l.expires_at, l.created_at, l.updated_at
		FROM licenses l
		JOIN activations a ON a.license_id = l.id
		WHERE a.domain = $1 AND a.state = 'active'
		ORDER BY a.last_seen DESC, l.id DESC
		LIMIT 1`
	l, err := scanLicense(r.db.QueryRow(ctx, q, host))
	if err != nil {
		return domain.License{}, mapNotFound(err)
	}
	return l, nil
}

func (r *licensesRepo) UpdateLicenseStatus(ctx context.Context, id int64, status domain.LicenseStatus, now int64) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE licenses SET status = $1, updated_at = $2 WHERE id = $3`,
		string(status), now, id,
	)
	return affectedOrNotFound(tag, err)
}

func (r *licensesRepo) UpdateLicenseExpiry(ctx context.Context, id int64, expiresAt int64, now int64) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE licenses SET expires_at = $1, updated_at = $2 WHERE id = $3`,
		expiresAt, now, id,
	)
	return affectedOrNotFound(tag, err)
}

func affectedOrNotFound(tag pgconn.CommandTag, err error) error {
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

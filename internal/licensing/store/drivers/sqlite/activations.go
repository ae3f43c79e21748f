package sqlite

import (
	"context"

	"github.com/aussiebroadwan/licensor/internal/licensing/domain"
)

type activationsRepo struct {
	db dbtx
}

func (r *activationsRepo) GetActivation(ctx context.Context, licenseID int64, host string) (domain.Activation, error) {
	const q = `
		SELECT license_id, domain, state, first_seen, last_seen
		FROM activations WHERE license_id = ? AND domain = ?`

	var (
		a     domain.Activation
		state string
	)
	err := r.db.QueryRowContext(ctx, q, licenseID, host).
		Scan(&a.LicenseID, &a.Domain, &state, &a.FirstSeen, &a.LastSeen)
	if err != nil {
		return domain.Activation{}, mapNotFound(err)
	}
	a.State = domain.ActivationState(state)
	return a, nil
}

func (r *activationsRepo) CountActiveSeats(ctx context.Context, licenseID int64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM activations WHERE license_id = ? AND state = 'active'`,
		licenseID,
	).Scan(&n)
	return n, err
}

// UpsertActivation inserts first and falls back to an update when the
// (license_id, domain) key already exists. A concurrent insert of the same
// pair lands in the same fallback.
func (r *activationsRepo) UpsertActivation(ctx context.Context, licenseID int64, host string, now int64) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO activations (license_id, domain, state, first_seen, last_seen)
		VALUES (?, ?, 'active', ?, ?)`,
		licenseID, host, now, now,
	)
	if err == nil || !isUniqueViolation(err) {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		UPDATE activations SET state = 'active', last_seen = ?
		WHERE license_id = ? AND domain = ?`,
		now, licenseID, host,
	)
	return err
}

func (r *activationsRepo) DeactivateActivation(ctx context.Context, licenseID int64, host string, now int64) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE activations SET state = 'deactivated', last_seen = ?
		WHERE license_id = ? AND domain = ?`,
		now, licenseID, host,
	)
	return err
}

func (r *activationsRepo) TouchActivation(ctx context.Context, licenseID int64, host string, now int64) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE activations SET last_seen = ?
		WHERE license_id = ? AND domain = ? AND state = 'active'`,
		now, licenseID, host,
	)
	return err
}

func (r *activationsRepo) ListActivations(ctx context.Context, licenseID int64) ([]domain.Activation, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT license_id, domain, state, first_seen, last_seen
		FROM activations WHERE license_id = ?
		ORDER BY first_seen, domain`,
		licenseID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Activation
	for rows.Next() {
		var (
			a     domain.Activation
			state string
		)
		if err := rows.Scan(&a.LicenseID, &a.Domain, &state, &a.FirstSeen, &a.LastSeen); err != nil {
			return nil, err
		}
		a.State = domain.ActivationState(state)
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *activationsRepo) DeactivateIdleActivations(ctx context.Context, cutoff int64, now int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE activations SET state = 'deactivated', last_seen = ?
		WHERE state = 'active' AND last_seen < ?`,
		now, cutoff,
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

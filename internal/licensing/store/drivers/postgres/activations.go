package postgres

import (
	"context"

	"github.com/aussiebroadwan/licensor/internal/licensing/domain"
	"github.com/jackc/pgx/v5"
)

type activationsRepo struct {
	db querier
}

func scanActivation(row pgx.Row) (domain.Activation, error) {
	var (
		a     domain.Activation
		state string
	)
	if err := row.Scan(&a.LicenseID, &a.Domain, &state, &a.FirstSeen, &a.LastSeen); err != nil {
		return domain.Activation{}, err
	}
	a.State = domain.ActivationState(state)
	return a, nil
}

func (r *activationsRepo) GetActivation(ctx context.Context, licenseID int64, host string) (domain.Activation, error) {
	a, err := scanActivation(r.db.QueryRow(ctx, `
		SELECT license_id, domain, state, first_seen, last_seen
		FROM activations WHERE license_id = $1 AND domain = $2`,
		licenseID, host,
	))
	if err != nil {
		return domain.Activation{}, mapNotFound(err)
	}
	return a, nil
}

func (r *activationsRepo) CountActiveSeats(ctx context.Context, licenseID int64) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM activations WHERE license_id = $1 AND state = 'active'`,
		licenseID,
	).Scan(&n)
	return n, err
}

func (r *activationsRepo) UpsertActivation(ctx context.Context, licenseID int64, host string, now int64) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO activations (license_id, domain, state, first_seen, last_seen)
		VALUES ($1, $2, 'active', $3, $3)
		ON CONFLICT (license_id, domain)
		DO UPDATE SET state = 'active', last_seen = EXCLUDED.last_seen`,
		licenseID, host, now,
	)
	return err
}

func (r *activationsRepo) DeactivateActivation(ctx context.Context, licenseID int64, host string, now int64) error {
	_, err := r.db.Exec(ctx, `
		UPDATE activations SET state = 'deactivated', last_seen = $1
		WHERE license_id = $2 AND domain = $3`,
		now, licenseID, host,
	)
	return err
}

func (r *activationsRepo) TouchActivation(ctx context.Context, licenseID int64, host string, now int64) error {
	_, err := r.db.Exec(ctx, `
		UPDATE activations SET last_seen = $1
		WHERE license_id = $2 AND domain = $3 AND state = 'active'`,
		now, licenseID, host,
	)
	return err
}

func (r *activationsRepo) ListActivations(ctx context.Context, licenseID int64) ([]domain.Activation, error) {
	rows, err := r.db.Query(ctx, `
		SELECT license_id, domain, state, first_seen, last_seen
		FROM activations WHERE license_id = $1
		ORDER BY first_seen, domain`,
		licenseID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Activation
	for rows.Next() {
		a, err := scanActivation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *activationsRepo) DeactivateIdleActivations(ctx context.Context, cutoff int64, now int64) (int64, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE activations SET state = 'deactivated', last_seen = $1
		WHERE state = 'active' AND last_seen < $2`,
		now, cutoff,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

package postgres

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/licensor/internal/licensing/store"
	"github.com/jackc/pgx/v5"
)

var errNestedTx = errors.New("postgres: nested transactions are not supported")

type txStore struct {
	ctx context.Context
	tx  pgx.Tx
}

func newTx(ctx context.Context, tx pgx.Tx) *txStore {
	return &txStore{ctx: ctx, tx: tx}
}

func (t *txStore) Commit() error { return t.tx.Commit(t.ctx) }

// Rollback returns nil once the transaction has been committed.
func (t *txStore) Rollback() error {
	if err := t.tx.Rollback(t.ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return err
	}
	return nil
}

func (t *txStore) Close() error                   { return nil }
func (t *txStore) Ping(ctx context.Context) error { return nil }

func (t *txStore) Tx(ctx context.Context) (store.Tx, error) {
	return nil, errNestedTx
}

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return errNestedTx
}

func (t *txStore) Licenses() store.Licenses       { return &licensesRepo{db: t.tx} }
func (t *txStore) Activations() store.Activations { return &activationsRepo{db: t.tx} }
func (t *txStore) Releases() store.Releases       { return &releasesRepo{db: t.tx} }

func (t *txStore) ApplyMigrations() error { return nil }

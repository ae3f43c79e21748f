package sqlite

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/licensor/internal/licensing/store"
)

type txStore struct {
	tx *sql.Tx
}

func newTx(tx *sql.Tx) *txStore {
	return &txStore{tx: tx}
}

func (t *txStore) Commit() error   { return t.tx.Commit() }
func (t *txStore) Rollback() error { return t.tx.Rollback() }

func (t *txStore) Close() error { return nil } // the outer DB stays open

// Ping is a no-op; the connection is held by the transaction.
func (t *txStore) Ping(ctx context.Context) error { return nil }

func (t *txStore) Tx(ctx context.Context) (store.Tx, error) {
	return nil, sql.ErrTxDone // nested tx not supported
}

func (t *txStore) WithTx(ctx context.Context, fn func(tx store.Tx) error) error {
	return sql.ErrTxDone // nested tx not supported
}

func (t *txStore) Licenses() store.Licenses       { return &licensesRepo{db: t.tx} }
func (t *txStore) Activations() store.Activations { return &activationsRepo{db: t.tx} }
func (t *txStore) Releases() store.Releases       { return &releasesRepo{db: t.tx} }

func (t *txStore) ApplyMigrations() error { return nil } // migrations run before any tx

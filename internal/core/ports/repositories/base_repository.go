package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// TransactionManager defines methods for store transaction management.
type TransactionManager interface {
	// Begin starts a new database transaction
	Begin(ctx context.Context) (pgx.Tx, error)

	// Commit commits a transaction
	Commit(ctx context.Context, tx pgx.Tx) error

	// Rollback rolls back a transaction
	Rollback(ctx context.Context, tx pgx.Tx) error

	// WithinTx opens a transaction, runs fn, commits when fn returns nil and
	// rolls back on any error exit. This is the scoped unit-of-work used by
	// the retried account operations.
	WithinTx(ctx context.Context, fn func(tx pgx.Tx) error) error
}

package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/fund_transfer_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// LockRepositoryFacade manages the at-most-one reservation row per account.
//
// All mutations run within the caller's transaction so that lock bookkeeping
// and the paired balance write commit or roll back together.
type LockRepositoryFacade interface {
	// FindLockByAccountInTx retrieves the reservation for an account, if any.
	// Returns apperrors.ErrNotFound when no row exists.
	FindLockByAccountInTx(ctx context.Context, tx pgx.Tx, accountNumber string) (*domain.AccountLock, error)

	// SaveLockInTx inserts a new reservation row. A concurrent winner's row
	// surfaces as apperrors.ErrDuplicate via the uniqueness constraint.
	SaveLockInTx(ctx context.Context, tx pgx.Tx, lock domain.AccountLock) error

	// DeleteLockInTx removes the reservation row for an account, if present.
	DeleteLockInTx(ctx context.Context, tx pgx.Tx, accountNumber string) error

	// DeleteExpiredLocks removes every reservation whose expiry is at or
	// before now, across all accounts. Lazy garbage collection: invoked
	// opportunistically by account operations, not by a background timer.
	DeleteExpiredLocks(ctx context.Context, now time.Time) (int64, error)
}

// LockRepositoryWithTx extends LockRepositoryFacade with transaction capabilities.
type LockRepositoryWithTx interface {
	LockRepositoryFacade
	TransactionManager
}

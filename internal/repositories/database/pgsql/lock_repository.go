package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/fund_transfer_app/internal/apperrors"
	"github.com/SscSPs/fund_transfer_app/internal/core/domain"
	portsrepo "github.com/SscSPs/fund_transfer_app/internal/core/ports/repositories"
	"github.com/SscSPs/fund_transfer_app/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxLockRepository struct {
	BaseRepository
}

// newPgxLockRepository creates a new repository for account reservation rows.
func newPgxLockRepository(pool *pgxpool.Pool) portsrepo.LockRepositoryWithTx {
	return &PgxLockRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxLockRepository implements portsrepo.LockRepositoryWithTx
var _ portsrepo.LockRepositoryWithTx = (*PgxLockRepository)(nil)

func toDomainLock(m models.AccountLock) domain.AccountLock {
	return domain.AccountLock{
		AccountNumber: m.AccountNumber,
		LockedBy:      m.LockedBy,
		LockTime:      m.LockTime,
		LockExpiry:    m.LockExpiry,
	}
}

// FindLockByAccountInTx retrieves the reservation row for an account.
func (r *PgxLockRepository) FindLockByAccountInTx(ctx context.Context, tx pgx.Tx, accountNumber string) (*domain.AccountLock, error) {
	query := `
		SELECT account_number, locked_by, lock_time, lock_expiry
		FROM account_locks
		WHERE account_number = $1;
	`
	var m models.AccountLock
	err := tx.QueryRow(ctx, query, accountNumber).Scan(
		&m.AccountNumber,
		&m.LockedBy,
		&m.LockTime,
		&m.LockExpiry,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find lock for account %s: %w", accountNumber, err)
	}
	lock := toDomainLock(m)
	return &lock, nil
}

// SaveLockInTx inserts a new reservation row. The uniqueness constraint on
// account_number turns a concurrent winner into apperrors.ErrDuplicate.
//
// The insert runs inside a savepoint so that a constraint violation does not
// abort the enclosing transaction; callers can react to ErrDuplicate and keep
// working within the same tx.
func (r *PgxLockRepository) SaveLockInTx(ctx context.Context, tx pgx.Tx, lock domain.AccountLock) error {
	sp, err := tx.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to open savepoint for lock insert: %w", err)
	}

	query := `
		INSERT INTO account_locks (account_number, locked_by, lock_time, lock_expiry)
		VALUES ($1, $2, $3, $4);
	`
	_, err = sp.Exec(ctx, query, lock.AccountNumber, lock.LockedBy, lock.LockTime, lock.LockExpiry)
	if err != nil {
		_ = sp.Rollback(ctx)
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return fmt.Errorf("%w: lock for account %s", apperrors.ErrDuplicate, lock.AccountNumber)
		}
		return fmt.Errorf("failed to save lock for account %s: %w", lock.AccountNumber, err)
	}
	return sp.Commit(ctx)
}

// DeleteLockInTx removes the reservation row for an account, if present.
func (r *PgxLockRepository) DeleteLockInTx(ctx context.Context, tx pgx.Tx, accountNumber string) error {
	_, err := tx.Exec(ctx, `DELETE FROM account_locks WHERE account_number = $1;`, accountNumber)
	if err != nil {
		return fmt.Errorf("failed to delete lock for account %s: %w", accountNumber, err)
	}
	return nil
}

// DeleteExpiredLocks removes all reservations that lapsed at or before now.
func (r *PgxLockRepository) DeleteExpiredLocks(ctx context.Context, now time.Time) (int64, error) {
	cmdTag, err := r.Pool.Exec(ctx, `DELETE FROM account_locks WHERE lock_expiry <= $1;`, now)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired locks: %w", err)
	}
	return cmdTag.RowsAffected(), nil
}

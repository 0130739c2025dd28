package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/SscSPs/fund_transfer_app/internal/apperrors"
	"github.com/SscSPs/fund_transfer_app/internal/core/domain"
	portsrepo "github.com/SscSPs/fund_transfer_app/internal/core/ports/repositories"
	"github.com/SscSPs/fund_transfer_app/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxTransactionRepository struct {
	BaseRepository
}

// newPgxTransactionRepository creates a new repository for transfer records.
func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxTransactionRepository implements portsrepo.TransactionRepositoryFacade
var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

func toDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionRef: m.TransactionRef,
		FromAccount:    m.FromAccount,
		ToAccount:      m.ToAccount,
		Amount:         m.Amount,
		Currency:       m.Currency,
		Status:         domain.TransactionStatus(m.Status),
		IdempotencyKey: m.IdempotencyKey,
		FailureReason:  m.FailureReason,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

const transactionColumns = `transaction_ref, from_account, to_account, amount, currency, status, idempotency_key, failure_reason, created_at, updated_at`

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var m models.Transaction
	var idemKey, failureReason sql.NullString
	err := row.Scan(
		&m.TransactionRef,
		&m.FromAccount,
		&m.ToAccount,
		&m.Amount,
		&m.Currency,
		&m.Status,
		&idemKey,
		&failureReason,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	m.IdempotencyKey = idemKey.String
	m.FailureReason = failureReason.String
	txn := toDomainTransaction(m)
	return &txn, nil
}

// SaveTransaction inserts a new transfer record. The partial unique index on
// idempotency_key turns a concurrent duplicate into apperrors.ErrDuplicate.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	query := `
		INSERT INTO transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	var idemKey sql.NullString
	if txn.IdempotencyKey != "" {
		idemKey = sql.NullString{String: txn.IdempotencyKey, Valid: true}
	}
	var failureReason sql.NullString
	if txn.FailureReason != "" {
		failureReason = sql.NullString{String: txn.FailureReason, Valid: true}
	}

	_, err := r.Pool.Exec(ctx, query,
		txn.TransactionRef,
		txn.FromAccount,
		txn.ToAccount,
		txn.Amount,
		txn.Currency,
		txn.Status,
		idemKey,
		failureReason,
		txn.CreatedAt,
		txn.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return fmt.Errorf("%w: transaction %s", apperrors.ErrDuplicate, txn.TransactionRef)
		}
		return fmt.Errorf("failed to save transaction %s: %w", txn.TransactionRef, err)
	}
	return nil
}

// UpdateTransaction persists status, failure reason and updated_at.
func (r *PgxTransactionRepository) UpdateTransaction(ctx context.Context, txn domain.Transaction) error {
	query := `
		UPDATE transactions
		SET status = $2, failure_reason = $3, updated_at = $4
		WHERE transaction_ref = $1;
	`
	var failureReason sql.NullString
	if txn.FailureReason != "" {
		failureReason = sql.NullString{String: txn.FailureReason, Valid: true}
	}

	cmdTag, err := r.Pool.Exec(ctx, query, txn.TransactionRef, txn.Status, failureReason, txn.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update transaction %s: %w", txn.TransactionRef, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// FindTransactionByRef retrieves a transfer record by its reference.
func (r *PgxTransactionRepository) FindTransactionByRef(ctx context.Context, transactionRef string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_ref = $1;`

	txn, err := scanTransaction(r.Pool.QueryRow(ctx, query, transactionRef))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionRef, err)
	}
	return txn, nil
}

// FindTransactionByIdempotencyKey retrieves a transfer record by its idempotency key.
func (r *PgxTransactionRepository) FindTransactionByIdempotencyKey(ctx context.Context, idempotencyKey string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE idempotency_key = $1;`

	txn, err := scanTransaction(r.Pool.QueryRow(ctx, query, idempotencyKey))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction by idempotency key: %w", err)
	}
	return txn, nil
}

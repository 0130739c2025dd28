package repositories

import (
	"context"

	"github.com/SscSPs/fund_transfer_app/internal/core/domain"
)

// TransactionReader defines read operations for transfer records.
type TransactionReader interface {
	// FindTransactionByRef retrieves a transfer record by its reference.
	FindTransactionByRef(ctx context.Context, transactionRef string) (*domain.Transaction, error)

	// FindTransactionByIdempotencyKey retrieves a transfer record by its
	// idempotency key. Returns apperrors.ErrNotFound when no row matches.
	FindTransactionByIdempotencyKey(ctx context.Context, idempotencyKey string) (*domain.Transaction, error)
}

// TransactionWriter defines write operations for transfer records.
type TransactionWriter interface {
	// SaveTransaction persists a new transfer record. A duplicate
	// idempotency key surfaces as apperrors.ErrDuplicate.
	SaveTransaction(ctx context.Context, txn domain.Transaction) error

	// UpdateTransaction persists status, failure reason and updated_at for an
	// existing transfer record.
	UpdateTransaction(ctx context.Context, txn domain.Transaction) error
}

// TransactionRepositoryFacade combines all transfer-record repository interfaces.
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}

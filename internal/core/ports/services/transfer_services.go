package services

import (
	"context"

	"github.com/SscSPs/fund_transfer_app/internal/core/domain"
	"github.com/SscSPs/fund_transfer_app/internal/dto"
)

// TransferSvcFacade drives a transfer through its saga and owns the
// Transaction record's lifecycle.
type TransferSvcFacade interface {
	// StartTransfer creates a transfer record and executes the saga
	// synchronously. A repeated non-empty idempotency key returns the
	// original record without re-executing side effects. The returned record
	// reflects whatever state the saga reached; saga failures do not fail the
	// call itself.
	StartTransfer(ctx context.Context, req dto.TransferRequest) (*domain.Transaction, error)

	// GetByRef retrieves a transfer record by its reference.
	GetByRef(ctx context.Context, transactionRef string) (*domain.Transaction, error)

	// Reverse moves the funds of a SUCCESS transfer back: debit destination,
	// credit source. The same record is updated in place; reversing a
	// non-SUCCESS transfer fails with apperrors.ErrInvalidState.
	Reverse(ctx context.Context, transactionRef string) (*domain.Transaction, error)
}

package services

import (
	"context"
	"time"

	"github.com/SscSPs/fund_transfer_app/internal/core/domain"
	"github.com/SscSPs/fund_transfer_app/internal/dto"
	"github.com/shopspring/decimal"
)

// AccountReaderSvc defines read operations for account data.
type AccountReaderSvc interface {
	// GetAccount retrieves a specific account by its account number.
	GetAccount(ctx context.Context, accountNumber string) (*domain.Account, error)

	// GetBalance retrieves the current balance of an account.
	GetBalance(ctx context.Context, accountNumber string) (decimal.Decimal, error)

	// ListAccounts retrieves a paginated list of accounts.
	ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error)
}

// AccountWriterSvc defines the account bootstrap operations.
type AccountWriterSvc interface {
	// CreateAccount persists a new account.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error)
}

// AccountMutatorSvc defines the ledger mutation operations. Each runs inside
// the optimistic-retry wrapper: up to 3 attempts with a 50ms-per-attempt
// backoff, then apperrors.ErrConcurrencyConflict surfaces to the caller.
type AccountMutatorSvc interface {
	// LockFunds reserves amount on the account until expiry: the balance is
	// debited immediately and a reservation row is created for holderID.
	LockFunds(ctx context.Context, accountNumber string, amount decimal.Decimal, holderID string, expiry time.Time) error

	// UnlockFunds removes the account's reservation, if any, and credits the
	// amount back. This is the compensating rollback of LockFunds.
	UnlockFunds(ctx context.Context, accountNumber string, amount decimal.Decimal) error

	// ReleaseLock removes the reservation row only, leaving the balance
	// untouched. Used once the reserved funds have moved onward.
	ReleaseLock(ctx context.Context, accountNumber string) error

	// Credit unconditionally adds amount to the account balance.
	Credit(ctx context.Context, accountNumber string, amount decimal.Decimal) error

	// Debit unconditionally subtracts amount from the account balance,
	// failing with apperrors.ErrInsufficientBalance when it cannot cover it.
	Debit(ctx context.Context, accountNumber string, amount decimal.Decimal) error
}

// AccountSvcFacade combines all account-related service interfaces.
type AccountSvcFacade interface {
	AccountReaderSvc
	AccountWriterSvc
	AccountMutatorSvc
}

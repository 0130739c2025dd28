package repositories

import (
	"context"

	"github.com/SscSPs/fund_transfer_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// AccountReader defines read operations for account data.
type AccountReader interface {
	// FindAccountByNumber retrieves a specific account by its account number.
	FindAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error)

	// ListAccounts retrieves a paginated list of accounts.
	ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data.
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error
}

// AccountTransactionSupport defines the version-checked operations that run
// inside a store transaction as part of a retried unit of work.
type AccountTransactionSupport interface {
	// FindAccountByNumberInTx reloads an account, including its current
	// version token, within the given transaction.
	FindAccountByNumberInTx(ctx context.Context, tx pgx.Tx, accountNumber string) (*domain.Account, error)

	// UpdateAccountBalanceInTx writes the account's new balance conditioned on
	// expectedVersion being unchanged. A stale version yields
	// apperrors.ErrConcurrencyConflict, never a silent overwrite.
	UpdateAccountBalanceInTx(ctx context.Context, tx pgx.Tx, account domain.Account, expectedVersion int64) error
}

// AccountRepositoryFacade combines all account-related repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountTransactionSupport
}

// AccountRepositoryWithTx extends AccountRepositoryFacade with transaction capabilities.
type AccountRepositoryWithTx interface {
	AccountRepositoryFacade
	TransactionManager
}

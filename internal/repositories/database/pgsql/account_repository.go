package pgsql

import (
	"context"
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

const pgUniqueViolation = "23505"

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryWithTx {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryWithTx
var _ portsrepo.AccountRepositoryWithTx = (*PgxAccountRepository)(nil)

// Helper to convert domain.Account to models.Account for DB storage
func toModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountNumber: d.AccountNumber,
		CustomerID:    d.CustomerID,
		Balance:       d.Balance,
		CurrencyCode:  d.CurrencyCode,
		Status:        models.AccountStatus(d.Status),
		Version:       d.Version,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

// Helper to convert models.Account from DB to domain.Account
func toDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountNumber: m.AccountNumber,
		CustomerID:    m.CustomerID,
		Balance:       m.Balance,
		CurrencyCode:  m.CurrencyCode,
		Status:        domain.AccountStatus(m.Status),
		Version:       m.Version,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}

const accountColumns = `account_number, customer_id, balance, currency_code, status, version, created_at, updated_at`

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountNumber,
		&m.CustomerID,
		&m.Balance,
		&m.CurrencyCode,
		&m.Status,
		&m.Version,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	acc := toDomainAccount(m)
	return &acc, nil
}

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := toModelAccount(account)

	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.AccountNumber,
		m.CustomerID,
		m.Balance,
		m.CurrencyCode,
		m.Status,
		m.Version,
		m.CreatedAt,
		m.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return fmt.Errorf("%w: account %s already exists", apperrors.ErrDuplicate, m.AccountNumber)
		}
		return fmt.Errorf("failed to save account %s: %w", m.AccountNumber, err)
	}
	return nil
}

// FindAccountByNumber retrieves an account by its account number.
func (r *PgxAccountRepository) FindAccountByNumber(ctx context.Context, accountNumber string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_number = $1;`

	acc, err := scanAccount(r.Pool.QueryRow(ctx, query, accountNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account %s: %w", accountNumber, err)
	}
	return acc, nil
}

// FindAccountByNumberInTx reloads an account within a transaction, giving the
// caller the freshest version token for the subsequent conditional write.
func (r *PgxAccountRepository) FindAccountByNumberInTx(ctx context.Context, tx pgx.Tx, accountNumber string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_number = $1;`

	acc, err := scanAccount(tx.QueryRow(ctx, query, accountNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account %s: %w", accountNumber, err)
	}
	return acc, nil
}

// UpdateAccountBalanceInTx writes the account's balance conditioned on the
// version being unchanged since it was read. Zero rows affected on an
// existing account means another writer got there first and surfaces as
// apperrors.ErrConcurrencyConflict for the retry wrapper to handle.
func (r *PgxAccountRepository) UpdateAccountBalanceInTx(ctx context.Context, tx pgx.Tx, account domain.Account, expectedVersion int64) error {
	query := `
		UPDATE accounts
		SET balance = $2, version = version + 1, updated_at = $3
		WHERE account_number = $1 AND version = $4;
	`
	cmdTag, err := tx.Exec(ctx, query,
		account.AccountNumber,
		account.Balance,
		account.UpdatedAt,
		expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("failed to update balance for account %s: %w", account.AccountNumber, err)
	}

	if cmdTag.RowsAffected() == 0 {
		// Distinguish a missing row from a stale version
		var exists bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE account_number = $1)`, account.AccountNumber).Scan(&exists); err != nil {
			return fmt.Errorf("failed to check existence of account %s: %w", account.AccountNumber, err)
		}
		if !exists {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("%w: stale version %d for account %s", apperrors.ErrConcurrencyConflict, expectedVersion, account.AccountNumber)
	}
	return nil
}

// ListAccounts retrieves a paginated list of accounts.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT ` + accountColumns + `
		FROM accounts
		ORDER BY account_number
		LIMIT $1 OFFSET $2;
	`
	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		var m models.Account
		err := rows.Scan(
			&m.AccountNumber,
			&m.CustomerID,
			&m.Balance,
			&m.CurrencyCode,
			&m.Status,
			&m.Version,
			&m.CreatedAt,
			&m.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, toDomainAccount(m))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", rows.Err())
	}
	return accounts, nil
}

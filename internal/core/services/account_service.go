package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/fund_transfer_app/internal/apperrors"
	"github.com/SscSPs/fund_transfer_app/internal/core/domain"
	portsrepo "github.com/SscSPs/fund_transfer_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/fund_transfer_app/internal/core/ports/services"
	"github.com/SscSPs/fund_transfer_app/internal/dto"
	"github.com/SscSPs/fund_transfer_app/internal/middleware"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// accountService provides the ledger mutation operations. Balance writes are
// version-checked and wrapped in the optimistic-retry combinator; lock
// bookkeeping and the paired balance write always commit in one store
// transaction.
type accountService struct {
	accountRepo portsrepo.AccountRepositoryWithTx
	lockRepo    portsrepo.LockRepositoryFacade
}

// NewAccountService creates a new AccountService.
func NewAccountService(accountRepo portsrepo.AccountRepositoryWithTx, lockRepo portsrepo.LockRepositoryFacade) portssvc.AccountSvcFacade {
	return &accountService{
		accountRepo: accountRepo,
		lockRepo:    lockRepo,
	}
}

// Ensure accountService implements the portssvc.AccountSvcFacade interface
var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// CreateAccount persists a new account.
func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.InitialBalance.IsNegative() {
		return nil, fmt.Errorf("%w: initial balance must not be negative", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountNumber: req.AccountNumber,
		CustomerID:    req.CustomerID,
		Balance:       req.InitialBalance,
		CurrencyCode:  req.CurrencyCode,
		Status:        domain.AccountActive,
		Version:       0,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		logger.Error("Failed to save account", slog.String("account_number", req.AccountNumber), slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Account created successfully", slog.String("account_number", account.AccountNumber))
	return &account, nil
}

// GetAccount retrieves a specific account by its account number.
func (s *accountService) GetAccount(ctx context.Context, accountNumber string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByNumber(ctx, accountNumber)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			middleware.GetLoggerFromCtx(ctx).Error("Failed to find account", slog.String("account_number", accountNumber), slog.String("error", err.Error()))
		}
		return nil, err
	}
	return account, nil
}

// GetBalance retrieves the current balance of an account.
func (s *accountService) GetBalance(ctx context.Context, accountNumber string) (decimal.Decimal, error) {
	account, err := s.GetAccount(ctx, accountNumber)
	if err != nil {
		return decimal.Zero, err
	}
	return account.Balance, nil
}

// ListAccounts retrieves a paginated list of accounts.
func (s *accountService) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, limit, offset)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to list accounts", slog.String("error", err.Error()))
		return nil, err
	}
	return accounts, nil
}

// sweepExpiredLocks opportunistically deletes all globally expired lock rows.
// Lazy garbage collection: a failure here is logged and does not abort the
// calling operation, because the per-account expired-lock check inside the
// retried unit of work covers the account being operated on.
func (s *accountService) sweepExpiredLocks(ctx context.Context, now time.Time) {
	logger := middleware.GetLoggerFromCtx(ctx)
	removed, err := s.lockRepo.DeleteExpiredLocks(ctx, now)
	if err != nil {
		logger.Warn("Failed to clean up expired locks", slog.String("error", err.Error()))
		return
	}
	if removed > 0 {
		logger.Debug("Cleaned up expired locks", slog.Int64("removed", removed))
	}
}

// LockFunds reserves amount on the account until expiry. The balance is
// debited in the same retried unit of work that inserts the reservation row
// (debit-on-reserve).
func (s *accountService) LockFunds(ctx context.Context, accountNumber string, amount decimal.Decimal, holderID string, expiry time.Time) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: lock amount must be positive", apperrors.ErrValidation)
	}
	if holderID == "" {
		return fmt.Errorf("%w: lock holder is required", apperrors.ErrValidation)
	}

	s.sweepExpiredLocks(ctx, time.Now().UTC())

	err := withOptimisticRetry(ctx, func() error {
		return s.accountRepo.WithinTx(ctx, func(tx pgx.Tx) error {
			now := time.Now().UTC()

			// Reload to get the freshest version token
			account, err := s.accountRepo.FindAccountByNumberInTx(ctx, tx, accountNumber)
			if err != nil {
				return err
			}
			if !account.CanTransact() {
				return fmt.Errorf("%w: account %s is %s", apperrors.ErrValidation, accountNumber, account.Status)
			}

			existing, err := s.lockRepo.FindLockByAccountInTx(ctx, tx, accountNumber)
			if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
				return err
			}
			if existing != nil {
				if !existing.Expired(now) {
					logger.Warn("Account is already locked",
						slog.String("account_number", accountNumber),
						slog.String("locked_by", existing.LockedBy),
						slog.Time("lock_expiry", existing.LockExpiry),
					)
					return fmt.Errorf("%w: account %s", apperrors.ErrAlreadyLocked, accountNumber)
				}
				logger.Info("Removing expired lock", slog.String("account_number", accountNumber))
				if err := s.lockRepo.DeleteLockInTx(ctx, tx, accountNumber); err != nil {
					return err
				}
			}

			if account.Balance.LessThan(amount) {
				return fmt.Errorf("%w: account %s", apperrors.ErrInsufficientBalance, accountNumber)
			}

			lock := domain.AccountLock{
				AccountNumber: accountNumber,
				LockedBy:      holderID,
				LockTime:      now,
				LockExpiry:    expiry,
			}
			if err := s.insertLockGuarded(ctx, tx, lock, now); err != nil {
				return err
			}

			account.Balance = account.Balance.Sub(amount)
			account.UpdatedAt = now
			return s.accountRepo.UpdateAccountBalanceInTx(ctx, tx, *account, account.Version)
		})
	})
	if err != nil {
		return err
	}

	logger.Info("Funds locked successfully",
		slog.String("account_number", accountNumber),
		slog.String("amount", amount.String()),
		slog.String("locked_by", holderID),
		slog.Time("lock_expiry", expiry),
	)
	return nil
}

// insertLockGuarded inserts the lock row and resolves the uniqueness race
// against a concurrent winner. On ErrDuplicate it re-reads the winner's lock:
// unexpired means the account is genuinely locked, expired means delete it
// and insert once more.
func (s *accountService) insertLockGuarded(ctx context.Context, tx pgx.Tx, lock domain.AccountLock, now time.Time) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	insertErr := s.lockRepo.SaveLockInTx(ctx, tx, lock)
	if insertErr == nil {
		return nil
	}
	if !errors.Is(insertErr, apperrors.ErrDuplicate) {
		return insertErr
	}

	logger.Warn("Lock insert raced a concurrent caller", slog.String("account_number", lock.AccountNumber))

	winner, err := s.lockRepo.FindLockByAccountInTx(ctx, tx, lock.AccountNumber)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Constraint violation but no lock visible: treat as locked,
			// mirroring the conservative handling of the original flow.
			return fmt.Errorf("%w: account %s", apperrors.ErrAlreadyLocked, lock.AccountNumber)
		}
		return err
	}
	if !winner.Expired(now) {
		return fmt.Errorf("%w: account %s", apperrors.ErrAlreadyLocked, lock.AccountNumber)
	}

	// Winner already lapsed: delete it and retry the insert once
	if err := s.lockRepo.DeleteLockInTx(ctx, tx, lock.AccountNumber); err != nil {
		return err
	}
	if err := s.lockRepo.SaveLockInTx(ctx, tx, lock); err != nil {
		return err
	}
	logger.Info("Replaced expired concurrent lock", slog.String("account_number", lock.AccountNumber))
	return nil
}

// UnlockFunds removes the account's reservation, if any, and credits the
// amount back. This is the compensating rollback of LockFunds, so it runs
// even when the account is no longer ACTIVE.
func (s *accountService) UnlockFunds(ctx context.Context, accountNumber string, amount decimal.Decimal) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: unlock amount must be positive", apperrors.ErrValidation)
	}

	s.sweepExpiredLocks(ctx, time.Now().UTC())

	err := withOptimisticRetry(ctx, func() error {
		return s.accountRepo.WithinTx(ctx, func(tx pgx.Tx) error {
			now := time.Now().UTC()

			account, err := s.accountRepo.FindAccountByNumberInTx(ctx, tx, accountNumber)
			if err != nil {
				return err
			}

			if err := s.lockRepo.DeleteLockInTx(ctx, tx, accountNumber); err != nil {
				return err
			}

			account.Balance = account.Balance.Add(amount)
			account.UpdatedAt = now
			return s.accountRepo.UpdateAccountBalanceInTx(ctx, tx, *account, account.Version)
		})
	})
	if err != nil {
		return err
	}

	logger.Info("Funds unlocked successfully",
		slog.String("account_number", accountNumber),
		slog.String("amount", amount.String()),
	)
	return nil
}

// ReleaseLock deletes the reservation row only; the balance reduction made at
// lock time becomes permanent.
func (s *accountService) ReleaseLock(ctx context.Context, accountNumber string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	s.sweepExpiredLocks(ctx, time.Now().UTC())

	err := withOptimisticRetry(ctx, func() error {
		return s.accountRepo.WithinTx(ctx, func(tx pgx.Tx) error {
			return s.lockRepo.DeleteLockInTx(ctx, tx, accountNumber)
		})
	})
	if err != nil {
		return err
	}

	logger.Info("Account lock released", slog.String("account_number", accountNumber))
	return nil
}

// Credit unconditionally adds amount to the account balance.
func (s *accountService) Credit(ctx context.Context, accountNumber string, amount decimal.Decimal) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: credit amount must be positive", apperrors.ErrValidation)
	}

	err := withOptimisticRetry(ctx, func() error {
		return s.accountRepo.WithinTx(ctx, func(tx pgx.Tx) error {
			now := time.Now().UTC()

			account, err := s.accountRepo.FindAccountByNumberInTx(ctx, tx, accountNumber)
			if err != nil {
				return err
			}
			if !account.CanTransact() {
				return fmt.Errorf("%w: account %s is %s", apperrors.ErrValidation, accountNumber, account.Status)
			}

			account.Balance = account.Balance.Add(amount)
			account.UpdatedAt = now
			return s.accountRepo.UpdateAccountBalanceInTx(ctx, tx, *account, account.Version)
		})
	})
	if err != nil {
		return err
	}

	logger.Info("Credit completed successfully",
		slog.String("account_number", accountNumber),
		slog.String("amount", amount.String()),
	)
	return nil
}

// Debit unconditionally subtracts amount from the account balance, outside
// the lock mechanism.
func (s *accountService) Debit(ctx context.Context, accountNumber string, amount decimal.Decimal) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: debit amount must be positive", apperrors.ErrValidation)
	}

	err := withOptimisticRetry(ctx, func() error {
		return s.accountRepo.WithinTx(ctx, func(tx pgx.Tx) error {
			now := time.Now().UTC()

			account, err := s.accountRepo.FindAccountByNumberInTx(ctx, tx, accountNumber)
			if err != nil {
				return err
			}
			if !account.CanTransact() {
				return fmt.Errorf("%w: account %s is %s", apperrors.ErrValidation, accountNumber, account.Status)
			}
			if account.Balance.LessThan(amount) {
				return fmt.Errorf("%w: account %s", apperrors.ErrInsufficientBalance, accountNumber)
			}

			account.Balance = account.Balance.Sub(amount)
			account.UpdatedAt = now
			return s.accountRepo.UpdateAccountBalanceInTx(ctx, tx, *account, account.Version)
		})
	})
	if err != nil {
		return err
	}

	logger.Info("Debit completed successfully",
		slog.String("account_number", accountNumber),
		slog.String("amount", amount.String()),
	)
	return nil
}

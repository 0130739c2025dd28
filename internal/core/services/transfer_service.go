package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/fund_transfer_app/internal/apperrors"
	"github.com/SscSPs/fund_transfer_app/internal/core/domain"
	portsrepo "github.com/SscSPs/fund_transfer_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/fund_transfer_app/internal/core/ports/services"
	"github.com/SscSPs/fund_transfer_app/internal/dto"
	"github.com/SscSPs/fund_transfer_app/internal/middleware"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// defaultLockHold bounds how long a transfer saga may hold the source
// account's reservation before it is considered abandoned.
const defaultLockHold = 5 * time.Minute

// transferService orchestrates the transfer saga over the account service:
// lock source, credit destination, release the lock. Each step is durable on
// its own; a mid-saga failure compensates by unlocking the source.
type transferService struct {
	transactionRepo portsrepo.TransactionRepositoryFacade
	accountSvc      portssvc.AccountMutatorSvc
	notifier        portssvc.Notifier
	lockHold        time.Duration
}

// NewTransferService creates a new TransferService. A non-positive lockHold
// falls back to the default.
func NewTransferService(transactionRepo portsrepo.TransactionRepositoryFacade, accountSvc portssvc.AccountMutatorSvc, notifier portssvc.Notifier, lockHold time.Duration) portssvc.TransferSvcFacade {
	if lockHold <= 0 {
		lockHold = defaultLockHold
	}
	return &transferService{
		transactionRepo: transactionRepo,
		accountSvc:      accountSvc,
		notifier:        notifier,
		lockHold:        lockHold,
	}
}

// Ensure transferService implements the portssvc.TransferSvcFacade interface
var _ portssvc.TransferSvcFacade = (*transferService)(nil)

// StartTransfer records a new transfer and runs its saga synchronously.
// Replays with the same idempotency key return the stored record as-is.
func (s *transferService) StartTransfer(ctx context.Context, req dto.TransferRequest) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	// The replay lookup runs before validation so a replayed request is
	// answered from the stored record regardless of its payload.
	if req.IdempotencyKey != "" {
		existing, err := s.transactionRepo.FindTransactionByIdempotencyKey(ctx, req.IdempotencyKey)
		if err == nil {
			logger.Info("Idempotent replay of transfer",
				slog.String("transaction_ref", existing.TransactionRef),
				slog.String("idempotency_key", req.IdempotencyKey),
			)
			return existing, nil
		}
		if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
	}

	if req.FromAccount == req.ToAccount {
		return nil, fmt.Errorf("%w: source and destination accounts must differ", apperrors.ErrValidation)
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: transfer amount must be positive", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	txn := domain.Transaction{
		TransactionRef: uuid.NewString(),
		FromAccount:    req.FromAccount,
		ToAccount:      req.ToAccount,
		Amount:         req.Amount,
		Currency:       req.Currency,
		Status:         domain.StatusInitiated,
		IdempotencyKey: req.IdempotencyKey,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.transactionRepo.SaveTransaction(ctx, txn); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) && req.IdempotencyKey != "" {
			// Lost the insert race on the idempotency key: the winner's
			// record is the authoritative one.
			return s.transactionRepo.FindTransactionByIdempotencyKey(ctx, req.IdempotencyKey)
		}
		logger.Error("Failed to save transfer record", slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Transfer initiated",
		slog.String("transaction_ref", txn.TransactionRef),
		slog.String("from_account", txn.FromAccount),
		slog.String("to_account", txn.ToAccount),
		slog.String("amount", txn.Amount.String()),
	)

	// The saga outcome is captured in the record, not in the call's error.
	if err := s.processSaga(ctx, &txn); err != nil {
		logger.Warn("Transfer saga did not complete",
			slog.String("transaction_ref", txn.TransactionRef),
			slog.String("error", err.Error()),
		)
	}

	return &txn, nil
}

// processSaga executes the three transfer steps in order, persisting the
// status transition before any money moves. The txn argument is updated in
// place to reflect the final state.
func (s *transferService) processSaga(ctx context.Context, txn *domain.Transaction) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.updateStatus(ctx, txn, domain.StatusProcessing, ""); err != nil {
		return err
	}

	expiry := time.Now().UTC().Add(s.lockHold)
	if err := s.accountSvc.LockFunds(ctx, txn.FromAccount, txn.Amount, txn.TransactionRef, expiry); err != nil {
		// Nothing was reserved, so there is nothing to compensate.
		return s.markFailed(ctx, txn, fmt.Sprintf("lock source funds: %s", err))
	}

	if err := s.accountSvc.Credit(ctx, txn.ToAccount, txn.Amount); err != nil {
		s.compensate(ctx, txn)
		return s.markFailed(ctx, txn, fmt.Sprintf("credit destination: %s", err))
	}

	if err := s.accountSvc.ReleaseLock(ctx, txn.FromAccount); err != nil {
		s.compensate(ctx, txn)
		return s.markFailed(ctx, txn, fmt.Sprintf("release source lock: %s", err))
	}

	if err := s.updateStatus(ctx, txn, domain.StatusSuccess, ""); err != nil {
		return err
	}

	logger.Info("Transfer completed successfully", slog.String("transaction_ref", txn.TransactionRef))

	if s.notifier != nil {
		if err := s.notifier.NotifyTransferCompleted(ctx, txn.TransactionRef, txn.FromAccount, txn.ToAccount, txn.Amount); err != nil {
			logger.Warn("Transfer notification failed",
				slog.String("transaction_ref", txn.TransactionRef),
				slog.String("error", err.Error()),
			)
		}
	}

	return nil
}

// compensate rolls back the source reservation after a failed saga step.
func (s *transferService) compensate(ctx context.Context, txn *domain.Transaction) {
	logger := middleware.GetLoggerFromCtx(ctx)
	if err := s.accountSvc.UnlockFunds(ctx, txn.FromAccount, txn.Amount); err != nil {
		// The reservation will lapse via expiry; the sweep reclaims the row
		// but the debited amount needs operator attention.
		logger.Error("Compensation failed, manual intervention required",
			slog.String("transaction_ref", txn.TransactionRef),
			slog.String("from_account", txn.FromAccount),
			slog.String("error", err.Error()),
		)
		return
	}
	logger.Info("Compensated transfer by unlocking source funds", slog.String("transaction_ref", txn.TransactionRef))
}

// markFailed records the failure and returns an error describing it.
func (s *transferService) markFailed(ctx context.Context, txn *domain.Transaction, reason string) error {
	if err := s.updateStatus(ctx, txn, domain.StatusFailed, reason); err != nil {
		return err
	}
	return fmt.Errorf("transfer %s failed: %s", txn.TransactionRef, reason)
}

func (s *transferService) updateStatus(ctx context.Context, txn *domain.Transaction, status domain.TransactionStatus, failureReason string) error {
	txn.Status = status
	if failureReason != "" {
		txn.FailureReason = failureReason
	}
	txn.UpdatedAt = time.Now().UTC()
	if err := s.transactionRepo.UpdateTransaction(ctx, *txn); err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to update transfer status",
			slog.String("transaction_ref", txn.TransactionRef),
			slog.String("status", string(status)),
			slog.String("error", err.Error()),
		)
		return err
	}
	return nil
}

// GetByRef retrieves a transfer record by its reference.
func (s *transferService) GetByRef(ctx context.Context, transactionRef string) (*domain.Transaction, error) {
	txn, err := s.transactionRepo.FindTransactionByRef(ctx, transactionRef)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			middleware.GetLoggerFromCtx(ctx).Error("Failed to find transfer record",
				slog.String("transaction_ref", transactionRef),
				slog.String("error", err.Error()),
			)
		}
		return nil, err
	}
	return txn, nil
}

// reversedNotePrefix marks a completed reversal in the failure reason field.
// A "reversal failed" note does not carry it, so a failed reversal can be
// retried while a completed one cannot run twice.
const reversedNotePrefix = "reversed at "

// Reverse moves the funds of a completed transfer back to the source account.
// The record keeps its SUCCESS status; the reversal is held in the failure
// reason note, which also guards against reversing twice.
func (s *transferService) Reverse(ctx context.Context, transactionRef string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	txn, err := s.transactionRepo.FindTransactionByRef(ctx, transactionRef)
	if err != nil {
		return nil, err
	}
	if txn.Status != domain.StatusSuccess {
		return nil, fmt.Errorf("%w: transfer %s is %s, only SUCCESS transfers can be reversed", apperrors.ErrInvalidState, transactionRef, txn.Status)
	}
	if strings.HasPrefix(txn.FailureReason, reversedNotePrefix) {
		return nil, fmt.Errorf("%w: transfer %s was already reversed", apperrors.ErrInvalidState, transactionRef)
	}

	if err := s.accountSvc.Debit(ctx, txn.ToAccount, txn.Amount); err != nil {
		s.recordReversalFailure(ctx, txn, fmt.Sprintf("reversal failed: debit destination: %s", err))
		return nil, err
	}
	if err := s.accountSvc.Credit(ctx, txn.FromAccount, txn.Amount); err != nil {
		// Funds left the destination but did not reach the source.
		logger.Error("Reversal credit failed after debit, manual intervention required",
			slog.String("transaction_ref", transactionRef),
			slog.String("from_account", txn.FromAccount),
			slog.String("error", err.Error()),
		)
		s.recordReversalFailure(ctx, txn, fmt.Sprintf("reversal failed: credit source: %s", err))
		return nil, err
	}

	txn.FailureReason = reversedNotePrefix + time.Now().UTC().Format(time.RFC3339)
	txn.UpdatedAt = time.Now().UTC()
	if err := s.transactionRepo.UpdateTransaction(ctx, *txn); err != nil {
		return nil, err
	}

	logger.Info("Transfer reversed", slog.String("transaction_ref", transactionRef))
	return txn, nil
}

// recordReversalFailure persists the failure note on the transfer record. The
// reversal error itself is what the caller sees; a write failure here only
// loses the note, so it is logged and swallowed.
func (s *transferService) recordReversalFailure(ctx context.Context, txn *domain.Transaction, reason string) {
	txn.FailureReason = reason
	txn.UpdatedAt = time.Now().UTC()
	if err := s.transactionRepo.UpdateTransaction(ctx, *txn); err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to record reversal failure",
			slog.String("transaction_ref", txn.TransactionRef),
			slog.String("error", err.Error()),
		)
	}
}

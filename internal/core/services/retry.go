package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/SscSPs/fund_transfer_app/internal/apperrors"
	"github.com/SscSPs/fund_transfer_app/internal/middleware"
)

const (
	// maxOptimisticAttempts bounds version-conflict retries; after the last
	// attempt apperrors.ErrConcurrencyConflict surfaces to the caller.
	maxOptimisticAttempts = 3

	// retryBackoffStep is multiplied by the attempt number before each retry:
	// 50ms after the first failed attempt, 100ms after the second.
	retryBackoffStep = 50 * time.Millisecond
)

// withOptimisticRetry runs fn until it succeeds, fails with a
// non-concurrency error, or exhausts the attempt budget. Every account
// mutation runs through this wrapper so that stale-version writes are
// re-applied instead of surfacing on first conflict.
func withOptimisticRetry(ctx context.Context, fn func() error) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil || !errors.Is(err, apperrors.ErrConcurrencyConflict) {
			if err == nil && attempt > 1 {
				logger.Debug("Operation succeeded after retries", slog.Int("attempts", attempt))
			}
			return err
		}

		if attempt >= maxOptimisticAttempts {
			logger.Warn("Max optimistic retry attempts reached", slog.Int("max_attempts", maxOptimisticAttempts))
			return err
		}

		backoff := time.Duration(attempt) * retryBackoffStep
		logger.Debug("Optimistic conflict detected, retrying",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", maxOptimisticAttempts),
			slog.Duration("backoff", backoff),
		)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
}

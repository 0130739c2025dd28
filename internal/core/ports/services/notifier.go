package services

import (
	"context"

	"github.com/shopspring/decimal"
)

// Notifier is the external notification collaborator, invoked fire-and-forget
// after a successful transfer. Its outcome never affects the saga.
type Notifier interface {
	NotifyTransferCompleted(ctx context.Context, transactionRef, fromAccount, toAccount string, amount decimal.Decimal) error
}

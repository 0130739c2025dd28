package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStatus tracks the lifecycle of a transfer.
//
// Transitions are monotonic: INITIATED -> PROCESSING -> SUCCESS or FAILED.
// PENDING is a reserved default that the transfer flow never produces.
type TransactionStatus string

const (
	StatusInitiated  TransactionStatus = "INITIATED"
	StatusProcessing TransactionStatus = "PROCESSING"
	StatusSuccess    TransactionStatus = "SUCCESS"
	StatusFailed     TransactionStatus = "FAILED"
	StatusPending    TransactionStatus = "PENDING"
)

// Transaction is the durable record of one transfer attempt between two
// ledger accounts. It is created and mutated exclusively by the transfer
// service and never deleted.
type Transaction struct {
	TransactionRef string            `json:"transactionRef"` // Unique, generated
	FromAccount    string            `json:"fromAccount"`
	ToAccount      string            `json:"toAccount"`
	Amount         decimal.Decimal   `json:"amount"`
	Currency       string            `json:"currency"`
	Status         TransactionStatus `json:"status"`
	IdempotencyKey string            `json:"idempotencyKey,omitempty"` // Unique when non-empty
	FailureReason  string            `json:"failureReason,omitempty"`
	CreatedAt      time.Time         `json:"createdAt"`
	UpdatedAt      time.Time         `json:"updatedAt"`
}

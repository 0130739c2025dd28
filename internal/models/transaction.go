package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStatus mirrors domain.TransactionStatus for DB storage.
type TransactionStatus string

// Transaction is the persistence representation of a transfer record.
// transaction_ref and idempotency_key both carry unique constraints
// (idempotency_key only when non-NULL).
type Transaction struct {
	TransactionRef string            `db:"transaction_ref"`
	FromAccount    string            `db:"from_account"`
	ToAccount      string            `db:"to_account"`
	Amount         decimal.Decimal   `db:"amount"`
	Currency       string            `db:"currency"`
	Status         TransactionStatus `db:"status"`
	IdempotencyKey string            `db:"idempotency_key"` // Stored as NULL when empty
	FailureReason  string            `db:"failure_reason"`  // Stored as NULL when empty
	CreatedAt      time.Time         `db:"created_at"`
	UpdatedAt      time.Time         `db:"updated_at"`
}

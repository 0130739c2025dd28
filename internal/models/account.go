package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountStatus mirrors domain.AccountStatus for DB storage.
type AccountStatus string

const (
	AccountActive    AccountStatus = "ACTIVE"
	AccountSuspended AccountStatus = "SUSPENDED"
	AccountClosed    AccountStatus = "CLOSED"
)

// Account is the persistence representation of a ledger account.
type Account struct {
	AccountNumber string          `db:"account_number"`
	CustomerID    string          `db:"customer_id"`
	Balance       decimal.Decimal `db:"balance"`
	CurrencyCode  string          `db:"currency_code"`
	Status        AccountStatus   `db:"status"`
	Version       int64           `db:"version"` // Optimistic concurrency token
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`
}

package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountStatus describes whether an account can participate in fund movements.
type AccountStatus string

const (
	AccountActive    AccountStatus = "ACTIVE"
	AccountSuspended AccountStatus = "SUSPENDED"
	AccountClosed    AccountStatus = "CLOSED"
)

// Account represents a ledger account within the core domain.
// This is the primary representation used by services.
//
// Balance is never written directly: every mutation goes through a
// version-checked update so that concurrent writers are detected rather than
// silently overwritten.
type Account struct {
	AccountNumber string          `json:"accountNumber"` // Unique business key
	CustomerID    string          `json:"customerID"`    // Owning customer reference
	Balance       decimal.Decimal `json:"balance"`       // Currency-scaled, NUMERIC(15,2)
	CurrencyCode  string          `json:"currencyCode"`  // ISO 4217
	Status        AccountStatus   `json:"status"`        // ACTIVE, SUSPENDED or CLOSED
	Version       int64           `json:"version"`       // Optimistic concurrency token
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// CanTransact reports whether balance mutations are allowed for the account.
func (a Account) CanTransact() bool {
	return a.Status == AccountActive
}

package dto

import (
	"time"

	"github.com/SscSPs/fund_transfer_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	AccountNumber  string          `json:"accountNumber" binding:"required"`
	CustomerID     string          `json:"customerID" binding:"required"`
	InitialBalance decimal.Decimal `json:"initialBalance"`
	CurrencyCode   string          `json:"currencyCode" binding:"required,currency"`
}

// AccountResponse defines the data returned for an account.
// Mirrors domain.Account.
type AccountResponse struct {
	AccountNumber string          `json:"accountNumber"`
	CustomerID    string          `json:"customerID"`
	Balance       decimal.Decimal `json:"balance"`
	CurrencyCode  string          `json:"currencyCode"`
	Status        string          `json:"status"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// LockFundsRequest defines the payload for reserving funds on an account.
type LockFundsRequest struct {
	Amount   decimal.Decimal `json:"amount" binding:"required"`
	LockedBy string          `json:"lockedBy" binding:"required"`
	Expiry   time.Time       `json:"expiry" binding:"required"`
}

// UnlockFundsRequest defines the payload for rolling back a reservation.
type UnlockFundsRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// AmountRequest defines the payload for unconditional credit/debit operations.
type AmountRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// AccountBalanceResponse defines the data returned for a balance query.
type AccountBalanceResponse struct {
	AccountNumber string          `json:"accountNumber"`
	Balance       decimal.Decimal `json:"balance"`
	CurrencyCode  string          `json:"currencyCode"`
}

// ListAccountsParams defines query parameters for listing accounts.
type ListAccountsParams struct {
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}

// ListAccountsResponse wraps the list of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	return AccountResponse{
		AccountNumber: acc.AccountNumber,
		CustomerID:    acc.CustomerID,
		Balance:       acc.Balance,
		CurrencyCode:  acc.CurrencyCode,
		Status:        string(acc.Status),
		CreatedAt:     acc.CreatedAt,
		UpdatedAt:     acc.UpdatedAt,
	}
}

// ToListAccountResponse converts a slice of domain.Account to AccountResponse DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i, acc := range accounts {
		res[i] = ToAccountResponse(&acc)
	}
	return res
}

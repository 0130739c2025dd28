package dto

import (
	"time"

	"github.com/SscSPs/fund_transfer_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TransferRequest defines the data needed to start a transfer.
type TransferRequest struct {
	FromAccount    string          `json:"fromAccount" binding:"required"`
	ToAccount      string          `json:"toAccount" binding:"required"`
	Amount         decimal.Decimal `json:"amount" binding:"required"`
	Currency       string          `json:"currency" binding:"required,currency"`
	IdempotencyKey string          `json:"idempotencyKey"` // Optional
}

// TransactionResponse defines the data returned for a transfer record.
type TransactionResponse struct {
	TransactionRef string          `json:"transactionRef"`
	FromAccount    string          `json:"fromAccount"`
	ToAccount      string          `json:"toAccount"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
	Status         string          `json:"status"`
	IdempotencyKey string          `json:"idempotencyKey,omitempty"`
	FailureReason  string          `json:"failureReason,omitempty"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// ToTransactionResponse converts a domain.Transaction to TransactionResponse DTO
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionRef: txn.TransactionRef,
		FromAccount:    txn.FromAccount,
		ToAccount:      txn.ToAccount,
		Amount:         txn.Amount,
		Currency:       txn.Currency,
		Status:         string(txn.Status),
		IdempotencyKey: txn.IdempotencyKey,
		FailureReason:  txn.FailureReason,
		CreatedAt:      txn.CreatedAt,
		UpdatedAt:      txn.UpdatedAt,
	}
}

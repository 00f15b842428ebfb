package dto

import (
	"github.com/dachury1/wallet-project/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateTransactionRequest is the body of POST /transactions. Amounts arrive
// as JSON numbers or strings and are parsed into exact decimals; binding
// rejects structurally invalid requests before the service runs.
type CreateTransactionRequest struct {
	SourceWalletID      *string         `json:"source_wallet_id" binding:"omitempty,uuid"`
	DestinationWalletID string          `json:"destination_wallet_id" binding:"required,uuid"`
	Amount              decimal.Decimal `json:"amount" binding:"required"`
	CorrelationID       string          `json:"correlation_id" binding:"required,uuid"`
}

// TransactionResponse mirrors the persisted transaction record.
type TransactionResponse struct {
	ID                  string  `json:"id"`
	SourceWalletID      *string `json:"source_wallet_id,omitempty"`
	DestinationWalletID string  `json:"destination_wallet_id"`
	Amount              string  `json:"amount"`
	Status              string  `json:"status"`
	TransactionType     string  `json:"transaction_type"`
	CreatedAt           string  `json:"created_at"`
	CorrelationID       string  `json:"correlation_id"`
}

// SuccessResponse is the success envelope: {"status":"success","data":...}.
type SuccessResponse struct {
	Status string `json:"status"`
	Data   any    `json:"data"`
}

// ErrorResponse is the error envelope: {"status":"error","message":...}.
type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// ToTransactionResponse converts a domain transaction into its API shape.
func ToTransactionResponse(t *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:                  t.TransactionID,
		SourceWalletID:      t.SourceWalletID,
		DestinationWalletID: t.DestinationWalletID,
		Amount:              t.Amount.String(),
		Status:              string(t.Status),
		TransactionType:     string(t.TransactionType),
		CreatedAt:           t.CreatedAt.UTC().Format("2006-01-02T15:04:05.999999Z07:00"),
		CorrelationID:       t.CorrelationID,
	}
}

// ToTransactionResponseSlice converts a history listing.
func ToTransactionResponseSlice(ts []domain.Transaction) []TransactionResponse {
	out := make([]TransactionResponse, len(ts))
	for i := range ts {
		out[i] = ToTransactionResponse(&ts[i])
	}
	return out
}

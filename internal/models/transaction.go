package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStatus mirrors the persisted status column.
type TransactionStatus string

const (
	Pending   TransactionStatus = "PENDING"
	Completed TransactionStatus = "COMPLETED"
	Failed    TransactionStatus = "FAILED"
	Reversed  TransactionStatus = "REVERSED"
)

// TransactionType mirrors the persisted transaction_type column.
type TransactionType string

const (
	Transfer   TransactionType = "TRANSFER"
	Deposit    TransactionType = "DEPOSIT"
	Withdrawal TransactionType = "WITHDRAWAL"
)

// Transaction is the persistence row for a transaction. It mirrors the
// transactions table exactly; correlation_id carries a unique constraint.
type Transaction struct {
	ID                  string            `json:"id"`                         // Primary Key (UUID)
	SourceWalletID      *string           `json:"sourceWalletID"`             // Nullable: absent for deposits
	DestinationWalletID string            `json:"destinationWalletID"`        // Not Null
	Amount              decimal.Decimal   `json:"amount"`                     // numeric(20,6), > 0
	Status              TransactionStatus `json:"status"`                     // Not Null
	TransactionType     TransactionType   `json:"transactionType"`            // Not Null
	CreatedAt           time.Time         `json:"createdAt"`                  // Not Null
	CorrelationID       string            `json:"correlationID"`              // Unique, Not Null
}

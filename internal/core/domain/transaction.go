package domain

import (
	"fmt"
	"time"

	"github.com/dachury1/wallet-project/internal/apperrors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionStatus indicates where a transaction is in its lifecycle.
type TransactionStatus string

const (
	StatusPending   TransactionStatus = "PENDING"
	StatusCompleted TransactionStatus = "COMPLETED"
	StatusFailed    TransactionStatus = "FAILED"
	// StatusReversed is reserved for manual/administrative correction; the
	// orchestrator never produces it.
	StatusReversed TransactionStatus = "REVERSED"
)

// TransactionType is derived from the presence of the source wallet, never
// chosen by the caller.
type TransactionType string

const (
	TypeTransfer   TransactionType = "TRANSFER"
	TypeDeposit    TransactionType = "DEPOSIT"
	TypeWithdrawal TransactionType = "WITHDRAWAL"
)

// Transaction is the authoritative record of a funds-movement attempt. It is
// persisted once as PENDING before the ledger is contacted and a second time
// with its terminal status; it is never deleted.
type Transaction struct {
	TransactionID       string            `json:"transactionID"`
	SourceWalletID      *string           `json:"sourceWalletID,omitempty"` // nil means pure deposit
	DestinationWalletID string            `json:"destinationWalletID"`
	Amount              decimal.Decimal   `json:"amount"`
	TransactionType     TransactionType   `json:"transactionType"`
	Status              TransactionStatus `json:"status"`
	CreatedAt           time.Time         `json:"createdAt"`
	CorrelationID       string            `json:"correlationID"`
}

// NewTransaction constructs a valid PENDING transaction or fails with a
// validation error. Amount and wallet references are immutable once set.
func NewTransaction(sourceWalletID *string, destinationWalletID string, amount decimal.Decimal, correlationID string) (*Transaction, error) {
	if err := validateTransaction(sourceWalletID, destinationWalletID, amount); err != nil {
		return nil, err
	}

	txnType := TypeDeposit
	if sourceWalletID != nil {
		txnType = TypeTransfer
	}

	return &Transaction{
		TransactionID:       uuid.NewString(),
		SourceWalletID:      sourceWalletID,
		DestinationWalletID: destinationWalletID,
		Amount:              amount,
		TransactionType:     txnType,
		Status:              StatusPending,
		CreatedAt:           time.Now().UTC(),
		CorrelationID:       correlationID,
	}, nil
}

// ReconstituteTransaction rebuilds a transaction from persisted fields and
// re-validates the construction invariants, so a corrupted row fails loudly
// instead of flowing back into the saga.
func ReconstituteTransaction(id string, sourceWalletID *string, destinationWalletID string, amount decimal.Decimal, txnType TransactionType, status TransactionStatus, createdAt time.Time, correlationID string) (*Transaction, error) {
	if err := validateTransaction(sourceWalletID, destinationWalletID, amount); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, fmt.Errorf("%w: transaction ID is empty", apperrors.ErrValidation)
	}
	if correlationID == "" {
		return nil, fmt.Errorf("%w: correlation ID is empty", apperrors.ErrValidation)
	}

	switch status {
	case StatusPending, StatusCompleted, StatusFailed, StatusReversed:
	default:
		return nil, fmt.Errorf("%w: unknown status %q", apperrors.ErrValidation, status)
	}

	switch txnType {
	case TypeDeposit:
		if sourceWalletID != nil {
			return nil, fmt.Errorf("%w: deposit must not carry a source wallet", apperrors.ErrValidation)
		}
	case TypeWithdrawal, TypeTransfer:
		if sourceWalletID == nil {
			return nil, fmt.Errorf("%w: %s requires a source wallet", apperrors.ErrValidation, txnType)
		}
	default:
		return nil, fmt.Errorf("%w: unknown transaction type %q", apperrors.ErrValidation, txnType)
	}

	return &Transaction{
		TransactionID:       id,
		SourceWalletID:      sourceWalletID,
		DestinationWalletID: destinationWalletID,
		Amount:              amount,
		TransactionType:     txnType,
		Status:              status,
		CreatedAt:           createdAt,
		CorrelationID:       correlationID,
	}, nil
}

func validateTransaction(sourceWalletID *string, destinationWalletID string, amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: got %s", apperrors.ErrInvalidAmount, amount.String())
	}
	if destinationWalletID == "" {
		return fmt.Errorf("%w: destination wallet ID is required", apperrors.ErrValidation)
	}
	if sourceWalletID != nil && *sourceWalletID == destinationWalletID {
		return apperrors.ErrSameWallet
	}
	return nil
}

// IsTerminal reports whether the transaction has left the PENDING state.
func (t *Transaction) IsTerminal() bool {
	return t.Status != StatusPending
}

// CanTransitionTo enforces the state machine: PENDING is the only state with
// outgoing transitions, and only to COMPLETED or FAILED.
func (t *Transaction) CanTransitionTo(next TransactionStatus) bool {
	if t.Status != StatusPending {
		return false
	}
	return next == StatusCompleted || next == StatusFailed
}

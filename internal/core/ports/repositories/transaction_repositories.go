package repositories

import (
	"context"
	"time"

	"github.com/dachury1/wallet-project/internal/core/domain"
)

// TransactionReader defines read operations for transaction data.
type TransactionReader interface {
	// FindTransactionByID retrieves a specific transaction by its unique identifier.
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// FindTransactionByCorrelationID retrieves the transaction recorded for a
	// client-supplied idempotency key, or apperrors.ErrNotFound when no prior
	// attempt exists.
	FindTransactionByCorrelationID(ctx context.Context, correlationID string) (*domain.Transaction, error)

	// FindTransactionsByWalletID retrieves transactions where the wallet is
	// source or destination, newest first.
	FindTransactionsByWalletID(ctx context.Context, walletID string) ([]domain.Transaction, error)

	// FindPendingOlderThan retrieves up to limit PENDING transactions created
	// before cutoff, oldest first. The recovery sweep feeds on this.
	FindPendingOlderThan(ctx context.Context, cutoff time.Time, limit int) ([]domain.Transaction, error)
}

// TransactionWriter defines write operations for transaction data.
type TransactionWriter interface {
	// SaveTransaction inserts a new transaction row. It returns
	// apperrors.ErrDuplicate when the correlation_id uniqueness constraint is
	// violated, which is how the check-then-act idempotency race is closed.
	SaveTransaction(ctx context.Context, txn domain.Transaction) error

	// UpdateTransactionStatus moves an existing transaction to the given
	// status. Financial fields are immutable and never updated.
	UpdateTransactionStatus(ctx context.Context, transactionID string, status domain.TransactionStatus) error
}

// TransactionRepositoryFacade combines all transaction repository interfaces.
type TransactionRepositoryFacade interface {
	TransactionReader
	TransactionWriter
}

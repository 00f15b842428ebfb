package services

import (
	"context"

	"github.com/dachury1/wallet-project/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TransactionSvcFacade is the orchestrator surface consumed by the HTTP
// handlers and the recovery job.
type TransactionSvcFacade interface {
	// ProcessTransaction runs the saga for one funds movement. Repeating a
	// correlationID returns the previously recorded transaction without side
	// effects.
	ProcessTransaction(ctx context.Context, sourceWalletID *string, destinationWalletID string, amount decimal.Decimal, correlationID string) (*domain.Transaction, error)

	// GetTransactionByID returns a single transaction or apperrors.ErrNotFound.
	GetTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	// ListTransactionsByWallet returns the wallet's history, newest first.
	ListTransactionsByWallet(ctx context.Context, walletID string) ([]domain.Transaction, error)
}

// RecoverySvcFacade drives stuck PENDING transactions to a terminal state.
type RecoverySvcFacade interface {
	// Sweep re-drives one bounded batch of stale PENDING transactions and
	// returns how many reached a terminal state.
	Sweep(ctx context.Context) (int, error)
}

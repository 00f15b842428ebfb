package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dachury1/wallet-project/internal/apperrors"
	"github.com/dachury1/wallet-project/internal/core/domain"
	portsrepo "github.com/dachury1/wallet-project/internal/core/ports/repositories"
)

// TransactionRepository is an in-memory implementation used by tests and
// local development. It enforces the same correlation_id uniqueness the
// pgsql schema does, so the duplicate-insert fallback path behaves alike.
type TransactionRepository struct {
	mu            sync.RWMutex
	byID          map[string]domain.Transaction
	byCorrelation map[string]string // correlation_id -> transaction_id
}

// NewTransactionRepository creates an empty in-memory repository.
func NewTransactionRepository() *TransactionRepository {
	return &TransactionRepository{
		byID:          make(map[string]domain.Transaction),
		byCorrelation: make(map[string]string),
	}
}

var _ portsrepo.TransactionRepositoryFacade = (*TransactionRepository)(nil)

func (r *TransactionRepository) SaveTransaction(_ context.Context, txn domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byCorrelation[txn.CorrelationID]; exists {
		return fmt.Errorf("%w: correlation_id %s", apperrors.ErrDuplicate, txn.CorrelationID)
	}
	if _, exists := r.byID[txn.TransactionID]; exists {
		return fmt.Errorf("%w: id %s", apperrors.ErrDuplicate, txn.TransactionID)
	}

	r.byID[txn.TransactionID] = txn
	r.byCorrelation[txn.CorrelationID] = txn.TransactionID
	return nil
}

func (r *TransactionRepository) UpdateTransactionStatus(_ context.Context, transactionID string, status domain.TransactionStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	txn, ok := r.byID[transactionID]
	if !ok {
		return apperrors.ErrNotFound
	}
	txn.Status = status
	r.byID[transactionID] = txn
	return nil
}

func (r *TransactionRepository) FindTransactionByID(_ context.Context, transactionID string) (*domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	txn, ok := r.byID[transactionID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	out := txn
	return &out, nil
}

func (r *TransactionRepository) FindTransactionByCorrelationID(_ context.Context, correlationID string) (*domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byCorrelation[correlationID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	txn := r.byID[id]
	out := txn
	return &out, nil
}

func (r *TransactionRepository) FindTransactionsByWalletID(_ context.Context, walletID string) ([]domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.Transaction
	for _, txn := range r.byID {
		if txn.DestinationWalletID == walletID ||
			(txn.SourceWalletID != nil && *txn.SourceWalletID == walletID) {
			out = append(out, txn)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *TransactionRepository) FindPendingOlderThan(_ context.Context, cutoff time.Time, limit int) ([]domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if limit <= 0 {
		limit = 50
	}

	var out []domain.Transaction
	for _, txn := range r.byID {
		if txn.Status == domain.StatusPending && txn.CreatedAt.Before(cutoff) {
			out = append(out, txn)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

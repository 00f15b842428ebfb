package mapping

import (
	"github.com/dachury1/wallet-project/internal/core/domain"
	"github.com/dachury1/wallet-project/internal/models"
)

// ToModelTransaction converts a domain Transaction to a persistence row.
func ToModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		ID:                  d.TransactionID,
		SourceWalletID:      d.SourceWalletID,
		DestinationWalletID: d.DestinationWalletID,
		Amount:              d.Amount,
		Status:              models.TransactionStatus(d.Status),
		TransactionType:     models.TransactionType(d.TransactionType),
		CreatedAt:           d.CreatedAt,
		CorrelationID:       d.CorrelationID,
	}
}

// ToDomainTransaction rebuilds a domain Transaction from a persistence row,
// re-running the entity invariants so corrupted storage fails instead of
// leaking into the saga.
func ToDomainTransaction(m models.Transaction) (*domain.Transaction, error) {
	return domain.ReconstituteTransaction(
		m.ID,
		m.SourceWalletID,
		m.DestinationWalletID,
		m.Amount,
		domain.TransactionType(m.TransactionType),
		domain.TransactionStatus(m.Status),
		m.CreatedAt,
		m.CorrelationID,
	)
}

// ToDomainTransactionSlice converts rows to domain transactions, failing on
// the first invalid row.
func ToDomainTransactionSlice(ms []models.Transaction) ([]domain.Transaction, error) {
	ds := make([]domain.Transaction, 0, len(ms))
	for _, m := range ms {
		d, err := ToDomainTransaction(m)
		if err != nil {
			return nil, err
		}
		ds = append(ds, *d)
	}
	return ds, nil
}

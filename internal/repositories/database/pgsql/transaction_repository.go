package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dachury1/wallet-project/internal/apperrors"
	"github.com/dachury1/wallet-project/internal/core/domain"
	portsrepo "github.com/dachury1/wallet-project/internal/core/ports/repositories"
	"github.com/dachury1/wallet-project/internal/models"
	"github.com/dachury1/wallet-project/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolationCode = "23505"

type PgxTransactionRepository struct {
	db *pgxpool.Pool
}

// NewTransactionRepository creates a pgx-backed transaction repository.
func NewTransactionRepository(db *pgxpool.Pool) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{db: db}
}

// Ensure PgxTransactionRepository implements portsrepo.TransactionRepositoryFacade
var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

const transactionColumns = `id, source_wallet_id, destination_wallet_id, amount, status, transaction_type, created_at, correlation_id`

func scanTransaction(row pgx.Row) (*models.Transaction, error) {
	var m models.Transaction
	err := row.Scan(
		&m.ID,
		&m.SourceWalletID,
		&m.DestinationWalletID,
		&m.Amount,
		&m.Status,
		&m.TransactionType,
		&m.CreatedAt,
		&m.CorrelationID,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// SaveTransaction inserts the write-ahead PENDING row. A unique violation on
// correlation_id maps to apperrors.ErrDuplicate so the service can fall back
// to re-reading the winning transaction.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	m := mapping.ToModelTransaction(txn)
	query := `
        INSERT INTO transactions (id, source_wallet_id, destination_wallet_id, amount, status, transaction_type, created_at, correlation_id)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
    `
	_, err := r.db.Exec(ctx, query,
		m.ID,
		m.SourceWalletID,
		m.DestinationWalletID,
		m.Amount,
		m.Status,
		m.TransactionType,
		m.CreatedAt,
		m.CorrelationID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return fmt.Errorf("%w: correlation_id %s", apperrors.ErrDuplicate, m.CorrelationID)
		}
		return fmt.Errorf("failed to save transaction %s: %w", m.ID, err)
	}
	return nil
}

// UpdateTransactionStatus finalises a transaction. Only the status column is
// mutable; financial details never change after the insert.
func (r *PgxTransactionRepository) UpdateTransactionStatus(ctx context.Context, transactionID string, status domain.TransactionStatus) error {
	query := `UPDATE transactions SET status = $1 WHERE id = $2;`
	tag, err := r.db.Exec(ctx, query, models.TransactionStatus(status), transactionID)
	if err != nil {
		return fmt.Errorf("failed to update status for transaction %s: %w", transactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1;`
	m, err := scanTransaction(r.db.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction by ID %s: %w", transactionID, err)
	}
	return mapping.ToDomainTransaction(*m)
}

func (r *PgxTransactionRepository) FindTransactionByCorrelationID(ctx context.Context, correlationID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE correlation_id = $1;`
	m, err := scanTransaction(r.db.QueryRow(ctx, query, correlationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction by correlation ID %s: %w", correlationID, err)
	}
	return mapping.ToDomainTransaction(*m)
}

// FindTransactionsByWalletID returns the wallet's history, newest first,
// covering both sides of a transfer.
func (r *PgxTransactionRepository) FindTransactionsByWalletID(ctx context.Context, walletID string) ([]domain.Transaction, error) {
	query := `
        SELECT ` + transactionColumns + `
        FROM transactions
        WHERE source_wallet_id = $1 OR destination_wallet_id = $1
        ORDER BY created_at DESC;
    `
	return r.queryTransactions(ctx, query, walletID)
}

// FindPendingOlderThan feeds the recovery sweep: stale PENDING rows, oldest
// first, in a bounded batch.
func (r *PgxTransactionRepository) FindPendingOlderThan(ctx context.Context, cutoff time.Time, limit int) ([]domain.Transaction, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
        SELECT ` + transactionColumns + `
        FROM transactions
        WHERE status = 'PENDING' AND created_at < $1
        ORDER BY created_at ASC
        LIMIT $2;
    `
	return r.queryTransactions(ctx, query, cutoff, limit)
}

func (r *PgxTransactionRepository) queryTransactions(ctx context.Context, query string, args ...any) ([]domain.Transaction, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var ms []models.Transaction
	for rows.Next() {
		m, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		ms = append(ms, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading transaction rows: %w", err)
	}

	return mapping.ToDomainTransactionSlice(ms)
}

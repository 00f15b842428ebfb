package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dachury1/wallet-project/internal/apperrors"
	"github.com/dachury1/wallet-project/internal/core/domain"
	portsgw "github.com/dachury1/wallet-project/internal/core/ports/gateways"
	portsrepo "github.com/dachury1/wallet-project/internal/core/ports/repositories"
	portssvc "github.com/dachury1/wallet-project/internal/core/ports/services"
	"github.com/dachury1/wallet-project/internal/middleware"
	"github.com/shopspring/decimal"
)

// transactionService orchestrates the funds-movement saga: idempotency check,
// entity construction, durable PENDING write-ahead, movement execution via the
// wallet gateway, durable terminal write.
type transactionService struct {
	txnRepo       portsrepo.TransactionRepositoryFacade
	walletGateway portsgw.WalletGateway
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(txnRepo portsrepo.TransactionRepositoryFacade, walletGateway portsgw.WalletGateway) portssvc.TransactionSvcFacade {
	return &transactionService{
		txnRepo:       txnRepo,
		walletGateway: walletGateway,
	}
}

var _ portssvc.TransactionSvcFacade = (*transactionService)(nil)

// ProcessTransaction implements portssvc.TransactionSvcFacade.
//
// Once the PENDING write succeeds the saga runs to a terminal state or is
// left for the recovery sweep; no step is retried synchronously here.
func (s *transactionService) ProcessTransaction(ctx context.Context, sourceWalletID *string, destinationWalletID string, amount decimal.Decimal, correlationID string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx).With(slog.String("correlation_id", correlationID))

	// 1. Idempotency check. A prior attempt for this correlation ID, whatever
	// its outcome, is returned unchanged: no re-validation, no ledger call.
	existing, err := s.txnRepo.FindTransactionByCorrelationID(ctx, correlationID)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		logger.Error("Idempotency lookup failed", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: idempotency lookup: %v", apperrors.ErrRepository, err)
	}
	if existing != nil {
		logger.Info("Idempotency hit, returning recorded transaction",
			slog.String("transaction_id", existing.TransactionID),
			slog.String("status", string(existing.Status)))
		return existing, nil
	}

	// 2. Construct the entity; invariant violations surface here, before any
	// persistence or RPC.
	txn, err := domain.NewTransaction(sourceWalletID, destinationWalletID, amount, correlationID)
	if err != nil {
		return nil, err
	}

	// 3. Write-ahead persist as PENDING. The unique constraint on
	// correlation_id closes the check-then-act race: if a concurrent request
	// won the insert, re-read and return its transaction instead.
	if err := s.txnRepo.SaveTransaction(ctx, *txn); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return s.resolveDuplicate(ctx, correlationID)
		}
		logger.Error("Failed to persist PENDING transaction", slog.String("error", err.Error()))
		return nil, fmt.Errorf("%w: save pending: %v", apperrors.ErrRepository, err)
	}

	logger = logger.With(slog.String("transaction_id", txn.TransactionID))
	logger.Info("Transaction persisted as PENDING",
		slog.String("type", string(txn.TransactionType)),
		slog.String("amount", txn.Amount.String()))

	// 4. Execute the distributed step.
	ok, gwErr := s.walletGateway.ProcessMovement(ctx, txn)

	// 5. Commit path.
	if gwErr == nil && ok {
		txn.Status = domain.StatusCompleted
		if err := s.txnRepo.UpdateTransactionStatus(ctx, txn.TransactionID, domain.StatusCompleted); err != nil {
			// The ledger has applied the movements; only our terminal write is
			// missing. The row stays PENDING and the recovery sweep will
			// re-observe it, so report the storage failure rather than hide it.
			logger.Error("Failed to persist COMPLETED status", slog.String("error", err.Error()))
			return nil, fmt.Errorf("%w: commit status: %v", apperrors.ErrRepository, err)
		}
		logger.Info("Transaction completed")
		return txn, nil
	}

	// 6. Failure path: rejection or transport error. Best-effort FAILED write;
	// if it fails the row stays PENDING for the sweeper, which is the backstop.
	txn.Status = domain.StatusFailed
	if err := s.txnRepo.UpdateTransactionStatus(ctx, txn.TransactionID, domain.StatusFailed); err != nil {
		logger.Error("Failed to persist FAILED status, leaving row for recovery sweep",
			slog.String("error", err.Error()))
	}

	if gwErr != nil {
		logger.Warn("Wallet gateway error", slog.String("error", gwErr.Error()))
		return nil, fmt.Errorf("%w: %v", apperrors.ErrGateway, gwErr)
	}
	logger.Warn("Wallet ledger rejected the transaction")
	return nil, fmt.Errorf("%w: wallet rejected the transaction", apperrors.ErrGateway)
}

// resolveDuplicate handles losing the correlation_id insert race: the winner's
// row must exist, so return it as the idempotent result.
func (s *transactionService) resolveDuplicate(ctx context.Context, correlationID string) (*domain.Transaction, error) {
	winner, err := s.txnRepo.FindTransactionByCorrelationID(ctx, correlationID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: correlation ID %s already claimed", apperrors.ErrIdempotency, correlationID)
		}
		return nil, fmt.Errorf("%w: duplicate re-read: %v", apperrors.ErrRepository, err)
	}
	return winner, nil
}

// GetTransactionByID implements portssvc.TransactionSvcFacade.
func (s *transactionService) GetTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, transactionID)
		}
		return nil, fmt.Errorf("%w: find by id: %v", apperrors.ErrRepository, err)
	}
	return txn, nil
}

// ListTransactionsByWallet implements portssvc.TransactionSvcFacade.
func (s *transactionService) ListTransactionsByWallet(ctx context.Context, walletID string) ([]domain.Transaction, error) {
	txns, err := s.txnRepo.FindTransactionsByWalletID(ctx, walletID)
	if err != nil {
		return nil, fmt.Errorf("%w: find by wallet: %v", apperrors.ErrRepository, err)
	}
	return txns, nil
}

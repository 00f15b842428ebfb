package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/dachury1/wallet-project/internal/core/domain"
	portsgw "github.com/dachury1/wallet-project/internal/core/ports/gateways"
	portsrepo "github.com/dachury1/wallet-project/internal/core/ports/repositories"
	portssvc "github.com/dachury1/wallet-project/internal/core/ports/services"
)

// recoveryService finds transactions stuck in PENDING beyond a threshold
// (a crash between the write-ahead and the terminal write, or a lost ledger
// response) and re-drives them through the wallet gateway.
//
// It assumes a single-instance deployment: there is no leader election, so
// running two sweepers concurrently would duplicate gateway calls. The
// leg-scoped idempotency tokens make that safe on the ledger side but wasteful.
type recoveryService struct {
	txnRepo       portsrepo.TransactionRepositoryFacade
	walletGateway portsgw.WalletGateway
	logger        *slog.Logger
	threshold     time.Duration
	batchSize     int
}

// NewRecoveryService creates a new RecoveryService.
func NewRecoveryService(txnRepo portsrepo.TransactionRepositoryFacade, walletGateway portsgw.WalletGateway, logger *slog.Logger, threshold time.Duration, batchSize int) portssvc.RecoverySvcFacade {
	return &recoveryService{
		txnRepo:       txnRepo,
		walletGateway: walletGateway,
		logger:        logger.With(slog.String("job", "recovery_sweep")),
		threshold:     threshold,
		batchSize:     batchSize,
	}
}

var _ portssvc.RecoverySvcFacade = (*recoveryService)(nil)

// Sweep implements portssvc.RecoverySvcFacade. One bounded batch, oldest
// first; transport failures leave the row PENDING for the next sweep.
func (s *recoveryService) Sweep(ctx context.Context) (int, error) {
	cutoff := time.Now().UTC().Add(-s.threshold)

	stuck, err := s.txnRepo.FindPendingOlderThan(ctx, cutoff, s.batchSize)
	if err != nil {
		s.logger.Error("Failed to fetch stuck transactions", slog.String("error", err.Error()))
		return 0, err
	}
	if len(stuck) == 0 {
		return 0, nil
	}

	s.logger.Info("Found stuck transactions", slog.Int("count", len(stuck)))

	resolved := 0
	for i := range stuck {
		txn := stuck[i]
		logger := s.logger.With(
			slog.String("transaction_id", txn.TransactionID),
			slog.String("correlation_id", txn.CorrelationID),
		)

		ok, gwErr := s.walletGateway.ProcessMovement(ctx, &txn)
		if gwErr != nil {
			// Ledger unreachable: keep PENDING, the next sweep retries it.
			logger.Error("Ledger unreachable during sweep, keeping PENDING",
				slog.String("error", gwErr.Error()))
			continue
		}

		status := domain.StatusFailed
		if ok {
			status = domain.StatusCompleted
		}

		if err := s.txnRepo.UpdateTransactionStatus(ctx, txn.TransactionID, status); err != nil {
			logger.Error("Failed to persist status after sweep retry",
				slog.String("status", string(status)),
				slog.String("error", err.Error()))
			continue
		}

		logger.Info("Stuck transaction resolved", slog.String("status", string(status)))
		resolved++
	}

	return resolved, nil
}

// RunRecoveryLoop ticks the sweeper at a fixed interval until the context is
// cancelled. Spawned once from the composition root, independent of the
// request-handling pool.
func RunRecoveryLoop(ctx context.Context, sweeper portssvc.RecoverySvcFacade, interval time.Duration, logger *slog.Logger) {
	logger.Info("Recovery sweep scheduler started", slog.Duration("interval", interval))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Recovery sweep scheduler stopped")
			return
		case <-ticker.C:
			if _, err := sweeper.Sweep(ctx); err != nil {
				logger.Error("Recovery sweep failed", slog.String("error", err.Error()))
			}
		}
	}
}

package ledger

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dachury1/wallet-project/internal/core/domain"
	portsgw "github.com/dachury1/wallet-project/internal/core/ports/gateways"
	"github.com/dachury1/wallet-project/internal/middleware"
)

// Gateway executes a transaction's movements against the wallet ledger in
// order and compensates already-applied movements in reverse order when a
// later one is rejected or the connection drops.
type Gateway struct {
	client portsgw.LedgerClient
}

// NewGateway creates a wallet gateway on top of a ledger client.
func NewGateway(client portsgw.LedgerClient) *Gateway {
	return &Gateway{client: client}
}

var _ portsgw.WalletGateway = (*Gateway)(nil)

// legToken derives the idempotency token for one movement leg. Each leg of a
// transfer needs its own token so the ledger's dedupe collapses retries of a
// leg without collapsing the credit into the debit.
func legToken(txnID string, leg int) string {
	return fmt.Sprintf("%s:%d", txnID, leg)
}

// compensationToken marks the reversal of a leg as its own idempotent operation.
func compensationToken(txnID string, leg int) string {
	return fmt.Sprintf("%s:%d:comp", txnID, leg)
}

// ProcessMovement implements portsgw.WalletGateway.
func (g *Gateway) ProcessMovement(ctx context.Context, txn *domain.Transaction) (bool, error) {
	logger := middleware.GetLoggerFromCtx(ctx).With(slog.String("transaction_id", txn.TransactionID))
	movements := txn.Movements()

	for i, mv := range movements {
		ok, message, err := g.client.ValidateAndReserve(ctx, mv.WalletID, mv.Amount, legToken(txn.TransactionID, i))
		if err != nil {
			logger.Error("Ledger call failed, compensating applied movements",
				slog.String("wallet_id", mv.WalletID),
				slog.String("amount", mv.Amount.String()),
				slog.String("error", err.Error()))
			g.compensate(ctx, txn, movements[:i])
			return false, fmt.Errorf("ledger call for wallet %s: %w", mv.WalletID, err)
		}
		if !ok {
			logger.Warn("Ledger rejected movement, compensating applied movements",
				slog.String("wallet_id", mv.WalletID),
				slog.String("amount", mv.Amount.String()),
				slog.String("reason", message))
			g.compensate(ctx, txn, movements[:i])
			return false, nil
		}
	}

	return true, nil
}

// compensate reverses the given already-applied movements, newest first.
// Compensation is best-effort: a failure here is logged at Error severity for
// manual reconciliation and never escalated, since the caller is already on a
// failure path.
func (g *Gateway) compensate(ctx context.Context, txn *domain.Transaction, applied []domain.Movement) {
	logger := middleware.GetLoggerFromCtx(ctx).With(slog.String("transaction_id", txn.TransactionID))

	for i := len(applied) - 1; i >= 0; i-- {
		inverse := applied[i].Inverse()
		ok, message, err := g.client.ValidateAndReserve(ctx, inverse.WalletID, inverse.Amount, compensationToken(txn.TransactionID, i))
		if err != nil {
			logger.Error("COMPENSATION FAILED, wallet needs manual reconciliation",
				slog.String("wallet_id", inverse.WalletID),
				slog.String("amount", inverse.Amount.String()),
				slog.String("error", err.Error()))
			continue
		}
		if !ok {
			logger.Error("COMPENSATION REJECTED, wallet needs manual reconciliation",
				slog.String("wallet_id", inverse.WalletID),
				slog.String("amount", inverse.Amount.String()),
				slog.String("reason", message))
			continue
		}
		logger.Info("Compensated movement",
			slog.String("wallet_id", inverse.WalletID),
			slog.String("amount", inverse.Amount.String()))
	}
}

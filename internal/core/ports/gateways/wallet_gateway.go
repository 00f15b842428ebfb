package gateways

import (
	"context"

	"github.com/dachury1/wallet-project/internal/core/domain"
	"github.com/shopspring/decimal"
)

// WalletGateway executes the balance movements a transaction implies against
// the external wallet ledger.
//
// ProcessMovement returns (true, nil) once every movement was accepted,
// (false, nil) on a clean rejection such as insufficient funds, and a non-nil
// error when the ledger was unreachable partway through. In the latter two
// cases the gateway has already compensated the movements it managed to apply.
type WalletGateway interface {
	ProcessMovement(ctx context.Context, txn *domain.Transaction) (bool, error)
}

// LedgerClient is the RPC contract the wallet ledger exposes. The ledger
// applies each delta atomically, enforces balance + amount >= 0, increments
// the wallet version on success, and treats idempotencyToken as a dedupe key
// so a retried call is a no-op once applied.
type LedgerClient interface {
	// ValidateAndReserve applies one signed delta. ok=false with a message
	// means the ledger rejected the movement (insufficient funds, unknown
	// wallet); a non-nil error means transport failure.
	ValidateAndReserve(ctx context.Context, walletID string, amount decimal.Decimal, idempotencyToken string) (ok bool, message string, err error)

	// ConfirmBalanceUpdate acknowledges a reservation. Reserved for a future
	// two-phase confirm/compensate protocol; the current saga compensates via
	// reversed ValidateAndReserve calls instead.
	ConfirmBalanceUpdate(ctx context.Context, idempotencyToken string, isSuccess bool) error
}

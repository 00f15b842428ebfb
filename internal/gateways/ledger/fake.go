package ledger

import (
	"context"
	"fmt"
	"sync"

	"github.com/dachury1/wallet-project/internal/core/domain"
	portsgw "github.com/dachury1/wallet-project/internal/core/ports/gateways"
	"github.com/shopspring/decimal"
)

// FakeLedgerClient is an in-memory stand-in for the wallet ledger, used for
// local development and tests. It honours the contract the real ledger
// promises: atomic delta application, the non-negative balance constraint,
// version increments, and per-token idempotency.
type FakeLedgerClient struct {
	mu      sync.Mutex
	wallets map[string]*domain.Wallet
	applied map[string]bool // idempotency tokens already honoured
}

// NewFakeLedgerClient creates an empty fake ledger.
func NewFakeLedgerClient() *FakeLedgerClient {
	return &FakeLedgerClient{
		wallets: make(map[string]*domain.Wallet),
		applied: make(map[string]bool),
	}
}

var _ portsgw.LedgerClient = (*FakeLedgerClient)(nil)

// SeedWallet registers a wallet with an opening balance.
func (f *FakeLedgerClient) SeedWallet(walletID string, balance decimal.Decimal) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.wallets[walletID] = &domain.Wallet{
		WalletID: walletID,
		Label:    "fake",
		Balance:  balance,
		Currency: "USD",
	}
}

// Balance returns the current balance of a seeded wallet.
func (f *FakeLedgerClient) Balance(walletID string) decimal.Decimal {
	f.mu.Lock()
	defer f.mu.Unlock()
	if w, ok := f.wallets[walletID]; ok {
		return w.Balance
	}
	return decimal.Zero
}

// ValidateAndReserve implements portsgw.LedgerClient.
func (f *FakeLedgerClient) ValidateAndReserve(_ context.Context, walletID string, amount decimal.Decimal, idempotencyToken string) (bool, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.applied[idempotencyToken] {
		return true, "already applied", nil
	}

	wallet, ok := f.wallets[walletID]
	if !ok {
		return false, fmt.Sprintf("wallet %s not found", walletID), nil
	}

	next := wallet.Balance.Add(amount)
	if next.IsNegative() {
		return false, "insufficient funds", nil
	}

	wallet.Balance = next
	wallet.Version++
	f.applied[idempotencyToken] = true
	return true, "ok", nil
}

// ConfirmBalanceUpdate implements portsgw.LedgerClient. The fake ledger applies
// deltas immediately, so confirmation is a no-op.
func (f *FakeLedgerClient) ConfirmBalanceUpdate(context.Context, string, bool) error {
	return nil
}

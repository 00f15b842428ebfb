package domain

import "github.com/shopspring/decimal"

// Wallet is the ledger's read model for a wallet. The ledger service owns the
// balance and its version counter; this service only ever consumes it.
type Wallet struct {
	WalletID string          `json:"walletID"`
	UserID   string          `json:"userID"`
	Label    string          `json:"label"`
	Balance  decimal.Decimal `json:"balance"`
	Currency string          `json:"currency"` // ISO 4217 code
	Version  int64           `json:"version"`  // optimistic-locking token, incremented per mutation
}

package domain

import "github.com/shopspring/decimal"

// Movement is a single signed balance delta against one wallet. Movements are
// ephemeral: they are derived from a transaction at execution time and never
// persisted on their own.
type Movement struct {
	WalletID string
	Amount   decimal.Decimal // negative means debit
}

// Inverse returns the compensating movement that semantically reverses this one.
func (m Movement) Inverse() Movement {
	return Movement{WalletID: m.WalletID, Amount: m.Amount.Neg()}
}

// Movements derives the ordered deltas the ledger must apply for this
// transaction. Transfers debit the source before crediting the destination so
// a failed credit always has a symmetric compensation; crediting first would
// need the ledger to tolerate a temporary negative balance.
func (t *Transaction) Movements() []Movement {
	switch t.TransactionType {
	case TypeDeposit:
		return []Movement{{WalletID: t.DestinationWalletID, Amount: t.Amount}}
	case TypeWithdrawal:
		return []Movement{{WalletID: *t.SourceWalletID, Amount: t.Amount.Neg()}}
	case TypeTransfer:
		return []Movement{
			{WalletID: *t.SourceWalletID, Amount: t.Amount.Neg()},
			{WalletID: t.DestinationWalletID, Amount: t.Amount},
		}
	default:
		return nil
	}
}

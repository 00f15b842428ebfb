package ledger_test

import (
	"context"
	"errors"
	"testing"

	"github.com/dachury1/wallet-project/internal/core/domain"
	"github.com/dachury1/wallet-project/internal/gateways/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyClient wraps the fake ledger and fails transport after a number of
// successful calls, to simulate losing the connection mid-transfer.
type flakyClient struct {
	*ledger.FakeLedgerClient
	failAfter int
	calls     int
}

func (f *flakyClient) ValidateAndReserve(ctx context.Context, walletID string, amount decimal.Decimal, token string) (bool, string, error) {
	f.calls++
	if f.calls == f.failAfter {
		return false, "", errors.New("connection reset")
	}
	return f.FakeLedgerClient.ValidateAndReserve(ctx, walletID, amount, token)
}

func newDeposit(t *testing.T, dest string, amount string) *domain.Transaction {
	t.Helper()
	txn, err := domain.NewTransaction(nil, dest, decimal.RequireFromString(amount), uuid.NewString())
	require.NoError(t, err)
	return txn
}

func newTransfer(t *testing.T, source, dest string, amount string) *domain.Transaction {
	t.Helper()
	txn, err := domain.NewTransaction(&source, dest, decimal.RequireFromString(amount), uuid.NewString())
	require.NoError(t, err)
	return txn
}

func TestGateway_DepositSucceeds(t *testing.T) {
	client := ledger.NewFakeLedgerClient()
	dest := uuid.NewString()
	client.SeedWallet(dest, decimal.Zero)

	gw := ledger.NewGateway(client)
	txn := newDeposit(t, dest, "100.50")

	ok, err := gw.ProcessMovement(context.Background(), txn)

	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, client.Balance(dest).Equal(decimal.RequireFromString("100.50")))
}

func TestGateway_RetryIsNoOpOnLedger(t *testing.T) {
	client := ledger.NewFakeLedgerClient()
	dest := uuid.NewString()
	client.SeedWallet(dest, decimal.Zero)

	gw := ledger.NewGateway(client)
	txn := newDeposit(t, dest, "100.50")

	for i := 0; i < 3; i++ {
		ok, err := gw.ProcessMovement(context.Background(), txn)
		require.NoError(t, err)
		assert.True(t, ok)
	}

	// Same transaction id, so the ledger deduped the repeats.
	assert.True(t, client.Balance(dest).Equal(decimal.RequireFromString("100.50")))
}

func TestGateway_TransferMovesBothBalances(t *testing.T) {
	client := ledger.NewFakeLedgerClient()
	source := uuid.NewString()
	dest := uuid.NewString()
	client.SeedWallet(source, decimal.NewFromInt(100))
	client.SeedWallet(dest, decimal.NewFromInt(5))

	gw := ledger.NewGateway(client)
	txn := newTransfer(t, source, dest, "50.00")

	ok, err := gw.ProcessMovement(context.Background(), txn)

	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, client.Balance(source).Equal(decimal.NewFromInt(50)))
	assert.True(t, client.Balance(dest).Equal(decimal.NewFromInt(55)))
}

func TestGateway_InsufficientFundsRejectsBeforeCredit(t *testing.T) {
	client := ledger.NewFakeLedgerClient()
	source := uuid.NewString()
	dest := uuid.NewString()
	client.SeedWallet(source, decimal.NewFromInt(30))
	client.SeedWallet(dest, decimal.Zero)

	gw := ledger.NewGateway(client)
	txn := newTransfer(t, source, dest, "50.00")

	ok, err := gw.ProcessMovement(context.Background(), txn)

	require.NoError(t, err)
	assert.False(t, ok)
	// Debit was rejected, so no credit was attempted and nothing changed.
	assert.True(t, client.Balance(source).Equal(decimal.NewFromInt(30)))
	assert.True(t, client.Balance(dest).Equal(decimal.Zero))
}

func TestGateway_FailedCreditCompensatesDebit(t *testing.T) {
	client := ledger.NewFakeLedgerClient()
	source := uuid.NewString()
	dest := uuid.NewString()
	client.SeedWallet(source, decimal.NewFromInt(100))
	// Destination wallet never seeded: the credit leg is rejected.

	gw := ledger.NewGateway(client)
	txn := newTransfer(t, source, dest, "50.00")

	ok, err := gw.ProcessMovement(context.Background(), txn)

	require.NoError(t, err)
	assert.False(t, ok)
	// The debit was applied and then reversed, restoring the source balance.
	assert.True(t, client.Balance(source).Equal(decimal.NewFromInt(100)))
}

func TestGateway_TransportFailureCompensatesAndPropagates(t *testing.T) {
	source := uuid.NewString()
	dest := uuid.NewString()
	fake := ledger.NewFakeLedgerClient()
	fake.SeedWallet(source, decimal.NewFromInt(100))
	fake.SeedWallet(dest, decimal.Zero)

	// First call (debit) succeeds, second call (credit) loses the connection,
	// third call is the compensation.
	client := &flakyClient{FakeLedgerClient: fake, failAfter: 2}
	gw := ledger.NewGateway(client)
	txn := newTransfer(t, source, dest, "50.00")

	ok, err := gw.ProcessMovement(context.Background(), txn)

	require.Error(t, err)
	assert.False(t, ok)
	assert.True(t, fake.Balance(source).Equal(decimal.NewFromInt(100)))
	assert.True(t, fake.Balance(dest).Equal(decimal.Zero))
}

func TestFakeLedgerClient_VersionIncrements(t *testing.T) {
	client := ledger.NewFakeLedgerClient()
	wallet := uuid.NewString()
	client.SeedWallet(wallet, decimal.NewFromInt(10))

	ok, _, err := client.ValidateAndReserve(context.Background(), wallet, decimal.NewFromInt(5), uuid.NewString())
	require.NoError(t, err)
	assert.True(t, ok)

	ok, msg, err := client.ValidateAndReserve(context.Background(), wallet, decimal.NewFromInt(-20), uuid.NewString())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Contains(t, msg, "insufficient funds")
}

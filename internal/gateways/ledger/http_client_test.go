package ledger_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dachury1/wallet-project/internal/gateways/ledger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPLedgerClient_ValidateAndReserve(t *testing.T) {
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/rpc/validate-and-reserve", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(map[string]any{"success": true, "message": "ok"})
	}))
	defer server.Close()

	client := ledger.NewHTTPLedgerClient(server.URL, &http.Client{Timeout: time.Second})

	ok, msg, err := client.ValidateAndReserve(context.Background(), "w1", decimal.RequireFromString("-50.00"), "txn:0")

	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "ok", msg)
	// The delta travels as a decimal-formatted string; negative means debit.
	assert.Equal(t, "w1", gotBody["wallet_id"])
	assert.Equal(t, "-50", gotBody["amount"])
	assert.Equal(t, "txn:0", gotBody["transaction_id"])
}

func TestHTTPLedgerClient_Rejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "insufficient funds"})
	}))
	defer server.Close()

	client := ledger.NewHTTPLedgerClient(server.URL, &http.Client{Timeout: time.Second})

	ok, msg, err := client.ValidateAndReserve(context.Background(), "w1", decimal.NewFromInt(-10), "txn:0")

	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "insufficient funds", msg)
}

func TestHTTPLedgerClient_TransportFailures(t *testing.T) {
	t.Run("non-200 status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		client := ledger.NewHTTPLedgerClient(server.URL, &http.Client{Timeout: time.Second})
		_, _, err := client.ValidateAndReserve(context.Background(), "w1", decimal.NewFromInt(1), "txn:0")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "HTTP 502")
	})

	t.Run("connection refused", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close() // shut down before calling

		client := ledger.NewHTTPLedgerClient(server.URL, &http.Client{Timeout: time.Second})
		_, _, err := client.ValidateAndReserve(context.Background(), "w1", decimal.NewFromInt(1), "txn:0")
		require.Error(t, err)
	})
}

func TestHTTPLedgerClient_ConfirmBalanceUpdate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/rpc/confirm-balance-update", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{"success": true})
	}))
	defer server.Close()

	client := ledger.NewHTTPLedgerClient(server.URL, &http.Client{Timeout: time.Second})

	err := client.ConfirmBalanceUpdate(context.Background(), "txn:0", true)
	require.NoError(t, err)
}

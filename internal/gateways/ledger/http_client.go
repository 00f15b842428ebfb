package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	portsgw "github.com/dachury1/wallet-project/internal/core/ports/gateways"
	"github.com/shopspring/decimal"
)

// HTTPLedgerClient speaks the wallet ledger's RPC contract over JSON/HTTP.
// Every call carries a bounded timeout via the client's http.Client so a hung
// ledger cannot pin a request goroutine.
type HTTPLedgerClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPLedgerClient creates a client for the ledger at baseURL. The passed
// http.Client's Timeout bounds each RPC call.
func NewHTTPLedgerClient(baseURL string, httpClient *http.Client) *HTTPLedgerClient {
	return &HTTPLedgerClient{baseURL: baseURL, httpClient: httpClient}
}

var _ portsgw.LedgerClient = (*HTTPLedgerClient)(nil)

type validateAndReserveRequest struct {
	WalletID string `json:"wallet_id"`
	// Amount is a decimal-formatted string; negative means debit.
	Amount        string `json:"amount"`
	TransactionID string `json:"transaction_id"`
}

type confirmBalanceUpdateRequest struct {
	TransactionID string `json:"transaction_id"`
	IsSuccess     bool   `json:"is_success"`
}

type rpcResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ValidateAndReserve implements portsgw.LedgerClient.
func (c *HTTPLedgerClient) ValidateAndReserve(ctx context.Context, walletID string, amount decimal.Decimal, idempotencyToken string) (bool, string, error) {
	resp, err := c.post(ctx, "/rpc/validate-and-reserve", validateAndReserveRequest{
		WalletID:      walletID,
		Amount:        amount.String(),
		TransactionID: idempotencyToken,
	})
	if err != nil {
		return false, "", err
	}
	return resp.Success, resp.Message, nil
}

// ConfirmBalanceUpdate implements portsgw.LedgerClient.
func (c *HTTPLedgerClient) ConfirmBalanceUpdate(ctx context.Context, idempotencyToken string, isSuccess bool) error {
	resp, err := c.post(ctx, "/rpc/confirm-balance-update", confirmBalanceUpdateRequest{
		TransactionID: idempotencyToken,
		IsSuccess:     isSuccess,
	})
	if err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("ledger refused confirmation: %s", resp.Message)
	}
	return nil
}

func (c *HTTPLedgerClient) post(ctx context.Context, path string, payload any) (*rpcResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode ledger request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build ledger request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ledger unreachable: %w", err)
	}
	defer httpResp.Body.Close()

	// The ledger reports rejections inside the envelope with a 200; anything
	// else is a transport-level failure.
	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ledger returned HTTP %d", httpResp.StatusCode)
	}

	var resp rpcResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("failed to decode ledger response: %w", err)
	}
	return &resp, nil
}

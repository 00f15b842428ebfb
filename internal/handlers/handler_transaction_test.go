package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dachury1/wallet-project/internal/apperrors"
	"github.com/dachury1/wallet-project/internal/core/domain"
	"github.com/dachury1/wallet-project/internal/handlers"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	limiter "github.com/ulule/limiter/v3"
	limiterstore "github.com/ulule/limiter/v3/drivers/store/memory"
)

// stubTransactionService provides canned responses for handler tests.
type stubTransactionService struct {
	processResult *domain.Transaction
	processErr    error
	getResult     *domain.Transaction
	getErr        error
	listResult    []domain.Transaction
	listErr       error
}

func (s *stubTransactionService) ProcessTransaction(_ context.Context, _ *string, _ string, _ decimal.Decimal, _ string) (*domain.Transaction, error) {
	return s.processResult, s.processErr
}

func (s *stubTransactionService) GetTransactionByID(_ context.Context, _ string) (*domain.Transaction, error) {
	return s.getResult, s.getErr
}

func (s *stubTransactionService) ListTransactionsByWallet(_ context.Context, _ string) ([]domain.Transaction, error) {
	return s.listResult, s.listErr
}

func newTestRouter(svc *stubTransactionService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	limiterInstance := limiter.New(limiterstore.NewStore(), limiter.Rate{Period: time.Minute, Limit: 1000})
	handlers.RegisterTransactionRoutes(r.Group("/api/v1"), svc, limiterInstance)
	return r
}

func completedDeposit(dest string) *domain.Transaction {
	return &domain.Transaction{
		TransactionID:       uuid.NewString(),
		DestinationWalletID: dest,
		Amount:              decimal.RequireFromString("100.50"),
		TransactionType:     domain.TypeDeposit,
		Status:              domain.StatusCompleted,
		CreatedAt:           time.Now().UTC(),
		CorrelationID:       uuid.NewString(),
	}
}

func TestInitiateTransaction_Success(t *testing.T) {
	dest := uuid.NewString()
	svc := &stubTransactionService{processResult: completedDeposit(dest)}
	r := newTestRouter(svc)

	body := `{"destination_wallet_id":"` + dest + `","amount":"100.50","correlation_id":"` + uuid.NewString() + `"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Status string `json:"status"`
		Data   struct {
			Status          string `json:"status"`
			TransactionType string `json:"transaction_type"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, "COMPLETED", resp.Data.Status)
	assert.Equal(t, "DEPOSIT", resp.Data.TransactionType)
}

func TestInitiateTransaction_MalformedBody(t *testing.T) {
	r := newTestRouter(&stubTransactionService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", strings.NewReader(`{"amount":`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInitiateTransaction_ErrorMapping(t *testing.T) {
	dest := uuid.NewString()

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"invalid amount", apperrors.ErrInvalidAmount, http.StatusBadRequest},
		{"same wallet", apperrors.ErrSameWallet, http.StatusBadRequest},
		{"validation", apperrors.ErrValidation, http.StatusBadRequest},
		{"gateway rejection", apperrors.ErrGateway, http.StatusBadRequest},
		{"idempotency conflict", apperrors.ErrIdempotency, http.StatusConflict},
		{"repository failure", apperrors.ErrRepository, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRouter(&stubTransactionService{processErr: tt.err})

			body := `{"destination_wallet_id":"` + dest + `","amount":"10","correlation_id":"` + uuid.NewString() + `"}`
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions", strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)

			var resp struct {
				Status string `json:"status"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, "error", resp.Status)
		})
	}
}

func TestGetTransaction(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		txn := completedDeposit(uuid.NewString())
		r := newTestRouter(&stubTransactionService{getResult: txn})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/transactions/"+txn.TransactionID, nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), txn.TransactionID)
	})

	t.Run("missing", func(t *testing.T) {
		r := newTestRouter(&stubTransactionService{getErr: apperrors.ErrNotFound})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/v1/transactions/"+uuid.NewString(), nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestGetWalletHistory(t *testing.T) {
	walletID := uuid.NewString()
	txns := []domain.Transaction{*completedDeposit(walletID), *completedDeposit(walletID)}
	r := newTestRouter(&stubTransactionService{listResult: txns})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/transactions/wallet/"+walletID, nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Data, 2)
}

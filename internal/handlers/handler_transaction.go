package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dachury1/wallet-project/internal/apperrors"
	portssvc "github.com/dachury1/wallet-project/internal/core/ports/services"
	"github.com/dachury1/wallet-project/internal/dto"
	"github.com/dachury1/wallet-project/internal/middleware"
	"github.com/gin-gonic/gin"
)

// transactionHandler handles HTTP requests related to transactions.
type transactionHandler struct {
	txnService portssvc.TransactionSvcFacade
}

// newTransactionHandler creates a new transactionHandler.
func newTransactionHandler(txnService portssvc.TransactionSvcFacade) *transactionHandler {
	return &transactionHandler{txnService: txnService}
}

// initiateTransaction godoc
// @Summary Initiate a funds movement between wallets
// @Description Runs the transaction saga; repeating a correlation_id returns the recorded transaction
// @Tags transactions
// @Accept  json
// @Produce  json
// @Param   transaction body dto.CreateTransactionRequest true "Transaction request"
// @Success 200 {object} dto.SuccessResponse "Transaction with its terminal status"
// @Failure 400 {object} dto.ErrorResponse "Validation failure or ledger rejection"
// @Failure 409 {object} dto.ErrorResponse "Correlation ID conflict"
// @Failure 500 {object} dto.ErrorResponse "Storage failure"
// @Router /transactions [post]
func (h *transactionHandler) initiateTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind transaction request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Status: "error", Message: "invalid request format"})
		return
	}

	txn, err := h.txnService.ProcessTransaction(
		c.Request.Context(),
		req.SourceWalletID,
		req.DestinationWalletID,
		req.Amount,
		req.CorrelationID,
	)
	if err != nil {
		respondTransactionError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Status: "success", Data: dto.ToTransactionResponse(txn)})
}

// getTransaction godoc
// @Summary Get a transaction by ID
// @Tags transactions
// @Produce  json
// @Param   transactionID path string true "Transaction ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} dto.ErrorResponse "Transaction not found"
// @Router /transactions/{transactionID} [get]
func (h *transactionHandler) getTransaction(c *gin.Context) {
	transactionID := c.Param("transactionID")

	txn, err := h.txnService.GetTransactionByID(c.Request.Context(), transactionID)
	if err != nil {
		respondTransactionError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Status: "success", Data: dto.ToTransactionResponse(txn)})
}

// getWalletHistory godoc
// @Summary List transactions touching a wallet
// @Description Returns transactions where the wallet is source or destination, newest first
// @Tags transactions
// @Produce  json
// @Param   walletID path string true "Wallet ID"
// @Success 200 {object} dto.SuccessResponse
// @Router /transactions/wallet/{walletID} [get]
func (h *transactionHandler) getWalletHistory(c *gin.Context) {
	walletID := c.Param("walletID")

	txns, err := h.txnService.ListTransactionsByWallet(c.Request.Context(), walletID)
	if err != nil {
		respondTransactionError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{Status: "success", Data: dto.ToTransactionResponseSlice(txns)})
}

// respondTransactionError maps the error taxonomy to HTTP statuses. Repository
// failures are surfaced only as a generic message; their detail is already
// logged where they happened. Gateway rejections are business failures, not
// server errors, so they map to 400.
func respondTransactionError(c *gin.Context, err error) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	switch {
	case errors.Is(err, apperrors.ErrInvalidAmount),
		errors.Is(err, apperrors.ErrSameWallet),
		errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Status: "error", Message: err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Status: "error", Message: err.Error()})
	case errors.Is(err, apperrors.ErrIdempotency):
		c.JSON(http.StatusConflict, dto.ErrorResponse{Status: "error", Message: err.Error()})
	case errors.Is(err, apperrors.ErrGateway):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Status: "error", Message: err.Error()})
	case errors.Is(err, apperrors.ErrRepository):
		logger.Error("Repository error reached handler", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Status: "error", Message: "internal server error"})
	default:
		logger.Error("Unclassified error reached handler", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Status: "error", Message: "internal server error"})
	}
}

package handlers

import (
	portssvc "github.com/dachury1/wallet-project/internal/core/ports/services"
	"github.com/dachury1/wallet-project/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
)

// RegisterTransactionRoutes wires the transaction endpoints under the given
// router group. The write endpoint additionally sits behind the rate limiter.
func RegisterTransactionRoutes(rg *gin.RouterGroup, txnService portssvc.TransactionSvcFacade, limiterInstance *limiter.Limiter) {
	h := newTransactionHandler(txnService)

	txns := rg.Group("/transactions")
	{
		txns.POST("", middleware.RateLimit(limiterInstance), h.initiateTransaction)
		txns.GET("/:transactionID", h.getTransaction)
		txns.GET("/wallet/:walletID", h.getWalletHistory)
	}
}

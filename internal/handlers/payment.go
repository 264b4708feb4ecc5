package handlers

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/payment"
)

type createPaymentOrderRequest struct {
	Amount   int64  `json:"amount" binding:"required,gt=0"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt" binding:"max=40"`
}

// CreateRazorpayOrder answers with the gateway order plus key_id. Gateway
// failures get a generic body so no provider detail reaches the client.
func CreateRazorpayOrder(payments PaymentInitiator) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/razorpay/create-order"
		defer handlePanic(c, route)

		var req createPaymentOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		order, err := payments.CreatePaymentOrder(ctx, payment.PaymentOrderRequest{
			Amount:   req.Amount,
			Currency: req.Currency,
			Receipt:  req.Receipt,
		})
		if err != nil {
			log.Println("[PAYMENT] [ERROR] error creating razorpay order:", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
			return
		}

		c.JSON(http.StatusOK, order)
	}
}

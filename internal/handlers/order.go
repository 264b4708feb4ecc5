package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"storefront/internal/models"
	"storefront/internal/payment"
	"storefront/internal/store"
)

type checkoutRequest struct {
	DeliveryAddress *addressRequest `json:"deliveryAddress"`
	AddressID       string          `json:"addressId"`
	PaymentMethod   string          `json:"paymentMethod" binding:"omitempty,oneof=cod razorpay"`
	Notes           string          `json:"notes" binding:"max=500"`
}

// checkoutReceipt stays under the gateway's 40 character receipt limit.
func checkoutReceipt() string {
	return "rcpt_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// resolveDeliveryAddress prefers an inline address, then an address id from
// the profile, then the profile's default address.
func resolveDeliveryAddress(req checkoutRequest, profile func() (*models.Profile, error)) (models.Address, bool, error) {
	if req.DeliveryAddress != nil {
		return req.DeliveryAddress.toAddress(), true, nil
	}

	p, err := profile()
	if err != nil {
		return models.Address{}, false, err
	}

	if id := strings.TrimSpace(req.AddressID); id != "" {
		for _, address := range p.Addresses {
			if address.ID == id {
				return address, true, nil
			}
		}
		return models.Address{}, false, nil
	}

	address, ok := store.DefaultAddress(p)
	return address, ok, nil
}

/*
POST /orders
- places an order from the user's cart and clears the cart
- razorpay orders get a gateway order first, its id is stored on the order
*/
func Checkout(carts CartService, orders OrderService, profiles AddressBook, payments PaymentInitiator) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /orders"
		defer handlePanic(c, route)

		userID, ok := requireUser(c, route)
		if !ok {
			return
		}

		var req checkoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		lines, err := carts.ListCart(ctx, userID)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if len(lines) == 0 {
			respondWithError(c, http.StatusBadRequest, route, "cart is empty")
			return
		}

		address, found, err := resolveDeliveryAddress(req, func() (*models.Profile, error) {
			return profiles.GetProfile(ctx, userID)
		})
		if errors.Is(err, store.ErrNotFound) {
			respondWithError(c, http.StatusBadRequest, route, "delivery address required")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if !found {
			respondWithError(c, http.StatusBadRequest, route, "delivery address required")
			return
		}

		opts := store.OrderOptions{PaymentMethod: req.PaymentMethod, Notes: req.Notes}

		var gatewayOrder payment.GatewayOrder
		if req.PaymentMethod == models.PaymentMethodRazorpay {
			gatewayOrder, err = payments.CreatePaymentOrder(ctx, payment.PaymentOrderRequest{
				Amount:   payment.MinorUnits(store.CartTotal(lines)),
				Currency: payment.DefaultCurrency,
				Receipt:  checkoutReceipt(),
			})
			if err != nil {
				log.Println("[ORDER] [ERROR] payment order failed:", err)
				c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": "Failed to create payment order"})
				return
			}
			opts.RazorpayOrderID = gatewayOrder.ID()
		}

		order, err := orders.CreateOrder(ctx, userID, lines, address, opts)
		if errors.Is(err, store.ErrEmptyCart) {
			respondWithError(c, http.StatusBadRequest, route, "cart is empty")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "failed to place order")
			return
		}

		log.Println("[ORDER] [INFO] order placed:", order.OrderNumber)
		response := gin.H{"order": order}
		if gatewayOrder != nil {
			response["payment"] = gatewayOrder
		}
		c.JSON(http.StatusCreated, response)
	}
}

func GetOrders(orders OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /orders"
		defer handlePanic(c, route)

		userID, ok := requireUser(c, route)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		list, err := orders.GetUserOrders(ctx, userID)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, list)
	}
}

func GetOrder(orders OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /orders/:id"
		defer handlePanic(c, route)

		userID, ok := requireUser(c, route)
		if !ok {
			return
		}

		orderID, ok := objectIDParam(c, "id")
		if !ok {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		order, err := orders.GetOrder(ctx, orderID, userID)
		if errors.Is(err, store.ErrNotFound) {
			respondWithError(c, http.StatusNotFound, route, "order not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, order)
	}
}

package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/models"
	"storefront/internal/store"
)

type addCartItemRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity" binding:"gte=0"`
}

type updateCartItemRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

func cartResponse(lines []models.CartLine) gin.H {
	return gin.H{
		"items":     lines,
		"total":     store.CartTotal(lines),
		"itemCount": store.CartItemCount(lines),
	}
}

func GetCart(carts CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /cart"
		defer handlePanic(c, route)

		userID, ok := requireUser(c, route)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		lines, err := carts.ListCart(ctx, userID)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, cartResponse(lines))
	}
}

// AddCartItem defaults a missing quantity to one and refuses unknown products.
func AddCartItem(carts CartService, catalog Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /cart/items"
		defer handlePanic(c, route)

		userID, ok := requireUser(c, route)
		if !ok {
			return
		}

		var req addCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		productID, err := primitive.ObjectIDFromHex(strings.TrimSpace(req.ProductID))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid productId")
			return
		}
		quantity := req.Quantity
		if quantity == 0 {
			quantity = 1
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		if _, err := catalog.GetProduct(ctx, productID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				respondWithError(c, http.StatusBadRequest, route, "invalid productId")
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		if err := carts.AddItem(ctx, userID, productID, quantity); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		lines, err := carts.ListCart(ctx, userID)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		c.JSON(http.StatusOK, cartResponse(lines))
	}
}

func UpdateCartItem(carts CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /cart/items/:id"
		defer handlePanic(c, route)

		userID, ok := requireUser(c, route)
		if !ok {
			return
		}

		itemID, ok := objectIDParam(c, "id")
		if !ok {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		var req updateCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		if err := carts.UpdateQuantity(ctx, userID, itemID, *req.Quantity); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "cart updated"})
	}
}

func RemoveCartItem(carts CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /cart/items/:id"
		defer handlePanic(c, route)

		userID, ok := requireUser(c, route)
		if !ok {
			return
		}

		itemID, ok := objectIDParam(c, "id")
		if !ok {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		if err := carts.RemoveItem(ctx, userID, itemID); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "item removed"})
	}
}

func ClearCart(carts CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /cart"
		defer handlePanic(c, route)

		userID, ok := requireUser(c, route)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		if err := carts.ClearCart(ctx, userID); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "cart cleared"})
	}
}

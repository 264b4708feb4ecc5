package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"storefront/internal/store"
)

/*
GET /products
- page + limit are optional; without both every product is returned
- category filters by category id, search matches the name
*/
func GetProducts(catalog Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /products"
		defer handlePanic(c, route)

		log.Printf(
			"[%s] hit page=%s limit=%s category=%s search=%s",
			route,
			c.Query("page"),
			c.Query("limit"),
			c.Query("category"),
			c.Query("search"),
		)

		page, limit, err := parsePaginationParams(c.Query("page"), c.Query("limit"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		filter := store.ProductFilter{
			Search: c.Query("search"),
			Page:   page,
			Limit:  limit,
		}
		if category := strings.TrimSpace(c.Query("category")); category != "" {
			categoryID, err := primitive.ObjectIDFromHex(category)
			if err != nil {
				respondWithError(c, http.StatusBadRequest, route, "invalid category")
				return
			}
			filter.CategoryID = &categoryID
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		products, err := catalog.ListProducts(ctx, filter)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		log.Printf("[%s] returning %d products", route, len(products))
		c.JSON(http.StatusOK, products)
	}
}

func GetProduct(catalog Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /products/:id"

		productID, ok := objectIDParam(c, "id")
		if !ok {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		product, err := catalog.GetProduct(ctx, productID)
		if errors.Is(err, store.ErrNotFound) {
			respondWithError(c, http.StatusNotFound, route, "product not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, product)
	}
}

func GetCategories(catalog Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /categories"
		defer handlePanic(c, route)

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		categories, err := catalog.ListCategories(ctx)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		log.Printf("[%s] returning %d categories", route, len(categories))
		c.JSON(http.StatusOK, categories)
	}
}

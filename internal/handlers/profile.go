package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront/internal/models"
	"storefront/internal/store"
)

type addressRequest struct {
	FullName     string `json:"fullName" binding:"required"`
	Phone        string `json:"phone" binding:"required"`
	AddressLine1 string `json:"addressLine1" binding:"required"`
	AddressLine2 string `json:"addressLine2"`
	City         string `json:"city" binding:"required"`
	State        string `json:"state" binding:"required"`
	PostalCode   string `json:"postalCode" binding:"required"`
	IsDefault    bool   `json:"isDefault"`
}

func (r addressRequest) toAddress() models.Address {
	return models.Address{
		FullName:     strings.TrimSpace(r.FullName),
		Phone:        strings.TrimSpace(r.Phone),
		AddressLine1: strings.TrimSpace(r.AddressLine1),
		AddressLine2: strings.TrimSpace(r.AddressLine2),
		City:         strings.TrimSpace(r.City),
		State:        strings.TrimSpace(r.State),
		PostalCode:   strings.TrimSpace(r.PostalCode),
		IsDefault:    r.IsDefault,
	}
}

func GetProfile(svc AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /profile"
		userID, ok := requireUser(c, route)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		profile, err := svc.GetProfile(ctx, userID)
		if errors.Is(err, store.ErrNotFound) {
			respondWithError(c, http.StatusNotFound, route, "profile not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"profile": profile})
	}
}

func GetAddresses(profiles AddressBook) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /profile/addresses"
		userID, ok := requireUser(c, route)
		if !ok {
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		profile, err := profiles.GetProfile(ctx, userID)
		if errors.Is(err, store.ErrNotFound) {
			respondWithError(c, http.StatusNotFound, route, "profile not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, gin.H{"addresses": profile.Addresses})
	}
}

func CreateAddress(profiles AddressBook) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /profile/addresses"
		userID, ok := requireUser(c, route)
		if !ok {
			return
		}

		var req addressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		address, err := profiles.AddAddress(ctx, userID, req.toAddress())
		if errors.Is(err, store.ErrNotFound) {
			respondWithError(c, http.StatusNotFound, route, "profile not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		log.Println("[ADDRESS] [INFO] address created:", address.ID)
		c.JSON(http.StatusCreated, gin.H{"address": address})
	}
}

func UpdateAddress(profiles AddressBook) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /profile/addresses/:id"
		userID, ok := requireUser(c, route)
		if !ok {
			return
		}

		addressID := strings.TrimSpace(c.Param("id"))
		if addressID == "" {
			respondWithError(c, http.StatusBadRequest, route, "invalid address id")
			return
		}

		var req addressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		address, err := profiles.UpdateAddress(ctx, userID, addressID, req.toAddress())
		if errors.Is(err, store.ErrNotFound) {
			respondWithError(c, http.StatusNotFound, route, "address not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		log.Println("[ADDRESS] [INFO] address updated:", addressID)
		c.JSON(http.StatusOK, gin.H{"address": address})
	}
}

func DeleteAddress(profiles AddressBook) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /profile/addresses/:id"
		userID, ok := requireUser(c, route)
		if !ok {
			return
		}

		addressID := strings.TrimSpace(c.Param("id"))
		if addressID == "" {
			respondWithError(c, http.StatusBadRequest, route, "invalid address id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		err := profiles.DeleteAddress(ctx, userID, addressID)
		if errors.Is(err, store.ErrNotFound) {
			respondWithError(c, http.StatusNotFound, route, "address not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		log.Println("[ADDRESS] [INFO] address deleted:", addressID)
		c.JSON(http.StatusOK, gin.H{"message": "address deleted"})
	}
}

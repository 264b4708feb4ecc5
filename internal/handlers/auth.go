package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront/internal/auth"
	"storefront/internal/models"
)

type signUpRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	FullName string `json:"fullName" binding:"required"`
}

type signInRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

func userResponse(user models.User) gin.H {
	return gin.H{
		"id":       user.ID.Hex(),
		"email":    user.Email,
		"fullName": user.FullName,
	}
}

func sessionResponse(session *auth.Session) gin.H {
	return gin.H{
		"accessToken":  session.AccessToken,
		"refreshToken": session.RefreshToken,
		"expiresIn":    session.ExpiresIn,
		"user":         userResponse(session.User),
	}
}

func authErrorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, auth.ErrMissingCredentials):
		return http.StatusBadRequest, "email and password are required"
	case errors.Is(err, auth.ErrEmailTaken):
		return http.StatusConflict, "email already registered"
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, auth.ErrInvalidRefreshToken):
		return http.StatusUnauthorized, "invalid refresh token"
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrUserNotFound):
		return http.StatusUnauthorized, "unauthorized"
	default:
		return http.StatusInternalServerError, "db error"
	}
}

func SignUp(svc AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /auth/signup"
		defer handlePanic(c, route)

		var req signUpRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		session, err := svc.SignUp(ctx, req.Email, req.Password, strings.TrimSpace(req.FullName))
		if err != nil {
			status, message := authErrorStatus(err)
			respondWithError(c, status, route, message)
			return
		}

		c.JSON(http.StatusCreated, sessionResponse(session))
	}
}

func SignIn(svc AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /auth/signin"
		defer handlePanic(c, route)

		var req signInRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		session, err := svc.SignIn(ctx, req.Email, req.Password)
		if err != nil {
			status, message := authErrorStatus(err)
			respondWithError(c, status, route, message)
			return
		}

		c.JSON(http.StatusOK, sessionResponse(session))
	}
}

func SignOut(svc AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /auth/signout"

		var req refreshRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		if err := svc.SignOut(ctx, req.RefreshToken); err != nil {
			status, message := authErrorStatus(err)
			respondWithError(c, status, route, message)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "signed out"})
	}
}

func Refresh(svc AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /auth/refresh"

		var req refreshRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		session, err := svc.Refresh(ctx, req.RefreshToken)
		if err != nil {
			status, message := authErrorStatus(err)
			respondWithError(c, status, route, message)
			return
		}

		c.JSON(http.StatusOK, sessionResponse(session))
	}
}

// GetMe expects UserAuth to have stored the raw access token.
func GetMe(svc AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /auth/me"

		token := c.GetString("accessToken")
		if token == "" {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()

		user, err := svc.GetCurrentUser(ctx, token)
		if err != nil {
			status, message := authErrorStatus(err)
			respondWithError(c, status, route, message)
			return
		}

		c.JSON(http.StatusOK, gin.H{"user": userResponse(*user)})
	}
}

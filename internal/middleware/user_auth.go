package middleware

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/auth"
)

// UserAuth validates user JWT tokens and injects the userId into the context.
func UserAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := auth.BearerToken(c.GetHeader("Authorization"))
		if err != nil {
			log.Println("[AUTH] [ERROR]", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		userID, err := auth.ParseAccessToken(raw, secret)
		if err != nil {
			log.Println("[AUTH] [ERROR] token validation failed:", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		c.Set("userId", userID)
		c.Set("accessToken", raw)
		c.Next()
	}
}

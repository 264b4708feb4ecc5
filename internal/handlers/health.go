package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
)

func Health(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, "GET /health", "database unavailable")
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

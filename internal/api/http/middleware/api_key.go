package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"

	"github.com/nepfy/nepfy-backend/internal/api/respond"
	"github.com/nepfy/nepfy-backend/internal/apperr"
)

const HeaderAPIKey = "X-API-Key"

// APIKeyMiddleware guards admin routes with a shared key. Without a
// configured key the routes answer 501.
func APIKeyMiddleware(expected string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if expected == "" {
			respond.Error(c, apperr.NotConfigured("admin api"))
			return
		}

		key := c.GetHeader(HeaderAPIKey)
		if key == "" || subtle.ConstantTimeCompare([]byte(key), []byte(expected)) != 1 {
			respond.Error(c, apperr.Unauthorized("invalid API key"))
			return
		}

		c.Next()
	}
}

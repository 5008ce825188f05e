package middleware

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/nepfy/nepfy-backend/internal/logging"
)

// requestIDKey is the key used to store request ID in context
type requestIDKey struct{}

const HeaderRequestID = "X-Request-Id"

// RequestIDMiddleware ensures every request has a stable request ID.
// - Reads X-Request-Id header if present
// - Otherwise generates a new one
// - Stores it in the Gin context and in a request-scoped logger
// - Echoes it back in response header X-Request-Id
// - Logs method, path, status and latency once the request is done
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := strings.TrimSpace(c.GetHeader(HeaderRequestID))
		if rid == "" {
			rid = newRequestID()
		}

		c.Set("request_id", rid)

		logger := logging.FromContext(c.Request.Context()).With("request_id", rid)
		ctx := context.WithValue(c.Request.Context(), requestIDKey{}, rid)
		ctx = logging.WithLogger(ctx, logger)
		c.Request = c.Request.WithContext(ctx)

		c.Writer.Header().Set(HeaderRequestID, rid)

		start := time.Now()
		c.Next()

		logger.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"host", c.Request.Host,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}

// GetRequestID extracts the request ID from a standard context
func GetRequestID(ctx context.Context) string {
	if rid, ok := ctx.Value(requestIDKey{}).(string); ok {
		return rid
	}
	return ""
}

func newRequestID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err == nil {
		return hex.EncodeToString(b)
	}
	// fallback (should be rare)
	return time.Now().Format("20060102T150405.000000000")
}

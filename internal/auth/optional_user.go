package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// DemoUserID is used by OptionalUser when no X-User-Id header is sent.
const DemoUserID = "demo-user"

// OptionalUser sets a firebase uid in context without enforcing auth.
// It reads X-User-Id and X-User-Email, falling back to DemoUserID.
// Use this ONLY for development/testing.
func OptionalUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		uid := strings.TrimSpace(c.GetHeader("X-User-Id"))
		if uid == "" {
			uid = DemoUserID
		}

		c.Set(CtxFirebaseUID, uid)
		if email := strings.TrimSpace(c.GetHeader("X-User-Email")); email != "" {
			c.Set(CtxEmail, email)
		}

		c.Next()
	}
}

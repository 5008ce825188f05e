package middleware

import (
	"context"
	"strings"

	"firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"

	"github.com/nepfy/nepfy-backend/internal/api/respond"
	"github.com/nepfy/nepfy-backend/internal/apperr"
	authctx "github.com/nepfy/nepfy-backend/internal/auth"
	"github.com/nepfy/nepfy-backend/internal/logging"
)

// TokenVerifier is satisfied by *auth.Client.
type TokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// FirebaseAuthMiddleware validates Firebase ID tokens and extracts user info
func FirebaseAuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			respond.Error(c, apperr.Unauthorized("missing authorization token"))
			return
		}

		decodedToken, err := verifier.VerifyIDToken(c.Request.Context(), token)
		if err != nil {
			logging.FromContext(c.Request.Context()).Debug("token rejected", "err", err)
			respond.Error(c, apperr.Unauthorized("invalid token"))
			return
		}

		c.Set(authctx.CtxFirebaseUID, decodedToken.UID)
		if email, ok := decodedToken.Claims["email"].(string); ok {
			c.Set(authctx.CtxEmail, email)
		}
		c.Set("firebase_token", decodedToken)

		ctx := logging.WithLogger(c.Request.Context(),
			logging.FromContext(c.Request.Context()).With("uid", decodedToken.UID))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// extractToken extracts the Bearer token from the Authorization header
func extractToken(c *gin.Context) string {
	bearerToken := c.GetHeader("Authorization")
	if len(bearerToken) > 7 && strings.HasPrefix(bearerToken, "Bearer ") {
		return strings.TrimSpace(bearerToken[7:])
	}
	return ""
}

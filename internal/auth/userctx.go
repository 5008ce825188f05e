package auth

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/nepfy/nepfy-backend/internal/api/respond"
	"github.com/nepfy/nepfy-backend/internal/apperr"
	"github.com/nepfy/nepfy-backend/internal/auth/domain"
)

// UserEnsurer makes sure a users row exists for an authenticated identity.
type UserEnsurer interface {
	EnsureUser(ctx context.Context, u domain.UpsertUser) error
}

// WithUser runs after authentication and creates the user row on first
// sight, so every downstream query can join on it.
func WithUser(users UserEnsurer) gin.HandlerFunc {
	return func(c *gin.Context) {
		fuid := UserFirebaseUID(c)
		if fuid == "" {
			respond.Error(c, apperr.Unauthorized("user not authenticated"))
			return
		}

		err := users.EnsureUser(c.Request.Context(), domain.UpsertUser{
			FirebaseUID: fuid,
			Email:       c.GetString(CtxEmail),
			DisplayName: c.GetHeader("X-User-Name"),
			PhotoURL:    c.GetHeader("X-User-Photo"),
		})
		if err != nil {
			respond.Error(c, apperr.Internal("ensure user", err))
			return
		}

		c.Next()
	}
}

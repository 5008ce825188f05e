package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nepfy/nepfy-backend/internal/api/respond"
	"github.com/nepfy/nepfy-backend/internal/apperr"
	"github.com/nepfy/nepfy-backend/internal/auth"
	"github.com/nepfy/nepfy-backend/internal/auth/domain"
	"github.com/nepfy/nepfy-backend/internal/logging"
)

// GetProfile returns the current user's profile
func (h *Handler) GetProfile(c *gin.Context) {
	firebaseUID := auth.UserFirebaseUID(c)
	if firebaseUID == "" {
		respond.Error(c, apperr.Unauthorized("user not authenticated"))
		return
	}

	user, err := h.authService.GetUserByFirebaseUID(c.Request.Context(), firebaseUID)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, http.StatusOK, user)
}

// SyncUser syncs Firebase user data to PostgreSQL. It is called after
// Firebase sign-in; the body is optional.
func (h *Handler) SyncUser(c *gin.Context) {
	firebaseUID := auth.UserFirebaseUID(c)
	if firebaseUID == "" {
		respond.Error(c, apperr.Unauthorized("user not authenticated"))
		return
	}

	var body syncReq
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			respond.BadRequest(c, "invalid JSON body: %v", err)
			return
		}
	}

	// Email priority: body, then token, then a placeholder.
	email := c.GetString(auth.CtxEmail)
	if body.Email != "" {
		email = body.Email
	} else if email == "" {
		email = firebaseUID + "@firebase.local"
	}

	user, err := h.authService.SyncUser(c.Request.Context(), &domain.CreateUserRequest{
		FirebaseUID:  firebaseUID,
		Email:        email,
		DisplayName:  body.DisplayName,
		PhotoURL:     body.PhotoURL,
		Organization: body.Organization,
		Role:         body.Role,
		Preferences:  body.Preferences,
	})
	if err != nil {
		respond.Error(c, err)
		return
	}

	if err := h.authService.RecordLogin(c.Request.Context(), firebaseUID); err != nil {
		logging.FromContext(c.Request.Context()).Warn("record login failed", "err", err)
	}

	respond.OK(c, http.StatusOK, user)
}

// UpdateProfile updates the user's profile
func (h *Handler) UpdateProfile(c *gin.Context) {
	firebaseUID := auth.UserFirebaseUID(c)
	if firebaseUID == "" {
		respond.Error(c, apperr.Unauthorized("user not authenticated"))
		return
	}

	var req updateProfileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "invalid request body")
		return
	}

	user, err := h.authService.UpdateUser(c.Request.Context(), firebaseUID, &domain.UpdateUserRequest{
		UserName:     req.UserName,
		DisplayName:  req.DisplayName,
		PhotoURL:     req.PhotoURL,
		Organization: req.Organization,
		Preferences:  req.Preferences,
	})
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, http.StatusOK, user)
}

package http

import "github.com/nepfy/nepfy-backend/internal/auth/service"

type Handler struct {
	authService *service.AuthService
}

func New(authService *service.AuthService) *Handler {
	return &Handler{
		authService: authService,
	}
}

type syncReq struct {
	Email        string         `json:"email,omitempty"`
	DisplayName  *string        `json:"display_name,omitempty"`
	PhotoURL     *string        `json:"photo_url,omitempty"`
	Organization *string        `json:"organization,omitempty"`
	Role         string         `json:"role,omitempty"`
	Preferences  map[string]any `json:"preferences,omitempty"`
}

type updateProfileReq struct {
	UserName     *string        `json:"user_name,omitempty"`
	DisplayName  *string        `json:"display_name,omitempty"`
	PhotoURL     *string        `json:"photo_url,omitempty"`
	Organization *string        `json:"organization,omitempty"`
	Preferences  map[string]any `json:"preferences,omitempty"`
}

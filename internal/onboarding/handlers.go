package onboarding

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nepfy/nepfy-backend/internal/api/respond"
	"github.com/nepfy/nepfy-backend/internal/apperr"
	"github.com/nepfy/nepfy-backend/internal/auth"
	"github.com/nepfy/nepfy-backend/internal/auth/domain"
)

// Completer stores the wizard answers; *service.AuthService satisfies it.
type Completer interface {
	CompleteOnboarding(ctx context.Context, uid string, answers domain.OnboardingAnswers) error
}

type Handler struct {
	users Completer
}

func NewHandler(users Completer) *Handler {
	return &Handler{users: users}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/:step", h.step)
	rg.POST("/complete", h.complete)
}

func (h *Handler) step(c *gin.Context) {
	s, ok := GetStep(c.Param("step"))
	if !ok {
		respond.Error(c, apperr.NotFound("onboarding step not found"))
		return
	}
	respond.OK(c, http.StatusOK, s)
}

func (h *Handler) complete(c *gin.Context) {
	var answers domain.OnboardingAnswers
	if err := c.ShouldBindJSON(&answers); err != nil {
		respond.BadRequest(c, "invalid body: %v", err)
		return
	}
	if err := ValidateAnswers(answers); err != nil {
		respond.BadRequest(c, "%v", err)
		return
	}

	if err := h.users.CompleteOnboarding(c.Request.Context(), auth.UserFirebaseUID(c), answers); err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, http.StatusOK, nil)
}

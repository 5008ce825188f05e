package billing

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nepfy/nepfy-backend/internal/api/respond"
	"github.com/nepfy/nepfy-backend/internal/apperr"
	"github.com/nepfy/nepfy-backend/internal/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/create-portal-session", h.createPortalSession)
	rg.GET("/get-plans", h.getPlans)
}

type portalReq struct {
	ReturnURL string `json:"return_url"`
}

func (h *Handler) createPortalSession(c *gin.Context) {
	if !h.svc.Configured() {
		respond.Error(c, apperr.NotConfigured("stripe"))
		return
	}

	var req portalReq
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respond.BadRequest(c, "invalid body: %v", err)
		return
	}

	sessionURL, err := h.svc.PortalURL(c.Request.Context(), auth.UserFirebaseUID(c), req.ReturnURL)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, http.StatusOK, gin.H{"url": sessionURL})
}

func (h *Handler) getPlans(c *gin.Context) {
	plans, err := h.svc.Plans(c.Request.Context())
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, http.StatusOK, plans)
}

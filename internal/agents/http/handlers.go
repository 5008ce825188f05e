// Package http exposes the admin endpoints that manage AI agents.
package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nepfy/nepfy-backend/internal/agents"
	"github.com/nepfy/nepfy-backend/internal/api/respond"
	"github.com/nepfy/nepfy-backend/internal/apperr"
	"github.com/nepfy/nepfy-backend/internal/logging"
)

type Handler struct {
	manager *agents.Manager
}

func New(manager *agents.Manager) *Handler {
	return &Handler{manager: manager}
}

// Register attaches the admin agent routes. The caller is expected to put
// the API key middleware in front of rg.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.list)
	rg.POST("/refresh", h.refresh)
	rg.GET("/:service/:template", h.get)
	rg.PUT("/:service/:template", h.put)
	rg.DELETE("/:service/:template", h.delete)
}

func pathKey(c *gin.Context) agents.Key {
	return agents.Key{ServiceType: c.Param("service"), TemplateType: c.Param("template")}
}

func (h *Handler) list(c *gin.Context) {
	respond.OK(c, http.StatusOK, h.manager.List())
}

func (h *Handler) get(c *gin.Context) {
	key := pathKey(c)
	cfg, err := h.manager.Get(key.ServiceType, key.TemplateType)
	if err != nil {
		respond.Error(c, classify(err))
		return
	}
	respond.OK(c, http.StatusOK, cfg)
}

func (h *Handler) put(c *gin.Context) {
	var cfg agents.AgentConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		respond.BadRequest(c, "invalid body: %v", err)
		return
	}
	key := pathKey(c)
	cfg.ServiceType = key.ServiceType
	cfg.TemplateType = key.TemplateType

	if err := h.manager.Set(c.Request.Context(), cfg); err != nil {
		respond.Error(c, classify(err))
		return
	}
	logging.FromContext(c.Request.Context()).Info("agent saved", "agent", key.String())
	respond.OK(c, http.StatusOK, cfg)
}

func (h *Handler) delete(c *gin.Context) {
	key := pathKey(c)
	if err := h.manager.Delete(c.Request.Context(), key); err != nil {
		respond.Error(c, classify(err))
		return
	}
	logging.FromContext(c.Request.Context()).Info("agent deleted", "agent", key.String())
	respond.OK(c, http.StatusOK, nil)
}

func (h *Handler) refresh(c *gin.Context) {
	if err := h.manager.Refresh(c.Request.Context()); err != nil {
		respond.Error(c, classify(err))
		return
	}
	respond.OK(c, http.StatusOK, gin.H{"count": len(h.manager.List())})
}

func classify(err error) error {
	var verr *agents.ValidationError
	switch {
	case errors.Is(err, agents.ErrNotFound):
		return apperr.Wrap(apperr.KindNotFound, "agent not found", err)
	case errors.As(err, &verr):
		return apperr.Wrap(apperr.KindValidation, verr.Error(), err)
	default:
		return apperr.Internal("agent storage", err)
	}
}

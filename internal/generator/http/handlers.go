// Package http exposes proposal generation endpoints.
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nepfy/nepfy-backend/internal/api/respond"
	"github.com/nepfy/nepfy-backend/internal/apperr"
	"github.com/nepfy/nepfy-backend/internal/auth"
	"github.com/nepfy/nepfy-backend/internal/generator"
	"github.com/nepfy/nepfy-backend/internal/projects/domain"
	"github.com/nepfy/nepfy-backend/internal/projects/service"
)

type Handler struct {
	projects  *service.ProjectService
	generator *generator.Service
}

func New(projects *service.ProjectService, gen *generator.Service) *Handler {
	return &Handler{projects: projects, generator: gen}
}

// Register attaches generation routes under the projects group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/:id/generate", h.generateProposal)
	rg.POST("/:id/generate/:section", h.generateSection)
}

func (h *Handler) load(c *gin.Context) (*domain.Project, generator.Input, bool) {
	var in generator.Input
	if !h.generator.Configured() {
		respond.Error(c, apperr.NotConfigured("ai generation"))
		return nil, in, false
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respond.BadRequest(c, "invalid project id")
		return nil, in, false
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.BadRequest(c, "invalid body: %v", err)
		return nil, in, false
	}

	p, err := h.projects.Get(c.Request.Context(), auth.UserFirebaseUID(c), id)
	if err != nil {
		respond.Error(c, err)
		return nil, in, false
	}
	return p, in, true
}

func (h *Handler) generateProposal(c *gin.Context) {
	p, in, ok := h.load(c)
	if !ok {
		return
	}
	doc, err := h.generator.GenerateProposal(c.Request.Context(), p, in)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, http.StatusOK, doc)
}

func (h *Handler) generateSection(c *gin.Context) {
	key, err := domain.ParseSectionKey(c.Param("section"))
	if err != nil {
		respond.BadRequest(c, "%v", err)
		return
	}
	p, in, ok := h.load(c)
	if !ok {
		return
	}
	doc, err := h.generator.GenerateSection(c.Request.Context(), p, key, in)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, http.StatusOK, doc)
}

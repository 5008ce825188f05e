package http

import (
	"github.com/nepfy/nepfy-backend/internal/apperr"
	"github.com/nepfy/nepfy-backend/internal/projects/service"
	"github.com/nepfy/nepfy-backend/internal/slug"
)

// Handler bundles the dependencies for projects HTTP endpoints.
type Handler struct {
	projects  *service.ProjectService
	proposals *service.ProposalService
}

func New(projects *service.ProjectService, proposals *service.ProposalService) *Handler {
	return &Handler{projects: projects, proposals: proposals}
}

// PublicHandler serves published proposals on their own subdomain.
type PublicHandler struct {
	projects *service.ProjectService
	codec    slug.Codec
}

func NewPublic(projects *service.ProjectService, codec slug.Codec) *PublicHandler {
	return &PublicHandler{projects: projects, codec: codec}
}

type publishReq struct {
	ProjectURL string `json:"project_url" binding:"required"`
}

type publicView struct {
	Project  any    `json:"project"`
	UserName string `json:"user_name"`
	URL      string `json:"url"`
	Page     any    `json:"page"`
}

var errNotFoundOnSubdomain = apperr.NotFound("not found")

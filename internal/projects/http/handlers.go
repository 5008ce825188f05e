package http

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nepfy/nepfy-backend/internal/api/respond"
	"github.com/nepfy/nepfy-backend/internal/apperr"
	"github.com/nepfy/nepfy-backend/internal/auth"
	"github.com/nepfy/nepfy-backend/internal/projects/domain"
	"github.com/nepfy/nepfy-backend/internal/render"
)

func projectID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respond.BadRequest(c, "invalid project id")
		return uuid.Nil, false
	}
	return id, true
}

// owned resolves the :id parameter and checks the project belongs to the
// caller before its document is touched.
func (h *Handler) owned(c *gin.Context) (*domain.Project, bool) {
	id, ok := projectID(c)
	if !ok {
		return nil, false
	}
	p, err := h.projects.Get(c.Request.Context(), auth.UserFirebaseUID(c), id)
	if err != nil {
		respond.Error(c, err)
		return nil, false
	}
	return p, true
}

func (h *Handler) create(c *gin.Context) {
	var req domain.CreateProjectInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "invalid body: %v", err)
		return
	}

	p, err := h.projects.Create(c.Request.Context(), auth.UserFirebaseUID(c), req)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, http.StatusCreated, p)
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.projects.List(c.Request.Context(), auth.UserFirebaseUID(c))
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, http.StatusOK, items)
}

func (h *Handler) get(c *gin.Context) {
	p, ok := h.owned(c)
	if !ok {
		return
	}
	respond.OK(c, http.StatusOK, p)
}

func (h *Handler) update(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}

	var req domain.UpdateProjectInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "invalid body: %v", err)
		return
	}

	p, err := h.projects.Update(c.Request.Context(), auth.UserFirebaseUID(c), id, req)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, http.StatusOK, p)
}

func (h *Handler) delete(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}
	if err := h.projects.Delete(c.Request.Context(), auth.UserFirebaseUID(c), id); err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, http.StatusOK, nil)
}

func (h *Handler) getProposal(c *gin.Context) {
	p, ok := h.owned(c)
	if !ok {
		return
	}
	doc, err := h.proposals.GetProposalData(c.Request.Context(), p.ID)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, http.StatusOK, doc)
}

func (h *Handler) replaceProposal(c *gin.Context) {
	p, ok := h.owned(c)
	if !ok {
		return
	}

	body, err := c.GetRawData()
	if err != nil || len(body) == 0 {
		respond.BadRequest(c, "proposal document is required")
		return
	}
	doc, err := domain.DecodeDocument(body, p.TemplateType)
	if err != nil {
		respond.Error(c, apperr.Wrap(apperr.KindValidation, err.Error(), err))
		return
	}

	if err := h.proposals.UpdateProposalData(c.Request.Context(), p.ID, doc); err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, http.StatusOK, doc)
}

func (h *Handler) mergeProposal(c *gin.Context) {
	p, ok := h.owned(c)
	if !ok {
		return
	}

	var partial map[string]json.RawMessage
	if err := c.ShouldBindJSON(&partial); err != nil || len(partial) == 0 {
		respond.BadRequest(c, "body must be a non-empty JSON object")
		return
	}

	doc, err := h.proposals.MergeProposalData(c.Request.Context(), p.ID, partial)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, http.StatusOK, doc)
}

func (h *Handler) updateSection(c *gin.Context) {
	p, ok := h.owned(c)
	if !ok {
		return
	}

	key, err := domain.ParseSectionKey(c.Param("section"))
	if err != nil {
		respond.Error(c, apperr.Wrap(apperr.KindValidation, err.Error(), err))
		return
	}

	var raw json.RawMessage
	if err := c.ShouldBindJSON(&raw); err != nil {
		respond.BadRequest(c, "invalid body: %v", err)
		return
	}

	doc, err := h.proposals.UpdateProposalSection(c.Request.Context(), p.ID, key, raw)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, http.StatusOK, doc)
}

func (h *Handler) preview(c *gin.Context) {
	p, ok := h.owned(c)
	if !ok {
		return
	}
	doc, err := h.proposals.GetProposalData(c.Request.Context(), p.ID)
	if err != nil {
		respond.Error(c, err)
		return
	}

	template := doc.Template
	if q := c.Query("template"); q != "" {
		template = domain.TemplateType(q)
		if !template.Valid() {
			respond.BadRequest(c, "template must be one of [flash minimal prime], received %q", q)
			return
		}
	}
	respond.OK(c, http.StatusOK, render.RenderAs(doc, template))
}

func (h *Handler) publish(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}

	var req publishReq
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.BadRequest(c, "project_url is required")
		return
	}

	res, err := h.projects.Publish(c.Request.Context(), auth.UserFirebaseUID(c), id, req.ProjectURL)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, http.StatusOK, res)
}

func (h *Handler) unpublish(c *gin.Context) {
	id, ok := projectID(c)
	if !ok {
		return
	}
	p, err := h.projects.Unpublish(c.Request.Context(), auth.UserFirebaseUID(c), id)
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, http.StatusOK, p)
}

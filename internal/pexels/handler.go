package pexels

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/nepfy/nepfy-backend/internal/api/respond"
	"github.com/nepfy/nepfy-backend/internal/apperr"
)

type Handler struct {
	client *Client
}

// NewHandler accepts a nil client; its routes then answer 501.
func NewHandler(client *Client) *Handler {
	return &Handler{client: client}
}

func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/search", h.search)
}

func (h *Handler) search(c *gin.Context) {
	if h.client == nil {
		respond.Error(c, apperr.NotConfigured("pexels"))
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", strconv.Itoa(DefaultPerPage)))

	res, err := h.client.Search(c.Request.Context(), SearchParams{
		Query:   c.Query("query"),
		Page:    page,
		PerPage: perPage,
	})
	if err != nil {
		respond.Error(c, err)
		return
	}
	respond.OK(c, http.StatusOK, res)
}

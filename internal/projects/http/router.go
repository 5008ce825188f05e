package http

import "github.com/gin-gonic/gin"

// Register attaches project routes to the given router group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("", h.create)
	rg.GET("", h.list)
	rg.GET("/:id", h.get)
	rg.PATCH("/:id", h.update)
	rg.DELETE("/:id", h.delete)

	rg.GET("/:id/proposal", h.getProposal)
	rg.PUT("/:id/proposal", h.replaceProposal)
	rg.PATCH("/:id/proposal", h.mergeProposal)
	rg.PUT("/:id/proposal/sections/:section", h.updateSection)
	rg.GET("/:id/preview", h.preview)

	rg.POST("/:id/publish", h.publish)
	rg.POST("/:id/unpublish", h.unpublish)
}

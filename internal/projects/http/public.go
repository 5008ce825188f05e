package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nepfy/nepfy-backend/internal/api/respond"
	"github.com/nepfy/nepfy-backend/internal/render"
)

// Middleware answers requests addressed to a proposal subdomain of the root
// domain and lets every other host through to the API.
func (h *PublicHandler) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		host := c.Request.Host
		if !h.codec.IsProjectHost(host) {
			c.Next()
			return
		}

		if c.Request.Method != http.MethodGet || c.Request.URL.Path != "/" {
			respond.Error(c, errNotFoundOnSubdomain)
			return
		}
		h.serve(c)
		c.Abort()
	}
}

func (h *PublicHandler) serve(c *gin.Context) {
	pub, err := h.projects.ResolvePublic(c.Request.Context(), c.Request.Host)
	if err != nil {
		respond.Error(c, err)
		return
	}

	respond.OK(c, http.StatusOK, publicView{
		Project:  pub.Project,
		UserName: pub.UserName,
		URL:      h.codec.GenerateURL(pub.UserName, pub.Project.ProjectURL),
		Page:     render.Render(&pub.Document),
	})
}

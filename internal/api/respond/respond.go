// Package respond writes the {success, data|error} envelope every API route
// answers with.
package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nepfy/nepfy-backend/internal/apperr"
	"github.com/nepfy/nepfy-backend/internal/logging"
)

// OK writes a successful response.
func OK(c *gin.Context, status int, data any) {
	if data == nil {
		c.JSON(status, gin.H{"success": true})
		return
	}
	c.JSON(status, gin.H{"success": true, "data": data})
}

// Error maps err to its status code and writes the failure envelope.
// Internal failures are logged; their cause is only exposed outside
// release mode.
func Error(c *gin.Context, err error) {
	status := apperr.HTTPStatus(err)
	if status >= http.StatusInternalServerError && status != http.StatusNotImplemented {
		logging.FromContext(c.Request.Context()).Error("request failed",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", status,
			"err", err,
		)
	}

	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"error":   apperr.PublicMessage(err, Verbose()),
	})
}

// BadRequest is a shortcut for malformed request bodies and parameters.
func BadRequest(c *gin.Context, format string, args ...any) {
	Error(c, apperr.Validation(format, args...))
}

// Verbose reports whether internal error causes may be returned to clients.
func Verbose() bool {
	return gin.Mode() != gin.ReleaseMode
}

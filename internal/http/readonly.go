package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CodeReadOnly marks a write rejected because the server is read-only.
const CodeReadOnly = "read_only"

// ReadOnlyMiddleware rejects every request that could change the store
// with 403. GET, HEAD and OPTIONS always pass.
func ReadOnlyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			c.Next()
			return
		}

		c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{
			Error: "the server is running in read-only mode",
			Code:  CodeReadOnly,
		})
	}
}

package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quote-catalog/internal/adapters/http/dto"
	"github.com/jsamuelsen/quote-catalog/internal/app"
)

// AdminGate returns middleware protecting mutating routes with the single
// operator credential via HTTP basic auth. When the gate is disabled the
// routes are open; the credential check is a courtesy fence, not a security
// boundary.
func AdminGate(admin *app.AdminService, enabled bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !enabled {
			c.Next()
			return
		}

		username, password, ok := c.Request.BasicAuth()
		if !ok {
			c.Header("WWW-Authenticate", `Basic realm="quote-catalog"`)
			dto.AbortWithErrorCode(c, dto.ErrorCodeUnauthorized, "admin credentials required")

			return
		}

		if err := admin.Authenticate(c.Request.Context(), username, password); err != nil {
			c.Header("WWW-Authenticate", `Basic realm="quote-catalog"`)
			dto.AbortWithError(c, err)

			return
		}

		c.Next()
	}
}

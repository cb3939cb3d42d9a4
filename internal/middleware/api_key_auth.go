package middleware

import (
	"github.com/gin-gonic/gin"

	portssvc "github.com/hagglund/bokforing_backend/internal/core/ports/services"
)

// APIKeyAuth authenticates requests carrying an x-api-key header. A missing
// or invalid key is not an error here; the request simply falls through to
// the JWT middleware.
func APIKeyAuth(authSvc portssvc.AuthSvc) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := c.GetHeader("x-api-key")
		if apiKey == "" {
			c.Next()
			return
		}

		userID, err := authSvc.ValidateAPIKey(c.Request.Context(), apiKey)
		if err != nil {
			c.Next()
			return
		}

		c.Set(string(userIDKey), userID)
		c.Set("authMethod", "api_key")
		c.Request = c.Request.WithContext(ContextWithUserID(c.Request.Context(), userID))
		c.Next()
	}
}

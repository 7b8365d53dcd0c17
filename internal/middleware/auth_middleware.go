// internal/middleware/auth_middleware.go
package middleware

import (
	"net/http"
	"strings"

	"parkdesk-service/internal/pkg/response"
	"parkdesk-service/internal/service/auth"

	"github.com/gin-gonic/gin"
)

type AuthMiddleware struct {
	authService *auth.AuthService
}

func NewAuthMiddleware(authService *auth.AuthService) *AuthMiddleware {
	return &AuthMiddleware{authService: authService}
}

// Auth validates the bearer token and stores the operator identity on the
// request context.
func (m *AuthMiddleware) Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			response.Error(c, http.StatusUnauthorized, "missing authorization token", nil)
			return
		}

		claims, err := m.authService.Verify(token)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "invalid or expired token", err)
			return
		}

		c.Set("operator_id", claims.OperatorID)
		c.Set("operator_username", claims.Username)
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

// OperatorUsername returns the authenticated operator's username, if any.
func OperatorUsername(c *gin.Context) (string, bool) {
	v, ok := c.Get("operator_username")
	if !ok {
		return "", false
	}
	username, ok := v.(string)
	return username, ok
}

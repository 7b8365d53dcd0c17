// internal/handlers/auth/auth_handler.go
package auth

import (
	"errors"
	"net/http"

	"parkdesk-service/internal/domain/operator"
	xerrors "parkdesk-service/internal/pkg/errors"
	"parkdesk-service/internal/pkg/response"
	service "parkdesk-service/internal/service/auth"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService *service.AuthService
	logger      *zap.Logger
}

func NewAuthHandler(authService *service.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, logger: logger}
}

// Login authenticates a desk operator and returns an access token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req operator.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid login request", err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, xerrors.ErrUnauthorized) {
			response.Unauthorized(c, "invalid username or password")
			return
		}
		h.logger.Error("login failed", zap.Error(err))
		response.Error(c, http.StatusInternalServerError, "login failed", nil)
		return
	}

	response.Success(c, http.StatusOK, "login successful", result)
}

// internal/handlers/pass/pass_handler.go
package pass

import (
	"errors"
	"net/http"

	"parkdesk-service/internal/domain/pass"
	xerrors "parkdesk-service/internal/pkg/errors"
	"parkdesk-service/internal/pkg/response"
	service "parkdesk-service/internal/service/pass"

	"github.com/gin-gonic/gin"
)

type PassHandler struct {
	passService *service.PassService
}

func NewPassHandler(passService *service.PassService) *PassHandler {
	return &PassHandler{passService: passService}
}

// SellPass creates a new monthly pass.
func (h *PassHandler) SellPass(c *gin.Context) {
	var req pass.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid pass request", err)
		return
	}

	created, err := h.passService.SellPass(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, xerrors.ErrPassAlreadyActive):
			response.Conflict(c, "this vehicle already has an active pass", err)
		case errors.Is(err, xerrors.ErrInvalidInput):
			response.ValidationError(c, "invalid pass request", err)
		default:
			response.Error(c, http.StatusInternalServerError, "failed to sell pass", err)
		}
		return
	}

	response.Success(c, http.StatusCreated, "monthly pass created", created)
}

// ListPasses filters passes by view and free-text search.
func (h *PassHandler) ListPasses(c *gin.Context) {
	var filters pass.ListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.ValidationError(c, "invalid query parameters", err)
		return
	}

	passes, err := h.passService.ListPasses(c.Request.Context(), filters)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to list passes", err)
		return
	}

	response.Success(c, http.StatusOK, "passes retrieved", passes)
}

// Summary returns the dashboard pass counters.
func (h *PassHandler) Summary(c *gin.Context) {
	summary, err := h.passService.Summary(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to summarize passes", err)
		return
	}

	response.Success(c, http.StatusOK, "pass summary retrieved", summary)
}

// ExpireLapsed flips time-lapsed passes to expired status.
func (h *PassHandler) ExpireLapsed(c *gin.Context) {
	count, err := h.passService.ExpireLapsed(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to expire passes", err)
		return
	}

	response.Success(c, http.StatusOK, "lapsed passes expired", gin.H{"expired": count})
}

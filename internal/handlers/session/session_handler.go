// internal/handlers/session/session_handler.go
package session

import (
	"errors"
	"net/http"

	"parkdesk-service/internal/domain/session"
	xerrors "parkdesk-service/internal/pkg/errors"
	"parkdesk-service/internal/pkg/response"
	service "parkdesk-service/internal/service/session"

	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	sessionService *service.SessionService
}

func NewSessionHandler(sessionService *service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// RegisterEntry records a vehicle arrival.
func (h *SessionHandler) RegisterEntry(c *gin.Context) {
	var req session.EntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid entry request", err)
		return
	}

	created, err := h.sessionService.RegisterEntry(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, xerrors.ErrDuplicateEntry):
			response.Conflict(c, "vehicle already has an active parking session", err)
		case errors.Is(err, xerrors.ErrPassClassMismatch):
			response.Conflict(c, "monthly pass covers a different vehicle class", err)
		case errors.Is(err, xerrors.ErrInvalidInput):
			response.ValidationError(c, "invalid entry request", err)
		default:
			response.Error(c, http.StatusInternalServerError, "failed to register entry", err)
		}
		return
	}

	response.Success(c, http.StatusCreated, "vehicle entry registered", created)
}

// ProcessExit completes the active session for a vehicle and returns the
// computed charges.
func (h *SessionHandler) ProcessExit(c *gin.Context) {
	var req session.ExitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid exit request", err)
		return
	}

	completed, err := h.sessionService.ProcessExit(c.Request.Context(), req.VehicleNumber)
	if err != nil {
		switch {
		case errors.Is(err, xerrors.ErrVehicleNotParked):
			response.NotFound(c, "no active parking record found for this vehicle number")
		case errors.Is(err, xerrors.ErrInvalidInput):
			response.ValidationError(c, "invalid exit request", err)
		default:
			response.Error(c, http.StatusInternalServerError, "failed to process exit", err)
		}
		return
	}

	response.Success(c, http.StatusOK, "vehicle exit processed", completed)
}

// ListRecords returns the session history with filters.
func (h *SessionHandler) ListRecords(c *gin.Context) {
	var filters session.ListFilters
	if err := c.ShouldBindQuery(&filters); err != nil {
		response.ValidationError(c, "invalid query parameters", err)
		return
	}

	records, total, err := h.sessionService.ListRecords(c.Request.Context(), filters)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to list records", err)
		return
	}

	response.Success(c, http.StatusOK, "records retrieved", gin.H{
		"records": records,
		"total":   total,
	})
}

// ListParked returns every vehicle currently in the lot.
func (h *SessionHandler) ListParked(c *gin.Context) {
	parked, err := h.sessionService.ListParked(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to list parked vehicles", err)
		return
	}

	response.Success(c, http.StatusOK, "parked vehicles retrieved", parked)
}

// Occupancy returns the dashboard occupancy snapshot.
func (h *SessionHandler) Occupancy(c *gin.Context) {
	summary, err := h.sessionService.Occupancy(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to build occupancy summary", err)
		return
	}

	response.Success(c, http.StatusOK, "occupancy retrieved", summary)
}

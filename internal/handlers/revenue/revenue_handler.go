// internal/handlers/revenue/revenue_handler.go
package revenue

import (
	"net/http"
	"time"

	"parkdesk-service/internal/pkg/response"
	service "parkdesk-service/internal/service/revenue"

	"github.com/gin-gonic/gin"
)

type RevenueHandler struct {
	revenueService *service.RevenueService
}

func NewRevenueHandler(revenueService *service.RevenueService) *RevenueHandler {
	return &RevenueHandler{revenueService: revenueService}
}

// GetNamedWindow serves the convenience windows the dashboard polls:
// today, yesterday, last_7_days, this_month.
func (h *RevenueHandler) GetNamedWindow(c *gin.Context) {
	window := c.Param("window")

	report, err := h.revenueService.ForNamedWindow(c.Request.Context(), window)
	if err != nil {
		response.ValidationError(c, "unknown revenue window", err)
		return
	}

	response.Success(c, http.StatusOK, "revenue retrieved", report)
}

// GetCustomWindow computes revenue over an explicit RFC 3339 window.
func (h *RevenueHandler) GetCustomWindow(c *gin.Context) {
	startStr := c.Query("start")
	endStr := c.Query("end")

	start, err := time.Parse(time.RFC3339, startStr)
	if err != nil {
		response.ValidationError(c, "invalid start time, want RFC 3339", err)
		return
	}
	end, err := time.Parse(time.RFC3339, endStr)
	if err != nil {
		response.ValidationError(c, "invalid end time, want RFC 3339", err)
		return
	}
	if end.Before(start) {
		response.ValidationError(c, "end must not be before start", nil)
		return
	}

	report, err := h.revenueService.ForWindow(c.Request.Context(), start, end)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "failed to compute revenue", err)
		return
	}

	response.Success(c, http.StatusOK, "revenue retrieved", report)
}

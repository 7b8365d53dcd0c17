// internal/domain/pass/dto.go
package pass

// CreateRequest sells a new monthly pass.
type CreateRequest struct {
	VehicleNumber  string `json:"vehicle_number" binding:"required"`
	VehicleClass   string `json:"vehicle_class" binding:"required"`
	OwnerName      string `json:"owner_name" binding:"required"`
	OwnerPhone     string `json:"owner_phone" binding:"required"`
	DurationMonths int    `json:"duration_months"`
}

// ListFilters narrows the pass listing. View is one of
// "active", "expired" or "all" (default).
type ListFilters struct {
	View   string `form:"view"`
	Search string `form:"search"`
}

// Summary are the dashboard pass counters.
type Summary struct {
	ActivePasses int `json:"active_passes"`
	TotalPasses  int `json:"total_passes"`
}

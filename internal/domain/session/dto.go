// internal/domain/session/dto.go
package session

import "time"

// EntryRequest registers a new vehicle arrival.
type EntryRequest struct {
	VehicleNumber string `json:"vehicle_number" binding:"required"`
	VehicleClass  string `json:"vehicle_class" binding:"required"`
	Helmet        bool   `json:"helmet"`
}

// ExitRequest processes a vehicle departure by its number.
type ExitRequest struct {
	VehicleNumber string `json:"vehicle_number" binding:"required"`
}

// ExitFields is the partial update a completed exit writes back to the store.
type ExitFields struct {
	ExitTime      time.Time
	DurationHours int
	AmountDue     int64
	Status        Status
	IsPassHolder  bool
	PassID        *string
	FeeBreakdown  []string
}

// ListFilters narrows the records listing.
type ListFilters struct {
	Status       string `form:"status"`
	VehicleClass string `form:"vehicle_class"`
	Search       string `form:"search"`
	Page         int    `form:"page"`
	PageSize     int    `form:"page_size"`
}

// OccupancySummary is the dashboard snapshot of who is currently parked.
type OccupancySummary struct {
	ActiveVehicles    int            `json:"active_vehicles"`
	ActiveByClass     map[string]int `json:"active_by_class"`
	PassHoldersParked int            `json:"pass_holders_parked"`
	TotalRecords      int            `json:"total_records"`
}

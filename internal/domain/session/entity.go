// internal/domain/session/entity.go
package session

import (
	"time"

	"parkdesk-service/internal/domain/vehicle"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// ParkingSession is one physical stay of a vehicle, from entry to exit.
// VehicleNumber is stored uppercase and acts as the natural key for
// "is this vehicle currently parked": at most one active session may exist
// per vehicle number (enforced by a partial unique index in the store).
type ParkingSession struct {
	ID            string        `json:"id" db:"id"`
	VehicleNumber string        `json:"vehicle_number" db:"vehicle_number"`
	VehicleClass  vehicle.Class `json:"vehicle_class" db:"vehicle_class"`

	EntryTime time.Time  `json:"entry_time" db:"entry_time"`
	ExitTime  *time.Time `json:"exit_time,omitempty" db:"exit_time"`

	// DurationHours is ceil(exit-entry in hours), kept for display and
	// reporting only. Tariff banding works on raw elapsed time.
	DurationHours *int   `json:"duration,omitempty" db:"duration"`
	AmountDue     *int64 `json:"amount_due,omitempty" db:"amount_due"`

	Status       Status   `json:"status" db:"status"`
	IsPassHolder bool     `json:"is_pass_holder" db:"is_pass_holder"`
	PassID       *string  `json:"pass_id,omitempty" db:"pass_id"`
	Helmet       bool     `json:"helmet" db:"helmet"`
	FeeBreakdown []string `json:"fee_breakdown,omitempty" db:"fee_breakdown"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// IsActive reports whether the vehicle is still parked.
func (s *ParkingSession) IsActive() bool {
	return s.Status == StatusActive
}

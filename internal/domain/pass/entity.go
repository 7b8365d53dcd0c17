// internal/domain/pass/entity.go
package pass

import (
	"time"

	"parkdesk-service/internal/domain/vehicle"
)

type Status string

const (
	StatusActive    Status = "active"
	StatusExpired   Status = "expired"
	StatusSuspended Status = "suspended"
)

// MonthlyPass is a prepaid exemption from metered tariffs for one vehicle
// number and one vehicle class. Validity is evaluated by time: a pass is
// usable iff its status is active AND EndDate is strictly after now. The
// persisted status field is only flipped by explicit collaborator actions
// (expiry sweep, manual suspension), never by the matcher.
type MonthlyPass struct {
	ID            string        `json:"id" db:"id"`
	VehicleNumber string        `json:"vehicle_number" db:"vehicle_number"`
	VehicleClass  vehicle.Class `json:"vehicle_class" db:"vehicle_class"`

	OwnerName  string `json:"owner_name" db:"owner_name"`
	OwnerPhone string `json:"owner_phone" db:"owner_phone"`

	StartDate time.Time `json:"start_date" db:"start_date"`
	EndDate   time.Time `json:"end_date" db:"end_date"`
	Amount    int64     `json:"amount" db:"amount"`

	Status     Status     `json:"status" db:"status"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty" db:"last_used_at"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// IsCurrentlyValid reports whether the pass exempts parking charges at now.
func (p *MonthlyPass) IsCurrentlyValid(now time.Time) bool {
	return p.Status == StatusActive && p.EndDate.After(now)
}

// MonthlyRate returns the per-month sale price for a pass class.
func MonthlyRate(class vehicle.Class) int64 {
	switch class {
	case vehicle.ClassCycle:
		return 300
	case vehicle.ClassTwoWheeler:
		return 600
	case vehicle.ClassThreeWheeler:
		return 1200
	case vehicle.ClassFourWheeler:
		return 1500
	}
	return 0
}

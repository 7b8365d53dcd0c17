// internal/domain/pass/matcher.go
package pass

import (
	"strings"
	"time"
)

// FindActivePass returns the currently-valid pass covering vehicleNumber
// under exactly class, or nil. A valid pass on the same number for a
// different class does NOT match; callers pair this with FindAnyActivePass
// to surface the class-mismatch case distinctly.
func FindActivePass(passes []MonthlyPass, vehicleNumber string, class string, now time.Time) *MonthlyPass {
	number := strings.ToUpper(strings.TrimSpace(vehicleNumber))
	for i := range passes {
		p := &passes[i]
		if p.VehicleNumber != number {
			continue
		}
		if string(p.VehicleClass) != class {
			continue
		}
		if p.IsCurrentlyValid(now) {
			return p
		}
	}
	return nil
}

// FindAnyActivePass returns any currently-valid pass for vehicleNumber
// regardless of class, or nil.
func FindAnyActivePass(passes []MonthlyPass, vehicleNumber string, now time.Time) *MonthlyPass {
	number := strings.ToUpper(strings.TrimSpace(vehicleNumber))
	for i := range passes {
		p := &passes[i]
		if p.VehicleNumber != number {
			continue
		}
		if p.IsCurrentlyValid(now) {
			return p
		}
	}
	return nil
}

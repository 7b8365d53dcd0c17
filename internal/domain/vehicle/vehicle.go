// internal/domain/vehicle/vehicle.go
package vehicle

import "fmt"

// Class is the vehicle classification used for tariffs and pass eligibility.
type Class string

const (
	ClassCycle        Class = "cycle"
	ClassTwoWheeler   Class = "two_wheeler"
	ClassThreeWheeler Class = "three_wheeler"
	ClassFourWheeler  Class = "four_wheeler"
)

// Classes lists every supported class in display order.
var Classes = []Class{ClassCycle, ClassTwoWheeler, ClassThreeWheeler, ClassFourWheeler}

// ParseClass validates a raw string coming from the API layer.
func ParseClass(s string) (Class, error) {
	switch Class(s) {
	case ClassCycle, ClassTwoWheeler, ClassThreeWheeler, ClassFourWheeler:
		return Class(s), nil
	}
	return "", fmt.Errorf("unknown vehicle class %q", s)
}

// IsValid reports whether c is one of the supported classes.
func (c Class) IsValid() bool {
	_, err := ParseClass(string(c))
	return err == nil
}

// AllowsHelmet reports whether a helmet can be deposited for this class.
// Only cycles and two-wheelers carry helmets; for every other class the
// helmet flag is forced to false at entry.
func (c Class) AllowsHelmet() bool {
	return c == ClassCycle || c == ClassTwoWheeler
}

// Label returns the human-readable class name used on receipts and passes.
func (c Class) Label() string {
	switch c {
	case ClassCycle:
		return "Cycle"
	case ClassTwoWheeler:
		return "Two-Wheeler"
	case ClassThreeWheeler:
		return "Three-Wheeler"
	case ClassFourWheeler:
		return "Four-Wheeler"
	}
	return string(c)
}

// internal/pkg/clock/clock.go
package clock

import "time"

// Clock is the single source of "now" for the desk services, injected so
// tests can pin time.
type Clock interface {
	Now() time.Time
}

// Real reads the system clock.
type Real struct{}

func (Real) Now() time.Time { return time.Now() }

// Fixed always returns the same instant. Test helper.
type Fixed struct {
	T time.Time
}

func (f Fixed) Now() time.Time { return f.T }

// At builds a Fixed clock at t.
func At(t time.Time) Fixed { return Fixed{T: t} }

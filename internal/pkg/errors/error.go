package xerrors

import (
	"errors"
	"fmt"
)

// Common reusable application errors
var (
	ErrNotFound     = errors.New("resource not found")
	ErrUnauthorized = errors.New("unauthorized access")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict: resource already exists")
	ErrInternal     = errors.New("internal server error")
)

// Expected front-desk business rejections. These are normal outcomes the UI
// branches on, never crashes.
var (
	// ErrDuplicateEntry: the vehicle already has an active parking session.
	ErrDuplicateEntry = errors.New("vehicle already parked")
	// ErrVehicleNotParked: exit requested for a vehicle with no active session.
	ErrVehicleNotParked = errors.New("no active parking record for vehicle")
	// ErrPassAlreadyActive: the vehicle already holds a currently-valid pass.
	ErrPassAlreadyActive = errors.New("vehicle already has an active pass")
	// ErrPassClassMismatch: a valid pass exists but covers a different class.
	ErrPassClassMismatch = errors.New("pass covers a different vehicle class")
)

// PassClassMismatchError names the class the existing pass actually covers
// so the desk operator can be told which class to select.
type PassClassMismatchError struct {
	CoveredClass string
}

func (e *PassClassMismatchError) Error() string {
	return fmt.Sprintf("vehicle holds a monthly pass for class %q; select that class to use it", e.CoveredClass)
}

func (e *PassClassMismatchError) Unwrap() error { return ErrPassClassMismatch }

// Wrap adds context to an error (similar to fmt.Errorf("%w")).
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Is allows checking whether an error is a specific sentinel error.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// Unwrap extracts the underlying wrapped error.
func Unwrap(err error) error {
	return errors.Unwrap(err)
}

// MessageOrDefault returns err.Error() or a fallback message if err is nil.
func MessageOrDefault(err error, fallback string) string {
	if err != nil {
		return err.Error()
	}
	return fallback
}

// internal/domain/session/store.go
package session

import "context"

// Store is the persistence collaborator for parking sessions. The lifecycle
// service supplies full records on Create and exit fields only on Complete.
// The "one active session per vehicle number" invariant is enforced at
// commit by the store (partial unique index on active rows).
type Store interface {
	Create(ctx context.Context, s *ParkingSession) error
	Complete(ctx context.Context, id string, fields ExitFields) (*ParkingSession, error)
	FindActiveByVehicle(ctx context.Context, vehicleNumber string) (*ParkingSession, error)
	List(ctx context.Context, filters ListFilters) ([]ParkingSession, int64, error)
	ListActive(ctx context.Context) ([]ParkingSession, error)
	ListAll(ctx context.Context) ([]ParkingSession, error)
}

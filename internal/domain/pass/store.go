// internal/domain/pass/store.go
package pass

import (
	"context"
	"time"
)

// Store is the persistence collaborator for monthly passes.
type Store interface {
	Create(ctx context.Context, p *MonthlyPass) error
	ListAll(ctx context.Context) ([]MonthlyPass, error)
	ListByVehicle(ctx context.Context, vehicleNumber string) ([]MonthlyPass, error)
	UpdateLastUsed(ctx context.Context, id string, usedAt time.Time) error
	UpdateStatus(ctx context.Context, id string, status Status) error
}

// internal/service/pass/pass_service.go
package pass

import (
	"context"
	"fmt"
	"strings"

	"parkdesk-service/internal/domain/pass"
	"parkdesk-service/internal/domain/vehicle"
	"parkdesk-service/internal/pkg/clock"
	xerrors "parkdesk-service/internal/pkg/errors"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// PassService sells and lists monthly passes. Pass validity during
// entry/exit is the matcher's business; this service owns the sale-time
// rules and the explicit expiry sweep.
type PassService struct {
	passes pass.Store
	clock  clock.Clock
	logger *zap.Logger
}

func NewPassService(passes pass.Store, clk clock.Clock, logger *zap.Logger) *PassService {
	return &PassService{passes: passes, clock: clk, logger: logger}
}

// SellPass creates a new monthly pass. A vehicle that already holds a pass
// with active status is rejected regardless of that pass's end date, same
// as the desk UI does.
func (s *PassService) SellPass(ctx context.Context, req pass.CreateRequest) (*pass.MonthlyPass, error) {
	number := strings.ToUpper(strings.TrimSpace(req.VehicleNumber))
	if number == "" || strings.TrimSpace(req.OwnerName) == "" || strings.TrimSpace(req.OwnerPhone) == "" {
		return nil, fmt.Errorf("%w: vehicle number, owner name and phone required", xerrors.ErrInvalidInput)
	}
	class, err := vehicle.ParseClass(req.VehicleClass)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", xerrors.ErrInvalidInput, err)
	}

	months := req.DurationMonths
	if months <= 0 {
		months = 1
	}
	if months > 12 {
		return nil, fmt.Errorf("%w: pass duration is limited to 12 months", xerrors.ErrInvalidInput)
	}

	existing, err := s.passes.ListByVehicle(ctx, number)
	if err != nil {
		return nil, fmt.Errorf("failed to load passes: %w", err)
	}
	for i := range existing {
		if existing[i].Status == pass.StatusActive {
			return nil, xerrors.ErrPassAlreadyActive
		}
	}

	now := s.clock.Now()
	newPass := &pass.MonthlyPass{
		ID:            ulid.Make().String(),
		VehicleNumber: number,
		VehicleClass:  class,
		OwnerName:     strings.TrimSpace(req.OwnerName),
		OwnerPhone:    strings.TrimSpace(req.OwnerPhone),
		StartDate:     now,
		EndDate:       now.AddDate(0, months, 0),
		Amount:        pass.MonthlyRate(class) * int64(months),
		Status:        pass.StatusActive,
	}

	if err := s.passes.Create(ctx, newPass); err != nil {
		return nil, err
	}

	s.logger.Info("monthly pass sold",
		zap.String("vehicle_number", number),
		zap.String("vehicle_class", string(class)),
		zap.Int("months", months),
		zap.Int64("amount", newPass.Amount),
	)
	return newPass, nil
}

// ListPasses filters the pass collection by view (active, expired, all)
// and a free-text search over vehicle number and owner name.
func (s *PassService) ListPasses(ctx context.Context, filters pass.ListFilters) ([]pass.MonthlyPass, error) {
	all, err := s.passes.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list passes: %w", err)
	}

	now := s.clock.Now()
	var out []pass.MonthlyPass
	search := strings.ToLower(strings.TrimSpace(filters.Search))

	for i := range all {
		p := all[i]
		switch filters.View {
		case "active":
			if !p.IsCurrentlyValid(now) {
				continue
			}
		case "expired":
			if p.Status != pass.StatusExpired && p.EndDate.After(now) {
				continue
			}
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.VehicleNumber), search) &&
			!strings.Contains(strings.ToLower(p.OwnerName), search) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// Summary returns the dashboard pass counters.
func (s *PassService) Summary(ctx context.Context) (*pass.Summary, error) {
	all, err := s.passes.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list passes: %w", err)
	}

	now := s.clock.Now()
	summary := &pass.Summary{TotalPasses: len(all)}
	for i := range all {
		if all[i].IsCurrentlyValid(now) {
			summary.ActivePasses++
		}
	}
	return summary, nil
}

// ExpireLapsed flips time-lapsed active passes to expired status. Explicit
// operator action; nothing in the lifecycle path depends on it, since
// validity is always evaluated by time.
func (s *PassService) ExpireLapsed(ctx context.Context) (int, error) {
	all, err := s.passes.ListAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list passes: %w", err)
	}

	now := s.clock.Now()
	expired := 0
	for i := range all {
		p := &all[i]
		if p.Status != pass.StatusActive || p.EndDate.After(now) {
			continue
		}
		if err := s.passes.UpdateStatus(ctx, p.ID, pass.StatusExpired); err != nil {
			s.logger.Warn("failed to expire pass", zap.String("pass_id", p.ID), zap.Error(err))
			continue
		}
		expired++
	}

	if expired > 0 {
		s.logger.Info("expired lapsed passes", zap.Int("count", expired))
	}
	return expired, nil
}

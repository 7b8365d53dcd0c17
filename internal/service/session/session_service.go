// internal/service/session/session_service.go
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"parkdesk-service/internal/domain/pass"
	"parkdesk-service/internal/domain/session"
	"parkdesk-service/internal/domain/vehicle"
	"parkdesk-service/internal/pkg/clock"
	xerrors "parkdesk-service/internal/pkg/errors"
	"parkdesk-service/internal/tariff"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
)

// OccupancyNotifier pushes the current occupancy snapshot to dashboard
// listeners after every entry and exit. May be nil.
type OccupancyNotifier interface {
	BroadcastOccupancy(summary session.OccupancySummary)
}

// SessionService drives the parking session lifecycle: entry guards, exit
// billing and the single ACTIVE -> COMPLETED transition. It is the only
// writer of session status, exit fields and pass-usage stamps.
type SessionService struct {
	sessions session.Store
	passes   pass.Store
	clock    clock.Clock
	notifier OccupancyNotifier
	logger   *zap.Logger
}

func NewSessionService(
	sessions session.Store,
	passes pass.Store,
	clk clock.Clock,
	notifier OccupancyNotifier,
	logger *zap.Logger,
) *SessionService {
	return &SessionService{
		sessions: sessions,
		passes:   passes,
		clock:    clk,
		notifier: notifier,
		logger:   logger,
	}
}

// RegisterEntry records a vehicle arrival. Guards run in order: duplicate
// active session, then pass class mismatch. The helmet flag only sticks for
// cycles and two-wheelers. A matched exact-class pass marks the session as
// pass-held and stamps the pass's last_used_at.
func (s *SessionService) RegisterEntry(ctx context.Context, req session.EntryRequest) (*session.ParkingSession, error) {
	number := strings.ToUpper(strings.TrimSpace(req.VehicleNumber))
	if number == "" {
		return nil, fmt.Errorf("%w: vehicle number required", xerrors.ErrInvalidInput)
	}
	class, err := vehicle.ParseClass(req.VehicleClass)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", xerrors.ErrInvalidInput, err)
	}

	now := s.clock.Now()

	existing, err := s.sessions.FindActiveByVehicle(ctx, number)
	if err != nil && !errors.Is(err, xerrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to check active session: %w", err)
	}
	if existing != nil {
		return nil, xerrors.ErrDuplicateEntry
	}

	vehiclePasses, err := s.passes.ListByVehicle(ctx, number)
	if err != nil {
		return nil, fmt.Errorf("failed to load passes: %w", err)
	}

	exact := pass.FindActivePass(vehiclePasses, number, string(class), now)
	if exact == nil {
		if other := pass.FindAnyActivePass(vehiclePasses, number, now); other != nil {
			return nil, &xerrors.PassClassMismatchError{CoveredClass: string(other.VehicleClass)}
		}
	}

	newSession := &session.ParkingSession{
		ID:            ulid.Make().String(),
		VehicleNumber: number,
		VehicleClass:  class,
		EntryTime:     now,
		Status:        session.StatusActive,
		IsPassHolder:  exact != nil,
		Helmet:        req.Helmet && class.AllowsHelmet(),
	}
	if exact != nil {
		id := exact.ID
		newSession.PassID = &id
	}

	if err := s.sessions.Create(ctx, newSession); err != nil {
		return nil, err
	}

	if exact != nil {
		s.stampPassUsage(ctx, exact.ID, number)
	}

	s.logger.Info("vehicle entry registered",
		zap.String("vehicle_number", number),
		zap.String("vehicle_class", string(class)),
		zap.Bool("is_pass_holder", newSession.IsPassHolder),
		zap.Bool("helmet", newSession.Helmet),
	)

	s.notifyOccupancy(ctx)
	return newSession, nil
}

// ProcessExit completes the active session for a vehicle. A missing active
// session is the expected ErrVehicleNotParked outcome, never a fault. The
// pass is re-resolved against the session's stored class, not operator
// input: pass holders owe only the helmet surcharge, everyone else gets the
// banded tariff plus the surcharge where a helmet was taken.
func (s *SessionService) ProcessExit(ctx context.Context, vehicleNumber string) (*session.ParkingSession, error) {
	number := strings.ToUpper(strings.TrimSpace(vehicleNumber))
	if number == "" {
		return nil, fmt.Errorf("%w: vehicle number required", xerrors.ErrInvalidInput)
	}

	active, err := s.sessions.FindActiveByVehicle(ctx, number)
	if errors.Is(err, xerrors.ErrNotFound) {
		return nil, xerrors.ErrVehicleNotParked
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find active session: %w", err)
	}

	now := s.clock.Now()

	vehiclePasses, err := s.passes.ListByVehicle(ctx, number)
	if err != nil {
		return nil, fmt.Errorf("failed to load passes: %w", err)
	}
	exact := pass.FindActivePass(vehiclePasses, number, string(active.VehicleClass), now)

	var amount int64
	var breakdown []string

	if exact != nil {
		breakdown = []string{fmt.Sprintf("Monthly pass (%s): ₹0", active.VehicleClass.Label())}
		if active.Helmet {
			surcharge, line := tariff.HelmetSurcharge(active.EntryTime, now)
			if surcharge > 0 {
				amount += surcharge
				breakdown = append(breakdown, line)
			}
		}
	} else {
		charge := tariff.ComputeFare(active.VehicleClass, active.EntryTime, now)
		amount = charge.Amount
		breakdown = charge.Breakdown
		if active.Helmet && active.VehicleClass.AllowsHelmet() {
			surcharge, line := tariff.HelmetSurcharge(active.EntryTime, now)
			if surcharge > 0 {
				amount += surcharge
				breakdown = append(breakdown, line)
			}
		}
	}

	fields := session.ExitFields{
		ExitTime:      now,
		DurationHours: tariff.DurationHours(active.EntryTime, now),
		AmountDue:     amount,
		Status:        session.StatusCompleted,
		IsPassHolder:  exact != nil,
		FeeBreakdown:  breakdown,
	}
	if exact != nil {
		id := exact.ID
		fields.PassID = &id
	}

	completed, err := s.sessions.Complete(ctx, active.ID, fields)
	if err != nil {
		return nil, fmt.Errorf("failed to complete session: %w", err)
	}

	if exact != nil {
		s.stampPassUsage(ctx, exact.ID, number)
	}

	s.logger.Info("vehicle exit processed",
		zap.String("vehicle_number", number),
		zap.Int("duration_hours", fields.DurationHours),
		zap.Int64("amount_due", amount),
		zap.Bool("is_pass_holder", fields.IsPassHolder),
	)

	s.notifyOccupancy(ctx)
	return completed, nil
}

// ListRecords returns the session history with filters and pagination.
func (s *SessionService) ListRecords(ctx context.Context, filters session.ListFilters) ([]session.ParkingSession, int64, error) {
	return s.sessions.List(ctx, filters)
}

// ListParked returns every vehicle currently in the lot.
func (s *SessionService) ListParked(ctx context.Context) ([]session.ParkingSession, error) {
	return s.sessions.ListActive(ctx)
}

// Occupancy builds the dashboard snapshot: active counts per class,
// pass holders parked and the all-time record count.
func (s *SessionService) Occupancy(ctx context.Context) (*session.OccupancySummary, error) {
	all, err := s.sessions.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	summary := &session.OccupancySummary{
		ActiveByClass: make(map[string]int, len(vehicle.Classes)),
		TotalRecords:  len(all),
	}
	for _, c := range vehicle.Classes {
		summary.ActiveByClass[string(c)] = 0
	}
	for i := range all {
		rec := &all[i]
		if !rec.IsActive() {
			continue
		}
		summary.ActiveVehicles++
		summary.ActiveByClass[string(rec.VehicleClass)]++
		if rec.IsPassHolder {
			summary.PassHoldersParked++
		}
	}
	return summary, nil
}

// stampPassUsage records that the pass was presented. Entry/exit has
// already committed at this point, so a failed stamp is logged, not fatal.
func (s *SessionService) stampPassUsage(ctx context.Context, passID, vehicleNumber string) {
	if err := s.passes.UpdateLastUsed(ctx, passID, s.clock.Now()); err != nil {
		s.logger.Warn("failed to stamp pass usage",
			zap.String("pass_id", passID),
			zap.String("vehicle_number", vehicleNumber),
			zap.Error(err),
		)
	}
}

func (s *SessionService) notifyOccupancy(ctx context.Context) {
	if s.notifier == nil {
		return
	}
	summary, err := s.Occupancy(ctx)
	if err != nil {
		s.logger.Warn("failed to build occupancy snapshot", zap.Error(err))
		return
	}
	s.notifier.BroadcastOccupancy(*summary)
}

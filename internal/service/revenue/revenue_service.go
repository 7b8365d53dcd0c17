// internal/service/revenue/revenue_service.go
package revenue

import (
	"context"
	"fmt"
	"time"

	"parkdesk-service/internal/domain/pass"
	"parkdesk-service/internal/domain/session"
	"parkdesk-service/internal/pkg/clock"

	"go.uber.org/zap"
)

// Report is the windowed revenue split. Metered revenue counts completed
// non-pass-holder sessions whose exit falls inside the window; pass sales
// count passes created inside the window. Pass-holder sessions are excluded
// from metered revenue even when a helmet surcharge left them with a
// non-zero amount due, matching the source dashboard.
type Report struct {
	Window           string    `json:"window,omitempty"`
	Start            time.Time `json:"start"`
	End              time.Time `json:"end"`
	MeteredRevenue   int64     `json:"metered_revenue"`
	PassSalesRevenue int64     `json:"pass_sales_revenue"`
	TotalRevenue     int64     `json:"total_revenue"`
}

// RevenueService derives reporting figures by scanning the completed
// session and pass collections. Convenience windows are cached in redis
// with a short TTL since the dashboard polls them continuously.
type RevenueService struct {
	sessions session.Store
	passes   pass.Store
	clock    clock.Clock
	cache    *ReportCache
	logger   *zap.Logger
}

func NewRevenueService(
	sessions session.Store,
	passes pass.Store,
	clk clock.Clock,
	cache *ReportCache,
	logger *zap.Logger,
) *RevenueService {
	return &RevenueService{
		sessions: sessions,
		passes:   passes,
		clock:    clk,
		cache:    cache,
		logger:   logger,
	}
}

// ForWindow computes the revenue split over the inclusive window
// [start, end].
func (s *RevenueService) ForWindow(ctx context.Context, start, end time.Time) (*Report, error) {
	sessions, err := s.sessions.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	passes, err := s.passes.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list passes: %w", err)
	}
	return Aggregate(sessions, passes, start, end), nil
}

// Aggregate is the pure windowed sum over in-memory collections.
func Aggregate(sessions []session.ParkingSession, passes []pass.MonthlyPass, start, end time.Time) *Report {
	report := &Report{Start: start, End: end}

	for i := range sessions {
		rec := &sessions[i]
		if rec.Status != session.StatusCompleted || rec.ExitTime == nil || rec.AmountDue == nil {
			continue
		}
		if rec.IsPassHolder {
			continue
		}
		if inWindow(*rec.ExitTime, start, end) {
			report.MeteredRevenue += *rec.AmountDue
		}
	}

	for i := range passes {
		p := &passes[i]
		if inWindow(p.CreatedAt, start, end) {
			report.PassSalesRevenue += p.Amount
		}
	}

	report.TotalRevenue = report.MeteredRevenue + report.PassSalesRevenue
	return report
}

func inWindow(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}

// Named convenience windows, derived from local midnight boundaries.
const (
	WindowToday     = "today"
	WindowYesterday = "yesterday"
	WindowLast7Days = "last_7_days"
	WindowThisMonth = "this_month"
)

// ForNamedWindow resolves a convenience window against the injected clock
// and delegates to the same windowed sum, consulting the cache first.
func (s *RevenueService) ForNamedWindow(ctx context.Context, window string) (*Report, error) {
	start, end, err := s.windowBounds(window)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, window); ok {
			return cached, nil
		}
	}

	report, err := s.ForWindow(ctx, start, end)
	if err != nil {
		return nil, err
	}
	report.Window = window

	if s.cache != nil {
		s.cache.Set(ctx, window, report)
	}
	return report, nil
}

// windowBounds maps a window name to its inclusive [start, end] span.
// Day windows run midnight to just before the next midnight in local time.
func (s *RevenueService) windowBounds(window string) (time.Time, time.Time, error) {
	now := s.clock.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := func(start time.Time) time.Time {
		return start.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}

	switch window {
	case WindowToday:
		return midnight, dayEnd(midnight), nil
	case WindowYesterday:
		start := midnight.AddDate(0, 0, -1)
		return start, dayEnd(start), nil
	case WindowLast7Days:
		return midnight.AddDate(0, 0, -6), dayEnd(midnight), nil
	case WindowThisMonth:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return start, dayEnd(midnight), nil
	}
	return time.Time{}, time.Time{}, fmt.Errorf("unknown revenue window %q", window)
}

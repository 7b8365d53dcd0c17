// internal/service/session/session_service_test.go
package session

import (
	"context"
	"testing"
	"time"

	"parkdesk-service/internal/domain/pass"
	"parkdesk-service/internal/domain/session"
	"parkdesk-service/internal/domain/vehicle"
	xerrors "parkdesk-service/internal/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memSessionStore is an in-memory session.Store for service tests.
type memSessionStore struct {
	sessions []session.ParkingSession
}

func (m *memSessionStore) Create(_ context.Context, s *session.ParkingSession) error {
	for i := range m.sessions {
		if m.sessions[i].VehicleNumber == s.VehicleNumber && m.sessions[i].IsActive() {
			return xerrors.ErrDuplicateEntry
		}
	}
	m.sessions = append(m.sessions, *s)
	return nil
}

func (m *memSessionStore) Complete(_ context.Context, id string, fields session.ExitFields) (*session.ParkingSession, error) {
	for i := range m.sessions {
		if m.sessions[i].ID != id || !m.sessions[i].IsActive() {
			continue
		}
		s := &m.sessions[i]
		exitTime := fields.ExitTime
		duration := fields.DurationHours
		amount := fields.AmountDue
		s.ExitTime = &exitTime
		s.DurationHours = &duration
		s.AmountDue = &amount
		s.Status = fields.Status
		s.IsPassHolder = fields.IsPassHolder
		s.PassID = fields.PassID
		s.FeeBreakdown = fields.FeeBreakdown
		out := *s
		return &out, nil
	}
	return nil, xerrors.ErrNotFound
}

func (m *memSessionStore) FindActiveByVehicle(_ context.Context, vehicleNumber string) (*session.ParkingSession, error) {
	for i := range m.sessions {
		if m.sessions[i].VehicleNumber == vehicleNumber && m.sessions[i].IsActive() {
			out := m.sessions[i]
			return &out, nil
		}
	}
	return nil, xerrors.ErrNotFound
}

func (m *memSessionStore) List(_ context.Context, _ session.ListFilters) ([]session.ParkingSession, int64, error) {
	return m.sessions, int64(len(m.sessions)), nil
}

func (m *memSessionStore) ListActive(_ context.Context) ([]session.ParkingSession, error) {
	var out []session.ParkingSession
	for i := range m.sessions {
		if m.sessions[i].IsActive() {
			out = append(out, m.sessions[i])
		}
	}
	return out, nil
}

func (m *memSessionStore) ListAll(_ context.Context) ([]session.ParkingSession, error) {
	return m.sessions, nil
}

// memPassStore is an in-memory pass.Store for service tests.
type memPassStore struct {
	passes   []pass.MonthlyPass
	lastUsed map[string]time.Time
}

func (m *memPassStore) Create(_ context.Context, p *pass.MonthlyPass) error {
	m.passes = append(m.passes, *p)
	return nil
}

func (m *memPassStore) ListAll(_ context.Context) ([]pass.MonthlyPass, error) {
	return m.passes, nil
}

func (m *memPassStore) ListByVehicle(_ context.Context, vehicleNumber string) ([]pass.MonthlyPass, error) {
	var out []pass.MonthlyPass
	for i := range m.passes {
		if m.passes[i].VehicleNumber == vehicleNumber {
			out = append(out, m.passes[i])
		}
	}
	return out, nil
}

func (m *memPassStore) UpdateLastUsed(_ context.Context, id string, usedAt time.Time) error {
	if m.lastUsed == nil {
		m.lastUsed = make(map[string]time.Time)
	}
	m.lastUsed[id] = usedAt
	return nil
}

func (m *memPassStore) UpdateStatus(_ context.Context, id string, status pass.Status) error {
	for i := range m.passes {
		if m.passes[i].ID == id {
			m.passes[i].Status = status
			return nil
		}
	}
	return xerrors.ErrNotFound
}

// stepClock lets a test advance time between entry and exit.
type stepClock struct {
	t time.Time
}

func (c *stepClock) Now() time.Time { return c.t }

type recordingNotifier struct {
	snapshots []session.OccupancySummary
}

func (n *recordingNotifier) BroadcastOccupancy(summary session.OccupancySummary) {
	n.snapshots = append(n.snapshots, summary)
}

func newTestService(sessions *memSessionStore, passes *memPassStore, clk *stepClock) *SessionService {
	return NewSessionService(sessions, passes, clk, nil, zap.NewNop())
}

var entryAt = time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)

func TestRegisterEntry(t *testing.T) {
	ctx := context.Background()

	t.Run("creates active session with normalized vehicle number", func(t *testing.T) {
		svc := newTestService(&memSessionStore{}, &memPassStore{}, &stepClock{t: entryAt})

		created, err := svc.RegisterEntry(ctx, session.EntryRequest{
			VehicleNumber: "  ka05mn7890 ",
			VehicleClass:  "two_wheeler",
			Helmet:        true,
		})
		require.NoError(t, err)

		assert.Equal(t, "KA05MN7890", created.VehicleNumber)
		assert.Equal(t, vehicle.ClassTwoWheeler, created.VehicleClass)
		assert.Equal(t, session.StatusActive, created.Status)
		assert.Equal(t, entryAt, created.EntryTime)
		assert.True(t, created.Helmet)
		assert.False(t, created.IsPassHolder)
		assert.NotEmpty(t, created.ID)
	})

	t.Run("rejects second entry for an already parked vehicle", func(t *testing.T) {
		svc := newTestService(&memSessionStore{}, &memPassStore{}, &stepClock{t: entryAt})

		_, err := svc.RegisterEntry(ctx, session.EntryRequest{VehicleNumber: "KA05MN7890", VehicleClass: "two_wheeler"})
		require.NoError(t, err)

		_, err = svc.RegisterEntry(ctx, session.EntryRequest{VehicleNumber: "ka05mn7890", VehicleClass: "four_wheeler"})
		assert.ErrorIs(t, err, xerrors.ErrDuplicateEntry)
	})

	t.Run("helmet flag is dropped for classes that cannot carry one", func(t *testing.T) {
		svc := newTestService(&memSessionStore{}, &memPassStore{}, &stepClock{t: entryAt})

		created, err := svc.RegisterEntry(ctx, session.EntryRequest{
			VehicleNumber: "KA09XY1111",
			VehicleClass:  "four_wheeler",
			Helmet:        true,
		})
		require.NoError(t, err)
		assert.False(t, created.Helmet)
	})

	t.Run("rejects unknown vehicle class", func(t *testing.T) {
		svc := newTestService(&memSessionStore{}, &memPassStore{}, &stepClock{t: entryAt})

		_, err := svc.RegisterEntry(ctx, session.EntryRequest{VehicleNumber: "KA09XY1111", VehicleClass: "bus"})
		assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
	})

	t.Run("rejects blank vehicle number", func(t *testing.T) {
		svc := newTestService(&memSessionStore{}, &memPassStore{}, &stepClock{t: entryAt})

		_, err := svc.RegisterEntry(ctx, session.EntryRequest{VehicleNumber: "   ", VehicleClass: "cycle"})
		assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
	})

	t.Run("matching pass marks the session and stamps usage", func(t *testing.T) {
		passes := &memPassStore{passes: []pass.MonthlyPass{{
			ID:            "pass-1",
			VehicleNumber: "KA05MN7890",
			VehicleClass:  vehicle.ClassTwoWheeler,
			Status:        pass.StatusActive,
			EndDate:       entryAt.AddDate(0, 1, 0),
		}}}
		svc := newTestService(&memSessionStore{}, passes, &stepClock{t: entryAt})

		created, err := svc.RegisterEntry(ctx, session.EntryRequest{VehicleNumber: "KA05MN7890", VehicleClass: "two_wheeler"})
		require.NoError(t, err)

		assert.True(t, created.IsPassHolder)
		require.NotNil(t, created.PassID)
		assert.Equal(t, "pass-1", *created.PassID)
		assert.Equal(t, entryAt, passes.lastUsed["pass-1"])
	})

	t.Run("pass for a different class is rejected, not ignored", func(t *testing.T) {
		passes := &memPassStore{passes: []pass.MonthlyPass{{
			ID:            "pass-2",
			VehicleNumber: "KA05MN7890",
			VehicleClass:  vehicle.ClassTwoWheeler,
			Status:        pass.StatusActive,
			EndDate:       entryAt.AddDate(0, 1, 0),
		}}}
		svc := newTestService(&memSessionStore{}, passes, &stepClock{t: entryAt})

		_, err := svc.RegisterEntry(ctx, session.EntryRequest{VehicleNumber: "KA05MN7890", VehicleClass: "four_wheeler"})
		assert.ErrorIs(t, err, xerrors.ErrPassClassMismatch)

		var mismatch *xerrors.PassClassMismatchError
		require.ErrorAs(t, err, &mismatch)
		assert.Equal(t, "two_wheeler", mismatch.CoveredClass)
	})

	t.Run("expired pass is treated as no pass", func(t *testing.T) {
		passes := &memPassStore{passes: []pass.MonthlyPass{{
			ID:            "pass-3",
			VehicleNumber: "KA05MN7890",
			VehicleClass:  vehicle.ClassTwoWheeler,
			Status:        pass.StatusActive,
			EndDate:       entryAt.AddDate(0, 0, -1),
		}}}
		svc := newTestService(&memSessionStore{}, passes, &stepClock{t: entryAt})

		created, err := svc.RegisterEntry(ctx, session.EntryRequest{VehicleNumber: "KA05MN7890", VehicleClass: "four_wheeler"})
		require.NoError(t, err)
		assert.False(t, created.IsPassHolder)
	})

	t.Run("broadcasts occupancy after entry", func(t *testing.T) {
		notifier := &recordingNotifier{}
		svc := NewSessionService(&memSessionStore{}, &memPassStore{}, &stepClock{t: entryAt}, notifier, zap.NewNop())

		_, err := svc.RegisterEntry(ctx, session.EntryRequest{VehicleNumber: "KA05MN7890", VehicleClass: "cycle"})
		require.NoError(t, err)

		require.Len(t, notifier.snapshots, 1)
		assert.Equal(t, 1, notifier.snapshots[0].ActiveVehicles)
		assert.Equal(t, 1, notifier.snapshots[0].ActiveByClass["cycle"])
	})
}

func TestProcessExit(t *testing.T) {
	ctx := context.Background()

	t.Run("vehicle not parked", func(t *testing.T) {
		svc := newTestService(&memSessionStore{}, &memPassStore{}, &stepClock{t: entryAt})

		_, err := svc.ProcessExit(ctx, "KA99ZZ9999")
		assert.ErrorIs(t, err, xerrors.ErrVehicleNotParked)
	})

	t.Run("metered exit bills the banded tariff", func(t *testing.T) {
		clk := &stepClock{t: entryAt}
		svc := newTestService(&memSessionStore{}, &memPassStore{}, clk)

		_, err := svc.RegisterEntry(ctx, session.EntryRequest{VehicleNumber: "KA09XY1111", VehicleClass: "four_wheeler"})
		require.NoError(t, err)

		clk.t = entryAt.Add(5 * time.Hour)
		completed, err := svc.ProcessExit(ctx, "ka09xy1111")
		require.NoError(t, err)

		assert.Equal(t, session.StatusCompleted, completed.Status)
		require.NotNil(t, completed.AmountDue)
		assert.Equal(t, int64(40), *completed.AmountDue)
		require.NotNil(t, completed.DurationHours)
		assert.Equal(t, 5, *completed.DurationHours)
		assert.Equal(t, []string{"0–6 hrs: ₹40"}, completed.FeeBreakdown)
		require.NotNil(t, completed.ExitTime)
		assert.Equal(t, clk.t, *completed.ExitTime)
	})

	t.Run("helmet surcharge is added on top of the tariff", func(t *testing.T) {
		clk := &stepClock{t: entryAt}
		svc := newTestService(&memSessionStore{}, &memPassStore{}, clk)

		_, err := svc.RegisterEntry(ctx, session.EntryRequest{
			VehicleNumber: "KA05MN7890",
			VehicleClass:  "two_wheeler",
			Helmet:        true,
		})
		require.NoError(t, err)

		clk.t = entryAt.Add(10 * time.Hour)
		completed, err := svc.ProcessExit(ctx, "KA05MN7890")
		require.NoError(t, err)

		require.NotNil(t, completed.AmountDue)
		assert.Equal(t, int64(32), *completed.AmountDue)
		assert.Equal(t, []string{"6–12 hrs: ₹30", "Helmet (1 day(s)): ₹2"}, completed.FeeBreakdown)
	})

	t.Run("pass holder owes only the helmet surcharge", func(t *testing.T) {
		clk := &stepClock{t: entryAt}
		passes := &memPassStore{passes: []pass.MonthlyPass{{
			ID:            "pass-1",
			VehicleNumber: "KA05MN7890",
			VehicleClass:  vehicle.ClassTwoWheeler,
			Status:        pass.StatusActive,
			EndDate:       entryAt.AddDate(0, 1, 0),
		}}}
		svc := newTestService(&memSessionStore{}, passes, clk)

		_, err := svc.RegisterEntry(ctx, session.EntryRequest{
			VehicleNumber: "KA05MN7890",
			VehicleClass:  "two_wheeler",
			Helmet:        true,
		})
		require.NoError(t, err)

		clk.t = entryAt.Add(10 * time.Hour)
		completed, err := svc.ProcessExit(ctx, "KA05MN7890")
		require.NoError(t, err)

		assert.True(t, completed.IsPassHolder)
		require.NotNil(t, completed.AmountDue)
		assert.Equal(t, int64(2), *completed.AmountDue)
		assert.Equal(t, []string{"Monthly pass (Two-Wheeler): ₹0", "Helmet (1 day(s)): ₹2"}, completed.FeeBreakdown)
	})

	t.Run("pass holder without helmet owes nothing", func(t *testing.T) {
		clk := &stepClock{t: entryAt}
		passes := &memPassStore{passes: []pass.MonthlyPass{{
			ID:            "pass-1",
			VehicleNumber: "KA11AA2222",
			VehicleClass:  vehicle.ClassFourWheeler,
			Status:        pass.StatusActive,
			EndDate:       entryAt.AddDate(0, 1, 0),
		}}}
		svc := newTestService(&memSessionStore{}, passes, clk)

		_, err := svc.RegisterEntry(ctx, session.EntryRequest{VehicleNumber: "KA11AA2222", VehicleClass: "four_wheeler"})
		require.NoError(t, err)

		clk.t = entryAt.Add(30 * time.Hour)
		completed, err := svc.ProcessExit(ctx, "KA11AA2222")
		require.NoError(t, err)

		require.NotNil(t, completed.AmountDue)
		assert.Equal(t, int64(0), *completed.AmountDue)
		assert.Equal(t, []string{"Monthly pass (Four-Wheeler): ₹0"}, completed.FeeBreakdown)
	})

	t.Run("pass lapsing mid-stay reverts the exit to metered billing", func(t *testing.T) {
		clk := &stepClock{t: entryAt}
		passes := &memPassStore{passes: []pass.MonthlyPass{{
			ID:            "pass-1",
			VehicleNumber: "KA05MN7890",
			VehicleClass:  vehicle.ClassTwoWheeler,
			Status:        pass.StatusActive,
			EndDate:       entryAt.Add(2 * time.Hour),
		}}}
		svc := newTestService(&memSessionStore{}, passes, clk)

		created, err := svc.RegisterEntry(ctx, session.EntryRequest{VehicleNumber: "KA05MN7890", VehicleClass: "two_wheeler"})
		require.NoError(t, err)
		assert.True(t, created.IsPassHolder)

		clk.t = entryAt.Add(10 * time.Hour)
		completed, err := svc.ProcessExit(ctx, "KA05MN7890")
		require.NoError(t, err)

		assert.False(t, completed.IsPassHolder)
		require.NotNil(t, completed.AmountDue)
		assert.Equal(t, int64(30), *completed.AmountDue)
		assert.Equal(t, []string{"6–12 hrs: ₹30"}, completed.FeeBreakdown)
	})

	t.Run("vehicle can re-enter after exiting", func(t *testing.T) {
		clk := &stepClock{t: entryAt}
		svc := newTestService(&memSessionStore{}, &memPassStore{}, clk)

		_, err := svc.RegisterEntry(ctx, session.EntryRequest{VehicleNumber: "KA05MN7890", VehicleClass: "cycle"})
		require.NoError(t, err)

		clk.t = entryAt.Add(time.Hour)
		_, err = svc.ProcessExit(ctx, "KA05MN7890")
		require.NoError(t, err)

		clk.t = entryAt.Add(2 * time.Hour)
		again, err := svc.RegisterEntry(ctx, session.EntryRequest{VehicleNumber: "KA05MN7890", VehicleClass: "cycle"})
		require.NoError(t, err)
		assert.Equal(t, session.StatusActive, again.Status)
	})
}

func TestOccupancy(t *testing.T) {
	ctx := context.Background()
	clk := &stepClock{t: entryAt}
	svc := newTestService(&memSessionStore{}, &memPassStore{}, clk)

	for _, e := range []struct {
		number string
		class  string
	}{
		{"KA01AA0001", "cycle"},
		{"KA01AA0002", "two_wheeler"},
		{"KA01AA0003", "two_wheeler"},
		{"KA01AA0004", "four_wheeler"},
	} {
		_, err := svc.RegisterEntry(ctx, session.EntryRequest{VehicleNumber: e.number, VehicleClass: e.class})
		require.NoError(t, err)
	}

	clk.t = entryAt.Add(time.Hour)
	_, err := svc.ProcessExit(ctx, "KA01AA0004")
	require.NoError(t, err)

	summary, err := svc.Occupancy(ctx)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.ActiveVehicles)
	assert.Equal(t, 4, summary.TotalRecords)
	assert.Equal(t, map[string]int{
		"cycle":         1,
		"two_wheeler":   2,
		"three_wheeler": 0,
		"four_wheeler":  0,
	}, summary.ActiveByClass)
	assert.Equal(t, 0, summary.PassHoldersParked)
}

func TestProcessExit_StampsPassUsageAtExitTime(t *testing.T) {
	ctx := context.Background()
	clk := &stepClock{t: entryAt}
	passes := &memPassStore{passes: []pass.MonthlyPass{{
		ID:            "pass-1",
		VehicleNumber: "KA05MN7890",
		VehicleClass:  vehicle.ClassTwoWheeler,
		Status:        pass.StatusActive,
		EndDate:       entryAt.AddDate(0, 1, 0),
	}}}
	svc := newTestService(&memSessionStore{}, passes, clk)

	_, err := svc.RegisterEntry(ctx, session.EntryRequest{VehicleNumber: "KA05MN7890", VehicleClass: "two_wheeler"})
	require.NoError(t, err)

	clk.t = entryAt.Add(3 * time.Hour)
	_, err = svc.ProcessExit(ctx, "KA05MN7890")
	require.NoError(t, err)

	assert.Equal(t, clk.t, passes.lastUsed["pass-1"])
}

// internal/service/pass/pass_service_test.go
package pass

import (
	"context"
	"testing"
	"time"

	"parkdesk-service/internal/domain/pass"
	"parkdesk-service/internal/domain/vehicle"
	"parkdesk-service/internal/pkg/clock"
	xerrors "parkdesk-service/internal/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memPassStore is an in-memory pass.Store for service tests.
type memPassStore struct {
	passes []pass.MonthlyPass
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
	for i := range m.passes {
		if m.passes[i].ID == id {
			t := usedAt
			m.passes[i].LastUsedAt = &t
			return nil
		}
	}
	return xerrors.ErrNotFound
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

var saleAt = time.Date(2026, 3, 10, 10, 0, 0, 0, time.Local)

func newTestService(store *memPassStore) *PassService {
	return NewPassService(store, clock.At(saleAt), zap.NewNop())
}

func TestSellPass(t *testing.T) {
	ctx := context.Background()

	t.Run("prices one month at the class rate", func(t *testing.T) {
		svc := newTestService(&memPassStore{})

		sold, err := svc.SellPass(ctx, pass.CreateRequest{
			VehicleNumber: " ka05mn7890 ",
			VehicleClass:  "two_wheeler",
			OwnerName:     "Asha Rao",
			OwnerPhone:    "9876543210",
		})
		require.NoError(t, err)

		assert.Equal(t, "KA05MN7890", sold.VehicleNumber)
		assert.Equal(t, vehicle.ClassTwoWheeler, sold.VehicleClass)
		assert.Equal(t, int64(600), sold.Amount)
		assert.Equal(t, pass.StatusActive, sold.Status)
		assert.Equal(t, saleAt, sold.StartDate)
		assert.Equal(t, saleAt.AddDate(0, 1, 0), sold.EndDate)
	})

	t.Run("multi-month price is rate times months", func(t *testing.T) {
		svc := newTestService(&memPassStore{})

		sold, err := svc.SellPass(ctx, pass.CreateRequest{
			VehicleNumber:  "KA07PQ4321",
			VehicleClass:   "four_wheeler",
			OwnerName:      "Ravi Kumar",
			OwnerPhone:     "9000011111",
			DurationMonths: 3,
		})
		require.NoError(t, err)

		assert.Equal(t, int64(4500), sold.Amount)
		assert.Equal(t, saleAt.AddDate(0, 3, 0), sold.EndDate)
	})

	t.Run("rejects more than twelve months", func(t *testing.T) {
		svc := newTestService(&memPassStore{})

		_, err := svc.SellPass(ctx, pass.CreateRequest{
			VehicleNumber:  "KA07PQ4321",
			VehicleClass:   "cycle",
			OwnerName:      "Ravi Kumar",
			OwnerPhone:     "9000011111",
			DurationMonths: 13,
		})
		assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
	})

	t.Run("rejects sale while a pass with active status exists", func(t *testing.T) {
		store := &memPassStore{passes: []pass.MonthlyPass{{
			ID:            "pass-1",
			VehicleNumber: "KA05MN7890",
			VehicleClass:  vehicle.ClassTwoWheeler,
			Status:        pass.StatusActive,
			// Lapsed by date but never swept; the sale guard looks at
			// status only.
			EndDate: saleAt.AddDate(0, -1, 0),
		}}}
		svc := newTestService(store)

		_, err := svc.SellPass(ctx, pass.CreateRequest{
			VehicleNumber: "ka05mn7890",
			VehicleClass:  "two_wheeler",
			OwnerName:     "Asha Rao",
			OwnerPhone:    "9876543210",
		})
		assert.ErrorIs(t, err, xerrors.ErrPassAlreadyActive)
	})

	t.Run("expired-status pass does not block a new sale", func(t *testing.T) {
		store := &memPassStore{passes: []pass.MonthlyPass{{
			ID:            "pass-1",
			VehicleNumber: "KA05MN7890",
			VehicleClass:  vehicle.ClassTwoWheeler,
			Status:        pass.StatusExpired,
			EndDate:       saleAt.AddDate(0, -1, 0),
		}}}
		svc := newTestService(store)

		sold, err := svc.SellPass(ctx, pass.CreateRequest{
			VehicleNumber: "KA05MN7890",
			VehicleClass:  "two_wheeler",
			OwnerName:     "Asha Rao",
			OwnerPhone:    "9876543210",
		})
		require.NoError(t, err)
		assert.Equal(t, pass.StatusActive, sold.Status)
	})

	t.Run("rejects missing owner fields", func(t *testing.T) {
		svc := newTestService(&memPassStore{})

		_, err := svc.SellPass(ctx, pass.CreateRequest{
			VehicleNumber: "KA05MN7890",
			VehicleClass:  "two_wheeler",
			OwnerName:     "  ",
			OwnerPhone:    "9876543210",
		})
		assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
	})
}

func seedPasses() *memPassStore {
	return &memPassStore{passes: []pass.MonthlyPass{
		{
			ID:            "pass-valid",
			VehicleNumber: "KA05MN7890",
			OwnerName:     "Asha Rao",
			Status:        pass.StatusActive,
			EndDate:       saleAt.AddDate(0, 1, 0),
		},
		{
			ID:            "pass-lapsed",
			VehicleNumber: "KA07PQ4321",
			OwnerName:     "Ravi Kumar",
			Status:        pass.StatusActive,
			EndDate:       saleAt.AddDate(0, 0, -3),
		},
		{
			ID:            "pass-swept",
			VehicleNumber: "KA09XY1111",
			OwnerName:     "Meena Joshi",
			Status:        pass.StatusExpired,
			EndDate:       saleAt.AddDate(0, -2, 0),
		},
	}}
}

func TestListPasses(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(seedPasses())

	t.Run("active view requires validity by time", func(t *testing.T) {
		out, err := svc.ListPasses(ctx, pass.ListFilters{View: "active"})
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, "pass-valid", out[0].ID)
	})

	t.Run("expired view includes lapsed-but-unswept passes", func(t *testing.T) {
		out, err := svc.ListPasses(ctx, pass.ListFilters{View: "expired"})
		require.NoError(t, err)
		require.Len(t, out, 2)
		assert.Equal(t, "pass-lapsed", out[0].ID)
		assert.Equal(t, "pass-swept", out[1].ID)
	})

	t.Run("search matches owner name case-insensitively", func(t *testing.T) {
		out, err := svc.ListPasses(ctx, pass.ListFilters{Search: "ravi"})
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, "pass-lapsed", out[0].ID)
	})

	t.Run("search matches vehicle number", func(t *testing.T) {
		out, err := svc.ListPasses(ctx, pass.ListFilters{Search: "ka09"})
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, "pass-swept", out[0].ID)
	})
}

func TestSummary(t *testing.T) {
	svc := newTestService(seedPasses())

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, summary.ActivePasses)
	assert.Equal(t, 3, summary.TotalPasses)
}

func TestExpireLapsed(t *testing.T) {
	ctx := context.Background()
	store := seedPasses()
	svc := newTestService(store)

	expired, err := svc.ExpireLapsed(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, expired)

	// The lapsed pass was swept, the still-valid one untouched.
	out, listErr := svc.ListPasses(ctx, pass.ListFilters{View: "active"})
	require.NoError(t, listErr)
	require.Len(t, out, 1)
	assert.Equal(t, "pass-valid", out[0].ID)

	for _, p := range store.passes {
		if p.ID == "pass-lapsed" {
			assert.Equal(t, pass.StatusExpired, p.Status)
		}
	}

	// A second sweep finds nothing left to expire.
	expired, err = svc.ExpireLapsed(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, expired)
}

// internal/repository/postgres/monthly_pass_repo.go
package postgres

import (
	"context"
	"fmt"
	"time"

	"parkdesk-service/internal/domain/pass"
	xerrors "parkdesk-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MonthlyPassRepository struct {
	db *pgxpool.Pool
}

func NewMonthlyPassRepository(db *pgxpool.Pool) *MonthlyPassRepository {
	return &MonthlyPassRepository{db: db}
}

const passColumns = `
	id, vehicle_number, vehicle_class, owner_name, owner_phone,
	start_date, end_date, amount, status, last_used_at, created_at, updated_at
`

func scanPass(row pgx.Row) (*pass.MonthlyPass, error) {
	var p pass.MonthlyPass
	err := row.Scan(
		&p.ID, &p.VehicleNumber, &p.VehicleClass, &p.OwnerName, &p.OwnerPhone,
		&p.StartDate, &p.EndDate, &p.Amount, &p.Status, &p.LastUsedAt,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *MonthlyPassRepository) Create(ctx context.Context, p *pass.MonthlyPass) error {
	query := `
		INSERT INTO monthly_passes (
			id, vehicle_number, vehicle_class, owner_name, owner_phone,
			start_date, end_date, amount, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		p.ID, p.VehicleNumber, p.VehicleClass, p.OwnerName, p.OwnerPhone,
		p.StartDate, p.EndDate, p.Amount, p.Status,
	).Scan(&p.CreatedAt, &p.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create monthly pass: %w", err)
	}
	return nil
}

// ListAll returns the full pass collection, newest sale first. The matcher
// and the revenue aggregator both scan this collection in memory.
func (r *MonthlyPassRepository) ListAll(ctx context.Context) ([]pass.MonthlyPass, error) {
	query := `
		SELECT ` + passColumns + `
		FROM monthly_passes
		ORDER BY start_date DESC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list passes: %w", err)
	}
	defer rows.Close()
	return collectPasses(rows)
}

func (r *MonthlyPassRepository) ListByVehicle(ctx context.Context, vehicleNumber string) ([]pass.MonthlyPass, error) {
	query := `
		SELECT ` + passColumns + `
		FROM monthly_passes
		WHERE vehicle_number = $1
		ORDER BY start_date DESC
	`
	rows, err := r.db.Query(ctx, query, vehicleNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to list passes for vehicle: %w", err)
	}
	defer rows.Close()
	return collectPasses(rows)
}

// UpdateLastUsed stamps the pass each time the lifecycle service matches it.
func (r *MonthlyPassRepository) UpdateLastUsed(ctx context.Context, id string, usedAt time.Time) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE monthly_passes SET last_used_at = $2, updated_at = NOW() WHERE id = $1`,
		id, usedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update pass last_used_at: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

func (r *MonthlyPassRepository) UpdateStatus(ctx context.Context, id string, status pass.Status) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE monthly_passes SET status = $2, updated_at = NOW() WHERE id = $1`,
		id, status,
	)
	if err != nil {
		return fmt.Errorf("failed to update pass status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}

func collectPasses(rows pgx.Rows) ([]pass.MonthlyPass, error) {
	var passes []pass.MonthlyPass
	for rows.Next() {
		p, err := scanPass(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pass: %w", err)
		}
		passes = append(passes, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read passes: %w", err)
	}
	return passes, nil
}

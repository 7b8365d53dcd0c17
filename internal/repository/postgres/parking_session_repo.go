// internal/repository/postgres/parking_session_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"parkdesk-service/internal/domain/session"
	xerrors "parkdesk-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

// ParkingSessionRepository is the pgx-backed session store. The
// "one active session per vehicle" invariant is backed by a partial unique
// index: CREATE UNIQUE INDEX ... ON parking_sessions (vehicle_number)
// WHERE status = 'active'.
type ParkingSessionRepository struct {
	db *pgxpool.Pool
}

func NewParkingSessionRepository(db *pgxpool.Pool) *ParkingSessionRepository {
	return &ParkingSessionRepository{db: db}
}

const sessionColumns = `
	id, vehicle_number, vehicle_class, entry_time, exit_time,
	duration, amount_due, status, is_pass_holder, pass_id,
	helmet, fee_breakdown, created_at, updated_at
`

func scanSession(row pgx.Row) (*session.ParkingSession, error) {
	var s session.ParkingSession
	err := row.Scan(
		&s.ID, &s.VehicleNumber, &s.VehicleClass, &s.EntryTime, &s.ExitTime,
		&s.DurationHours, &s.AmountDue, &s.Status, &s.IsPassHolder, &s.PassID,
		&s.Helmet, pq.Array(&s.FeeBreakdown), &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Create inserts a new active session. A unique-violation on the active
// partial index surfaces as ErrDuplicateEntry so concurrent terminals
// cannot double-park a vehicle.
func (r *ParkingSessionRepository) Create(ctx context.Context, s *session.ParkingSession) error {
	query := `
		INSERT INTO parking_sessions (
			id, vehicle_number, vehicle_class, entry_time,
			status, is_pass_holder, pass_id, helmet
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRow(
		ctx, query,
		s.ID, s.VehicleNumber, s.VehicleClass, s.EntryTime,
		s.Status, s.IsPassHolder, s.PassID, s.Helmet,
	).Scan(&s.CreatedAt, &s.UpdatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return xerrors.ErrDuplicateEntry
		}
		return fmt.Errorf("failed to create parking session: %w", err)
	}
	return nil
}

// Complete writes the exit fields in a single update and returns the
// completed record.
func (r *ParkingSessionRepository) Complete(ctx context.Context, id string, fields session.ExitFields) (*session.ParkingSession, error) {
	query := `
		UPDATE parking_sessions
		SET exit_time = $2, duration = $3, amount_due = $4, status = $5,
		    is_pass_holder = $6, pass_id = $7, fee_breakdown = $8,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + sessionColumns

	s, err := scanSession(r.db.QueryRow(
		ctx, query,
		id, fields.ExitTime, fields.DurationHours, fields.AmountDue, fields.Status,
		fields.IsPassHolder, fields.PassID, pq.Array(fields.FeeBreakdown),
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to complete parking session: %w", err)
	}
	return s, nil
}

// FindActiveByVehicle looks up the single active session for an
// uppercase-normalized vehicle number.
func (r *ParkingSessionRepository) FindActiveByVehicle(ctx context.Context, vehicleNumber string) (*session.ParkingSession, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM parking_sessions
		WHERE vehicle_number = $1 AND status = 'active'
		LIMIT 1
	`

	s, err := scanSession(r.db.QueryRow(ctx, query, vehicleNumber))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find active session: %w", err)
	}
	return s, nil
}

// List returns sessions newest-entry-first with optional status, class and
// free-text filters plus pagination.
func (r *ParkingSessionRepository) List(ctx context.Context, filters session.ListFilters) ([]session.ParkingSession, int64, error) {
	var conditions []string
	var args []interface{}
	argPos := 1

	if filters.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argPos))
		args = append(args, filters.Status)
		argPos++
	}
	if filters.VehicleClass != "" {
		conditions = append(conditions, fmt.Sprintf("vehicle_class = $%d", argPos))
		args = append(args, filters.VehicleClass)
		argPos++
	}
	if filters.Search != "" {
		conditions = append(conditions, fmt.Sprintf("vehicle_number ILIKE $%d", argPos))
		args = append(args, "%"+strings.ToUpper(filters.Search)+"%")
		argPos++
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	countQuery := "SELECT COUNT(*) FROM parking_sessions " + where
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count sessions: %w", err)
	}

	pageSize := filters.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	page := filters.Page
	if page < 1 {
		page = 1
	}

	query := fmt.Sprintf(
		"SELECT %s FROM parking_sessions %s ORDER BY entry_time DESC LIMIT $%d OFFSET $%d",
		sessionColumns, where, argPos, argPos+1,
	)
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	sessions, err := collectSessions(rows)
	if err != nil {
		return nil, 0, err
	}
	return sessions, total, nil
}

// ListActive returns every vehicle currently parked, newest first.
func (r *ParkingSessionRepository) ListActive(ctx context.Context) ([]session.ParkingSession, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM parking_sessions
		WHERE status = 'active'
		ORDER BY entry_time DESC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list active sessions: %w", err)
	}
	defer rows.Close()
	return collectSessions(rows)
}

// ListAll returns the full session collection for reporting.
func (r *ParkingSessionRepository) ListAll(ctx context.Context) ([]session.ParkingSession, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM parking_sessions
		ORDER BY entry_time DESC
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()
	return collectSessions(rows)
}

func collectSessions(rows pgx.Rows) ([]session.ParkingSession, error) {
	var sessions []session.ParkingSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read sessions: %w", err)
	}
	return sessions, nil
}

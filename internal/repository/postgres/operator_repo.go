// internal/repository/postgres/operator_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"parkdesk-service/internal/domain/operator"
	xerrors "parkdesk-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OperatorRepository struct {
	db *pgxpool.Pool
}

func NewOperatorRepository(db *pgxpool.Pool) *OperatorRepository {
	return &OperatorRepository{db: db}
}

func (r *OperatorRepository) Create(ctx context.Context, o *operator.Operator) error {
	query := `
		INSERT INTO operators (id, username, password_hash, full_name)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`

	err := r.db.QueryRow(ctx, query, o.ID, o.Username, o.PasswordHash, o.FullName).
		Scan(&o.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return xerrors.ErrConflict
		}
		return fmt.Errorf("failed to create operator: %w", err)
	}
	return nil
}

func (r *OperatorRepository) FindByUsername(ctx context.Context, username string) (*operator.Operator, error) {
	query := `
		SELECT id, username, password_hash, full_name, created_at
		FROM operators
		WHERE username = $1
	`

	var o operator.Operator
	err := r.db.QueryRow(ctx, query, username).
		Scan(&o.ID, &o.Username, &o.PasswordHash, &o.FullName, &o.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find operator: %w", err)
	}
	return &o, nil
}

// internal/domain/operator/entity.go
package operator

import (
	"context"
	"time"
)

// Operator is a front-desk user allowed to register entries and exits.
type Operator struct {
	ID           string    `json:"id" db:"id"`
	Username     string    `json:"username" db:"username"`
	PasswordHash string    `json:"-" db:"password_hash"`
	FullName     string    `json:"full_name" db:"full_name"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// Store is the persistence collaborator for operators.
type Store interface {
	Create(ctx context.Context, o *Operator) error
	FindByUsername(ctx context.Context, username string) (*Operator, error)
}

// LoginRequest authenticates an operator.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued access token.
type LoginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
}

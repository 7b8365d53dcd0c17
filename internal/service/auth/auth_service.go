// internal/service/auth/auth_service.go
package auth

import (
	"context"
	"errors"
	"fmt"

	"parkdesk-service/internal/domain/operator"
	"parkdesk-service/internal/pkg/clock"
	xerrors "parkdesk-service/internal/pkg/errors"
	"parkdesk-service/internal/pkg/token"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthService authenticates desk operators and issues access tokens.
type AuthService struct {
	operators operator.Store
	tokens    *token.Manager
	clock     clock.Clock
	logger    *zap.Logger
}

func NewAuthService(operators operator.Store, tokens *token.Manager, clk clock.Clock, logger *zap.Logger) *AuthService {
	return &AuthService{operators: operators, tokens: tokens, clock: clk, logger: logger}
}

// Login verifies the operator's credentials and returns a signed token.
// Unknown usernames and wrong passwords both map to ErrUnauthorized.
func (s *AuthService) Login(ctx context.Context, req operator.LoginRequest) (*operator.LoginResponse, error) {
	op, err := s.operators.FindByUsername(ctx, req.Username)
	if errors.Is(err, xerrors.ErrNotFound) {
		return nil, xerrors.ErrUnauthorized
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up operator: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(op.PasswordHash), []byte(req.Password)); err != nil {
		return nil, xerrors.ErrUnauthorized
	}

	signed, err := s.tokens.Generate(op.ID, op.Username, s.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.logger.Info("operator logged in", zap.String("username", op.Username))
	return &operator.LoginResponse{
		Token:    signed,
		Username: op.Username,
		FullName: op.FullName,
	}, nil
}

// Verify validates a bearer token, returning its claims.
func (s *AuthService) Verify(tokenString string) (*token.Claims, error) {
	return s.tokens.Verify(tokenString)
}

// EnsureOperatorExists bootstraps the desk operator account on startup if
// it is missing.
func (s *AuthService) EnsureOperatorExists(ctx context.Context, username, password, fullName string) error {
	_, err := s.operators.FindByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, xerrors.ErrNotFound) {
		return fmt.Errorf("failed to check operator: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	op := &operator.Operator{
		ID:           ulid.Make().String(),
		Username:     username,
		PasswordHash: string(hash),
		FullName:     fullName,
	}
	if err := s.operators.Create(ctx, op); err != nil {
		return fmt.Errorf("failed to create operator: %w", err)
	}

	s.logger.Info("desk operator created", zap.String("username", username))
	return nil
}

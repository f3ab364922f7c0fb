package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"smartcart/internal/hash"
	"smartcart/internal/logging"
	"smartcart/internal/models"
	"smartcart/internal/repo"
	"smartcart/internal/tokens"
)

type AuthService struct {
	Repo      *repo.GormRepo
	JWTSecret []byte
}

// Register creates a customer account and issues a token for it. Duplicate
// emails fail with ErrConflict and leave exactly one user row behind.
func (s *AuthService) Register(ctx context.Context, email, password string) (*models.User, string, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, "", fmt.Errorf("%w: email and password required", ErrValidation)
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		l.Error("register_error", "reason", "cannot hash password", "error", err)
		return nil, "", err
	}

	user := models.User{
		Email:        email,
		PasswordHash: pwHash,
		Role:         models.RoleCustomer,
	}

	if err := s.Repo.CreateUserIfNotExists(ctx, &user); err != nil {
		if errors.Is(err, repo.ErrUserAlreadyExists) {
			l.Warn("register_error", "status", 400, "reason", "email taken")
			return nil, "", fmt.Errorf("%w: user already exists", ErrConflict)
		}
		l.Error("register_error", "status", 500, "error", err)
		return nil, "", err
	}

	token, err := tokens.Sign(&user, s.JWTSecret)
	if err != nil {
		l.Error("register_error", "reason", "cannot sign token", "error", err)
		return nil, "", err
	}

	l.Info("register_success", "user_id", user.ID)
	return &user, token, nil
}

// Login verifies the password against the stored hash and issues a token.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.Repo.GetUserByEmail(ctx, email)
	if err != nil {
		l.Warn("login_failed", "status", 401, "reason", "unknown email")
		return nil, "", fmt.Errorf("%w: unknown email or wrong password", ErrInvalidCredentials)
	}

	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "status", 401, "reason", "wrong password", "user_id", user.ID)
		return nil, "", fmt.Errorf("%w: unknown email or wrong password", ErrInvalidCredentials)
	}

	token, err := tokens.Sign(user, s.JWTSecret)
	if err != nil {
		l.Error("login_failed", "status", 500, "reason", "cannot sign token", "error", err)
		return nil, "", err
	}

	l.Info("login_success", "user_id", user.ID)
	return user, token, nil
}

// Package service implements the business rules between the HTTP handlers
// and the repositories:
//
//	handler (HTTP) → service (rules) → repository (SQLite)
//
// Services never touch HTTP concerns; handlers never touch SQL.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/praveenhebbal38/Streak-Master/internal/apperror"
	"github.com/praveenhebbal38/Streak-Master/internal/auth"
	"github.com/praveenhebbal38/Streak-Master/internal/model"
	"github.com/praveenhebbal38/Streak-Master/internal/repository"
)

// DemoEmail is the well-known demo account. Registering it triggers demo
// data seeding so a fresh install has something to look at.
const DemoEmail = "demo@example.com"

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 6

// DemoSeeder populates a freshly registered demo account with sample habits
// and history. HabitService implements it.
type DemoSeeder interface {
	SeedDemo(ctx context.Context, userID string) error
}

// AuthService handles registration, login, and session validation.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	seeder    DemoSeeder
	logger    *slog.Logger
}

// NewAuthService creates an AuthService. seeder may be nil, in which case
// demo registration creates an empty account.
func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	seeder DemoSeeder,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		seeder:    seeder,
		logger:    logger,
	}
}

// AuthResult bundles the user record with the issued session token so the
// handler can set the cookie and respond in one step.
type AuthResult struct {
	User  *model.User
	Token string
}

// Register creates a new account and opens a session for it. Email equality
// is exact: no normalization, so "User@x.com" and "user@x.com" are distinct
// accounts. Returns apperror.ErrDuplicateUser when the email is taken.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*AuthResult, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.ValidationFailed("name", "name must not be empty")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperror.ValidationFailed("email", "email address is not valid")
	}
	if len(password) < MinPasswordLength {
		return nil, apperror.ValidationFailed("password", fmt.Sprintf("password must be at least %d characters", MinPasswordLength))
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("service/auth: hashing password: %w", err)
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("service/auth: creating user: %w", err)
	}

	s.logger.Info("user registered",
		slog.String("userID", user.ID),
		slog.String("email", user.Email),
	)

	if email == DemoEmail && s.seeder != nil {
		// Seed failure does not fail registration; the account just starts empty.
		if err := s.seeder.SeedDemo(ctx, user.ID); err != nil {
			s.logger.Error("seeding demo data", slog.String("userID", user.ID), slog.Any("error", err))
		}
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}

	return &AuthResult{User: user, Token: token}, nil
}

// Login verifies credentials and opens a session. An unknown email and a
// wrong password both return apperror.ErrInvalidCredentials so the response
// does not reveal which one was wrong.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, apperror.InvalidCredentials()
	}
	if !s.passwords.Verify(user.PasswordHash, password) {
		return nil, apperror.InvalidCredentials()
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %s: %w", user.ID, err)
	}

	s.logger.Info("user logged in", slog.String("userID", user.ID))

	return &AuthResult{User: user, Token: token}, nil
}

// GetUserByID returns the user for the given internal ID. Used by /api/me
// after the middleware validates the session cookie.
func (s *AuthService) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	if id == "" {
		return nil, apperror.ValidationFailed("id", "user ID must not be empty")
	}
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service/auth: fetching user %s: %w", id, err)
	}
	return user, nil
}

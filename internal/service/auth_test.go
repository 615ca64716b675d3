package service

import (
	"context"
	"errors"
	"testing"

	"github.com/praveenhebbal38/Streak-Master/internal/apperror"
	"github.com/praveenhebbal38/Streak-Master/internal/auth"
)

func newAuthFixture(t *testing.T) (*AuthService, *mockUserRepo, *mockHabitRepo) {
	t.Helper()
	users := newMockUserRepo()
	habits, logs := newMockStore()
	tokens, err := auth.NewTokenService("test-secret-key-for-unit-tests-only")
	if err != nil {
		t.Fatalf("setup: %v", err)
	}
	seeder := NewHabitService(habits, logs, testLogger())
	svc := NewAuthService(users, tokens, auth.NewPasswordService(), seeder, testLogger())
	return svc, users, habits
}

func TestRegister_Success(t *testing.T) {
	svc, users, _ := newAuthFixture(t)

	res, err := svc.Register(context.Background(), "Alice", "alice@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if res.User.ID == "" {
		t.Error("expected user to have an ID")
	}
	if res.Token == "" {
		t.Error("expected a session token")
	}

	stored, err := users.GetByEmail(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("GetByEmail() error = %v", err)
	}
	if stored.PasswordHash == "hunter22" {
		t.Error("password stored in plaintext")
	}
	if !auth.NewPasswordService().Verify(stored.PasswordHash, "hunter22") {
		t.Error("stored hash does not verify against the original password")
	}
}

func TestRegister_Validation(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	tests := []struct {
		name                  string
		userName, email, pass string
	}{
		{"empty name", "", "a@example.com", "hunter22"},
		{"whitespace name", "   ", "a@example.com", "hunter22"},
		{"bad email", "Alice", "not-an-email", "hunter22"},
		{"short password", "Alice", "a@example.com", "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.userName, tt.email, tt.pass)
			if !errors.Is(err, apperror.ErrValidation) {
				t.Errorf("Register() error = %v, want ErrValidation", err)
			}
		})
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	if _, err := svc.Register(context.Background(), "Alice", "alice@example.com", "hunter22"); err != nil {
		t.Fatalf("setup: %v", err)
	}

	_, err := svc.Register(context.Background(), "Other Alice", "alice@example.com", "different")
	if !errors.Is(err, apperror.ErrDuplicateUser) {
		t.Errorf("Register() error = %v, want ErrDuplicateUser", err)
	}
}

func TestRegister_DemoAccountGetsSeeded(t *testing.T) {
	svc, _, habits := newAuthFixture(t)

	res, err := svc.Register(context.Background(), "Demo", DemoEmail, "demodemo")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	seeded, err := habits.ListByUser(context.Background(), res.User.ID)
	if err != nil {
		t.Fatalf("ListByUser() error = %v", err)
	}
	if len(seeded) != 4 {
		t.Errorf("demo account has %d habits, want 4", len(seeded))
	}
}

func TestRegister_NonDemoAccountNotSeeded(t *testing.T) {
	svc, _, habits := newAuthFixture(t)

	res, err := svc.Register(context.Background(), "Alice", "alice@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	seeded, _ := habits.ListByUser(context.Background(), res.User.ID)
	if len(seeded) != 0 {
		t.Errorf("fresh account has %d habits, want 0", len(seeded))
	}
}

func TestLogin_Success(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	reg, err := svc.Register(context.Background(), "Alice", "alice@example.com", "hunter22")
	if err != nil {
		t.Fatalf("setup: %v", err)
	}

	res, err := svc.Login(context.Background(), "alice@example.com", "hunter22")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if res.User.ID != reg.User.ID {
		t.Errorf("logged-in user = %s, want %s", res.User.ID, reg.User.ID)
	}
	if res.Token == "" {
		t.Error("expected a session token")
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	if _, err := svc.Register(context.Background(), "Alice", "alice@example.com", "hunter22"); err != nil {
		t.Fatalf("setup: %v", err)
	}

	// Unknown email and wrong password yield the same sentinel.
	for _, tt := range []struct{ email, pass string }{
		{"nobody@example.com", "hunter22"},
		{"alice@example.com", "wrong"},
	} {
		_, err := svc.Login(context.Background(), tt.email, tt.pass)
		if !errors.Is(err, apperror.ErrInvalidCredentials) {
			t.Errorf("Login(%s) error = %v, want ErrInvalidCredentials", tt.email, err)
		}
	}
}

func TestGetUserByID(t *testing.T) {
	svc, _, _ := newAuthFixture(t)

	reg, err := svc.Register(context.Background(), "Alice", "alice@example.com", "hunter22")
	if err != nil {
		t.Fatalf("setup: %v", err)
	}

	user, err := svc.GetUserByID(context.Background(), reg.User.ID)
	if err != nil {
		t.Fatalf("GetUserByID() error = %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Errorf("Email = %q, want %q", user.Email, "alice@example.com")
	}

	if _, err := svc.GetUserByID(context.Background(), "missing"); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("GetUserByID(missing) error = %v, want ErrNotFound", err)
	}
}

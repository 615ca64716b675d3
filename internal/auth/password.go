package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordService hashes and verifies passwords with bcrypt.
type PasswordService struct {
	cost int
}

// NewPasswordService creates a PasswordService using the default bcrypt cost.
func NewPasswordService() *PasswordService {
	return &PasswordService{cost: bcrypt.DefaultCost}
}

// Hash returns the bcrypt hash of a plaintext password.
func (s *PasswordService) Hash(password string) (string, error) {
	if password == "" {
		return "", errors.New("auth: password must not be empty")
	}
	// bcrypt silently truncates at 72 bytes; reject instead.
	if len(password) > 72 {
		return "", errors.New("auth: password exceeds 72 bytes")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}
	return string(hash), nil
}

// Verify reports whether password matches the stored hash.
func (s *PasswordService) Verify(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

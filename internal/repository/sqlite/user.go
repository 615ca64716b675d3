package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/rs/xid"

	"github.com/praveenhebbal38/Streak-Master/internal/apperror"
	"github.com/praveenhebbal38/Streak-Master/internal/model"
	"github.com/praveenhebbal38/Streak-Master/internal/repository"
)

// UserStore implements repository.UserRepository against the users table.
type UserStore struct {
	db *DB
}

// Users returns the user collection.
func (db *DB) Users() *UserStore {
	return &UserStore{db: db}
}

// compile-time check that *UserStore implements repository.UserRepository
var _ repository.UserRepository = (*UserStore)(nil)

// Create inserts a new user, generating its ID and creation timestamp.
// The email UNIQUE constraint turns a duplicate registration into
// apperror.ErrDuplicateUser; the match is case-sensitive exact (SQLite
// TEXT uniqueness is byte-wise).
func (s *UserStore) Create(ctx context.Context, user *model.User) error {
	if err := s.db.simulate(ctx); err != nil {
		return err
	}

	user.ID = xid.New().String()
	user.CreatedAt = time.Now()

	_, err := s.db.conn.ExecContext(ctx,
		`INSERT INTO users (id, name, email, password_hash, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.DuplicateUser(user.Email)
		}
		return fmt.Errorf("sqlite: inserting user (email=%s): %w", user.Email, err)
	}

	return nil
}

// GetByID retrieves a user by internal ID.
// Returns apperror.ErrNotFound if no user exists with that ID.
func (s *UserStore) GetByID(ctx context.Context, id string) (*model.User, error) {
	if err := s.db.simulate(ctx); err != nil {
		return nil, err
	}

	var u model.User
	err := s.db.conn.QueryRowContext(ctx,
		`SELECT id, name, email, password_hash, created_at
		 FROM users WHERE id = ?`,
		id,
	).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", id)
		}
		return nil, fmt.Errorf("sqlite: getting user %s: %w", id, err)
	}

	return &u, nil
}

// GetByEmail retrieves a user by exact email.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if err := s.db.simulate(ctx); err != nil {
		return nil, err
	}

	var u model.User
	err := s.db.conn.QueryRowContext(ctx,
		`SELECT id, name, email, password_hash, created_at
		 FROM users WHERE email = ?`,
		email,
	).Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("user", email)
		}
		return nil, fmt.Errorf("sqlite: getting user by email: %w", err)
	}

	return &u, nil
}

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint
// failure. modernc.org/sqlite does not export a typed error for this, so
// we match the stable constraint message.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

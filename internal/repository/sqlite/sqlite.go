// Package sqlite implements the repository interfaces on an embedded SQLite
// database via the pure-Go modernc.org/sqlite driver. A single file (or
// ":memory:" for tests) holds the users, habits, habit_logs, and timers
// collections.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	// Side-effect import: registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB pool and implements every repository interface.
type DB struct {
	conn *sql.DB

	// latency, when non-zero, is applied at the top of every operation to
	// model asynchronous I/O the way the original mock store did. Zero in
	// tests and by default.
	latency time.Duration
}

// Option configures a DB.
type Option func(*DB)

// WithSimulatedLatency makes every store operation pause for d before
// touching the database. Bounded constant, cancellable via context.
func WithSimulatedLatency(d time.Duration) Option {
	return func(db *DB) { db.latency = d }
}

// New opens (or creates) the database at dbPath and runs migrations.
// Use ":memory:" for an in-memory database in tests.
func New(dbPath string, opts ...Option) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL allows concurrent reads during a write.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Foreign keys are off by default; the habits→logs and habits→timers
	// cascades depend on them.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}
	for _, opt := range opts {
		opt(db)
	}

	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool. Always defer this next to New.
func (db *DB) Close() error {
	return db.conn.Close()
}

// simulate pauses for the configured latency, honoring cancellation.
// A cancelled wait leaves the store untouched.
func (db *DB) simulate(ctx context.Context) error {
	if db.latency <= 0 {
		return nil
	}
	t := time.NewTimer(db.latency)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			name          TEXT NOT NULL,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL DEFAULT '',
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS habits (
			id                  TEXT PRIMARY KEY,
			user_id             TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			title               TEXT NOT NULL,
			description         TEXT NOT NULL DEFAULT '',
			category            TEXT NOT NULL,
			streak_count        INTEGER NOT NULL DEFAULT 0 CHECK (streak_count >= 0),
			last_completed_date TEXT NOT NULL DEFAULT '',
			created_at          DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			reminder_time       TEXT NOT NULL DEFAULT '',
			duration_minutes    INTEGER NOT NULL DEFAULT 0,
			check_in_question   TEXT NOT NULL DEFAULT ''
		);
		CREATE INDEX IF NOT EXISTS idx_habits_user_id ON habits(user_id);
		CREATE INDEX IF NOT EXISTS idx_habits_reminder_time ON habits(reminder_time);
	`)
	if err != nil {
		return fmt.Errorf("creating habits table: %w", err)
	}

	// UNIQUE(habit_id, date) backstops the engine's same-day idempotency
	// guard: even a buggy caller cannot record two logs for one day.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS habit_logs (
			id       TEXT PRIMARY KEY,
			habit_id TEXT NOT NULL REFERENCES habits(id) ON DELETE CASCADE,
			date     TEXT NOT NULL,
			status   TEXT NOT NULL DEFAULT 'completed',
			answer   TEXT NOT NULL DEFAULT '',
			UNIQUE (habit_id, date)
		);
		CREATE INDEX IF NOT EXISTS idx_habit_logs_habit_id ON habit_logs(habit_id);
		CREATE INDEX IF NOT EXISTS idx_habit_logs_date ON habit_logs(date);
	`)
	if err != nil {
		return fmt.Errorf("creating habit_logs table: %w", err)
	}

	// One session-timer start instant per habit. Unix milliseconds, the
	// same representation the instant is compared against at read time.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS timers (
			habit_id   TEXT PRIMARY KEY REFERENCES habits(id) ON DELETE CASCADE,
			started_at INTEGER NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("creating timers table: %w", err)
	}

	return nil
}

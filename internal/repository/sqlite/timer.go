package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/praveenhebbal38/Streak-Master/internal/repository"
)

// TimerStore implements repository.TimerRepository against the timers table.
// One row per habit: the wall-clock instant the session started, stored as
// Unix milliseconds.
type TimerStore struct {
	db *DB
}

// Timers returns the timer collection.
func (db *DB) Timers() *TimerStore {
	return &TimerStore{db: db}
}

// compile-time check that *TimerStore implements repository.TimerRepository
var _ repository.TimerRepository = (*TimerStore)(nil)

// GetStart returns the stored session start instant for the habit.
// ok is false when no session record exists.
func (s *TimerStore) GetStart(ctx context.Context, habitID string) (time.Time, bool, error) {
	if err := s.db.simulate(ctx); err != nil {
		return time.Time{}, false, err
	}

	var millis int64
	err := s.db.conn.QueryRowContext(ctx,
		`SELECT started_at FROM timers WHERE habit_id = ?`,
		habitID,
	).Scan(&millis)
	if err != nil {
		if err == sql.ErrNoRows {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, fmt.Errorf("sqlite: getting timer for habit %s: %w", habitID, err)
	}

	return time.UnixMilli(millis), true, nil
}

// PutStart stores (or replaces) the session start instant for the habit.
func (s *TimerStore) PutStart(ctx context.Context, habitID string, start time.Time) error {
	if err := s.db.simulate(ctx); err != nil {
		return err
	}

	_, err := s.db.conn.ExecContext(ctx,
		`INSERT INTO timers (habit_id, started_at) VALUES (?, ?)
		 ON CONFLICT(habit_id) DO UPDATE SET started_at = excluded.started_at`,
		habitID,
		start.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("sqlite: storing timer for habit %s: %w", habitID, err)
	}

	return nil
}

// Clear removes the session record for the habit. Clearing an absent record
// is not an error.
func (s *TimerStore) Clear(ctx context.Context, habitID string) error {
	if err := s.db.simulate(ctx); err != nil {
		return err
	}

	if _, err := s.db.conn.ExecContext(ctx,
		`DELETE FROM timers WHERE habit_id = ?`, habitID,
	); err != nil {
		return fmt.Errorf("sqlite: clearing timer for habit %s: %w", habitID, err)
	}

	return nil
}

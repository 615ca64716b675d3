package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/praveenhebbal38/Streak-Master/internal/apperror"
	"github.com/praveenhebbal38/Streak-Master/internal/model"
	"github.com/praveenhebbal38/Streak-Master/internal/repository"
)

// HabitStore implements repository.HabitRepository against the habits table.
type HabitStore struct {
	db *DB
}

// Habits returns the habit collection.
func (db *DB) Habits() *HabitStore {
	return &HabitStore{db: db}
}

// compile-time check that *HabitStore implements repository.HabitRepository
var _ repository.HabitRepository = (*HabitStore)(nil)

const habitColumns = `id, user_id, title, description, category, streak_count,
	last_completed_date, created_at, reminder_time, duration_minutes, check_in_question`

// scanHabit reads one habit row in habitColumns order.
func scanHabit(row interface{ Scan(...any) error }) (*model.Habit, error) {
	var h model.Habit
	err := row.Scan(
		&h.ID,
		&h.UserID,
		&h.Title,
		&h.Description,
		&h.Category,
		&h.StreakCount,
		&h.LastCompletedDate,
		&h.CreatedAt,
		&h.ReminderTime,
		&h.DurationMinutes,
		&h.CheckInQuestion,
	)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// Create inserts a new habit with a fresh streak (count 0, never completed).
func (s *HabitStore) Create(ctx context.Context, habit *model.Habit) error {
	if err := s.db.simulate(ctx); err != nil {
		return err
	}

	habit.ID = xid.New().String()
	habit.CreatedAt = time.Now()
	habit.StreakCount = 0
	habit.LastCompletedDate = ""

	_, err := s.db.conn.ExecContext(ctx,
		`INSERT INTO habits (id, user_id, title, description, category, streak_count,
			last_completed_date, created_at, reminder_time, duration_minutes, check_in_question)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		habit.ID,
		habit.UserID,
		habit.Title,
		habit.Description,
		habit.Category,
		habit.StreakCount,
		habit.LastCompletedDate,
		habit.CreatedAt,
		habit.ReminderTime,
		habit.DurationMinutes,
		habit.CheckInQuestion,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating habit: %w", err)
	}

	return nil
}

// GetByID retrieves a single habit.
// Returns apperror.ErrNotFound if the habit doesn't exist.
func (s *HabitStore) GetByID(ctx context.Context, id string) (*model.Habit, error) {
	if err := s.db.simulate(ctx); err != nil {
		return nil, err
	}

	h, err := scanHabit(s.db.conn.QueryRowContext(ctx,
		`SELECT `+habitColumns+` FROM habits WHERE id = ?`, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("habit", id)
		}
		return nil, fmt.Errorf("sqlite: getting habit %s: %w", id, err)
	}

	return h, nil
}

// ListByUser returns all of a user's habits ordered by creation time,
// oldest first.
func (s *HabitStore) ListByUser(ctx context.Context, userID string) ([]model.Habit, error) {
	if err := s.db.simulate(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.conn.QueryContext(ctx,
		`SELECT `+habitColumns+` FROM habits WHERE user_id = ? ORDER BY created_at ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing habits for user %s: %w", userID, err)
	}
	defer rows.Close()

	var habits []model.Habit
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning habit row: %w", err)
		}
		habits = append(habits, *h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating habits: %w", err)
	}

	return habits, nil
}

// Update persists every mutable habit field. ID, user_id, and created_at
// are immutable.
func (s *HabitStore) Update(ctx context.Context, habit *model.Habit) error {
	if err := s.db.simulate(ctx); err != nil {
		return err
	}

	result, err := s.db.conn.ExecContext(ctx,
		`UPDATE habits
		 SET title = ?, description = ?, category = ?, streak_count = ?,
		     last_completed_date = ?, reminder_time = ?, duration_minutes = ?,
		     check_in_question = ?
		 WHERE id = ?`,
		habit.Title,
		habit.Description,
		habit.Category,
		habit.StreakCount,
		habit.LastCompletedDate,
		habit.ReminderTime,
		habit.DurationMinutes,
		habit.CheckInQuestion,
		habit.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating habit %s: %w", habit.ID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if affected == 0 {
		return apperror.NotFound("habit", habit.ID)
	}

	return nil
}

// Delete removes a habit and, via the ON DELETE CASCADE constraints, all of
// its logs and any timer record. Runs in one transaction so a failure leaves
// everything in place.
func (s *HabitStore) Delete(ctx context.Context, id string) error {
	if err := s.db.simulate(ctx); err != nil {
		return err
	}

	tx, err := s.db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning delete tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `DELETE FROM habits WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting habit %s: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if affected == 0 {
		return apperror.NotFound("habit", id)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing delete: %w", err)
	}

	return nil
}

// SaveCheckIn applies one streak transition atomically: the habit's streak
// fields and the new log row commit together or not at all. The log table's
// UNIQUE(habit_id, date) makes a same-day double insert fail here even if
// the engine's guard was bypassed.
func (s *HabitStore) SaveCheckIn(ctx context.Context, habit *model.Habit, log *model.HabitLog) error {
	if err := s.db.simulate(ctx); err != nil {
		return err
	}

	if log.ID == "" {
		log.ID = xid.New().String()
	}

	tx, err := s.db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: beginning check-in tx: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE habits SET streak_count = ?, last_completed_date = ? WHERE id = ?`,
		habit.StreakCount,
		habit.LastCompletedDate,
		habit.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating streak for habit %s: %w", habit.ID, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: checking rows affected: %w", err)
	}
	if affected == 0 {
		return apperror.NotFound("habit", habit.ID)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO habit_logs (id, habit_id, date, status, answer)
		 VALUES (?, ?, ?, ?, ?)`,
		log.ID,
		log.HabitID,
		log.Date,
		log.Status,
		log.Answer,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.AlreadyCheckedIn(log.HabitID, log.Date)
		}
		return fmt.Errorf("sqlite: inserting check-in log: %w", err)
	}

	// Consume any residual session-timer record for the habit.
	if _, err := tx.ExecContext(ctx,
		`DELETE FROM timers WHERE habit_id = ?`, habit.ID,
	); err != nil {
		return fmt.Errorf("sqlite: clearing timer for habit %s: %w", habit.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing check-in: %w", err)
	}

	return nil
}

// ListDueReminders returns every habit whose reminder time-of-day equals
// hhmm. Read-only; reminder delivery has no store side effects.
func (s *HabitStore) ListDueReminders(ctx context.Context, hhmm string) ([]model.Habit, error) {
	if err := s.db.simulate(ctx); err != nil {
		return nil, err
	}
	if hhmm == "" {
		return nil, nil
	}

	rows, err := s.db.conn.QueryContext(ctx,
		`SELECT `+habitColumns+` FROM habits WHERE reminder_time = ?`,
		hhmm,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing due reminders: %w", err)
	}
	defer rows.Close()

	var habits []model.Habit
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite: scanning habit row: %w", err)
		}
		habits = append(habits, *h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating reminders: %w", err)
	}

	return habits, nil
}

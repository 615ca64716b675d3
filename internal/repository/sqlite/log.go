package sqlite

import (
	"context"
	"fmt"

	"github.com/rs/xid"

	"github.com/praveenhebbal38/Streak-Master/internal/apperror"
	"github.com/praveenhebbal38/Streak-Master/internal/model"
	"github.com/praveenhebbal38/Streak-Master/internal/repository"
)

// LogStore implements repository.LogRepository against the habit_logs table.
type LogStore struct {
	db *DB
}

// Logs returns the log collection.
func (db *DB) Logs() *LogStore {
	return &LogStore{db: db}
}

// compile-time check that *LogStore implements repository.LogRepository
var _ repository.LogRepository = (*LogStore)(nil)

// Create inserts a log row directly, outside a check-in transition.
// Only the demo seeder uses this; the engine goes through SaveCheckIn.
func (s *LogStore) Create(ctx context.Context, log *model.HabitLog) error {
	if err := s.db.simulate(ctx); err != nil {
		return err
	}

	if log.ID == "" {
		log.ID = xid.New().String()
	}
	if log.Status == "" {
		log.Status = model.StatusCompleted
	}

	_, err := s.db.conn.ExecContext(ctx,
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
		return fmt.Errorf("sqlite: inserting log: %w", err)
	}

	return nil
}

// ListByHabit returns a habit's full log history, oldest date first.
func (s *LogStore) ListByHabit(ctx context.Context, habitID string) ([]model.HabitLog, error) {
	if err := s.db.simulate(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.conn.QueryContext(ctx,
		`SELECT id, habit_id, date, status, answer
		 FROM habit_logs WHERE habit_id = ? ORDER BY date ASC`,
		habitID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing logs for habit %s: %w", habitID, err)
	}
	defer rows.Close()

	var logs []model.HabitLog
	for rows.Next() {
		var l model.HabitLog
		if err := rows.Scan(&l.ID, &l.HabitID, &l.Date, &l.Status, &l.Answer); err != nil {
			return nil, fmt.Errorf("sqlite: scanning log row: %w", err)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating logs: %w", err)
	}

	return logs, nil
}

// CountByUser counts every log across all of a user's habits.
func (s *LogStore) CountByUser(ctx context.Context, userID string) (int, error) {
	if err := s.db.simulate(ctx); err != nil {
		return 0, err
	}

	var n int
	err := s.db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM habit_logs l
		 JOIN habits h ON h.id = l.habit_id
		 WHERE h.user_id = ?`,
		userID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("sqlite: counting logs for user %s: %w", userID, err)
	}

	return n, nil
}

// ListByUserSince returns all of a user's logs dated fromDate or later,
// across every habit. Date keys sort lexicographically, so a plain string
// comparison is a calendar comparison.
func (s *LogStore) ListByUserSince(ctx context.Context, userID, fromDate string) ([]model.HabitLog, error) {
	if err := s.db.simulate(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.conn.QueryContext(ctx,
		`SELECT l.id, l.habit_id, l.date, l.status, l.answer
		 FROM habit_logs l
		 JOIN habits h ON h.id = l.habit_id
		 WHERE h.user_id = ? AND l.date >= ?
		 ORDER BY l.date ASC`,
		userID, fromDate,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing logs for user %s: %w", userID, err)
	}
	defer rows.Close()

	var logs []model.HabitLog
	for rows.Next() {
		var l model.HabitLog
		if err := rows.Scan(&l.ID, &l.HabitID, &l.Date, &l.Status, &l.Answer); err != nil {
			return nil, fmt.Errorf("sqlite: scanning log row: %w", err)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating logs: %w", err)
	}

	return logs, nil
}

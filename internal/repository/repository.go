// Package repository declares the storage interfaces the service layer
// depends on. The sqlite subpackage provides the production implementation;
// tests supply in-memory mocks.
package repository

import (
	"context"
	"time"

	"github.com/praveenhebbal38/Streak-Master/internal/model"
)

// UserRepository persists user accounts.
type UserRepository interface {
	// Create inserts a new user. Returns apperror.ErrDuplicateUser if the
	// email is already registered (case-sensitive exact match).
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	// GetByEmail returns apperror.ErrNotFound if no user has that email.
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

// HabitRepository persists habits and their streak state.
type HabitRepository interface {
	Create(ctx context.Context, habit *model.Habit) error
	GetByID(ctx context.Context, id string) (*model.Habit, error)
	ListByUser(ctx context.Context, userID string) ([]model.Habit, error)
	Update(ctx context.Context, habit *model.Habit) error
	// Delete removes the habit together with all of its logs and any timer
	// record, atomically. No orphan log survives.
	Delete(ctx context.Context, id string) error
	// SaveCheckIn applies one streak transition atomically: the habit's
	// (streak_count, last_completed_date) update and the log insert commit
	// together or not at all.
	SaveCheckIn(ctx context.Context, habit *model.Habit, log *model.HabitLog) error
	// ListDueReminders returns every habit whose reminder time-of-day
	// ("HH:MM", local) equals hhmm.
	ListDueReminders(ctx context.Context, hhmm string) ([]model.Habit, error)
}

// LogRepository reads check-in history.
type LogRepository interface {
	Create(ctx context.Context, log *model.HabitLog) error
	ListByHabit(ctx context.Context, habitID string) ([]model.HabitLog, error)
	CountByUser(ctx context.Context, userID string) (int, error)
	ListByUserSince(ctx context.Context, userID, fromDate string) ([]model.HabitLog, error)
}

// TimerRepository persists one session-timer start instant per habit.
// Timer state is never stored; it is reconstructed from the start instant
// and the wall clock, so a session survives process restarts.
type TimerRepository interface {
	// GetStart returns the stored start instant, or ok=false when the habit
	// has no running or completed session.
	GetStart(ctx context.Context, habitID string) (start time.Time, ok bool, err error)
	PutStart(ctx context.Context, habitID string, start time.Time) error
	Clear(ctx context.Context, habitID string) error
}

// Package reminder delivers habit reminders at their configured time of day.
package reminder

import (
	"context"
	"log/slog"
	"time"

	"github.com/praveenhebbal38/Streak-Master/internal/model"
	"github.com/praveenhebbal38/Streak-Master/internal/repository"
)

// Notifier receives due reminders. Implementations must be fast; delivery
// happens on the scheduler goroutine.
type Notifier interface {
	Notify(ctx context.Context, habit model.Habit)
}

// LogNotifier writes reminders to the structured log. It is the default
// delivery channel; a push or email notifier would replace it.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n *LogNotifier) Notify(_ context.Context, habit model.Habit) {
	n.Logger.Info("habit reminder",
		slog.String("habitID", habit.ID),
		slog.String("userID", habit.UserID),
		slog.String("title", habit.Title),
		slog.String("reminderTime", habit.ReminderTime),
	)
}

// Scheduler polls for habits whose reminder time matches the current local
// minute and notifies each at most once per (habit, minute).
type Scheduler struct {
	habits   repository.HabitRepository
	notifier Notifier
	logger   *slog.Logger
	now      func() time.Time
	interval time.Duration
	// delivered dedupes within a minute: habitID → last notified minute,
	// date included so tomorrow's reminder fires again. Only the scheduler
	// goroutine touches it.
	delivered map[string]string
}

// NewScheduler creates a Scheduler polling once per minute.
func NewScheduler(habits repository.HabitRepository, notifier Notifier, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		habits:    habits,
		notifier:  notifier,
		logger:    logger,
		now:       time.Now,
		interval:  time.Minute,
		delivered: make(map[string]string),
	}
}

// Run polls until ctx is cancelled. Call it in its own goroutine.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("reminder scheduler started")
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("reminder scheduler stopped")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

// tick runs one poll cycle. Exported behavior is covered through it directly
// in tests; Run only adds the ticker loop.
func (s *Scheduler) tick(ctx context.Context) {
	now := s.now()
	hhmm := now.Format("15:04")
	minute := now.Format("2006-01-02 15:04")

	due, err := s.habits.ListDueReminders(ctx, hhmm)
	if err != nil {
		s.logger.Error("listing due reminders", slog.String("minute", hhmm), slog.Any("error", err))
		return
	}

	for _, habit := range due {
		if s.delivered[habit.ID] == minute {
			continue
		}
		s.delivered[habit.ID] = minute
		s.notifier.Notify(ctx, habit)
	}
}

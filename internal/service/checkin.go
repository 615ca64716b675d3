package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/praveenhebbal38/Streak-Master/internal/apperror"
	"github.com/praveenhebbal38/Streak-Master/internal/dateutil"
	"github.com/praveenhebbal38/Streak-Master/internal/model"
	"github.com/praveenhebbal38/Streak-Master/internal/repository"
)

// CheckInService applies the daily streak transition. The rule, keyed on the
// habit's last completed local date relative to "today":
//
//	today     → already checked in, state unchanged
//	yesterday → streak continues: StreakCount+1
//	anything else (incl. never) → streak restarts at 1
//
// The habit update and the log insert commit atomically via the repository.
type CheckInService struct {
	habits repository.HabitRepository
	logger *slog.Logger
	now    func() time.Time
}

// NewCheckInService creates a CheckInService using the wall clock.
func NewCheckInService(habits repository.HabitRepository, logger *slog.Logger) *CheckInService {
	return &CheckInService{
		habits: habits,
		logger: logger,
		now:    time.Now,
	}
}

// CheckInResult holds the post-transition habit and the log it produced.
type CheckInResult struct {
	Habit *model.Habit
	Log   *model.HabitLog
}

// CheckIn records today's completion of a habit.
//
// For habits with a check-in question, answer must be non-empty after
// trimming. A second check-in on the same local day returns
// apperror.ErrAlreadyCheckedIn and changes nothing.
func (s *CheckInService) CheckIn(ctx context.Context, userID, habitID, answer string) (*CheckInResult, error) {
	if habitID == "" {
		return nil, apperror.ValidationFailed("id", "habit ID must not be empty")
	}

	habit, err := s.habits.GetByID(ctx, habitID)
	if err != nil {
		return nil, fmt.Errorf("service/checkin: fetching habit %s: %w", habitID, err)
	}
	if habit.UserID != userID {
		return nil, apperror.Forbidden("habit belongs to another user")
	}

	answer = strings.TrimSpace(answer)
	switch habit.Mode() {
	case model.ModeQuestioned, model.ModeTimedQuestioned:
		if answer == "" {
			return nil, apperror.AnswerRequired(habitID)
		}
	case model.ModePlain, model.ModeTimed:
		// Answers are accepted but not required.
	}

	now := s.now()
	today := dateutil.Key(now)
	yesterday := dateutil.Key(now.AddDate(0, 0, -1))

	switch habit.LastCompletedDate {
	case today:
		return nil, apperror.AlreadyCheckedIn(habitID, today)
	case yesterday:
		habit.StreakCount++
	default:
		habit.StreakCount = 1
	}
	habit.LastCompletedDate = today

	log := &model.HabitLog{
		HabitID: habitID,
		Date:    today,
		Status:  model.StatusCompleted,
		Answer:  answer,
	}

	if err := s.habits.SaveCheckIn(ctx, habit, log); err != nil {
		return nil, fmt.Errorf("service/checkin: saving check-in for habit %s: %w", habitID, err)
	}

	s.logger.Info("habit checked in",
		slog.String("habitID", habitID),
		slog.String("userID", userID),
		slog.String("date", today),
		slog.Int("streak", habit.StreakCount),
	)

	return &CheckInResult{Habit: habit, Log: log}, nil
}

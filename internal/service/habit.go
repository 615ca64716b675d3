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

// MaxHabitTitleLength bounds habit titles.
const MaxHabitTitleLength = 100

// HabitService owns the habit CRUD rules: input validation, ownership
// checks, and demo seeding.
type HabitService struct {
	habits repository.HabitRepository
	logs   repository.LogRepository
	logger *slog.Logger
	now    func() time.Time
}

// NewHabitService creates a HabitService.
func NewHabitService(habits repository.HabitRepository, logs repository.LogRepository, logger *slog.Logger) *HabitService {
	return &HabitService{
		habits: habits,
		logs:   logs,
		logger: logger,
		now:    time.Now,
	}
}

// HabitInput carries the caller-editable habit fields. Streak state is never
// part of it; only check-ins move streaks.
type HabitInput struct {
	Title           string
	Description     string
	Category        model.Category
	ReminderTime    string // "HH:MM" local, empty = no reminder
	DurationMinutes int    // 0 = no timer gate
	CheckInQuestion string
}

func (in *HabitInput) validate() error {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.CheckInQuestion = strings.TrimSpace(in.CheckInQuestion)

	if in.Title == "" {
		return apperror.ValidationFailed("title", "title must not be empty")
	}
	if len(in.Title) > MaxHabitTitleLength {
		return apperror.ValidationFailed("title", fmt.Sprintf("title must be at most %d characters", MaxHabitTitleLength))
	}
	if !in.Category.Valid() {
		return apperror.ValidationFailed("category", fmt.Sprintf("unknown category %q", in.Category))
	}
	if in.DurationMinutes < 0 {
		return apperror.ValidationFailed("duration", "duration must not be negative")
	}
	if in.ReminderTime != "" {
		if _, err := time.Parse("15:04", in.ReminderTime); err != nil {
			return apperror.ValidationFailed("reminderTime", "reminder time must be HH:MM")
		}
	}
	return nil
}

// Create validates the input and inserts a new habit for userID. The habit
// starts with no streak regardless of input.
func (s *HabitService) Create(ctx context.Context, userID string, in HabitInput) (*model.Habit, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	habit := &model.Habit{
		UserID:          userID,
		Title:           in.Title,
		Description:     in.Description,
		Category:        in.Category,
		ReminderTime:    in.ReminderTime,
		DurationMinutes: in.DurationMinutes,
		CheckInQuestion: in.CheckInQuestion,
	}
	if err := s.habits.Create(ctx, habit); err != nil {
		return nil, fmt.Errorf("service/habit: creating habit: %w", err)
	}

	s.logger.Info("habit created",
		slog.String("habitID", habit.ID),
		slog.String("userID", userID),
		slog.String("mode", habit.Mode().String()),
	)

	return habit, nil
}

// Get returns a habit after checking that userID owns it.
func (s *HabitService) Get(ctx context.Context, userID, habitID string) (*model.Habit, error) {
	return s.getOwned(ctx, userID, habitID)
}

// List returns all habits owned by userID, oldest first.
func (s *HabitService) List(ctx context.Context, userID string) ([]model.Habit, error) {
	habits, err := s.habits.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("service/habit: listing habits: %w", err)
	}
	return habits, nil
}

// Update replaces the editable fields of a habit. Streak state carries over
// unchanged from the stored record.
func (s *HabitService) Update(ctx context.Context, userID, habitID string, in HabitInput) (*model.Habit, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	habit, err := s.getOwned(ctx, userID, habitID)
	if err != nil {
		return nil, err
	}

	habit.Title = in.Title
	habit.Description = in.Description
	habit.Category = in.Category
	habit.ReminderTime = in.ReminderTime
	habit.DurationMinutes = in.DurationMinutes
	habit.CheckInQuestion = in.CheckInQuestion

	if err := s.habits.Update(ctx, habit); err != nil {
		return nil, fmt.Errorf("service/habit: updating habit %s: %w", habitID, err)
	}

	return habit, nil
}

// Delete removes a habit and everything attached to it: logs and any timer
// record go with it.
func (s *HabitService) Delete(ctx context.Context, userID, habitID string) error {
	if _, err := s.getOwned(ctx, userID, habitID); err != nil {
		return err
	}
	if err := s.habits.Delete(ctx, habitID); err != nil {
		return fmt.Errorf("service/habit: deleting habit %s: %w", habitID, err)
	}

	s.logger.Info("habit deleted", slog.String("habitID", habitID), slog.String("userID", userID))
	return nil
}

// Logs returns a habit's full check-in history, oldest first.
func (s *HabitService) Logs(ctx context.Context, userID, habitID string) ([]model.HabitLog, error) {
	if _, err := s.getOwned(ctx, userID, habitID); err != nil {
		return nil, err
	}
	logs, err := s.logs.ListByHabit(ctx, habitID)
	if err != nil {
		return nil, fmt.Errorf("service/habit: listing logs for habit %s: %w", habitID, err)
	}
	return logs, nil
}

func (s *HabitService) getOwned(ctx context.Context, userID, habitID string) (*model.Habit, error) {
	if habitID == "" {
		return nil, apperror.ValidationFailed("id", "habit ID must not be empty")
	}
	habit, err := s.habits.GetByID(ctx, habitID)
	if err != nil {
		return nil, fmt.Errorf("service/habit: fetching habit %s: %w", habitID, err)
	}
	if habit.UserID != userID {
		return nil, apperror.Forbidden("habit belongs to another user")
	}
	return habit, nil
}

// demoHabit describes one seeded habit with a fabricated streak.
type demoHabit struct {
	title       string
	category    model.Category
	streak      int
	description string
	duration    int
	question    string
}

var demoHabits = []demoHabit{
	{"Morning Jog", model.CategoryFitness, 5, "Run 5km every morning before work.", 30, "How many km did you run?"},
	{"Read 30 Mins", model.CategoryStudy, 12, "Read a non-fiction book.", 30, "What did you learn today?"},
	{"Drink 3L Water", model.CategoryHealth, 2, "Stay hydrated!", 0, "How many glasses?"},
	{"Code Side Project", model.CategoryWork, 0, "Work on the side project app.", 60, "What feature did you build?"},
}

// SeedDemo populates a fresh demo account with sample habits and backdated
// logs. A habit seeded with streak N gets N completed logs ending yesterday,
// so the streaks are alive and today's check-in extends them. Idempotent:
// an account that already has habits is left alone.
func (s *HabitService) SeedDemo(ctx context.Context, userID string) error {
	existing, err := s.habits.ListByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("service/habit: checking for existing habits: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	today := s.now()

	for _, d := range demoHabits {
		habit := &model.Habit{
			UserID:          userID,
			Title:           d.title,
			Description:     d.description,
			Category:        d.category,
			DurationMinutes: d.duration,
			CheckInQuestion: d.question,
		}
		if err := s.habits.Create(ctx, habit); err != nil {
			return fmt.Errorf("service/habit: seeding habit %q: %w", d.title, err)
		}
		if d.streak == 0 {
			continue
		}

		// One log per streak day, starting yesterday and walking backwards.
		for i := 1; i <= d.streak; i++ {
			log := &model.HabitLog{
				HabitID: habit.ID,
				Date:    dateutil.Key(today.AddDate(0, 0, -i)),
				Status:  model.StatusCompleted,
				Answer:  "Seed data entry",
			}
			if err := s.logs.Create(ctx, log); err != nil {
				return fmt.Errorf("service/habit: seeding log for %q: %w", d.title, err)
			}
		}

		habit.StreakCount = d.streak
		habit.LastCompletedDate = dateutil.Key(today.AddDate(0, 0, -1))
		if err := s.habits.Update(ctx, habit); err != nil {
			return fmt.Errorf("service/habit: seeding streak for %q: %w", d.title, err)
		}
	}

	s.logger.Info("demo data seeded", slog.String("userID", userID))
	return nil
}

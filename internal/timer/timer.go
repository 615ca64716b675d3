// Package timer implements the per-habit session timer that gates check-in
// for duration-bearing habits.
//
// Only the start instant is persisted. State is a pure function of that
// instant, the habit's duration, and the wall clock, so a session survives
// process restarts: a timer that completed while the process was down reads
// as Complete on the next query.
package timer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/praveenhebbal38/Streak-Master/internal/apperror"
	"github.com/praveenhebbal38/Streak-Master/internal/model"
	"github.com/praveenhebbal38/Streak-Master/internal/repository"
)

// State is the session timer's derived state.
type State string

const (
	// StateIdle means no session exists for the habit.
	StateIdle State = "idle"
	// StateRunning means a session is underway and has time remaining.
	StateRunning State = "running"
	// StateComplete means the required duration has fully elapsed. The
	// record stays until a check-in consumes it or the user cancels.
	StateComplete State = "complete"
)

// Status is a point-in-time snapshot of a habit's session.
type Status struct {
	State     State         `json:"state"`
	Remaining time.Duration `json:"-"`
	// RemainingSeconds mirrors Remaining for JSON clients.
	RemainingSeconds int `json:"remainingSeconds"`
	// StartedAt is zero when State is Idle.
	StartedAt time.Time `json:"startedAt,omitzero"`
}

// Service manages session timers on top of a TimerRepository.
type Service struct {
	timers repository.TimerRepository
	habits repository.HabitRepository
	logger *slog.Logger
	now    func() time.Time
	// tick is the countdown emission interval, one second in production.
	tick time.Duration
}

// NewService creates a timer Service using the wall clock.
func NewService(timers repository.TimerRepository, habits repository.HabitRepository, logger *slog.Logger) *Service {
	return &Service{
		timers: timers,
		habits: habits,
		logger: logger,
		now:    time.Now,
		tick:   time.Second,
	}
}

// Start begins a session for the habit. Only an Idle habit can start;
// starting while Running or Complete fails validation, and a habit without
// a duration never enters the timer at all.
func (s *Service) Start(ctx context.Context, userID, habitID string) (*Status, error) {
	habit, err := s.getOwned(ctx, userID, habitID)
	if err != nil {
		return nil, err
	}
	if habit.DurationMinutes == 0 {
		return nil, apperror.ValidationFailed("duration", "habit has no session duration")
	}

	st, err := s.statusOf(ctx, habit)
	if err != nil {
		return nil, err
	}
	if st.State != StateIdle {
		return nil, apperror.ValidationFailed("timer", fmt.Sprintf("session already %s", st.State))
	}

	start := s.now()
	if err := s.timers.PutStart(ctx, habitID, start); err != nil {
		return nil, fmt.Errorf("timer: starting session for habit %s: %w", habitID, err)
	}

	s.logger.Info("session started",
		slog.String("habitID", habitID),
		slog.Int("durationMinutes", habit.DurationMinutes),
	)

	return &Status{
		State:            StateRunning,
		Remaining:        habit.SessionDuration(),
		RemainingSeconds: int(habit.SessionDuration() / time.Second),
		StartedAt:        start,
	}, nil
}

// Cancel discards the habit's session record, whatever state it is in.
// Cancelling an Idle habit is a no-op.
func (s *Service) Cancel(ctx context.Context, userID, habitID string) error {
	if _, err := s.getOwned(ctx, userID, habitID); err != nil {
		return err
	}
	if err := s.timers.Clear(ctx, habitID); err != nil {
		return fmt.Errorf("timer: cancelling session for habit %s: %w", habitID, err)
	}
	s.logger.Info("session cancelled", slog.String("habitID", habitID))
	return nil
}

// Status reports the habit's current session state without modifying it.
func (s *Service) Status(ctx context.Context, userID, habitID string) (*Status, error) {
	habit, err := s.getOwned(ctx, userID, habitID)
	if err != nil {
		return nil, err
	}
	return s.statusOf(ctx, habit)
}

// statusOf derives the state from the stored start instant.
func (s *Service) statusOf(ctx context.Context, habit *model.Habit) (*Status, error) {
	start, ok, err := s.timers.GetStart(ctx, habit.ID)
	if err != nil {
		return nil, fmt.Errorf("timer: reading session for habit %s: %w", habit.ID, err)
	}
	if !ok {
		return &Status{State: StateIdle}, nil
	}

	elapsed := s.now().Sub(start)
	required := habit.SessionDuration()
	if elapsed >= required {
		return &Status{State: StateComplete, StartedAt: start}, nil
	}

	remaining := required - elapsed
	return &Status{
		State:            StateRunning,
		Remaining:        remaining,
		RemainingSeconds: int((remaining + time.Second - 1) / time.Second),
		StartedAt:        start,
	}, nil
}

// Countdown streams per-second status snapshots into out until the session
// completes, stops existing, or ctx is cancelled. It closes out on return,
// so a range over the channel terminates cleanly. The initial status is
// emitted immediately, so a client connecting mid-session resumes from the
// true remaining time.
func (s *Service) Countdown(ctx context.Context, userID, habitID string, out chan<- Status) error {
	defer close(out)

	emit := func() (done bool, err error) {
		st, err := s.Status(ctx, userID, habitID)
		if err != nil {
			return true, err
		}
		select {
		case out <- *st:
		case <-ctx.Done():
			return true, ctx.Err()
		}
		// Idle (cancelled elsewhere) and Complete both end the stream.
		return st.State != StateRunning, nil
	}

	if done, err := emit(); done {
		return err
	}

	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if done, err := emit(); done {
				return err
			}
		}
	}
}

func (s *Service) getOwned(ctx context.Context, userID, habitID string) (*model.Habit, error) {
	habit, err := s.habits.GetByID(ctx, habitID)
	if err != nil {
		return nil, fmt.Errorf("timer: fetching habit %s: %w", habitID, err)
	}
	if habit.UserID != userID {
		return nil, apperror.Forbidden("habit belongs to another user")
	}
	return habit, nil
}

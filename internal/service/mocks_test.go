package service

import (
	"context"
	"fmt"
	"time"

	"github.com/praveenhebbal38/Streak-Master/internal/apperror"
	"github.com/praveenhebbal38/Streak-Master/internal/model"
)

// In-memory fakes of the repository interfaces. They enforce the same
// invariants the sqlite stores do (duplicate email, one log per habit+date,
// cascading delete) so service tests exercise realistic failure paths.

type mockUserRepo struct {
	users  map[string]*model.User
	nextID int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	for _, u := range m.users {
		if u.Email == user.Email {
			return apperror.DuplicateUser(user.Email)
		}
	}
	m.nextID++
	user.ID = fmt.Sprintf("user-%d", m.nextID)
	user.CreatedAt = time.Now()
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	result := *u
	return &result, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			result := *u
			return &result, nil
		}
	}
	return nil, apperror.NotFound("user", email)
}

// mockHabitRepo and mockLogRepo share log storage so SaveCheckIn and the
// delete cascade behave like the real transactional store.

type mockHabitRepo struct {
	habits  map[string]*model.Habit
	order   []string // creation order, for ListByUser
	logRepo *mockLogRepo
	nextID  int
}

type mockLogRepo struct {
	logs      []model.HabitLog
	habitRepo *mockHabitRepo
	nextID    int
}

// newMockStore wires a habit repo and log repo that share state.
func newMockStore() (*mockHabitRepo, *mockLogRepo) {
	habits := &mockHabitRepo{habits: make(map[string]*model.Habit)}
	logs := &mockLogRepo{habitRepo: habits}
	habits.logRepo = logs
	return habits, logs
}

func (m *mockHabitRepo) Create(_ context.Context, habit *model.Habit) error {
	m.nextID++
	habit.ID = fmt.Sprintf("habit-%d", m.nextID)
	habit.CreatedAt = time.Now()
	habit.StreakCount = 0
	habit.LastCompletedDate = ""
	stored := *habit
	m.habits[habit.ID] = &stored
	m.order = append(m.order, habit.ID)
	return nil
}

func (m *mockHabitRepo) GetByID(_ context.Context, id string) (*model.Habit, error) {
	h, ok := m.habits[id]
	if !ok {
		return nil, apperror.NotFound("habit", id)
	}
	result := *h
	return &result, nil
}

func (m *mockHabitRepo) ListByUser(_ context.Context, userID string) ([]model.Habit, error) {
	result := []model.Habit{}
	for _, id := range m.order {
		if h, ok := m.habits[id]; ok && h.UserID == userID {
			result = append(result, *h)
		}
	}
	return result, nil
}

func (m *mockHabitRepo) Update(_ context.Context, habit *model.Habit) error {
	if _, ok := m.habits[habit.ID]; !ok {
		return apperror.NotFound("habit", habit.ID)
	}
	stored := *habit
	m.habits[habit.ID] = &stored
	return nil
}

func (m *mockHabitRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.habits[id]; !ok {
		return apperror.NotFound("habit", id)
	}
	delete(m.habits, id)
	kept := m.logRepo.logs[:0]
	for _, l := range m.logRepo.logs {
		if l.HabitID != id {
			kept = append(kept, l)
		}
	}
	m.logRepo.logs = kept
	return nil
}

func (m *mockHabitRepo) SaveCheckIn(_ context.Context, habit *model.Habit, log *model.HabitLog) error {
	if _, ok := m.habits[habit.ID]; !ok {
		return apperror.NotFound("habit", habit.ID)
	}
	for _, l := range m.logRepo.logs {
		if l.HabitID == log.HabitID && l.Date == log.Date {
			return apperror.AlreadyCheckedIn(log.HabitID, log.Date)
		}
	}
	stored := *habit
	m.habits[habit.ID] = &stored
	m.logRepo.nextID++
	log.ID = fmt.Sprintf("log-%d", m.logRepo.nextID)
	m.logRepo.logs = append(m.logRepo.logs, *log)
	return nil
}

func (m *mockHabitRepo) ListDueReminders(_ context.Context, hhmm string) ([]model.Habit, error) {
	result := []model.Habit{}
	for _, id := range m.order {
		if h, ok := m.habits[id]; ok && h.ReminderTime == hhmm {
			result = append(result, *h)
		}
	}
	return result, nil
}

func (m *mockLogRepo) Create(_ context.Context, log *model.HabitLog) error {
	m.nextID++
	log.ID = fmt.Sprintf("log-%d", m.nextID)
	if log.Status == "" {
		log.Status = model.StatusCompleted
	}
	m.logs = append(m.logs, *log)
	return nil
}

func (m *mockLogRepo) ListByHabit(_ context.Context, habitID string) ([]model.HabitLog, error) {
	result := []model.HabitLog{}
	for _, l := range m.logs {
		if l.HabitID == habitID {
			result = append(result, l)
		}
	}
	return result, nil
}

func (m *mockLogRepo) CountByUser(_ context.Context, userID string) (int, error) {
	count := 0
	for _, l := range m.logs {
		if h, ok := m.habitRepo.habits[l.HabitID]; ok && h.UserID == userID {
			count++
		}
	}
	return count, nil
}

func (m *mockLogRepo) ListByUserSince(_ context.Context, userID, fromDate string) ([]model.HabitLog, error) {
	result := []model.HabitLog{}
	for _, l := range m.logs {
		h, ok := m.habitRepo.habits[l.HabitID]
		if ok && h.UserID == userID && l.Date >= fromDate {
			result = append(result, l)
		}
	}
	return result, nil
}

package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praveenhebbal38/Streak-Master/internal/auth"
	"github.com/praveenhebbal38/Streak-Master/internal/model"
	"github.com/praveenhebbal38/Streak-Master/internal/repository/sqlite"
	"github.com/praveenhebbal38/Streak-Master/internal/service"
	"github.com/praveenhebbal38/Streak-Master/internal/timer"
)

// checkInEnv wires real services over an in-memory store so the gating path
// is exercised end to end, from router to SQLite.
type checkInEnv struct {
	router *chi.Mux
	db     *sqlite.DB
	userID string
}

func newCheckInEnv(t *testing.T) *checkInEnv {
	t.Helper()

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	user := &model.User{Name: "Tester", Email: "t@example.com", PasswordHash: "x"}
	require.NoError(t, db.Users().Create(context.Background(), user))

	habitSvc := service.NewHabitService(db.Habits(), db.Logs(), logger)
	checkinSvc := service.NewCheckInService(db.Habits(), logger)
	timerSvc := timer.NewService(db.Timers(), db.Habits(), logger)
	h := NewCheckInHandler(checkinSvc, habitSvc, timerSvc, logger)

	router := chi.NewRouter()
	// Stand-in for RequireAuth: inject the test user directly.
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(auth.ContextWithUserID(r.Context(), user.ID)))
		})
	})
	router.Post("/api/habits/{id}/checkin", h.HandleCheckIn)

	return &checkInEnv{router: router, db: db, userID: user.ID}
}

func (e *checkInEnv) createHabit(t *testing.T, durationMinutes int, question string) *model.Habit {
	t.Helper()
	habit := &model.Habit{
		UserID:          e.userID,
		Title:           "Practice",
		Category:        model.CategoryPersonal,
		DurationMinutes: durationMinutes,
		CheckInQuestion: question,
	}
	require.NoError(t, e.db.Habits().Create(context.Background(), habit))
	return habit
}

func (e *checkInEnv) checkIn(t *testing.T, habitID, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/habits/"+habitID+"/checkin", strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func TestHandleCheckIn_PlainHabit(t *testing.T) {
	env := newCheckInEnv(t)
	habit := env.createHabit(t, 0, "")

	rec := env.checkIn(t, habit.ID, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res struct {
		Habit model.Habit    `json:"habit"`
		Log   model.HabitLog `json:"log"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, 1, res.Habit.StreakCount)
	assert.Equal(t, model.StatusCompleted, res.Log.Status)
}

func TestHandleCheckIn_SecondSameDayConflicts(t *testing.T) {
	env := newCheckInEnv(t)
	habit := env.createHabit(t, 0, "")

	require.Equal(t, http.StatusOK, env.checkIn(t, habit.ID, "").Code)

	rec := env.checkIn(t, habit.ID, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "already_checked_in")
}

func TestHandleCheckIn_TimerGate(t *testing.T) {
	env := newCheckInEnv(t)
	habit := env.createHabit(t, 25, "")

	// No session at all: gated.
	rec := env.checkIn(t, habit.ID, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "timer_incomplete")

	// Session still running: gated.
	require.NoError(t, env.db.Timers().PutStart(context.Background(), habit.ID, time.Now().Add(-time.Minute)))
	rec = env.checkIn(t, habit.ID, "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "timer_incomplete")

	// Duration elapsed: check-in passes and consumes the session.
	require.NoError(t, env.db.Timers().PutStart(context.Background(), habit.ID, time.Now().Add(-26*time.Minute)))
	rec = env.checkIn(t, habit.ID, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	_, ok, err := env.db.Timers().GetStart(context.Background(), habit.ID)
	require.NoError(t, err)
	assert.False(t, ok, "completed timer should be consumed by the check-in")
}

func TestHandleCheckIn_AnswerRequired(t *testing.T) {
	env := newCheckInEnv(t)
	habit := env.createHabit(t, 0, "What did you learn?")

	rec := env.checkIn(t, habit.ID, "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "answer_required")

	rec = env.checkIn(t, habit.ID, `{"answer":"interfaces"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	logs, err := env.db.Logs().ListByHabit(context.Background(), habit.ID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "interfaces", logs[0].Answer)
}

func TestHandleCheckIn_UnknownHabit(t *testing.T) {
	env := newCheckInEnv(t)

	rec := env.checkIn(t, "missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

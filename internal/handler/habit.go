package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/praveenhebbal38/Streak-Master/internal/apperror"
	"github.com/praveenhebbal38/Streak-Master/internal/auth"
	"github.com/praveenhebbal38/Streak-Master/internal/dateutil"
	"github.com/praveenhebbal38/Streak-Master/internal/model"
	"github.com/praveenhebbal38/Streak-Master/internal/service"
)

// HabitHandler serves habit CRUD, history, and the calendar view.
type HabitHandler struct {
	habits *service.HabitService
	logger *slog.Logger
}

func NewHabitHandler(habits *service.HabitService, logger *slog.Logger) *HabitHandler {
	return &HabitHandler{habits: habits, logger: logger}
}

// habitRequest is the create/update payload. Streak fields are absent on
// purpose: only check-ins move streaks.
type habitRequest struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	Category        string `json:"category"`
	ReminderTime    string `json:"reminderTime"`
	DurationMinutes int    `json:"duration"`
	CheckInQuestion string `json:"checkInQuestion"`
}

func (req *habitRequest) toInput() service.HabitInput {
	return service.HabitInput{
		Title:           req.Title,
		Description:     req.Description,
		Category:        model.Category(req.Category),
		ReminderTime:    req.ReminderTime,
		DurationMinutes: req.DurationMinutes,
		CheckInQuestion: req.CheckInQuestion,
	}
}

// HandleCreate creates a habit for the authenticated user.
//
// HTTP: POST /api/habits
func (h *HabitHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req habitRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	habit, err := h.habits.Create(r.Context(), userID, req.toInput())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, habit)
}

// HandleList returns the user's habits, oldest first.
//
// HTTP: GET /api/habits
func (h *HabitHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	habits, err := h.habits.List(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, habits)
}

// HandleGet returns a single habit.
//
// HTTP: GET /api/habits/{id}
func (h *HabitHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	habit, err := h.habits.Get(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, habit)
}

// HandleUpdate replaces a habit's editable fields.
//
// HTTP: PUT /api/habits/{id}
func (h *HabitHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	var req habitRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	habit, err := h.habits.Update(r.Context(), userID, chi.URLParam(r, "id"), req.toInput())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, habit)
}

// HandleDelete removes a habit and its entire history.
//
// HTTP: DELETE /api/habits/{id}
func (h *HabitHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	if err := h.habits.Delete(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleLogs returns a habit's check-in history, oldest first.
//
// HTTP: GET /api/habits/{id}/logs
func (h *HabitHandler) HandleLogs(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	logs, err := h.habits.Logs(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, logs)
}

// calendarDay is one grid cell of the monthly calendar view.
type calendarDay struct {
	dateutil.Day
	Completed bool `json:"completed"`
}

// HandleCalendar returns a habit's month as a day grid with completion
// marks. Year and month default to the current month.
//
// HTTP: GET /api/habits/{id}/calendar?year=2025&month=6
func (h *HabitHandler) HandleCalendar(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	now := time.Now()
	year, month := now.Year(), now.Month()
	if q := r.URL.Query().Get("year"); q != "" {
		y, err := strconv.Atoi(q)
		if err != nil {
			writeError(w, apperror.ValidationFailed("year", "year must be a number"))
			return
		}
		year = y
	}
	if q := r.URL.Query().Get("month"); q != "" {
		m, err := strconv.Atoi(q)
		if err != nil || m < 1 || m > 12 {
			writeError(w, apperror.ValidationFailed("month", "month must be 1-12"))
			return
		}
		month = time.Month(m)
	}

	logs, err := h.habits.Logs(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	completed := make(map[string]bool, len(logs))
	for _, l := range logs {
		if l.Status == model.StatusCompleted {
			completed[l.Date] = true
		}
	}

	days := dateutil.MonthDays(year, month)
	grid := make([]calendarDay, 0, len(days))
	for _, d := range days {
		grid = append(grid, calendarDay{Day: d, Completed: completed[d.Key]})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"year":  year,
		"month": int(month),
		"days":  grid,
	})
}

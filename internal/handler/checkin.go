package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/praveenhebbal38/Streak-Master/internal/auth"
	"github.com/praveenhebbal38/Streak-Master/internal/service"
	"github.com/praveenhebbal38/Streak-Master/internal/timer"
)

// CheckInHandler records daily completions. It owns the session-timer gate:
// the check-in engine itself never inspects timers, so the gate lives here,
// in front of it.
type CheckInHandler struct {
	checkins *service.CheckInService
	habits   *service.HabitService
	timers   *timer.Service
	logger   *slog.Logger
}

func NewCheckInHandler(
	checkins *service.CheckInService,
	habits *service.HabitService,
	timers *timer.Service,
	logger *slog.Logger,
) *CheckInHandler {
	return &CheckInHandler{
		checkins: checkins,
		habits:   habits,
		timers:   timers,
		logger:   logger,
	}
}

type checkInRequest struct {
	Answer string `json:"answer"`
}

// checkInResponse returns the post-transition habit with the log the
// check-in produced.
type checkInResponse struct {
	Habit any `json:"habit"`
	Log   any `json:"log"`
}

// HandleCheckIn records today's completion of a habit.
//
// For a habit with a session duration, the timer must read Complete before
// the streak transition runs; otherwise the request fails with 409
// timer_incomplete and no state changes. A completed timer is consumed by
// the check-in transaction.
//
// HTTP: POST /api/habits/{id}/checkin
func (h *CheckInHandler) HandleCheckIn(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	habitID := chi.URLParam(r, "id")

	var req checkInRequest
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, err)
			return
		}
	}

	habit, err := h.habits.Get(r.Context(), userID, habitID)
	if err != nil {
		writeError(w, err)
		return
	}

	if habit.DurationMinutes > 0 {
		st, err := h.timers.Status(r.Context(), userID, habitID)
		if err != nil {
			writeError(w, err)
			return
		}
		if st.State != timer.StateComplete {
			writeJSON(w, http.StatusConflict, ErrorResponse{
				Error:   "timer_incomplete",
				Message: "complete the session timer before checking in",
			})
			return
		}
	}

	res, err := h.checkins.CheckIn(r.Context(), userID, habitID, req.Answer)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, checkInResponse{Habit: res.Habit, Log: res.Log})
}

package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/praveenhebbal38/Streak-Master/internal/auth"
	"github.com/praveenhebbal38/Streak-Master/internal/timer"
)

// TimerHandler exposes session timer control and the live countdown stream.
type TimerHandler struct {
	timers *timer.Service
	logger *slog.Logger
}

func NewTimerHandler(timers *timer.Service, logger *slog.Logger) *TimerHandler {
	return &TimerHandler{timers: timers, logger: logger}
}

// HandleStart begins a session.
//
// HTTP: POST /api/habits/{id}/timer/start
func (h *TimerHandler) HandleStart(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	st, err := h.timers.Start(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, st)
}

// HandleCancel discards the session, whatever state it is in.
//
// HTTP: POST /api/habits/{id}/timer/cancel
func (h *TimerHandler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	if err := h.timers.Cancel(r.Context(), userID, chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleStatus reports the current session state.
//
// HTTP: GET /api/habits/{id}/timer
func (h *TimerHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	st, err := h.timers.Status(r.Context(), userID, chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, st)
}

// HandleStream streams the countdown as server-sent events, one snapshot
// per second, ending when the session completes, is cancelled, or the
// client disconnects. A client reconnecting mid-session resumes from the
// true remaining time because the first event is emitted immediately.
//
// HTTP: GET /api/habits/{id}/timer/stream
func (h *TimerHandler) HandleStream(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())
	habitID := chi.URLParam(r, "id")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	// Resolve ownership and existence before committing to a 200 stream.
	if _, err := h.timers.Status(r.Context(), userID, habitID); err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	out := make(chan timer.Status)
	errc := make(chan error, 1)
	go func() {
		errc <- h.timers.Countdown(r.Context(), userID, habitID, out)
	}()

	for st := range out {
		payload, err := json.Marshal(st)
		if err != nil {
			break
		}
		fmt.Fprintf(w, "data: %s\n\n", payload)
		flusher.Flush()
	}

	if err := <-errc; err != nil && r.Context().Err() == nil {
		h.logger.Error("countdown stream ended with error",
			slog.String("habitID", habitID),
			slog.Any("error", err),
		)
	}
}

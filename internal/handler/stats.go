package handler

import (
	"log/slog"
	"net/http"

	"github.com/praveenhebbal38/Streak-Master/internal/auth"
	"github.com/praveenhebbal38/Streak-Master/internal/service"
)

// StatsHandler serves the profile analytics snapshot.
type StatsHandler struct {
	analytics *service.AnalyticsService
	logger    *slog.Logger
}

func NewStatsHandler(analytics *service.AnalyticsService, logger *slog.Logger) *StatsHandler {
	return &StatsHandler{analytics: analytics, logger: logger}
}

// HandleStats returns the user's aggregate statistics: totals, best streak,
// active streak count, badges, and the 7-day activity histogram.
//
// HTTP: GET /api/me/stats
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	userID, _ := auth.UserIDFromContext(r.Context())

	stats, err := h.analytics.Stats(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, stats)
}

// ABOUTME: HTTP handler for the plan run history endpoint
// ABOUTME: Returns recent runs newest first, or an empty list when disabled

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/planwise/capacity-planner/store"
)

// History returns the most recent recorded plan runs. When no history store
// is configured the endpoint still succeeds with an empty list.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		h.writeJSON(w, http.StatusOK, []store.Run{})
		return
	}

	runs, err := h.history.RecentRuns(r.Context(), h.cfg.HistoryLimit)
	if err != nil {
		slog.Error("Failed to load run history", "error", err)
		h.writeError(w, "Failed to load run history", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, runs)
}

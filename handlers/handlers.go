// ABOUTME: HTTP handlers for the capacity planner API endpoints
// ABOUTME: Provides health check plus shared JSON encoding and error helpers

package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/planwise/capacity-planner/cache"
	"github.com/planwise/capacity-planner/config"
	"github.com/planwise/capacity-planner/models"
	"github.com/planwise/capacity-planner/services"
	"github.com/planwise/capacity-planner/store"
)

// maxRequestBodySize limits JSON request bodies to 1MB to prevent DOS attacks
const maxRequestBodySize = 1 << 20 // 1MB

type Handler struct {
	cfg     *config.Config
	cache   *cache.Cache
	planner *services.Planner
	history *store.Store
}

// NewHandler creates the API handler. The history store is optional; when nil
// the service runs without run persistence and the history endpoint returns
// an empty list.
func NewHandler(cfg *config.Config, cache *cache.Cache, history *store.Store) *Handler {
	return &Handler{
		cfg:     cfg,
		cache:   cache,
		planner: services.NewPlanner(),
		history: history,
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{
		"status":  "ok",
		"history": "not_configured",
	}
	if h.history != nil {
		resp["history"] = "ok"
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	h.writeJSON(w, code, models.ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// ABOUTME: HTTP handlers for plan computation and preview endpoints
// ABOUTME: Caches full plan runs by request digest and records them to history

package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/planwise/capacity-planner/cache"
	"github.com/planwise/capacity-planner/models"
	"github.com/planwise/capacity-planner/store"
)

// HandlePlan computes a full allocation plan. Identical requests within the
// cache TTL are served from cache. HTTP method validation handled by
// Go 1.22+ router pattern matching.
func (h *Handler) HandlePlan(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodePlanRequest(w, r)
	if !ok {
		return
	}

	digest, err := cache.RequestDigest(req)
	if err == nil {
		if cached, found := h.cache.Get("plan:" + digest); found {
			slog.Debug("Plan cache hit", "digest", digest)
			h.writeJSON(w, http.StatusOK, cached)
			return
		}
	}

	resp, err := h.planner.Plan(req)
	if err != nil {
		h.writePlanError(w, err)
		return
	}

	if digest != "" {
		h.cache.Set("plan:"+digest, resp)
	}
	h.recordRun(r, resp)

	h.writeJSON(w, http.StatusOK, resp)
}

// HandlePlanPreview computes allocation and metrics without recommendations.
// Previews are never cached or recorded.
func (h *Handler) HandlePlanPreview(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodePlanRequest(w, r)
	if !ok {
		return
	}

	resp, err := h.planner.Preview(req)
	if err != nil {
		h.writePlanError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, resp)
}

// decodePlanRequest reads and decodes a size-capped plan request body.
func (h *Handler) decodePlanRequest(w http.ResponseWriter, r *http.Request) (models.PlanRequest, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

	var req models.PlanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.writeError(w, "Request body too large", http.StatusBadRequest)
			return models.PlanRequest{}, false
		}
		h.writeError(w, "Invalid JSON", http.StatusBadRequest)
		return models.PlanRequest{}, false
	}
	h.applyConfigDefaults(&req)
	return req, true
}

// applyConfigDefaults seeds the service-level bottleneck threshold into
// requests that do not override it. A per-request value always wins.
func (h *Handler) applyConfigDefaults(req *models.PlanRequest) {
	if req.Config == nil {
		req.Config = &models.PlanConfig{}
	}
	if req.Config.BottleneckThreshold == 0 {
		req.Config.BottleneckThreshold = h.cfg.BottleneckThreshold
	}
}

// writePlanError maps engine errors onto HTTP status codes. Validation and
// configuration problems are the caller's fault; everything else is ours.
func (h *Handler) writePlanError(w http.ResponseWriter, err error) {
	var valErr *models.ValidationError
	if errors.As(err, &valErr) {
		h.writeJSON(w, http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid input data",
			Details: valErr.Error(),
			Code:    http.StatusBadRequest,
		})
		return
	}
	var cfgErr *models.ConfigError
	if errors.As(err, &cfgErr) {
		h.writeJSON(w, http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid configuration",
			Details: cfgErr.Error(),
			Code:    http.StatusBadRequest,
		})
		return
	}
	slog.Error("Plan computation failed", "error", err)
	h.writeError(w, "Plan computation failed", http.StatusInternalServerError)
}

// recordRun persists a run summary to the history store when configured.
// History failures degrade to a warning; the response is already computed.
func (h *Handler) recordRun(r *http.Request, resp *models.PlanResponse) {
	if h.history == nil {
		return
	}
	run := store.Run{
		Processes:  resp.Summary.TotalProcesses,
		Resources:  resp.Summary.TotalResources,
		Deficits:   len(resp.Deficits),
		Efficiency: resp.Summary.Efficiency,
		TotalCost:  resp.Summary.TotalCost,
	}
	if _, err := h.history.SaveRun(r.Context(), run); err != nil {
		slog.Warn("Failed to record plan run", "error", err)
	}
}

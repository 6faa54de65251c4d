// ABOUTME: HTTP handler for scenario comparison endpoint
// ABOUTME: Runs baseline and proposed plans in parallel and reports deltas

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/planwise/capacity-planner/models"
)

// CompareRequest carries two full plan requests to evaluate side by side.
type CompareRequest struct {
	Baseline models.PlanRequest `json:"baseline"`
	Proposed models.PlanRequest `json:"proposed"`
}

// CompareResponse pairs both plan outcomes with the headline deltas.
type CompareResponse struct {
	Baseline *models.PlanResponse `json:"baseline"`
	Proposed *models.PlanResponse `json:"proposed"`
	Delta    ScenarioDelta        `json:"delta"`
}

// ScenarioDelta summarizes proposed-minus-baseline movement.
type ScenarioDelta struct {
	Efficiency     float64 `json:"efficiency"`
	TotalCost      float64 `json:"total_cost"`
	Deficits       int     `json:"deficits"`
	Bottlenecks    int     `json:"bottlenecks"`
	AllocatedHours float64 `json:"allocated_hours"`
}

// CompareScenario evaluates a baseline and a proposed scenario and returns
// both results plus the deltas. Both runs share nothing, so they execute
// concurrently. HTTP method validation handled by Go 1.22+ router pattern
// matching.
func (h *Handler) CompareScenario(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)

	var req CompareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.writeError(w, "Request body too large", http.StatusBadRequest)
			return
		}
		h.writeError(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	h.applyConfigDefaults(&req.Baseline)
	h.applyConfigDefaults(&req.Proposed)

	var baseline, proposed *models.PlanResponse
	g, _ := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		baseline, err = h.planner.Plan(req.Baseline)
		return err
	})
	g.Go(func() error {
		var err error
		proposed, err = h.planner.Plan(req.Proposed)
		return err
	})
	if err := g.Wait(); err != nil {
		h.writePlanError(w, err)
		return
	}

	resp := CompareResponse{
		Baseline: baseline,
		Proposed: proposed,
		Delta: ScenarioDelta{
			Efficiency:     proposed.Summary.Efficiency - baseline.Summary.Efficiency,
			TotalCost:      proposed.Summary.TotalCost - baseline.Summary.TotalCost,
			Deficits:       len(proposed.Deficits) - len(baseline.Deficits),
			Bottlenecks:    len(proposed.Summary.Bottlenecks) - len(baseline.Summary.Bottlenecks),
			AllocatedHours: proposed.Summary.TotalAllocatedHours - baseline.Summary.TotalAllocatedHours,
		},
	}

	h.writeJSON(w, http.StatusOK, resp)
}

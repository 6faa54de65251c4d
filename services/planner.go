// ABOUTME: Planner facade running validate, allocate, summarize, recommend
// ABOUTME: Stateless per invocation; safe for concurrent independent runs

package services

import (
	"github.com/planwise/capacity-planner/models"
)

// Planner wires the allocation engine end to end. It holds no per-run state;
// a single Planner may serve concurrent requests as long as each request
// carries its own records.
type Planner struct {
	allocator   *Allocator
	metrics     *MetricsEngine
	recommender *RecommendationEngine
}

// NewPlanner creates a planner with the default engine components.
func NewPlanner() *Planner {
	return &Planner{
		allocator:   NewAllocator(),
		metrics:     NewMetricsEngine(),
		recommender: NewRecommendationEngine(),
	}
}

// Plan executes a full engine run: configuration check, input validation,
// allocation, metrics, recommendations. Validation is all-or-nothing; no
// partial result is ever returned alongside an error.
func (p *Planner) Plan(req models.PlanRequest) (*models.PlanResponse, error) {
	resp, cfg, ds, err := p.prepare(req)
	if err != nil {
		return nil, err
	}
	outcome := p.allocator.Allocate(ds, cfg.PriorityWeights)
	resp.Assignments = outcome.Assignments
	resp.Deficits = outcome.Deficits
	resp.Summary = p.metrics.Summarize(ds, outcome, cfg)
	resp.Recommendations = p.recommender.Generate(resp.Summary)
	return resp, nil
}

// Preview runs allocation and metrics without generating recommendations.
func (p *Planner) Preview(req models.PlanRequest) (*models.PlanResponse, error) {
	resp, cfg, ds, err := p.prepare(req)
	if err != nil {
		return nil, err
	}
	outcome := p.allocator.Allocate(ds, cfg.PriorityWeights)
	resp.Assignments = outcome.Assignments
	resp.Deficits = outcome.Deficits
	resp.Summary = p.metrics.Summarize(ds, outcome, cfg)
	resp.Recommendations = []models.Recommendation{}
	return resp, nil
}

// prepare resolves configuration and validates input before any processing.
func (p *Planner) prepare(req models.PlanRequest) (*models.PlanResponse, models.PlanConfig, *models.Dataset, error) {
	cfg := models.DefaultPlanConfig()
	if req.Config != nil {
		cfg = req.Config.WithDefaults()
	}
	if err := cfg.Validate(); err != nil {
		return nil, cfg, nil, err
	}
	ds, err := models.NewDataset(req.Processes, req.Resources)
	if err != nil {
		return nil, cfg, nil, err
	}
	return &models.PlanResponse{}, cfg, ds, nil
}

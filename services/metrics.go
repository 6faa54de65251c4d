// ABOUTME: Metrics engine computing efficiency, cost, bottlenecks, and critical path
// ABOUTME: Pure function of the capacity model and allocator output

package services

import (
	"sort"

	"github.com/planwise/capacity-planner/models"
)

// MetricsEngine derives the run summary from allocation output. It never
// mutates allocator state.
type MetricsEngine struct{}

// NewMetricsEngine creates a new metrics engine.
func NewMetricsEngine() *MetricsEngine {
	return &MetricsEngine{}
}

// Summarize computes the aggregate metrics for one run.
func (m *MetricsEngine) Summarize(ds *models.Dataset, out AllocationOutcome, cfg models.PlanConfig) models.Summary {
	totalEstimated := ds.TotalEstimatedHours()

	totalAllocated := 0.0
	totalCost := 0.0
	costByResource := make(map[string]float64, len(ds.Resources))
	for _, r := range ds.Resources {
		costByResource[r.ID] = r.CostPerHour
	}
	for _, a := range out.Assignments {
		totalAllocated += a.AllocatedHours
		totalCost += a.AllocatedHours * costByResource[a.ResourceID]
	}

	efficiency := 0.0
	if totalEstimated > 0 {
		efficiency = totalAllocated / totalEstimated * 100
	}

	utilization := models.BuildUtilization(ds.Resources, out.AllocatedByResource, out.DeficitCountByResource)
	bottlenecks := make([]string, 0)
	for i := range utilization {
		u := &utilization[i]
		if u.Utilization > cfg.BottleneckThreshold || u.DeficitCount >= 1 {
			u.IsBottleneck = true
			bottlenecks = append(bottlenecks, u.ResourceID)
		}
	}

	return models.Summary{
		TotalProcesses:      len(ds.Processes),
		TotalResources:      len(ds.Resources),
		TotalEstimatedHours: totalEstimated,
		TotalAllocatedHours: totalAllocated,
		TotalCapacityHours:  ds.TotalCapacityHours(),
		Efficiency:          efficiency,
		TotalCost:           totalCost,
		Utilization:         models.RankByUtilization(utilization),
		Deficits:            out.Deficits,
		Bottlenecks:         bottlenecks,
		CriticalPath:        models.CriticalPath(ds.Processes),
		UnmetDemand:         unmetDemand(ds, out.Deficits),
	}
}

// unmetDemand aggregates deficit hours per required capability tag, sorted by
// descending unmet hours, ties by tag.
func unmetDemand(ds *models.Dataset, deficits []models.Deficit) []models.CapabilityDemand {
	if len(deficits) == 0 {
		return nil
	}
	byID := make(map[string]models.Process, len(ds.Processes))
	for _, p := range ds.Processes {
		byID[p.ID] = p
	}
	hoursByTag := make(map[string]float64)
	for _, d := range deficits {
		for _, tag := range byID[d.ProcessID].RequiredCapabilities {
			hoursByTag[tag] += d.UnmetHours
		}
	}
	demand := make([]models.CapabilityDemand, 0, len(hoursByTag))
	for tag, hours := range hoursByTag {
		demand = append(demand, models.CapabilityDemand{Tag: tag, UnmetHours: hours})
	}
	sort.Slice(demand, func(i, j int) bool {
		if demand[i].UnmetHours != demand[j].UnmetHours {
			return demand[i].UnmetHours > demand[j].UnmetHours
		}
		return demand[i].Tag < demand[j].Tag
	})
	return demand
}

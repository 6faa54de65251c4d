// ABOUTME: Resource utilization ranking and critical-path heuristic
// ABOUTME: Pure analysis helpers over allocation output, no engine state

package models

import "sort"

// ResourceUtilization describes how loaded a single resource ended up after
// allocation.
type ResourceUtilization struct {
	ResourceID     string  `json:"resource_id"`
	Name           string  `json:"name"`
	AllocatedHours float64 `json:"allocated_hours"`
	CapacityHours  float64 `json:"capacity_hours"`
	Utilization    float64 `json:"utilization"`
	DeficitCount   int     `json:"deficit_count"`
	IsBottleneck   bool    `json:"is_bottleneck"`
}

// BuildUtilization derives per-resource utilization from allocation totals.
// Resources with zero capacity have utilization 0. Output keeps input order.
func BuildUtilization(resources []Resource, allocated map[string]float64, deficitCounts map[string]int) []ResourceUtilization {
	out := make([]ResourceUtilization, 0, len(resources))
	for _, r := range resources {
		u := ResourceUtilization{
			ResourceID:     r.ID,
			Name:           r.Name,
			AllocatedHours: allocated[r.ID],
			CapacityHours:  r.CapacityHours,
			DeficitCount:   deficitCounts[r.ID],
		}
		if r.CapacityHours > 0 {
			u.Utilization = u.AllocatedHours / r.CapacityHours
		}
		out = append(out, u)
	}
	return out
}

// RankByUtilization sorts a copy of the utilization list by descending
// utilization. The sort is stable so equal values keep their input order.
func RankByUtilization(utilization []ResourceUtilization) []ResourceUtilization {
	ranked := make([]ResourceUtilization, len(utilization))
	copy(ranked, utilization)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Utilization > ranked[j].Utilization
	})
	return ranked
}

// CriticalPath returns the ids of critical and high priority processes
// ordered by descending estimated hours. The input carries no dependency
// graph, so this is a demand-ordering heuristic, not a true critical path.
func CriticalPath(processes []Process) []string {
	var urgent []Process
	for _, p := range processes {
		if p.Priority == PriorityCritical || p.Priority == PriorityHigh {
			urgent = append(urgent, p)
		}
	}
	sort.SliceStable(urgent, func(i, j int) bool {
		return urgent[i].EstimatedHours > urgent[j].EstimatedHours
	})
	ids := make([]string, len(urgent))
	for i, p := range urgent {
		ids[i] = p.ID
	}
	return ids
}

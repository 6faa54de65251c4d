// ABOUTME: Priority-weighted greedy allocator matching resource hours to processes
// ABOUTME: Deterministic single pass; owns all mutable state for one run

package services

import (
	"sort"

	"github.com/planwise/capacity-planner/models"
)

// AllocationOutcome is the allocator's output for one run. AllocatedByResource
// and DeficitCountByResource feed the metrics engine; they are derived views,
// not additional state.
type AllocationOutcome struct {
	Assignments            []models.Assignment
	Deficits               []models.Deficit
	AllocatedByResource    map[string]float64
	DeficitCountByResource map[string]int
}

// Allocator performs the greedy assignment pass. It holds no state between
// runs; each Allocate call owns its own remaining-capacity bookkeeping, so
// independent invocations are safe in parallel.
type Allocator struct{}

// NewAllocator creates a new allocator.
func NewAllocator() *Allocator {
	return &Allocator{}
}

// Allocate assigns resource hours to processes in priority order.
//
// Processes are visited by descending priority weight, ties broken by input
// order. For each process, candidate resources share at least one required
// capability and have remaining capacity; candidates are consumed in order of
// descending remaining capacity, then ascending cost per hour, then ascending
// id. The pass is a best-effort heuristic: higher-priority processes are never
// starved in favor of strictly lower-priority ones, but global optimality is
// not guaranteed.
func (a *Allocator) Allocate(ds *models.Dataset, weights map[models.Priority]int) AllocationOutcome {
	out := AllocationOutcome{
		Assignments:            []models.Assignment{},
		Deficits:               []models.Deficit{},
		AllocatedByResource:    make(map[string]float64, len(ds.Resources)),
		DeficitCountByResource: make(map[string]int),
	}

	remaining := make(map[string]float64, len(ds.Resources))
	for _, r := range ds.Resources {
		remaining[r.ID] = r.CapacityHours
	}

	for _, proc := range ds.ProcessesByPriorityDesc(weights) {
		need := proc.EstimatedHours

		matching := matchingResources(proc, ds.Resources)
		if len(matching) == 0 {
			if need > 0 {
				out.Deficits = append(out.Deficits, models.Deficit{
					ProcessID:  proc.ID,
					UnmetHours: need,
					Reason:     models.DeficitNoMatchingCapability,
				})
			}
			continue
		}

		candidates := make([]models.Resource, 0, len(matching))
		for _, r := range matching {
			if remaining[r.ID] > 0 {
				candidates = append(candidates, r)
			}
		}
		sortCandidates(candidates, remaining)

		for _, cand := range candidates {
			if need <= 0 {
				break
			}
			hours := need
			if avail := remaining[cand.ID]; avail < hours {
				hours = avail
			}
			out.Assignments = append(out.Assignments, models.Assignment{
				ProcessID:      proc.ID,
				ResourceID:     cand.ID,
				AllocatedHours: hours,
			})
			remaining[cand.ID] -= hours
			out.AllocatedByResource[cand.ID] += hours
			need -= hours
		}

		if need > 0 {
			out.Deficits = append(out.Deficits, models.Deficit{
				ProcessID:  proc.ID,
				UnmetHours: need,
				Reason:     models.DeficitInsufficientCapacity,
			})
			// Every capability-matching resource with real capacity was
			// drained before this deficit was recorded; count it as a
			// limiting candidate.
			for _, r := range matching {
				if r.CapacityHours > 0 {
					out.DeficitCountByResource[r.ID]++
				}
			}
		}
	}

	return out
}

// matchingResources returns the resources whose capabilities intersect the
// process requirements, in input order.
func matchingResources(proc models.Process, resources []models.Resource) []models.Resource {
	var out []models.Resource
	for _, r := range resources {
		if r.Capabilities.Intersects(proc.RequiredCapabilities) {
			out = append(out, r)
		}
	}
	return out
}

// sortCandidates orders candidates by descending remaining capacity, ties by
// ascending cost per hour, further ties by ascending id. The total order is
// required for deterministic output.
func sortCandidates(candidates []models.Resource, remaining map[string]float64) {
	sort.Slice(candidates, func(i, j int) bool {
		ri, rj := remaining[candidates[i].ID], remaining[candidates[j].ID]
		if ri != rj {
			return ri > rj
		}
		if candidates[i].CostPerHour != candidates[j].CostPerHour {
			return candidates[i].CostPerHour < candidates[j].CostPerHour
		}
		return candidates[i].ID < candidates[j].ID
	})
}

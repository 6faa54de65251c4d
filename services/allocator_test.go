// ABOUTME: Tests for the priority-weighted greedy allocator
// ABOUTME: Covers capacity invariants, determinism, tie-breaks, and deficits

package services

import (
	"reflect"
	"testing"

	"github.com/planwise/capacity-planner/models"
)

func proc(id string, prio models.Priority, hours float64, caps ...string) models.Process {
	return models.Process{
		ID:                   id,
		Name:                 "Process " + id,
		Priority:             prio,
		EstimatedHours:       hours,
		RequiredCapabilities: models.NewCapabilitySet(caps...),
	}
}

func res(id string, capacity, cost float64, caps ...string) models.Resource {
	return models.Resource{
		ID:            id,
		Name:          "Resource " + id,
		CapacityHours: capacity,
		CostPerHour:   cost,
		Capabilities:  models.NewCapabilitySet(caps...),
	}
}

func mustDataset(t *testing.T, processes []models.Process, resources []models.Resource) *models.Dataset {
	t.Helper()
	ds, err := models.NewDataset(processes, resources)
	if err != nil {
		t.Fatalf("NewDataset failed: %v", err)
	}
	return ds
}

func TestAllocate_PriorityOverflowsToDeficit(t *testing.T) {
	// Scenario: one 6h resource, a high-priority 4h process and a
	// low-priority 4h process competing for it.
	ds := mustDataset(t,
		[]models.Process{
			proc("P1", models.PriorityHigh, 4, "analyst"),
			proc("P2", models.PriorityLow, 4, "analyst"),
		},
		[]models.Resource{
			res("R1", 6, 50, "analyst"),
		},
	)

	out := NewAllocator().Allocate(ds, models.DefaultPriorityWeights())

	expected := []models.Assignment{
		{ProcessID: "P1", ResourceID: "R1", AllocatedHours: 4},
		{ProcessID: "P2", ResourceID: "R1", AllocatedHours: 2},
	}
	if !reflect.DeepEqual(out.Assignments, expected) {
		t.Errorf("Expected assignments %+v, got %+v", expected, out.Assignments)
	}

	if len(out.Deficits) != 1 {
		t.Fatalf("Expected 1 deficit, got %d", len(out.Deficits))
	}
	d := out.Deficits[0]
	if d.ProcessID != "P2" || d.UnmetHours != 2 {
		t.Errorf("Expected P2 deficit of 2h, got %+v", d)
	}
	if d.Reason != models.DeficitInsufficientCapacity {
		t.Errorf("Expected reason %q, got %q", models.DeficitInsufficientCapacity, d.Reason)
	}
}

func TestAllocate_NoMatchingCapability(t *testing.T) {
	ds := mustDataset(t,
		[]models.Process{proc("P1", models.PriorityHigh, 8, "devops")},
		[]models.Resource{res("R1", 40, 30, "analyst")},
	)

	out := NewAllocator().Allocate(ds, models.DefaultPriorityWeights())

	if len(out.Assignments) != 0 {
		t.Errorf("Expected no assignments, got %+v", out.Assignments)
	}
	if len(out.Deficits) != 1 {
		t.Fatalf("Expected 1 deficit, got %d", len(out.Deficits))
	}
	d := out.Deficits[0]
	if d.UnmetHours != 8 || d.Reason != models.DeficitNoMatchingCapability {
		t.Errorf("Expected full 8h deficit with reason %q, got %+v", models.DeficitNoMatchingCapability, d)
	}
	if len(out.DeficitCountByResource) != 0 {
		t.Errorf("Expected no resource implicated in a capability deficit, got %v", out.DeficitCountByResource)
	}
}

func TestAllocate_CheaperResourceWinsTie(t *testing.T) {
	// Two resources with equal remaining capacity; the cheaper one must be
	// drained first.
	ds := mustDataset(t,
		[]models.Process{proc("P1", models.PriorityMedium, 5, "welder")},
		[]models.Resource{
			res("R1", 10, 80, "welder"),
			res("R2", 10, 40, "welder"),
		},
	)

	out := NewAllocator().Allocate(ds, models.DefaultPriorityWeights())

	if len(out.Assignments) != 1 {
		t.Fatalf("Expected 1 assignment, got %d", len(out.Assignments))
	}
	if out.Assignments[0].ResourceID != "R2" {
		t.Errorf("Expected cheaper resource R2 selected, got %s", out.Assignments[0].ResourceID)
	}
}

func TestAllocate_EqualCapacityAndCostBreaksTieByID(t *testing.T) {
	ds := mustDataset(t,
		[]models.Process{proc("P1", models.PriorityMedium, 3, "qa")},
		[]models.Resource{
			res("R9", 10, 40, "qa"),
			res("R2", 10, 40, "qa"),
		},
	)

	out := NewAllocator().Allocate(ds, models.DefaultPriorityWeights())

	if out.Assignments[0].ResourceID != "R2" {
		t.Errorf("Expected id tie-break to pick R2, got %s", out.Assignments[0].ResourceID)
	}
}

func TestAllocate_EmptyInputs(t *testing.T) {
	tests := []struct {
		name      string
		processes []models.Process
		resources []models.Resource
		deficits  int
	}{
		{
			name: "no inputs at all",
		},
		{
			name:      "no resources means full deficits",
			processes: []models.Process{proc("P1", models.PriorityLow, 2, "analyst")},
			deficits:  1,
		},
		{
			name:      "no processes means empty result",
			resources: []models.Resource{res("R1", 10, 10, "analyst")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds := mustDataset(t, tt.processes, tt.resources)
			out := NewAllocator().Allocate(ds, models.DefaultPriorityWeights())
			if len(out.Assignments) != 0 {
				t.Errorf("Expected no assignments, got %d", len(out.Assignments))
			}
			if len(out.Deficits) != tt.deficits {
				t.Errorf("Expected %d deficits, got %d", tt.deficits, len(out.Deficits))
			}
		})
	}
}

func TestAllocate_CapacityInvariantsHold(t *testing.T) {
	ds := mustDataset(t,
		[]models.Process{
			proc("P1", models.PriorityCritical, 12, "analyst", "devops"),
			proc("P2", models.PriorityHigh, 9, "analyst"),
			proc("P3", models.PriorityMedium, 20, "devops"),
			proc("P4", models.PriorityLow, 5, "qa"),
		},
		[]models.Resource{
			res("R1", 10, 55, "analyst"),
			res("R2", 8, 35, "devops", "qa"),
			res("R3", 6, 45, "analyst", "devops"),
		},
	)

	out := NewAllocator().Allocate(ds, models.DefaultPriorityWeights())

	byResource := make(map[string]float64)
	byProcess := make(map[string]float64)
	for _, a := range out.Assignments {
		if a.AllocatedHours <= 0 {
			t.Errorf("Assignment %+v has non-positive hours", a)
		}
		byResource[a.ResourceID] += a.AllocatedHours
		byProcess[a.ProcessID] += a.AllocatedHours
	}
	for _, r := range ds.Resources {
		if byResource[r.ID] > r.CapacityHours+1e-9 {
			t.Errorf("Resource %s over-allocated: %.2f > %.2f", r.ID, byResource[r.ID], r.CapacityHours)
		}
	}
	for _, p := range ds.Processes {
		if byProcess[p.ID] > p.EstimatedHours+1e-9 {
			t.Errorf("Process %s over-served: %.2f > %.2f", p.ID, byProcess[p.ID], p.EstimatedHours)
		}
	}
}

func TestAllocate_Deterministic(t *testing.T) {
	processes := []models.Process{
		proc("P1", models.PriorityHigh, 7, "analyst"),
		proc("P2", models.PriorityHigh, 7, "analyst"),
		proc("P3", models.PriorityLow, 4, "devops"),
	}
	resources := []models.Resource{
		res("R1", 9, 40, "analyst", "devops"),
		res("R2", 9, 40, "analyst"),
	}

	ds := mustDataset(t, processes, resources)
	first := NewAllocator().Allocate(ds, models.DefaultPriorityWeights())

	for i := 0; i < 10; i++ {
		again := NewAllocator().Allocate(ds, models.DefaultPriorityWeights())
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("Run %d differed from first run:\nfirst: %+v\nagain: %+v", i, first, again)
		}
	}
}

func TestAllocate_PriorityMonotonicity(t *testing.T) {
	// A and B require the same capability; A has strictly higher priority,
	// so A's unmet fraction must never exceed B's.
	ds := mustDataset(t,
		[]models.Process{
			proc("B", models.PriorityLow, 10, "analyst"),
			proc("A", models.PriorityCritical, 10, "analyst"),
		},
		[]models.Resource{res("R1", 12, 25, "analyst")},
	)

	out := NewAllocator().Allocate(ds, models.DefaultPriorityWeights())

	unmet := map[string]float64{}
	for _, d := range out.Deficits {
		unmet[d.ProcessID] = d.UnmetHours
	}
	fracA := unmet["A"] / 10
	fracB := unmet["B"] / 10
	if fracA > fracB {
		t.Errorf("Higher priority process starved: A unmet %.2f > B unmet %.2f", fracA, fracB)
	}
	if fracA != 0 {
		t.Errorf("Expected A fully allocated, unmet fraction %.2f", fracA)
	}
}

func TestAllocate_StableOrderWithinEqualPriority(t *testing.T) {
	// Equal priority processes must be served in input order.
	ds := mustDataset(t,
		[]models.Process{
			proc("P1", models.PriorityMedium, 6, "analyst"),
			proc("P2", models.PriorityMedium, 6, "analyst"),
		},
		[]models.Resource{res("R1", 6, 30, "analyst")},
	)

	out := NewAllocator().Allocate(ds, models.DefaultPriorityWeights())

	if len(out.Assignments) != 1 || out.Assignments[0].ProcessID != "P1" {
		t.Errorf("Expected P1 served first by input order, got %+v", out.Assignments)
	}
	if len(out.Deficits) != 1 || out.Deficits[0].ProcessID != "P2" {
		t.Errorf("Expected P2 in deficit, got %+v", out.Deficits)
	}
}

func TestAllocate_SplitsAcrossResources(t *testing.T) {
	ds := mustDataset(t,
		[]models.Process{proc("P1", models.PriorityHigh, 15, "analyst")},
		[]models.Resource{
			res("R1", 10, 40, "analyst"),
			res("R2", 8, 40, "analyst"),
		},
	)

	out := NewAllocator().Allocate(ds, models.DefaultPriorityWeights())

	// Largest remaining capacity first: R1 takes 10h, R2 the remaining 5h.
	expected := []models.Assignment{
		{ProcessID: "P1", ResourceID: "R1", AllocatedHours: 10},
		{ProcessID: "P1", ResourceID: "R2", AllocatedHours: 5},
	}
	if !reflect.DeepEqual(out.Assignments, expected) {
		t.Errorf("Expected split %+v, got %+v", expected, out.Assignments)
	}
	if len(out.Deficits) != 0 {
		t.Errorf("Expected no deficits, got %+v", out.Deficits)
	}
}

func TestAllocate_CustomWeightsInvertOrder(t *testing.T) {
	weights := map[models.Priority]int{
		models.PriorityCritical: 1,
		models.PriorityHigh:     2,
		models.PriorityMedium:   3,
		models.PriorityLow:      4,
	}
	ds := mustDataset(t,
		[]models.Process{
			proc("PC", models.PriorityCritical, 6, "analyst"),
			proc("PL", models.PriorityLow, 6, "analyst"),
		},
		[]models.Resource{res("R1", 6, 30, "analyst")},
	)

	out := NewAllocator().Allocate(ds, weights)

	if len(out.Assignments) != 1 || out.Assignments[0].ProcessID != "PL" {
		t.Errorf("Expected inverted weights to favor PL, got %+v", out.Assignments)
	}
}

// ABOUTME: Validated capacity model holding processes and resources for one run
// ABOUTME: Construction is all-or-nothing; exposes read-only queries for the engine

package models

import (
	"fmt"
	"sort"
)

// Validation error codes, machine-readable.
const (
	CodeEmptyID           = "empty_id"
	CodeDuplicateID       = "duplicate_id"
	CodeEmptyName         = "empty_name"
	CodeNegativeHours     = "negative_hours"
	CodeUnknownPriority   = "unknown_priority"
	CodeEmptyCapabilities = "empty_capabilities"
)

// ValidationError reports malformed or inconsistent input. It is fatal to
// the call: the engine never partially returns on validation failure.
type ValidationError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func validationErrorf(code, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Dataset is the validated capacity model for a single engine invocation.
// It is immutable after construction; all mutable allocation state lives in
// the allocator.
type Dataset struct {
	Processes []Process
	Resources []Resource
}

// NewDataset validates the input records and builds a Dataset. Validation is
// all-or-nothing: the first violation aborts construction. Capability tags
// are re-normalized here so records arriving straight from JSON get the same
// treatment as ones built through NewCapabilitySet.
func NewDataset(processes []Process, resources []Resource) (*Dataset, error) {
	procs := make([]Process, len(processes))
	copy(procs, processes)
	seenProc := make(map[string]bool, len(procs))
	for i := range procs {
		p := &procs[i]
		if p.ID == "" {
			return nil, validationErrorf(CodeEmptyID, "process at index %d has an empty id", i)
		}
		if seenProc[p.ID] {
			return nil, validationErrorf(CodeDuplicateID, "duplicate process id %q", p.ID)
		}
		seenProc[p.ID] = true
		if p.Name == "" {
			return nil, validationErrorf(CodeEmptyName, "process %q has an empty name", p.ID)
		}
		if !p.Priority.Valid() {
			return nil, validationErrorf(CodeUnknownPriority, "process %q has unrecognized priority %q", p.ID, p.Priority)
		}
		if p.EstimatedHours < 0 {
			return nil, validationErrorf(CodeNegativeHours, "process %q has negative estimated hours %.2f", p.ID, p.EstimatedHours)
		}
		p.RequiredCapabilities = NewCapabilitySet(p.RequiredCapabilities...)
		if len(p.RequiredCapabilities) == 0 {
			return nil, validationErrorf(CodeEmptyCapabilities, "process %q requires no capabilities; it can never be matched", p.ID)
		}
	}

	res := make([]Resource, len(resources))
	copy(res, resources)
	seenRes := make(map[string]bool, len(res))
	for i := range res {
		r := &res[i]
		if r.ID == "" {
			return nil, validationErrorf(CodeEmptyID, "resource at index %d has an empty id", i)
		}
		if seenRes[r.ID] {
			return nil, validationErrorf(CodeDuplicateID, "duplicate resource id %q", r.ID)
		}
		seenRes[r.ID] = true
		if r.Name == "" {
			return nil, validationErrorf(CodeEmptyName, "resource %q has an empty name", r.ID)
		}
		if r.CapacityHours < 0 {
			return nil, validationErrorf(CodeNegativeHours, "resource %q has negative capacity %.2f", r.ID, r.CapacityHours)
		}
		if r.CostPerHour < 0 {
			return nil, validationErrorf(CodeNegativeHours, "resource %q has negative cost per hour %.2f", r.ID, r.CostPerHour)
		}
		r.Capabilities = NewCapabilitySet(r.Capabilities...)
		if len(r.Capabilities) == 0 {
			return nil, validationErrorf(CodeEmptyCapabilities, "resource %q provides no capabilities; it can never be matched", r.ID)
		}
	}

	return &Dataset{Processes: procs, Resources: res}, nil
}

// ResourcesWithCapability returns the resources providing the given tag,
// in input order.
func (d *Dataset) ResourcesWithCapability(tag string) []Resource {
	var out []Resource
	for _, r := range d.Resources {
		if r.Capabilities.Has(tag) {
			out = append(out, r)
		}
	}
	return out
}

// ProcessesByPriorityDesc returns processes ordered by descending priority
// weight. Ties keep the original input order; reproducibility of that
// tie-break is part of the engine contract.
func (d *Dataset) ProcessesByPriorityDesc(weights map[Priority]int) []Process {
	ordered := make([]Process, len(d.Processes))
	copy(ordered, d.Processes)
	sort.SliceStable(ordered, func(i, j int) bool {
		return weights[ordered[i].Priority] > weights[ordered[j].Priority]
	})
	return ordered
}

// TotalEstimatedHours sums the estimated hours of all processes.
func (d *Dataset) TotalEstimatedHours() float64 {
	total := 0.0
	for _, p := range d.Processes {
		total += p.EstimatedHours
	}
	return total
}

// TotalCapacityHours sums the capacity of all resources.
func (d *Dataset) TotalCapacityHours() float64 {
	total := 0.0
	for _, r := range d.Resources {
		total += r.CapacityHours
	}
	return total
}

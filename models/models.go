// ABOUTME: Core data model for processes, resources, and capability tags
// ABOUTME: JSON-serializable structures shared by the engine, API, and CLI

package models

import (
	"fmt"
	"sort"
	"strings"
)

// Priority is the urgency level of a process.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

// ParsePriority converts a string to a Priority. Only the four canonical
// values are accepted; synonym normalization belongs to the ingestion layer.
func ParsePriority(s string) (Priority, error) {
	switch Priority(strings.ToLower(strings.TrimSpace(s))) {
	case PriorityCritical:
		return PriorityCritical, nil
	case PriorityHigh:
		return PriorityHigh, nil
	case PriorityMedium:
		return PriorityMedium, nil
	case PriorityLow:
		return PriorityLow, nil
	}
	return "", fmt.Errorf("unrecognized priority %q", s)
}

// Valid reports whether p is one of the four recognized priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// DefaultPriorityWeights returns the default ordering weights.
func DefaultPriorityWeights() map[Priority]int {
	return map[Priority]int{
		PriorityCritical: 4,
		PriorityHigh:     3,
		PriorityMedium:   2,
		PriorityLow:      1,
	}
}

// CapabilitySet is a normalized set of capability tags: lowercased, trimmed,
// deduplicated, and sorted. Input order is irrelevant.
type CapabilitySet []string

// NewCapabilitySet builds a normalized capability set from raw tags.
// Empty tags are dropped.
func NewCapabilitySet(tags ...string) CapabilitySet {
	seen := make(map[string]bool, len(tags))
	set := make(CapabilitySet, 0, len(tags))
	for _, tag := range tags {
		t := strings.ToLower(strings.TrimSpace(tag))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		set = append(set, t)
	}
	sort.Strings(set)
	return set
}

// Has reports whether the set contains the given tag.
func (s CapabilitySet) Has(tag string) bool {
	i := sort.SearchStrings(s, tag)
	return i < len(s) && s[i] == tag
}

// Intersects reports whether the two sets share at least one tag.
func (s CapabilitySet) Intersects(other CapabilitySet) bool {
	i, j := 0, 0
	for i < len(s) && j < len(other) {
		switch {
		case s[i] == other[j]:
			return true
		case s[i] < other[j]:
			i++
		default:
			j++
		}
	}
	return false
}

// Process is a unit of planned work. Immutable for the duration of one
// engine invocation.
type Process struct {
	ID                   string        `json:"id"`
	Name                 string        `json:"name"`
	Priority             Priority      `json:"priority"`
	EstimatedHours       float64       `json:"estimated_hours"`
	RequiredCapabilities CapabilitySet `json:"required_capabilities"`
}

// Resource is a capacity-bearing entity (person, machine, service).
// Remaining capacity during a run is engine-internal state, never stored here.
type Resource struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	CapacityHours float64       `json:"capacity_hours"`
	CostPerHour   float64       `json:"cost_per_hour"`
	Capabilities  CapabilitySet `json:"capabilities"`
}

// ErrorResponse represents an API error payload.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
	Code    int    `json:"code"`
}

// ABOUTME: Plan request/response types and engine configuration
// ABOUTME: Defines assignments, deficits, summary metrics, and recommendations

package models

import "fmt"

// DeficitReason diagnoses why a process could not be fully covered.
type DeficitReason string

const (
	DeficitNoMatchingCapability DeficitReason = "no matching capability"
	DeficitInsufficientCapacity DeficitReason = "insufficient aggregate capacity"
)

// Recommendation severities.
const (
	SeverityCritical = "critical"
	SeverityWarning  = "warning"
	SeverityInfo     = "info"
)

// PlanConfig carries the tunable parameters of one engine run. The values in
// DefaultPlanConfig are defaults, not contracts.
type PlanConfig struct {
	BottleneckThreshold float64          `json:"bottleneck_threshold" yaml:"bottleneck_threshold"`
	PriorityWeights     map[Priority]int `json:"priority_weights" yaml:"priority_weights"`
}

// ConfigError reports an out-of-range or unrecognized configuration value.
// It is rejected at call start, before any processing.
type ConfigError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid config %s: %s", e.Field, e.Message)
}

// DefaultPlanConfig returns the stock configuration.
func DefaultPlanConfig() PlanConfig {
	return PlanConfig{
		BottleneckThreshold: 0.9,
		PriorityWeights:     DefaultPriorityWeights(),
	}
}

// Validate checks the configuration ranges. A nil weight map is allowed and
// means "use defaults"; a non-nil map must cover exactly the four known
// priorities with positive weights.
func (c PlanConfig) Validate() error {
	if c.BottleneckThreshold <= 0 || c.BottleneckThreshold > 1 {
		return &ConfigError{
			Field:   "bottleneck_threshold",
			Message: fmt.Sprintf("must be in (0, 1], got %g", c.BottleneckThreshold),
		}
	}
	if c.PriorityWeights == nil {
		return nil
	}
	for p, w := range c.PriorityWeights {
		if !p.Valid() {
			return &ConfigError{
				Field:   "priority_weights",
				Message: fmt.Sprintf("unrecognized priority key %q", p),
			}
		}
		if w <= 0 {
			return &ConfigError{
				Field:   "priority_weights",
				Message: fmt.Sprintf("weight for %q must be positive, got %d", p, w),
			}
		}
	}
	for _, p := range []Priority{PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow} {
		if _, ok := c.PriorityWeights[p]; !ok {
			return &ConfigError{
				Field:   "priority_weights",
				Message: fmt.Sprintf("missing weight for priority %q", p),
			}
		}
	}
	return nil
}

// WithDefaults fills zero-valued fields from the stock configuration.
func (c PlanConfig) WithDefaults() PlanConfig {
	out := c
	if out.BottleneckThreshold == 0 {
		out.BottleneckThreshold = 0.9
	}
	if out.PriorityWeights == nil {
		out.PriorityWeights = DefaultPriorityWeights()
	}
	return out
}

// Assignment allocates hours of one resource to one process.
type Assignment struct {
	ProcessID      string  `json:"process_id"`
	ResourceID     string  `json:"resource_id"`
	AllocatedHours float64 `json:"allocated_hours"`
}

// Deficit is unmet demand after allocation. It is an expected, reportable
// outcome, not an error.
type Deficit struct {
	ProcessID  string        `json:"process_id"`
	UnmetHours float64       `json:"unmet_hours"`
	Reason     DeficitReason `json:"reason"`
}

// CapabilityDemand aggregates unmet hours per capability tag across deficits.
type CapabilityDemand struct {
	Tag        string  `json:"tag"`
	UnmetHours float64 `json:"unmet_hours"`
}

// Summary holds the aggregate metrics of one run.
type Summary struct {
	TotalProcesses      int                   `json:"total_processes"`
	TotalResources      int                   `json:"total_resources"`
	TotalEstimatedHours float64               `json:"total_estimated_hours"`
	TotalAllocatedHours float64               `json:"total_allocated_hours"`
	TotalCapacityHours  float64               `json:"total_capacity_hours"`
	Efficiency          float64               `json:"efficiency"`
	TotalCost           float64               `json:"total_cost"`
	Utilization         []ResourceUtilization `json:"utilization"`
	Deficits            []Deficit             `json:"deficits"`
	Bottlenecks         []string              `json:"bottlenecks"`
	CriticalPath        []string              `json:"critical_path"`
	UnmetDemand         []CapabilityDemand    `json:"unmet_demand,omitempty"`
}

// Recommendation is one actionable suggestion derived from the summary.
type Recommendation struct {
	Severity    string   `json:"severity"`
	Message     string   `json:"message"`
	AffectedIDs []string `json:"affected_ids,omitempty"`
}

// PlanRequest is the engine's boundary input: ordered records plus optional
// configuration overrides.
type PlanRequest struct {
	Processes []Process   `json:"processes"`
	Resources []Resource  `json:"resources"`
	Config    *PlanConfig `json:"config,omitempty"`
}

// PlanResponse is the engine's boundary output.
type PlanResponse struct {
	Assignments     []Assignment     `json:"assignments"`
	Deficits        []Deficit        `json:"deficits"`
	Summary         Summary          `json:"summary"`
	Recommendations []Recommendation `json:"recommendations"`
}

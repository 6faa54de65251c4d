// ABOUTME: Rule-based recommendation engine over the run summary
// ABOUTME: Fixed ordered predicate list; all matching predicates fire

package services

import (
	"fmt"
	"strings"

	"github.com/planwise/capacity-planner/models"
)

// topDemandTags caps how many capability tags a recommendation names.
const topDemandTags = 3

// RecommendationEngine turns a Summary into ranked, human-readable
// suggestions. Predicates are independent; an empty result is a valid
// terminal state, not an error.
type RecommendationEngine struct {
	rules []rule
}

type rule func(models.Summary) *models.Recommendation

// NewRecommendationEngine creates the engine with its fixed rule order.
func NewRecommendationEngine() *RecommendationEngine {
	return &RecommendationEngine{
		rules: []rule{
			lowEfficiencyRule,
			overloadedResourceRule,
			missingCapabilityRule,
			idleResourceRule,
			highDemandRule,
		},
	}
}

// Generate evaluates every rule against the summary, in order.
func (e *RecommendationEngine) Generate(sum models.Summary) []models.Recommendation {
	recs := []models.Recommendation{}
	for _, r := range e.rules {
		if rec := r(sum); rec != nil {
			recs = append(recs, *rec)
		}
	}
	return recs
}

// lowEfficiencyRule fires when under 70% of estimated hours could be
// allocated and demand went unmet.
func lowEfficiencyRule(sum models.Summary) *models.Recommendation {
	if sum.Efficiency >= 70 || len(sum.Deficits) == 0 {
		return nil
	}
	tags := topTags(sum.UnmetDemand)
	msg := fmt.Sprintf("Only %.1f%% of estimated hours could be allocated. Acquire capacity for: %s.",
		sum.Efficiency, strings.Join(tags, ", "))
	return &models.Recommendation{
		Severity:    models.SeverityCritical,
		Message:     msg,
		AffectedIDs: tags,
	}
}

// overloadedResourceRule fires per run when at least one bottleneck resource
// is implicated in two or more deficits.
func overloadedResourceRule(sum models.Summary) *models.Recommendation {
	var ids []string
	for _, u := range sum.Utilization {
		if u.IsBottleneck && u.DeficitCount >= 2 {
			ids = append(ids, u.ResourceID)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	return &models.Recommendation{
		Severity: models.SeverityWarning,
		Message: fmt.Sprintf("%d resource(s) are saturated and limiting multiple processes. Redistribute their load or add parallel capacity.",
			len(ids)),
		AffectedIDs: ids,
	}
}

// missingCapabilityRule fires when processes demand capabilities no resource
// provides.
func missingCapabilityRule(sum models.Summary) *models.Recommendation {
	var ids []string
	for _, d := range sum.Deficits {
		if d.Reason == models.DeficitNoMatchingCapability {
			ids = append(ids, d.ProcessID)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	return &models.Recommendation{
		Severity: models.SeverityWarning,
		Message: fmt.Sprintf("%d process(es) require capabilities no resource provides. Add the missing capability tags through hiring, training, or acquisition.",
			len(ids)),
		AffectedIDs: ids,
	}
}

// idleResourceRule fires when resources sat unused while demand went unmet.
func idleResourceRule(sum models.Summary) *models.Recommendation {
	if len(sum.Deficits) == 0 {
		return nil
	}
	var ids []string
	for _, u := range sum.Utilization {
		if u.AllocatedHours == 0 && u.CapacityHours > 0 {
			ids = append(ids, u.ResourceID)
		}
	}
	if len(ids) == 0 {
		return nil
	}
	return &models.Recommendation{
		Severity: models.SeverityInfo,
		Message: fmt.Sprintf("%d resource(s) were idle while demand went unmet. Review their capability tags for coverage gaps.",
			len(ids)),
		AffectedIDs: ids,
	}
}

// highDemandRule fires when the plan is fully allocated with little headroom.
func highDemandRule(sum models.Summary) *models.Recommendation {
	if sum.Efficiency <= 90 || len(sum.Deficits) > 0 {
		return nil
	}
	if sum.TotalCapacityHours <= 0 {
		return nil
	}
	used := sum.TotalAllocatedHours / sum.TotalCapacityHours
	if used <= 0.9 {
		return nil
	}
	return &models.Recommendation{
		Severity: models.SeverityInfo,
		Message: fmt.Sprintf("Capacity is %.1f%% consumed with all demand met. Additional intake will likely produce deficits.",
			used*100),
	}
}

// topTags returns up to topDemandTags capability tags, highest unmet hours
// first.
func topTags(demand []models.CapabilityDemand) []string {
	n := len(demand)
	if n > topDemandTags {
		n = topDemandTags
	}
	tags := make([]string, 0, n)
	for _, d := range demand[:n] {
		tags = append(tags, d.Tag)
	}
	return tags
}

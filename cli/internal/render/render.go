// ABOUTME: Terminal rendering for plan results using lipgloss
// ABOUTME: Formats summary metrics, utilization bars, deficits, and advice

package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/planwise/capacity-planner/models"
)

var (
	// Colors
	primary = lipgloss.Color("#7C3AED") // Purple
	success = lipgloss.Color("#10B981") // Green
	warning = lipgloss.Color("#F59E0B") // Amber
	danger  = lipgloss.Color("#EF4444") // Red
	muted   = lipgloss.Color("#6B7280") // Gray
	info    = lipgloss.Color("#3B82F6") // Blue

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primary)

	labelStyle = lipgloss.NewStyle().
			Foreground(muted)

	okStyle = lipgloss.NewStyle().
		Foreground(success).
		Bold(true)

	warnStyle = lipgloss.NewStyle().
			Foreground(warning).
			Bold(true)

	criticalStyle = lipgloss.NewStyle().
			Foreground(danger).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(info).
			Bold(true)
)

// Plan renders a full plan response as a human-readable report.
func Plan(resp *models.PlanResponse) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Capacity Plan"))
	sb.WriteString("\n\n")
	sb.WriteString(summarySection(resp.Summary))
	sb.WriteString(utilizationSection(resp.Summary.Utilization))
	sb.WriteString(deficitSection(resp.Deficits))
	sb.WriteString(recommendationSection(resp.Recommendations))

	return sb.String()
}

func summarySection(s models.Summary) string {
	var sb strings.Builder

	effStyle := okStyle
	if s.Efficiency < 90 {
		effStyle = warnStyle
	}
	if s.Efficiency < 70 {
		effStyle = criticalStyle
	}

	sb.WriteString(fmt.Sprintf("%s %d processes, %d resources\n",
		labelStyle.Render("Scope:"), s.TotalProcesses, s.TotalResources))
	sb.WriteString(fmt.Sprintf("%s %s (%.1f of %.1f hours allocated)\n",
		labelStyle.Render("Efficiency:"),
		effStyle.Render(fmt.Sprintf("%.1f%%", s.Efficiency)),
		s.TotalAllocatedHours, s.TotalEstimatedHours))
	sb.WriteString(fmt.Sprintf("%s %.2f\n", labelStyle.Render("Total cost:"), s.TotalCost))
	if len(s.CriticalPath) > 0 {
		sb.WriteString(fmt.Sprintf("%s %s\n", labelStyle.Render("Critical path:"), strings.Join(s.CriticalPath, " -> ")))
	}
	sb.WriteString("\n")

	return sb.String()
}

func utilizationSection(utils []models.ResourceUtilization) string {
	if len(utils) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("Resource Utilization\n")
	for _, u := range utils {
		percent := u.Utilization * 100
		line := fmt.Sprintf("  %-12s %s %.1f%%", u.ResourceID, Bar(percent, 20), percent)
		if u.IsBottleneck {
			line += " " + criticalStyle.Render("BOTTLENECK")
		}
		sb.WriteString(line + "\n")
	}
	sb.WriteString("\n")

	return sb.String()
}

func deficitSection(deficits []models.Deficit) string {
	if len(deficits) == 0 {
		return okStyle.Render("All demand covered") + "\n\n"
	}

	var sb strings.Builder
	sb.WriteString("Deficits\n")
	for _, d := range deficits {
		sb.WriteString(fmt.Sprintf("  %s %s: %.1f hours unmet (%s)\n",
			warnStyle.Render("!"), d.ProcessID, d.UnmetHours, d.Reason))
	}
	sb.WriteString("\n")

	return sb.String()
}

func recommendationSection(recs []models.Recommendation) string {
	if len(recs) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("Recommendations\n")
	for _, r := range recs {
		sb.WriteString(fmt.Sprintf("  %s %s\n", SeverityBadge(r.Severity), r.Message))
		if len(r.AffectedIDs) > 0 {
			sb.WriteString(fmt.Sprintf("    %s\n", labelStyle.Render("Affected: "+strings.Join(r.AffectedIDs, ", "))))
		}
	}

	return sb.String()
}

// SeverityBadge returns a colored label for a recommendation severity.
func SeverityBadge(severity string) string {
	switch severity {
	case models.SeverityCritical:
		return criticalStyle.Render("[CRITICAL]")
	case models.SeverityWarning:
		return warnStyle.Render("[WARNING]")
	case models.SeverityInfo:
		return infoStyle.Render("[INFO]")
	default:
		return labelStyle.Render("[" + strings.ToUpper(severity) + "]")
	}
}

// Bar returns a styled utilization bar string.
func Bar(percent float64, width int) string {
	filled := int(percent / 100.0 * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	color := success
	if percent >= 80 {
		color = warning
	}
	if percent >= 95 {
		color = danger
	}

	return lipgloss.NewStyle().Foreground(color).Render(bar)
}

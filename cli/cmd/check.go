// ABOUTME: Check command for planctl CLI
// ABOUTME: Validates plan thresholds for CI/CD pipelines

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/planwise/capacity-planner/ingest"
	"github.com/planwise/capacity-planner/models"
	"github.com/planwise/capacity-planner/services"
)

var (
	checkProcessFile  string
	checkResourceFile string
	minEfficiency     int
	maxDeficits       int
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check plan thresholds",
	Long: `Compute a plan and exit non-zero if any threshold is exceeded.

Exit codes:
  0 - All checks passed
  1 - One or more thresholds exceeded
  2 - Error (invalid input, unreadable files)`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runCheck(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().StringVar(&checkProcessFile, "processes", "", "Path to the process file (CSV or XLSX)")
	checkCmd.Flags().StringVar(&checkResourceFile, "resources", "", "Path to the resource file (CSV or XLSX)")
	checkCmd.Flags().IntVar(&minEfficiency, "min-efficiency", 70, "Minimum allocation efficiency percentage")
	checkCmd.Flags().IntVar(&maxDeficits, "max-deficits", 0, "Maximum number of processes with unmet demand")
	checkCmd.MarkFlagRequired("processes")
	checkCmd.MarkFlagRequired("resources")
}

// checkResult represents the result of a single threshold check
type checkResult struct {
	name      string
	value     float64
	threshold float64
	passed    bool
}

// runCheck executes the threshold checks and returns exit code
func runCheck(ctx context.Context, w io.Writer) int {
	if err := validateThresholds(minEfficiency, maxDeficits); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	var req models.PlanRequest
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		procs, err := ingest.LoadProcesses(checkProcessFile)
		req.Processes = procs
		return err
	})
	g.Go(func() error {
		res, err := ingest.LoadResources(checkResourceFile)
		req.Resources = res
		return err
	})
	if err := g.Wait(); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	resp, err := services.NewPlanner().Plan(req)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	results := performChecks(resp)

	if IsJSONOutput() {
		fmt.Fprintln(w, formatCheckJSON(results))
	} else {
		fmt.Fprintln(w, formatCheckHuman(results))
	}

	_, failed := countResults(results)
	if failed > 0 {
		return 1
	}
	return 0
}

// validateThresholds ensures threshold values are valid
func validateThresholds(efficiency, deficits int) error {
	if efficiency < 0 || efficiency > 100 {
		return fmt.Errorf("--min-efficiency must be between 0 and 100")
	}
	if deficits < 0 {
		return fmt.Errorf("--max-deficits must not be negative")
	}
	return nil
}

// performChecks runs all threshold checks against the plan response
func performChecks(resp *models.PlanResponse) []checkResult {
	return []checkResult{
		{
			name:      "Allocation efficiency",
			value:     resp.Summary.Efficiency,
			threshold: float64(minEfficiency),
			passed:    resp.Summary.Efficiency >= float64(minEfficiency),
		},
		{
			name:      "Processes with deficits",
			value:     float64(len(resp.Deficits)),
			threshold: float64(maxDeficits),
			passed:    len(resp.Deficits) <= maxDeficits,
		},
	}
}

// countResults returns the count of passed and failed checks
func countResults(results []checkResult) (passed, failed int) {
	for _, r := range results {
		if r.passed {
			passed++
		} else {
			failed++
		}
	}
	return
}

// formatCheckHuman formats check results for human readability
func formatCheckHuman(results []checkResult) string {
	var output string

	for _, r := range results {
		symbol := "✓"
		if !r.passed {
			symbol = "✗"
		}
		output += fmt.Sprintf("%s %s: %.1f (threshold: %.1f)\n",
			symbol, r.name, r.value, r.threshold)
	}

	passed, failed := countResults(results)
	if failed > 0 {
		output += fmt.Sprintf("\nFAILED: %d check(s) exceeded threshold", failed)
	} else {
		output += fmt.Sprintf("\nPASSED: All %d check(s) within thresholds", passed)
	}

	return output
}

// formatCheckJSON formats check results as JSON
func formatCheckJSON(results []checkResult) string {
	_, failed := countResults(results)

	checks := make([]map[string]interface{}, len(results))
	for i, r := range results {
		checks[i] = map[string]interface{}{
			"name":      r.name,
			"value":     r.value,
			"threshold": r.threshold,
			"passed":    r.passed,
		}
	}

	status := "passed"
	if failed > 0 {
		status = "failed"
	}

	output := map[string]interface{}{
		"status": status,
		"checks": checks,
	}

	data, _ := json.MarshalIndent(output, "", "  ")
	return string(data)
}

// ABOUTME: Plan command for planctl CLI
// ABOUTME: Computes an allocation plan from process and resource files

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
	"gopkg.in/yaml.v3"

	"github.com/planwise/capacity-planner/cli/internal/client"
	"github.com/planwise/capacity-planner/cli/internal/render"
	"github.com/planwise/capacity-planner/ingest"
	"github.com/planwise/capacity-planner/models"
	"github.com/planwise/capacity-planner/services"
)

var (
	processFile  string
	resourceFile string
	configFile   string
	remotePlan   bool
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Compute an allocation plan",
	Long: `Compute an allocation plan from process and resource files.

Input files may be CSV or XLSX. By default the plan is computed locally;
pass --remote to submit it to a running backend instead.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runPlan(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(planCmd)
	planCmd.Flags().StringVar(&processFile, "processes", "", "Path to the process file (CSV or XLSX)")
	planCmd.Flags().StringVar(&resourceFile, "resources", "", "Path to the resource file (CSV or XLSX)")
	planCmd.Flags().StringVar(&configFile, "config", "", "Path to a YAML plan configuration file")
	planCmd.Flags().BoolVar(&remotePlan, "remote", false, "Submit the plan to a running backend")
	planCmd.MarkFlagRequired("processes")
	planCmd.MarkFlagRequired("resources")
}

// runPlan loads inputs, computes the plan, and renders it
func runPlan(ctx context.Context, w io.Writer) int {
	req, err := buildPlanRequest(ctx)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	var resp *models.PlanResponse
	if remotePlan {
		resp, err = client.New(GetAPIURL()).Plan(ctx, req)
	} else {
		resp, err = services.NewPlanner().Plan(req)
	}
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(resp, "", "  ")
		fmt.Fprintln(w, string(data))
	} else {
		fmt.Fprintln(w, render.Plan(resp))
	}

	return 0
}

// buildPlanRequest loads both input files concurrently and applies the
// optional configuration file.
func buildPlanRequest(ctx context.Context) (models.PlanRequest, error) {
	var req models.PlanRequest

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		procs, err := ingest.LoadProcesses(processFile)
		if err != nil {
			return fmt.Errorf("load processes: %w", err)
		}
		req.Processes = procs
		return nil
	})
	g.Go(func() error {
		res, err := ingest.LoadResources(resourceFile)
		if err != nil {
			return fmt.Errorf("load resources: %w", err)
		}
		req.Resources = res
		return nil
	})
	if err := g.Wait(); err != nil {
		return models.PlanRequest{}, err
	}

	if configFile != "" {
		cfg, err := loadPlanConfig(configFile)
		if err != nil {
			return models.PlanRequest{}, err
		}
		req.Config = cfg
	}

	return req, nil
}

// loadPlanConfig reads a YAML plan configuration file
func loadPlanConfig(path string) (*models.PlanConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	var cfg models.PlanConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

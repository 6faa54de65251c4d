// ABOUTME: History command for planctl CLI
// ABOUTME: Lists recent plan runs recorded by the backend

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

	"github.com/planwise/capacity-planner/cli/internal/client"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent plan runs",
	Long:  `List the most recent plan runs recorded by the backend, newest first.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runHistory(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
}

// runHistory fetches and prints recent runs and returns exit code
func runHistory(ctx context.Context, w io.Writer) int {
	c := client.New(GetAPIURL())

	runs, err := c.History(ctx)
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return 2
	}

	if IsJSONOutput() {
		data, _ := json.MarshalIndent(runs, "", "  ")
		fmt.Fprintln(w, string(data))
		return 0
	}

	if len(runs) == 0 {
		fmt.Fprintln(w, "No recorded runs.")
		return 0
	}

	fmt.Fprintf(w, "%-36s  %-20s  %9s  %9s  %8s  %10s  %10s\n",
		"ID", "Created", "Processes", "Resources", "Deficits", "Efficiency", "Cost")
	for _, r := range runs {
		fmt.Fprintf(w, "%-36s  %-20s  %9d  %9d  %8d  %9.1f%%  %10.2f\n",
			r.ID, r.CreatedAt.Format("2006-01-02 15:04:05"),
			r.Processes, r.Resources, r.Deficits, r.Efficiency, r.TotalCost)
	}

	return 0
}

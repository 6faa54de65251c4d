// ABOUTME: Entry point for planctl CLI
// ABOUTME: Command-line tool for capacity planning and CI/CD integration

package main

import (
	"fmt"
	"os"

	"github.com/planwise/capacity-planner/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

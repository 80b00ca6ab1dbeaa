// Package cmd wires configuration, storage and services into the runnable
// processes: the API server, the reconciliation worker and the index
// bootstrapper.
package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "webcart",
	Short: "Web Cart Galaxy marketplace backend",
	Long:  "Multi-role marketplace backend: catalog, cart, checkout, delivery and administration.",
}

// Execute runs the CLI. Errors are returned to main for exit handling.
func Execute() error {
	return rootCmd.Execute()
}

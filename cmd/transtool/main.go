// Command transtool checks translation workbooks from the command line or
// serves the HTTP API.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "transtool",
		Short:        "Check translation spreadsheets against project dictionaries",
		SilenceUsage: true,
	}
	rootCmd.AddCommand(newCheckCmd(), newServeCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

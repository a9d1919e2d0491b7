package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "fluor",
		Short: "Reactive memoization runtime with a live spreadsheet example",
		Long: `Fluorine is a fine-grained reactive memoization runtime for Go.

Leaf cells hold mutable values, memoized functions re-run only when a
value they actually read has changed, and effects fire on demand when
their transitive inputs are dirty.

This CLI runs the bundled spreadsheet example:

  • serve: a live multi-user spreadsheet over WebSocket
  • eval:  evaluate cell formulas once and print the grid`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		serveCmd(),
		evalCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("fluor %s (%s)\n", version, commit)
		},
	}
}

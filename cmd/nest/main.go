package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Exit code constants
const (
	ExitSuccess     = 0
	ExitDiagnostics = 1
	ExitIOError     = 2
)

var version = "0.1.0-dev"

func main() {
	root := &cobra.Command{
		Use:          "nest",
		Short:        "Analyze Nest command documents",
		Long:         "nest analyzes Nest command documents: it builds the command tree and reports syntax and semantic diagnostics without executing anything.",
		SilenceUsage: true,
	}

	root.AddCommand(newCheckCommand())
	root.AddCommand(newASTCommand())
	root.AddCommand(newVersionCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitIOError)
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the nest version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "nest %s\n", version)
		},
	}
}

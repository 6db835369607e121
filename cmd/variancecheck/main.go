// Command variancecheck is a small CLI around the declaration-site variance
// checker in internal/variance: run it over a batch of YAML-described
// classes and typedefs, or drop into an interactive shell for explaining
// the polarity algebra on ad hoc type expressions.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// Version info, set by ldflags during build.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

var (
	green = color.New(color.FgGreen).SprintFunc()
	red   = color.New(color.FgRed).SprintFunc()
	bold  = color.New(color.Bold).SprintFunc()
)

func main() {
	root := &cobra.Command{
		Use:   "variancecheck",
		Short: "Declaration-site variance checker",
		Long:  "variancecheck runs a declaration-site variance checker over a batch of classes and typedefs, or explains the polarity algebra interactively.",
	}

	root.AddCommand(newCheckCmd())
	root.AddCommand(newExplainCmd())
	root.AddCommand(newVersionCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", red("Error"), err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Printf("variancecheck %s\n", bold(Version))
			if Commit != "unknown" {
				fmt.Printf("Commit: %s\n", Commit)
			}
			if BuildTime != "unknown" {
				fmt.Printf("Built:  %s\n", BuildTime)
			}
			return nil
		},
	}
}

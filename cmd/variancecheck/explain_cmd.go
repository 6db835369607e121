package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/sunholo/variance/internal/explain"
)

func newExplainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "explain",
		Short: "Interactively explain the variance algebra on ad hoc type expressions",
		RunE: func(cmd *cobra.Command, args []string) error {
			explain.New().Start(os.Stdin, os.Stdout)
			return nil
		},
	}
}

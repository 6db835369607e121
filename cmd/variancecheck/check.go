package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sunholo/variance/internal/errors"
	"github.com/sunholo/variance/internal/oracle"
	"github.com/sunholo/variance/internal/variance"
)

var (
	cyan = color.New(color.FgCyan).SprintFunc()
	dim  = color.New(color.Faint).SprintFunc()
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <program.yaml>",
		Short: "Run the variance checker over a YAML-described batch of classes and typedefs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(args[0])
		},
	}
}

func runCheck(path string) error {
	env, classes, typedefs, err := loadProgram(path)
	if err != nil {
		return err
	}
	o := oracle.FromTEnv(env)

	total := 0
	for _, lc := range classes {
		sink := variance.CheckClass(o, lc.info, lc.parents)
		total += printSink(lc.info.Name(), sink)
	}
	for _, td := range typedefs {
		sink := variance.CheckTypedef(o, td)
		total += printSink(td.Name(), sink)
	}

	if total == 0 {
		fmt.Println(green("PASS"), dim(fmt.Sprintf("%d declarations, no variance errors", len(classes)+len(typedefs))))
		return nil
	}
	fmt.Println(red(fmt.Sprintf("FAIL: %d variance error(s)", total)))
	return fmt.Errorf("%d variance error(s) found", total)
}

func printSink(name string, sink *variance.Sink) int {
	for _, r := range sink.Reports {
		printReport(name, r)
	}
	return len(sink.Reports)
}

func printReport(name string, r *errors.Report) {
	fmt.Printf("%s %s %s: %s\n", red("FAIL"), cyan(name), bold(r.Code), r.Message)
	if r.Span != nil {
		fmt.Printf("  %s\n", dim(r.Span.Start.String()))
	}
	for _, sec := range r.Secondary {
		fmt.Printf("  %s %s\n", cyan(sec.Span.Start.String()), dim(sec.Message))
	}
}

package explain

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/peterh/liner"

	"github.com/sunholo/variance/internal/errors"
	"github.com/sunholo/variance/internal/oracle"
	"github.com/sunholo/variance/internal/polarity"
	"github.com/sunholo/variance/internal/tenv"
	"github.com/sunholo/variance/internal/variance"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
	dim    = color.New(color.Faint).SprintFunc()
)

// Shell is the `explain` REPL: it holds a declared-variance environment and
// a nominal oracle table that the user builds up with `:env`/`:oracle`
// commands, then runs a typed expression through the same traversal the
// checker's entry points use, printing the full reason-chain rendering.
type Shell struct {
	env     variance.Env
	scope   map[string]bool
	oracle  oracle.InMemory
	root    *tenv.ClassInfo
	history []string
}

// New creates an empty Shell.
func New() *Shell {
	return &Shell{
		env:    make(variance.Env),
		scope:  make(map[string]bool),
		oracle: make(oracle.InMemory),
	}
}

// Start runs the read-eval-print loop. Input lines and the prompt go through
// liner on the process's terminal (in is not read); all other output is
// written to out.
func (s *Shell) Start(in io.Reader, out io.Writer) {
	line := liner.NewLiner()
	defer line.Close()

	historyFile := filepath.Join(os.TempDir(), ".variancecheck_explain_history")
	if f, err := os.Open(historyFile); err == nil {
		_, _ = line.ReadHistory(f)
		f.Close()
	}

	fmt.Fprintln(out, bold("variancecheck explain"))
	fmt.Fprintln(out, dim("Type :help for help, :quit to exit"))
	fmt.Fprintln(out)

	line.SetCompleter(func(l string) (c []string) {
		if strings.HasPrefix(l, ":") {
			for _, cmd := range []string{":help", ":quit", ":env", ":oracle", ":class", ":reset", ":show"} {
				if strings.HasPrefix(cmd, l) {
					c = append(c, cmd)
				}
			}
		}
		return
	})

	for {
		input, err := line.Prompt(s.prompt())
		if err == io.EOF {
			fmt.Fprintln(out, green("\nGoodbye!"))
			break
		}
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", red("Error"), err)
			continue
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		line.AppendHistory(input)
		s.history = append(s.history, input)

		if strings.HasPrefix(input, ":") {
			if input == ":quit" || input == ":q" || input == ":exit" {
				fmt.Fprintln(out, green("Goodbye!"))
				break
			}
			s.handleCommand(input, out)
			continue
		}

		s.explainType(input, out)
	}

	if f, err := os.Create(historyFile); err == nil {
		_, _ = line.WriteHistory(f)
		f.Close()
	}
}

func (s *Shell) prompt() string {
	if len(s.env) == 0 {
		return "variance> "
	}
	names := s.sortedEnvNames()
	return fmt.Sprintf("variance[%s]> ", strings.Join(names, ","))
}

func (s *Shell) sortedEnvNames() []string {
	names := make([]string, 0, len(s.env))
	for n := range s.env {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func (s *Shell) handleCommand(input string, out io.Writer) {
	fields := strings.Fields(input)
	switch fields[0] {
	case ":help":
		s.printHelp(out)
	case ":reset":
		s.env = make(variance.Env)
		s.scope = make(map[string]bool)
		s.oracle = make(oracle.InMemory)
		s.root = nil
		fmt.Fprintln(out, dim("environment cleared"))
	case ":show":
		s.printState(out)
	case ":class":
		s.handleClass(fields[1:], out)
	case ":env":
		s.handleEnv(fields[1:], out)
	case ":oracle":
		s.handleOracle(fields[1:], out)
	default:
		fmt.Fprintf(out, "%s: unknown command %q\n", red("Error"), fields[0])
	}
}

func (s *Shell) printHelp(out io.Writer) {
	fmt.Fprintln(out, bold("Commands:"))
	fmt.Fprintln(out, "  :env NAME:+|-|inv       declare a class/typedef generic parameter")
	fmt.Fprintln(out, "  :oracle NAME:+,-,...    declare a nominal type's variance vector")
	fmt.Fprintln(out, "  :class NAME [final]     set the enclosing class (for 'this' checks)")
	fmt.Fprintln(out, "  :show                   print the current env/oracle/class")
	fmt.Fprintln(out, "  :reset                  clear everything")
	fmt.Fprintln(out, "  :quit                   exit")
	fmt.Fprintln(out, dim("Anything else is parsed as a type expression and traversed as a typedef body."))
}

func (s *Shell) printState(out io.Writer) {
	for _, n := range s.sortedEnvNames() {
		fmt.Fprintf(out, "  %s: %s\n", cyan(n), s.env[n].Tag())
	}
	oracleNames := make([]string, 0, len(s.oracle))
	for n := range s.oracle {
		oracleNames = append(oracleNames, n)
	}
	sort.Strings(oracleNames)
	for _, n := range oracleNames {
		fmt.Fprintf(out, "  oracle %s: %v\n", cyan(n), s.oracle[n])
	}
	if s.root != nil {
		fmt.Fprintf(out, "  class %s (final=%v)\n", cyan(s.root.Name()), s.root.Final)
	}
}

func (s *Shell) handleEnv(args []string, out io.Writer) {
	for _, a := range args {
		name, annot, err := parseNameAnnot(a)
		if err != nil {
			fmt.Fprintf(out, "%s: %v\n", red("Error"), err)
			continue
		}
		site := polarity.Site{Descr: polarity.DescrTparamDecl}
		s.env[name] = polarity.InitialFromAnnotation(site, annot)
		s.scope[name] = true
	}
}

func (s *Shell) handleOracle(args []string, out io.Writer) {
	for _, a := range args {
		name, rest, ok := cutColon(a)
		if !ok {
			fmt.Fprintf(out, "%s: expected NAME:+,-,... got %q\n", red("Error"), a)
			continue
		}
		var annots []polarity.Annotation
		ok = true
		for _, piece := range strings.Split(rest, ",") {
			annot, err := parseAnnot(piece)
			if err != nil {
				fmt.Fprintf(out, "%s: %v\n", red("Error"), err)
				ok = false
				break
			}
			annots = append(annots, annot)
		}
		if ok {
			s.oracle[name] = annots
		}
	}
}

func (s *Shell) handleClass(args []string, out io.Writer) {
	if len(args) == 0 {
		s.root = nil
		return
	}
	final := false
	for _, a := range args[1:] {
		if a == "final" {
			final = true
		}
	}
	var tparams []tenv.TParamDecl
	for _, n := range s.sortedEnvNames() {
		tparams = append(tparams, tenv.TParamDecl{Name: n, Variance: annotationOf(s.env[n])})
	}
	s.root = &tenv.ClassInfo{NameVal: args[0], Final: final, TParams: tparams}
}

func (s *Shell) explainType(src string, out io.Writer) {
	t, err := ParseType(src, s.scope)
	if err != nil {
		fmt.Fprintf(out, "%s: %v\n", red("Error"), err)
		return
	}

	site := polarity.Site{Descr: polarity.DescrTypedefBody}
	seed := polarity.InitialFromAnnotation(site, polarity.AnnotationCovariant)
	sink := variance.CheckExpr(s.oracle, s.env, s.root, "<explain>", seed, t)

	if len(sink.Reports) == 0 {
		fmt.Fprintln(out, green("PASS"), dim("no variance errors"))
		return
	}
	for _, r := range sink.Reports {
		s.printReport(r, out)
	}
}

func (s *Shell) printReport(r *errors.Report, out io.Writer) {
	fmt.Fprintf(out, "%s %s: %s\n", red("FAIL"), bold(r.Code), r.Message)
	if r.Span != nil {
		fmt.Fprintf(out, "  %s %s\n", cyan(r.Span.Start.String()), dim("primary"))
	}
	for _, sec := range r.Secondary {
		fmt.Fprintf(out, "  %s %s\n", cyan(sec.Span.Start.String()), dim(sec.Message))
	}
}

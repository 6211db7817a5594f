package cli

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"lexis/pkg/metrics"
	"lexis/pkg/syntax"
)

func newParseCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "parse <file>",
		Short: "Print the syntax tree of a file",
		Long: `Parses a source file and prints its syntax tree.

Examples:
  lexis parse main.lx
  lexis parse --json main.lx`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runParse(args[0], asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the tree as JSON")
	return cmd
}

func (a *app) runParse(path string, asJSON bool) error {
	started := time.Now()
	prog, err := syntax.Parse(path, a.parseOptions(a.reporter)...)
	if err != nil {
		a.metrics.ObserveParse(metrics.OutcomeFailure, time.Since(started), 0, 0)
		if isDiagnostic(err) {
			return errFailed
		}
		return err
	}
	used, _, _ := prog.Arena.Stats()
	a.metrics.ObserveParse(metrics.OutcomeSuccess, time.Since(started), used, prog.Tree.Len())

	if !asJSON {
		return syntax.Fprint(a.stdout, prog)
	}

	out, err := json.MarshalIndent(map[string]interface{}{
		"path": prog.Path,
		"fp64": prog.FP64,
		"root": syntax.Export(prog.Tree, prog.Root),
	}, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, string(out))
	return nil
}

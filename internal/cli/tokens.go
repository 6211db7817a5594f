package cli

import (
	"github.com/spf13/cobra"

	"lexis/pkg/arena"
	"lexis/pkg/diag"
	"lexis/pkg/source"
	"lexis/pkg/syntax"
)

func newTokensCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tokens <file>",
		Short: "List the tokens of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTokens(args[0])
		},
	}
}

func (a *app) runTokens(path string) error {
	file, err := source.Load(path, arena.New(a.cfg.MinimumRegionSize))
	if err != nil {
		return err
	}

	// tokens are the output, failures stay on stderr
	out := diag.NewReporter(a.stdout, diag.ColorNever)
	count, err := syntax.Tokens(file, tokenSink{tokens: out, failures: a.reporter})
	a.log.Debug("tokens listed", "path", path, "count", count)
	if err != nil {
		return errFailed
	}
	return nil
}

type tokenSink struct {
	tokens   diag.Sink
	failures diag.Sink
}

func (s tokenSink) Report(d diag.Diagnostic, src []byte) {
	if d.Severity == diag.Failure {
		s.failures.Report(d, src)
		return
	}
	s.tokens.Report(d, src)
}

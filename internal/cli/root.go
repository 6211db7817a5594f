package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"lexis/internal/config"
	"lexis/pkg/diag"
	"lexis/pkg/logger"
	"lexis/pkg/metrics"
	"lexis/pkg/syntax"
)

// Version is overridden at build time with -ldflags.
var Version = "dev"

// errFailed marks a run whose failures were already reported.
var errFailed = errors.New("failed")

// app carries what every command needs once the configuration is resolved.
type app struct {
	cfgFile string
	verbose bool

	cfg      *config.Config
	log      *slog.Logger
	reporter *diag.Reporter
	metrics  *metrics.Metrics

	stdout io.Writer
	stderr io.Writer
}

// NewRootCmd builds the command tree writing to the given streams.
func NewRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	rootCmd := &cobra.Command{
		Use:   "lexis",
		Short: "lexis - source-to-tree front end",
		Long: `lexis tokenizes and parses source files into syntax trees.

Commands:
  parse    - print the syntax tree of a file
  check    - parse files concurrently and report failures
  tokens   - list the tokens of a file
  version  - print the version`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.flushMetrics()
		},
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (.toml, .yaml or .yml)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose output (debug logging)")

	rootCmd.AddCommand(
		newParseCmd(a),
		newCheckCmd(a),
		newTokensCmd(a),
		newVersionCmd(a),
	)
	return rootCmd
}

// Execute runs the command line and returns the process exit code.
func Execute() int {
	rootCmd := NewRootCmd(os.Stdout, os.Stderr)
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(config.Options{File: a.cfgFile})
	if err != nil {
		return err
	}
	if a.verbose {
		cfg.LogLevel = "debug"
	}
	a.cfg = cfg

	a.log = logger.Setup(a.stderr, cfg.Environment, cfg.LogLevel).
		With("session", uuid.New().String())

	mode, err := diag.ParseColorMode(cfg.Color)
	if err != nil {
		return err
	}
	a.reporter = diag.NewReporter(a.stderr, mode)
	a.metrics = metrics.New()

	a.log.Debug("configuration loaded",
		"command", cmd.Name(),
		"environment", cfg.Environment,
		"workers", cfg.Workers,
		"config", a.cfgFile,
	)
	return nil
}

func (a *app) parseOptions(sink diag.Sink) []syntax.Option {
	return []syntax.Option{
		syntax.WithSink(sink),
		syntax.WithMinimumRegionSize(a.cfg.MinimumRegionSize),
		syntax.WithLogger(a.log),
	}
}

func (a *app) flushMetrics() error {
	if a.cfg == nil || a.cfg.MetricsFile == "" {
		return nil
	}
	if err := a.metrics.WriteTextfile(a.cfg.MetricsFile); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	a.log.Debug("metrics written", "path", a.cfg.MetricsFile)
	return nil
}

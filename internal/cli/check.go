package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"lexis/pkg/diag"
	"lexis/pkg/metrics"
	"lexis/pkg/syntax"
)

func newCheckCmd(a *app) *cobra.Command {
	var (
		asJSON bool
		watch  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "check <file>...",
		Short: "Parse files and report failures",
		Long: `Parses every file concurrently and reports failures without printing trees.

Examples:
  lexis check main.lx lib.lx
  lexis check --json *.lx
  lexis check --watch 1s src/*.lx`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.runCheck(ctx, args, asJSON, watch)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "output results as JSON")
	cmd.Flags().DurationVar(&watch, "watch", 0, "recheck changed files at this interval until interrupted")
	return cmd
}

// checkResult is one file's outcome.
type checkResult struct {
	Path    string            `json:"path"`
	Success bool              `json:"success"`
	Cached  bool              `json:"cached"`
	Nodes   int               `json:"nodes,omitempty"`
	Errors  []diag.Diagnostic `json:"errors,omitempty"`
	Error   string            `json:"error,omitempty"`
}

type checkReport struct {
	Success bool          `json:"success"`
	Files   []checkResult `json:"files"`
}

func (a *app) runCheck(ctx context.Context, paths []string, asJSON bool, watch time.Duration) error {
	sink := diag.Sink(a.reporter)
	if asJSON {
		sink = diag.Discard
	}
	cache := syntax.NewCache(a.parseOptions(sink)...)

	report, err := a.checkOnce(ctx, cache, paths)
	if err != nil {
		return err
	}
	if err := a.printReport(report, asJSON, false); err != nil {
		return err
	}
	if watch <= 0 {
		if !report.Success {
			return errFailed
		}
		return nil
	}

	a.log.Info("watching for changes", "files", len(paths), "interval", watch)
	ticker := time.NewTicker(watch)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			a.log.Info("watch stopped")
			return nil
		case <-ticker.C:
		}
		report, err := a.checkOnce(ctx, cache, paths)
		if ctx.Err() != nil {
			a.log.Info("watch stopped")
			return nil
		}
		if err != nil {
			return err
		}
		if err := a.printReport(report, asJSON, true); err != nil {
			return err
		}
	}
}

// checkOnce loads every path through the cache with at most cfg.Workers
// parses in flight. Results keep the order of paths.
func (a *app) checkOnce(ctx context.Context, cache *syntax.Cache, paths []string) (checkReport, error) {
	results := make([]checkResult, len(paths))
	var mu sync.Mutex
	success := true

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.Workers)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			result := a.checkFile(cache, path)
			results[i] = result
			if !result.Success {
				mu.Lock()
				success = false
				mu.Unlock()
			}
			return nil
		})
	}
	// an interrupted round leaves unvisited files without a result
	if err := g.Wait(); err != nil {
		return checkReport{}, err
	}
	return checkReport{Success: success, Files: results}, nil
}

func (a *app) checkFile(cache *syntax.Cache, path string) checkResult {
	started := time.Now()
	prog, hit, err := cache.Load(path)
	elapsed := time.Since(started)

	result := checkResult{Path: path, Success: err == nil, Cached: hit}
	var d diag.Diagnostic
	switch {
	case err == nil:
		result.Nodes = prog.Tree.Len()
	case errors.As(err, &d):
		result.Errors = []diag.Diagnostic{d}
	default:
		result.Error = err.Error()
	}

	switch {
	case hit:
		a.metrics.ObserveParse(metrics.OutcomeCached, elapsed, 0, 0)
	case err != nil:
		a.metrics.ObserveParse(metrics.OutcomeFailure, elapsed, 0, 0)
	default:
		used, _, _ := prog.Arena.Stats()
		a.metrics.ObserveParse(metrics.OutcomeSuccess, elapsed, used, result.Nodes)
	}

	a.log.Debug("checked", "path", path, "success", result.Success, "cached", hit, "duration", elapsed)
	return result
}

// printReport writes the results. With changedOnly set, cached results are
// left out and nothing is printed when no file changed.
func (a *app) printReport(report checkReport, asJSON, changedOnly bool) error {
	if changedOnly {
		var changed []checkResult
		for _, r := range report.Files {
			if !r.Cached {
				changed = append(changed, r)
			}
		}
		if len(changed) == 0 {
			return nil
		}
		report.Files = changed
	}

	if asJSON {
		out, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(a.stdout, string(out))
		return nil
	}

	failed := 0
	for _, r := range report.Files {
		switch {
		case r.Success:
			fmt.Fprintf(a.stdout, "✅ %s (%d nodes)\n", r.Path, r.Nodes)
		case r.Error != "":
			failed++
			fmt.Fprintf(a.stdout, "❌ %s: %s\n", r.Path, r.Error)
		default:
			failed++
			fmt.Fprintf(a.stdout, "❌ %s\n", r.Path)
		}
	}
	if failed == 0 {
		fmt.Fprintf(a.stdout, "\n✅ %d file(s) passed\n", len(report.Files))
	} else {
		fmt.Fprintf(a.stdout, "\n❌ %d of %d file(s) failed\n", failed, len(report.Files))
	}
	return nil
}

func isDiagnostic(err error) bool {
	var d diag.Diagnostic
	return errors.As(err, &d)
}

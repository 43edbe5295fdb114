package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/shrek82/tagcheck/middleware"
	"github.com/shrek82/tagcheck/report"
	"github.com/shrek82/tagcheck/runner"
	"github.com/shrek82/tagcheck/schema"
	"github.com/shrek82/tagcheck/watch"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Reconcile annotated structs with the schema",
	Long: `Parse every source file under the configured roots, load the column
schema and report every inconsistency between the two.

The command exits with status 1 when anything fatal was found.

Examples:
  tagcheck check
  tagcheck check --format json
  tagcheck check --watch --config ci/tagcheck.yaml`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

var (
	checkWatch    bool
	checkFormat   string
	checkFailFast bool
	checkNoColor  bool
	checkDebounce time.Duration
)

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().BoolVarP(&checkWatch, "watch", "w", false, "re-check whenever a source file changes")
	checkCmd.Flags().StringVarP(&checkFormat, "format", "f", "text", "output format (text, json)")
	checkCmd.Flags().BoolVar(&checkFailFast, "fail-fast", false, "stop at the first violation")
	checkCmd.Flags().BoolVar(&checkNoColor, "no-color", false, "disable colored output")
	checkCmd.Flags().DurationVar(&checkDebounce, "debounce", watch.DefaultDebounce, "quiet period before a changed file is re-checked")
}

func runCheck(cmd *cobra.Command, args []string) error {
	if checkDebounce < 0 {
		return fmt.Errorf("--debounce must not be negative, got %s", checkDebounce)
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("fail-fast") {
		cfg.Check.FailFast = checkFailFast
	}
	format, err := report.ParseFormat(checkFormat)
	if err != nil {
		return err
	}

	l := cfg.Logger()
	r := runner.New(cfg, l, report.NewPrinter(cmd.OutOrStdout(), format, checkNoColor))

	if !checkWatch {
		src, err := runner.Source(cfg, l)
		if err != nil {
			return err
		}
		defer src.Close()

		ok, err := r.Check(cmd.Context(), src)
		if err != nil {
			return err
		}
		if !ok {
			return errCheckFailed
		}
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Repeated runs share one schema load and stop hammering a failing source.
	breaker := middleware.NewCircuitBreaker(3, 30*time.Second)
	breaker.Logger = l
	extra := []schema.Middleware{breaker}
	if cfg.Cache.Kind == "none" {
		extra = append(extra, middleware.NewMemoryCache(cfg.Cache.TTL))
	}
	src, err := runner.Source(cfg, l, extra...)
	if err != nil {
		return err
	}
	defer src.Close()

	if _, err := r.Check(ctx, src); err != nil {
		return err
	}

	w := watch.New(cfg.Roots, cfg.Extensions, func(ctx context.Context, paths []string) {
		l.Info("changed: %s", strings.Join(paths, ", "))
		if _, err := r.Check(ctx, src); err != nil {
			l.Error("write report: %v", err)
		}
	}, l)
	w.Debounce = checkDebounce
	if err := w.Start(ctx); err != nil {
		return err
	}
	defer w.Stop()

	select {
	case <-ctx.Done():
	case <-w.Done():
	}
	l.Info("stopped watching")
	return nil
}

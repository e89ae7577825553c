// balance runs the automated balance-testing batch: every scenario
// blueprint x every seed, greedy weekly plan selection, invariant auditing,
// and an aggregate report. Exit status 2 means at least one critical
// balance alert, so the binary works as a pass/fail gate in a pipeline.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"storesim.ai/internal/auto"
	"storesim.ai/internal/auto/policy"
	"storesim.ai/internal/persistence/runstore"
	"storesim.ai/internal/sim/content"
)

func main() {
	var (
		mode     = flag.String("mode", "quick", "quick|full")
		weeks    = flag.Int("weeks", 40, "week cap per run")
		seeds    = flag.Int("seeds", 5, "seeds per scenario")
		seed     = flag.Int64("seed", 1, "base seed")
		out      = flag.String("out", "balance-out", "output directory")
		workers  = flag.Int("workers", 4, "parallel runs")
		policyFn = flag.String("policy", "", "optional policy YAML override")
		history  = flag.String("db", "", "optional sqlite file to append batch history to")
		verbose  = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	if *mode != "quick" && *mode != "full" {
		fmt.Fprintln(os.Stderr, "mode must be quick or full")
		os.Exit(1)
	}

	zl, err := newLogger(*verbose)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer zl.Sync()
	log := zl.Sugar()

	pol := policy.Default()
	if *policyFn != "" {
		pol, err = policy.Load(*policyFn)
		if err != nil {
			log.Fatalw("load policy", "path", *policyFn, "err", err)
		}
	}

	cfg := auto.BatchConfig{
		Mode:     *mode,
		Weeks:    *weeks,
		Seeds:    *seeds,
		BaseSeed: *seed,
		Workers:  *workers,
		TraceDir: filepath.Join(*out, "traces"),
	}
	rep, err := auto.RunBatch(cfg, pol, content.Default(), log)
	if err != nil {
		log.Fatalw("batch failed", "err", err)
	}

	if err := auto.WriteReport(*out, rep); err != nil {
		log.Fatalw("write report", "dir", *out, "err", err)
	}
	log.Infow("report written",
		"dir", *out,
		"runs", rep.Aggregate.Runs,
		"win_rate", fmt.Sprintf("%.0f%%", rep.Aggregate.WinRate*100),
		"alerts", len(rep.Alerts))

	if *history != "" {
		store, err := runstore.Open(*history)
		if err != nil {
			log.Fatalw("open history db", "path", *history, "err", err)
		}
		defer store.Close()
		id, err := store.SaveReport(rep)
		if err != nil {
			log.Fatalw("save history", "err", err)
		}
		log.Infow("batch recorded", "db", filepath.Clean(*history), "batch_id", id)
	}

	for _, a := range rep.Alerts {
		log.Warnw("balance alert", "severity", a.Severity, "code", a.Code, "msg", a.Message)
	}
	if auto.HasCritical(rep.Alerts) {
		log.Errorw("critical balance alerts present")
		os.Exit(2)
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stdout"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return cfg.Build()
}

package auto

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"storesim.ai/internal/auto/policy"
	"storesim.ai/internal/persistence/trace"
	"storesim.ai/internal/sim/actions"
	"storesim.ai/internal/sim/content"
)

// BatchConfig drives one balance-testing batch.
type BatchConfig struct {
	Mode     string `json:"mode"` // "quick" | "full"
	Weeks    int    `json:"weeks"`
	Seeds    int    `json:"seeds"`
	BaseSeed int64  `json:"base_seed"`
	Workers  int    `json:"workers"`
	TraceDir string `json:"trace_dir,omitempty"` // write per-run decision traces here
}

// AutomationReport is the full output of one batch: configuration,
// aggregate statistics, derived alerts, and every run summary.
type AutomationReport struct {
	Config      BatchConfig      `json:"config"`
	GeneratedAt time.Time        `json:"generated_at"`
	Policy      policy.Policy    `json:"policy"`
	Aggregate   AggregateSummary `json:"aggregate"`
	Alerts      []BalanceAlert   `json:"alerts"`
	Runs        []RunSummary     `json:"runs"`
}

// RunBatch executes every (scenario, seed) pair. Pairs are embarrassingly
// parallel: each worker owns its state copies and its own seeded rngs, so
// the only shared data is the read-only content catalog. Results are
// ordered by (scenario, seed) regardless of worker scheduling.
func RunBatch(cfg BatchConfig, pol policy.Policy, cat *content.Catalog, log *zap.SugaredLogger) (*AutomationReport, error) {
	if cfg.Mode == "quick" {
		if cfg.Weeks > 12 {
			cfg.Weeks = 12
		}
		if cfg.Seeds > 3 {
			cfg.Seeds = 3
		}
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 4
	}

	blueprints := Blueprints()
	disp := actions.NewDispatcher(cat)
	gen := NewGenerator(cat)

	type job struct {
		bp   Blueprint
		seed int64
	}
	var jobs []job
	for _, bp := range blueprints {
		for i := 0; i < cfg.Seeds; i++ {
			jobs = append(jobs, job{bp: bp, seed: cfg.BaseSeed + int64(i)})
		}
	}

	runs := make([]RunSummary, len(jobs))
	errs := make([]error, len(jobs))
	jobCh := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobCh {
				j := jobs[idx]
				runner := NewRunner(disp, gen, pol, cfg.Weeks)
				var tw *trace.Writer
				if cfg.TraceDir != "" {
					var err error
					tw, err = trace.NewWriter(cfg.TraceDir, j.bp.Name, j.seed)
					if err != nil {
						errs[idx] = err
						continue
					}
					runner.Trace = tw
				}
				sum, err := runner.Run(j.bp, j.seed)
				if tw != nil {
					if cerr := tw.Close(); cerr != nil && err == nil {
						err = cerr
					}
				}
				runs[idx], errs[idx] = sum, err
				if err != nil {
					log.Errorw("run failed", "scenario", j.bp.Name, "seed", j.seed, "err", err)
					continue
				}
				log.Infow("run complete",
					"scenario", sum.Scenario, "seed", sum.Seed,
					"outcome", sum.Outcome, "weeks", sum.FinalWeek,
					"profit", fmt.Sprintf("%.0f", sum.CumulativeProfit))
			}
		}()
	}
	for idx := range jobs {
		jobCh <- idx
	}
	close(jobCh)
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	sort.SliceStable(runs, func(a, b int) bool {
		if runs[a].Scenario != runs[b].Scenario {
			return runs[a].Scenario < runs[b].Scenario
		}
		return runs[a].Seed < runs[b].Seed
	})

	agg := Aggregate(runs, pol.Alerts.DualTopByWeek)
	rep := &AutomationReport{
		Config:      cfg,
		GeneratedAt: time.Now().UTC(),
		Policy:      pol,
		Aggregate:   agg,
		Alerts:      DeriveAlerts(agg, blueprints, pol.Alerts),
		Runs:        runs,
	}
	return rep, nil
}

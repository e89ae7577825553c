package auto

import (
	"fmt"
	"hash/fnv"
	"math/rand"

	"storesim.ai/internal/auto/policy"
	"storesim.ai/internal/sim/actions"
	"storesim.ai/internal/sim/econ"
)

// Blueprint declares a starting configuration. Setup actions are applied
// through the dispatcher like any others; if any of them fails the whole
// run aborts, since a scenario that cannot be set up has nothing to score.
type Blueprint struct {
	Name         string   `json:"name"`
	Brand        string   `json:"brand"`
	Location     string   `json:"location"`
	Address      string   `json:"address"`
	DecorTier    int      `json:"decor_tier"`
	StartingCash float64  `json:"starting_cash"`
	Staff        []string `json:"staff"` // archetype ids
	Platforms    []string `json:"platforms,omitempty"`
	StartStock   int      `json:"start_stock"` // initial units per product

	// HighRisk scenarios carry a win-rate ceiling: if the greedy runner
	// wins them more often than this, the game is too forgiving.
	HighRisk       bool    `json:"high_risk,omitempty"`
	WinRateCeiling float64 `json:"win_rate_ceiling,omitempty"`
}

// Blueprints is the built-in scenario set.
func Blueprints() []Blueprint {
	return []Blueprint{
		{
			Name: "old_town_noodles", Brand: "noodle_nest", Location: "old_town",
			Address: "14 Lantern Row", DecorTier: 1, StartingCash: 20000,
			Staff: []string{"line_cook", "line_cook", "server"}, StartStock: 120,
		},
		{
			Name: "mall_fried", Brand: "crispy_corner", Location: "mall_kiosk",
			Address: "Riverside Mall U-23", DecorTier: 2, StartingCash: 24000,
			Staff:     []string{"senior_cook", "line_cook", "server", "runner"},
			Platforms: []string{"fleetbite"}, StartStock: 160,
		},
		{
			Name: "suburb_shoestring", Brand: "noodle_nest", Location: "suburb_strip",
			Address: "8 Elm Parade", DecorTier: 0, StartingCash: 9000,
			Staff: []string{"line_cook"}, StartStock: 60,
			HighRisk: true, WinRateCeiling: 0.35,
		},
	}
}

func (bp Blueprint) setupActions() []actions.Action {
	out := []actions.Action{
		actions.SelectBrand{BrandID: bp.Brand},
		actions.SelectLocation{LocationID: bp.Location},
		actions.SetAddress{Address: bp.Address},
		actions.SetDecoration{Tier: bp.DecorTier},
	}
	for _, id := range bp.Staff {
		out = append(out, actions.AddStaff{ArchetypeID: id})
	}
	out = append(out, actions.OpenStore{})
	for _, id := range bp.Platforms {
		out = append(out, actions.JoinPlatform{PlatformID: id})
	}
	return out
}

// WeeklyDecision is one adopted plan in a run trace.
type WeeklyDecision struct {
	Week        int            `json:"week"`
	PlanID      string         `json:"plan_id"`
	Score       float64        `json:"score"`
	Profit      float64        `json:"profit"`
	Fulfillment float64        `json:"fulfillment"`
	Failed      []FailedAction `json:"failed,omitempty"`
	Findings    int            `json:"findings"`
}

// RunSummary is one full scenario-to-termination trace.
type RunSummary struct {
	Scenario string `json:"scenario"`
	Seed     int64  `json:"seed"`

	FinalWeek        int     `json:"final_week"`
	Outcome          string  `json:"outcome"` // "won" | "bankrupt" | "week_cap"
	CumulativeProfit float64 `json:"cumulative_profit"`
	ROI              float64 `json:"roi"`
	AvgProfit        float64 `json:"avg_profit"`
	AvgFulfillment   float64 `json:"avg_fulfillment"`
	DualTopWeek      int     `json:"dual_top_week,omitempty"` // first week exposure and reputation both >= 95

	Decisions []WeeklyDecision `json:"decisions"`
	Findings  []Finding        `json:"findings,omitempty"`
}

// TraceWriter receives one record per adopted week. The zstd JSONL writer
// in persistence/trace satisfies it; nil disables tracing.
type TraceWriter interface {
	Write(v any) error
}

// Runner drives one scenario: greedy plan selection week by week, no
// backtracking, no lookahead beyond the single evaluated week.
type Runner struct {
	Dispatcher *actions.Dispatcher
	Generator  *Generator
	Evaluator  *Evaluator
	MaxWeeks   int
	Trace      TraceWriter
}

func NewRunner(disp *actions.Dispatcher, gen *Generator, pol policy.Policy, maxWeeks int) *Runner {
	return &Runner{
		Dispatcher: disp,
		Generator:  gen,
		Evaluator:  &Evaluator{Dispatcher: disp, Policy: pol},
		MaxWeeks:   maxWeeks,
	}
}

// subSeed derives the per-plan rng seed from the run's base seed, the
// current week, and the plan's identity and position. FNV keeps it cheap
// and stable across platforms.
func subSeed(base int64, week int, planID string, planIndex int) int64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%d|%d|%s|%d", base, week, planID, planIndex)
	return int64(h.Sum64())
}

// Run executes one scenario to termination. Deterministic: a fixed
// (blueprint, seed, week cap) always yields an identical RunSummary.
func (r *Runner) Run(bp Blueprint, seed int64) (RunSummary, error) {
	sum := RunSummary{Scenario: bp.Name, Seed: seed}

	state := &econ.StoreState{
		Phase:       econ.PhaseSetup,
		Cash:        bp.StartingCash,
		InitialCash: bp.StartingCash,
		Exposure:    10,
		Reputation:  50,
		Cleanliness: 100,
		Season:      econ.SeasonForWeek(0),
	}
	for _, a := range bp.setupActions() {
		if res := r.Dispatcher.Apply(state, a, nil); res.Err != nil {
			return sum, fmt.Errorf("scenario %s: setup action %s: %w", bp.Name, a.Kind(), res.Err)
		}
	}
	for i := range state.Products {
		state.Products[i].Inventory = bp.StartStock
	}

	var profitSum, fulfillSum float64
	for state.Phase == econ.PhaseOperating && state.Week < r.MaxWeeks {
		plans := r.Generator.Generate(state)

		var best PlanEvaluation
		have := false
		for i, p := range plans {
			rng := rand.New(rand.NewSource(subSeed(seed, state.Week, p.ID, i)))
			ev := r.Evaluator.Evaluate(state, p, rng)
			if !have || ev.Score > best.Score {
				best = ev
				have = true
			}
		}
		if !have {
			break
		}

		state = best.State
		profitSum += state.Last.Profit
		fulfillSum += state.Last.Fulfillment
		if sum.DualTopWeek == 0 && state.Exposure >= 95 && state.Reputation >= 95 {
			sum.DualTopWeek = state.Week
		}

		dec := WeeklyDecision{
			Week:        state.Week,
			PlanID:      best.Plan.ID,
			Score:       best.Score,
			Profit:      state.Last.Profit,
			Fulfillment: state.Last.Fulfillment,
			Failed:      best.FailedActions,
			Findings:    len(best.Findings),
		}
		sum.Decisions = append(sum.Decisions, dec)
		sum.Findings = append(sum.Findings, best.Findings...)
		if r.Trace != nil {
			if err := r.Trace.Write(dec); err != nil {
				return sum, fmt.Errorf("scenario %s: trace: %w", bp.Name, err)
			}
		}
	}

	sum.FinalWeek = state.Week
	sum.CumulativeProfit = state.CumulativeProfit
	if state.InitialCash != 0 {
		sum.ROI = state.CumulativeProfit / state.InitialCash
	}
	if n := len(sum.Decisions); n > 0 {
		sum.AvgProfit = profitSum / float64(n)
		sum.AvgFulfillment = fulfillSum / float64(n)
	}
	switch state.Phase {
	case econ.PhaseWon:
		sum.Outcome = "won"
	case econ.PhaseBankrupt:
		sum.Outcome = "bankrupt"
	default:
		sum.Outcome = "week_cap"
	}
	return sum, nil
}

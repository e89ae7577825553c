package auto

import (
	"fmt"

	"storesim.ai/internal/auto/policy"
)

// AggregateSummary reduces many runs into the balance dashboard.
type AggregateSummary struct {
	Runs      int `json:"runs"`
	Wins      int `json:"wins"`
	Bankrupts int `json:"bankrupts"`

	WinRate      float64 `json:"win_rate"`
	BankruptRate float64 `json:"bankrupt_rate"`
	DualTopRate  float64 `json:"dual_top_rate"` // exposure and reputation both >= 95 by the pacing week

	AvgFinalWeek   float64 `json:"avg_final_week"`
	AvgCumProfit   float64 `json:"avg_cum_profit"`
	AvgROI         float64 `json:"avg_roi"`
	AvgFulfillment float64 `json:"avg_fulfillment"`

	FindingsBySeverity map[Severity]int `json:"findings_by_severity"`
	CriticalEngineBugs int              `json:"critical_engine_bugs"`

	WinRateByScenario map[string]float64 `json:"win_rate_by_scenario"`
}

// Aggregate reduces run summaries. pacingWeek is the dual-top cutoff
// (policy Alerts.DualTopByWeek).
func Aggregate(runs []RunSummary, pacingWeek int) AggregateSummary {
	agg := AggregateSummary{
		Runs:               len(runs),
		FindingsBySeverity: map[Severity]int{},
		WinRateByScenario:  map[string]float64{},
	}
	if len(runs) == 0 {
		return agg
	}

	scenarioRuns := map[string]int{}
	scenarioWins := map[string]int{}
	dualTop := 0
	for _, r := range runs {
		scenarioRuns[r.Scenario]++
		switch r.Outcome {
		case "won":
			agg.Wins++
			scenarioWins[r.Scenario]++
		case "bankrupt":
			agg.Bankrupts++
		}
		if r.DualTopWeek > 0 && r.DualTopWeek <= pacingWeek {
			dualTop++
		}
		agg.AvgFinalWeek += float64(r.FinalWeek)
		agg.AvgCumProfit += r.CumulativeProfit
		agg.AvgROI += r.ROI
		agg.AvgFulfillment += r.AvgFulfillment
		for sev, n := range countBySeverity(r.Findings) {
			agg.FindingsBySeverity[sev] += n
		}
		agg.CriticalEngineBugs += criticalEngineBugs(r.Findings)
	}

	n := float64(len(runs))
	agg.WinRate = float64(agg.Wins) / n
	agg.BankruptRate = float64(agg.Bankrupts) / n
	agg.DualTopRate = float64(dualTop) / n
	agg.AvgFinalWeek /= n
	agg.AvgCumProfit /= n
	agg.AvgROI /= n
	agg.AvgFulfillment /= n
	for name, total := range scenarioRuns {
		agg.WinRateByScenario[name] = float64(scenarioWins[name]) / float64(total)
	}
	return agg
}

// BalanceAlert is one derived pass/fail signal about the content balance.
type BalanceAlert struct {
	Severity Severity `json:"severity"`
	Code     string   `json:"code"`
	Message  string   `json:"message"`
}

// DeriveAlerts turns an aggregate into balance alerts. Critical alerts are
// the CI gate: the batch CLI exits non-zero when any is present.
func DeriveAlerts(agg AggregateSummary, blueprints []Blueprint, cfg policy.Alerts) []BalanceAlert {
	var out []BalanceAlert
	add := func(sev Severity, code, format string, args ...any) {
		out = append(out, BalanceAlert{Severity: sev, Code: code, Message: fmt.Sprintf(format, args...)})
	}

	if agg.Runs == 0 {
		return out
	}
	if agg.WinRate < cfg.WinRateMin || agg.WinRate > cfg.WinRateMax {
		add(SeverityWarning, "WIN_RATE_OUT_OF_BAND",
			"win rate %.0f%% outside [%.0f%%, %.0f%%]",
			agg.WinRate*100, cfg.WinRateMin*100, cfg.WinRateMax*100)
	}
	if agg.BankruptRate > cfg.BankruptMax {
		add(SeverityCritical, "BANKRUPT_RATE_HIGH",
			"bankrupt rate %.0f%% exceeds %.0f%%", agg.BankruptRate*100, cfg.BankruptMax*100)
	}
	if agg.DualTopRate > cfg.DualTopMax {
		add(SeverityWarning, "GROWTH_PACING_FAST",
			"dual-top by week %d rate %.0f%% exceeds %.0f%%",
			cfg.DualTopByWeek, agg.DualTopRate*100, cfg.DualTopMax*100)
	}
	if agg.CriticalEngineBugs > 0 {
		add(SeverityCritical, "ENGINE_BUG_PRESENT",
			"%d critical engine-bug findings across runs", agg.CriticalEngineBugs)
	}
	for _, bp := range blueprints {
		if !bp.HighRisk {
			continue
		}
		if rate, ok := agg.WinRateByScenario[bp.Name]; ok && rate > bp.WinRateCeiling {
			add(SeverityCritical, "HIGH_RISK_SCENARIO_TOO_SAFE",
				"scenario %s wins %.0f%% of runs, ceiling %.0f%%",
				bp.Name, rate*100, bp.WinRateCeiling*100)
		}
	}
	return out
}

// HasCritical reports whether any alert should gate a pipeline.
func HasCritical(alerts []BalanceAlert) bool {
	for _, a := range alerts {
		if a.Severity == SeverityCritical {
			return true
		}
	}
	return false
}

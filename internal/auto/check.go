package auto

import (
	"fmt"
	"math"
	"sort"

	"storesim.ai/internal/auto/policy"
	"storesim.ai/internal/sim/econ"
)

// CheckWeek audits the state produced by one evaluated week against the
// engine's numeric and consistency invariants. prev is the state the week
// started from. Every violation surfaces as its own finding; nothing is
// suppressed or deduplicated across categories.
func CheckWeek(prev, cur *econ.StoreState, pol policy.Checker) []Finding {
	var out []Finding
	week := cur.Week
	add := func(sev Severity, cat Category, code Code, module, format string, args ...any) {
		out = append(out, Finding{
			Severity: sev,
			Category: cat,
			Code:     code,
			Message:  fmt.Sprintf(format, args...),
			Module:   module,
			Week:     week,
		})
	}

	// Finiteness.
	finite := []struct {
		name string
		v    float64
	}{
		{"cash", cur.Cash},
		{"exposure", cur.Exposure},
		{"reputation", cur.Reputation},
		{"week_revenue", cur.Last.Revenue},
		{"week_costs", cur.Last.Costs},
		{"week_profit", cur.Last.Profit},
		{"cumulative_profit", cur.CumulativeProfit},
	}
	for _, f := range finite {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			add(SeverityCritical, CategoryEngineBug, CodeNonFiniteMetric, "actions/week",
				"%s is not finite: %v", f.name, f.v)
		}
	}

	// Ranges.
	if cur.Exposure < 0 || cur.Exposure > 100 {
		add(SeverityCritical, CategoryEngineBug, CodeExposureOutOfRange, "actions/week",
			"exposure %.3f outside [0,100]", cur.Exposure)
	}
	if cur.Reputation < 0 || cur.Reputation > 100 {
		add(SeverityCritical, CategoryEngineBug, CodeReputationOutOfRange, "actions/week",
			"reputation %.3f outside [0,100]", cur.Reputation)
	}
	if cur.Growth.Progress < 0 || cur.Growth.Progress > 100 {
		add(SeverityCritical, CategoryEngineBug, CodeGrowthOutOfRange, "actions/week",
			"growth progress %.3f outside [0,100]", cur.Growth.Progress)
	}
	if cur.Growth.Trust < 0 || cur.Growth.Trust > 1 {
		add(SeverityCritical, CategoryEngineBug, CodeGrowthOutOfRange, "actions/week",
			"growth trust %.4f outside [0,1]", cur.Growth.Trust)
	}

	tol := pol.FloatTolerance

	// Per-platform exposure contributions must sum to the reported total.
	// Summed in sorted key order so any mismatch message is reproducible.
	var expKeys []string
	for k := range cur.Last.PlatformExposure {
		expKeys = append(expKeys, k)
	}
	sort.Strings(expKeys)
	var expSum float64
	for _, k := range expKeys {
		expSum += cur.Last.PlatformExposure[k]
	}
	if math.Abs(expSum-cur.Last.PlatformExposureTotal) > tol {
		add(SeverityCritical, CategoryEngineBug, CodePlatformExposureMismatch, "actions/week",
			"platform exposure parts %.6f != total %.6f", expSum, cur.Last.PlatformExposureTotal)
	}

	// Settlement conservation and ordering.
	if res := cur.LastSettlement; res != nil {
		var sales int
		var revenue float64
		for _, p := range res.Products {
			sales += p.ActualSales
			revenue += p.Revenue
			if p.DineInSales+p.DeliverySales != p.ActualSales {
				add(SeverityCritical, CategoryEngineBug, CodeSalesSumMismatch, "econ/settle",
					"product %s: channel sales %d+%d != total %d",
					p.ProductID, p.DineInSales, p.DeliverySales, p.ActualSales)
			}
			if p.ActualSales > p.Demand {
				add(SeverityCritical, CategoryEngineBug, CodeSalesExceedDemand, "econ/settle",
					"product %s: sales %d exceed demand %d", p.ProductID, p.ActualSales, p.Demand)
			}
			if p.ActualSales > p.Supply {
				add(SeverityCritical, CategoryEngineBug, CodeSalesExceedSupply, "econ/settle",
					"product %s: sales %d exceed supply %d", p.ProductID, p.ActualSales, p.Supply)
			}
		}
		if sales != res.TotalSales {
			add(SeverityCritical, CategoryEngineBug, CodeSalesSumMismatch, "econ/settle",
				"per-product sales %d != aggregate %d", sales, res.TotalSales)
		}
		if math.Abs(revenue-res.TotalRevenue) > tol {
			add(SeverityCritical, CategoryEngineBug, CodeRevenueSumMismatch, "econ/settle",
				"per-product revenue %.6f != aggregate %.6f", revenue, res.TotalRevenue)
		}
	}

	// Weekly summary vs live state.
	if cur.Last.Week != cur.Week {
		add(SeverityCritical, CategoryEngineBug, CodeSummaryStateMismatch, "actions/week",
			"summary week %d != state week %d", cur.Last.Week, cur.Week)
	}
	if math.Abs(cur.Last.CashAfter-cur.Cash) > tol {
		add(SeverityCritical, CategoryEngineBug, CodeSummaryStateMismatch, "actions/week",
			"summary cash %.6f != state cash %.6f", cur.Last.CashAfter, cur.Cash)
	}

	// Balance heuristic: a platform should not climb the ranking in a week
	// the store could not fulfill orders.
	if cur.Last.Fulfillment < pol.LowFulfillment {
		for i := range cur.Platforms {
			p := &cur.Platforms[i]
			pp := prev.Platform(p.ID)
			if pp == nil {
				continue
			}
			if gain := p.WeightScore - pp.WeightScore; gain > pol.WeightGainFlag {
				add(SeverityWarning, CategoryBalance, CodeWeightGainLowFulfillment, "econ/delivery",
					"platform %s gained %.2f weight at %.0f%% fulfillment",
					p.ID, gain, cur.Last.Fulfillment*100)
			}
		}
	}

	// Balance heuristic: exposure should not surge while the player idles.
	if prev.IdleWeeks >= pol.InactivityWeeks {
		if rise := cur.Exposure - prev.Exposure; rise > pol.ExposureSpike {
			add(SeverityWarning, CategoryBalance, CodeExposureSpikeWhileIdle, "actions/week",
				"exposure rose %.2f after %d idle weeks", rise, prev.IdleWeeks)
		}
	}

	// Operational signal, informational only.
	if cur.Last.Fulfillment < pol.LowFulfillment && cur.Phase == econ.PhaseOperating {
		add(SeverityInfo, CategoryOperation, CodeLowFulfillment, "",
			"fulfillment at %.0f%%", cur.Last.Fulfillment*100)
	}

	// Terminal sanity: deep in debt but the game has not ended.
	if cur.Cash < econ.BankruptcyCash && cur.Phase == econ.PhaseOperating {
		add(SeverityCritical, CategoryEngineBug, CodeNegativeCashNotEnded, "actions/week",
			"cash %.2f below bankruptcy threshold %.2f with phase still %q",
			cur.Cash, econ.BankruptcyCash, cur.Phase)
	}

	return out
}

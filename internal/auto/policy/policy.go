// Package policy holds the tunable knobs of the automation harness: the
// plan-scoring weights and the invariant-checker thresholds. The numbers
// are policy, not law; the shape that matters is preserved in code
// (terminal outcomes dominate, failures are always penalized).
package policy

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Scoring struct {
	Profit           float64 `yaml:"profit"`
	Cash             float64 `yaml:"cash"`
	Fulfillment      float64 `yaml:"fulfillment"`
	Reputation       float64 `yaml:"reputation"`
	Exposure         float64 `yaml:"exposure"`
	GrowthProgress   float64 `yaml:"growth_progress"`
	GrowthTrust      float64 `yaml:"growth_trust"`
	CumulativeProfit float64 `yaml:"cumulative_profit"`
	LossExtra        float64 `yaml:"loss_extra"`        // additional multiplier on negative profit
	FailedAction     float64 `yaml:"failed_action"`     // flat penalty per failed action
	CriticalFinding  float64 `yaml:"critical_finding"`  // flat penalty per critical finding
	TerminalOutcome  float64 `yaml:"terminal_outcome"`  // saturating win bonus / bankrupt penalty
	Sentinel         float64 `yaml:"sentinel"`          // score for a plan whose week advance failed
}

type Checker struct {
	LowFulfillment   float64 `yaml:"low_fulfillment"`   // fulfillment floor for the weight-gain heuristic
	WeightGainFlag   float64 `yaml:"weight_gain_flag"`  // weight-score gain that trips the heuristic
	ExposureSpike    float64 `yaml:"exposure_spike"`    // exposure rise that trips the inactivity heuristic
	InactivityWeeks  int     `yaml:"inactivity_weeks"`  // consecutive idle weeks before the spike check arms
	FloatTolerance   float64 `yaml:"float_tolerance"`
}

type Alerts struct {
	WinRateMin     float64 `yaml:"win_rate_min"`
	WinRateMax     float64 `yaml:"win_rate_max"`
	BankruptMax    float64 `yaml:"bankrupt_max"`
	DualTopMax     float64 `yaml:"dual_top_max"`
	DualTopByWeek  int     `yaml:"dual_top_by_week"`
}

type Policy struct {
	Scoring Scoring `yaml:"scoring"`
	Checker Checker `yaml:"checker"`
	Alerts  Alerts  `yaml:"alerts"`
}

// Default returns the built-in policy values.
func Default() Policy {
	return Policy{
		Scoring: Scoring{
			Profit:           9,
			Cash:             0.04,
			Fulfillment:      2200,
			Reputation:       75,
			Exposure:         45,
			GrowthProgress:   24,
			GrowthTrust:      800,
			CumulativeProfit: 0.6,
			LossExtra:        8,
			FailedAction:     700,
			CriticalFinding:  1200,
			TerminalOutcome:  1e9,
			Sentinel:         -1e12,
		},
		Checker: Checker{
			LowFulfillment:  0.65,
			WeightGainFlag:  0.8,
			ExposureSpike:   3.5,
			InactivityWeeks: 3,
			FloatTolerance:  1e-6,
		},
		Alerts: Alerts{
			WinRateMin:    0.15,
			WinRateMax:    0.75,
			BankruptMax:   0.50,
			DualTopMax:    0.20,
			DualTopByWeek: 20,
		},
	}
}

// Load reads a policy override file; fields the file omits keep their
// default values, so a partial file only overrides what it names.
func Load(path string) (Policy, error) {
	p := Default()
	raw, err := os.ReadFile(path)
	if err != nil {
		return p, err
	}
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return p, fmt.Errorf("policy.yaml: %w", err)
	}
	return p, nil
}

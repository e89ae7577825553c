package auto

import (
	"math/rand"

	"storesim.ai/internal/auto/policy"
	"storesim.ai/internal/sim/actions"
	"storesim.ai/internal/sim/econ"
)

// FailedAction records one action the dispatcher rejected while a plan was
// being applied.
type FailedAction struct {
	Kind  string `json:"kind"`
	Error string `json:"error"`
}

// PlanEvaluation is the outcome of trying one candidate plan for one week.
type PlanEvaluation struct {
	Plan  CandidatePlan    `json:"plan"`
	State *econ.StoreState `json:"-"`

	Score float64 `json:"score"`

	ProfitBefore      float64 `json:"profit_before"`
	ProfitAfter       float64 `json:"profit_after"`
	FulfillmentBefore float64 `json:"fulfillment_before"`
	FulfillmentAfter  float64 `json:"fulfillment_after"`

	FailedActions []FailedAction `json:"failed_actions,omitempty"`
	Findings      []Finding      `json:"findings,omitempty"`
}

// Evaluator tries candidate plans against independent state copies.
type Evaluator struct {
	Dispatcher *actions.Dispatcher
	Policy     policy.Policy
}

// Evaluate applies a plan's actions to a full copy of s, advances exactly
// one week, audits the result, and scores it. The caller's state is never
// touched. A rejected action is recorded and the rest of the plan still
// runs; a rejected week advance is fatal to the plan (sentinel score,
// critical finding) but not to anything beyond it.
func (e *Evaluator) Evaluate(s *econ.StoreState, plan CandidatePlan, rng *rand.Rand) PlanEvaluation {
	ev := PlanEvaluation{
		Plan:              plan,
		ProfitBefore:      s.Last.Profit,
		FulfillmentBefore: s.Last.Fulfillment,
	}

	c := s.Clone()
	for _, a := range plan.Actions {
		if res := e.Dispatcher.Apply(c, a, rng); res.Err != nil {
			ev.FailedActions = append(ev.FailedActions, FailedAction{
				Kind:  string(a.Kind()),
				Error: res.Err.Error(),
			})
		}
	}

	if res := e.Dispatcher.Apply(c, actions.AdvanceWeek{}, rng); res.Err != nil {
		ev.State = c
		ev.Score = e.Policy.Scoring.Sentinel
		ev.Findings = append(ev.Findings, Finding{
			Severity: SeverityCritical,
			Category: CategoryEngineBug,
			Code:     CodeWeekAdvanceFailed,
			Message:  "week advance failed: " + res.Err.Error(),
			Module:   "actions/week",
			Week:     c.Week,
		})
		return ev
	}

	ev.State = c
	ev.ProfitAfter = c.Last.Profit
	ev.FulfillmentAfter = c.Last.Fulfillment
	ev.Findings = append(ev.Findings, CheckWeek(s, c, e.Policy.Checker)...)
	ev.Score = e.score(c, ev)
	return ev
}

func (e *Evaluator) score(s *econ.StoreState, ev PlanEvaluation) float64 {
	w := e.Policy.Scoring
	profit := s.Last.Profit

	score := profit*w.Profit +
		s.Cash*w.Cash +
		s.Last.Fulfillment*w.Fulfillment +
		s.Reputation*w.Reputation +
		s.Exposure*w.Exposure +
		s.Growth.Progress*w.GrowthProgress +
		s.Growth.Trust*w.GrowthTrust +
		s.CumulativeProfit*w.CumulativeProfit

	if profit < 0 {
		score += profit * w.LossExtra
	}
	score -= float64(len(ev.FailedActions)) * w.FailedAction
	for _, f := range ev.Findings {
		if f.Severity == SeverityCritical {
			score -= w.CriticalFinding
		}
	}

	switch s.Phase {
	case econ.PhaseWon:
		score += w.TerminalOutcome
	case econ.PhaseBankrupt:
		score -= w.TerminalOutcome
	}
	return score
}

// Package query is the read-only projection layer: pure functions over a
// state snapshot, no side effects, no mutation.
package query

import (
	"storesim.ai/internal/sim/econ"
)

// Stats is the condensed dashboard view of one state.
type Stats struct {
	Week             int            `json:"week"`
	Phase            econ.GamePhase `json:"phase"`
	Cash             float64        `json:"cash"`
	Exposure         float64        `json:"exposure"`
	Reputation       float64        `json:"reputation"`
	Cleanliness      float64        `json:"cleanliness"`
	WeekProfit       float64        `json:"week_profit"`
	WeekRevenue      float64        `json:"week_revenue"`
	WeekFulfillment  float64        `json:"week_fulfillment"`
	CumulativeProfit float64        `json:"cumulative_profit"`
	GrowthProgress   float64        `json:"growth_progress"`
	GrowthTrust      float64        `json:"growth_trust"`
	StaffCount       int            `json:"staff_count"`
	ActiveProducts   int            `json:"active_products"`
	PlatformCount    int            `json:"platform_count"`
	IdleWeeks        int            `json:"idle_weeks"`
}

func GetStats(s *econ.StoreState) Stats {
	return Stats{
		Week:             s.Week,
		Phase:            s.Phase,
		Cash:             s.Cash,
		Exposure:         s.Exposure,
		Reputation:       s.Reputation,
		Cleanliness:      s.Cleanliness,
		WeekProfit:       s.Last.Profit,
		WeekRevenue:      s.Last.Revenue,
		WeekFulfillment:  s.Last.Fulfillment,
		CumulativeProfit: s.CumulativeProfit,
		GrowthProgress:   s.Growth.Progress,
		GrowthTrust:      s.Growth.Trust,
		StaffCount:       len(s.Staff),
		ActiveProducts:   len(s.ActiveProducts()),
		PlatformCount:    len(s.Platforms),
		IdleWeeks:        s.IdleWeeks,
	}
}

// SupplyDemand recomputes the full settlement for a snapshot.
func SupplyDemand(s *econ.StoreState) *econ.SupplyDemandResult {
	return econ.Settle(s)
}

// CanOpen reports whether setup is complete, and what is missing if not.
func CanOpen(s *econ.StoreState) (bool, []string) {
	if s.Phase != econ.PhaseSetup {
		return false, []string{"already open"}
	}
	var missing []string
	if s.Brand == "" {
		missing = append(missing, "brand")
	}
	if s.Location == "" {
		missing = append(missing, "location")
	}
	if s.Address == "" {
		missing = append(missing, "address")
	}
	if len(s.ActiveProducts()) == 0 {
		missing = append(missing, "menu")
	}
	if len(s.Staff) == 0 {
		missing = append(missing, "staff")
	}
	return len(missing) == 0, missing
}

// GameResult reports the terminal outcome of a state, if any.
type GameResult struct {
	Ended   bool   `json:"ended"`
	Outcome string `json:"outcome,omitempty"` // "won" | "bankrupt"
	Week    int    `json:"week"`
}

func GetGameResult(s *econ.StoreState) GameResult {
	switch s.Phase {
	case econ.PhaseWon:
		return GameResult{Ended: true, Outcome: "won", Week: s.Week}
	case econ.PhaseBankrupt:
		return GameResult{Ended: true, Outcome: "bankrupt", Week: s.Week}
	default:
		return GameResult{Week: s.Week}
	}
}

// AvailableActions lists the action kinds meaningful in the current phase.
func AvailableActions(s *econ.StoreState) []string {
	switch s.Phase {
	case econ.PhaseSetup:
		return []string{
			"SELECT_BRAND", "SELECT_LOCATION", "SET_ADDRESS", "SET_DECORATION",
			"TOGGLE_PRODUCT", "ADD_STAFF", "SET_PRICE", "SET_INVENTORY",
			"SET_RESTOCK", "OPEN_STORE",
		}
	case econ.PhaseOperating:
		return []string{
			"SET_DECORATION", "TOGGLE_PRODUCT", "ADD_STAFF", "FIRE_STAFF",
			"ASSIGN_STAFF", "SET_PRICE", "SET_INVENTORY", "SET_RESTOCK",
			"START_MARKETING", "STOP_MARKETING", "JOIN_PLATFORM",
			"LEAVE_PLATFORM", "TUNE_PLATFORM", "ADVANCE_WEEK",
		}
	default:
		return nil
	}
}

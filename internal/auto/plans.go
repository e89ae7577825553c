package auto

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"storesim.ai/internal/sim/actions"
	"storesim.ai/internal/sim/content"
	"storesim.ai/internal/sim/econ"
)

// Price-adjustment guard rails.
const (
	priceFloorCostMult = 1.30
	priceCeilRefMult   = 1.35
	priceMinStep       = 0.8
	priceTopProducts   = 3
)

// Plan identifiers. The catalog of candidates is fixed; the actions inside
// each are rebuilt from the current state every cycle.
const (
	PlanBaselineHold       = "baseline_hold"
	PlanPriceMarginRepair  = "price_margin_repair"
	PlanPriceDemandStim    = "price_demand_stimulus"
	PlanOpsRebalance       = "ops_rebalance"
	PlanGrowthPush         = "growth_push"
	PlanBalancedMixed      = "balanced_mixed"
	PlanCashGuard          = "cash_guard"
)

// CandidatePlan is a named, rationale-carrying bundle of actions for one
// decision week. Immutable once constructed.
type CandidatePlan struct {
	ID        string           `json:"id"`
	Rationale string           `json:"rationale"`
	Actions   []actions.Action `json:"-"`
}

// Signature identifies a plan by its id and serialized action sequence.
func (p CandidatePlan) Signature() string {
	var b strings.Builder
	b.WriteString(p.ID)
	for _, a := range p.Actions {
		fmt.Fprintf(&b, "|%s%+v", a.Kind(), a)
	}
	return b.String()
}

// behaviorKey is the action sequence alone, used so the generator never
// proposes two behaviorally identical plans under different names.
func (p CandidatePlan) behaviorKey() string {
	var b strings.Builder
	for _, a := range p.Actions {
		fmt.Fprintf(&b, "|%s%+v", a.Kind(), a)
	}
	return b.String()
}

type pricePosture int

const (
	postureMarginRepair pricePosture = iota
	postureDemandStimulus
	postureBalanced
)

// Generator proposes the fixed menu of candidate plans for a state.
type Generator struct {
	Catalog *content.Catalog
}

func NewGenerator(cat *content.Catalog) *Generator {
	if cat == nil {
		cat = content.Default()
	}
	return &Generator{Catalog: cat}
}

// Generate builds the candidate catalog from the current state. The
// baseline hold is always present and is the only plan allowed to carry an
// empty action list.
func (g *Generator) Generate(s *econ.StoreState) []CandidatePlan {
	res := s.LastSettlement
	if res == nil {
		res = econ.Settle(s)
	}

	raw := []CandidatePlan{
		{
			ID:        PlanBaselineHold,
			Rationale: "control group: change nothing and let the week play out",
		},
		{
			ID:        PlanPriceMarginRepair,
			Rationale: "margins look thin; walk top sellers' prices up toward the ceiling",
			Actions:   g.priceMoves(s, res, postureMarginRepair),
		},
		{
			ID:        PlanPriceDemandStim,
			Rationale: "demand is the constraint; shave prices on top sellers to pull traffic",
			Actions:   g.priceMoves(s, res, postureDemandStimulus),
		},
		{
			ID:        PlanOpsRebalance,
			Rationale: "fix staffing assignment and restock strategy before spending anything",
			Actions:   g.opsMoves(s, res),
		},
		{
			ID:        PlanGrowthPush,
			Rationale: "spend into marketing and delivery ranking while cash allows",
			Actions:   g.growthMoves(s),
		},
		{
			ID:        PlanBalancedMixed,
			Rationale: "a little of everything: one price fix, one ops fix, one growth move",
			Actions:   g.mixedMoves(s, res),
		},
		{
			ID:        PlanCashGuard,
			Rationale: "de-risk: stop discretionary spend and repair margin",
			Actions:   g.cashGuardMoves(s, res),
		},
	}

	seen := map[string]bool{}
	var out []CandidatePlan
	for _, p := range raw {
		if len(p.Actions) == 0 && p.ID != PlanBaselineHold {
			continue
		}
		key := p.behaviorKey()
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, p)
	}
	return out
}

// rankByRevenue returns active product ids ordered by settled revenue,
// highest first, id as the deterministic tiebreak.
func rankByRevenue(s *econ.StoreState, res *econ.SupplyDemandResult) []string {
	revenue := map[string]float64{}
	for _, p := range res.Products {
		revenue[p.ProductID] = p.Revenue
	}
	var ids []string
	for _, i := range s.ActiveProducts() {
		ids = append(ids, s.Products[i].ID)
	}
	sort.SliceStable(ids, func(a, b int) bool {
		if revenue[ids[a]] != revenue[ids[b]] {
			return revenue[ids[a]] > revenue[ids[b]]
		}
		return ids[a] < ids[b]
	})
	if len(ids) > priceTopProducts {
		ids = ids[:priceTopProducts]
	}
	return ids
}

// priceMoves nudges top-revenue products toward a posture, subject to a
// floor of 1.3x unit cost and a ceiling of 1.35x reference price, rounded
// to one decimal. Deltas under the minimum step are dropped to avoid
// no-op churn.
func (g *Generator) priceMoves(s *econ.StoreState, res *econ.SupplyDemandResult, posture pricePosture) []actions.Action {
	var out []actions.Action
	for _, id := range rankByRevenue(s, res) {
		p := s.Product(id)
		if p == nil {
			continue
		}
		var target float64
		switch posture {
		case postureMarginRepair:
			target = p.Price * 1.08
		case postureDemandStimulus:
			target = p.Price * 0.94
		default:
			target = (p.Price + p.RefPrice) / 2
		}
		floor := p.UnitCost * priceFloorCostMult
		ceil := p.RefPrice * priceCeilRefMult
		if target < floor {
			target = floor
		}
		if target > ceil {
			target = ceil
		}
		target = math.Round(target*10) / 10
		if math.Abs(target-p.Price) < priceMinStep {
			continue
		}
		out = append(out, actions.SetPrice{ProductID: id, Price: target})
	}
	return out
}

// opsMoves reassigns misplaced staff and corrects restock strategy on
// inventory-starved products.
func (g *Generator) opsMoves(s *econ.StoreState, res *econ.SupplyDemandResult) []actions.Action {
	var out []actions.Action

	for i := range s.Staff {
		if s.Staff[i].Task == econ.TaskIdle {
			out = append(out, actions.AssignStaff{StaffID: s.Staff[i].ID, Task: string(econ.TaskKitchen)})
		}
	}

	// Over-crowded kitchen: push the least efficient cook onto service.
	if res.Supply != nil && res.Supply.CrowdingPenalty < 1 {
		worst := -1
		for i := range s.Staff {
			if s.Staff[i].Task != econ.TaskKitchen {
				continue
			}
			if worst < 0 || s.Staff[i].Efficiency < s.Staff[worst].Efficiency {
				worst = i
			}
		}
		if worst >= 0 {
			out = append(out, actions.AssignStaff{StaffID: s.Staff[worst].ID, Task: string(econ.TaskService)})
		}
	}

	if res.Supply != nil {
		for _, ps := range res.Supply.Products {
			if ps.Bottleneck != econ.BottleneckInventory {
				continue
			}
			p := s.Product(ps.ProductID)
			if p == nil || p.Restock == econ.RestockToDemand {
				continue
			}
			out = append(out, actions.SetRestock{ProductID: ps.ProductID, Strategy: string(econ.RestockToDemand)})
		}
	}
	return out
}

// growthMoves spends on marketing and delivery-platform standing.
func (g *Generator) growthMoves(s *econ.StoreState) []actions.Action {
	var out []actions.Action

	if s.Cash > 2000 {
		active := map[string]bool{}
		for _, m := range s.Marketing {
			if m.WeeksLeft > 0 {
				active[m.ID] = true
			}
		}
		for _, c := range g.Catalog.Campaigns {
			if !active[c.ID] && s.Cash > c.CostPerWeek*float64(c.Weeks)+1500 {
				out = append(out, actions.StartMarketing{CampaignID: c.ID})
				break
			}
		}
	}

	if len(s.Platforms) == 0 {
		for _, def := range g.Catalog.Platforms {
			if s.Cash > def.JoinFee+2500 {
				out = append(out, actions.JoinPlatform{PlatformID: def.ID})
				break
			}
		}
	} else {
		for i := range s.Platforms {
			p := &s.Platforms[i]
			if p.PromoTier < 2 {
				out = append(out, actions.TunePlatform{
					PlatformID:   p.ID,
					PromoTier:    p.PromoTier + 1,
					DiscountTier: p.DiscountTier,
					PriceTier:    p.PriceTier,
				})
				break
			}
		}
	}
	return out
}

// mixedMoves takes the first move of each theme.
func (g *Generator) mixedMoves(s *econ.StoreState, res *econ.SupplyDemandResult) []actions.Action {
	var out []actions.Action
	if moves := g.priceMoves(s, res, postureBalanced); len(moves) > 0 {
		out = append(out, moves[0])
	}
	if moves := g.opsMoves(s, res); len(moves) > 0 {
		out = append(out, moves[0])
	}
	if moves := g.growthMoves(s); len(moves) > 0 {
		out = append(out, moves[0])
	}
	return out
}

// cashGuardMoves cuts discretionary spend: stop the most expensive running
// campaign, drop platform promotion, repair margin.
func (g *Generator) cashGuardMoves(s *econ.StoreState, res *econ.SupplyDemandResult) []actions.Action {
	var out []actions.Action

	expensive := -1
	for i := range s.Marketing {
		if s.Marketing[i].WeeksLeft <= 0 {
			continue
		}
		if expensive < 0 || s.Marketing[i].CostPerWeek > s.Marketing[expensive].CostPerWeek {
			expensive = i
		}
	}
	if expensive >= 0 {
		out = append(out, actions.StopMarketing{CampaignID: s.Marketing[expensive].ID})
	}

	for i := range s.Platforms {
		p := &s.Platforms[i]
		if p.PromoTier > 0 || p.DiscountTier > 1 {
			out = append(out, actions.TunePlatform{
				PlatformID:   p.ID,
				PromoTier:    0,
				DiscountTier: 1,
				PriceTier:    p.PriceTier,
			})
		}
	}

	out = append(out, g.priceMoves(s, res, postureMarginRepair)...)
	return out
}

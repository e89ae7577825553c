package actions

import (
	"fmt"
	"math"
	"math/rand"

	"storesim.ai/internal/sim/econ"
)

// Per-week drift constants. Mechanism, not balance content.
const (
	cleanlinessDecay   = 3.0
	cleanlinessPerCrew = 2.0
	promoExposureStep  = 0.6
	weightExposureRate = 0.01
	wordOfMouthBoost   = 0.5
	velocitySmoothing  = 0.6
)

// advanceWeek settles the current week and books its outcome: cash
// movement, inventory, restock, exposure/reputation drift, platform and
// growth updates, and terminal-phase detection. The settlement itself is
// computed on the pre-mutation state and stashed on the state for
// diagnostics.
func (d *Dispatcher) advanceWeek(s *econ.StoreState, rng *rand.Rand) Result {
	if s.Phase != econ.PhaseOperating {
		return Result{Err: fmt.Errorf("%w: cannot advance week in phase %q", ErrWrongPhase, s.Phase)}
	}
	if rng == nil {
		return Result{Err: fmt.Errorf("%w: advance week requires a seeded rng", ErrBadValue)}
	}

	res := econ.Settle(s)

	// Inventory moves: consume sales, then restock per strategy.
	var restockCost float64
	salesByID := make(map[string]econ.ProductSaleResult, len(res.Products))
	for _, sale := range res.Products {
		salesByID[sale.ProductID] = sale
	}
	for i := range s.Products {
		p := &s.Products[i]
		if !p.Active {
			continue
		}
		sale := salesByID[p.ID]
		p.Inventory -= sale.ActualSales
		if p.Inventory < 0 {
			p.Inventory = 0
		}
		var units int
		switch p.Restock {
		case econ.RestockFixed:
			units = p.RestockQty
		case econ.RestockToDemand:
			target := int(math.Ceil(float64(sale.Demand) * 1.2))
			if target > p.Inventory {
				units = target - p.Inventory
			}
		}
		if units > 0 {
			p.Inventory += units
			restockCost += float64(units) * p.UnitCost
		}
	}

	var wages float64
	for i := range s.Staff {
		wages += s.Staff[i].Wage
		if s.Staff[i].Onboarding > 0 {
			s.Staff[i].Onboarding--
		}
	}

	var marketingCost, marketingExposure float64
	kept := s.Marketing[:0]
	for _, m := range s.Marketing {
		if m.WeeksLeft <= 0 {
			continue
		}
		marketingCost += m.CostPerWeek
		marketingExposure += m.ExposureBoost
		m.WeeksLeft--
		if m.WeeksLeft > 0 {
			kept = append(kept, m)
		}
	}
	s.Marketing = kept

	var platformFees float64
	for i := range s.Platforms {
		platformFees += s.Platforms[i].WeeklyFee
	}

	costs := wages + s.Rent + restockCost + marketingCost + platformFees +
		res.CommissionCost + res.DiscountCost + res.PackagingCost
	profit := res.TotalRevenue - costs
	s.Cash += profit
	s.CumulativeProfit += profit

	// Exposure: marketing, platform promotion, and word of mouth when the
	// store is both liked and delivering.
	exposureGained := marketingExposure
	if marketingCost > 0 {
		exposureGained += rng.Float64() * 0.5
	}
	platformExposure := make(map[string]float64, len(s.Platforms))
	var platformExposureTotal float64
	unitsByPlatform := make(map[string]int, len(res.Platforms))
	for _, ps := range res.Platforms {
		unitsByPlatform[ps.PlatformID] = ps.Units
	}
	for i := range s.Platforms {
		p := &s.Platforms[i]
		gain := float64(p.PromoTier)*promoExposureStep + p.WeightScore*weightExposureRate
		platformExposure[p.ID] = gain
		platformExposureTotal += gain
	}
	exposureGained += platformExposureTotal
	if res.Fulfillment > 0.85 && s.Reputation > 70 {
		exposureGained += wordOfMouthBoost
	}
	s.Exposure = clampRange(s.Exposure+exposureGained, 0, 100)

	switch {
	case res.Fulfillment >= 0.9:
		s.Reputation += 1.2
	case res.Fulfillment < 0.5:
		s.Reputation -= 1.5
	default:
		s.Reputation += 0.2
	}
	if s.Cleanliness < 40 {
		s.Reputation -= 0.8
	}
	s.Reputation = clampRange(s.Reputation, 0, 100)

	var crew float64
	for i := range s.Staff {
		if s.Staff[i].Task == econ.TaskService && s.Staff[i].Onboarding == 0 {
			crew++
		}
	}
	s.Cleanliness = clampRange(s.Cleanliness-cleanlinessDecay+crew*cleanlinessPerCrew, 0, 100)

	// Platform drift: smooth delivered units into sales velocity, jitter
	// the rating, then re-derive the stored weight score.
	for i := range s.Platforms {
		p := &s.Platforms[i]
		p.SalesVelocity = velocitySmoothing*p.SalesVelocity + (1-velocitySmoothing)*float64(unitsByPlatform[p.ID])
		p.Rating = clampRange(p.Rating+(rng.Float64()-0.5)*0.2, 1, 5)
		p.WeightScore = econ.PlatformWeightScore(s, p)
	}

	if profit > 0 {
		s.Growth.Progress = clampRange(s.Growth.Progress+1.0+2.0*res.Fulfillment, 0, 100)
	} else {
		s.Growth.Progress = clampRange(s.Growth.Progress+0.1, 0, 100)
	}
	s.Growth.Trust = clampRange(s.Growth.Trust+(res.Fulfillment-s.Growth.Trust)*0.15, 0, 1)

	s.Week++
	s.WeeksOpen++
	s.IdleWeeks++
	s.Season = econ.SeasonForWeek(s.Week)

	switch {
	case s.Cash < econ.BankruptcyCash:
		s.Phase = econ.PhaseBankrupt
	case s.Growth.Progress >= 100:
		s.Phase = econ.PhaseWon
	}

	s.Last = econ.WeeklySummary{
		Week:                  s.Week,
		Revenue:               res.TotalRevenue,
		Costs:                 costs,
		Profit:                profit,
		CashAfter:             s.Cash,
		Fulfillment:           res.Fulfillment,
		DineInSales:           res.TotalSales - deliveredUnits(res),
		DeliverySales:         deliveredUnits(res),
		ExposureGained:        exposureGained,
		PlatformExposure:      platformExposure,
		PlatformExposureTotal: platformExposureTotal,
	}
	s.LastSettlement = res
	return Result{Changed: true}
}

func deliveredUnits(res *econ.SupplyDemandResult) int {
	var n int
	for _, p := range res.Products {
		n += p.DeliverySales
	}
	return n
}

func clampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

package econ

import "math"

// AttractionScore is a 0..100 composite of decoration tier, tenure,
// reputation and exposure. It drives the ring coverage fraction.
func AttractionScore(s *StoreState) float64 {
	decor := float64(s.DecorTier) / 3.0 * attractionDecorMax
	tenure := math.Min(float64(s.WeeksOpen), attractionTenureWeeks) / attractionTenureWeeks * attractionTenureMax
	score := decor + tenure + s.Reputation*attractionRepWeight + s.Exposure*attractionExpWeight
	return clamp(score, 0, 100)
}

// Awareness ramps a freshly opened store up to full visibility.
func Awareness(weeksOpen int) float64 {
	return math.Min(1, awarenessFloor+float64(weeksOpen)*awarenessPerWeek)
}

// TrafficReach converts exposure into a street-traffic multiplier.
func TrafficReach(exposure float64) float64 {
	return trafficReachBase + trafficReachSpan*exposure/100
}

// competitorRingShare computes, per dine-in ring, the fraction of addressable
// demand left after nearby competitor pressure. Adjacent-ring influence is
// asymmetric: an inner-ring competitor suppresses the outer ring at weight
// 0.60, an outer-ring competitor suppresses the inner ring at only 0.40.
func competitorRingShare(competitors []Competitor) (shares [3]float64, any bool) {
	var strength [3]float64
	for _, c := range competitors {
		if c.Ring < 0 || c.Ring > 2 {
			continue
		}
		strength[c.Ring] += clamp(c.Strength, 0, 1)
		any = true
	}
	for r := 0; r < 3; r++ {
		pressure := strength[r]
		if r > 0 {
			pressure += strength[r-1] * competitorInnerWeight
		}
		if r < 2 {
			pressure += strength[r+1] * competitorOuterWeight
		}
		shares[r] = 1 / (1 + pressure)
	}
	return shares, any
}

// serviceQualityMod derives a demand modifier from the service crew.
// No one on service duty turns customers away; a nominal crew is neutral.
func serviceQualityMod(s *StoreState) float64 {
	var sum float64
	var n int
	for _, st := range s.Staff {
		if st.Task == TaskService && st.Onboarding == 0 {
			sum += st.Efficiency
			n++
		}
	}
	if n == 0 {
		return 0.92
	}
	return clamp(0.85+0.15*(sum/float64(n)), 0.90, 1.15)
}

func marketingLift(s *StoreState) (float64, bool) {
	lift := 1.0
	active := false
	for _, m := range s.Marketing {
		if m.WeeksLeft > 0 {
			lift += m.DemandLift
			active = true
		}
	}
	return math.Min(lift, marketingLiftCap), active
}

func priceMod(p *Product) float64 {
	if p.RefPrice <= 0 {
		return 1
	}
	return clamp(1-priceSensitivity*(p.Price-p.RefPrice)/p.RefPrice, priceModFloor, priceModCeil)
}

// ComputeDemand decomposes dine-in demand for one state. Pure; rounding to
// whole customers happens only at the per-product leaf, and the result is
// never negative.
func ComputeDemand(s *StoreState) *DemandBreakdown {
	b := &DemandBreakdown{
		Attraction: AttractionScore(s),
		Awareness:  Awareness(s.WeeksOpen),
		Reach:      TrafficReach(s.Exposure),
		Modifiers:  map[string]float64{},
	}

	coverScale := attractionCoverageBase + (1-attractionCoverageBase)*b.Attraction/100
	for r := 0; r < 4; r++ {
		b.RingCoverage[r] = ringBaseCoverage[r] * coverScale
	}

	shares, contested := competitorRingShare(s.Competitors)
	expCoef := exposureCoefBase + exposureCoefSpan*s.Exposure/100
	repConv := baseConversion * (reputationConvBase + s.Reputation/100)

	var traffic, uncontested float64
	for r := 0; r < 3; r++ {
		ring := float64(s.Rings[r].Population) * b.RingCoverage[r] * expCoef * repConv
		uncontested += ring
		traffic += ring * shares[r]
	}
	b.BaseTraffic = traffic

	b.Modifiers[ModSeason] = seasonDineMod[s.Season]
	if lift, active := marketingLift(s); active {
		b.Modifiers[ModMarketing] = lift
	}
	b.Modifiers[ModService] = serviceQualityMod(s)
	b.Modifiers[ModCleanliness] = 0.80 + 0.20*s.Cleanliness/100
	if s.IdleWeeks > 0 {
		decay := math.Pow(inactivityDecayPerWeek, float64(s.IdleWeeks))
		b.Modifiers[ModInactivity] = math.Max(decay, inactivityDecayFloor)
	}
	if contested && uncontested > 0 {
		// Aggregate suppression, for diagnostics; the per-ring shares are
		// already folded into BaseTraffic.
		b.Modifiers[ModCompetition] = traffic / uncontested
	}

	// Fixed composition order: map iteration order would make the float
	// product run-dependent.
	composite := 1.0
	for _, name := range []string{ModSeason, ModMarketing, ModService, ModCleanliness, ModInactivity} {
		if v, ok := b.Modifiers[name]; ok {
			composite *= v
		}
	}

	active := s.ActiveProducts()
	if len(active) == 0 {
		return b
	}
	addressable := b.BaseTraffic * b.Awareness * b.Reach * composite
	perProduct := addressable / float64(len(active))
	for _, i := range active {
		p := &s.Products[i]
		pm := priceMod(p)
		d := int(math.Round(perProduct * pm))
		if d < 0 {
			d = 0
		}
		b.Products = append(b.Products, ProductDemandBreakdown{
			ProductID: p.ID,
			Base:      perProduct,
			PriceMod:  pm,
			Demand:    d,
		})
		b.Total += d
	}
	return b
}

package econ

import "math"

// ComputeSupply builds one shared pool of effective production hours and
// distributes it across products by demand weight. demandWeights maps
// product id -> dine-in demand + delivery demand for the same state; giving
// every product the whole pool would double-count capacity, which is the
// bug this weighting exists to prevent.
func ComputeSupply(s *StoreState, demandWeights map[string]int) *SupplyBreakdown {
	b := &SupplyBreakdown{CrowdingPenalty: 1.0}

	var kitchenHeads int
	var effSum float64
	for _, st := range s.Staff {
		if st.Onboarding > 0 {
			continue
		}
		mult := taskProductionMult[st.Task]
		if mult <= 0 {
			continue
		}
		if st.Task == TaskKitchen {
			kitchenHeads++
		}
		b.StaffCount++
		effSum += st.Efficiency
		b.TotalHours += st.HoursPerWeek * st.Efficiency * mult
	}
	if b.StaffCount > 0 {
		b.AvgEfficiency = effSum / float64(b.StaffCount)
	}

	b.Stations = int(math.Max(1, math.Floor(s.FloorArea/stationAreaM2)))
	if over := kitchenHeads - b.Stations; over > 0 {
		b.CrowdingPenalty = math.Max(crowdingPenaltyMin, 1-crowdingPenaltyStep*float64(over))
		b.TotalHours *= b.CrowdingPenalty
	}

	active := s.ActiveProducts()
	if len(active) == 0 {
		return b
	}

	var weightSum int
	for _, i := range active {
		weightSum += demandWeights[s.Products[i].ID]
	}

	for _, i := range active {
		p := &s.Products[i]
		var hours float64
		if weightSum > 0 {
			hours = b.TotalHours * float64(demandWeights[p.ID]) / float64(weightSum)
		} else {
			hours = b.TotalHours / float64(len(active))
		}
		capacity := hours * p.Throughput
		supply := int(math.Floor(math.Min(capacity, float64(p.Inventory))))
		if supply < 0 {
			supply = 0
		}
		tag := BottleneckCapacity
		if float64(p.Inventory) < capacity {
			tag = BottleneckInventory
		}
		b.Products = append(b.Products, ProductSupplyBreakdown{
			ProductID:     p.ID,
			Hours:         hours,
			CapacityUnits: capacity,
			Inventory:     p.Inventory,
			Supply:        supply,
			Bottleneck:    tag,
		})
		b.Total += supply
	}
	return b
}

package econ

import (
	"math"
	"sort"
)

// ChoosePolicy picks the allocation policy for a state. Pure: no platforms
// means dine-in eats the whole pool; an aggressively promoted platform
// roster gets fed first; otherwise supply splits proportionally.
func ChoosePolicy(s *StoreState) AllocationPolicy {
	if len(s.Platforms) == 0 {
		return AllocDineInFirst
	}
	for i := range s.Platforms {
		if s.Platforms[i].PromoTier >= 2 {
			return AllocDeliveryFirst
		}
	}
	return AllocProportional
}

// Settle merges demand, supply and delivery demand into the weekly
// settlement. It is a pure function of the state: calling it twice on the
// same snapshot yields identical output, and it never mutates the state.
func Settle(s *StoreState) *SupplyDemandResult {
	demand := ComputeDemand(s)
	delivery := ComputeDeliveryDemand(s)

	dineByID := make(map[string]int, len(demand.Products))
	for _, pd := range demand.Products {
		dineByID[pd.ProductID] = pd.Demand
	}
	delByID := make(map[string]int, len(delivery.Products))
	for _, pd := range delivery.Products {
		delByID[pd.ProductID] = pd.Demand
	}
	weights := make(map[string]int, len(dineByID))
	for id, d := range dineByID {
		weights[id] = d + delByID[id]
	}
	supply := ComputeSupply(s, weights)
	supplyByID := make(map[string]ProductSupplyBreakdown, len(supply.Products))
	for _, ps := range supply.Products {
		supplyByID[ps.ProductID] = ps
	}

	r := &SupplyDemandResult{
		Week:     s.Week,
		Policy:   ChoosePolicy(s),
		Demand:   demand,
		Supply:   supply,
		Delivery: delivery,
	}

	var totalDeliverySales int
	for _, i := range s.ActiveProducts() {
		p := &s.Products[i]
		dine := dineByID[p.ID]
		del := delByID[p.ID]
		sup := supplyByID[p.ID]

		dineSales, delSales := allocate(r.Policy, dine, del, sup.Supply)

		sale := ProductSaleResult{
			ProductID:      p.ID,
			DineInDemand:   dine,
			DineInSales:    dineSales,
			DineInRevenue:  float64(dineSales) * p.Price,
			DeliveryDemand: del,
			DeliverySales:  delSales,
			Demand:         dine + del,
			Supply:         sup.Supply,
			ActualSales:    dineSales + delSales,
			Bottleneck:     classifySale(dine+del, sup),
		}
		if sale.Demand > 0 {
			sale.Fulfillment = clamp(float64(sale.ActualSales)/float64(sale.Demand), 0, 1)
		} else {
			sale.Fulfillment = 1
		}
		totalDeliverySales += delSales
		r.Products = append(r.Products, sale)
	}

	settleDelivery(s, r, totalDeliverySales)

	for i := range r.Products {
		sale := &r.Products[i]
		sale.Revenue = sale.DineInRevenue + sale.DeliveryRevenue
		r.TotalDemand += sale.Demand
		r.TotalSales += sale.ActualSales
		r.DineInRevenue += sale.DineInRevenue
		r.DeliveryRevenue += sale.DeliveryRevenue
	}
	r.TotalSupply = supply.Total
	r.TotalRevenue = r.DineInRevenue + r.DeliveryRevenue
	if r.TotalDemand > 0 {
		r.Fulfillment = clamp(float64(r.TotalSales)/float64(r.TotalDemand), 0, 1)
	} else {
		r.Fulfillment = 1
	}

	r.Bottleneck, r.Suggestion = diagnose(r.TotalDemand, r.TotalSupply)
	return r
}

// allocate splits supply between the channels under one policy. Sales never
// exceed min(demand, supply) on either channel.
func allocate(policy AllocationPolicy, dine, delivery, supply int) (dineSales, deliverySales int) {
	switch policy {
	case AllocDeliveryFirst:
		deliverySales = min(delivery, supply)
		dineSales = min(dine, supply-deliverySales)
	case AllocProportional:
		total := dine + delivery
		if total <= supply {
			return dine, delivery
		}
		if total == 0 {
			return 0, 0
		}
		dineSales = int(math.Floor(float64(supply) * float64(dine) / float64(total)))
		if dineSales > dine {
			dineSales = dine
		}
		deliverySales = min(delivery, supply-dineSales)
	default: // dine_in_first
		dineSales = min(dine, supply)
		deliverySales = min(delivery, supply-dineSales)
	}
	return dineSales, deliverySales
}

// settleDelivery splits delivered units across active platforms by weight
// share (largest-remainder so units conserve exactly), then books each
// product's delivery revenue and the per-platform costs.
func settleDelivery(s *StoreState, r *SupplyDemandResult, totalUnits int) {
	if len(s.Platforms) == 0 {
		return
	}

	var weightSum float64
	scores := make(map[string]float64, len(s.Platforms))
	for _, pd := range r.Delivery.Platforms {
		scores[pd.PlatformID] = pd.WeightScore
		weightSum += pd.WeightScore
	}

	type slice struct {
		idx   int
		share float64
		units int
		frac  float64
	}
	slices := make([]slice, len(s.Platforms))
	assigned := 0
	for i := range s.Platforms {
		share := 1.0 / float64(len(s.Platforms))
		if weightSum > 0 {
			share = scores[s.Platforms[i].ID] / weightSum
		}
		exact := float64(totalUnits) * share
		u := int(math.Floor(exact))
		slices[i] = slice{idx: i, share: share, units: u, frac: exact - float64(u)}
		assigned += u
	}
	// Hand out the remainder by largest fractional part, platform id as the
	// deterministic tiebreak.
	rest := totalUnits - assigned
	order := make([]int, len(slices))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		sa, sb := slices[order[a]], slices[order[b]]
		if sa.frac != sb.frac {
			return sa.frac > sb.frac
		}
		return s.Platforms[sa.idx].ID < s.Platforms[sb.idx].ID
	})
	for k := 0; k < rest; k++ {
		slices[order[k%len(order)]].units++
	}

	// Base (un-tiered) price per delivered unit, unit-weighted across
	// products. Each platform then applies its own customer price
	// multiplier to its own unit slice.
	var baseRevenue float64
	for i := range r.Products {
		sale := &r.Products[i]
		if p := s.Product(sale.ProductID); p != nil {
			baseRevenue += float64(sale.DeliverySales) * p.Price
		}
	}
	var basePerUnit float64
	if totalUnits > 0 {
		basePerUnit = baseRevenue / float64(totalUnits)
	}

	var totalGross float64
	for _, sl := range slices {
		p := &s.Platforms[sl.idx]
		gross := basePerUnit * float64(sl.units) * p.PriceTier
		ps := PlatformSettlement{
			PlatformID:    p.ID,
			WeightScore:   scores[p.ID],
			Share:         sl.share,
			Units:         sl.units,
			GrossRevenue:  gross,
			Commission:    gross * p.Commission,
			DiscountCost:  gross * p.SubsidyRate,
			PackagingCost: float64(sl.units) * p.PackagingCost,
		}
		r.Platforms = append(r.Platforms, ps)
		totalGross += gross
		r.CommissionCost += ps.Commission
		r.DiscountCost += ps.DiscountCost
		r.PackagingCost += ps.PackagingCost
	}

	// Book each product's delivery revenue as its share of the summed
	// platform gross, so the product and platform sides conserve exactly.
	for i := range r.Products {
		sale := &r.Products[i]
		if baseRevenue <= 0 {
			continue
		}
		if p := s.Product(sale.ProductID); p != nil {
			sale.DeliveryRevenue = totalGross * float64(sale.DeliverySales) * p.Price / baseRevenue
		}
	}
}

func classifySale(demand int, sup ProductSupplyBreakdown) SaleBottleneck {
	if demand == 0 {
		return SaleLimitDemand
	}
	switch {
	case sup.Supply >= demand:
		if float64(sup.Supply) > float64(demand)*1.2 {
			return SaleLimitDemand
		}
		return SaleLimitBalanced
	case sup.Bottleneck == BottleneckInventory:
		return SaleLimitInventory
	default:
		return SaleLimitCapacity
	}
}

func diagnose(demand, supply int) (OverallBottleneck, string) {
	d, s := float64(demand), float64(supply)
	switch {
	case s < d*bottleneckThreshold:
		return OverallSupplyLimited, "supply trails demand: add production staff, raise restock targets, or trim the menu"
	case d < s*bottleneckThreshold:
		return OverallDemandLimited, "demand trails supply: invest in marketing or delivery promotion, or cut staffing cost"
	default:
		return OverallBalanced, "demand and supply are balanced; protect margin and watch fulfillment"
	}
}

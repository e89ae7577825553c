package econ

import (
	"math"
	"sort"
)

// PlatformWeightScore is a platform's 0..100 composite ranking signal:
// base exposure, smoothed sales velocity, rating, promotion-tier bonus and
// a discount-tier bonus/penalty (tier 0 reads as "never discounts" and is
// ranked down by the platform).
func PlatformWeightScore(s *StoreState, p *Platform) float64 {
	base := s.Exposure * 0.35
	sales := math.Min(p.SalesVelocity, velocityScoreCap) / velocityScoreCap * 25
	rating := clamp(p.Rating, 0, 5) / 5 * 20
	promo := float64(p.PromoTier) * 5
	discount := float64(p.DiscountTier-1) * 3
	return clamp(base+sales+rating+promo+discount, 0, 100)
}

// ComputeDeliveryDemand decomposes delivery demand across active platforms.
// Multiple simultaneously active platforms overlap: the second, third, ...
// platform (by weight score) each contribute with a diminishing factor
// rather than summing linearly.
func ComputeDeliveryDemand(s *StoreState) *DeliveryBreakdown {
	b := &DeliveryBreakdown{
		SeasonMod:     seasonDeliveryMod[s.Season],
		DistanceDecay: deliveryDecay,
	}
	if len(s.Platforms) == 0 {
		return b
	}

	base := float64(s.Rings[3].Population) * deliveryPropensity * b.DistanceDecay * b.SeasonMod

	for i := range s.Platforms {
		p := &s.Platforms[i]
		w := PlatformWeightScore(s, p)
		conv := weightConvBase + weightConvSpan*w/100
		b.Platforms = append(b.Platforms, PlatformDemand{
			PlatformID:  p.ID,
			WeightScore: w,
			Conversion:  conv,
			RawDemand:   base * conv,
		})
	}

	// Overlap discount orders by weight score, ties broken by id so the
	// result is stable regardless of roster order.
	order := make([]int, len(b.Platforms))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, c int) bool {
		pa, pc := b.Platforms[order[a]], b.Platforms[order[c]]
		if pa.WeightScore != pc.WeightScore {
			return pa.WeightScore > pc.WeightScore
		}
		return pa.PlatformID < pc.PlatformID
	})
	var total float64
	for rank, idx := range order {
		factor := math.Pow(platformOverlapDecay, float64(rank))
		b.Platforms[idx].AfterOverlap = b.Platforms[idx].RawDemand * factor
		total += b.Platforms[idx].AfterOverlap
	}

	active := s.ActiveProducts()
	if len(active) == 0 {
		return b
	}
	perProduct := total / float64(len(active))
	for _, i := range active {
		p := &s.Products[i]
		d := int(math.Round(perProduct * priceMod(p)))
		if d < 0 {
			d = 0
		}
		b.Products = append(b.Products, ProductDeliveryDemand{ProductID: p.ID, Demand: d})
		b.Total += d
	}
	return b
}

package econ

// Engine tuning. These are content-independent mechanism constants; the
// balance values themselves (prices, costs, unlock levels) live in the
// content catalogs and are consumed read-only.
const (
	QuarterWeeks = 13

	// Bankruptcy threshold: a store whose cash falls below this is done.
	BankruptcyCash = -5000.0

	// Demand.
	baseConversion     = 0.18 // ring population -> visits at nominal store
	exposureCoefBase   = 0.60
	exposureCoefSpan   = 0.40
	reputationConvBase = 0.50

	// Attraction score composition (sums to 100 at the theoretical max).
	attractionDecorMax     = 25.0
	attractionTenureMax    = 20.0
	attractionTenureWeeks  = 20
	attractionRepWeight    = 0.30
	attractionExpWeight    = 0.25
	attractionCoverageBase = 0.35

	// Adjacent-ring competitor influence is asymmetric: customers detour
	// inward, rarely outward.
	competitorInnerWeight = 0.60
	competitorOuterWeight = 0.40

	// New-store awareness ramps in over the first weeks of operation.
	awarenessFloor   = 0.40
	awarenessPerWeek = 0.10

	trafficReachBase = 0.50
	trafficReachSpan = 0.50

	inactivityDecayPerWeek = 0.97
	inactivityDecayFloor   = 0.80

	marketingLiftCap = 1.60

	priceSensitivity = 0.80
	priceModFloor    = 0.50
	priceModCeil     = 1.30

	// Supply.
	stationAreaM2       = 12.0 // one kitchen station per this much floor
	crowdingPenaltyStep = 0.12 // per kitchen worker beyond station count
	crowdingPenaltyMin  = 0.60

	// Delivery.
	deliveryPropensity   = 0.08 // outer-ring population -> weekly order base
	deliveryDecay        = 0.55 // distance-decay on the outer ring
	weightConvBase       = 0.50
	weightConvSpan       = 1.00
	platformOverlapDecay = 0.72 // demand factor per additional active platform
	velocityScoreCap     = 200.0

	// Settlement.
	bottleneckThreshold = 0.80
)

// Task production multipliers: how much of a staffer's hour counts toward
// the shared production pool.
var taskProductionMult = map[StaffTask]float64{
	TaskKitchen:  1.0,
	TaskService:  0.30,
	TaskDelivery: 0.15,
	TaskIdle:     0.0,
}

// Season demand modifiers, dine-in and delivery diverge: winter suppresses
// walk-ins but boosts delivery orders.
var seasonDineMod = map[Season]float64{
	SeasonSpring: 1.00,
	SeasonSummer: 1.10,
	SeasonAutumn: 1.00,
	SeasonWinter: 0.90,
}

var seasonDeliveryMod = map[Season]float64{
	SeasonSpring: 1.00,
	SeasonSummer: 0.95,
	SeasonAutumn: 1.05,
	SeasonWinter: 1.15,
}

// Base ring coverage before the attraction scale: fraction of a ring's
// population that can plausibly walk in (ring 3 is delivery-only).
var ringBaseCoverage = [4]float64{0.55, 0.30, 0.12, 0}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

package econ

// SupplyBottleneck tags which side limited a product's supply figure.
type SupplyBottleneck string

const (
	BottleneckInventory SupplyBottleneck = "inventory"
	BottleneckCapacity  SupplyBottleneck = "capacity"
)

// SaleBottleneck classifies what limited a product's sales.
type SaleBottleneck string

const (
	SaleLimitDemand    SaleBottleneck = "demand"
	SaleLimitInventory SaleBottleneck = "supply_inventory"
	SaleLimitCapacity  SaleBottleneck = "supply_capacity"
	SaleLimitBalanced  SaleBottleneck = "balanced"
)

// AllocationPolicy decides how scarce supply splits between channels.
type AllocationPolicy string

const (
	AllocDineInFirst   AllocationPolicy = "dine_in_first"
	AllocDeliveryFirst AllocationPolicy = "delivery_first"
	AllocProportional  AllocationPolicy = "proportional"
)

// OverallBottleneck is the aggregate demand-vs-supply diagnosis.
type OverallBottleneck string

const (
	OverallDemandLimited OverallBottleneck = "demand"
	OverallSupplyLimited OverallBottleneck = "supply"
	OverallBalanced      OverallBottleneck = "balanced"
)

// Named demand modifiers. Each multiplies the base conversion; a missing
// key means the factor did not apply that week (e.g. no competitors, no
// marketing).
const (
	ModSeason      = "season"
	ModMarketing   = "marketing"
	ModService     = "service_quality"
	ModCleanliness = "cleanliness"
	ModInactivity  = "inactivity_decay"
	ModCompetition = "competition"
)

type ProductDemandBreakdown struct {
	ProductID string  `json:"product_id"`
	Base      float64 `json:"base"`      // share of addressable traffic pre price factor
	PriceMod  float64 `json:"price_mod"` // per-product price sensitivity
	Demand    int     `json:"demand"`    // whole customers, never negative
}

// DemandBreakdown is the dine-in demand decomposition for one state.
type DemandBreakdown struct {
	Attraction   float64    `json:"attraction"` // 0..100
	RingCoverage [4]float64 `json:"ring_coverage"`
	BaseTraffic  float64    `json:"base_traffic"` // ring pop x coverage x conversion
	Awareness    float64    `json:"awareness"`
	Reach        float64    `json:"reach"`

	Modifiers map[string]float64       `json:"modifiers"`
	Products  []ProductDemandBreakdown `json:"products"`
	Total     int                      `json:"total"`
}

type ProductSupplyBreakdown struct {
	ProductID     string           `json:"product_id"`
	Hours         float64          `json:"hours"` // demand-weighted share of the pool
	CapacityUnits float64          `json:"capacity_units"`
	Inventory     int              `json:"inventory"`
	Supply        int              `json:"supply"`
	Bottleneck    SupplyBottleneck `json:"bottleneck"`
}

// SupplyBreakdown is the pooled-labor supply decomposition for one state.
type SupplyBreakdown struct {
	StaffCount      int     `json:"staff_count"` // non-onboarding production staff
	TotalHours      float64 `json:"total_hours"` // effective production hours
	AvgEfficiency   float64 `json:"avg_efficiency"`
	Stations        int     `json:"stations"`
	CrowdingPenalty float64 `json:"crowding_penalty"` // 1.0 when uncrowded

	Products []ProductSupplyBreakdown `json:"products"`
	Total    int                      `json:"total"`
}

type PlatformDemand struct {
	PlatformID   string  `json:"platform_id"`
	WeightScore  float64 `json:"weight_score"`
	Conversion   float64 `json:"conversion"`
	RawDemand    float64 `json:"raw_demand"`
	AfterOverlap float64 `json:"after_overlap"`
}

type ProductDeliveryDemand struct {
	ProductID string `json:"product_id"`
	Demand    int    `json:"demand"`
}

// DeliveryBreakdown is the delivery-channel demand decomposition.
type DeliveryBreakdown struct {
	SeasonMod     float64 `json:"season_mod"`
	DistanceDecay float64 `json:"distance_decay"`

	Platforms []PlatformDemand        `json:"platforms"`
	Products  []ProductDeliveryDemand `json:"products"`
	Total     int                     `json:"total"`
}

// ProductSaleResult is the settled outcome for one product.
type ProductSaleResult struct {
	ProductID string `json:"product_id"`

	DineInDemand  int     `json:"dine_in_demand"`
	DineInSales   int     `json:"dine_in_sales"`
	DineInRevenue float64 `json:"dine_in_revenue"`

	DeliveryDemand  int     `json:"delivery_demand"`
	DeliverySales   int     `json:"delivery_sales"`
	DeliveryRevenue float64 `json:"delivery_revenue"`

	Demand      int     `json:"demand"`
	Supply      int     `json:"supply"`
	ActualSales int     `json:"actual_sales"`
	Revenue     float64 `json:"revenue"`
	Fulfillment float64 `json:"fulfillment"` // clamped [0,1]

	Bottleneck SaleBottleneck `json:"bottleneck"`
}

// PlatformSettlement is one platform's slice of the delivery settlement.
type PlatformSettlement struct {
	PlatformID    string  `json:"platform_id"`
	WeightScore   float64 `json:"weight_score"`
	Share         float64 `json:"share"` // weight-score share among active platforms
	Units         int     `json:"units"`
	GrossRevenue  float64 `json:"gross_revenue"`
	Commission    float64 `json:"commission"`
	DiscountCost  float64 `json:"discount_cost"`
	PackagingCost float64 `json:"packaging_cost"`
}

// SupplyDemandResult is the full settlement for one state. It is a pure
// function of the state: recomputed fresh on every request, never cached
// or mutated in place.
type SupplyDemandResult struct {
	Week   int              `json:"week"`
	Policy AllocationPolicy `json:"policy"`

	Demand   *DemandBreakdown   `json:"demand"`
	Supply   *SupplyBreakdown   `json:"supply"`
	Delivery *DeliveryBreakdown `json:"delivery"`

	Products  []ProductSaleResult  `json:"products"`
	Platforms []PlatformSettlement `json:"platforms"`

	TotalDemand int `json:"total_demand"`
	TotalSupply int `json:"total_supply"`
	TotalSales  int `json:"total_sales"`

	DineInRevenue   float64 `json:"dine_in_revenue"`
	DeliveryRevenue float64 `json:"delivery_revenue"`
	TotalRevenue    float64 `json:"total_revenue"`

	CommissionCost float64 `json:"commission_cost"`
	DiscountCost   float64 `json:"discount_cost"`
	PackagingCost  float64 `json:"packaging_cost"`

	Fulfillment float64 `json:"fulfillment"`

	Bottleneck OverallBottleneck `json:"bottleneck"`
	Suggestion string            `json:"suggestion"`
}

func (r *SupplyDemandResult) clone() *SupplyDemandResult {
	c := *r
	if r.Demand != nil {
		d := *r.Demand
		d.Modifiers = make(map[string]float64, len(r.Demand.Modifiers))
		for k, v := range r.Demand.Modifiers {
			d.Modifiers[k] = v
		}
		d.Products = append([]ProductDemandBreakdown(nil), r.Demand.Products...)
		c.Demand = &d
	}
	if r.Supply != nil {
		s := *r.Supply
		s.Products = append([]ProductSupplyBreakdown(nil), r.Supply.Products...)
		c.Supply = &s
	}
	if r.Delivery != nil {
		d := *r.Delivery
		d.Platforms = append([]PlatformDemand(nil), r.Delivery.Platforms...)
		d.Products = append([]ProductDeliveryDemand(nil), r.Delivery.Products...)
		c.Delivery = &d
	}
	c.Products = append([]ProductSaleResult(nil), r.Products...)
	c.Platforms = append([]PlatformSettlement(nil), r.Platforms...)
	return &c
}

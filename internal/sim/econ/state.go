package econ

// GamePhase is the coarse lifecycle of one store.
type GamePhase string

const (
	PhaseSetup     GamePhase = "setup"
	PhaseOperating GamePhase = "operating"
	PhaseWon       GamePhase = "won"
	PhaseBankrupt  GamePhase = "bankrupt"
)

type Season string

const (
	SeasonSpring Season = "spring"
	SeasonSummer Season = "summer"
	SeasonAutumn Season = "autumn"
	SeasonWinter Season = "winter"
)

// SeasonForWeek maps an absolute week number to a season. Seasons rotate
// every QuarterWeeks weeks starting in spring.
func SeasonForWeek(week int) Season {
	order := [4]Season{SeasonSpring, SeasonSummer, SeasonAutumn, SeasonWinter}
	if week < 0 {
		week = 0
	}
	return order[(week/QuarterWeeks)%4]
}

type StaffTask string

const (
	TaskKitchen  StaffTask = "kitchen"
	TaskService  StaffTask = "service"
	TaskDelivery StaffTask = "delivery"
	TaskIdle     StaffTask = "idle"
)

type RestockStrategy string

const (
	RestockNone     RestockStrategy = "none"
	RestockFixed    RestockStrategy = "fixed"
	RestockToDemand RestockStrategy = "to_demand"
)

type Product struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Active     bool            `json:"active"`
	Price      float64         `json:"price"`
	RefPrice   float64         `json:"ref_price"`
	UnitCost   float64         `json:"unit_cost"`
	Throughput float64         `json:"throughput"` // units per effective production hour
	Inventory  int             `json:"inventory"`
	Restock    RestockStrategy `json:"restock"`
	RestockQty int             `json:"restock_qty"`
}

type Staff struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	Efficiency   float64   `json:"efficiency"` // ~0.5..1.5, 1.0 nominal
	HoursPerWeek float64   `json:"hours_per_week"`
	Wage         float64   `json:"wage"` // per week
	Task         StaffTask `json:"task"`
	Onboarding   int       `json:"onboarding"` // weeks left; >0 contributes nothing
}

type Platform struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Rating        float64 `json:"rating"`         // 0..5
	PromoTier     int     `json:"promo_tier"`     // 0..3
	DiscountTier  int     `json:"discount_tier"`  // 0..3
	PriceTier     float64 `json:"price_tier"`     // customer price multiplier
	Commission    float64 `json:"commission"`     // fraction of gross
	SubsidyRate   float64 `json:"subsidy_rate"`   // store-funded discount, fraction of gross
	PackagingCost float64 `json:"packaging_cost"` // per delivered unit
	WeeklyFee     float64 `json:"weekly_fee"`
	SalesVelocity float64 `json:"sales_velocity"` // smoothed delivered units/week
	WeightScore   float64 `json:"weight_score"`   // as of last settled week
}

type MarketingActivity struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	WeeksLeft     int     `json:"weeks_left"`
	CostPerWeek   float64 `json:"cost_per_week"`
	ExposureBoost float64 `json:"exposure_boost"` // additive exposure per week
	DemandLift    float64 `json:"demand_lift"`    // fractional demand modifier contribution
}

// Competitor is a nearby shop contesting dine-in traffic. Ring is one of the
// three dine-in proximity rings (0 door-front, 1 walking, 2 cycling).
type Competitor struct {
	ID       string  `json:"id"`
	Ring     int     `json:"ring"`
	Strength float64 `json:"strength"` // 0..1
}

// Ring buckets nearby consumer population by distance. Index 3 is the
// delivery-only outer ring.
type Ring struct {
	Population int `json:"population"`
}

// GrowthMetrics is the store's long-horizon progression system.
// Progress runs 0..100 (100 wins the game); Trust runs 0..1.
type GrowthMetrics struct {
	Progress float64 `json:"progress"`
	Trust    float64 `json:"trust"`
}

// WeeklySummary is the booked outcome of the most recent settled week.
// CashAfter and Week must always match the live state; the invariant
// checker cross-checks them.
type WeeklySummary struct {
	Week                  int                `json:"week"`
	Revenue               float64            `json:"revenue"`
	Costs                 float64            `json:"costs"`
	Profit                float64            `json:"profit"`
	CashAfter             float64            `json:"cash_after"`
	Fulfillment           float64            `json:"fulfillment"`
	DineInSales           int                `json:"dine_in_sales"`
	DeliverySales         int                `json:"delivery_sales"`
	ExposureGained        float64            `json:"exposure_gained"`
	PlatformExposure      map[string]float64 `json:"platform_exposure,omitempty"`
	PlatformExposureTotal float64            `json:"platform_exposure_total"`
}

// StoreState is one full snapshot of a simulated store. Simulation steps
// never mutate a caller's snapshot; they work on a Clone.
type StoreState struct {
	Week        int       `json:"week"`
	Phase       GamePhase `json:"phase"`
	Cash        float64   `json:"cash"`
	InitialCash float64   `json:"initial_cash"`

	Exposure    float64 `json:"exposure"`    // 0..100
	Reputation  float64 `json:"reputation"`  // 0..100
	Cleanliness float64 `json:"cleanliness"` // 0..100

	Brand     string  `json:"brand"`
	Location  string  `json:"location"`
	Address   string  `json:"address"`
	DecorTier int     `json:"decor_tier"` // 0..3
	FloorArea float64 `json:"floor_area"` // m^2
	Rent      float64 `json:"rent"`       // per week

	WeeksOpen int    `json:"weeks_open"`
	IdleWeeks int    `json:"idle_weeks"` // consecutive weeks without a player action
	Season    Season `json:"season"`

	Rings       [4]Ring             `json:"rings"`
	Products    []Product           `json:"products"`
	Staff       []Staff             `json:"staff"`
	Platforms   []Platform          `json:"platforms"`
	Marketing   []MarketingActivity `json:"marketing"`
	Competitors []Competitor        `json:"competitors"`

	Growth           GrowthMetrics `json:"growth"`
	CumulativeProfit float64       `json:"cumulative_profit"`
	Last             WeeklySummary `json:"last"`

	// LastSettlement is the settlement consumed by the most recent week
	// advance, kept for diagnostics. Nil before the first settled week.
	LastSettlement *SupplyDemandResult `json:"last_settlement,omitempty"`
}

// Clone returns a deeply independent copy. Every slice, map and nested
// pointer is duplicated; mutating the clone never touches the receiver.
func (s *StoreState) Clone() *StoreState {
	c := *s
	c.Products = append([]Product(nil), s.Products...)
	c.Staff = append([]Staff(nil), s.Staff...)
	c.Platforms = append([]Platform(nil), s.Platforms...)
	c.Marketing = append([]MarketingActivity(nil), s.Marketing...)
	c.Competitors = append([]Competitor(nil), s.Competitors...)
	if s.Last.PlatformExposure != nil {
		c.Last.PlatformExposure = make(map[string]float64, len(s.Last.PlatformExposure))
		for k, v := range s.Last.PlatformExposure {
			c.Last.PlatformExposure[k] = v
		}
	}
	if s.LastSettlement != nil {
		c.LastSettlement = s.LastSettlement.clone()
	}
	return &c
}

// Product returns a pointer into s.Products, or nil.
func (s *StoreState) Product(id string) *Product {
	for i := range s.Products {
		if s.Products[i].ID == id {
			return &s.Products[i]
		}
	}
	return nil
}

func (s *StoreState) StaffMember(id string) *Staff {
	for i := range s.Staff {
		if s.Staff[i].ID == id {
			return &s.Staff[i]
		}
	}
	return nil
}

func (s *StoreState) Platform(id string) *Platform {
	for i := range s.Platforms {
		if s.Platforms[i].ID == id {
			return &s.Platforms[i]
		}
	}
	return nil
}

// ActiveProducts returns indexes of products currently on the menu,
// in roster order.
func (s *StoreState) ActiveProducts() []int {
	var out []int
	for i := range s.Products {
		if s.Products[i].Active {
			out = append(out, i)
		}
	}
	return out
}

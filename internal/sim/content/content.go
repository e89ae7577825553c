// Package content holds the static game-content tables: brands, locations,
// products, staff archetypes, marketing campaigns and delivery platforms.
// The engine consumes them read-only; balance values live here, mechanisms
// live in econ.
package content

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"storesim.ai/internal/sim/econ"
)

type Brand struct {
	ID       string   `yaml:"id"`
	Name     string   `yaml:"name"`
	Products []string `yaml:"products"`
}

type Location struct {
	ID              string  `yaml:"id"`
	Name            string  `yaml:"name"`
	Rent            float64 `yaml:"rent"`
	FloorArea       float64 `yaml:"floor_area"`
	RingPopulations [4]int  `yaml:"ring_populations"`
	Competitors     []econ.Competitor `yaml:"competitors"`
}

type ProductDef struct {
	ID         string  `yaml:"id"`
	Name       string  `yaml:"name"`
	RefPrice   float64 `yaml:"ref_price"`
	UnitCost   float64 `yaml:"unit_cost"`
	Throughput float64 `yaml:"throughput"`
}

type StaffArchetype struct {
	ID           string  `yaml:"id"`
	Role         string  `yaml:"role"`
	Efficiency   float64 `yaml:"efficiency"`
	HoursPerWeek float64 `yaml:"hours_per_week"`
	Wage         float64 `yaml:"wage"`
	Onboarding   int     `yaml:"onboarding"`
}

type Campaign struct {
	ID            string  `yaml:"id"`
	Name          string  `yaml:"name"`
	Weeks         int     `yaml:"weeks"`
	CostPerWeek   float64 `yaml:"cost_per_week"`
	ExposureBoost float64 `yaml:"exposure_boost"`
	DemandLift    float64 `yaml:"demand_lift"`
}

type PlatformDef struct {
	ID            string  `yaml:"id"`
	Name          string  `yaml:"name"`
	JoinFee       float64 `yaml:"join_fee"`
	WeeklyFee     float64 `yaml:"weekly_fee"`
	Commission    float64 `yaml:"commission"`
	PackagingCost float64 `yaml:"packaging_cost"`
	BaseRating    float64 `yaml:"base_rating"`
}

type Catalog struct {
	Brands    []Brand          `yaml:"brands"`
	Locations []Location       `yaml:"locations"`
	Products  []ProductDef     `yaml:"products"`
	Staff     []StaffArchetype `yaml:"staff"`
	Campaigns []Campaign       `yaml:"campaigns"`
	Platforms []PlatformDef    `yaml:"platforms"`
}

func (c *Catalog) Brand(id string) *Brand {
	for i := range c.Brands {
		if c.Brands[i].ID == id {
			return &c.Brands[i]
		}
	}
	return nil
}

func (c *Catalog) Location(id string) *Location {
	for i := range c.Locations {
		if c.Locations[i].ID == id {
			return &c.Locations[i]
		}
	}
	return nil
}

func (c *Catalog) Product(id string) *ProductDef {
	for i := range c.Products {
		if c.Products[i].ID == id {
			return &c.Products[i]
		}
	}
	return nil
}

func (c *Catalog) StaffArchetype(id string) *StaffArchetype {
	for i := range c.Staff {
		if c.Staff[i].ID == id {
			return &c.Staff[i]
		}
	}
	return nil
}

func (c *Catalog) Campaign(id string) *Campaign {
	for i := range c.Campaigns {
		if c.Campaigns[i].ID == id {
			return &c.Campaigns[i]
		}
	}
	return nil
}

func (c *Catalog) Platform(id string) *PlatformDef {
	for i := range c.Platforms {
		if c.Platforms[i].ID == id {
			return &c.Platforms[i]
		}
	}
	return nil
}

// Load reads a catalog override from a YAML file.
func Load(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Catalog
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("content catalog: %w", err)
	}
	return &c, nil
}

// Default returns the built-in catalog. Values here are balance content,
// not engine mechanism; the automation harness exists to audit them.
func Default() *Catalog {
	return &Catalog{
		Brands: []Brand{
			{ID: "noodle_nest", Name: "Noodle Nest", Products: []string{"beef_noodles", "wonton_soup", "iced_tea"}},
			{ID: "crispy_corner", Name: "Crispy Corner", Products: []string{"fried_chicken", "fries", "iced_tea"}},
		},
		Locations: []Location{
			{
				ID: "old_town", Name: "Old Town Corner", Rent: 900, FloorArea: 48,
				RingPopulations: [4]int{900, 2600, 5200, 16000},
				Competitors: []econ.Competitor{
					{ID: "rival_diner", Ring: 1, Strength: 0.5},
				},
			},
			{
				ID: "mall_kiosk", Name: "Riverside Mall Kiosk", Rent: 1600, FloorArea: 24,
				RingPopulations: [4]int{2400, 4200, 3800, 9000},
				Competitors: []econ.Competitor{
					{ID: "food_court_a", Ring: 0, Strength: 0.7},
					{ID: "food_court_b", Ring: 0, Strength: 0.4},
				},
			},
			{
				ID: "suburb_strip", Name: "Suburb Strip", Rent: 600, FloorArea: 64,
				RingPopulations: [4]int{400, 1500, 3000, 22000},
			},
		},
		Products: []ProductDef{
			{ID: "beef_noodles", Name: "Beef Noodles", RefPrice: 28, UnitCost: 11, Throughput: 7},
			{ID: "wonton_soup", Name: "Wonton Soup", RefPrice: 22, UnitCost: 8, Throughput: 8},
			{ID: "fried_chicken", Name: "Fried Chicken", RefPrice: 26, UnitCost: 10, Throughput: 9},
			{ID: "fries", Name: "Fries", RefPrice: 12, UnitCost: 3.5, Throughput: 14},
			{ID: "iced_tea", Name: "Iced Tea", RefPrice: 8, UnitCost: 2, Throughput: 20},
		},
		Staff: []StaffArchetype{
			{ID: "line_cook", Role: "cook", Efficiency: 1.0, HoursPerWeek: 44, Wage: 620, Onboarding: 1},
			{ID: "senior_cook", Role: "cook", Efficiency: 1.3, HoursPerWeek: 44, Wage: 980, Onboarding: 1},
			{ID: "server", Role: "server", Efficiency: 1.0, HoursPerWeek: 40, Wage: 520, Onboarding: 0},
			{ID: "runner", Role: "runner", Efficiency: 0.9, HoursPerWeek: 36, Wage: 430, Onboarding: 0},
		},
		Campaigns: []Campaign{
			{ID: "flyer_blitz", Name: "Flyer Blitz", Weeks: 2, CostPerWeek: 300, ExposureBoost: 2.0, DemandLift: 0.06},
			{ID: "local_influencer", Name: "Local Influencer", Weeks: 3, CostPerWeek: 900, ExposureBoost: 3.0, DemandLift: 0.14},
			{ID: "grand_tasting", Name: "Grand Tasting", Weeks: 1, CostPerWeek: 1500, ExposureBoost: 4.5, DemandLift: 0.22},
		},
		Platforms: []PlatformDef{
			{ID: "porchdash", Name: "PorchDash", JoinFee: 500, WeeklyFee: 120, Commission: 0.22, PackagingCost: 1.2, BaseRating: 4.2},
			{ID: "fleetbite", Name: "FleetBite", JoinFee: 300, WeeklyFee: 80, Commission: 0.18, PackagingCost: 1.0, BaseRating: 3.8},
			{ID: "hungryhare", Name: "HungryHare", JoinFee: 800, WeeklyFee: 150, Commission: 0.26, PackagingCost: 1.5, BaseRating: 4.5},
		},
	}
}

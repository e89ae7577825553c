package actions

import (
	"fmt"
	"math/rand"

	"storesim.ai/internal/sim/content"
	"storesim.ai/internal/sim/econ"
)

// Dispatcher applies actions against store states. It holds only read-only
// content catalogs; all mutable state travels through Apply.
type Dispatcher struct {
	Catalog *content.Catalog
}

func NewDispatcher(cat *content.Catalog) *Dispatcher {
	if cat == nil {
		cat = content.Default()
	}
	return &Dispatcher{Catalog: cat}
}

// Apply mutates s in place according to a. Rejected actions leave s
// untouched and return Changed:false with a typed error. The rng is used
// only by ADVANCE_WEEK; it must be the caller's seeded generator, never a
// process-wide source.
func (d *Dispatcher) Apply(s *econ.StoreState, a Action, rng *rand.Rand) Result {
	var res Result
	switch act := a.(type) {
	case SelectBrand:
		res = d.selectBrand(s, act)
	case SelectLocation:
		res = d.selectLocation(s, act)
	case SetAddress:
		res = d.setAddress(s, act)
	case SetDecoration:
		res = d.setDecoration(s, act)
	case OpenStore:
		res = d.openStore(s)
	case ToggleProduct:
		res = d.toggleProduct(s, act)
	case AddStaff:
		res = d.addStaff(s, act)
	case FireStaff:
		res = d.fireStaff(s, act)
	case AssignStaff:
		res = d.assignStaff(s, act)
	case SetPrice:
		res = d.setPrice(s, act)
	case SetInventory:
		res = d.setInventory(s, act)
	case SetRestock:
		res = d.setRestock(s, act)
	case StartMarketing:
		res = d.startMarketing(s, act)
	case StopMarketing:
		res = d.stopMarketing(s, act)
	case JoinPlatform:
		res = d.joinPlatform(s, act)
	case LeavePlatform:
		res = d.leavePlatform(s, act)
	case TunePlatform:
		res = d.tunePlatform(s, act)
	case AdvanceWeek:
		return d.advanceWeek(s, rng)
	default:
		return Result{Err: fmt.Errorf("%w: unknown action kind %T", ErrBadValue, a)}
	}
	if res.Changed {
		// Any applied player action counts against inactivity decay.
		s.IdleWeeks = 0
	}
	return res
}

func (d *Dispatcher) selectBrand(s *econ.StoreState, a SelectBrand) Result {
	if s.Phase != econ.PhaseSetup {
		return Result{Err: ErrWrongPhase}
	}
	b := d.Catalog.Brand(a.BrandID)
	if b == nil {
		return Result{Err: fmt.Errorf("%w: brand %q", ErrInvalidTarget, a.BrandID)}
	}
	s.Brand = b.ID
	s.Products = s.Products[:0]
	for _, pid := range b.Products {
		def := d.Catalog.Product(pid)
		if def == nil {
			continue
		}
		s.Products = append(s.Products, econ.Product{
			ID:         def.ID,
			Name:       def.Name,
			Active:     true,
			Price:      def.RefPrice,
			RefPrice:   def.RefPrice,
			UnitCost:   def.UnitCost,
			Throughput: def.Throughput,
			Restock:    econ.RestockToDemand,
		})
	}
	return Result{Changed: true}
}

func (d *Dispatcher) selectLocation(s *econ.StoreState, a SelectLocation) Result {
	if s.Phase != econ.PhaseSetup {
		return Result{Err: ErrWrongPhase}
	}
	loc := d.Catalog.Location(a.LocationID)
	if loc == nil {
		return Result{Err: fmt.Errorf("%w: location %q", ErrInvalidTarget, a.LocationID)}
	}
	s.Location = loc.ID
	s.Rent = loc.Rent
	s.FloorArea = loc.FloorArea
	for i := range s.Rings {
		s.Rings[i].Population = loc.RingPopulations[i]
	}
	s.Competitors = append([]econ.Competitor(nil), loc.Competitors...)
	return Result{Changed: true}
}

func (d *Dispatcher) setAddress(s *econ.StoreState, a SetAddress) Result {
	if s.Phase != econ.PhaseSetup {
		return Result{Err: ErrWrongPhase}
	}
	if a.Address == "" {
		return Result{Err: fmt.Errorf("%w: empty address", ErrBadValue)}
	}
	s.Address = a.Address
	return Result{Changed: true}
}

func (d *Dispatcher) setDecoration(s *econ.StoreState, a SetDecoration) Result {
	if a.Tier < 0 || a.Tier > 3 {
		return Result{Err: fmt.Errorf("%w: decoration tier %d", ErrBadValue, a.Tier)}
	}
	if a.Tier > s.DecorTier {
		cost := float64(a.Tier-s.DecorTier) * 2000
		if s.Cash < cost {
			return Result{Err: ErrInsufficientFunds}
		}
		s.Cash -= cost
	}
	s.DecorTier = a.Tier
	return Result{Changed: true}
}

func (d *Dispatcher) openStore(s *econ.StoreState) Result {
	if s.Phase != econ.PhaseSetup {
		return Result{Err: ErrWrongPhase}
	}
	if s.Brand == "" || s.Location == "" || s.Address == "" {
		return Result{Err: fmt.Errorf("%w: setup incomplete", ErrBadValue)}
	}
	if len(s.ActiveProducts()) == 0 || len(s.Staff) == 0 {
		return Result{Err: fmt.Errorf("%w: need a menu and staff to open", ErrBadValue)}
	}
	s.Phase = econ.PhaseOperating
	s.Season = econ.SeasonForWeek(s.Week)
	return Result{Changed: true}
}

func (d *Dispatcher) toggleProduct(s *econ.StoreState, a ToggleProduct) Result {
	p := s.Product(a.ProductID)
	if p == nil {
		return Result{Err: fmt.Errorf("%w: product %q", ErrInvalidTarget, a.ProductID)}
	}
	if p.Active == a.Active {
		return Result{Err: fmt.Errorf("%w: product %q", ErrDuplicate, a.ProductID)}
	}
	p.Active = a.Active
	return Result{Changed: true}
}

func (d *Dispatcher) addStaff(s *econ.StoreState, a AddStaff) Result {
	arch := d.Catalog.StaffArchetype(a.ArchetypeID)
	if arch == nil {
		return Result{Err: fmt.Errorf("%w: staff archetype %q", ErrInvalidTarget, a.ArchetypeID)}
	}
	task := econ.TaskKitchen
	switch arch.Role {
	case "server":
		task = econ.TaskService
	case "runner":
		task = econ.TaskDelivery
	}
	s.Staff = append(s.Staff, econ.Staff{
		ID:           fmt.Sprintf("%s_%d", arch.ID, len(s.Staff)+1),
		Name:         arch.ID,
		Role:         arch.Role,
		Efficiency:   arch.Efficiency,
		HoursPerWeek: arch.HoursPerWeek,
		Wage:         arch.Wage,
		Task:         task,
		Onboarding:   arch.Onboarding,
	})
	return Result{Changed: true}
}

func (d *Dispatcher) fireStaff(s *econ.StoreState, a FireStaff) Result {
	for i := range s.Staff {
		if s.Staff[i].ID == a.StaffID {
			s.Staff = append(s.Staff[:i], s.Staff[i+1:]...)
			return Result{Changed: true}
		}
	}
	return Result{Err: fmt.Errorf("%w: staff %q", ErrInvalidTarget, a.StaffID)}
}

func (d *Dispatcher) assignStaff(s *econ.StoreState, a AssignStaff) Result {
	st := s.StaffMember(a.StaffID)
	if st == nil {
		return Result{Err: fmt.Errorf("%w: staff %q", ErrInvalidTarget, a.StaffID)}
	}
	task := econ.StaffTask(a.Task)
	switch task {
	case econ.TaskKitchen, econ.TaskService, econ.TaskDelivery, econ.TaskIdle:
	default:
		return Result{Err: fmt.Errorf("%w: task %q", ErrBadValue, a.Task)}
	}
	if st.Task == task {
		return Result{Err: fmt.Errorf("%w: already on %s", ErrDuplicate, task)}
	}
	st.Task = task
	return Result{Changed: true}
}

func (d *Dispatcher) setPrice(s *econ.StoreState, a SetPrice) Result {
	p := s.Product(a.ProductID)
	if p == nil {
		return Result{Err: fmt.Errorf("%w: product %q", ErrInvalidTarget, a.ProductID)}
	}
	if a.Price <= 0 {
		return Result{Err: fmt.Errorf("%w: price %.2f", ErrBadValue, a.Price)}
	}
	p.Price = a.Price
	return Result{Changed: true}
}

func (d *Dispatcher) setInventory(s *econ.StoreState, a SetInventory) Result {
	p := s.Product(a.ProductID)
	if p == nil {
		return Result{Err: fmt.Errorf("%w: product %q", ErrInvalidTarget, a.ProductID)}
	}
	if a.Quantity < 0 {
		return Result{Err: fmt.Errorf("%w: quantity %d", ErrBadValue, a.Quantity)}
	}
	if a.Quantity > p.Inventory {
		cost := float64(a.Quantity-p.Inventory) * p.UnitCost
		if s.Cash < cost {
			return Result{Err: ErrInsufficientFunds}
		}
		s.Cash -= cost
	}
	p.Inventory = a.Quantity
	return Result{Changed: true}
}

func (d *Dispatcher) setRestock(s *econ.StoreState, a SetRestock) Result {
	p := s.Product(a.ProductID)
	if p == nil {
		return Result{Err: fmt.Errorf("%w: product %q", ErrInvalidTarget, a.ProductID)}
	}
	strategy := econ.RestockStrategy(a.Strategy)
	switch strategy {
	case econ.RestockNone, econ.RestockFixed, econ.RestockToDemand:
	default:
		return Result{Err: fmt.Errorf("%w: restock strategy %q", ErrBadValue, a.Strategy)}
	}
	if strategy == econ.RestockFixed && a.Quantity <= 0 {
		return Result{Err: fmt.Errorf("%w: fixed restock needs a quantity", ErrBadValue)}
	}
	p.Restock = strategy
	p.RestockQty = a.Quantity
	return Result{Changed: true}
}

func (d *Dispatcher) startMarketing(s *econ.StoreState, a StartMarketing) Result {
	c := d.Catalog.Campaign(a.CampaignID)
	if c == nil {
		return Result{Err: fmt.Errorf("%w: campaign %q", ErrInvalidTarget, a.CampaignID)}
	}
	for i := range s.Marketing {
		if s.Marketing[i].ID == c.ID && s.Marketing[i].WeeksLeft > 0 {
			return Result{Err: fmt.Errorf("%w: campaign %q", ErrDuplicate, c.ID)}
		}
	}
	if s.Cash < c.CostPerWeek {
		return Result{Err: ErrInsufficientFunds}
	}
	s.Marketing = append(s.Marketing, econ.MarketingActivity{
		ID:            c.ID,
		Name:          c.Name,
		WeeksLeft:     c.Weeks,
		CostPerWeek:   c.CostPerWeek,
		ExposureBoost: c.ExposureBoost,
		DemandLift:    c.DemandLift,
	})
	return Result{Changed: true}
}

func (d *Dispatcher) stopMarketing(s *econ.StoreState, a StopMarketing) Result {
	for i := range s.Marketing {
		if s.Marketing[i].ID == a.CampaignID && s.Marketing[i].WeeksLeft > 0 {
			s.Marketing = append(s.Marketing[:i], s.Marketing[i+1:]...)
			return Result{Changed: true}
		}
	}
	return Result{Err: fmt.Errorf("%w: campaign %q", ErrInvalidTarget, a.CampaignID)}
}

func (d *Dispatcher) joinPlatform(s *econ.StoreState, a JoinPlatform) Result {
	def := d.Catalog.Platform(a.PlatformID)
	if def == nil {
		return Result{Err: fmt.Errorf("%w: platform %q", ErrInvalidTarget, a.PlatformID)}
	}
	if s.Platform(def.ID) != nil {
		return Result{Err: fmt.Errorf("%w: platform %q", ErrDuplicate, def.ID)}
	}
	if s.Cash < def.JoinFee {
		return Result{Err: ErrInsufficientFunds}
	}
	s.Cash -= def.JoinFee
	p := econ.Platform{
		ID:            def.ID,
		Name:          def.Name,
		Rating:        def.BaseRating,
		PromoTier:     0,
		DiscountTier:  1,
		SubsidyRate:   0.02,
		PriceTier:     1.0,
		Commission:    def.Commission,
		PackagingCost: def.PackagingCost,
		WeeklyFee:     def.WeeklyFee,
	}
	p.WeightScore = econ.PlatformWeightScore(s, &p)
	s.Platforms = append(s.Platforms, p)
	return Result{Changed: true}
}

func (d *Dispatcher) leavePlatform(s *econ.StoreState, a LeavePlatform) Result {
	for i := range s.Platforms {
		if s.Platforms[i].ID == a.PlatformID {
			s.Platforms = append(s.Platforms[:i], s.Platforms[i+1:]...)
			return Result{Changed: true}
		}
	}
	return Result{Err: fmt.Errorf("%w: platform %q", ErrInvalidTarget, a.PlatformID)}
}

func (d *Dispatcher) tunePlatform(s *econ.StoreState, a TunePlatform) Result {
	p := s.Platform(a.PlatformID)
	if p == nil {
		return Result{Err: fmt.Errorf("%w: platform %q", ErrInvalidTarget, a.PlatformID)}
	}
	if a.PromoTier < 0 || a.PromoTier > 3 || a.DiscountTier < 0 || a.DiscountTier > 3 {
		return Result{Err: fmt.Errorf("%w: tier out of range", ErrBadValue)}
	}
	if a.PriceTier < 0.9 || a.PriceTier > 1.3 {
		return Result{Err: fmt.Errorf("%w: price tier %.2f", ErrBadValue, a.PriceTier)}
	}
	p.PromoTier = a.PromoTier
	p.DiscountTier = a.DiscountTier
	p.SubsidyRate = float64(a.DiscountTier) * 0.02
	p.PriceTier = a.PriceTier
	p.WeightScore = econ.PlatformWeightScore(s, p)
	return Result{Changed: true}
}

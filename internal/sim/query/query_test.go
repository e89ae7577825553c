package query

import (
	"math/rand"
	"reflect"
	"testing"

	"storesim.ai/internal/sim/actions"
	"storesim.ai/internal/sim/econ"
)

func operatingStore(t *testing.T) *econ.StoreState {
	t.Helper()
	d := actions.NewDispatcher(nil)
	s := &econ.StoreState{
		Phase:       econ.PhaseSetup,
		Cash:        20000,
		InitialCash: 20000,
		Exposure:    10,
		Reputation:  50,
		Cleanliness: 100,
	}
	for _, a := range []actions.Action{
		actions.SelectBrand{BrandID: "crispy_corner"},
		actions.SelectLocation{LocationID: "mall_kiosk"},
		actions.SetAddress{Address: "Riverside Mall U-23"},
		actions.AddStaff{ArchetypeID: "line_cook"},
		actions.OpenStore{},
	} {
		if res := d.Apply(s, a, nil); res.Err != nil {
			t.Fatalf("setup %s: %v", a.Kind(), res.Err)
		}
	}
	for i := range s.Products {
		s.Products[i].Inventory = 150
	}
	return s
}

func TestGetStatsMirrorsState(t *testing.T) {
	s := operatingStore(t)
	d := actions.NewDispatcher(nil)
	if res := d.Apply(s, actions.AdvanceWeek{}, rand.New(rand.NewSource(9))); res.Err != nil {
		t.Fatalf("advance: %v", res.Err)
	}

	st := GetStats(s)
	if st.Week != s.Week || st.Phase != s.Phase || st.Cash != s.Cash {
		t.Fatalf("stats header mismatch: %+v", st)
	}
	if st.WeekProfit != s.Last.Profit || st.WeekFulfillment != s.Last.Fulfillment {
		t.Fatalf("stats weekly block mismatch: %+v", st)
	}
	if st.StaffCount != 1 || st.ActiveProducts != 3 {
		t.Fatalf("stats counts = staff %d, products %d", st.StaffCount, st.ActiveProducts)
	}
}

func TestSupplyDemandMatchesEngine(t *testing.T) {
	s := operatingStore(t)
	if !reflect.DeepEqual(SupplyDemand(s), econ.Settle(s)) {
		t.Fatal("query settlement diverges from the engine settlement")
	}
}

func TestCanOpenReportsMissingPieces(t *testing.T) {
	s := &econ.StoreState{Phase: econ.PhaseSetup}
	ok, missing := CanOpen(s)
	if ok {
		t.Fatal("empty setup reported openable")
	}
	want := []string{"brand", "location", "address", "menu", "staff"}
	if !reflect.DeepEqual(missing, want) {
		t.Fatalf("missing = %v, want %v", missing, want)
	}

	if ok, missing := CanOpen(operatingStore(t)); ok || len(missing) != 1 || missing[0] != "already open" {
		t.Fatalf("open store: CanOpen = %v, %v", ok, missing)
	}
}

func TestGetGameResult(t *testing.T) {
	s := operatingStore(t)
	if r := GetGameResult(s); r.Ended {
		t.Fatalf("running game reported ended: %+v", r)
	}
	s.Phase = econ.PhaseWon
	if r := GetGameResult(s); !r.Ended || r.Outcome != "won" {
		t.Fatalf("won game result = %+v", r)
	}
	s.Phase = econ.PhaseBankrupt
	if r := GetGameResult(s); !r.Ended || r.Outcome != "bankrupt" {
		t.Fatalf("bankrupt game result = %+v", r)
	}
}

func TestAvailableActionsByPhase(t *testing.T) {
	setup := &econ.StoreState{Phase: econ.PhaseSetup}
	for _, kind := range AvailableActions(setup) {
		if kind == "ADVANCE_WEEK" || kind == "FIRE_STAFF" {
			t.Fatalf("%s offered during setup", kind)
		}
	}

	operating := operatingStore(t)
	var hasAdvance bool
	for _, kind := range AvailableActions(operating) {
		if kind == "SELECT_BRAND" {
			t.Fatal("SELECT_BRAND offered while operating")
		}
		if kind == "ADVANCE_WEEK" {
			hasAdvance = true
		}
	}
	if !hasAdvance {
		t.Fatal("ADVANCE_WEEK not offered while operating")
	}

	operating.Phase = econ.PhaseBankrupt
	if got := AvailableActions(operating); got != nil {
		t.Fatalf("terminal phase offers actions: %v", got)
	}
}

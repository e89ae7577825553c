package auto

import (
	"math"
	"math/rand"
	"reflect"
	"testing"

	"storesim.ai/internal/auto/policy"
	"storesim.ai/internal/sim/actions"
	"storesim.ai/internal/sim/econ"
)

func testEvaluator() *Evaluator {
	return &Evaluator{
		Dispatcher: actions.NewDispatcher(nil),
		Policy:     policy.Default(),
	}
}

// evalFixture is an operating store built through the dispatcher so that
// ADVANCE_WEEK succeeds.
func evalFixture(t *testing.T) *econ.StoreState {
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
		actions.SelectBrand{BrandID: "noodle_nest"},
		actions.SelectLocation{LocationID: "old_town"},
		actions.SetAddress{Address: "14 Lantern Row"},
		actions.AddStaff{ArchetypeID: "line_cook"},
		actions.AddStaff{ArchetypeID: "server"},
		actions.OpenStore{},
	} {
		if res := d.Apply(s, a, nil); res.Err != nil {
			t.Fatalf("setup %s: %v", a.Kind(), res.Err)
		}
	}
	// Mature the store so weekly revenue is worth protecting: full
	// awareness, a visible storefront, crew past onboarding.
	s.WeeksOpen = 10
	s.Week = 10
	s.Exposure = 60
	s.Reputation = 80
	for i := range s.Staff {
		s.Staff[i].Onboarding = 0
	}
	for i := range s.Products {
		s.Products[i].Inventory = 400
	}
	return s
}

func TestEvaluateLeavesCallerStateAlone(t *testing.T) {
	e := testEvaluator()
	s := evalFixture(t)
	before := s.Clone()

	ev := e.Evaluate(s, CandidatePlan{ID: PlanBaselineHold}, rand.New(rand.NewSource(1)))
	if !reflect.DeepEqual(s, before) {
		t.Fatal("Evaluate mutated the caller's state")
	}
	if ev.State == s {
		t.Fatal("evaluation returned the caller's state instead of a copy")
	}
	if ev.State.Week != s.Week+1 {
		t.Fatalf("evaluated state at week %d, want %d", ev.State.Week, s.Week+1)
	}
}

func TestEvaluateRecordsFailedActions(t *testing.T) {
	e := testEvaluator()
	s := evalFixture(t)

	good := CandidatePlan{ID: PlanBaselineHold}
	bad := CandidatePlan{ID: "bad", Actions: []actions.Action{
		actions.SetPrice{ProductID: "no_such_product", Price: 10},
	}}

	evGood := e.Evaluate(s, good, rand.New(rand.NewSource(42)))
	evBad := e.Evaluate(s, bad, rand.New(rand.NewSource(42)))

	if len(evGood.FailedActions) != 0 {
		t.Fatalf("baseline recorded failures: %+v", evGood.FailedActions)
	}
	if len(evBad.FailedActions) != 1 {
		t.Fatalf("failed actions = %d, want 1", len(evBad.FailedActions))
	}
	if evBad.FailedActions[0].Kind != string(actions.KindSetPrice) {
		t.Fatalf("failed kind = %s", evBad.FailedActions[0].Kind)
	}

	// The rejected action changed nothing, so the two weeks play out
	// identically and the scores differ by exactly the failure penalty.
	want := evGood.Score - e.Policy.Scoring.FailedAction
	if math.Abs(evBad.Score-want) > 1e-6 {
		t.Fatalf("bad plan score = %v, want %v", evBad.Score, want)
	}
}

func TestEvaluateFailedAdvanceIsSentinel(t *testing.T) {
	e := testEvaluator()
	s := &econ.StoreState{Phase: econ.PhaseSetup, Cash: 20000}

	ev := e.Evaluate(s, CandidatePlan{ID: PlanBaselineHold}, rand.New(rand.NewSource(1)))
	if ev.Score != e.Policy.Scoring.Sentinel {
		t.Fatalf("score = %v, want sentinel %v", ev.Score, e.Policy.Scoring.Sentinel)
	}
	hits := findByCode(ev.Findings, CodeWeekAdvanceFailed)
	if len(hits) != 1 || hits[0].Severity != SeverityCritical {
		t.Fatalf("failed advance findings: %+v", ev.Findings)
	}
}

func TestEvaluateScoresSelfSabotageBelowBaseline(t *testing.T) {
	e := testEvaluator()
	s := evalFixture(t)

	var fires []actions.Action
	for _, st := range s.Staff {
		fires = append(fires, actions.FireStaff{StaffID: st.ID})
	}
	sabotage := CandidatePlan{ID: "fire_everyone", Actions: fires}

	evBase := e.Evaluate(s, CandidatePlan{ID: PlanBaselineHold}, rand.New(rand.NewSource(7)))
	evSab := e.Evaluate(s, sabotage, rand.New(rand.NewSource(7)))

	if evSab.Score >= evBase.Score {
		t.Fatalf("firing the whole crew scored %v, baseline %v", evSab.Score, evBase.Score)
	}
	if len(evSab.State.Staff) != 0 {
		t.Fatalf("sabotage plan left %d staff", len(evSab.State.Staff))
	}
}

func TestEvaluateTerminalOutcomesDominate(t *testing.T) {
	e := testEvaluator()

	won := evalFixture(t)
	won.Growth.Progress = 99.95
	evWon := e.Evaluate(won, CandidatePlan{ID: PlanBaselineHold}, rand.New(rand.NewSource(3)))
	if evWon.State.Phase != econ.PhaseWon {
		t.Fatalf("phase = %s, want won", evWon.State.Phase)
	}
	if evWon.Score < e.Policy.Scoring.TerminalOutcome/2 {
		t.Fatalf("winning week scored only %v", evWon.Score)
	}

	broke := evalFixture(t)
	broke.Cash = -100000
	evBroke := e.Evaluate(broke, CandidatePlan{ID: PlanBaselineHold}, rand.New(rand.NewSource(3)))
	if evBroke.State.Phase != econ.PhaseBankrupt {
		t.Fatalf("phase = %s, want bankrupt", evBroke.State.Phase)
	}
	if evBroke.Score > -e.Policy.Scoring.TerminalOutcome/2 {
		t.Fatalf("bankrupting week scored %v", evBroke.Score)
	}
}

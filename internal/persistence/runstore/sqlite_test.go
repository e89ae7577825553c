package runstore

import (
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"storesim.ai/internal/auto"
	"storesim.ai/internal/auto/policy"
)

func sampleReport() *auto.AutomationReport {
	runs := []auto.RunSummary{
		{
			Scenario: "old_town_noodles", Seed: 1, Outcome: "won", FinalWeek: 28,
			CumulativeProfit: 35000, ROI: 1.75, AvgFulfillment: 0.92,
			Decisions: []auto.WeeklyDecision{{Week: 1, PlanID: "baseline_hold", Score: 100}},
		},
		{
			Scenario: "suburb_shoestring", Seed: 1, Outcome: "bankrupt", FinalWeek: 7,
			CumulativeProfit: -9000, ROI: -1.0, AvgFulfillment: 0.5,
			Findings: []auto.Finding{{Severity: auto.SeverityCritical, Category: auto.CategoryEngineBug, Code: auto.CodeNonFiniteMetric, Week: 7}},
		},
	}
	return &auto.AutomationReport{
		Config:      auto.BatchConfig{Mode: "quick", Weeks: 12, Seeds: 1, BaseSeed: 1},
		GeneratedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Policy:      policy.Default(),
		Aggregate:   auto.Aggregate(runs, 20),
		Alerts: []auto.BalanceAlert{
			{Severity: auto.SeverityCritical, Code: "BANKRUPT_RATE_HIGH", Message: "half the runs died"},
		},
		Runs: runs,
	}
}

func TestSaveAndHistory(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "balance.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()

	id1, err := store.SaveReport(sampleReport())
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	id2, err := store.SaveReport(sampleReport())
	if err != nil {
		t.Fatalf("save again: %v", err)
	}
	if id2 <= id1 {
		t.Fatalf("batch ids not increasing: %d then %d", id1, id2)
	}

	hist, err := store.History(10)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(hist) != 2 {
		t.Fatalf("history rows = %d, want 2", len(hist))
	}
	// Newest first.
	if hist[0].ID != id2 || hist[1].ID != id1 {
		t.Fatalf("history order: %d, %d", hist[0].ID, hist[1].ID)
	}
	if hist[0].Mode != "quick" || hist[0].CriticalAlerts != 1 {
		t.Fatalf("history row = %+v", hist[0])
	}
	if hist[0].WinRate != 0.5 || hist[0].BankruptRate != 0.5 {
		t.Fatalf("history rates = %v/%v", hist[0].WinRate, hist[0].BankruptRate)
	}
}

func TestScenarioRunsRoundTrip(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "balance.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()

	rep := sampleReport()
	if _, err := store.SaveReport(rep); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := store.ScenarioRuns("old_town_noodles")
	if err != nil {
		t.Fatalf("scenario runs: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("rows = %d, want 1", len(got))
	}
	if !reflect.DeepEqual(got[0], rep.Runs[0]) {
		t.Fatalf("round trip drifted:\n got %+v\nwant %+v", got[0], rep.Runs[0])
	}

	if got, err := store.ScenarioRuns("never_ran"); err != nil || len(got) != 0 {
		t.Fatalf("unknown scenario: %v rows, err %v", len(got), err)
	}
}

func TestHistoryLimit(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "balance.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer store.Close()

	for i := 0; i < 5; i++ {
		if _, err := store.SaveReport(sampleReport()); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
	}
	hist, err := store.History(3)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(hist) != 3 {
		t.Fatalf("limited history rows = %d, want 3", len(hist))
	}
}

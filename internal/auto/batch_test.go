package auto

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap"

	"storesim.ai/internal/auto/policy"
	"storesim.ai/internal/persistence/trace"
)

func TestRunBatchQuickMode(t *testing.T) {
	cfg := BatchConfig{Mode: "quick", Weeks: 52, Seeds: 10, BaseSeed: 1, Workers: 2}
	rep, err := RunBatch(cfg, policy.Default(), nil, zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("batch: %v", err)
	}

	// Quick mode clamps the workload.
	if rep.Config.Weeks != 12 || rep.Config.Seeds != 3 {
		t.Fatalf("quick clamp: weeks %d, seeds %d", rep.Config.Weeks, rep.Config.Seeds)
	}
	if want := len(Blueprints()) * 3; rep.Aggregate.Runs != want {
		t.Fatalf("runs = %d, want %d", rep.Aggregate.Runs, want)
	}

	// Results arrive ordered regardless of worker interleaving.
	for i := 1; i < len(rep.Runs); i++ {
		a, b := rep.Runs[i-1], rep.Runs[i]
		if a.Scenario > b.Scenario || (a.Scenario == b.Scenario && a.Seed >= b.Seed) {
			t.Fatalf("runs out of order at %d: %s/%d before %s/%d", i, a.Scenario, a.Seed, b.Scenario, b.Seed)
		}
	}
}

func TestRunBatchDeterministicAcrossWorkerCounts(t *testing.T) {
	pol := policy.Default()
	one, err := RunBatch(BatchConfig{Mode: "quick", Weeks: 8, Seeds: 2, BaseSeed: 42, Workers: 1}, pol, nil, zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("batch x1: %v", err)
	}
	four, err := RunBatch(BatchConfig{Mode: "quick", Weeks: 8, Seeds: 2, BaseSeed: 42, Workers: 4}, pol, nil, zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("batch x4: %v", err)
	}
	if !reflect.DeepEqual(one.Runs, four.Runs) {
		t.Fatal("worker count changed batch results")
	}
	if !reflect.DeepEqual(one.Aggregate, four.Aggregate) {
		t.Fatal("worker count changed the aggregate")
	}
}

func TestRunBatchWritesTraces(t *testing.T) {
	dir := t.TempDir()
	cfg := BatchConfig{Mode: "quick", Weeks: 4, Seeds: 1, BaseSeed: 7, Workers: 2, TraceDir: dir}
	rep, err := RunBatch(cfg, policy.Default(), nil, zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("batch: %v", err)
	}

	for _, run := range rep.Runs {
		path := filepath.Join(dir, run.Scenario+"_7.jsonl.zst")
		records, err := trace.ReadAll(path)
		if err != nil {
			t.Fatalf("read trace %s: %v", path, err)
		}
		if len(records) != len(run.Decisions) {
			t.Fatalf("%s: %d trace records for %d decisions", run.Scenario, len(records), len(run.Decisions))
		}
	}
}

func TestWriteReportArtifacts(t *testing.T) {
	dir := t.TempDir()
	rep := &AutomationReport{
		Config: BatchConfig{Mode: "quick", Weeks: 4, Seeds: 1, BaseSeed: 7},
		Policy: policy.Default(),
		Aggregate: Aggregate(sampleRuns(), 20),
		Alerts: []BalanceAlert{
			{Severity: SeverityCritical, Code: "BANKRUPT_RATE_HIGH", Message: "too many failures"},
		},
		Runs: sampleRuns(),
	}
	if err := WriteReport(dir, rep); err != nil {
		t.Fatalf("write report: %v", err)
	}

	for _, name := range []string{"report.json", "report.md", "report.html"} {
		raw, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		if len(raw) == 0 {
			t.Fatalf("%s is empty", name)
		}
	}

	md, _ := os.ReadFile(filepath.Join(dir, "report.md"))
	for _, want := range []string{"# Balance report", "BANKRUPT_RATE_HIGH", "win rate"} {
		if !strings.Contains(string(md), want) {
			t.Errorf("report.md missing %q", want)
		}
	}
	html, _ := os.ReadFile(filepath.Join(dir, "report.html"))
	if !strings.Contains(string(html), "<table>") {
		t.Error("report.html has no rendered tables")
	}
}

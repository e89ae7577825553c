package policy

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultShape(t *testing.T) {
	p := Default()

	// Terminal outcomes must dominate any accumulable weekly score, and
	// the sentinel must sit below even a bankrupt terminal.
	if p.Scoring.TerminalOutcome < 1e6 {
		t.Fatalf("terminal weight %v too small to dominate", p.Scoring.TerminalOutcome)
	}
	if p.Scoring.Sentinel >= -p.Scoring.TerminalOutcome {
		t.Fatalf("sentinel %v not below the bankrupt terminal %v", p.Scoring.Sentinel, -p.Scoring.TerminalOutcome)
	}
	if p.Scoring.FailedAction <= 0 || p.Scoring.CriticalFinding <= 0 {
		t.Fatal("failure penalties must be positive")
	}
	if p.Checker.FloatTolerance <= 0 {
		t.Fatal("float tolerance must be positive")
	}
	if p.Alerts.WinRateMin >= p.Alerts.WinRateMax {
		t.Fatalf("win-rate band inverted: [%v, %v]", p.Alerts.WinRateMin, p.Alerts.WinRateMax)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "policy.yaml")
	raw := `
scoring:
  profit: 5
checker:
  low_fulfillment: 0.5
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatal(err)
	}

	p, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if p.Scoring.Profit != 5 {
		t.Fatalf("profit = %v, want overridden 5", p.Scoring.Profit)
	}
	if p.Checker.LowFulfillment != 0.5 {
		t.Fatalf("low fulfillment = %v, want overridden 0.5", p.Checker.LowFulfillment)
	}
	def := Default()
	if p.Scoring.Fulfillment != def.Scoring.Fulfillment {
		t.Fatalf("fulfillment weight = %v, want default %v", p.Scoring.Fulfillment, def.Scoring.Fulfillment)
	}
	if p.Alerts != def.Alerts {
		t.Fatalf("alerts = %+v, want defaults", p.Alerts)
	}
}

func TestLoadMissingFileReturnsDefaultsAndError(t *testing.T) {
	p, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("missing file loaded without error")
	}
	if p != Default() {
		t.Fatal("missing file did not fall back to defaults")
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(path, []byte("scoring: [nope]"), 0o644)
	if _, err := Load(path); err == nil {
		t.Fatal("malformed policy loaded without error")
	}
}

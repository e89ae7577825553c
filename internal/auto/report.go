package auto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// markdown renders the report body; tables need the GFM extension.
var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// WriteReport writes report.json, report.md and report.html into dir.
func WriteReport(dir string, rep *AutomationReport) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	raw, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, "report.json"), append(raw, '\n'), 0o644); err != nil {
		return err
	}

	md := renderMarkdown(rep)
	if err := os.WriteFile(filepath.Join(dir, "report.md"), []byte(md), 0o644); err != nil {
		return err
	}

	var html bytes.Buffer
	html.WriteString("<!doctype html>\n<meta charset=\"utf-8\">\n<title>balance report</title>\n")
	if err := markdown.Convert([]byte(md), &html); err != nil {
		return fmt.Errorf("render report.html: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, "report.html"), html.Bytes(), 0o644)
}

func renderMarkdown(rep *AutomationReport) string {
	var b strings.Builder
	agg := rep.Aggregate

	fmt.Fprintf(&b, "# Balance report\n\n")
	fmt.Fprintf(&b, "Generated %s, mode `%s`, %d weeks cap, %d seeds from %d.\n\n",
		rep.GeneratedAt.Format("2006-01-02 15:04 UTC"), rep.Config.Mode,
		rep.Config.Weeks, rep.Config.Seeds, rep.Config.BaseSeed)

	fmt.Fprintf(&b, "## Aggregate\n\n")
	fmt.Fprintf(&b, "| metric | value |\n|---|---|\n")
	fmt.Fprintf(&b, "| runs | %d |\n", agg.Runs)
	fmt.Fprintf(&b, "| win rate | %.1f%% |\n", agg.WinRate*100)
	fmt.Fprintf(&b, "| bankrupt rate | %.1f%% |\n", agg.BankruptRate*100)
	fmt.Fprintf(&b, "| dual-top rate | %.1f%% |\n", agg.DualTopRate*100)
	fmt.Fprintf(&b, "| avg final week | %.1f |\n", agg.AvgFinalWeek)
	fmt.Fprintf(&b, "| avg cumulative profit | %.0f |\n", agg.AvgCumProfit)
	fmt.Fprintf(&b, "| avg ROI | %.2f |\n", agg.AvgROI)
	fmt.Fprintf(&b, "| avg fulfillment | %.1f%% |\n", agg.AvgFulfillment*100)

	var sevs []string
	for sev := range agg.FindingsBySeverity {
		sevs = append(sevs, string(sev))
	}
	sort.Strings(sevs)
	for _, sev := range sevs {
		fmt.Fprintf(&b, "| findings (%s) | %d |\n", sev, agg.FindingsBySeverity[Severity(sev)])
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "## Alerts\n\n")
	if len(rep.Alerts) == 0 {
		b.WriteString("No balance alerts.\n\n")
	}
	for _, a := range rep.Alerts {
		fmt.Fprintf(&b, "- **%s** `%s`: %s\n", a.Severity, a.Code, a.Message)
	}
	if len(rep.Alerts) > 0 {
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "## Runs\n\n")
	fmt.Fprintf(&b, "| scenario | seed | outcome | weeks | profit | ROI | fulfillment |\n")
	fmt.Fprintf(&b, "|---|---|---|---|---|---|---|\n")
	for _, r := range rep.Runs {
		fmt.Fprintf(&b, "| %s | %d | %s | %d | %.0f | %.2f | %.1f%% |\n",
			r.Scenario, r.Seed, r.Outcome, r.FinalWeek,
			r.CumulativeProfit, r.ROI, r.AvgFulfillment*100)
	}
	return b.String()
}

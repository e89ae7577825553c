package auto

// Severity grades a finding.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Category attributes a finding to its likely origin.
type Category string

const (
	CategoryEngineBug Category = "engine_bug"
	CategoryBalance   Category = "balance"
	CategoryOperation Category = "operation"
)

// Code is the stable identity of a finding class. The message is derived
// rendering; the code is the source of truth.
type Code string

const (
	CodeNonFiniteMetric          Code = "NON_FINITE_METRIC"
	CodeExposureOutOfRange       Code = "EXPOSURE_OUT_OF_RANGE"
	CodeReputationOutOfRange     Code = "REPUTATION_OUT_OF_RANGE"
	CodeGrowthOutOfRange         Code = "GROWTH_OUT_OF_RANGE"
	CodePlatformExposureMismatch Code = "PLATFORM_EXPOSURE_MISMATCH"
	CodeSalesSumMismatch         Code = "SALES_SUM_MISMATCH"
	CodeRevenueSumMismatch       Code = "REVENUE_SUM_MISMATCH"
	CodeSummaryStateMismatch     Code = "SUMMARY_STATE_MISMATCH"
	CodeSalesExceedDemand        Code = "SALES_EXCEED_DEMAND"
	CodeSalesExceedSupply        Code = "SALES_EXCEED_SUPPLY"
	CodeNegativeCashNotEnded     Code = "NEGATIVE_CASH_NOT_ENDED"
	CodeWeekAdvanceFailed        Code = "WEEK_ADVANCE_FAILED"
	CodeWeightGainLowFulfillment Code = "WEIGHT_GAIN_LOW_FULFILLMENT"
	CodeExposureSpikeWhileIdle   Code = "EXPOSURE_SPIKE_WHILE_IDLE"
	CodeLowFulfillment           Code = "LOW_FULFILLMENT"
)

// Finding is one append-only diagnostic fact about one simulated week.
type Finding struct {
	Severity Severity `json:"severity"`
	Category Category `json:"category"`
	Code     Code     `json:"code"`
	Message  string   `json:"message"`
	Module   string   `json:"module,omitempty"` // suspected source, e.g. "econ/settle"
	Week     int      `json:"week"`
}

func countBySeverity(findings []Finding) map[Severity]int {
	out := map[Severity]int{}
	for _, f := range findings {
		out[f.Severity]++
	}
	return out
}

func criticalEngineBugs(findings []Finding) int {
	n := 0
	for _, f := range findings {
		if f.Severity == SeverityCritical && f.Category == CategoryEngineBug {
			n++
		}
	}
	return n
}

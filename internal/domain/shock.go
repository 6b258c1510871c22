package domain

// Extreme is a selected value and the period it was observed in.
type Extreme struct {
	Period Period
	Value  float64
}

// ComputedShock is the result of applying a MetricDefinition to a Series and its Baseline.
// Values carry full precision.
type ComputedShock struct {
	FactorID string
	Vintage  string
	Scenario string
	Selector Selector
	Formula  FormulaKind
	Scale    float64

	Baseline float64 // T0 used by the formula

	// Minimum/maximum selectors
	Extreme Extreme
	Value   float64 // formula result

	// Range formula: both ends, no baseline arithmetic
	Low  Extreme
	High Extreme
}

// IsRange reports whether the shock carries a (low, high) pair.
func (s ComputedShock) IsRange() bool {
	return s.Formula == FormulaRange
}

// Kind identifies the metric the shock was produced by.
func (s ComputedShock) Kind() string {
	return MetricDefinition{FactorID: s.FactorID, Selector: s.Selector, Formula: s.Formula}.Kind()
}

// Severity describes the current shock relative to a reference.
type Severity string

const (
	SeverityLess      Severity = "less severe"
	SeverityMore      Severity = "more severe"
	SeverityUnchanged Severity = "unchanged"
)

// ComparisonRow pairs two shocks of the same factor and metric kind.
type ComparisonRow struct {
	FactorID string
	Formula  FormulaKind
	Current  ComputedShock
	Prior    ComputedShock

	Delta     float64 // current - prior, shared unit
	LowDelta  float64 // range only
	HighDelta float64 // range only
	Severity  Severity
}

package domain

import "fmt"

// Selector picks the extreme value(s) of a series.
type Selector string

const (
	SelectorMinimum Selector = "minimum"
	SelectorMaximum Selector = "maximum"
	SelectorRange   Selector = "range" // both minimum and maximum
)

// Valid reports whether s is one of the known selectors.
func (s Selector) Valid() bool {
	switch s {
	case SelectorMinimum, SelectorMaximum, SelectorRange:
		return true
	}
	return false
}

// FormulaKind is the summary statistic computed from the extreme.
type FormulaKind string

const (
	FormulaIndexPctChange FormulaKind = "index_pct_change" // 100 * (extreme/T0 - 1)
	FormulaAbsoluteDiff   FormulaKind = "absolute_diff"    // extreme - T0
	FormulaRange          FormulaKind = "range"            // (min, max), no baseline arithmetic
)

// Valid reports whether f is one of the known formula kinds.
func (f FormulaKind) Valid() bool {
	switch f {
	case FormulaIndexPctChange, FormulaAbsoluteDiff, FormulaRange:
		return true
	}
	return false
}

// NeedsBaseline reports whether the formula reads T0.
func (f FormulaKind) NeedsBaseline() bool {
	return f != FormulaRange
}

// MetricDefinition declares how one shock statistic of a factor is computed.
type MetricDefinition struct {
	FactorID string
	Selector Selector
	Formula  FormulaKind
	Scale    float64 // unit conversion applied to the formula result, 1 = native unit
}

// Kind identifies the metric within a factor, e.g. "minimum/index_pct_change".
func (d MetricDefinition) Kind() string {
	return fmt.Sprintf("%s/%s", d.Selector, d.Formula)
}

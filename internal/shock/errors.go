package shock

import "errors"

var (
	// ErrEmptySeries is returned when a series has no periods to select an extreme from.
	ErrEmptySeries = errors.New("empty series")

	// ErrDivisionByZeroBaseline is returned for index_pct_change with a zero baseline.
	ErrDivisionByZeroBaseline = errors.New("division by zero baseline")

	// ErrMissingBaseline is returned when a factor has no T0 value for the vintage.
	ErrMissingBaseline = errors.New("missing baseline")

	// ErrDuplicateSeries is returned when two columns resolve to the same factor.
	ErrDuplicateSeries = errors.New("duplicate series for factor")

	// ErrUnsupportedMetric is returned for a selector/formula pair the evaluator cannot apply.
	ErrUnsupportedMetric = errors.New("unsupported metric")
)

// Package compare aligns computed shocks across vintages.
package compare

import (
	"errors"
	"fmt"
	"math"

	"scenario-shock-lab/internal/domain"
)

var (
	// ErrIncompatibleComparison is returned when two shocks differ in factor, formula kind or unit scale.
	ErrIncompatibleComparison = errors.New("incompatible comparison")

	// ErrMissingPrior is returned when the reference vintage has no shock for a factor metric.
	ErrMissingPrior = errors.New("no prior shock for factor")

	// ErrMissingCurrent is returned when the current vintage lacks a shock the reference has.
	ErrMissingCurrent = errors.New("no current shock for factor")
)

// AverageVintage labels shocks produced by Average.
const AverageVintage = "average"

// Compare pairs two shocks of the same factor and formula kind.
//
// Delta is current minus prior in the shared unit. Range shocks carry
// per-component deltas and are judged by width (high minus low).
func Compare(current, prior domain.ComputedShock) (domain.ComparisonRow, error) {
	if current.FactorID != prior.FactorID {
		return domain.ComparisonRow{}, fmt.Errorf("%w: factor %s vs %s",
			ErrIncompatibleComparison, current.FactorID, prior.FactorID)
	}
	if current.Formula != prior.Formula {
		return domain.ComparisonRow{}, fmt.Errorf("%w: %s formula %s vs %s",
			ErrIncompatibleComparison, current.FactorID, current.Formula, prior.Formula)
	}
	if scaleOf(current) != scaleOf(prior) {
		return domain.ComparisonRow{}, fmt.Errorf("%w: %s scale %v vs %v",
			ErrIncompatibleComparison, current.FactorID, scaleOf(current), scaleOf(prior))
	}

	row := domain.ComparisonRow{
		FactorID: current.FactorID,
		Formula:  current.Formula,
		Current:  current,
		Prior:    prior,
	}

	if current.IsRange() {
		row.LowDelta = current.Low.Value - prior.Low.Value
		row.HighDelta = current.High.Value - prior.High.Value
		row.Delta = width(current) - width(prior)
		row.Severity = severity(width(current), width(prior))
		return row, nil
	}

	row.Delta = current.Value - prior.Value
	row.Severity = severity(current.Value, prior.Value)
	return row, nil
}

// Magnitude returns the size of a shock used for severity: |value|, or width for range shocks.
func Magnitude(s domain.ComputedShock) float64 {
	if s.IsRange() {
		return width(s)
	}
	return math.Abs(s.Value)
}

// Severity reads current against a reference magnitude.
func Severity(current, reference domain.ComputedShock) domain.Severity {
	if current.IsRange() {
		return severity(width(current), width(reference))
	}
	return severity(current.Value, reference.Value)
}

func severity(current, prior float64) domain.Severity {
	c, p := math.Abs(current), math.Abs(prior)
	switch {
	case c > p:
		return domain.SeverityMore
	case c < p:
		return domain.SeverityLess
	default:
		return domain.SeverityUnchanged
	}
}

func width(s domain.ComputedShock) float64 {
	return s.High.Value - s.Low.Value
}

func scaleOf(s domain.ComputedShock) float64 {
	if s.Scale == 0 {
		return 1
	}
	return s.Scale
}

type metricKey struct {
	factorID string
	formula  domain.FormulaKind
	selector domain.Selector
}

func keyOf(s domain.ComputedShock) metricKey {
	return metricKey{factorID: s.FactorID, formula: s.Formula, selector: s.Selector}
}

// AlignVintages pairs current shocks with prior shocks of the same factor metric.
// Unpaired metrics on either side are reported as factor errors, never dropped.
// A prior metric consumed by an incompatible pairing is reported once, with the current metric.
// Rows follow the order of current.
func AlignVintages(current, prior []domain.ComputedShock) ([]domain.ComparisonRow, []*domain.FactorError) {
	byKey := make(map[metricKey]domain.ComputedShock, len(prior))
	byFactor := make(map[string][]domain.ComputedShock)
	for _, p := range prior {
		byKey[keyOf(p)] = p
		byFactor[p.FactorID] = append(byFactor[p.FactorID], p)
	}
	currentKeys := make(map[metricKey]bool, len(current))
	for _, c := range current {
		currentKeys[keyOf(c)] = true
	}

	var (
		rows     []domain.ComparisonRow
		errs     []*domain.FactorError
		reported = make(map[metricKey]bool)
	)

	for _, c := range current {
		p, ok := byKey[keyOf(c)]
		if !ok {
			// same factor, other formula: surface as an incompatible comparison
			if other, found := incompatiblePrior(byFactor[c.FactorID], currentKeys, reported); found {
				_, err := Compare(c, other)
				if err == nil {
					err = fmt.Errorf("%w: selector %s vs %s", ErrIncompatibleComparison, c.Selector, other.Selector)
				}
				reported[keyOf(other)] = true
				errs = append(errs, &domain.FactorError{FactorID: c.FactorID, Metric: c.Kind(), Err: err})
				continue
			}
			errs = append(errs, &domain.FactorError{
				FactorID: c.FactorID,
				Metric:   c.Kind(),
				Err:      fmt.Errorf("%w: vintage %s", ErrMissingPrior, vintageOf(prior)),
			})
			continue
		}

		reported[keyOf(p)] = true
		row, err := Compare(c, p)
		if err != nil {
			errs = append(errs, &domain.FactorError{FactorID: c.FactorID, Metric: c.Kind(), Err: err})
			continue
		}
		rows = append(rows, row)
	}

	for _, p := range prior {
		if reported[keyOf(p)] {
			continue
		}
		reported[keyOf(p)] = true
		errs = append(errs, &domain.FactorError{
			FactorID: p.FactorID,
			Metric:   p.Kind(),
			Err:      fmt.Errorf("%w: vintage %s", ErrMissingCurrent, vintageOf(current)),
		})
	}

	return rows, errs
}

// incompatiblePrior picks the first prior metric of a factor that no current
// metric pairs with exactly and that is not reported yet.
func incompatiblePrior(candidates []domain.ComputedShock, currentKeys, reported map[metricKey]bool) (domain.ComputedShock, bool) {
	for _, p := range candidates {
		k := keyOf(p)
		if !currentKeys[k] && !reported[k] {
			return p, true
		}
	}
	return domain.ComputedShock{}, false
}

func vintageOf(shocks []domain.ComputedShock) string {
	for _, s := range shocks {
		if s.Vintage != "" {
			return s.Vintage
		}
	}
	return "unknown"
}

// Average builds one synthetic shock per factor metric holding the arithmetic
// mean of the given shocks. Output follows first-seen order. Extreme periods are cleared.
func Average(shocks ...domain.ComputedShock) []domain.ComputedShock {
	type acc struct {
		shock domain.ComputedShock
		n     float64
	}
	var order []metricKey
	sums := make(map[metricKey]*acc)

	for _, s := range shocks {
		k := keyOf(s)
		a, ok := sums[k]
		if !ok {
			a = &acc{shock: domain.ComputedShock{
				FactorID: s.FactorID,
				Vintage:  AverageVintage,
				Scenario: s.Scenario,
				Selector: s.Selector,
				Formula:  s.Formula,
				Scale:    s.Scale,
			}}
			sums[k] = a
			order = append(order, k)
		}
		a.n++
		a.shock.Baseline += s.Baseline
		a.shock.Value += s.Value
		a.shock.Extreme.Value += s.Extreme.Value
		a.shock.Low.Value += s.Low.Value
		a.shock.High.Value += s.High.Value
	}

	out := make([]domain.ComputedShock, 0, len(order))
	for _, k := range order {
		a := sums[k]
		s := a.shock
		s.Baseline /= a.n
		s.Value /= a.n
		s.Extreme.Value /= a.n
		s.Low.Value /= a.n
		s.High.Value /= a.n
		out = append(out, s)
	}
	return out
}

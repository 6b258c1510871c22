// Package shock computes summary shock statistics of scenario paths against T0.
package shock

import (
	"fmt"
	"math"
	"sort"

	"scenario-shock-lab/internal/domain"
)

// Evaluate applies def to series and baseline. It is pure and never rounds.
//
// Ties on the extreme value report the earliest period.
// Baseline is ignored by the range formula.
func Evaluate(series domain.Series, baseline domain.Baseline, def domain.MetricDefinition) (domain.ComputedShock, error) {
	obs := chronological(series.Observations)
	if len(obs) == 0 {
		return domain.ComputedShock{}, fmt.Errorf("%w: %s (%s)", ErrEmptySeries, series.FactorID, def.Kind())
	}

	scale := def.Scale
	if scale == 0 {
		scale = 1
	}

	out := domain.ComputedShock{
		FactorID: def.FactorID,
		Vintage:  series.Vintage,
		Scenario: series.Scenario,
		Selector: def.Selector,
		Formula:  def.Formula,
		Scale:    scale,
		Baseline: baseline.Value,
	}
	if out.FactorID == "" {
		out.FactorID = series.FactorID
	}

	switch def.Formula {
	case domain.FormulaRange:
		if def.Selector != domain.SelectorRange {
			return domain.ComputedShock{}, fmt.Errorf("%w: %s", ErrUnsupportedMetric, def.Kind())
		}
		low, high := minimum(obs), maximum(obs)
		low.Value *= scale
		high.Value *= scale
		out.Low, out.High = low, high
		return out, nil

	case domain.FormulaIndexPctChange, domain.FormulaAbsoluteDiff:
		extreme, err := selectExtreme(obs, def.Selector)
		if err != nil {
			return domain.ComputedShock{}, err
		}
		out.Extreme = extreme

		if def.Formula == domain.FormulaIndexPctChange {
			if baseline.Value == 0 {
				return domain.ComputedShock{}, fmt.Errorf("%w: %s", ErrDivisionByZeroBaseline, out.FactorID)
			}
			out.Value = 100 * (extreme.Value/baseline.Value - 1) * scale
		} else {
			out.Value = (extreme.Value - baseline.Value) * scale
		}
		return out, nil
	}

	return domain.ComputedShock{}, fmt.Errorf("%w: %s", ErrUnsupportedMetric, def.Kind())
}

func selectExtreme(obs []domain.Observation, sel domain.Selector) (domain.Extreme, error) {
	switch sel {
	case domain.SelectorMinimum:
		return minimum(obs), nil
	case domain.SelectorMaximum:
		return maximum(obs), nil
	}
	return domain.Extreme{}, fmt.Errorf("%w: selector %s", ErrUnsupportedMetric, sel)
}

// minimum and maximum expect chronological, non-empty input.
// Strict comparison keeps the earliest of equal values.
func minimum(obs []domain.Observation) domain.Extreme {
	best := obs[0]
	for _, o := range obs[1:] {
		if o.Value < best.Value {
			best = o
		}
	}
	return domain.Extreme{Period: best.Period, Value: best.Value}
}

func maximum(obs []domain.Observation) domain.Extreme {
	best := obs[0]
	for _, o := range obs[1:] {
		if o.Value > best.Value {
			best = o
		}
	}
	return domain.Extreme{Period: best.Period, Value: best.Value}
}

// chronological returns a period-sorted copy without NaN values.
func chronological(obs []domain.Observation) []domain.Observation {
	out := make([]domain.Observation, 0, len(obs))
	for _, o := range obs {
		if math.IsNaN(o.Value) {
			continue
		}
		out = append(out, o)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Period.Before(out[j].Period)
	})
	return out
}

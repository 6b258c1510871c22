package normalization

import (
	"fmt"
	"math"

	"scenario-shock-lab/internal/domain"
	"scenario-shock-lab/internal/numfmt"
)

// Source and derived column names.
const (
	RealGDPGrowth  = "Real GDP growth"
	RealGDPLevel   = "Real GDP level (index)"
	TenYearYield   = "10-year Treasury yield"
	BBBYield       = "BBB corporate yield"
	BBBSpread      = "BBB-10Y spread"
	MortgageRate   = "Mortgage rate"
	MortgageSpread = "Mortgage-10Y spread"
)

// GDPBaseLevel is the Real GDP index value at T0.
const GDPBaseLevel = 100.0

const derivedPlaces = 4

// ComputeRealGDPLevel compounds annualised quarterly growth rates into an
// index starting from GDPBaseLevel. A missing growth rate yields a missing
// level and leaves the running level unchanged.
func ComputeRealGDPLevel(growth []float64) []float64 {
	levels := make([]float64, len(growth))
	prev := GDPBaseLevel
	for i, g := range growth {
		if math.IsNaN(g) {
			levels[i] = math.NaN()
			continue
		}
		prev *= math.Pow(1+g/100, 0.25)
		levels[i] = numfmt.Round(prev, derivedPlaces)
	}
	return levels
}

// ComputeSpread returns yield minus reference, missing where either is.
func ComputeSpread(yield, reference []float64) []float64 {
	out := make([]float64, len(yield))
	for i := range yield {
		if i >= len(reference) || math.IsNaN(yield[i]) || math.IsNaN(reference[i]) {
			out[i] = math.NaN()
			continue
		}
		out[i] = numfmt.Round(yield[i]-reference[i], derivedPlaces)
	}
	return out
}

type spreadDef struct {
	yield, name string
}

var spreads = []spreadDef{
	{BBBYield, BBBSpread},
	{MortgageRate, MortgageSpread},
}

// DeriveFeatures adds the GDP level and the spreads to a scenario path,
// each right after its source column.
func DeriveFeatures(t *domain.Table) error {
	growth, ok := t.Column(RealGDPGrowth)
	if !ok {
		return fmt.Errorf("derive %s: %w: %s", RealGDPLevel, domain.ErrColumnNotFound, RealGDPGrowth)
	}
	if err := t.InsertColumnAfter(RealGDPGrowth, RealGDPLevel, ComputeRealGDPLevel(growth)); err != nil {
		return err
	}

	ten, ok := t.Column(TenYearYield)
	if !ok {
		return fmt.Errorf("derive spreads: %w: %s", domain.ErrColumnNotFound, TenYearYield)
	}
	for _, s := range spreads {
		y, ok := t.Column(s.yield)
		if !ok {
			return fmt.Errorf("derive %s: %w: %s", s.name, domain.ErrColumnNotFound, s.yield)
		}
		if err := t.InsertColumnAfter(s.yield, s.name, ComputeSpread(y, ten)); err != nil {
			return err
		}
	}
	return nil
}

// DeriveSnapshot adds the derived factors to T0: the GDP index at its base
// level and the spreads where both components are known.
func DeriveSnapshot(s *Snapshot) {
	base := GDPBaseLevel
	s.InsertAfter(RealGDPGrowth, RealGDPLevel, &base)

	ten, _ := s.Get(TenYearYield)
	for _, sp := range spreads {
		y, _ := s.Get(sp.yield)
		var v *float64
		if y != nil && ten != nil {
			d := numfmt.Round(*y-*ten, derivedPlaces)
			v = &d
		}
		s.InsertAfter(sp.yield, sp.name, v)
	}
}

package commentary

import (
	"math"

	"scenario-shock-lab/internal/domain"
)

// Resolver maps a factor spelling (id, display name or raw column) to its factor.
type Resolver interface {
	Resolve(raw string) (domain.Factor, error)
}

// Values is the data placeholders are resolved against.
type Values struct {
	shocks   map[string][]domain.ComputedShock
	t0       map[string]float64
	baseline *domain.Table
	resolver Resolver
}

// NewValues indexes shocks by factor. t0 and baseline may be nil; resolver
// may be nil, in which case factors are looked up by id only.
func NewValues(shocks []domain.ComputedShock, t0 map[string]float64, baseline *domain.Table, resolver Resolver) *Values {
	v := &Values{
		shocks:   make(map[string][]domain.ComputedShock),
		t0:       t0,
		baseline: baseline,
		resolver: resolver,
	}
	for _, s := range shocks {
		v.shocks[s.FactorID] = append(v.shocks[s.FactorID], s)
	}
	return v
}

func (v *Values) factorID(name string) string {
	if v.resolver != nil {
		if f, err := v.resolver.Resolve(name); err == nil {
			return f.ID
		}
	}
	return name
}

// Field resolves a shock field of a factor:
// shock, shock_abs, shock_bps, extreme, t0, low, high.
func (v *Values) Field(factor, field string) (float64, bool) {
	id := v.factorID(factor)

	switch field {
	case "t0":
		val, ok := v.t0[id]
		return val, ok && !math.IsNaN(val)
	case "low", "high":
		for _, s := range v.shocks[id] {
			if !s.IsRange() {
				continue
			}
			if field == "low" {
				return s.Low.Value, true
			}
			return s.High.Value, true
		}
		return 0, false
	}

	var scalar *domain.ComputedShock
	for i := range v.shocks[id] {
		if !v.shocks[id][i].IsRange() {
			scalar = &v.shocks[id][i]
			break
		}
	}
	if scalar == nil {
		return 0, false
	}

	switch field {
	case "shock":
		return scalar.Value, true
	case "shock_abs":
		return math.Abs(scalar.Value), true
	case "shock_bps":
		return math.Abs(scalar.Value) * 100, true
	case "extreme":
		return scalar.Extreme.Value, true
	}
	return 0, false
}

// Baseline aggregates a factor's baseline path: max, min, first, last or mean.
// Missing cells are ignored.
func (v *Values) Baseline(factor, agg string) (float64, bool) {
	if v.baseline == nil {
		return 0, false
	}
	col, ok := v.baseline.Column(v.factorID(factor))
	if !ok {
		col, ok = v.baseline.Column(factor)
		if !ok {
			return 0, false
		}
	}

	var vals []float64
	for _, x := range col {
		if !math.IsNaN(x) {
			vals = append(vals, x)
		}
	}
	if len(vals) == 0 {
		return 0, false
	}

	switch agg {
	case "max":
		m := vals[0]
		for _, x := range vals[1:] {
			m = math.Max(m, x)
		}
		return m, true
	case "min":
		m := vals[0]
		for _, x := range vals[1:] {
			m = math.Min(m, x)
		}
		return m, true
	case "first":
		return vals[0], true
	case "last":
		return vals[len(vals)-1], true
	case "mean":
		var sum float64
		for _, x := range vals {
			sum += x
		}
		return sum / float64(len(vals)), true
	}
	return 0, false
}

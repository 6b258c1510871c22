package reporting

import (
	"fmt"
	"strings"

	"scenario-shock-lab/internal/compare"
	"scenario-shock-lab/internal/domain"
	"scenario-shock-lab/internal/numfmt"
)

// shockFor returns the first shock of a factor. With scalarOnly set, range shocks are skipped.
func shockFor(shocks []domain.ComputedShock, factorID string, scalarOnly bool) (domain.ComputedShock, bool) {
	for _, s := range shocks {
		if s.FactorID != factorID || (scalarOnly && s.IsRange()) {
			continue
		}
		return s, true
	}
	return domain.ComputedShock{}, false
}

// displayValues is the placeholder context of a shock cell.
func displayValues(s domain.ComputedShock, deltaScale float64) map[string]float64 {
	if deltaScale == 0 {
		deltaScale = 1
	}
	if s.IsRange() {
		return map[string]float64{
			"low":          s.Low.Value,
			"high":         s.High.Value,
			"extreme_low":  s.Low.Value,
			"extreme_high": s.High.Value,
		}
	}
	return map[string]float64{
		"shock":   s.Value,
		"delta":   s.Value * deltaScale,
		"extreme": s.Extreme.Value,
	}
}

// renderValue fills template with a single value bound to key; an empty
// template prints the value in its shortest form.
func renderValue(template, key string, v float64) (string, error) {
	if strings.TrimSpace(template) == "" {
		return numfmt.Format(v, "")
	}
	return numfmt.Render(template, map[string]float64{key: v})
}

// averageValues returns the per-factor mean of the vintage references.
func averageValues(refs []Reference, factors []string) map[string]float64 {
	var shocks []domain.ComputedShock
	for _, r := range refs {
		for _, f := range factors {
			if v, ok := r.Values[f]; ok {
				shocks = append(shocks, domain.ComputedShock{FactorID: f, Vintage: r.Label, Value: v})
			}
		}
	}
	out := make(map[string]float64)
	for _, avg := range compare.Average(shocks...) {
		out[avg.FactorID] = avg.Value
	}
	return out
}

// averageReference picks the declared average row, or derives one from the vintage rows.
func averageReference(refs *ReferenceSet, factors []string, label string) (Reference, bool) {
	if refs == nil {
		return Reference{}, false
	}
	if avg := refs.ByKind(ReferenceAverage); len(avg) > 0 {
		return avg[0], true
	}
	vintages := refs.ByKind(ReferenceVintage)
	if len(vintages) == 0 {
		return Reference{}, false
	}
	if label == "" {
		label = fmt.Sprintf("Average (%s-%s)", vintages[0].Label, vintages[len(vintages)-1].Label)
	}
	return Reference{Label: label, Kind: ReferenceAverage, Values: averageValues(vintages, factors)}, true
}

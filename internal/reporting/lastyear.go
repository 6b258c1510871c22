package reporting

import (
	"fmt"

	"scenario-shock-lab/internal/compare"
	"scenario-shock-lab/internal/domain"
	"scenario-shock-lab/internal/numfmt"
)

const defaultChangeTemplate = "{change:+.2f}"

// LastYearRow is one factor of the current vs prior vintage table.
type LastYearRow struct {
	FactorID string          `json:"factor"`
	Label    string          `json:"label"`
	Current  string          `json:"current"`
	Prior    string          `json:"prior"`
	Change   string          `json:"change"`
	Severity domain.Severity `json:"severity,omitempty"`
}

// LastYearTable compares the current vintage with the prior one.
type LastYearTable struct {
	ScenarioName string        `json:"scenario_name"`
	PriorName    string        `json:"prior_name"`
	Rows         []LastYearRow `json:"rows"`
}

// BuildLastYear renders the last-year table. Factors that cannot be shown
// or compared are reported and keep a row with whatever could be rendered.
func BuildLastYear(spec *LastYearSpec, current, prior []domain.ComputedShock) (*LastYearTable, []*domain.FactorError) {
	table := &LastYearTable{ScenarioName: spec.ScenarioName, PriorName: spec.PriorName}
	if table.PriorName == "" {
		table.PriorName = spec.PriorVintage
	}

	comparisons, errs := compare.AlignVintages(current, prior)
	byFactor := make(map[string]domain.ComparisonRow, len(comparisons))
	for _, c := range comparisons {
		if _, ok := byFactor[c.FactorID]; !ok {
			byFactor[c.FactorID] = c
		}
	}

	for _, f := range spec.Factors {
		row := LastYearRow{FactorID: f.Factor, Label: f.Label}
		if row.Label == "" {
			row.Label = f.Factor
		}

		cmp, compared := byFactor[f.Factor]
		cur, ok := shockFor(current, f.Factor, false)
		if compared {
			cur, ok = cmp.Current, true
		}
		if !ok {
			errs = append(errs, &domain.FactorError{FactorID: f.Factor, Metric: "last_year", Err: ErrNoCurrentShock})
			table.Rows = append(table.Rows, row)
			continue
		}

		var err error
		if row.Current, err = numfmt.Render(f.Template, displayValues(cur, f.DeltaScale)); err != nil {
			errs = append(errs, &domain.FactorError{FactorID: f.Factor, Metric: cur.Kind(), Err: fmt.Errorf("render current: %w", err)})
		}

		if compared {
			if row.Prior, err = numfmt.Render(f.Template, displayValues(cmp.Prior, f.DeltaScale)); err != nil {
				errs = append(errs, &domain.FactorError{FactorID: f.Factor, Metric: cur.Kind(), Err: fmt.Errorf("render prior: %w", err)})
			}
			tmpl := f.ChangeTemplate
			if tmpl == "" {
				tmpl = defaultChangeTemplate
			}
			values := map[string]float64{
				"change":      cmp.Delta,
				"low_change":  cmp.LowDelta,
				"high_change": cmp.HighDelta,
			}
			if row.Change, err = numfmt.Render(tmpl, values); err != nil {
				errs = append(errs, &domain.FactorError{FactorID: f.Factor, Metric: cur.Kind(), Err: fmt.Errorf("render change: %w", err)})
			}
			row.Severity = cmp.Severity
		}
		table.Rows = append(table.Rows, row)
	}
	return table, errs
}

// Grid lays the table out for rendering.
func (t *LastYearTable) Grid() *Grid {
	g := &Grid{
		Name:   "table_vs_lastyear",
		Title:  "Comparison",
		Header: []string{"Factor", t.PriorName, t.ScenarioName, "Change", "Severity"},
		Widths: []float64{20, 18, 18, 14, 14},
	}
	for _, r := range t.Rows {
		g.Rows = append(g.Rows, GridRow{Cells: []string{r.Label, r.Prior, r.Current, r.Change, string(r.Severity)}})
	}
	return g
}

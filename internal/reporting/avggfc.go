package reporting

import (
	"scenario-shock-lab/internal/compare"
	"scenario-shock-lab/internal/domain"
)

// Default heatmap fills: green when the current shock is at least as large as the reference.
const (
	defaultHeatGreen = "C7EA46"
	defaultHeatRed   = "C94A34"
)

// AvgGFCRow is one factor of the heatmap table.
type AvgGFCRow struct {
	Group     string          `json:"group"`
	FactorID  string          `json:"factor"`
	Name      string          `json:"name"`
	Current   *float64        `json:"current"`
	Average   *float64        `json:"average"`
	GFC       *float64        `json:"gfc"`
	Cells     [3]string       `json:"cells"`
	VsAverage domain.Severity `json:"vs_average,omitempty"`
	VsGFC     domain.Severity `json:"vs_gfc,omitempty"`
}

// AvgGFCTable compares the current vintage with the CCAR average and the GFC.
type AvgGFCTable struct {
	ScenarioName string        `json:"scenario_name"`
	Colors       HeatmapColors `json:"colors"`
	Rows         []AvgGFCRow   `json:"rows"`
	groupSpans   []Merge
}

// BuildAvgGFC renders the heatmap table. Relative cells are judged by magnitude.
func BuildAvgGFC(spec *AvgGFCSpec, refs *ReferenceSet, current []domain.ComputedShock) (*AvgGFCTable, []*domain.FactorError) {
	table := &AvgGFCTable{ScenarioName: spec.ScenarioName, Colors: spec.HeatmapColors}
	if table.Colors.Green == "" {
		table.Colors.Green = defaultHeatGreen
	}
	if table.Colors.Red == "" {
		table.Colors.Red = defaultHeatRed
	}

	var factors []string
	for _, g := range spec.FactorGroups {
		for _, f := range g.Factors {
			factors = append(factors, f.Factor)
		}
	}

	var avgValues, gfcValues map[string]float64
	if avg, ok := averageReference(refs, factors, ""); ok {
		avgValues = avg.Values
	}
	if refs != nil {
		if gfc := refs.ByKind(ReferenceGFC); len(gfc) > 0 {
			gfcValues = gfc[0].Values
		}
	}

	var errs []*domain.FactorError
	for _, g := range spec.FactorGroups {
		start := len(table.Rows)
		for _, f := range g.Factors {
			row := AvgGFCRow{Group: g.Group, FactorID: f.Factor, Name: f.Name}

			if s, ok := shockFor(current, f.Factor, true); ok {
				scale := f.Scale
				if scale == 0 {
					scale = 1
				}
				v := s.Value * scale
				row.Current = &v
			} else {
				errs = append(errs, &domain.FactorError{FactorID: f.Factor, Metric: "avg_gfc", Err: ErrNoCurrentShock})
			}
			row.Average = lookup(avgValues, f.Factor)
			row.GFC = lookup(gfcValues, f.Factor)

			for i, v := range []*float64{row.Current, row.Average, row.GFC} {
				if v == nil {
					continue
				}
				cell, err := renderValue(f.Template, "value", *v)
				if err != nil {
					errs = append(errs, &domain.FactorError{FactorID: f.Factor, Metric: "avg_gfc", Err: err})
				}
				row.Cells[i] = cell
			}
			row.VsAverage = relative(row.Current, row.Average)
			row.VsGFC = relative(row.Current, row.GFC)

			table.Rows = append(table.Rows, row)
		}
		if end := len(table.Rows) - 1; end > start {
			table.groupSpans = append(table.groupSpans, Merge{Col: 0, From: start, To: end})
		}
	}
	return table, errs
}

func lookup(values map[string]float64, factor string) *float64 {
	v, ok := values[factor]
	if !ok {
		return nil
	}
	return &v
}

func relative(current, reference *float64) domain.Severity {
	if current == nil || reference == nil {
		return ""
	}
	return compare.Severity(
		domain.ComputedShock{Value: *current},
		domain.ComputedShock{Value: *reference},
	)
}

// heat maps a severity to its fill: at least as severe is green.
func (t *AvgGFCTable) heat(s domain.Severity) string {
	switch s {
	case domain.SeverityMore, domain.SeverityUnchanged:
		return t.Colors.Green
	case domain.SeverityLess:
		return t.Colors.Red
	}
	return ""
}

// Grid lays the table out for rendering.
func (t *AvgGFCTable) Grid() *Grid {
	g := &Grid{
		Name:  "table_vs_avg_gfc",
		Title: "Avg GFC Comparison",
		Header: []string{"", "Factor", t.ScenarioName, "CCAR Avg.\n(2019-2025)", "GFC Shock",
			"Relative to CCAR\nAvg", "Relative to GFC"},
		Merges: t.groupSpans,
		Widths: []float64{16, 18, 16, 16, 16, 18, 18},
	}

	prevGroup := ""
	for i, r := range t.Rows {
		group := r.Group
		if i > 0 && group == prevGroup {
			group = ""
		}
		prevGroup = r.Group

		row := GridRow{
			Cells: []string{group, r.Name, r.Cells[0], r.Cells[1], r.Cells[2], string(r.VsAverage), string(r.VsGFC)},
			Fills: map[int]string{},
		}
		if fill := t.heat(r.VsAverage); fill != "" {
			row.Fills[5] = fill
		}
		if fill := t.heat(r.VsGFC); fill != "" {
			row.Fills[6] = fill
		}
		g.Rows = append(g.Rows, row)
	}
	return g
}

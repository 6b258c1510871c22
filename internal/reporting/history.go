package reporting

import (
	"scenario-shock-lab/internal/domain"
)

// Row fills of the history table.
const (
	currentRowFill = "D1FAE5"
	gfcRowFill     = "FEE2E2"
)

// HistoryRowKind marks the role of a row in the history table.
type HistoryRowKind string

const (
	RowHistory HistoryRowKind = "history"
	RowAverage HistoryRowKind = "average"
	RowCurrent HistoryRowKind = "current"
	RowGFC     HistoryRowKind = "gfc"
)

// HistoryRow is one scenario of the history table.
type HistoryRow struct {
	Label  string         `json:"label"`
	Kind   HistoryRowKind `json:"kind"`
	Values []*float64     `json:"values"`
	Cells  []string       `json:"cells"`
}

// HistoryTable lists past vintages, their average, the current vintage and the GFC.
type HistoryTable struct {
	Columns []HistoryColumn `json:"columns"`
	Rows    []HistoryRow    `json:"rows"`
}

// BuildHistory orders rows as history vintages, average, current, then GFC.
// Range shocks have no single value and leave their cell empty.
func BuildHistory(spec *HistorySpec, refs *ReferenceSet, current []domain.ComputedShock) (*HistoryTable, []*domain.FactorError) {
	table := &HistoryTable{Columns: spec.Columns}
	factors := make([]string, len(spec.Columns))
	for i, c := range spec.Columns {
		factors[i] = c.Factor
	}

	var errs []*domain.FactorError
	add := func(label string, kind HistoryRowKind, values map[string]float64, present func(string) bool) {
		row := HistoryRow{Label: label, Kind: kind}
		for _, c := range spec.Columns {
			if !present(c.Factor) {
				row.Values = append(row.Values, nil)
				row.Cells = append(row.Cells, "")
				continue
			}
			v := values[c.Factor]
			row.Values = append(row.Values, &v)
			cell, err := renderValue(c.Template, "shock", v)
			if err != nil {
				errs = append(errs, &domain.FactorError{FactorID: c.Factor, Metric: "history", Err: err})
			}
			row.Cells = append(row.Cells, cell)
		}
		table.Rows = append(table.Rows, row)
	}
	fromRef := func(r Reference, kind HistoryRowKind) {
		add(r.Label, kind, r.Values, func(f string) bool { _, ok := r.Values[f]; return ok })
	}

	if refs != nil {
		for _, r := range refs.ByKind(ReferenceVintage) {
			fromRef(r, RowHistory)
		}
	}
	if avg, ok := averageReference(refs, factors, spec.AverageName); ok {
		fromRef(avg, RowAverage)
	}

	cur := make(map[string]float64)
	for _, f := range factors {
		if s, ok := shockFor(current, f, true); ok {
			cur[f] = s.Value
		}
	}
	add(spec.ScenarioName, RowCurrent, cur, func(f string) bool { _, ok := cur[f]; return ok })

	if refs != nil {
		for _, r := range refs.ByKind(ReferenceGFC) {
			fromRef(r, RowGFC)
		}
	}
	return table, errs
}

// Grid lays the table out for rendering.
func (t *HistoryTable) Grid() *Grid {
	g := &Grid{
		Name:   "table_vs_history",
		Title:  "Historical Comparison",
		Header: []string{"Scenario"},
		Widths: []float64{28},
	}
	for _, c := range t.Columns {
		h := c.Header
		if h == "" {
			h = c.Factor
		}
		if c.Unit != "" {
			h += "\n" + c.Unit
		}
		g.Header = append(g.Header, h)
		g.Widths = append(g.Widths, 11)
	}

	for _, r := range t.Rows {
		row := GridRow{Cells: append([]string{r.Label}, r.Cells...)}
		switch r.Kind {
		case RowAverage:
			row.Bold = true
		case RowCurrent:
			row.Bold = true
			row.Fill = currentRowFill
		case RowGFC:
			row.Bold = true
			row.Fill = gfcRowFill
		}
		g.Rows = append(g.Rows, row)
	}
	return g
}

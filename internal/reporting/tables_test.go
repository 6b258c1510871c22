package reporting

import (
	"errors"
	"testing"

	"scenario-shock-lab/internal/domain"
)

func gdpShock(vintage string, v float64) domain.ComputedShock {
	return domain.ComputedShock{
		FactorID: "real_gdp",
		Vintage:  vintage,
		Selector: domain.SelectorMinimum,
		Formula:  domain.FormulaIndexPctChange,
		Scale:    1,
		Value:    v,
	}
}

func spreadShock(vintage string, v float64) domain.ComputedShock {
	return domain.ComputedShock{
		FactorID: "bbb_spread",
		Vintage:  vintage,
		Selector: domain.SelectorMaximum,
		Formula:  domain.FormulaAbsoluteDiff,
		Scale:    1,
		Value:    v,
	}
}

func testReferences() *ReferenceSet {
	return &ReferenceSet{References: []Reference{
		{Label: "2023", Kind: ReferenceVintage, Values: map[string]float64{"real_gdp": -5.0, "bbb_spread": 3.0}},
		{Label: "2024", Kind: ReferenceVintage, Values: map[string]float64{"real_gdp": -3.0, "bbb_spread": 2.0}},
		{Label: "Financial Crisis Historical", Kind: ReferenceGFC, Values: map[string]float64{"real_gdp": -4.0, "bbb_spread": 5.5}},
	}}
}

func TestBuildLastYear(t *testing.T) {
	spec := &LastYearSpec{
		ScenarioName: "2025 SA",
		PriorVintage: "2024",
		PriorName:    "2024 SA",
		Factors: []LastYearFactor{
			{Factor: "real_gdp", Label: "Real GDP", Template: "{shock:.1f}%"},
			{Factor: "bbb_spread", Label: "BBB Spread", Template: "{delta:.0f} bps", DeltaScale: 100},
			{Factor: "house_prices", Template: "{shock:.1f}%"},
		},
	}
	current := []domain.ComputedShock{gdpShock("2025", -3.456), spreadShock("2025", 2.5)}
	prior := []domain.ComputedShock{gdpShock("2024", -4.0), spreadShock("2024", 2.5)}

	table, errs := BuildLastYear(spec, current, prior)

	if len(errs) != 1 {
		t.Fatalf("expected 1 factor error, got %d: %v", len(errs), errs)
	}
	if errs[0].FactorID != "house_prices" || !errors.Is(errs[0], ErrNoCurrentShock) {
		t.Errorf("unexpected factor error: %v", errs[0])
	}
	if len(table.Rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(table.Rows))
	}

	gdp := table.Rows[0]
	if gdp.Current != "-3.5%" || gdp.Prior != "-4.0%" || gdp.Change != "+0.54" {
		t.Errorf("real_gdp row: %+v", gdp)
	}
	if gdp.Severity != domain.SeverityLess {
		t.Errorf("real_gdp severity: got %s", gdp.Severity)
	}

	spread := table.Rows[1]
	if spread.Current != "250 bps" || spread.Prior != "250 bps" || spread.Change != "+0.00" {
		t.Errorf("bbb_spread row: %+v", spread)
	}
	if spread.Severity != domain.SeverityUnchanged {
		t.Errorf("bbb_spread severity: got %s", spread.Severity)
	}

	if missing := table.Rows[2]; missing.Label != "house_prices" || missing.Current != "" {
		t.Errorf("missing row: %+v", missing)
	}

	g := table.Grid()
	if g.Header[1] != "2024 SA" || g.Header[2] != "2025 SA" {
		t.Errorf("header: %v", g.Header)
	}
}

func TestBuildLastYear_PriorNameDefaultsToVintage(t *testing.T) {
	spec := &LastYearSpec{ScenarioName: "2025", PriorVintage: "2024", Factors: []LastYearFactor{{Factor: "real_gdp", Template: "{shock}"}}}
	table, _ := BuildLastYear(spec, []domain.ComputedShock{gdpShock("2025", -1)}, nil)
	if table.PriorName != "2024" {
		t.Errorf("prior name: got %q", table.PriorName)
	}
}

func TestBuildHistory(t *testing.T) {
	spec := &HistorySpec{
		ScenarioName: "2025 SA",
		AverageName:  "CCAR Avg.",
		Columns: []HistoryColumn{
			{Factor: "real_gdp", Header: "Real GDP", Unit: "%", Template: "{shock:.1f}"},
			{Factor: "bbb_spread", Header: "BBB Spread", Template: "{shock:.1f}"},
		},
	}
	current := []domain.ComputedShock{gdpShock("2025", -3.456), spreadShock("2025", 2.5)}

	table, errs := BuildHistory(spec, testReferences(), current)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	wantKinds := []HistoryRowKind{RowHistory, RowHistory, RowAverage, RowCurrent, RowGFC}
	if len(table.Rows) != len(wantKinds) {
		t.Fatalf("expected %d rows, got %d", len(wantKinds), len(table.Rows))
	}
	for i, k := range wantKinds {
		if table.Rows[i].Kind != k {
			t.Errorf("row %d: kind %s, want %s", i, table.Rows[i].Kind, k)
		}
	}

	avg := table.Rows[2]
	if avg.Label != "CCAR Avg." || avg.Cells[0] != "-4.0" || avg.Cells[1] != "2.5" {
		t.Errorf("average row: %+v", avg)
	}
	cur := table.Rows[3]
	if cur.Cells[0] != "-3.5" || cur.Cells[1] != "2.5" {
		t.Errorf("current row: %+v", cur)
	}

	g := table.Grid()
	if g.Header[1] != "Real GDP\n%" {
		t.Errorf("header: %q", g.Header[1])
	}
	if g.Rows[3].Fill != currentRowFill || !g.Rows[3].Bold {
		t.Errorf("current row style: %+v", g.Rows[3])
	}
	if g.Rows[4].Fill != gfcRowFill {
		t.Errorf("gfc row fill: %q", g.Rows[4].Fill)
	}
}

func TestBuildHistory_DeclaredAverageWins(t *testing.T) {
	refs := testReferences()
	refs.References = append(refs.References, Reference{
		Label: "Published Avg.", Kind: ReferenceAverage, Values: map[string]float64{"real_gdp": -9},
	})
	spec := &HistorySpec{ScenarioName: "2025", Columns: []HistoryColumn{{Factor: "real_gdp"}, {Factor: "bbb_spread"}}}

	table, _ := BuildHistory(spec, refs, nil)

	avg := table.Rows[2]
	if avg.Label != "Published Avg." || avg.Cells[0] != "-9.0" {
		t.Errorf("average row: %+v", avg)
	}
	if avg.Values[1] != nil || avg.Cells[1] != "" {
		t.Errorf("expected empty bbb_spread cell, got %+v", avg)
	}
	if cur := table.Rows[3]; cur.Values[0] != nil {
		t.Errorf("current row without shocks should be empty: %+v", cur)
	}
}

func TestBuildAvgGFC(t *testing.T) {
	spec := &AvgGFCSpec{
		ScenarioName: "2025 SA",
		FactorGroups: []FactorGroup{
			{Group: "Economic", Factors: []GroupFactor{
				{Factor: "real_gdp", Name: "Real GDP", Template: "{value:.1f}%"},
				{Factor: "unemployment", Name: "Unemployment", Template: "{value:.1f}%"},
			}},
			{Group: "Markets", Factors: []GroupFactor{
				{Factor: "bbb_spread", Name: "BBB Spread", Template: "{value:.0f} bps", Scale: 100},
			}},
		},
	}
	refs := &ReferenceSet{References: []Reference{
		{Label: "CCAR Avg.", Kind: ReferenceAverage, Values: map[string]float64{"real_gdp": -4.0, "bbb_spread": 200}},
		{Label: "GFC", Kind: ReferenceGFC, Values: map[string]float64{"real_gdp": -4.0, "bbb_spread": 550}},
	}}
	current := []domain.ComputedShock{gdpShock("2025", -3.456), spreadShock("2025", 2.5)}

	table, errs := BuildAvgGFC(spec, refs, current)

	if len(errs) != 1 || errs[0].FactorID != "unemployment" {
		t.Fatalf("expected unemployment error, got %v", errs)
	}

	gdp := table.Rows[0]
	if gdp.Cells[0] != "-3.5%" || gdp.VsAverage != domain.SeverityLess || gdp.VsGFC != domain.SeverityLess {
		t.Errorf("real_gdp row: %+v", gdp)
	}
	spread := table.Rows[2]
	if spread.Cells[0] != "250 bps" || spread.Cells[1] != "200 bps" || spread.Cells[2] != "550 bps" {
		t.Errorf("bbb_spread cells: %v", spread.Cells)
	}
	if spread.VsAverage != domain.SeverityMore || spread.VsGFC != domain.SeverityLess {
		t.Errorf("bbb_spread severity: %s / %s", spread.VsAverage, spread.VsGFC)
	}

	g := table.Grid()
	if len(g.Merges) != 1 || g.Merges[0] != (Merge{Col: 0, From: 0, To: 1}) {
		t.Errorf("merges: %+v", g.Merges)
	}
	if g.Rows[0].Cells[0] != "Economic" || g.Rows[1].Cells[0] != "" || g.Rows[2].Cells[0] != "Markets" {
		t.Errorf("group column: %q %q %q", g.Rows[0].Cells[0], g.Rows[1].Cells[0], g.Rows[2].Cells[0])
	}
	if g.Rows[2].Fills[5] != defaultHeatGreen || g.Rows[2].Fills[6] != defaultHeatRed {
		t.Errorf("bbb_spread fills: %v", g.Rows[2].Fills)
	}
	if len(g.Rows[1].Fills) != 0 {
		t.Errorf("row without current shock should have no heat: %v", g.Rows[1].Fills)
	}
}

func TestBuildAvgGFC_AverageFromVintages(t *testing.T) {
	spec := &AvgGFCSpec{
		ScenarioName:  "2025",
		HeatmapColors: HeatmapColors{Green: "00FF00", Red: "FF0000"},
		FactorGroups: []FactorGroup{{Group: "Economic", Factors: []GroupFactor{
			{Factor: "real_gdp", Name: "Real GDP"},
		}}},
	}

	table, errs := BuildAvgGFC(spec, testReferences(), []domain.ComputedShock{gdpShock("2025", -4.0)})
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}

	row := table.Rows[0]
	if row.Average == nil || *row.Average != -4.0 {
		t.Fatalf("average: %v", row.Average)
	}
	if row.VsAverage != domain.SeverityUnchanged {
		t.Errorf("equal magnitudes: got %s", row.VsAverage)
	}
	if fill := table.Grid().Rows[0].Fills[5]; fill != "00FF00" {
		t.Errorf("unchanged should be green, got %q", fill)
	}
}

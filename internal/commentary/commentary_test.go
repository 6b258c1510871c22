package commentary

import (
	"errors"
	"math"
	"strings"
	"testing"

	"scenario-shock-lab/internal/domain"
)

type nameResolver map[string]string

func (r nameResolver) Resolve(raw string) (domain.Factor, error) {
	id, ok := r[raw]
	if !ok {
		return domain.Factor{}, errors.New("unknown")
	}
	return domain.Factor{ID: id}, nil
}

func testValues(t *testing.T) *Values {
	t.Helper()

	shocks := []domain.ComputedShock{
		{
			FactorID: "unemployment", Selector: domain.SelectorMaximum, Formula: domain.FormulaAbsoluteDiff,
			Value: 5.9, Extreme: domain.Extreme{Period: domain.MustParsePeriod("2026 Q3"), Value: 10.0},
		},
		{
			FactorID: "ten_year", Selector: domain.SelectorMinimum, Formula: domain.FormulaAbsoluteDiff,
			Value: -3.55,
		},
		{
			FactorID: "ten_year", Selector: domain.SelectorRange, Formula: domain.FormulaRange,
			Low: domain.Extreme{Value: 0.7}, High: domain.Extreme{Value: 1.9},
		},
	}

	baseline := domain.NewTable([]domain.Period{
		domain.MustParsePeriod("2025 Q1"),
		domain.MustParsePeriod("2025 Q2"),
		domain.MustParsePeriod("2025 Q3"),
	})
	if err := baseline.AddColumn("unemployment", []float64{4.1, math.NaN(), 4.5}); err != nil {
		t.Fatalf("AddColumn: %v", err)
	}

	t0 := map[string]float64{"unemployment": 4.1}
	return NewValues(shocks, t0, baseline, nameResolver{"Unemployment Rate": "unemployment"})
}

func TestValues_Field(t *testing.T) {
	v := testValues(t)

	tests := []struct {
		factor, field string
		want          float64
		ok            bool
	}{
		{"unemployment", "shock", 5.9, true},
		{"Unemployment Rate", "extreme", 10.0, true},
		{"unemployment", "t0", 4.1, true},
		{"ten_year", "shock_abs", 3.55, true},
		{"ten_year", "shock_bps", 355, true},
		{"ten_year", "low", 0.7, true},
		{"ten_year", "high", 1.9, true},
		{"unemployment", "low", 0, false},
		{"vix", "shock", 0, false},
		{"unemployment", "bogus", 0, false},
	}

	for _, tt := range tests {
		got, ok := v.Field(tt.factor, tt.field)
		if ok != tt.ok {
			t.Errorf("%s.%s: ok=%v, want %v", tt.factor, tt.field, ok, tt.ok)
			continue
		}
		if ok && math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("%s.%s: got %v, want %v", tt.factor, tt.field, got, tt.want)
		}
	}
}

func TestValues_Baseline(t *testing.T) {
	v := testValues(t)

	for agg, want := range map[string]float64{"max": 4.5, "min": 4.1, "first": 4.1, "last": 4.5, "mean": 4.3} {
		got, ok := v.Baseline("unemployment", agg)
		if !ok || math.Abs(got-want) > 1e-9 {
			t.Errorf("baseline %s: got %v (%v), want %v", agg, got, ok, want)
		}
	}
	if _, ok := v.Baseline("unemployment", "median"); ok {
		t.Error("unknown aggregation should not resolve")
	}
	if _, ok := NewValues(nil, nil, nil, nil).Baseline("unemployment", "max"); ok {
		t.Error("no baseline table should not resolve")
	}
}

func TestRender(t *testing.T) {
	v := testValues(t)

	got, errs := v.Render("Unemployment peaks at {unemployment.extreme:.1f}%, up {unemployment.shock:.1f}ppts.", false)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if want := "Unemployment peaks at 10.0%, up 5.9ppts."; got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	got, _ = v.Render("Baseline tops out at {baseline.unemployment.max:.1f}%.", true)
	if want := "Baseline tops out at 4.5% `[computed]`."; got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	got, _ = v.Render("Yields fall {ten_year.shock_bps:.0f}bps.", false)
	if want := "Yields fall 355bps."; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRender_T0Field(t *testing.T) {
	v := NewValues(nil, map[string]float64{"VIX": 28}, nil, nil)

	got, errs := v.Render("VIX starts at {VIX.t0:.1f}", false)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if want := "VIX starts at 28.0"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	got, errs = v.Render("Rates start at {ten_year.t0:.2f}%", false)
	if want := "Rates start at [ten_year.t0:N/A]"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if len(errs) != 1 || !errors.Is(errs[0], ErrMissingValue) {
		t.Errorf("expected one ErrMissingValue, got %v", errs)
	}
}

func TestRender_MissingValue(t *testing.T) {
	v := testValues(t)

	got, errs := v.Render("VIX {vix.extreme:.0f}pts; baseline {baseline.vix.max}%", true)
	if want := "VIX [vix.extreme:N/A]; baseline [baseline.vix.max:N/A]"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %d", len(errs))
	}
	for _, e := range errs {
		if !errors.Is(e, ErrMissingValue) || e.FactorID != "vix" {
			t.Errorf("unexpected error: %v", e)
		}
	}
}

func TestBuildKeyCommentary(t *testing.T) {
	spec := &KeyCommentarySpec{
		Categories: []Category{{
			Name: "Labor",
			Bullets: []Bullet{
				{Type: BulletComputed, Template: "Unemployment rises {unemployment.shock:.1f} ppts"},
				{Text: "Labor market weakens sharply"},
			},
		}},
	}

	md, errs := BuildKeyCommentary(spec, testValues(t))
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	for _, want := range []string{
		"# Key Factor Shocks\n",
		"## Labor\n",
		"- Unemployment rises 5.9 ppts  `[computed]`\n",
		"- Labor market weakens sharply  `[manual]`\n",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("missing %q in:\n%s", want, md)
		}
	}
}

func TestBuildSummary(t *testing.T) {
	spec := &SummarySpec{
		Title:              "CCAR 2025 Summary",
		ReleaseDate:        "February 5, 2025",
		ScenarioYear:       "2025",
		ShowComputedMarker: true,
		Sections: []Section{{
			Name:        "Severely Adverse",
			Description: "Severe global recession",
			Bullets: []SummaryBullet{
				{Template: "Unemployment reaches {unemployment.extreme:.1f}%"},
				{Text: "House prices fall sharply"},
			},
			Footnote: "Source: FRB",
		}},
	}

	md, errs := BuildSummary(spec, testValues(t))
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	want := "# CCAR 2025 Summary\n\n" +
		"On February 5, 2025, the FRB released the CCAR 2025 Supervisory scenarios.\n\n" +
		"## Severely Adverse\n\n" +
		"*Severe global recession*\n\n" +
		"- Unemployment reaches 10.0% `[computed]`\n" +
		"- House prices fall sharply\n" +
		"\n> Source: FRB\n\n"
	if md != want {
		t.Errorf("got:\n%s\nwant:\n%s", md, want)
	}
}

func TestBuildTimeline(t *testing.T) {
	spec := &TimelineSpec{
		IntroBullets: []string{"Scenarios released"},
		ReleaseDate:  "2025-02-05",
		Milestones: []Milestone{
			{DayOffset: 0, Description: "Release on {date}"},
			{DayOffset: 3, Description: "Internal review by {date}"},
		},
	}

	md, err := BuildTimeline(spec)
	if err != nil {
		t.Fatalf("BuildTimeline: %v", err)
	}
	for _, want := range []string{
		"# Timeline\n",
		"- Scenarios released\n",
		"1. Release on Wednesday, February 5\n",
		"2. Internal review by Saturday, February 8\n",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("missing %q in:\n%s", want, md)
		}
	}
}

func TestBuildTimeline_BadDate(t *testing.T) {
	_, err := BuildTimeline(&TimelineSpec{ReleaseDate: "Feb 5"})
	if !errors.Is(err, ErrInvalidDate) {
		t.Errorf("expected ErrInvalidDate, got %v", err)
	}
}

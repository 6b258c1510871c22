package compare

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"scenario-shock-lab/internal/domain"
)

func absShock(factor, vintage string, value float64) domain.ComputedShock {
	return domain.ComputedShock{
		FactorID: factor,
		Vintage:  vintage,
		Selector: domain.SelectorMaximum,
		Formula:  domain.FormulaAbsoluteDiff,
		Scale:    1,
		Value:    value,
	}
}

func rangeShock(factor, vintage string, low, high float64) domain.ComputedShock {
	return domain.ComputedShock{
		FactorID: factor,
		Vintage:  vintage,
		Selector: domain.SelectorRange,
		Formula:  domain.FormulaRange,
		Scale:    1,
		Low:      domain.Extreme{Value: low},
		High:     domain.Extreme{Value: high},
	}
}

func TestCompare_BBBSpreadLessSevere(t *testing.T) {
	row, err := Compare(absShock("bbb_corp_spread", "2025", 5.0), absShock("bbb_corp_spread", "2024", 5.8))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(row.Delta-(-0.8)) > 1e-12 {
		t.Errorf("expected delta -0.8, got %v", row.Delta)
	}
	if row.Delta != 5.0-5.8 {
		t.Errorf("delta must be exactly current - prior, got %v", row.Delta)
	}
	if row.Severity != domain.SeverityLess {
		t.Errorf("expected less severe, got %s", row.Severity)
	}
}

func TestCompare_SeverityUsesMagnitude(t *testing.T) {
	tests := []struct {
		name           string
		current, prior float64
		want           domain.Severity
	}{
		{"deeper decline", -55, -50, domain.SeverityMore},
		{"shallower decline", -40, -50, domain.SeverityLess},
		{"same", 3, 3, domain.SeverityUnchanged},
		{"sign flip same size", -3, 3, domain.SeverityUnchanged},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row, err := Compare(absShock("x", "2025", tt.current), absShock("x", "2024", tt.prior))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if row.Severity != tt.want {
				t.Errorf("expected %s, got %s", tt.want, row.Severity)
			}
			if row.Delta != tt.current-tt.prior {
				t.Errorf("expected delta %v, got %v", tt.current-tt.prior, row.Delta)
			}
		})
	}
}

func TestCompare_Incompatible(t *testing.T) {
	pct := absShock("us_inflation", "2024", 1)
	pct.Formula = domain.FormulaIndexPctChange

	_, err := Compare(rangeShock("us_inflation", "2025", 1, 3), pct)
	if !errors.Is(err, ErrIncompatibleComparison) {
		t.Errorf("formula mismatch: expected ErrIncompatibleComparison, got %v", err)
	}

	_, err = Compare(absShock("vix", "2025", 1), absShock("bbb_corp_spread", "2024", 1))
	if !errors.Is(err, ErrIncompatibleComparison) {
		t.Errorf("factor mismatch: expected ErrIncompatibleComparison, got %v", err)
	}

	bps := absShock("vix", "2024", 100)
	bps.Scale = 100
	_, err = Compare(absShock("vix", "2025", 1), bps)
	if !errors.Is(err, ErrIncompatibleComparison) {
		t.Errorf("scale mismatch: expected ErrIncompatibleComparison, got %v", err)
	}
}

func TestCompare_RangePerComponent(t *testing.T) {
	row, err := Compare(rangeShock("us_inflation", "2025", 1.0, 4.0), rangeShock("us_inflation", "2024", 1.5, 3.0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if row.LowDelta != -0.5 || row.HighDelta != 1.0 {
		t.Errorf("unexpected component deltas: low %v high %v", row.LowDelta, row.HighDelta)
	}
	if row.Delta != 1.5 {
		t.Errorf("expected width delta 1.5, got %v", row.Delta)
	}
	if row.Severity != domain.SeverityMore {
		t.Errorf("expected more severe, got %s", row.Severity)
	}
}

func TestAlignVintages(t *testing.T) {
	current := []domain.ComputedShock{
		absShock("bbb_corp_spread", "2025", 5.0),
		absShock("vix", "2025", 37),
		rangeShock("us_inflation", "2025", 1, 3),
	}
	prior := []domain.ComputedShock{
		absShock("bbb_corp_spread", "2024", 5.8),
		rangeShock("us_inflation", "2024", 1, 4),
		absShock("house_prices", "2024", -38),
	}

	rows, errs := AlignVintages(current, prior)

	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].FactorID != "bbb_corp_spread" || rows[1].FactorID != "us_inflation" {
		t.Errorf("rows must follow current order: %s, %s", rows[0].FactorID, rows[1].FactorID)
	}

	if len(errs) != 2 {
		t.Fatalf("expected 2 factor errors, got %d", len(errs))
	}
	if errs[0].FactorID != "vix" || !errors.Is(errs[0], ErrMissingPrior) {
		t.Errorf("expected vix ErrMissingPrior, got %v", errs[0])
	}
	if errs[1].FactorID != "house_prices" || !errors.Is(errs[1], ErrMissingCurrent) {
		t.Errorf("expected house_prices ErrMissingCurrent, got %v", errs[1])
	}
}

func TestAlignVintages_FormulaChangeIsIncompatible(t *testing.T) {
	current := []domain.ComputedShock{rangeShock("us_inflation", "2025", 1, 3)}
	prior := []domain.ComputedShock{absShock("us_inflation", "2024", 2)}

	rows, errs := AlignVintages(current, prior)
	if len(rows) != 0 {
		t.Fatalf("expected no rows, got %d", len(rows))
	}
	if len(errs) != 1 || !errors.Is(errs[0], ErrIncompatibleComparison) {
		t.Fatalf("expected one ErrIncompatibleComparison, got %v", errs)
	}
}

func TestAlignVintages_PriorMetricOfKeptFactor(t *testing.T) {
	current := []domain.ComputedShock{absShock("us_inflation", "2025", 2)}
	prior := []domain.ComputedShock{
		absShock("us_inflation", "2024", 2.5),
		rangeShock("us_inflation", "2024", 1, 4),
	}

	rows, errs := AlignVintages(current, prior)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if len(errs) != 1 {
		t.Fatalf("expected the prior range metric reported, got %v", errs)
	}
	if errs[0].Metric != string(domain.SelectorRange)+"/"+string(domain.FormulaRange) || !errors.Is(errs[0], ErrMissingCurrent) {
		t.Errorf("expected range ErrMissingCurrent, got %v", errs[0])
	}
}

func TestAverage(t *testing.T) {
	got := Average(
		absShock("vix", "2023", 30),
		rangeShock("us_inflation", "2023", 1, 3),
		absShock("vix", "2024", 40),
		rangeShock("us_inflation", "2024", 2, 5),
	)

	want := []domain.ComputedShock{
		absShock("vix", AverageVintage, 35),
		rangeShock("us_inflation", AverageVintage, 1.5, 4),
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("Average mismatch (-want +got):\n%s", diff)
	}
}

func TestMagnitudeAndSeverity(t *testing.T) {
	if m := Magnitude(rangeShock("x", "", 1, 3.5)); m != 2.5 {
		t.Errorf("expected range magnitude 2.5, got %v", m)
	}
	if m := Magnitude(absShock("x", "", -7)); m != 7 {
		t.Errorf("expected magnitude 7, got %v", m)
	}
	if s := Severity(absShock("x", "", -7), absShock("x", "", 7)); s != domain.SeverityUnchanged {
		t.Errorf("expected unchanged, got %s", s)
	}
}

package shock

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"scenario-shock-lab/internal/domain"
)

func TestDataFile_RoundTrip(t *testing.T) {
	shocks := []domain.ComputedShock{
		{
			FactorID: "us_equities", Vintage: "2025", Scenario: domain.ScenarioSeverelyAdverse,
			Selector: domain.SelectorMinimum, Formula: domain.FormulaIndexPctChange, Scale: 1,
			Baseline: 200, Extreme: domain.Extreme{Period: domain.MustParsePeriod("2025 Q4"), Value: 100}, Value: -50,
		},
		{
			FactorID: "treasury_3m", Vintage: "2025", Scenario: domain.ScenarioSeverelyAdverse,
			Selector: domain.SelectorRange, Formula: domain.FormulaRange, Scale: 1,
			Low:  domain.Extreme{Period: domain.MustParsePeriod("2025 Q3"), Value: 0.1},
			High: domain.Extreme{Period: domain.MustParsePeriod("2025 Q1"), Value: 4.2},
		},
	}

	path := filepath.Join(t.TempDir(), "shock_data.json")
	if err := WriteDataFile(path, NewDataFile("2025", domain.ScenarioSeverelyAdverse, "run-1", shocks)); err != nil {
		t.Fatalf("WriteDataFile failed: %v", err)
	}

	f, err := ReadDataFile(path)
	if err != nil {
		t.Fatalf("ReadDataFile failed: %v", err)
	}
	if f.RunID != "run-1" {
		t.Errorf("expected run id run-1, got %q", f.RunID)
	}
	if diff := cmp.Diff(shocks, f.ComputedShocks()); diff != "" {
		t.Errorf("shocks mismatch (-want +got):\n%s", diff)
	}
	if len(f.Shocks[0].ID) != 64 || f.Shocks[0].ID == f.Shocks[1].ID {
		t.Errorf("expected distinct metric ids, got %q and %q", f.Shocks[0].ID, f.Shocks[1].ID)
	}
	if f.Shocks[1].Value != nil || f.Shocks[1].Baseline != nil {
		t.Error("range record should omit value and baseline")
	}
}

package normalization

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"scenario-shock-lab/internal/domain"
)

func table(t *testing.T, periods []string, cols map[string][]float64, order ...string) *domain.Table {
	t.Helper()
	ps := make([]domain.Period, len(periods))
	for i, p := range periods {
		ps[i] = domain.MustParsePeriod(p)
	}
	tbl := domain.NewTable(ps)
	for _, name := range order {
		if err := tbl.AddColumn(name, cols[name]); err != nil {
			t.Fatalf("AddColumn %s: %v", name, err)
		}
	}
	return tbl
}

func TestExtractT0(t *testing.T) {
	dom := table(t, []string{"2024 Q3", "2024 Q4"}, map[string][]float64{
		"Real GDP growth": {2.8, 2.3},
		"Mortgage rate":   {6.5, math.NaN()},
	}, "Real GDP growth", "Mortgage rate")
	intl := table(t, []string{"2024 Q3", "2024 Q4"}, map[string][]float64{
		"Euro area real GDP growth": {0.9, 1.1},
	}, "Euro area real GDP growth")

	snap, err := ExtractT0(Source{"domestic", dom}, Source{"international", intl})
	if err != nil {
		t.Fatalf("ExtractT0 failed: %v", err)
	}
	if snap.Date.String() != "2024 Q4" {
		t.Errorf("expected T0 2024 Q4, got %s", snap.Date)
	}
	names := snap.Names()
	if len(names) != 3 || names[2] != "Euro area real GDP growth" {
		t.Errorf("unexpected factor order: %v", names)
	}
	if v, _ := snap.Get("Real GDP growth"); v == nil || *v != 2.3 {
		t.Errorf("expected GDP growth 2.3, got %v", v)
	}
	if v, ok := snap.Get("Mortgage rate"); !ok || v != nil {
		t.Errorf("missing cell should be present with nil value")
	}
}

func TestExtractT0_Errors(t *testing.T) {
	a := table(t, []string{"2024 Q4"}, map[string][]float64{"VIX": {17}}, "VIX")
	b := table(t, []string{"2024 Q3"}, map[string][]float64{"Euro VIX": {18}}, "Euro VIX")
	dupe := table(t, []string{"2024 Q4"}, map[string][]float64{"VIX": {19}}, "VIX")
	empty := domain.NewTable(nil)

	if _, err := ExtractT0(Source{"a", a}, Source{"b", b}); !errors.Is(err, ErrT0Mismatch) {
		t.Errorf("expected ErrT0Mismatch, got %v", err)
	}
	if _, err := ExtractT0(Source{"a", a}, Source{"dupe", dupe}); !errors.Is(err, ErrDuplicateFactor) {
		t.Errorf("expected ErrDuplicateFactor, got %v", err)
	}
	if _, err := ExtractT0(Source{"empty", empty}); !errors.Is(err, ErrEmptyTable) {
		t.Errorf("expected ErrEmptyTable, got %v", err)
	}
	if _, err := ExtractT0(); !errors.Is(err, ErrNoTables) {
		t.Errorf("expected ErrNoTables, got %v", err)
	}
}

func TestSnapshot_JSONKeepsOrder(t *testing.T) {
	v1, v3 := 4.2, -1.5
	snap := &Snapshot{
		Date: domain.MustParsePeriod("2024 Q4"),
		Factors: []FactorValue{
			{Name: "zeta", Value: &v1},
			{Name: "alpha", Value: nil},
			{Name: "mid", Value: &v3},
		},
	}

	data, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	want := `{"date":"2024 Q4","factors":{"zeta":4.2,"alpha":null,"mid":-1.5}}`
	if string(data) != want {
		t.Errorf("got %s", data)
	}

	var back Snapshot
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if got := back.Names(); got[0] != "zeta" || got[1] != "alpha" || got[2] != "mid" {
		t.Errorf("order lost: %v", got)
	}
	if back.Factors[1].Value != nil {
		t.Error("null should decode to nil")
	}
}

func TestSnapshot_InsertAfter(t *testing.T) {
	one := 1.0
	snap := &Snapshot{Factors: []FactorValue{{Name: "a"}, {Name: "b"}, {Name: "x"}}}

	snap.InsertAfter("a", "x", &one)
	if got := snap.Names(); len(got) != 3 || got[1] != "x" || got[2] != "b" {
		t.Errorf("expected [a x b], got %v", got)
	}

	snap.InsertAfter("missing", "tail", nil)
	if got := snap.Names(); got[len(got)-1] != "tail" {
		t.Errorf("missing anchor should append, got %v", got)
	}
}

package storage

import (
	"errors"
	"testing"

	"scenario-shock-lab/internal/domain"
)

func shock(vintage, factor string) *domain.ComputedShock {
	return &domain.ComputedShock{
		Vintage:  vintage,
		FactorID: factor,
		Selector: domain.SelectorMinimum,
		Formula:  domain.FormulaIndexPctChange,
	}
}

func TestCheckBatch(t *testing.T) {
	ok := []*domain.ComputedShock{shock("2025", "a"), shock("2025", "b"), shock("2024", "a")}
	if err := CheckBatch(ok, ValidateShock, ShockKey); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dup := []*domain.ComputedShock{shock("2025", "a"), shock("2025", "a")}
	if err := CheckBatch(dup, ValidateShock, ShockKey); !errors.Is(err, ErrDuplicateKey) {
		t.Errorf("expected ErrDuplicateKey, got %v", err)
	}

	bad := []*domain.ComputedShock{{Vintage: "2025", FactorID: "a", Selector: "median", Formula: domain.FormulaRange}}
	if err := CheckBatch(bad, ValidateShock, ShockKey); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}

	if err := CheckBatch([]*domain.Baseline{nil}, ValidateBaseline, BaselineKey); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for nil baseline, got %v", err)
	}
}

package normalization

import (
	"fmt"

	"scenario-shock-lab/internal/domain"
	"scenario-shock-lab/internal/registry"
)

// renames maps every registered factor to the column that carries it.
// All missing factors are reported together.
func renames(reg *registry.Registry, columns []string, where string) ([]domain.ColumnRename, error) {
	var (
		pairs   []domain.ColumnRename
		missing []string
	)
	for _, f := range reg.Factors() {
		col, ok := reg.SourceIn(f.ID, columns)
		if !ok {
			missing = append(missing, f.ID)
			continue
		}
		pairs = append(pairs, domain.ColumnRename{From: col, To: f.ID})
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w in %s: %q", ErrMissingColumns, where, missing)
	}
	return pairs, nil
}

// Select keeps the registered factors of a path, renamed to canonical ids in registry order.
func Select(t *domain.Table, reg *registry.Registry) (*domain.Table, error) {
	pairs, err := renames(reg, t.Columns(), "path")
	if err != nil {
		return nil, err
	}
	return t.Project(pairs)
}

// SelectSnapshot applies the same selection to T0.
func SelectSnapshot(s *Snapshot, reg *registry.Registry) (*Snapshot, error) {
	pairs, err := renames(reg, s.Names(), "t0")
	if err != nil {
		return nil, err
	}
	return s.Project(pairs)
}

// Baselines converts a selected T0 snapshot into per-factor baselines.
// Factors without a T0 value are skipped.
func Baselines(s *Snapshot, vintage string) []*domain.Baseline {
	out := make([]*domain.Baseline, 0, len(s.Factors))
	for _, f := range s.Factors {
		if f.Value == nil {
			continue
		}
		out = append(out, &domain.Baseline{
			FactorID: f.Name,
			Vintage:  vintage,
			Period:   s.Date,
			Value:    *f.Value,
		})
	}
	return out
}

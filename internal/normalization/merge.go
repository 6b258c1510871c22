package normalization

import (
	"fmt"
	"math"
	"sort"

	"scenario-shock-lab/internal/domain"
)

// MergePaths outer-joins regional scenario tables on period.
// Columns keep first-seen order; quarters absent from a table are missing values.
func MergePaths(sources ...Source) (*domain.Table, error) {
	if len(sources) == 0 {
		return nil, ErrNoTables
	}

	index := make(map[domain.Period]int)
	var periods []domain.Period
	for _, src := range sources {
		for _, p := range src.Table.Periods {
			if _, ok := index[p]; !ok {
				index[p] = len(periods)
				periods = append(periods, p)
			}
		}
	}
	sort.SliceStable(periods, func(i, j int) bool { return periods[i].Before(periods[j]) })
	for i, p := range periods {
		index[p] = i
	}

	merged := domain.NewTable(periods)
	owner := make(map[string]string)
	for _, src := range sources {
		for _, col := range src.Table.Columns() {
			if prev, dup := owner[col]; dup {
				return nil, fmt.Errorf("%w: %q in %s and %s", ErrDuplicateFactor, col, prev, src.Name)
			}
			owner[col] = src.Name

			values := make([]float64, len(periods))
			for i := range values {
				values[i] = math.NaN()
			}
			for i, p := range src.Table.Periods {
				values[index[p]] = src.Table.Value(col, i)
			}
			if err := merged.AddColumn(col, values); err != nil {
				return nil, err
			}
		}
	}
	return merged, nil
}

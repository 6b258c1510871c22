package domain

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// Table errors.
var (
	ErrColumnNotFound  = errors.New("column not found")
	ErrDuplicateColumn = errors.New("duplicate column")
	ErrColumnLength    = errors.New("column length does not match periods")
)

// Table is a period-indexed set of named numeric columns.
// Missing cells are NaN.
type Table struct {
	Periods []Period
	columns []string
	values  map[string][]float64
}

// NewTable creates an empty table over the given periods.
func NewTable(periods []Period) *Table {
	p := make([]Period, len(periods))
	copy(p, periods)
	return &Table{Periods: p, values: make(map[string][]float64)}
}

// Columns returns the column names in order.
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// Len returns the number of periods.
func (t *Table) Len() int {
	return len(t.Periods)
}

// HasColumn reports whether the column exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.values[name]
	return ok
}

// AddColumn appends a column.
func (t *Table) AddColumn(name string, values []float64) error {
	if _, ok := t.values[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateColumn, name)
	}
	if len(values) != len(t.Periods) {
		return fmt.Errorf("%w: %s has %d values for %d periods", ErrColumnLength, name, len(values), len(t.Periods))
	}
	v := make([]float64, len(values))
	copy(v, values)
	t.columns = append(t.columns, name)
	t.values[name] = v
	return nil
}

// InsertColumnAfter places a column right after anchor, replacing any existing column of the same name.
func (t *Table) InsertColumnAfter(anchor, name string, values []float64) error {
	if _, ok := t.values[anchor]; !ok {
		return fmt.Errorf("%w: anchor %s", ErrColumnNotFound, anchor)
	}
	if len(values) != len(t.Periods) {
		return fmt.Errorf("%w: %s has %d values for %d periods", ErrColumnLength, name, len(values), len(t.Periods))
	}
	t.dropColumn(name)

	cols := make([]string, 0, len(t.columns)+1)
	for _, c := range t.columns {
		cols = append(cols, c)
		if c == anchor {
			cols = append(cols, name)
		}
	}
	v := make([]float64, len(values))
	copy(v, values)
	t.columns = cols
	t.values[name] = v
	return nil
}

func (t *Table) dropColumn(name string) {
	if _, ok := t.values[name]; !ok {
		return
	}
	delete(t.values, name)
	for i, c := range t.columns {
		if c == name {
			t.columns = append(t.columns[:i], t.columns[i+1:]...)
			return
		}
	}
}

// Column returns a copy of the column values.
func (t *Table) Column(name string) ([]float64, bool) {
	v, ok := t.values[name]
	if !ok {
		return nil, false
	}
	out := make([]float64, len(v))
	copy(out, v)
	return out, true
}

// Value returns the cell at row i of the column. Missing cells return NaN.
func (t *Table) Value(name string, i int) float64 {
	v, ok := t.values[name]
	if !ok || i < 0 || i >= len(v) {
		return math.NaN()
	}
	return v[i]
}

// Series builds the scenario path of one column, skipping missing cells.
func (t *Table) Series(column, factorID, scenario, vintage string) (Series, error) {
	v, ok := t.values[column]
	if !ok {
		return Series{}, fmt.Errorf("%w: %s", ErrColumnNotFound, column)
	}
	s := Series{FactorID: factorID, Scenario: scenario, Vintage: vintage}
	for i, x := range v {
		if math.IsNaN(x) {
			continue
		}
		s.Observations = append(s.Observations, Observation{Period: t.Periods[i], Value: x})
	}
	return s, nil
}

// SortByPeriod orders rows chronologically. Stable for equal periods.
func (t *Table) SortByPeriod() {
	idx := make([]int, len(t.Periods))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return t.Periods[idx[a]].Before(t.Periods[idx[b]])
	})

	periods := make([]Period, len(idx))
	for i, j := range idx {
		periods[i] = t.Periods[j]
	}
	t.Periods = periods
	for name, v := range t.values {
		sorted := make([]float64, len(v))
		for i, j := range idx {
			sorted[i] = v[j]
		}
		t.values[name] = sorted
	}
}

// Project returns a new table holding only the listed source columns, renamed to their targets.
func (t *Table) Project(pairs []ColumnRename) (*Table, error) {
	out := NewTable(t.Periods)
	for _, p := range pairs {
		v, ok := t.values[p.From]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrColumnNotFound, p.From)
		}
		if err := out.AddColumn(p.To, v); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// ColumnRename maps a source column to its output name.
type ColumnRename struct {
	From string
	To   string
}

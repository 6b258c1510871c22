package normalization

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"scenario-shock-lab/internal/domain"
)

// Source table columns that are not factors.
const (
	DateColumn     = "Date"
	ScenarioColumn = "Scenario Name"
)

// Source is a named input table, e.g. one regional regulator file.
type Source struct {
	Name  string
	Table *domain.Table
}

// ReadTable parses a regulator CSV. Non-numeric cells become missing values.
// Rows are returned in chronological order.
func ReadTable(r io.Reader) (*domain.Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrMissingDateColumn
	}

	header := records[0]
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	dateIdx := -1
	var factorIdx []int
	for i, h := range header {
		switch strings.TrimSpace(h) {
		case DateColumn:
			dateIdx = i
		case ScenarioColumn:
		default:
			factorIdx = append(factorIdx, i)
		}
	}
	if dateIdx < 0 {
		return nil, ErrMissingDateColumn
	}

	var (
		periods []domain.Period
		rows    [][]string
		seen    = make(map[domain.Period]struct{})
	)
	for line, rec := range records[1:] {
		if isBlank(rec) {
			continue
		}
		if dateIdx >= len(rec) {
			return nil, fmt.Errorf("line %d: %w", line+2, ErrMissingDateColumn)
		}
		p, err := domain.ParsePeriod(rec[dateIdx])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line+2, err)
		}
		if _, dup := seen[p]; dup {
			return nil, fmt.Errorf("line %d: %w: %s", line+2, ErrDuplicatePeriod, p)
		}
		seen[p] = struct{}{}
		periods = append(periods, p)
		rows = append(rows, rec)
	}

	t := domain.NewTable(periods)
	for _, idx := range factorIdx {
		values := make([]float64, len(rows))
		for i, rec := range rows {
			values[i] = parseCell(rec, idx)
		}
		if err := t.AddColumn(strings.TrimSpace(header[idx]), values); err != nil {
			return nil, err
		}
	}
	t.SortByPeriod()
	return t, nil
}

// ReadTableFile reads a regulator CSV from disk.
func ReadTableFile(path string) (*domain.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	t, err := ReadTable(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// WriteTable writes a table as CSV with a leading Date column.
// Missing values are written as empty cells.
func WriteTable(w io.Writer, t *domain.Table) error {
	cw := csv.NewWriter(w)
	cols := t.Columns()

	if err := cw.Write(append([]string{DateColumn}, cols...)); err != nil {
		return err
	}
	for i, p := range t.Periods {
		rec := make([]string, 0, len(cols)+1)
		rec = append(rec, p.String())
		for _, c := range cols {
			rec = append(rec, formatCell(t.Value(c, i)))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTableFile writes a table to path, replacing any existing file.
func WriteTableFile(path string, t *domain.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteTable(f, t); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func parseCell(rec []string, idx int) float64 {
	if idx >= len(rec) {
		return math.NaN()
	}
	s := strings.TrimSpace(rec[idx])
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func formatCell(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func isBlank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

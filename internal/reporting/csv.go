package reporting

import (
	"encoding/csv"
	"strings"
)

// RenderCSV renders a grid as CSV with the header as first record.
func RenderCSV(g *Grid) (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	if err := w.Write(g.Header); err != nil {
		return "", err
	}
	for _, row := range g.Rows {
		rec := make([]string, len(g.Header))
		copy(rec, row.Cells)
		if err := w.Write(rec); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return sb.String(), nil
}

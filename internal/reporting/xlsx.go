package reporting

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Workbook styling.
const (
	headerFill = "1F2937"
	fontFamily = "Inter"
)

// WriteXLSX writes a grid as a single-sheet workbook.
func WriteXLSX(g *Grid, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetName(g)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}

	styles := newStyleCache(f)

	headerStyle, err := styles.get(styleKey{header: true})
	if err != nil {
		return err
	}
	for c, h := range g.Header {
		cell, _ := excelize.CoordinatesToCellName(c+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return err
		}
	}
	if err := f.SetRowHeight(sheet, 1, 35); err != nil {
		return err
	}

	for r, row := range g.Rows {
		for c := range g.Header {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			value := ""
			if c < len(row.Cells) {
				value = row.Cells[c]
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return err
			}

			fill := row.Fill
			if cf, ok := row.Fills[c]; ok {
				fill = cf
			}
			style, err := styles.get(styleKey{fill: fill, bold: row.Bold, left: c == 0})
			if err != nil {
				return err
			}
			if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
				return err
			}
		}
	}

	for _, m := range g.Merges {
		from, _ := excelize.CoordinatesToCellName(m.Col+1, m.From+2)
		to, _ := excelize.CoordinatesToCellName(m.Col+1, m.To+2)
		if err := f.MergeCell(sheet, from, to); err != nil {
			return fmt.Errorf("merge %s:%s: %w", from, to, err)
		}
	}

	for c := range g.Header {
		width := 16.0
		if c < len(g.Widths) {
			width = g.Widths[c]
		}
		col, _ := excelize.ColumnNumberToName(c + 1)
		if err := f.SetColWidth(sheet, col, col, width); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// Excel caps sheet names at 31 characters.
func sheetName(g *Grid) string {
	name := g.Title
	if name == "" {
		name = g.Name
	}
	if name == "" {
		name = "Sheet1"
	}
	if len(name) > 31 {
		name = name[:31]
	}
	return name
}

type styleKey struct {
	header bool
	fill   string
	bold   bool
	left   bool
}

type styleCache struct {
	f   *excelize.File
	ids map[styleKey]int
}

func newStyleCache(f *excelize.File) *styleCache {
	return &styleCache{f: f, ids: make(map[styleKey]int)}
}

func (s *styleCache) get(k styleKey) (int, error) {
	if id, ok := s.ids[k]; ok {
		return id, nil
	}

	st := &excelize.Style{
		Font: &excelize.Font{Family: fontFamily, Size: 10, Bold: k.bold},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
			WrapText:   true,
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 3},
			{Type: "right", Color: "000000", Style: 3},
		},
	}
	if k.left {
		st.Alignment.Horizontal = "left"
	}
	fill := k.fill
	if k.header {
		st.Font = &excelize.Font{Family: fontFamily, Size: 11, Bold: true, Color: "FFFFFF"}
		st.Alignment.Horizontal = "center"
		fill = headerFill
	}
	if fill != "" {
		st.Fill = excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{fill}}
	}

	id, err := s.f.NewStyle(st)
	if err != nil {
		return 0, fmt.Errorf("create style: %w", err)
	}
	s.ids[k] = id
	return id, nil
}

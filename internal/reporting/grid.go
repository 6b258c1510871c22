package reporting

// Grid is a rendered table ready for Markdown, CSV or XLSX output.
type Grid struct {
	Name    string // artifact base name, e.g. table_vs_history
	Title   string
	Header  []string
	Rows    []GridRow
	Merges  []Merge // vertical merges in the first column (XLSX only)
	Widths  []float64
	Caption string
}

// GridRow is one rendered row.
type GridRow struct {
	Cells []string
	Fill  string // row background, hex without '#'
	Bold  bool
	Fills map[int]string // per-cell background by column index
}

// Merge spans rows [From, To] of column Col, 0-based over Rows.
type Merge struct {
	Col  int
	From int
	To   int
}

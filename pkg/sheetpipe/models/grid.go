package models

import "github.com/tiendc/go-deepcopy"

// RawCell is a single unresolved cell as loaded from the source file.
type RawCell struct {
	// Value is the cell's displayed content.
	Value string `json:"value,omitempty"`
	// Formula is the cell's formula source, if any, without a leading "=".
	Formula string `json:"formula,omitempty"`
}

// IsEmpty reports whether the cell has neither content nor a formula.
func (c RawCell) IsEmpty() bool { return c.Value == "" && c.Formula == "" }

// RawGrid is one sheet's cells addressed by (row, column), 0-based.
// A grid is immutable once loaded; stages read it, never write it.
type RawGrid struct {
	// SourceFile is the path the grid was loaded from.
	SourceFile string `json:"source_file"`
	// SheetName is the sheet the grid came from ("" for delimited files).
	SheetName string `json:"sheet_name,omitempty"`
	// Rows holds the cells. Rows may be ragged; absent cells are empty.
	Rows [][]RawCell `json:"rows"`
}

// Cell returns the cell at (row, col), or an empty cell when out of range.
func (g *RawGrid) Cell(row, col int) RawCell {
	if row < 0 || row >= len(g.Rows) {
		return RawCell{}
	}
	r := g.Rows[row]
	if col < 0 || col >= len(r) {
		return RawCell{}
	}
	return r[col]
}

// RowCount returns the number of rows in the grid.
func (g *RawGrid) RowCount() int { return len(g.Rows) }

// ColCount returns the widest row's cell count.
func (g *RawGrid) ColCount() int {
	max := 0
	for _, r := range g.Rows {
		if len(r) > max {
			max = len(r)
		}
	}
	return max
}

// Clone returns a deep copy of the grid. Callers that need to hold raw
// rows past the pipeline must clone rather than alias the loaded grid.
func (g *RawGrid) Clone() (*RawGrid, error) {
	var out RawGrid
	if err := deepcopy.Copy(&out, g); err != nil {
		return nil, err
	}
	return &out, nil
}

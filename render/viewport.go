package render

import "math"

// Viewport maps field coordinates to terminal cells
// The bottom row is reserved for the status bar
type Viewport struct {
	Cols, Rows            int
	CellWidth, CellHeight float64
}

// NewViewport creates a viewport for a cols x rows terminal
func NewViewport(cols, rows int, cellWidth, cellHeight float64) Viewport {
	return Viewport{Cols: cols, Rows: rows, CellWidth: cellWidth, CellHeight: cellHeight}
}

// FieldRows returns the rows available to the field
func (v Viewport) FieldRows() int {
	if v.Rows <= 1 {
		return 0
	}
	return v.Rows - 1
}

// FieldSize returns the field extent covered by the terminal
func (v Viewport) FieldSize() (width, height float64) {
	return float64(v.Cols) * v.CellWidth, float64(v.FieldRows()) * v.CellHeight
}

// ToCell returns the cell containing field point (x, y), visible is false outside the field area
func (v Viewport) ToCell(x, y float64) (col, row int, visible bool) {
	if math.IsNaN(x) || math.IsNaN(y) || x < 0 || y < 0 {
		return 0, 0, false
	}
	col = int(x / v.CellWidth)
	row = int(y / v.CellHeight)
	if col >= v.Cols || row >= v.FieldRows() {
		return 0, 0, false
	}
	return col, row, true
}

// ToField returns the field coordinate at the centre of a cell
func (v Viewport) ToField(col, row int) (x, y float64) {
	return (float64(col) + 0.5) * v.CellWidth, (float64(row) + 0.5) * v.CellHeight
}

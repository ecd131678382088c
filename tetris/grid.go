package tetris

// Grid is the playfield. Row 0 is the top row.
// The dimensions are fixed at creation, only the contents change.
type Grid struct {
	rows, cols int
	cells      [][]Cell
}

// NewGrid returns an empty grid of rows x cols.
func NewGrid(rows, cols int) *Grid {
	g := &Grid{rows: rows, cols: cols, cells: make([][]Cell, rows)}
	for i := range g.cells {
		g.cells[i] = make([]Cell, cols)
	}
	return g
}

func (g *Grid) Rows() int { return g.rows }
func (g *Grid) Cols() int { return g.cols }

// At returns the cell at row, col. It returns false when the position
// is outside the grid.
func (g *Grid) At(row, col int) (Cell, bool) {
	if row < 0 || row >= g.rows || col < 0 || col >= g.cols {
		return Cell{}, false
	}
	return g.cells[row][col], true
}

// Set fills the cell at row, col. Out of bounds positions are ignored.
func (g *Grid) Set(row, col int, c Cell) {
	if row < 0 || row >= g.rows || col < 0 || col >= g.cols {
		return
	}
	g.cells[row][col] = c
}

// Cells returns a copy of the grid contents.
func (g *Grid) Cells() [][]Cell {
	c := make([][]Cell, g.rows)
	for i := range g.cells {
		c[i] = make([]Cell, g.cols)
		copy(c[i], g.cells[i])
	}
	return c
}

func (g *Grid) isFull(row int) bool {
	for _, c := range g.cells[row] {
		if c.IsEmpty() {
			return false
		}
	}
	return true
}

// removeRow drops row and inserts an empty row at the top so the
// height of the grid stays the same.
func (g *Grid) removeRow(row int) {
	copy(g.cells[1:row+1], g.cells[:row])
	g.cells[0] = make([]Cell, g.cols)
}

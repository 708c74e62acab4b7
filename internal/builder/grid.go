package builder

// Grid is the rectangular output of a Builder: rows of equal length, with
// the header as row 0 when the builder had one.
type Grid [][]string

// Rows returns the number of rows, header included.
func (g Grid) Rows() int {
	return len(g)
}

// Columns returns the width of the grid.
func (g Grid) Columns() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// Cell returns the text at row, col, or "" outside the grid.
func (g Grid) Cell(row, col int) string {
	if row < 0 || row >= len(g) || col < 0 || col >= len(g[row]) {
		return ""
	}
	return g[row][col]
}

// Column returns a copy of column col.
func (g Grid) Column(col int) []string {
	out := make([]string, 0, len(g))
	for row := range g {
		out = append(out, g.Cell(row, col))
	}
	return out
}

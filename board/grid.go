package board

// Grid holds the locked cells of the playfield. Row 0 is the top row.
type Grid struct {
	height int
	width  int
	// row-major occupancy
	cells []bool
}

// NewGrid makes an empty grid.
func NewGrid(height, width int) *Grid {
	return &Grid{
		height: height,
		width:  width,
		cells:  make([]bool, height*width),
	}
}

func (g *Grid) Height() int { return g.height }
func (g *Grid) Width() int  { return g.width }

// Occupied reports whether the cell at (row, col) is filled. The
// coordinates must be in bounds.
func (g *Grid) Occupied(row, col int) bool {
	return g.cells[row*g.width+col]
}

func (g *Grid) Set(row, col int, occupied bool) {
	g.cells[row*g.width+col] = occupied
}

func (g *Grid) row(r int) []bool {
	return g.cells[r*g.width : (r+1)*g.width]
}

// IsFree reports whether p is on the board and its cell is empty.
func (g *Grid) IsFree(p Point) bool {
	if p.Row < 0 || p.Col < 0 {
		return false
	}
	r, c := p.Cell()
	if r >= g.height || c >= g.width {
		return false
	}
	return !g.cells[r*g.width+c]
}

// IsSupported reports whether the cell right below p is filled or off the
// bottom of the board.
func (g *Grid) IsSupported(p Point) bool {
	return !g.IsFree(Point{Row: p.Row + 1, Col: p.Col})
}

// Fits reports whether all cells of the pose are free.
func (g *Grid) Fits(pose Pose) bool {
	for _, c := range pose.Cells {
		if !g.IsFree(c) {
			return false
		}
	}
	return true
}

// Landed reports whether any cell of the pose is resting on something.
func (g *Grid) Landed(pose Pose) bool {
	for _, c := range pose.Cells {
		if g.IsSupported(c) {
			return true
		}
	}
	return false
}

// Place fills the cells of the pose. The pose must fit.
func (g *Grid) Place(pose Pose) {
	for _, c := range pose.Cells {
		r, col := c.Cell()
		g.Set(r, col, true)
	}
}

// Unplace empties the cells of the pose.
func (g *Grid) Unplace(pose Pose) {
	for _, c := range pose.Cells {
		r, col := c.Cell()
		g.Set(r, col, false)
	}
}

func (g *Grid) rowFull(r int) bool {
	for _, occ := range g.row(r) {
		if !occ {
			return false
		}
	}
	return true
}

// ClearLines removes every full row, drops the rows above it, and fills
// the top with empty rows. It returns the number of rows removed.
func (g *Grid) ClearLines() int {
	cleared := 0
	dst := g.height - 1
	for src := g.height - 1; src >= 0; src-- {
		if g.rowFull(src) {
			cleared++
			continue
		}
		if dst != src {
			copy(g.row(dst), g.row(src))
		}
		dst--
	}
	for ; dst >= 0; dst-- {
		clear(g.row(dst))
	}
	return cleared
}

// ColumnTop returns the row of the topmost filled cell in col, or -1 if the
// column is empty.
func (g *Grid) ColumnTop(col int) int {
	for r := 0; r < g.height; r++ {
		if g.Occupied(r, col) {
			return r
		}
	}
	return -1
}

// Filled counts the occupied cells.
func (g *Grid) Filled() int {
	n := 0
	for _, occ := range g.cells {
		if occ {
			n++
		}
	}
	return n
}

func (g *Grid) Copy() *Grid {
	c := &Grid{height: g.height, width: g.width, cells: make([]bool, len(g.cells))}
	copy(c.cells, g.cells)
	return c
}

// CopyFrom overwrites g with o. Both grids must have the same dimensions.
func (g *Grid) CopyFrom(o *Grid) {
	copy(g.cells, o.cells)
}

// Equals compares dimensions and cells.
func (g *Grid) Equals(o *Grid) bool {
	if g.height != o.height || g.width != o.width {
		return false
	}
	for i, occ := range g.cells {
		if occ != o.cells[i] {
			return false
		}
	}
	return true
}

// Clear empties the grid.
func (g *Grid) Clear() {
	clear(g.cells)
}

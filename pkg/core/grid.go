package core

import "fmt"

// Grid stores a 2D grid of alive/dead cells in row-major order. Coordinates
// outside the grid are never wrapped: they have no index and read as dead.
type Grid struct {
	W, H int
	data []bool
}

// NewGrid allocates an all-dead grid with the given dimensions. Non-positive
// dimensions are a programming error and panic.
func NewGrid(w, h int) *Grid {
	if w <= 0 || h <= 0 {
		panic(fmt.Sprintf("core: invalid grid size %dx%d", w, h))
	}
	return &Grid{W: w, H: h, data: make([]bool, w*h)}
}

// Cells exposes the backing slice so callers can read/write values directly.
func (g *Grid) Cells() []bool { return g.data }

// Index returns the linear slice index for (row, column), or -1 when the
// coordinate lies outside the grid.
func (g *Grid) Index(row, column int) int {
	if row < 0 || row >= g.H || column < 0 || column >= g.W {
		return -1
	}
	return row*g.W + column
}

// Alive reports the state of the cell at (row, column). Out-of-range
// coordinates are dead.
func (g *Grid) Alive(row, column int) bool {
	idx := g.Index(row, column)
	return idx >= 0 && g.data[idx]
}

// Set updates the cell at (row, column). Out-of-range writes are ignored.
func (g *Grid) Set(row, column int, alive bool) {
	if idx := g.Index(row, column); idx >= 0 {
		g.data[idx] = alive
	}
}

// Neighbors counts alive cells among the eight positions surrounding
// (row, column).
func (g *Grid) Neighbors(row, column int) int {
	n := 0
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			if g.Alive(row+dr, column+dc) {
				n++
			}
		}
	}
	return n
}

// Count returns the number of alive cells.
func (g *Grid) Count() int {
	n := 0
	for _, alive := range g.data {
		if alive {
			n++
		}
	}
	return n
}

// CopyFrom overwrites g with the contents of src. Both grids must share
// dimensions.
func (g *Grid) CopyFrom(src *Grid) {
	if src.W != g.W || src.H != g.H {
		panic(fmt.Sprintf("core: copy %dx%d into %dx%d", src.W, src.H, g.W, g.H))
	}
	copy(g.data, src.data)
}

// Clear marks every cell dead.
func (g *Grid) Clear() {
	for i := range g.data {
		g.data[i] = false
	}
}

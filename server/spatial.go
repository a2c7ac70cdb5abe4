package main

import (
	"cmp"
	"math"
	"slices"
)

// SpatialCellSize is the target broad-phase cell size, about four times the
// largest enemy radius. The real size is stretched so cells tile the world
// exactly and wrap cleanly.
const SpatialCellSize = 100.0

// EntityRef identifies an entity in the grid
type EntityRef struct {
	Kind byte // 'p'=player, 'e'=enemy, 'r'=projectile
	Idx  int  // index into the corresponding flat list
}

// SpatialGrid is a uniform grid for broad-phase collision queries on a
// wrapped square world. Queries that cross an edge continue on the far side.
type SpatialGrid struct {
	cellSize float64
	cols     int
	cells    [][]EntityRef
}

// NewSpatialGrid creates a grid covering a world of the given side length
func NewSpatialGrid(worldSize float64) *SpatialGrid {
	cols := int(math.Ceil(worldSize / SpatialCellSize))
	if cols < 1 {
		cols = 1
	}
	return &SpatialGrid{
		cellSize: worldSize / float64(cols),
		cols:     cols,
		cells:    make([][]EntityRef, cols*cols),
	}
}

// Clear resets all cells (keeps allocated capacity)
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

func (g *SpatialGrid) wrapCell(c int) int {
	return ((c % g.cols) + g.cols) % g.cols
}

// span returns the first cell and the number of cells covering [lo, hi]
func (g *SpatialGrid) span(lo, hi float64) (int, int) {
	minC := int(math.Floor(lo / g.cellSize))
	maxC := int(math.Floor(hi / g.cellSize))
	n := maxC - minC + 1
	if n >= g.cols {
		return 0, g.cols
	}
	return minC, n
}

// Insert adds an entity reference at the given position
func (g *SpatialGrid) Insert(x, y float64, ref EntityRef) {
	cx := g.wrapCell(int(math.Floor(x / g.cellSize)))
	cy := g.wrapCell(int(math.Floor(y / g.cellSize)))
	idx := cy*g.cols + cx
	g.cells[idx] = append(g.cells[idx], ref)
}

// InsertCircle adds an entity reference to all cells overlapping its bounding box
func (g *SpatialGrid) InsertCircle(x, y, radius float64, ref EntityRef) {
	x0, nx := g.span(x-radius, x+radius)
	y0, ny := g.span(y-radius, y+radius)
	for j := 0; j < ny; j++ {
		cy := g.wrapCell(y0 + j)
		for i := 0; i < nx; i++ {
			idx := cy*g.cols + g.wrapCell(x0+i)
			g.cells[idx] = append(g.cells[idx], ref)
		}
	}
}

// Query returns all entity refs in cells that overlap the given bounding box
func (g *SpatialGrid) Query(x, y, radius float64) []EntityRef {
	return g.QueryBuf(x, y, radius, nil)
}

// QueryBuf appends results to buf and returns the extended slice, avoiding per-call allocation
func (g *SpatialGrid) QueryBuf(x, y, radius float64, buf []EntityRef) []EntityRef {
	x0, nx := g.span(x-radius, x+radius)
	y0, ny := g.span(y-radius, y+radius)
	for j := 0; j < ny; j++ {
		cy := g.wrapCell(y0 + j)
		for i := 0; i < nx; i++ {
			buf = append(buf, g.cells[cy*g.cols+g.wrapCell(x0+i)]...)
		}
	}
	return buf
}

// SortRefs orders refs by kind then index and drops duplicates, restoring
// the input order of the flat lists the grid was built from.
func SortRefs(refs []EntityRef) []EntityRef {
	slices.SortFunc(refs, func(a, b EntityRef) int {
		if c := cmp.Compare(a.Kind, b.Kind); c != 0 {
			return c
		}
		return cmp.Compare(a.Idx, b.Idx)
	})
	return slices.Compact(refs)
}

package sim

import "math"

// ObstacleGrid is a coarse blocked/unblocked bitmap over the world, rebuilt
// wholesale from the obstacle list at most once every GridRebuildInterval
// ticks. The owner keeps one per simulation.
type ObstacleGrid struct {
	world    World
	cellSize float64
	cols     int
	rows     int
	cells    []bool

	built       bool
	lastRebuild uint64
	rebuilds    int
}

// NewObstacleGrid allocates an empty grid covering w. Nothing is blocked
// until the first Rebuild.
func NewObstacleGrid(w World) *ObstacleGrid {
	n := int(math.Ceil(w.Size / GridCellSize))
	if n < 1 {
		n = 1
	}
	return &ObstacleGrid{
		world:    w,
		cellSize: GridCellSize,
		cols:     n,
		rows:     n,
		cells:    make([]bool, n*n),
	}
}

func (g *ObstacleGrid) World() World      { return g.world }
func (g *ObstacleGrid) CellSize() float64 { return g.cellSize }
func (g *ObstacleGrid) Cols() int         { return g.cols }
func (g *ObstacleGrid) Rows() int         { return g.rows }
func (g *ObstacleGrid) Built() bool       { return g.built }

// Rebuilds returns how many times the grid has been recomputed.
func (g *ObstacleGrid) Rebuilds() int { return g.rebuilds }

// Rebuild recomputes every cell from obstacles unless the grid was built
// fewer than GridRebuildInterval ticks ago. It reports whether a rebuild
// happened. A tick counter that went backwards forces a rebuild.
func (g *ObstacleGrid) Rebuild(obstacles []Obstacle, tick uint64) bool {
	if g.built && tick >= g.lastRebuild && tick-g.lastRebuild < GridRebuildInterval {
		return false
	}

	const proximitySq = GridProximityRadius * GridProximityRadius
	for cy := 0; cy < g.rows; cy++ {
		for cx := 0; cx < g.cols; cx++ {
			x, y := g.CellCenter(cx, cy)
			blocked := false
			for i := range obstacles {
				o := &obstacles[i]
				if !o.Blocks() {
					continue
				}
				if g.world.DistanceSq(x, y, o.X, o.Y) > proximitySq {
					continue
				}
				if g.world.Overlaps(x, y, GridObstacleMargin, *o) {
					blocked = true
					break
				}
			}
			g.cells[cy*g.cols+cx] = blocked
		}
	}

	g.built = true
	g.lastRebuild = tick
	g.rebuilds++
	return true
}

// IsBlocked reports whether a cell is blocked. Coordinates outside the grid
// are open.
func (g *ObstacleGrid) IsBlocked(cx, cy int) bool {
	if cx < 0 || cy < 0 || cx >= g.cols || cy >= g.rows {
		return false
	}
	return g.cells[cy*g.cols+cx]
}

// CellOf maps a world position (wrapped first) to its cell.
func (g *ObstacleGrid) CellOf(x, y float64) Cell {
	x, y = g.world.WrapPoint(x, y)
	cx := int(x / g.cellSize)
	cy := int(y / g.cellSize)
	if cx >= g.cols {
		cx = g.cols - 1
	}
	if cy >= g.rows {
		cy = g.rows - 1
	}
	return Cell{X: cx, Y: cy}
}

// CellCenter returns the world position of a cell's centre.
func (g *ObstacleGrid) CellCenter(cx, cy int) (float64, float64) {
	return (float64(cx) + 0.5) * g.cellSize, (float64(cy) + 0.5) * g.cellSize
}

// BlockedAt reports whether the cell containing (x, y) is blocked.
func (g *ObstacleGrid) BlockedAt(x, y float64) bool {
	c := g.CellOf(x, y)
	return g.IsBlocked(c.X, c.Y)
}

// RaycastClear samples the wrapped segment from (x1, y1) to (x2, y2) every
// half cell and fails on the first blocked sample. Both endpoints are
// sampled.
func (g *ObstacleGrid) RaycastClear(x1, y1, x2, y2 float64) bool {
	dx := g.world.Delta(x1, x2)
	dy := g.world.Delta(y1, y2)
	length := math.Sqrt(dx*dx + dy*dy)
	steps := int(math.Ceil(length / (g.cellSize / 2)))
	if steps < 1 {
		return !g.BlockedAt(x1, y1)
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		if g.BlockedAt(x1+dx*t, y1+dy*t) {
			return false
		}
	}
	return true
}

// Snapshot copies the blocked bitmap in row-major order.
func (g *ObstacleGrid) Snapshot() []bool {
	out := make([]bool, len(g.cells))
	copy(out, g.cells)
	return out
}

// BlockedCount returns the number of blocked cells.
func (g *ObstacleGrid) BlockedCount() int {
	n := 0
	for _, b := range g.cells {
		if b {
			n++
		}
	}
	return n
}

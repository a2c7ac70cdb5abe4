package sim

import (
	"container/heap"
	"math"
)

// Cell addresses one square of an ObstacleGrid.
type Cell struct {
	X, Y int
}

// Route is the result of a FindPath call. A direct route carries no cells:
// the straight line to the destination is clear. Otherwise Cells runs from
// the first step after the start to the goal, or to the closest cell the
// search reached when Partial is set.
type Route struct {
	Direct  bool
	Cells   []Cell
	Partial bool
}

// Next returns the first cell to head for.
func (r Route) Next() (Cell, bool) {
	if len(r.Cells) == 0 {
		return Cell{}, false
	}
	return r.Cells[0], true
}

// neighbours in N, NE, E, SE, S, SW, W, NW order. The fixed order keeps
// searches deterministic.
var neighbours = [8]struct {
	dx, dy int
	cost   float64
}{
	{0, -1, 1}, {1, -1, math.Sqrt2}, {1, 0, 1}, {1, 1, math.Sqrt2},
	{0, 1, 1}, {-1, 1, math.Sqrt2}, {-1, 0, 1}, {-1, -1, math.Sqrt2},
}

type openNode struct {
	idx int
	f   float64
	seq uint64 // insertion order, breaks f ties
}

// openSet implements heap.Interface as a min-heap on f.
type openSet []openNode

func (s openSet) Len() int { return len(s) }

func (s openSet) Less(i, j int) bool {
	if s[i].f != s[j].f {
		return s[i].f < s[j].f
	}
	return s[i].seq < s[j].seq
}

func (s openSet) Swap(i, j int) { s[i], s[j] = s[j], s[i] }

func (s *openSet) Push(x interface{}) { *s = append(*s, x.(openNode)) }

func (s *openSet) Pop() interface{} {
	old := *s
	n := len(old)
	item := old[n-1]
	*s = old[:n-1]
	return item
}

// Pathfinder runs budgeted A* searches over an ObstacleGrid. Scratch
// buffers are reused between calls, so a Pathfinder must not be shared
// between goroutines.
type Pathfinder struct {
	grid *ObstacleGrid

	g      []float64
	h      []float64
	parent []int32
	opened []uint32 // generation stamp: node has a g score this search
	closed []uint32 // generation stamp: node was expanded this search
	gen    uint32
	open   openSet
	seq    uint64

	// Expanded is the number of nodes expanded by the last search.
	Expanded int
}

// NewPathfinder binds a pathfinder to grid.
func NewPathfinder(grid *ObstacleGrid) *Pathfinder {
	n := grid.cols * grid.rows
	return &Pathfinder{
		grid:   grid,
		g:      make([]float64, n),
		h:      make([]float64, n),
		parent: make([]int32, n),
		opened: make([]uint32, n),
		closed: make([]uint32, n),
		open:   make(openSet, 0, 64),
	}
}

// Grid returns the grid the pathfinder searches.
func (pf *Pathfinder) Grid() *ObstacleGrid { return pf.grid }

// FindPath plans from one world position to another. When the destination
// cell is open and the straight line is clear no search runs and a direct
// route is returned. ok is false when no useful route exists.
func (pf *Pathfinder) FindPath(fromX, fromY, toX, toY float64) (Route, bool) {
	grid := pf.grid
	goal := grid.CellOf(toX, toY)
	if !grid.IsBlocked(goal.X, goal.Y) && grid.RaycastClear(fromX, fromY, toX, toY) {
		return Route{Direct: true}, true
	}
	cells, partial := pf.Search(grid.CellOf(fromX, fromY), goal)
	if cells == nil {
		return Route{}, false
	}
	return Route{Cells: cells, Partial: partial}, true
}

// Search runs A* from start to goal. Neighbours wrap around the grid edges.
// After PathNodeBudget expansions, or when the open set drains, the
// expanded node with the smallest heuristic is walked back instead and
// partial is true. A nil path means nothing better than the start was
// found.
func (pf *Pathfinder) Search(start, goal Cell) (path []Cell, partial bool) {
	grid := pf.grid
	cols, rows := grid.cols, grid.rows
	pf.Expanded = 0
	if start == goal {
		return nil, false
	}
	pf.begin()

	si := start.Y*cols + start.X
	gi := goal.Y*cols + goal.X
	gx, gy := grid.CellCenter(goal.X, goal.Y)

	pf.g[si] = 0
	pf.h[si] = pf.heuristic(start.X, start.Y, gx, gy)
	pf.parent[si] = -1
	pf.opened[si] = pf.gen
	pf.push(si, pf.h[si])

	best := si
	for pf.open.Len() > 0 {
		cur := heap.Pop(&pf.open).(openNode)
		if pf.closed[cur.idx] == pf.gen {
			continue
		}
		pf.closed[cur.idx] = pf.gen
		if cur.idx == gi {
			return pf.walk(gi), false
		}

		pf.Expanded++
		if pf.h[cur.idx] < pf.h[best] {
			best = cur.idx
		}
		if pf.Expanded >= PathNodeBudget {
			break
		}

		cx, cy := cur.idx%cols, cur.idx/cols
		for _, nb := range neighbours {
			nx := (cx + nb.dx + cols) % cols
			ny := (cy + nb.dy + rows) % rows
			if grid.IsBlocked(nx, ny) {
				continue
			}
			if nb.dx != 0 && nb.dy != 0 &&
				grid.IsBlocked((cx+nb.dx+cols)%cols, cy) &&
				grid.IsBlocked(cx, (cy+nb.dy+rows)%rows) {
				continue
			}
			ni := ny*cols + nx
			if pf.closed[ni] == pf.gen {
				continue
			}
			ng := pf.g[cur.idx] + nb.cost
			if pf.opened[ni] == pf.gen && ng >= pf.g[ni] {
				continue
			}
			pf.opened[ni] = pf.gen
			pf.g[ni] = ng
			pf.h[ni] = pf.heuristic(nx, ny, gx, gy)
			pf.parent[ni] = int32(cur.idx)
			pf.push(ni, ng+pf.h[ni])
		}
	}

	if best == si {
		return nil, true
	}
	return pf.walk(best), true
}

// Waypoint returns the world point a mover at (fromX, fromY) should head
// for this tick: the destination itself on a direct route, otherwise the
// centre of the first path cell.
func (pf *Pathfinder) Waypoint(fromX, fromY, toX, toY float64) (x, y float64, ok bool) {
	route, ok := pf.FindPath(fromX, fromY, toX, toY)
	if !ok {
		return 0, 0, false
	}
	if route.Direct {
		return toX, toY, true
	}
	next, _ := route.Next()
	x, y = pf.grid.CellCenter(next.X, next.Y)
	return x, y, true
}

// Steer returns a velocity of magnitude speed toward this tick's waypoint.
// Only the first path cell is used; callers re-plan every tick.
func (pf *Pathfinder) Steer(fromX, fromY, toX, toY, speed float64) (vx, vy float64, ok bool) {
	wx, wy, ok := pf.Waypoint(fromX, fromY, toX, toY)
	if !ok {
		return 0, 0, false
	}
	ux, uy, ok := pf.grid.world.Direction(fromX, fromY, wx, wy)
	if !ok {
		return 0, 0, false
	}
	return ux * speed, uy * speed, true
}

// heuristic is the squared wrapped distance in world units from a cell
// centre to the goal centre. It orders the open set and is never used as a
// physical distance.
func (pf *Pathfinder) heuristic(cx, cy int, gx, gy float64) float64 {
	x, y := pf.grid.CellCenter(cx, cy)
	return pf.grid.world.DistanceSq(x, y, gx, gy)
}

func (pf *Pathfinder) begin() {
	pf.gen++
	if pf.gen == 0 {
		// Stamp wrapped around; old stamps could alias the new generation.
		for i := range pf.opened {
			pf.opened[i] = 0
			pf.closed[i] = 0
		}
		pf.gen = 1
	}
	pf.open = pf.open[:0]
	pf.seq = 0
}

func (pf *Pathfinder) push(idx int, f float64) {
	pf.seq++
	heap.Push(&pf.open, openNode{idx: idx, f: f, seq: pf.seq})
}

// walk follows parent links back to the start, excluding the start cell.
func (pf *Pathfinder) walk(idx int) []Cell {
	cols := pf.grid.cols
	var rev []Cell
	for pf.parent[idx] >= 0 {
		rev = append(rev, Cell{X: idx % cols, Y: idx / cols})
		idx = int(pf.parent[idx])
	}
	for i, j := 0, len(rev)-1; i < j; i, j = i+1, j-1 {
		rev[i], rev[j] = rev[j], rev[i]
	}
	return rev
}

package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// wallX builds a vertical wall of 50x50 boxes centred on x from y0 to y1.
func wallX(x, y0, y1 float64) []Obstacle {
	var out []Obstacle
	for y := y0; y <= y1; y += 50 {
		out = append(out, box(x, y, 25, 25))
	}
	return out
}

func builtGrid(t *testing.T, obstacles []Obstacle) *ObstacleGrid {
	t.Helper()
	g := NewObstacleGrid(testWorld)
	require.True(t, g.Rebuild(obstacles, 0))
	return g
}

func adjacent(g *ObstacleGrid, a, b Cell) bool {
	dx := (a.X - b.X + g.Cols()) % g.Cols()
	dy := (a.Y - b.Y + g.Rows()) % g.Rows()
	okX := dx == 0 || dx == 1 || dx == g.Cols()-1
	okY := dy == 0 || dy == 1 || dy == g.Rows()-1
	return okX && okY && a != b
}

func TestFindPathDirectWhenClear(t *testing.T) {
	pf := NewPathfinder(builtGrid(t, nil))
	route, ok := pf.FindPath(100, 100, 900, 700)
	require.True(t, ok)
	assert.True(t, route.Direct)
	assert.Nil(t, route.Cells)
	assert.Equal(t, 0, pf.Expanded, "direct routes must not search")
}

func TestFindPathAroundWall(t *testing.T) {
	g := builtGrid(t, wallX(1000, 700, 1300))
	pf := NewPathfinder(g)

	route, ok := pf.FindPath(900, 1000, 1100, 1000)
	require.True(t, ok)
	assert.False(t, route.Direct)
	assert.False(t, route.Partial)
	require.NotEmpty(t, route.Cells)

	start := g.CellOf(900, 1000)
	goal := g.CellOf(1100, 1000)
	assert.Equal(t, goal, route.Cells[len(route.Cells)-1])
	assert.True(t, adjacent(g, start, route.Cells[0]))
	for i, c := range route.Cells {
		assert.False(t, g.IsBlocked(c.X, c.Y), "cell %d %v is blocked", i, c)
		if i > 0 {
			assert.True(t, adjacent(g, route.Cells[i-1], c), "cells %d and %d not adjacent", i-1, i)
		}
	}
	assert.LessOrEqual(t, pf.Expanded, PathNodeBudget)
}

func TestFindPathDeterministic(t *testing.T) {
	g := builtGrid(t, wallX(1000, 700, 1300))
	pf := NewPathfinder(g)

	first, ok := pf.FindPath(900, 1000, 1100, 1000)
	require.True(t, ok)
	second, ok := pf.FindPath(900, 1000, 1100, 1000)
	require.True(t, ok)
	assert.Equal(t, first, second)

	other := NewPathfinder(g)
	third, _ := other.FindPath(900, 1000, 1100, 1000)
	assert.Equal(t, first, third)
}

func TestSearchPartialWhenGoalUnreachable(t *testing.T) {
	g := builtGrid(t, []Obstacle{box(1000, 1000, 25, 25)})
	pf := NewPathfinder(g)

	goal := g.CellOf(1000, 1000)
	require.True(t, g.IsBlocked(goal.X, goal.Y))

	route, ok := pf.FindPath(500, 1000, 1000, 1000)
	require.True(t, ok)
	assert.True(t, route.Partial)
	assert.Equal(t, PathNodeBudget, pf.Expanded)
	require.NotEmpty(t, route.Cells)

	// The closest open cells to the goal centre sit one cell away.
	last := route.Cells[len(route.Cells)-1]
	lx, ly := g.CellCenter(last.X, last.Y)
	gx, gy := g.CellCenter(goal.X, goal.Y)
	assert.Equal(t, 2500.0, testWorld.DistanceSq(lx, ly, gx, gy))
}

func TestSearchNilWhenStartEnclosed(t *testing.T) {
	g := builtGrid(t, nil)
	start := Cell{X: 10, Y: 10}
	for _, nb := range neighbours {
		g.cells[(start.Y+nb.dy)*g.cols+start.X+nb.dx] = true
	}
	pf := NewPathfinder(g)

	path, partial := pf.Search(start, Cell{X: 30, Y: 30})
	assert.Nil(t, path)
	assert.True(t, partial)
	assert.Equal(t, 1, pf.Expanded)

	_, ok := pf.FindPath(525, 525, 1525, 1525)
	assert.False(t, ok)
}

func TestSearchWrapsAroundEdges(t *testing.T) {
	g := builtGrid(t, nil)
	pf := NewPathfinder(g)

	path, partial := pf.Search(Cell{X: 0, Y: 5}, Cell{X: 39, Y: 5})
	assert.False(t, partial)
	assert.Equal(t, []Cell{{X: 39, Y: 5}}, path)
}

func TestSearchSameCell(t *testing.T) {
	pf := NewPathfinder(builtGrid(t, nil))
	path, partial := pf.Search(Cell{X: 3, Y: 3}, Cell{X: 3, Y: 3})
	assert.Nil(t, path)
	assert.False(t, partial)
}

func TestSearchNoDiagonalSqueeze(t *testing.T) {
	g := builtGrid(t, nil)
	// Block E and S of (5,5); the SE diagonal must not be taken directly.
	g.cells[5*g.cols+6] = true
	g.cells[6*g.cols+5] = true
	pf := NewPathfinder(g)

	path, _ := pf.Search(Cell{X: 5, Y: 5}, Cell{X: 6, Y: 6})
	require.NotEmpty(t, path)
	assert.Greater(t, len(path), 1)
	assert.Equal(t, Cell{X: 6, Y: 6}, path[len(path)-1])
}

func TestSteerDirectAndWrapped(t *testing.T) {
	pf := NewPathfinder(builtGrid(t, nil))

	vx, vy, ok := pf.Steer(100, 100, 200, 100, 3)
	require.True(t, ok)
	assert.InDelta(t, 3.0, vx, 1e-9)
	assert.InDelta(t, 0.0, vy, 1e-9)

	vx, vy, ok = pf.Steer(1990, 100, 10, 100, 2)
	require.True(t, ok)
	assert.InDelta(t, 2.0, vx, 1e-9)
	assert.InDelta(t, 0.0, vy, 1e-9)
}

func TestWaypointFollowsFirstCell(t *testing.T) {
	g := builtGrid(t, wallX(1000, 700, 1300))
	pf := NewPathfinder(g)

	route, ok := pf.FindPath(900, 1000, 1100, 1000)
	require.True(t, ok)
	next, _ := route.Next()
	cx, cy := g.CellCenter(next.X, next.Y)

	wx, wy, ok := pf.Waypoint(900, 1000, 1100, 1000)
	require.True(t, ok)
	assert.Equal(t, cx, wx)
	assert.Equal(t, cy, wy)
}

package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func box(x, y, hw, hh float64) Obstacle {
	return Obstacle{X: x, Y: y, HalfW: hw, HalfH: hh, Kind: Blocking}
}

func TestGridDimensions(t *testing.T) {
	g := NewObstacleGrid(World{Size: 2000})
	assert.Equal(t, 40, g.Cols())
	assert.Equal(t, 40, g.Rows())

	g = NewObstacleGrid(World{Size: 1990})
	assert.Equal(t, 40, g.Cols())
	assert.False(t, g.Built())
}

func TestGridRebuildCadence(t *testing.T) {
	g := NewObstacleGrid(testWorld)
	obstacles := []Obstacle{}

	require.True(t, g.Rebuild(obstacles, 0))
	assert.True(t, g.Built())

	obstacles = append(obstacles, box(500, 500, 25, 25))
	assert.False(t, g.Rebuild(obstacles, 30))
	assert.False(t, g.Rebuild(obstacles, 59))
	assert.False(t, g.BlockedAt(500, 500), "stale grid must not see the new obstacle yet")

	assert.True(t, g.Rebuild(obstacles, 60))
	assert.True(t, g.BlockedAt(500, 500))
	assert.Equal(t, 2, g.Rebuilds())
}

func TestGridRebuildAfterTickReset(t *testing.T) {
	g := NewObstacleGrid(testWorld)
	require.True(t, g.Rebuild(nil, 500))
	assert.True(t, g.Rebuild(nil, 10))
}

func TestGridMarksCellsNearObstacle(t *testing.T) {
	g := NewObstacleGrid(testWorld)
	g.Rebuild([]Obstacle{box(500, 500, 25, 25)}, 0)

	// Centres 475 and 525 fall inside 25+20 of 500; 575 does not.
	assert.True(t, g.IsBlocked(9, 9))
	assert.True(t, g.IsBlocked(10, 10))
	assert.True(t, g.IsBlocked(9, 10))
	assert.False(t, g.IsBlocked(11, 10))
	assert.False(t, g.IsBlocked(8, 10))
	assert.Equal(t, 4, g.BlockedCount())
}

func TestGridSkipsPassable(t *testing.T) {
	g := NewObstacleGrid(testWorld)
	fountain := box(500, 500, 25, 25)
	fountain.Kind = Passable
	g.Rebuild([]Obstacle{fountain}, 0)
	assert.Equal(t, 0, g.BlockedCount())
}

func TestGridProximityPrefilter(t *testing.T) {
	g := NewObstacleGrid(testWorld)
	// A long thin wall: only cells within 80 of its centre are considered.
	g.Rebuild([]Obstacle{box(1000, 1000, 200, 10)}, 0)

	assert.True(t, g.BlockedAt(1075, 1025))
	assert.True(t, g.BlockedAt(925, 975))
	assert.False(t, g.BlockedAt(1175, 1025), "inside bounds but beyond the pre-filter radius")
	assert.Equal(t, 8, g.BlockedCount())
}

func TestGridObstacleAcrossEdge(t *testing.T) {
	g := NewObstacleGrid(testWorld)
	g.Rebuild([]Obstacle{box(0, 500, 25, 25)}, 0)
	assert.True(t, g.IsBlocked(0, 10))
	assert.True(t, g.IsBlocked(39, 10))
	assert.False(t, g.IsBlocked(1, 10))
}

func TestGridOutOfRangeIsOpen(t *testing.T) {
	g := NewObstacleGrid(testWorld)
	for i := range g.cells {
		g.cells[i] = true
	}
	assert.False(t, g.IsBlocked(-1, 0))
	assert.False(t, g.IsBlocked(0, -1))
	assert.False(t, g.IsBlocked(40, 0))
	assert.False(t, g.IsBlocked(0, 40))
	assert.True(t, g.IsBlocked(0, 0))
}

func TestGridCellOfWraps(t *testing.T) {
	g := NewObstacleGrid(testWorld)
	assert.Equal(t, Cell{X: 39, Y: 0}, g.CellOf(-1, 10))
	assert.Equal(t, Cell{X: 0, Y: 0}, g.CellOf(2000, 0))
	assert.Equal(t, Cell{X: 10, Y: 3}, g.CellOf(520, 199))

	x, y := g.CellCenter(10, 3)
	assert.Equal(t, 525.0, x)
	assert.Equal(t, 175.0, y)
}

func TestRaycastClear(t *testing.T) {
	g := NewObstacleGrid(testWorld)
	g.Rebuild([]Obstacle{box(1000, 1000, 10, 60), box(0, 500, 25, 25)}, 0)

	assert.False(t, g.RaycastClear(900, 1000, 1100, 1000))
	assert.True(t, g.RaycastClear(900, 500-200, 1100, 500-200))
	assert.True(t, g.RaycastClear(300, 300, 300, 300))
	assert.False(t, g.RaycastClear(1000, 1000, 1000, 1000), "single sample inside a blocked cell")

	// The short way from 1990 to 10 crosses x=0 where the second box sits.
	assert.False(t, g.RaycastClear(1990, 500, 10, 500))
	assert.True(t, g.RaycastClear(1990, 700, 10, 700))
}

func TestSnapshotIsCopy(t *testing.T) {
	g := NewObstacleGrid(testWorld)
	g.Rebuild([]Obstacle{box(500, 500, 25, 25)}, 0)
	snap := g.Snapshot()
	require.Len(t, snap, 40*40)
	snap[0] = true
	assert.False(t, g.IsBlocked(0, 0))
}

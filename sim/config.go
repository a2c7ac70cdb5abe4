// Package sim is the spatial simulation core of the arena: wrap-aware
// geometry, the obstacle grid, A* steering, wall sliding and combat
// resolution. Everything here is synchronous and expects to be driven from
// a single tick goroutine.
package sim

// Tuned constants. They have no derivation; keep them as-is unless the
// game feel changes.
const (
	GridCellSize        = 50.0 // world units per grid cell
	GridRebuildInterval = 60   // ticks between grid rebuilds (1s at 60Hz)
	GridObstacleMargin  = 20.0 // cell centre padding around obstacle bounds
	GridProximityRadius = 80.0 // cheap distance pre-filter before the AABB test

	PathNodeBudget = 300 // A* expansions per FindPath call

	PlayerMoveMargin = 8.0  // obstacle padding for player movement
	EnemyMoveMargin  = 30.0 // obstacle padding for enemy wall sliding

	ExplosionDamageMultiplier = 0.5
	ContactDamageInterval     = 30 // ticks between contact damage applications
	SplitCount                = 3
)

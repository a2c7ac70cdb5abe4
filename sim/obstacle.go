package sim

import "math"

// ObstacleKind tells whether an obstacle takes part in collision.
type ObstacleKind uint8

const (
	Blocking ObstacleKind = iota
	Passable              // fountains and decor; ignored by every check
)

func (k ObstacleKind) String() string {
	if k == Passable {
		return "passable"
	}
	return "blocking"
}

// Obstacle is an axis-aligned rectangle centred on (X, Y).
type Obstacle struct {
	X, Y         float64
	HalfW, HalfH float64
	Kind         ObstacleKind
}

// Blocks reports whether the obstacle obstructs movement and pathing.
func (o Obstacle) Blocks() bool {
	return o.Kind == Blocking
}

// Overlaps reports whether (x, y) lies inside o's bounds grown by margin,
// measured along the wrapped axes. Passable obstacles never overlap.
func (w World) Overlaps(x, y, margin float64, o Obstacle) bool {
	if !o.Blocks() {
		return false
	}
	return math.Abs(w.Delta(o.X, x)) < o.HalfW+margin &&
		math.Abs(w.Delta(o.Y, y)) < o.HalfH+margin
}

// Blocked reports whether (x, y) overlaps any blocking obstacle.
func (w World) Blocked(x, y, margin float64, obstacles []Obstacle) bool {
	for i := range obstacles {
		if w.Overlaps(x, y, margin, obstacles[i]) {
			return true
		}
	}
	return false
}

package sim

import "math"

// World is a square plane whose edges wrap onto the opposite edge.
type World struct {
	Size float64
}

// Wrap folds p into [0, Size).
func (w World) Wrap(p float64) float64 {
	r := math.Mod(math.Mod(p, w.Size)+w.Size, w.Size)
	// Mod of a tiny negative can round up to Size.
	if r >= w.Size {
		r = 0
	}
	return r
}

// WrapPoint wraps both coordinates.
func (w World) WrapPoint(x, y float64) (float64, float64) {
	return w.Wrap(x), w.Wrap(y)
}

// Delta returns the shortest signed displacement from a to b.
func (w World) Delta(a, b float64) float64 {
	d := b - a
	half := w.Size / 2
	if d > half {
		d -= w.Size
	} else if d < -half {
		d += w.Size
	}
	return d
}

// Distance returns the wrapped Euclidean distance between two points.
func (w World) Distance(ax, ay, bx, by float64) float64 {
	return math.Sqrt(w.DistanceSq(ax, ay, bx, by))
}

// DistanceSq returns the squared wrapped distance. Only meaningful for
// comparisons.
func (w World) DistanceSq(ax, ay, bx, by float64) float64 {
	dx := w.Delta(ax, bx)
	dy := w.Delta(ay, by)
	return dx*dx + dy*dy
}

// Angle returns the heading from a to b along the shortest wrapped path.
func (w World) Angle(ax, ay, bx, by float64) float64 {
	return math.Atan2(w.Delta(ay, by), w.Delta(ax, bx))
}

// Direction returns the unit vector from a to b along the shortest wrapped
// path. ok is false when the points coincide.
func (w World) Direction(ax, ay, bx, by float64) (ux, uy float64, ok bool) {
	dx := w.Delta(ax, bx)
	dy := w.Delta(ay, by)
	l := math.Sqrt(dx*dx + dy*dy)
	if l == 0 {
		return 0, 0, false
	}
	return dx / l, dy / l, true
}

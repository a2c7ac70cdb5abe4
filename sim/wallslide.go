package sim

// Slide is an enemy's commitment to circle an obstacle on one side. It
// lives on the enemy record and is threaded through WallSlider.Step.
type Slide uint8

const (
	SlideNone Slide = iota
	SlideLeft
	SlideRight
)

func (s Slide) String() string {
	switch s {
	case SlideLeft:
		return "left"
	case SlideRight:
		return "right"
	}
	return "none"
}

// Opposite returns the other side. SlideNone has no opposite.
func (s Slide) Opposite() Slide {
	switch s {
	case SlideLeft:
		return SlideRight
	case SlideRight:
		return SlideLeft
	}
	return SlideNone
}

// SlideStep is the outcome of one WallSlider.Step.
type SlideStep struct {
	X, Y   float64
	Commit Slide
	Moved  bool
}

// WallSlider steers enemies toward a target and, when the direct step is
// blocked, commits them to one perpendicular side until the direct step
// clears. Without the commitment an enemy at a corner flips sides every
// tick.
type WallSlider struct {
	World  World
	Margin float64
}

// NewWallSlider returns a slider using the enemy obstacle margin.
func NewWallSlider(w World) WallSlider {
	return WallSlider{World: w, Margin: EnemyMoveMargin}
}

// Step moves one tick from (x, y) toward (tx, ty) at speed, starting from
// commitment commit.
func (s WallSlider) Step(x, y, tx, ty, speed float64, commit Slide, obstacles []Obstacle) SlideStep {
	stay := SlideStep{X: x, Y: y, Commit: commit}

	ux, uy, ok := s.World.Direction(x, y, tx, ty)
	if !ok || speed == 0 {
		return stay
	}

	try := func(dx, dy float64) (float64, float64, bool) {
		nx := s.World.Wrap(x + dx*speed)
		ny := s.World.Wrap(y + dy*speed)
		return nx, ny, !s.World.Blocked(nx, ny, s.Margin, obstacles)
	}
	side := func(sl Slide) (float64, float64) {
		// Screen space, y down: left of (ux, uy) is (uy, -ux).
		if sl == SlideLeft {
			return uy, -ux
		}
		return -uy, ux
	}

	if nx, ny, clear := try(ux, uy); clear {
		return SlideStep{X: nx, Y: ny, Commit: SlideNone, Moved: true}
	}

	if commit != SlideNone {
		for _, sl := range [2]Slide{commit, commit.Opposite()} {
			dx, dy := side(sl)
			if nx, ny, clear := try(dx, dy); clear {
				return SlideStep{X: nx, Y: ny, Commit: sl, Moved: true}
			}
		}
		return stay
	}

	ldx, ldy := side(SlideLeft)
	rdx, rdy := side(SlideRight)
	lx, ly, leftClear := try(ldx, ldy)
	rx, ry, rightClear := try(rdx, rdy)
	switch {
	case leftClear && rightClear:
		if s.World.DistanceSq(rx, ry, tx, ty) < s.World.DistanceSq(lx, ly, tx, ty) {
			return SlideStep{X: rx, Y: ry, Commit: SlideRight, Moved: true}
		}
		return SlideStep{X: lx, Y: ly, Commit: SlideLeft, Moved: true}
	case leftClear:
		return SlideStep{X: lx, Y: ly, Commit: SlideLeft, Moved: true}
	case rightClear:
		return SlideStep{X: rx, Y: ry, Commit: SlideRight, Moved: true}
	}
	return stay
}

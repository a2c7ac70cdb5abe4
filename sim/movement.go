package sim

import "math"

// MoveResult is the outcome of one Resolver.Move call. The input position
// is never modified.
type MoveResult struct {
	X, Y  float64
	Moved bool // position changed
	Slid  bool // the full move was blocked, axes were tried separately
}

// Resolver moves free-steering entities (the player) through the obstacle
// field: full move first, then independent per-axis slides.
type Resolver struct {
	World  World
	Margin float64
}

// NewResolver returns a resolver using the player obstacle margin.
func NewResolver(w World) Resolver {
	return Resolver{World: w, Margin: PlayerMoveMargin}
}

// Move advances (x, y) by dir*speed. Directions longer than one are
// normalised so diagonals are not faster; shorter ones pass through for
// analog input.
func (r Resolver) Move(x, y, dirX, dirY, speed float64, obstacles []Obstacle) MoveResult {
	res := MoveResult{X: x, Y: y}

	if m := math.Sqrt(dirX*dirX + dirY*dirY); m > 1 {
		dirX /= m
		dirY /= m
	}
	stepX := dirX * speed
	stepY := dirY * speed
	if stepX == 0 && stepY == 0 {
		return res
	}

	nx := r.World.Wrap(x + stepX)
	ny := r.World.Wrap(y + stepY)
	if !r.World.Blocked(nx, ny, r.Margin, obstacles) {
		res.X, res.Y, res.Moved = nx, ny, true
		return res
	}

	// Wall slide: each axis is tried from the original position.
	res.Slid = true
	if stepX != 0 && !r.World.Blocked(nx, y, r.Margin, obstacles) {
		res.X = nx
		res.Moved = true
	}
	if stepY != 0 && !r.World.Blocked(x, ny, r.Margin, obstacles) {
		res.Y = ny
		res.Moved = true
	}
	return res
}

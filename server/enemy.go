package main

import (
	"math"

	"torus-survival/sim"
)

// EnemyKind identifies an enemy archetype
type EnemyKind int

const (
	EnemyChaser  EnemyKind = 0
	EnemyBrute   EnemyKind = 1
	EnemySpitter EnemyKind = 2
)

// EnemyDef holds the stats for an enemy kind
type EnemyDef struct {
	Name          string
	MaxHP         float64
	Speed         float64 // units/s
	Radius        float64
	ContactDamage float64
	Score         int

	// Ranged kinds stop at HoldRange and shoot inside ShootRange.
	Ranged     bool
	HoldRange  float64
	ShootRange float64
	FireCD     float64
	ProjDamage float64
	ProjSpeed  float64
}

var EnemyKinds = [3]EnemyDef{
	{Name: "chaser", MaxHP: 40, Speed: 150, Radius: 14, ContactDamage: 10, Score: 1},
	{Name: "brute", MaxHP: 160, Speed: 90, Radius: 24, ContactDamage: 25, Score: 3},
	{
		Name: "spitter", MaxHP: 50, Speed: 120, Radius: 14, ContactDamage: 5, Score: 2,
		Ranged: true, HoldRange: 280, ShootRange: 420, FireCD: 1.5, ProjDamage: 8, ProjSpeed: 380,
	},
}

const (
	EnemyProjRadius = 5.0
	EnemyProjLife   = 1.6

	// An enemy that has not moved for this many ticks gives up on its
	// slide side and tries the other one.
	EnemyStuckTicks = 45
)

// GetEnemyDef returns the definition for an enemy kind
func GetEnemyDef(kind EnemyKind) EnemyDef {
	if kind < 0 || int(kind) >= len(EnemyKinds) {
		return EnemyKinds[EnemyChaser]
	}
	return EnemyKinds[kind]
}

// Enemy is an AI-controlled hostile
type Enemy struct {
	ID       string
	Kind     EnemyKind
	X, Y     float64
	Rotation float64
	HP       float64
	MaxHP    float64
	Alive    bool
	Slide    sim.Slide // wall-slide commitment, carried between ticks
	FireCD   float64
	Stuck    int // consecutive ticks without moving
}

// NewEnemy creates an enemy of the given kind at (x, y)
func NewEnemy(kind EnemyKind, x, y float64) *Enemy {
	def := GetEnemyDef(kind)
	return &Enemy{
		ID:     GenerateID(4),
		Kind:   kind,
		X:      x,
		Y:      y,
		HP:     def.MaxHP,
		MaxHP:  def.MaxHP,
		Alive:  true,
		FireCD: def.FireCD,
	}
}

// Def returns the enemy's kind definition
func (e *Enemy) Def() EnemyDef {
	return GetEnemyDef(e.Kind)
}

// Navigator bundles what an enemy needs to move through obstacles
type Navigator struct {
	Paths     *sim.Pathfinder
	Slider    sim.WallSlider
	Obstacles []sim.Obstacle
}

// Update steers the enemy toward (tx, ty) for one tick. The pathfinder
// supplies the next waypoint; the wall slider moves toward it and keeps the
// slide commitment across ticks. Returns true when a ranged enemy fires.
func (e *Enemy) Update(dt, tx, ty float64, nav Navigator) bool {
	if !e.Alive {
		return false
	}
	def := e.Def()
	world := nav.Slider.World
	if e.FireCD > 0 {
		e.FireCD -= dt
	}

	dist := world.Distance(e.X, e.Y, tx, ty)
	if dist > 0 {
		e.Rotation = world.Angle(e.X, e.Y, tx, ty)
	}

	if !def.Ranged || dist > def.HoldRange {
		wx, wy, ok := nav.Paths.Waypoint(e.X, e.Y, tx, ty)
		if !ok {
			// Boxed in on the grid; let the slider try the straight line.
			wx, wy = tx, ty
		}
		step := nav.Slider.Step(e.X, e.Y, wx, wy, def.Speed*dt, e.Slide, nav.Obstacles)
		e.X, e.Y, e.Slide = step.X, step.Y, step.Commit
		if step.Moved {
			e.Stuck = 0
		} else {
			e.Stuck++
			if e.Stuck >= EnemyStuckTicks && e.Slide != sim.SlideNone {
				e.Slide = e.Slide.Opposite()
				e.Stuck = 0
			}
		}
	}

	if def.Ranged && dist < def.ShootRange && e.FireCD <= 0 {
		e.FireCD = def.FireCD
		return true
	}
	return false
}

// Shot builds the hostile projectile a ranged enemy fires along its facing
func (e *Enemy) Shot(world sim.World) *sim.Projectile {
	def := e.Def()
	cos, sin := math.Cos(e.Rotation), math.Sin(e.Rotation)
	return &sim.Projectile{
		ID:      GenerateID(3),
		OwnerID: e.ID,
		X:       world.Wrap(e.X + cos*def.Radius),
		Y:       world.Wrap(e.Y + sin*def.Radius),
		VX:      cos * def.ProjSpeed,
		VY:      sin * def.ProjSpeed,
		Radius:  EnemyProjRadius,
		Damage:  def.ProjDamage,
		Life:    EnemyProjLife,
		Hostile: true,
	}
}

// TakeDamage reduces HP and returns true if the enemy died
func (e *Enemy) TakeDamage(dmg float64) bool {
	if !e.Alive {
		return false
	}
	e.HP -= dmg
	if e.HP <= 0 {
		e.HP = 0
		e.Alive = false
		return true
	}
	return false
}

// Body returns the enemy's collision circle
func (e *Enemy) Body() sim.Body {
	return sim.Body{ID: e.ID, X: e.X, Y: e.Y, Radius: e.Def().Radius}
}

// ToState converts to protocol state
func (e *Enemy) ToState() EnemyState {
	return EnemyState{
		ID:    e.ID,
		Kind:  int(e.Kind),
		X:     round1(e.X),
		Y:     round1(e.Y),
		R:     round1(e.Rotation),
		HP:    int(math.Ceil(e.HP)),
		MaxHP: int(e.MaxHP),
		Slide: e.Slide.String(),
	}
}

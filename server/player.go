package main

import (
	"math"
	"time"

	"torus-survival/sim"
)

const (
	PlayerRadius     = 16.0
	PlayerMaxHP      = 100.0
	PlayerSpeed      = 260.0 // units/s at full input
	RespawnTime      = 3.0   // seconds before respawn
	SpawnImmunity    = 2.0   // seconds of immunity after (re)spawning
	DefaultWorldSize = 3000.0
	PoolHealRate     = 8.0 // HP/s while standing in a pool
)

// Player represents a player in the game
type Player struct {
	ID       string
	Name     string
	X, Y     float64
	Rotation float64 // aim angle
	DirX     float64 // movement input, magnitude <= 1 after normalising
	DirY     float64
	HP       float64
	MaxHP    float64
	Weapon   WeaponClass
	Kills    int
	Deaths   int
	Alive    bool
	Firing   bool
	FireCD   float64 // fire cooldown remaining
	RespawnT float64 // respawn timer remaining
	ImmuneT  float64 // immunity remaining
	Slid     bool    // last move was resolved by axis sliding

	AuthPlayerID int64 // 0 = guest
	JoinedAt     time.Time
}

// NewPlayer creates a player at the given position with spawn immunity
func NewPlayer(id, name string, weapon WeaponClass, x, y float64) *Player {
	return &Player{
		ID:       id,
		Name:     name,
		X:        x,
		Y:        y,
		HP:       PlayerMaxHP,
		MaxHP:    PlayerMaxHP,
		Weapon:   weapon,
		Alive:    true,
		ImmuneT:  SpawnImmunity,
		JoinedAt: time.Now(),
	}
}

// Update advances timers and moves the player one tick (dt in seconds).
// For a dead player it returns true once the respawn timer has run out.
func (p *Player) Update(dt float64, r sim.Resolver, obstacles []sim.Obstacle) bool {
	if !p.Alive {
		p.RespawnT -= dt
		return p.RespawnT <= 0
	}
	if p.ImmuneT > 0 {
		p.ImmuneT -= dt
	}
	if p.FireCD > 0 {
		p.FireCD -= dt
	}

	res := r.Move(p.X, p.Y, p.DirX, p.DirY, PlayerSpeed*dt, obstacles)
	p.X, p.Y = res.X, res.Y
	p.Slid = res.Slid
	return false
}

// Heal restores up to amount HP, capped at MaxHP
func (p *Player) Heal(amount float64) {
	if !p.Alive {
		return
	}
	p.HP = math.Min(p.HP+amount, p.MaxHP)
}

// SetInput stores the movement direction and aim from client input
func (p *Player) SetInput(world sim.World, input ClientInput) {
	dx, dy := Clamp(input.DX, -1, 1), Clamp(input.DY, -1, 1)
	p.DirX, p.DirY = dx, dy
	// Only re-aim when the pointer is far enough from the ship to give a
	// stable angle.
	if world.DistanceSq(p.X, p.Y, input.MX, input.MY) > 25 {
		p.Rotation = world.Angle(p.X, p.Y, input.MX, input.MY)
	}
	p.Firing = input.Fire
}

// Respawn resets the player after death at the given position
func (p *Player) Respawn(x, y float64) {
	p.X = x
	p.Y = y
	p.HP = p.MaxHP
	p.Alive = true
	p.FireCD = 0
	p.RespawnT = 0
	p.ImmuneT = SpawnImmunity
}

// Immune reports whether the player currently ignores damage
func (p *Player) Immune() bool {
	return p.ImmuneT > 0
}

// TakeDamage reduces HP and returns true if the player died
func (p *Player) TakeDamage(dmg float64) bool {
	if !p.Alive || p.Immune() {
		return false
	}
	p.HP -= dmg
	if p.HP <= 0 {
		p.HP = 0
		p.Alive = false
		p.Deaths++
		p.RespawnT = RespawnTime
		p.Firing = false
		return true
	}
	return false
}

// CanFire returns true if the player can fire a projectile
func (p *Player) CanFire() bool {
	return p.Alive && p.Firing && p.FireCD <= 0
}

// Body returns the player's collision circle
func (p *Player) Body() sim.Body {
	return sim.Body{ID: p.ID, X: p.X, Y: p.Y, Radius: PlayerRadius}
}

// ToState converts to protocol state
func (p *Player) ToState() PlayerState {
	return PlayerState{
		ID:     p.ID,
		Name:   p.Name,
		X:      round1(p.X),
		Y:      round1(p.Y),
		R:      round1(p.Rotation),
		HP:     int(math.Ceil(p.HP)),
		MaxHP:  int(p.MaxHP),
		Weapon: int(p.Weapon),
		Kills:  p.Kills,
		Alive:  p.Alive,
		Immune: p.Immune(),
		Slid:   p.Slid,
	}
}

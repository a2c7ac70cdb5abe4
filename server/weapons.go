package main

import (
	"math"

	"torus-survival/sim"
)

// WeaponClass identifies the weapon a player picked at join
type WeaponClass int

const (
	WeaponBlaster WeaponClass = 0
	WeaponLance   WeaponClass = 1
	WeaponMortar  WeaponClass = 2
	WeaponHammer  WeaponClass = 3
	WeaponScatter WeaponClass = 4
)

// WeaponDef holds the stats for a weapon class
type WeaponDef struct {
	Name       string
	Damage     float64
	Speed      float64 // projectile speed, units/s
	Cooldown   float64 // seconds between shots
	Radius     float64
	Life       float64 // projectile lifetime, seconds
	Pierce     int
	Explode    float64 // splash radius, 0 = none
	Knockback  float64 // push distance on hit, 0 = none
	Splits     bool
	CritChance float64
}

var WeaponClasses = [5]WeaponDef{
	// Blaster: fast, light, the default
	{
		Name: "blaster", Damage: 20, Speed: 800, Cooldown: 0.15,
		Radius: 4, Life: 1.2, CritChance: 0.1,
	},
	// Lance: slow fire, passes through a line of enemies
	{
		Name: "lance", Damage: 14, Speed: 1000, Cooldown: 0.3,
		Radius: 3, Life: 1.0, Pierce: 3, CritChance: 0.05,
	},
	// Mortar: heavy shell with splash
	{
		Name: "mortar", Damage: 30, Speed: 500, Cooldown: 0.6,
		Radius: 6, Life: 1.6, Explode: 90, CritChance: 0.05,
	},
	// Hammer: shoves enemies back
	{
		Name: "hammer", Damage: 25, Speed: 650, Cooldown: 0.4,
		Radius: 5, Life: 1.0, Knockback: 40, CritChance: 0.1,
	},
	// Scatter: bursts into three fragments on impact
	{
		Name: "scatter", Damage: 24, Speed: 600, Cooldown: 0.5,
		Radius: 5, Life: 1.2, Splits: true, CritChance: 0.15,
	},
}

// GetWeaponDef returns the definition for a weapon class
func GetWeaponDef(class WeaponClass) WeaponDef {
	if class < 0 || int(class) >= len(WeaponClasses) {
		return WeaponClasses[WeaponBlaster]
	}
	return WeaponClasses[class]
}

const (
	CritMultiplier   = 2.0
	ProjectileOffset = 20.0 // spawn distance from the shooter's centre
	SplitSpeed       = 450.0
	SplitLife        = 0.5
	SplitRadius      = 3.0
)

// NewShot builds the projectile a weapon fires from (x, y) along angle
func (w WeaponDef) NewShot(ownerID string, world sim.World, x, y, angle float64, crit bool) *sim.Projectile {
	cos, sin := math.Cos(angle), math.Sin(angle)
	return &sim.Projectile{
		ID:             GenerateID(3),
		OwnerID:        ownerID,
		X:              world.Wrap(x + cos*ProjectileOffset),
		Y:              world.Wrap(y + sin*ProjectileOffset),
		VX:             cos * w.Speed,
		VY:             sin * w.Speed,
		Radius:         w.Radius,
		Damage:         w.Damage,
		Crit:           crit,
		Life:           w.Life,
		Pierce:         w.Pierce,
		ExplodeRadius:  w.Explode,
		KnockbackForce: w.Knockback,
		Splits:         w.Splits,
	}
}

// newSplitShot turns one split child into a projectile. Children never
// split again.
func newSplitShot(ownerID string, c sim.SplitChild, hitID string) *sim.Projectile {
	vx, vy := c.Velocity(SplitSpeed)
	p := &sim.Projectile{
		ID:      GenerateID(3),
		OwnerID: ownerID,
		X:       c.X,
		Y:       c.Y,
		VX:      vx,
		VY:      vy,
		Radius:  SplitRadius,
		Damage:  c.Damage,
		Crit:    c.Crit,
		Life:    SplitLife,
	}
	// The fragments start inside the enemy that was hit.
	p.MarkHit(hitID)
	return p
}

// hitDamage applies the crit multiplier
func hitDamage(base float64, crit bool) float64 {
	if crit {
		return base * CritMultiplier
	}
	return base
}

package sim

import "math"

// Hit describes a projectile striking an enemy and what the caller should
// do about it.
type Hit struct {
	Index   int // position of the struck enemy in the input slice
	EnemyID string
	Damage  float64
	Crit    bool

	Splits bool

	Explode       bool
	ExplodeRadius float64

	Knockback      bool
	KnockbackAngle float64
	KnockbackForce float64

	Destroyed bool // the projectile is spent
}

// Explosion lists the enemies caught in a blast, in input order.
type Explosion struct {
	Indices    []int
	Multiplier float64
}

// Contact is the result of a player-vs-enemies check. Touching is detected
// every tick; damage only lands on the contact cadence.
type Contact struct {
	Collided     bool
	Index        int
	EnemyID      string
	ShouldDamage bool
}

// SplitChild describes one fragment of a split projectile.
type SplitChild struct {
	X, Y   float64
	Angle  float64
	Damage float64
	Crit   bool
}

// Velocity returns the child's velocity at the given speed.
func (c SplitChild) Velocity(speed float64) (vx, vy float64) {
	return math.Cos(c.Angle) * speed, math.Sin(c.Angle) * speed
}

// Combat resolves collisions on a wrapped world. It keeps no state.
type Combat struct {
	World World
}

// Collide reports whether two circles overlap. Touching exactly at the
// boundary is not a collision; two zero-radius circles collide only when
// they share a position.
func (c Combat) Collide(a, b Body) bool {
	r := a.Radius + b.Radius
	d := c.World.DistanceSq(a.X, a.Y, b.X, b.Y)
	if r == 0 {
		return d == 0
	}
	return d < r*r
}

// ProjectileVsEnemies finds the first enemy, in input order, that p
// overlaps and has not struck before. The hit is recorded on p and a
// pierce charge is spent. Hostile and dead projectiles never hit.
func (c Combat) ProjectileVsEnemies(p *Projectile, enemies []Body) (Hit, bool) {
	if p.Hostile || p.Dead {
		return Hit{}, false
	}
	pb := p.Body()
	for i := range enemies {
		e := enemies[i]
		if p.HasHit(e.ID) || !c.Collide(pb, e) {
			continue
		}

		p.MarkHit(e.ID)
		p.consumePierce()

		hit := Hit{
			Index:     i,
			EnemyID:   e.ID,
			Damage:    p.Damage,
			Crit:      p.Crit,
			Splits:    p.Splits,
			Destroyed: p.Dead,
		}
		if p.ExplodeRadius > 0 {
			hit.Explode = true
			hit.ExplodeRadius = p.ExplodeRadius
		}
		if p.KnockbackForce > 0 {
			hit.Knockback = true
			hit.KnockbackAngle = c.World.Angle(p.X, p.Y, e.X, e.Y)
			hit.KnockbackForce = p.KnockbackForce
		}
		return hit, true
	}
	return Hit{}, false
}

// ProjectileVsPlayer checks a hostile projectile against the player and
// spends it on contact.
func (c Combat) ProjectileVsPlayer(p *Projectile, player Body) bool {
	if !p.Hostile || p.Dead {
		return false
	}
	if !c.Collide(p.Body(), player) {
		return false
	}
	p.MarkHit(player.ID)
	p.Dead = true
	return true
}

// ExplosionQuery returns every enemy strictly closer than radius to the
// centre, skipping excluded ids (usually the enemy hit directly).
func (c Combat) ExplosionQuery(cx, cy, radius float64, enemies []Body, exclude ...string) Explosion {
	out := Explosion{Multiplier: ExplosionDamageMultiplier}
	rsq := radius * radius
outer:
	for i := range enemies {
		e := &enemies[i]
		for _, id := range exclude {
			if e.ID == id {
				continue outer
			}
		}
		if c.World.DistanceSq(cx, cy, e.X, e.Y) < rsq {
			out.Indices = append(out.Indices, i)
		}
	}
	return out
}

// ApplyKnockback pushes a position force units along angle and wraps it.
func (c Combat) ApplyKnockback(x, y, angle, force float64) (float64, float64) {
	return c.World.Wrap(x + math.Cos(angle)*force), c.World.Wrap(y + math.Sin(angle)*force)
}

// PlayerVsEnemies reports the first enemy touching the player. Immune
// players never collide.
func (c Combat) PlayerVsEnemies(player Body, enemies []Body, tick uint64, immune bool) Contact {
	if immune {
		return Contact{Index: -1}
	}
	for i := range enemies {
		if c.Collide(player, enemies[i]) {
			return Contact{
				Collided:     true,
				Index:        i,
				EnemyID:      enemies[i].ID,
				ShouldDamage: tick%ContactDamageInterval == 0,
			}
		}
	}
	return Contact{Index: -1}
}

// Split fans a projectile into SplitCount children at fixed world angles
// (0°, 120°, 240°), each with half the damage and the same crit flag.
func (c Combat) Split(x, y, damage float64, crit bool) [SplitCount]SplitChild {
	var out [SplitCount]SplitChild
	for i := range out {
		out[i] = SplitChild{
			X:      x,
			Y:      y,
			Angle:  float64(i) * 2 * math.Pi / SplitCount,
			Damage: damage / 2,
			Crit:   crit,
		}
	}
	return out
}

package sim

// Body is the collision footprint of an entity: a circle with an id.
type Body struct {
	ID     string
	X, Y   float64
	Radius float64
}

// Projectile is a moving circle that damages what it touches. Zero values
// of the optional modifiers disable them.
type Projectile struct {
	ID       string
	OwnerID  string
	X, Y     float64
	VX, VY   float64 // world units per second
	Radius   float64
	Damage   float64
	Crit     bool
	Life     float64 // seconds left
	Pierce   int     // enemies it may still pass through
	Hostile  bool    // fired by enemies; only ever hits players
	Dead     bool

	ExplodeRadius  float64
	KnockbackForce float64
	Splits         bool

	hitList []string
}

// Body returns the projectile's collision circle.
func (p *Projectile) Body() Body {
	return Body{ID: p.ID, X: p.X, Y: p.Y, Radius: p.Radius}
}

// Advance moves the projectile dt seconds, wraps it and expires it when its
// lifetime runs out.
func (p *Projectile) Advance(w World, dt float64) {
	if p.Dead {
		return
	}
	p.X = w.Wrap(p.X + p.VX*dt)
	p.Y = w.Wrap(p.Y + p.VY*dt)
	p.Life -= dt
	if p.Life <= 0 {
		p.Life = 0
		p.Dead = true
	}
}

// HasHit reports whether id is on the hit list.
func (p *Projectile) HasHit(id string) bool {
	for _, h := range p.hitList {
		if h == id {
			return true
		}
	}
	return false
}

// MarkHit appends id to the hit list. The list only grows.
func (p *Projectile) MarkHit(id string) {
	if !p.HasHit(id) {
		p.hitList = append(p.hitList, id)
	}
}

// HitCount returns how many distinct targets the projectile has struck.
func (p *Projectile) HitCount() int { return len(p.hitList) }

// consumePierce spends one pierce charge, or kills the projectile when none
// are left.
func (p *Projectile) consumePierce() {
	if p.Pierce > 0 {
		p.Pierce--
		return
	}
	p.Dead = true
}

package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProjectileAdvanceWraps(t *testing.T) {
	p := &Projectile{X: 1990, Y: 5, VX: 600, VY: -600, Life: 1}
	p.Advance(testWorld, 0.05)
	assert.InDelta(t, 20.0, p.X, 1e-9)
	assert.InDelta(t, 1975.0, p.Y, 1e-9)
	assert.InDelta(t, 0.95, p.Life, 1e-9)
	assert.False(t, p.Dead)
}

func TestProjectileExpires(t *testing.T) {
	p := &Projectile{X: 100, Y: 100, VX: 10, Life: 0.1}
	p.Advance(testWorld, 0.05)
	assert.False(t, p.Dead)
	p.Advance(testWorld, 0.05)
	assert.True(t, p.Dead)
	assert.Equal(t, 0.0, p.Life)

	x := p.X
	p.Advance(testWorld, 0.05)
	assert.Equal(t, x, p.X, "dead projectiles stay put")
}

func TestConsumePierce(t *testing.T) {
	p := &Projectile{Pierce: 2}
	p.consumePierce()
	p.consumePierce()
	assert.False(t, p.Dead)
	assert.Equal(t, 0, p.Pierce)
	p.consumePierce()
	assert.True(t, p.Dead)
}

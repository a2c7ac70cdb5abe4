package sim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCombat = Combat{World: testWorld}

func TestCollideBoundaryIsStrict(t *testing.T) {
	a := Body{X: 0, Y: 0, Radius: 10}
	assert.False(t, testCombat.Collide(a, Body{X: 20, Y: 0, Radius: 10}))
	assert.True(t, testCombat.Collide(a, Body{X: 19.9, Y: 0, Radius: 10}))
	assert.False(t, testCombat.Collide(a, Body{X: 25, Y: 0, Radius: 10}))
}

func TestCollideZeroRadius(t *testing.T) {
	assert.True(t, testCombat.Collide(Body{X: 5, Y: 5}, Body{X: 5, Y: 5}))
	assert.False(t, testCombat.Collide(Body{X: 5, Y: 5}, Body{X: 5, Y: 5.001}))
}

func TestCollideAcrossEdge(t *testing.T) {
	assert.True(t, testCombat.Collide(Body{X: 1995, Y: 0, Radius: 10}, Body{X: 5, Y: 0, Radius: 1}))
	assert.False(t, testCombat.Collide(Body{X: 1990, Y: 0, Radius: 5}, Body{X: 5, Y: 0, Radius: 5}))
}

func TestProjectileHitsFirstEnemyInInputOrder(t *testing.T) {
	p := &Projectile{ID: "p", X: 100, Y: 100, Radius: 4, Damage: 10, Life: 1}
	enemies := []Body{
		{ID: "far", X: 500, Y: 500, Radius: 10},
		{ID: "b", X: 108, Y: 100, Radius: 10},
		{ID: "a", X: 100, Y: 100, Radius: 10},
	}
	hit, ok := testCombat.ProjectileVsEnemies(p, enemies)
	require.True(t, ok)
	assert.Equal(t, 1, hit.Index)
	assert.Equal(t, "b", hit.EnemyID)
	assert.Equal(t, 10.0, hit.Damage)
	assert.True(t, hit.Destroyed)
	assert.True(t, p.Dead)
	assert.False(t, hit.Explode)
	assert.False(t, hit.Knockback)
	assert.False(t, hit.Splits)
}

func TestHostileProjectileNeverHitsEnemies(t *testing.T) {
	p := &Projectile{ID: "p", X: 100, Y: 100, Radius: 4, Hostile: true, Life: 1}
	_, ok := testCombat.ProjectileVsEnemies(p, []Body{{ID: "e", X: 100, Y: 100, Radius: 10}})
	assert.False(t, ok)
	assert.False(t, p.Dead)
}

func TestPierceAndHitList(t *testing.T) {
	p := &Projectile{ID: "p", X: 100, Y: 100, Radius: 4, Damage: 8, Pierce: 1, Life: 1}
	enemies := []Body{
		{ID: "a", X: 100, Y: 100, Radius: 10},
		{ID: "b", X: 102, Y: 100, Radius: 10},
	}

	hit, ok := testCombat.ProjectileVsEnemies(p, enemies)
	require.True(t, ok)
	assert.Equal(t, "a", hit.EnemyID)
	assert.False(t, hit.Destroyed)
	assert.Equal(t, 0, p.Pierce)

	// "a" is on the hit list now, so the next overlap is "b".
	hit, ok = testCombat.ProjectileVsEnemies(p, enemies)
	require.True(t, ok)
	assert.Equal(t, "b", hit.EnemyID)
	assert.True(t, hit.Destroyed)
	assert.Equal(t, 2, p.HitCount())

	_, ok = testCombat.ProjectileVsEnemies(p, enemies)
	assert.False(t, ok, "dead projectiles never hit")
}

func TestHitListSkipsStruckEnemy(t *testing.T) {
	p := &Projectile{ID: "p", X: 100, Y: 100, Radius: 4, Pierce: 5, Life: 1}
	p.MarkHit("a")
	p.MarkHit("a")
	assert.Equal(t, 1, p.HitCount())
	_, ok := testCombat.ProjectileVsEnemies(p, []Body{{ID: "a", X: 100, Y: 100, Radius: 10}})
	assert.False(t, ok)
}

func TestHitCarriesModifiers(t *testing.T) {
	p := &Projectile{
		ID: "p", X: 100, Y: 100, Radius: 4, Damage: 12, Crit: true, Life: 1,
		ExplodeRadius: 60, KnockbackForce: 25, Splits: true,
	}
	hit, ok := testCombat.ProjectileVsEnemies(p, []Body{{ID: "e", X: 110, Y: 100, Radius: 10}})
	require.True(t, ok)
	assert.True(t, hit.Crit)
	assert.True(t, hit.Splits)
	assert.True(t, hit.Explode)
	assert.Equal(t, 60.0, hit.ExplodeRadius)
	assert.True(t, hit.Knockback)
	assert.Equal(t, 25.0, hit.KnockbackForce)
	assert.InDelta(t, 0.0, hit.KnockbackAngle, 1e-12)
}

func TestKnockbackAngleAcrossEdge(t *testing.T) {
	p := &Projectile{ID: "p", X: 1998, Y: 100, Radius: 4, KnockbackForce: 5, Life: 1}
	hit, ok := testCombat.ProjectileVsEnemies(p, []Body{{ID: "e", X: 3, Y: 100, Radius: 10}})
	require.True(t, ok)
	assert.InDelta(t, 0.0, hit.KnockbackAngle, 1e-12)
}

func TestProjectileVsPlayer(t *testing.T) {
	player := Body{ID: "pl", X: 50, Y: 50, Radius: 12}

	friendly := &Projectile{ID: "f", X: 50, Y: 50, Radius: 4, Life: 1}
	assert.False(t, testCombat.ProjectileVsPlayer(friendly, player))

	hostile := &Projectile{ID: "h", X: 55, Y: 50, Radius: 4, Hostile: true, Life: 1}
	assert.True(t, testCombat.ProjectileVsPlayer(hostile, player))
	assert.True(t, hostile.Dead)
	assert.False(t, testCombat.ProjectileVsPlayer(hostile, player))
}

func TestExplosionQueryIsStrict(t *testing.T) {
	ex := testCombat.ExplosionQuery(100, 100, 30, []Body{{ID: "e", X: 130, Y: 100}})
	assert.Empty(t, ex.Indices)
	assert.Equal(t, 0.5, ex.Multiplier)

	ex = testCombat.ExplosionQuery(100, 100, 30, []Body{{ID: "e", X: 129.9, Y: 100}})
	assert.Equal(t, []int{0}, ex.Indices)
}

func TestExplosionQueryExcludesAndKeepsOrder(t *testing.T) {
	enemies := []Body{
		{ID: "direct", X: 100, Y: 100},
		{ID: "x", X: 90, Y: 100},
		{ID: "out", X: 300, Y: 100},
		{ID: "y", X: 1990, Y: 100},
	}
	ex := testCombat.ExplosionQuery(5, 100, 30, enemies, "direct")
	assert.Equal(t, []int{3}, ex.Indices, "blast reaches across the edge")

	ex = testCombat.ExplosionQuery(100, 100, 120, enemies, "direct")
	assert.Equal(t, []int{1, 3}, ex.Indices)
}

func TestApplyKnockbackWraps(t *testing.T) {
	x, y := testCombat.ApplyKnockback(1995, 500, 0, 10)
	assert.InDelta(t, 5.0, x, 1e-9)
	assert.InDelta(t, 500.0, y, 1e-9)

	x, y = testCombat.ApplyKnockback(500, 3, -math.Pi/2, 10)
	assert.InDelta(t, 500.0, x, 1e-9)
	assert.InDelta(t, 1993.0, y, 1e-9)
}

func TestContactDamageCadence(t *testing.T) {
	player := Body{ID: "pl", X: 100, Y: 100, Radius: 12}
	enemies := []Body{{ID: "e", X: 110, Y: 100, Radius: 10}}

	for _, tick := range []uint64{0, 30, 60} {
		c := testCombat.PlayerVsEnemies(player, enemies, tick, false)
		assert.True(t, c.Collided, "tick %d", tick)
		assert.True(t, c.ShouldDamage, "tick %d", tick)
		assert.Equal(t, "e", c.EnemyID)
	}
	for _, tick := range []uint64{15, 45} {
		c := testCombat.PlayerVsEnemies(player, enemies, tick, false)
		assert.True(t, c.Collided, "tick %d", tick)
		assert.False(t, c.ShouldDamage, "tick %d", tick)
	}
}

func TestContactImmuneAndMiss(t *testing.T) {
	player := Body{ID: "pl", X: 100, Y: 100, Radius: 12}
	c := testCombat.PlayerVsEnemies(player, []Body{{ID: "e", X: 100, Y: 100, Radius: 10}}, 0, true)
	assert.False(t, c.Collided)
	assert.False(t, c.ShouldDamage)

	c = testCombat.PlayerVsEnemies(player, []Body{{ID: "e", X: 400, Y: 100, Radius: 10}}, 0, false)
	assert.False(t, c.Collided)
	assert.Equal(t, -1, c.Index)
}

func TestSplitFanOut(t *testing.T) {
	children := testCombat.Split(300, 400, 25, true)
	require.Len(t, children, 3)
	for i, c := range children {
		assert.Equal(t, 12.5, c.Damage)
		assert.True(t, c.Crit)
		assert.Equal(t, 300.0, c.X)
		assert.Equal(t, 400.0, c.Y)
		assert.InDelta(t, float64(i)*2*math.Pi/3, c.Angle, 1e-12)
	}

	vx, vy := children[0].Velocity(100)
	assert.InDelta(t, 100.0, vx, 1e-9)
	assert.InDelta(t, 0.0, vy, 1e-9)

	plain := testCombat.Split(0, 0, 9, false)
	for _, c := range plain {
		assert.False(t, c.Crit)
		assert.Equal(t, 4.5, c.Damage)
	}
}

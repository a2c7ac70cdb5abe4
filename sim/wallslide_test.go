package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// With the enemy margin of 30 this wall blocks x in (960, 1040) and
// y in (870, 1130).
var slideWall = box(1000, 1000, 10, 100)

// Pegs that block one perpendicular probe of an enemy at (958, 1000)
// heading +x at speed 5.
var (
	pegRight = box(958, 1035, 1, 1) // blocks (958, 1005)
	pegLeft  = box(958, 965, 1, 1)  // blocks (958, 995)
)

func TestSlideDirectWhenClear(t *testing.T) {
	s := NewWallSlider(testWorld)
	step := s.Step(800, 1000, 1200, 1000, 5, SlideNone, []Obstacle{slideWall})
	assert.True(t, step.Moved)
	assert.Equal(t, SlideNone, step.Commit)
	assert.InDelta(t, 805.0, step.X, 1e-9)
}

func TestSlideTieCommitsLeft(t *testing.T) {
	s := NewWallSlider(testWorld)
	step := s.Step(958, 1000, 1200, 1000, 5, SlideNone, []Obstacle{slideWall})
	require.True(t, step.Moved)
	assert.Equal(t, SlideLeft, step.Commit)
	assert.InDelta(t, 958.0, step.X, 1e-9)
	assert.InDelta(t, 995.0, step.Y, 1e-9)
}

func TestSlideCommitsToOnlyClearSide(t *testing.T) {
	s := NewWallSlider(testWorld)
	step := s.Step(958, 1000, 1200, 1000, 5, SlideNone, []Obstacle{slideWall, pegLeft})
	require.True(t, step.Moved)
	assert.Equal(t, SlideRight, step.Commit)
	assert.InDelta(t, 1005.0, step.Y, 1e-9)

	step = s.Step(958, 1000, 1200, 1000, 5, SlideNone, []Obstacle{slideWall, pegRight})
	require.True(t, step.Moved)
	assert.Equal(t, SlideLeft, step.Commit)
	assert.InDelta(t, 995.0, step.Y, 1e-9)
}

func TestSlideCommitmentDoesNotThrash(t *testing.T) {
	s := NewWallSlider(testWorld)

	// Right is blocked, so the enemy commits left.
	step := s.Step(958, 1000, 1200, 1000, 5, SlideNone, []Obstacle{slideWall, pegRight})
	require.Equal(t, SlideLeft, step.Commit)

	// Next tick both sides are clear but the direct step is still blocked.
	for i := 0; i < 5; i++ {
		step = s.Step(step.X, step.Y, 1200, 1000, 5, step.Commit, []Obstacle{slideWall})
		require.True(t, step.Moved)
		assert.Equal(t, SlideLeft, step.Commit, "tick %d", i)
	}
	assert.Less(t, step.Y, 995.0)
}

func TestSlideFlipsWhenCommittedSideBlocked(t *testing.T) {
	s := NewWallSlider(testWorld)
	step := s.Step(958, 1000, 1200, 1000, 5, SlideLeft, []Obstacle{slideWall, pegLeft})
	require.True(t, step.Moved)
	assert.Equal(t, SlideRight, step.Commit)
	assert.InDelta(t, 1005.0, step.Y, 1e-9)
}

func TestSlideAllBlockedKeepsCommitment(t *testing.T) {
	s := NewWallSlider(testWorld)
	obstacles := []Obstacle{slideWall, pegLeft, pegRight}

	step := s.Step(958, 1000, 1200, 1000, 5, SlideRight, obstacles)
	assert.False(t, step.Moved)
	assert.Equal(t, SlideRight, step.Commit)
	assert.Equal(t, 958.0, step.X)
	assert.Equal(t, 1000.0, step.Y)

	step = s.Step(958, 1000, 1200, 1000, 5, SlideNone, obstacles)
	assert.False(t, step.Moved)
	assert.Equal(t, SlideNone, step.Commit)
}

func TestSlideReleasesWhenDirectClears(t *testing.T) {
	s := NewWallSlider(testWorld)
	step := s.Step(958, 1200, 1200, 1200, 5, SlideRight, []Obstacle{slideWall})
	require.True(t, step.Moved)
	assert.Equal(t, SlideNone, step.Commit)
	assert.InDelta(t, 963.0, step.X, 1e-9)
}

func TestSlideAtTarget(t *testing.T) {
	s := NewWallSlider(testWorld)
	step := s.Step(300, 300, 300, 300, 5, SlideLeft, nil)
	assert.False(t, step.Moved)
	assert.Equal(t, SlideLeft, step.Commit)
}

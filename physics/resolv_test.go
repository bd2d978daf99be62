package physics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/locomotion/common"
)

func newResolvArena(t *testing.T) *ResolvWorld {
	t.Helper()
	w, err := NewResolvWorld(20, 10, 16, 16)
	require.NoError(t, err)
	// shift the shared arena right so it sits inside the grid
	for _, b := range arenaBoxes() {
		b.Min.X += 10
		b.Max.X += 10
		b.Min.Y += 1
		b.Max.Y += 1
		require.NoError(t, w.AddBox(b))
	}
	return w
}

func TestResolvWorldRejectsBadBoxes(t *testing.T) {
	_, err := NewResolvWorld(0, 10, 16, 16)
	assert.ErrorIs(t, err, ErrBadExtents)

	w := newResolvArena(t)
	assert.ErrorIs(t, w.AddBox(Box{Name: "flat", Max: common.Vec3{X: 1}}), ErrBadExtents)
}

func TestResolvBodyLandsOnFloor(t *testing.T) {
	w := newResolvArena(t)
	b, err := w.NewBody(common.Vec3{X: 10, Y: 3}, 0.5, 1.75)
	require.NoError(t, err)

	grounded := false
	for i := 0; i < 120 && !grounded; i++ {
		grounded = b.MoveAndSlide(common.Vec3{Y: -5}, dt).Grounded
	}
	require.True(t, grounded)
	assert.InDelta(t, 1+0.875, b.Position().Y, 1e-6)

	res := b.MoveAndSlide(common.Vec3{Y: -0.4}, dt)
	assert.True(t, res.Grounded)
	assert.Equal(t, 0.0, res.Velocity.Y)

	res = b.MoveAndSlide(common.Vec3{Y: 8}, dt)
	assert.False(t, res.Grounded)
}

func TestResolvBodyStopsAtWall(t *testing.T) {
	w := newResolvArena(t)
	b, err := w.NewBody(common.Vec3{X: 10, Y: 1 + 0.875}, 0.5, 1.75)
	require.NoError(t, err)

	climbable := false
	var res = b.MoveAndSlide(common.Vec3{}, dt)
	for i := 0; i < 120; i++ {
		res = b.MoveAndSlide(common.Vec3{X: 4, Y: -0.4}, dt)
		climbable = climbable || res.Climbable
	}
	assert.InDelta(t, 12-0.25, b.Position().X, 1e-6)
	assert.True(t, climbable)
	assert.True(t, res.Grounded)
	assert.Equal(t, 0.0, res.Velocity.X)
}

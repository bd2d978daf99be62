package physics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/locomotion/common"
)

func newChipmunkArena(t *testing.T) *ChipmunkWorld {
	t.Helper()
	w := NewChipmunkWorld(32)
	for _, b := range arenaBoxes() {
		require.NoError(t, w.AddBox(b))
	}
	return w
}

func TestChipmunkBodyLandsOnFloor(t *testing.T) {
	w := newChipmunkArena(t)
	b, err := w.NewBody(common.Vec3{Y: 2}, 0.6, 1.8)
	require.NoError(t, err)

	_, err = w.NewBody(common.Vec3{}, 1, 1)
	assert.Error(t, err, "one body per world")

	grounded := false
	for i := 0; i < 120; i++ {
		res := b.MoveAndSlide(common.Vec3{Y: -5}, dt)
		if res.Grounded {
			grounded = true
			assert.InDelta(t, 1.0, res.FloorNormal.Y, 1e-6)
			break
		}
	}
	require.True(t, grounded)
	assert.InDelta(t, 0.9, b.Position().Y, 0.2)

	res := b.MoveAndSlide(common.Vec3{Y: 8}, dt)
	assert.False(t, res.Grounded, "rising bodies are never grounded")
}

func TestChipmunkBodyStopsAtWall(t *testing.T) {
	w := newChipmunkArena(t)
	b, err := w.NewBody(common.Vec3{Y: 0.95}, 0.6, 1.8)
	require.NoError(t, err)

	climbable := false
	for i := 0; i < 120; i++ {
		res := b.MoveAndSlide(common.Vec3{X: 4, Y: -1}, dt)
		climbable = climbable || res.Climbable
	}
	assert.InDelta(t, 1.7, b.Position().X, 0.15)
	assert.True(t, climbable)
	assert.Equal(t, 0.0, b.Position().Z)
}

func TestChipmunkTeleport(t *testing.T) {
	w := newChipmunkArena(t)
	b, err := w.NewBody(common.Vec3{Y: 2}, 0.6, 1.8)
	require.NoError(t, err)
	b.Teleport(common.Vec3{X: -1, Y: 5, Z: 3})
	assert.InDelta(t, -1.0, b.Position().X, 1e-9)
	assert.InDelta(t, 5.0, b.Position().Y, 1e-9)
}

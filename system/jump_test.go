package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/locomotion/component"
)

func newJumpController(maxJumps int) *JumpController {
	t := component.DefaultTuning()
	t.MaxJumps = maxJumps
	return NewJumpController(t)
}

func TestJumpGroundContactRefills(t *testing.T) {
	j := newJumpController(2)
	assert.Equal(t, component.JumpState{}, j.State())

	j.OnGroundContactGained()
	assert.Equal(t, 2, j.State().JumpsRemaining)
	assert.InDelta(t, 0.1, j.State().CoyoteTimer, 1e-12)
}

func TestJumpGroundJumpGrantsOneImpulse(t *testing.T) {
	j := newJumpController(1)
	j.OnGroundContactGained()
	j.RequestJump()

	require.True(t, j.TryGroundJump())
	assert.Equal(t, 0, j.State().JumpsRemaining)
	assert.Equal(t, 0.0, j.State().CoyoteTimer)
	assert.False(t, j.HasBufferedJump())

	var m motion
	assert.True(t, j.ApplyGrantedImpulse(&m))
	assert.Equal(t, 8.0, m.Velocity.Y)

	m.Velocity.Y = 1
	assert.False(t, j.ApplyGrantedImpulse(&m))
	assert.Equal(t, 1.0, m.Velocity.Y)
}

func TestJumpGates(t *testing.T) {
	cases := []struct {
		name       string
		grounded   bool
		request    bool
		airTicks   int
		wantGround bool
		wantAir    bool
	}{
		{"no_request", true, false, 0, false, false},
		{"grounded_request", true, true, 0, true, true},
		{"inside_coyote", false, true, 3, true, true},
		{"after_coyote_keeps_air_charge", false, true, 10, false, true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ground := newJumpController(2)
			ground.OnGroundContactGained()
			air := newJumpController(2)
			air.OnGroundContactGained()
			for i := 0; i < c.airTicks; i++ {
				ground.Tick(testDT, c.grounded)
				air.Tick(testDT, c.grounded)
			}
			if c.request {
				ground.RequestJump()
				air.RequestJump()
			}
			assert.Equal(t, c.wantGround, ground.TryGroundJump())
			assert.Equal(t, c.wantAir, air.TryAirJump())
		})
	}
}

func TestJumpCoyoteExpiryForfeitsGroundCharge(t *testing.T) {
	j := newJumpController(2)
	j.OnGroundContactGained()

	prev := j.State().CoyoteTimer
	for i := 0; i < 10; i++ {
		j.Tick(testDT, false)
		assert.LessOrEqual(t, j.State().CoyoteTimer, prev)
		prev = j.State().CoyoteTimer
	}
	assert.Equal(t, 0.0, j.State().CoyoteTimer)
	assert.Equal(t, 1, j.State().JumpsRemaining)

	// forfeiture happens once
	j.Tick(testDT, false)
	assert.Equal(t, 1, j.State().JumpsRemaining)
}

func TestJumpCoyoteHoldsWhileGrounded(t *testing.T) {
	j := newJumpController(2)
	j.OnGroundContactGained()
	for i := 0; i < 30; i++ {
		j.Tick(testDT, true)
	}
	assert.InDelta(t, 0.1, j.State().CoyoteTimer, 1e-12)
	assert.Equal(t, 2, j.State().JumpsRemaining)
}

func TestJumpBufferWindow(t *testing.T) {
	cases := []struct {
		name  string
		ticks int
		want  bool
	}{
		{"same_tick", 0, true},
		{"five_ticks", 5, true},
		{"exactly_window", 6, true},
		{"past_window", 7, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			j := newJumpController(1)
			j.RequestJump()
			for i := 0; i < c.ticks; i++ {
				j.Tick(testDT, false)
			}
			assert.Equal(t, c.want, j.HasBufferedJump())
		})
	}
}

func TestJumpConsumeBufferOnce(t *testing.T) {
	j := newJumpController(1)
	assert.False(t, j.TryConsumeJumpBuffer())
	j.RequestJump()
	assert.True(t, j.TryConsumeJumpBuffer())
	assert.False(t, j.TryConsumeJumpBuffer())
	assert.Equal(t, 0.0, j.State().JumpBufferTimer)
}

func TestJumpNoChargesNoImpulse(t *testing.T) {
	j := newJumpController(2)
	j.OnGroundContactGained()
	for i := 0; i < 2; i++ {
		j.RequestJump()
		require.True(t, j.TryAirJump())
	}
	j.RequestJump()
	assert.False(t, j.TryGroundJump())
	assert.False(t, j.TryAirJump())
	assert.Equal(t, 0, j.State().JumpsRemaining)
}

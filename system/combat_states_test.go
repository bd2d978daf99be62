package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/locomotion/common"
	"github.com/milk9111/locomotion/component"
)

func TestBlockingSlowsMovement(t *testing.T) {
	tuning := component.DefaultTuning()
	tuning.InputSmoothing = 0
	c, _ := groundedCharacter(t, tuning)

	block := component.RawInput{Move: common.Vec2{X: 1}, Run: true, Block: true}
	c.Tick(block, testDT)
	require.Equal(t, component.StateBlocking, c.State())

	tickN(c, block, 60)
	assert.Equal(t, component.StateBlocking, c.State())
	assert.InDelta(t, tuning.WalkSpeed*tuning.BlockSpeedFactor, c.Motion().Velocity.X, 1e-9)

	c.Tick(component.RawInput{Move: common.Vec2{X: 1}, Run: true}, testDT)
	assert.Equal(t, component.StateRunning, c.State())
}

func TestAttackingTimesOut(t *testing.T) {
	c, _ := groundedCharacter(t, component.DefaultTuning())
	c.Tick(component.RawInput{AttackPressed: true}, testDT)
	require.Equal(t, component.StateAttacking, c.State())

	// no jumping out of an attack
	c.Tick(component.RawInput{JumpPressed: true}, testDT)
	assert.Equal(t, component.StateAttacking, c.State())
	assert.LessOrEqual(t, c.Motion().Velocity.Y, 0.0)

	tickN(c, component.RawInput{}, 20)
	assert.Equal(t, component.StateIdle, c.State())
}

func TestAttackingAccelerationIsReduced(t *testing.T) {
	tuning := component.DefaultTuning()
	tuning.InputSmoothing = 0
	c, _ := groundedCharacter(t, tuning)
	c.Tick(component.RawInput{AttackPressed: true}, testDT)

	c.Tick(component.RawInput{Move: common.Vec2{X: 1}}, testDT)
	assert.InDelta(t, tuning.WalkAccel*tuning.AttackAccelFactor*testDT, c.Motion().Velocity.X, 1e-9)
}

func TestStunnedIgnoresInput(t *testing.T) {
	c, _ := groundedCharacter(t, component.DefaultTuning())
	tickN(c, component.RawInput{Move: common.Vec2{Y: 1}, Run: true}, 30)
	require.Equal(t, component.StateRunning, c.State())

	require.NoError(t, c.Interrupt(component.StateStunned))
	run := component.RawInput{Move: common.Vec2{Y: 1}, Run: true, JumpPressed: true}
	tickN(c, run, 30)
	assert.Equal(t, component.StateStunned, c.State())
	assert.Equal(t, 0.0, c.Motion().Velocity.Z)
	assert.Equal(t, 2, c.JumpState().JumpsRemaining)

	tickN(c, component.RawInput{Move: common.Vec2{Y: 1}, Run: true}, 6)
	assert.Equal(t, component.StateRunning, c.State())
}

func TestClimbing(t *testing.T) {
	tuning := component.DefaultTuning()
	tuning.InputSmoothing = 0
	c, body := groundedCharacter(t, tuning)
	body.climbable = true

	c.Tick(component.RawInput{Climb: true}, testDT)
	require.Equal(t, component.StateClimbing, c.State())

	up := component.RawInput{Move: common.Vec2{Y: 1}, Climb: true}
	tickN(c, up, 30)
	assert.Equal(t, component.StateClimbing, c.State())
	assert.InDelta(t, tuning.ClimbSpeed, c.Motion().Velocity.Y, 1e-12)
	assert.InDelta(t, tuning.ClimbSpeed*30*testDT, c.Motion().Position.Y, 1e-9)
	assert.Equal(t, 0.0, c.Motion().Velocity.Z)

	// holding still keeps the height
	tickN(c, component.RawInput{Climb: true}, 10)
	assert.InDelta(t, tuning.ClimbSpeed*30*testDT, c.Motion().Position.Y, 1e-9)

	c.Tick(component.RawInput{Climb: true, JumpPressed: true}, testDT)
	assert.Equal(t, component.StateAirborne, c.State())
}

func TestClimbingEndsWithoutSurface(t *testing.T) {
	c, body := groundedCharacter(t, component.DefaultTuning())
	body.climbable = true
	c.Tick(component.RawInput{Climb: true}, testDT)
	tickN(c, component.RawInput{Move: common.Vec2{Y: 1}, Climb: true}, 10)
	require.Equal(t, component.StateClimbing, c.State())

	body.climbable = false
	c.Tick(component.RawInput{Move: common.Vec2{Y: 1}, Climb: true}, testDT)
	assert.Equal(t, component.StateAirborne, c.State())
}

func TestClimbingDownToGround(t *testing.T) {
	c, body := groundedCharacter(t, component.DefaultTuning())
	body.climbable = true
	c.Tick(component.RawInput{Climb: true}, testDT)
	tickN(c, component.RawInput{Move: common.Vec2{Y: 1}, Climb: true}, 10)

	tickN(c, component.RawInput{Move: common.Vec2{Y: -1}, Climb: true}, 30)
	assert.Equal(t, component.StateWalking, c.State())
}

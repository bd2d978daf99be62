package present

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/locomotion/common"
	"github.com/milk9111/locomotion/component"
	"github.com/milk9111/locomotion/system"
)

func TestCameraBasisFollowsYaw(t *testing.T) {
	rig := NewCameraRig(640, 360, 32)

	basis, ok := rig.Basis()
	require.True(t, ok)
	assert.InDelta(t, component.WorldBasis.Forward.Z, basis.Forward.Z, 1e-9)
	assert.InDelta(t, component.WorldBasis.Right.X, basis.Right.X, 1e-9)

	rig.SetYaw(math.Pi / 2)
	basis, _ = rig.Basis()
	assert.InDelta(t, 1, basis.Forward.X, 1e-9)
	assert.InDelta(t, 1, basis.Right.Z, 1e-9)
	assert.InDelta(t, 0, basis.Forward.Dot(basis.Right), 1e-9)
}

func TestScreenRoundTrip(t *testing.T) {
	rig := NewCameraRig(640, 360, 32)
	rig.Snap(common.Vec3{X: 5, Y: 2})

	x, y := rig.WorldToScreen(common.Vec3{X: 5, Y: 2})
	assert.InDelta(t, 320, x, 1e-9)
	assert.InDelta(t, 180, y, 1e-9)

	x, y = rig.WorldToScreen(common.Vec3{X: 6, Y: 3})
	assert.InDelta(t, 352, x, 1e-9)
	assert.InDelta(t, 148, y, 1e-9)

	p := rig.ScreenToWorld(352, 148)
	assert.InDelta(t, 6, p.X, 1e-9)
	assert.InDelta(t, 3, p.Y, 1e-9)

	_, ok := rig.Pick(-1, 10)
	assert.False(t, ok)
}

func TestLandingDipReturns(t *testing.T) {
	rig := NewCameraRig(640, 360, 32)
	target := common.Vec3{X: 1, Y: 1}
	rig.Snap(target)

	rig.OnStateChanged(system.StateChange{From: component.StateAirborne, To: component.StateLanding})
	lowest := 0.0
	for i := 0; i < 60; i++ {
		rig.Update(target, 1.0/60)
		lowest = math.Min(lowest, rig.Center().Y-target.Y)
	}
	assert.Less(t, lowest, -dipDepth/2)
	assert.InDelta(t, target.Y, rig.Center().Y, 1e-6)
}

func TestRunZoom(t *testing.T) {
	rig := NewCameraRig(640, 360, 32)
	rig.OnStateChanged(system.StateChange{From: component.StateWalking, To: component.StateRunning})
	for i := 0; i < 60; i++ {
		rig.Update(common.Vec3{}, 1.0/60)
	}
	assert.InDelta(t, runZoom, rig.Zoom(), 1e-6)

	rig.OnStateChanged(system.StateChange{From: component.StateRunning, To: component.StateAirborne})
	for i := 0; i < 60; i++ {
		rig.Update(common.Vec3{}, 1.0/60)
	}
	assert.InDelta(t, 1, rig.Zoom(), 1e-6)
}

func TestMarkerFollowsDestination(t *testing.T) {
	m := NewDestinationMarker()
	m.OnDestinationChanged(system.DestinationChange{Target: common.Vec3{X: 3}, Active: true, Reason: system.DestinationSet})
	m.Update(0.1)
	assert.True(t, m.Visible())

	m.OnDestinationChanged(system.DestinationChange{Target: common.Vec3{X: 3}, Reason: system.DestinationArrived})
	for i := 0; i < 20; i++ {
		m.Update(1.0 / 60)
	}
	assert.False(t, m.Visible())
}

func TestFormatSnapshot(t *testing.T) {
	snap := component.DebugSnapshot{
		State:    component.StateAirborne,
		Previous: component.StateJumping,
		Tick:     42,
		Jump:     component.JumpState{JumpsRemaining: 1},
		History: []component.TransitionRecord{
			{From: component.StateNone, To: component.StateIdle, Tick: 0},
			{From: component.StateIdle, To: component.StateJumping, Tick: 30},
			{From: component.StateJumping, To: component.StateAirborne, Tick: 36},
		},
		HasDestination: true,
		Destination:    common.Vec3{X: 4},
	}
	text := FormatSnapshot(snap)
	assert.Contains(t, text, "State: airborne (from jumping)")
	assert.Contains(t, text, "Jumps: 1")
	assert.Contains(t, text, "Destination: 4.00")
	assert.Contains(t, text, "0 none -> idle")
	assert.Contains(t, text, "36 jumping -> airborne")
}

func TestStateColor(t *testing.T) {
	assert.NotEqual(t, StateColor(component.StateIdle), StateColor(component.StateRunning))
	assert.Equal(t, StateColor("flying"), StateColor("swimming"))
}

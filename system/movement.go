package system

import (
	"math"

	"github.com/milk9111/locomotion/common"
	"github.com/milk9111/locomotion/component"
)

// MovementModel turns arbitrated input into horizontal velocity. All of its
// methods are pure; states write the results back into the motion state.
//
// Velocity ramps linearly toward the target on each horizontal axis at
// accel*dt per tick. Linear ramps keep tuning and replays predictable.
type MovementModel struct {
	tuning component.Tuning
}

func NewMovementModel(t component.Tuning) MovementModel {
	return MovementModel{tuning: t}
}

// WorldDirection rotates a stick vector into the camera's horizontal plane.
// A nil or degenerate basis falls back to world axes.
func (m MovementModel) WorldDirection(dir common.Vec2, basis *component.CameraBasis) common.Vec3 {
	b := resolveBasis(basis)
	return b.Right.Scale(dir.X).Add(b.Forward.Scale(dir.Y)).Normalize()
}

func resolveBasis(basis *component.CameraBasis) component.CameraBasis {
	if basis == nil {
		return component.WorldBasis
	}
	right := basis.Right.Horizontal().Normalize()
	forward := basis.Forward.Horizontal().Normalize()
	if right.Len() == 0 || forward.Len() == 0 {
		return component.WorldBasis
	}
	return component.CameraBasis{Forward: forward, Right: right}
}

// Target picks the world direction and the (speed, acceleration) pair from
// the speed table. Airborne rows keep the ground speed and scale the
// acceleration by AirControl. Input inside the deadzone targets zero speed.
func (m MovementModel) Target(in component.InputSnapshot, grounded bool, basis *component.CameraBasis) (dir common.Vec3, speed, accel float64) {
	speed, accel = m.tuning.Speed(in.Mode)
	if !grounded {
		accel *= m.tuning.AirControl
	}
	if in.Magnitude <= m.tuning.Deadzone {
		return common.Vec3{}, 0, accel
	}
	return m.WorldDirection(in.Direction, basis), speed, accel
}

// Step moves each horizontal axis of v toward target by at most accel*dt.
// The vertical component is returned unchanged.
func (m MovementModel) Step(v, target common.Vec3, accel, dt float64) common.Vec3 {
	maxDelta := accel * dt
	return common.Vec3{
		X: common.MoveToward(v.X, target.X, maxDelta),
		Y: v.Y,
		Z: common.MoveToward(v.Z, target.Z, maxDelta),
	}
}

// Decelerate ramps the horizontal velocity toward zero.
func (m MovementModel) Decelerate(v common.Vec3, decel, dt float64) common.Vec3 {
	return m.Step(v, common.Vec3{}, decel, dt)
}

// Damp scales the horizontal velocity.
func (m MovementModel) Damp(v common.Vec3, factor float64) common.Vec3 {
	return common.Vec3{X: v.X * factor, Y: v.Y, Z: v.Z * factor}
}

// Turn rotates facing toward dir at TurnRate. Facing 0 looks down -Z and
// positive angles turn toward +X.
func (m MovementModel) Turn(facing float64, dir common.Vec3, dt float64) float64 {
	if dir.X == 0 && dir.Z == 0 {
		return facing
	}
	target := math.Atan2(dir.X, -dir.Z)
	return common.MoveTowardAngle(facing, target, m.tuning.TurnRate*dt)
}

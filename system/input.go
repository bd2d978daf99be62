package system

import (
	"math"

	"github.com/milk9111/locomotion/common"
	"github.com/milk9111/locomotion/component"
)

// DestinationReason says why a click destination changed.
type DestinationReason string

const (
	DestinationSet     DestinationReason = "set"
	DestinationManual  DestinationReason = "manual"
	DestinationArrived DestinationReason = "arrived"
	DestinationCleared DestinationReason = "cleared"
)

// DestinationChange is emitted whenever the autopilot target is set or cancelled.
type DestinationChange struct {
	Target common.Vec3
	Active bool
	Reason DestinationReason
}

// InputArbiter merges direct stick input and a clicked destination into one
// snapshot per tick. Direct input always wins: any nonzero stick cancels the
// destination.
type InputArbiter struct {
	tuning component.Tuning
	camera CameraSource

	smoothed       common.Vec2
	destination    common.Vec3
	hasDestination bool

	changed Signal[DestinationChange]
}

func NewInputArbiter(t component.Tuning, camera CameraSource) *InputArbiter {
	return &InputArbiter{tuning: t, camera: camera}
}

// SetDestination starts autopilot toward a world point.
func (a *InputArbiter) SetDestination(p common.Vec3) {
	a.destination = p
	a.hasDestination = true
	a.changed.Emit(DestinationChange{Target: p, Active: true, Reason: DestinationSet})
}

// ClearDestination stops autopilot.
func (a *InputArbiter) ClearDestination() {
	a.cancel(DestinationCleared)
}

// Destination returns the active target, if any.
func (a *InputArbiter) Destination() (common.Vec3, bool) {
	return a.destination, a.hasDestination
}

// OnDestinationChanged subscribes fn to destination updates.
func (a *InputArbiter) OnDestinationChanged(fn func(DestinationChange)) (unsubscribe func()) {
	return a.changed.Connect(fn)
}

// Update produces the snapshot for this tick. position is the character's
// current world position, used to steer toward the destination.
func (a *InputArbiter) Update(raw component.RawInput, position common.Vec3, dt float64) component.InputSnapshot {
	if raw.HasClick {
		a.SetDestination(raw.Click)
	}

	stick := raw.Move
	if l := stick.Len(); l > 1 {
		stick = stick.Scale(1 / l)
	}
	if stick.Len() > 0 && a.hasDestination {
		a.cancel(DestinationManual)
	}

	mode := modeFromFlags(raw)
	dir := stick.Normalize()
	mag := stick.Len()
	autopilot := false

	if a.hasDestination {
		delta := a.destination.Sub(position).Horizontal()
		if dist := delta.Len(); dist <= a.tuning.ArrivalRadius {
			a.cancel(DestinationArrived)
		} else {
			dir = a.toStick(delta.Scale(1 / dist))
			mag = 1
			mode = a.tuning.DestinationMode
			autopilot = true
		}
	}

	var target common.Vec2
	if mag > 0 {
		target = dir
	}
	a.smoothed = a.smooth(a.smoothed, target, dt)

	out := component.InputSnapshot{
		Magnitude:     mag,
		Mode:          mode,
		JumpRequested: raw.JumpPressed,
		Attack:        raw.AttackPressed,
		Block:         raw.Block,
		Climb:         raw.Climb,
		Autopilot:     autopilot,
	}
	if mag > 0 {
		out.Direction = a.smoothed.Normalize()
		if out.Direction.Len() == 0 {
			out.Direction = dir
		}
	}
	return out
}

func (a *InputArbiter) smooth(current, target common.Vec2, dt float64) common.Vec2 {
	tau := a.tuning.InputSmoothing
	if tau <= 0 || dt <= 0 {
		return target
	}
	alpha := 1 - math.Exp(-dt/tau)
	return current.Add(target.Sub(current).Scale(alpha))
}

// toStick projects a world direction back into camera-relative stick space,
// so the movement model rotates both input sources the same way.
func (a *InputArbiter) toStick(world common.Vec3) common.Vec2 {
	var basis *component.CameraBasis
	if a.camera != nil {
		if cb, ok := a.camera.Basis(); ok {
			basis = &cb
		}
	}
	b := resolveBasis(basis)
	return common.Vec2{X: world.Dot(b.Right), Y: world.Dot(b.Forward)}.Normalize()
}

func (a *InputArbiter) cancel(reason DestinationReason) {
	if !a.hasDestination {
		return
	}
	target := a.destination
	a.hasDestination = false
	a.changed.Emit(DestinationChange{Target: target, Active: false, Reason: reason})
}

func (a *InputArbiter) reset() {
	a.smoothed = common.Vec2{}
	a.ClearDestination()
}

// modeFromFlags resolves the mode flags. Slow-walk beats run when both are held.
func modeFromFlags(raw component.RawInput) component.MoveMode {
	switch {
	case raw.SlowWalk:
		return component.ModeSlowWalk
	case raw.Run:
		return component.ModeRun
	default:
		return component.ModeWalk
	}
}

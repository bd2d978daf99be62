package system

import (
	"log"

	"github.com/milk9111/locomotion/common"
	"github.com/milk9111/locomotion/component"
)

// State is one locomotion mode. States are built once per character and
// reused across transitions, so anything a state tracks must be reset in Enter.
type State interface {
	Enter(ctx *Context)
	Exit(ctx *Context)
	Update(ctx *Context, dt float64)
}

// InputHandler is implemented by states that react to input before Update.
type InputHandler interface {
	HandleInput(ctx *Context)
}

// KinematicBody is the physics backend. The core never touches collision
// geometry; it hands a velocity in and reads the resolved result back.
type KinematicBody interface {
	MoveAndSlide(velocity common.Vec3, dt float64) component.MoveResult
	Position() common.Vec3
	Teleport(pos common.Vec3)
}

// CameraSource exposes a read-only horizontal basis. ok=false means no
// camera is available and world axes are used.
type CameraSource interface {
	Basis() (basis component.CameraBasis, ok bool)
}

// InputSource is polled once per tick.
type InputSource interface {
	Poll() component.RawInput
}

// motion wraps the character's MotionState. setHorizontal is reserved for
// movement model output and setVertical for gravity, jump and climb.
type motion struct {
	component.MotionState
}

func (m *motion) setHorizontal(v common.Vec3) {
	m.Velocity.X = v.X
	m.Velocity.Z = v.Z
}

func (m *motion) setVertical(y float64) {
	m.Velocity.Y = y
}

// Context is what a state can see and call during a tick.
type Context struct {
	Tuning *component.Tuning
	Input  component.InputSnapshot
	Motion *motion
	Jump   *JumpController
	Move   MovementModel
	Body   KinematicBody
	Camera CameraSource

	machine *StateMachine
	logger  *log.Logger

	integrated  bool
	lastResult  component.MoveResult
	landed      bool
	impactSpeed float64
}

// ChangeState requests a transition. Requests made while a state is running
// are committed after it returns. Unknown ids return ErrUnknownState.
func (c *Context) ChangeState(id component.StateID) error {
	if c == nil || c.machine == nil {
		return ErrNotStarted
	}
	return c.machine.ChangeState(id)
}

// TimeInState is the seconds since the active state was entered, including
// the current tick.
func (c *Context) TimeInState() float64 {
	if c == nil || c.machine == nil {
		return 0
	}
	return c.machine.TimeInState()
}

// Basis returns the camera basis, or nil when no camera is bound.
func (c *Context) Basis() *component.CameraBasis {
	if c == nil || c.Camera == nil {
		return nil
	}
	b, ok := c.Camera.Basis()
	if !ok {
		return nil
	}
	return &b
}

// Integrate hands the current velocity to the physics backend and copies the
// resolved motion back. The first grounded contact after being airborne
// refills the jump controller.
func (c *Context) Integrate(dt float64) component.MoveResult {
	if c.integrated {
		if c.logger != nil {
			c.logger.Printf("system: integrate called twice in one tick by %q", c.machine.Current())
		}
		return c.lastResult
	}
	c.integrated = true

	before := c.Motion.Velocity
	res := c.Body.MoveAndSlide(before, dt)
	wasGrounded := c.Motion.Grounded

	c.Motion.Velocity = res.Velocity
	c.Motion.Grounded = res.Grounded
	c.Motion.FloorNormal = res.FloorNormal
	c.Motion.Climbable = res.Climbable
	c.Motion.Position = c.Body.Position()

	if !wasGrounded && res.Grounded {
		c.Jump.OnGroundContactGained()
		c.landed = true
		c.impactSpeed = -before.Y
	}
	c.lastResult = res
	return res
}

func (c *Context) beginTick(in component.InputSnapshot) {
	c.Input = in
	c.integrated = false
	c.landed = false
	c.impactSpeed = 0
}

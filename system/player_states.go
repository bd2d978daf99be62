package system

import "github.com/milk9111/locomotion/component"

type idleState struct{}

type groundMoveState struct {
	id component.StateID
}

type jumpingState struct{}

type airborneState struct{}

type landingState struct{}

func (idleState) Enter(ctx *Context) {}
func (idleState) Exit(ctx *Context)  {}
func (idleState) Update(ctx *Context, dt float64) {
	decelerate(ctx, ctx.Tuning.GroundDecel, dt)
	applyGravity(ctx, dt)
	ctx.Integrate(dt)

	if !ctx.Motion.Grounded {
		ctx.ChangeState(component.StateAirborne)
		return
	}
	if ctx.Jump.TryGroundJump() {
		ctx.ChangeState(component.StateJumping)
		return
	}
	if startGroundAction(ctx) {
		return
	}
	if ctx.Input.Magnitude > ctx.Tuning.Deadzone {
		ctx.ChangeState(moveStateFor(ctx))
	}
}

// groundMoveState backs both Walking and Running. The mode flags pick the
// speed row, so the two only differ by id.
func (s *groundMoveState) Enter(ctx *Context) {}
func (s *groundMoveState) Exit(ctx *Context)  {}
func (s *groundMoveState) Update(ctx *Context, dt float64) {
	drive(ctx, ctx.Input, dt, true, 1, 1)
	applyGravity(ctx, dt)
	ctx.Integrate(dt)

	if !ctx.Motion.Grounded {
		ctx.ChangeState(component.StateAirborne)
		return
	}
	if ctx.Jump.TryGroundJump() {
		ctx.ChangeState(component.StateJumping)
		return
	}
	if startGroundAction(ctx) {
		return
	}
	if next := moveStateFor(ctx); next != s.id {
		ctx.ChangeState(next)
	}
}

// Jumping applies the approved impulse once and hands over to Airborne after
// a short window, long enough for the backend to report that the ground is gone.
func (jumpingState) Enter(ctx *Context) {
	if !ctx.Jump.ApplyGrantedImpulse(ctx.Motion) {
		if ctx.logger != nil {
			ctx.logger.Print("system: entered jumping without an approved jump")
		}
		return
	}
	// the next floor report must be a fresh contact so a bonked jump refills
	ctx.Motion.Grounded = false
}
func (jumpingState) Exit(ctx *Context) {}
func (jumpingState) Update(ctx *Context, dt float64) {
	drive(ctx, ctx.Input, dt, false, 1, 1)
	applyGravity(ctx, dt)
	ctx.Integrate(dt)

	if elapsed(ctx, ctx.Tuning.JumpWindow) {
		ctx.ChangeState(component.StateAirborne)
	}
}

func (airborneState) Enter(ctx *Context) {}
func (airborneState) Exit(ctx *Context)  {}
func (airborneState) Update(ctx *Context, dt float64) {
	drive(ctx, ctx.Input, dt, false, 1, 1)
	applyGravity(ctx, dt)
	ctx.Integrate(dt)

	if ctx.Motion.Grounded {
		// a press buffered before touchdown fires on the touchdown tick
		if ctx.Jump.TryGroundJump() {
			ctx.ChangeState(component.StateJumping)
			return
		}
		ctx.ChangeState(component.StateLanding)
		return
	}
	if ctx.Jump.TryGroundJump() || ctx.Jump.TryAirJump() {
		ctx.ChangeState(component.StateJumping)
		return
	}
	if ctx.Input.Climb && ctx.Motion.Climbable {
		ctx.ChangeState(component.StateClimbing)
	}
}

func (landingState) Enter(ctx *Context) {
	ctx.Motion.setHorizontal(ctx.Move.Damp(ctx.Motion.Velocity, ctx.Tuning.LandingDamping))
}
func (landingState) Exit(ctx *Context) {}
func (landingState) Update(ctx *Context, dt float64) {
	drive(ctx, ctx.Input, dt, true, ctx.Tuning.LandingSpeedFactor, 1)
	applyGravity(ctx, dt)
	ctx.Integrate(dt)

	if !ctx.Motion.Grounded {
		ctx.ChangeState(component.StateAirborne)
		return
	}
	if ctx.Jump.TryGroundJump() {
		ctx.ChangeState(component.StateJumping)
		return
	}
	if elapsed(ctx, ctx.Tuning.LandingRecovery) {
		ctx.ChangeState(moveStateFor(ctx))
	}
}

// drive steers the horizontal velocity toward the input target and turns
// the character toward the movement direction.
func drive(ctx *Context, in component.InputSnapshot, dt float64, grounded bool, speedScale, accelScale float64) {
	dir, speed, accel := ctx.Move.Target(in, grounded, ctx.Basis())
	target := dir.Scale(speed * speedScale)
	ctx.Motion.setHorizontal(ctx.Move.Step(ctx.Motion.Velocity, target, accel*accelScale, dt))
	ctx.Motion.Facing = ctx.Move.Turn(ctx.Motion.Facing, dir, dt)
}

func decelerate(ctx *Context, decel, dt float64) {
	ctx.Motion.setHorizontal(ctx.Move.Decelerate(ctx.Motion.Velocity, decel, dt))
}

// applyGravity pulls the vertical velocity down, harder while falling, and
// clamps it at the terminal fall speed.
func applyGravity(ctx *Context, dt float64) {
	t := ctx.Tuning
	vy := ctx.Motion.Velocity.Y
	mult := t.GravityMultiplier
	if vy < 0 {
		mult *= t.FallGravityMultiplier
	}
	vy -= t.Gravity * mult * dt
	if t.MaxFallSpeed > 0 && vy < -t.MaxFallSpeed {
		vy = -t.MaxFallSpeed
	}
	ctx.Motion.setVertical(vy)
}

func elapsed(ctx *Context, window float64) bool {
	return ctx.TimeInState() >= window-timerEpsilon
}

// moveStateFor picks the grounded state matching the current input.
func moveStateFor(ctx *Context) component.StateID {
	if ctx.Input.Magnitude <= ctx.Tuning.Deadzone {
		return component.StateIdle
	}
	if ctx.Input.Mode == component.ModeRun {
		return component.StateRunning
	}
	return component.StateWalking
}

// resolveMovement picks the state a timed action falls back to.
func resolveMovement(ctx *Context) component.StateID {
	if !ctx.Motion.Grounded {
		return component.StateAirborne
	}
	return moveStateFor(ctx)
}

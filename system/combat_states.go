package system

import "github.com/milk9111/locomotion/component"

type blockingState struct{}

type attackingState struct{}

type stunnedState struct{}

type climbingState struct{}

// startGroundAction enters an action state from a grounded movement state.
// Pulling back while holding climb steps away from the wall instead of
// grabbing it again.
func startGroundAction(ctx *Context) bool {
	switch {
	case ctx.Input.Attack:
		ctx.ChangeState(component.StateAttacking)
	case ctx.Input.Block:
		ctx.ChangeState(component.StateBlocking)
	case ctx.Input.Climb && ctx.Motion.Climbable && ctx.Input.Direction.Y >= 0:
		ctx.ChangeState(component.StateClimbing)
	default:
		return false
	}
	return true
}

func (blockingState) Enter(ctx *Context) {}
func (blockingState) Exit(ctx *Context)  {}
func (blockingState) Update(ctx *Context, dt float64) {
	in := ctx.Input
	in.Mode = component.ModeWalk
	drive(ctx, in, dt, true, ctx.Tuning.BlockSpeedFactor, 1)
	applyGravity(ctx, dt)
	ctx.Integrate(dt)

	if !ctx.Motion.Grounded {
		ctx.ChangeState(component.StateAirborne)
		return
	}
	if !ctx.Input.Block {
		ctx.ChangeState(moveStateFor(ctx))
	}
}

func (attackingState) Enter(ctx *Context) {}
func (attackingState) Exit(ctx *Context)  {}
func (attackingState) Update(ctx *Context, dt float64) {
	drive(ctx, ctx.Input, dt, true, 1, ctx.Tuning.AttackAccelFactor)
	applyGravity(ctx, dt)
	ctx.Integrate(dt)

	if !ctx.Motion.Grounded {
		ctx.ChangeState(component.StateAirborne)
		return
	}
	if elapsed(ctx, ctx.Tuning.AttackDuration) {
		ctx.ChangeState(moveStateFor(ctx))
	}
}

// Stunned ignores input until the stun wears off.
func (stunnedState) Enter(ctx *Context) {}
func (stunnedState) Exit(ctx *Context)  {}
func (stunnedState) Update(ctx *Context, dt float64) {
	decel := ctx.Tuning.GroundDecel
	if !ctx.Motion.Grounded {
		decel *= ctx.Tuning.AirControl
	}
	decelerate(ctx, decel, dt)
	applyGravity(ctx, dt)
	ctx.Integrate(dt)

	if elapsed(ctx, ctx.Tuning.StunDuration) {
		ctx.ChangeState(resolveMovement(ctx))
	}
}

// Climbing turns gravity off and maps the forward stick onto vertical speed.
func (climbingState) Enter(ctx *Context) {
	ctx.Motion.setVertical(0)
}
func (climbingState) Exit(ctx *Context) {}
func (climbingState) Update(ctx *Context, dt float64) {
	decelerate(ctx, ctx.Tuning.GroundDecel, dt)
	climb := 0.0
	if ctx.Input.Magnitude > ctx.Tuning.Deadzone {
		climb = ctx.Input.Direction.Y * ctx.Tuning.ClimbSpeed
	}
	ctx.Motion.setVertical(climb)
	ctx.Integrate(dt)

	switch {
	case ctx.Jump.TryConsumeJumpBuffer():
		// jumping off a wall lets go without an impulse
		ctx.ChangeState(component.StateAirborne)
	case !ctx.Motion.Climbable || !ctx.Input.Climb:
		ctx.ChangeState(resolveMovement(ctx))
	case ctx.Motion.Grounded && climb < 0:
		ctx.ChangeState(moveStateFor(ctx))
	}
}

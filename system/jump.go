package system

import "github.com/milk9111/locomotion/component"

// timerEpsilon absorbs float drift when a timer is decremented by a fixed dt
// a whole number of times.
const timerEpsilon = 1e-9

// JumpController is the only place that decides whether a jump may happen.
// Approval consumes the buffered request, one charge and the coyote window in
// one step and grants exactly one impulse, which the Jumping state applies.
type JumpController struct {
	coyoteTime   float64
	bufferTime   float64
	maxJumps     int
	jumpVelocity float64

	state    component.JumpState
	buffered bool
	granted  bool
}

func NewJumpController(t component.Tuning) *JumpController {
	return &JumpController{
		coyoteTime:   t.CoyoteTime,
		bufferTime:   t.JumpBufferTime,
		maxJumps:     t.MaxJumps,
		jumpVelocity: t.JumpVelocity,
	}
}

// State returns a copy of the timers and charges.
func (j *JumpController) State() component.JumpState {
	return j.state
}

// OnGroundContactGained refills the coyote window and the charges. It must
// only be called on the airborne to grounded edge.
func (j *JumpController) OnGroundContactGained() {
	j.state.CoyoteTimer = j.coyoteTime
	j.state.JumpsRemaining = j.maxJumps
}

// Tick decays the timers. The buffer decays every tick; the coyote window only
// while airborne. A request whose timer had already run out before this tick
// is dropped here.
func (j *JumpController) Tick(dt float64, grounded bool) {
	if j.buffered {
		if j.state.JumpBufferTimer <= 0 {
			j.buffered = false
		} else {
			j.state.JumpBufferTimer = decay(j.state.JumpBufferTimer, dt)
		}
	}
	if !grounded && j.state.CoyoteTimer > 0 {
		j.state.CoyoteTimer = decay(j.state.CoyoteTimer, dt)
		if j.state.CoyoteTimer == 0 {
			j.forfeitGroundCharge()
		}
	}
}

// RequestJump remembers a press for the buffer window.
func (j *JumpController) RequestJump() {
	j.buffered = true
	j.state.JumpBufferTimer = j.bufferTime
}

// HasBufferedJump reports whether a press is waiting to be used.
func (j *JumpController) HasBufferedJump() bool {
	return j.buffered
}

// TryConsumeJumpBuffer clears a pending request. It returns true at most
// once per RequestJump.
func (j *JumpController) TryConsumeJumpBuffer() bool {
	if !j.buffered {
		return false
	}
	j.buffered = false
	j.state.JumpBufferTimer = 0
	return true
}

// TryGroundJump approves a buffered jump from the ground or within the
// coyote window.
func (j *JumpController) TryGroundJump() bool {
	if !j.buffered || j.state.CoyoteTimer <= 0 || j.state.JumpsRemaining <= 0 {
		return false
	}
	j.approve()
	return true
}

// TryAirJump approves a buffered extra jump while airborne. The coyote
// window plays no part here.
func (j *JumpController) TryAirJump() bool {
	if !j.buffered || j.state.JumpsRemaining <= 0 {
		return false
	}
	j.approve()
	return true
}

// ApplyGrantedImpulse sets the vertical velocity if a jump was approved and
// not yet applied.
func (j *JumpController) ApplyGrantedImpulse(m *motion) bool {
	if !j.granted {
		return false
	}
	j.granted = false
	m.setVertical(j.jumpVelocity)
	return true
}

func (j *JumpController) approve() {
	j.TryConsumeJumpBuffer()
	j.state.JumpsRemaining--
	j.state.CoyoteTimer = 0
	j.granted = true
}

// forfeitGroundCharge drops the ground jump when the coyote window runs out
// without being used, so stepping off a ledge does not keep it as an air jump.
func (j *JumpController) forfeitGroundCharge() {
	if j.state.JumpsRemaining == j.maxJumps && j.state.JumpsRemaining > 0 {
		j.state.JumpsRemaining--
	}
}

func (j *JumpController) reset() {
	j.state = component.JumpState{}
	j.buffered = false
	j.granted = false
}

func decay(t, dt float64) float64 {
	t -= dt
	if t < timerEpsilon {
		return 0
	}
	return t
}

package component

import (
	"fmt"
	"math"
)

// Tuning is the immutable per-character configuration. It is copied by value
// into a character at construction time and never changed afterwards.
type Tuning struct {
	// Speed table, ground rows. Air rows reuse the speeds with
	// acceleration scaled by AirControl.
	SlowWalkSpeed float64
	WalkSpeed     float64
	RunSpeed      float64
	SlowWalkAccel float64
	WalkAccel     float64
	RunAccel      float64
	GroundDecel   float64
	AirControl    float64
	TurnRate      float64 // radians per second

	Gravity               float64 // magnitude, applied along -Y
	GravityMultiplier     float64
	FallGravityMultiplier float64
	MaxFallSpeed          float64

	JumpVelocity   float64
	MaxJumps       int
	CoyoteTime     float64
	JumpBufferTime float64
	JumpWindow     float64

	LandingRecovery    float64
	LandingDamping     float64
	LandingSpeedFactor float64

	Deadzone        float64
	InputSmoothing  float64 // direction smoothing time constant, 0 disables
	ArrivalRadius   float64
	DestinationMode MoveMode

	BlockSpeedFactor  float64
	AttackDuration    float64
	AttackAccelFactor float64
	StunDuration      float64
	ClimbSpeed        float64

	HistorySize int
}

// DefaultTuning returns the baseline values, in meters and seconds.
func DefaultTuning() Tuning {
	return Tuning{
		SlowWalkSpeed: 1.5,
		WalkSpeed:     3.5,
		RunSpeed:      7,
		SlowWalkAccel: 12,
		WalkAccel:     20,
		RunAccel:      30,
		GroundDecel:   25,
		AirControl:    0.3,
		TurnRate:      12,

		Gravity:               24,
		GravityMultiplier:     1,
		FallGravityMultiplier: 1.5,
		MaxFallSpeed:          30,

		JumpVelocity:   8,
		MaxJumps:       2,
		CoyoteTime:     0.1,
		JumpBufferTime: 0.1,
		JumpWindow:     0.1,

		LandingRecovery:    0.1,
		LandingDamping:     0.8,
		LandingSpeedFactor: 0.5,

		Deadzone:        0.1,
		InputSmoothing:  0.05,
		ArrivalRadius:   0.25,
		DestinationMode: ModeRun,

		BlockSpeedFactor:  0.4,
		AttackDuration:    0.35,
		AttackAccelFactor: 0.2,
		StunDuration:      0.6,
		ClimbSpeed:        2.5,

		HistorySize: 8,
	}
}

// Speed returns the (target speed, acceleration) ground row for a mode.
func (t Tuning) Speed(mode MoveMode) (speed, accel float64) {
	switch mode {
	case ModeSlowWalk:
		return t.SlowWalkSpeed, t.SlowWalkAccel
	case ModeRun:
		return t.RunSpeed, t.RunAccel
	default:
		return t.WalkSpeed, t.WalkAccel
	}
}

// Sanitize returns a copy that is safe to run, plus one warning per field it
// had to correct. Movement values that are negative or not finite become 0,
// so a broken table stands still instead of flying off. Timings fall back to
// the defaults.
func (t Tuning) Sanitize() (Tuning, []string) {
	var warnings []string
	def := DefaultTuning()

	zeroIfBad := func(name string, v *float64) {
		if bad(*v) {
			warnings = append(warnings, fmt.Sprintf("tuning: %s=%v is invalid, using 0", name, *v))
			*v = 0
		}
	}
	defaultIfBad := func(name string, v *float64, d float64) {
		if bad(*v) {
			warnings = append(warnings, fmt.Sprintf("tuning: %s=%v is invalid, using %v", name, *v, d))
			*v = d
		}
	}

	zeroIfBad("slow_walk_speed", &t.SlowWalkSpeed)
	zeroIfBad("walk_speed", &t.WalkSpeed)
	zeroIfBad("run_speed", &t.RunSpeed)
	zeroIfBad("slow_walk_accel", &t.SlowWalkAccel)
	zeroIfBad("walk_accel", &t.WalkAccel)
	zeroIfBad("run_accel", &t.RunAccel)
	zeroIfBad("ground_decel", &t.GroundDecel)
	zeroIfBad("air_control", &t.AirControl)
	zeroIfBad("turn_rate", &t.TurnRate)
	zeroIfBad("gravity", &t.Gravity)
	zeroIfBad("gravity_multiplier", &t.GravityMultiplier)
	zeroIfBad("fall_gravity_multiplier", &t.FallGravityMultiplier)
	zeroIfBad("max_fall_speed", &t.MaxFallSpeed)
	zeroIfBad("jump_velocity", &t.JumpVelocity)
	zeroIfBad("landing_damping", &t.LandingDamping)
	zeroIfBad("landing_speed_factor", &t.LandingSpeedFactor)
	zeroIfBad("block_speed_factor", &t.BlockSpeedFactor)
	zeroIfBad("attack_accel_factor", &t.AttackAccelFactor)
	zeroIfBad("climb_speed", &t.ClimbSpeed)

	defaultIfBad("coyote_time", &t.CoyoteTime, def.CoyoteTime)
	defaultIfBad("jump_buffer_time", &t.JumpBufferTime, def.JumpBufferTime)
	defaultIfBad("jump_window", &t.JumpWindow, def.JumpWindow)
	defaultIfBad("landing_recovery", &t.LandingRecovery, def.LandingRecovery)
	defaultIfBad("input_smoothing", &t.InputSmoothing, def.InputSmoothing)
	defaultIfBad("arrival_radius", &t.ArrivalRadius, def.ArrivalRadius)
	defaultIfBad("attack_duration", &t.AttackDuration, def.AttackDuration)
	defaultIfBad("stun_duration", &t.StunDuration, def.StunDuration)

	if bad(t.Deadzone) || t.Deadzone >= 1 {
		warnings = append(warnings, fmt.Sprintf("tuning: deadzone=%v is invalid, using %v", t.Deadzone, def.Deadzone))
		t.Deadzone = def.Deadzone
	}
	if t.MaxJumps < 0 {
		warnings = append(warnings, fmt.Sprintf("tuning: max_jumps=%d is invalid, using 0", t.MaxJumps))
		t.MaxJumps = 0
	}
	if t.HistorySize <= 0 {
		warnings = append(warnings, fmt.Sprintf("tuning: history_size=%d is invalid, using %d", t.HistorySize, def.HistorySize))
		t.HistorySize = def.HistorySize
	}
	switch t.DestinationMode {
	case ModeWalk, ModeSlowWalk, ModeRun:
	default:
		warnings = append(warnings, fmt.Sprintf("tuning: destination_mode=%d is invalid, using %s", t.DestinationMode, def.DestinationMode))
		t.DestinationMode = def.DestinationMode
	}

	return t, warnings
}

func bad(v float64) bool {
	return v < 0 || math.IsNaN(v) || math.IsInf(v, 0)
}

package component

import "github.com/milk9111/locomotion/common"

// MotionState is the kinematic state of a character. Horizontal velocity
// (X/Z) is written by the movement model only; vertical velocity (Y) by
// gravity, jump and climb logic only.
type MotionState struct {
	Position    common.Vec3 `yaml:"position"`
	Velocity    common.Vec3 `yaml:"velocity"`
	Grounded    bool        `yaml:"grounded"`
	FloorNormal common.Vec3 `yaml:"floor_normal"`
	Facing      float64     `yaml:"facing"`
	Climbable   bool        `yaml:"climbable"`
}

// MoveResult is what a kinematic backend reports after a sweep.
type MoveResult struct {
	Velocity    common.Vec3
	Grounded    bool
	FloorNormal common.Vec3
	Collisions  int
	Climbable   bool
}

// JumpState holds the jump timers and charges.
type JumpState struct {
	CoyoteTimer     float64 `yaml:"coyote_timer"`
	JumpBufferTimer float64 `yaml:"jump_buffer_timer"`
	JumpsRemaining  int     `yaml:"jumps_remaining"`
}

// CameraBasis is the camera's horizontal frame. Both vectors lie in the X/Z plane.
type CameraBasis struct {
	Forward common.Vec3
	Right   common.Vec3
}

// WorldBasis is used when no camera is bound: right is +X, forward is -Z.
var WorldBasis = CameraBasis{
	Forward: common.Vec3{Z: -1},
	Right:   common.Vec3{X: 1},
}

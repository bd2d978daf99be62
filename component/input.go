package component

import "github.com/milk9111/locomotion/common"

// MoveMode selects a row of the speed table.
type MoveMode int

const (
	ModeWalk MoveMode = iota
	ModeSlowWalk
	ModeRun
)

func (m MoveMode) String() string {
	switch m {
	case ModeSlowWalk:
		return "slow_walk"
	case ModeRun:
		return "run"
	default:
		return "walk"
	}
}

// RawInput is one poll of an input source.
type RawInput struct {
	// Move is the directional stick, X right and Y forward, each in [-1, 1].
	Move     common.Vec2
	Run      bool
	SlowWalk bool
	Block    bool
	Climb    bool

	// Edge events, true only on the tick they happened.
	JumpPressed   bool
	AttackPressed bool
	ResetPressed  bool

	// Click is a world-space destination picked this tick, if any.
	Click    common.Vec3
	HasClick bool
}

// InputSnapshot is the arbitrated input for one tick. It is passed by value
// and never modified after it is produced.
type InputSnapshot struct {
	Direction     common.Vec2 `yaml:"direction"`
	Magnitude     float64     `yaml:"magnitude"`
	Mode          MoveMode    `yaml:"mode"`
	JumpRequested bool        `yaml:"jump_requested"`
	Attack        bool        `yaml:"attack"`
	Block         bool        `yaml:"block"`
	Climb         bool        `yaml:"climb"`
	Autopilot     bool        `yaml:"autopilot"`
}

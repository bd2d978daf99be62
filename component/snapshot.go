package component

import "github.com/milk9111/locomotion/common"

// DebugSnapshot is a read-only copy of a character for overlays and tools.
type DebugSnapshot struct {
	State          StateID            `yaml:"state"`
	Previous       StateID            `yaml:"previous"`
	TimeInState    float64            `yaml:"time_in_state"`
	Tick           uint64             `yaml:"tick"`
	Motion         MotionState        `yaml:"motion"`
	Jump           JumpState          `yaml:"jump"`
	Input          InputSnapshot      `yaml:"input"`
	History        []TransitionRecord `yaml:"history"`
	Destination    common.Vec3        `yaml:"destination"`
	HasDestination bool               `yaml:"has_destination"`
}

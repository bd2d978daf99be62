// Package physics holds the kinematic backends a character can move through.
// The state machine only ever sees system.KinematicBody; geometry lives here.
package physics

import (
	"errors"

	"github.com/milk9111/locomotion/common"
)

var ErrBadExtents = errors.New("physics: box extents must be positive")

// Box is a piece of static, axis-aligned level geometry in meters.
// Side-view backends ignore the Z extent.
type Box struct {
	Name      string      `yaml:"name"`
	Min       common.Vec3 `yaml:"min"`
	Max       common.Vec3 `yaml:"max"`
	Climbable bool        `yaml:"climbable"`
}

func (b Box) valid() bool {
	return b.Max.X > b.Min.X && b.Max.Y > b.Min.Y && b.Max.Z > b.Min.Z
}

// groundedMaxRise is the upward speed below which a supported body still
// counts as standing. Above it the body is leaving the floor.
const groundedMaxRise = 0.1

var floorNormal = common.Vec3{Y: 1}

package physics

import (
	"fmt"
	"math"

	"github.com/milk9111/locomotion/common"
	"github.com/milk9111/locomotion/component"
)

const (
	boxSkin    = 1e-4
	groundSkin = 0.02
)

// BoxWorld is a 3D world of static boxes. Bodies are swept one axis at a
// time, X then Z then Y, so they slide along walls and can't tunnel.
type BoxWorld struct {
	boxes []Box
}

func NewBoxWorld(boxes ...Box) (*BoxWorld, error) {
	w := &BoxWorld{}
	for _, b := range boxes {
		if err := w.Add(b); err != nil {
			return nil, err
		}
	}
	return w, nil
}

func (w *BoxWorld) Add(b Box) error {
	if !b.valid() {
		return fmt.Errorf("physics: add %q: %w", b.Name, ErrBadExtents)
	}
	w.boxes = append(w.boxes, b)
	return nil
}

func (w *BoxWorld) Boxes() []Box {
	return append([]Box(nil), w.boxes...)
}

// BoxBody is an axis-aligned character volume centered on its position.
type BoxBody struct {
	world *BoxWorld
	pos   common.Vec3
	half  common.Vec3
}

// NewBody places a body with the given half extents. The position is the
// center of the volume.
func (w *BoxWorld) NewBody(pos, halfExtents common.Vec3) (*BoxBody, error) {
	if halfExtents.X <= 0 || halfExtents.Y <= 0 || halfExtents.Z <= 0 {
		return nil, fmt.Errorf("physics: new body: %w", ErrBadExtents)
	}
	return &BoxBody{world: w, pos: pos, half: halfExtents}, nil
}

func (b *BoxBody) Position() common.Vec3 { return b.pos }

func (b *BoxBody) Teleport(p common.Vec3) { b.pos = p }

// MoveAndSlide moves the body by velocity*dt and returns the velocity left
// after blocked axes are zeroed.
func (b *BoxBody) MoveAndSlide(velocity common.Vec3, dt float64) component.MoveResult {
	res := component.MoveResult{Velocity: velocity}
	for _, axis := range [...]int{0, 2, 1} {
		d := get(velocity, axis) * dt
		moved, hit := b.sweep(axis, d)
		b.pos = set(b.pos, axis, get(b.pos, axis)+moved)
		if hit {
			res.Collisions++
			res.Velocity = set(res.Velocity, axis, 0)
			if axis == 1 && d < 0 {
				res.Grounded = true
			}
		}
	}
	if !res.Grounded && res.Velocity.Y <= groundedMaxRise && b.supported() {
		res.Grounded = true
	}
	if res.Grounded {
		res.FloorNormal = floorNormal
	}
	res.Climbable = b.touchingClimbable()
	return res
}

func (b *BoxBody) bounds() (common.Vec3, common.Vec3) {
	return b.pos.Sub(b.half), b.pos.Add(b.half)
}

// sweep clamps a move of d along axis against every box the body overlaps on
// the other two axes.
func (b *BoxBody) sweep(axis int, d float64) (float64, bool) {
	if d == 0 {
		return 0, false
	}
	lo, hi := b.bounds()
	hit := false
	for _, box := range b.world.boxes {
		if !overlapsOther(axis, lo, hi, box) {
			continue
		}
		if d > 0 {
			gap := get(box.Min, axis) - get(hi, axis)
			if gap >= -boxSkin && gap < d {
				d = math.Max(gap, 0)
				hit = true
			}
		} else {
			gap := get(box.Max, axis) - get(lo, axis)
			if gap <= boxSkin && gap > d {
				d = math.Min(gap, 0)
				hit = true
			}
		}
	}
	return d, hit
}

// supported reports whether a box top sits just under the body's feet.
func (b *BoxBody) supported() bool {
	lo, hi := b.bounds()
	for _, box := range b.world.boxes {
		if !overlapsOther(1, lo, hi, box) {
			continue
		}
		if gap := lo.Y - box.Max.Y; gap >= -boxSkin && gap <= groundSkin {
			return true
		}
	}
	return false
}

func (b *BoxBody) touchingClimbable() bool {
	lo, hi := b.bounds()
	grow := common.Vec3{X: groundSkin, Z: groundSkin}
	lo, hi = lo.Sub(grow), hi.Add(grow)
	for _, box := range b.world.boxes {
		if !box.Climbable {
			continue
		}
		if lo.X < box.Max.X && hi.X > box.Min.X &&
			lo.Y < box.Max.Y && hi.Y > box.Min.Y &&
			lo.Z < box.Max.Z && hi.Z > box.Min.Z {
			return true
		}
	}
	return false
}

func overlapsOther(axis int, lo, hi common.Vec3, box Box) bool {
	for a := 0; a < 3; a++ {
		if a == axis {
			continue
		}
		if get(hi, a) <= get(box.Min, a)+boxSkin || get(lo, a) >= get(box.Max, a)-boxSkin {
			return false
		}
	}
	return true
}

func get(v common.Vec3, axis int) float64 {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

func set(v common.Vec3, axis int, f float64) common.Vec3 {
	switch axis {
	case 0:
		v.X = f
	case 1:
		v.Y = f
	default:
		v.Z = f
	}
	return v
}

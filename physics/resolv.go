package physics

import (
	"fmt"
	"math"

	"github.com/solarlune/resolv"

	"github.com/milk9111/locomotion/common"
	"github.com/milk9111/locomotion/component"
)

const (
	tagSolid     = "solid"
	tagClimbable = "climbable"
	tagCharacter = "character"
)

// ResolvWorld is a side-view backend on a resolv grid. It covers
// [0,width]x[0,height] meters; the grid runs in pixels with Y pointing down.
type ResolvWorld struct {
	space         *resolv.Space
	pixelsPerUnit float64
	height        float64
}

func NewResolvWorld(width, height, pixelsPerUnit float64, cellSize int) (*ResolvWorld, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("physics: resolv world: %w", ErrBadExtents)
	}
	if pixelsPerUnit <= 0 {
		pixelsPerUnit = 16
	}
	if cellSize <= 0 {
		cellSize = 16
	}
	space := resolv.NewSpace(int(math.Ceil(width*pixelsPerUnit)), int(math.Ceil(height*pixelsPerUnit)), cellSize, cellSize)
	return &ResolvWorld{space: space, pixelsPerUnit: pixelsPerUnit, height: height}, nil
}

func (w *ResolvWorld) Space() *resolv.Space {
	return w.space
}

func (w *ResolvWorld) AddBox(b Box) error {
	if b.Max.X <= b.Min.X || b.Max.Y <= b.Min.Y {
		return fmt.Errorf("physics: add %q: %w", b.Name, ErrBadExtents)
	}
	x, y := w.toPixels(b.Min.X, b.Max.Y)
	pw := (b.Max.X - b.Min.X) * w.pixelsPerUnit
	ph := (b.Max.Y - b.Min.Y) * w.pixelsPerUnit

	tags := []string{tagSolid}
	if b.Climbable {
		tags = append(tags, tagClimbable)
	}
	obj := resolv.NewObject(x, y, pw, ph, tags...)
	obj.SetShape(resolv.NewRectangle(0, 0, pw, ph))
	w.space.Add(obj)
	return nil
}

// ResolvBody moves one object through the grid, horizontal first, then
// vertical, snapping to the contact point of the nearest solid.
type ResolvBody struct {
	world  *ResolvWorld
	object *resolv.Object
}

// NewBody places a character centered at pos.
func (w *ResolvWorld) NewBody(pos common.Vec3, width, height float64) (*ResolvBody, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("physics: new body: %w", ErrBadExtents)
	}
	pw := width * w.pixelsPerUnit
	ph := height * w.pixelsPerUnit
	cx, cy := w.toPixels(pos.X, pos.Y)
	obj := resolv.NewObject(cx-pw/2, cy-ph/2, pw, ph, tagCharacter)
	obj.SetShape(resolv.NewRectangle(0, 0, pw, ph))
	w.space.Add(obj)
	return &ResolvBody{world: w, object: obj}, nil
}

func (b *ResolvBody) Position() common.Vec3 {
	o := b.object
	return b.world.fromPixels(o.X+o.W/2, o.Y+o.H/2)
}

func (b *ResolvBody) Teleport(p common.Vec3) {
	cx, cy := b.world.toPixels(p.X, p.Y)
	b.object.X = cx - b.object.W/2
	b.object.Y = cy - b.object.H/2
	b.object.Update()
}

func (b *ResolvBody) MoveAndSlide(velocity common.Vec3, dt float64) component.MoveResult {
	ppu := b.world.pixelsPerUnit
	res := component.MoveResult{Velocity: common.Vec3{X: velocity.X, Y: velocity.Y}}
	o := b.object

	dx := velocity.X * dt * ppu
	if dx != 0 {
		if check := o.Check(dx, 0, tagSolid); check != nil {
			if solid := nearestSolid(o, check.ObjectsByTags(tagSolid), dx, 0); solid != nil {
				dx = check.ContactWithObject(solid).X()
				res.Velocity.X = 0
				res.Collisions++
			}
		}
		o.X += dx
		o.Update()
	}

	// screen-space Y grows downward
	dy := -velocity.Y * dt * ppu
	checkDist := dy
	if dy >= 0 {
		// probe one pixel further so a body at rest still finds its floor
		checkDist++
	}
	landed := false
	if check := o.Check(0, checkDist, tagSolid); check != nil {
		if solid := nearestSolid(o, check.ObjectsByTags(tagSolid), 0, checkDist); solid != nil {
			dy = check.ContactWithObject(solid).Y()
			res.Collisions++
			landed = checkDist > 0
			if landed || res.Velocity.Y > 0 {
				res.Velocity.Y = 0
			}
		}
	}
	o.Y += dy
	o.Update()

	if landed && res.Velocity.Y <= groundedMaxRise {
		res.Grounded = true
		res.FloorNormal = floorNormal
	}
	res.Climbable = b.touchingClimbable()
	return res
}

func (b *ResolvBody) touchingClimbable() bool {
	o := b.object
	for _, dx := range [...]float64{-2, 2} {
		check := o.Check(dx, 0, tagClimbable)
		if check == nil {
			continue
		}
		if nearestSolid(o, check.ObjectsByTags(tagClimbable), dx, 0) != nil {
			return true
		}
	}
	return false
}

// nearestSolid filters the grid candidates down to objects actually in the
// path of a move by (dx, dy) and returns the closest one. Cells are coarser
// than objects, so a check also reports neighbors that are not in the way.
func nearestSolid(o *resolv.Object, candidates []*resolv.Object, dx, dy float64) *resolv.Object {
	var best *resolv.Object
	bestGap := math.Inf(1)
	for _, c := range candidates {
		if c == o {
			continue
		}
		var gap float64
		switch {
		case dx > 0:
			if !spans(o.Y, o.H, c.Y, c.H) {
				continue
			}
			gap = c.X - (o.X + o.W)
			if gap > dx {
				continue
			}
		case dx < 0:
			if !spans(o.Y, o.H, c.Y, c.H) {
				continue
			}
			gap = o.X - (c.X + c.W)
			if gap > -dx {
				continue
			}
		case dy > 0:
			if !spans(o.X, o.W, c.X, c.W) {
				continue
			}
			gap = c.Y - (o.Y + o.H)
			if gap > dy {
				continue
			}
		case dy < 0:
			if !spans(o.X, o.W, c.X, c.W) {
				continue
			}
			gap = o.Y - (c.Y + c.H)
			if gap > -dy {
				continue
			}
		default:
			continue
		}
		if gap < -0.5 {
			// already overlapping from behind; not in the way
			continue
		}
		if gap < bestGap {
			bestGap = gap
			best = c
		}
	}
	return best
}

func spans(a, alen, b, blen float64) bool {
	return a < b+blen && b < a+alen
}

func (w *ResolvWorld) toPixels(x, y float64) (float64, float64) {
	return x * w.pixelsPerUnit, (w.height - y) * w.pixelsPerUnit
}

func (w *ResolvWorld) fromPixels(px, py float64) common.Vec3 {
	return common.Vec3{X: px / w.pixelsPerUnit, Y: w.height - py/w.pixelsPerUnit}
}

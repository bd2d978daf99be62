package physics

import (
	"fmt"
	"math"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/locomotion/common"
	"github.com/milk9111/locomotion/component"
)

const (
	collisionTypeSolid cp.CollisionType = iota + 1
	collisionTypeClimbable
	collisionTypeCharacter
	collisionTypeGroundSensor
)

// ChipmunkWorld is a side-view backend on a Chipmunk space. The space runs
// in pixels with Y pointing down; bodies convert to and from meters with Y up.
// The Z axis is dropped. The space is stepped by its character, so a world
// hosts a single ChipmunkBody.
type ChipmunkWorld struct {
	space         *cp.Space
	pixelsPerUnit float64
	body          *ChipmunkBody
}

func NewChipmunkWorld(pixelsPerUnit float64) *ChipmunkWorld {
	if pixelsPerUnit <= 0 {
		pixelsPerUnit = 32
	}
	space := cp.NewSpace()
	space.Iterations = 20
	space.SetGravity(cp.Vector{})

	w := &ChipmunkWorld{space: space, pixelsPerUnit: pixelsPerUnit}
	w.setupHandlers()
	return w
}

// Space returns the underlying Chipmunk space.
func (w *ChipmunkWorld) Space() *cp.Space {
	return w.space
}

func (w *ChipmunkWorld) PixelsPerUnit() float64 {
	return w.pixelsPerUnit
}

// AddBox adds static geometry. Climbable boxes get an extra sensor skin so a
// character pressed against them reports the contact.
func (w *ChipmunkWorld) AddBox(b Box) error {
	if b.Max.X <= b.Min.X || b.Max.Y <= b.Min.Y {
		return fmt.Errorf("physics: add %q: %w", b.Name, ErrBadExtents)
	}
	bb := w.toBB(b.Min, b.Max)
	shape := cp.NewBox2(w.space.StaticBody, bb, 0)
	shape.SetFriction(0.8)
	shape.SetCollisionType(collisionTypeSolid)
	w.space.AddShape(shape)

	if b.Climbable {
		skin := 2.0
		sensor := cp.NewBox2(w.space.StaticBody, cp.BB{L: bb.L - skin, B: bb.B, R: bb.R + skin, T: bb.T}, 0)
		sensor.SetSensor(true)
		sensor.SetCollisionType(collisionTypeClimbable)
		w.space.AddShape(sensor)
	}
	return nil
}

// ChipmunkBody is a rotation-locked dynamic box whose velocity is set every
// tick. Gravity comes from the locomotion states, not from the space.
type ChipmunkBody struct {
	world  *ChipmunkWorld
	body   *cp.Body
	shape  *cp.Shape
	ground *cp.Shape

	grounded    bool
	climbable   bool
	collisions  int
	floorNormal common.Vec3
}

// NewBody creates the world's character body centered at pos with the given
// size in meters.
func (w *ChipmunkWorld) NewBody(pos common.Vec3, width, height float64) (*ChipmunkBody, error) {
	if w.body != nil {
		return nil, fmt.Errorf("physics: chipmunk world already has a body")
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("physics: new body: %w", ErrBadExtents)
	}
	pw := width * w.pixelsPerUnit
	ph := height * w.pixelsPerUnit

	body := cp.NewBody(1, math.Inf(1))
	body.SetAngle(0)
	body.SetAngularVelocity(0)
	body.SetPosition(w.toVector(pos))
	body.SetVelocityUpdateFunc(func(body *cp.Body, gravity cp.Vector, damping float64, dt float64) {
		cp.BodyUpdateVelocity(body, cp.Vector{}, 1, dt)
	})

	shape := cp.NewBox(body, pw, ph, 0)
	shape.SetFriction(0)
	shape.SetCollisionType(collisionTypeCharacter)

	// thin sensor strip under the feet
	gw := pw * 0.9
	ground := cp.NewBox2(body, cp.BB{L: -gw / 2, B: ph / 2, R: gw / 2, T: ph/2 + 2}, 0)
	ground.SetSensor(true)
	ground.SetCollisionType(collisionTypeGroundSensor)

	w.space.AddBody(body)
	w.space.AddShape(shape)
	w.space.AddShape(ground)

	cb := &ChipmunkBody{world: w, body: body, shape: shape, ground: ground}
	w.body = cb
	return cb, nil
}

func (b *ChipmunkBody) Position() common.Vec3 {
	return b.world.fromVector(b.body.Position())
}

func (b *ChipmunkBody) Teleport(p common.Vec3) {
	b.body.SetPosition(b.world.toVector(p))
	b.body.SetVelocityVector(cp.Vector{})
}

// MoveAndSlide sets the body velocity, steps the space once and reads the
// solved velocity back.
func (b *ChipmunkBody) MoveAndSlide(velocity common.Vec3, dt float64) component.MoveResult {
	b.grounded = false
	b.climbable = false
	b.collisions = 0
	b.floorNormal = common.Vec3{}

	ppu := b.world.pixelsPerUnit
	b.body.SetVelocityVector(cp.Vector{X: velocity.X * ppu, Y: -velocity.Y * ppu})
	b.body.SetAngle(0)
	b.body.SetAngularVelocity(0)
	b.world.space.Step(dt)

	v := b.body.Velocity()
	out := common.Vec3{X: v.X / ppu, Y: -v.Y / ppu}
	res := component.MoveResult{
		Velocity:   out,
		Collisions: b.collisions,
		Climbable:  b.climbable,
	}
	if b.grounded && out.Y <= groundedMaxRise {
		res.Grounded = true
		res.FloorNormal = b.floorNormal
		if res.FloorNormal == (common.Vec3{}) {
			res.FloorNormal = floorNormal
		}
	}
	return res
}

func (w *ChipmunkWorld) setupHandlers() {
	solid := w.space.NewCollisionHandler(collisionTypeCharacter, collisionTypeSolid)
	solid.UserData = w
	solid.PreSolveFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		world, ok := userData.(*ChipmunkWorld)
		if !ok || world.body == nil {
			return true
		}
		world.body.collisions++
		// the normal points from the character into the solid; a floor
		// pushes back up, which is -Y in screen space
		shapeA, _ := arb.Shapes()
		n := arb.Normal()
		if shapeA != world.body.shape {
			n = n.Neg()
		}
		if n.Y > 0.5 {
			world.body.floorNormal = common.Vec3{X: -n.X, Y: n.Y}.Normalize()
		}
		return true
	}

	ground := w.space.NewCollisionHandler(collisionTypeGroundSensor, collisionTypeSolid)
	ground.UserData = w
	ground.PreSolveFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		if world, ok := userData.(*ChipmunkWorld); ok && world.body != nil {
			world.body.grounded = true
		}
		return true
	}

	climb := w.space.NewCollisionHandler(collisionTypeCharacter, collisionTypeClimbable)
	climb.UserData = w
	climb.PreSolveFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		if world, ok := userData.(*ChipmunkWorld); ok && world.body != nil {
			world.body.climbable = true
		}
		return true
	}
}

func (w *ChipmunkWorld) toVector(p common.Vec3) cp.Vector {
	return cp.Vector{X: p.X * w.pixelsPerUnit, Y: -p.Y * w.pixelsPerUnit}
}

func (w *ChipmunkWorld) fromVector(v cp.Vector) common.Vec3 {
	return common.Vec3{X: v.X / w.pixelsPerUnit, Y: -v.Y / w.pixelsPerUnit}
}

// toBB converts a meter box to screen-space bounds.
func (w *ChipmunkWorld) toBB(min, max common.Vec3) cp.BB {
	return cp.BB{
		L: min.X * w.pixelsPerUnit,
		R: max.X * w.pixelsPerUnit,
		B: -max.Y * w.pixelsPerUnit,
		T: -min.Y * w.pixelsPerUnit,
	}
}

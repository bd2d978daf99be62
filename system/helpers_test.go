package system

import (
	"io"
	"log"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/milk9111/locomotion/common"
	"github.com/milk9111/locomotion/component"
)

const testDT = 1.0 / 60.0

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

// fakeBody integrates velocity directly and stands on a flat floor when one
// is enabled. A ceiling clamps upward motion at ceilingY.
type fakeBody struct {
	pos       common.Vec3
	floor     bool
	floorY    float64
	ceiling   bool
	ceilingY  float64
	climbable bool
	moves     int
}

func (b *fakeBody) MoveAndSlide(v common.Vec3, dt float64) component.MoveResult {
	b.moves++
	b.pos = b.pos.Add(v.Scale(dt))
	res := component.MoveResult{Velocity: v, Climbable: b.climbable}
	if b.ceiling && b.pos.Y >= b.ceilingY {
		b.pos.Y = b.ceilingY
		if res.Velocity.Y > 0 {
			res.Velocity.Y = 0
		}
		res.Collisions++
	}
	if b.floor && b.pos.Y <= b.floorY {
		b.pos.Y = b.floorY
		if res.Velocity.Y < 0 {
			res.Velocity.Y = 0
		}
		res.Grounded = true
		res.FloorNormal = common.Vec3{Y: 1}
		res.Collisions++
	}
	return res
}

func (b *fakeBody) Position() common.Vec3 { return b.pos }

func (b *fakeBody) Teleport(p common.Vec3) { b.pos = p }

func newTestCharacter(t *testing.T, tuning component.Tuning, body *fakeBody, opts ...Option) *Character {
	t.Helper()
	opts = append([]Option{WithLogger(quietLogger())}, opts...)
	c, err := NewCharacter(tuning, body, opts...)
	require.NoError(t, err)
	return c
}

// groundedCharacter returns a character that has already touched the floor.
func groundedCharacter(t *testing.T, tuning component.Tuning) (*Character, *fakeBody) {
	t.Helper()
	body := &fakeBody{floor: true}
	c := newTestCharacter(t, tuning, body)
	c.Tick(component.RawInput{}, testDT)
	require.Equal(t, component.StateIdle, c.State())
	require.True(t, c.Motion().Grounded)
	return c, body
}

func tickN(c *Character, raw component.RawInput, n int) {
	for i := 0; i < n; i++ {
		c.Tick(raw, testDT)
	}
}

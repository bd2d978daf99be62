// Package input turns devices and recordings into component.RawInput.
package input

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/milk9111/locomotion/common"
	"github.com/milk9111/locomotion/component"
	"github.com/milk9111/locomotion/system"
)

const stickDeadzone = 0.2

// Picker maps a cursor position in screen pixels to a world destination.
type Picker func(x, y int) (common.Vec3, bool)

// Ebiten polls keyboard, mouse and the first standard gamepad. It must be
// polled from the ebiten Update goroutine.
type Ebiten struct {
	pick Picker
}

var _ system.InputSource = (*Ebiten)(nil)

func NewEbiten(pick Picker) *Ebiten {
	return &Ebiten{pick: pick}
}

func (e *Ebiten) Poll() component.RawInput {
	left := ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft)
	right := ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight)
	up := ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp)
	down := ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown)

	raw := component.RawInput{
		Move:          common.Vec2{X: keyAxis(left, right), Y: keyAxis(down, up)},
		Run:           ebiten.IsKeyPressed(ebiten.KeyShift),
		SlowWalk:      ebiten.IsKeyPressed(ebiten.KeyAlt),
		Block:         ebiten.IsKeyPressed(ebiten.KeyQ),
		Climb:         ebiten.IsKeyPressed(ebiten.KeyE),
		JumpPressed:   inpututil.IsKeyJustPressed(ebiten.KeySpace),
		AttackPressed: inpututil.IsKeyJustPressed(ebiten.KeyK),
		ResetPressed:  inpututil.IsKeyJustPressed(ebiten.KeyR),
	}

	if e != nil && e.pick != nil && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		raw.Click, raw.HasClick = e.pick(ebiten.CursorPosition())
	}

	if gamepads := ebiten.GamepadIDs(); len(gamepads) > 0 {
		id := gamepads[0]
		x := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
		// Stick Y is down-positive.
		y := -ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical)
		if stick, ok := deadzone(common.Vec2{X: x, Y: y}, stickDeadzone); ok {
			raw.Move = stick
		}

		raw.Run = raw.Run || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonFrontBottomRight)
		raw.Block = raw.Block || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonFrontBottomLeft)
		raw.Climb = raw.Climb || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonRightTop)
		raw.JumpPressed = raw.JumpPressed || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightBottom)
		raw.AttackPressed = raw.AttackPressed || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightLeft)
		raw.ResetPressed = raw.ResetPressed || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonCenterRight)
	}

	return raw
}

func keyAxis(neg, pos bool) float64 {
	v := 0.0
	if neg {
		v -= 1
	}
	if pos {
		v += 1
	}
	return v
}

// deadzone drops sticks inside the radius and clamps the rest to unit length.
func deadzone(v common.Vec2, radius float64) (common.Vec2, bool) {
	l := math.Hypot(v.X, v.Y)
	if l <= radius || math.IsNaN(l) {
		return common.Vec2{}, false
	}
	if l > 1 {
		v = v.Scale(1 / l)
	}
	return v, true
}

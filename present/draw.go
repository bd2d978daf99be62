package present

import (
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"

	"github.com/milk9111/locomotion/common"
	"github.com/milk9111/locomotion/component"
	"github.com/milk9111/locomotion/prefabs"
)

var stateColors = map[component.StateID]color.RGBA{
	component.StateIdle:      colornames.Lightsteelblue,
	component.StateWalking:   colornames.Cornflowerblue,
	component.StateRunning:   colornames.Royalblue,
	component.StateJumping:   colornames.Orange,
	component.StateAirborne:  colornames.Gold,
	component.StateLanding:   colornames.Tomato,
	component.StateBlocking:  colornames.Slategray,
	component.StateStunned:   colornames.Purple,
	component.StateClimbing:  colornames.Yellowgreen,
	component.StateAttacking: colornames.Crimson,
}

// StateColor is the fill used for a state, white for unknown ids.
func StateColor(id component.StateID) color.RGBA {
	if c, ok := stateColors[id]; ok {
		return c
	}
	return colornames.White
}

func DrawArena(screen *ebiten.Image, rig *CameraRig, boxes []prefabs.BoxSpec) {
	for _, b := range boxes {
		var fill color.Color = colornames.Dimgray
		if b.Color != nil && b.Color.Color != nil {
			fill = b.Color.Color
		}
		drawBox(screen, rig, b.Min, b.Max, fill)
	}
}

func DrawHazards(screen *ebiten.Image, rig *CameraRig, hazards []prefabs.HazardSpec) {
	for _, h := range hazards {
		var fill color.Color = colornames.Darkred
		if h.Color != nil && h.Color.Color != nil {
			fill = h.Color.Color
		}
		drawBox(screen, rig, h.Min, h.Max, fill)
	}
}

// DrawCharacter draws the body volume in its state color with a tick mark
// on the facing side.
func DrawCharacter(screen *ebiten.Image, rig *CameraRig, snap component.DebugSnapshot, body prefabs.BodySpec) {
	half := body.HalfExtents()
	p := snap.Motion.Position
	lo := common.Vec3{X: p.X - half.X, Y: p.Y - half.Y}
	hi := common.Vec3{X: p.X + half.X, Y: p.Y + half.Y}
	drawBox(screen, rig, lo, hi, StateColor(snap.State))

	// Facing 0 looks down -Z; in side view only the X component shows.
	dir := 1.0
	if facingX(snap.Motion.Facing) < 0 {
		dir = -1
	}
	x, y := rig.WorldToScreen(common.Vec3{X: p.X, Y: p.Y + half.Y*0.5})
	reach := half.X * rig.scale() * dir
	vector.StrokeLine(screen, float32(x), float32(y), float32(x+reach), float32(y), 2, colornames.Black, true)
}

func drawBox(screen *ebiten.Image, rig *CameraRig, lo, hi common.Vec3, fill color.Color) {
	x0, y0 := rig.WorldToScreen(common.Vec3{X: lo.X, Y: hi.Y})
	x1, y1 := rig.WorldToScreen(common.Vec3{X: hi.X, Y: lo.Y})
	if x1 <= x0 || y1 <= y0 {
		return
	}
	vector.DrawFilledRect(screen, float32(x0), float32(y0), float32(x1-x0), float32(y1-y0), fill, false)
}

func facingX(facing float64) float64 {
	return math.Sin(facing)
}

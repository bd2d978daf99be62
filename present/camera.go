// Package present draws a character and its world. Everything here only
// reads from the core: it subscribes to events and copies snapshots.
package present

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/milk9111/locomotion/common"
	"github.com/milk9111/locomotion/component"
	"github.com/milk9111/locomotion/system"
)

const (
	followRate = 6.0 // 1/s

	dipDepth    = 0.25 // meters
	dipDown     = 0.08
	dipRecover  = 0.2
	runZoom     = 0.85
	zoomSeconds = 0.4
)

// CameraRig is a side-view camera that follows a target and reacts to state
// changes with short tweens: a dip on landing and a zoom out while running.
// It also serves as the character's camera basis.
type CameraRig struct {
	viewW, viewH  float64
	pixelsPerUnit float64
	yaw           float64

	center common.Vec3
	placed bool

	dip     *gween.Tween
	recover *gween.Tween
	offset  float64

	zoomTween *gween.Tween
	zoom      float64
}

var _ system.CameraSource = (*CameraRig)(nil)

func NewCameraRig(viewW, viewH, pixelsPerUnit float64) *CameraRig {
	return &CameraRig{
		viewW:         viewW,
		viewH:         viewH,
		pixelsPerUnit: pixelsPerUnit,
		zoom:          1,
	}
}

// Basis returns the horizontal frame for the current yaw. A yaw of zero
// looks down -Z with +X to the right, which is the side view.
func (r *CameraRig) Basis() (component.CameraBasis, bool) {
	if r == nil {
		return component.CameraBasis{}, false
	}
	sin, cos := math.Sincos(r.yaw)
	return component.CameraBasis{
		Forward: common.Vec3{X: sin, Z: -cos},
		Right:   common.Vec3{X: cos, Z: sin},
	}, true
}

func (r *CameraRig) SetYaw(yaw float64) {
	r.yaw = common.WrapAngle(yaw)
}

// Watch subscribes the rig to a character's transitions.
func (r *CameraRig) Watch(c *system.Character) (unsubscribe func()) {
	return c.OnStateChanged(r.OnStateChanged)
}

func (r *CameraRig) OnStateChanged(ev system.StateChange) {
	switch {
	case ev.To == component.StateLanding:
		r.dip = gween.New(float32(r.offset), -dipDepth, dipDown, ease.OutQuad)
		r.recover = gween.New(-dipDepth, 0, dipRecover, ease.InOutQuad)
	case ev.To == component.StateRunning && ev.From != component.StateRunning:
		r.zoomTween = gween.New(float32(r.zoom), runZoom, zoomSeconds, ease.InOutSine)
	case ev.From == component.StateRunning:
		r.zoomTween = gween.New(float32(r.zoom), 1, zoomSeconds, ease.InOutSine)
	}
}

// Update eases the camera toward target and advances the tweens.
func (r *CameraRig) Update(target common.Vec3, dt float64) {
	if !r.placed {
		r.center = target
		r.placed = true
	} else {
		t := 1 - math.Exp(-followRate*dt)
		r.center = common.Vec3{
			X: common.Lerp(r.center.X, target.X, t),
			Y: common.Lerp(r.center.Y, target.Y, t),
			Z: target.Z,
		}
	}

	if r.dip != nil {
		v, done := r.dip.Update(float32(dt))
		r.offset = float64(v)
		if done {
			r.dip = nil
		}
	} else if r.recover != nil {
		v, done := r.recover.Update(float32(dt))
		r.offset = float64(v)
		if done {
			r.recover = nil
		}
	}

	if r.zoomTween != nil {
		v, done := r.zoomTween.Update(float32(dt))
		r.zoom = float64(v)
		if done {
			r.zoomTween = nil
		}
	}
}

// Snap puts the camera on target with no easing, e.g. after a reset.
func (r *CameraRig) Snap(target common.Vec3) {
	r.center = target
	r.placed = true
	r.dip, r.recover, r.offset = nil, nil, 0
}

func (r *CameraRig) Center() common.Vec3 {
	return common.Vec3{X: r.center.X, Y: r.center.Y + r.offset, Z: r.center.Z}
}

func (r *CameraRig) Zoom() float64 { return r.zoom }

func (r *CameraRig) scale() float64 { return r.pixelsPerUnit * r.zoom }

// WorldToScreen projects a world point. Z is ignored.
func (r *CameraRig) WorldToScreen(p common.Vec3) (float64, float64) {
	c := r.Center()
	s := r.scale()
	return (p.X-c.X)*s + r.viewW/2, r.viewH/2 - (p.Y-c.Y)*s
}

// ScreenToWorld is the inverse of WorldToScreen on the Z=0 plane.
func (r *CameraRig) ScreenToWorld(x, y int) common.Vec3 {
	c := r.Center()
	s := r.scale()
	return common.Vec3{
		X: (float64(x)-r.viewW/2)/s + c.X,
		Y: (r.viewH/2-float64(y))/s + c.Y,
	}
}

// Pick adapts ScreenToWorld for click destinations.
func (r *CameraRig) Pick(x, y int) (common.Vec3, bool) {
	if x < 0 || y < 0 || float64(x) > r.viewW || float64(y) > r.viewH {
		return common.Vec3{}, false
	}
	return r.ScreenToWorld(x, y), true
}

package present

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"golang.org/x/image/colornames"

	"github.com/milk9111/locomotion/common"
	"github.com/milk9111/locomotion/system"
)

const (
	markerRadius = 10.0 // pixels
	markerPulse  = 0.6  // seconds
)

// DestinationMarker shows the click destination while the autopilot is
// active. It pulses while shown and shrinks away when cleared.
type DestinationMarker struct {
	target  common.Vec3
	visible bool
	pulse   *gween.Tween
	fade    *gween.Tween
	scale   float64
}

func NewDestinationMarker() *DestinationMarker {
	return &DestinationMarker{}
}

func (m *DestinationMarker) Watch(c *system.Character) (unsubscribe func()) {
	return c.OnDestinationChanged(m.OnDestinationChanged)
}

func (m *DestinationMarker) OnDestinationChanged(ev system.DestinationChange) {
	m.target = ev.Target
	if ev.Active {
		m.visible = true
		m.fade = nil
		m.scale = 1
		m.pulse = gween.New(0.6, 1, markerPulse, ease.OutElastic)
		return
	}
	m.pulse = nil
	m.fade = gween.New(float32(m.scale), 0, 0.15, ease.InQuad)
}

func (m *DestinationMarker) Update(dt float64) {
	switch {
	case m.fade != nil:
		v, done := m.fade.Update(float32(dt))
		m.scale = float64(v)
		if done {
			m.fade = nil
			m.visible = false
		}
	case m.pulse != nil:
		v, done := m.pulse.Update(float32(dt))
		m.scale = float64(v)
		if done {
			m.pulse = gween.New(0.6, 1, markerPulse, ease.OutElastic)
		}
	}
}

func (m *DestinationMarker) Visible() bool { return m.visible }

func (m *DestinationMarker) Draw(screen *ebiten.Image, rig *CameraRig) {
	if !m.visible || screen == nil || rig == nil {
		return
	}
	x, y := rig.WorldToScreen(m.target)
	r := float32(markerRadius * m.scale)
	if r <= 0 {
		return
	}
	vector.StrokeCircle(screen, float32(x), float32(y), r, 2, colornames.Gold, true)
	vector.StrokeLine(screen, float32(x)-r, float32(y), float32(x)+r, float32(y), 1, colornames.Gold, true)
}

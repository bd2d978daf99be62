package present

import (
	"fmt"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/milk9111/locomotion/component"
)

// historyLines caps how many transitions the overlay lists.
const historyLines = 5

func DrawDebug(screen *ebiten.Image, snap component.DebugSnapshot) {
	if screen == nil {
		return
	}
	ebitenutil.DebugPrintAt(screen, FormatSnapshot(snap), 10, 10)
}

// FormatSnapshot renders the overlay text.
func FormatSnapshot(snap component.DebugSnapshot) string {
	var b strings.Builder
	m := snap.Motion
	fmt.Fprintf(&b, "State: %s (from %s) %.2fs\n", orNone(snap.State), orNone(snap.Previous), snap.TimeInState)
	fmt.Fprintf(&b, "Tick: %d\n", snap.Tick)
	fmt.Fprintf(&b, "Pos: %.2f %.2f %.2f\n", m.Position.X, m.Position.Y, m.Position.Z)
	fmt.Fprintf(&b, "Vel: %.2f %.2f %.2f (h %.2f)\n", m.Velocity.X, m.Velocity.Y, m.Velocity.Z, m.Velocity.Horizontal().Len())
	fmt.Fprintf(&b, "Grounded: %v Climbable: %v\n", m.Grounded, m.Climbable)
	fmt.Fprintf(&b, "Jumps: %d Coyote: %.3f Buffer: %.3f\n", snap.Jump.JumpsRemaining, snap.Jump.CoyoteTimer, snap.Jump.JumpBufferTimer)
	fmt.Fprintf(&b, "Input: %.2f %s", snap.Input.Magnitude, snap.Input.Mode)
	if snap.Input.Autopilot {
		b.WriteString(" autopilot")
	}
	b.WriteByte('\n')
	if snap.HasDestination {
		d := snap.Destination
		fmt.Fprintf(&b, "Destination: %.2f %.2f %.2f\n", d.X, d.Y, d.Z)
	}

	history := snap.History
	if len(history) > historyLines {
		history = history[len(history)-historyLines:]
	}
	for _, rec := range history {
		fmt.Fprintf(&b, "  %d %s -> %s\n", rec.Tick, orNone(rec.From), rec.To)
	}
	return b.String()
}

func orNone(id component.StateID) string {
	if id == component.StateNone {
		return "none"
	}
	return string(id)
}

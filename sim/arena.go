package sim

import (
	"errors"
	"fmt"

	"github.com/jakecoffman/cp"

	"github.com/milk9111/locomotion/physics"
	"github.com/milk9111/locomotion/prefabs"
	"github.com/milk9111/locomotion/system"
)

type Backend string

const (
	BackendBox      Backend = "box"
	BackendChipmunk Backend = "chipmunk"
	BackendResolv   Backend = "resolv"
)

const (
	DefaultPixelsPerUnit = 32.0
	resolvCellSize       = 16
)

var ErrUnknownBackend = errors.New("sim: unknown physics backend")

func ParseBackend(s string) (Backend, error) {
	switch b := Backend(s); b {
	case BackendBox, BackendChipmunk, BackendResolv:
		return b, nil
	default:
		return "", fmt.Errorf("sim: backend %q: %w", s, ErrUnknownBackend)
	}
}

// Arena is a level loaded into one physics backend, with the character's
// body already placed at the spawn point.
type Arena struct {
	Spec          *prefabs.ArenaSpec
	Backend       Backend
	Body          system.KinematicBody
	PixelsPerUnit float64

	// Space is set for the chipmunk backend only, for debug drawing.
	Space *cp.Space
}

func BuildArena(spec *prefabs.ArenaSpec, backend Backend, pixelsPerUnit float64) (*Arena, error) {
	if spec == nil {
		return nil, fmt.Errorf("sim: build arena: nil spec")
	}
	if pixelsPerUnit <= 0 {
		pixelsPerUnit = DefaultPixelsPerUnit
	}
	a := &Arena{Spec: spec, Backend: backend, PixelsPerUnit: pixelsPerUnit}
	boxes := spec.PhysicsBoxes()

	switch backend {
	case BackendBox:
		world, err := physics.NewBoxWorld(boxes...)
		if err != nil {
			return nil, fmt.Errorf("sim: build arena: %w", err)
		}
		body, err := world.NewBody(spec.Spawn, spec.Body.HalfExtents())
		if err != nil {
			return nil, fmt.Errorf("sim: build arena: %w", err)
		}
		a.Body = body
	case BackendChipmunk:
		world := physics.NewChipmunkWorld(pixelsPerUnit)
		for _, b := range boxes {
			if err := world.AddBox(b); err != nil {
				return nil, fmt.Errorf("sim: build arena: %w", err)
			}
		}
		body, err := world.NewBody(spec.Spawn, spec.Body.Width, spec.Body.Height)
		if err != nil {
			return nil, fmt.Errorf("sim: build arena: %w", err)
		}
		a.Body = body
		a.Space = world.Space()
	case BackendResolv:
		world, err := physics.NewResolvWorld(spec.Size.X, spec.Size.Y, pixelsPerUnit, resolvCellSize)
		if err != nil {
			return nil, fmt.Errorf("sim: build arena: %w", err)
		}
		for _, b := range boxes {
			if err := world.AddBox(b); err != nil {
				return nil, fmt.Errorf("sim: build arena: %w", err)
			}
		}
		body, err := world.NewBody(spec.Spawn, spec.Body.Width, spec.Body.Height)
		if err != nil {
			return nil, fmt.Errorf("sim: build arena: %w", err)
		}
		a.Body = body
	default:
		return nil, fmt.Errorf("sim: backend %q: %w", backend, ErrUnknownBackend)
	}
	return a, nil
}

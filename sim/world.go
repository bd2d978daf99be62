// Package sim steps characters on a fixed timestep.
package sim

import (
	"errors"
	"log"
	"math"

	"github.com/milk9111/locomotion/component"
	"github.com/milk9111/locomotion/system"
)

const (
	DefaultDT       = 1.0 / 60.0
	DefaultMaxSteps = 5
)

var ErrBadDT = errors.New("sim: dt must be positive and finite")

// System runs once per fixed step, after every character has ticked.
type System interface {
	Step(w *World, dt float64)
}

type SystemFunc func(w *World, dt float64)

func (f SystemFunc) Step(w *World, dt float64) { f(w, dt) }

// ActorReplacer is implemented by systems that keep per-character state and
// need to follow a character swapped in by Replace.
type ActorReplacer interface {
	ReplaceActor(old, c *system.Character)
}

// Actor pairs a character with the source it is polled from.
type Actor struct {
	Character *system.Character
	Input     system.InputSource
}

// World owns the accumulator. Frame time is converted to whole fixed steps;
// the remainder carries over. At most MaxSteps run per Advance, the rest of
// the backlog is dropped.
type World struct {
	dt       float64
	maxSteps int
	logger   *log.Logger

	actors  []Actor
	systems []System

	acc     float64
	steps   uint64
	dropped uint64
}

func NewWorld(dt float64, maxSteps int, logger *log.Logger) (*World, error) {
	if dt <= 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		return nil, ErrBadDT
	}
	if maxSteps < 1 {
		maxSteps = DefaultMaxSteps
	}
	if logger == nil {
		logger = log.Default()
	}
	return &World{dt: dt, maxSteps: maxSteps, logger: logger}, nil
}

// Add appends an actor. Actors tick in insertion order.
func (w *World) Add(c *system.Character, src system.InputSource) {
	if c == nil {
		return
	}
	w.actors = append(w.actors, Actor{Character: c, Input: src})
}

// Replace swaps the character of an existing actor, keeping its input.
func (w *World) Replace(old, c *system.Character) bool {
	for i := range w.actors {
		if w.actors[i].Character == old {
			w.actors[i].Character = c
			for _, s := range w.systems {
				if r, ok := s.(ActorReplacer); ok {
					r.ReplaceActor(old, c)
				}
			}
			return true
		}
	}
	return false
}

func (w *World) AddSystem(s System) {
	if s == nil {
		return
	}
	w.systems = append(w.systems, s)
}

func (w *World) Actors() []Actor {
	return append([]Actor(nil), w.actors...)
}

// Advance adds frame time and runs the fixed steps now due. It returns the
// number of steps taken.
func (w *World) Advance(frame float64) int {
	if frame <= 0 || math.IsNaN(frame) || math.IsInf(frame, 0) {
		return 0
	}
	w.acc += frame

	n := 0
	for w.acc >= w.dt && n < w.maxSteps {
		w.Step()
		w.acc -= w.dt
		n++
	}
	if w.acc >= w.dt {
		skipped := uint64(w.acc / w.dt)
		w.dropped += skipped
		w.logger.Printf("sim: dropped %d steps after %d this frame", skipped, n)
		w.acc = math.Mod(w.acc, w.dt)
	}
	return n
}

// Step runs exactly one fixed step.
func (w *World) Step() {
	for _, a := range w.actors {
		var raw component.RawInput
		if a.Input != nil {
			raw = a.Input.Poll()
		}
		a.Character.Tick(raw, w.dt)
	}
	for _, s := range w.systems {
		s.Step(w, w.dt)
	}
	w.steps++
}

// Alpha is the fraction of a step left in the accumulator, for render
// interpolation.
func (w *World) Alpha() float64 {
	return w.acc / w.dt
}

func (w *World) DT() float64 { return w.dt }

func (w *World) Steps() uint64 { return w.steps }

func (w *World) Dropped() uint64 { return w.dropped }

package sim

import (
	"log"

	"github.com/milk9111/locomotion/common"
	"github.com/milk9111/locomotion/component"
	"github.com/milk9111/locomotion/prefabs"
	"github.com/milk9111/locomotion/system"
)

// HazardSystem damages characters standing in hazard regions. A hit
// interrupts the character into Stunned; death resets it to its spawn.
type HazardSystem struct {
	hazards      []prefabs.HazardSpec
	half         common.Vec3
	maxHealth    float64
	invulnerable float64
	logger       *log.Logger

	health map[*system.Character]*component.Health
}

func NewHazardSystem(arena *prefabs.ArenaSpec, logger *log.Logger) *HazardSystem {
	if logger == nil {
		logger = log.Default()
	}
	return &HazardSystem{
		hazards:      append([]prefabs.HazardSpec(nil), arena.Hazards...),
		half:         arena.Body.HalfExtents(),
		maxHealth:    arena.Health,
		invulnerable: arena.Invulnerable,
		logger:       logger,
		health:       make(map[*system.Character]*component.Health),
	}
}

// Health returns the tracked health of c, creating it on first use.
func (s *HazardSystem) Health(c *system.Character) *component.Health {
	h, ok := s.health[c]
	if !ok {
		h = component.NewHealth(s.maxHealth)
		s.health[c] = h
	}
	return h
}

// ReplaceActor carries the health of old over to c so a rebuilt character
// keeps its damage and grace window.
func (s *HazardSystem) ReplaceActor(old, c *system.Character) {
	h, ok := s.health[old]
	if !ok {
		return
	}
	delete(s.health, old)
	s.health[c] = h
}

func (s *HazardSystem) Step(w *World, dt float64) {
	if s.maxHealth <= 0 || len(s.hazards) == 0 {
		return
	}
	for _, a := range w.Actors() {
		c := a.Character
		h := s.Health(c)
		h.Tick(dt)

		pos := c.Motion().Position
		lo, hi := pos.Sub(s.half), pos.Add(s.half)
		for _, hz := range s.hazards {
			if !overlaps(lo, hi, hz.Min, hz.Max) {
				continue
			}
			if !h.ApplyDamage(component.Hit{Source: hz.Name, Damage: hz.Damage, At: pos}) {
				continue
			}
			h.StartInvulnerable(s.invulnerable)
			if !h.IsAlive() {
				s.logger.Printf("sim: %s killed character, resetting", hz.Name)
				c.Reset()
				h.Restore()
				h.StartInvulnerable(s.invulnerable)
				break
			}
			if err := c.Interrupt(component.StateStunned); err != nil {
				s.logger.Printf("sim: hazard %s: %v", hz.Name, err)
			}
			break
		}
	}
}

func overlaps(alo, ahi, blo, bhi common.Vec3) bool {
	return alo.X < bhi.X && ahi.X > blo.X &&
		alo.Y < bhi.Y && ahi.Y > blo.Y &&
		alo.Z < bhi.Z && ahi.Z > blo.Z
}

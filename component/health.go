package component

import "github.com/milk9111/locomotion/common"

// Hit is one application of damage to a character.
type Hit struct {
	Source string
	Damage float64
	At     common.Vec3
}

// Health tracks hit points and a post-hit invulnerability window in seconds.
type Health struct {
	Max          float64
	Current      float64
	Invulnerable float64
	Dead         bool

	OnDamage func(h *Health, hit Hit)
	OnDeath  func(h *Health, hit Hit)
}

// NewHealth creates a Health component with max/current initialized.
func NewHealth(max float64) *Health {
	if max <= 0 {
		max = 1
	}
	return &Health{Max: max, Current: max}
}

// IsAlive reports whether the entity is alive.
func (h *Health) IsAlive() bool {
	return h != nil && !h.Dead && h.Current > 0
}

// ApplyDamage applies damage unless invulnerable. Returns true if damage was applied.
func (h *Health) ApplyDamage(hit Hit) bool {
	if h == nil || h.Dead || h.Invulnerable > 0 || hit.Damage <= 0 {
		return false
	}
	h.Current -= hit.Damage
	if h.Current < 0 {
		h.Current = 0
	}
	if h.OnDamage != nil {
		h.OnDamage(h, hit)
	}
	if h.Current <= 0 {
		h.Dead = true
		if h.OnDeath != nil {
			h.OnDeath(h, hit)
		}
	}
	return true
}

// StartInvulnerable opens the invulnerability window, never shortening one
// already running.
func (h *Health) StartInvulnerable(seconds float64) {
	if h == nil || seconds <= h.Invulnerable {
		return
	}
	h.Invulnerable = seconds
}

func (h *Health) Tick(dt float64) {
	if h == nil || h.Invulnerable <= 0 {
		return
	}
	h.Invulnerable -= dt
	if h.Invulnerable < 0 {
		h.Invulnerable = 0
	}
}

// Restore revives and fully heals.
func (h *Health) Restore() {
	if h == nil {
		return
	}
	h.Dead = false
	h.Current = h.Max
	h.Invulnerable = 0
}

// Package script runs tengo transition rules against a character.
package script

import (
	"errors"
	"fmt"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	"github.com/milk9111/locomotion/component"
	"github.com/milk9111/locomotion/prefabs"
	"github.com/milk9111/locomotion/system"
)

var ErrNilRule = errors.New("script: nil rule")

// maxAllocs bounds a single evaluation so a runaway loop fails instead of
// stalling the tick.
const maxAllocs = 100000

// inputs are the globals a rule script may read. Each run overwrites them.
var inputs = []string{
	"state",
	"time_in_state",
	"grounded",
	"landed",
	"impact_speed",
	"speed",
	"vertical_speed",
	"jumps_remaining",
	"coyote",
	"input_magnitude",
}

// Rule evaluates a tengo script after every tick. The script reads the
// globals in inputs and assigns a state id to next to request a transition.
// A Rule is not safe for concurrent use.
type Rule struct {
	name     string
	compiled *tengo.Compiled
}

var _ system.Rule = (*Rule)(nil)

// Load compiles a script from the prefabs scripts directory.
func Load(name string) (*Rule, error) {
	src, err := prefabs.LoadScript(name)
	if err != nil {
		return nil, fmt.Errorf("script: load %s: %w", name, err)
	}
	return Compile(strings.TrimSuffix(name, ".tengo"), src)
}

func Compile(name string, src []byte) (*Rule, error) {
	compiled, err := compile(src)
	if err != nil {
		return nil, fmt.Errorf("script: compile %s: %w", name, err)
	}
	return &Rule{name: name, compiled: compiled}, nil
}

func compile(src []byte) (*tengo.Compiled, error) {
	s := tengo.NewScript(src)
	for _, name := range inputs {
		var zero any
		switch name {
		case "state":
			zero = ""
		case "grounded", "landed":
			zero = false
		case "jumps_remaining":
			zero = 0
		default:
			zero = 0.0
		}
		if err := s.Add(name, zero); err != nil {
			return nil, err
		}
	}
	s.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))
	s.SetMaxAllocs(maxAllocs)
	return s.Compile()
}

// Reload swaps in new source. On error the previous script stays active.
func (r *Rule) Reload(src []byte) error {
	if r == nil {
		return ErrNilRule
	}
	compiled, err := compile(src)
	if err != nil {
		return fmt.Errorf("script: reload %s: %w", r.name, err)
	}
	r.compiled = compiled
	return nil
}

func (r *Rule) Name() string {
	if r == nil {
		return ""
	}
	return r.name
}

func (r *Rule) Evaluate(in system.RuleInput) (component.StateID, error) {
	if r == nil || r.compiled == nil {
		return component.StateNone, ErrNilRule
	}

	values := map[string]any{
		"state":           string(in.State),
		"time_in_state":   in.TimeInState,
		"grounded":        in.Motion.Grounded,
		"landed":          in.Landed,
		"impact_speed":    in.ImpactSpeed,
		"speed":           in.Motion.Velocity.Horizontal().Len(),
		"vertical_speed":  in.Motion.Velocity.Y,
		"jumps_remaining": in.Jump.JumpsRemaining,
		"coyote":          in.Jump.CoyoteTimer,
		"input_magnitude": in.Input.Magnitude,
	}
	for name, v := range values {
		if err := r.compiled.Set(name, v); err != nil {
			return component.StateNone, fmt.Errorf("script: %s: set %s: %w", r.name, name, err)
		}
	}

	if err := r.compiled.Run(); err != nil {
		return component.StateNone, fmt.Errorf("script: %s: run: %w", r.name, err)
	}

	if !r.compiled.IsDefined("next") {
		return component.StateNone, nil
	}
	next, ok := r.compiled.Get("next").Value().(string)
	if !ok {
		return component.StateNone, fmt.Errorf("script: %s: next must be a string", r.name)
	}
	return component.StateID(strings.TrimSpace(next)), nil
}

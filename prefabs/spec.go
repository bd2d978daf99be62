package prefabs

import (
	"errors"
	"fmt"
	"image/color"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/milk9111/locomotion/common"
	"github.com/milk9111/locomotion/component"
	"github.com/milk9111/locomotion/physics"
)

var ErrUnknownVariant = errors.New("prefabs: unknown tuning variant")

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// LocomotionSpec is the tuning table. Defaults and variants are kept as raw
// nodes so a variant only overrides the keys it actually sets.
type LocomotionSpec struct {
	Defaults yaml.Node            `yaml:"defaults"`
	Variants map[string]yaml.Node `yaml:"variants"`
}

func LoadLocomotionSpec() (*LocomotionSpec, error) {
	spec, err := LoadSpec[LocomotionSpec]("locomotion.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

// VariantNames lists the variants in the table, sorted.
func (s *LocomotionSpec) VariantNames() []string {
	names := make([]string, 0, len(s.Variants))
	for name := range s.Variants {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Tuning resolves a variant on top of the defaults block and the built-in
// defaults, then sanitizes it. Warnings list every value that was corrected.
func (s *LocomotionSpec) Tuning(variant string) (component.Tuning, []string, error) {
	node, ok := s.Variants[variant]
	if !ok {
		return component.Tuning{}, nil, fmt.Errorf("prefabs: variant %q: %w", variant, ErrUnknownVariant)
	}

	ts := tuningSpecFrom(component.DefaultTuning())
	if !s.Defaults.IsZero() {
		if err := s.Defaults.Decode(&ts); err != nil {
			return component.Tuning{}, nil, fmt.Errorf("prefabs: decode defaults: %w", err)
		}
	}
	if !node.IsZero() {
		if err := node.Decode(&ts); err != nil {
			return component.Tuning{}, nil, fmt.Errorf("prefabs: decode variant %q: %w", variant, err)
		}
	}

	t, warnings := ts.tuning()
	t, more := t.Sanitize()
	return t, append(warnings, more...), nil
}

type TuningSpec struct {
	SlowWalkSpeed float64 `yaml:"slow_walk_speed"`
	WalkSpeed     float64 `yaml:"walk_speed"`
	RunSpeed      float64 `yaml:"run_speed"`
	SlowWalkAccel float64 `yaml:"slow_walk_accel"`
	WalkAccel     float64 `yaml:"walk_accel"`
	RunAccel      float64 `yaml:"run_accel"`
	GroundDecel   float64 `yaml:"ground_decel"`
	AirControl    float64 `yaml:"air_control"`
	TurnRate      float64 `yaml:"turn_rate"`

	Gravity               float64 `yaml:"gravity"`
	GravityMultiplier     float64 `yaml:"gravity_multiplier"`
	FallGravityMultiplier float64 `yaml:"fall_gravity_multiplier"`
	MaxFallSpeed          float64 `yaml:"max_fall_speed"`

	JumpVelocity   float64 `yaml:"jump_velocity"`
	MaxJumps       int     `yaml:"max_jumps"`
	CoyoteTime     float64 `yaml:"coyote_time"`
	JumpBufferTime float64 `yaml:"jump_buffer_time"`
	JumpWindow     float64 `yaml:"jump_window"`

	LandingRecovery    float64 `yaml:"landing_recovery"`
	LandingDamping     float64 `yaml:"landing_damping"`
	LandingSpeedFactor float64 `yaml:"landing_speed_factor"`

	Deadzone        float64 `yaml:"deadzone"`
	InputSmoothing  float64 `yaml:"input_smoothing"`
	ArrivalRadius   float64 `yaml:"arrival_radius"`
	DestinationMode string  `yaml:"destination_mode"`

	BlockSpeedFactor  float64 `yaml:"block_speed_factor"`
	AttackDuration    float64 `yaml:"attack_duration"`
	AttackAccelFactor float64 `yaml:"attack_accel_factor"`
	StunDuration      float64 `yaml:"stun_duration"`
	ClimbSpeed        float64 `yaml:"climb_speed"`

	HistorySize int `yaml:"history_size"`
}

func tuningSpecFrom(t component.Tuning) TuningSpec {
	return TuningSpec{
		SlowWalkSpeed:         t.SlowWalkSpeed,
		WalkSpeed:             t.WalkSpeed,
		RunSpeed:              t.RunSpeed,
		SlowWalkAccel:         t.SlowWalkAccel,
		WalkAccel:             t.WalkAccel,
		RunAccel:              t.RunAccel,
		GroundDecel:           t.GroundDecel,
		AirControl:            t.AirControl,
		TurnRate:              t.TurnRate,
		Gravity:               t.Gravity,
		GravityMultiplier:     t.GravityMultiplier,
		FallGravityMultiplier: t.FallGravityMultiplier,
		MaxFallSpeed:          t.MaxFallSpeed,
		JumpVelocity:          t.JumpVelocity,
		MaxJumps:              t.MaxJumps,
		CoyoteTime:            t.CoyoteTime,
		JumpBufferTime:        t.JumpBufferTime,
		JumpWindow:            t.JumpWindow,
		LandingRecovery:       t.LandingRecovery,
		LandingDamping:        t.LandingDamping,
		LandingSpeedFactor:    t.LandingSpeedFactor,
		Deadzone:              t.Deadzone,
		InputSmoothing:        t.InputSmoothing,
		ArrivalRadius:         t.ArrivalRadius,
		DestinationMode:       t.DestinationMode.String(),
		BlockSpeedFactor:      t.BlockSpeedFactor,
		AttackDuration:        t.AttackDuration,
		AttackAccelFactor:     t.AttackAccelFactor,
		StunDuration:          t.StunDuration,
		ClimbSpeed:            t.ClimbSpeed,
		HistorySize:           t.HistorySize,
	}
}

func (s TuningSpec) tuning() (component.Tuning, []string) {
	var warnings []string
	mode, ok := parseMoveMode(s.DestinationMode)
	if !ok {
		mode = component.DefaultTuning().DestinationMode
		warnings = append(warnings, fmt.Sprintf("tuning: destination_mode=%q is invalid, using %s", s.DestinationMode, mode))
	}
	return component.Tuning{
		SlowWalkSpeed:         s.SlowWalkSpeed,
		WalkSpeed:             s.WalkSpeed,
		RunSpeed:              s.RunSpeed,
		SlowWalkAccel:         s.SlowWalkAccel,
		WalkAccel:             s.WalkAccel,
		RunAccel:              s.RunAccel,
		GroundDecel:           s.GroundDecel,
		AirControl:            s.AirControl,
		TurnRate:              s.TurnRate,
		Gravity:               s.Gravity,
		GravityMultiplier:     s.GravityMultiplier,
		FallGravityMultiplier: s.FallGravityMultiplier,
		MaxFallSpeed:          s.MaxFallSpeed,
		JumpVelocity:          s.JumpVelocity,
		MaxJumps:              s.MaxJumps,
		CoyoteTime:            s.CoyoteTime,
		JumpBufferTime:        s.JumpBufferTime,
		JumpWindow:            s.JumpWindow,
		LandingRecovery:       s.LandingRecovery,
		LandingDamping:        s.LandingDamping,
		LandingSpeedFactor:    s.LandingSpeedFactor,
		Deadzone:              s.Deadzone,
		InputSmoothing:        s.InputSmoothing,
		ArrivalRadius:         s.ArrivalRadius,
		DestinationMode:       mode,
		BlockSpeedFactor:      s.BlockSpeedFactor,
		AttackDuration:        s.AttackDuration,
		AttackAccelFactor:     s.AttackAccelFactor,
		StunDuration:          s.StunDuration,
		ClimbSpeed:            s.ClimbSpeed,
		HistorySize:           s.HistorySize,
	}, warnings
}

func parseMoveMode(s string) (component.MoveMode, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "walk":
		return component.ModeWalk, true
	case "slow_walk", "slow":
		return component.ModeSlowWalk, true
	case "run":
		return component.ModeRun, true
	default:
		return component.ModeWalk, false
	}
}

type ArenaSpec struct {
	Name  string      `yaml:"name"`
	Size  common.Vec3 `yaml:"size"`
	Spawn common.Vec3 `yaml:"spawn"`
	Body  BodySpec    `yaml:"body"`
	Boxes []BoxSpec   `yaml:"boxes"`

	Hazards []HazardSpec `yaml:"hazards"`
	// Health is the character's hit points for hazards; 0 disables damage.
	Health float64 `yaml:"health"`
	// Invulnerable is the grace window after a hit, in seconds.
	Invulnerable float64 `yaml:"invulnerable"`
}

// HazardSpec is a non-solid region that damages a character inside it.
type HazardSpec struct {
	Name   string      `yaml:"name"`
	Min    common.Vec3 `yaml:"min"`
	Max    common.Vec3 `yaml:"max"`
	Damage float64     `yaml:"damage"`
	Color  *YAMLColor  `yaml:"color"`
}

type BodySpec struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
	Depth  float64 `yaml:"depth"`
}

// HalfExtents returns the body's half size, Y up.
func (b BodySpec) HalfExtents() common.Vec3 {
	return common.Vec3{X: b.Width / 2, Y: b.Height / 2, Z: b.Depth / 2}
}

type BoxSpec struct {
	physics.Box `yaml:",inline"`
	Color       *YAMLColor `yaml:"color"`
}

func LoadArenaSpec() (*ArenaSpec, error) {
	spec, err := LoadSpec[ArenaSpec]("arena.yaml")
	if err != nil {
		return nil, err
	}
	if spec.Body.Width <= 0 || spec.Body.Height <= 0 || spec.Body.Depth <= 0 {
		return nil, fmt.Errorf("prefabs: arena.yaml: body: %w", physics.ErrBadExtents)
	}
	return &spec, nil
}

// PhysicsBoxes strips the presentation fields.
func (a *ArenaSpec) PhysicsBoxes() []physics.Box {
	out := make([]physics.Box, 0, len(a.Boxes))
	for _, b := range a.Boxes {
		out = append(out, b.Box)
	}
	return out
}

// TapeSpec is a recorded input sequence. Each frame is held for Repeat
// ticks; edge events (jump, attack, reset, click) fire on the first of them.
type TapeSpec struct {
	Name   string      `yaml:"name"`
	DT     float64     `yaml:"dt"`
	Frames []TapeFrame `yaml:"frames"`
}

type TapeFrame struct {
	Repeat   int          `yaml:"repeat"`
	Move     [2]float64   `yaml:"move"`
	Run      bool         `yaml:"run"`
	SlowWalk bool         `yaml:"slow_walk"`
	Block    bool         `yaml:"block"`
	Climb    bool         `yaml:"climb"`
	Jump     bool         `yaml:"jump"`
	Attack   bool         `yaml:"attack"`
	Reset    bool         `yaml:"reset"`
	Click    *common.Vec3 `yaml:"click"`
}

func LoadTapeSpec(name string) (*TapeSpec, error) {
	if !strings.HasPrefix(name, "tapes/") {
		name = "tapes/" + name
	}
	if !isSpecFile(name) {
		name += ".yaml"
	}
	spec, err := LoadSpec[TapeSpec](name)
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}

package system

import (
	"fmt"
	"log"
	"math"

	"github.com/milk9111/locomotion/common"
	"github.com/milk9111/locomotion/component"
)

// Rule is an externally supplied transition check, evaluated once after
// every tick. Returning StateNone keeps the current state.
type Rule interface {
	Name() string
	Evaluate(in RuleInput) (component.StateID, error)
}

// RuleInput is the read-only view a Rule decides on.
type RuleInput struct {
	State       component.StateID
	TimeInState float64
	Motion      component.MotionState
	Jump        component.JumpState
	Input       component.InputSnapshot
	// Landed is true on the tick ground contact was gained.
	Landed      bool
	ImpactSpeed float64
}

type Option func(*Character)

func WithCamera(camera CameraSource) Option {
	return func(c *Character) { c.camera = camera }
}

func WithLogger(logger *log.Logger) Option {
	return func(c *Character) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func WithRules(rules ...Rule) Option {
	return func(c *Character) { c.rules = append(c.rules, rules...) }
}

func WithInitialState(id component.StateID) Option {
	return func(c *Character) { c.initial = id }
}

// Character wires the state machine, the shared controllers and a physics
// backend into one controllable body.
type Character struct {
	tuning  component.Tuning
	body    KinematicBody
	camera  CameraSource
	logger  *log.Logger
	rules   []Rule
	initial component.StateID

	machine *StateMachine
	ctx     *Context
	jump    *JumpController
	arbiter *InputArbiter
	motion  motion
	spawn   common.Vec3
}

// NewCharacter builds a character at the body's current position. The tuning
// is sanitized first and every correction is logged once.
func NewCharacter(t component.Tuning, body KinematicBody, opts ...Option) (*Character, error) {
	if body == nil {
		return nil, ErrNoPhysics
	}
	c := &Character{
		body:    body,
		logger:  log.Default(),
		initial: component.StateIdle,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	tuning, warnings := t.Sanitize()
	for _, w := range warnings {
		c.logger.Print(w)
	}
	c.tuning = tuning

	c.jump = NewJumpController(tuning)
	c.arbiter = NewInputArbiter(tuning, c.camera)
	c.machine = NewStateMachine(tuning.HistorySize, c.logger)
	c.spawn = body.Position()
	c.motion.Position = c.spawn
	c.ctx = &Context{
		Tuning: &c.tuning,
		Motion: &c.motion,
		Jump:   c.jump,
		Move:   NewMovementModel(tuning),
		Body:   body,
		Camera: c.camera,
		logger: c.logger,
	}

	for _, entry := range stateSet() {
		if err := c.machine.RegisterState(entry.id, entry.state); err != nil {
			return nil, err
		}
	}
	if err := c.machine.Start(c.initial, c.ctx); err != nil {
		return nil, fmt.Errorf("system: new character: %w", err)
	}
	return c, nil
}

type stateEntry struct {
	id    component.StateID
	state State
}

func stateSet() []stateEntry {
	return []stateEntry{
		{component.StateIdle, idleState{}},
		{component.StateWalking, &groundMoveState{id: component.StateWalking}},
		{component.StateRunning, &groundMoveState{id: component.StateRunning}},
		{component.StateJumping, jumpingState{}},
		{component.StateAirborne, airborneState{}},
		{component.StateLanding, landingState{}},
		{component.StateBlocking, blockingState{}},
		{component.StateAttacking, attackingState{}},
		{component.StateStunned, stunnedState{}},
		{component.StateClimbing, climbingState{}},
	}
}

// Tick advances the character by one fixed step.
func (c *Character) Tick(raw component.RawInput, dt float64) {
	if dt <= 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		c.logger.Printf("system: ignoring tick with dt=%v", dt)
		return
	}
	if raw.ResetPressed {
		c.Reset()
	}

	in := c.arbiter.Update(raw, c.motion.Position, dt)
	c.jump.Tick(dt, c.motion.Grounded)
	if in.JumpRequested {
		c.jump.RequestJump()
	}

	c.ctx.beginTick(in)
	c.machine.Update(dt)
	if !c.ctx.integrated {
		c.ctx.Integrate(dt)
	}
	c.evaluateRules()
}

// Interrupt forces a transition from outside the tick, e.g. a hit stun.
func (c *Character) Interrupt(id component.StateID) error {
	return c.machine.ChangeState(id)
}

// Reset teleports back to the spawn point with zero velocity, drops any
// destination and pending jump, and re-enters the initial state.
func (c *Character) Reset() {
	c.body.Teleport(c.spawn)
	c.motion.MotionState = component.MotionState{Position: c.spawn}
	c.jump.reset()
	c.arbiter.reset()
	if c.machine.Current() != c.initial {
		_ = c.machine.ChangeState(c.initial)
	}
}

func (c *Character) SetDestination(p common.Vec3) {
	c.arbiter.SetDestination(p)
}

func (c *Character) ClearDestination() {
	c.arbiter.ClearDestination()
}

func (c *Character) OnStateChanged(fn func(StateChange)) (unsubscribe func()) {
	return c.machine.OnStateChanged(fn)
}

func (c *Character) OnDestinationChanged(fn func(DestinationChange)) (unsubscribe func()) {
	return c.arbiter.OnDestinationChanged(fn)
}

// Tuning returns the sanitized tuning the character runs with.
func (c *Character) Tuning() component.Tuning {
	return c.tuning
}

func (c *Character) State() component.StateID {
	return c.machine.Current()
}

func (c *Character) Motion() component.MotionState {
	return c.motion.MotionState
}

func (c *Character) JumpState() component.JumpState {
	return c.jump.State()
}

// Snapshot copies everything an overlay or tool needs.
func (c *Character) Snapshot() component.DebugSnapshot {
	dest, ok := c.arbiter.Destination()
	return component.DebugSnapshot{
		State:          c.machine.Current(),
		Previous:       c.machine.Previous(),
		TimeInState:    c.machine.TimeInState(),
		Tick:           c.machine.Tick(),
		Motion:         c.motion.MotionState,
		Jump:           c.jump.State(),
		Input:          c.ctx.Input,
		History:        c.machine.History(),
		Destination:    dest,
		HasDestination: ok,
	}
}

// evaluateRules runs the scripted rules in order. The first rule that asks
// for a different, known state wins.
func (c *Character) evaluateRules() {
	if len(c.rules) == 0 {
		return
	}
	in := RuleInput{
		State:       c.machine.Current(),
		TimeInState: c.machine.TimeInState(),
		Motion:      c.motion.MotionState,
		Jump:        c.jump.State(),
		Input:       c.ctx.Input,
		Landed:      c.ctx.landed,
		ImpactSpeed: c.ctx.impactSpeed,
	}
	for _, r := range c.rules {
		next, err := r.Evaluate(in)
		if err != nil {
			c.logger.Printf("system: rule %s: %v", r.Name(), err)
			continue
		}
		if next == component.StateNone || next == in.State {
			continue
		}
		if err := c.machine.ChangeState(next); err == nil {
			return
		}
	}
}

package input

import (
	"github.com/milk9111/locomotion/common"
	"github.com/milk9111/locomotion/component"
	"github.com/milk9111/locomotion/prefabs"
	"github.com/milk9111/locomotion/system"
)

// Tape replays a recorded input sequence one tick per Poll. Held inputs last
// for the frame's repeat count; edge events fire only on its first tick.
type Tape struct {
	name   string
	dt     float64
	frames []prefabs.TapeFrame
	frame  int
	tick   int
}

var _ system.InputSource = (*Tape)(nil)

func LoadTape(name string) (*Tape, error) {
	spec, err := prefabs.LoadTapeSpec(name)
	if err != nil {
		return nil, err
	}
	return NewTape(spec), nil
}

func NewTape(spec *prefabs.TapeSpec) *Tape {
	if spec == nil {
		return &Tape{}
	}
	return &Tape{
		name:   spec.Name,
		dt:     spec.DT,
		frames: append([]prefabs.TapeFrame(nil), spec.Frames...),
	}
}

func (t *Tape) Name() string { return t.name }

// DT is the step the tape was recorded at, 0 if unspecified.
func (t *Tape) DT() float64 { return t.dt }

// Len is the total number of ticks on the tape.
func (t *Tape) Len() int {
	n := 0
	for _, f := range t.frames {
		n += repeat(f)
	}
	return n
}

func (t *Tape) Done() bool {
	return t.frame >= len(t.frames)
}

func (t *Tape) Rewind() {
	t.frame = 0
	t.tick = 0
}

// Poll returns the next tick. Past the end it returns neutral input.
func (t *Tape) Poll() component.RawInput {
	if t.Done() {
		return component.RawInput{}
	}

	f := t.frames[t.frame]
	first := t.tick == 0
	raw := component.RawInput{
		Move:     common.Vec2{X: f.Move[0], Y: f.Move[1]},
		Run:      f.Run,
		SlowWalk: f.SlowWalk,
		Block:    f.Block,
		Climb:    f.Climb,
	}
	if first {
		raw.JumpPressed = f.Jump
		raw.AttackPressed = f.Attack
		raw.ResetPressed = f.Reset
		if f.Click != nil {
			raw.Click = *f.Click
			raw.HasClick = true
		}
	}

	t.tick++
	if t.tick >= repeat(f) {
		t.frame++
		t.tick = 0
	}
	return raw
}

func repeat(f prefabs.TapeFrame) int {
	if f.Repeat < 1 {
		return 1
	}
	return f.Repeat
}

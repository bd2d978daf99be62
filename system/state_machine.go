package system

import (
	"errors"
	"fmt"
	"log"

	"github.com/milk9111/locomotion/component"
)

var (
	ErrDuplicateState = errors.New("system: state already registered")
	ErrUnknownState   = errors.New("system: unknown state")
	ErrNotStarted     = errors.New("system: state machine not started")
	ErrNoPhysics      = errors.New("system: no kinematic body bound")
)

// maxChainedTransitions bounds transitions requested from Enter/Exit or from
// state-changed subscribers inside a single commit.
const maxChainedTransitions = 8

// StateChange is emitted after every committed transition.
type StateChange struct {
	From component.StateID
	To   component.StateID
	Tick uint64
}

// StateMachine owns the active state, its elapsed time and a bounded
// transition history. Transitions requested while a state is running are
// deferred until it returns, so Enter and Exit never run inside another
// state's Update.
type StateMachine struct {
	states      map[component.StateID]State
	current     component.StateID
	previous    component.StateID
	timeInState float64
	tick        uint64

	ctx     *Context
	busy    bool
	pending component.StateID

	history history
	changed Signal[StateChange]
	logger  *log.Logger
}

// NewStateMachine creates an empty machine keeping historySize records.
func NewStateMachine(historySize int, logger *log.Logger) *StateMachine {
	if logger == nil {
		logger = log.Default()
	}
	return &StateMachine{
		states:  make(map[component.StateID]State),
		history: newHistory(historySize),
		logger:  logger,
	}
}

// RegisterState adds s under id.
func (m *StateMachine) RegisterState(id component.StateID, s State) error {
	if id == component.StateNone || s == nil {
		return fmt.Errorf("system: register %q: %w", id, ErrUnknownState)
	}
	if _, ok := m.states[id]; ok {
		return fmt.Errorf("system: register %q: %w", id, ErrDuplicateState)
	}
	m.states[id] = s
	return nil
}

// Start binds ctx and enters the initial state. No event is emitted and no
// history is recorded for the initial enter.
func (m *StateMachine) Start(id component.StateID, ctx *Context) error {
	s, ok := m.states[id]
	if !ok {
		return fmt.Errorf("system: start %q: %w", id, ErrUnknownState)
	}
	m.ctx = ctx
	if ctx != nil {
		ctx.machine = m
	}
	m.current = id
	m.previous = component.StateNone
	m.timeInState = 0

	m.busy = true
	s.Enter(m.ctx)
	m.busy = false
	m.drain()
	return nil
}

// ChangeState requests a transition to id. Changing to the current state is a
// no-op. Unknown ids are rejected and logged and the machine stays where it is.
// While a state is running only the first request of that run is kept.
func (m *StateMachine) ChangeState(id component.StateID) error {
	if _, ok := m.states[id]; !ok {
		err := fmt.Errorf("system: change %q -> %q: %w", m.current, id, ErrUnknownState)
		m.logger.Print(err)
		return err
	}
	if m.ctx == nil {
		return ErrNotStarted
	}
	if m.busy {
		if m.pending == component.StateNone && id != m.current {
			m.pending = id
		}
		return nil
	}
	if id == m.current {
		return nil
	}
	m.busy = true
	m.commit(id)
	m.busy = false
	m.drain()
	return nil
}

// Update advances time in state and runs the active state. Any transition it
// requested is committed after it returns.
func (m *StateMachine) Update(dt float64) {
	if m.ctx == nil {
		return
	}
	m.tick++
	m.timeInState += dt

	s := m.states[m.current]
	m.busy = true
	if h, ok := s.(InputHandler); ok {
		h.HandleInput(m.ctx)
	}
	s.Update(m.ctx, dt)
	m.busy = false
	m.drain()
}

func (m *StateMachine) drain() {
	for i := 0; m.pending != component.StateNone; i++ {
		next := m.pending
		m.pending = component.StateNone
		if i >= maxChainedTransitions {
			m.logger.Printf("system: dropped transition %q -> %q after %d chained transitions", m.current, next, i)
			return
		}
		if next == m.current {
			continue
		}
		m.busy = true
		m.commit(next)
		m.busy = false
	}
}

func (m *StateMachine) commit(to component.StateID) {
	from := m.current
	m.states[from].Exit(m.ctx)

	m.previous = from
	m.current = to
	m.timeInState = 0
	m.states[to].Enter(m.ctx)

	m.history.push(component.TransitionRecord{From: from, To: to, Tick: m.tick})
	m.changed.Emit(StateChange{From: from, To: to, Tick: m.tick})
}

// OnStateChanged subscribes fn to committed transitions.
func (m *StateMachine) OnStateChanged(fn func(StateChange)) (unsubscribe func()) {
	return m.changed.Connect(fn)
}

func (m *StateMachine) Current() component.StateID  { return m.current }
func (m *StateMachine) Previous() component.StateID { return m.previous }
func (m *StateMachine) TimeInState() float64        { return m.timeInState }
func (m *StateMachine) Tick() uint64                { return m.tick }

// History returns the retained transitions, oldest first.
func (m *StateMachine) History() []component.TransitionRecord {
	return m.history.records()
}

// history is a fixed-size FIFO ring of transition records.
type history struct {
	buf   []component.TransitionRecord
	start int
	n     int
}

func newHistory(size int) history {
	if size <= 0 {
		size = component.DefaultTuning().HistorySize
	}
	return history{buf: make([]component.TransitionRecord, size)}
}

func (h *history) push(r component.TransitionRecord) {
	if len(h.buf) == 0 {
		return
	}
	if h.n < len(h.buf) {
		h.buf[(h.start+h.n)%len(h.buf)] = r
		h.n++
		return
	}
	h.buf[h.start] = r
	h.start = (h.start + 1) % len(h.buf)
}

func (h *history) records() []component.TransitionRecord {
	out := make([]component.TransitionRecord, 0, h.n)
	for i := 0; i < h.n; i++ {
		out = append(out, h.buf[(h.start+i)%len(h.buf)])
	}
	return out
}

package component

// StateID identifies a locomotion state.
type StateID string

const (
	StateNone      StateID = ""
	StateIdle      StateID = "idle"
	StateWalking   StateID = "walking"
	StateRunning   StateID = "running"
	StateJumping   StateID = "jumping"
	StateAirborne  StateID = "airborne"
	StateLanding   StateID = "landing"
	StateBlocking  StateID = "blocking"
	StateStunned   StateID = "stunned"
	StateClimbing  StateID = "climbing"
	StateAttacking StateID = "attacking"
)

// TransitionRecord is one committed state change. Records are kept for
// diagnostics only.
type TransitionRecord struct {
	From StateID `yaml:"from"`
	To   StateID `yaml:"to"`
	Tick uint64  `yaml:"tick"`
}

package system

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/milk9111/locomotion/common"
	"github.com/milk9111/locomotion/component"
)

func randomInput(rng *rand.Rand) component.RawInput {
	raw := component.RawInput{
		Run:         rng.Intn(3) == 0,
		SlowWalk:    rng.Intn(8) == 0,
		Block:       rng.Intn(20) == 0,
		Climb:       rng.Intn(6) == 0,
		JumpPressed: rng.Intn(6) == 0,
	}
	if rng.Intn(4) != 0 {
		raw.Move = common.Vec2{X: rng.Float64()*2 - 1, Y: rng.Float64()*2 - 1}
	}
	raw.AttackPressed = rng.Intn(40) == 0
	if rng.Intn(200) == 0 {
		raw.Click = common.Vec3{X: rng.Float64()*20 - 10, Z: rng.Float64()*20 - 10}
		raw.HasClick = true
	}
	return raw
}

// TestLocomotionInvariants drives characters with random input over a floor
// that comes and goes and checks the jump and transition invariants on
// every tick.
func TestLocomotionInvariants(t *testing.T) {
	for seed := int64(1); seed <= 20; seed++ {
		rng := rand.New(rand.NewSource(seed))
		tuning := component.DefaultTuning()
		tuning.MaxJumps = 1 + rng.Intn(3)

		body := &fakeBody{floor: true, climbable: rng.Intn(2) == 0}
		c := newTestCharacter(t, tuning, body, WithInitialState(component.StateAirborne))

		var last component.StateID = c.State()
		c.OnStateChanged(func(e StateChange) {
			require.Equal(t, last, e.From, "seed %d", seed)
			require.NotEqual(t, e.From, e.To, "seed %d", seed)
			last = e.To
		})

		for tick := 0; tick < 2000; tick++ {
			if rng.Intn(90) == 0 {
				body.floor = !body.floor
				body.floorY = body.pos.Y - rng.Float64()
			}
			if rng.Intn(300) == 0 {
				require.NoError(t, c.Interrupt(component.StateStunned))
			}

			beforeMotion := c.Motion()
			before := c.JumpState()
			c.Tick(randomInput(rng), testDT)
			after := c.JumpState()
			m := c.Motion()

			require.GreaterOrEqual(t, after.JumpsRemaining, 0, "seed %d tick %d", seed, tick)
			require.LessOrEqual(t, after.JumpsRemaining, tuning.MaxJumps, "seed %d tick %d", seed, tick)
			require.GreaterOrEqual(t, after.CoyoteTimer, 0.0)
			require.GreaterOrEqual(t, after.JumpBufferTimer, 0.0)

			if !beforeMotion.Grounded && !m.Grounded {
				require.LessOrEqual(t, after.CoyoteTimer, before.CoyoteTimer, "seed %d tick %d", seed, tick)
			}
			if !beforeMotion.Grounded && m.Grounded && c.State() != component.StateJumping {
				require.InDelta(t, tuning.CoyoteTime, after.CoyoteTimer, 1e-12, "seed %d tick %d", seed, tick)
				require.Equal(t, tuning.MaxJumps, after.JumpsRemaining, "seed %d tick %d", seed, tick)
			}
			if c.State() != component.StateClimbing {
				require.GreaterOrEqual(t, m.Velocity.Y, -tuning.MaxFallSpeed-1e-9)
			}
			require.Equal(t, last, c.State())
		}
	}
}

// TestReplayIsDeterministic runs the same input twice and expects identical
// snapshots.
func TestReplayIsDeterministic(t *testing.T) {
	run := func() component.DebugSnapshot {
		rng := rand.New(rand.NewSource(42))
		body := &fakeBody{floor: true}
		c := newTestCharacter(t, component.DefaultTuning(), body)
		for i := 0; i < 1000; i++ {
			if i%120 == 60 {
				body.floor = !body.floor
			}
			c.Tick(randomInput(rng), testDT)
		}
		return c.Snapshot()
	}
	require.Equal(t, run(), run())
}

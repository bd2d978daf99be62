package component

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultTuningIsClean(t *testing.T) {
	got, warnings := DefaultTuning().Sanitize()
	assert.Empty(t, warnings)
	assert.Equal(t, DefaultTuning(), got)
}

func TestSanitize(t *testing.T) {
	def := DefaultTuning()
	cases := []struct {
		name   string
		mutate func(*Tuning)
		check  func(*testing.T, Tuning)
	}{
		{
			name:   "negative_speed_stands_still",
			mutate: func(t *Tuning) { t.WalkSpeed = -3 },
			check:  func(t *testing.T, got Tuning) { assert.Equal(t, 0.0, got.WalkSpeed) },
		},
		{
			name:   "nan_accel",
			mutate: func(t *Tuning) { t.RunAccel = math.NaN() },
			check:  func(t *testing.T, got Tuning) { assert.Equal(t, 0.0, got.RunAccel) },
		},
		{
			name:   "bad_timing_uses_default",
			mutate: func(t *Tuning) { t.JumpBufferTime = math.Inf(1) },
			check:  func(t *testing.T, got Tuning) { assert.Equal(t, def.JumpBufferTime, got.JumpBufferTime) },
		},
		{
			name:   "deadzone_at_one",
			mutate: func(t *Tuning) { t.Deadzone = 1 },
			check:  func(t *testing.T, got Tuning) { assert.Equal(t, def.Deadzone, got.Deadzone) },
		},
		{
			name:   "negative_jumps",
			mutate: func(t *Tuning) { t.MaxJumps = -2 },
			check:  func(t *testing.T, got Tuning) { assert.Equal(t, 0, got.MaxJumps) },
		},
		{
			name:   "empty_history",
			mutate: func(t *Tuning) { t.HistorySize = 0 },
			check:  func(t *testing.T, got Tuning) { assert.Equal(t, 8, got.HistorySize) },
		},
		{
			name:   "unknown_destination_mode",
			mutate: func(t *Tuning) { t.DestinationMode = MoveMode(9) },
			check:  func(t *testing.T, got Tuning) { assert.Equal(t, ModeRun, got.DestinationMode) },
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			in := DefaultTuning()
			c.mutate(&in)
			got, warnings := in.Sanitize()
			assert.Len(t, warnings, 1)
			c.check(t, got)
		})
	}
}

func TestSpeedRows(t *testing.T) {
	tuning := DefaultTuning()
	speed, accel := tuning.Speed(ModeSlowWalk)
	assert.Equal(t, 1.5, speed)
	assert.Equal(t, 12.0, accel)
	speed, accel = tuning.Speed(ModeRun)
	assert.Equal(t, 7.0, speed)
	assert.Equal(t, 30.0, accel)
	assert.Equal(t, "walk", ModeWalk.String())
}

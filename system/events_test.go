package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSignalDeliversInConnectOrder(t *testing.T) {
	var s Signal[int]
	var got []string
	s.Connect(func(v int) { got = append(got, "a") })
	s.Connect(func(v int) { got = append(got, "b") })
	s.Connect(func(v int) { got = append(got, "c") })

	s.Emit(1)
	assert.Equal(t, []string{"a", "b", "c"}, got)
	assert.Equal(t, 3, s.Len())
}

func TestSignalDisconnect(t *testing.T) {
	var s Signal[string]
	calls := 0
	off := s.Connect(func(string) { calls++ })
	s.Emit("x")
	off()
	off()
	s.Emit("y")
	assert.Equal(t, 1, calls)
	assert.Equal(t, 0, s.Len())
}

func TestSignalDisconnectDuringEmit(t *testing.T) {
	var s Signal[int]
	var got []string
	var offB func()
	s.Connect(func(int) {
		got = append(got, "a")
		offB()
	})
	offB = s.Connect(func(int) { got = append(got, "b") })
	s.Connect(func(int) { got = append(got, "c") })

	s.Emit(0)
	assert.Equal(t, []string{"a", "c"}, got)

	got = nil
	s.Emit(0)
	assert.Equal(t, []string{"a", "c"}, got)
}

func TestSignalConnectDuringEmitWaitsForNextEmit(t *testing.T) {
	var s Signal[int]
	late := 0
	s.Connect(func(int) {
		s.Connect(func(int) { late++ })
	})
	s.Emit(0)
	assert.Equal(t, 0, late)
	s.Emit(0)
	assert.Equal(t, 1, late)
}

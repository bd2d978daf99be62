package prefabs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/milk9111/locomotion/component"
)

func parseLocomotion(t *testing.T, src string) *LocomotionSpec {
	t.Helper()
	var spec LocomotionSpec
	require.NoError(t, yaml.Unmarshal([]byte(src), &spec))
	return &spec
}

func TestEmbeddedDefaultVariantMatchesBuiltIn(t *testing.T) {
	spec, err := LoadLocomotionSpec()
	require.NoError(t, err)

	tuning, warnings, err := spec.Tuning("default")
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, component.DefaultTuning(), tuning)
	assert.Equal(t, []string{"default", "heavy", "nimble"}, spec.VariantNames())
}

func TestVariantOverlaysOnlyItsKeys(t *testing.T) {
	spec := parseLocomotion(t, `
defaults:
  walk_speed: 4
variants:
  heavy:
    run_speed: 5
    max_jumps: 1
    destination_mode: walk
`)

	tuning, warnings, err := spec.Tuning("heavy")
	require.NoError(t, err)
	assert.Empty(t, warnings)

	want := component.DefaultTuning()
	want.WalkSpeed = 4
	want.RunSpeed = 5
	want.MaxJumps = 1
	want.DestinationMode = component.ModeWalk
	assert.Equal(t, want, tuning)
}

func TestUnknownVariant(t *testing.T) {
	spec := parseLocomotion(t, "variants:\n  default: {}\n")
	_, _, err := spec.Tuning("floaty")
	assert.ErrorIs(t, err, ErrUnknownVariant)
}

func TestBadValuesAreWarnedAndCorrected(t *testing.T) {
	spec := parseLocomotion(t, `
variants:
  broken:
    walk_speed: -3
    coyote_time: -1
    destination_mode: sprint
`)

	tuning, warnings, err := spec.Tuning("broken")
	require.NoError(t, err)
	assert.Len(t, warnings, 3)
	assert.Zero(t, tuning.WalkSpeed)
	assert.Equal(t, component.DefaultTuning().CoyoteTime, tuning.CoyoteTime)
	assert.Equal(t, component.DefaultTuning().DestinationMode, tuning.DestinationMode)
}

func TestArenaSpec(t *testing.T) {
	arena, err := LoadArenaSpec()
	require.NoError(t, err)

	require.NotEmpty(t, arena.Boxes)
	climbable := 0
	for _, b := range arena.Boxes {
		assert.Greater(t, b.Max.X, b.Min.X, b.Name)
		assert.Greater(t, b.Max.Y, b.Min.Y, b.Name)
		assert.Greater(t, b.Max.Z, b.Min.Z, b.Name)
		assert.NotNil(t, b.Color, b.Name)
		if b.Climbable {
			climbable++
		}
	}
	assert.Equal(t, 1, climbable)
	assert.Len(t, arena.PhysicsBoxes(), len(arena.Boxes))
	assert.Greater(t, arena.Body.HalfExtents().Y, 0.0)
}

func TestTapes(t *testing.T) {
	for _, name := range []string{"jump_course", "tapes/click_to_move.yaml"} {
		tape, err := LoadTapeSpec(name)
		require.NoError(t, err, name)
		assert.NotEmpty(t, tape.Frames, name)
		assert.Greater(t, tape.DT, 0.0, name)
	}
}

func TestScripts(t *testing.T) {
	assert.Equal(t, "scripts/hard_landing.tengo", cleanScriptPath("prefabs/scripts/hard_landing.tengo"))
	assert.Equal(t, "scripts/hard_landing.tengo", cleanScriptPath("hard_landing"))
	assert.Equal(t, "", cleanScriptPath(""))

	src, err := LoadScript("hard_landing")
	require.NoError(t, err)
	assert.Contains(t, string(src), "next")
}

func TestYAMLColor(t *testing.T) {
	tests := []struct {
		in      string
		wantErr bool
		a       uint8
	}{
		{in: `"#3c3f58"`, a: 255},
		{in: `"3c3f5880"`, a: 0x80},
		{in: `"#abc"`, wantErr: true},
		{in: `[1, 2]`, wantErr: true},
	}
	for _, tt := range tests {
		var c YAMLColor
		err := yaml.Unmarshal([]byte(tt.in), &c)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		_, _, _, a := c.RGBA()
		assert.Equal(t, uint32(tt.a)*0x101, a, tt.in)
	}
}

func TestWatcherClassifiesChanges(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "prefabs")
	require.NoError(t, os.Mkdir(dir, 0o755))

	w, err := NewWatcher(dir)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rule.tengo"), []byte("next := \"\""), 0o644))

	select {
	case change := <-w.Events:
		assert.Equal(t, ChangeScript, change.Kind)
		assert.Equal(t, "rule.tengo", change.Name())
	case <-time.After(2 * time.Second):
		t.Fatal("no watcher event")
	}
}

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teslashibe/go-motion/pkg/behavior"
	"github.com/teslashibe/go-motion/pkg/condition"
	"github.com/teslashibe/go-motion/pkg/control"
	"github.com/teslashibe/go-motion/pkg/web"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		jsonOutput = false
		playFile = ""
		playGyro = 0
	})
	err := Execute(context.Background())
	return out.String(), err
}

func TestLoadLibrary_Embedded(t *testing.T) {
	lib, err := loadLibrary("", 0.05)
	require.NoError(t, err)
	assert.Equal(t, []string{"stand_up_back", "stand_up_front"}, lib.names)

	execs, standPose, err := lib.executors()
	require.NoError(t, err)
	require.Len(t, execs, 2)
	assert.Equal(t, control.StandUpFront, execs[0].Motion())
	assert.Equal(t, control.StandUpBack, execs[1].Motion())
	assert.InDelta(t, 0.9, standPose.LeftLeg.KneePitch, 1e-9)

	_, err = lib.get("cartwheel")
	assert.Error(t, err)
}

func TestLoadLibrary_DirOverrides(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stand_up_back.yaml"), []byte(`
description: quick test override
initial_positions: {}
motion:
  - entry_condition: {type: stabilized, timeout: 1}
    keyframes: [{duration: 0.5, positions: {head: {pitch: 0.2}}}]
`), 0o644))

	lib, err := loadLibrary(dir, 0.05)
	require.NoError(t, err)

	m, err := lib.get("stand_up_back")
	require.NoError(t, err)
	assert.Equal(t, sourceDir, m.source)
	assert.Equal(t, 0.05, m.file.Motion[0].EntryCondition.Tolerance)

	infos := lib.infos()
	require.Len(t, infos, 2)
	assert.Equal(t, web.MotionInfo{
		Name:        "stand_up_back",
		Description: "quick test override",
		Mode:        "linear",
		Frames:      1,
		DurationSec: 0.5,
		Source:      sourceDir,
	}, infos[0])
}

func TestPlayback(t *testing.T) {
	lib, err := loadLibrary("", 0.05)
	require.NoError(t, err)

	interp, err := lib.interpolator("stand_up_front")
	require.NoError(t, err)
	samples := playback(interp, 12*time.Millisecond, time.Minute, condition.Input{GroundContact: true})
	last := samples[len(samples)-1]
	assert.Equal(t, "finished", last.State)
	assert.Equal(t, "check_entry", samples[0].State)
	assert.InDelta(t, 0.9, last.Pose.LeftLeg.KneePitch, 1e-9)

	// A robot that keeps shaking aborts at the first exit check.
	interp, err = lib.interpolator("stand_up_front")
	require.NoError(t, err)
	samples = playback(interp, 12*time.Millisecond, time.Minute, condition.Input{
		FilteredAngularVelocity: condition.Vector3{X: 0.5},
		GroundContact:           true,
	})
	last = samples[len(samples)-1]
	assert.Equal(t, "aborted", last.State)
	assert.Equal(t, 0, last.Frame)

	interp, err = lib.interpolator("stand_up_front")
	require.NoError(t, err)
	samples = playback(interp, 12*time.Millisecond, 100*time.Millisecond, condition.Input{GroundContact: true})
	assert.NotEqual(t, "finished", samples[len(samples)-1].State)
}

func TestPlayCommand(t *testing.T) {
	out, err := execute(t, "play", "stand_up_back", "--every", "50")
	require.NoError(t, err)
	assert.Contains(t, out, "CYCLE")
	assert.Contains(t, out, "finished after")
}

func TestPlayCommand_JSON(t *testing.T) {
	out, err := execute(t, "play", "stand_up_front", "--json", "--gyro", "0.5")
	require.NoError(t, err)

	var samples []sample
	require.NoError(t, json.Unmarshal([]byte(out), &samples))
	require.NotEmpty(t, samples)
	assert.Equal(t, "aborted", samples[len(samples)-1].State)
}

func TestListCommand(t *testing.T) {
	out, err := execute(t, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "stand_up_front")
	assert.Contains(t, out, "embedded")
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "good.json"), []byte(`{
		"initial_positions": {},
		"motion": [{"keyframes": [{"duration": 0.5, "positions": {}}]}]
	}`), 0o644))

	out, err := execute(t, "validate", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "ok    ")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("initial_positions: {}\nmotion: []\n"), 0o644))
	out, err = execute(t, "validate", dir)
	require.Error(t, err)
	assert.Contains(t, out, "FAIL")
}

func TestParseKind(t *testing.T) {
	k, err := parseKind("back")
	require.NoError(t, err)
	assert.Equal(t, behavior.FacingUp, k)

	_, err = parseKind("side")
	assert.Error(t, err)
}

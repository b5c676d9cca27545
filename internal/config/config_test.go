package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(New(), "", nil)
	require.NoError(t, err)

	assert.Equal(t, 12*time.Millisecond, cfg.Loop.CyclePeriod)
	assert.Equal(t, 0.1, cfg.Loop.GyroFilterCoefficient)
	assert.Equal(t, 1.0, cfg.Loop.FallenPitch)
	assert.Equal(t, 0.005, cfg.Robot.DeadZone)
	assert.Equal(t, 0.05, cfg.Motions.StabilizedTolerance)
	assert.Equal(t, 8090, cfg.Dashboard.Port)
	assert.False(t, cfg.Redis.Enabled())
	assert.True(t, cfg.UseSimulator())
}

func TestLoad_FileEnvAndFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "motion.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
loop:
  cycle_period: 20ms
  fallen_pitch: 1.2
robot:
  ip: 10.0.0.7
redis:
  addr: localhost:6379
`), 0o644))

	t.Setenv("MOTION_ROBOT_DEAD_ZONE", "0.01")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("port", 0, "")
	require.NoError(t, flags.Parse([]string{"--port=9000"}))

	cfg, err := Load(New(), path, flags)
	require.NoError(t, err)

	assert.Equal(t, 20*time.Millisecond, cfg.Loop.CyclePeriod)
	assert.Equal(t, 1.2, cfg.Loop.FallenPitch)
	assert.Equal(t, "10.0.0.7", cfg.Robot.IP)
	assert.Equal(t, 0.01, cfg.Robot.DeadZone)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, 9000, cfg.Dashboard.Port)
	assert.False(t, cfg.UseSimulator())
}

func TestLoad_Invalid(t *testing.T) {
	v := New()
	v.Set("loop.cycle_period", 0)
	v.Set("loop.gyro_filter_coefficient", 2.0)

	_, err := Load(v, "", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle_period")
	assert.Contains(t, err.Error(), "gyro_filter_coefficient")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(New(), filepath.Join(t.TempDir(), "absent.yaml"), nil)
	assert.Error(t, err)
}

func TestRobotIP(t *testing.T) {
	t.Setenv("ROBOT_IP", "")
	assert.Equal(t, "192.168.1.2", RobotIP("192.168.1.2"))

	t.Setenv("ROBOT_IP", "10.0.0.9")
	assert.Equal(t, "10.0.0.9", RobotIP("192.168.1.2"))
	assert.Equal(t, "http://10.0.0.9:8000", RobotAPIURL("10.0.0.9"))
}

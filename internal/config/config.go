// Package config loads go-motion settings from defaults, an optional
// config file, MOTION_* environment variables and command flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment variable read by Load.
const EnvPrefix = "MOTION"

// Config holds all runtime settings.
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Loop      LoopConfig      `mapstructure:"loop"`
	Robot     RobotConfig     `mapstructure:"robot"`
	Motions   MotionsConfig   `mapstructure:"motions"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
}

// LogConfig configures internal/log.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// LoopConfig configures the control loop.
type LoopConfig struct {
	CyclePeriod           time.Duration `mapstructure:"cycle_period"`
	GyroFilterCoefficient float64       `mapstructure:"gyro_filter_coefficient"`
	FallingPitch          float64       `mapstructure:"falling_pitch"`
	FallenPitch           float64       `mapstructure:"fallen_pitch"`
}

// RobotConfig configures the actuation transport.
type RobotConfig struct {
	// IP of the robot; empty selects the simulator.
	IP       string        `mapstructure:"ip"`
	Sim      bool          `mapstructure:"sim"`
	DeadZone float64       `mapstructure:"dead_zone"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// MotionsConfig selects where motion files come from.
type MotionsConfig struct {
	// Dir holds motion files overriding the embedded ones by name.
	Dir string `mapstructure:"dir"`

	// StabilizedTolerance replaces the tolerance of stabilized conditions
	// that leave it unset.
	StabilizedTolerance float64 `mapstructure:"stabilized_tolerance"`
}

// RedisConfig configures the output bus. An empty Addr disables it.
type RedisConfig struct {
	Addr      string `mapstructure:"addr"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	Prefix    string `mapstructure:"prefix"`
	StreamLen int64  `mapstructure:"stream_len"`
}

// DashboardConfig configures the web dashboard. Port 0 disables it.
type DashboardConfig struct {
	Port int `mapstructure:"port"`
}

// Enabled reports whether the output bus is configured.
func (r RedisConfig) Enabled() bool {
	return r.Addr != ""
}

// SetDefaults registers the default value of every setting.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("loop.cycle_period", 12*time.Millisecond)
	v.SetDefault("loop.gyro_filter_coefficient", 0.1)
	v.SetDefault("loop.falling_pitch", 0.5)
	v.SetDefault("loop.fallen_pitch", 1.0)

	v.SetDefault("robot.ip", "")
	v.SetDefault("robot.sim", false)
	v.SetDefault("robot.dead_zone", 0.005)
	v.SetDefault("robot.timeout", 2*time.Second)

	v.SetDefault("motions.dir", "")
	v.SetDefault("motions.stabilized_tolerance", 0.05)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "robot")
	v.SetDefault("redis.stream_len", 1000)

	v.SetDefault("dashboard.port", 8090)
}

// New returns a viper instance with defaults and environment binding.
func New() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the optional config file at path, binds flags by their
// dotted setting names and returns the merged configuration.
func Load(v *viper.Viper, path string, flags *pflag.FlagSet) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if flags != nil {
		for key, name := range flagBindings {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// flagBindings maps setting keys to the command flags that override them.
var flagBindings = map[string]string{
	"log.level":         "log-level",
	"log.format":        "log-format",
	"loop.cycle_period": "cycle-period",
	"robot.ip":          "robot-ip",
	"robot.sim":         "sim",
	"motions.dir":       "motions-dir",
	"redis.addr":        "redis-addr",
	"dashboard.port":    "port",
}

// Validate checks settings that would make the control loop misbehave.
func (c *Config) Validate() error {
	var errs []error
	if c.Loop.CyclePeriod <= 0 {
		errs = append(errs, errors.New("loop.cycle_period must be positive"))
	}
	if c.Loop.GyroFilterCoefficient <= 0 || c.Loop.GyroFilterCoefficient > 1 {
		errs = append(errs, errors.New("loop.gyro_filter_coefficient must be in (0, 1]"))
	}
	if c.Loop.FallingPitch <= 0 || c.Loop.FallenPitch < c.Loop.FallingPitch {
		errs = append(errs, errors.New("loop.falling_pitch must be positive and not above loop.fallen_pitch"))
	}
	if c.Robot.DeadZone < 0 {
		errs = append(errs, errors.New("robot.dead_zone must not be negative"))
	}
	if c.Dashboard.Port < 0 || c.Dashboard.Port > 65535 {
		errs = append(errs, fmt.Errorf("dashboard.port %d out of range", c.Dashboard.Port))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// UseSimulator reports whether the loop should drive the simulator.
func (c *Config) UseSimulator() bool {
	return c.Robot.Sim || c.Robot.IP == ""
}

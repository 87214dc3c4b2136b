package config

import (
	"math"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/lixenwraith/planets/engine"
	"github.com/lixenwraith/planets/parameter"
)

// EnvPrefix is prepended to every environment override, e.g. PLANETS_SIMULATION_POPULATION
const EnvPrefix = "PLANETS"

// ErrInvalidConfig wraps every validation failure
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds the whole application configuration
type Config struct {
	Simulation SimulationConfig `mapstructure:"simulation" yaml:"simulation"`
	Pointer    PointerConfig    `mapstructure:"pointer" yaml:"pointer"`
	Display    DisplayConfig    `mapstructure:"display" yaml:"display"`
	Audio      AudioConfig      `mapstructure:"audio" yaml:"audio"`
	Logger     LoggerConfig     `mapstructure:"logger" yaml:"logger"`
}

// SimulationConfig drives population creation and the boundary policy
type SimulationConfig struct {
	Population      int          `mapstructure:"population" yaml:"population"`
	WrapOutOfBounds bool         `mapstructure:"wrap_out_of_bounds" yaml:"wrap_out_of_bounds"`
	KillOutOfBounds bool         `mapstructure:"kill_out_of_bounds" yaml:"kill_out_of_bounds"`
	TimeStep        float64      `mapstructure:"time_step" yaml:"time_step"`
	Seed            uint64       `mapstructure:"seed" yaml:"seed"`
	LogStatsEvery   uint64       `mapstructure:"log_stats_every" yaml:"log_stats_every"`
	Anchor          AnchorConfig `mapstructure:"anchor" yaml:"anchor"`
}

// AnchorConfig describes the optional static attractor
type AnchorConfig struct {
	Enabled bool    `mapstructure:"enabled" yaml:"enabled"`
	Mass    float64 `mapstructure:"mass" yaml:"mass"`
	Radius  float64 `mapstructure:"radius" yaml:"radius"`
	X       float64 `mapstructure:"x" yaml:"x"`
	Y       float64 `mapstructure:"y" yaml:"y"`
}

// PointerConfig describes the virtual attractor following the mouse
type PointerConfig struct {
	Mass               float64 `mapstructure:"mass" yaml:"mass"`
	MaxEventsPerSecond float64 `mapstructure:"max_events_per_second" yaml:"max_events_per_second"`
}

// DisplayConfig controls frame cadence and the field-to-terminal mapping
// Zero field dimensions follow the terminal size
type DisplayConfig struct {
	FPS         int     `mapstructure:"fps" yaml:"fps"`
	FieldWidth  float64 `mapstructure:"field_width" yaml:"field_width"`
	FieldHeight float64 `mapstructure:"field_height" yaml:"field_height"`
	CellWidth   float64 `mapstructure:"cell_width" yaml:"cell_width"`
	CellHeight  float64 `mapstructure:"cell_height" yaml:"cell_height"`
}

type AudioConfig struct {
	Enabled bool `mapstructure:"enabled" yaml:"enabled"`
}

// LoggerConfig defines logger level and the rotating log file
// Empty LogFile disables logging entirely, the terminal belongs to the renderer
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`
}

// SetDefaults registers every default on v
func SetDefaults(v *viper.Viper) {
	// -- Simulation --
	v.SetDefault("simulation.population", parameter.PopulationSize)
	v.SetDefault("simulation.wrap_out_of_bounds", true)
	v.SetDefault("simulation.kill_out_of_bounds", false)
	v.SetDefault("simulation.time_step", parameter.TimeStep)
	v.SetDefault("simulation.seed", 0)
	v.SetDefault("simulation.log_stats_every", parameter.LogStatsEvery)
	v.SetDefault("simulation.anchor.enabled", false)
	v.SetDefault("simulation.anchor.mass", parameter.AnchorMass)
	v.SetDefault("simulation.anchor.radius", parameter.AnchorRadius)
	v.SetDefault("simulation.anchor.x", parameter.AnchorX)
	v.SetDefault("simulation.anchor.y", parameter.AnchorY)

	// -- Pointer --
	v.SetDefault("pointer.mass", parameter.PointerMass)
	v.SetDefault("pointer.max_events_per_second", parameter.PointerEventsPerSecond)

	// -- Display --
	v.SetDefault("display.fps", parameter.FrameRate)
	v.SetDefault("display.field_width", 0)
	v.SetDefault("display.field_height", 0)
	v.SetDefault("display.cell_width", parameter.CellWidth)
	v.SetDefault("display.cell_height", parameter.CellHeight)

	// -- Audio --
	v.SetDefault("audio.enabled", true)

	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.service_name", "planets")
	v.SetDefault("logger.log_file", "logs/planets.log")
	v.SetDefault("logger.max_size", 10)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 7)
	v.SetDefault("logger.compress", false)
	v.SetDefault("logger.add_source", false)
}

// NewViper returns a viper instance with defaults and PLANETS_ env overrides
func NewViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// NewDefaultConfig returns the configuration built purely from defaults
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)
	var cfg Config
	// Defaults always decode
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// Load reads path if non-empty, otherwise ./planets.yaml when present
func Load(v *viper.Viper, path string) (*Config, error) {
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("planets")
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "reading config file")
		}
	}
	return NewConfigFromViper(v)
}

// NewConfigFromViper decodes and validates v
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks ranges; wrap and kill never conflict
func (c *Config) Validate() error {
	s := c.Simulation
	if s.Population < 0 {
		return errors.Wrap(ErrInvalidConfig, "simulation.population must not be negative")
	}
	if !(s.TimeStep > 0) || math.IsInf(s.TimeStep, 0) {
		return errors.Wrap(ErrInvalidConfig, "simulation.time_step must be a positive number")
	}
	if s.Anchor.Enabled && (!(s.Anchor.Mass > 0) || s.Anchor.Mass > parameter.MaxMass) {
		return errors.Wrapf(ErrInvalidConfig, "simulation.anchor.mass must be in (0, %g]", parameter.MaxMass)
	}
	if c.Pointer.Mass < 0 {
		return errors.Wrap(ErrInvalidConfig, "pointer.mass must not be negative")
	}
	if c.Pointer.MaxEventsPerSecond <= 0 {
		return errors.Wrap(ErrInvalidConfig, "pointer.max_events_per_second must be positive")
	}
	d := c.Display
	if d.FPS <= 0 {
		return errors.Wrap(ErrInvalidConfig, "display.fps must be a positive integer")
	}
	if d.CellWidth <= 0 || d.CellHeight <= 0 {
		return errors.Wrap(ErrInvalidConfig, "display.cell_width and display.cell_height must be positive")
	}
	if d.FieldWidth < 0 || d.FieldHeight < 0 {
		return errors.Wrap(ErrInvalidConfig, "display field dimensions must not be negative")
	}
	return nil
}

// Engine converts the simulation section into engine switches
func (c *Config) Engine() engine.Config {
	s := c.Simulation
	ec := engine.Config{
		WrapOutOfBounds: s.WrapOutOfBounds,
		KillOutOfBounds: s.KillOutOfBounds,
		TimeStep:        s.TimeStep,
	}
	if s.Anchor.Enabled {
		ec.Anchor = &engine.BodySpec{
			Mass:   s.Anchor.Mass,
			X:      s.Anchor.X,
			Y:      s.Anchor.Y,
			Radius: s.Anchor.Radius,
			Static: true,
		}
	}
	return ec
}

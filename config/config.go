// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all simulation configuration parameters.
type Config struct {
	Physics     PhysicsConfig     `yaml:"physics"`
	World       WorldConfig       `yaml:"world"`
	Charge      ChargeConfig      `yaml:"charge"`
	Minion      BodyConfig        `yaml:"minion"`
	Resource    BodyConfig        `yaml:"resource"`
	Population  PopulationConfig  `yaml:"population"`
	AI          AIConfig          `yaml:"ai"`
	Personality PersonalityConfig `yaml:"personality"`
	Telemetry   TelemetryConfig   `yaml:"telemetry"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// PhysicsConfig holds timestep and drift parameters.
type PhysicsConfig struct {
	DT       float64 `yaml:"dt"`        // seconds per tick
	Drift    bool    `yaml:"drift"`     // move minions by their intents when no engine is attached
	Friction float64 `yaml:"friction"`  // velocity kept per tick
	MaxSpeed float64 `yaml:"max_speed"` // world units per second
}

// WorldConfig holds arena parameters.
type WorldConfig struct {
	Extent      float64 `yaml:"extent"`       // half width of the square arena
	FenceRadius float64 `yaml:"fence_radius"` // circular boundary
	SpawnCharge float64 `yaml:"spawn_charge"` // target charge of spawned agents
}

// ChargeConfig holds segment charge dynamics parameters.
type ChargeConfig struct {
	Tau float64 `yaml:"tau"` // smoothing time constant in seconds
}

// BodyConfig holds material parameters of one agent kind.
type BodyConfig struct {
	Density float64 `yaml:"density"`
}

// PopulationConfig controls the initial layout.
type PopulationConfig struct {
	Minions    int         `yaml:"minions"`
	MinionRing float64     `yaml:"minion_ring"` // radius minions spawn on
	Beacons    int         `yaml:"beacons"`
	BeaconRing float64     `yaml:"beacon_ring"`
	Resources  int         `yaml:"resources"` // upper bound; noise decides placement
	Noise      NoiseConfig `yaml:"noise"`
}

// NoiseConfig shapes the Perlin field resources are scattered by.
type NoiseConfig struct {
	Alpha     float64 `yaml:"alpha"`
	Beta      float64 `yaml:"beta"`
	Octaves   int32   `yaml:"octaves"`
	Scale     float64 `yaml:"scale"`     // world units per noise unit
	Threshold float64 `yaml:"threshold"` // minimum noise value to place a resource
	Attempts  int     `yaml:"attempts"`  // candidate points per resource
}

// AIConfig holds behavior system parameters.
type AIConfig struct {
	RadarMultiplier float64 `yaml:"radar_multiplier"` // radar range per unit of sensor radius
	PowerBoost      float64 `yaml:"power_boost"`      // force per unit charge and squared radius
}

// Range is a closed interval.
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// TraitsConfig bounds randomly drawn personality traits.
type TraitsConfig struct {
	Hunger   Range `yaml:"hunger"`
	Haste    Range `yaml:"haste"`
	Prudence Range `yaml:"prudence"`
	Fear     Range `yaml:"fear"`
	Rest     Range `yaml:"rest"`
	Thrust   Range `yaml:"thrust"`
}

// PersonalityConfig selects how minions decide.
type PersonalityConfig struct {
	Kind   string       `yaml:"kind"` // "brain" or "reflex"
	Traits TraitsConfig `yaml:"traits"`
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`          // seconds per stats window
	PerfCollectorWindow int     `yaml:"perf_collector_window"` // ticks averaged by the perf collector
	SnapshotEvery       int     `yaml:"snapshot_every"`        // ticks between snapshots, 0 disables
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	StatsWindowTicks int // Telemetry.StatsWindow / Physics.DT
	TicksPerSecond   int // 1 / Physics.DT
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// Validate rejects values the simulation cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.Physics.DT <= 0:
		return fmt.Errorf("physics.dt must be positive, got %v", c.Physics.DT)
	case c.World.FenceRadius <= 0:
		return fmt.Errorf("world.fence_radius must be positive, got %v", c.World.FenceRadius)
	case c.Physics.Friction < 0 || c.Physics.Friction > 1:
		return fmt.Errorf("physics.friction must be in [0, 1], got %v", c.Physics.Friction)
	case c.Charge.Tau <= 0:
		return fmt.Errorf("charge.tau must be positive, got %v", c.Charge.Tau)
	}
	switch c.Personality.Kind {
	case "brain", "reflex":
	default:
		return fmt.Errorf("personality.kind must be brain or reflex, got %q", c.Personality.Kind)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.TicksPerSecond = int(math.Round(1 / c.Physics.DT))
	c.Derived.StatsWindowTicks = int(math.Round(c.Telemetry.StatsWindow / c.Physics.DT))
	if c.Derived.StatsWindowTicks < 1 {
		c.Derived.StatsWindowTicks = 1
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

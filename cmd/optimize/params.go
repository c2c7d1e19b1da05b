package main

import (
	"github.com/pthm-cable/oids/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the standard set of optimizable parameters. Trait
// parameters move the lower bound of their range; the width stays as loaded.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			// Behavior
			{Name: "radar_multiplier", Path: "ai.radar_multiplier", Min: 2, Max: 30, Default: 10},
			{Name: "power_boost", Path: "ai.power_boost", Min: 20, Max: 400, Default: 100},
			// Personality
			{Name: "hunger", Path: "personality.traits.hunger.min", Min: 0.05, Max: 0.9, Default: 0.3},
			{Name: "haste", Path: "personality.traits.haste.min", Min: 0.05, Max: 0.9, Default: 0.3},
			{Name: "prudence", Path: "personality.traits.prudence.min", Min: 0.1, Max: 0.95, Default: 0.6},
			{Name: "thrust", Path: "personality.traits.thrust.min", Min: 0.1, Max: 1.0, Default: 0.6},
			// Motion
			{Name: "friction", Path: "physics.friction", Min: 0.8, Max: 0.999, Default: 0.98},
			{Name: "max_speed", Path: "physics.max_speed", Min: 20, Max: 300, Default: 120},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		clamped[i] = min(max(v[i], spec.Min), spec.Max)
	}
	return clamped
}

// shift moves r so it starts at lo, keeping its width.
func shift(r config.Range, lo float64) config.Range {
	return config.Range{Min: lo, Max: lo + (r.Max - r.Min)}
}

// ApplyToConfig applies parameter values to a Config struct.
// Order must match Specs order.
func (pv *ParamVector) ApplyToConfig(cfg *config.Config, values []float64) {
	c := pv.Clamp(values)

	cfg.AI.RadarMultiplier = c[0]
	cfg.AI.PowerBoost = c[1]

	t := &cfg.Personality.Traits
	t.Hunger = shift(t.Hunger, c[2])
	t.Haste = shift(t.Haste, c[3])
	t.Prudence = shift(t.Prudence, c[4])
	t.Thrust = shift(t.Thrust, c[5])

	cfg.Physics.Friction = c[6]
	cfg.Physics.MaxSpeed = c[7]
}

// ExtractFromConfig extracts current parameter values from a Config struct.
func (pv *ParamVector) ExtractFromConfig(cfg *config.Config) []float64 {
	t := cfg.Personality.Traits
	return []float64{
		cfg.AI.RadarMultiplier,
		cfg.AI.PowerBoost,
		t.Hunger.Min,
		t.Haste.Min,
		t.Prudence.Min,
		t.Thrust.Min,
		cfg.Physics.Friction,
		cfg.Physics.MaxSpeed,
	}
}

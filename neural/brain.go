package neural

import (
	"math/rand"

	"github.com/pthm-cable/oids/agent"
)

// Range is a closed interval traits are sampled from.
type Range struct {
	Min float64 `yaml:"min" json:"min"`
	Max float64 `yaml:"max" json:"max"`
}

func (r Range) sample(rng *rand.Rand) float64 {
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// TraitRanges bound the traits of randomly generated personalities.
type TraitRanges struct {
	Hunger   Range `yaml:"hunger"`
	Haste    Range `yaml:"haste"`
	Prudence Range `yaml:"prudence"`
	Fear     Range `yaml:"fear"`
	Rest     Range `yaml:"rest"`
	Thrust   Range `yaml:"thrust"`
}

// DefaultTraitRanges returns the stock trait ranges.
func DefaultTraitRanges() TraitRanges {
	return TraitRanges{
		Hunger:   Range{0.3, 0.7},
		Haste:    Range{0.3, 0.7},
		Prudence: Range{0.6, 0.95},
		Fear:     Range{1, 3},
		Rest:     Range{0.05, 0.2},
		Thrust:   Range{0.6, 1},
	}
}

// Sample draws one set of traits.
func (r TraitRanges) Sample(rng *rand.Rand) agent.Traits {
	return agent.Traits{
		Hunger:   r.Hunger.sample(rng),
		Haste:    r.Haste.sample(rng),
		Prudence: r.Prudence.sample(rng),
		Fear:     r.Fear.sample(rng),
		Rest:     r.Rest.sample(rng),
		Thrust:   r.Thrust.sample(rng),
	}
}

// inputScale brings the features to comparable magnitudes. The target
// components arrive in world units, clamped to radar range.
var inputScale = [NumInputs]float32{1, 0.1, 0.1, 1}

// Brain is a personality backed by an FFNN.
type Brain struct {
	Net    *FFNN
	traits agent.Traits
}

// NewBrain creates a brain with random weights and traits drawn from ranges.
func NewBrain(rng *rand.Rand, ranges TraitRanges) *Brain {
	return &Brain{Net: NewFFNN(rng), traits: ranges.Sample(rng)}
}

// Response runs the network on the sensed features.
func (b *Brain) Response(f agent.Features) agent.Response {
	var in [NumInputs]float32
	for i := range in {
		in[i] = float32(f[i]) * inputScale[i]
	}
	out := b.Net.Forward(in)
	var r agent.Response
	for i := range r {
		r[i] = float64(out[i])
	}
	return r
}

func (b *Brain) Traits() agent.Traits { return b.traits }

// Mutate perturbs the weights; traits are kept.
func (b *Brain) Mutate(rng *rand.Rand, strength float32) {
	b.Net.Mutate(rng, strength)
}

// Clone returns an independent copy.
func (b *Brain) Clone() *Brain {
	return &Brain{Net: b.Net.Clone(), traits: b.traits}
}

// Factory returns a spawn hook creating brains with traits from ranges.
func Factory(ranges TraitRanges) agent.PersonalityFactory {
	return func(rng *rand.Rand) agent.Personality {
		return NewBrain(rng, ranges)
	}
}

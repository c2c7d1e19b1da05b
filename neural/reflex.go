package neural

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/oids/agent"
)

// Reflex steers straight at the target without learning. Each response is
// the share of the target direction lying on that actuator's side:
// across-heading components drive the rudders, the along-heading component
// drives the thruster when positive and the brake when negative.
type Reflex struct {
	T agent.Traits
}

// NewReflex creates a reflex personality with the given traits.
func NewReflex(traits agent.Traits) Reflex {
	return Reflex{T: traits}
}

func (r Reflex) Response(f agent.Features) agent.Response {
	along, across := f[1], f[2]
	d := math.Hypot(along, across)
	if d == 0 {
		return agent.Response{}
	}
	along /= d
	across /= d
	return agent.Response{
		math.Max(0, across),
		math.Max(0, -across),
		math.Max(0, along),
		math.Max(0, -along),
	}
}

func (r Reflex) Traits() agent.Traits { return r.T }

// ReflexFactory returns a spawn hook creating reflexes with traits from ranges.
func ReflexFactory(ranges TraitRanges) agent.PersonalityFactory {
	return func(rng *rand.Rand) agent.Personality {
		return NewReflex(ranges.Sample(rng))
	}
}

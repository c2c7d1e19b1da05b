package agent

import (
	"iter"
	"math"
	"math/rand"
	"slices"

	"github.com/pthm-cable/oids/geometry"
	"github.com/pthm-cable/oids/traits"
	"gonum.org/v1/gonum/spatial/r2"
)

// PersonalityFactory picks the personality of a newly spawned minion.
type PersonalityFactory func(rng *rand.Rand) Personality

// Options tune the spawn recipes of a flock.
type Options struct {
	Tau             float64 // charge time constant
	MinionDensity   float64
	ResourceDensity float64
	Personality     PersonalityFactory
}

// DefaultOptions returns the stock spawn options.
func DefaultOptions() Options {
	return Options{
		Tau:             DefaultTau,
		MinionDensity:   0.2,
		ResourceDensity: 1.0,
	}
}

// Flock owns every agent of one kind and hands out their ids.
// Other code refers to agents by id only.
type Flock struct {
	kind   Kind
	seq    ID
	rnd    *Randomizer
	rng    *rand.Rand
	opts   Options
	agents map[ID]*Agent
}

// NewFlock creates an empty flock. rng drives all spawn recipes.
func NewFlock(kind Kind, rng *rand.Rand, opts Options) *Flock {
	if opts.Tau <= 0 {
		opts.Tau = DefaultTau
	}
	return &Flock{
		kind:   kind,
		rnd:    NewRandomizer(rng),
		rng:    rng,
		opts:   opts,
		agents: make(map[ID]*Agent),
	}
}

// Kind returns the kind of every agent in this flock.
func (f *Flock) Kind() Kind { return f.kind }

// NextID allocates a fresh id. Ids are never reused.
func (f *Flock) NextID() ID {
	f.seq++
	return f.seq
}

// Insert adds a built agent and returns its id.
func (f *Flock) Insert(a *Agent) ID {
	f.agents[a.id] = a
	return a.id
}

// Get returns the agent with the given id.
func (f *Flock) Get(id ID) (*Agent, bool) {
	a, ok := f.agents[id]
	return a, ok
}

// Kill removes the agent immediately. Unknown ids are ignored.
func (f *Flock) Kill(id ID) {
	delete(f.agents, id)
}

// Len returns the number of live agents.
func (f *Flock) Len() int { return len(f.agents) }

// IDs returns the live ids in ascending order.
func (f *Flock) IDs() []ID {
	ids := make([]ID, 0, len(f.agents))
	for id := range f.agents {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// All iterates the live agents in ascending id order. Killing the agent
// being visited is allowed.
func (f *Flock) All() iter.Seq2[ID, *Agent] {
	return func(yield func(ID, *Agent) bool) {
		for _, id := range f.IDs() {
			a, ok := f.agents[id]
			if !ok {
				continue
			}
			if !yield(id, a) {
				return
			}
		}
	}
}

// NewBuilder returns a builder for an agent of this flock under a fresh id.
func (f *Flock) NewBuilder(material geometry.Material, livery geometry.Livery, state State) *Builder {
	return NewBuilder(f.NextID(), f.kind, material, livery, state)
}

// NewResource spawns a single ball holding charge, discharging toward zero.
func (f *Flock) NewResource(position r2.Vec, charge float64) ID {
	material := geometry.DefaultMaterial()
	material.Density = f.opts.ResourceDensity
	livery := geometry.Livery{Albedo: f.rnd.RandomChroma()}
	state := NewState(charge, 0, charge, f.opts.Tau)

	ball := f.rnd.RandomBall()
	b := f.NewBuilder(material, livery, state).Start(position, 0, ball)
	return f.Insert(b.Build())
}

// NewMinion spawns a creature: a pentagonal torso with rudder arms, a sensor
// head with two rudder fins, up to four belly segments, thruster legs and a
// brake tail. Segments start empty and charge toward charge.
func (f *Flock) NewMinion(position r2.Vec, charge float64) ID {
	material := geometry.DefaultMaterial()
	material.Density = f.opts.MinionDensity
	livery := geometry.Livery{Albedo: f.rnd.RandomHue()}
	state := NewState(0, charge, 0, f.opts.Tau)

	b := f.NewBuilder(material, livery, state)
	if f.opts.Personality != nil {
		b.WithPersonality(f.opts.Personality(f.rng))
	} else {
		b.WithPersonality(Inert)
	}

	armShape := f.rnd.RandomStar()
	legShape := f.rnd.RandomStar()
	torsoShape := f.rnd.RandomNPoly(5, true)
	headShape := f.rnd.RandomIsoTriangle()
	tailShape := f.rnd.RandomVbar()
	angle := math.Pi/2 + math.Atan2(position.Y, position.X)

	torso := b.Start(position, angle, torsoShape).Index()
	b.AddRight(torso, 2, armShape, traits.Arm|traits.Joint|traits.Rudder).
		AddLeft(torso, -2, armShape, traits.Arm|traits.Joint|traits.Rudder)

	head := b.Add(torso, 0, headShape, traits.Head|traits.Sensor).Index()
	b.AddRight(head, 1, headShape, traits.Head|traits.Rudder).
		AddLeft(head, 2, headShape, traits.Head|traits.Rudder)

	belly := torso
	bellyMid := torsoShape.Mid()
	for range f.rnd.Irand(0, 4) {
		bellyShape := f.rnd.RandomPoly(true)
		belly = b.Add(belly, bellyMid, bellyShape, traits.Belly|traits.Joint).Index()
		bellyMid = bellyShape.Mid()
		if f.rnd.Irand(0, 4) == 0 {
			b.AddRight(belly, 2, armShape, traits.Arm|traits.Rudder).
				AddLeft(belly, -2, armShape, traits.Arm|traits.Rudder)
		}
	}

	b.AddRight(belly, bellyMid-1, legShape, traits.Leg|traits.Thruster).
		AddLeft(belly, -(bellyMid - 1), legShape, traits.Leg|traits.Thruster).
		Add(belly, bellyMid, tailShape, traits.Tail|traits.Brake)

	return f.Insert(b.Build())
}

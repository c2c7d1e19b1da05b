// Package world holds everything the simulation steps: a flock per agent
// kind, the fixed emitters, and the arena bounds.
package world

import (
	"math/rand"

	"github.com/mlange-42/ark/ecs"
	"github.com/pthm-cable/oids/agent"
	"github.com/pthm-cable/oids/components"
	"github.com/pthm-cable/oids/geometry"
	"gonum.org/v1/gonum/spatial/r2"
)

// Options configure a new world.
type Options struct {
	Extent      float64 // half width of the arena
	FenceRadius float64
	SpawnCharge float64 // target charge of spawned agents
	Flock       agent.Options
}

// DefaultOptions returns the stock arena.
func DefaultOptions() Options {
	return Options{
		Extent:      550,
		FenceRadius: 500,
		SpawnCharge: 0.3,
		Flock:       agent.DefaultOptions(),
	}
}

// World owns the flocks and the emitter registry.
type World struct {
	Extent geometry.Rect
	Fence  geometry.Mesh

	Minions   *agent.Flock
	Resources *agent.Flock

	charge float64

	ecs           *ecs.World
	emitterMap    *ecs.Map2[components.Position, components.Emitter]
	emitterFilter *ecs.Filter2[components.Position, components.Emitter]
}

// New creates an empty world. rng drives every spawn recipe.
func New(rng *rand.Rand, opts Options) *World {
	ew := ecs.NewWorld()
	e := opts.Extent
	return &World{
		Extent:        geometry.NewRect(-e, -e, e, e),
		Fence:         geometry.NewMesh(geometry.NewBall(opts.FenceRadius), geometry.CW),
		Minions:       agent.NewFlock(agent.KindMinion, rng, opts.Flock),
		Resources:     agent.NewFlock(agent.KindResource, rng, opts.Flock),
		charge:        opts.SpawnCharge,
		ecs:           ew,
		emitterMap:    ecs.NewMap2[components.Position, components.Emitter](ew),
		emitterFilter: ecs.NewFilter2[components.Position, components.Emitter](ew),
	}
}

// Agents returns the flock holding agents of kind, or nil.
func (w *World) Agents(kind agent.Kind) *agent.Flock {
	switch kind {
	case agent.KindMinion:
		return w.Minions
	case agent.KindResource:
		return w.Resources
	}
	return nil
}

// Agent looks up an agent by kind and id.
func (w *World) Agent(kind agent.Kind, id agent.ID) (*agent.Agent, bool) {
	f := w.Agents(kind)
	if f == nil {
		return nil, false
	}
	return f.Get(id)
}

// NewMinion spawns a minion at pos.
func (w *World) NewMinion(pos r2.Vec) agent.ID {
	return w.Minions.NewMinion(pos, w.charge)
}

// NewResource spawns a resource at pos.
func (w *World) NewResource(pos r2.Vec) agent.ID {
	return w.Resources.NewResource(pos, w.charge)
}

// InsideFence reports whether p lies within the fence.
func (w *World) InsideFence(p r2.Vec) bool {
	return r2.Norm(p) <= w.Fence.Shape.Radius()
}

// Touch records that target was touched by another segment. It reports
// false if the target no longer exists.
func (w *World) Touch(target agent.Ref, by agent.Ref) bool {
	a, ok := w.Agent(target.Kind, target.ID)
	if !ok {
		return false
	}
	s := a.Segment(target.Segment)
	if s == nil {
		return false
	}
	ref := by
	s.State.LastTouched = &ref
	return true
}

// ClearTouches forgets every recorded touch.
func (w *World) ClearTouches() {
	for _, f := range w.Flocks() {
		for _, a := range f.All() {
			segments := a.Segments()
			for i := range segments {
				segments[i].State.LastTouched = nil
			}
		}
	}
}

// Flocks returns every flock, minions first.
func (w *World) Flocks() []*agent.Flock {
	return []*agent.Flock{w.Minions, w.Resources}
}

package systems

import (
	"math"

	"github.com/pthm-cable/oids/agent"
	"github.com/pthm-cable/oids/config"
	"github.com/pthm-cable/oids/world"
	"gonum.org/v1/gonum/spatial/r2"
)

// DriftPhysics moves minions as point masses when no rigid-body engine is
// attached. The intent forces of all segments are summed, the body is
// translated without turning, and it stops dead at the fence. Nothing
// collides.
type DriftPhysics struct {
	Friction float64 // velocity kept per tick
	MaxSpeed float64

	velocity map[agent.ID]r2.Vec
}

// NewDriftPhysics creates a drift stage.
func NewDriftPhysics(friction, maxSpeed float64) *DriftPhysics {
	return &DriftPhysics{
		Friction: friction,
		MaxSpeed: maxSpeed,
		velocity: make(map[agent.ID]r2.Vec),
	}
}

// NewDriftPhysicsFromConfig creates a drift stage from the physics section.
func NewDriftPhysicsFromConfig(cfg config.PhysicsConfig) *DriftPhysics {
	return NewDriftPhysics(cfg.Friction, cfg.MaxSpeed)
}

// Apply advances every minion by dt seconds.
func (p *DriftPhysics) Apply(w *world.World, dt float64) {
	for id, a := range w.Minions.All() {
		segments := a.Segments()

		var force r2.Vec
		var mass float64
		for i := range segments {
			seg := &segments[i]
			force = r2.Add(force, seg.State.Intent.Force)
			r := seg.Radius()
			mass += seg.Material.Density * math.Pi * r * r
		}

		v := p.velocity[id]
		if mass > 0 {
			v = r2.Add(v, r2.Scale(dt/mass, force))
		}

		// Limit velocity
		if speed := r2.Norm(v); speed > p.MaxSpeed {
			v = r2.Scale(p.MaxSpeed/speed, v)
		}

		step := r2.Scale(dt, v)
		if !w.InsideFence(r2.Add(a.Position(), step)) {
			step = r2.Vec{}
			v = r2.Vec{}
		}
		for i := range segments {
			t := &segments[i].Transform
			t.Position = r2.Add(t.Position, step)
		}

		p.velocity[id] = r2.Scale(p.Friction, v)
	}

	for id := range p.velocity {
		if _, ok := w.Minions.Get(id); !ok {
			delete(p.velocity, id)
		}
	}
}

// Velocity returns the current velocity of a minion.
func (p *DriftPhysics) Velocity(id agent.ID) r2.Vec {
	return p.velocity[id]
}

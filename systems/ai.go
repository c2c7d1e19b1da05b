// Package systems holds the per-tick stages that read and mutate the world.
package systems

import (
	"log/slog"
	"math"
	"slices"

	"github.com/pthm-cable/oids/agent"
	"github.com/pthm-cable/oids/config"
	"github.com/pthm-cable/oids/geometry"
	"github.com/pthm-cable/oids/traits"
	"github.com/pthm-cable/oids/world"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	// snapshotCellSize is the spatial grid cell edge used for radar lookups.
	snapshotCellSize = 50.0
	// Grid size is bounded by target count, not by the area targets span.
	cellsPerTarget = 4
	minGridCells   = 64
)

// Snapshot is the read-only view of the world that decisions are made
// against: beacon positions and the positions of active targets.
type Snapshot struct {
	Beacons []r2.Vec
	targets map[agent.ID]r2.Vec
	grid    *SpatialGrid
	scratch []agent.ID
}

// NewSnapshot builds a snapshot and indexes targets by position.
func NewSnapshot(beacons []r2.Vec, targets map[agent.ID]r2.Vec) *Snapshot {
	s := &Snapshot{Beacons: beacons, targets: targets}
	if len(targets) == 0 {
		return s
	}
	bounds := geometry.Rect{
		Min: r2.Vec{X: math.Inf(1), Y: math.Inf(1)},
		Max: r2.Vec{X: math.Inf(-1), Y: math.Inf(-1)},
	}
	for _, p := range targets {
		bounds.Min = r2.Vec{X: math.Min(bounds.Min.X, p.X), Y: math.Min(bounds.Min.Y, p.Y)}
		bounds.Max = r2.Vec{X: math.Max(bounds.Max.X, p.X), Y: math.Max(bounds.Max.Y, p.Y)}
	}
	s.grid = NewCappedSpatialGrid(bounds, snapshotCellSize, max(minGridCells, cellsPerTarget*len(targets)))
	if s.grid == nil {
		slog.Debug("target bounds not finite, using linear search", "targets", len(targets))
		return s
	}
	for id, p := range targets {
		s.grid.Insert(id, p)
	}
	return s
}

// Target returns the position of an active target.
func (s *Snapshot) Target(id agent.ID) (r2.Vec, bool) {
	p, ok := s.targets[id]
	return p, ok
}

// Len returns the number of active targets.
func (s *Snapshot) Len() int { return len(s.targets) }

// firstWithin returns the lowest-id target closer to p than r.
func (s *Snapshot) firstWithin(p r2.Vec, r float64) (agent.ID, r2.Vec, bool) {
	if len(s.targets) == 0 {
		return agent.NoID, r2.Vec{}, false
	}
	if s.grid == nil {
		return s.scanWithin(p, r)
	}
	s.scratch = s.grid.QueryRadiusInto(s.scratch[:0], p, r, s.targets)
	if len(s.scratch) == 0 {
		return agent.NoID, r2.Vec{}, false
	}
	id := slices.Min(s.scratch)
	return id, s.targets[id], true
}

// scanWithin is firstWithin without the grid.
func (s *Snapshot) scanWithin(p r2.Vec, r float64) (agent.ID, r2.Vec, bool) {
	best := agent.NoID
	for id, q := range s.targets {
		if r2.Norm2(r2.Sub(q, p)) < r*r && (best == agent.NoID || id < best) {
			best = id
		}
	}
	if best == agent.NoID {
		return agent.NoID, r2.Vec{}, false
	}
	return best, s.targets[best], true
}

// nearestBeacon returns the beacon closest to p, the first one on ties.
// With no beacons it returns p.
func (s *Snapshot) nearestBeacon(p r2.Vec) r2.Vec {
	if len(s.Beacons) == 0 {
		return p
	}
	best := s.Beacons[0]
	bestD := r2.Norm2(r2.Sub(p, best))
	for _, b := range s.Beacons[1:] {
		if d := r2.Norm2(r2.Sub(p, b)); d < bestD {
			best, bestD = b, d
		}
	}
	return best
}

// AiStats counts decisions made in the last ToWorld pass.
type AiStats struct {
	Decided   int
	Skipped   int // no sensor
	Acquired  int // new target locked
	Dropped   int // locked target vanished
	Fallbacks int // steered to a beacon
	Intents   [4]int
}

// LogValue implements slog.LogValuer.
func (s AiStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("decided", s.Decided),
		slog.Int("skipped", s.Skipped),
		slog.Int("acquired", s.Acquired),
		slog.Int("dropped", s.Dropped),
		slog.Int("fallbacks", s.Fallbacks),
		slog.Int("idle", s.Intents[agent.IntentIdle]),
		slog.Int("move", s.Intents[agent.IntentMove]),
		slog.Int("brake", s.Intents[agent.IntentBrake]),
		slog.Int("run_away", s.Intents[agent.IntentRunAway]),
	)
}

// AiSystem steers minions. Each tick FromWorld takes a snapshot, then
// ToWorld decides every minion against it and writes intents and target
// charges into their actuators.
type AiSystem struct {
	RadarMultiplier float64
	PowerBoost      float64

	snapshot *Snapshot
	stats    AiStats
}

// NewAiSystem creates a behavior system with explicit parameters.
func NewAiSystem(radarMultiplier, powerBoost float64) *AiSystem {
	return &AiSystem{
		RadarMultiplier: radarMultiplier,
		PowerBoost:      powerBoost,
		snapshot:        NewSnapshot(nil, nil),
	}
}

// NewAiSystemFromConfig creates a behavior system from its config section.
func NewAiSystemFromConfig(cfg config.AIConfig) *AiSystem {
	return NewAiSystem(cfg.RadarMultiplier, cfg.PowerBoost)
}

// FromWorld captures emitter positions and every active resource.
func (s *AiSystem) FromWorld(w *world.World) {
	targets := make(map[agent.ID]r2.Vec, w.Resources.Len())
	for id, a := range w.Resources.All() {
		if a.State.IsActive() {
			targets[id] = a.Position()
		}
	}
	s.snapshot = NewSnapshot(w.Emitters(), targets)
}

// Snapshot returns the snapshot taken by the last FromWorld.
func (s *AiSystem) Snapshot() *Snapshot { return s.snapshot }

// ToWorld decides every minion against the current snapshot.
func (s *AiSystem) ToWorld(w *world.World) {
	s.stats = AiStats{}
	for _, a := range w.Minions.All() {
		s.Decide(a, s.snapshot)
	}
}

// Stats returns the counters of the last ToWorld pass.
func (s *AiSystem) Stats() AiStats { return s.stats }

// Decide resolves the target of a and sets the intent of each of its
// actuators. It reports false if a has no sensor.
func (s *AiSystem) Decide(a *agent.Agent, snap *Snapshot) bool {
	sensor := a.FirstSegment(traits.Sensor)
	if sensor == nil {
		s.stats.Skipped++
		return false
	}
	core := a.FirstSegment(traits.Torso)
	if core == nil {
		core = sensor
	}
	s.stats.Decided++

	radar := sensor.Radius() * s.RadarMultiplier
	s.retarget(a, snap, sensor.Position(), radar)

	// Target relative to the sensor, clamped to radar range.
	t := r2.Sub(a.State.TargetPosition(), sensor.Position())
	if d := r2.Norm(t); d > radar {
		t = r2.Scale(radar/d, t)
	}
	forward := geometry.Rotate(r2.Vec{X: 0, Y: -1}, sensor.Angle())
	neck := math.Pi + sensor.Angle() - core.Angle()

	p := a.Personality()
	if p == nil {
		p = agent.Inert
	}
	r := p.Response(agent.Features{neck, r2.Dot(t, forward), r2.Cross(t, forward), 0})
	tr := p.Traits()

	segments := a.Segments()
	for i := range segments {
		seg := &segments[i]
		if !seg.Flags.Has(traits.Actuator) {
			continue
		}
		power := seg.State.Charge() * seg.Radius() * seg.Radius() * s.PowerBoost
		f := r2.Scale(power, geometry.Heading(seg.Angle()))

		intent := chooseIntent(seg, r, tr, f)
		switch intent.Kind {
		case agent.IntentIdle:
			seg.State.SetTargetCharge(tr.Rest)
		case agent.IntentMove, agent.IntentBrake:
			seg.State.SetTargetCharge(tr.Thrust)
		case agent.IntentRunAway:
			seg.State.SetCharge(tr.Thrust)
		}
		seg.State.Intent = intent
		s.stats.Intents[intent.Kind]++
	}
	return true
}

// retarget keeps a live target, locks a new one within radar, or falls back
// to the beacon nearest the last target position.
func (s *AiSystem) retarget(a *agent.Agent, snap *Snapshot, sensorPos r2.Vec, radar float64) {
	current, locked := a.State.Target()
	if locked {
		if p, ok := snap.Target(current); ok {
			a.State.Retarget(current, p)
			return
		}
		s.stats.Dropped++
	} else if id, p, ok := snap.firstWithin(sensorPos, radar); ok {
		a.State.Retarget(id, p)
		s.stats.Acquired++
		return
	}
	s.stats.Fallbacks++
	a.State.Retarget(agent.NoID, snap.nearestBeacon(a.State.TargetPosition()))
}

// chooseIntent picks the intent of one actuator. A touch by anything but a
// resource always wins. Both rudder branches push along -f.
func chooseIntent(seg *agent.Segment, r agent.Response, tr agent.Traits, f r2.Vec) agent.Intent {
	if by := seg.State.LastTouched; by != nil {
		if by.Kind == agent.KindResource {
			return agent.Idle()
		}
		return agent.RunAway(r2.Scale(tr.Fear, f))
	}
	flags := seg.Flags
	switch {
	case flags.HasAll(traits.Rudder|traits.Left) && r[0] > tr.Hunger:
		return agent.Move(r2.Scale(-1, f))
	case flags.HasAll(traits.Rudder|traits.Right) && r[1] > tr.Hunger:
		return agent.Move(r2.Scale(-1, f))
	case flags.Has(traits.Thruster) && r[2] > tr.Haste:
		return agent.Move(f)
	case flags.Has(traits.Brake) && r[3] > tr.Prudence:
		return agent.Brake(r2.Scale(-1, f))
	}
	return agent.Idle()
}

// Package agent builds creatures out of segments and keeps them in flocks.
package agent

import (
	"fmt"

	"github.com/pthm-cable/oids/geometry"
	"github.com/pthm-cable/oids/traits"
	"gonum.org/v1/gonum/spatial/r2"
)

// ID identifies an agent within its flock. Zero is never allocated.
type ID uint64

// NoID marks the absence of an agent.
const NoID ID = 0

// Kind is the category of an agent. Each flock holds a single kind.
type Kind uint8

const (
	KindMinion Kind = iota
	KindResource
	KindPlayer
	KindEnemy
	KindProp
)

func (k Kind) String() string {
	switch k {
	case KindMinion:
		return "minion"
	case KindResource:
		return "resource"
	case KindPlayer:
		return "player"
	case KindEnemy:
		return "enemy"
	case KindProp:
		return "prop"
	}
	return "unknown"
}

// Ref points at a segment of some agent, e.g. the one that touched us.
type Ref struct {
	ID      ID
	Kind    Kind
	Segment int
}

func (r Ref) String() string {
	return fmt.Sprintf("%s#%d/%d", r.Kind, r.ID, r.Segment)
}

// Attachment anchors a segment to a vertex of its parent.
type Attachment struct {
	Index int // parent segment
	Point int // parent vertex
}

// Segment is one rigid body part of an agent.
type Segment struct {
	Transform  geometry.Transform
	Index      int
	Mesh       geometry.Mesh
	Material   geometry.Material
	Livery     geometry.Livery
	AttachedTo *Attachment
	State      State
	Flags      traits.Set
}

// NewAttachment returns an attachment to vertex point of this segment,
// clamped to the last vertex.
func (s *Segment) NewAttachment(point int) *Attachment {
	last := len(s.Mesh.Vertices) - 1
	if point > last {
		point = last
	}
	if point < 0 {
		point = 0
	}
	return &Attachment{Index: s.Index, Point: point}
}

// Radius returns the nominal radius of the segment shape.
func (s *Segment) Radius() float64 {
	return s.Mesh.Shape.Radius()
}

// Position returns the world position of the segment.
func (s *Segment) Position() r2.Vec {
	return s.Transform.Position
}

// Angle returns the world heading of the segment.
func (s *Segment) Angle() float64 {
	return s.Transform.Angle
}

// Color returns the albedo brightened by the current charge.
func (s *Segment) Color() geometry.Rgba {
	a := s.Livery.Albedo
	c := float32(5 * (s.State.Charge()*0.99 + 0.01))
	return geometry.Rgba{a[0] * c, a[1] * c, a[2] * c, a[3] * float32(s.Material.Density)}
}

// AgentState holds the targeting memory of an agent.
type AgentState struct {
	target         ID
	targetPosition r2.Vec
	active         bool
}

// Target returns the locked target, if any.
func (s *AgentState) Target() (ID, bool) {
	return s.target, s.target != NoID
}

// TargetPosition returns the last known target position.
func (s *AgentState) TargetPosition() r2.Vec {
	return s.targetPosition
}

// Retarget locks onto id at position. NoID clears the lock but still
// records the position to steer toward.
func (s *AgentState) Retarget(id ID, position r2.Vec) {
	s.target = id
	s.targetPosition = position
}

// IsActive reports whether the agent is eligible as a target.
func (s *AgentState) IsActive() bool { return s.active }

// SetActive toggles target eligibility.
func (s *AgentState) SetActive(active bool) { s.active = active }

// Agent is an identity plus an ordered tree of segments. Segment 0 is the root.
type Agent struct {
	id          ID
	kind        Kind
	segments    []Segment
	personality Personality

	State AgentState
}

func (a *Agent) ID() ID     { return a.id }
func (a *Agent) Kind() Kind { return a.kind }

// Ref returns a reference to segment i of this agent.
func (a *Agent) Ref(i int) Ref {
	return Ref{ID: a.id, Kind: a.kind, Segment: i}
}

// Segments returns the segment list. Elements may be mutated in place; the
// slice itself must not be resized.
func (a *Agent) Segments() []Segment { return a.segments }

// Segment returns segment i, or nil if out of range.
func (a *Agent) Segment(i int) *Segment {
	if i < 0 || i >= len(a.segments) {
		return nil
	}
	return &a.segments[i]
}

// FirstSegment returns the first segment carrying any of flags, or nil.
func (a *Agent) FirstSegment(flags traits.Set) *Segment {
	for i := range a.segments {
		if a.segments[i].Flags.Has(flags) {
			return &a.segments[i]
		}
	}
	return nil
}

// Transform returns the transform of the root segment.
func (a *Agent) Transform() geometry.Transform {
	return a.segments[0].Transform
}

// Position returns the position of the root segment.
func (a *Agent) Position() r2.Vec {
	return a.segments[0].Transform.Position
}

// Personality returns the behavior driving this agent. May be nil for
// agents that never decide (resources, props).
func (a *Agent) Personality() Personality { return a.personality }

// Update advances the charge state of every segment and returns how many
// of them fired.
func (a *Agent) Update(dt float64) int {
	fired := 0
	for i := range a.segments {
		if a.segments[i].State.Update(dt) {
			fired++
		}
	}
	return fired
}

package agent

import (
	"fmt"
	"math"

	"github.com/pthm-cable/oids/geometry"
	"github.com/pthm-cable/oids/traits"
	"gonum.org/v1/gonum/spatial/r2"
)

// Builder assembles an agent one segment at a time. Each new segment hangs
// off a vertex of an earlier one, so parents always precede children.
//
//	torso := b.Start(pos, angle, body).Index()
//	b.AddRight(torso, 2, arm, traits.Arm).AddLeft(torso, -2, arm, traits.Arm)
//	a := b.Build()
type Builder struct {
	id          ID
	kind        Kind
	material    geometry.Material
	livery      geometry.Livery
	state       State
	personality Personality
	segments    []Segment
}

// NewBuilder creates a builder whose segments share material, livery and
// initial charge state.
func NewBuilder(id ID, kind Kind, material geometry.Material, livery geometry.Livery, state State) *Builder {
	return &Builder{
		id:       id,
		kind:     kind,
		material: material,
		livery:   livery,
		state:    state,
	}
}

// WithPersonality sets the personality of the built agent.
func (b *Builder) WithPersonality(p Personality) *Builder {
	b.personality = p
	return b
}

// Start discards any segments and places the root.
func (b *Builder) Start(position r2.Vec, angle float64, shape geometry.Shape) *Builder {
	b.segments = b.segments[:0]
	b.segments = append(b.segments, b.newSegment(shape, geometry.CW, position, angle, nil, traits.Torso|traits.Middle))
	return b
}

// Add attaches a middle segment, wound clockwise.
func (b *Builder) Add(parent, offset int, shape geometry.Shape, flags traits.Set) *Builder {
	return b.AddWithWinding(parent, offset, shape, geometry.CW, flags|traits.Middle)
}

// AddLeft attaches a left segment, wound counterclockwise.
func (b *Builder) AddLeft(parent, offset int, shape geometry.Shape, flags traits.Set) *Builder {
	return b.AddWithWinding(parent, offset, shape, geometry.CCW, flags|traits.Left)
}

// AddRight attaches a right segment, wound clockwise.
func (b *Builder) AddRight(parent, offset int, shape geometry.Shape, flags traits.Set) *Builder {
	return b.AddWithWinding(parent, offset, shape, geometry.CW, flags|traits.Right)
}

// AddWithWinding attaches a segment to vertex offset of the parent segment.
// Negative offsets count backward from the last vertex. The child sits
// outside the parent along the vertex direction, turned perpendicular to it.
func (b *Builder) AddWithWinding(parent, offset int, shape geometry.Shape, winding geometry.Winding, flags traits.Set) *Builder {
	if parent < 0 || parent >= len(b.segments) {
		panic(fmt.Sprintf("agent: parent segment %d out of range [0, %d)", parent, len(b.segments)))
	}
	p := &b.segments[parent]
	n := len(p.Mesh.Vertices)
	k := ((offset % n) + n) % n

	p0 := geometry.Rotate(p.Mesh.Vertices[k], p.Transform.Angle)
	r0 := r2.Norm(p0) * p.Radius()
	r1 := shape.Radius()
	position := r2.Add(p.Transform.Position, r2.Scale(r0+r1, p0))
	angle := math.Pi/2 + math.Atan2(p0.Y, p0.X)

	attachment := p.NewAttachment(k)
	b.segments = append(b.segments, b.newSegment(shape, winding, position, angle, attachment, flags))
	return b
}

// Index returns the index of the last segment added, or 0 when empty.
func (b *Builder) Index() int {
	if len(b.segments) == 0 {
		return 0
	}
	return len(b.segments) - 1
}

// Len returns the number of segments placed so far.
func (b *Builder) Len() int { return len(b.segments) }

// Build returns a new agent owning a copy of the segments.
// The builder can keep going afterward without affecting it.
func (b *Builder) Build() *Agent {
	if len(b.segments) == 0 {
		panic("agent: Build called before Start")
	}
	segments := make([]Segment, len(b.segments))
	for i, s := range b.segments {
		s.Mesh = s.Mesh.Clone()
		if s.AttachedTo != nil {
			at := *s.AttachedTo
			s.AttachedTo = &at
		}
		segments[i] = s
	}
	a := &Agent{
		id:          b.id,
		kind:        b.kind,
		segments:    segments,
		personality: b.personality,
	}
	a.State = AgentState{targetPosition: segments[0].Transform.Position, active: true}
	return a
}

func (b *Builder) newSegment(shape geometry.Shape, winding geometry.Winding, position r2.Vec, angle float64, attachment *Attachment, flags traits.Set) Segment {
	return Segment{
		Index:      len(b.segments),
		Transform:  geometry.NewTransform(position, angle),
		Mesh:       geometry.NewMesh(shape, winding),
		Material:   b.material,
		Livery:     b.livery,
		State:      b.state,
		AttachedTo: attachment,
		Flags:      flags,
	}
}

package geometry

import "gonum.org/v1/gonum/spatial/r2"

// Winding is the traversal direction of a mesh outline.
type Winding uint8

const (
	CW Winding = iota
	CCW
)

// String returns "cw" or "ccw".
func (w Winding) String() string {
	if w == CCW {
		return "ccw"
	}
	return "cw"
}

// Mesh is a shape outline in unit scale plus a winding order.
// Vertices are the shape vertices divided by the shape radius, always in the
// shape's own order so attachment indices mean the same for either winding.
type Mesh struct {
	Shape    Shape
	Vertices []r2.Vec
	Winding  Winding
}

// NewMesh builds the mesh for a shape.
func NewMesh(shape Shape, winding Winding) Mesh {
	src := shape.Vertices()
	scale := 1 / shape.Radius()
	vertices := make([]r2.Vec, len(src))
	for i, v := range src {
		vertices[i] = r2.Scale(scale, v)
	}
	return Mesh{Shape: shape, Vertices: vertices, Winding: winding}
}

// Outline returns the vertices in winding order, starting at vertex 0.
func (m Mesh) Outline() []r2.Vec {
	out := make([]r2.Vec, len(m.Vertices))
	copy(out, m.Vertices)
	if m.Winding == CCW && len(out) > 2 {
		tail := out[1:]
		for i, j := 0, len(tail)-1; i < j; i, j = i+1, j-1 {
			tail[i], tail[j] = tail[j], tail[i]
		}
	}
	return out
}

// Clone returns a deep copy of the mesh.
func (m Mesh) Clone() Mesh {
	vertices := make([]r2.Vec, len(m.Vertices))
	copy(vertices, m.Vertices)
	m.Vertices = vertices
	return m
}

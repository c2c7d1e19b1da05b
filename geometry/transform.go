package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Transform is a position plus a rotation in radians (counterclockwise).
type Transform struct {
	Position r2.Vec
	Angle    float64
}

// NewTransform creates a transform.
func NewTransform(position r2.Vec, angle float64) Transform {
	return Transform{Position: position, Angle: angle}
}

// Apply maps a point from local to world coordinates.
func (t Transform) Apply(local r2.Vec) r2.Vec {
	return r2.Add(t.Position, Rotate(local, t.Angle))
}

// Rotate rotates v counterclockwise around the origin.
func Rotate(v r2.Vec, angle float64) r2.Vec {
	return r2.Rotate(v, angle, r2.Vec{})
}

// Heading returns the unit vector pointing along local +Y after rotation.
func Heading(angle float64) r2.Vec {
	return Rotate(r2.Vec{X: 0, Y: 1}, angle)
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	Min r2.Vec
	Max r2.Vec
}

// NewRect creates a rectangle from its edges.
func NewRect(left, bottom, right, top float64) Rect {
	return Rect{Min: r2.Vec{X: left, Y: bottom}, Max: r2.Vec{X: right, Y: top}}
}

func (r Rect) BottomLeft() r2.Vec  { return r.Min }
func (r Rect) TopRight() r2.Vec    { return r.Max }
func (r Rect) BottomRight() r2.Vec { return r2.Vec{X: r.Max.X, Y: r.Min.Y} }
func (r Rect) TopLeft() r2.Vec     { return r2.Vec{X: r.Min.X, Y: r.Max.Y} }

// Contains reports whether p lies inside the rectangle (edges included).
func (r Rect) Contains(p r2.Vec) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

// Material holds the physical surface properties of a segment.
type Material struct {
	Density     float64 `json:"density"`
	Restitution float64 `json:"restitution"`
	Friction    float64 `json:"friction"`
}

// DefaultMaterial returns density 1, restitution 0.2, friction 0.3.
func DefaultMaterial() Material {
	return Material{Density: 1.0, Restitution: 0.2, Friction: 0.3}
}

// Rgba is a linear color with alpha.
type Rgba [4]float32

// Livery holds the appearance of a segment.
type Livery struct {
	Albedo Rgba `json:"albedo"`
}

// NormalizeAngle wraps an angle to [-Pi, Pi].
func NormalizeAngle(angle float64) float64 {
	for angle > math.Pi {
		angle -= 2 * math.Pi
	}
	for angle < -math.Pi {
		angle += 2 * math.Pi
	}
	return angle
}

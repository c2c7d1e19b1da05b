// Package geometry provides the 2D primitives creatures are built from:
// shape outlines, meshes, transforms and surface properties.
package geometry

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/spatial/r2"
)

// Star curvature defaults. DefaultStarA sits just under sqrt(ln 2), where the
// radial function has its pole.
const (
	DefaultStarA     = 0.83255
	DefaultStarB     = 0.14
	DefaultStarRatio = 0.5

	starC = 1.0
)

// maxStarA is the upper bound (exclusive) for the star A constant.
var maxStarA = math.Sqrt(math.Ln2)

// ShapeKind identifies the shape variant.
type ShapeKind uint8

const (
	ShapeBall ShapeKind = iota
	ShapeBox
	ShapeStar
	ShapeTriangle
	ShapePoly
)

// String returns the lowercase name of the shape kind.
func (k ShapeKind) String() string {
	switch k {
	case ShapeBall:
		return "ball"
	case ShapeBox:
		return "box"
	case ShapeStar:
		return "star"
	case ShapeTriangle:
		return "triangle"
	case ShapePoly:
		return "poly"
	}
	return "unknown"
}

// Shape is a geometric primitive. Only the fields relevant to Kind are set;
// use the New* constructors, which validate parameters.
type Shape struct {
	Kind ShapeKind `json:"kind"`

	// Ball, Star, Triangle, Poly
	R float64 `json:"radius,omitempty"`

	// Box
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`

	// Star lobes, Poly sides
	N int `json:"n,omitempty"`

	// Star curvature
	A     float64 `json:"a,omitempty"`
	B     float64 `json:"b,omitempty"`
	Ratio float64 `json:"ratio,omitempty"`

	// Triangle corner angles, clockwise from +Y
	Alpha1 float64 `json:"alpha1,omitempty"`
	Alpha2 float64 `json:"alpha2,omitempty"`

	// Poly: vertex 0 is an edge midpoint instead of a corner
	UpsideDown bool `json:"upside_down,omitempty"`
}

// NewBall creates a disc of the given radius.
func NewBall(radius float64) Shape {
	mustPositive("ball radius", radius)
	return Shape{Kind: ShapeBall, R: radius}
}

// NewBox creates an axis-aligned rectangle centered at the origin.
func NewBox(width, height float64) Shape {
	mustPositive("box width", width)
	mustPositive("box height", height)
	return Shape{Kind: ShapeBox, Width: width, Height: height}
}

// NewStar creates an n-lobed star with the default curvature constants.
func NewStar(radius float64, lobes int) Shape {
	return NewStarWithParams(radius, lobes, DefaultStarA, DefaultStarB, DefaultStarRatio)
}

// NewStarWithParams creates an n-lobed star. a and b shape the lobe curvature,
// ratio controls the notch depth (inner radius = ratio/(ratio+b) of the outer).
func NewStarWithParams(radius float64, lobes int, a, b, ratio float64) Shape {
	mustPositive("star radius", radius)
	if lobes < 2 {
		panic(fmt.Sprintf("geometry: star needs at least 2 lobes, got %d", lobes))
	}
	if !(a > 0 && a < maxStarA) {
		panic(fmt.Sprintf("geometry: star a must be in (0, %.6f), got %v", maxStarA, a))
	}
	mustPositive("star b", b)
	if ratio < 0 || math.IsNaN(ratio) {
		panic(fmt.Sprintf("geometry: star ratio must be >= 0, got %v", ratio))
	}
	return Shape{Kind: ShapeStar, R: radius, N: lobes, A: a, B: b, Ratio: ratio}
}

// NewTriangle creates a triangle inscribed in a circle of the given radius,
// with corners at angles 0, alpha1 and alpha2.
func NewTriangle(radius, alpha1, alpha2 float64) Shape {
	mustPositive("triangle radius", radius)
	return Shape{Kind: ShapeTriangle, R: radius, Alpha1: alpha1, Alpha2: alpha2}
}

// NewPoly creates a regular n-gon sampled at corners and edge midpoints.
func NewPoly(radius float64, n int, upsideDown bool) Shape {
	mustPositive("poly radius", radius)
	if n < 3 {
		panic(fmt.Sprintf("geometry: poly needs at least 3 sides, got %d", n))
	}
	return Shape{Kind: ShapePoly, R: radius, N: n, UpsideDown: upsideDown}
}

func mustPositive(what string, v float64) {
	if !(v > 0) || math.IsInf(v, 1) {
		panic(fmt.Sprintf("geometry: %s must be positive, got %v", what, v))
	}
}

// Radius returns the nominal radius of the shape.
// For boxes this is the half diagonal.
func (s Shape) Radius() float64 {
	if s.Kind == ShapeBox {
		return math.Hypot(s.Width, s.Height) / 2
	}
	return s.R
}

// Len returns the number of vertices the shape produces.
func (s Shape) Len() int {
	switch s.Kind {
	case ShapeBall:
		return 1
	case ShapeBox:
		return 5
	case ShapeTriangle:
		return 3
	case ShapeStar, ShapePoly:
		return 2 * s.N
	}
	return 0
}

// Mid returns the index of the vertex opposite vertex 0.
func (s Shape) Mid() int {
	return s.Len() / 2
}

// Vertices returns the closed outline of the shape in local coordinates.
// Angles run clockwise from +Y, so vertex 0 is the top of the shape.
func (s Shape) Vertices() []r2.Vec {
	switch s.Kind {
	case ShapeBall:
		return []r2.Vec{{X: 0, Y: s.R}}
	case ShapeBox:
		w2, h2 := s.Width/2, s.Height/2
		return []r2.Vec{
			{X: 0, Y: h2},
			{X: w2, Y: h2},
			{X: w2, Y: -h2},
			{X: -w2, Y: -h2},
			{X: -w2, Y: h2},
		}
	case ShapeStar:
		return s.starVertices()
	case ShapeTriangle:
		return []r2.Vec{
			polar(s.R, 0),
			polar(s.R, s.Alpha1),
			polar(s.R, s.Alpha2),
		}
	case ShapePoly:
		return s.polyVertices()
	}
	return nil
}

// starVertices samples the radial lobe function at 2n points, alternating
// lobe tips and notches, and normalizes by the sampled maximum.
func (s Shape) starVertices() []r2.Vec {
	n := s.N
	a, b := s.A, s.B
	k := math.Sqrt(-math.Log(2*math.Exp(-a*a) - 1))
	xmax := k / b
	r0 := s.Ratio * xmax

	radii := make([]float64, 2*n)
	angles := make([]float64, 2*n)
	for i := range radii {
		p := float64(i) * math.Pi / float64(n)
		sn := math.Sin(p * float64(n) / 2)
		inner := 2*math.Exp(-a*a) - math.Exp(-b*b*xmax*xmax*sn*sn)
		radii[i] = r0 + (1/starC)*math.Sqrt(math.Max(0, -math.Log(inner)))
		angles[i] = p
	}

	rmax := floats.Max(radii)
	vertices := make([]r2.Vec, 2*n)
	for i := range vertices {
		vertices[i] = polar(s.R*radii[i]/rmax, angles[i])
	}
	return vertices
}

func (s Shape) polyVertices() []r2.Vec {
	n := s.N
	edge := s.R * math.Cos(math.Pi/float64(n))
	vertices := make([]r2.Vec, 2*n)
	for i := range vertices {
		r := s.R
		if (i%2 == 1) != s.UpsideDown {
			r = edge
		}
		vertices[i] = polar(r, float64(i)*math.Pi/float64(n))
	}
	return vertices
}

// polar returns the point at distance r and angle theta clockwise from +Y.
func polar(r, theta float64) r2.Vec {
	return r2.Vec{X: r * math.Sin(theta), Y: r * math.Cos(theta)}
}

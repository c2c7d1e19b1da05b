package geometry

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// flatEpsilon is the cross-product magnitude below which a vertex counts as flat.
const flatEpsilon = 1e-9

type vertexType uint8

const (
	vertexPlus vertexType = iota
	vertexMinus
	vertexFlat
)

// PolygonType counts the turn direction of every vertex of a closed outline.
type PolygonType struct {
	count [3]int
}

func classifyVertex(v0, v1, v2 r2.Vec) vertexType {
	x := r2.Cross(r2.Sub(v1, v0), r2.Sub(v2, v0))
	switch {
	case math.Abs(x) < flatEpsilon:
		return vertexFlat
	case x > 0:
		return vertexPlus
	default:
		return vertexMinus
	}
}

// Classify walks a closed outline and counts convex, reflex and flat vertices.
func Classify(v []r2.Vec) PolygonType {
	var pt PolygonType
	n := len(v)
	for i := 0; i < n; i++ {
		pt.count[classifyVertex(v[(i+n-1)%n], v[i], v[(i+1)%n])]++
	}
	return pt
}

// IsConvex reports whether all non-flat vertices turn the same way.
func (p PolygonType) IsConvex() bool {
	return p.count[vertexPlus] == 0 || p.count[vertexMinus] == 0
}

// IsConcave reports whether the outline turns both ways.
func (p PolygonType) IsConcave() bool {
	return p.count[vertexPlus] > 0 && p.count[vertexMinus] > 0
}

// HasFlatVertices reports whether any vertex is collinear with its neighbors.
func (p PolygonType) HasFlatVertices() bool {
	return p.count[vertexFlat] > 0
}

// Package components defines ECS components for world entities that are not
// agents: emitters and other fixed points of interest.
package components

import "gonum.org/v1/gonum/spatial/r2"

// Position represents an entity's world position.
type Position struct {
	X, Y float64
}

// NewPosition converts a vector.
func NewPosition(v r2.Vec) Position {
	return Position{X: v.X, Y: v.Y}
}

// Vec returns the position as a vector.
func (p Position) Vec() r2.Vec {
	return r2.Vec{X: p.X, Y: p.Y}
}

// EmitterKind distinguishes what an emitter gives off. All kinds serve as
// navigation beacons.
type EmitterKind uint8

const (
	EmitterLight EmitterKind = iota
	EmitterScent
)

func (k EmitterKind) String() string {
	if k == EmitterScent {
		return "scent"
	}
	return "light"
}

// Emitter marks a fixed beacon.
type Emitter struct {
	Kind      EmitterKind
	Radius    float64 // reach of the emission
	Intensity float64 // 0-1
}

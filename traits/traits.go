// Package traits defines the role tags carried by creature segments.
package traits

import "strings"

// Set is a bitset of segment roles.
type Set uint32

const (
	// Sensing
	Sensor Set = 0x1
	Joint  Set = 0x4
	Mouth  Set = 0x8

	// Body parts
	Head  Set = 0x10
	Leg   Set = 0x20
	Arm   Set = 0x40
	Torso Set = 0x100
	Belly Set = 0x200
	Tail  Set = 0x400

	// Side of the body the part hangs from
	Left   Set = 0x1000
	Right  Set = 0x2000
	Middle Set = 0x4000

	// Actuators
	Thruster Set = 0x10000
	Rudder   Set = 0x20000
	Brake    Set = 0x40000
)

// Actuator matches any segment that can act on the world.
const Actuator = Thruster | Rudder | Brake

// None is the empty set.
const None Set = 0

// Has checks if the set shares any bit with other.
func (s Set) Has(other Set) bool {
	return s&other != 0
}

// HasAll checks if every bit of other is present.
func (s Set) HasAll(other Set) bool {
	return s&other == other
}

// Add adds roles to the set.
func (s Set) Add(other Set) Set {
	return s | other
}

// Remove removes roles from the set.
func (s Set) Remove(other Set) Set {
	return s &^ other
}

var names = []struct {
	bit  Set
	name string
}{
	{Sensor, "Sensor"},
	{Joint, "Joint"},
	{Mouth, "Mouth"},
	{Head, "Head"},
	{Leg, "Leg"},
	{Arm, "Arm"},
	{Torso, "Torso"},
	{Belly, "Belly"},
	{Tail, "Tail"},
	{Left, "Left"},
	{Right, "Right"},
	{Middle, "Middle"},
	{Thruster, "Thruster"},
	{Rudder, "Rudder"},
	{Brake, "Brake"},
}

// Names returns human-readable names for the roles in the set.
func Names(s Set) []string {
	var out []string
	for _, n := range names {
		if s.Has(n.bit) {
			out = append(out, n.name)
		}
	}
	return out
}

// String joins the role names with '|'.
func (s Set) String() string {
	if s == None {
		return "None"
	}
	return strings.Join(Names(s), "|")
}

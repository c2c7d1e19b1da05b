package agent

// Features is the sensed input of a personality:
// [neck angle, target along heading, target across heading, 0].
type Features [4]float64

// Response holds the activation compared against the thresholds:
// [left rudder, right rudder, thruster, brake].
type Response [4]float64

// Traits are the thresholds and charge levels of a personality.
type Traits struct {
	Hunger   float64 `yaml:"hunger" json:"hunger"`     // rudder threshold
	Haste    float64 `yaml:"haste" json:"haste"`       // thruster threshold
	Prudence float64 `yaml:"prudence" json:"prudence"` // brake threshold
	Fear     float64 `yaml:"fear" json:"fear"`         // run-away force scale
	Rest     float64 `yaml:"rest" json:"rest"`         // target charge when idle
	Thrust   float64 `yaml:"thrust" json:"thrust"`     // target charge when acting
}

// Personality turns sensed features into actuation responses.
type Personality interface {
	Response(f Features) Response
	Traits() Traits
}

// Fixed is a personality with a constant response.
type Fixed struct {
	Out Response
	T   Traits
}

func (p Fixed) Response(Features) Response { return p.Out }
func (p Fixed) Traits() Traits             { return p.T }

// Inert never crosses a threshold; every actuator stays idle.
var Inert = Fixed{T: Traits{Hunger: 1, Haste: 1, Prudence: 1}}

package agent

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Charge dynamics defaults.
const (
	DefaultTau    = 2.0
	ChargeEpsilon = 0.001
)

// IntentKind is the actuation decision for a segment.
type IntentKind uint8

const (
	IntentIdle IntentKind = iota
	IntentMove
	IntentBrake
	IntentRunAway
)

// String returns the lowercase intent name.
func (k IntentKind) String() string {
	switch k {
	case IntentIdle:
		return "idle"
	case IntentMove:
		return "move"
	case IntentBrake:
		return "brake"
	case IntentRunAway:
		return "run_away"
	}
	return "unknown"
}

// Intent is the per-tick actuation decision of a segment, consumed by the
// physics stage. Force is zero for Idle.
type Intent struct {
	Kind  IntentKind
	Force r2.Vec
}

func Idle() Intent { return Intent{Kind: IntentIdle} }

func Move(f r2.Vec) Intent { return Intent{Kind: IntentMove, Force: f} }

func Brake(f r2.Vec) Intent { return Intent{Kind: IntentBrake, Force: f} }

func RunAway(f r2.Vec) Intent { return Intent{Kind: IntentRunAway, Force: f} }

// Magnitude returns the length of the force vector.
func (i Intent) Magnitude() float64 { return r2.Norm(i.Force) }

// exponential is a first-order low-pass filter with time constant tau.
type exponential struct {
	value float64
	tau   float64
}

func (e *exponential) reset(v float64) { e.value = v }

func (e *exponential) smooth(target, dt float64) float64 {
	alpha := 1 - math.Exp(-dt/e.tau)
	e.value = target*alpha + e.value*(1-alpha)
	return e.value
}

// State is the charge state of a segment: a scalar driven toward a target by
// exponential smoothing, reset to a recharge baseline once it gets there.
type State struct {
	ageSeconds   float64
	ageFrames    uint64
	charge       float64
	targetCharge float64
	recharge     float64
	smooth       exponential

	Intent      Intent
	LastTouched *Ref
}

// NewState creates a charge state. tau <= 0 selects DefaultTau.
func NewState(initial, target, recharge, tau float64) State {
	if tau <= 0 {
		tau = DefaultTau
	}
	return State{
		charge:       initial,
		targetCharge: target,
		recharge:     recharge,
		smooth:       exponential{value: initial, tau: tau},
	}
}

// DefaultState is fully charged, discharging toward zero, recharging to full.
func DefaultState() State {
	return NewState(1, 0, 1, DefaultTau)
}

// Update advances the state by dt seconds. A charge already within
// ChargeEpsilon of its target fires and resets to the recharge baseline;
// otherwise it moves toward the target. It reports whether the segment fired.
func (s *State) Update(dt float64) bool {
	s.ageSeconds += dt
	s.ageFrames++
	if math.Abs(s.charge-s.targetCharge) < ChargeEpsilon {
		s.SetCharge(s.recharge)
		return true
	}
	s.charge = s.smooth.smooth(s.targetCharge, dt)
	return false
}

// SetCharge overrides the charge immediately, bypassing smoothing.
func (s *State) SetCharge(charge float64) {
	s.charge = charge
	s.smooth.reset(charge)
}

// SetTargetCharge sets the value the charge approaches on later updates.
func (s *State) SetTargetCharge(target float64) {
	s.targetCharge = target
}

func (s *State) Charge() float64 { return s.charge }

func (s *State) TargetCharge() float64 { return s.targetCharge }

func (s *State) Recharge() float64 { return s.recharge }

func (s *State) Tau() float64 { return s.smooth.tau }

// Age returns the seconds simulated since creation.
func (s *State) Age() float64 { return s.ageSeconds }

// Frames returns the number of updates since creation.
func (s *State) Frames() uint64 { return s.ageFrames }

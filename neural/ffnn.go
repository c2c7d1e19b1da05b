// Package neural provides the personalities that drive minions: a small
// feedforward network and a fixed reflex arc.
package neural

import (
	"math"
	"math/rand"
)

// Network dimensions (compile-time constants for array sizing).
const (
	NumInputs  = 4 // neck angle, target along heading, target across heading, bias slot
	NumHidden  = 8
	NumOutputs = 4 // left rudder, right rudder, thruster, brake
)

// FFNN is a simple two-layer feedforward neural network.
type FFNN struct {
	W1 [NumHidden][NumInputs]float32  // input -> hidden weights
	B1 [NumHidden]float32             // hidden biases
	W2 [NumOutputs][NumHidden]float32 // hidden -> output weights
	B2 [NumOutputs]float32            // output biases
}

// NewFFNN creates a randomly initialized network.
func NewFFNN(rng *rand.Rand) *FFNN {
	nn := &FFNN{}
	// Xavier initialization
	scale1 := float32(math.Sqrt(2.0 / float64(NumInputs)))
	scale2 := float32(math.Sqrt(2.0 / float64(NumHidden)))

	for i := range nn.W1 {
		for j := range nn.W1[i] {
			nn.W1[i][j] = float32(rng.NormFloat64()) * scale1
		}
	}
	for i := range nn.W2 {
		for j := range nn.W2[i] {
			nn.W2[i][j] = float32(rng.NormFloat64()) * scale2
		}
	}

	// Brake starts reluctant; the other outputs sit at 0.5.
	nn.B2[3] = -1.0

	return nn
}

// Forward computes the network output. Every output is in [0, 1].
func (nn *FFNN) Forward(inputs [NumInputs]float32) [NumOutputs]float32 {
	var hidden [NumHidden]float32
	for i := 0; i < NumHidden; i++ {
		sum := nn.B1[i]
		for j := 0; j < NumInputs; j++ {
			sum += nn.W1[i][j] * inputs[j]
		}
		hidden[i] = tanh(sum)
	}

	var outputs [NumOutputs]float32
	for i := 0; i < NumOutputs; i++ {
		sum := nn.B2[i]
		for j := 0; j < NumHidden; j++ {
			sum += nn.W2[i][j] * hidden[j]
		}
		outputs[i] = saturate01(sum*0.5 + 0.5)
	}
	return outputs
}

// saturate01 clamps x to [0, 1].
func saturate01(x float32) float32 {
	if x <= 0 {
		return 0
	}
	if x >= 1 {
		return 1
	}
	return x
}

// Mutate perturbs weights and biases with Gaussian noise.
func (nn *FFNN) Mutate(rng *rand.Rand, strength float32) {
	for i := range nn.W1 {
		for j := range nn.W1[i] {
			nn.W1[i][j] += float32(rng.NormFloat64()) * strength
		}
		nn.B1[i] += float32(rng.NormFloat64()) * strength
	}

	for i := range nn.W2 {
		for j := range nn.W2[i] {
			nn.W2[i][j] += float32(rng.NormFloat64()) * strength
		}
		nn.B2[i] += float32(rng.NormFloat64()) * strength
	}
}

// Clone creates a deep copy of the network.
func (nn *FFNN) Clone() *FFNN {
	clone := *nn
	return &clone
}

// tanh uses a fast rational approximation avoiding float64 conversion.
func tanh(x float32) float32 {
	if x > 4 {
		return 1
	}
	if x < -4 {
		return -1
	}
	x2 := x * x
	return x * (27 + x2) / (27 + 9*x2)
}

// Weights holds flattened network weights for serialization.
type Weights struct {
	W1 []float32 `json:"w1"` // [NumHidden * NumInputs]
	B1 []float32 `json:"b1"` // [NumHidden]
	W2 []float32 `json:"w2"` // [NumOutputs * NumHidden]
	B2 []float32 `json:"b2"` // [NumOutputs]
}

// MarshalWeights flattens the network weights for JSON serialization.
func (nn *FFNN) MarshalWeights() Weights {
	w := Weights{
		W1: make([]float32, 0, NumHidden*NumInputs),
		B1: append([]float32(nil), nn.B1[:]...),
		W2: make([]float32, 0, NumOutputs*NumHidden),
		B2: append([]float32(nil), nn.B2[:]...),
	}
	for i := range nn.W1 {
		w.W1 = append(w.W1, nn.W1[i][:]...)
	}
	for i := range nn.W2 {
		w.W2 = append(w.W2, nn.W2[i][:]...)
	}
	return w
}

// UnmarshalWeights restores network weights from flattened form.
// Short slices leave the remaining weights untouched.
func (nn *FFNN) UnmarshalWeights(w Weights) {
	for i := 0; i < NumHidden; i++ {
		for j := 0; j < NumInputs; j++ {
			if k := i*NumInputs + j; k < len(w.W1) {
				nn.W1[i][j] = w.W1[k]
			}
		}
	}
	copy(nn.B1[:], w.B1)

	for i := 0; i < NumOutputs; i++ {
		for j := 0; j < NumHidden; j++ {
			if k := i*NumHidden + j; k < len(w.W2) {
				nn.W2[i][j] = w.W2[k]
			}
		}
	}
	copy(nn.B2[:], w.B2)
}

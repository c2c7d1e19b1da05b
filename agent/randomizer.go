package agent

import (
	"math"
	"math/rand"

	"github.com/PerformLine/go-stockutil/colorutil"
	"github.com/pthm-cable/oids/geometry"
)

// Randomizer draws random shapes and colors for spawn recipes.
type Randomizer struct {
	rng *rand.Rand
}

// NewRandomizer wraps rng.
func NewRandomizer(rng *rand.Rand) *Randomizer {
	return &Randomizer{rng: rng}
}

// Frand returns a float in [min, max).
func (r *Randomizer) Frand(min, max float64) float64 {
	return r.rng.Float64()*(max-min) + min
}

// Irand returns an int in [min, max], both inclusive.
func (r *Randomizer) Irand(min, max int) int {
	return r.rng.Intn(max-min+1) + min
}

func (r *Randomizer) RandomBall() geometry.Shape {
	return geometry.NewBall(r.Frand(1, 2))
}

func (r *Randomizer) RandomBox() geometry.Shape {
	radius := r.Frand(1, 2)
	ratio := r.Frand(1, 2)
	return geometry.NewBox(2*radius*ratio, 2*radius)
}

// RandomVbar returns a thin upright bar.
func (r *Randomizer) RandomVbar() geometry.Shape {
	radius := r.Frand(1, 2)
	ratio := r.Frand(0.1, 0.2)
	return geometry.NewBox(2*radius*ratio, 2*radius)
}

func (r *Randomizer) RandomTriangle() geometry.Shape {
	radius := r.Frand(0.5, 1)
	alpha1 := r.Frand(math.Pi*0.5, math.Pi*0.9)
	alpha2 := math.Pi*1.5 - r.Frand(0, math.Pi)
	return geometry.NewTriangle(radius, alpha1, alpha2)
}

// RandomIsoTriangle returns an isosceles triangle symmetric around +Y.
func (r *Randomizer) RandomIsoTriangle() geometry.Shape {
	radius := r.Frand(0.5, 1)
	alpha1 := r.Frand(math.Pi*0.5, math.Pi*0.9)
	return geometry.NewTriangle(radius, alpha1, 2*math.Pi-alpha1)
}

func (r *Randomizer) RandomEqTriangle() geometry.Shape {
	radius := r.Frand(0.5, 1)
	alpha1 := math.Pi * 2 / 3
	return geometry.NewTriangle(radius, alpha1, 2*math.Pi-alpha1)
}

func (r *Randomizer) RandomStar() geometry.Shape {
	radius := r.Frand(1, 2)
	n := r.Irand(3, 8)
	ratio := r.Frand(0.5, 1)
	return geometry.NewStarWithParams(radius, n, geometry.DefaultStarA, geometry.DefaultStarB, ratio)
}

func (r *Randomizer) RandomPoly(upsideDown bool) geometry.Shape {
	return r.RandomNPoly(r.Irand(3, 8), upsideDown)
}

func (r *Randomizer) RandomNPoly(n int, upsideDown bool) geometry.Shape {
	return geometry.NewPoly(r.Frand(1, 2), n, upsideDown)
}

// RandomHue returns an opaque color of random hue at half saturation and
// half lightness.
func (r *Randomizer) RandomHue() geometry.Rgba {
	// HSL(h, 0.5, 0.5) expressed in HSV.
	red, green, blue := colorutil.HsvToRgb(r.Frand(0, 360), 2.0/3.0, 0.75)
	return rgba8(red, green, blue)
}

// RandomChroma returns a mid-luma color with random blue and red difference.
func (r *Randomizer) RandomChroma() geometry.Rgba {
	return yPbPr(0.5, r.Frand(-0.5, 0.5), r.Frand(-0.5, 0.5))
}

func rgba8(r, g, b uint8) geometry.Rgba {
	return geometry.Rgba{float32(r) / 255, float32(g) / 255, float32(b) / 255, 1}
}

// yPbPr converts BT.601 luma and color difference to clamped RGB.
func yPbPr(y, pb, pr float64) geometry.Rgba {
	red := y + 1.402*pr
	green := y - 0.344136*pb - 0.714136*pr
	blue := y + 1.772*pb
	return geometry.Rgba{clamp01(red), clamp01(green), clamp01(blue), 1}
}

func clamp01(x float64) float32 {
	return float32(math.Max(0, math.Min(1, x)))
}

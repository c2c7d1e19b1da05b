package agent

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pthm-cable/oids/geometry"
)

func TestRandomShapeRanges(t *testing.T) {
	r := NewRandomizer(rand.New(rand.NewSource(3)))

	tests := []struct {
		name   string
		gen    func() geometry.Shape
		kind   geometry.ShapeKind
		radius [2]float64 // nominal radius bounds, inclusive
		check  func(s geometry.Shape) bool
	}{
		{"ball", r.RandomBall, geometry.ShapeBall, [2]float64{1, 2}, nil},
		{"box", r.RandomBox, geometry.ShapeBox, [2]float64{math.Sqrt2, 2 * math.Sqrt(5)},
			func(s geometry.Shape) bool { return s.Width >= s.Height }},
		{"vbar", r.RandomVbar, geometry.ShapeBox, [2]float64{1, 2.1},
			func(s geometry.Shape) bool { return s.Width <= 0.2*s.Height }},
		{"triangle", r.RandomTriangle, geometry.ShapeTriangle, [2]float64{0.5, 1},
			func(s geometry.Shape) bool {
				return s.Alpha1 >= math.Pi*0.5 && s.Alpha1 < math.Pi*0.9 &&
					s.Alpha2 > math.Pi*0.5 && s.Alpha2 <= math.Pi*1.5
			}},
		{"iso triangle", r.RandomIsoTriangle, geometry.ShapeTriangle, [2]float64{0.5, 1},
			func(s geometry.Shape) bool { return math.Abs(s.Alpha1+s.Alpha2-2*math.Pi) < 1e-12 }},
		{"eq triangle", r.RandomEqTriangle, geometry.ShapeTriangle, [2]float64{0.5, 1},
			func(s geometry.Shape) bool {
				return math.Abs(s.Alpha1-2*math.Pi/3) < 1e-12 && math.Abs(s.Alpha2-4*math.Pi/3) < 1e-12
			}},
		{"star", r.RandomStar, geometry.ShapeStar, [2]float64{1, 2},
			func(s geometry.Shape) bool { return s.N >= 3 && s.N <= 8 && s.Ratio >= 0.5 && s.Ratio < 1 }},
		{"poly", func() geometry.Shape { return r.RandomPoly(false) }, geometry.ShapePoly, [2]float64{1, 2},
			func(s geometry.Shape) bool { return s.N >= 3 && s.N <= 8 && !s.UpsideDown }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for range 200 {
				s := tt.gen()
				if s.Kind != tt.kind {
					t.Fatalf("kind = %v, want %v", s.Kind, tt.kind)
				}
				if rad := s.Radius(); rad < tt.radius[0] || rad > tt.radius[1] {
					t.Fatalf("radius %v outside %v", rad, tt.radius)
				}
				if tt.check != nil && !tt.check(s) {
					t.Fatalf("parameters out of range: %+v", s)
				}
				if len(s.Vertices()) != s.Len() {
					t.Fatalf("%d vertices, Len %d", len(s.Vertices()), s.Len())
				}
			}
		})
	}
}

func TestRandomColors(t *testing.T) {
	r := NewRandomizer(rand.New(rand.NewSource(5)))
	for range 100 {
		for _, c := range []geometry.Rgba{r.RandomHue(), r.RandomChroma()} {
			for i, v := range c {
				if v < 0 || v > 1 {
					t.Fatalf("channel %d = %v in %v", i, v, c)
				}
			}
			if c[3] != 1 {
				t.Fatalf("alpha = %v", c[3])
			}
		}
	}
}

package telemetry

import (
	"math"
	"testing"
)

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"empty slice", []float64{}, 0.5, 0},
		{"single element", []float64{5.0}, 0.5, 5.0},
		{"p0", []float64{1, 2, 3, 4, 5}, 0.0, 1.0},
		{"p100", []float64{1, 2, 3, 4, 5}, 1.0, 5.0},
		{"clamped", []float64{1, 2, 3}, 1.5, 3.0},
		{"p50 odd", []float64{1, 2, 3, 4, 5}, 0.5, 2.5},
		{"p50 even", []float64{1, 2, 3, 4}, 0.5, 2.0},
		{"p10", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.1, 1.0},
		{"p35", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.35, 3.5},
		{"p90", []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, 0.9, 9.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Percentile(tt.sorted, tt.p)
			if math.Abs(got-tt.want) > 0.001 {
				t.Errorf("Percentile(%v, %v) = %v, want %v", tt.sorted, tt.p, got, tt.want)
			}
		})
	}
}

func TestComputeChargeStats(t *testing.T) {
	values := []float64{1.0, 0.2, 0.9, 0.4, 0.5, 0.6, 0.7, 0.8, 0.3, 0.1}
	mean, p10, p50, p90 := ComputeChargeStats(values)

	if math.Abs(mean-0.55) > 0.001 {
		t.Errorf("mean = %v, want 0.55", mean)
	}
	if math.Abs(p10-0.1) > 0.01 {
		t.Errorf("p10 = %v, want ~0.1", p10)
	}
	if math.Abs(p50-0.5) > 0.01 {
		t.Errorf("p50 = %v, want ~0.5", p50)
	}
	if math.Abs(p90-0.9) > 0.01 {
		t.Errorf("p90 = %v, want ~0.9", p90)
	}
	if values[0] != 1.0 {
		t.Error("input was sorted in place")
	}
}

func TestComputeChargeStatsEmpty(t *testing.T) {
	mean, p10, p50, p90 := ComputeChargeStats(nil)
	if mean != 0 || p10 != 0 || p50 != 0 || p90 != 0 {
		t.Error("empty slice should return all zeros")
	}
}

func TestLockedFraction(t *testing.T) {
	if f := (WindowStats{}).LockedFraction(); f != 0 {
		t.Errorf("empty window fraction = %v", f)
	}
	if f := (WindowStats{Minions: 8, Locked: 2}).LockedFraction(); f != 0.25 {
		t.Errorf("fraction = %v, want 0.25", f)
	}
}

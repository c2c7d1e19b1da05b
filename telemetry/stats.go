// Package telemetry aggregates per-window simulation stats, tick timing,
// bookmarks and compressed world snapshots.
package telemetry

import (
	"log/slog"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SimTimeSec      float64 `csv:"sim_time"`

	// Population at window end
	Minions         int `csv:"minions"`
	Resources       int `csv:"resources"`
	ActiveResources int `csv:"active_resources"`
	Emitters        int `csv:"emitters"`
	Locked          int `csv:"locked"` // minions holding a target

	// Decisions during window
	Decisions int `csv:"decisions"`
	Skipped   int `csv:"skipped"`
	Acquired  int `csv:"acquired"`
	Dropped   int `csv:"dropped"`
	Fallbacks int `csv:"fallbacks"`

	// Actuator intents during window
	IdleIntents    int `csv:"idle"`
	MoveIntents    int `csv:"move"`
	BrakeIntents   int `csv:"brake"`
	RunAwayIntents int `csv:"run_away"`

	// Segments that reached their target charge and reset
	Fired int `csv:"fired"`

	// Charge distribution (sampled at window end)
	MinionChargeMean float64 `csv:"minion_charge_mean"`
	MinionChargeP10  float64 `csv:"minion_charge_p10"`
	MinionChargeP50  float64 `csv:"minion_charge_p50"`
	MinionChargeP90  float64 `csv:"minion_charge_p90"`

	ResourceChargeMean float64 `csv:"resource_charge_mean"`
}

// Percentile returns the p-th quantile of a sorted slice, interpolating
// the empirical distribution. p is clamped to [0, 1]. Returns 0 if the slice
// is empty.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 || math.IsNaN(p) {
		return 0
	}
	return stat.Quantile(min(max(p, 0), 1), stat.LinInterp, sorted, nil)
}

// ComputeChargeStats calculates mean and percentiles from charge values.
func ComputeChargeStats(values []float64) (mean, p10, p50, p90 float64) {
	n := len(values)
	if n == 0 {
		return 0, 0, 0, 0
	}
	mean = floats.Sum(values) / float64(n)

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	p10 = Percentile(sorted, 0.10)
	p50 = Percentile(sorted, 0.50)
	p90 = Percentile(sorted, 0.90)

	return mean, p10, p50, p90
}

// LockedFraction returns the share of minions holding a target.
func (s WindowStats) LockedFraction() float64 {
	if s.Minions == 0 {
		return 0
	}
	return float64(s.Locked) / float64(s.Minions)
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("sim_time", s.SimTimeSec),
		slog.Int("minions", s.Minions),
		slog.Int("resources", s.Resources),
		slog.Int("active_resources", s.ActiveResources),
		slog.Int("emitters", s.Emitters),
		slog.Int("locked", s.Locked),
		slog.Int("decisions", s.Decisions),
		slog.Int("skipped", s.Skipped),
		slog.Int("acquired", s.Acquired),
		slog.Int("dropped", s.Dropped),
		slog.Int("fallbacks", s.Fallbacks),
		slog.Int("idle", s.IdleIntents),
		slog.Int("move", s.MoveIntents),
		slog.Int("brake", s.BrakeIntents),
		slog.Int("run_away", s.RunAwayIntents),
		slog.Int("fired", s.Fired),
		slog.Float64("minion_charge_mean", s.MinionChargeMean),
		slog.Float64("minion_charge_p10", s.MinionChargeP10),
		slog.Float64("minion_charge_p50", s.MinionChargeP50),
		slog.Float64("minion_charge_p90", s.MinionChargeP90),
		slog.Float64("resource_charge_mean", s.ResourceChargeMean),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}

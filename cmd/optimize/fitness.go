package main

import (
	"log/slog"
	"math"
	"sync"

	"github.com/pthm-cable/oids/config"
	"github.com/pthm-cable/oids/game"
	"github.com/pthm-cable/oids/telemetry"
	"gonum.org/v1/gonum/stat"
)

// FitnessEvaluator runs headless simulations and computes fitness.
type FitnessEvaluator struct {
	params      *ParamVector
	maxTicks    int32
	seeds       []int64
	baseConfig  *config.Config
	statsWindow float64

	// Best run tracking
	mu           sync.Mutex
	bestFitness  float64
	bestSnapshot *telemetry.Snapshot
	lastQuality  float64 // quality from most recent Evaluate call
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, maxTicks int32, seeds []int64, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:      params,
		maxTicks:    maxTicks,
		seeds:       seeds,
		baseConfig:  baseCfg,
		statsWindow: 5.0,
		bestFitness: math.Inf(1),
	}
}

// BestSnapshot returns the final world of the best seed of the best
// evaluation.
func (fe *FitnessEvaluator) BestSnapshot() *telemetry.Snapshot {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.bestSnapshot
}

// LastQuality returns the quality score from the most recent evaluation.
func (fe *FitnessEvaluator) LastQuality() float64 {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastQuality
}

const qualityWarmupWindows = 2 // skip first N windows

// runResult holds the results from a single simulation run.
type runResult struct {
	windowStats []telemetry.WindowStats
	snapshot    *telemetry.Snapshot
}

// seedResult holds the result from one seed evaluation.
type seedResult struct {
	fitness  float64
	quality  float64
	snapshot *telemetry.Snapshot
}

// Evaluate computes fitness for a parameter vector (lower = better).
// Fitness rewards minions that hold on to a resource target, with a bonus
// for doing so steadily.
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]seedResult, len(fe.seeds))
	var wg sync.WaitGroup

	for i, seed := range fe.seeds {
		wg.Add(1)
		go func(idx int, s int64) {
			defer wg.Done()
			r, err := fe.runSimulation(x, s)
			if err != nil {
				slog.Error("run failed", "seed", s, "error", err)
				results[idx] = seedResult{fitness: 0}
				return
			}
			locked, quality := summarize(r.windowStats)
			results[idx] = seedResult{
				fitness:  computeFitness(locked, quality),
				quality:  quality,
				snapshot: r.snapshot,
			}
		}(i, seed)
	}
	wg.Wait()

	var totalFitness, totalQuality float64
	bestSeedFitness := math.Inf(1)
	var bestSeedSnapshot *telemetry.Snapshot
	for _, r := range results {
		totalFitness += r.fitness
		totalQuality += r.quality
		if r.snapshot != nil && r.fitness < bestSeedFitness {
			bestSeedFitness = r.fitness
			bestSeedSnapshot = r.snapshot
		}
	}

	n := float64(len(fe.seeds))
	avgFitness := totalFitness / n

	fe.mu.Lock()
	if avgFitness < fe.bestFitness {
		fe.bestFitness = avgFitness
		fe.bestSnapshot = bestSeedSnapshot
	}
	fe.lastQuality = totalQuality / n
	fe.mu.Unlock()

	return avgFitness
}

// runSimulation executes a single headless run of maxTicks.
func (fe *FitnessEvaluator) runSimulation(x []float64, seed int64) (*runResult, error) {
	cfg := fe.copyConfig()
	fe.params.ApplyToConfig(cfg, x)

	g, err := game.NewGameWithOptions(game.Options{
		Seed:           seed,
		StatsWindowSec: fe.statsWindow,
		Config:         cfg,
	})
	if err != nil {
		return nil, err
	}
	defer g.Unload()

	result := &runResult{}
	g.SetStatsCallback(func(stats telemetry.WindowStats) {
		result.windowStats = append(result.windowStats, stats)
	})
	for g.Tick() < fe.maxTicks {
		g.Step()
	}
	result.snapshot = telemetry.Capture(g.World(), seed, g.Tick())
	return result, nil
}

// copyConfig returns an independent copy of the base config. Config holds
// only values, so a struct copy is deep.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	return &cfg
}

// summarize returns the mean locked fraction after warmup and a steadiness
// score in [0, 1].
func summarize(windows []telemetry.WindowStats) (locked, quality float64) {
	if len(windows) <= qualityWarmupWindows {
		return 0, 0
	}
	valid := windows[qualityWarmupWindows:]

	fractions := make([]float64, 0, len(valid))
	for _, w := range valid {
		if w.Minions == 0 {
			continue
		}
		fractions = append(fractions, w.LockedFraction())
	}
	if len(fractions) == 0 {
		return 0, 0
	}

	mean, std := stat.MeanStdDev(fractions, nil)
	if len(fractions) < 2 || mean == 0 {
		return mean, 0
	}
	cv := std / mean
	return mean, clamp01(math.Exp(-cv * cv))
}

// computeFitness calculates the scalar fitness (lower = better).
// Formula: -(locked × (1 + 0.2 × quality))
func computeFitness(locked, quality float64) float64 {
	return -(locked * (1.0 + 0.2*quality))
}

// clamp01 clamps x to [0, 1].
func clamp01(x float64) float64 {
	return min(max(x, 0), 1)
}

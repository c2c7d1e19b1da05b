// Package main searches behavior and motion parameters with CMA-ES for
// configurations that keep minions locked on to resources.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/oids/config"
	"github.com/pthm-cable/oids/telemetry"
)

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	maxTicks := flag.Int("max-ticks", 3600, "Simulation ticks per run")
	seeds := flag.Int("seeds", 3, "Number of seeds per evaluation")
	maxEvals := flag.Int("max-evals", 200, "Maximum number of evaluations")
	population := flag.Int("population", 0, "CMA-ES population size (0 = auto)")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	if *outputDir == "" {
		fmt.Fprintln(os.Stderr, "--output is required")
		os.Exit(2)
	}
	if err := run(*configPath, *outputDir, *maxTicks, *seeds, *maxEvals, *population); err != nil {
		slog.Error("optimization failed", "error", err)
		os.Exit(1)
	}
}

func run(configPath, outputDir string, maxTicks, seeds, maxEvals, population int) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	baseCfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	params := NewParamVector()
	evalSeeds := make([]int64, seeds)
	for i := range evalSeeds {
		evalSeeds[i] = int64(i*1000 + 42)
	}
	evaluator := NewFitnessEvaluator(params, int32(maxTicks), evalSeeds, baseCfg)

	logFile, err := os.Create(filepath.Join(outputDir, "optimize_log.csv"))
	if err != nil {
		return fmt.Errorf("create log: %w", err)
	}
	defer logFile.Close()
	prog := newProgress(params, logFile, maxEvals)

	if population == 0 {
		population = 4 + 3*params.Dim()/2
	}
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			raw := params.Denormalize(x)
			fitness := evaluator.Evaluate(raw)
			prog.record(params.Clamp(raw), fitness, evaluator.LastQuality())
			return fitness
		},
	}
	settings := &optimize.Settings{
		FuncEvaluations: maxEvals,
		Concurrent:      0, // seeds already run in parallel
	}
	method := &optimize.CmaEsChol{
		InitStepSize: 0.3,
		Population:   population,
	}

	slog.Info("starting CMA-ES",
		"params", params.Dim(),
		"population", population,
		"max_evals", maxEvals,
		"seeds", seeds,
		"ticks", maxTicks,
	)
	initX := params.Normalize(params.ExtractFromConfig(baseCfg))
	result, err := optimize.Minimize(problem, initX, settings, method)
	if err != nil {
		// Hitting the evaluation budget ends the search with an error too.
		slog.Info("optimization ended", "reason", err)
	}
	if prog.best == nil && result != nil {
		prog.best = params.Clamp(params.Denormalize(result.X))
	}
	slog.Info("optimization complete",
		"evals", prog.evals,
		"best_fitness", prog.bestFitness,
		"elapsed", time.Since(prog.start).Round(time.Second).String(),
	)
	if prog.best == nil {
		return nil
	}
	return saveResults(configPath, outputDir, params, prog.best, evaluator.BestSnapshot())
}

// progress logs every evaluation to CSV and stdout and remembers the best.
type progress struct {
	params   *ParamVector
	w        *csv.Writer
	maxEvals int
	start    time.Time

	evals       int
	bestFitness float64
	best        []float64
}

func newProgress(params *ParamVector, f *os.File, maxEvals int) *progress {
	// Columns follow the parameter set, so rows are written untyped.
	w := csv.NewWriter(f)
	header := []string{"eval", "fitness", "quality"}
	for _, spec := range params.Specs {
		header = append(header, spec.Name)
	}
	w.Write(header)
	w.Flush()
	return &progress{
		params:      params,
		w:           w,
		maxEvals:    maxEvals,
		start:       time.Now(),
		bestFitness: 1e9,
	}
}

func (p *progress) record(values []float64, fitness, quality float64) {
	p.evals++
	if fitness < p.bestFitness {
		p.bestFitness = fitness
		p.best = values
	}

	row := []string{strconv.Itoa(p.evals), strconv.FormatFloat(fitness, 'f', 6, 64), strconv.FormatFloat(quality, 'f', 4, 64)}
	for _, v := range values {
		row = append(row, strconv.FormatFloat(v, 'f', 6, 64))
	}
	p.w.Write(row)
	p.w.Flush()

	elapsed := time.Since(p.start)
	eta := time.Duration(p.maxEvals-p.evals) * (elapsed / time.Duration(p.evals))
	// fitness = -(locked × (1 + 0.2×quality))
	locked := -fitness / (1.0 + 0.2*quality)
	fmt.Printf("Eval %d/%d: locked=%.3f quality=%.2f (best=%.4f) | elapsed: %s, ETA: %s\n",
		p.evals, p.maxEvals, locked, quality, p.bestFitness,
		formatDuration(elapsed), formatDuration(eta))
}

// saveResults writes best_config.yaml and the snapshot of the best run.
func saveResults(configPath, outputDir string, params *ParamVector, best []float64, snap *telemetry.Snapshot) error {
	for i, spec := range params.Specs {
		fmt.Printf("  %s (%s): %.6f\n", spec.Name, spec.Path, best[i])
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	params.ApplyToConfig(cfg, best)
	path := filepath.Join(outputDir, "best_config.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		return err
	}
	slog.Info("best config saved", "path", path)

	if snap == nil {
		return nil
	}
	path, err = telemetry.SaveSnapshot(snap, outputDir)
	if err != nil {
		return err
	}
	slog.Info("best run snapshot saved", "path", path)
	return nil
}

// formatDuration renders d as 1h02m03s or 2m03s.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h, m, s := d/time.Hour, (d%time.Hour)/time.Minute, (d%time.Minute)/time.Second
	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}

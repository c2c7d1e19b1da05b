// Package game wires the world, the per-tick systems and telemetry into a
// fixed-timestep headless simulation.
package game

import (
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/pthm-cable/oids/config"
	"github.com/pthm-cable/oids/systems"
	"github.com/pthm-cable/oids/telemetry"
	"github.com/pthm-cable/oids/world"
)

// Physics turns the intents recorded by the behavior stage into motion.
// It runs after decisions and before charge integration.
type Physics interface {
	Apply(w *world.World, dt float64)
}

// Options configure a new game.
type Options struct {
	Seed           int64
	LogStats       bool
	StatsWindowSec float64 // 0 uses the config value
	SnapshotDir    string
	OutputDir      string

	// Config overrides the global config. Runs that share a process, such
	// as optimizer seeds, pass their own copy.
	Config *config.Config

	// Physics replaces the configured stage. Leave nil to use drift when
	// physics.drift is set, or no motion at all.
	Physics Physics
}

// Game holds the complete simulation state.
type Game struct {
	cfg   *config.Config
	world *world.World
	rng   *rand.Rand
	seed  int64
	dt    float64
	tick  int32

	// Systems
	registry *systems.SystemRegistry
	ai       *systems.AiSystem
	charge   *systems.ChargeSystem
	physics  Physics

	// Telemetry
	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	bookmarks     *telemetry.BookmarkDetector
	outputManager *telemetry.OutputManager
	statsCallback func(telemetry.WindowStats)
	snapshotDir   string
	snapshotEvery int
	logStats      bool
}

// NewGameWithOptions creates a game and populates its world. config.Init
// must have been called unless opts.Config is set.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Cfg()
	} else if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	statsWindow := cfg.Telemetry.StatsWindow
	if opts.StatsWindowSec > 0 {
		statsWindow = opts.StatsWindowSec
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	g := &Game{
		cfg:           cfg,
		world:         world.New(rng, worldOptions(cfg)),
		rng:           rng,
		seed:          opts.Seed,
		dt:            cfg.Physics.DT,
		registry:      systems.NewSystemRegistry(),
		ai:            systems.NewAiSystemFromConfig(cfg.AI),
		charge:        systems.NewChargeSystem(),
		physics:       opts.Physics,
		collector:     telemetry.NewCollector(statsWindow, cfg.Physics.DT),
		perfCollector: telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		bookmarks:     telemetry.NewBookmarkDetector(10),
		snapshotDir:   opts.SnapshotDir,
		snapshotEvery: cfg.Telemetry.SnapshotEvery,
		logStats:      opts.LogStats,
	}
	if g.physics == nil && cfg.Physics.Drift {
		g.physics = systems.NewDriftPhysicsFromConfig(cfg.Physics)
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("output: %w", err)
	}
	g.outputManager = om
	if err := om.WriteConfig(cfg); err != nil {
		om.Close()
		return nil, fmt.Errorf("output: %w", err)
	}

	g.spawnInitialPopulation()

	slog.Debug("game created",
		"seed", opts.Seed,
		"minions", g.world.Minions.Len(),
		"resources", g.world.Resources.Len(),
		"beacons", g.world.EmitterCount(),
		"systems", g.registry.IDs(),
	)
	return g, nil
}

// World returns the simulated world.
func (g *Game) World() *world.World { return g.world }

// Tick returns the number of completed steps.
func (g *Game) Tick() int32 { return g.tick }

// Seed returns the seed the game was created with.
func (g *Game) Seed() int64 { return g.seed }

// AI returns the behavior system.
func (g *Game) AI() *systems.AiSystem { return g.ai }

// SetStatsCallback registers fn to receive every flushed stats window.
func (g *Game) SetStatsCallback(fn func(telemetry.WindowStats)) {
	g.statsCallback = fn
}

// Unload releases output files.
func (g *Game) Unload() error {
	return g.outputManager.Close()
}

package game

import (
	"log/slog"
	"math"

	"github.com/aquilax/go-perlin"
	"github.com/pthm-cable/oids/agent"
	"github.com/pthm-cable/oids/components"
	"github.com/pthm-cable/oids/config"
	"github.com/pthm-cable/oids/neural"
	"github.com/pthm-cable/oids/world"
	"gonum.org/v1/gonum/spatial/r2"
)

// worldOptions maps the config onto world and spawn options.
func worldOptions(cfg *config.Config) world.Options {
	return world.Options{
		Extent:      cfg.World.Extent,
		FenceRadius: cfg.World.FenceRadius,
		SpawnCharge: cfg.World.SpawnCharge,
		Flock: agent.Options{
			Tau:             cfg.Charge.Tau,
			MinionDensity:   cfg.Minion.Density,
			ResourceDensity: cfg.Resource.Density,
			Personality:     personalityFactory(cfg.Personality),
		},
	}
}

// personalityFactory selects how spawned minions decide.
func personalityFactory(cfg config.PersonalityConfig) agent.PersonalityFactory {
	ranges := traitRanges(cfg.Traits)
	if cfg.Kind == "reflex" {
		return neural.ReflexFactory(ranges)
	}
	return neural.Factory(ranges)
}

func traitRanges(t config.TraitsConfig) neural.TraitRanges {
	r := func(c config.Range) neural.Range { return neural.Range{Min: c.Min, Max: c.Max} }
	return neural.TraitRanges{
		Hunger:   r(t.Hunger),
		Haste:    r(t.Haste),
		Prudence: r(t.Prudence),
		Fear:     r(t.Fear),
		Rest:     r(t.Rest),
		Thrust:   r(t.Thrust),
	}
}

// ring returns n points evenly spaced on a circle of radius r.
func ring(n int, r float64) []r2.Vec {
	out := make([]r2.Vec, n)
	for i := range out {
		theta := 2 * math.Pi * float64(i) / float64(n)
		out[i] = r2.Vec{X: r * math.Cos(theta), Y: r * math.Sin(theta)}
	}
	return out
}

// spawnInitialPopulation places beacons and minions on their rings and
// scatters resources over the noisy parts of the arena.
func (g *Game) spawnInitialPopulation() {
	cfg := g.cfg.Population

	for i, p := range ring(cfg.Beacons, cfg.BeaconRing) {
		kind := components.EmitterLight
		if i%2 == 1 {
			kind = components.EmitterScent
		}
		g.world.NewEmitter(p, components.Emitter{Kind: kind, Radius: 10, Intensity: 1})
	}

	for _, p := range ring(cfg.Minions, cfg.MinionRing) {
		g.world.NewMinion(p)
	}

	placed := g.scatterResources(cfg.Resources, cfg.Noise)
	if placed < cfg.Resources {
		slog.Debug("resource scatter fell short", "placed", placed, "wanted", cfg.Resources)
	}
}

// scatterResources tries to place n resources inside the fence where
// Perlin noise exceeds the threshold. It returns how many were placed.
func (g *Game) scatterResources(n int, nc config.NoiseConfig) int {
	noise := perlin.NewPerlin(nc.Alpha, nc.Beta, nc.Octaves, g.seed)
	fence := g.world.Fence.Shape.Radius()

	placed := 0
	for i := 0; i < n; i++ {
		for attempt := 0; attempt < nc.Attempts; attempt++ {
			// Uniform over the disk.
			r := fence * math.Sqrt(g.rng.Float64())
			theta := 2 * math.Pi * g.rng.Float64()
			p := r2.Vec{X: r * math.Cos(theta), Y: r * math.Sin(theta)}
			if noise.Noise2D(p.X/nc.Scale, p.Y/nc.Scale) > nc.Threshold && g.world.InsideFence(p) {
				g.world.NewResource(p)
				placed++
				break
			}
		}
	}
	return placed
}

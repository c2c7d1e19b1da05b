package telemetry

import (
	"github.com/pthm-cable/oids/agent"
	"github.com/pthm-cable/oids/systems"
	"github.com/pthm-cable/oids/world"
)

// Collector accumulates per-tick counters within time windows and produces
// WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float64

	windowStartTick int32

	ai    systems.AiStats
	fired int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec, dt float64) *Collector {
	ticksPerWindow := int32(windowDurationSec/dt + 0.5)
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// RecordAi adds the counters of one decision pass.
func (c *Collector) RecordAi(s systems.AiStats) {
	c.ai.Decided += s.Decided
	c.ai.Skipped += s.Skipped
	c.ai.Acquired += s.Acquired
	c.ai.Dropped += s.Dropped
	c.ai.Fallbacks += s.Fallbacks
	for i, n := range s.Intents {
		c.ai.Intents[i] += n
	}
}

// RecordCharge adds the counters of one charge pass.
func (c *Collector) RecordCharge(s systems.ChargeStats) {
	c.fired += s.Fired
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush samples w, produces a WindowStats and resets counters for the next
// window.
func (c *Collector) Flush(currentTick int32, w *world.World) WindowStats {
	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * c.dt,

		Minions:   w.Minions.Len(),
		Resources: w.Resources.Len(),
		Emitters:  w.EmitterCount(),

		Decisions: c.ai.Decided,
		Skipped:   c.ai.Skipped,
		Acquired:  c.ai.Acquired,
		Dropped:   c.ai.Dropped,
		Fallbacks: c.ai.Fallbacks,

		IdleIntents:    c.ai.Intents[agent.IntentIdle],
		MoveIntents:    c.ai.Intents[agent.IntentMove],
		BrakeIntents:   c.ai.Intents[agent.IntentBrake],
		RunAwayIntents: c.ai.Intents[agent.IntentRunAway],

		Fired: c.fired,
	}

	var minionCharges, resourceCharges []float64
	for _, a := range w.Minions.All() {
		if _, ok := a.State.Target(); ok {
			stats.Locked++
		}
		for _, seg := range a.Segments() {
			minionCharges = append(minionCharges, seg.State.Charge())
		}
	}
	for _, a := range w.Resources.All() {
		if a.State.IsActive() {
			stats.ActiveResources++
		}
		for _, seg := range a.Segments() {
			resourceCharges = append(resourceCharges, seg.State.Charge())
		}
	}
	stats.MinionChargeMean, stats.MinionChargeP10, stats.MinionChargeP50, stats.MinionChargeP90 = ComputeChargeStats(minionCharges)
	stats.ResourceChargeMean, _, _, _ = ComputeChargeStats(resourceCharges)

	// Reset for next window
	c.windowStartTick = currentTick
	c.ai = systems.AiStats{}
	c.fired = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}

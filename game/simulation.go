package game

import (
	"github.com/pthm-cable/oids/telemetry"
)

// Step advances the simulation by one fixed timestep.
func (g *Game) Step() {
	g.perfCollector.StartTick()

	// Decisions read only this snapshot, never another agent's update.
	g.perfCollector.StartPhase(telemetry.PhaseSnapshot)
	g.ai.FromWorld(g.world)

	g.perfCollector.StartPhase(telemetry.PhaseDecide)
	g.ai.ToWorld(g.world)
	g.collector.RecordAi(g.ai.Stats())

	// Touches live from one physics pass to the next decision.
	g.perfCollector.StartPhase(telemetry.PhasePhysics)
	g.world.ClearTouches()
	if g.physics != nil {
		g.physics.Apply(g.world, g.dt)
	}

	g.perfCollector.StartPhase(telemetry.PhaseCharge)
	g.charge.Update(g.world, g.dt)
	g.collector.RecordCharge(g.charge.Stats())

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.tick++
	if g.collector.ShouldFlush(g.tick) {
		g.flushTelemetry()
	}
	if g.snapshotEvery > 0 && g.snapshotDir != "" && g.tick%int32(g.snapshotEvery) == 0 {
		g.saveSnapshot(nil)
	}

	g.perfCollector.EndTick()
}

// Run steps the simulation n times.
func (g *Game) Run(n int) {
	for i := 0; i < n; i++ {
		g.Step()
	}
}

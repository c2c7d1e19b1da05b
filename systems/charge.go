package systems

import (
	"github.com/pthm-cable/oids/world"
)

// ChargeStats summarizes the charge of all segments after an update.
type ChargeStats struct {
	Segments   int
	MeanCharge float64
	Fired      int // segments that reached their target and reset
}

// ChargeSystem integrates the charge of every segment of every agent.
type ChargeSystem struct {
	stats ChargeStats
}

// NewChargeSystem creates a charge system.
func NewChargeSystem() *ChargeSystem {
	return &ChargeSystem{}
}

// Update advances every segment by dt seconds.
func (s *ChargeSystem) Update(w *world.World, dt float64) {
	s.stats = ChargeStats{}
	var total float64
	for _, f := range w.Flocks() {
		for _, a := range f.All() {
			s.stats.Fired += a.Update(dt)
			for _, seg := range a.Segments() {
				total += seg.State.Charge()
			}
			s.stats.Segments += len(a.Segments())
		}
	}
	if s.stats.Segments > 0 {
		s.stats.MeanCharge = total / float64(s.stats.Segments)
	}
}

// Stats returns the summary of the last update.
func (s *ChargeSystem) Stats() ChargeStats { return s.stats }

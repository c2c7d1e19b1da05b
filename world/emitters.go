package world

import (
	"github.com/mlange-42/ark/ecs"
	"github.com/pthm-cable/oids/components"
	"gonum.org/v1/gonum/spatial/r2"
)

// NewEmitter places a fixed emitter.
func (w *World) NewEmitter(pos r2.Vec, e components.Emitter) ecs.Entity {
	p := components.NewPosition(pos)
	return w.emitterMap.NewEntity(&p, &e)
}

// RemoveEmitter deletes an emitter. It reports false if it was already gone.
func (w *World) RemoveEmitter(e ecs.Entity) bool {
	if !w.ecs.Alive(e) {
		return false
	}
	w.ecs.RemoveEntity(e)
	return true
}

// Emitter returns the components of a live emitter.
func (w *World) Emitter(e ecs.Entity) (*components.Position, *components.Emitter, bool) {
	if !w.ecs.Alive(e) {
		return nil, nil, false
	}
	p, em := w.emitterMap.Get(e)
	return p, em, true
}

// Emitters returns the positions of every emitter in query order.
func (w *World) Emitters() []r2.Vec {
	var out []r2.Vec
	query := w.emitterFilter.Query()
	for query.Next() {
		pos, _ := query.Get()
		out = append(out, pos.Vec())
	}
	return out
}

// EmitterCount returns the number of live emitters.
func (w *World) EmitterCount() int {
	n := 0
	query := w.emitterFilter.Query()
	for query.Next() {
		n++
	}
	return n
}

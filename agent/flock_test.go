package agent

import (
	"math/rand"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func newTestFlock(kind Kind) *Flock {
	return NewFlock(kind, rand.New(rand.NewSource(1)), DefaultOptions())
}

func TestFlockIDsAreMonotonic(t *testing.T) {
	f := newTestFlock(KindResource)
	var last ID
	for i := 0; i < 10; i++ {
		id := f.NewResource(r2.Vec{X: float64(i)}, 0.3)
		if id <= last {
			t.Fatalf("id %d not above %d", id, last)
		}
		last = id
	}
	f.Kill(last)
	if id := f.NewResource(r2.Vec{}, 0.3); id <= last {
		t.Errorf("id %d reused after kill", id)
	}
	if f.Len() != 10 {
		t.Errorf("Len() = %d, want 10", f.Len())
	}
}

func TestFlockGetKill(t *testing.T) {
	f := newTestFlock(KindMinion)
	id := f.NewMinion(r2.Vec{X: 5, Y: 5}, 0.3)
	a, ok := f.Get(id)
	if !ok || a.ID() != id || a.Kind() != KindMinion {
		t.Fatalf("Get(%d) = %v, %v", id, a, ok)
	}
	f.Kill(id)
	if _, ok := f.Get(id); ok {
		t.Error("agent still present after Kill")
	}
	f.Kill(id)
	f.Kill(12345)
	if f.Len() != 0 {
		t.Errorf("Len() = %d", f.Len())
	}
}

func TestFlockAllAscending(t *testing.T) {
	f := newTestFlock(KindResource)
	for i := 0; i < 20; i++ {
		f.NewResource(r2.Vec{}, 0.3)
	}
	f.Kill(3)
	f.Kill(11)

	var prev ID
	n := 0
	for id, a := range f.All() {
		if id <= prev || a.ID() != id {
			t.Fatalf("out of order: %d after %d", id, prev)
		}
		prev = id
		n++
	}
	if n != 18 {
		t.Errorf("visited %d agents, want 18", n)
	}
}

func TestFlockAllAllowsKill(t *testing.T) {
	f := newTestFlock(KindResource)
	for i := 0; i < 5; i++ {
		f.NewResource(r2.Vec{}, 0.3)
	}
	for id := range f.All() {
		if id%2 == 0 {
			f.Kill(id)
		}
	}
	if f.Len() != 3 {
		t.Errorf("Len() = %d, want 3", f.Len())
	}
}

func TestNewResource(t *testing.T) {
	f := newTestFlock(KindResource)
	id := f.NewResource(r2.Vec{X: 1, Y: 2}, 0.3)
	a, _ := f.Get(id)
	if len(a.Segments()) != 1 {
		t.Fatalf("resource has %d segments", len(a.Segments()))
	}
	s := a.Segment(0)
	if s.State.Charge() != 0.3 || s.State.TargetCharge() != 0 || s.State.Recharge() != 0.3 {
		t.Errorf("resource charge state %v/%v/%v", s.State.Charge(), s.State.TargetCharge(), s.State.Recharge())
	}
	if s.Material.Density != 1 {
		t.Errorf("density = %v", s.Material.Density)
	}
	if !a.State.IsActive() {
		t.Error("new resource should be active")
	}
	if a.Kind() != KindResource {
		t.Errorf("kind = %v", a.Kind())
	}
}

func TestMinionPersonalityFactory(t *testing.T) {
	want := Fixed{T: Traits{Hunger: 0.3}}
	opts := DefaultOptions()
	opts.Personality = func(*rand.Rand) Personality { return want }
	f := NewFlock(KindMinion, rand.New(rand.NewSource(2)), opts)
	a, _ := f.Get(f.NewMinion(r2.Vec{X: 10}, 0.3))
	if a.Personality() != Personality(want) {
		t.Errorf("personality = %v", a.Personality())
	}

	g := newTestFlock(KindMinion)
	b, _ := g.Get(g.NewMinion(r2.Vec{X: 10}, 0.3))
	if b.Personality() == nil {
		t.Error("default personality is nil")
	}
}

func TestMinionDeterministicForSeed(t *testing.T) {
	build := func() *Agent {
		f := NewFlock(KindMinion, rand.New(rand.NewSource(99)), DefaultOptions())
		a, _ := f.Get(f.NewMinion(r2.Vec{X: 3, Y: -4}, 0.3))
		return a
	}
	a, b := build(), build()
	if len(a.Segments()) != len(b.Segments()) {
		t.Fatal("segment counts differ")
	}
	for i := range a.Segments() {
		if a.Segment(i).Position() != b.Segment(i).Position() || a.Segment(i).Flags != b.Segment(i).Flags {
			t.Fatalf("segment %d differs", i)
		}
	}
}

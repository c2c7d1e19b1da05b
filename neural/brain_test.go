package neural

import (
	"math/rand"
	"testing"

	"github.com/pthm-cable/oids/agent"
)

func TestTraitRangesSample(t *testing.T) {
	ranges := DefaultTraitRanges()
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 100; i++ {
		tr := ranges.Sample(rng)
		checks := []struct {
			name string
			v    float64
			r    Range
		}{
			{"hunger", tr.Hunger, ranges.Hunger},
			{"haste", tr.Haste, ranges.Haste},
			{"prudence", tr.Prudence, ranges.Prudence},
			{"fear", tr.Fear, ranges.Fear},
			{"rest", tr.Rest, ranges.Rest},
			{"thrust", tr.Thrust, ranges.Thrust},
		}
		for _, c := range checks {
			if c.v < c.r.Min || c.v > c.r.Max {
				t.Fatalf("%s = %v outside [%v, %v]", c.name, c.v, c.r.Min, c.r.Max)
			}
		}
	}
}

func TestBrainResponseRange(t *testing.T) {
	b := NewBrain(rand.New(rand.NewSource(5)), DefaultTraitRanges())
	r := b.Response(agent.Features{3.14, 12, -7, 0})
	for i, v := range r {
		if v < 0 || v > 1 {
			t.Errorf("response %d = %v", i, v)
		}
	}
}

func TestBrainCloneIndependent(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	b := NewBrain(rng, DefaultTraitRanges())
	c := b.Clone()
	c.Mutate(rng, 0.5)
	if b.Net.W2 == c.Net.W2 {
		t.Error("mutating the clone left it identical")
	}
	if b.Traits() != c.Traits() {
		t.Error("clone changed traits")
	}
}

func TestFactories(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	if _, ok := Factory(DefaultTraitRanges())(rng).(*Brain); !ok {
		t.Error("Factory did not build a Brain")
	}
	if _, ok := ReflexFactory(DefaultTraitRanges())(rng).(Reflex); !ok {
		t.Error("ReflexFactory did not build a Reflex")
	}
}

func TestReflexResponse(t *testing.T) {
	r := NewReflex(agent.Traits{})
	tests := []struct {
		name          string
		along, across float64
		want          agent.Response
	}{
		{"ahead", 5, 0, agent.Response{0, 0, 1, 0}},
		{"behind", -5, 0, agent.Response{0, 0, 0, 1}},
		{"positive side", 0, 2, agent.Response{1, 0, 0, 0}},
		{"negative side", 0, -2, agent.Response{0, 1, 0, 0}},
		{"on top", 0, 0, agent.Response{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Response(agent.Features{0, tt.along, tt.across, 0})
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

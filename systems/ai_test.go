package systems

import (
	"math"
	"math/rand"
	"testing"

	"github.com/pthm-cable/oids/agent"
	"github.com/pthm-cable/oids/components"
	"github.com/pthm-cable/oids/geometry"
	"github.com/pthm-cable/oids/traits"
	"github.com/pthm-cable/oids/world"
	"gonum.org/v1/gonum/spatial/r2"
)

// recorder is a fixed personality that remembers the last features it saw.
type recorder struct {
	agent.Fixed
	got agent.Features
}

func (r *recorder) Response(f agent.Features) agent.Response {
	r.got = f
	return r.Out
}

var testTraits = agent.Traits{Hunger: 0.5, Haste: 0.5, Prudence: 0.5, Fear: 2, Rest: 0.1, Thrust: 0.9}

// Segment indices of testMinion.
const (
	segTorso = iota
	segSensor
	segLeftRudder
	segRightRudder
	segThruster
	segBrake
)

// testMinion builds a minion at the origin with a radius-2 sensor (radar 20
// at the default multiplier) and one actuator of each kind.
func testMinion(p agent.Personality) *agent.Agent {
	state := agent.NewState(0.5, 0.5, 0.5, 2)
	b := agent.NewBuilder(1, agent.KindMinion, geometry.DefaultMaterial(), geometry.Livery{}, state).WithPersonality(p)
	torso := b.Start(r2.Vec{}, 0, geometry.NewBall(1)).Index()
	b.Add(torso, 0, geometry.NewBall(2), traits.Head|traits.Sensor).
		AddLeft(torso, 0, geometry.NewBall(1), traits.Arm|traits.Rudder).
		AddRight(torso, 0, geometry.NewBall(1), traits.Arm|traits.Rudder).
		Add(torso, 0, geometry.NewBall(1), traits.Leg|traits.Thruster).
		Add(torso, 0, geometry.NewBall(1), traits.Tail|traits.Brake)
	return b.Build()
}

func nearVec(a, b r2.Vec) bool {
	return r2.Norm(r2.Sub(a, b)) < 1e-9
}

func TestTargetAcquireThenFallback(t *testing.T) {
	ai := NewAiSystem(10, 100)
	a := testMinion(agent.Fixed{T: testTraits})
	beacons := []r2.Vec{{X: 0, Y: 0}}

	ai.Decide(a, NewSnapshot(beacons, map[agent.ID]r2.Vec{7: {X: 5, Y: 5}}))
	id, ok := a.State.Target()
	if !ok || id != 7 {
		t.Fatalf("target = %d, %v; want 7", id, ok)
	}
	if a.State.TargetPosition() != (r2.Vec{X: 5, Y: 5}) {
		t.Errorf("target position = %v", a.State.TargetPosition())
	}

	ai.Decide(a, NewSnapshot(beacons, map[agent.ID]r2.Vec{}))
	if _, ok := a.State.Target(); ok {
		t.Error("stale target kept")
	}
	if a.State.TargetPosition() != (r2.Vec{}) {
		t.Errorf("fallback position = %v, want beacon (0,0)", a.State.TargetPosition())
	}
}

func TestTargetFollowsMovingTarget(t *testing.T) {
	ai := NewAiSystem(10, 100)
	a := testMinion(agent.Fixed{T: testTraits})
	ai.Decide(a, NewSnapshot(nil, map[agent.ID]r2.Vec{3: {X: 1, Y: 1}}))
	// Once locked the target is kept even beyond radar range.
	ai.Decide(a, NewSnapshot(nil, map[agent.ID]r2.Vec{3: {X: 400, Y: 0}, 1: {X: 2, Y: 2}}))
	if id, _ := a.State.Target(); id != 3 || a.State.TargetPosition() != (r2.Vec{X: 400}) {
		t.Errorf("target = %d at %v", id, a.State.TargetPosition())
	}
}

func TestTargetSearchOrder(t *testing.T) {
	ai := NewAiSystem(10, 100)
	a := testMinion(agent.Fixed{T: testTraits})
	targets := map[agent.ID]r2.Vec{9: {X: 1}, 4: {X: 2}, 12: {X: 3}, 2: {X: 500}}
	ai.Decide(a, NewSnapshot(nil, targets))
	if id, _ := a.State.Target(); id != 4 {
		t.Errorf("locked %d, want lowest in-range id 4", id)
	}
}

func TestSnapshotFarTargets(t *testing.T) {
	tests := []struct {
		name string
		far  float64
	}{
		{"1e5", 1e5},
		{"1e9", 1e9},
		{"infinite", math.Inf(1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			targets := map[agent.ID]r2.Vec{
				5: {X: 1, Y: 1},
				2: {X: tt.far, Y: tt.far},
				3: {X: -2, Y: 0},
			}
			snap := NewSnapshot(nil, targets)
			if snap.grid != nil && snap.grid.Cells() > minGridCells {
				t.Errorf("grid has %d cells for %d targets", snap.grid.Cells(), len(targets))
			}

			ai := NewAiSystem(10, 100)
			a := testMinion(agent.Fixed{T: testTraits})
			ai.Decide(a, snap)
			if id, _ := a.State.Target(); id != 3 {
				t.Errorf("locked %d, want lowest in-range id 3", id)
			}
		})
	}
}

func TestFallbackOutOfRadar(t *testing.T) {
	tests := []struct {
		name    string
		beacons []r2.Vec
		want    r2.Vec
	}{
		{"nearest", []r2.Vec{{X: 50}, {Y: 40}, {X: -60}}, r2.Vec{Y: 40}},
		{"first on tie", []r2.Vec{{X: 10}, {Y: 10}, {X: -10}}, r2.Vec{X: 10}},
		{"no beacons", nil, r2.Vec{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ai := NewAiSystem(10, 100)
			a := testMinion(agent.Fixed{T: testTraits})
			ai.Decide(a, NewSnapshot(tt.beacons, map[agent.ID]r2.Vec{1: {X: 300, Y: 300}}))
			if _, ok := a.State.Target(); ok {
				t.Error("locked a target outside radar")
			}
			if a.State.TargetPosition() != tt.want {
				t.Errorf("position = %v, want %v", a.State.TargetPosition(), tt.want)
			}
			if ai.Stats().Fallbacks != 1 {
				t.Errorf("fallbacks = %d", ai.Stats().Fallbacks)
			}
		})
	}
}

func TestSensingFeatures(t *testing.T) {
	ai := NewAiSystem(10, 100)
	rec := &recorder{Fixed: agent.Fixed{T: testTraits}}
	a := testMinion(rec)

	// Sensor sits at (0,3) facing Pi, so its forward (0,-1) maps to (0,1).
	ai.Decide(a, NewSnapshot(nil, map[agent.ID]r2.Vec{7: {X: 5, Y: 5}}))
	want := agent.Features{2 * math.Pi, 2, 5, 0}
	for i := range want {
		if math.Abs(rec.got[i]-want[i]) > 1e-9 {
			t.Errorf("feature %d = %v, want %v", i, rec.got[i], want[i])
		}
	}

	// Far targets are clamped to radar range.
	a.State.Retarget(7, r2.Vec{X: 100, Y: 3})
	ai.Decide(a, NewSnapshot(nil, map[agent.ID]r2.Vec{7: {X: 100, Y: 3}}))
	if math.Abs(rec.got[2]-20) > 1e-9 || math.Abs(rec.got[1]) > 1e-9 {
		t.Errorf("clamped features = %v, want across 20", rec.got)
	}
}

func TestIntentPriority(t *testing.T) {
	tests := []struct {
		name     string
		response agent.Response
		want     map[int]agent.IntentKind
	}{
		{
			name:     "all above threshold",
			response: agent.Response{1, 1, 1, 1},
			want: map[int]agent.IntentKind{
				segLeftRudder: agent.IntentMove, segRightRudder: agent.IntentMove,
				segThruster: agent.IntentMove, segBrake: agent.IntentBrake,
			},
		},
		{
			name:     "all below threshold",
			response: agent.Response{0, 0, 0, 0},
			want: map[int]agent.IntentKind{
				segLeftRudder: agent.IntentIdle, segRightRudder: agent.IntentIdle,
				segThruster: agent.IntentIdle, segBrake: agent.IntentIdle,
			},
		},
		{
			name:     "at threshold is idle",
			response: agent.Response{0.5, 0.5, 0.5, 0.5},
			want: map[int]agent.IntentKind{
				segLeftRudder: agent.IntentIdle, segRightRudder: agent.IntentIdle,
				segThruster: agent.IntentIdle, segBrake: agent.IntentIdle,
			},
		},
		{
			name:     "responses routed per side",
			response: agent.Response{0.9, 0, 0, 0.9},
			want: map[int]agent.IntentKind{
				segLeftRudder: agent.IntentMove, segRightRudder: agent.IntentIdle,
				segThruster: agent.IntentIdle, segBrake: agent.IntentBrake,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ai := NewAiSystem(10, 100)
			a := testMinion(agent.Fixed{Out: tt.response, T: testTraits})
			ai.Decide(a, NewSnapshot(nil, nil))
			for i, kind := range tt.want {
				s := a.Segment(i)
				if s.State.Intent.Kind != kind {
					t.Errorf("segment %d: intent %v, want %v", i, s.State.Intent.Kind, kind)
				}
				wantTarget := testTraits.Thrust
				if kind == agent.IntentIdle {
					wantTarget = testTraits.Rest
				}
				if s.State.TargetCharge() != wantTarget {
					t.Errorf("segment %d: target charge %v, want %v", i, s.State.TargetCharge(), wantTarget)
				}
			}
			if a.Segment(segSensor).State.TargetCharge() != 0.5 {
				t.Error("non-actuator segment was driven")
			}
		})
	}
}

func TestIntentForces(t *testing.T) {
	ai := NewAiSystem(10, 100)
	a := testMinion(agent.Fixed{Out: agent.Response{1, 1, 1, 1}, T: testTraits})
	ai.Decide(a, NewSnapshot(nil, nil))

	// Every actuator hangs below the torso facing Pi, so its heading is
	// (0,-1) and f = (0,-1) * 0.5 * 1 * 100.
	f := r2.Vec{Y: -50}
	tests := []struct {
		seg  int
		want r2.Vec
	}{
		{segLeftRudder, r2.Scale(-1, f)},
		{segRightRudder, r2.Scale(-1, f)},
		{segThruster, f},
		{segBrake, r2.Scale(-1, f)},
	}
	for _, tt := range tests {
		if got := a.Segment(tt.seg).State.Intent.Force; !nearVec(got, tt.want) {
			t.Errorf("segment %d force = %v, want %v", tt.seg, got, tt.want)
		}
	}

	// Both rudders push the same way.
	l := a.Segment(segLeftRudder).State.Intent.Force
	r := a.Segment(segRightRudder).State.Intent.Force
	if !nearVec(l, r) {
		t.Errorf("rudder forces differ: %v vs %v", l, r)
	}
}

func TestEvasionPreemptsThresholds(t *testing.T) {
	responses := []agent.Response{{0, 0, 0, 0}, {1, 1, 1, 1}, {1, 0, 1, 0}}
	for _, kind := range []agent.Kind{agent.KindMinion, agent.KindEnemy, agent.KindPlayer} {
		for _, resp := range responses {
			ai := NewAiSystem(10, 100)
			a := testMinion(agent.Fixed{Out: resp, T: testTraits})
			for _, i := range []int{segLeftRudder, segRightRudder, segThruster, segBrake} {
				a.Segment(i).State.LastTouched = &agent.Ref{ID: 5, Kind: kind}
			}
			ai.Decide(a, NewSnapshot(nil, nil))
			for _, i := range []int{segLeftRudder, segRightRudder, segThruster, segBrake} {
				s := a.Segment(i)
				if s.State.Intent.Kind != agent.IntentRunAway {
					t.Errorf("%v touch, response %v: segment %d intent %v", kind, resp, i, s.State.Intent.Kind)
				}
				if s.State.Charge() != testTraits.Thrust {
					t.Errorf("segment %d charge %v, want forced %v", i, s.State.Charge(), testTraits.Thrust)
				}
				want := r2.Vec{Y: -50 * testTraits.Fear}
				if !nearVec(s.State.Intent.Force, want) {
					t.Errorf("segment %d run-away force %v, want %v", i, s.State.Intent.Force, want)
				}
			}
		}
	}
}

func TestResourceTouchIdles(t *testing.T) {
	ai := NewAiSystem(10, 100)
	a := testMinion(agent.Fixed{Out: agent.Response{1, 1, 1, 1}, T: testTraits})
	a.Segment(segThruster).State.LastTouched = &agent.Ref{ID: 1, Kind: agent.KindResource}
	ai.Decide(a, NewSnapshot(nil, nil))

	s := a.Segment(segThruster)
	if s.State.Intent.Kind != agent.IntentIdle || s.State.TargetCharge() != testTraits.Rest {
		t.Errorf("intent %v target %v", s.State.Intent.Kind, s.State.TargetCharge())
	}
	if a.Segment(segBrake).State.Intent.Kind != agent.IntentBrake {
		t.Error("untouched segment affected")
	}
}

func TestNoSensorSkipped(t *testing.T) {
	ai := NewAiSystem(10, 100)
	b := agent.NewBuilder(1, agent.KindMinion, geometry.DefaultMaterial(), geometry.Livery{}, agent.NewState(0.5, 0.5, 0.5, 2)).
		WithPersonality(agent.Fixed{Out: agent.Response{1, 1, 1, 1}, T: testTraits})
	b.Start(r2.Vec{}, 0, geometry.NewBall(1)).Add(0, 0, geometry.NewBall(1), traits.Thruster)
	a := b.Build()

	if ai.Decide(a, NewSnapshot([]r2.Vec{{X: 9}}, map[agent.ID]r2.Vec{1: {}})) {
		t.Error("Decide reported success without a sensor")
	}
	s := a.Segment(1)
	if s.State.Intent.Kind != agent.IntentIdle || s.State.TargetCharge() != 0.5 {
		t.Error("skipped agent was modified")
	}
	if _, ok := a.State.Target(); ok {
		t.Error("skipped agent acquired a target")
	}
	if ai.Stats().Skipped != 1 || ai.Stats().Decided != 0 {
		t.Errorf("stats = %+v", ai.Stats())
	}
}

func TestFromWorldToWorld(t *testing.T) {
	w := world.New(rand.New(rand.NewSource(4)), world.DefaultOptions())
	w.NewEmitter(r2.Vec{X: 100}, components.Emitter{})
	w.NewEmitter(r2.Vec{X: -100}, components.Emitter{})
	live := w.NewResource(r2.Vec{X: 10})
	dead := w.NewResource(r2.Vec{X: 20})
	d, _ := w.Resources.Get(dead)
	d.State.SetActive(false)
	for i := 0; i < 3; i++ {
		w.NewMinion(r2.Vec{X: float64(i * 50), Y: 30})
	}

	ai := NewAiSystem(10, 100)
	ai.FromWorld(w)
	snap := ai.Snapshot()
	if len(snap.Beacons) != 2 || snap.Len() != 1 {
		t.Fatalf("snapshot has %d beacons and %d targets", len(snap.Beacons), snap.Len())
	}
	if _, ok := snap.Target(live); !ok {
		t.Error("active resource missing from snapshot")
	}
	if _, ok := snap.Target(dead); ok {
		t.Error("inactive resource in snapshot")
	}

	ai.ToWorld(w)
	st := ai.Stats()
	if st.Decided != 3 {
		t.Errorf("decided %d minions, want 3", st.Decided)
	}
	total := 0
	for _, n := range st.Intents {
		total += n
	}
	if total == 0 || st.Intents[agent.IntentIdle] != total {
		t.Errorf("inert minions should idle every actuator: %+v", st)
	}
}

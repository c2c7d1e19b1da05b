package telemetry

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/pthm-cable/oids/agent"
	"github.com/pthm-cable/oids/neural"
	"github.com/pthm-cable/oids/traits"
	"github.com/pthm-cable/oids/world"
	"gonum.org/v1/gonum/spatial/r2"
)

// SnapshotVersion is incremented when the format changes.
const SnapshotVersion = 1

// Snapshot is the full state of the agents and emitters at one tick.
type Snapshot struct {
	Version int   `json:"version"`
	Seed    int64 `json:"seed"`
	Tick    int32 `json:"tick"`

	Extent      float64 `json:"extent"`
	FenceRadius float64 `json:"fence_radius"`

	Emitters []r2.Vec     `json:"emitters"`
	Agents   []AgentState `json:"agents"`
	Bookmark *Bookmark    `json:"bookmark,omitempty"`
}

// AgentState holds one agent's state.
type AgentState struct {
	ID             agent.ID        `json:"id"`
	Kind           string          `json:"kind"`
	Target         agent.ID        `json:"target,omitempty"`
	TargetPosition r2.Vec          `json:"target_position"`
	Active         bool            `json:"active"`
	Traits         *agent.Traits   `json:"traits,omitempty"`
	Brain          *neural.Weights `json:"brain,omitempty"`
	Segments       []SegmentState  `json:"segments"`
}

// SegmentState holds one segment's state.
type SegmentState struct {
	Parent       int        `json:"parent"` // -1 for the root
	Vertex       int        `json:"vertex"`
	Shape        string     `json:"shape"`
	Radius       float64    `json:"radius"`
	Position     r2.Vec     `json:"position"`
	Angle        float64    `json:"angle"`
	Flags        traits.Set `json:"flags"`
	Charge       float64    `json:"charge"`
	TargetCharge float64    `json:"target_charge"`
	Intent       string     `json:"intent"`
	Force        r2.Vec     `json:"force"`
}

// Capture records the current state of w.
func Capture(w *world.World, seed int64, tick int32) *Snapshot {
	s := &Snapshot{
		Version:     SnapshotVersion,
		Seed:        seed,
		Tick:        tick,
		Extent:      w.Extent.Max.X,
		FenceRadius: w.Fence.Shape.Radius(),
		Emitters:    w.Emitters(),
	}
	for _, f := range w.Flocks() {
		for _, a := range f.All() {
			s.Agents = append(s.Agents, captureAgent(a))
		}
	}
	return s
}

func captureAgent(a *agent.Agent) AgentState {
	st := AgentState{
		ID:             a.ID(),
		Kind:           a.Kind().String(),
		TargetPosition: a.State.TargetPosition(),
		Active:         a.State.IsActive(),
	}
	st.Target, _ = a.State.Target()
	if p := a.Personality(); p != nil {
		t := p.Traits()
		st.Traits = &t
		if b, ok := p.(*neural.Brain); ok {
			w := b.Net.MarshalWeights()
			st.Brain = &w
		}
	}
	for _, seg := range a.Segments() {
		ss := SegmentState{
			Parent:       -1,
			Shape:        seg.Mesh.Shape.Kind.String(),
			Radius:       seg.Radius(),
			Position:     seg.Position(),
			Angle:        seg.Angle(),
			Flags:        seg.Flags,
			Charge:       seg.State.Charge(),
			TargetCharge: seg.State.TargetCharge(),
			Intent:       seg.State.Intent.Kind.String(),
			Force:        seg.State.Intent.Force,
		}
		if at := seg.AttachedTo; at != nil {
			ss.Parent, ss.Vertex = at.Index, at.Point
		}
		st.Segments = append(st.Segments, ss)
	}
	return st
}

// SaveSnapshot writes a zstd-compressed JSON snapshot into dir and returns
// its path.
func SaveSnapshot(snapshot *Snapshot, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create snapshot dir: %w", err)
	}

	name := fmt.Sprintf("snapshot_%d", snapshot.Tick)
	if snapshot.Bookmark != nil {
		sanitized := strings.ReplaceAll(string(snapshot.Bookmark.Type), " ", "_")
		name = fmt.Sprintf("snapshot_%d_%s", snapshot.Tick, sanitized)
	}
	path := filepath.Join(dir, name+".json.zst")

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create snapshot: %w", err)
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return "", fmt.Errorf("zstd writer: %w", err)
	}
	bw := bufio.NewWriter(enc)
	if err := json.NewEncoder(bw).Encode(snapshot); err != nil {
		enc.Close()
		return "", fmt.Errorf("encode snapshot: %w", err)
	}
	if err := bw.Flush(); err != nil {
		enc.Close()
		return "", fmt.Errorf("flush snapshot: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("close zstd stream: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close snapshot: %w", err)
	}
	return path, nil
}

// LoadSnapshot reads a snapshot written by SaveSnapshot.
func LoadSnapshot(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("zstd reader: %w", err)
	}
	defer dec.Close()

	var snapshot Snapshot
	if err := json.NewDecoder(bufio.NewReader(dec)).Decode(&snapshot); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if snapshot.Version != SnapshotVersion {
		return nil, fmt.Errorf("snapshot version %d, want %d", snapshot.Version, SnapshotVersion)
	}
	return &snapshot, nil
}

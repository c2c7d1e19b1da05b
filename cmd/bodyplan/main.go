// Bodyplan prints the segment tree of freshly spawned agents.
//
// Usage: go run ./cmd/bodyplan -seed 7 -kind minion
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/pthm-cable/oids/agent"
	"github.com/pthm-cable/oids/neural"
	"github.com/pthm-cable/oids/telemetry"
	"github.com/pthm-cable/oids/world"
	"gonum.org/v1/gonum/spatial/r2"
)

func main() {
	seed := flag.Int64("seed", 1, "RNG seed")
	kind := flag.String("kind", "minion", "Agent kind: minion or resource")
	count := flag.Int("n", 1, "Number of agents to spawn")
	asJSON := flag.Bool("json", false, "Print snapshot JSON instead of a table")
	flag.Parse()

	if err := run(os.Stdout, *seed, *kind, *count, *asJSON); err != nil {
		slog.Error("bodyplan failed", "error", err)
		os.Exit(1)
	}
}

func run(out io.Writer, seed int64, kind string, count int, asJSON bool) error {
	opts := world.DefaultOptions()
	opts.Flock.Personality = neural.Factory(neural.DefaultTraitRanges())
	w := world.New(rand.New(rand.NewSource(seed)), opts)

	for i := 0; i < count; i++ {
		pos := r2.Vec{X: 100 * float64(i)}
		switch kind {
		case "minion":
			w.NewMinion(pos)
		case "resource":
			w.NewResource(pos)
		default:
			return fmt.Errorf("unknown kind %q", kind)
		}
	}

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(telemetry.Capture(w, seed, 0).Agents); err != nil {
			return fmt.Errorf("encode agents: %w", err)
		}
		return nil
	}

	for _, f := range w.Flocks() {
		for id, a := range f.All() {
			printAgent(out, id, a)
		}
	}
	return nil
}

func printAgent(out io.Writer, id agent.ID, a *agent.Agent) {
	fmt.Fprintf(out, "%s %d", a.Kind(), id)
	if p := a.Personality(); p != nil {
		tr := p.Traits()
		fmt.Fprintf(out, "  hunger=%.2f haste=%.2f prudence=%.2f fear=%.2f rest=%.2f thrust=%.2f",
			tr.Hunger, tr.Haste, tr.Prudence, tr.Fear, tr.Rest, tr.Thrust)
	}
	fmt.Fprintln(out)

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "seg\tparent\tvertex\tshape\tradius\tangle\tflags")
	segments := a.Segments()
	for i := range segments {
		s := &segments[i]
		parent, vertex := "-", "-"
		depth := 0
		if at := s.AttachedTo; at != nil {
			parent, vertex = fmt.Sprint(at.Index), fmt.Sprint(at.Point)
			depth = depthOf(segments, i)
		}
		fmt.Fprintf(tw, "%s%d\t%s\t%s\t%s\t%.2f\t%.0f°\t%s\n",
			strings.Repeat("  ", depth), i, parent, vertex,
			s.Mesh.Shape.Kind, s.Radius(), s.Angle()*180/math.Pi, s.Flags)
	}
	tw.Flush()
	fmt.Fprintln(out)
}

// depthOf counts attachments between segment i and the root.
func depthOf(segments []agent.Segment, i int) int {
	d := 0
	for segments[i].AttachedTo != nil {
		i = segments[i].AttachedTo.Index
		d++
	}
	return d
}

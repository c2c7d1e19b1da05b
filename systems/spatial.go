package systems

import (
	"math"

	"github.com/pthm-cable/oids/agent"
	"github.com/pthm-cable/oids/geometry"
	"gonum.org/v1/gonum/spatial/r2"
)

// SpatialGrid buckets target ids by position for radius lookups.
// Positions outside the bounds are clamped into the border cells.
type SpatialGrid struct {
	cellSize float64
	cols     int
	rows     int
	origin   r2.Vec
	cells    [][]agent.ID
}

// NewSpatialGrid creates a grid covering bounds.
func NewSpatialGrid(bounds geometry.Rect, cellSize float64) *SpatialGrid {
	size := r2.Sub(bounds.Max, bounds.Min)
	cols := int(size.X/cellSize) + 1
	rows := int(size.Y/cellSize) + 1

	cells := make([][]agent.ID, cols*rows)
	for i := range cells {
		cells[i] = make([]agent.ID, 0, 8)
	}

	return &SpatialGrid{
		cellSize: cellSize,
		cols:     cols,
		rows:     rows,
		origin:   bounds.Min,
		cells:    cells,
	}
}

// NewCappedSpatialGrid creates a grid covering bounds with at most maxCells
// cells, coarsening cellSize when the bounds are wide. It returns nil when
// the bounds are not finite.
func NewCappedSpatialGrid(bounds geometry.Rect, cellSize float64, maxCells int) *SpatialGrid {
	size := r2.Sub(bounds.Max, bounds.Min)
	if !isFinite(size.X) || !isFinite(size.Y) || size.X < 0 || size.Y < 0 {
		return nil
	}
	side := max(int(math.Sqrt(float64(maxCells))), 2)
	if float64(side-1)*cellSize < max(size.X, size.Y) {
		cellSize = max(size.X, size.Y) / float64(side-1)
	}
	return NewSpatialGrid(bounds, cellSize)
}

// Cells returns the number of cells in the grid.
func (g *SpatialGrid) Cells() int { return g.cols * g.rows }

// Clear removes all ids from the grid.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i] = g.cells[i][:0]
	}
}

// Insert adds an id at the given position.
func (g *SpatialGrid) Insert(id agent.ID, p r2.Vec) {
	col, row := g.cell(p)
	idx := row*g.cols + col
	g.cells[idx] = append(g.cells[idx], id)
}

// QueryRadiusInto appends every id whose position, looked up in positions,
// is strictly closer to p than radius.
func (g *SpatialGrid) QueryRadiusInto(dst []agent.ID, p r2.Vec, radius float64, positions map[agent.ID]r2.Vec) []agent.ID {
	minCol, minRow := g.cell(r2.Sub(p, r2.Vec{X: radius, Y: radius}))
	maxCol, maxRow := g.cell(r2.Add(p, r2.Vec{X: radius, Y: radius}))
	radiusSq := radius * radius

	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			for _, id := range g.cells[row*g.cols+col] {
				q, ok := positions[id]
				if !ok {
					continue
				}
				if r2.Norm2(r2.Sub(q, p)) < radiusSq {
					dst = append(dst, id)
				}
			}
		}
	}
	return dst
}

// cell returns the clamped column and row containing p.
func (g *SpatialGrid) cell(p r2.Vec) (int, int) {
	col := clampIndex(int(math.Floor((p.X-g.origin.X)/g.cellSize)), g.cols)
	row := clampIndex(int(math.Floor((p.Y-g.origin.Y)/g.cellSize)), g.rows)
	return col, row
}

func isFinite(x float64) bool {
	return !math.IsInf(x, 0) && !math.IsNaN(x)
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

package gridnav

import (
	"math"

	"github.com/lixenwraith/pathplan/core"
	"github.com/lixenwraith/pathplan/navigation"
)

// ClearanceView is a grid view for agents wider than one cell
// A cell is open iff the agent's full square footprint, centered on it,
// fits inside the grid and contains no walls; flow fields computed over the
// view never route a fat agent through a gap it cannot fit
type ClearanceView struct {
	grid      *Grid
	footprint int // Footprint side length in cells, always odd
	valid     []bool
}

// ClearanceView derives a footprint-aware view for the given agent radius
// Radii at or below half a cell return a view equivalent to the base grid
func (g *Grid) ClearanceView(agentRadius float64) *ClearanceView {
	footprint := 2*int(math.Ceil(agentRadius/g.cellSize-0.5)) + 1
	if footprint < 1 {
		footprint = 1
	}
	v := &ClearanceView{
		grid:      g,
		footprint: footprint,
		valid:     make([]bool, g.cols*g.rows),
	}
	v.Recompute()
	return v
}

// Recompute rebuilds footprint validity from current wall state
// Callers invoke it after topology changes
func (v *ClearanceView) Recompute() {
	for y := 0; y < v.grid.rows; y++ {
		for x := 0; x < v.grid.cols; x++ {
			v.valid[y*v.grid.cols+x] = v.canOccupy(x, y)
		}
	}
}

// canOccupy checks the full footprint centered at (x,y)
func (v *ClearanceView) canOccupy(x, y int) bool {
	half := v.footprint / 2
	if x-half < 0 || y-half < 0 || x+half >= v.grid.cols || y+half >= v.grid.rows {
		return false
	}
	for dy := -half; dy <= half; dy++ {
		for dx := -half; dx <= half; dx++ {
			if !v.grid.walkable[v.grid.index(x+dx, y+dy)] {
				return false
			}
		}
	}
	return true
}

// --- navigation.NavGrid ---

func (v *ClearanceView) GridSize() (w, h int) {
	return v.grid.cols, v.grid.rows
}

func (v *ClearanceView) CellFromPosition(p core.Vec3) (core.Point, bool) {
	return v.grid.CellFromPosition(p)
}

func (v *ClearanceView) PositionFromCell(c core.Point) core.Vec3 {
	return v.grid.PositionFromCell(c)
}

// Blocked reports whether the footprint cannot occupy the cell
func (v *ClearanceView) Blocked(x, y int) bool {
	if !v.grid.inBounds(x, y) {
		return true
	}
	return !v.valid[v.grid.index(x, y)]
}

func (v *ClearanceView) AreaAt(x, y int) uint32 {
	return v.grid.AreaAt(x, y)
}

func (v *ClearanceView) DensityAt(x, y int) float64 {
	return v.grid.DensityAt(x, y)
}

var _ navigation.NavGrid = (*ClearanceView)(nil)

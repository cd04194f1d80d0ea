// Package gridnav provides a grid-backed navigation service implementing
// the collaborator interfaces consumed by the planning service: a node
// graph over walkable cells, world/cell coordinate mapping, position
// sampling, direct corridor queries, and a crowd-density layer.
package gridnav

import (
	"math"

	"github.com/lixenwraith/pathplan/core"
	"github.com/lixenwraith/pathplan/maze"
	"github.com/lixenwraith/pathplan/navigation"
)

// neighborOffsets holds 8-connected steps with unit costs
// Cardinals first so BFS-based queries prefer straight corridors
var neighborOffsets = [8]struct {
	dx, dy   int
	cost     float64
	diagonal bool
}{
	{0, -1, 1, false},
	{1, 0, 1, false},
	{0, 1, 1, false},
	{-1, 0, 1, false},
	{1, -1, math.Sqrt2, true},
	{1, 1, math.Sqrt2, true},
	{-1, 1, math.Sqrt2, true},
	{-1, -1, math.Sqrt2, true},
}

// Grid is a cols×rows navigation world on the X/Z plane
// Cell (0,0) spans world [0,cellSize)×[0,cellSize); cell centers sit at
// half-cell offsets with elevation 0
type Grid struct {
	cols, rows int
	cellSize   float64

	walkable []bool
	area     []uint32
	density  []float64
}

// New creates an all-walkable grid of the given dimensions
// Every cell starts in area class 1 with zero density
func New(cols, rows int, cellSize float64) *Grid {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	if cellSize <= 0 {
		cellSize = 1
	}
	size := cols * rows
	g := &Grid{
		cols:     cols,
		rows:     rows,
		cellSize: cellSize,
		walkable: make([]bool, size),
		area:     make([]uint32, size),
		density:  make([]float64, size),
	}
	for i := 0; i < size; i++ {
		g.walkable[i] = true
		g.area[i] = 1
	}
	return g
}

// FromMaze builds a grid from a generated maze, walls blocked
func FromMaze(res maze.Result, cellSize float64) *Grid {
	rows := len(res.Grid)
	cols := len(res.Grid[0])
	g := New(cols, rows, cellSize)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			if res.Grid[y][x] == maze.Wall {
				g.walkable[y*cols+x] = false
			}
		}
	}
	return g
}

// Size returns grid dimensions in cells
func (g *Grid) Size() (cols, rows int) {
	return g.cols, g.rows
}

// CellSize returns the world-unit extent of one cell
func (g *Grid) CellSize() float64 {
	return g.cellSize
}

func (g *Grid) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.cols && y < g.rows
}

func (g *Grid) index(x, y int) int {
	return y*g.cols + x
}

// SetBlocked toggles walkability of one cell
func (g *Grid) SetBlocked(x, y int, blocked bool) {
	if g.inBounds(x, y) {
		g.walkable[g.index(x, y)] = !blocked
	}
}

// SetArea assigns the area class bits of one cell
func (g *Grid) SetArea(x, y int, area uint32) {
	if g.inBounds(x, y) {
		g.area[g.index(x, y)] = area
	}
}

// SetDensity replaces the crowd density at one cell
func (g *Grid) SetDensity(x, y int, d float64) {
	if g.inBounds(x, y) {
		g.density[g.index(x, y)] = d
	}
}

// AddDensity accumulates crowd density at one cell, clamped at zero
func (g *Grid) AddDensity(x, y int, delta float64) {
	if !g.inBounds(x, y) {
		return
	}
	idx := g.index(x, y)
	g.density[idx] += delta
	if g.density[idx] < 0 {
		g.density[idx] = 0
	}
}

// ClearDensity zeroes the whole density layer
func (g *Grid) ClearDensity() {
	for i := range g.density {
		g.density[i] = 0
	}
}

func (g *Grid) passable(x, y int, areaMask uint32) bool {
	if !g.inBounds(x, y) {
		return false
	}
	idx := g.index(x, y)
	return g.walkable[idx] && g.area[idx]&areaMask != 0
}

// canCutCorner reports whether a diagonal step from (x,y) is traversable:
// both flanking cardinals must be open
func (g *Grid) canCutCorner(x, y, dx, dy int, areaMask uint32) bool {
	return g.passable(x+dx, y, areaMask) && g.passable(x, y+dy, areaMask)
}

// --- navigation.NavGraph ---

// NodeCount returns the flat cell count; blocked cells are valid IDs with
// no out-edges
func (g *Grid) NodeCount() int {
	return g.cols * g.rows
}

// Neighbors appends the out-edges of n traversable under areaMask to buf
func (g *Grid) Neighbors(n navigation.NodeID, areaMask uint32, buf []navigation.Neighbor) []navigation.Neighbor {
	x := int(n) % g.cols
	y := int(n) / g.cols
	if !g.passable(x, y, areaMask) {
		return buf
	}

	for _, off := range neighborOffsets {
		nx, ny := x+off.dx, y+off.dy
		if !g.passable(nx, ny, areaMask) {
			continue
		}
		if off.diagonal && !g.canCutCorner(x, y, off.dx, off.dy, areaMask) {
			continue
		}
		buf = append(buf, navigation.Neighbor{
			To:     navigation.NodeID(g.index(nx, ny)),
			Length: off.cost * g.cellSize,
		})
	}
	return buf
}

// NodePosition returns the world-space cell center
func (g *Grid) NodePosition(n navigation.NodeID) core.Vec3 {
	x := int(n) % g.cols
	y := int(n) / g.cols
	return g.PositionFromCell(core.Point{X: x, Y: y})
}

// LocateNode resolves a world position to its cell node
// Strict: blocked cells and area-mask mismatches fail rather than snap
func (g *Grid) LocateNode(p core.Vec3, areaMask uint32) (navigation.NodeID, bool) {
	c, ok := g.CellFromPosition(p)
	if !ok {
		return navigation.NodeInvalid, false
	}
	if !g.passable(c.X, c.Y, areaMask) {
		return navigation.NodeInvalid, false
	}
	return navigation.NodeID(g.index(c.X, c.Y)), true
}

// EdgeDensity averages the densities of an edge's endpoints
func (g *Grid) EdgeDensity(from, to navigation.NodeID) float64 {
	return (g.density[from] + g.density[to]) / 2
}

// --- navigation.NavGrid ---

// GridSize returns dimensions for flow field sizing
func (g *Grid) GridSize() (w, h int) {
	return g.cols, g.rows
}

// CellFromPosition quantizes a world position to its containing cell
func (g *Grid) CellFromPosition(p core.Vec3) (core.Point, bool) {
	x := int(math.Floor(p.X / g.cellSize))
	y := int(math.Floor(p.Z / g.cellSize))
	if !g.inBounds(x, y) {
		return core.Point{}, false
	}
	return core.Point{X: x, Y: y}, true
}

// PositionFromCell returns the world-space center of a cell
func (g *Grid) PositionFromCell(c core.Point) core.Vec3 {
	return core.Vec3{
		X: (float64(c.X) + 0.5) * g.cellSize,
		Z: (float64(c.Y) + 0.5) * g.cellSize,
	}
}

// Blocked reports whether a cell blocks navigation
// Out-of-bounds cells block
func (g *Grid) Blocked(x, y int) bool {
	if !g.inBounds(x, y) {
		return true
	}
	return !g.walkable[g.index(x, y)]
}

// AreaAt returns the area class bits of a cell; 0 out of bounds
func (g *Grid) AreaAt(x, y int) uint32 {
	if !g.inBounds(x, y) {
		return 0
	}
	return g.area[g.index(x, y)]
}

// DensityAt samples the crowd density at a cell
func (g *Grid) DensityAt(x, y int) float64 {
	if !g.inBounds(x, y) {
		return 0
	}
	return g.density[g.index(x, y)]
}

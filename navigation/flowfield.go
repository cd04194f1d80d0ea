package navigation

import (
	"math"

	"github.com/lixenwraith/pathplan/core"
)

// Direction constants for flow field cells
// Index into DirVectors: N=0, NE=1, E=2, SE=3, S=4, SW=5, W=6, NW=7
const (
	DirNone   int8 = -1 // Blocked or unreachable
	DirTarget int8 = -2 // At goal cell
	DirCount  int8 = 8
)

// DirVectors holds grid steps in direction index order N through NW
var DirVectors = [8][2]int{
	{0, -1}, {1, -1}, {1, 0}, {1, 1},
	{0, 1}, {-1, 1}, {-1, 0}, {-1, -1},
}

const (
	costCardinal    = 1.0
	costDiagonal    = math.Sqrt2
	costUnreachable = math.MaxFloat64
)

// Per-direction step costs matching DirVectors index order
var dirCosts = [8]float64{
	costCardinal, costDiagonal, costCardinal, costDiagonal,
	costCardinal, costDiagonal, costCardinal, costDiagonal,
}

// FlowField stores precomputed directions toward one goal cell, shared by
// every agent flowing to that goal
type FlowField struct {
	Width, Height int
	Directions    []int8    // Per-cell direction index, DirNone if blocked
	Distances     []float64 // Weighted distance from goal

	Goal  core.Point // Goal cell this field was computed for
	Valid bool       // False until Compute succeeds

	// Reusable open set across recomputes
	heap *BinaryHeap[int]
}

// NewFlowField creates an empty field for the given dimensions
func NewFlowField(width, height int) *FlowField {
	size := width * height
	return &FlowField{
		Width:      width,
		Height:     height,
		Directions: make([]int8, size),
		Distances:  make([]float64, size),
		Goal:       core.Point{X: -1, Y: -1},
		heap:       NewBinaryHeap[int](size / 4),
	}
}

// Invalidate marks the field for recomputation
func (f *FlowField) Invalidate() {
	f.Valid = false
}

// DirectionAt returns the flow direction at a cell, DirNone if invalid or blocked
func (f *FlowField) DirectionAt(x, y int) int8 {
	if !f.Valid || x < 0 || y < 0 || x >= f.Width || y >= f.Height {
		return DirNone
	}
	return f.Directions[y*f.Width+x]
}

// DistanceAt returns the weighted distance from goal, -1 if unreachable
func (f *FlowField) DistanceAt(x, y int) float64 {
	if !f.Valid || x < 0 || y < 0 || x >= f.Width || y >= f.Height {
		return -1
	}
	d := f.Distances[y*f.Width+x]
	if d >= costUnreachable {
		return -1
	}
	return d
}

// Compute runs weighted Dijkstra from the goal cell and derives per-cell
// directions by steepest descent on the distance gradient
// Cells blocked or outside areaMask are untraversable; they stay at
// DirNone/unreachable and never carry flow
//
// Edge weight = step cost (cardinal 1, diagonal √2) + densityMult × cell
// density, so crowded cells repel flow the same way they repel graph search
func (f *FlowField) Compute(goal core.Point, grid NavGrid, areaMask uint32, densityMult float64) {
	closed := func(x, y int) bool {
		return grid.Blocked(x, y) || grid.AreaAt(x, y)&areaMask == 0
	}

	if goal.X < 0 || goal.Y < 0 || goal.X >= f.Width || goal.Y >= f.Height {
		f.Valid = false
		return
	}
	if closed(goal.X, goal.Y) {
		f.Valid = false
		return
	}

	size := f.Width * f.Height
	w := f.Width

	for i := 0; i < size; i++ {
		f.Directions[i] = DirNone
		f.Distances[i] = costUnreachable
	}

	// Phase 1: weighted Dijkstra outward from the goal
	goalIdx := goal.Y*w + goal.X
	f.Distances[goalIdx] = 0

	f.heap.Clear()
	f.heap.Push(0, goalIdx)

	for f.heap.Count() > 0 {
		idx, dist := f.heap.Pop()
		if dist > f.Distances[idx] {
			continue // Stale entry
		}

		cx := idx % w
		cy := idx / w

		for d := int8(0); d < DirCount; d++ {
			nx := cx + DirVectors[d][0]
			ny := cy + DirVectors[d][1]

			if nx < 0 || ny < 0 || nx >= f.Width || ny >= f.Height {
				continue
			}
			if closed(nx, ny) {
				continue
			}

			// Diagonal corner cutting prevention
			if DirVectors[d][0] != 0 && DirVectors[d][1] != 0 {
				if closed(cx+DirVectors[d][0], cy) || closed(cx, cy+DirVectors[d][1]) {
					continue
				}
			}

			step := dirCosts[d]
			if densityMult != 0 {
				step += densityMult * grid.DensityAt(nx, ny)
			}

			nIdx := ny*w + nx
			newDist := dist + step
			if newDist < f.Distances[nIdx] {
				f.Distances[nIdx] = newDist
				f.heap.Push(newDist, nIdx)
			}
		}
	}

	// Phase 2: per-cell steepest descent toward the goal
	f.Directions[goalIdx] = DirTarget

	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			idx := y*w + x
			dist := f.Distances[idx]
			if dist >= costUnreachable || dist == 0 {
				continue
			}

			bestDir := DirNone
			bestDist := dist

			for d := int8(0); d < DirCount; d++ {
				nx := x + DirVectors[d][0]
				ny := y + DirVectors[d][1]

				if nx < 0 || ny < 0 || nx >= f.Width || ny >= f.Height {
					continue
				}

				nDist := f.Distances[ny*w+nx]
				if nDist >= bestDist {
					continue
				}

				// Never point into an uncuttable corner
				if DirVectors[d][0] != 0 && DirVectors[d][1] != 0 {
					if closed(x+DirVectors[d][0], y) || closed(x, y+DirVectors[d][1]) {
						continue
					}
				}

				bestDist = nDist
				bestDir = d
			}

			f.Directions[idx] = bestDir
		}
	}

	f.Goal = goal
	f.Valid = true
}
